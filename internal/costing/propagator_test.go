package costing

import (
	"context"
	"fmt"
	"io"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/rakaputra/warungpos-backend/internal/events"
	"github.com/rakaputra/warungpos-backend/pkg/db/models"
	"github.com/rakaputra/warungpos-backend/pkg/enums"
	"github.com/rakaputra/warungpos-backend/pkg/logger"
)

func setupCostingTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	statements := []string{
		`CREATE TABLE IF NOT EXISTS suppliers (
  id TEXT PRIMARY KEY,
  name TEXT NOT NULL,
  contact_name TEXT,
  phone TEXT,
  email TEXT,
  address TEXT,
  created_at DATETIME,
  updated_at DATETIME
);`,
		`CREATE TABLE IF NOT EXISTS items (
  id TEXT PRIMARY KEY,
  supplier_id TEXT,
  name TEXT NOT NULL,
  unit TEXT NOT NULL DEFAULT 'pcs',
  last_cost TEXT NOT NULL DEFAULT '0',
  cost_updated_at DATETIME,
  created_at DATETIME,
  updated_at DATETIME
);`,
		`CREATE TABLE IF NOT EXISTS products (
  id TEXT PRIMARY KEY,
  category_id TEXT,
  sku TEXT NOT NULL,
  name TEXT NOT NULL,
  description TEXT,
  price_cents INTEGER NOT NULL DEFAULT 0,
  cost_per_unit TEXT NOT NULL DEFAULT '0',
  costing_method TEXT NOT NULL DEFAULT 'latest',
  cost_updated_at DATETIME,
  tags TEXT,
  is_active INTEGER NOT NULL DEFAULT 1,
  created_at DATETIME,
  updated_at DATETIME
);`,
		`CREATE TABLE IF NOT EXISTS product_components (
  id TEXT PRIMARY KEY,
  product_id TEXT NOT NULL,
  item_id TEXT NOT NULL,
  qty_per_unit TEXT NOT NULL,
  created_at DATETIME
);`,
		`CREATE TABLE IF NOT EXISTS purchase_orders (
  id TEXT PRIMARY KEY,
  number TEXT NOT NULL,
  supplier_id TEXT NOT NULL,
  status TEXT NOT NULL DEFAULT 'draft',
  purchase_date DATETIME NOT NULL,
  notes TEXT,
  created_at DATETIME,
  updated_at DATETIME
);`,
		`CREATE TABLE IF NOT EXISTS purchase_lines (
  id TEXT PRIMARY KEY,
  purchase_order_id TEXT NOT NULL,
  item_id TEXT NOT NULL,
  qty TEXT NOT NULL,
  unit_cost TEXT NOT NULL,
  total_cost TEXT NOT NULL,
  created_at DATETIME,
  updated_at DATETIME
);`,
	}
	for _, stmt := range statements {
		require.NoError(t, db.Exec(stmt).Error)
	}
	return db
}

func newPropagator(t *testing.T, db *gorm.DB) (Propagator, Repository) {
	t.Helper()
	repo := NewRepository(db)
	logg := logger.New(logger.Options{Level: zerolog.Disabled, Output: io.Discard})
	prop, err := NewPropagator(repo, logg, nil)
	require.NoError(t, err)
	return prop, repo
}

func seedItem(t *testing.T, db *gorm.DB, name string, lastCost decimal.Decimal) *models.Item {
	t.Helper()
	item := &models.Item{ID: uuid.New(), Name: name, Unit: "pcs", LastCost: lastCost}
	require.NoError(t, db.Create(item).Error)
	return item
}

func seedPurchase(t *testing.T, db *gorm.DB, itemID uuid.UUID, date time.Time, qty, unitCost int64) *models.PurchaseLine {
	t.Helper()
	po := &models.PurchaseOrder{
		ID:           uuid.New(),
		Number:       "PO-" + uuid.NewString()[:8],
		SupplierID:   uuid.New(),
		Status:       enums.PurchaseStatusReceived,
		PurchaseDate: date,
	}
	require.NoError(t, db.Create(po).Error)

	line := &models.PurchaseLine{
		ID:              uuid.New(),
		PurchaseOrderID: po.ID,
		ItemID:          itemID,
		Qty:             decimal.NewFromInt(qty),
		UnitCost:        decimal.NewFromInt(unitCost),
		TotalCost:       decimal.NewFromInt(qty * unitCost),
		CreatedAt:       date,
	}
	require.NoError(t, db.Create(line).Error)
	return line
}

func seedProduct(t *testing.T, db *gorm.DB, name string, method enums.CostingMethod, components map[uuid.UUID]int64) *models.Product {
	t.Helper()
	product := &models.Product{
		ID:            uuid.New(),
		SKU:           "SKU-" + uuid.NewString()[:8],
		Name:          name,
		CostingMethod: method,
	}
	require.NoError(t, db.Create(product).Error)
	for itemID, qty := range components {
		require.NoError(t, db.Create(&models.ProductComponent{
			ID:         uuid.New(),
			ProductID:  product.ID,
			ItemID:     itemID,
			QtyPerUnit: decimal.NewFromInt(qty),
		}).Error)
	}
	return product
}

func TestLatestPurchaseCostOrdering(t *testing.T) {
	db := setupCostingTestDB(t)
	_, repo := newPropagator(t, db)
	ctx := context.Background()

	item := seedItem(t, db, "Kopi Bubuk", decimal.Zero)
	older := time.Date(2025, 8, 1, 0, 0, 0, 0, time.UTC)
	newer := time.Date(2025, 8, 10, 0, 0, 0, 0, time.UTC)
	seedPurchase(t, db, item.ID, older, 10, 45)
	seedPurchase(t, db, item.ID, newer, 5, 50)

	cost, err := repo.LatestPurchaseCost(ctx, item.ID)
	require.NoError(t, err)
	require.True(t, cost.Equal(decimal.NewFromInt(50)), "got %s", cost)
}

func TestLatestPurchaseCostNoHistory(t *testing.T) {
	db := setupCostingTestDB(t)
	_, repo := newPropagator(t, db)

	item := seedItem(t, db, "Gula", decimal.Zero)
	_, err := repo.LatestPurchaseCost(context.Background(), item.ID)
	require.ErrorIs(t, err, ErrNoPurchaseHistory)
}

func TestWeightedAverageCost(t *testing.T) {
	db := setupCostingTestDB(t)
	_, repo := newPropagator(t, db)
	ctx := context.Background()

	item := seedItem(t, db, "Susu", decimal.Zero)
	day := time.Date(2025, 8, 1, 0, 0, 0, 0, time.UTC)
	seedPurchase(t, db, item.ID, day, 10, 40)
	seedPurchase(t, db, item.ID, day.AddDate(0, 0, 1), 30, 60)

	// (10*40 + 30*60) / 40 = 55
	cost, err := repo.WeightedAverageCost(ctx, item.ID)
	require.NoError(t, err)
	require.True(t, cost.Equal(decimal.NewFromInt(55)), "got %s", cost)
}

func TestPropagateFansOutToProducts(t *testing.T) {
	db := setupCostingTestDB(t)
	prop, _ := newPropagator(t, db)
	ctx := context.Background()

	flour := seedItem(t, db, "Tepung", decimal.Zero)
	sugar := seedItem(t, db, "Gula", decimal.Zero)
	day := time.Date(2025, 8, 10, 0, 0, 0, 0, time.UTC)
	seedPurchase(t, db, flour.ID, day, 10, 50)
	seedPurchase(t, db, sugar.ID, day, 10, 10)

	// P1 = 2 x flour, P2 = 1 x flour + 3 x sugar
	p1 := seedProduct(t, db, "Roti", enums.CostingMethodLatest, map[uuid.UUID]int64{flour.ID: 2})
	p2 := seedProduct(t, db, "Donat", enums.CostingMethodLatest, map[uuid.UUID]int64{flour.ID: 1, sugar.ID: 3})
	untouched := seedProduct(t, db, "Teh", enums.CostingMethodLatest, map[uuid.UUID]int64{sugar.ID: 1})

	require.NoError(t, prop.Propagate(ctx, flour.ID))

	var got models.Item
	require.NoError(t, db.First(&got, "id = ?", flour.ID).Error)
	require.True(t, got.LastCost.Equal(decimal.NewFromInt(50)))
	require.NotNil(t, got.CostUpdatedAt)

	var gotP1, gotP2, gotUntouched models.Product
	require.NoError(t, db.First(&gotP1, "id = ?", p1.ID).Error)
	require.NoError(t, db.First(&gotP2, "id = ?", p2.ID).Error)
	require.NoError(t, db.First(&gotUntouched, "id = ?", untouched.ID).Error)

	require.True(t, gotP1.CostPerUnit.Equal(decimal.NewFromInt(100)), "got %s", gotP1.CostPerUnit)
	require.True(t, gotP2.CostPerUnit.Equal(decimal.NewFromInt(80)), "got %s", gotP2.CostPerUnit)
	// product not containing the item keeps its stale cost
	require.True(t, gotUntouched.CostPerUnit.IsZero())
}

func TestPropagateSkipsWithoutHistory(t *testing.T) {
	db := setupCostingTestDB(t)
	prop, _ := newPropagator(t, db)
	ctx := context.Background()

	item := seedItem(t, db, "Keju", decimal.NewFromInt(123))
	product := seedProduct(t, db, "Pizza", enums.CostingMethodLatest, map[uuid.UUID]int64{item.ID: 1})

	require.NoError(t, prop.Propagate(ctx, item.ID))

	// no zero/garbage writes anywhere
	var gotItem models.Item
	require.NoError(t, db.First(&gotItem, "id = ?", item.ID).Error)
	require.True(t, gotItem.LastCost.Equal(decimal.NewFromInt(123)))
	require.Nil(t, gotItem.CostUpdatedAt)

	var gotProduct models.Product
	require.NoError(t, db.First(&gotProduct, "id = ?", product.ID).Error)
	require.True(t, gotProduct.CostPerUnit.IsZero())
	require.Nil(t, gotProduct.CostUpdatedAt)
}

func TestPropagateSkipsProductWithUnresolvableComponent(t *testing.T) {
	db := setupCostingTestDB(t)
	prop, _ := newPropagator(t, db)
	ctx := context.Background()

	flour := seedItem(t, db, "Tepung", decimal.Zero)
	ghost := seedItem(t, db, "Hantu", decimal.Zero) // never purchased, no stored cost
	day := time.Date(2025, 8, 10, 0, 0, 0, 0, time.UTC)
	seedPurchase(t, db, flour.ID, day, 10, 50)

	healthy := seedProduct(t, db, "Roti", enums.CostingMethodLatest, map[uuid.UUID]int64{flour.ID: 2})
	broken := seedProduct(t, db, "Misteri", enums.CostingMethodLatest, map[uuid.UUID]int64{flour.ID: 1, ghost.ID: 1})

	require.NoError(t, prop.Propagate(ctx, flour.ID))

	var gotHealthy, gotBroken models.Product
	require.NoError(t, db.First(&gotHealthy, "id = ?", healthy.ID).Error)
	require.NoError(t, db.First(&gotBroken, "id = ?", broken.ID).Error)
	require.True(t, gotHealthy.CostPerUnit.Equal(decimal.NewFromInt(100)))
	require.True(t, gotBroken.CostPerUnit.IsZero())
}

func TestComponentFallsBackToStoredCost(t *testing.T) {
	db := setupCostingTestDB(t)
	prop, _ := newPropagator(t, db)
	ctx := context.Background()

	flour := seedItem(t, db, "Tepung", decimal.Zero)
	day := time.Date(2025, 8, 10, 0, 0, 0, 0, time.UTC)
	seedPurchase(t, db, flour.ID, day, 10, 50)

	// never purchased, but carries a manually maintained stored cost
	now := time.Now()
	butter := &models.Item{ID: uuid.New(), Name: "Mentega", Unit: "pcs", LastCost: decimal.NewFromInt(20), CostUpdatedAt: &now}
	require.NoError(t, db.Create(butter).Error)

	product := seedProduct(t, db, "Croissant", enums.CostingMethodLatest, map[uuid.UUID]int64{flour.ID: 1, butter.ID: 2})

	require.NoError(t, prop.Propagate(ctx, flour.ID))

	var got models.Product
	require.NoError(t, db.First(&got, "id = ?", product.ID).Error)
	require.True(t, got.CostPerUnit.Equal(decimal.NewFromInt(90)), "got %s", got.CostPerUnit)
}

func TestWeightedAverageMethodUsedForProduct(t *testing.T) {
	db := setupCostingTestDB(t)
	prop, _ := newPropagator(t, db)
	ctx := context.Background()

	milk := seedItem(t, db, "Susu", decimal.Zero)
	day := time.Date(2025, 8, 1, 0, 0, 0, 0, time.UTC)
	seedPurchase(t, db, milk.ID, day, 10, 40)
	seedPurchase(t, db, milk.ID, day.AddDate(0, 0, 1), 30, 60)

	product := seedProduct(t, db, "Latte", enums.CostingMethodWeightedAverage, map[uuid.UUID]int64{milk.ID: 2})

	require.NoError(t, prop.Propagate(ctx, milk.ID))

	var got models.Product
	require.NoError(t, db.First(&got, "id = ?", product.ID).Error)
	// 2 x weighted mean 55 = 110
	require.True(t, got.CostPerUnit.Equal(decimal.NewFromInt(110)), "got %s", got.CostPerUnit)
}

type stubCostingRepo struct {
	latestCost decimal.Decimal
	products   []models.Product

	attempted   []uuid.UUID
	written     []uuid.UUID
	failProduct uuid.UUID
}

func (s *stubCostingRepo) WithTx(tx *gorm.DB) Repository {
	return s
}

func (s *stubCostingRepo) LatestPurchaseCost(ctx context.Context, itemID uuid.UUID) (decimal.Decimal, error) {
	return s.latestCost, nil
}

func (s *stubCostingRepo) WeightedAverageCost(ctx context.Context, itemID uuid.UUID) (decimal.Decimal, error) {
	return s.latestCost, nil
}

func (s *stubCostingRepo) FindItem(ctx context.Context, itemID uuid.UUID) (*models.Item, error) {
	return &models.Item{ID: itemID}, nil
}

func (s *stubCostingRepo) UpdateItemCost(ctx context.Context, itemID uuid.UUID, cost decimal.Decimal, at time.Time) error {
	return nil
}

func (s *stubCostingRepo) ProductsReferencingItem(ctx context.Context, itemID uuid.UUID) ([]models.Product, error) {
	return s.products, nil
}

func (s *stubCostingRepo) UpdateProductCost(ctx context.Context, productID uuid.UUID, cost decimal.Decimal, at time.Time) error {
	s.attempted = append(s.attempted, productID)
	if productID == s.failProduct {
		return fmt.Errorf("write conflict")
	}
	s.written = append(s.written, productID)
	return nil
}

func TestPropagateIsolatesProductWriteFailures(t *testing.T) {
	trigger := uuid.New()
	broken := uuid.New()
	sibling := uuid.New()
	component := models.ProductComponent{ItemID: trigger, QtyPerUnit: decimal.NewFromInt(1)}

	repo := &stubCostingRepo{
		latestCost: decimal.NewFromInt(50),
		products: []models.Product{
			{ID: broken, CostingMethod: enums.CostingMethodLatest, Components: []models.ProductComponent{component}},
			{ID: sibling, CostingMethod: enums.CostingMethodLatest, Components: []models.ProductComponent{component}},
		},
		failProduct: broken,
	}
	logg := logger.New(logger.Options{Level: zerolog.Disabled, Output: io.Discard})
	prop, err := NewPropagator(repo, logg, nil)
	require.NoError(t, err)

	// one product's failed write never aborts the rest of the fan-out
	require.NoError(t, prop.Propagate(context.Background(), trigger))
	require.Len(t, repo.attempted, 2)
	require.Equal(t, []uuid.UUID{sibling}, repo.written)

	// and the observer boundary swallows it entirely
	repo.attempted = nil
	repo.written = nil
	prop.PurchaseLineCreated(context.Background(), trigger)
	require.Len(t, repo.attempted, 2)
	require.Equal(t, []uuid.UUID{sibling}, repo.written)
}

func TestUpdatedObserverHonorsDirtyFilter(t *testing.T) {
	db := setupCostingTestDB(t)
	prop, _ := newPropagator(t, db)
	ctx := context.Background()

	item := seedItem(t, db, "Tepung", decimal.Zero)
	day := time.Date(2025, 8, 10, 0, 0, 0, 0, time.UTC)
	seedPurchase(t, db, item.ID, day, 10, 50)

	prop.PurchaseLineUpdated(ctx, item.ID, events.NewDirtyFields("qty"))
	var got models.Item
	require.NoError(t, db.First(&got, "id = ?", item.ID).Error)
	require.True(t, got.LastCost.IsZero())

	prop.PurchaseLineUpdated(ctx, item.ID, events.NewDirtyFields("unit_cost"))
	require.NoError(t, db.First(&got, "id = ?", item.ID).Error)
	require.True(t, got.LastCost.Equal(decimal.NewFromInt(50)))
}
