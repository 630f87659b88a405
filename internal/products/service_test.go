package products

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/rakaputra/warungpos-backend/pkg/db/models"
	"github.com/rakaputra/warungpos-backend/pkg/enums"
	pkgerrors "github.com/rakaputra/warungpos-backend/pkg/errors"
)

func setupProductsTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	statements := []string{
		`CREATE TABLE IF NOT EXISTS categories (
  id TEXT PRIMARY KEY,
  name TEXT NOT NULL,
  description TEXT,
  created_at DATETIME,
  updated_at DATETIME
);`,
		`CREATE TABLE IF NOT EXISTS items (
  id TEXT PRIMARY KEY,
  supplier_id TEXT,
  name TEXT NOT NULL,
  unit TEXT NOT NULL,
  last_cost NUMERIC NOT NULL DEFAULT 0,
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
  price_cents INTEGER NOT NULL,
  cost_per_unit NUMERIC NOT NULL DEFAULT 0,
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
  qty_per_unit NUMERIC NOT NULL,
  created_at DATETIME,
  UNIQUE (product_id, item_id)
);`,
	}
	for _, stmt := range statements {
		require.NoError(t, db.Exec(stmt).Error)
	}
	return db
}

type gormTxRunner struct {
	db *gorm.DB
}

func (r gormTxRunner) WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return r.db.WithContext(ctx).Transaction(fn)
}

func newProductsTestService(t *testing.T) (*gorm.DB, Service) {
	t.Helper()

	db := setupProductsTestDB(t)
	svc, err := NewService(NewRepository(db), gormTxRunner{db: db})
	require.NoError(t, err)
	return db, svc
}

func seedItem(t *testing.T, db *gorm.DB, name string) uuid.UUID {
	t.Helper()
	id := uuid.New()
	require.NoError(t, db.Exec(
		`INSERT INTO items (id, name, unit, last_cost, created_at, updated_at) VALUES (?, ?, ?, 0, ?, ?)`,
		id.String(), name, "kg", time.Now(), time.Now(),
	).Error)
	return id
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func TestProductServiceCreateWithRecipe(t *testing.T) {
	db, svc := newProductsTestService(t)
	ctx := context.Background()

	riceID := seedItem(t, db, "Beras")
	chickenID := seedItem(t, db, "Ayam")

	product, err := svc.Create(ctx, CreateInput{
		SKU:        "NASI-AYAM",
		Name:       "Nasi Ayam Goreng",
		PriceCents: 25000,
		Components: []ComponentInput{
			{ItemID: riceID, QtyPerUnit: dec("0.2")},
			{ItemID: chickenID, QtyPerUnit: dec("0.15")},
		},
	})
	require.NoError(t, err)
	require.Equal(t, enums.CostingMethodLatest, product.CostingMethod)
	require.True(t, product.IsActive)

	loaded, err := svc.Get(ctx, product.ID)
	require.NoError(t, err)
	require.Len(t, loaded.Components, 2)
	require.True(t, loaded.CostPerUnit.IsZero())
}

func TestProductServiceCreateRejectsDuplicateSKU(t *testing.T) {
	_, svc := newProductsTestService(t)
	ctx := context.Background()

	_, err := svc.Create(ctx, CreateInput{SKU: "ES-TEH", Name: "Es Teh", PriceCents: 5000})
	require.NoError(t, err)

	_, err = svc.Create(ctx, CreateInput{SKU: "ES-TEH", Name: "Es Teh Manis", PriceCents: 6000})
	require.True(t, pkgerrors.Is(err, pkgerrors.CodeConflict))
}

func TestProductServiceCreateValidation(t *testing.T) {
	db, svc := newProductsTestService(t)
	ctx := context.Background()
	itemID := seedItem(t, db, "Beras")

	cases := []CreateInput{
		{Name: "no sku", PriceCents: 100},
		{SKU: "X", PriceCents: 100},
		{SKU: "X", Name: "neg", PriceCents: -1},
		{SKU: "X", Name: "bad method", PriceCents: 100, CostingMethod: "fifo"},
		{SKU: "X", Name: "zero qty", PriceCents: 100, Components: []ComponentInput{{ItemID: itemID, QtyPerUnit: dec("0")}}},
		{SKU: "X", Name: "dup item", PriceCents: 100, Components: []ComponentInput{
			{ItemID: itemID, QtyPerUnit: dec("1")},
			{ItemID: itemID, QtyPerUnit: dec("2")},
		}},
	}
	for _, input := range cases {
		_, err := svc.Create(ctx, input)
		require.True(t, pkgerrors.Is(err, pkgerrors.CodeValidation), "input %+v", input)
	}
}

func TestProductServiceUpdateLeavesCostAlone(t *testing.T) {
	db, svc := newProductsTestService(t)
	ctx := context.Background()

	product, err := svc.Create(ctx, CreateInput{SKU: "SATE", Name: "Sate Ayam", PriceCents: 20000})
	require.NoError(t, err)

	// simulate a costing engine write
	require.NoError(t, db.Exec(
		`UPDATE products SET cost_per_unit = ? WHERE id = ?`, "7500", product.ID.String(),
	).Error)

	price := 22000
	method := enums.CostingMethodWeightedAverage
	updated, err := svc.Update(ctx, UpdateInput{
		ProductID:     product.ID,
		PriceCents:    &price,
		CostingMethod: &method,
	})
	require.NoError(t, err)
	require.Equal(t, 22000, updated.PriceCents)
	require.Equal(t, enums.CostingMethodWeightedAverage, updated.CostingMethod)
	require.True(t, updated.CostPerUnit.Equal(dec("7500")))
}

func TestProductServiceSetComponentsReplacesRecipe(t *testing.T) {
	db, svc := newProductsTestService(t)
	ctx := context.Background()

	riceID := seedItem(t, db, "Beras")
	eggID := seedItem(t, db, "Telur")

	product, err := svc.Create(ctx, CreateInput{
		SKU:        "NASGOR",
		Name:       "Nasi Goreng",
		PriceCents: 18000,
		Components: []ComponentInput{{ItemID: riceID, QtyPerUnit: dec("0.25")}},
	})
	require.NoError(t, err)

	updated, err := svc.SetComponents(ctx, product.ID, []ComponentInput{
		{ItemID: riceID, QtyPerUnit: dec("0.3")},
		{ItemID: eggID, QtyPerUnit: dec("1")},
	})
	require.NoError(t, err)
	require.Len(t, updated.Components, 2)

	var count int64
	require.NoError(t, db.Model(&models.ProductComponent{}).
		Where("product_id = ?", product.ID).Count(&count).Error)
	require.EqualValues(t, 2, count)

	// empty input clears the recipe
	cleared, err := svc.SetComponents(ctx, product.ID, nil)
	require.NoError(t, err)
	require.Empty(t, cleared.Components)
}

func TestProductServiceDeleteCascadesComponents(t *testing.T) {
	db, svc := newProductsTestService(t)
	ctx := context.Background()

	riceID := seedItem(t, db, "Beras")
	product, err := svc.Create(ctx, CreateInput{
		SKU:        "BUBUR",
		Name:       "Bubur Ayam",
		PriceCents: 15000,
		Components: []ComponentInput{{ItemID: riceID, QtyPerUnit: dec("0.1")}},
	})
	require.NoError(t, err)

	require.NoError(t, svc.Delete(ctx, product.ID))

	_, err = svc.Get(ctx, product.ID)
	require.True(t, pkgerrors.Is(err, pkgerrors.CodeNotFound))

	var components int64
	require.NoError(t, db.Model(&models.ProductComponent{}).
		Where("product_id = ?", product.ID).Count(&components).Error)
	require.Zero(t, components)

	require.True(t, pkgerrors.Is(svc.Delete(ctx, product.ID), pkgerrors.CodeNotFound))
}

func TestProductServiceListFilters(t *testing.T) {
	db, svc := newProductsTestService(t)
	ctx := context.Background()

	categoryID := uuid.New()
	require.NoError(t, db.Exec(
		`INSERT INTO categories (id, name, created_at, updated_at) VALUES (?, ?, ?, ?)`,
		categoryID.String(), "Minuman", time.Now(), time.Now(),
	).Error)

	_, err := svc.Create(ctx, CreateInput{SKU: "TEH", Name: "Es Teh", PriceCents: 5000, CategoryID: &categoryID})
	require.NoError(t, err)
	inactive, err := svc.Create(ctx, CreateInput{SKU: "JERUK", Name: "Es Jeruk", PriceCents: 7000})
	require.NoError(t, err)

	off := false
	_, err = svc.Update(ctx, UpdateInput{ProductID: inactive.ID, IsActive: &off})
	require.NoError(t, err)

	byCategory, err := svc.List(ctx, ListFilter{CategoryID: &categoryID})
	require.NoError(t, err)
	require.Len(t, byCategory, 1)
	require.Equal(t, "Es Teh", byCategory[0].Name)

	active, err := svc.List(ctx, ListFilter{ActiveOnly: true})
	require.NoError(t, err)
	require.Len(t, active, 1)

	search, err := svc.List(ctx, ListFilter{Search: "Jeruk"})
	require.NoError(t, err)
	require.Len(t, search, 1)
	require.Equal(t, "Es Jeruk", search[0].Name)
}
