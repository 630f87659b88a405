package purchases

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/rakaputra/warungpos-backend/internal/events"
	"github.com/rakaputra/warungpos-backend/pkg/db/models"
	"github.com/rakaputra/warungpos-backend/pkg/enums"
	pkgerrors "github.com/rakaputra/warungpos-backend/pkg/errors"
	"github.com/rakaputra/warungpos-backend/pkg/outbox"
)

func setupPurchasesTestDB(t *testing.T) *gorm.DB {
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
  name TEXT NOT NULL,
  unit TEXT NOT NULL,
  last_cost NUMERIC NOT NULL DEFAULT 0,
  cost_updated_at DATETIME,
  created_at DATETIME,
  updated_at DATETIME
);`,
		`CREATE TABLE IF NOT EXISTS purchase_orders (
  id TEXT PRIMARY KEY,
  number TEXT NOT NULL,
  supplier_id TEXT NOT NULL,
  status TEXT NOT NULL,
  purchase_date DATETIME NOT NULL,
  notes TEXT,
  created_at DATETIME,
  updated_at DATETIME
);`,
		`CREATE TABLE IF NOT EXISTS purchase_lines (
  id TEXT PRIMARY KEY,
  purchase_order_id TEXT NOT NULL,
  item_id TEXT NOT NULL,
  qty NUMERIC NOT NULL,
  unit_cost NUMERIC NOT NULL,
  total_cost NUMERIC NOT NULL,
  created_at DATETIME,
  updated_at DATETIME
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

type recordingOutbox struct {
	events []outbox.DomainEvent
}

func (o *recordingOutbox) Emit(_ context.Context, tx *gorm.DB, event outbox.DomainEvent) error {
	if tx == nil {
		panic("outbox emitted outside a transaction")
	}
	o.events = append(o.events, event)
	return nil
}

type recordingLineEvents struct {
	created []uuid.UUID
	updated []uuid.UUID
	dirty   []events.DirtyFields
	deleted []uuid.UUID
}

func (m *recordingLineEvents) PurchaseLineCreated(_ context.Context, itemID uuid.UUID) {
	m.created = append(m.created, itemID)
}

func (m *recordingLineEvents) PurchaseLineUpdated(_ context.Context, itemID uuid.UUID, dirty events.DirtyFields) {
	m.updated = append(m.updated, itemID)
	m.dirty = append(m.dirty, dirty)
}

func (m *recordingLineEvents) PurchaseLineDeleted(_ context.Context, itemID uuid.UUID) {
	m.deleted = append(m.deleted, itemID)
}

func newPurchasesTestService(t *testing.T) (*gorm.DB, Service, *recordingOutbox, *recordingLineEvents) {
	t.Helper()

	db := setupPurchasesTestDB(t)
	repo := NewRepository(db)
	ob := &recordingOutbox{}
	disp := &recordingLineEvents{}
	svc, err := NewService(repo, gormTxRunner{db: db}, ob, disp)
	require.NoError(t, err)
	return db, svc, ob, disp
}

func seedSupplier(t *testing.T, db *gorm.DB) uuid.UUID {
	t.Helper()
	id := uuid.New()
	require.NoError(t, db.Exec(
		`INSERT INTO suppliers (id, name, created_at, updated_at) VALUES (?, ?, ?, ?)`,
		id.String(), "Pasar Induk", time.Now(), time.Now(),
	).Error)
	return id
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

func TestPurchaseServiceCreateWithLines(t *testing.T) {
	db, svc, ob, disp := newPurchasesTestService(t)
	ctx := context.Background()

	supplierID := seedSupplier(t, db)
	riceID := seedItem(t, db, "Beras")
	oilID := seedItem(t, db, "Minyak Goreng")

	purchase, err := svc.Create(ctx, CreateInput{
		SupplierID:   supplierID,
		PurchaseDate: time.Date(2025, 8, 14, 0, 0, 0, 0, time.UTC),
		Lines: []LineInput{
			{ItemID: riceID, Qty: dec("10"), UnitCost: dec("12000")},
			{ItemID: oilID, Qty: dec("2.5"), UnitCost: dec("18000")},
		},
	})
	require.NoError(t, err)
	require.Equal(t, enums.PurchaseStatusDraft, purchase.Status)
	require.Regexp(t, `^PO-\d{8}-0001$`, purchase.Number)
	require.Len(t, purchase.Lines, 2)
	require.True(t, purchase.Lines[0].TotalCost.Equal(dec("120000")))
	require.True(t, purchase.Lines[1].TotalCost.Equal(dec("45000")))

	require.Len(t, ob.events, 2)
	require.Equal(t, enums.EventPurchaseLineCreated, ob.events[0].EventType)

	require.ElementsMatch(t, []uuid.UUID{riceID, oilID}, disp.created)
}

func TestPurchaseServiceCreateValidation(t *testing.T) {
	db, svc, _, disp := newPurchasesTestService(t)
	ctx := context.Background()

	supplierID := seedSupplier(t, db)
	itemID := seedItem(t, db, "Beras")

	_, err := svc.Create(ctx, CreateInput{PurchaseDate: time.Now()})
	require.True(t, pkgerrors.Is(err, pkgerrors.CodeValidation))

	_, err = svc.Create(ctx, CreateInput{
		SupplierID:   supplierID,
		PurchaseDate: time.Now(),
		Lines:        []LineInput{{ItemID: itemID, Qty: dec("0"), UnitCost: dec("100")}},
	})
	require.True(t, pkgerrors.Is(err, pkgerrors.CodeValidation))

	_, err = svc.Create(ctx, CreateInput{
		SupplierID:   supplierID,
		PurchaseDate: time.Now(),
		Lines:        []LineInput{{ItemID: itemID, Qty: dec("1"), UnitCost: dec("-5")}},
	})
	require.True(t, pkgerrors.Is(err, pkgerrors.CodeValidation))

	require.Empty(t, disp.created)
}

func TestPurchaseServiceAddLine(t *testing.T) {
	db, svc, ob, disp := newPurchasesTestService(t)
	ctx := context.Background()

	supplierID := seedSupplier(t, db)
	itemID := seedItem(t, db, "Gula")

	purchase, err := svc.Create(ctx, CreateInput{
		SupplierID:   supplierID,
		PurchaseDate: time.Now(),
	})
	require.NoError(t, err)

	line, err := svc.AddLine(ctx, LineInput{
		PurchaseID: purchase.ID,
		ItemID:     itemID,
		Qty:        dec("4"),
		UnitCost:   dec("15000"),
	})
	require.NoError(t, err)
	require.True(t, line.TotalCost.Equal(dec("60000")))

	require.Equal(t, []uuid.UUID{itemID}, disp.created)
	require.Len(t, ob.events, 1)

	_, err = svc.AddLine(ctx, LineInput{
		PurchaseID: uuid.New(),
		ItemID:     itemID,
		Qty:        dec("1"),
		UnitCost:   dec("1"),
	})
	require.True(t, pkgerrors.Is(err, pkgerrors.CodeNotFound))
}

func TestPurchaseServiceUpdateLineDirtySet(t *testing.T) {
	db, svc, ob, disp := newPurchasesTestService(t)
	ctx := context.Background()

	supplierID := seedSupplier(t, db)
	itemID := seedItem(t, db, "Telur")

	purchase, err := svc.Create(ctx, CreateInput{
		SupplierID:   supplierID,
		PurchaseDate: time.Now(),
		Lines:        []LineInput{{ItemID: itemID, Qty: dec("3"), UnitCost: dec("2000")}},
	})
	require.NoError(t, err)
	lineID := purchase.Lines[0].ID

	cost := dec("2500")
	updated, err := svc.UpdateLine(ctx, UpdateLineInput{LineID: lineID, UnitCost: &cost})
	require.NoError(t, err)
	require.True(t, updated.UnitCost.Equal(dec("2500")))
	require.True(t, updated.TotalCost.Equal(dec("7500")))

	require.Len(t, disp.updated, 1)
	require.Equal(t, itemID, disp.updated[0])
	require.True(t, disp.dirty[0].Has("unit_cost"))
	require.False(t, disp.dirty[0].Has("qty"))

	last := ob.events[len(ob.events)-1]
	require.Equal(t, enums.EventPurchaseLineUpdated, last.EventType)

	// qty-only change marks qty dirty, not unit_cost
	qty := dec("5")
	_, err = svc.UpdateLine(ctx, UpdateLineInput{LineID: lineID, Qty: &qty})
	require.NoError(t, err)
	require.Len(t, disp.updated, 2)
	require.True(t, disp.dirty[1].Has("qty"))
	require.False(t, disp.dirty[1].Has("unit_cost"))
}

func TestPurchaseServiceUpdateLineNoChange(t *testing.T) {
	db, svc, ob, disp := newPurchasesTestService(t)
	ctx := context.Background()

	supplierID := seedSupplier(t, db)
	itemID := seedItem(t, db, "Telur")

	purchase, err := svc.Create(ctx, CreateInput{
		SupplierID:   supplierID,
		PurchaseDate: time.Now(),
		Lines:        []LineInput{{ItemID: itemID, Qty: dec("3"), UnitCost: dec("2000")}},
	})
	require.NoError(t, err)

	created := len(ob.events)
	same := dec("2000")
	_, err = svc.UpdateLine(ctx, UpdateLineInput{LineID: purchase.Lines[0].ID, UnitCost: &same})
	require.NoError(t, err)

	require.Empty(t, disp.updated)
	require.Len(t, ob.events, created)
}

func TestPurchaseServiceDeleteLine(t *testing.T) {
	db, svc, ob, disp := newPurchasesTestService(t)
	ctx := context.Background()

	supplierID := seedSupplier(t, db)
	itemID := seedItem(t, db, "Cabai")

	purchase, err := svc.Create(ctx, CreateInput{
		SupplierID:   supplierID,
		PurchaseDate: time.Now(),
		Lines:        []LineInput{{ItemID: itemID, Qty: dec("1"), UnitCost: dec("40000")}},
	})
	require.NoError(t, err)

	require.NoError(t, svc.DeleteLine(ctx, purchase.Lines[0].ID))
	require.Equal(t, []uuid.UUID{itemID}, disp.deleted)

	var count int64
	require.NoError(t, db.Model(&models.PurchaseLine{}).Count(&count).Error)
	require.Zero(t, count)

	last := ob.events[len(ob.events)-1]
	require.Equal(t, enums.EventPurchaseLineDeleted, last.EventType)

	err = svc.DeleteLine(ctx, purchase.Lines[0].ID)
	require.True(t, pkgerrors.Is(err, pkgerrors.CodeNotFound))
}

func TestPurchaseServiceUpdateHeader(t *testing.T) {
	db, svc, _, _ := newPurchasesTestService(t)
	ctx := context.Background()

	supplierID := seedSupplier(t, db)
	purchase, err := svc.Create(ctx, CreateInput{
		SupplierID:   supplierID,
		PurchaseDate: time.Now(),
	})
	require.NoError(t, err)

	status := enums.PurchaseStatusReceived
	updated, err := svc.Update(ctx, UpdateInput{PurchaseID: purchase.ID, Status: &status})
	require.NoError(t, err)
	require.Equal(t, enums.PurchaseStatusReceived, updated.Status)

	_, err = svc.Update(ctx, UpdateInput{PurchaseID: uuid.New(), Status: &status})
	require.True(t, pkgerrors.Is(err, pkgerrors.CodeNotFound))
}

func TestPurchaseServiceListFilters(t *testing.T) {
	db, svc, _, _ := newPurchasesTestService(t)
	ctx := context.Background()

	supplierA := seedSupplier(t, db)
	supplierB := seedSupplier(t, db)

	_, err := svc.Create(ctx, CreateInput{SupplierID: supplierA, PurchaseDate: time.Date(2025, 8, 10, 0, 0, 0, 0, time.UTC)})
	require.NoError(t, err)
	_, err = svc.Create(ctx, CreateInput{SupplierID: supplierB, PurchaseDate: time.Date(2025, 8, 20, 0, 0, 0, 0, time.UTC)})
	require.NoError(t, err)

	bySupplier, err := svc.List(ctx, ListFilter{SupplierID: &supplierA})
	require.NoError(t, err)
	require.Len(t, bySupplier, 1)

	from := time.Date(2025, 8, 15, 0, 0, 0, 0, time.UTC)
	byDate, err := svc.List(ctx, ListFilter{DateFrom: &from})
	require.NoError(t, err)
	require.Len(t, byDate, 1)
	require.Equal(t, supplierB, byDate[0].SupplierID)
}

var _ lineEvents = (*events.Dispatcher)(nil)
