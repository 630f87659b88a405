package suppliers

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	pkgerrors "github.com/rakaputra/warungpos-backend/pkg/errors"
)

func setupSuppliersTestDB(t *testing.T) *gorm.DB {
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
	}
	for _, stmt := range statements {
		require.NoError(t, db.Exec(stmt).Error)
	}
	return db
}

func strptr(s string) *string { return &s }

func TestSupplierServiceCRUD(t *testing.T) {
	db := setupSuppliersTestDB(t)
	svc, err := NewService(db)
	require.NoError(t, err)
	ctx := context.Background()

	supplier, err := svc.Create(ctx, CreateInput{
		Name:  "Pasar Induk",
		Phone: strptr("0812000111"),
	})
	require.NoError(t, err)

	contact := "Pak Dedi"
	updated, err := svc.Update(ctx, UpdateInput{SupplierID: supplier.ID, ContactName: &contact})
	require.NoError(t, err)
	require.Equal(t, "Pak Dedi", *updated.ContactName)
	require.Equal(t, "0812000111", *updated.Phone)

	rows, err := svc.List(ctx)
	require.NoError(t, err)
	require.Len(t, rows, 1)

	require.NoError(t, svc.Delete(ctx, supplier.ID))
	_, err = svc.Get(ctx, supplier.ID)
	require.True(t, pkgerrors.Is(err, pkgerrors.CodeNotFound))
}

func TestSupplierServiceDeleteBlockedByPurchases(t *testing.T) {
	db := setupSuppliersTestDB(t)
	svc, err := NewService(db)
	require.NoError(t, err)
	ctx := context.Background()

	supplier, err := svc.Create(ctx, CreateInput{Name: "Toko Grosir"})
	require.NoError(t, err)

	require.NoError(t, db.Exec(
		`INSERT INTO purchase_orders (id, number, supplier_id, status, purchase_date) VALUES (?, 'PO-1', ?, 'draft', '2025-08-14')`,
		uuid.New().String(), supplier.ID.String(),
	).Error)

	err = svc.Delete(ctx, supplier.ID)
	require.True(t, pkgerrors.Is(err, pkgerrors.CodeStateConflict))
}
