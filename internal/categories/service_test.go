package categories

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	pkgerrors "github.com/rakaputra/warungpos-backend/pkg/errors"
)

func setupCategoriesTestDB(t *testing.T) *gorm.DB {
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
	}
	for _, stmt := range statements {
		require.NoError(t, db.Exec(stmt).Error)
	}
	return db
}

func TestCategoryServiceCRUD(t *testing.T) {
	db := setupCategoriesTestDB(t)
	svc, err := NewService(db)
	require.NoError(t, err)
	ctx := context.Background()

	category, err := svc.Create(ctx, CreateInput{Name: "Makanan"})
	require.NoError(t, err)

	name := "Makanan Berat"
	updated, err := svc.Update(ctx, UpdateInput{CategoryID: category.ID, Name: &name})
	require.NoError(t, err)
	require.Equal(t, "Makanan Berat", updated.Name)

	rows, err := svc.List(ctx)
	require.NoError(t, err)
	require.Len(t, rows, 1)

	require.NoError(t, svc.Delete(ctx, category.ID))
	_, err = svc.Get(ctx, category.ID)
	require.True(t, pkgerrors.Is(err, pkgerrors.CodeNotFound))

	_, err = svc.Create(ctx, CreateInput{})
	require.True(t, pkgerrors.Is(err, pkgerrors.CodeValidation))
}

func TestCategoryServiceDeleteDetachesProducts(t *testing.T) {
	db := setupCategoriesTestDB(t)
	svc, err := NewService(db)
	require.NoError(t, err)
	ctx := context.Background()

	category, err := svc.Create(ctx, CreateInput{Name: "Minuman"})
	require.NoError(t, err)

	productID := uuid.New()
	require.NoError(t, db.Exec(
		`INSERT INTO products (id, category_id, sku, name, price_cents) VALUES (?, ?, 'TEH', 'Es Teh', 5000)`,
		productID.String(), category.ID.String(),
	).Error)

	require.NoError(t, svc.Delete(ctx, category.ID))

	var categoryID *string
	require.NoError(t, db.Raw(`SELECT category_id FROM products WHERE id = ?`, productID.String()).
		Scan(&categoryID).Error)
	require.Nil(t, categoryID)
}
