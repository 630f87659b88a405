package customers

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	pkgerrors "github.com/rakaputra/warungpos-backend/pkg/errors"
)

func setupCustomersTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	require.NoError(t, db.Exec(`CREATE TABLE IF NOT EXISTS customers (
  id TEXT PRIMARY KEY,
  name TEXT NOT NULL,
  phone TEXT,
  email TEXT,
  created_at DATETIME,
  updated_at DATETIME
);`).Error)
	return db
}

func strptr(s string) *string { return &s }

func TestCustomerServiceCRUD(t *testing.T) {
	db := setupCustomersTestDB(t)
	svc, err := NewService(db)
	require.NoError(t, err)
	ctx := context.Background()

	customer, err := svc.Create(ctx, CreateInput{Name: "Ibu Sari", Phone: strptr("0813111222")})
	require.NoError(t, err)

	email := "sari@example.com"
	updated, err := svc.Update(ctx, UpdateInput{CustomerID: customer.ID, Email: &email})
	require.NoError(t, err)
	require.Equal(t, "sari@example.com", *updated.Email)

	rows, err := svc.List(ctx, "")
	require.NoError(t, err)
	require.Len(t, rows, 1)

	byPhone, err := svc.List(ctx, "0813")
	require.NoError(t, err)
	require.Len(t, byPhone, 1)

	require.NoError(t, svc.Delete(ctx, customer.ID))
	_, err = svc.Get(ctx, customer.ID)
	require.True(t, pkgerrors.Is(err, pkgerrors.CodeNotFound))

	_, err = svc.Create(ctx, CreateInput{})
	require.True(t, pkgerrors.Is(err, pkgerrors.CodeValidation))
}
