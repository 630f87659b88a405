package suppliers

import (
	"time"

	"github.com/google/uuid"

	"github.com/rakaputra/warungpos-backend/pkg/db/models"
)

// SupplierView is the API shape of a supplier.
type SupplierView struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	ContactName *string   `json:"contact_name,omitempty"`
	Phone       *string   `json:"phone,omitempty"`
	Email       *string   `json:"email,omitempty"`
	Address     *string   `json:"address,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// NewSupplierView maps a supplier row onto its API shape.
func NewSupplierView(supplier *models.Supplier) SupplierView {
	return SupplierView{
		ID:          supplier.ID,
		Name:        supplier.Name,
		ContactName: supplier.ContactName,
		Phone:       supplier.Phone,
		Email:       supplier.Email,
		Address:     supplier.Address,
		CreatedAt:   supplier.CreatedAt,
		UpdatedAt:   supplier.UpdatedAt,
	}
}

// NewSupplierViews maps a page of supplier rows.
func NewSupplierViews(rows []models.Supplier) []SupplierView {
	views := make([]SupplierView, 0, len(rows))
	for i := range rows {
		views = append(views, NewSupplierView(&rows[i]))
	}
	return views
}
