package customers

import (
	"time"

	"github.com/google/uuid"

	"github.com/rakaputra/warungpos-backend/pkg/db/models"
)

// CustomerView is the API shape of a registered customer.
type CustomerView struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Phone     *string   `json:"phone,omitempty"`
	Email     *string   `json:"email,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// NewCustomerView maps a customer row onto its API shape.
func NewCustomerView(customer *models.Customer) CustomerView {
	return CustomerView{
		ID:        customer.ID,
		Name:      customer.Name,
		Phone:     customer.Phone,
		Email:     customer.Email,
		CreatedAt: customer.CreatedAt,
		UpdatedAt: customer.UpdatedAt,
	}
}

// NewCustomerViews maps a page of customer rows.
func NewCustomerViews(rows []models.Customer) []CustomerView {
	views := make([]CustomerView, 0, len(rows))
	for i := range rows {
		views = append(views, NewCustomerView(&rows[i]))
	}
	return views
}
