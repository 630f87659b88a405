package items

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/rakaputra/warungpos-backend/pkg/db/models"
)

// ItemView is the API shape of a purchasable item with its resolved cost.
type ItemView struct {
	ID            uuid.UUID       `json:"id"`
	SupplierID    *uuid.UUID      `json:"supplier_id,omitempty"`
	SupplierName  string          `json:"supplier_name,omitempty"`
	Name          string          `json:"name"`
	Unit          string          `json:"unit"`
	LastCost      decimal.Decimal `json:"last_cost"`
	CostUpdatedAt *time.Time      `json:"cost_updated_at,omitempty"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
}

// NewItemView maps an item row onto its API shape.
func NewItemView(item *models.Item) ItemView {
	view := ItemView{
		ID:            item.ID,
		SupplierID:    item.SupplierID,
		Name:          item.Name,
		Unit:          item.Unit,
		LastCost:      item.LastCost,
		CostUpdatedAt: item.CostUpdatedAt,
		CreatedAt:     item.CreatedAt,
		UpdatedAt:     item.UpdatedAt,
	}
	if item.Supplier != nil {
		view.SupplierName = item.Supplier.Name
	}
	return view
}

// NewItemViews maps a page of item rows.
func NewItemViews(rows []models.Item) []ItemView {
	views := make([]ItemView, 0, len(rows))
	for i := range rows {
		views = append(views, NewItemView(&rows[i]))
	}
	return views
}
