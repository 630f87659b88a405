package products

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/rakaputra/warungpos-backend/pkg/db/models"
	"github.com/rakaputra/warungpos-backend/pkg/enums"
)

// ComponentView exposes one recipe position in API responses.
type ComponentView struct {
	ID         uuid.UUID       `json:"id"`
	ItemID     uuid.UUID       `json:"item_id"`
	ItemName   string          `json:"item_name,omitempty"`
	QtyPerUnit decimal.Decimal `json:"qty_per_unit"`
}

// ProductView is the API shape of a catalog product with its recipe.
type ProductView struct {
	ID            uuid.UUID           `json:"id"`
	CategoryID    *uuid.UUID          `json:"category_id,omitempty"`
	CategoryName  string              `json:"category_name,omitempty"`
	SKU           string              `json:"sku"`
	Name          string              `json:"name"`
	Description   *string             `json:"description,omitempty"`
	PriceCents    int                 `json:"price_cents"`
	CostPerUnit   decimal.Decimal     `json:"cost_per_unit"`
	CostingMethod enums.CostingMethod `json:"costing_method"`
	CostUpdatedAt *time.Time          `json:"cost_updated_at,omitempty"`
	Tags          []string            `json:"tags,omitempty"`
	IsActive      bool                `json:"is_active"`
	Components    []ComponentView     `json:"components"`
	CreatedAt     time.Time           `json:"created_at"`
	UpdatedAt     time.Time           `json:"updated_at"`
}

// NewProductView maps a product row onto its API shape.
func NewProductView(product *models.Product) ProductView {
	components := make([]ComponentView, 0, len(product.Components))
	for _, component := range product.Components {
		view := ComponentView{
			ID:         component.ID,
			ItemID:     component.ItemID,
			QtyPerUnit: component.QtyPerUnit,
		}
		if component.Item != nil {
			view.ItemName = component.Item.Name
		}
		components = append(components, view)
	}

	view := ProductView{
		ID:            product.ID,
		CategoryID:    product.CategoryID,
		SKU:           product.SKU,
		Name:          product.Name,
		Description:   product.Description,
		PriceCents:    product.PriceCents,
		CostPerUnit:   product.CostPerUnit,
		CostingMethod: product.CostingMethod,
		CostUpdatedAt: product.CostUpdatedAt,
		Tags:          product.Tags,
		IsActive:      product.IsActive,
		Components:    components,
		CreatedAt:     product.CreatedAt,
		UpdatedAt:     product.UpdatedAt,
	}
	if product.Category != nil {
		view.CategoryName = product.Category.Name
	}
	return view
}

// NewProductViews maps a page of product rows.
func NewProductViews(rows []models.Product) []ProductView {
	views := make([]ProductView, 0, len(rows))
	for i := range rows {
		views = append(views, NewProductView(&rows[i]))
	}
	return views
}
