package purchases

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/rakaputra/warungpos-backend/pkg/db/models"
	"github.com/rakaputra/warungpos-backend/pkg/enums"
)

// PurchaseLineView exposes one purchase line in API responses.
type PurchaseLineView struct {
	ID        uuid.UUID       `json:"id"`
	ItemID    uuid.UUID       `json:"item_id"`
	ItemName  string          `json:"item_name,omitempty"`
	Qty       decimal.Decimal `json:"qty"`
	UnitCost  decimal.Decimal `json:"unit_cost"`
	TotalCost decimal.Decimal `json:"total_cost"`
	CreatedAt time.Time       `json:"created_at"`
}

// PurchaseView is the API shape of a purchase order with its lines.
type PurchaseView struct {
	ID           uuid.UUID            `json:"id"`
	Number       string               `json:"number"`
	SupplierID   uuid.UUID            `json:"supplier_id"`
	SupplierName string               `json:"supplier_name,omitempty"`
	Status       enums.PurchaseStatus `json:"status"`
	PurchaseDate time.Time            `json:"purchase_date"`
	Notes        *string              `json:"notes,omitempty"`
	Lines        []PurchaseLineView   `json:"lines"`
	CreatedAt    time.Time            `json:"created_at"`
	UpdatedAt    time.Time            `json:"updated_at"`
}

// NewPurchaseLineView maps a purchase line row onto its API shape.
func NewPurchaseLineView(line *models.PurchaseLine) PurchaseLineView {
	view := PurchaseLineView{
		ID:        line.ID,
		ItemID:    line.ItemID,
		Qty:       line.Qty,
		UnitCost:  line.UnitCost,
		TotalCost: line.TotalCost,
		CreatedAt: line.CreatedAt,
	}
	if line.Item != nil {
		view.ItemName = line.Item.Name
	}
	return view
}

// NewPurchaseView maps a purchase order row onto its API shape.
func NewPurchaseView(purchase *models.PurchaseOrder) PurchaseView {
	lines := make([]PurchaseLineView, 0, len(purchase.Lines))
	for i := range purchase.Lines {
		lines = append(lines, NewPurchaseLineView(&purchase.Lines[i]))
	}

	view := PurchaseView{
		ID:           purchase.ID,
		Number:       purchase.Number,
		SupplierID:   purchase.SupplierID,
		Status:       purchase.Status,
		PurchaseDate: purchase.PurchaseDate,
		Notes:        purchase.Notes,
		Lines:        lines,
		CreatedAt:    purchase.CreatedAt,
		UpdatedAt:    purchase.UpdatedAt,
	}
	if purchase.Supplier != nil {
		view.SupplierName = purchase.Supplier.Name
	}
	return view
}

// NewPurchaseViews maps a page of purchase order rows.
func NewPurchaseViews(rows []models.PurchaseOrder) []PurchaseView {
	views := make([]PurchaseView, 0, len(rows))
	for i := range rows {
		views = append(views, NewPurchaseView(&rows[i]))
	}
	return views
}
