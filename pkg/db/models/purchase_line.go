package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// PurchaseLine is one item position of a purchase order. Its unit cost is the
// input to the cost-basis propagation; mutations to it fire lifecycle events.
type PurchaseLine struct {
	ID              uuid.UUID       `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	PurchaseOrderID uuid.UUID       `gorm:"column:purchase_order_id;type:uuid;not null"`
	ItemID          uuid.UUID       `gorm:"column:item_id;type:uuid;not null"`
	Qty             decimal.Decimal `gorm:"column:qty;type:numeric(12,4);not null"`
	UnitCost        decimal.Decimal `gorm:"column:unit_cost;type:numeric(14,4);not null"`
	TotalCost       decimal.Decimal `gorm:"column:total_cost;type:numeric(14,4);not null"`
	PurchaseOrder   *PurchaseOrder  `gorm:"foreignKey:PurchaseOrderID"`
	Item            *Item           `gorm:"foreignKey:ItemID"`
	CreatedAt       time.Time       `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt       time.Time       `gorm:"column:updated_at;autoUpdateTime"`
}
