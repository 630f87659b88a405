package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ProductComponent links a product to one item of its recipe with the quantity
// consumed per unit sold. It is the fan-out edge for cost propagation.
type ProductComponent struct {
	ID         uuid.UUID       `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	ProductID  uuid.UUID       `gorm:"column:product_id;type:uuid;not null;uniqueIndex:ux_product_components_product_item"`
	ItemID     uuid.UUID       `gorm:"column:item_id;type:uuid;not null;uniqueIndex:ux_product_components_product_item"`
	QtyPerUnit decimal.Decimal `gorm:"column:qty_per_unit;type:numeric(12,4);not null"`
	Item       *Item           `gorm:"foreignKey:ItemID"`
	CreatedAt  time.Time       `gorm:"column:created_at;autoCreateTime"`
}
