package models

import (
	"time"

	"github.com/google/uuid"
)

// OrderItem is one line of a sales order. ProductID may be null when the
// product was removed from the catalog after the sale.
type OrderItem struct {
	ID             uuid.UUID  `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	OrderID        uuid.UUID  `gorm:"column:order_id;type:uuid;not null"`
	ProductID      *uuid.UUID `gorm:"column:product_id;type:uuid"`
	Qty            int        `gorm:"column:qty;not null"`
	UnitPriceCents int        `gorm:"column:unit_price_cents;not null"`
	TotalCents     int        `gorm:"column:total_cents;not null"`
	Notes          *string    `gorm:"column:notes"`
	Product        *Product   `gorm:"foreignKey:ProductID"`
	CreatedAt      time.Time  `gorm:"column:created_at;autoCreateTime"`
}
