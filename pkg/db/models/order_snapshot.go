package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/rakaputra/warungpos-backend/pkg/enums"
	"github.com/rakaputra/warungpos-backend/pkg/types"
)

// OrderSnapshot is the denormalized read cache of one order. It exists iff the
// source order exists (not soft-deleted) and is always rebuilt in full, never
// patched, so it converges to a fresh read of the authoritative tables.
type OrderSnapshot struct {
	ID            uuid.UUID           `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	OrderID       uuid.UUID           `gorm:"column:order_id;type:uuid;not null;uniqueIndex:ux_order_snapshots_order_id"`
	OrderNumber   string              `gorm:"column:order_number;not null"`
	OrderDate     time.Time           `gorm:"column:order_date;type:date;not null"`
	OrderTime     string              `gorm:"column:order_time;not null"`
	CustomerName  string              `gorm:"column:customer_name;not null"`
	TableNumber   *string             `gorm:"column:table_number"`
	OrderType     enums.OrderType     `gorm:"column:order_type;type:text;not null"`
	Status        enums.OrderStatus   `gorm:"column:status;type:text;not null"`
	TotalCents    int                 `gorm:"column:total_cents;not null"`
	PaymentMethod enums.PaymentMethod `gorm:"column:payment_method;type:text;not null"`
	ItemCount     int                 `gorm:"column:item_count;not null"`
	ItemDetails   types.ItemDetails   `gorm:"column:item_details;type:jsonb;serializer:json"`
	CreatedAt     time.Time           `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt     time.Time           `gorm:"column:updated_at;autoUpdateTime"`
}
