package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/rakaputra/warungpos-backend/pkg/enums"
)

// Order is the authoritative sales transaction. The snapshot cache and daily
// summary are derived from it and never written by the order services.
type Order struct {
	ID            uuid.UUID         `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	OrderNumber   string            `gorm:"column:order_number;not null;uniqueIndex"`
	CustomerID    *uuid.UUID        `gorm:"column:customer_id;type:uuid"`
	GuestName     *string           `gorm:"column:guest_name"`
	Status        enums.OrderStatus `gorm:"column:status;type:text;not null;default:'pending'"`
	OrderType     enums.OrderType   `gorm:"column:order_type;type:text;not null;default:'dine_in'"`
	TableNumber   *string           `gorm:"column:table_number"`
	SubtotalCents int               `gorm:"column:subtotal_cents;not null"`
	DiscountCents int               `gorm:"column:discount_cents;not null;default:0"`
	TaxCents      int               `gorm:"column:tax_cents;not null;default:0"`
	TotalCents    int               `gorm:"column:total_cents;not null"`
	Notes         *string           `gorm:"column:notes"`
	Customer      *Customer         `gorm:"foreignKey:CustomerID"`
	Items         []OrderItem       `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
	Payments      []Payment         `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
	CreatedAt     time.Time         `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt     time.Time         `gorm:"column:updated_at;autoUpdateTime"`
	DeletedAt     gorm.DeletedAt    `gorm:"column:deleted_at;index"`
}
