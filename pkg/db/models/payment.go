package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/rakaputra/warungpos-backend/pkg/enums"
)

// Payment records how (part of) an order was settled.
type Payment struct {
	ID          uuid.UUID           `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	OrderID     uuid.UUID           `gorm:"column:order_id;type:uuid;not null"`
	Method      enums.PaymentMethod `gorm:"column:method;type:text;not null;default:'cash'"`
	AmountCents int                 `gorm:"column:amount_cents;not null"`
	PaidAt      time.Time           `gorm:"column:paid_at;not null"`
	CreatedAt   time.Time           `gorm:"column:created_at;autoCreateTime"`
}
