package models

import (
	"time"

	"github.com/google/uuid"
)

// DailySummary is the per-date sales rollup. Monetary fields cover completed
// orders only; counts cover all non-deleted orders created on the report date.
// It is recomputed in full on every trigger, so it self-heals.
type DailySummary struct {
	ID                     uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	ReportDate             time.Time `gorm:"column:report_date;type:date;not null;uniqueIndex:ux_daily_summaries_report_date"`
	TotalOrders            int       `gorm:"column:total_orders;not null"`
	CompletedOrders        int       `gorm:"column:completed_orders;not null"`
	CancelledOrders        int       `gorm:"column:cancelled_orders;not null"`
	TotalRevenueCents      int64     `gorm:"column:total_revenue_cents;not null"`
	TotalDiscountCents     int64     `gorm:"column:total_discount_cents;not null"`
	TotalTaxCents          int64     `gorm:"column:total_tax_cents;not null"`
	AverageOrderValueCents int64     `gorm:"column:average_order_value_cents;not null"`
	CreatedAt              time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt              time.Time `gorm:"column:updated_at;autoUpdateTime"`
}
