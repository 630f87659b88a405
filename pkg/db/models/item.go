package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Item is a purchasable ingredient or stock unit. LastCost is the item's
// current unit cost as resolved by the costing engine from purchase history.
type Item struct {
	ID            uuid.UUID       `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	SupplierID    *uuid.UUID      `gorm:"column:supplier_id;type:uuid"`
	Name          string          `gorm:"column:name;not null"`
	Unit          string          `gorm:"column:unit;not null;default:'pcs'"`
	LastCost      decimal.Decimal `gorm:"column:last_cost;type:numeric(14,4);not null;default:0"`
	CostUpdatedAt *time.Time      `gorm:"column:cost_updated_at"`
	Supplier      *Supplier       `gorm:"foreignKey:SupplierID"`
	CreatedAt     time.Time       `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt     time.Time       `gorm:"column:updated_at;autoUpdateTime"`
}
