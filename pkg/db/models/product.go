package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"

	"github.com/rakaputra/warungpos-backend/pkg/enums"
)

// Product is a sellable menu entry. Its cost basis (HPP) is derived from the
// purchase costs of its recipe components and maintained by the costing engine;
// no other writer may touch the cost columns.
type Product struct {
	ID            uuid.UUID           `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	CategoryID    *uuid.UUID          `gorm:"column:category_id;type:uuid"`
	SKU           string              `gorm:"column:sku;not null"`
	Name          string              `gorm:"column:name;not null"`
	Description   *string             `gorm:"column:description"`
	PriceCents    int                 `gorm:"column:price_cents;not null"`
	CostPerUnit   decimal.Decimal     `gorm:"column:cost_per_unit;type:numeric(14,4);not null;default:0"`
	CostingMethod enums.CostingMethod `gorm:"column:costing_method;type:text;not null;default:'latest'"`
	CostUpdatedAt *time.Time          `gorm:"column:cost_updated_at"`
	Tags          pq.StringArray      `gorm:"column:tags;type:text[]"`
	IsActive      bool                `gorm:"column:is_active;not null;default:true"`
	Category      *Category           `gorm:"foreignKey:CategoryID"`
	Components    []ProductComponent  `gorm:"foreignKey:ProductID;constraint:OnDelete:CASCADE"`
	CreatedAt     time.Time           `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt     time.Time           `gorm:"column:updated_at;autoUpdateTime"`
}
