package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/rakaputra/warungpos-backend/pkg/enums"
)

// PurchaseOrder is a restocking order placed with a supplier.
type PurchaseOrder struct {
	ID           uuid.UUID            `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Number       string               `gorm:"column:number;not null;uniqueIndex"`
	SupplierID   uuid.UUID            `gorm:"column:supplier_id;type:uuid;not null"`
	Status       enums.PurchaseStatus `gorm:"column:status;type:text;not null;default:'draft'"`
	PurchaseDate time.Time            `gorm:"column:purchase_date;type:date;not null"`
	Notes        *string              `gorm:"column:notes"`
	Supplier     *Supplier            `gorm:"foreignKey:SupplierID"`
	Lines        []PurchaseLine       `gorm:"foreignKey:PurchaseOrderID;constraint:OnDelete:CASCADE"`
	CreatedAt    time.Time            `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt    time.Time            `gorm:"column:updated_at;autoUpdateTime"`
}
