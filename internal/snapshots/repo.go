package snapshots

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/rakaputra/warungpos-backend/pkg/db/models"
)

// Repository owns reads and writes of the order_snapshots table. The snapshot
// rows are written by the maintainer only.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	FindOrder(ctx context.Context, orderID uuid.UUID) (*models.Order, error)
	FindOrderAnyState(ctx context.Context, orderID uuid.UUID) (*models.Order, error)
	Upsert(ctx context.Context, snapshot *models.OrderSnapshot) error
	DeleteByOrderID(ctx context.Context, orderID uuid.UUID) error
	FindByOrderID(ctx context.Context, orderID uuid.UUID) (*models.OrderSnapshot, error)
	ListByDate(ctx context.Context, dayStart, dayEnd time.Time) ([]models.OrderSnapshot, error)
}

type repository struct {
	db *gorm.DB
}

// NewRepository builds a snapshots repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

// FindOrder loads the live order with every association the snapshot needs.
func (r *repository) FindOrder(ctx context.Context, orderID uuid.UUID) (*models.Order, error) {
	var order models.Order
	err := r.db.WithContext(ctx).
		Preload("Customer").
		Preload("Items", func(tx *gorm.DB) *gorm.DB {
			return tx.Order("order_items.created_at ASC, order_items.id ASC")
		}).
		Preload("Items.Product").
		Preload("Payments", func(tx *gorm.DB) *gorm.DB {
			return tx.Order("payments.paid_at DESC, payments.id DESC")
		}).
		Where("id = ?", orderID).
		First(&order).Error
	if err != nil {
		return nil, err
	}
	return &order, nil
}

// FindOrderAnyState loads the order ignoring soft deletion, for cleanup paths
// that only need its metadata.
func (r *repository) FindOrderAnyState(ctx context.Context, orderID uuid.UUID) (*models.Order, error) {
	var order models.Order
	err := r.db.WithContext(ctx).
		Unscoped().
		Where("id = ?", orderID).
		First(&order).Error
	if err != nil {
		return nil, err
	}
	return &order, nil
}

func (r *repository) Upsert(ctx context.Context, snapshot *models.OrderSnapshot) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "order_id"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"order_number",
				"order_date",
				"order_time",
				"customer_name",
				"table_number",
				"order_type",
				"status",
				"total_cents",
				"payment_method",
				"item_count",
				"item_details",
				"updated_at",
			}),
		}).
		Create(snapshot).Error
}

// DeleteByOrderID removes the snapshot row; a missing row is not an error.
func (r *repository) DeleteByOrderID(ctx context.Context, orderID uuid.UUID) error {
	return r.db.WithContext(ctx).
		Where("order_id = ?", orderID).
		Delete(&models.OrderSnapshot{}).Error
}

func (r *repository) FindByOrderID(ctx context.Context, orderID uuid.UUID) (*models.OrderSnapshot, error) {
	var snapshot models.OrderSnapshot
	err := r.db.WithContext(ctx).
		Where("order_id = ?", orderID).
		First(&snapshot).Error
	if err != nil {
		return nil, err
	}
	return &snapshot, nil
}

func (r *repository) ListByDate(ctx context.Context, dayStart, dayEnd time.Time) ([]models.OrderSnapshot, error) {
	var rows []models.OrderSnapshot
	err := r.db.WithContext(ctx).
		Where("order_date >= ? AND order_date < ?", dayStart, dayEnd).
		Order("order_time ASC").
		Find(&rows).Error
	return rows, err
}
