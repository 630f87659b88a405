package costing

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/rakaputra/warungpos-backend/pkg/db/models"
)

// Repository owns the purchase-history aggregation queries and the cost
// columns of items and products. Those columns have no other writer.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	LatestPurchaseCost(ctx context.Context, itemID uuid.UUID) (decimal.Decimal, error)
	WeightedAverageCost(ctx context.Context, itemID uuid.UUID) (decimal.Decimal, error)
	FindItem(ctx context.Context, itemID uuid.UUID) (*models.Item, error)
	UpdateItemCost(ctx context.Context, itemID uuid.UUID, cost decimal.Decimal, at time.Time) error
	ProductsReferencingItem(ctx context.Context, itemID uuid.UUID) ([]models.Product, error)
	UpdateProductCost(ctx context.Context, productID uuid.UUID, cost decimal.Decimal, at time.Time) error
}

type repository struct {
	db *gorm.DB
}

// NewRepository builds a costing repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

// LatestPurchaseCost returns the unit cost of the item's most recent purchase:
// newest purchase date first, ties broken by the newest line.
func (r *repository) LatestPurchaseCost(ctx context.Context, itemID uuid.UUID) (decimal.Decimal, error) {
	var line models.PurchaseLine
	err := r.db.WithContext(ctx).
		Joins("JOIN purchase_orders ON purchase_orders.id = purchase_lines.purchase_order_id").
		Where("purchase_lines.item_id = ?", itemID).
		Order("purchase_orders.purchase_date DESC").
		Order("purchase_lines.created_at DESC").
		First(&line).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return decimal.Zero, ErrNoPurchaseHistory
		}
		return decimal.Zero, err
	}
	return line.UnitCost, nil
}

// WeightedAverageCost returns the quantity-weighted mean unit cost over the
// item's entire purchase history.
func (r *repository) WeightedAverageCost(ctx context.Context, itemID uuid.UUID) (decimal.Decimal, error) {
	var lines []models.PurchaseLine
	err := r.db.WithContext(ctx).
		Where("item_id = ?", itemID).
		Find(&lines).Error
	if err != nil {
		return decimal.Zero, err
	}
	if len(lines) == 0 {
		return decimal.Zero, ErrNoPurchaseHistory
	}

	totalCost := decimal.Zero
	totalQty := decimal.Zero
	for _, line := range lines {
		totalCost = totalCost.Add(line.Qty.Mul(line.UnitCost))
		totalQty = totalQty.Add(line.Qty)
	}
	if totalQty.IsZero() {
		return decimal.Zero, ErrNoPurchaseHistory
	}
	return totalCost.Div(totalQty), nil
}

func (r *repository) FindItem(ctx context.Context, itemID uuid.UUID) (*models.Item, error) {
	var item models.Item
	err := r.db.WithContext(ctx).
		Where("id = ?", itemID).
		First(&item).Error
	if err != nil {
		return nil, err
	}
	return &item, nil
}

func (r *repository) UpdateItemCost(ctx context.Context, itemID uuid.UUID, cost decimal.Decimal, at time.Time) error {
	return r.db.WithContext(ctx).
		Model(&models.Item{}).
		Where("id = ?", itemID).
		Updates(map[string]any{
			"last_cost":       cost,
			"cost_updated_at": at,
		}).Error
}

// ProductsReferencingItem loads every product whose recipe uses the item,
// with the full component list preloaded for recomputation.
func (r *repository) ProductsReferencingItem(ctx context.Context, itemID uuid.UUID) ([]models.Product, error) {
	var products []models.Product
	err := r.db.WithContext(ctx).
		Joins("JOIN product_components ON product_components.product_id = products.id").
		Where("product_components.item_id = ?", itemID).
		Preload("Components").
		Preload("Components.Item").
		Find(&products).Error
	return products, err
}

func (r *repository) UpdateProductCost(ctx context.Context, productID uuid.UUID, cost decimal.Decimal, at time.Time) error {
	return r.db.WithContext(ctx).
		Model(&models.Product{}).
		Where("id = ?", productID).
		Updates(map[string]any{
			"cost_per_unit":   cost,
			"cost_updated_at": at,
		}).Error
}
