package summaries

import (
	"context"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/rakaputra/warungpos-backend/pkg/db/models"
	"github.com/rakaputra/warungpos-backend/pkg/enums"
)

// Repository owns reads and writes of the daily_summaries table plus the
// aggregation queries it is derived from.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	AggregateDate(ctx context.Context, date time.Time) (*DayAggregate, error)
	UpsertSummary(ctx context.Context, summary *models.DailySummary) error
	FindByDate(ctx context.Context, date time.Time) (*models.DailySummary, error)
	FindRange(ctx context.Context, from, to time.Time) ([]models.DailySummary, error)
}

// DayAggregate is the raw rollup computed from the orders table for one date.
type DayAggregate struct {
	TotalOrders        int
	CompletedOrders    int
	CancelledOrders    int
	TotalRevenueCents  int64
	TotalDiscountCents int64
	TotalTaxCents      int64
}

type repository struct {
	db *gorm.DB
}

// NewRepository builds a summaries repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

// DayBounds returns the [start, next-day) window for the date in its location.
func DayBounds(date time.Time) (time.Time, time.Time) {
	start := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, date.Location())
	return start, start.AddDate(0, 0, 1)
}

func (r *repository) AggregateDate(ctx context.Context, date time.Time) (*DayAggregate, error) {
	start, end := DayBounds(date)

	base := func() *gorm.DB {
		return r.db.WithContext(ctx).
			Model(&models.Order{}).
			Where("created_at >= ? AND created_at < ?", start, end)
	}

	agg := &DayAggregate{}

	var total int64
	if err := base().Count(&total).Error; err != nil {
		return nil, err
	}
	agg.TotalOrders = int(total)

	var completed int64
	if err := base().Where("status = ?", enums.OrderStatusCompleted).Count(&completed).Error; err != nil {
		return nil, err
	}
	agg.CompletedOrders = int(completed)

	var cancelled int64
	if err := base().Where("status = ?", enums.OrderStatusCancelled).Count(&cancelled).Error; err != nil {
		return nil, err
	}
	agg.CancelledOrders = int(cancelled)

	var money struct {
		Revenue  int64
		Discount int64
		Tax      int64
	}
	err := base().
		Where("status = ?", enums.OrderStatusCompleted).
		Select("COALESCE(SUM(total_cents), 0) AS revenue, COALESCE(SUM(discount_cents), 0) AS discount, COALESCE(SUM(tax_cents), 0) AS tax").
		Scan(&money).Error
	if err != nil {
		return nil, err
	}
	agg.TotalRevenueCents = money.Revenue
	agg.TotalDiscountCents = money.Discount
	agg.TotalTaxCents = money.Tax

	return agg, nil
}

func (r *repository) UpsertSummary(ctx context.Context, summary *models.DailySummary) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "report_date"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"total_orders",
				"completed_orders",
				"cancelled_orders",
				"total_revenue_cents",
				"total_discount_cents",
				"total_tax_cents",
				"average_order_value_cents",
				"updated_at",
			}),
		}).
		Create(summary).Error
}

func (r *repository) FindByDate(ctx context.Context, date time.Time) (*models.DailySummary, error) {
	start, _ := DayBounds(date)
	var summary models.DailySummary
	err := r.db.WithContext(ctx).
		Where("report_date = ?", start).
		First(&summary).Error
	if err != nil {
		return nil, err
	}
	return &summary, nil
}

func (r *repository) FindRange(ctx context.Context, from, to time.Time) ([]models.DailySummary, error) {
	fromStart, _ := DayBounds(from)
	toStart, _ := DayBounds(to)
	var rows []models.DailySummary
	err := r.db.WithContext(ctx).
		Where("report_date >= ? AND report_date <= ?", fromStart, toStart).
		Order("report_date ASC").
		Find(&rows).Error
	return rows, err
}
