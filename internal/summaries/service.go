package summaries

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/rakaputra/warungpos-backend/pkg/db/models"
	"github.com/rakaputra/warungpos-backend/pkg/logger"
	"github.com/rakaputra/warungpos-backend/pkg/metrics"
)

// Service recomputes the per-date sales rollup. Recompute is a full
// recalculation from the orders table, so repeated runs converge and a summary
// corrupted by any earlier failure heals on the next trigger.
type Service interface {
	Recompute(ctx context.Context, date time.Time) error
	OrderDateChanged(ctx context.Context, date time.Time)
}

type service struct {
	repo    Repository
	logg    *logger.Logger
	metrics *metrics.EngineMetrics
}

// NewService builds the daily summary maintainer.
func NewService(repo Repository, logg *logger.Logger, engineMetrics *metrics.EngineMetrics) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("summaries repository required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &service{repo: repo, logg: logg, metrics: engineMetrics}, nil
}

// Recompute rebuilds the summary row for the date and upserts it.
func (s *service) Recompute(ctx context.Context, date time.Time) error {
	agg, err := s.repo.AggregateDate(ctx, date)
	if err != nil {
		return fmt.Errorf("aggregate orders for date: %w", err)
	}

	start, _ := DayBounds(date)
	summary := &models.DailySummary{
		ID:                     uuid.New(),
		ReportDate:             start,
		TotalOrders:            agg.TotalOrders,
		CompletedOrders:        agg.CompletedOrders,
		CancelledOrders:        agg.CancelledOrders,
		TotalRevenueCents:      agg.TotalRevenueCents,
		TotalDiscountCents:     agg.TotalDiscountCents,
		TotalTaxCents:          agg.TotalTaxCents,
		AverageOrderValueCents: averageOrderValue(agg.TotalRevenueCents, agg.CompletedOrders),
	}

	if err := s.repo.UpsertSummary(ctx, summary); err != nil {
		return fmt.Errorf("upsert daily summary: %w", err)
	}

	s.metrics.IncSummaryRebuild()
	return nil
}

// OrderDateChanged is the swallow boundary used by upstream maintainers: any
// failure is logged and terminated here, never propagated to the mutation path.
func (s *service) OrderDateChanged(ctx context.Context, date time.Time) {
	if err := s.Recompute(ctx, date); err != nil {
		logCtx := s.logg.WithField(ctx, "report_date", date.Format("2006-01-02"))
		s.logg.Error(logCtx, "daily summary recompute failed", err)
		s.metrics.IncSummaryFailure()
	}
}

func averageOrderValue(revenueCents int64, completedOrders int) int64 {
	if completedOrders <= 0 {
		return 0
	}
	return revenueCents / int64(completedOrders)
}
