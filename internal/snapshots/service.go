package snapshots

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/rakaputra/warungpos-backend/internal/events"
	"github.com/rakaputra/warungpos-backend/pkg/db/models"
	"github.com/rakaputra/warungpos-backend/pkg/enums"
	"github.com/rakaputra/warungpos-backend/pkg/logger"
	"github.com/rakaputra/warungpos-backend/pkg/metrics"
	"github.com/rakaputra/warungpos-backend/pkg/types"
)

// snapshotDirtyColumns are the only changes that warrant a rebuild; updates
// touching nothing in this set are skipped entirely. payment_method is not an
// order column, it marks a payment recorded against the order.
var snapshotDirtyColumns = []string{"status", "total_cents", "discount_cents", "tax_cents", "payment_method"}

const (
	defaultCustomerName  = "Guest"
	unknownProductName   = "Unknown"
	defaultPaymentMethod = enums.PaymentMethodCash
)

// SummaryTrigger is the downstream rollup boundary. Implementations swallow
// their own failures; callers fire and forget.
type SummaryTrigger interface {
	OrderDateChanged(ctx context.Context, date time.Time)
}

// Service maintains the order_snapshots cache. It implements
// events.OrderObserver; every method is a terminal failure boundary so a cache
// problem can never surface to the mutation that triggered it.
type Service interface {
	events.OrderObserver
	Rebuild(ctx context.Context, orderID uuid.UUID) error
}

type service struct {
	repo      Repository
	summaries SummaryTrigger
	logg      *logger.Logger
	metrics   *metrics.EngineMetrics
}

// NewService builds the order snapshot maintainer.
func NewService(repo Repository, summaries SummaryTrigger, logg *logger.Logger, engineMetrics *metrics.EngineMetrics) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("snapshots repository required")
	}
	if summaries == nil {
		return nil, fmt.Errorf("summary trigger required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &service{
		repo:      repo,
		summaries: summaries,
		logg:      logg,
		metrics:   engineMetrics,
	}, nil
}

func (s *service) OrderCreated(ctx context.Context, orderID uuid.UUID) {
	s.rebuildAndReport(ctx, orderID, "order_created")
}

func (s *service) OrderUpdated(ctx context.Context, orderID uuid.UUID, dirty events.DirtyFields) {
	if !dirty.Any(snapshotDirtyColumns...) {
		return
	}
	s.rebuildAndReport(ctx, orderID, "order_updated")
}

func (s *service) OrderRestored(ctx context.Context, orderID uuid.UUID) {
	s.rebuildAndReport(ctx, orderID, "order_restored")
}

func (s *service) OrderDeleted(ctx context.Context, orderID uuid.UUID) {
	s.removeAndReport(ctx, orderID, "order_deleted")
}

func (s *service) OrderPurged(ctx context.Context, orderID uuid.UUID) {
	s.removeAndReport(ctx, orderID, "order_purged")
}

// Rebuild recomputes the snapshot from a fresh read of the authoritative
// tables and upserts it keyed by order id.
func (s *service) Rebuild(ctx context.Context, orderID uuid.UUID) error {
	order, err := s.repo.FindOrder(ctx, orderID)
	if err != nil {
		return fmt.Errorf("load order: %w", err)
	}

	snapshot := buildSnapshot(order)
	if err := s.repo.Upsert(ctx, snapshot); err != nil {
		return fmt.Errorf("upsert snapshot: %w", err)
	}

	s.summaries.OrderDateChanged(ctx, order.CreatedAt)
	return nil
}

func (s *service) rebuildAndReport(ctx context.Context, orderID uuid.UUID, trigger string) {
	if err := s.Rebuild(ctx, orderID); err != nil {
		s.reportFailure(ctx, orderID, trigger, err)
		return
	}
	s.metrics.IncSnapshotRebuild(trigger)
}

// removeAndReport drops the snapshot row and corrects the rollup of the
// order's original creation date. The date is resolved from the soft-deleted
// order when it still exists, otherwise from the snapshot being removed.
func (s *service) removeAndReport(ctx context.Context, orderID uuid.UUID, trigger string) {
	reportDate, haveDate := s.resolveOrderDate(ctx, orderID)

	if err := s.repo.DeleteByOrderID(ctx, orderID); err != nil {
		s.reportFailure(ctx, orderID, trigger, fmt.Errorf("delete snapshot: %w", err))
		return
	}
	s.metrics.IncSnapshotDelete()

	if haveDate {
		s.summaries.OrderDateChanged(ctx, reportDate)
	}
}

func (s *service) resolveOrderDate(ctx context.Context, orderID uuid.UUID) (time.Time, bool) {
	if order, err := s.repo.FindOrderAnyState(ctx, orderID); err == nil {
		return order.CreatedAt, true
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		s.logg.Warn(s.logg.WithOrderID(ctx, orderID.String()), "could not load order for rollup date")
	}
	if snapshot, err := s.repo.FindByOrderID(ctx, orderID); err == nil {
		return snapshot.OrderDate, true
	}
	return time.Time{}, false
}

func (s *service) reportFailure(ctx context.Context, orderID uuid.UUID, trigger string, err error) {
	logCtx := s.logg.WithFields(ctx, map[string]any{
		"order_id": orderID.String(),
		"trigger":  trigger,
	})
	s.logg.Error(logCtx, "order snapshot maintenance failed", err)
	s.metrics.IncSnapshotFailure()
}

func buildSnapshot(order *models.Order) *models.OrderSnapshot {
	day := time.Date(
		order.CreatedAt.Year(), order.CreatedAt.Month(), order.CreatedAt.Day(),
		0, 0, 0, 0, order.CreatedAt.Location(),
	)

	details := make(types.ItemDetails, 0, len(order.Items))
	for _, item := range order.Items {
		name := unknownProductName
		if item.Product != nil {
			name = item.Product.Name
		}
		details = append(details, types.ItemDetail{Name: name, Qty: item.Qty})
	}

	return &models.OrderSnapshot{
		ID:            uuid.New(),
		OrderID:       order.ID,
		OrderNumber:   order.OrderNumber,
		OrderDate:     day,
		OrderTime:     order.CreatedAt.Format("15:04:05"),
		CustomerName:  customerDisplayName(order),
		TableNumber:   order.TableNumber,
		OrderType:     order.OrderType,
		Status:        order.Status,
		TotalCents:    order.TotalCents,
		PaymentMethod: latestPaymentMethod(order.Payments),
		ItemCount:     len(order.Items),
		ItemDetails:   details,
	}
}

func customerDisplayName(order *models.Order) string {
	if order.Customer != nil && order.Customer.Name != "" {
		return order.Customer.Name
	}
	if order.GuestName != nil && *order.GuestName != "" {
		return *order.GuestName
	}
	return defaultCustomerName
}

// latestPaymentMethod relies on the repository preload ordering payments
// newest first.
func latestPaymentMethod(payments []models.Payment) enums.PaymentMethod {
	if len(payments) == 0 {
		return defaultPaymentMethod
	}
	return payments[0].Method
}
