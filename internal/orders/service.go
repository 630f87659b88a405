package orders

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
	pkgerrors "github.com/rakaputra/warungpos-backend/pkg/errors"
	"github.com/rakaputra/warungpos-backend/pkg/outbox"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type outboxPublisher interface {
	Emit(ctx context.Context, tx *gorm.DB, event outbox.DomainEvent) error
}

// mutationEvents is the post-commit notification surface; *events.Dispatcher
// satisfies it.
type mutationEvents interface {
	OrderCreated(ctx context.Context, orderID uuid.UUID)
	OrderUpdated(ctx context.Context, orderID uuid.UUID, dirty events.DirtyFields)
	OrderDeleted(ctx context.Context, orderID uuid.UUID)
	OrderRestored(ctx context.Context, orderID uuid.UUID)
	OrderPurged(ctx context.Context, orderID uuid.UUID)
}

// Service defines the authoritative order operations.
type Service interface {
	Create(ctx context.Context, input CreateInput) (*models.Order, error)
	Update(ctx context.Context, input UpdateInput) (*models.Order, error)
	SoftDelete(ctx context.Context, orderID uuid.UUID) error
	Restore(ctx context.Context, orderID uuid.UUID) error
	ForceDelete(ctx context.Context, orderID uuid.UUID) error
	AddPayment(ctx context.Context, input PaymentInput) error
	Get(ctx context.Context, orderID uuid.UUID) (*models.Order, error)
	List(ctx context.Context, filter ListFilter) ([]models.Order, error)
}

type service struct {
	repo   Repository
	tx     txRunner
	outbox outboxPublisher
	events mutationEvents
	now    func() time.Time
}

// ItemInput is one order line in a create request.
type ItemInput struct {
	ProductID      *uuid.UUID
	Qty            int
	UnitPriceCents int
	Notes          *string
}

// CreateInput carries everything needed to open an order.
type CreateInput struct {
	CustomerID    *uuid.UUID
	GuestName     *string
	OrderType     enums.OrderType
	TableNumber   *string
	Items         []ItemInput
	DiscountCents int
	TaxCents      int
	Notes         *string
}

// UpdateInput mutates an order; nil fields stay untouched. The service
// computes the dirty-column set from what actually changed.
type UpdateInput struct {
	OrderID       uuid.UUID
	Status        *enums.OrderStatus
	OrderType     *enums.OrderType
	TableNumber   *string
	GuestName     *string
	DiscountCents *int
	TaxCents      *int
	Notes         *string
}

// PaymentInput records a settlement against an order.
type PaymentInput struct {
	OrderID     uuid.UUID
	Method      enums.PaymentMethod
	AmountCents int
}

// OrderEvent is the outbox payload shared by the order lifecycle events.
type OrderEvent struct {
	OrderID     uuid.UUID         `json:"order_id"`
	OrderNumber string            `json:"order_number"`
	Status      enums.OrderStatus `json:"status"`
	TotalCents  int               `json:"total_cents"`
	DirtyFields []string          `json:"dirty_fields,omitempty"`
}

// NewService builds the order service.
func NewService(repo Repository, tx txRunner, outboxSvc outboxPublisher, dispatcher mutationEvents) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("orders repository required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	if outboxSvc == nil {
		return nil, fmt.Errorf("outbox publisher required")
	}
	if dispatcher == nil {
		return nil, fmt.Errorf("event dispatcher required")
	}
	return &service{
		repo:   repo,
		tx:     tx,
		outbox: outboxSvc,
		events: dispatcher,
		now:    time.Now,
	}, nil
}

func (s *service) Create(ctx context.Context, input CreateInput) (*models.Order, error) {
	if len(input.Items) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order requires at least one item")
	}
	if !input.OrderType.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid order type")
	}
	if input.DiscountCents < 0 || input.TaxCents < 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "discount and tax cannot be negative")
	}

	subtotal := 0
	items := make([]models.OrderItem, 0, len(input.Items))
	for _, item := range input.Items {
		if item.Qty <= 0 {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "item qty must be positive")
		}
		if item.UnitPriceCents < 0 {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "item price cannot be negative")
		}
		lineTotal := item.Qty * item.UnitPriceCents
		subtotal += lineTotal
		items = append(items, models.OrderItem{
			ID:             uuid.New(),
			ProductID:      item.ProductID,
			Qty:            item.Qty,
			UnitPriceCents: item.UnitPriceCents,
			TotalCents:     lineTotal,
			Notes:          item.Notes,
		})
	}

	total := subtotal - input.DiscountCents + input.TaxCents
	if total < 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "discount exceeds order value")
	}

	order := &models.Order{
		ID:            uuid.New(),
		CustomerID:    input.CustomerID,
		GuestName:     input.GuestName,
		Status:        enums.OrderStatusPending,
		OrderType:     input.OrderType,
		TableNumber:   input.TableNumber,
		SubtotalCents: subtotal,
		DiscountCents: input.DiscountCents,
		TaxCents:      input.TaxCents,
		TotalCents:    total,
		Notes:         input.Notes,
		Items:         items,
	}

	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		number, err := s.nextOrderNumber(ctx, repo)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "assign order number")
		}
		order.OrderNumber = number

		if err := repo.Create(ctx, order); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create order")
		}

		return s.outbox.Emit(ctx, tx, outbox.DomainEvent{
			EventType:     enums.EventOrderCreated,
			AggregateType: enums.AggregateOrder,
			AggregateID:   order.ID,
			Version:       1,
			Data: OrderEvent{
				OrderID:     order.ID,
				OrderNumber: order.OrderNumber,
				Status:      order.Status,
				TotalCents:  order.TotalCents,
			},
		})
	})
	if err != nil {
		return nil, err
	}

	s.events.OrderCreated(ctx, order.ID)
	return order, nil
}

func (s *service) Update(ctx context.Context, input UpdateInput) (*models.Order, error) {
	if input.OrderID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order id required")
	}
	if input.Status != nil && !input.Status.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid order status")
	}
	if input.OrderType != nil && !input.OrderType.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid order type")
	}

	var updated *models.Order
	var dirty events.DirtyFields

	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		order, err := repo.FindByID(ctx, input.OrderID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load order")
		}

		updates, dirtySet := diffOrder(order, input)
		dirty = dirtySet
		if len(updates) == 0 {
			updated = order
			return nil
		}

		if err := repo.Update(ctx, order.ID, updates); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update order")
		}

		updated, err = repo.FindByID(ctx, order.ID)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "reload order")
		}

		return s.outbox.Emit(ctx, tx, outbox.DomainEvent{
			EventType:     enums.EventOrderUpdated,
			AggregateType: enums.AggregateOrder,
			AggregateID:   order.ID,
			Version:       1,
			Data: OrderEvent{
				OrderID:     updated.ID,
				OrderNumber: updated.OrderNumber,
				Status:      updated.Status,
				TotalCents:  updated.TotalCents,
				DirtyFields: dirty.Fields(),
			},
		})
	})
	if err != nil {
		return nil, err
	}

	if !dirty.Empty() {
		s.events.OrderUpdated(ctx, input.OrderID, dirty)
	}
	return updated, nil
}

func (s *service) SoftDelete(ctx context.Context, orderID uuid.UUID) error {
	if orderID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "order id required")
	}

	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		order, err := repo.FindByID(ctx, orderID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load order")
		}
		if err := repo.SoftDelete(ctx, orderID); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "soft delete order")
		}
		return s.outbox.Emit(ctx, tx, outbox.DomainEvent{
			EventType:     enums.EventOrderDeleted,
			AggregateType: enums.AggregateOrder,
			AggregateID:   orderID,
			Version:       1,
			Data: OrderEvent{
				OrderID:     order.ID,
				OrderNumber: order.OrderNumber,
				Status:      order.Status,
				TotalCents:  order.TotalCents,
			},
		})
	})
	if err != nil {
		return err
	}

	s.events.OrderDeleted(ctx, orderID)
	return nil
}

func (s *service) Restore(ctx context.Context, orderID uuid.UUID) error {
	if orderID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "order id required")
	}

	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		order, err := repo.FindByIDAnyState(ctx, orderID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load order")
		}
		if !order.DeletedAt.Valid {
			return pkgerrors.New(pkgerrors.CodeStateConflict, "order is not deleted")
		}
		if err := repo.Restore(ctx, orderID); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "restore order")
		}
		return s.outbox.Emit(ctx, tx, outbox.DomainEvent{
			EventType:     enums.EventOrderRestored,
			AggregateType: enums.AggregateOrder,
			AggregateID:   orderID,
			Version:       1,
			Data: OrderEvent{
				OrderID:     order.ID,
				OrderNumber: order.OrderNumber,
				Status:      order.Status,
				TotalCents:  order.TotalCents,
			},
		})
	})
	if err != nil {
		return err
	}

	s.events.OrderRestored(ctx, orderID)
	return nil
}

func (s *service) ForceDelete(ctx context.Context, orderID uuid.UUID) error {
	if orderID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "order id required")
	}

	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		order, err := repo.FindByIDAnyState(ctx, orderID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load order")
		}
		if err := repo.ForceDelete(ctx, orderID); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "force delete order")
		}
		return s.outbox.Emit(ctx, tx, outbox.DomainEvent{
			EventType:     enums.EventOrderPurged,
			AggregateType: enums.AggregateOrder,
			AggregateID:   orderID,
			Version:       1,
			Data: OrderEvent{
				OrderID:     order.ID,
				OrderNumber: order.OrderNumber,
				Status:      order.Status,
				TotalCents:  order.TotalCents,
			},
		})
	})
	if err != nil {
		return err
	}

	s.events.OrderPurged(ctx, orderID)
	return nil
}

func (s *service) AddPayment(ctx context.Context, input PaymentInput) error {
	if input.OrderID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "order id required")
	}
	if !input.Method.IsValid() {
		return pkgerrors.New(pkgerrors.CodeValidation, "invalid payment method")
	}
	if input.AmountCents <= 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "payment amount must be positive")
	}

	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		if _, err := repo.FindByID(ctx, input.OrderID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load order")
		}
		payment := &models.Payment{
			ID:          uuid.New(),
			OrderID:     input.OrderID,
			Method:      input.Method,
			AmountCents: input.AmountCents,
			PaidAt:      s.now(),
		}
		if err := repo.AddPayment(ctx, payment); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "record payment")
		}
		return nil
	})
	if err != nil {
		return err
	}

	// The snapshot derives payment_method from the payments table, so a new
	// payment needs a rebuild even though no order column changed.
	s.events.OrderUpdated(ctx, input.OrderID, events.NewDirtyFields("payment_method"))
	return nil
}

func (s *service) Get(ctx context.Context, orderID uuid.UUID) (*models.Order, error) {
	order, err := s.repo.FindByID(ctx, orderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load order")
	}
	return order, nil
}

func (s *service) List(ctx context.Context, filter ListFilter) ([]models.Order, error) {
	rows, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list orders")
	}
	return rows, nil
}

// nextOrderNumber assigns WP-YYYYMMDD-NNNN within the creation day.
func (s *service) nextOrderNumber(ctx context.Context, repo Repository) (string, error) {
	today := s.now()
	count, err := repo.CountForDate(ctx, today)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("WP-%s-%04d", today.Format("20060102"), count+1), nil
}

// diffOrder builds the column update map and matching dirty set from the
// fields that actually change.
func diffOrder(order *models.Order, input UpdateInput) (map[string]any, events.DirtyFields) {
	updates := map[string]any{}
	dirty := events.NewDirtyFields()

	if input.Status != nil && *input.Status != order.Status {
		updates["status"] = *input.Status
		dirty["status"] = struct{}{}
	}
	if input.OrderType != nil && *input.OrderType != order.OrderType {
		updates["order_type"] = *input.OrderType
		dirty["order_type"] = struct{}{}
	}
	if input.TableNumber != nil && !equalStringPtr(input.TableNumber, order.TableNumber) {
		updates["table_number"] = *input.TableNumber
		dirty["table_number"] = struct{}{}
	}
	if input.GuestName != nil && !equalStringPtr(input.GuestName, order.GuestName) {
		updates["guest_name"] = *input.GuestName
		dirty["guest_name"] = struct{}{}
	}
	if input.Notes != nil && !equalStringPtr(input.Notes, order.Notes) {
		updates["notes"] = *input.Notes
		dirty["notes"] = struct{}{}
	}

	discount := order.DiscountCents
	tax := order.TaxCents
	moneyChanged := false
	if input.DiscountCents != nil && *input.DiscountCents != order.DiscountCents {
		discount = *input.DiscountCents
		updates["discount_cents"] = discount
		dirty["discount_cents"] = struct{}{}
		moneyChanged = true
	}
	if input.TaxCents != nil && *input.TaxCents != order.TaxCents {
		tax = *input.TaxCents
		updates["tax_cents"] = tax
		dirty["tax_cents"] = struct{}{}
		moneyChanged = true
	}
	if moneyChanged {
		updates["total_cents"] = order.SubtotalCents - discount + tax
		dirty["total_cents"] = struct{}{}
	}

	return updates, dirty
}

func equalStringPtr(a, b *string) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}
