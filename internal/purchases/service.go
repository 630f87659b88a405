package purchases

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
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

// lineEvents is the post-commit notification surface for purchase line
// mutations; *events.Dispatcher satisfies it.
type lineEvents interface {
	PurchaseLineCreated(ctx context.Context, itemID uuid.UUID)
	PurchaseLineUpdated(ctx context.Context, itemID uuid.UUID, dirty events.DirtyFields)
	PurchaseLineDeleted(ctx context.Context, itemID uuid.UUID)
}

// Service defines purchase order and purchase line operations.
type Service interface {
	Create(ctx context.Context, input CreateInput) (*models.PurchaseOrder, error)
	Update(ctx context.Context, input UpdateInput) (*models.PurchaseOrder, error)
	Get(ctx context.Context, purchaseID uuid.UUID) (*models.PurchaseOrder, error)
	List(ctx context.Context, filter ListFilter) ([]models.PurchaseOrder, error)

	AddLine(ctx context.Context, input LineInput) (*models.PurchaseLine, error)
	UpdateLine(ctx context.Context, input UpdateLineInput) (*models.PurchaseLine, error)
	DeleteLine(ctx context.Context, lineID uuid.UUID) error
}

type service struct {
	repo   Repository
	tx     txRunner
	outbox outboxPublisher
	events lineEvents
	now    func() time.Time
}

// LineInput is one item position in a purchase.
type LineInput struct {
	PurchaseID uuid.UUID
	ItemID     uuid.UUID
	Qty        decimal.Decimal
	UnitCost   decimal.Decimal
}

// CreateInput opens a purchase order, optionally with its lines.
type CreateInput struct {
	SupplierID   uuid.UUID
	PurchaseDate time.Time
	Notes        *string
	Lines        []LineInput
}

// UpdateInput mutates purchase order headers; nil fields stay untouched.
type UpdateInput struct {
	PurchaseID   uuid.UUID
	Status       *enums.PurchaseStatus
	PurchaseDate *time.Time
	Notes        *string
}

// UpdateLineInput mutates a purchase line; nil fields stay untouched.
type UpdateLineInput struct {
	LineID   uuid.UUID
	Qty      *decimal.Decimal
	UnitCost *decimal.Decimal
}

// LineEvent is the outbox payload for purchase line lifecycle events.
type LineEvent struct {
	LineID      uuid.UUID       `json:"line_id"`
	PurchaseID  uuid.UUID       `json:"purchase_id"`
	ItemID      uuid.UUID       `json:"item_id"`
	Qty         decimal.Decimal `json:"qty"`
	UnitCost    decimal.Decimal `json:"unit_cost"`
	DirtyFields []string        `json:"dirty_fields,omitempty"`
}

// NewService builds the purchase service.
func NewService(repo Repository, tx txRunner, outboxSvc outboxPublisher, dispatcher lineEvents) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("purchases repository required")
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

func (s *service) Create(ctx context.Context, input CreateInput) (*models.PurchaseOrder, error) {
	if input.SupplierID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "supplier id required")
	}
	if input.PurchaseDate.IsZero() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "purchase date required")
	}

	lines := make([]models.PurchaseLine, 0, len(input.Lines))
	for _, line := range input.Lines {
		built, err := buildLine(line.ItemID, line.Qty, line.UnitCost)
		if err != nil {
			return nil, err
		}
		lines = append(lines, *built)
	}

	purchase := &models.PurchaseOrder{
		ID:           uuid.New(),
		SupplierID:   input.SupplierID,
		Status:       enums.PurchaseStatusDraft,
		PurchaseDate: input.PurchaseDate,
		Notes:        input.Notes,
		Lines:        lines,
	}

	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		number, err := s.nextPurchaseNumber(ctx, repo)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "assign purchase number")
		}
		purchase.Number = number

		if err := repo.Create(ctx, purchase); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create purchase")
		}

		for _, line := range purchase.Lines {
			err := s.outbox.Emit(ctx, tx, outbox.DomainEvent{
				EventType:     enums.EventPurchaseLineCreated,
				AggregateType: enums.AggregatePurchaseLine,
				AggregateID:   line.ID,
				Version:       1,
				Data: LineEvent{
					LineID:     line.ID,
					PurchaseID: purchase.ID,
					ItemID:     line.ItemID,
					Qty:        line.Qty,
					UnitCost:   line.UnitCost,
				},
			})
			if err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	for _, line := range purchase.Lines {
		s.events.PurchaseLineCreated(ctx, line.ItemID)
	}
	return purchase, nil
}

func (s *service) Update(ctx context.Context, input UpdateInput) (*models.PurchaseOrder, error) {
	if input.PurchaseID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "purchase id required")
	}
	if input.Status != nil && !input.Status.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid purchase status")
	}

	var updated *models.PurchaseOrder
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		purchase, err := repo.FindByID(ctx, input.PurchaseID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.New(pkgerrors.CodeNotFound, "purchase not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load purchase")
		}

		updates := map[string]any{}
		if input.Status != nil && *input.Status != purchase.Status {
			updates["status"] = *input.Status
		}
		if input.PurchaseDate != nil && !input.PurchaseDate.Equal(purchase.PurchaseDate) {
			updates["purchase_date"] = *input.PurchaseDate
		}
		if input.Notes != nil {
			updates["notes"] = *input.Notes
		}
		if len(updates) == 0 {
			updated = purchase
			return nil
		}

		if err := repo.Update(ctx, purchase.ID, updates); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update purchase")
		}
		updated, err = repo.FindByID(ctx, purchase.ID)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "reload purchase")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

func (s *service) Get(ctx context.Context, purchaseID uuid.UUID) (*models.PurchaseOrder, error) {
	purchase, err := s.repo.FindByID(ctx, purchaseID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "purchase not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load purchase")
	}
	return purchase, nil
}

func (s *service) List(ctx context.Context, filter ListFilter) ([]models.PurchaseOrder, error) {
	rows, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list purchases")
	}
	return rows, nil
}

func (s *service) AddLine(ctx context.Context, input LineInput) (*models.PurchaseLine, error) {
	if input.PurchaseID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "purchase id required")
	}
	line, err := buildLine(input.ItemID, input.Qty, input.UnitCost)
	if err != nil {
		return nil, err
	}
	line.PurchaseOrderID = input.PurchaseID

	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		if _, err := repo.FindByID(ctx, input.PurchaseID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.New(pkgerrors.CodeNotFound, "purchase not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load purchase")
		}
		if err := repo.AddLine(ctx, line); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "add purchase line")
		}
		return s.outbox.Emit(ctx, tx, outbox.DomainEvent{
			EventType:     enums.EventPurchaseLineCreated,
			AggregateType: enums.AggregatePurchaseLine,
			AggregateID:   line.ID,
			Version:       1,
			Data: LineEvent{
				LineID:     line.ID,
				PurchaseID: input.PurchaseID,
				ItemID:     line.ItemID,
				Qty:        line.Qty,
				UnitCost:   line.UnitCost,
			},
		})
	})
	if err != nil {
		return nil, err
	}

	s.events.PurchaseLineCreated(ctx, line.ItemID)
	return line, nil
}

func (s *service) UpdateLine(ctx context.Context, input UpdateLineInput) (*models.PurchaseLine, error) {
	if input.LineID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "line id required")
	}
	if input.Qty != nil && !input.Qty.IsPositive() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "line qty must be positive")
	}
	if input.UnitCost != nil && input.UnitCost.IsNegative() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "unit cost cannot be negative")
	}

	var updated *models.PurchaseLine
	var dirty events.DirtyFields

	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		line, err := repo.FindLine(ctx, input.LineID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.New(pkgerrors.CodeNotFound, "purchase line not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load purchase line")
		}

		updates := map[string]any{}
		dirty = events.NewDirtyFields()
		qty := line.Qty
		cost := line.UnitCost
		if input.Qty != nil && !input.Qty.Equal(line.Qty) {
			qty = *input.Qty
			updates["qty"] = qty
			dirty["qty"] = struct{}{}
		}
		if input.UnitCost != nil && !input.UnitCost.Equal(line.UnitCost) {
			cost = *input.UnitCost
			updates["unit_cost"] = cost
			dirty["unit_cost"] = struct{}{}
		}
		if len(updates) == 0 {
			updated = line
			return nil
		}
		updates["total_cost"] = qty.Mul(cost)

		if err := repo.UpdateLine(ctx, line.ID, updates); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update purchase line")
		}
		updated, err = repo.FindLine(ctx, line.ID)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "reload purchase line")
		}

		return s.outbox.Emit(ctx, tx, outbox.DomainEvent{
			EventType:     enums.EventPurchaseLineUpdated,
			AggregateType: enums.AggregatePurchaseLine,
			AggregateID:   line.ID,
			Version:       1,
			Data: LineEvent{
				LineID:      updated.ID,
				PurchaseID:  updated.PurchaseOrderID,
				ItemID:      updated.ItemID,
				Qty:         updated.Qty,
				UnitCost:    updated.UnitCost,
				DirtyFields: dirty.Fields(),
			},
		})
	})
	if err != nil {
		return nil, err
	}

	if !dirty.Empty() {
		s.events.PurchaseLineUpdated(ctx, updated.ItemID, dirty)
	}
	return updated, nil
}

func (s *service) DeleteLine(ctx context.Context, lineID uuid.UUID) error {
	if lineID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "line id required")
	}

	var itemID uuid.UUID
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		line, err := repo.FindLine(ctx, lineID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.New(pkgerrors.CodeNotFound, "purchase line not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load purchase line")
		}
		itemID = line.ItemID

		if err := repo.DeleteLine(ctx, lineID); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete purchase line")
		}
		return s.outbox.Emit(ctx, tx, outbox.DomainEvent{
			EventType:     enums.EventPurchaseLineDeleted,
			AggregateType: enums.AggregatePurchaseLine,
			AggregateID:   lineID,
			Version:       1,
			Data: LineEvent{
				LineID:     line.ID,
				PurchaseID: line.PurchaseOrderID,
				ItemID:     line.ItemID,
				Qty:        line.Qty,
				UnitCost:   line.UnitCost,
			},
		})
	})
	if err != nil {
		return err
	}

	s.events.PurchaseLineDeleted(ctx, itemID)
	return nil
}

// nextPurchaseNumber assigns PO-YYYYMMDD-NNNN within the creation day.
func (s *service) nextPurchaseNumber(ctx context.Context, repo Repository) (string, error) {
	today := s.now()
	count, err := repo.CountForDate(ctx, today)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("PO-%s-%04d", today.Format("20060102"), count+1), nil
}

func buildLine(itemID uuid.UUID, qty, unitCost decimal.Decimal) (*models.PurchaseLine, error) {
	if itemID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "item id required")
	}
	if !qty.IsPositive() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "line qty must be positive")
	}
	if unitCost.IsNegative() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "unit cost cannot be negative")
	}
	return &models.PurchaseLine{
		ID:        uuid.New(),
		ItemID:    itemID,
		Qty:       qty,
		UnitCost:  unitCost,
		TotalCost: qty.Mul(unitCost),
	}, nil
}
