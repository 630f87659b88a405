package events

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/rakaputra/warungpos-backend/pkg/logger"
)

// OrderObserver reacts to order lifecycle changes after the mutating
// transaction has committed.
type OrderObserver interface {
	OrderCreated(ctx context.Context, orderID uuid.UUID)
	OrderUpdated(ctx context.Context, orderID uuid.UUID, dirty DirtyFields)
	OrderDeleted(ctx context.Context, orderID uuid.UUID)
	OrderRestored(ctx context.Context, orderID uuid.UUID)
	OrderPurged(ctx context.Context, orderID uuid.UUID)
}

// PurchaseLineObserver reacts to purchase line changes after commit. Observers
// receive the affected item id since downstream recalculation is item-centric.
type PurchaseLineObserver interface {
	PurchaseLineCreated(ctx context.Context, itemID uuid.UUID)
	PurchaseLineUpdated(ctx context.Context, itemID uuid.UUID, dirty DirtyFields)
	PurchaseLineDeleted(ctx context.Context, itemID uuid.UUID)
}

// Dispatcher fans mutation events out to registered observers. Registration
// happens once at boot; mutating services call the fire methods synchronously
// after their transaction commits. A panicking observer never reaches the
// mutating caller and never blocks the remaining observers.
type Dispatcher struct {
	logg           *logger.Logger
	orderObservers []OrderObserver
	lineObservers  []PurchaseLineObserver
}

// NewDispatcher builds an empty dispatcher.
func NewDispatcher(logg *logger.Logger) (*Dispatcher, error) {
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &Dispatcher{logg: logg}, nil
}

// RegisterOrderObserver appends an order observer. Not safe for concurrent use
// with the fire methods; call during boot only.
func (d *Dispatcher) RegisterOrderObserver(obs OrderObserver) {
	if obs == nil {
		return
	}
	d.orderObservers = append(d.orderObservers, obs)
}

// RegisterPurchaseLineObserver appends a purchase line observer.
func (d *Dispatcher) RegisterPurchaseLineObserver(obs PurchaseLineObserver) {
	if obs == nil {
		return
	}
	d.lineObservers = append(d.lineObservers, obs)
}

func (d *Dispatcher) OrderCreated(ctx context.Context, orderID uuid.UUID) {
	for _, obs := range d.orderObservers {
		d.safely(ctx, "order_created", orderID, func() {
			obs.OrderCreated(ctx, orderID)
		})
	}
}

func (d *Dispatcher) OrderUpdated(ctx context.Context, orderID uuid.UUID, dirty DirtyFields) {
	for _, obs := range d.orderObservers {
		d.safely(ctx, "order_updated", orderID, func() {
			obs.OrderUpdated(ctx, orderID, dirty)
		})
	}
}

func (d *Dispatcher) OrderDeleted(ctx context.Context, orderID uuid.UUID) {
	for _, obs := range d.orderObservers {
		d.safely(ctx, "order_deleted", orderID, func() {
			obs.OrderDeleted(ctx, orderID)
		})
	}
}

func (d *Dispatcher) OrderRestored(ctx context.Context, orderID uuid.UUID) {
	for _, obs := range d.orderObservers {
		d.safely(ctx, "order_restored", orderID, func() {
			obs.OrderRestored(ctx, orderID)
		})
	}
}

func (d *Dispatcher) OrderPurged(ctx context.Context, orderID uuid.UUID) {
	for _, obs := range d.orderObservers {
		d.safely(ctx, "order_purged", orderID, func() {
			obs.OrderPurged(ctx, orderID)
		})
	}
}

func (d *Dispatcher) PurchaseLineCreated(ctx context.Context, itemID uuid.UUID) {
	for _, obs := range d.lineObservers {
		d.safely(ctx, "purchase_line_created", itemID, func() {
			obs.PurchaseLineCreated(ctx, itemID)
		})
	}
}

func (d *Dispatcher) PurchaseLineUpdated(ctx context.Context, itemID uuid.UUID, dirty DirtyFields) {
	for _, obs := range d.lineObservers {
		d.safely(ctx, "purchase_line_updated", itemID, func() {
			obs.PurchaseLineUpdated(ctx, itemID, dirty)
		})
	}
}

func (d *Dispatcher) PurchaseLineDeleted(ctx context.Context, itemID uuid.UUID) {
	for _, obs := range d.lineObservers {
		d.safely(ctx, "purchase_line_deleted", itemID, func() {
			obs.PurchaseLineDeleted(ctx, itemID)
		})
	}
}

func (d *Dispatcher) safely(ctx context.Context, trigger string, subjectID uuid.UUID, fn func()) {
	defer func() {
		if rec := recover(); rec != nil {
			fields := map[string]any{
				"trigger":    trigger,
				"subject_id": subjectID.String(),
			}
			logCtx := d.logg.WithFields(ctx, fields)
			d.logg.Error(logCtx, "mutation observer panicked", fmt.Errorf("observer panic: %v", rec))
		}
	}()
	fn()
}
