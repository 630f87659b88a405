package costing

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/rakaputra/warungpos-backend/internal/events"
	"github.com/rakaputra/warungpos-backend/pkg/enums"
	"github.com/rakaputra/warungpos-backend/pkg/logger"
	"github.com/rakaputra/warungpos-backend/pkg/metrics"
)

// Propagator pushes purchase cost changes from an item to its own stored cost
// and to every product whose recipe references it. It implements
// events.PurchaseLineObserver; all methods are terminal failure boundaries.
type Propagator interface {
	events.PurchaseLineObserver
	Propagate(ctx context.Context, itemID uuid.UUID) error
}

type propagator struct {
	repo    Repository
	logg    *logger.Logger
	metrics *metrics.EngineMetrics
	now     func() time.Time
}

// NewPropagator builds the cost-basis propagator.
func NewPropagator(repo Repository, logg *logger.Logger, engineMetrics *metrics.EngineMetrics) (Propagator, error) {
	if repo == nil {
		return nil, fmt.Errorf("costing repository required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &propagator{
		repo:    repo,
		logg:    logg,
		metrics: engineMetrics,
		now:     time.Now,
	}, nil
}

func (p *propagator) PurchaseLineCreated(ctx context.Context, itemID uuid.UUID) {
	p.propagateAndReport(ctx, itemID, "purchase_line_created")
}

func (p *propagator) PurchaseLineUpdated(ctx context.Context, itemID uuid.UUID, dirty events.DirtyFields) {
	if !dirty.Has("unit_cost") {
		return
	}
	p.propagateAndReport(ctx, itemID, "purchase_line_updated")
}

func (p *propagator) PurchaseLineDeleted(ctx context.Context, itemID uuid.UUID) {
	p.propagateAndReport(ctx, itemID, "purchase_line_deleted")
}

// Propagate resolves the item's latest purchase cost, stores it, and
// recomputes the cost basis of every product containing the item. A product
// with an unresolvable component is skipped with a warning; other products
// still recalculate.
func (p *propagator) Propagate(ctx context.Context, itemID uuid.UUID) error {
	started := p.now()

	itemCost, err := p.repo.LatestPurchaseCost(ctx, itemID)
	if err != nil {
		if errors.Is(err, ErrNoPurchaseHistory) {
			p.logg.Info(p.logg.WithItemID(ctx, itemID.String()), "no purchase history, skipping cost propagation")
			return nil
		}
		return fmt.Errorf("resolve latest purchase cost: %w", err)
	}

	if err := p.repo.UpdateItemCost(ctx, itemID, itemCost, p.now()); err != nil {
		return fmt.Errorf("update item cost: %w", err)
	}

	products, err := p.repo.ProductsReferencingItem(ctx, itemID)
	if err != nil {
		return fmt.Errorf("load affected products: %w", err)
	}

	recalculated := make([]string, 0, len(products))
	for _, product := range products {
		logCtx := p.logg.WithFields(ctx, map[string]any{
			"product_id": product.ID.String(),
			"item_id":    itemID.String(),
		})
		cost, err := CompositionCost(product.Components, p.componentLookup(ctx, itemID, itemCost, product.CostingMethod))
		if err != nil {
			p.logg.Warn(logCtx, "skipping product with unresolvable component cost: "+err.Error())
			continue
		}
		// One product's write failure must not stop the rest of the fan-out.
		if err := p.repo.UpdateProductCost(ctx, product.ID, cost, p.now()); err != nil {
			p.logg.Error(logCtx, "product cost update failed", err)
			p.metrics.IncCostFailure()
			continue
		}
		recalculated = append(recalculated, product.ID.String())
	}

	if len(recalculated) > 0 {
		logCtx := p.logg.WithFields(ctx, map[string]any{
			"item_id":     itemID.String(),
			"product_ids": strings.Join(recalculated, ","),
		})
		p.logg.Info(logCtx, "product cost bases recalculated")
	}

	p.metrics.IncCostPropagation()
	p.metrics.AddProductsRecalculated(len(recalculated))
	p.metrics.ObservePropagationDuration(p.now().Sub(started))
	return nil
}

// componentLookup resolves a component item's cost from purchase history by
// the requested method, falling back to the item's stored cost when the
// history is empty. The triggering item's latest cost was already resolved by
// Propagate and is reused instead of re-queried.
func (p *propagator) componentLookup(ctx context.Context, triggerID uuid.UUID, triggerCost decimal.Decimal, method enums.CostingMethod) CostLookup {
	return func(itemID uuid.UUID) (decimal.Decimal, error) {
		if itemID == triggerID && method != enums.CostingMethodWeightedAverage {
			return triggerCost, nil
		}
		cost, err := p.historyCost(ctx, itemID, method)
		if err == nil {
			return cost, nil
		}
		if !errors.Is(err, ErrNoPurchaseHistory) {
			return decimal.Zero, err
		}
		item, findErr := p.repo.FindItem(ctx, itemID)
		if findErr != nil {
			return decimal.Zero, findErr
		}
		if item.CostUpdatedAt == nil && item.LastCost.IsZero() {
			return decimal.Zero, err
		}
		return item.LastCost, nil
	}
}

func (p *propagator) historyCost(ctx context.Context, itemID uuid.UUID, method enums.CostingMethod) (decimal.Decimal, error) {
	if method == enums.CostingMethodWeightedAverage {
		return p.repo.WeightedAverageCost(ctx, itemID)
	}
	return p.repo.LatestPurchaseCost(ctx, itemID)
}

func (p *propagator) propagateAndReport(ctx context.Context, itemID uuid.UUID, trigger string) {
	if err := p.Propagate(ctx, itemID); err != nil {
		logCtx := p.logg.WithFields(ctx, map[string]any{
			"item_id": itemID.String(),
			"trigger": trigger,
		})
		p.logg.Error(logCtx, "cost propagation failed", err)
		p.metrics.IncCostFailure()
		return
	}
}
