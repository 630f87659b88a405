package costing

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/rakaputra/warungpos-backend/pkg/db/models"
)

// CostLookup resolves the unit cost of one item.
type CostLookup func(itemID uuid.UUID) (decimal.Decimal, error)

// CompositionCost folds a product's recipe into its cost basis:
// sum(qty_per_unit × component unit cost). The fold is pure; resolution policy
// lives entirely in the lookup. The first unresolvable component aborts the
// fold so a partial sum is never mistaken for a product cost.
func CompositionCost(components []models.ProductComponent, lookup CostLookup) (decimal.Decimal, error) {
	total := decimal.Zero
	for _, component := range components {
		cost, err := lookup(component.ItemID)
		if err != nil {
			return decimal.Zero, fmt.Errorf("component item %s: %w", component.ItemID, err)
		}
		total = total.Add(component.QtyPerUnit.Mul(cost))
	}
	return total, nil
}
