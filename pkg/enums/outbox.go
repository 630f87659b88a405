package enums

import "fmt"

// OutboxAggregateType maps to the aggregate_type enum in Postgres.
type OutboxAggregateType string

const (
	AggregateOrder        OutboxAggregateType = "order"
	AggregatePurchaseLine OutboxAggregateType = "purchase_line"
	AggregateProduct      OutboxAggregateType = "product"
	AggregateDailySummary OutboxAggregateType = "daily_summary"
)

var validAggregateTypes = []OutboxAggregateType{
	AggregateOrder,
	AggregatePurchaseLine,
	AggregateProduct,
	AggregateDailySummary,
}

// IsValid reports whether the value matches the canonical aggregate_type enum.
func (a OutboxAggregateType) IsValid() bool {
	for _, candidate := range validAggregateTypes {
		if candidate == a {
			return true
		}
	}
	return false
}

// ParseOutboxAggregateType converts raw input into OutboxAggregateType.
func ParseOutboxAggregateType(value string) (OutboxAggregateType, error) {
	for _, candidate := range validAggregateTypes {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid aggregate type %q", value)
}

// OutboxEventType maps to the event_type enum in Postgres.
type OutboxEventType string

const (
	EventOrderCreated        OutboxEventType = "order_created"
	EventOrderUpdated        OutboxEventType = "order_updated"
	EventOrderDeleted        OutboxEventType = "order_deleted"
	EventOrderRestored       OutboxEventType = "order_restored"
	EventOrderPurged         OutboxEventType = "order_purged"
	EventPurchaseLineCreated OutboxEventType = "purchase_line_created"
	EventPurchaseLineUpdated OutboxEventType = "purchase_line_updated"
	EventPurchaseLineDeleted OutboxEventType = "purchase_line_deleted"
	EventProductCostUpdated  OutboxEventType = "product_cost_updated"
)

var validOutboxEventTypes = []OutboxEventType{
	EventOrderCreated,
	EventOrderUpdated,
	EventOrderDeleted,
	EventOrderRestored,
	EventOrderPurged,
	EventPurchaseLineCreated,
	EventPurchaseLineUpdated,
	EventPurchaseLineDeleted,
	EventProductCostUpdated,
}

// IsValid reports whether the value matches the canonical event_type enum.
func (e OutboxEventType) IsValid() bool {
	for _, candidate := range validOutboxEventTypes {
		if candidate == e {
			return true
		}
	}
	return false
}

// ParseOutboxEventType converts raw input into OutboxEventType.
func ParseOutboxEventType(value string) (OutboxEventType, error) {
	for _, candidate := range validOutboxEventTypes {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid event type %q", value)
}
