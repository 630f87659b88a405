package reports

import (
	"time"

	"github.com/google/uuid"

	"github.com/rakaputra/warungpos-backend/pkg/db/models"
	"github.com/rakaputra/warungpos-backend/pkg/enums"
	"github.com/rakaputra/warungpos-backend/pkg/types"
)

// SummaryView is the API shape of a daily sales rollup.
type SummaryView struct {
	ReportDate             string `json:"report_date"`
	TotalOrders            int    `json:"total_orders"`
	CompletedOrders        int    `json:"completed_orders"`
	CancelledOrders        int    `json:"cancelled_orders"`
	TotalRevenueCents      int64  `json:"total_revenue_cents"`
	TotalDiscountCents     int64  `json:"total_discount_cents"`
	TotalTaxCents          int64  `json:"total_tax_cents"`
	AverageOrderValueCents int64  `json:"average_order_value_cents"`
}

// SnapshotView is the API shape of a denormalized order row.
type SnapshotView struct {
	OrderID       uuid.UUID           `json:"order_id"`
	OrderNumber   string              `json:"order_number"`
	OrderDate     string              `json:"order_date"`
	OrderTime     string              `json:"order_time"`
	CustomerName  string              `json:"customer_name"`
	TableNumber   *string             `json:"table_number,omitempty"`
	OrderType     enums.OrderType     `json:"order_type"`
	Status        enums.OrderStatus   `json:"status"`
	TotalCents    int                 `json:"total_cents"`
	PaymentMethod enums.PaymentMethod `json:"payment_method"`
	ItemCount     int                 `json:"item_count"`
	ItemDetails   types.ItemDetails   `json:"item_details"`
	UpdatedAt     time.Time           `json:"updated_at"`
}

// NewSummaryView maps a daily summary row onto its API shape.
func NewSummaryView(summary *models.DailySummary) SummaryView {
	return SummaryView{
		ReportDate:             summary.ReportDate.Format("2006-01-02"),
		TotalOrders:            summary.TotalOrders,
		CompletedOrders:        summary.CompletedOrders,
		CancelledOrders:        summary.CancelledOrders,
		TotalRevenueCents:      summary.TotalRevenueCents,
		TotalDiscountCents:     summary.TotalDiscountCents,
		TotalTaxCents:          summary.TotalTaxCents,
		AverageOrderValueCents: summary.AverageOrderValueCents,
	}
}

// NewSummaryViews maps a range of daily summary rows.
func NewSummaryViews(rows []models.DailySummary) []SummaryView {
	views := make([]SummaryView, 0, len(rows))
	for i := range rows {
		views = append(views, NewSummaryView(&rows[i]))
	}
	return views
}

// NewSnapshotView maps a snapshot row onto its API shape.
func NewSnapshotView(snapshot *models.OrderSnapshot) SnapshotView {
	return SnapshotView{
		OrderID:       snapshot.OrderID,
		OrderNumber:   snapshot.OrderNumber,
		OrderDate:     snapshot.OrderDate.Format("2006-01-02"),
		OrderTime:     snapshot.OrderTime,
		CustomerName:  snapshot.CustomerName,
		TableNumber:   snapshot.TableNumber,
		OrderType:     snapshot.OrderType,
		Status:        snapshot.Status,
		TotalCents:    snapshot.TotalCents,
		PaymentMethod: snapshot.PaymentMethod,
		ItemCount:     snapshot.ItemCount,
		ItemDetails:   snapshot.ItemDetails,
		UpdatedAt:     snapshot.UpdatedAt,
	}
}

// NewSnapshotViews maps a page of snapshot rows.
func NewSnapshotViews(rows []models.OrderSnapshot) []SnapshotView {
	views := make([]SnapshotView, 0, len(rows))
	for i := range rows {
		views = append(views, NewSnapshotView(&rows[i]))
	}
	return views
}
