package orders

import (
	"time"

	"github.com/google/uuid"

	"github.com/rakaputra/warungpos-backend/pkg/db/models"
	"github.com/rakaputra/warungpos-backend/pkg/enums"
)

// OrderItemView exposes one order line in API responses.
type OrderItemView struct {
	ID             uuid.UUID  `json:"id"`
	ProductID      *uuid.UUID `json:"product_id,omitempty"`
	Qty            int        `json:"qty"`
	UnitPriceCents int        `json:"unit_price_cents"`
	TotalCents     int        `json:"total_cents"`
	Notes          *string    `json:"notes,omitempty"`
}

// PaymentView exposes one settlement in API responses.
type PaymentView struct {
	ID          uuid.UUID           `json:"id"`
	Method      enums.PaymentMethod `json:"method"`
	AmountCents int                 `json:"amount_cents"`
	PaidAt      time.Time           `json:"paid_at"`
}

// OrderView is the API shape of an order with its lines and payments.
type OrderView struct {
	ID            uuid.UUID         `json:"id"`
	OrderNumber   string            `json:"order_number"`
	CustomerID    *uuid.UUID        `json:"customer_id,omitempty"`
	GuestName     *string           `json:"guest_name,omitempty"`
	Status        enums.OrderStatus `json:"status"`
	OrderType     enums.OrderType   `json:"order_type"`
	TableNumber   *string           `json:"table_number,omitempty"`
	SubtotalCents int               `json:"subtotal_cents"`
	DiscountCents int               `json:"discount_cents"`
	TaxCents      int               `json:"tax_cents"`
	TotalCents    int               `json:"total_cents"`
	Notes         *string           `json:"notes,omitempty"`
	Items         []OrderItemView   `json:"items"`
	Payments      []PaymentView     `json:"payments"`
	CreatedAt     time.Time         `json:"created_at"`
	UpdatedAt     time.Time         `json:"updated_at"`
	DeletedAt     *time.Time        `json:"deleted_at,omitempty"`
}

// NewOrderView maps an order row onto its API shape.
func NewOrderView(order *models.Order) OrderView {
	items := make([]OrderItemView, 0, len(order.Items))
	for _, item := range order.Items {
		items = append(items, OrderItemView{
			ID:             item.ID,
			ProductID:      item.ProductID,
			Qty:            item.Qty,
			UnitPriceCents: item.UnitPriceCents,
			TotalCents:     item.TotalCents,
			Notes:          item.Notes,
		})
	}
	payments := make([]PaymentView, 0, len(order.Payments))
	for _, payment := range order.Payments {
		payments = append(payments, PaymentView{
			ID:          payment.ID,
			Method:      payment.Method,
			AmountCents: payment.AmountCents,
			PaidAt:      payment.PaidAt,
		})
	}

	view := OrderView{
		ID:            order.ID,
		OrderNumber:   order.OrderNumber,
		CustomerID:    order.CustomerID,
		GuestName:     order.GuestName,
		Status:        order.Status,
		OrderType:     order.OrderType,
		TableNumber:   order.TableNumber,
		SubtotalCents: order.SubtotalCents,
		DiscountCents: order.DiscountCents,
		TaxCents:      order.TaxCents,
		TotalCents:    order.TotalCents,
		Notes:         order.Notes,
		Items:         items,
		Payments:      payments,
		CreatedAt:     order.CreatedAt,
		UpdatedAt:     order.UpdatedAt,
	}
	if order.DeletedAt.Valid {
		deletedAt := order.DeletedAt.Time
		view.DeletedAt = &deletedAt
	}
	return view
}

// NewOrderViews maps a page of order rows.
func NewOrderViews(rows []models.Order) []OrderView {
	views := make([]OrderView, 0, len(rows))
	for i := range rows {
		views = append(views, NewOrderView(&rows[i]))
	}
	return views
}
