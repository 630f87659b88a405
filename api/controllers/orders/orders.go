package orders

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/rakaputra/warungpos-backend/api/responses"
	"github.com/rakaputra/warungpos-backend/api/validators"
	internalorders "github.com/rakaputra/warungpos-backend/internal/orders"
	"github.com/rakaputra/warungpos-backend/pkg/enums"
	pkgerrors "github.com/rakaputra/warungpos-backend/pkg/errors"
	"github.com/rakaputra/warungpos-backend/pkg/logger"
	"github.com/rakaputra/warungpos-backend/pkg/pagination"
)

type itemRequest struct {
	ProductID      *uuid.UUID `json:"product_id,omitempty"`
	Qty            int        `json:"qty" validate:"required,gt=0"`
	UnitPriceCents int        `json:"unit_price_cents" validate:"gte=0"`
	Notes          *string    `json:"notes,omitempty"`
}

type createRequest struct {
	CustomerID    *uuid.UUID    `json:"customer_id,omitempty"`
	GuestName     *string       `json:"guest_name,omitempty"`
	OrderType     string        `json:"order_type" validate:"required"`
	TableNumber   *string       `json:"table_number,omitempty"`
	Items         []itemRequest `json:"items" validate:"required,min=1,dive"`
	DiscountCents int           `json:"discount_cents" validate:"gte=0"`
	TaxCents      int           `json:"tax_cents" validate:"gte=0"`
	Notes         *string       `json:"notes,omitempty"`
}

type updateRequest struct {
	Status        *string `json:"status,omitempty"`
	OrderType     *string `json:"order_type,omitempty"`
	TableNumber   *string `json:"table_number,omitempty"`
	GuestName     *string `json:"guest_name,omitempty"`
	DiscountCents *int    `json:"discount_cents,omitempty" validate:"omitempty,gte=0"`
	TaxCents      *int    `json:"tax_cents,omitempty" validate:"omitempty,gte=0"`
	Notes         *string `json:"notes,omitempty"`
}

type paymentRequest struct {
	Method      string `json:"method" validate:"required"`
	AmountCents int    `json:"amount_cents" validate:"required,gt=0"`
}

func Create(svc internalorders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req createRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		orderType, err := enums.ParseOrderType(req.OrderType)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid order type"))
			return
		}

		items := make([]internalorders.ItemInput, 0, len(req.Items))
		for _, item := range req.Items {
			items = append(items, internalorders.ItemInput{
				ProductID:      item.ProductID,
				Qty:            item.Qty,
				UnitPriceCents: item.UnitPriceCents,
				Notes:          item.Notes,
			})
		}

		order, err := svc.Create(r.Context(), internalorders.CreateInput{
			CustomerID:    req.CustomerID,
			GuestName:     req.GuestName,
			OrderType:     orderType,
			TableNumber:   req.TableNumber,
			Items:         items,
			DiscountCents: req.DiscountCents,
			TaxCents:      req.TaxCents,
			Notes:         req.Notes,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, internalorders.NewOrderView(order))
	}
}

func Update(svc internalorders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		orderID, err := validators.ParsePathUUID(chi.URLParam(r, "orderID"), "orderID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var req updateRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		input := internalorders.UpdateInput{
			OrderID:       orderID,
			TableNumber:   req.TableNumber,
			GuestName:     req.GuestName,
			DiscountCents: req.DiscountCents,
			TaxCents:      req.TaxCents,
			Notes:         req.Notes,
		}
		if req.Status != nil {
			status, err := enums.ParseOrderStatus(*req.Status)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid status"))
				return
			}
			input.Status = &status
		}
		if req.OrderType != nil {
			orderType, err := enums.ParseOrderType(*req.OrderType)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid order type"))
				return
			}
			input.OrderType = &orderType
		}

		order, err := svc.Update(r.Context(), input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, internalorders.NewOrderView(order))
	}
}

func Detail(svc internalorders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		orderID, err := validators.ParsePathUUID(chi.URLParam(r, "orderID"), "orderID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		order, err := svc.Get(r.Context(), orderID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, internalorders.NewOrderView(order))
	}
}

func List(svc internalorders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		limit, err := validators.ParseQueryInt(r, "limit", pagination.DefaultLimit, 1, pagination.MaxLimit)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		filter := internalorders.ListFilter{
			Page: pagination.Params{
				Limit:  limit,
				Cursor: strings.TrimSpace(r.URL.Query().Get("cursor")),
			},
		}

		if raw := strings.TrimSpace(r.URL.Query().Get("status")); raw != "" {
			status, err := enums.ParseOrderStatus(raw)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid status"))
				return
			}
			filter.Status = &status
		}
		if from, err := validators.ParseQueryDate(r, "date_from"); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		} else if !from.IsZero() {
			filter.DateFrom = &from
		}
		if to, err := validators.ParseQueryDate(r, "date_to"); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		} else if !to.IsZero() {
			filter.DateTo = &to
		}

		rows, err := svc.List(r.Context(), filter)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, internalorders.NewOrderViews(rows))
	}
}

func Delete(svc internalorders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		orderID, err := validators.ParsePathUUID(chi.URLParam(r, "orderID"), "orderID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if err := svc.SoftDelete(r.Context(), orderID); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]any{"deleted": true})
	}
}

func Restore(svc internalorders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		orderID, err := validators.ParsePathUUID(chi.URLParam(r, "orderID"), "orderID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if err := svc.Restore(r.Context(), orderID); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]any{"restored": true})
	}
}

func Purge(svc internalorders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		orderID, err := validators.ParsePathUUID(chi.URLParam(r, "orderID"), "orderID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if err := svc.ForceDelete(r.Context(), orderID); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]any{"purged": true})
	}
}

func AddPayment(svc internalorders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		orderID, err := validators.ParsePathUUID(chi.URLParam(r, "orderID"), "orderID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var req paymentRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		method, err := enums.ParsePaymentMethod(req.Method)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid payment method"))
			return
		}

		if err := svc.AddPayment(r.Context(), internalorders.PaymentInput{
			OrderID:     orderID,
			Method:      method,
			AmountCents: req.AmountCents,
		}); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, map[string]any{"recorded": true})
	}
}
