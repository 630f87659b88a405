package purchases

import (
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/rakaputra/warungpos-backend/api/responses"
	"github.com/rakaputra/warungpos-backend/api/validators"
	internalpurchases "github.com/rakaputra/warungpos-backend/internal/purchases"
	"github.com/rakaputra/warungpos-backend/pkg/enums"
	pkgerrors "github.com/rakaputra/warungpos-backend/pkg/errors"
	"github.com/rakaputra/warungpos-backend/pkg/logger"
)

type lineRequest struct {
	ItemID   uuid.UUID       `json:"item_id" validate:"required"`
	Qty      decimal.Decimal `json:"qty" validate:"required"`
	UnitCost decimal.Decimal `json:"unit_cost"`
}

type createRequest struct {
	SupplierID   uuid.UUID     `json:"supplier_id" validate:"required"`
	PurchaseDate string        `json:"purchase_date" validate:"required"`
	Notes        *string       `json:"notes,omitempty"`
	Lines        []lineRequest `json:"lines" validate:"dive"`
}

type updateRequest struct {
	Status       *string `json:"status,omitempty"`
	PurchaseDate *string `json:"purchase_date,omitempty"`
	Notes        *string `json:"notes,omitempty"`
}

type updateLineRequest struct {
	Qty      *decimal.Decimal `json:"qty,omitempty"`
	UnitCost *decimal.Decimal `json:"unit_cost,omitempty"`
}

func parseDate(raw string) (time.Time, error) {
	t, err := time.Parse("2006-01-02", strings.TrimSpace(raw))
	if err != nil {
		return time.Time{}, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "date must be YYYY-MM-DD")
	}
	return t, nil
}

func Create(svc internalpurchases.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req createRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		purchaseDate, err := parseDate(req.PurchaseDate)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		lines := make([]internalpurchases.LineInput, 0, len(req.Lines))
		for _, line := range req.Lines {
			lines = append(lines, internalpurchases.LineInput{
				ItemID:   line.ItemID,
				Qty:      line.Qty,
				UnitCost: line.UnitCost,
			})
		}

		purchase, err := svc.Create(r.Context(), internalpurchases.CreateInput{
			SupplierID:   req.SupplierID,
			PurchaseDate: purchaseDate,
			Notes:        req.Notes,
			Lines:        lines,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, internalpurchases.NewPurchaseView(purchase))
	}
}

func Update(svc internalpurchases.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		purchaseID, err := validators.ParsePathUUID(chi.URLParam(r, "purchaseID"), "purchaseID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var req updateRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		input := internalpurchases.UpdateInput{
			PurchaseID: purchaseID,
			Notes:      req.Notes,
		}
		if req.Status != nil {
			status, err := enums.ParsePurchaseStatus(*req.Status)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid status"))
				return
			}
			input.Status = &status
		}
		if req.PurchaseDate != nil {
			purchaseDate, err := parseDate(*req.PurchaseDate)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, err)
				return
			}
			input.PurchaseDate = &purchaseDate
		}

		purchase, err := svc.Update(r.Context(), input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, internalpurchases.NewPurchaseView(purchase))
	}
}

func Detail(svc internalpurchases.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		purchaseID, err := validators.ParsePathUUID(chi.URLParam(r, "purchaseID"), "purchaseID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		purchase, err := svc.Get(r.Context(), purchaseID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, internalpurchases.NewPurchaseView(purchase))
	}
}

func List(svc internalpurchases.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var filter internalpurchases.ListFilter

		supplierID, err := validators.ParseQueryUUID(r, "supplier_id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		filter.SupplierID = supplierID

		if raw := strings.TrimSpace(r.URL.Query().Get("status")); raw != "" {
			status, err := enums.ParsePurchaseStatus(raw)
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
		responses.WriteSuccess(w, internalpurchases.NewPurchaseViews(rows))
	}
}

func AddLine(svc internalpurchases.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		purchaseID, err := validators.ParsePathUUID(chi.URLParam(r, "purchaseID"), "purchaseID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var req lineRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		line, err := svc.AddLine(r.Context(), internalpurchases.LineInput{
			PurchaseID: purchaseID,
			ItemID:     req.ItemID,
			Qty:        req.Qty,
			UnitCost:   req.UnitCost,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, internalpurchases.NewPurchaseLineView(line))
	}
}

func UpdateLine(svc internalpurchases.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		lineID, err := validators.ParsePathUUID(chi.URLParam(r, "lineID"), "lineID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var req updateLineRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		line, err := svc.UpdateLine(r.Context(), internalpurchases.UpdateLineInput{
			LineID:   lineID,
			Qty:      req.Qty,
			UnitCost: req.UnitCost,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, internalpurchases.NewPurchaseLineView(line))
	}
}

func DeleteLine(svc internalpurchases.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		lineID, err := validators.ParsePathUUID(chi.URLParam(r, "lineID"), "lineID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if err := svc.DeleteLine(r.Context(), lineID); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]any{"deleted": true})
	}
}
