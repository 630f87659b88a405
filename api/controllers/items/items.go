package items

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/rakaputra/warungpos-backend/api/responses"
	"github.com/rakaputra/warungpos-backend/api/validators"
	internalitems "github.com/rakaputra/warungpos-backend/internal/items"
	"github.com/rakaputra/warungpos-backend/pkg/logger"
)

type createRequest struct {
	SupplierID *uuid.UUID `json:"supplier_id,omitempty"`
	Name       string     `json:"name" validate:"required"`
	Unit       string     `json:"unit,omitempty"`
}

type updateRequest struct {
	SupplierID *uuid.UUID `json:"supplier_id,omitempty"`
	Name       *string    `json:"name,omitempty"`
	Unit       *string    `json:"unit,omitempty"`
}

func Create(svc internalitems.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req createRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		item, err := svc.Create(r.Context(), internalitems.CreateInput{
			SupplierID: req.SupplierID,
			Name:       req.Name,
			Unit:       req.Unit,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, internalitems.NewItemView(item))
	}
}

func Update(svc internalitems.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		itemID, err := validators.ParsePathUUID(chi.URLParam(r, "itemID"), "itemID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var req updateRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		item, err := svc.Update(r.Context(), internalitems.UpdateInput{
			ItemID:     itemID,
			SupplierID: req.SupplierID,
			Name:       req.Name,
			Unit:       req.Unit,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, internalitems.NewItemView(item))
	}
}

func Detail(svc internalitems.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		itemID, err := validators.ParsePathUUID(chi.URLParam(r, "itemID"), "itemID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		item, err := svc.Get(r.Context(), itemID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, internalitems.NewItemView(item))
	}
}

func List(svc internalitems.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		filter := internalitems.ListFilter{
			Search: strings.TrimSpace(r.URL.Query().Get("search")),
		}
		supplierID, err := validators.ParseQueryUUID(r, "supplier_id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		filter.SupplierID = supplierID

		rows, err := svc.List(r.Context(), filter)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, internalitems.NewItemViews(rows))
	}
}

func Delete(svc internalitems.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		itemID, err := validators.ParsePathUUID(chi.URLParam(r, "itemID"), "itemID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if err := svc.Delete(r.Context(), itemID); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]any{"deleted": true})
	}
}
