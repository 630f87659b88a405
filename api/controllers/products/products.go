package products

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/rakaputra/warungpos-backend/api/responses"
	"github.com/rakaputra/warungpos-backend/api/validators"
	internalproducts "github.com/rakaputra/warungpos-backend/internal/products"
	"github.com/rakaputra/warungpos-backend/pkg/enums"
	pkgerrors "github.com/rakaputra/warungpos-backend/pkg/errors"
	"github.com/rakaputra/warungpos-backend/pkg/logger"
)

type componentRequest struct {
	ItemID     uuid.UUID       `json:"item_id" validate:"required"`
	QtyPerUnit decimal.Decimal `json:"qty_per_unit" validate:"required"`
}

type createRequest struct {
	CategoryID    *uuid.UUID         `json:"category_id,omitempty"`
	SKU           string             `json:"sku" validate:"required"`
	Name          string             `json:"name" validate:"required"`
	Description   *string            `json:"description,omitempty"`
	PriceCents    int                `json:"price_cents" validate:"gte=0"`
	CostingMethod string             `json:"costing_method,omitempty"`
	Tags          []string           `json:"tags,omitempty"`
	Components    []componentRequest `json:"components,omitempty" validate:"dive"`
}

type updateRequest struct {
	CategoryID    *uuid.UUID `json:"category_id,omitempty"`
	Name          *string    `json:"name,omitempty"`
	Description   *string    `json:"description,omitempty"`
	PriceCents    *int       `json:"price_cents,omitempty" validate:"omitempty,gte=0"`
	CostingMethod *string    `json:"costing_method,omitempty"`
	Tags          []string   `json:"tags,omitempty"`
	IsActive      *bool      `json:"is_active,omitempty"`
}

type componentsRequest struct {
	Components []componentRequest `json:"components" validate:"dive"`
}

func toComponents(rows []componentRequest) []internalproducts.ComponentInput {
	components := make([]internalproducts.ComponentInput, 0, len(rows))
	for _, row := range rows {
		components = append(components, internalproducts.ComponentInput{
			ItemID:     row.ItemID,
			QtyPerUnit: row.QtyPerUnit,
		})
	}
	return components
}

func Create(svc internalproducts.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req createRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		input := internalproducts.CreateInput{
			CategoryID:  req.CategoryID,
			SKU:         req.SKU,
			Name:        req.Name,
			Description: req.Description,
			PriceCents:  req.PriceCents,
			Tags:        req.Tags,
			Components:  toComponents(req.Components),
		}
		if req.CostingMethod != "" {
			method, err := enums.ParseCostingMethod(req.CostingMethod)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid costing method"))
				return
			}
			input.CostingMethod = method
		}

		product, err := svc.Create(r.Context(), input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, internalproducts.NewProductView(product))
	}
}

func Update(svc internalproducts.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		productID, err := validators.ParsePathUUID(chi.URLParam(r, "productID"), "productID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var req updateRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		input := internalproducts.UpdateInput{
			ProductID:   productID,
			CategoryID:  req.CategoryID,
			Name:        req.Name,
			Description: req.Description,
			PriceCents:  req.PriceCents,
			Tags:        req.Tags,
			IsActive:    req.IsActive,
		}
		if req.CostingMethod != nil {
			method, err := enums.ParseCostingMethod(*req.CostingMethod)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid costing method"))
				return
			}
			input.CostingMethod = &method
		}

		product, err := svc.Update(r.Context(), input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, internalproducts.NewProductView(product))
	}
}

func Detail(svc internalproducts.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		productID, err := validators.ParsePathUUID(chi.URLParam(r, "productID"), "productID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		product, err := svc.Get(r.Context(), productID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, internalproducts.NewProductView(product))
	}
}

func List(svc internalproducts.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		filter := internalproducts.ListFilter{
			Search:     strings.TrimSpace(r.URL.Query().Get("search")),
			ActiveOnly: r.URL.Query().Get("active") == "true",
		}
		categoryID, err := validators.ParseQueryUUID(r, "category_id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		filter.CategoryID = categoryID

		rows, err := svc.List(r.Context(), filter)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, internalproducts.NewProductViews(rows))
	}
}

func Delete(svc internalproducts.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		productID, err := validators.ParsePathUUID(chi.URLParam(r, "productID"), "productID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if err := svc.Delete(r.Context(), productID); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]any{"deleted": true})
	}
}

func SetComponents(svc internalproducts.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		productID, err := validators.ParsePathUUID(chi.URLParam(r, "productID"), "productID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var req componentsRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		product, err := svc.SetComponents(r.Context(), productID, toComponents(req.Components))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, internalproducts.NewProductView(product))
	}
}
