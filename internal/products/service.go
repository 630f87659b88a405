package products

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/rakaputra/warungpos-backend/pkg/db/models"
	"github.com/rakaputra/warungpos-backend/pkg/enums"
	pkgerrors "github.com/rakaputra/warungpos-backend/pkg/errors"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// Service defines product catalog operations. The cost columns are owned by
// the costing engine and are never written here.
type Service interface {
	Create(ctx context.Context, input CreateInput) (*models.Product, error)
	Update(ctx context.Context, input UpdateInput) (*models.Product, error)
	Delete(ctx context.Context, productID uuid.UUID) error
	Get(ctx context.Context, productID uuid.UUID) (*models.Product, error)
	List(ctx context.Context, filter ListFilter) ([]models.Product, error)
	SetComponents(ctx context.Context, productID uuid.UUID, components []ComponentInput) (*models.Product, error)
}

type service struct {
	repo Repository
	tx   txRunner
}

// ComponentInput is one recipe position: the item and how much of it one
// sold unit consumes.
type ComponentInput struct {
	ItemID     uuid.UUID
	QtyPerUnit decimal.Decimal
}

// CreateInput registers a product in the catalog.
type CreateInput struct {
	CategoryID    *uuid.UUID
	SKU           string
	Name          string
	Description   *string
	PriceCents    int
	CostingMethod enums.CostingMethod
	Tags          []string
	Components    []ComponentInput
}

// UpdateInput mutates a product; nil fields stay untouched.
type UpdateInput struct {
	ProductID     uuid.UUID
	CategoryID    *uuid.UUID
	Name          *string
	Description   *string
	PriceCents    *int
	CostingMethod *enums.CostingMethod
	Tags          []string
	IsActive      *bool
}

// NewService builds the product service.
func NewService(repo Repository, tx txRunner) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("products repository required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	return &service{repo: repo, tx: tx}, nil
}

func (s *service) Create(ctx context.Context, input CreateInput) (*models.Product, error) {
	if input.SKU == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "sku required")
	}
	if input.Name == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "name required")
	}
	if input.PriceCents < 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "price cannot be negative")
	}
	method := input.CostingMethod
	if method == "" {
		method = enums.CostingMethodLatest
	}
	if !method.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid costing method")
	}
	components, err := buildComponents(input.Components)
	if err != nil {
		return nil, err
	}

	product := &models.Product{
		ID:            uuid.New(),
		CategoryID:    input.CategoryID,
		SKU:           input.SKU,
		Name:          input.Name,
		Description:   input.Description,
		PriceCents:    input.PriceCents,
		CostingMethod: method,
		Tags:          pq.StringArray(input.Tags),
		IsActive:      true,
		Components:    components,
	}

	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		if _, err := repo.FindBySKU(ctx, input.SKU); err == nil {
			return pkgerrors.New(pkgerrors.CodeConflict, "sku already in use")
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "check sku")
		}
		if err := repo.Create(ctx, product); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create product")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return product, nil
}

func (s *service) Update(ctx context.Context, input UpdateInput) (*models.Product, error) {
	if input.ProductID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product id required")
	}
	if input.PriceCents != nil && *input.PriceCents < 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "price cannot be negative")
	}
	if input.CostingMethod != nil && !input.CostingMethod.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid costing method")
	}

	var updated *models.Product
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		product, err := repo.FindByID(ctx, input.ProductID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load product")
		}

		updates := map[string]any{}
		if input.CategoryID != nil {
			updates["category_id"] = *input.CategoryID
		}
		if input.Name != nil && *input.Name != product.Name {
			updates["name"] = *input.Name
		}
		if input.Description != nil {
			updates["description"] = *input.Description
		}
		if input.PriceCents != nil && *input.PriceCents != product.PriceCents {
			updates["price_cents"] = *input.PriceCents
		}
		if input.CostingMethod != nil && *input.CostingMethod != product.CostingMethod {
			updates["costing_method"] = *input.CostingMethod
		}
		if input.Tags != nil {
			updates["tags"] = pq.StringArray(input.Tags)
		}
		if input.IsActive != nil && *input.IsActive != product.IsActive {
			updates["is_active"] = *input.IsActive
		}
		if len(updates) == 0 {
			updated = product
			return nil
		}

		if err := repo.Update(ctx, product.ID, updates); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update product")
		}
		updated, err = repo.FindByID(ctx, product.ID)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "reload product")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

func (s *service) Delete(ctx context.Context, productID uuid.UUID) error {
	if productID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "product id required")
	}
	return s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		if _, err := repo.FindByID(ctx, productID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load product")
		}
		if err := repo.Delete(ctx, productID); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete product")
		}
		return nil
	})
}

func (s *service) Get(ctx context.Context, productID uuid.UUID) (*models.Product, error) {
	product, err := s.repo.FindByID(ctx, productID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load product")
	}
	return product, nil
}

func (s *service) List(ctx context.Context, filter ListFilter) ([]models.Product, error) {
	rows, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list products")
	}
	return rows, nil
}

// SetComponents replaces the whole recipe. The product's stored cost keeps its
// last value until the next purchase mutation recomputes it.
func (s *service) SetComponents(ctx context.Context, productID uuid.UUID, components []ComponentInput) (*models.Product, error) {
	if productID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product id required")
	}
	built, err := buildComponents(components)
	if err != nil {
		return nil, err
	}

	var updated *models.Product
	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		if _, err := repo.FindByID(ctx, productID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load product")
		}
		for i := range built {
			built[i].ProductID = productID
		}
		if err := repo.ReplaceComponents(ctx, productID, built); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "replace components")
		}
		updated, err = repo.FindByID(ctx, productID)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "reload product")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

func buildComponents(inputs []ComponentInput) ([]models.ProductComponent, error) {
	seen := map[uuid.UUID]struct{}{}
	components := make([]models.ProductComponent, 0, len(inputs))
	for _, input := range inputs {
		if input.ItemID == uuid.Nil {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "component item id required")
		}
		if !input.QtyPerUnit.IsPositive() {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "component qty must be positive")
		}
		if _, dup := seen[input.ItemID]; dup {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "duplicate component item")
		}
		seen[input.ItemID] = struct{}{}
		components = append(components, models.ProductComponent{
			ID:         uuid.New(),
			ItemID:     input.ItemID,
			QtyPerUnit: input.QtyPerUnit,
		})
	}
	return components, nil
}
