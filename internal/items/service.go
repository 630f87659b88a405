package items

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/rakaputra/warungpos-backend/pkg/db/models"
	pkgerrors "github.com/rakaputra/warungpos-backend/pkg/errors"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// Service defines ingredient master operations. LastCost and CostUpdatedAt
// belong to the costing engine and are never written here.
type Service interface {
	Create(ctx context.Context, input CreateInput) (*models.Item, error)
	Update(ctx context.Context, input UpdateInput) (*models.Item, error)
	Delete(ctx context.Context, itemID uuid.UUID) error
	Get(ctx context.Context, itemID uuid.UUID) (*models.Item, error)
	List(ctx context.Context, filter ListFilter) ([]models.Item, error)
}

type service struct {
	repo Repository
	tx   txRunner
}

// CreateInput registers a purchasable item.
type CreateInput struct {
	SupplierID *uuid.UUID
	Name       string
	Unit       string
}

// UpdateInput mutates an item; nil fields stay untouched.
type UpdateInput struct {
	ItemID     uuid.UUID
	SupplierID *uuid.UUID
	Name       *string
	Unit       *string
}

// NewService builds the item service.
func NewService(repo Repository, tx txRunner) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("items repository required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	return &service{repo: repo, tx: tx}, nil
}

func (s *service) Create(ctx context.Context, input CreateInput) (*models.Item, error) {
	if input.Name == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "name required")
	}
	unit := input.Unit
	if unit == "" {
		unit = "pcs"
	}

	item := &models.Item{
		ID:         uuid.New(),
		SupplierID: input.SupplierID,
		Name:       input.Name,
		Unit:       unit,
	}
	if err := s.repo.Create(ctx, item); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create item")
	}
	return item, nil
}

func (s *service) Update(ctx context.Context, input UpdateInput) (*models.Item, error) {
	if input.ItemID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "item id required")
	}
	if input.Name != nil && *input.Name == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "name cannot be empty")
	}

	var updated *models.Item
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		item, err := repo.FindByID(ctx, input.ItemID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.New(pkgerrors.CodeNotFound, "item not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load item")
		}

		updates := map[string]any{}
		if input.SupplierID != nil {
			updates["supplier_id"] = *input.SupplierID
		}
		if input.Name != nil && *input.Name != item.Name {
			updates["name"] = *input.Name
		}
		if input.Unit != nil && *input.Unit != item.Unit {
			updates["unit"] = *input.Unit
		}
		if len(updates) == 0 {
			updated = item
			return nil
		}

		if err := repo.Update(ctx, item.ID, updates); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update item")
		}
		updated, err = repo.FindByID(ctx, item.ID)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "reload item")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

func (s *service) Delete(ctx context.Context, itemID uuid.UUID) error {
	if itemID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "item id required")
	}
	return s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		if _, err := repo.FindByID(ctx, itemID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.New(pkgerrors.CodeNotFound, "item not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load item")
		}
		refs, err := repo.CountComponentRefs(ctx, itemID)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "count recipe references")
		}
		if refs > 0 {
			return pkgerrors.New(pkgerrors.CodeStateConflict, "item is used by product recipes")
		}
		if err := repo.Delete(ctx, itemID); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete item")
		}
		return nil
	})
}

func (s *service) Get(ctx context.Context, itemID uuid.UUID) (*models.Item, error) {
	item, err := s.repo.FindByID(ctx, itemID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "item not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load item")
	}
	return item, nil
}

func (s *service) List(ctx context.Context, filter ListFilter) ([]models.Item, error) {
	rows, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list items")
	}
	return rows, nil
}
