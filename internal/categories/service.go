package categories

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/rakaputra/warungpos-backend/pkg/db/models"
	pkgerrors "github.com/rakaputra/warungpos-backend/pkg/errors"
)

// Service defines product category operations.
type Service interface {
	Create(ctx context.Context, input CreateInput) (*models.Category, error)
	Update(ctx context.Context, input UpdateInput) (*models.Category, error)
	Delete(ctx context.Context, categoryID uuid.UUID) error
	Get(ctx context.Context, categoryID uuid.UUID) (*models.Category, error)
	List(ctx context.Context) ([]models.Category, error)
}

type service struct {
	db *gorm.DB
}

// CreateInput registers a category.
type CreateInput struct {
	Name        string
	Description *string
}

// UpdateInput mutates a category; nil fields stay untouched.
type UpdateInput struct {
	CategoryID  uuid.UUID
	Name        *string
	Description *string
}

// NewService builds the category service. Category access is simple enough
// that the service talks to gorm directly instead of going through a
// repository layer.
func NewService(db *gorm.DB) (Service, error) {
	if db == nil {
		return nil, fmt.Errorf("database handle required")
	}
	return &service{db: db}, nil
}

func (s *service) Create(ctx context.Context, input CreateInput) (*models.Category, error) {
	if input.Name == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "name required")
	}
	category := &models.Category{
		ID:          uuid.New(),
		Name:        input.Name,
		Description: input.Description,
	}
	if err := s.db.WithContext(ctx).Create(category).Error; err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create category")
	}
	return category, nil
}

func (s *service) Update(ctx context.Context, input UpdateInput) (*models.Category, error) {
	if input.CategoryID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "category id required")
	}
	if input.Name != nil && *input.Name == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "name cannot be empty")
	}

	category, err := s.Get(ctx, input.CategoryID)
	if err != nil {
		return nil, err
	}

	updates := map[string]any{}
	if input.Name != nil && *input.Name != category.Name {
		updates["name"] = *input.Name
	}
	if input.Description != nil {
		updates["description"] = *input.Description
	}
	if len(updates) == 0 {
		return category, nil
	}

	err = s.db.WithContext(ctx).
		Model(&models.Category{}).
		Where("id = ?", category.ID).
		Updates(updates).Error
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update category")
	}
	return s.Get(ctx, category.ID)
}

func (s *service) Delete(ctx context.Context, categoryID uuid.UUID) error {
	if categoryID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "category id required")
	}
	if _, err := s.Get(ctx, categoryID); err != nil {
		return err
	}

	db := s.db.WithContext(ctx)

	// products keep existing with a detached category
	err := db.Model(&models.Product{}).
		Where("category_id = ?", categoryID).
		Update("category_id", nil).Error
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "detach products")
	}
	if err := db.Where("id = ?", categoryID).Delete(&models.Category{}).Error; err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete category")
	}
	return nil
}

func (s *service) Get(ctx context.Context, categoryID uuid.UUID) (*models.Category, error) {
	var category models.Category
	err := s.db.WithContext(ctx).First(&category, "id = ?", categoryID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "category not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load category")
	}
	return &category, nil
}

func (s *service) List(ctx context.Context) ([]models.Category, error) {
	var rows []models.Category
	if err := s.db.WithContext(ctx).Order("name ASC").Find(&rows).Error; err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list categories")
	}
	return rows, nil
}
