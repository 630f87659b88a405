package suppliers

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/rakaputra/warungpos-backend/pkg/db/models"
	pkgerrors "github.com/rakaputra/warungpos-backend/pkg/errors"
)

// Service defines supplier master-data operations.
type Service interface {
	Create(ctx context.Context, input CreateInput) (*models.Supplier, error)
	Update(ctx context.Context, input UpdateInput) (*models.Supplier, error)
	Delete(ctx context.Context, supplierID uuid.UUID) error
	Get(ctx context.Context, supplierID uuid.UUID) (*models.Supplier, error)
	List(ctx context.Context) ([]models.Supplier, error)
}

type service struct {
	db *gorm.DB
}

// CreateInput registers a supplier.
type CreateInput struct {
	Name        string
	ContactName *string
	Phone       *string
	Email       *string
	Address     *string
}

// UpdateInput mutates a supplier; nil fields stay untouched.
type UpdateInput struct {
	SupplierID  uuid.UUID
	Name        *string
	ContactName *string
	Phone       *string
	Email       *string
	Address     *string
}

// NewService builds the supplier service.
func NewService(db *gorm.DB) (Service, error) {
	if db == nil {
		return nil, fmt.Errorf("database handle required")
	}
	return &service{db: db}, nil
}

func (s *service) Create(ctx context.Context, input CreateInput) (*models.Supplier, error) {
	if input.Name == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "name required")
	}
	supplier := &models.Supplier{
		ID:          uuid.New(),
		Name:        input.Name,
		ContactName: input.ContactName,
		Phone:       input.Phone,
		Email:       input.Email,
		Address:     input.Address,
	}
	if err := s.db.WithContext(ctx).Create(supplier).Error; err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create supplier")
	}
	return supplier, nil
}

func (s *service) Update(ctx context.Context, input UpdateInput) (*models.Supplier, error) {
	if input.SupplierID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "supplier id required")
	}
	if input.Name != nil && *input.Name == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "name cannot be empty")
	}

	supplier, err := s.Get(ctx, input.SupplierID)
	if err != nil {
		return nil, err
	}

	updates := map[string]any{}
	if input.Name != nil && *input.Name != supplier.Name {
		updates["name"] = *input.Name
	}
	if input.ContactName != nil {
		updates["contact_name"] = *input.ContactName
	}
	if input.Phone != nil {
		updates["phone"] = *input.Phone
	}
	if input.Email != nil {
		updates["email"] = *input.Email
	}
	if input.Address != nil {
		updates["address"] = *input.Address
	}
	if len(updates) == 0 {
		return supplier, nil
	}

	err = s.db.WithContext(ctx).
		Model(&models.Supplier{}).
		Where("id = ?", supplier.ID).
		Updates(updates).Error
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update supplier")
	}
	return s.Get(ctx, supplier.ID)
}

func (s *service) Delete(ctx context.Context, supplierID uuid.UUID) error {
	if supplierID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "supplier id required")
	}
	if _, err := s.Get(ctx, supplierID); err != nil {
		return err
	}

	db := s.db.WithContext(ctx)

	var purchases int64
	err := db.Model(&models.PurchaseOrder{}).
		Where("supplier_id = ?", supplierID).
		Count(&purchases).Error
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "count purchases")
	}
	if purchases > 0 {
		return pkgerrors.New(pkgerrors.CodeStateConflict, "supplier has purchase history")
	}

	if err := db.Where("id = ?", supplierID).Delete(&models.Supplier{}).Error; err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete supplier")
	}
	return nil
}

func (s *service) Get(ctx context.Context, supplierID uuid.UUID) (*models.Supplier, error) {
	var supplier models.Supplier
	err := s.db.WithContext(ctx).First(&supplier, "id = ?", supplierID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "supplier not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load supplier")
	}
	return &supplier, nil
}

func (s *service) List(ctx context.Context) ([]models.Supplier, error) {
	var rows []models.Supplier
	if err := s.db.WithContext(ctx).Order("name ASC").Find(&rows).Error; err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list suppliers")
	}
	return rows, nil
}
