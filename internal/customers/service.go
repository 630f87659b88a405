package customers

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/rakaputra/warungpos-backend/pkg/db/models"
	pkgerrors "github.com/rakaputra/warungpos-backend/pkg/errors"
)

// Service defines registered-customer operations.
type Service interface {
	Create(ctx context.Context, input CreateInput) (*models.Customer, error)
	Update(ctx context.Context, input UpdateInput) (*models.Customer, error)
	Delete(ctx context.Context, customerID uuid.UUID) error
	Get(ctx context.Context, customerID uuid.UUID) (*models.Customer, error)
	List(ctx context.Context, search string) ([]models.Customer, error)
}

type service struct {
	db *gorm.DB
}

// CreateInput registers a customer.
type CreateInput struct {
	Name  string
	Phone *string
	Email *string
}

// UpdateInput mutates a customer; nil fields stay untouched.
type UpdateInput struct {
	CustomerID uuid.UUID
	Name       *string
	Phone      *string
	Email      *string
}

// NewService builds the customer service.
func NewService(db *gorm.DB) (Service, error) {
	if db == nil {
		return nil, fmt.Errorf("database handle required")
	}
	return &service{db: db}, nil
}

func (s *service) Create(ctx context.Context, input CreateInput) (*models.Customer, error) {
	if input.Name == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "name required")
	}
	customer := &models.Customer{
		ID:    uuid.New(),
		Name:  input.Name,
		Phone: input.Phone,
		Email: input.Email,
	}
	if err := s.db.WithContext(ctx).Create(customer).Error; err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create customer")
	}
	return customer, nil
}

func (s *service) Update(ctx context.Context, input UpdateInput) (*models.Customer, error) {
	if input.CustomerID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "customer id required")
	}
	if input.Name != nil && *input.Name == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "name cannot be empty")
	}

	customer, err := s.Get(ctx, input.CustomerID)
	if err != nil {
		return nil, err
	}

	updates := map[string]any{}
	if input.Name != nil && *input.Name != customer.Name {
		updates["name"] = *input.Name
	}
	if input.Phone != nil {
		updates["phone"] = *input.Phone
	}
	if input.Email != nil {
		updates["email"] = *input.Email
	}
	if len(updates) == 0 {
		return customer, nil
	}

	err = s.db.WithContext(ctx).
		Model(&models.Customer{}).
		Where("id = ?", customer.ID).
		Updates(updates).Error
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update customer")
	}
	return s.Get(ctx, customer.ID)
}

// Delete removes the customer record. Orders keep their customer_id pointing
// at the removed row; the snapshot builder already treats a missing customer
// as a guest.
func (s *service) Delete(ctx context.Context, customerID uuid.UUID) error {
	if customerID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "customer id required")
	}
	if _, err := s.Get(ctx, customerID); err != nil {
		return err
	}
	err := s.db.WithContext(ctx).
		Where("id = ?", customerID).
		Delete(&models.Customer{}).Error
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete customer")
	}
	return nil
}

func (s *service) Get(ctx context.Context, customerID uuid.UUID) (*models.Customer, error) {
	var customer models.Customer
	err := s.db.WithContext(ctx).First(&customer, "id = ?", customerID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "customer not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load customer")
	}
	return &customer, nil
}

func (s *service) List(ctx context.Context, search string) ([]models.Customer, error) {
	query := s.db.WithContext(ctx).Model(&models.Customer{})
	if search != "" {
		query = query.Where("name LIKE ? OR phone LIKE ?", "%"+search+"%", "%"+search+"%")
	}

	var rows []models.Customer
	if err := query.Order("name ASC").Find(&rows).Error; err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list customers")
	}
	return rows, nil
}
