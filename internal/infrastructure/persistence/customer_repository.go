package persistence

import (
	"context"
	"errors"
	"fmt"

	"github.com/cloudbroker/backend/internal/domain/resources"
	"github.com/cloudbroker/backend/internal/domain/shared"
	"github.com/cloudbroker/backend/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormCustomerRepository implements resources.CustomerRepository using GORM
type GormCustomerRepository struct {
	db *gorm.DB
}

// NewGormCustomerRepository creates a new GORM-based customer repository
func NewGormCustomerRepository(db *gorm.DB) *GormCustomerRepository {
	return &GormCustomerRepository{db: db}
}

// FindByID finds a customer by ID
func (r *GormCustomerRepository) FindByID(ctx context.Context, id uuid.UUID) (*resources.Customer, error) {
	var model models.CustomerModel
	err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find customer: %w", err)
	}
	return model.ToDomain(), nil
}

// Save persists a customer
func (r *GormCustomerRepository) Save(ctx context.Context, customer *resources.Customer) error {
	var model models.CustomerModel
	model.FromDomain(customer)
	if err := r.db.WithContext(ctx).Save(&model).Error; err != nil {
		return fmt.Errorf("failed to save customer: %w", err)
	}
	return nil
}
