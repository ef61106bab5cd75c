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

// GormTenantPackageRepository implements resources.TenantPackageRepository using GORM
type GormTenantPackageRepository struct {
	db *gorm.DB
}

// NewGormTenantPackageRepository creates a new GORM-based tenant package repository
func NewGormTenantPackageRepository(db *gorm.DB) *GormTenantPackageRepository {
	return &GormTenantPackageRepository{db: db}
}

// FindByID finds a tenant package by ID
func (r *GormTenantPackageRepository) FindByID(ctx context.Context, id uuid.UUID) (*resources.TenantPackage, error) {
	var model models.TenantPackageModel
	err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find tenant package: %w", err)
	}
	return model.ToDomain(), nil
}

// FindActiveByCustomer lists the customer's still-chargeable packages
func (r *GormTenantPackageRepository) FindActiveByCustomer(ctx context.Context, customerID uuid.UUID) ([]*resources.TenantPackage, error) {
	var packageModels []models.TenantPackageModel
	err := r.db.WithContext(ctx).
		Where("customer_id = ? AND terminated_at IS NULL", customerID).
		Order("created_at ASC").
		Find(&packageModels).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list tenant packages: %w", err)
	}

	packages := make([]*resources.TenantPackage, len(packageModels))
	for i := range packageModels {
		packages[i] = packageModels[i].ToDomain()
	}
	return packages, nil
}

// Save persists a tenant package
func (r *GormTenantPackageRepository) Save(ctx context.Context, pkg *resources.TenantPackage) error {
	var model models.TenantPackageModel
	model.FromDomain(pkg)
	if err := r.db.WithContext(ctx).Save(&model).Error; err != nil {
		return fmt.Errorf("failed to save tenant package: %w", err)
	}
	return nil
}

// GormSupportOfferingRepository implements resources.SupportOfferingRepository using GORM
type GormSupportOfferingRepository struct {
	db *gorm.DB
}

// NewGormSupportOfferingRepository creates a new GORM-based support offering repository
func NewGormSupportOfferingRepository(db *gorm.DB) *GormSupportOfferingRepository {
	return &GormSupportOfferingRepository{db: db}
}

// FindByID finds a support offering by ID
func (r *GormSupportOfferingRepository) FindByID(ctx context.Context, id uuid.UUID) (*resources.SupportOffering, error) {
	var model models.SupportOfferingModel
	err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find support offering: %w", err)
	}
	return model.ToDomain(), nil
}

// FindActiveByCustomer lists the customer's still-chargeable offerings
func (r *GormSupportOfferingRepository) FindActiveByCustomer(ctx context.Context, customerID uuid.UUID) ([]*resources.SupportOffering, error) {
	var offeringModels []models.SupportOfferingModel
	err := r.db.WithContext(ctx).
		Where("customer_id = ? AND terminated_at IS NULL", customerID).
		Order("created_at ASC").
		Find(&offeringModels).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list support offerings: %w", err)
	}

	offerings := make([]*resources.SupportOffering, len(offeringModels))
	for i := range offeringModels {
		offerings[i] = offeringModels[i].ToDomain()
	}
	return offerings, nil
}

// Save persists a support offering
func (r *GormSupportOfferingRepository) Save(ctx context.Context, offering *resources.SupportOffering) error {
	var model models.SupportOfferingModel
	model.FromDomain(offering)
	if err := r.db.WithContext(ctx).Save(&model).Error; err != nil {
		return fmt.Errorf("failed to save support offering: %w", err)
	}
	return nil
}

// GormExpertContractRepository implements resources.ExpertContractRepository using GORM
type GormExpertContractRepository struct {
	db *gorm.DB
}

// NewGormExpertContractRepository creates a new GORM-based expert contract repository
func NewGormExpertContractRepository(db *gorm.DB) *GormExpertContractRepository {
	return &GormExpertContractRepository{db: db}
}

// FindByID finds an expert contract by ID
func (r *GormExpertContractRepository) FindByID(ctx context.Context, id uuid.UUID) (*resources.ExpertContract, error) {
	var model models.ExpertContractModel
	err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find expert contract: %w", err)
	}
	return model.ToDomain(), nil
}

// FindActiveByCustomer lists the customer's still-chargeable contracts
func (r *GormExpertContractRepository) FindActiveByCustomer(ctx context.Context, customerID uuid.UUID) ([]*resources.ExpertContract, error) {
	var contractModels []models.ExpertContractModel
	err := r.db.WithContext(ctx).
		Where("customer_id = ? AND terminated_at IS NULL", customerID).
		Order("created_at ASC").
		Find(&contractModels).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list expert contracts: %w", err)
	}

	contracts := make([]*resources.ExpertContract, len(contractModels))
	for i := range contractModels {
		contracts[i] = contractModels[i].ToDomain()
	}
	return contracts, nil
}

// Save persists an expert contract
func (r *GormExpertContractRepository) Save(ctx context.Context, contract *resources.ExpertContract) error {
	var model models.ExpertContractModel
	model.FromDomain(contract)
	if err := r.db.WithContext(ctx).Save(&model).Error; err != nil {
		return fmt.Errorf("failed to save expert contract: %w", err)
	}
	return nil
}
