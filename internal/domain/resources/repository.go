package resources

import (
	"context"

	"github.com/google/uuid"
)

// CustomerRepository persists Customer entities
type CustomerRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Customer, error)
	Save(ctx context.Context, customer *Customer) error
}

// TenantPackageRepository persists TenantPackage aggregates
type TenantPackageRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*TenantPackage, error)
	// FindActiveByCustomer lists the customer's still-chargeable packages
	FindActiveByCustomer(ctx context.Context, customerID uuid.UUID) ([]*TenantPackage, error)
	Save(ctx context.Context, pkg *TenantPackage) error
}

// SupportOfferingRepository persists SupportOffering aggregates
type SupportOfferingRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*SupportOffering, error)
	// FindActiveByCustomer lists the customer's still-chargeable offerings
	FindActiveByCustomer(ctx context.Context, customerID uuid.UUID) ([]*SupportOffering, error)
	Save(ctx context.Context, offering *SupportOffering) error
}

// ExpertContractRepository persists ExpertContract aggregates
type ExpertContractRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*ExpertContract, error)
	// FindActiveByCustomer lists the customer's still-chargeable contracts
	FindActiveByCustomer(ctx context.Context, customerID uuid.UUID) ([]*ExpertContract, error)
	Save(ctx context.Context, contract *ExpertContract) error
}
