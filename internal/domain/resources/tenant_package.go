package resources

import (
	"strings"
	"time"

	"github.com/cloudbroker/backend/internal/domain/invoicing"
	"github.com/cloudbroker/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// KindTenantPackage tags cloud tenant packages for registrator dispatch
const KindTenantPackage invoicing.ResourceKind = "tenant-package"

// PackageTemplate is the priced sizing template a tenant package is
// provisioned from. The daily price is snapshotted onto invoice items at
// registration time.
type PackageTemplate struct {
	Name        string
	DailyPrice  decimal.Decimal
	ProductCode string
	ArticleCode string
}

// TenantPackage is a provisioned cloud tenant billed per day. Packages
// are keyed by tenant name: replacing a package mid-day creates a new
// aggregate with the same tenant name, which is what triggers overlap
// resolution on the invoice.
type TenantPackage struct {
	shared.BaseEntity
	CustomerID   uuid.UUID
	TenantName   string
	Template     PackageTemplate
	TerminatedAt *time.Time
}

// NewTenantPackage creates a tenant package with validation
func NewTenantPackage(customerID uuid.UUID, tenantName string, template PackageTemplate) (*TenantPackage, error) {
	if customerID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_CUSTOMER", "Customer ID cannot be empty")
	}
	if strings.TrimSpace(tenantName) == "" {
		return nil, shared.NewDomainError("INVALID_TENANT_NAME", "Tenant name cannot be empty")
	}
	if template.DailyPrice.IsNegative() {
		return nil, shared.NewDomainError("NEGATIVE_PRICE", "Template daily price cannot be negative")
	}

	return &TenantPackage{
		BaseEntity: shared.NewBaseEntity(),
		CustomerID: customerID,
		TenantName: tenantName,
		Template:   template,
	}, nil
}

// ResourceID implements invoicing.Resource
func (p *TenantPackage) ResourceID() uuid.UUID {
	return p.ID
}

// Kind implements invoicing.Resource
func (p *TenantPackage) Kind() invoicing.ResourceKind {
	return KindTenantPackage
}

// Identity implements invoicing.Resource; packages contend for calendar
// days by tenant name
func (p *TenantPackage) Identity() string {
	return p.TenantName
}

// IsActive reports whether the package is still chargeable
func (p *TenantPackage) IsActive() bool {
	return p.TerminatedAt == nil
}

// Terminate marks the package as deleted at the given time
func (p *TenantPackage) Terminate(now time.Time) {
	if p.TerminatedAt != nil {
		return
	}
	t := now
	p.TerminatedAt = &t
	p.UpdatedAt = time.Now()
}
