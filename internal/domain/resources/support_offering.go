package resources

import (
	"strings"
	"time"

	"github.com/cloudbroker/backend/internal/domain/invoicing"
	"github.com/cloudbroker/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// KindSupportOffering tags support offerings for registrator dispatch
const KindSupportOffering invoicing.ResourceKind = "support-offering"

// SupportOffering is a purchased support plan billed per day or per hour
type SupportOffering struct {
	shared.BaseEntity
	CustomerID   uuid.UUID
	Name         string
	UnitPrice    decimal.Decimal
	Unit         invoicing.Unit
	ProductCode  string
	ArticleCode  string
	TerminatedAt *time.Time
}

// NewSupportOffering creates a support offering with validation
func NewSupportOffering(customerID uuid.UUID, name string, unitPrice decimal.Decimal, unit invoicing.Unit) (*SupportOffering, error) {
	if customerID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_CUSTOMER", "Customer ID cannot be empty")
	}
	if strings.TrimSpace(name) == "" {
		return nil, shared.NewDomainError("INVALID_NAME", "Offering name cannot be empty")
	}
	if unitPrice.IsNegative() {
		return nil, shared.NewDomainError("NEGATIVE_PRICE", "Offering unit price cannot be negative")
	}
	if !unit.IsValid() {
		return nil, shared.NewDomainError("INVALID_UNIT", "Invalid pricing unit")
	}

	return &SupportOffering{
		BaseEntity: shared.NewBaseEntity(),
		CustomerID: customerID,
		Name:       name,
		UnitPrice:  unitPrice,
		Unit:       unit,
	}, nil
}

// ResourceID implements invoicing.Resource
func (o *SupportOffering) ResourceID() uuid.UUID {
	return o.ID
}

// Kind implements invoicing.Resource
func (o *SupportOffering) Kind() invoicing.ResourceKind {
	return KindSupportOffering
}

// Identity implements invoicing.Resource. Offerings are not replaced
// in-place, so each instance is its own identity.
func (o *SupportOffering) Identity() string {
	return o.ID.String()
}

// IsActive reports whether the offering is still chargeable
func (o *SupportOffering) IsActive() bool {
	return o.TerminatedAt == nil
}

// Terminate marks the offering as ended at the given time
func (o *SupportOffering) Terminate(now time.Time) {
	if o.TerminatedAt != nil {
		return
	}
	t := now
	o.TerminatedAt = &t
	o.UpdatedAt = time.Now()
}
