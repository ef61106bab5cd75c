package resources

import (
	"strings"
	"time"

	"github.com/cloudbroker/backend/internal/domain/invoicing"
	"github.com/cloudbroker/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// KindExpertContract tags expert contracts for registrator dispatch
const KindExpertContract invoicing.ResourceKind = "expert-contract"

// ExpertContract is an engagement with an external expert billed per day
type ExpertContract struct {
	shared.BaseEntity
	CustomerID   uuid.UUID
	Description  string
	DailyPrice   decimal.Decimal
	TerminatedAt *time.Time
}

// NewExpertContract creates an expert contract with validation
func NewExpertContract(customerID uuid.UUID, description string, dailyPrice decimal.Decimal) (*ExpertContract, error) {
	if customerID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_CUSTOMER", "Customer ID cannot be empty")
	}
	if strings.TrimSpace(description) == "" {
		return nil, shared.NewDomainError("INVALID_DESCRIPTION", "Contract description cannot be empty")
	}
	if dailyPrice.IsNegative() {
		return nil, shared.NewDomainError("NEGATIVE_PRICE", "Contract daily price cannot be negative")
	}

	return &ExpertContract{
		BaseEntity:  shared.NewBaseEntity(),
		CustomerID:  customerID,
		Description: description,
		DailyPrice:  dailyPrice,
	}, nil
}

// ResourceID implements invoicing.Resource
func (c *ExpertContract) ResourceID() uuid.UUID {
	return c.ID
}

// Kind implements invoicing.Resource
func (c *ExpertContract) Kind() invoicing.ResourceKind {
	return KindExpertContract
}

// Identity implements invoicing.Resource
func (c *ExpertContract) Identity() string {
	return c.ID.String()
}

// IsActive reports whether the contract is still chargeable
func (c *ExpertContract) IsActive() bool {
	return c.TerminatedAt == nil
}

// Terminate marks the contract as ended at the given time
func (c *ExpertContract) Terminate(now time.Time) {
	if c.TerminatedAt != nil {
		return
	}
	t := now
	c.TerminatedAt = &t
	c.UpdatedAt = time.Now()
}
