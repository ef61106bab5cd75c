package resources

import (
	"strings"

	"github.com/cloudbroker/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// PaymentType represents how a customer settles invoices
type PaymentType string

const (
	// PaymentTypeMonthlyInvoices bills the customer with a regular monthly invoice
	PaymentTypeMonthlyInvoices PaymentType = "invoices"
	// PaymentTypeFixedPrice marks a fixed-price contract; invoices are
	// considered settled the moment they are created
	PaymentTypeFixedPrice PaymentType = "fixed_price"
)

// IsValid checks if the payment type is valid
func (t PaymentType) IsValid() bool {
	return t == PaymentTypeMonthlyInvoices || t == PaymentTypeFixedPrice
}

// Customer is the organization that owns provisioned resources and
// receives monthly invoices
type Customer struct {
	shared.BaseEntity
	Name        string
	Email       string
	TaxPercent  decimal.Decimal
	PaymentType PaymentType
}

// NewCustomer creates a customer with validation
func NewCustomer(name, email string, taxPercent decimal.Decimal) (*Customer, error) {
	if strings.TrimSpace(name) == "" {
		return nil, shared.NewDomainError("INVALID_NAME", "Customer name cannot be empty")
	}
	if taxPercent.IsNegative() || taxPercent.GreaterThan(decimal.NewFromInt(100)) {
		return nil, shared.NewDomainError("INVALID_TAX_PERCENT", "Tax percent must be between 0 and 100")
	}

	return &Customer{
		BaseEntity:  shared.NewBaseEntity(),
		Name:        name,
		Email:       email,
		TaxPercent:  taxPercent,
		PaymentType: PaymentTypeMonthlyInvoices,
	}, nil
}

// HasFixedPriceContract reports whether the customer's invoices are
// settled immediately on creation
func (c *Customer) HasFixedPriceContract() bool {
	return c.PaymentType == PaymentTypeFixedPrice
}
