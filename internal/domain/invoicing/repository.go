package invoicing

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// InvoiceRepository persists Invoice aggregates together with their items
type InvoiceRepository interface {
	// FindByID loads an invoice with all its items
	FindByID(ctx context.Context, id uuid.UUID) (*Invoice, error)

	// FindByPeriod loads the customer's invoice for one billing period
	FindByPeriod(ctx context.Context, customerID uuid.UUID, period Period) (*Invoice, error)

	// FindByCustomer lists all invoices of a customer, newest period first
	FindByCustomer(ctx context.Context, customerID uuid.UUID) ([]*Invoice, error)

	// FindPendingBefore lists every invoice still pending whose period
	// precedes the given one. Used by the monthly rollover.
	FindPendingBefore(ctx context.Context, period Period) ([]*Invoice, error)

	// GetOrCreate returns the customer's invoice for the period, creating
	// a pending one if none exists. The boolean reports whether this call
	// created it. Concurrent calls for the same key must observe exactly
	// one invoice; the storage backs this with a unique constraint on
	// (customer, year, month) and re-reads on conflict.
	GetOrCreate(ctx context.Context, customerID uuid.UUID, period Period, taxPercent decimal.Decimal) (*Invoice, bool, error)

	// Save persists the aggregate and its items atomically
	Save(ctx context.Context, invoice *Invoice) error
}
