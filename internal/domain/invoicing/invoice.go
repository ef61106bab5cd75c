package invoicing

import (
	"fmt"
	"time"

	"github.com/cloudbroker/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// State represents the lifecycle state of an invoice
type State string

const (
	StatePending  State = "pending"  // Open, items can still be registered
	StateCreated  State = "created"  // Frozen at month rollover, awaiting payment
	StatePaid     State = "paid"     // Settled
	StateCanceled State = "canceled" // Voided
)

// IsValid checks if the state is a valid invoice state
func (s State) IsValid() bool {
	switch s {
	case StatePending, StateCreated, StatePaid, StateCanceled:
		return true
	}
	return false
}

// IsTerminal returns true if no further transition is defined from the state
func (s State) IsTerminal() bool {
	return s == StatePaid || s == StateCanceled
}

// String returns the string representation of the state
func (s State) String() string {
	return string(s)
}

// ErrIncorrectState is returned when a transition is requested from a
// state it is not defined for. It signals an ordering error at the
// caller and is not retried.
var ErrIncorrectState = shared.NewDomainError("INCORRECT_STATE", "Invoice state does not allow this transition")

// invoiceNumberBase offsets the storage sequence so invoice numbers
// start at a presentable magnitude
const invoiceNumberBase = 100000

// Invoice is the aggregate root describing billing information about
// purchased resources for one customer over one month. It owns its
// items exclusively; item lifetime never exceeds invoice lifetime.
type Invoice struct {
	shared.BaseEntity
	Sequence    int64 // storage-assigned, drives Number()
	CustomerID  uuid.UUID
	Year        int
	Month       int
	State       State
	TaxPercent  decimal.Decimal
	InvoiceDate *time.Time
	Items       []*InvoiceItem
}

// NewInvoice creates a pending invoice for one (customer, year, month)
func NewInvoice(customerID uuid.UUID, period Period, taxPercent decimal.Decimal) (*Invoice, error) {
	if customerID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_CUSTOMER", "Customer ID cannot be empty")
	}
	if err := period.Validate(); err != nil {
		return nil, err
	}
	if taxPercent.IsNegative() || taxPercent.GreaterThan(decimal.NewFromInt(100)) {
		return nil, shared.NewDomainError("INVALID_TAX_PERCENT", "Tax percent must be between 0 and 100")
	}

	return &Invoice{
		BaseEntity: shared.NewBaseEntity(),
		CustomerID: customerID,
		Year:       period.Year,
		Month:      period.Month,
		State:      StatePending,
		TaxPercent: taxPercent,
		Items:      make([]*InvoiceItem, 0),
	}, nil
}

// Period returns the billing period of the invoice
func (i *Invoice) Period() Period {
	return Period{Year: i.Year, Month: i.Month}
}

// Number returns the human-facing invoice number
func (i *Invoice) Number() int64 {
	return invoiceNumberBase + i.Sequence
}

// Price returns the sum of all item prices, before tax
func (i *Invoice) Price() decimal.Decimal {
	price := decimal.Zero
	for _, item := range i.Items {
		price = price.Add(item.Price())
	}
	return price
}

// Tax returns price multiplied by the invoice tax percent
func (i *Invoice) Tax() decimal.Decimal {
	return i.Price().Mul(i.TaxPercent).Div(decimal.NewFromInt(100))
}

// Total returns price plus tax
func (i *Invoice) Total() decimal.Decimal {
	return i.Price().Add(i.Tax())
}

// PriceCurrent estimates the price accrued so far for still-running items
func (i *Invoice) PriceCurrent(now time.Time) decimal.Decimal {
	price := decimal.Zero
	for _, item := range i.Items {
		price = price.Add(item.PriceCurrent(now))
	}
	return price
}

// TaxCurrent returns the tax portion of the current price estimate
func (i *Invoice) TaxCurrent(now time.Time) decimal.Decimal {
	return i.PriceCurrent(now).Mul(i.TaxPercent).Div(decimal.NewFromInt(100))
}

// TotalCurrent returns the running total estimate
func (i *Invoice) TotalCurrent(now time.Time) decimal.Decimal {
	return i.PriceCurrent(now).Add(i.TaxCurrent(now))
}

// DueDate returns invoice date plus the configured payment interval.
// It is only meaningful once the invoice has been created.
func (i *Invoice) DueDate(paymentIntervalDays int) *time.Time {
	if i.InvoiceDate == nil {
		return nil
	}
	due := i.InvoiceDate.AddDate(0, 0, paymentIntervalDays)
	return &due
}

// AddItem registers an item under this invoice
func (i *Invoice) AddItem(item *InvoiceItem) {
	item.InvoiceID = i.ID
	i.Items = append(i.Items, item)
}

// OpenItemForResource returns the item still referencing the given
// resource, or nil if the resource was never billed on this invoice
func (i *Invoice) OpenItemForResource(resourceID uuid.UUID) *InvoiceItem {
	for _, item := range i.Items {
		if item.MatchesResource(resourceID) {
			return item
		}
	}
	return nil
}

// OverlappingItem returns the item for the same logical identity whose
// end falls on the given calendar day, preferring the highest unit price.
// The tie-break matters when more than one old item could plausibly
// contest the day.
func (i *Invoice) OverlappingItem(identity string, day time.Time) *InvoiceItem {
	var best *InvoiceItem
	for _, item := range i.Items {
		if item.ResourceIdentity != identity {
			continue
		}
		if !sameDay(item.End, day) {
			continue
		}
		if best == nil || item.UnitPrice.GreaterThan(best.UnitPrice) {
			best = item
		}
	}
	return best
}

// SetCreated freezes the invoice: every item snapshots its descriptive
// details, the state moves from pending to created and the invoice date
// is stamped. Customers on an active fixed-price contract skip straight
// to paid. Calling this outside the pending state fails with
// ErrIncorrectState.
func (i *Invoice) SetCreated(now time.Time, fixedPrice bool) error {
	if i.State != StatePending {
		return ErrIncorrectState
	}

	for _, item := range i.Items {
		item.Freeze(item.Details, nil, false)
	}

	if fixedPrice {
		i.State = StatePaid
	} else {
		i.State = StateCreated
	}
	date := now.UTC()
	i.InvoiceDate = &date
	i.UpdatedAt = time.Now()
	return nil
}

// MarkPaid settles a created invoice
func (i *Invoice) MarkPaid() error {
	if i.State != StateCreated {
		return ErrIncorrectState
	}
	i.State = StatePaid
	i.UpdatedAt = time.Now()
	return nil
}

// Cancel voids a created invoice
func (i *Invoice) Cancel() error {
	if i.State != StateCreated {
		return ErrIncorrectState
	}
	i.State = StateCanceled
	i.UpdatedAt = time.Now()
	return nil
}

// String identifies the invoice by customer and period
func (i *Invoice) String() string {
	return fmt.Sprintf("%s | %s", i.CustomerID, i.Period())
}
