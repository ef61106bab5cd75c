package invoicing

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"time"

	"github.com/cloudbroker/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ItemDetails is the denormalized snapshot of the billed resource.
// It is populated at the latest when the item is frozen so the invoice
// line stays meaningful after the resource itself is gone.
type ItemDetails struct {
	ResourceName string `json:"resource_name,omitempty"`
	TemplateName string `json:"template_name,omitempty"`
	TenantName   string `json:"tenant_name,omitempty"`
	ProductCode  string `json:"product_code,omitempty"`
	ArticleCode  string `json:"article_code,omitempty"`
}

// Value implements driver.Valuer interface for GORM to store as JSONB
func (d ItemDetails) Value() (driver.Value, error) {
	return json.Marshal(d)
}

// Scan implements sql.Scanner interface for GORM to read from JSONB
func (d *ItemDetails) Scan(value interface{}) error {
	if value == nil {
		*d = ItemDetails{}
		return nil
	}

	var bytes []byte
	switch v := value.(type) {
	case []byte:
		bytes = v
	case string:
		bytes = []byte(v)
	default:
		return errors.New("failed to scan ItemDetails: unsupported type")
	}

	if len(bytes) == 0 {
		*d = ItemDetails{}
		return nil
	}

	return json.Unmarshal(bytes, d)
}

// IsEmpty returns true if no detail field is populated
func (d ItemDetails) IsEmpty() bool {
	return d == ItemDetails{}
}

// InvoiceItem represents one resource's usage during one contiguous
// sub-period of the invoice's month. The usage interval is half-open:
// [Start, End). A zero-length item (Start == End) stays on the invoice
// for traceability and contributes a price of zero.
type InvoiceItem struct {
	shared.BaseEntity
	InvoiceID        uuid.UUID
	ResourceKind     ResourceKind
	ResourceID       *uuid.UUID // weak back-reference, nil once the resource is deleted
	ResourceIdentity string     // logical name used for overlap matching, e.g. tenant name
	Name             string
	Unit             Unit
	UnitPrice        decimal.Decimal
	Start            time.Time
	End              time.Time
	Details          ItemDetails
}

// NewInvoiceItem creates an invoice item with validation
func NewInvoiceItem(
	invoiceID uuid.UUID,
	kind ResourceKind,
	resourceID uuid.UUID,
	identity string,
	name string,
	unit Unit,
	unitPrice decimal.Decimal,
	start time.Time,
	end time.Time,
) (*InvoiceItem, error) {
	if invoiceID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_INVOICE", "Invoice ID cannot be empty")
	}
	if kind == "" {
		return nil, shared.NewDomainError("INVALID_RESOURCE_KIND", "Resource kind cannot be empty")
	}
	if !unit.IsValid() {
		return nil, shared.NewDomainError("INVALID_UNIT", "Invalid pricing unit")
	}
	if unitPrice.IsNegative() {
		return nil, ErrNegativePrice
	}
	if end.Before(start) {
		return nil, ErrInvalidInterval
	}

	rid := resourceID
	return &InvoiceItem{
		BaseEntity:       shared.NewBaseEntity(),
		InvoiceID:        invoiceID,
		ResourceKind:     kind,
		ResourceID:       &rid,
		ResourceIdentity: identity,
		Name:             name,
		Unit:             unit,
		UnitPrice:        unitPrice,
		Start:            start,
		End:              end,
	}, nil
}

// UsageDays returns the rounded-up day count of the usage interval
func (it *InvoiceItem) UsageDays() int64 {
	return FullDays(it.Start, it.End)
}

// IsZeroLength returns true if the item was collapsed during overlap
// resolution and bills nothing
func (it *InvoiceItem) IsZeroLength() bool {
	return !it.End.After(it.Start)
}

// Price returns the billable price of the item. It is always derived
// from (UnitPrice, Start, End) via the calculator, never stored.
func (it *InvoiceItem) Price() decimal.Decimal {
	if it.IsZeroLength() {
		return decimal.Zero
	}
	price, err := PriceForPeriod(it.UnitPrice, it.Unit, it.Start, it.End)
	if err != nil {
		return decimal.Zero
	}
	return price
}

// PriceCurrent estimates the price accrued up to now for a still-running
// item, capping the interval at the item's end
func (it *InvoiceItem) PriceCurrent(now time.Time) decimal.Decimal {
	end := it.End
	if now.Before(end) {
		end = now
	}
	if !end.After(it.Start) {
		return decimal.Zero
	}
	price, err := PriceForPeriod(it.UnitPrice, it.Unit, it.Start, end)
	if err != nil {
		return decimal.Zero
	}
	return price
}

// Tax returns the tax portion for this item given the invoice tax percent
func (it *InvoiceItem) Tax(taxPercent decimal.Decimal) decimal.Decimal {
	return it.Price().Mul(taxPercent).Div(decimal.NewFromInt(100))
}

// Total returns price plus tax for this item
func (it *InvoiceItem) Total(taxPercent decimal.Decimal) decimal.Decimal {
	return it.Price().Add(it.Tax(taxPercent))
}

// MatchesResource reports whether the item is the open item for the given resource
func (it *InvoiceItem) MatchesResource(resourceID uuid.UUID) bool {
	return it.ResourceID != nil && *it.ResourceID == resourceID
}

// Freeze snapshots descriptive details into the item. The snapshot must
// happen even while the invoice is still pending because the live
// resource may already be gone by the time the invoice is read.
// When the freeze is caused by resource deletion the usage ends at the
// deletion time and the back-reference is dropped.
func (it *InvoiceItem) Freeze(details ItemDetails, end *time.Time, causedByDeletion bool) {
	if !details.IsEmpty() {
		it.Details = details
	}
	if causedByDeletion {
		if end != nil {
			it.End = *end
		}
		it.ResourceID = nil
	}
	it.UpdatedAt = time.Now()
}

// Terminate closes the usage interval at the given time
func (it *InvoiceItem) Terminate(end time.Time) {
	it.End = end
	it.UpdatedAt = time.Now()
}

// ShiftBackward gives up the item's last usage day to a newer sibling.
// An item spanning more than one day moves its end back by one day; a
// shorter item collapses to zero length but stays on the invoice.
func (it *InvoiceItem) ShiftBackward() {
	if it.End.Sub(it.Start) > 24*time.Hour {
		it.End = it.End.AddDate(0, 0, -1)
	} else {
		it.End = it.Start
	}
	it.UpdatedAt = time.Now()
}

// ExtendToEndOfDay moves the item's end to the last second of its end day
func (it *InvoiceItem) ExtendToEndOfDay() {
	it.End = endOfDay(it.End)
	it.UpdatedAt = time.Now()
}
