package dto

import (
	"time"

	"github.com/cloudbroker/backend/internal/domain/invoicing"
	"github.com/cloudbroker/backend/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// money renders a decimal amount in the system currency, e.g. "170.00 EUR"
func money(amount decimal.Decimal) string {
	return valueobject.NewMoneyEUR(amount).String()
}

// InvoiceItemResponse represents one invoice item in API responses
type InvoiceItemResponse struct {
	ID               uuid.UUID             `json:"id"`
	ResourceKind     string                `json:"resource_kind"`
	ResourceID       *uuid.UUID            `json:"resource_id,omitempty"`
	ResourceIdentity string                `json:"resource_identity"`
	Name             string                `json:"name"`
	Unit             string                `json:"unit"`
	UnitPrice        string                `json:"unit_price"`
	Start            time.Time             `json:"start"`
	End              time.Time             `json:"end"`
	UsageDays        int64                 `json:"usage_days"`
	Price            string                `json:"price"`
	PriceCurrent     string                `json:"price_current"`
	Details          invoicing.ItemDetails `json:"details"`
}

// InvoiceResponse represents an invoice with its items in API responses
type InvoiceResponse struct {
	ID           uuid.UUID             `json:"id"`
	Number       int64                 `json:"number"`
	CustomerID   uuid.UUID             `json:"customer_id"`
	Year         int                   `json:"year"`
	Month        int                   `json:"month"`
	State        string                `json:"state"`
	TaxPercent   string                `json:"tax_percent"`
	InvoiceDate  *time.Time            `json:"invoice_date,omitempty"`
	DueDate      *time.Time            `json:"due_date,omitempty"`
	Price        string                `json:"price"`
	Tax          string                `json:"tax"`
	Total        string                `json:"total"`
	PriceCurrent string                `json:"price_current"`
	TotalCurrent string                `json:"total_current"`
	Items        []InvoiceItemResponse `json:"items"`
	CreatedAt    time.Time             `json:"created_at"`
	UpdatedAt    time.Time             `json:"updated_at"`
}

// ToInvoiceItemResponse maps a domain invoice item to its API representation
func ToInvoiceItemResponse(item *invoicing.InvoiceItem, now time.Time) InvoiceItemResponse {
	return InvoiceItemResponse{
		ID:               item.ID,
		ResourceKind:     string(item.ResourceKind),
		ResourceID:       item.ResourceID,
		ResourceIdentity: item.ResourceIdentity,
		Name:             item.Name,
		Unit:             item.Unit.String(),
		UnitPrice:        item.UnitPrice.String(),
		Start:            item.Start,
		End:              item.End,
		UsageDays:        item.UsageDays(),
		Price:            money(item.Price()),
		PriceCurrent:     money(item.PriceCurrent(now)),
		Details:          item.Details,
	}
}

// ToInvoiceResponse maps a domain invoice to its API representation.
// paymentIntervalDays determines the due date of already-issued invoices.
func ToInvoiceResponse(invoice *invoicing.Invoice, paymentIntervalDays int, now time.Time) InvoiceResponse {
	items := make([]InvoiceItemResponse, len(invoice.Items))
	for i, item := range invoice.Items {
		items[i] = ToInvoiceItemResponse(item, now)
	}
	return InvoiceResponse{
		ID:           invoice.ID,
		Number:       invoice.Number(),
		CustomerID:   invoice.CustomerID,
		Year:         invoice.Year,
		Month:        invoice.Month,
		State:        invoice.State.String(),
		TaxPercent:   invoice.TaxPercent.String(),
		InvoiceDate:  invoice.InvoiceDate,
		DueDate:      invoice.DueDate(paymentIntervalDays),
		Price:        money(invoice.Price()),
		Tax:          money(invoice.Tax()),
		Total:        money(invoice.Total()),
		PriceCurrent: money(invoice.PriceCurrent(now)),
		TotalCurrent: money(invoice.TotalCurrent(now)),
		Items:        items,
		CreatedAt:    invoice.CreatedAt,
		UpdatedAt:    invoice.UpdatedAt,
	}
}

// ToInvoiceResponses maps a slice of domain invoices
func ToInvoiceResponses(invoices []*invoicing.Invoice, paymentIntervalDays int, now time.Time) []InvoiceResponse {
	responses := make([]InvoiceResponse, len(invoices))
	for i, invoice := range invoices {
		responses[i] = ToInvoiceResponse(invoice, paymentIntervalDays, now)
	}
	return responses
}
