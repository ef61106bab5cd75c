package invoicing

import (
	"context"
	"fmt"

	"github.com/cloudbroker/backend/internal/domain/invoicing"
	"github.com/google/uuid"
)

// InvoiceQueryService serves the read-only reporting surface
type InvoiceQueryService struct {
	invoices invoicing.InvoiceRepository
}

// NewInvoiceQueryService creates an invoice query service
func NewInvoiceQueryService(invoices invoicing.InvoiceRepository) *InvoiceQueryService {
	return &InvoiceQueryService{invoices: invoices}
}

// GetByID loads one invoice with its items
func (s *InvoiceQueryService) GetByID(ctx context.Context, id uuid.UUID) (*invoicing.Invoice, error) {
	return s.invoices.FindByID(ctx, id)
}

// ListByCustomer lists all invoices of a customer, newest period first
func (s *InvoiceQueryService) ListByCustomer(ctx context.Context, customerID uuid.UUID) ([]*invoicing.Invoice, error) {
	invoices, err := s.invoices.FindByCustomer(ctx, customerID)
	if err != nil {
		return nil, fmt.Errorf("list invoices: %w", err)
	}
	return invoices, nil
}
