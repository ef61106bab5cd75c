package invoicing

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cloudbroker/backend/internal/domain/invoicing"
	"github.com/cloudbroker/backend/internal/domain/resources"
	"go.uber.org/zap"
)

// RolloverService freezes invoices of past billing periods and spawns
// the following month's invoices. It is driven by a scheduled trigger
// once the calendar month changes.
type RolloverService struct {
	invoices  invoicing.InvoiceRepository
	customers resources.CustomerRepository
	manager   *RegistrationManager
	logger    *zap.Logger
}

// NewRolloverService creates a rollover service
func NewRolloverService(
	invoices invoicing.InvoiceRepository,
	customers resources.CustomerRepository,
	manager *RegistrationManager,
	logger *zap.Logger,
) *RolloverService {
	return &RolloverService{
		invoices:  invoices,
		customers: customers,
		manager:   manager,
		logger:    logger,
	}
}

// Run propagates every invoice that is still pending for a period
// before now's period. A single failing invoice is logged and skipped so
// one bad record cannot stall the whole rollover.
func (s *RolloverService) Run(ctx context.Context, now time.Time) error {
	period := invoicing.PeriodOf(now)
	pending, err := s.invoices.FindPendingBefore(ctx, period)
	if err != nil {
		return fmt.Errorf("find pending invoices: %w", err)
	}

	var failed int
	for _, invoice := range pending {
		if err := s.Propagate(ctx, invoice, now); err != nil {
			failed++
			s.logger.Error("invoice rollover failed",
				zap.String("invoice_id", invoice.ID.String()),
				zap.String("customer_id", invoice.CustomerID.String()),
				zap.String("period", invoice.Period().String()),
				zap.Error(err),
			)
		}
	}

	s.logger.Info("monthly rollover finished",
		zap.String("period", period.String()),
		zap.Int("processed", len(pending)),
		zap.Int("failed", failed),
	)
	if failed > 0 {
		return fmt.Errorf("rollover: %d of %d invoices failed", failed, len(pending))
	}
	return nil
}

// Propagate freezes one pending invoice and get-or-creates the invoice
// for the following period, seeding it with every resource still
// chargeable to the customer. An invoice no longer pending reports
// ErrIncorrectState, which the caller logs and skips.
func (s *RolloverService) Propagate(ctx context.Context, invoice *invoicing.Invoice, now time.Time) error {
	customer, err := s.customers.FindByID(ctx, invoice.CustomerID)
	if err != nil {
		return fmt.Errorf("find customer: %w", err)
	}

	if err := invoice.SetCreated(now, customer.HasFixedPriceContract()); err != nil {
		if errors.Is(err, invoicing.ErrIncorrectState) {
			return err
		}
		return fmt.Errorf("freeze invoice: %w", err)
	}
	if err := s.invoices.Save(ctx, invoice); err != nil {
		return fmt.Errorf("save frozen invoice: %w", err)
	}

	next := invoice.Period().Next()
	if _, err := s.manager.EnsureInvoice(ctx, invoice.CustomerID, next.Start()); err != nil {
		return fmt.Errorf("seed invoice for %s: %w", next, err)
	}

	s.logger.Info("invoice propagated",
		zap.String("invoice_id", invoice.ID.String()),
		zap.String("customer_id", invoice.CustomerID.String()),
		zap.String("period", invoice.Period().String()),
		zap.String("next_period", next.String()),
		zap.String("state", invoice.State.String()),
	)
	return nil
}
