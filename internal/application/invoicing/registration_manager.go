package invoicing

import (
	"context"
	"fmt"
	"time"

	"github.com/cloudbroker/backend/internal/domain/invoicing"
	"github.com/cloudbroker/backend/internal/domain/resources"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// RegistrationManager is the highest-level interface for invoice item
// registration and termination. It resolves the registrator for a
// resource's kind, get-or-creates the invoice for (customer, month,
// year) and delegates item handling to the registrator.
//
// Concurrency: the whole get-or-create-then-mutate sequence runs under a
// per-(customer, year, month) lock so two concurrent events in a fresh
// month cannot both believe they created the invoice and bootstrap
// twice. The aggregate is persisted in one Save, which the repository
// executes atomically.
type RegistrationManager struct {
	registry  *invoicing.Registry
	invoices  invoicing.InvoiceRepository
	customers resources.CustomerRepository
	locks     *keyLock
	logger    *zap.Logger
}

// NewRegistrationManager creates a registration manager
func NewRegistrationManager(
	registry *invoicing.Registry,
	invoices invoicing.InvoiceRepository,
	customers resources.CustomerRepository,
	logger *zap.Logger,
) *RegistrationManager {
	return &RegistrationManager{
		registry:  registry,
		invoices:  invoices,
		customers: customers,
		locks:     newKeyLock(),
		logger:    logger,
	}
}

func invoiceKey(customerID uuid.UUID, period invoicing.Period) string {
	return fmt.Sprintf("%s/%s", customerID, period)
}

// Register creates a new invoice item for the source and registers it on
// the invoice for now's billing period, creating the invoice first if it
// does not exist yet.
//
// When the invoice is created by this call, a bootstrap pass enumerates
// every registrator's chargeable resources of the customer so a brand
// new invoice reflects the full current resource footprint, not just the
// triggering source. The bootstrap covers the triggering source too, so
// the individual registration only happens for pre-existing invoices.
func (m *RegistrationManager) Register(ctx context.Context, source invoicing.Resource, now time.Time) error {
	registrator, err := m.registry.For(source.Kind())
	if err != nil {
		return err
	}
	customerID, err := registrator.CustomerID(ctx, source)
	if err != nil {
		return err
	}

	period := invoicing.PeriodOf(now)
	unlock := m.locks.Lock(invoiceKey(customerID, period))
	defer unlock()

	invoice, created, err := m.getOrCreateInvoice(ctx, customerID, now)
	if err != nil {
		return err
	}
	if !created {
		if err := invoicing.Register(registrator, invoice, []invoicing.Resource{source}, now); err != nil {
			return err
		}
	}
	if err := m.invoices.Save(ctx, invoice); err != nil {
		return fmt.Errorf("save invoice: %w", err)
	}

	m.logger.Info("registered invoice item",
		zap.String("kind", source.Kind().String()),
		zap.String("resource_id", source.ResourceID().String()),
		zap.String("customer_id", customerID.String()),
		zap.String("period", period.String()),
		zap.Bool("invoice_created", created),
	)
	return nil
}

// Terminate freezes the invoice item corresponding to the source,
// ending its usage at now. A source that was never billed this month is
// a no-op; the invoice is still get-or-created so the customer's
// footprint is captured even when the first event of a month is a
// deletion.
func (m *RegistrationManager) Terminate(ctx context.Context, source invoicing.Resource, now time.Time) error {
	registrator, err := m.registry.For(source.Kind())
	if err != nil {
		return err
	}
	customerID, err := registrator.CustomerID(ctx, source)
	if err != nil {
		return err
	}

	period := invoicing.PeriodOf(now)
	unlock := m.locks.Lock(invoiceKey(customerID, period))
	defer unlock()

	invoice, _, err := m.getOrCreateInvoice(ctx, customerID, now)
	if err != nil {
		return err
	}
	invoicing.Terminate(invoice, source, now)
	if err := m.invoices.Save(ctx, invoice); err != nil {
		return fmt.Errorf("save invoice: %w", err)
	}

	m.logger.Info("terminated invoice item",
		zap.String("kind", source.Kind().String()),
		zap.String("resource_id", source.ResourceID().String()),
		zap.String("customer_id", customerID.String()),
		zap.String("period", period.String()),
	)
	return nil
}

// EnsureInvoice get-or-creates the customer's invoice for now's period,
// bootstrapping it when new, and persists it. The monthly rollover uses
// this to seed the next month's invoice.
func (m *RegistrationManager) EnsureInvoice(ctx context.Context, customerID uuid.UUID, now time.Time) (*invoicing.Invoice, error) {
	period := invoicing.PeriodOf(now)
	unlock := m.locks.Lock(invoiceKey(customerID, period))
	defer unlock()

	invoice, _, err := m.getOrCreateInvoice(ctx, customerID, now)
	if err != nil {
		return nil, err
	}
	if err := m.invoices.Save(ctx, invoice); err != nil {
		return nil, fmt.Errorf("save invoice: %w", err)
	}
	return invoice, nil
}

// getOrCreateInvoice returns the invoice for (customer, now's period),
// creating and bootstrapping it if absent. Callers must hold the
// per-key lock.
func (m *RegistrationManager) getOrCreateInvoice(ctx context.Context, customerID uuid.UUID, now time.Time) (*invoicing.Invoice, bool, error) {
	customer, err := m.customers.FindByID(ctx, customerID)
	if err != nil {
		return nil, false, fmt.Errorf("find customer: %w", err)
	}

	period := invoicing.PeriodOf(now)
	invoice, created, err := m.invoices.GetOrCreate(ctx, customerID, period, customer.TaxPercent)
	if err != nil {
		return nil, false, fmt.Errorf("get or create invoice: %w", err)
	}

	if created {
		// Registrators run in deterministic kind order so bootstrap
		// results do not depend on registration order at composition time.
		for _, registrator := range m.registry.All() {
			sources, err := registrator.ChargeableSources(ctx, customerID)
			if err != nil {
				return nil, false, fmt.Errorf("bootstrap %s: %w", registrator.Kind(), err)
			}
			if err := invoicing.Register(registrator, invoice, sources, now); err != nil {
				return nil, false, fmt.Errorf("bootstrap %s: %w", registrator.Kind(), err)
			}
		}
		m.logger.Info("bootstrapped new invoice",
			zap.String("customer_id", customerID.String()),
			zap.String("period", period.String()),
			zap.Int("items", len(invoice.Items)),
		)
	}

	return invoice, created, nil
}
