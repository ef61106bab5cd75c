package invoicing

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/cloudbroker/backend/internal/domain/invoicing"
	"github.com/cloudbroker/backend/internal/domain/resources"
	"github.com/cloudbroker/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func date(year int, month time.Month, day, hour, min, sec int) time.Time {
	return time.Date(year, month, day, hour, min, sec, 0, time.UTC)
}

// fakeInvoiceRepository keeps invoice aggregates in memory. It mirrors
// the storage contract the managers rely on: GetOrCreate is atomic and
// at most one invoice exists per (customer, period).
type fakeInvoiceRepository struct {
	mu       sync.Mutex
	invoices map[string]*invoicing.Invoice
	sequence int64
	saves    int
}

func newFakeInvoiceRepository() *fakeInvoiceRepository {
	return &fakeInvoiceRepository{invoices: make(map[string]*invoicing.Invoice)}
}

func (r *fakeInvoiceRepository) key(customerID uuid.UUID, period invoicing.Period) string {
	return customerID.String() + "/" + period.String()
}

func (r *fakeInvoiceRepository) FindByID(_ context.Context, id uuid.UUID) (*invoicing.Invoice, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, invoice := range r.invoices {
		if invoice.ID == id {
			return invoice, nil
		}
	}
	return nil, shared.ErrNotFound
}

func (r *fakeInvoiceRepository) FindByPeriod(_ context.Context, customerID uuid.UUID, period invoicing.Period) (*invoicing.Invoice, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	invoice, ok := r.invoices[r.key(customerID, period)]
	if !ok {
		return nil, shared.ErrNotFound
	}
	return invoice, nil
}

func (r *fakeInvoiceRepository) FindByCustomer(_ context.Context, customerID uuid.UUID) ([]*invoicing.Invoice, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var result []*invoicing.Invoice
	for _, invoice := range r.invoices {
		if invoice.CustomerID == customerID {
			result = append(result, invoice)
		}
	}
	return result, nil
}

func (r *fakeInvoiceRepository) FindPendingBefore(_ context.Context, period invoicing.Period) ([]*invoicing.Invoice, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var result []*invoicing.Invoice
	for _, invoice := range r.invoices {
		if invoice.State == invoicing.StatePending && invoice.Period().Before(period) {
			result = append(result, invoice)
		}
	}
	return result, nil
}

func (r *fakeInvoiceRepository) GetOrCreate(_ context.Context, customerID uuid.UUID, period invoicing.Period, taxPercent decimal.Decimal) (*invoicing.Invoice, bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if invoice, ok := r.invoices[r.key(customerID, period)]; ok {
		return invoice, false, nil
	}
	invoice, err := invoicing.NewInvoice(customerID, period, taxPercent)
	if err != nil {
		return nil, false, err
	}
	r.sequence++
	invoice.Sequence = r.sequence
	r.invoices[r.key(customerID, period)] = invoice
	return invoice, true, nil
}

func (r *fakeInvoiceRepository) Save(_ context.Context, invoice *invoicing.Invoice) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.invoices[r.key(invoice.CustomerID, invoice.Period())] = invoice
	r.saves++
	return nil
}

func (r *fakeInvoiceRepository) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.invoices)
}

// fakeCustomerRepository keeps customers in memory
type fakeCustomerRepository struct {
	mu        sync.Mutex
	customers map[uuid.UUID]*resources.Customer
}

func newFakeCustomerRepository() *fakeCustomerRepository {
	return &fakeCustomerRepository{customers: make(map[uuid.UUID]*resources.Customer)}
}

func (r *fakeCustomerRepository) FindByID(_ context.Context, id uuid.UUID) (*resources.Customer, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	customer, ok := r.customers[id]
	if !ok {
		return nil, shared.ErrNotFound
	}
	return customer, nil
}

func (r *fakeCustomerRepository) Save(_ context.Context, customer *resources.Customer) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.customers[customer.ID] = customer
	return nil
}

// fakeTenantPackageRepository serves a fixed set of packages
type fakeTenantPackageRepository struct {
	packages []*resources.TenantPackage
}

func (r *fakeTenantPackageRepository) FindByID(_ context.Context, id uuid.UUID) (*resources.TenantPackage, error) {
	for _, pkg := range r.packages {
		if pkg.ID == id {
			return pkg, nil
		}
	}
	return nil, shared.ErrNotFound
}

func (r *fakeTenantPackageRepository) FindActiveByCustomer(_ context.Context, customerID uuid.UUID) ([]*resources.TenantPackage, error) {
	var result []*resources.TenantPackage
	for _, pkg := range r.packages {
		if pkg.CustomerID == customerID && pkg.IsActive() {
			result = append(result, pkg)
		}
	}
	return result, nil
}

func (r *fakeTenantPackageRepository) Save(_ context.Context, pkg *resources.TenantPackage) error {
	r.packages = append(r.packages, pkg)
	return nil
}

// fakeSupportOfferingRepository serves a fixed set of offerings
type fakeSupportOfferingRepository struct {
	offerings []*resources.SupportOffering
}

func (r *fakeSupportOfferingRepository) FindByID(_ context.Context, id uuid.UUID) (*resources.SupportOffering, error) {
	for _, offering := range r.offerings {
		if offering.ID == id {
			return offering, nil
		}
	}
	return nil, shared.ErrNotFound
}

func (r *fakeSupportOfferingRepository) FindActiveByCustomer(_ context.Context, customerID uuid.UUID) ([]*resources.SupportOffering, error) {
	var result []*resources.SupportOffering
	for _, offering := range r.offerings {
		if offering.CustomerID == customerID && offering.IsActive() {
			result = append(result, offering)
		}
	}
	return result, nil
}

func (r *fakeSupportOfferingRepository) Save(_ context.Context, offering *resources.SupportOffering) error {
	r.offerings = append(r.offerings, offering)
	return nil
}

// fakeExpertContractRepository serves a fixed set of contracts
type fakeExpertContractRepository struct {
	contracts []*resources.ExpertContract
}

func (r *fakeExpertContractRepository) FindByID(_ context.Context, id uuid.UUID) (*resources.ExpertContract, error) {
	for _, contract := range r.contracts {
		if contract.ID == id {
			return contract, nil
		}
	}
	return nil, shared.ErrNotFound
}

func (r *fakeExpertContractRepository) FindActiveByCustomer(_ context.Context, customerID uuid.UUID) ([]*resources.ExpertContract, error) {
	var result []*resources.ExpertContract
	for _, contract := range r.contracts {
		if contract.CustomerID == customerID && contract.IsActive() {
			result = append(result, contract)
		}
	}
	return result, nil
}

func (r *fakeExpertContractRepository) Save(_ context.Context, contract *resources.ExpertContract) error {
	r.contracts = append(r.contracts, contract)
	return nil
}

func createTestCustomer(t *testing.T, customers *fakeCustomerRepository) *resources.Customer {
	customer, err := resources.NewCustomer("Acme", "billing@acme.example", decimal.NewFromInt(20))
	require.NoError(t, err)
	require.NoError(t, customers.Save(context.Background(), customer))
	return customer
}

func createTestPackage(t *testing.T, customerID uuid.UUID, tenantName string, dailyPrice int64) *resources.TenantPackage {
	pkg, err := resources.NewTenantPackage(customerID, tenantName, resources.PackageTemplate{
		Name:       "small",
		DailyPrice: decimal.NewFromInt(dailyPrice),
	})
	require.NoError(t, err)
	return pkg
}
