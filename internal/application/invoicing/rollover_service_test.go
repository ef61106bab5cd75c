package invoicing

import (
	"context"
	"testing"

	"github.com/cloudbroker/backend/internal/domain/invoicing"
	"github.com/cloudbroker/backend/internal/domain/resources"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type rolloverFixture struct {
	*managerFixture
	service *RolloverService
}

func newRolloverFixture(t *testing.T) *rolloverFixture {
	f := newManagerFixture(t)
	return &rolloverFixture{
		managerFixture: f,
		service:        NewRolloverService(f.invoices, f.customers, f.manager, zap.NewNop()),
	}
}

func TestRolloverService_Run_FreezesAndSeedsNextMonth(t *testing.T) {
	f := newRolloverFixture(t)
	ctx := context.Background()
	customer := createTestCustomer(t, f.customers)

	pkg := createTestPackage(t, customer.ID, "tenant-1", 10)
	f.packages.packages = append(f.packages.packages, pkg)
	require.NoError(t, f.manager.Register(ctx, pkg, date(2017, 1, 15, 0, 0, 0)))

	// February has arrived.
	now := date(2017, 2, 1, 2, 0, 0)
	require.NoError(t, f.service.Run(ctx, now))

	january, err := f.invoices.FindByPeriod(ctx, customer.ID, invoicing.Period{Year: 2017, Month: 1})
	require.NoError(t, err)
	assert.Equal(t, invoicing.StateCreated, january.State)
	require.NotNil(t, january.InvoiceDate)

	// The next month's invoice exists and carries the still-active package
	// from the first of the month.
	february, err := f.invoices.FindByPeriod(ctx, customer.ID, invoicing.Period{Year: 2017, Month: 2})
	require.NoError(t, err)
	assert.Equal(t, invoicing.StatePending, february.State)
	require.Len(t, february.Items, 1)
	assert.Equal(t, date(2017, 2, 1, 0, 0, 0), february.Items[0].Start)
	assert.Equal(t, date(2017, 2, 28, 23, 59, 59), february.Items[0].End)
}

func TestRolloverService_Run_FixedPriceGoesToPaid(t *testing.T) {
	f := newRolloverFixture(t)
	ctx := context.Background()
	customer := createTestCustomer(t, f.customers)
	customer.PaymentType = resources.PaymentTypeFixedPrice

	pkg := createTestPackage(t, customer.ID, "tenant-1", 10)
	f.packages.packages = append(f.packages.packages, pkg)
	require.NoError(t, f.manager.Register(ctx, pkg, date(2017, 1, 15, 0, 0, 0)))

	require.NoError(t, f.service.Run(ctx, date(2017, 2, 1, 2, 0, 0)))

	january, err := f.invoices.FindByPeriod(ctx, customer.ID, invoicing.Period{Year: 2017, Month: 1})
	require.NoError(t, err)
	assert.Equal(t, invoicing.StatePaid, january.State)
}

func TestRolloverService_Run_CurrentMonthUntouched(t *testing.T) {
	f := newRolloverFixture(t)
	ctx := context.Background()
	customer := createTestCustomer(t, f.customers)

	pkg := createTestPackage(t, customer.ID, "tenant-1", 10)
	f.packages.packages = append(f.packages.packages, pkg)
	require.NoError(t, f.manager.Register(ctx, pkg, date(2017, 1, 15, 0, 0, 0)))

	// Still January: nothing rolls over.
	require.NoError(t, f.service.Run(ctx, date(2017, 1, 20, 2, 0, 0)))

	january, err := f.invoices.FindByPeriod(ctx, customer.ID, invoicing.Period{Year: 2017, Month: 1})
	require.NoError(t, err)
	assert.Equal(t, invoicing.StatePending, january.State)
}

func TestRolloverService_Run_CatchesUpSkippedMonths(t *testing.T) {
	f := newRolloverFixture(t)
	ctx := context.Background()
	customer := createTestCustomer(t, f.customers)

	pkg := createTestPackage(t, customer.ID, "tenant-1", 10)
	f.packages.packages = append(f.packages.packages, pkg)
	require.NoError(t, f.manager.Register(ctx, pkg, date(2017, 1, 15, 0, 0, 0)))

	// The trigger was down during February; the March run still freezes
	// January and seeds February.
	require.NoError(t, f.service.Run(ctx, date(2017, 3, 1, 2, 0, 0)))

	january, err := f.invoices.FindByPeriod(ctx, customer.ID, invoicing.Period{Year: 2017, Month: 1})
	require.NoError(t, err)
	assert.Equal(t, invoicing.StateCreated, january.State)

	february, err := f.invoices.FindByPeriod(ctx, customer.ID, invoicing.Period{Year: 2017, Month: 2})
	require.NoError(t, err)
	assert.Equal(t, invoicing.StatePending, february.State)

	// A second run freezes February in turn and seeds March.
	require.NoError(t, f.service.Run(ctx, date(2017, 3, 1, 3, 0, 0)))

	february, err = f.invoices.FindByPeriod(ctx, customer.ID, invoicing.Period{Year: 2017, Month: 2})
	require.NoError(t, err)
	assert.Equal(t, invoicing.StateCreated, february.State)

	march, err := f.invoices.FindByPeriod(ctx, customer.ID, invoicing.Period{Year: 2017, Month: 3})
	require.NoError(t, err)
	assert.Equal(t, invoicing.StatePending, march.State)
}

func TestRolloverService_Propagate_NonPendingFails(t *testing.T) {
	f := newRolloverFixture(t)
	ctx := context.Background()
	customer := createTestCustomer(t, f.customers)

	invoice, _, err := f.invoices.GetOrCreate(ctx, customer.ID, invoicing.Period{Year: 2017, Month: 1}, customer.TaxPercent)
	require.NoError(t, err)
	require.NoError(t, invoice.SetCreated(date(2017, 2, 1, 2, 0, 0), false))

	err = f.service.Propagate(ctx, invoice, date(2017, 2, 1, 3, 0, 0))
	assert.ErrorIs(t, err, invoicing.ErrIncorrectState)
}

func TestRolloverService_Run_ReportsFailures(t *testing.T) {
	f := newRolloverFixture(t)
	ctx := context.Background()

	// An invoice whose customer is gone cannot be propagated; the run
	// finishes the rest and reports the failure.
	orphan := createTestCustomer(t, f.customers)
	_, _, err := f.invoices.GetOrCreate(ctx, orphan.ID, invoicing.Period{Year: 2017, Month: 1}, orphan.TaxPercent)
	require.NoError(t, err)
	delete(f.customers.customers, orphan.ID)

	healthy := createTestCustomer(t, f.customers)
	_, _, err = f.invoices.GetOrCreate(ctx, healthy.ID, invoicing.Period{Year: 2017, Month: 1}, healthy.TaxPercent)
	require.NoError(t, err)

	err = f.service.Run(ctx, date(2017, 2, 1, 2, 0, 0))
	assert.Error(t, err)

	invoice, err := f.invoices.FindByPeriod(ctx, healthy.ID, invoicing.Period{Year: 2017, Month: 1})
	require.NoError(t, err)
	assert.Equal(t, invoicing.StateCreated, invoice.State)
}
