package invoicing

import (
	"context"
	"testing"

	"github.com/cloudbroker/backend/internal/domain/invoicing"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestResourceEventHandler_CreatedRegisters(t *testing.T) {
	f := newManagerFixture(t)
	ctx := context.Background()
	customer := createTestCustomer(t, f.customers)

	pkg := createTestPackage(t, customer.ID, "tenant-1", 10)
	f.packages.packages = append(f.packages.packages, pkg)

	handler := NewResourceEventHandler(f.manager, zap.NewNop())
	occurredAt := date(2017, 1, 5, 10, 0, 0)
	require.NoError(t, handler.Handle(ctx, NewResourceCreated(pkg, occurredAt)))

	invoice, err := f.invoices.FindByPeriod(ctx, customer.ID, invoicing.Period{Year: 2017, Month: 1})
	require.NoError(t, err)
	require.Len(t, invoice.Items, 1)
	assert.Equal(t, occurredAt, invoice.Items[0].Start)
}

func TestResourceEventHandler_DeletedTerminates(t *testing.T) {
	f := newManagerFixture(t)
	ctx := context.Background()
	customer := createTestCustomer(t, f.customers)

	pkg := createTestPackage(t, customer.ID, "tenant-1", 10)
	f.packages.packages = append(f.packages.packages, pkg)

	handler := NewResourceEventHandler(f.manager, zap.NewNop())
	require.NoError(t, handler.Handle(ctx, NewResourceCreated(pkg, date(2017, 1, 5, 10, 0, 0))))

	deletedAt := date(2017, 1, 20, 16, 0, 0)
	pkg.Terminate(deletedAt)
	require.NoError(t, handler.Handle(ctx, NewResourceDeleted(pkg, deletedAt)))

	invoice, err := f.invoices.FindByPeriod(ctx, customer.ID, invoicing.Period{Year: 2017, Month: 1})
	require.NoError(t, err)
	require.Len(t, invoice.Items, 1)
	assert.Nil(t, invoice.Items[0].ResourceID)
	assert.Equal(t, deletedAt, invoice.Items[0].End)
}

func TestResourceEventHandler_UnknownEventType(t *testing.T) {
	f := newManagerFixture(t)
	handler := NewResourceEventHandler(f.manager, zap.NewNop())

	pkg := createTestPackage(t, createTestCustomer(t, f.customers).ID, "tenant-1", 10)
	err := handler.Handle(context.Background(), ResourceEvent{Type: "resource.renamed", Source: pkg})
	assert.Error(t, err)
}

func TestResourceEventHandler_MissingSource(t *testing.T) {
	f := newManagerFixture(t)
	handler := NewResourceEventHandler(f.manager, zap.NewNop())

	err := handler.Handle(context.Background(), ResourceEvent{Type: EventTypeResourceCreated})
	assert.Error(t, err)

	assert.Equal(t, []string{EventTypeResourceCreated, EventTypeResourceDeleted}, handler.EventTypes())
}
