package invoicing

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func createTestInvoice(t *testing.T) *Invoice {
	invoice, err := NewInvoice(uuid.New(), Period{Year: 2017, Month: 1}, decimal.NewFromInt(20))
	require.NoError(t, err)
	return invoice
}

func addTestItem(t *testing.T, invoice *Invoice, identity string, unitPrice int64, start, end time.Time) *InvoiceItem {
	item, err := NewInvoiceItem(invoice.ID, "tenant-package", uuid.New(), identity,
		identity, UnitPerDay, decimal.NewFromInt(unitPrice), start, end)
	require.NoError(t, err)
	invoice.AddItem(item)
	return item
}

// ============================================
// State Tests
// ============================================

func TestState_IsValid(t *testing.T) {
	tests := []struct {
		state   State
		isValid bool
	}{
		{StatePending, true},
		{StateCreated, true},
		{StatePaid, true},
		{StateCanceled, true},
		{State("draft"), false},
		{State(""), false},
	}

	for _, tt := range tests {
		t.Run(string(tt.state), func(t *testing.T) {
			assert.Equal(t, tt.isValid, tt.state.IsValid())
		})
	}
}

func TestState_IsTerminal(t *testing.T) {
	tests := []struct {
		state      State
		isTerminal bool
	}{
		{StatePending, false},
		{StateCreated, false},
		{StatePaid, true},
		{StateCanceled, true},
	}

	for _, tt := range tests {
		t.Run(string(tt.state), func(t *testing.T) {
			assert.Equal(t, tt.isTerminal, tt.state.IsTerminal())
		})
	}
}

// ============================================
// Invoice Tests
// ============================================

func TestNewInvoice(t *testing.T) {
	customerID := uuid.New()
	invoice, err := NewInvoice(customerID, Period{Year: 2017, Month: 1}, decimal.NewFromInt(20))
	require.NoError(t, err)

	assert.Equal(t, customerID, invoice.CustomerID)
	assert.Equal(t, StatePending, invoice.State)
	assert.Equal(t, Period{Year: 2017, Month: 1}, invoice.Period())
	assert.Nil(t, invoice.InvoiceDate)
	assert.Empty(t, invoice.Items)
}

func TestNewInvoice_Validation(t *testing.T) {
	tests := []struct {
		name       string
		customerID uuid.UUID
		period     Period
		taxPercent decimal.Decimal
	}{
		{"nil customer", uuid.Nil, Period{Year: 2017, Month: 1}, decimal.NewFromInt(20)},
		{"invalid period", uuid.New(), Period{Year: 2017, Month: 13}, decimal.NewFromInt(20)},
		{"negative tax", uuid.New(), Period{Year: 2017, Month: 1}, decimal.NewFromInt(-1)},
		{"tax above 100", uuid.New(), Period{Year: 2017, Month: 1}, decimal.NewFromInt(101)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewInvoice(tt.customerID, tt.period, tt.taxPercent)
			assert.Error(t, err)
		})
	}
}

func TestInvoice_Number(t *testing.T) {
	invoice := createTestInvoice(t)
	invoice.Sequence = 42
	assert.Equal(t, int64(100042), invoice.Number())
}

func TestInvoice_Totals(t *testing.T) {
	invoice := createTestInvoice(t)
	addTestItem(t, invoice, "tenant-1", 10, date(2017, 1, 1, 0, 0, 0), date(2017, 1, 11, 0, 0, 0))  // 100
	addTestItem(t, invoice, "tenant-2", 5, date(2017, 1, 1, 0, 0, 0), date(2017, 1, 21, 0, 0, 0))   // 100

	assert.True(t, decimal.NewFromInt(200).Equal(invoice.Price()), "got %s", invoice.Price())
	assert.True(t, decimal.NewFromInt(40).Equal(invoice.Tax()), "got %s", invoice.Tax())
	assert.True(t, decimal.NewFromInt(240).Equal(invoice.Total()), "got %s", invoice.Total())
}

func TestInvoice_CurrentTotals(t *testing.T) {
	invoice := createTestInvoice(t)
	addTestItem(t, invoice, "tenant-1", 10, date(2017, 1, 1, 0, 0, 0), date(2017, 1, 31, 23, 59, 59))

	now := date(2017, 1, 11, 0, 0, 0)
	assert.True(t, decimal.NewFromInt(100).Equal(invoice.PriceCurrent(now)))
	assert.True(t, decimal.NewFromInt(20).Equal(invoice.TaxCurrent(now)))
	assert.True(t, decimal.NewFromInt(120).Equal(invoice.TotalCurrent(now)))
}

func TestInvoice_DueDate(t *testing.T) {
	invoice := createTestInvoice(t)
	assert.Nil(t, invoice.DueDate(30), "pending invoice has no due date")

	require.NoError(t, invoice.SetCreated(date(2017, 2, 1, 2, 0, 0), false))
	due := invoice.DueDate(30)
	require.NotNil(t, due)
	assert.Equal(t, date(2017, 3, 3, 2, 0, 0), *due)
}

func TestInvoice_OpenItemForResource(t *testing.T) {
	invoice := createTestInvoice(t)
	item := addTestItem(t, invoice, "tenant-1", 10, date(2017, 1, 1, 0, 0, 0), date(2017, 1, 31, 23, 59, 59))

	found := invoice.OpenItemForResource(*item.ResourceID)
	assert.Same(t, item, found)
	assert.Nil(t, invoice.OpenItemForResource(uuid.New()))
}

func TestInvoice_OverlappingItem(t *testing.T) {
	invoice := createTestInvoice(t)
	item := addTestItem(t, invoice, "tenant-1", 10, date(2017, 1, 1, 0, 0, 0), date(2017, 1, 15, 14, 0, 0))

	// Same identity, end on the queried day.
	found := invoice.OverlappingItem("tenant-1", date(2017, 1, 15, 9, 0, 0))
	assert.Same(t, item, found)

	// Different identity or different day: no match.
	assert.Nil(t, invoice.OverlappingItem("tenant-2", date(2017, 1, 15, 9, 0, 0)))
	assert.Nil(t, invoice.OverlappingItem("tenant-1", date(2017, 1, 16, 9, 0, 0)))
}

func TestInvoice_OverlappingItem_PrefersHighestPrice(t *testing.T) {
	invoice := createTestInvoice(t)
	addTestItem(t, invoice, "tenant-1", 5, date(2017, 1, 1, 0, 0, 0), date(2017, 1, 15, 10, 0, 0))
	expensive := addTestItem(t, invoice, "tenant-1", 20, date(2017, 1, 10, 0, 0, 0), date(2017, 1, 15, 12, 0, 0))
	addTestItem(t, invoice, "tenant-1", 10, date(2017, 1, 12, 0, 0, 0), date(2017, 1, 15, 14, 0, 0))

	found := invoice.OverlappingItem("tenant-1", date(2017, 1, 15, 16, 0, 0))
	assert.Same(t, expensive, found)
}

func TestInvoice_SetCreated(t *testing.T) {
	invoice := createTestInvoice(t)
	item := addTestItem(t, invoice, "tenant-1", 10, date(2017, 1, 1, 0, 0, 0), date(2017, 1, 31, 23, 59, 59))
	item.Details = ItemDetails{ResourceName: "tenant-1"}

	now := date(2017, 2, 1, 2, 0, 0)
	require.NoError(t, invoice.SetCreated(now, false))

	assert.Equal(t, StateCreated, invoice.State)
	require.NotNil(t, invoice.InvoiceDate)
	assert.Equal(t, now, *invoice.InvoiceDate)
	assert.Equal(t, "tenant-1", item.Details.ResourceName)
}

func TestInvoice_SetCreated_FixedPriceGoesStraightToPaid(t *testing.T) {
	invoice := createTestInvoice(t)

	require.NoError(t, invoice.SetCreated(date(2017, 2, 1, 2, 0, 0), true))

	assert.Equal(t, StatePaid, invoice.State)
}

func TestInvoice_SetCreated_OnlyFromPending(t *testing.T) {
	invoice := createTestInvoice(t)
	require.NoError(t, invoice.SetCreated(date(2017, 2, 1, 2, 0, 0), false))

	err := invoice.SetCreated(date(2017, 2, 1, 3, 0, 0), false)
	assert.ErrorIs(t, err, ErrIncorrectState)
}

func TestInvoice_MarkPaid(t *testing.T) {
	invoice := createTestInvoice(t)

	// Not allowed while pending.
	assert.ErrorIs(t, invoice.MarkPaid(), ErrIncorrectState)

	require.NoError(t, invoice.SetCreated(date(2017, 2, 1, 2, 0, 0), false))
	require.NoError(t, invoice.MarkPaid())
	assert.Equal(t, StatePaid, invoice.State)

	// Terminal: no further transitions.
	assert.ErrorIs(t, invoice.MarkPaid(), ErrIncorrectState)
	assert.ErrorIs(t, invoice.Cancel(), ErrIncorrectState)
}

func TestInvoice_Cancel(t *testing.T) {
	invoice := createTestInvoice(t)
	require.NoError(t, invoice.SetCreated(date(2017, 2, 1, 2, 0, 0), false))

	require.NoError(t, invoice.Cancel())
	assert.Equal(t, StateCanceled, invoice.State)
	assert.ErrorIs(t, invoice.MarkPaid(), ErrIncorrectState)
}
