package invoicing

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func date(year int, month time.Month, day, hour, min, sec int) time.Time {
	return time.Date(year, month, day, hour, min, sec, 0, time.UTC)
}

func TestFullDays(t *testing.T) {
	tests := []struct {
		name  string
		start time.Time
		end   time.Time
		want  int64
	}{
		{"one hour rounds up to one day", date(2017, 1, 1, 10, 0, 0), date(2017, 1, 1, 11, 0, 0), 1},
		{"one second rounds up to one day", date(2017, 1, 1, 0, 0, 0), date(2017, 1, 1, 0, 0, 1), 1},
		{"exactly 24 hours is one day", date(2017, 1, 1, 0, 0, 0), date(2017, 1, 2, 0, 0, 0), 1},
		{"24 hours and one second is two days", date(2017, 1, 1, 0, 0, 0), date(2017, 1, 2, 0, 0, 1), 2},
		{"exactly 48 hours is two days", date(2017, 1, 1, 0, 0, 0), date(2017, 1, 3, 0, 0, 0), 2},
		{"zero interval is zero days", date(2017, 1, 1, 0, 0, 0), date(2017, 1, 1, 0, 0, 0), 0},
		{"inverted interval is zero days", date(2017, 1, 2, 0, 0, 0), date(2017, 1, 1, 0, 0, 0), 0},
		{"full january", date(2017, 1, 1, 0, 0, 0), date(2017, 1, 31, 23, 59, 59), 31},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, FullDays(tt.start, tt.end))
		})
	}
}

func TestFullHours(t *testing.T) {
	tests := []struct {
		name  string
		start time.Time
		end   time.Time
		want  int64
	}{
		{"one minute rounds up to one hour", date(2017, 1, 1, 10, 0, 0), date(2017, 1, 1, 10, 1, 0), 1},
		{"exactly one hour", date(2017, 1, 1, 10, 0, 0), date(2017, 1, 1, 11, 0, 0), 1},
		{"90 minutes is two hours", date(2017, 1, 1, 10, 0, 0), date(2017, 1, 1, 11, 30, 0), 2},
		{"zero interval is zero hours", date(2017, 1, 1, 10, 0, 0), date(2017, 1, 1, 10, 0, 0), 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, FullHours(tt.start, tt.end))
		})
	}
}

func TestPriceForPeriod_Daily(t *testing.T) {
	// Resource used from the 15th until the end of a 31-day month:
	// 17 usage days at 10 per day.
	start := date(2017, 1, 15, 0, 0, 0)
	end := date(2017, 1, 31, 23, 59, 59)

	price, err := PriceForPeriod(decimal.NewFromInt(10), UnitPerDay, start, end)
	require.NoError(t, err)
	assert.True(t, decimal.NewFromInt(170).Equal(price), "got %s", price)
}

func TestPriceForPeriod_Hourly(t *testing.T) {
	// Hourly pricing bills 24 units per rounded-up day.
	start := date(2017, 1, 1, 0, 0, 0)
	end := date(2017, 1, 3, 0, 0, 0) // exactly 2 days

	price, err := PriceForPeriod(decimal.NewFromInt(2), UnitPerHour, start, end)
	require.NoError(t, err)
	assert.True(t, decimal.NewFromInt(96).Equal(price), "got %s", price)
}

func TestPriceForPeriod_ZeroInterval(t *testing.T) {
	at := date(2017, 1, 15, 12, 0, 0)

	price, err := PriceForPeriod(decimal.NewFromInt(10), UnitPerDay, at, at)
	require.NoError(t, err)
	assert.True(t, price.IsZero())
}

func TestPriceForPeriod_NegativePrice(t *testing.T) {
	start := date(2017, 1, 1, 0, 0, 0)
	end := date(2017, 1, 2, 0, 0, 0)

	_, err := PriceForPeriod(decimal.NewFromInt(-1), UnitPerDay, start, end)
	assert.ErrorIs(t, err, ErrNegativePrice)
}

func TestPriceForPeriod_InvertedInterval(t *testing.T) {
	start := date(2017, 1, 2, 0, 0, 0)
	end := date(2017, 1, 1, 0, 0, 0)

	_, err := PriceForPeriod(decimal.NewFromInt(1), UnitPerDay, start, end)
	assert.ErrorIs(t, err, ErrInvalidInterval)
}

func TestPriceForPeriod_DecimalPrecision(t *testing.T) {
	// 0.1 per day over 3 days must be exactly 0.3, not a float artifact.
	start := date(2017, 1, 1, 0, 0, 0)
	end := date(2017, 1, 4, 0, 0, 0)

	price, err := PriceForPeriod(decimal.RequireFromString("0.1"), UnitPerDay, start, end)
	require.NoError(t, err)
	assert.True(t, decimal.RequireFromString("0.3").Equal(price), "got %s", price)
}

func TestUnit_IsValid(t *testing.T) {
	tests := []struct {
		unit    Unit
		isValid bool
	}{
		{UnitPerDay, true},
		{UnitPerHour, true},
		{Unit("month"), false},
		{Unit(""), false},
	}

	for _, tt := range tests {
		t.Run(string(tt.unit), func(t *testing.T) {
			assert.Equal(t, tt.isValid, tt.unit.IsValid())
		})
	}
}
