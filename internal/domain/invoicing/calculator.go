package invoicing

import (
	"time"

	"github.com/cloudbroker/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// Unit is the pricing unit of an invoice item
type Unit string

const (
	UnitPerDay  Unit = "day"
	UnitPerHour Unit = "hour"
)

// IsValid checks if the unit is a valid pricing unit
func (u Unit) IsValid() bool {
	return u == UnitPerDay || u == UnitPerHour
}

// String returns the string representation of the unit
func (u Unit) String() string {
	return string(u)
}

var (
	// ErrNegativePrice is returned when a negative unit price reaches the calculator
	ErrNegativePrice = shared.NewDomainError("NEGATIVE_PRICE", "Unit price cannot be negative")
	// ErrInvalidInterval is returned when end precedes start
	ErrInvalidInterval = shared.NewDomainError("INVALID_INTERVAL", "Interval end cannot precede its start")
)

const (
	secondsInDay  = 24 * 60 * 60
	secondsInHour = 60 * 60
)

// FullDays returns the number of whole days covered by [start, end),
// rounding any positive remainder up. A one hour interval counts as one
// full day; exactly 24 hours also counts as one.
func FullDays(start, end time.Time) int64 {
	seconds := int64(end.Sub(start) / time.Second)
	if seconds <= 0 {
		return 0
	}
	full := seconds / secondsInDay
	if seconds%secondsInDay > 0 {
		full++
	}
	return full
}

// FullHours returns the number of whole hours covered by [start, end),
// rounding any positive remainder up.
func FullHours(start, end time.Time) int64 {
	seconds := int64(end.Sub(start) / time.Second)
	if seconds <= 0 {
		return 0
	}
	full := seconds / secondsInHour
	if seconds%secondsInHour > 0 {
		full++
	}
	return full
}

// PriceForPeriod computes the billable price of one item interval.
// The billable quantity is the rounded-up day count of the interval; for
// hourly pricing the unit price covers one hour, so a day costs 24 units.
// Unit prices and results are decimals so repeated summation cannot drift.
func PriceForPeriod(unitPrice decimal.Decimal, unit Unit, start, end time.Time) (decimal.Decimal, error) {
	if unitPrice.IsNegative() {
		return decimal.Zero, ErrNegativePrice
	}
	if end.Before(start) {
		return decimal.Zero, ErrInvalidInterval
	}

	days := decimal.NewFromInt(FullDays(start, end))
	switch unit {
	case UnitPerHour:
		return unitPrice.Mul(decimal.NewFromInt(24)).Mul(days), nil
	default:
		return unitPrice.Mul(days), nil
	}
}
