package invoicing

import (
	"fmt"
	"time"

	"github.com/cloudbroker/backend/internal/domain/shared"
)

// Period identifies one billing month
type Period struct {
	Year  int
	Month int
}

// PeriodOf returns the billing period the given time falls into
func PeriodOf(t time.Time) Period {
	u := t.UTC()
	return Period{Year: u.Year(), Month: int(u.Month())}
}

// Validate checks that the period is well-formed
func (p Period) Validate() error {
	if p.Month < 1 || p.Month > 12 {
		return shared.NewDomainError("INVALID_PERIOD", "Month must be between 1 and 12")
	}
	if p.Year < 1 {
		return shared.NewDomainError("INVALID_PERIOD", "Year must be positive")
	}
	return nil
}

// Next returns the following billing period
func (p Period) Next() Period {
	if p.Month == 12 {
		return Period{Year: p.Year + 1, Month: 1}
	}
	return Period{Year: p.Year, Month: p.Month + 1}
}

// Before reports whether p precedes other
func (p Period) Before(other Period) bool {
	if p.Year != other.Year {
		return p.Year < other.Year
	}
	return p.Month < other.Month
}

// Start returns the first instant of the period in UTC
func (p Period) Start() time.Time {
	return time.Date(p.Year, time.Month(p.Month), 1, 0, 0, 0, 0, time.UTC)
}

// End returns the last billable instant of the period: the last day at 23:59:59 UTC
func (p Period) End() time.Time {
	return p.Start().AddDate(0, 1, 0).Add(-time.Second)
}

// Contains reports whether t falls into the period
func (p Period) Contains(t time.Time) bool {
	return PeriodOf(t) == p
}

// String formats the period as "2017-01"
func (p Period) String() string {
	return fmt.Sprintf("%04d-%02d", p.Year, p.Month)
}

// MonthStart returns the first instant of t's month in UTC
func MonthStart(t time.Time) time.Time {
	return PeriodOf(t).Start()
}

// MonthEnd returns the last billable instant of t's month: last day at 23:59:59 UTC
func MonthEnd(t time.Time) time.Time {
	return PeriodOf(t).End()
}

// endOfDay returns t with the clock moved to 23:59:59
func endOfDay(t time.Time) time.Time {
	u := t.UTC()
	return time.Date(u.Year(), u.Month(), u.Day(), 23, 59, 59, 0, time.UTC)
}

// sameDay reports whether a and b fall on the same UTC calendar day
func sameDay(a, b time.Time) bool {
	au, bu := a.UTC(), b.UTC()
	return au.Year() == bu.Year() && au.Month() == bu.Month() && au.Day() == bu.Day()
}
