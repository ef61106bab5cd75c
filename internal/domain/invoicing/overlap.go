package invoicing

import (
	"time"

	"github.com/shopspring/decimal"
)

// ResolveOverlap adjudicates a calendar day contested between an
// existing item and a new item for the same logical identity. It is
// applied on the create path when a resource is replaced mid-day: the
// old item's end and the new item's start both want to claim that day.
//
// The contested day is always billed at the higher of the two unit
// prices; the union of the two final intervals covers every day exactly
// once, with no gap and no double charge.
//
//	|- date -| item is used during the date
//	|- **** -| item is used during the day
//	|- ---- -| item was asked to bill the day but is moved off it
//
// If the old item is more expensive, the new item gives way and starts a
// day later:
//
//	|--03.01.2017-|-********-|-*****-|
//	                         |-------|-06.01.2017-|-******-|
//
// If the old item is more expensive and already ends on the month's last
// day, it is stretched to the literal end of that day and the new item
// collapses to zero length. The zero-length item still appears on the
// invoice for traceability and reports a price of zero:
//
//	|--29.01.2017-|-********-|-***31.01.2017***-|
//	                         |----31.01.2017----|
//
// If the old item is cheaper or equal, it gives way instead and its end
// shifts back a day (or collapses when it spans a single day):
//
//	|--03.01.2017-|-********-|-------|
//	                         |-*****-|-06.01.2017-|-******-|
//
// The returned start and end are the interval the new item must be
// created with. When no item contests the day the inputs are returned
// unchanged.
func ResolveOverlap(invoice *Invoice, identity string, unitPrice decimal.Decimal, start, end time.Time) (time.Time, time.Time) {
	overlapping := invoice.OverlappingItem(identity, start)
	if overlapping == nil {
		return start, end
	}

	if overlapping.UnitPrice.GreaterThan(unitPrice) {
		if sameDay(overlapping.End, invoice.Period().End()) {
			overlapping.ExtendToEndOfDay()
			end = start
		} else {
			start = start.AddDate(0, 0, 1)
		}
	} else {
		overlapping.ShiftBackward()
	}

	return start, end
}
