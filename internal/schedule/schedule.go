// Package schedule decides which configured cash flows are due on a date.
package schedule

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/cashcast-dev/cashcast/internal/model"
)

// Event is one due cash flow: a name and a signed amount.
type Event struct {
	Name   string
	Amount decimal.Decimal
}

// DueEvents returns the flows due on date, in the deterministic order
// monthly, then daily, then one-off, each group in declaration order.
// Interest events are not the resolver's concern; the simulation loop
// prepends them on the first of the month.
//
// A monthly flow whose day-of-month exceeds the length of the current
// month never fires that month. A one-off flow fires on exact
// calendar-date equality, ignoring time of day.
func DueEvents(date time.Time, monthly []model.MonthlyFlow, daily []model.DailyFlow, oneOff []model.OneOffFlow) []Event {
	var events []Event

	for _, f := range monthly {
		if date.Day() == f.DayOfMonth {
			events = append(events, Event{Name: f.Name, Amount: f.Amount})
		}
	}

	for _, f := range daily {
		events = append(events, Event{Name: f.Name, Amount: f.Amount})
	}

	for _, f := range oneOff {
		if SameDate(date, f.Date) {
			events = append(events, Event{Name: f.Name, Amount: f.Amount})
		}
	}

	return events
}

// SameDate reports calendar-date equality, ignoring time of day and
// location wall-clock offsets.
func SameDate(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}
