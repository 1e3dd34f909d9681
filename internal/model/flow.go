package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// MonthlyFlow fires on a fixed calendar day of every month. If the month
// has fewer days than DayOfMonth, the flow does not fire that month (no
// clamping).
type MonthlyFlow struct {
	Name       string
	Amount     decimal.Decimal // signed: positive = inflow
	DayOfMonth int             // 1..31
}

// DailyFlow fires every day of the simulation.
type DailyFlow struct {
	Name   string
	Amount decimal.Decimal
}

// OneOffFlow fires exactly once, on exact calendar-date equality with
// Date. Time of day is ignored.
type OneOffFlow struct {
	Name   string
	Amount decimal.Decimal
	Date   time.Time
}
