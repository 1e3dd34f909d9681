package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Direction classifies a transaction by the sign of its amount.
type Direction string

const (
	DirectionIncome  Direction = "income"
	DirectionExpense Direction = "expense"
)

// DirectionOf returns income for positive amounts, expense otherwise.
func DirectionOf(amount decimal.Decimal) Direction {
	if amount.IsPositive() {
		return DirectionIncome
	}
	return DirectionExpense
}

// Transaction is one firing cash-flow or interest event. Balance is the
// running total across all accounts after the event was applied, so the
// sequence of balances depends on the per-date event order.
type Transaction struct {
	Date      time.Time
	Name      string
	Amount    decimal.Decimal
	Balance   decimal.Decimal
	Direction Direction
}

// BalanceSnapshot is a point-in-time total-balance observation. The loop
// records one at simulation start and one per date with at least one
// firing event.
type BalanceSnapshot struct {
	Date    time.Time
	Balance decimal.Decimal
}

// AccountObservation records one account's balance right after a monthly
// interest accrual, together with the interest amount applied.
type AccountObservation struct {
	Date     time.Time
	Account  string
	Balance  decimal.Decimal
	Rate     decimal.Decimal
	Policy   AccrualPolicy
	Interest decimal.Decimal
}
