// Package interest computes monthly interest accruals.
//
// Monthly is a pure function: it never mutates the account. Applying the
// returned amount to the account's current balance belongs to the
// simulation loop, which does so exactly once per calendar month, on the
// first day.
package interest

import (
	"fmt"
	"math"

	"github.com/shopspring/decimal"

	"github.com/cashcast-dev/cashcast/internal/model"
)

// Monthly returns the interest amount one monthly accrual adds to the
// account.
//
// Compound accounts earn currentBalance * ((1+rate)^(1/12) - 1), the true
// monthly increment of the annual nominal rate. Simple accounts earn
// openingBalance * rate / 12: always off the opening balance, so accrued
// interest never earns further simple interest.
//
// A zero rate and a negative balance are both fine; interest on a negative
// balance is negative. An unknown policy is a configuration error.
func Monthly(account *model.Account) (decimal.Decimal, error) {
	switch account.Policy {
	case model.AccrualCompound:
		return account.CurrentBalance.Mul(monthlyCompoundFactor(account.InterestRate)), nil
	case model.AccrualSimple:
		return account.OpeningBalance.Mul(account.InterestRate).Div(decimal.NewFromInt(12)), nil
	default:
		return decimal.Zero, fmt.Errorf("account %q: unknown accrual policy %q", account.Name, account.Policy)
	}
}

// monthlyCompoundFactor returns (1+rate)^(1/12) - 1. The fractional
// exponent goes through float64; rates come from configuration as floats
// anyway and the result feeds a decimal multiply.
func monthlyCompoundFactor(rate decimal.Decimal) decimal.Decimal {
	annual := rate.InexactFloat64()
	return decimal.NewFromFloat(math.Pow(1+annual, 1.0/12.0) - 1)
}
