package model

import (
	"github.com/shopspring/decimal"
)

// AccrualPolicy selects how monthly interest is computed for an account.
type AccrualPolicy string

const (
	// AccrualSimple computes interest off the opening balance, always.
	// Accrued interest does not itself earn further interest.
	AccrualSimple AccrualPolicy = "simple"
	// AccrualCompound computes a true monthly-compounding increment off
	// the current balance, derived from the annual nominal rate.
	AccrualCompound AccrualPolicy = "compound"
)

// Valid reports whether the policy is one of the defined constants.
func (p AccrualPolicy) Valid() bool {
	return p == AccrualSimple || p == AccrualCompound
}

// Account is a named balance with an interest rate and accrual policy.
// CurrentBalance starts at OpeningBalance and is mutated only by the
// simulation loop applying monthly interest on the first of each month.
type Account struct {
	Name           string
	OpeningBalance decimal.Decimal
	InterestRate   decimal.Decimal // annual fraction, e.g. 0.036
	Policy         AccrualPolicy
	CurrentBalance decimal.Decimal
}

// NewAccount constructs an account with CurrentBalance set to the opening
// balance.
func NewAccount(name string, opening, rate decimal.Decimal, policy AccrualPolicy) *Account {
	return &Account{
		Name:           name,
		OpeningBalance: opening,
		InterestRate:   rate,
		Policy:         policy,
		CurrentBalance: opening,
	}
}

// Credit adds amount to the current balance.
func (a *Account) Credit(amount decimal.Decimal) {
	a.CurrentBalance = a.CurrentBalance.Add(amount)
}

// InterestName returns the ledger name used for this account's interest
// events, e.g. "BOK Interest". Budget-item merging matches on this name.
func (a *Account) InterestName() string {
	return a.Name + " Interest"
}

// TotalOpeningBalance sums the opening balances of all accounts.
func TotalOpeningBalance(accounts []*Account) decimal.Decimal {
	total := decimal.Zero
	for _, a := range accounts {
		total = total.Add(a.OpeningBalance)
	}
	return total
}
