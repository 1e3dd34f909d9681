// Package sim runs the day-stepped balance projection.
//
// The loop advances one calendar day at a time from the start date to the
// end boundary, accrues interest on the first of each month, applies the
// cash flows the schedule resolver says are due, and accumulates the
// ledger. It does no I/O and holds no state between runs, so it can be
// invoked repeatedly with different inputs in one process.
package sim

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/cashcast-dev/cashcast/internal/interest"
	"github.com/cashcast-dev/cashcast/internal/model"
	"github.com/cashcast-dev/cashcast/internal/schedule"
)

// StopRule halts the simulation early. Halt is checked before a day is
// processed; once it reports true, that day and everything after it is
// skipped. The name shows up in logs and run records.
type StopRule struct {
	Name string
	Halt func(date time.Time, total decimal.Decimal) bool
}

// StopAtMonth halts when the cursor enters the given calendar month.
// This reproduces the reference truncation that ends a nominal full-year
// run early.
func StopAtMonth(month time.Month) StopRule {
	return StopRule{
		Name: "stop-at-month-" + month.String(),
		Halt: func(date time.Time, _ decimal.Decimal) bool {
			return date.Month() == month
		},
	}
}

// StopWhenNonPositive halts once the running total has been exhausted.
func StopWhenNonPositive() StopRule {
	return StopRule{
		Name: "stop-when-non-positive",
		Halt: func(_ time.Time, total decimal.Decimal) bool {
			return !total.IsPositive()
		},
	}
}

// Params are the inputs to one simulation run. Accounts are mutated in
// place (interest accruals move their current balances).
type Params struct {
	Accounts      []*model.Account
	MonthlyFlows  []model.MonthlyFlow
	DailyFlows    []model.DailyFlow
	OneOffFlows   []model.OneOffFlow
	StartingTotal decimal.Decimal
	StartDate     time.Time
	EndDate       time.Time // last date the loop may consider
	StopRules     []StopRule
}

// Result is the ledger accumulated by one run.
type Result struct {
	Transactions []model.Transaction
	Snapshots    []model.BalanceSnapshot
	Observations []model.AccountObservation
	FinalTotal   decimal.Decimal
	LastDate     time.Time // last date actually simulated; zero if none
	StoppedBy    string    // name of the rule that halted the run, if any
}

// Run executes the simulation. An end boundary before the start date
// yields an empty result with FinalTotal equal to the starting total; the
// only error condition is an account with an unrecognized accrual policy.
func Run(p Params) (*Result, error) {
	total := p.StartingTotal
	res := &Result{FinalTotal: total}

	cursor := dateOnly(p.StartDate)
	end := dateOnly(p.EndDate)
	if cursor.After(end) {
		return res, nil
	}

	res.Snapshots = append(res.Snapshots, model.BalanceSnapshot{Date: cursor, Balance: total})

	for !cursor.After(end) {
		if rule, halted := halted(p.StopRules, cursor, total); halted {
			res.StoppedBy = rule
			break
		}

		var events []schedule.Event

		// Interest accrues first on the first of the month, one event
		// per account, in account declaration order.
		if cursor.Day() == 1 {
			for _, account := range p.Accounts {
				amount, err := interest.Monthly(account)
				if err != nil {
					return nil, err
				}
				account.Credit(amount)
				events = append(events, schedule.Event{Name: account.InterestName(), Amount: amount})
				res.Observations = append(res.Observations, model.AccountObservation{
					Date:     cursor,
					Account:  account.Name,
					Balance:  account.CurrentBalance,
					Rate:     account.InterestRate,
					Policy:   account.Policy,
					Interest: amount,
				})
			}
		}

		events = append(events, schedule.DueEvents(cursor, p.MonthlyFlows, p.DailyFlows, p.OneOffFlows)...)

		if len(events) > 0 {
			for _, event := range events {
				total = total.Add(event.Amount)
				res.Transactions = append(res.Transactions, model.Transaction{
					Date:      cursor,
					Name:      event.Name,
					Amount:    event.Amount,
					Balance:   total,
					Direction: model.DirectionOf(event.Amount),
				})
			}
			res.Snapshots = append(res.Snapshots, model.BalanceSnapshot{Date: cursor, Balance: total})
		}

		res.LastDate = cursor
		cursor = cursor.AddDate(0, 0, 1)
	}

	res.FinalTotal = total
	return res, nil
}

func halted(rules []StopRule, date time.Time, total decimal.Decimal) (string, bool) {
	for _, rule := range rules {
		if rule.Halt(date, total) {
			return rule.Name, true
		}
	}
	return "", false
}

func dateOnly(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
