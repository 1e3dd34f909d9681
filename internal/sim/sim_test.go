package sim

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cashcast-dev/cashcast/internal/model"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func TestRun_NothingConfigured(t *testing.T) {
	res, err := Run(Params{
		StartingTotal: dec("1000"),
		StartDate:     date(2025, time.January, 2),
		EndDate:       date(2025, time.December, 31),
	})
	require.NoError(t, err)

	assert.Empty(t, res.Transactions)
	assert.True(t, res.FinalTotal.Equal(dec("1000")))
	// Only the initial snapshot: no event ever fired.
	require.Len(t, res.Snapshots, 1)
	assert.True(t, res.Snapshots[0].Balance.Equal(dec("1000")))
}

func TestRun_EndBeforeStart(t *testing.T) {
	res, err := Run(Params{
		StartingTotal: dec("750"),
		StartDate:     date(2025, time.June, 1),
		EndDate:       date(2025, time.May, 1),
	})
	require.NoError(t, err)

	assert.Empty(t, res.Transactions)
	assert.Empty(t, res.Snapshots)
	assert.True(t, res.FinalTotal.Equal(dec("750")))
	assert.True(t, res.LastDate.IsZero())
}

func TestRun_MonthlyRent(t *testing.T) {
	res, err := Run(Params{
		MonthlyFlows:  []model.MonthlyFlow{{Name: "rent", Amount: dec("-500"), DayOfMonth: 1}},
		StartingTotal: dec("1000"),
		StartDate:     date(2025, time.January, 1),
		EndDate:       date(2025, time.January, 31),
	})
	require.NoError(t, err)

	require.Len(t, res.Transactions, 1)
	txn := res.Transactions[0]
	assert.Equal(t, "rent", txn.Name)
	assert.True(t, txn.Amount.Equal(dec("-500")))
	assert.True(t, txn.Balance.Equal(dec("500")))
	assert.Equal(t, model.DirectionExpense, txn.Direction)
	assert.True(t, res.FinalTotal.Equal(dec("500")))
}

func TestRun_CompoundInterestOneYear(t *testing.T) {
	account := model.NewAccount("growth", dec("1000"), decimal.NewFromFloat(0.12), model.AccrualCompound)

	res, err := Run(Params{
		Accounts:      []*model.Account{account},
		StartingTotal: dec("1000"),
		StartDate:     date(2025, time.January, 1),
		EndDate:       date(2025, time.December, 31),
	})
	require.NoError(t, err)

	// Twelve accruals, one per first-of-month.
	require.Len(t, res.Observations, 12)
	assert.InDelta(t, 1120.00, account.CurrentBalance.InexactFloat64(), 0.01)
	assert.InDelta(t, 1120.00, res.FinalTotal.InexactFloat64(), 0.01)
}

func TestRun_SimpleInterestIsFlat(t *testing.T) {
	account := model.NewAccount("savings", dec("1200"), decimal.NewFromFloat(0.12), model.AccrualSimple)

	res, err := Run(Params{
		Accounts:      []*model.Account{account},
		StartingTotal: dec("1200"),
		StartDate:     date(2025, time.January, 1),
		EndDate:       date(2025, time.June, 30),
	})
	require.NoError(t, err)

	require.Len(t, res.Observations, 6)
	for _, obs := range res.Observations {
		assert.True(t, obs.Interest.Equal(dec("12")), "on %s: %s", obs.Date, obs.Interest)
	}
	assert.True(t, account.CurrentBalance.Equal(dec("1272")))
}

func TestRun_InterestOnlyOnFirstOfMonth(t *testing.T) {
	account := model.NewAccount("savings", dec("1000"), decimal.NewFromFloat(0.06), model.AccrualSimple)

	res, err := Run(Params{
		Accounts:      []*model.Account{account},
		StartingTotal: dec("1000"),
		StartDate:     date(2025, time.January, 2),
		EndDate:       date(2025, time.January, 31),
	})
	require.NoError(t, err)

	assert.Empty(t, res.Observations, "no first-of-month in range, no accrual")
	assert.True(t, account.CurrentBalance.Equal(dec("1000")))
}

func TestRun_EventOrderOnSharedDate(t *testing.T) {
	account := model.NewAccount("BOK", dec("1000"), decimal.NewFromFloat(0.12), model.AccrualSimple)

	res, err := Run(Params{
		Accounts:      []*model.Account{account},
		MonthlyFlows:  []model.MonthlyFlow{{Name: "rent", Amount: dec("-500"), DayOfMonth: 1}},
		DailyFlows:    []model.DailyFlow{{Name: "food", Amount: dec("-15")}},
		OneOffFlows:   []model.OneOffFlow{{Name: "club_fees", Amount: dec("-100"), Date: date(2025, time.September, 1)}},
		StartingTotal: dec("1000"),
		StartDate:     date(2025, time.September, 1),
		EndDate:       date(2025, time.September, 1),
	})
	require.NoError(t, err)

	require.Len(t, res.Transactions, 4)
	assert.Equal(t, "BOK Interest", res.Transactions[0].Name)
	assert.Equal(t, "rent", res.Transactions[1].Name)
	assert.Equal(t, "food", res.Transactions[2].Name)
	assert.Equal(t, "club_fees", res.Transactions[3].Name)

	// Each recorded balance is the running total after that event.
	assert.True(t, res.Transactions[0].Balance.Equal(dec("1010")))
	assert.True(t, res.Transactions[1].Balance.Equal(dec("510")))
	assert.True(t, res.Transactions[2].Balance.Equal(dec("495")))
	assert.True(t, res.Transactions[3].Balance.Equal(dec("395")))

	// One initial snapshot plus one for the single event date.
	require.Len(t, res.Snapshots, 2)
	assert.True(t, res.Snapshots[1].Balance.Equal(dec("395")))
}

func TestRun_SnapshotsAreSparse(t *testing.T) {
	res, err := Run(Params{
		MonthlyFlows:  []model.MonthlyFlow{{Name: "rent", Amount: dec("-500"), DayOfMonth: 5}},
		StartingTotal: dec("2000"),
		StartDate:     date(2025, time.January, 2),
		EndDate:       date(2025, time.March, 31),
	})
	require.NoError(t, err)

	// Initial snapshot plus one per firing date (Jan 5, Feb 5, Mar 5),
	// nothing for the quiet days in between.
	require.Len(t, res.Snapshots, 4)
	assert.Equal(t, date(2025, time.January, 5), res.Snapshots[1].Date)
	assert.Equal(t, date(2025, time.February, 5), res.Snapshots[2].Date)
	assert.Equal(t, date(2025, time.March, 5), res.Snapshots[3].Date)
}

func TestRun_OneOffFiresOnceAcrossStartDates(t *testing.T) {
	target := date(2025, time.June, 15)

	for _, start := range []time.Time{date(2025, time.June, 2), date(2025, time.May, 20), date(2025, time.June, 15)} {
		res, err := Run(Params{
			OneOffFlows:   []model.OneOffFlow{{Name: "world_cup", Amount: dec("-1500"), Date: target}},
			StartingTotal: dec("5000"),
			StartDate:     start,
			EndDate:       date(2025, time.December, 31),
		})
		require.NoError(t, err)
		require.Len(t, res.Transactions, 1, "start %s", start)
		assert.Equal(t, target, res.Transactions[0].Date)
	}
}

func TestRun_StopAtMonth(t *testing.T) {
	res, err := Run(Params{
		MonthlyFlows:  []model.MonthlyFlow{{Name: "rent", Amount: dec("-500"), DayOfMonth: 1}},
		StartingTotal: dec("10000"),
		StartDate:     date(2025, time.January, 2),
		EndDate:       date(2025, time.December, 31),
		StopRules:     []StopRule{StopAtMonth(time.July)},
	})
	require.NoError(t, err)

	// Fires Feb..Jun; July 1 is never processed.
	require.Len(t, res.Transactions, 5)
	assert.Equal(t, "stop-at-month-July", res.StoppedBy)
	assert.Equal(t, date(2025, time.June, 30), res.LastDate)
	assert.True(t, res.FinalTotal.Equal(dec("7500")))
}

func TestRun_StopWhenNonPositive(t *testing.T) {
	res, err := Run(Params{
		DailyFlows:    []model.DailyFlow{{Name: "burn", Amount: dec("-100")}},
		StartingTotal: dec("250"),
		StartDate:     date(2025, time.March, 10),
		EndDate:       date(2025, time.December, 31),
		StopRules:     []StopRule{StopWhenNonPositive()},
	})
	require.NoError(t, err)

	// 250 -> 150 -> 50 -> -50, halting before the next day runs.
	require.Len(t, res.Transactions, 3)
	assert.Equal(t, "stop-when-non-positive", res.StoppedBy)
	assert.True(t, res.FinalTotal.Equal(dec("-50")))
}

func TestRun_UnknownPolicySurfaces(t *testing.T) {
	account := model.NewAccount("bad", dec("100"), decimal.NewFromFloat(0.01), model.AccrualPolicy("weekly"))

	_, err := Run(Params{
		Accounts:      []*model.Account{account},
		StartingTotal: dec("100"),
		StartDate:     date(2025, time.April, 1),
		EndDate:       date(2025, time.April, 30),
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "bad")
}

func TestRun_RerunnableWithFreshInputs(t *testing.T) {
	run := func() decimal.Decimal {
		account := model.NewAccount("BOK", dec("5000"), decimal.NewFromFloat(0.001), model.AccrualSimple)
		res, err := Run(Params{
			Accounts:      []*model.Account{account},
			MonthlyFlows:  []model.MonthlyFlow{{Name: "gas", Amount: dec("-120"), DayOfMonth: 1}},
			StartingTotal: dec("5000"),
			StartDate:     date(2025, time.January, 1),
			EndDate:       date(2025, time.December, 31),
		})
		require.NoError(t, err)
		return res.FinalTotal
	}

	first := run()
	second := run()
	assert.True(t, first.Equal(second), "identical inputs must give identical totals")
}
