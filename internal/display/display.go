// Package display renders simulation input and output for the console.
// Nothing here is part of the durable contract; it only describes what
// the engine did.
package display

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/fatih/color"
	"github.com/shopspring/decimal"

	"github.com/cashcast-dev/cashcast/internal/config"
	"github.com/cashcast-dev/cashcast/internal/model"
)

var (
	green = color.New(color.FgGreen).SprintFunc()
	red   = color.New(color.FgRed).SprintFunc()
)

// money formats an amount with its sign color: green for zero or more,
// red for negative.
func money(d decimal.Decimal) string {
	text := "$" + d.StringFixed(2)
	if d.IsNegative() {
		return red(text)
	}
	return green(text)
}

// Setup prints the configured accounts and flows for verification before
// a run.
func Setup(w io.Writer, cfg *config.Config) {
	fmt.Fprintln(w, "=== CURRENT SETUP ===")
	fmt.Fprintln(w)

	fmt.Fprintln(w, "Accounts:")
	for _, a := range cfg.Accounts {
		fmt.Fprintf(w, "  %s: %s at %s%% (%s)\n",
			a.Name, money(a.OpeningBalance.Decimal),
			a.InterestRate.Mul(decimal.NewFromInt(100)), a.AccrualPolicy)
	}

	fmt.Fprintln(w)
	fmt.Fprintln(w, "Monthly flows:")
	for _, f := range cfg.MonthlyFlows {
		fmt.Fprintf(w, "  %s: %s on day %d\n", f.Name, money(f.Amount.Decimal), f.DayOfMonth)
	}

	fmt.Fprintln(w)
	fmt.Fprintln(w, "Daily flows:")
	for _, f := range cfg.DailyFlows {
		fmt.Fprintf(w, "  %s: %s\n", f.Name, money(f.Amount.Decimal))
	}

	fmt.Fprintln(w)
	fmt.Fprintln(w, "One-off flows:")
	for _, f := range cfg.OneOffFlows {
		fmt.Fprintf(w, "  %s: %s on %s\n", f.Name, money(f.Amount.Decimal), f.Date)
	}

	fmt.Fprintln(w)
	fmt.Fprintln(w, strings.Repeat("=", 50))
	fmt.Fprintln(w)
}

// Event prints one ledger event with the running total after it.
func Event(w io.Writer, txn model.Transaction) {
	fmt.Fprintf(w, "%s - %s: %s - Total: %s\n",
		txn.Date.Format("2006-01-02"), txn.Name, money(txn.Amount), money(txn.Balance))
}

// Summary prints the final total and, when a stop rule truncated the
// run, which one.
func Summary(w io.Writer, final decimal.Decimal, stoppedBy string) {
	fmt.Fprintln(w)
	fmt.Fprintln(w, "=== SIMULATION COMPLETE ===")
	if stoppedBy != "" {
		fmt.Fprintf(w, "Stopped early by rule: %s\n", stoppedBy)
	}
	fmt.Fprintf(w, "Final Total: %s\n", money(final))
}

// PromptTargetYear reads a target year from r, re-prompting until it gets
// an integer no earlier than minYear. It returns an error when input runs
// out first.
func PromptTargetYear(r io.Reader, w io.Writer, minYear int) (int, error) {
	scanner := bufio.NewScanner(r)
	for {
		fmt.Fprint(w, "Enter the year to run until: ")
		if !scanner.Scan() {
			if err := scanner.Err(); err != nil {
				return 0, fmt.Errorf("reading target year: %w", err)
			}
			return 0, fmt.Errorf("no target year provided")
		}
		year, err := strconv.Atoi(strings.TrimSpace(scanner.Text()))
		if err != nil {
			fmt.Fprintln(w, "Please enter a valid year.")
			continue
		}
		if year < minYear {
			fmt.Fprintf(w, "Please enter a year that is %d or later.\n", minYear)
			continue
		}
		return year, nil
	}
}
