// Package ledger shapes a simulation run into the persisted JSON document
// consumed by the dashboard, merging budget items preserved from prior
// runs.
package ledger

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
)

// DateFormat is the ISO-8601 calendar-date layout used throughout the
// document. No time component.
const DateFormat = "2006-01-02"

// Document is the full persisted snapshot of one run.
type Document struct {
	Metadata     Metadata          `json:"metadata"`
	BalanceData  []BalancePoint    `json:"balance_data"`
	Transactions []TransactionRow  `json:"transactions"`
	BankData     []BankRow         `json:"bank_data"`
	Budget       []json.RawMessage `json:"budget"`
	Banks        []BankSummary     `json:"banks"`
}

// Metadata summarizes the run that produced the document. EndDate is the
// last date the simulation actually covered, which a stop rule may pull
// in earlier than the requested boundary.
type Metadata struct {
	RunID               string  `json:"run_id"`
	StartDate           string  `json:"start_date"`
	EndDate             string  `json:"end_date"`
	StartingBalance     float64 `json:"starting_balance"`
	FinalBalance        float64 `json:"final_balance"`
	OpeningBalanceTotal float64 `json:"opening_balance_total"`
	AccountCount        int     `json:"account_count"`
}

// BalancePoint is one entry in the sparse total-balance series.
type BalancePoint struct {
	Date    string  `json:"date"`
	Balance float64 `json:"balance"`
}

// TransactionRow is one ledger event.
type TransactionRow struct {
	Date    string  `json:"date"`
	Name    string  `json:"name"`
	Amount  float64 `json:"amount"`
	Balance float64 `json:"balance"`
	Type    string  `json:"type"`
}

// BankRow is a per-account balance observation taken at a monthly
// interest accrual.
type BankRow struct {
	Date         string  `json:"date"`
	Bank         string  `json:"bank"`
	Balance      float64 `json:"balance"`
	InterestRate float64 `json:"interest_rate"`
	InterestType string  `json:"interest_type"`
	Interest     float64 `json:"interest"`
}

// BankSummary is one configured account with its post-run balance.
type BankSummary struct {
	ID           int64   `json:"id"`
	Name         string  `json:"name"`
	Balance      float64 `json:"balance"`
	InterestRate float64 `json:"interest_rate"`
	InterestType string  `json:"interest_type"`
}

// BudgetItem is the shape of the auto-generated interest entries this
// tool synthesizes. User-created budget items are never decoded into this
// type; they round-trip as raw JSON.
type BudgetItem struct {
	ID              int64   `json:"id"`
	Name            string  `json:"name"`
	Amount          float64 `json:"amount"`
	Type            string  `json:"type"`
	StartDate       string  `json:"startDate"`
	EndDate         string  `json:"endDate,omitempty"`
	IsAutoGenerated bool    `json:"isAutoGenerated"`
	LinkedBankID    int64   `json:"linkedBankId,omitempty"`
}

// budgetProbe peeks at the fields merging cares about without disturbing
// the rest of a raw budget item.
type budgetProbe struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// CorruptError marks a document that exists but cannot be parsed. Callers
// recover to empty prior state either way, but can warn on this one.
type CorruptError struct {
	Path string
	Err  error
}

func (e *CorruptError) Error() string {
	return fmt.Sprintf("document %s is corrupt: %v", e.Path, e.Err)
}

func (e *CorruptError) Unwrap() error { return e.Err }

// Load reads a previously exported document. A missing file returns an
// error satisfying errors.Is(err, fs.ErrNotExist); an unparseable file
// returns a *CorruptError. Both mean "no usable prior state".
func Load(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("loading document: %w", err)
	}
	if err != nil {
		return nil, fmt.Errorf("loading document %s: %w", path, err)
	}

	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, &CorruptError{Path: path, Err: err}
	}
	return &doc, nil
}
