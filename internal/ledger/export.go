package ledger

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/shopspring/decimal"

	"github.com/cashcast-dev/cashcast/internal/id"
	"github.com/cashcast-dev/cashcast/internal/interest"
	"github.com/cashcast-dev/cashcast/internal/model"
)

// ExportInput carries one finished run plus the prior document (nil when
// there was none) into BuildDocument.
type ExportInput struct {
	RunID         string
	StartDate     time.Time
	EndDate       time.Time // last date actually simulated
	StartingTotal decimal.Decimal
	FinalTotal    decimal.Decimal
	Accounts      []*model.Account
	Transactions  []model.Transaction
	Snapshots     []model.BalanceSnapshot
	Observations  []model.AccountObservation
	Prior         *Document
}

// BuildDocument assembles the export document.
//
// Every budget item from the prior document is carried through untouched,
// byte-for-byte. For each account, an auto-generated "<name> Interest"
// item is synthesized only when no prior item of that name exists, so
// user edits to an existing interest item survive re-runs. Synthesized
// items get ids above anything already in the document.
func BuildDocument(in ExportInput) (*Document, error) {
	doc := &Document{
		Metadata: Metadata{
			RunID:               in.RunID,
			StartDate:           in.StartDate.Format(DateFormat),
			EndDate:             in.EndDate.Format(DateFormat),
			StartingBalance:     in.StartingTotal.InexactFloat64(),
			FinalBalance:        in.FinalTotal.InexactFloat64(),
			OpeningBalanceTotal: model.TotalOpeningBalance(in.Accounts).InexactFloat64(),
			AccountCount:        len(in.Accounts),
		},
	}

	for _, snap := range in.Snapshots {
		doc.BalanceData = append(doc.BalanceData, BalancePoint{
			Date:    snap.Date.Format(DateFormat),
			Balance: snap.Balance.InexactFloat64(),
		})
	}

	for _, txn := range in.Transactions {
		doc.Transactions = append(doc.Transactions, TransactionRow{
			Date:    txn.Date.Format(DateFormat),
			Name:    txn.Name,
			Amount:  txn.Amount.InexactFloat64(),
			Balance: txn.Balance.InexactFloat64(),
			Type:    string(txn.Direction),
		})
	}

	for _, obs := range in.Observations {
		doc.BankData = append(doc.BankData, BankRow{
			Date:         obs.Date.Format(DateFormat),
			Bank:         obs.Account,
			Balance:      obs.Balance.InexactFloat64(),
			InterestRate: obs.Rate.InexactFloat64(),
			InterestType: string(obs.Policy),
			Interest:     obs.Interest.InexactFloat64(),
		})
	}

	for _, account := range in.Accounts {
		doc.Banks = append(doc.Banks, BankSummary{
			ID:           id.ForAccount(account.Name),
			Name:         account.Name,
			Balance:      account.CurrentBalance.InexactFloat64(),
			InterestRate: account.InterestRate.InexactFloat64(),
			InterestType: string(account.Policy),
		})
	}

	budget, err := mergeBudget(in)
	if err != nil {
		return nil, err
	}
	doc.Budget = budget

	return doc, nil
}

func mergeBudget(in ExportInput) ([]json.RawMessage, error) {
	var prior []json.RawMessage
	if in.Prior != nil {
		prior = in.Prior.Budget
	}

	priorNames := make(map[string]bool, len(prior))
	var priorIDs []int64
	for _, raw := range prior {
		var probe budgetProbe
		if err := json.Unmarshal(raw, &probe); err != nil {
			// An item merging cannot inspect still rides along untouched.
			continue
		}
		priorNames[probe.Name] = true
		priorIDs = append(priorIDs, probe.ID)
	}

	merged := append([]json.RawMessage(nil), prior...)
	alloc := id.NewAllocator(priorIDs)

	for _, account := range in.Accounts {
		name := account.InterestName()
		if priorNames[name] {
			continue
		}

		amount, err := currentInterest(account, in.Observations)
		if err != nil {
			return nil, err
		}

		item := BudgetItem{
			ID:              alloc.Next(),
			Name:            name,
			Amount:          amount.InexactFloat64(),
			Type:            string(model.DirectionOf(amount)),
			StartDate:       in.StartDate.Format(DateFormat),
			IsAutoGenerated: true,
			LinkedBankID:    id.ForAccount(account.Name),
		}
		raw, err := json.Marshal(item)
		if err != nil {
			return nil, fmt.Errorf("marshaling budget item %q: %w", name, err)
		}
		merged = append(merged, raw)
	}

	return merged, nil
}

// currentInterest is the interest amount for the run's current month:
// the account's first accrual if the run saw one, otherwise the accrual
// its opening position would produce.
func currentInterest(account *model.Account, observations []model.AccountObservation) (decimal.Decimal, error) {
	for _, obs := range observations {
		if obs.Account == account.Name {
			return obs.Interest, nil
		}
	}
	opening := model.NewAccount(account.Name, account.OpeningBalance, account.InterestRate, account.Policy)
	return interest.Monthly(opening)
}

// Write persists the document, replacing any prior document at path. The
// document is written to a temporary file and renamed into place, so a
// failed write leaves the previous export intact.
func Write(path string, doc *Document) error {
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling document: %w", err)
	}

	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, ".cashcast-export-*.json")
	if err != nil {
		return fmt.Errorf("creating temp document: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("writing document: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("closing document: %w", err)
	}

	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("replacing document %s: %w", path, err)
	}
	return nil
}
