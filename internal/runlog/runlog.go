// Package runlog keeps an append-only CSV history of simulation runs
// next to the exported document.
package runlog

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Entry is one row in the run log.
type Entry struct {
	Timestamp    time.Time
	RunID        string
	StartDate    time.Time
	EndDate      time.Time
	FinalTotal   decimal.Decimal
	Transactions int
	CommitHash   string
}

// Header is the CSV header for run-log.csv.
const Header = "timestamp,run_id,start_date,end_date,final_total,transactions,commit_hash"

const (
	numFields  = 7
	dateFormat = "2006-01-02"
	logDir     = "logs"
	logFile    = "logs/run-log.csv"

	colTimestamp  = 0
	colRunID      = 1
	colStartDate  = 2
	colEndDate    = 3
	colFinalTotal = 4
	colTxnCount   = 5
	colCommitHash = 6
)

// MarshalEntry converts an Entry to a CSV row.
func MarshalEntry(e Entry) []string {
	row := make([]string, numFields)
	row[colTimestamp] = e.Timestamp.Format(time.RFC3339)
	row[colRunID] = e.RunID
	row[colStartDate] = e.StartDate.Format(dateFormat)
	row[colEndDate] = e.EndDate.Format(dateFormat)
	row[colFinalTotal] = e.FinalTotal.StringFixed(2)
	row[colTxnCount] = strconv.Itoa(e.Transactions)
	row[colCommitHash] = e.CommitHash
	return row
}

// UnmarshalEntry converts a CSV row to an Entry.
func UnmarshalEntry(record []string) (Entry, error) {
	if len(record) != numFields {
		return Entry{}, fmt.Errorf("expected %d fields, got %d", numFields, len(record))
	}

	ts, err := time.Parse(time.RFC3339, record[colTimestamp])
	if err != nil {
		return Entry{}, fmt.Errorf("parsing timestamp %q: %w", record[colTimestamp], err)
	}

	start, err := time.Parse(dateFormat, record[colStartDate])
	if err != nil {
		return Entry{}, fmt.Errorf("parsing start date %q: %w", record[colStartDate], err)
	}

	end, err := time.Parse(dateFormat, record[colEndDate])
	if err != nil {
		return Entry{}, fmt.Errorf("parsing end date %q: %w", record[colEndDate], err)
	}

	total, err := decimal.NewFromString(record[colFinalTotal])
	if err != nil {
		return Entry{}, fmt.Errorf("parsing final total %q: %w", record[colFinalTotal], err)
	}

	count, err := strconv.Atoi(record[colTxnCount])
	if err != nil {
		return Entry{}, fmt.Errorf("parsing transaction count %q: %w", record[colTxnCount], err)
	}

	return Entry{
		Timestamp:    ts,
		RunID:        record[colRunID],
		StartDate:    start,
		EndDate:      end,
		FinalTotal:   total,
		Transactions: count,
		CommitHash:   record[colCommitHash],
	}, nil
}

// Append writes entries to <root>/logs/run-log.csv, creating the file and
// header if needed.
func Append(root string, entries []Entry) error {
	dir := filepath.Join(root, logDir)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating logs dir: %w", err)
	}

	path := filepath.Join(root, logFile)
	needsHeader := false
	if _, err := os.Stat(path); os.IsNotExist(err) {
		needsHeader = true
	}

	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("opening run log: %w", err)
	}
	defer f.Close()

	cw := csv.NewWriter(f)
	defer cw.Flush()

	if needsHeader {
		if err := cw.Write(strings.Split(Header, ",")); err != nil {
			return fmt.Errorf("writing header: %w", err)
		}
	}

	for i, e := range entries {
		if err := cw.Write(MarshalEntry(e)); err != nil {
			return fmt.Errorf("writing entry %d: %w", i, err)
		}
	}

	return cw.Error()
}

// Read returns all entries from <root>/logs/run-log.csv. Returns an empty
// slice if the file does not exist.
func Read(root string) ([]Entry, error) {
	path := filepath.Join(root, logFile)
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("opening run log: %w", err)
	}
	defer f.Close()

	return readEntries(f)
}

func readEntries(r io.Reader) ([]Entry, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = numFields

	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading run log CSV: %w", err)
	}

	if len(records) <= 1 {
		return nil, nil
	}

	var entries []Entry
	for i, rec := range records[1:] {
		e, err := UnmarshalEntry(rec)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+2, err)
		}
		entries = append(entries, e)
	}
	return entries, nil
}
