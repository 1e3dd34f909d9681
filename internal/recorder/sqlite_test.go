package recorder

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSQLiteRecorder_RecordRun(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.db")

	r, err := NewSQLiteRecorder(path)
	require.NoError(t, err)
	defer r.Close()

	summary := &RunSummary{
		RunID:         "run-1",
		StartDate:     time.Date(2025, time.September, 1, 0, 0, 0, 0, time.UTC),
		EndDate:       time.Date(2026, time.June, 30, 0, 0, 0, 0, time.UTC),
		StartingTotal: 8000,
		FinalTotal:    4200.50,
		Transactions:  37,
		Accounts:      2,
		StoppedBy:     "stop-at-month-July",
		Duration:      12 * time.Millisecond,
	}
	require.NoError(t, r.RecordRun(summary))
	require.NoError(t, r.RecordRun(summary))

	var count int
	require.NoError(t, r.db.QueryRow(`SELECT COUNT(*) FROM runs`).Scan(&count))
	assert.Equal(t, 2, count)

	var runID, stoppedBy string
	var final float64
	require.NoError(t, r.db.QueryRow(
		`SELECT run_id, stopped_by, final_total FROM runs ORDER BY id LIMIT 1`,
	).Scan(&runID, &stoppedBy, &final))
	assert.Equal(t, "run-1", runID)
	assert.Equal(t, "stop-at-month-July", stoppedBy)
	assert.InDelta(t, 4200.50, final, 0.001)
}

func TestSQLiteRecorder_ReopenKeepsRows(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.db")

	r, err := NewSQLiteRecorder(path)
	require.NoError(t, err)
	require.NoError(t, r.RecordRun(&RunSummary{RunID: "a", StartDate: time.Now(), EndDate: time.Now()}))
	require.NoError(t, r.Close())

	r2, err := NewSQLiteRecorder(path)
	require.NoError(t, err)
	defer r2.Close()

	var count int
	require.NoError(t, r2.db.QueryRow(`SELECT COUNT(*) FROM runs`).Scan(&count))
	assert.Equal(t, 1, count)
}

func TestNoopRecorder(t *testing.T) {
	r := NewNoopRecorder()
	assert.NoError(t, r.RecordRun(&RunSummary{}))
	assert.NoError(t, r.Close())
}
