package commands

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/cashcast-dev/cashcast/internal/config"
	"github.com/cashcast-dev/cashcast/internal/display"
	"github.com/cashcast-dev/cashcast/internal/gitops"
	"github.com/cashcast-dev/cashcast/internal/id"
	"github.com/cashcast-dev/cashcast/internal/ledger"
	"github.com/cashcast-dev/cashcast/internal/model"
	"github.com/cashcast-dev/cashcast/internal/recorder"
	"github.com/cashcast-dev/cashcast/internal/runlog"
	"github.com/cashcast-dev/cashcast/internal/sim"
)

func newRunCommand() *cobra.Command {
	var configPath string
	var year int
	var quiet bool

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Simulate balances day by day and export the ledger",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return executeRun(runOptions{
				configPath: configPath,
				year:       year,
				quiet:      quiet,
				now:        time.Now(),
				stdin:      cmd.InOrStdin(),
				stdout:     cmd.OutOrStdout(),
			})
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "cashcast.yaml", "path to cashcast.yaml")
	cmd.Flags().IntVar(&year, "year", 0, "target year (skips the prompt)")
	cmd.Flags().BoolVarP(&quiet, "quiet", "q", false, "suppress per-event output")

	return cmd
}

type runOptions struct {
	configPath string
	year       int
	quiet      bool
	now        time.Time
	stdin      io.Reader
	stdout     io.Writer
}

func executeRun(opts runOptions) error {
	started := time.Now()

	cfg, err := config.Load(opts.configPath)
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	display.Setup(opts.stdout, cfg)

	targetYear, err := resolveTargetYear(opts, cfg)
	if err != nil {
		return err
	}

	accounts := cfg.BuildAccounts()
	monthly, daily, oneOff, err := cfg.BuildFlows()
	if err != nil {
		return err
	}

	startingTotal := model.TotalOpeningBalance(accounts)
	startDate := opts.now
	endDate := time.Date(targetYear, time.December, 31, 0, 0, 0, 0, time.UTC)

	fmt.Fprintf(opts.stdout, "=== SIMULATION FROM %s TO %s ===\n\n",
		startDate.Format("2006-01-02"), endDate.Format("2006-01-02"))

	result, err := sim.Run(sim.Params{
		Accounts:      accounts,
		MonthlyFlows:  monthly,
		DailyFlows:    daily,
		OneOffFlows:   oneOff,
		StartingTotal: startingTotal,
		StartDate:     startDate,
		EndDate:       endDate,
		StopRules:     stopRules(cfg),
	})
	if err != nil {
		return err
	}

	if !opts.quiet {
		for _, txn := range result.Transactions {
			display.Event(opts.stdout, txn)
		}
	}
	display.Summary(opts.stdout, result.FinalTotal, result.StoppedBy)

	prior, err := loadPrior(opts.stdout, cfg.DataFile)
	if err != nil {
		return err
	}

	effectiveEnd := result.LastDate
	if effectiveEnd.IsZero() {
		effectiveEnd = startDate
	}

	runID := id.NewRunID()
	doc, err := ledger.BuildDocument(ledger.ExportInput{
		RunID:         runID,
		StartDate:     startDate,
		EndDate:       effectiveEnd,
		StartingTotal: startingTotal,
		FinalTotal:    result.FinalTotal,
		Accounts:      accounts,
		Transactions:  result.Transactions,
		Snapshots:     result.Snapshots,
		Observations:  result.Observations,
		Prior:         prior,
	})
	if err != nil {
		return err
	}

	if err := ledger.Write(cfg.DataFile, doc); err != nil {
		return fmt.Errorf("exporting ledger: %w", err)
	}

	preserved := 0
	if prior != nil {
		preserved = len(prior.Budget)
	}
	fmt.Fprintf(opts.stdout, "\n=== DATA EXPORTED TO %s (%d budget items preserved) ===\n",
		cfg.DataFile, preserved)

	root := filepath.Dir(cfg.DataFile)
	commitHash := commitExport(opts.stdout, cfg, root)

	if err := runlog.Append(root, []runlog.Entry{{
		Timestamp:    opts.now,
		RunID:        runID,
		StartDate:    startDate,
		EndDate:      effectiveEnd,
		FinalTotal:   result.FinalTotal,
		Transactions: len(result.Transactions),
		CommitHash:   commitHash,
	}}); err != nil {
		return fmt.Errorf("appending run log: %w", err)
	}

	return recordHistory(cfg, &recorder.RunSummary{
		RunID:         runID,
		StartDate:     startDate,
		EndDate:       effectiveEnd,
		StartingTotal: startingTotal.InexactFloat64(),
		FinalTotal:    result.FinalTotal.InexactFloat64(),
		Transactions:  len(result.Transactions),
		Accounts:      len(accounts),
		StoppedBy:     result.StoppedBy,
		Duration:      time.Since(started),
	})
}

// resolveTargetYear picks the flag, then the config, then prompts.
func resolveTargetYear(opts runOptions, cfg *config.Config) (int, error) {
	minYear := opts.now.Year()

	year := opts.year
	if year == 0 {
		year = cfg.Simulation.TargetYear
	}
	if year != 0 {
		if year < minYear {
			return 0, fmt.Errorf("target year %d is before the current year %d", year, minYear)
		}
		return year, nil
	}

	return display.PromptTargetYear(opts.stdin, opts.stdout, minYear)
}

func stopRules(cfg *config.Config) []sim.StopRule {
	var rules []sim.StopRule
	if m := cfg.Simulation.StopMonth; m != 0 {
		rules = append(rules, sim.StopAtMonth(time.Month(m)))
	}
	if cfg.Simulation.StopWhenBroke {
		rules = append(rules, sim.StopWhenNonPositive())
	}
	return rules
}

// loadPrior recovers to "no prior data" on a missing or corrupt
// document, warning about the corrupt case. Anything else is fatal.
func loadPrior(out io.Writer, path string) (*ledger.Document, error) {
	prior, err := ledger.Load(path)
	if err == nil {
		return prior, nil
	}
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	var corrupt *ledger.CorruptError
	if errors.As(err, &corrupt) {
		fmt.Fprintf(out, "warning: %v; starting from empty prior state\n", corrupt)
		return nil, nil
	}
	return nil, err
}

// commitExport commits the document when configured. A commit failure is
// reported but never discards the completed export.
func commitExport(out io.Writer, cfg *config.Config, root string) string {
	if !cfg.Git.AutoCommit || !gitops.IsRepo(root) {
		return ""
	}
	hash, err := gitops.CommitFile(root, filepath.Base(cfg.DataFile),
		"export: simulation run", cfg.Git.AuthorName, cfg.Git.AuthorEmail)
	if err != nil {
		fmt.Fprintf(out, "warning: committing export: %v\n", err)
		return ""
	}
	return hash
}

func recordHistory(cfg *config.Config, summary *recorder.RunSummary) error {
	if cfg.HistoryDB == "" {
		return nil
	}
	rec, err := recorder.NewSQLiteRecorder(cfg.HistoryDB)
	if err != nil {
		return fmt.Errorf("opening history db: %w", err)
	}
	defer rec.Close()

	if err := rec.RecordRun(summary); err != nil {
		return fmt.Errorf("recording run: %w", err)
	}
	return nil
}
