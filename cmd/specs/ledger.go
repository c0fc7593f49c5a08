package main

import (
	"errors"
	"fmt"
	"sort"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/joseph-ayodele/catalog-specs/internal/common"
	"github.com/joseph-ayodele/catalog-specs/internal/repository"
	"github.com/joseph-ayodele/catalog-specs/internal/ui"
)

var ledgerCmd = &cobra.Command{
	Use:   "ledger [run-id]",
	Short: "Check the run ledger and show per-status counts of a run",
	Long: `Ledger pings the run ledger database (LEDGER_DSN) and prints the item counts
per status for the given run, or for the most recent run.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runLedger,
}

func init() {
	rootCmd.AddCommand(ledgerCmd)
}

func runLedger(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	if !cfg.LedgerEnabled() {
		return errors.New("ledger is disabled (LEDGER_DSN=none)")
	}

	db, err := repository.Open(ctx, repository.Config{DSN: cfg.Ledger.DSN, DialTimeout: cfg.Ledger.DialTimeout}, logger)
	if err != nil {
		return fmt.Errorf("opening ledger: %w", err)
	}
	if err := db.HealthCheck(ctx, cfg.Ledger.DialTimeout); err != nil {
		_ = db.Close()
		return fmt.Errorf("ledger health: FAIL (%w)", err)
	}
	console.Success("ledger", "health OK")

	ledger, err := repository.NewLedger(ctx, db, logger)
	if err != nil {
		_ = db.Close()
		return err
	}
	defer ledger.Close()

	var runID uuid.UUID
	if len(args) == 1 {
		if runID, err = uuid.Parse(args[0]); err != nil {
			return fmt.Errorf("invalid run id (must be UUID): %w", err)
		}
	} else {
		runID, err = ledger.LatestRun(ctx)
		if errors.Is(err, common.ErrNotFound) {
			console.Info("no runs recorded yet")
			return nil
		}
		if err != nil {
			return err
		}
	}

	counts, err := ledger.Summary(ctx, runID)
	if err != nil {
		return err
	}
	keys := make([]string, 0, len(counts))
	for k := range counts {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	stats := []ui.Stat{{Label: "Run", Value: runID}}
	for _, k := range keys {
		stats = append(stats, ui.Stat{Label: k, Value: counts[k]})
	}
	console.Summary("Ledger", stats...)
	return nil
}
