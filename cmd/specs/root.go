package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/joseph-ayodele/catalog-specs/internal/common"
	"github.com/joseph-ayodele/catalog-specs/internal/repository"
	"github.com/joseph-ayodele/catalog-specs/internal/ui"
)

// Shared state, set up once in PersistentPreRunE.
var (
	cfg     *common.Config
	logger  *slog.Logger
	console *ui.Console

	flagNoColor bool
)

var rootCmd = &cobra.Command{
	Use:   "specs",
	Short: "Extract product spec tables from catalog slide images",
	Long: `specs reads <assets>/<category>/slide_<N>/table_01.<ext> images, recognizes their
text with tesseract and writes the structured fields to specs.json next to each image.

Usage:
  specs extract [--force]
  specs audit
  specs export [--out specs.xlsx]
  specs watch`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
		loaded, err := loadConfig()
		if err != nil && cmd.Annotations[annotationLenientConfig] != "true" {
			return err
		}
		if err != nil {
			loaded = common.DefaultConfig()
		}
		cfg = loaded
		logger = newLogger(cfg.Log.Level)
		slog.SetDefault(logger)
		if err != nil {
			logger.Warn("config.invalid", "command", cmd.Name(), "err", err, "fallback", "defaults")
		}
		console = ui.NewConsole(os.Stdout, flagNoColor)
		return nil
	},
}

// annotationLenientConfig marks commands that run on the built-in defaults
// when the configuration cannot be loaded.
const annotationLenientConfig = "lenient-config"

func loadConfig() (*common.Config, error) {
	c, err := common.LoadConfig()
	if err != nil {
		return nil, err
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&flagNoColor, "no-color", false, "Disable colored output")
}

// Execute runs the root command and returns the process exit code.
func Execute(ctx context.Context) int {
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		return 1
	}
	return 0
}

func newLogger(level string) *slog.Logger {
	var lvl slog.Level
	switch strings.ToLower(level) {
	case "debug":
		lvl = slog.LevelDebug
	case "warn", "warning":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	default:
		lvl = slog.LevelInfo
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: lvl}))
}

// openLedger returns the configured run ledger. The ledger is advisory: when it
// is disabled or cannot be opened, extraction continues with a no-op ledger.
func openLedger(ctx context.Context) repository.Ledger {
	if !cfg.LedgerEnabled() {
		return repository.NopLedger{}
	}
	db, err := repository.Open(ctx, repository.Config{DSN: cfg.Ledger.DSN, DialTimeout: cfg.Ledger.DialTimeout}, logger)
	if err != nil {
		logger.Warn("ledger.disabled", "reason", err)
		return repository.NopLedger{}
	}
	if err := db.HealthCheck(ctx, cfg.Ledger.DialTimeout); err != nil {
		logger.Warn("ledger.disabled", "reason", err)
		_ = db.Close()
		return repository.NopLedger{}
	}
	ledger, err := repository.NewLedger(ctx, db, logger)
	if err != nil {
		logger.Warn("ledger.disabled", "reason", err)
		_ = db.Close()
		return repository.NopLedger{}
	}
	return ledger
}
