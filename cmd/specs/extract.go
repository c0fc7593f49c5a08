package main

import (
	"context"
	"sort"

	"github.com/spf13/cobra"

	"github.com/joseph-ayodele/catalog-specs/internal/core"
	"github.com/joseph-ayodele/catalog-specs/internal/core/ocr"
	"github.com/joseph-ayodele/catalog-specs/internal/entity"
	"github.com/joseph-ayodele/catalog-specs/internal/repository"
	"github.com/joseph-ayodele/catalog-specs/internal/ui"
)

var flagForce bool

var extractCmd = &cobra.Command{
	Use:   "extract",
	Short: "OCR every slide table and write specs.json",
	Long: `Extract walks every category in declared order and every slide in ascending
order: validate the image, recognize it, extract the fields and write specs.json.

Slides that already have specs.json are skipped unless --force is given.
Per-slide failures are reported and never change the exit status; the command
exits non-zero only when the OCR engine cannot be started.`,
	Args: cobra.NoArgs,
	RunE: runExtract,
}

func init() {
	rootCmd.AddCommand(extractCmd)
	extractCmd.Flags().BoolVar(&flagForce, "force", false, "Re-extract slides that already have specs.json")
}

func runExtract(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

	ledger := openLedger(ctx)
	defer ledger.Close()

	session, err := newSession(ctx)
	if err != nil {
		return err
	}
	defer session.Close()

	proc := newProcessor(ledger)
	console.Info("Extracting specs from %s (force=%t)", cfg.Assets.Root, flagForce)
	run, err := proc.Run(ctx, session, flagForce)
	printRunSummary(ctx, ledger, run, session)
	return err
}

func newSession(ctx context.Context) (*ocr.Session, error) {
	factory, err := ocr.NewEngineFactory(ocr.Config{
		Engine:      cfg.OCR.Engine,
		Tesseract:   cfg.OCR.TesseractBin,
		Language:    cfg.OCR.Language,
		TessdataDir: cfg.OCR.TessdataDir,
	}, ocr.ExecRunner{}, logger)
	if err != nil {
		return nil, err
	}
	session, err := ocr.NewSession(ctx, factory, logger,
		ocr.WithTimeout(cfg.OCR.Timeout),
		ocr.WithMaxFailures(cfg.OCR.MaxEngineFailures),
	)
	if err != nil {
		logger.Error("extract.engine.init_failed", "engine", cfg.OCR.Engine, "err", err)
		return nil, err
	}
	return session, nil
}

func newProcessor(ledger repository.Ledger) *core.Processor {
	return core.NewProcessor(logger, core.Config{
		AssetsRoot:    cfg.Assets.Root,
		Categories:    cfg.Assets.Categories,
		ItemDelay:     cfg.OCR.ItemDelay,
		MinImageBytes: cfg.OCR.MinImageBytes,
	}, repository.NewSpecStore(logger), ledger, console)
}

func printRunSummary(ctx context.Context, ledger repository.Ledger, run *entity.Run, session *ocr.Session) {
	if run == nil {
		return
	}
	stats := []ui.Stat{
		{Label: "Run", Value: run.ID},
		{Label: "Processed", Value: run.Processed},
		{Label: "Succeeded", Value: run.Succeeded},
		{Label: "Skipped", Value: run.Skipped},
		{Label: "Failed", Value: run.Failed},
	}
	if session != nil {
		stats = append(stats, ui.Stat{Label: "Engine restarts", Value: session.Generation() - 1})
	}
	if byStatus, err := ledger.Summary(context.WithoutCancel(ctx), run.ID); err == nil && len(byStatus) > 0 {
		keys := make([]string, 0, len(byStatus))
		for k := range byStatus {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			stats = append(stats, ui.Stat{Label: "  " + k, Value: byStatus[k]})
		}
	}
	console.Summary("Extraction Summary", stats...)
}
