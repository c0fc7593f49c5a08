package main

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"slices"
	"time"

	"github.com/spf13/cobra"

	"github.com/joseph-ayodele/catalog-specs/internal/async"
	"github.com/joseph-ayodele/catalog-specs/internal/common"
	"github.com/joseph-ayodele/catalog-specs/internal/ingest"
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Extract once, then re-extract slides whose table image changes",
	Long: `Watch runs a normal (non-forced) extraction, then watches every category
directory. When a slide's table_01 image is created or rewritten, that slide is
re-extracted with --force semantics. Stops on SIGINT/SIGTERM after the pending
slides are done.`,
	Args: cobra.NoArgs,
	RunE: runWatch,
}

func init() {
	rootCmd.AddCommand(watchCmd)
}

func runWatch(cmd *cobra.Command, _ []string) error {
	ctx, cancel := context.WithCancelCause(cmd.Context())
	defer cancel(nil)

	ledger := openLedger(ctx)
	defer ledger.Close()

	session, err := newSession(ctx)
	if err != nil {
		return err
	}
	defer session.Close()

	proc := newProcessor(ledger)
	initial, err := proc.Run(ctx, session, false)
	printRunSummary(ctx, ledger, initial, session)
	if err != nil {
		return err
	}

	var roots []string
	for _, category := range cfg.Assets.Categories {
		dir := filepath.Join(cfg.Assets.Root, category)
		if fi, err := os.Stat(dir); err == nil && fi.IsDir() {
			roots = append(roots, dir)
		}
	}
	events, errs, err := ingest.StartWatcher(ctx, ingest.WatchConfig{
		Roots:    roots,
		Debounce: cfg.Watch.Debounce,
		Logger:   logger,
	})
	if err != nil {
		return err
	}

	run := proc.BeginRun(ctx, true)
	queue := async.NewProcessorQueue(proc, session, run, logger,
		async.WithProcessTimeout(cfg.OCR.Timeout*2),
		async.WithFatalHandler(func(err error) { cancel(err) }),
	)
	console.Info("Watching %d categories under %s", len(roots), cfg.Assets.Root)

	for loop := true; loop; {
		select {
		case <-ctx.Done():
			loop = false
		case err, ok := <-errs:
			if !ok {
				errs = nil
				continue
			}
			logger.Warn("watch.error", "err", err)
		case path, ok := <-events:
			if !ok {
				loop = false
				break
			}
			item, ok := ingest.ItemFromImagePath(cfg.Assets.Root, path)
			if !ok || !slices.Contains(cfg.Assets.Categories, item.Category) {
				logger.Debug("watch.ignored", "path", path)
				continue
			}
			if err := queue.Enqueue(ctx, async.Job{Item: item, Force: true}); err != nil {
				logger.Warn("watch.enqueue_failed", "item", item.Label(), "err", err)
			}
		}
	}

	drainCtx, stop := context.WithTimeout(context.WithoutCancel(ctx), 2*cfg.OCR.Timeout+5*time.Second)
	defer stop()
	queue.Shutdown(drainCtx)
	proc.EndRun(common.WithRunID(drainCtx, run.ID.String()), run)
	printRunSummary(drainCtx, ledger, run, session)

	if cause := context.Cause(ctx); cause != nil && !errors.Is(cause, context.Canceled) {
		return cause
	}
	return nil
}
