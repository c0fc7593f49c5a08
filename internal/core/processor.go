package core

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/joseph-ayodele/catalog-specs/constants"
	"github.com/joseph-ayodele/catalog-specs/internal/common"
	"github.com/joseph-ayodele/catalog-specs/internal/core/extract"
	"github.com/joseph-ayodele/catalog-specs/internal/core/ocr"
	"github.com/joseph-ayodele/catalog-specs/internal/entity"
	"github.com/joseph-ayodele/catalog-specs/internal/ingest"
	"github.com/joseph-ayodele/catalog-specs/internal/repository"
)

// Recognizer is the OCR surface the processor needs; *ocr.Session implements it.
type Recognizer interface {
	Recognize(ctx context.Context, path string) ocr.Result
}

// Reporter receives the per-item progress lines; *ui.Console implements it.
type Reporter interface {
	Processing(label string)
	Skipped(label, reason string)
	Success(label, detail string)
	Warning(label, msg string)
	Error(label string, err error)
}

type Config struct {
	AssetsRoot    string
	Categories    []string
	ItemDelay     time.Duration
	MinImageBytes int64
}

// ItemResult is the outcome of one item.
type ItemResult struct {
	Item    entity.Item
	Status  constants.ItemStatus
	Spec    entity.ExtractedSpec
	Missing []entity.Field
	Message string
}

// Processor runs items through validate → OCR → extract → persist, strictly one
// at a time.
type Processor struct {
	logger    *slog.Logger
	cfg       Config
	scanner   *ingest.Scanner
	validator *ingest.Validator
	parser    *extract.Parser
	store     *repository.SpecStore
	ledger    repository.Ledger
	reporter  Reporter
}

func NewProcessor(
	logger *slog.Logger,
	cfg Config,
	store *repository.SpecStore,
	ledger repository.Ledger,
	reporter Reporter,
) *Processor {
	if logger == nil {
		logger = slog.Default()
	}
	if ledger == nil {
		ledger = repository.NopLedger{}
	}
	return &Processor{
		logger:    logger,
		cfg:       cfg,
		scanner:   ingest.NewScanner(logger),
		validator: ingest.NewValidator(cfg.MinImageBytes, logger),
		parser:    extract.NewParser(logger),
		store:     store,
		ledger:    ledger,
		reporter:  reporter,
	}
}

// Run processes every category in declared order and every slide in ascending
// order. Per-item failures are reported and skipped; only an engine that cannot
// be (re)created or a cancelled ctx stops the batch, and both return an error.
func (p *Processor) Run(ctx context.Context, rec Recognizer, force bool) (*entity.Run, error) {
	run := p.BeginRun(ctx, force)
	ctx = common.WithRunID(ctx, run.ID.String())

	err := p.runCategories(ctx, rec, run)
	p.EndRun(ctx, run)
	return run, err
}

func (p *Processor) runCategories(ctx context.Context, rec Recognizer, run *entity.Run) error {
	for _, category := range p.cfg.Categories {
		items, err := p.scanner.Items(p.cfg.AssetsRoot, category)
		if err != nil {
			p.logger.Error("extract.category.scan_failed", "category", category, "err", err)
			continue
		}
		p.logger.Info("extract.category.start", "category", category, "items", len(items))

		for _, item := range items {
			if err := ctx.Err(); err != nil {
				return err
			}
			res, err := p.ProcessItem(ctx, rec, item, run.Force)
			if err != nil {
				return err
			}
			p.Record(ctx, run, res)
			if res.Status != constants.ItemStatusSkipped {
				p.pause(ctx)
			}
		}
	}
	return nil
}

// BeginRun opens a ledger run. Ledger failures are logged, never returned.
func (p *Processor) BeginRun(ctx context.Context, force bool) *entity.Run {
	run := &entity.Run{Force: force}
	if err := p.ledger.StartRun(ctx, run); err != nil {
		p.logger.Warn("extract.ledger.unavailable", "err", err)
	}
	p.logger.Info("extract.run.start", "run_id", run.ID, "force", force)
	return run
}

// Record tallies res into run and appends it to the ledger.
func (p *Processor) Record(ctx context.Context, run *entity.Run, res ItemResult) {
	switch res.Status {
	case constants.ItemStatusSkipped:
		run.Skipped++
	case constants.ItemStatusExtracted:
		run.Processed++
		run.Succeeded++
	default:
		run.Processed++
		run.Failed++
	}
	rec := entity.ItemRecord{
		RunID:         run.ID,
		Category:      res.Item.Category,
		Slide:         res.Item.Slide,
		Status:        string(res.Status),
		MissingFields: entity.FieldNames(res.Missing),
		Message:       res.Message,
	}
	if err := p.ledger.RecordItem(ctx, rec); err != nil {
		p.logger.Warn("extract.ledger.record_failed", "item", res.Item.Label(), "err", err)
	}
}

// EndRun closes the ledger run.
func (p *Processor) EndRun(ctx context.Context, run *entity.Run) {
	// the run is finalized even when ctx was cancelled mid-batch
	if err := p.ledger.FinishRun(context.WithoutCancel(ctx), run); err != nil {
		p.logger.Warn("extract.ledger.finish_failed", "run_id", run.ID, "err", err)
	}
	p.logger.Info("extract.run.done",
		"run_id", run.ID,
		"processed", run.Processed,
		"succeeded", run.Succeeded,
		"skipped", run.Skipped,
		"failed", run.Failed,
	)
}

// ProcessItem runs one item. The returned error is non-nil only for failures
// that must stop the batch; everything else is reported through the result.
func (p *Processor) ProcessItem(ctx context.Context, rec Recognizer, item entity.Item, force bool) (ItemResult, error) {
	label := item.Label()
	res := ItemResult{Item: item}

	if !force && p.store.Exists(item) {
		res.Status = constants.ItemStatusSkipped
		res.Message = "specs.json already exists"
		p.reporter.Skipped(label, "specs.json already exists (use --force to re-extract)")
		return res, nil
	}
	p.reporter.Processing(label)

	if v := p.validator.Validate(item.ImagePath); !v.Valid {
		res.Status = constants.ItemStatusInvalid
		res.Message = v.Reason
		p.reporter.Warning(label, "Invalid image: "+v.Reason)
		return res, nil
	}

	ocrRes := rec.Recognize(ctx, item.ImagePath)
	if errors.Is(ocrRes.Err, ocr.ErrEngineInit) {
		p.logger.Error("extract.ocr.engine_lost", "item", label, "err", ocrRes.Err)
		return res, fmt.Errorf("%s: %w", label, ocrRes.Err)
	}
	switch ocrRes.Outcome {
	case ocr.OutcomeOK:
	case ocr.OutcomeTimedOut, ocr.OutcomeEngineFault:
		res.Status = constants.ItemStatusOCRFailed
		res.Message = ocrRes.Err.Error()
		p.logger.Warn("extract.ocr.recoverable",
			"run_id", common.RunIDFromContext(ctx),
			"item", label,
			"outcome", ocrRes.Outcome.String(),
			"generation", ocrRes.Generation,
			"duration_ms", ocrRes.Duration.Milliseconds(),
		)
		p.reporter.Warning(label, "OCR "+ocrRes.Outcome.String()+", skipping")
		return res, nil
	default:
		if err := ctx.Err(); err != nil {
			return res, err
		}
		res.Status = constants.ItemStatusOCRFailed
		res.Message = ocrRes.Err.Error()
		p.logger.Error("extract.ocr.failed", "run_id", common.RunIDFromContext(ctx), "item", label, "err", ocrRes.Err)
		p.reporter.Error(label, ocrRes.Err)
		return res, nil
	}

	spec := p.parser.Parse(ocrRes.Text)
	res.Spec = spec
	if spec.IsEmpty() {
		res.Status = constants.ItemStatusNoData
		res.Message = "no data extracted"
		p.reporter.Warning(label, "No data extracted")
		return res, nil
	}

	res.Missing = spec.Missing()
	if len(res.Missing) > 0 {
		p.reporter.Warning(label, "Missing fields: "+strings.Join(entity.FieldNames(res.Missing), ", "))
	}

	if _, err := p.store.Write(item, spec, force); err != nil {
		res.Status = constants.ItemStatusFailed
		res.Message = err.Error()
		p.logger.Error("extract.write.failed", "run_id", common.RunIDFromContext(ctx), "item", label, "err", err)
		p.reporter.Error(label, err)
		return res, nil
	}

	res.Status = constants.ItemStatusExtracted
	found := len(entity.AllFields) - countEmpty(spec)
	p.reporter.Success(label, fmt.Sprintf("extracted %d fields", found))
	p.logger.Debug("extract.item.done", "item", label, "fields", found, "missing", entity.FieldNames(res.Missing))
	return res, nil
}

func (p *Processor) pause(ctx context.Context) {
	if p.cfg.ItemDelay <= 0 {
		return
	}
	t := time.NewTimer(p.cfg.ItemDelay)
	defer t.Stop()
	select {
	case <-ctx.Done():
	case <-t.C:
	}
}

func countEmpty(spec entity.ExtractedSpec) int {
	n := 0
	for _, f := range entity.AllFields {
		if !spec.Has(f) {
			n++
		}
	}
	return n
}
