// Package audit re-reads every persisted specs.json and reports which items are
// missing, unreadable or incomplete. It never modifies a record.
package audit

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/santhosh-tekuri/jsonschema/v5"
	"golang.org/x/sync/errgroup"

	"github.com/joseph-ayodele/catalog-specs/constants"
	"github.com/joseph-ayodele/catalog-specs/internal/common"
	"github.com/joseph-ayodele/catalog-specs/internal/entity"
	"github.com/joseph-ayodele/catalog-specs/internal/ingest"
	"github.com/joseph-ayodele/catalog-specs/internal/repository"
)

type Config struct {
	AssetsRoot  string
	Categories  []string
	Concurrency int // parallel record reads; default 8
}

type Auditor struct {
	logger  *slog.Logger
	cfg     Config
	scanner *ingest.Scanner
	store   *repository.SpecStore
	schema  *jsonschema.Schema
}

func NewAuditor(logger *slog.Logger, cfg Config, store *repository.SpecStore) (*Auditor, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.Concurrency <= 0 {
		cfg.Concurrency = 8
	}
	schema, err := compileSchema(specSchema())
	if err != nil {
		return nil, err
	}
	return &Auditor{
		logger:  logger,
		cfg:     cfg,
		scanner: ingest.NewScanner(logger),
		store:   store,
		schema:  schema,
	}, nil
}

// Run classifies every item of every category. Items keep scan order in the
// report even though records are read in parallel.
func (a *Auditor) Run(ctx context.Context) (*Report, error) {
	start := time.Now()
	report := &Report{
		Generated:  start.UTC(),
		RunID:      uuid.NewString(),
		Categories: a.cfg.Categories,
	}

	var items []entity.Item
	for _, category := range a.cfg.Categories {
		root := filepath.Join(a.cfg.AssetsRoot, category)
		if fi, err := os.Stat(root); err != nil || !fi.IsDir() {
			a.logger.Warn("audit.category.missing", "category", category, "path", root)
			report.MissingCategories = append(report.MissingCategories, category)
			continue
		}
		catItems, err := a.scanner.Items(a.cfg.AssetsRoot, category)
		if err != nil {
			return nil, fmt.Errorf("scan %s: %w", category, err)
		}
		items = append(items, catItems...)
	}

	found := make([]*Issue, len(items))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(a.cfg.Concurrency)
	for i, item := range items {
		i, item := i, item
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			found[i] = a.Classify(item)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	report.TotalSlides = len(items)
	for _, is := range found {
		if is != nil {
			report.Issues = append(report.Issues, *is)
		}
	}
	report.TotalWithIssues = len(report.Issues)
	report.SlidesOK = report.TotalSlides - report.TotalWithIssues

	a.logger.Info("audit.done",
		"run_id", report.RunID,
		"slides", report.TotalSlides,
		"issues", report.TotalWithIssues,
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return report, nil
}

// Classify returns the issue for one item, or nil when its record is complete.
func (a *Auditor) Classify(item entity.Item) *Issue {
	issue := func(kind constants.IssueKind, msg string) *Issue {
		return &Issue{Category: item.Category, Slide: item.Slide, Type: kind, Message: msg}
	}

	raw, err := a.store.ReadRaw(item)
	if err != nil {
		if repository.IsMissing(err) {
			return issue(constants.IssueMissingFile, "specs.json file does not exist")
		}
		return issue(constants.IssueParseError, "Error reading file: "+err.Error())
	}

	var doc any
	if err := json.Unmarshal(raw, &doc); err != nil {
		return issue(constants.IssueParseError, "Error parsing JSON: "+err.Error())
	}
	if err := a.schema.Validate(doc); err != nil {
		return issue(constants.IssueParseError, "Invalid specs record: "+err.Error())
	}

	var spec entity.ExtractedSpec
	if err := json.Unmarshal(raw, &spec); err != nil {
		return issue(constants.IssueParseError, "Error parsing JSON: "+err.Error())
	}

	v := common.NewValidator()
	for _, f := range entity.RequiredFields {
		v.Field(string(f), spec.Get(f), common.Required)
	}
	if !v.HasErrors() {
		return nil
	}
	missing := v.FailedFields()
	is := issue(constants.IssueMissingFields, "Missing: "+strings.Join(missing, ", "))
	is.MissingFields = missing
	a.logger.Debug("audit.item.incomplete", "item", item.Label(), "missing", missing)
	return is
}
