package repository

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"entgo.io/ent/dialect"
	entsql "entgo.io/ent/dialect/sql"
	"github.com/google/uuid"

	"github.com/joseph-ayodele/catalog-specs/internal/common"
	"github.com/joseph-ayodele/catalog-specs/internal/entity"
)

const (
	tableRuns  = "extract_runs"
	tableItems = "extract_items"
)

// Ledger keeps a history of extraction runs and per-item outcomes.
type Ledger interface {
	StartRun(ctx context.Context, run *entity.Run) error
	RecordItem(ctx context.Context, rec entity.ItemRecord) error
	FinishRun(ctx context.Context, run *entity.Run) error
	Summary(ctx context.Context, runID uuid.UUID) (map[string]int, error)
	LatestRun(ctx context.Context) (uuid.UUID, error)
	Close() error
}

type sqlLedger struct {
	db  *DB
	log *slog.Logger
}

// NewLedger creates the ledger tables if needed and returns a Ledger backed by db.
func NewLedger(ctx context.Context, db *DB, log *slog.Logger) (Ledger, error) {
	if log == nil {
		log = slog.Default()
	}
	l := &sqlLedger{db: db, log: log}
	if err := l.migrate(ctx); err != nil {
		return nil, err
	}
	return l, nil
}

func (l *sqlLedger) migrate(ctx context.Context) error {
	ts := "DATETIME"
	if l.db.Dialect == dialect.Postgres {
		ts = "TIMESTAMPTZ"
	}
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS ` + tableRuns + ` (
			id TEXT PRIMARY KEY,
			started_at ` + ts + ` NOT NULL,
			finished_at ` + ts + `,
			force BOOLEAN NOT NULL DEFAULT FALSE,
			processed INTEGER NOT NULL DEFAULT 0,
			succeeded INTEGER NOT NULL DEFAULT 0,
			skipped INTEGER NOT NULL DEFAULT 0,
			failed INTEGER NOT NULL DEFAULT 0
		)`,
		`CREATE TABLE IF NOT EXISTS ` + tableItems + ` (
			run_id TEXT NOT NULL REFERENCES ` + tableRuns + `(id),
			category TEXT NOT NULL,
			slide INTEGER NOT NULL,
			status TEXT NOT NULL,
			missing_fields TEXT NOT NULL DEFAULT '',
			message TEXT NOT NULL DEFAULT '',
			recorded_at ` + ts + ` NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_extract_items_run ON ` + tableItems + ` (run_id)`,
	}
	for _, s := range stmts {
		if err := l.db.Driver.Exec(ctx, s, []any{}, nil); err != nil {
			return fmt.Errorf("%w: ledger migrate: %w", common.ErrDatabase, err)
		}
	}
	return nil
}

func (l *sqlLedger) builder() *entsql.DialectBuilder {
	return entsql.Dialect(l.db.Dialect)
}

func (l *sqlLedger) StartRun(ctx context.Context, run *entity.Run) error {
	if run.ID == uuid.Nil {
		run.ID = uuid.New()
	}
	if run.StartedAt.IsZero() {
		run.StartedAt = time.Now().UTC()
	}
	q, args := l.builder().Insert(tableRuns).
		Columns("id", "started_at", "force").
		Values(run.ID.String(), run.StartedAt, run.Force).
		Query()
	if err := l.db.Driver.Exec(ctx, q, args, nil); err != nil {
		l.log.Error("ledger.run.start_failed", "run_id", run.ID, "err", err)
		return err
	}
	l.log.Debug("ledger.run.started", "run_id", run.ID, "force", run.Force)
	return nil
}

func (l *sqlLedger) RecordItem(ctx context.Context, rec entity.ItemRecord) error {
	if rec.RecordedAt.IsZero() {
		rec.RecordedAt = time.Now().UTC()
	}
	q, args := l.builder().Insert(tableItems).
		Columns("run_id", "category", "slide", "status", "missing_fields", "message", "recorded_at").
		Values(rec.RunID.String(), rec.Category, rec.Slide, rec.Status,
			strings.Join(rec.MissingFields, ","), rec.Message, rec.RecordedAt).
		Query()
	if err := l.db.Driver.Exec(ctx, q, args, nil); err != nil {
		l.log.Error("ledger.item.record_failed", "run_id", rec.RunID, "category", rec.Category, "slide", rec.Slide, "err", err)
		return err
	}
	return nil
}

func (l *sqlLedger) FinishRun(ctx context.Context, run *entity.Run) error {
	finished := time.Now().UTC()
	if run.FinishedAt != nil {
		finished = *run.FinishedAt
	}
	q, args := l.builder().Update(tableRuns).
		Set("finished_at", finished).
		Set("processed", run.Processed).
		Set("succeeded", run.Succeeded).
		Set("skipped", run.Skipped).
		Set("failed", run.Failed).
		Where(entsql.EQ("id", run.ID.String())).
		Query()
	if err := l.db.Driver.Exec(ctx, q, args, nil); err != nil {
		l.log.Error("ledger.run.finish_failed", "run_id", run.ID, "err", err)
		return err
	}
	run.FinishedAt = &finished
	l.log.Info("ledger.run.finished", "run_id", run.ID, "processed", run.Processed, "failed", run.Failed)
	return nil
}

// Summary returns item counts per status for one run.
func (l *sqlLedger) Summary(ctx context.Context, runID uuid.UUID) (map[string]int, error) {
	q, args := l.builder().
		Select("status", entsql.Count("*")).
		From(entsql.Table(tableItems)).
		Where(entsql.EQ("run_id", runID.String())).
		GroupBy("status").
		Query()

	var rows entsql.Rows
	if err := l.db.Driver.Query(ctx, q, args, &rows); err != nil {
		return nil, fmt.Errorf("ledger summary: %w", err)
	}
	defer rows.Close()

	out := make(map[string]int)
	for rows.Next() {
		var (
			status string
			n      int
		)
		if err := rows.Scan(&status, &n); err != nil {
			return nil, fmt.Errorf("ledger summary scan: %w", err)
		}
		out[status] = n
	}
	return out, rows.Err()
}

// LatestRun returns the most recently started run, or common.ErrNotFound.
func (l *sqlLedger) LatestRun(ctx context.Context) (uuid.UUID, error) {
	q, args := l.builder().
		Select("id").
		From(entsql.Table(tableRuns)).
		OrderBy(entsql.Desc("started_at")).
		Limit(1).
		Query()

	var rows entsql.Rows
	if err := l.db.Driver.Query(ctx, q, args, &rows); err != nil {
		return uuid.Nil, fmt.Errorf("ledger latest run: %w", err)
	}
	defer rows.Close()
	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return uuid.Nil, err
		}
		return uuid.Nil, common.ErrNotFound
	}
	var id string
	if err := rows.Scan(&id); err != nil {
		return uuid.Nil, fmt.Errorf("ledger latest run scan: %w", err)
	}
	return uuid.Parse(id)
}

func (l *sqlLedger) Close() error {
	return l.db.Close()
}

// NopLedger discards everything; used when LEDGER_DSN is "none".
type NopLedger struct{}

func (NopLedger) StartRun(_ context.Context, run *entity.Run) error {
	if run.ID == uuid.Nil {
		run.ID = uuid.New()
	}
	if run.StartedAt.IsZero() {
		run.StartedAt = time.Now().UTC()
	}
	return nil
}
func (NopLedger) RecordItem(context.Context, entity.ItemRecord) error { return nil }
func (NopLedger) FinishRun(_ context.Context, run *entity.Run) error {
	now := time.Now().UTC()
	run.FinishedAt = &now
	return nil
}
func (NopLedger) Summary(context.Context, uuid.UUID) (map[string]int, error) { return nil, nil }
func (NopLedger) LatestRun(context.Context) (uuid.UUID, error) {
	return uuid.Nil, common.ErrNotFound
}
func (NopLedger) Close() error { return nil }
