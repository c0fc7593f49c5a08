package repository

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"entgo.io/ent/dialect"
	entsql "entgo.io/ent/dialect/sql"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	_ "modernc.org/sqlite"

	"github.com/joseph-ayodele/catalog-specs/internal/common"
)

type Config struct {
	DSN         string // sqlite file path, or a postgres:// URL
	DialTimeout time.Duration
}

// DB is the ledger connection: an ent SQL driver plus the pgx pool when the DSN
// points at postgres.
type DB struct {
	Driver  *entsql.Driver
	Dialect string
	pool    *pgxpool.Pool
	logger  *slog.Logger
}

func isPostgresDSN(dsn string) bool {
	return strings.HasPrefix(dsn, "postgres://") || strings.HasPrefix(dsn, "postgresql://")
}

// Open connects to the ledger database and wraps it for ent.
func Open(ctx context.Context, cfg Config, logger *slog.Logger) (*DB, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.DialTimeout <= 0 {
		cfg.DialTimeout = 5 * time.Second
	}

	if isPostgresDSN(cfg.DSN) {
		logger.Info("ledger.connect", "driver", "pgx")
		pc, err := pgxpool.ParseConfig(cfg.DSN)
		if err != nil {
			return nil, fmt.Errorf("parse ledger dsn: %w", err)
		}
		pc.MaxConns = 2
		pc.ConnConfig.RuntimeParams["application_name"] = "catalog-specs"

		dialCtx, cancel := context.WithTimeout(ctx, cfg.DialTimeout)
		defer cancel()
		pool, err := pgxpool.NewWithConfig(dialCtx, pc)
		if err != nil {
			logger.Error("ledger.connect.failed", "error", err)
			return nil, err
		}
		// Wrap pool as *sql.DB for ent
		db := stdlib.OpenDBFromPool(pool)
		return &DB{Driver: entsql.OpenDB(dialect.Postgres, db), Dialect: dialect.Postgres, pool: pool, logger: logger}, nil
	}

	logger.Info("ledger.connect", "driver", "sqlite", "path", cfg.DSN)
	if dir := filepath.Dir(cfg.DSN); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create ledger dir: %w", err)
		}
	}
	db, err := sql.Open("sqlite", cfg.DSN+"?_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, common.WrapError(err, "open sqlite ledger")
	}
	// a single writer keeps sqlite out of SQLITE_BUSY
	db.SetMaxOpenConns(1)
	return &DB{Driver: entsql.OpenDB(dialect.SQLite, db), Dialect: dialect.SQLite, logger: logger}, nil
}

// Close closes the database connections gracefully
func (d *DB) Close() error {
	if d == nil {
		return nil
	}
	var err error
	if d.Driver != nil {
		if cerr := d.Driver.Close(); cerr != nil {
			d.logger.Error("ledger.close.failed", "error", cerr)
			err = cerr
		}
	}
	if d.pool != nil {
		d.pool.Close()
	}
	return err
}

// HealthCheck pings the database to catch DSN issues early.
func (d *DB) HealthCheck(ctx context.Context, timeout time.Duration) error {
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}
	if d.pool != nil {
		return d.pool.Ping(ctx)
	}
	return d.Driver.DB().PingContext(ctx)
}
