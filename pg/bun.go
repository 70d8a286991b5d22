// Package pg builds PostgreSQL connections for bun and classifies
// PostgreSQL errors.
package pg

import (
	"context"

	"github.com/code19m/errx"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/extra/bunotel"

	"github.com/rise-and-shine/caseflow/observability/logger"
	"github.com/rise-and-shine/caseflow/pg/hooks"
)

// NewBunDB opens a pool for cfg and wraps it in a bun DB with query logging
// and OpenTelemetry hooks installed.
func NewBunDB(ctx context.Context, cfg Config, log logger.Logger) (*bun.DB, error) {
	pool, err := NewPool(ctx, cfg)
	if err != nil {
		return nil, errx.Wrap(err)
	}

	db := bun.NewDB(stdlib.OpenDBFromPool(pool), pgdialect.New())
	ApplyHooks(db, cfg, log)

	return db, nil
}

// ApplyHooks installs the query log hook and the bunotel tracing hook on db.
func ApplyHooks(db *bun.DB, cfg Config, log logger.Logger) {
	db.AddQueryHook(hooks.NewQueryLogHook(log,
		hooks.WithVerbose(cfg.Debug),
		hooks.WithSlowQueryThreshold(cfg.SlowQueryThreshold),
	))
	db.AddQueryHook(bunotel.NewQueryHook(bunotel.WithDBName(cfg.Database)))
}
