package pg

import (
	"context"

	"github.com/code19m/errx"
	"github.com/jackc/pgx/v5/pgxpool"
)

// NewPool opens a pgx pool and verifies it with a ping.
func NewPool(ctx context.Context, cfg Config) (*pgxpool.Pool, error) {
	poolConfig, err := pgxpool.ParseConfig(cfg.dsn())
	if err != nil {
		return nil, errx.Wrap(err)
	}

	poolConfig.MaxConns = cfg.PoolMaxConns
	poolConfig.MinConns = cfg.PoolMinConns
	poolConfig.MaxConnIdleTime = cfg.PoolMaxConnIdleTime
	poolConfig.MaxConnLifetime = cfg.PoolMaxConnLifetime

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, errx.Wrap(err)
	}

	if err = pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, errx.Wrap(err, errx.WithDetails(errx.D{"host": cfg.Host, "database": cfg.Database}))
	}

	return pool, nil
}
