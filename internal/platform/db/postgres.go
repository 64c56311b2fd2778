package db

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Pool sizing floor and idle reclaim window. Each request fans out to at most
// a handful of scoped queries, so a small floor keeps cold starts cheap while
// still absorbing checkout bursts.
const (
	minPoolConns    = 4
	maxConnIdleTime = 5 * time.Minute
)

// New opens a pgx pool against the venda database and verifies connectivity
// before handing it out. The DSN may carry its own pool_max_conns; New only
// raises the floor, never lowers a caller's setting.
func New(ctx context.Context, dsn string) (*pgxpool.Pool, error) {
	config, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("db: parse dsn: %w", err)
	}

	if config.MaxConns < minPoolConns {
		config.MaxConns = minPoolConns
	}
	config.MaxConnIdleTime = maxConnIdleTime

	pool, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		return nil, fmt.Errorf("db: open pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("db: ping: %w", err)
	}

	return pool, nil
}
