// Package postgres persists evaluation records with pgx.
package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PgxPool is the subset of pgxpool.Pool the repositories use; pgxmock
// implements it in tests.
type PgxPool interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// NewPool connects to Postgres and verifies the connection.
func NewPool(ctx context.Context, url string) (*pgxpool.Pool, error) {
	cfg, err := pgxpool.ParseConfig(url)
	if err != nil {
		return nil, fmt.Errorf("op=postgres.connect: parse url: %w", err)
	}
	cfg.MaxConnLifetime = time.Hour
	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("op=postgres.connect: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("op=postgres.connect: ping: %w", err)
	}
	return pool, nil
}

// EnsureSchema creates the evaluations table when absent.
func EnsureSchema(ctx context.Context, pool PgxPool) error {
	const ddl = `
CREATE TABLE IF NOT EXISTS evaluations (
    id          TEXT PRIMARY KEY,
    resume_hash TEXT NOT NULL,
    job_hash    TEXT NOT NULL,
    resume      JSONB NOT NULL,
    job         JSONB NOT NULL,
    match       JSONB NOT NULL,
    score       JSONB NOT NULL,
    feedback    JSONB NOT NULL,
    created_at  TIMESTAMPTZ NOT NULL
);
CREATE INDEX IF NOT EXISTS evaluations_hashes_idx ON evaluations (resume_hash, job_hash);`
	if _, err := pool.Exec(ctx, ddl); err != nil {
		return fmt.Errorf("op=postgres.schema: %w", err)
	}
	return nil
}
