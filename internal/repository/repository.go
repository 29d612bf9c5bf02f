// Package repository provides the Postgres data access layer. Repositories
// are stateless mappers: every read goes to the store of record and every
// write happens inside a caller-owned transaction.
package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Pool tuning defaults.
const (
	DefaultMaxConns       = 10
	DefaultMinConns       = 2
	DefaultAcquireTimeout = 5 * time.Second
)

// Options tune the shared connection pool.
type Options struct {
	MaxConns       int32
	MinConns       int32
	AcquireTimeout time.Duration
}

// Repository provides database access methods backed by a bounded pool.
type Repository struct {
	pool           *pgxpool.Pool
	acquireTimeout time.Duration
}

// New creates a new Repository with a connection pool.
func New(ctx context.Context, databaseURL string, opts Options) (*Repository, error) {
	config, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse database URL: %w", err)
	}

	if opts.MaxConns <= 0 {
		opts.MaxConns = DefaultMaxConns
	}
	if opts.MinConns <= 0 {
		opts.MinConns = DefaultMinConns
	}
	if opts.AcquireTimeout <= 0 {
		opts.AcquireTimeout = DefaultAcquireTimeout
	}
	config.MaxConns = opts.MaxConns
	config.MinConns = opts.MinConns

	pool, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		return nil, fmt.Errorf("failed to create connection pool: %w", err)
	}

	// Verify connection
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &Repository{pool: pool, acquireTimeout: opts.AcquireTimeout}, nil
}

// Begin opens a transaction. The underlying pool acquisition is bounded by
// the configured timeout, so an exhausted pool fails fast instead of hanging
// the request.
func (r *Repository) Begin(ctx context.Context) (pgx.Tx, error) {
	acquireCtx, cancel := context.WithTimeout(ctx, r.acquireTimeout)
	defer cancel()

	tx, err := r.pool.BeginTx(acquireCtx, pgx.TxOptions{})
	if err != nil {
		return nil, fmt.Errorf("begin transaction: %w", err)
	}
	return tx, nil
}

// Ping checks database connectivity.
func (r *Repository) Ping(ctx context.Context) error {
	return r.pool.Ping(ctx)
}

// Close closes the database connection pool.
func (r *Repository) Close() {
	r.pool.Close()
}

// Pool returns the underlying connection pool.
// Use sparingly - prefer adding methods to Repository.
func (r *Repository) Pool() *pgxpool.Pool {
	return r.pool
}

// uniqueViolation reports whether err is a Postgres unique constraint
// violation (SQLSTATE 23505) and returns the violated constraint name, so
// conflicts are classified from the storage signal instead of a racy
// check-then-insert.
func uniqueViolation(err error) (string, bool) {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return pgErr.ConstraintName, true
	}
	return "", false
}
