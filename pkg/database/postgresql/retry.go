package postgresql

import (
	"context"
	"errors"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/sethvargo/go-retry"
	"go.uber.org/zap"
)

const (
	maxTransientRetries = 2
	transientBackoff    = 150 * time.Millisecond
)

// DB wraps the pool and retries statements that fail with a connection reset.
// Statements inside a transaction go through pgx.Tx directly and are not retried.
type DB struct {
	pool       *pgxpool.Pool
	logger     *zap.Logger
	maxRetries uint64
	backoff    time.Duration
}

func NewDB(pool *pgxpool.Pool, logger *zap.Logger) *DB {
	return &DB{
		pool:       pool,
		logger:     logger,
		maxRetries: maxTransientRetries,
		backoff:    transientBackoff,
	}
}

func (db *DB) Pool() *pgxpool.Pool {
	return db.pool
}

// IsTransient reports connection resets and errors pgx marks safe to retry.
func IsTransient(err error) bool {
	if err == nil {
		return false
	}
	return errors.Is(err, syscall.ECONNRESET) || pgconn.SafeToRetry(err)
}

// linearBackoff waits backoff*attempt: 150ms, then 300ms.
func (db *DB) linearBackoff() retry.Backoff {
	attempt := 0
	b := retry.BackoffFunc(func() (time.Duration, bool) {
		attempt++
		return time.Duration(attempt) * db.backoff, false
	})
	return retry.WithMaxRetries(db.maxRetries, b)
}

func (db *DB) do(ctx context.Context, op string, fn func(ctx context.Context) error) error {
	attempt := 0
	return retry.Do(ctx, db.linearBackoff(), func(ctx context.Context) error {
		attempt++
		err := fn(ctx)
		if IsTransient(err) {
			db.logger.Warn("transient storage error",
				zap.String("op", op),
				zap.Int("attempt", attempt),
				zap.Error(err),
			)
			return retry.RetryableError(err)
		}
		return err
	})
}

func (db *DB) Begin(ctx context.Context) (pgx.Tx, error) {
	var tx pgx.Tx
	err := db.do(ctx, "begin", func(ctx context.Context) error {
		var err error
		tx, err = db.pool.Begin(ctx)
		return err
	})
	return tx, err
}

func (db *DB) Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	var tag pgconn.CommandTag
	err := db.do(ctx, "exec", func(ctx context.Context) error {
		var err error
		tag, err = db.pool.Exec(ctx, sql, args...)
		return err
	})
	return tag, err
}

// Query retries only the initial round trip; errors surfaced by rows.Err are returned as is.
func (db *DB) Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error) {
	var rows pgx.Rows
	err := db.do(ctx, "query", func(ctx context.Context) error {
		var err error
		rows, err = db.pool.Query(ctx, sql, args...)
		return err
	})
	return rows, err
}

func (db *DB) QueryRow(ctx context.Context, sql string, args ...any) pgx.Row {
	return &retryRow{db: db, ctx: ctx, sql: sql, args: args}
}

type retryRow struct {
	db   *DB
	ctx  context.Context
	sql  string
	args []any
}

func (r *retryRow) Scan(dest ...any) error {
	return r.db.do(r.ctx, "query_row", func(ctx context.Context) error {
		return r.db.pool.QueryRow(ctx, r.sql, r.args...).Scan(dest...)
	})
}
