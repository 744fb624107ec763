package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"go.uber.org/zap"

	apperrors "repair-office/pkg/errors"
)

const uniqueViolation = "23505"

// maxConflictAttempts bounds reruns of a transaction that lost an ID race.
const maxConflictAttempts = 3

type TxManagerInterface interface {
	RunInTransaction(ctx context.Context, fn func(tx pgx.Tx) error) error
}

type TxBeginner interface {
	Begin(ctx context.Context) (pgx.Tx, error)
}

type TxManager struct {
	db     TxBeginner
	logger *zap.Logger
}

func NewTxManager(db TxBeginner, logger *zap.Logger) TxManagerInterface {
	return &TxManager{db: db, logger: logger}
}

// RunInTransaction commits when fn returns nil and rolls back on error or panic.
func (m *TxManager) RunInTransaction(ctx context.Context, fn func(tx pgx.Tx) error) (err error) {
	tx, err := m.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}

	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback(ctx)
			panic(p)
		} else if err != nil {
			if rbErr := tx.Rollback(ctx); rbErr != nil && !errors.Is(rbErr, pgx.ErrTxClosed) {
				m.logger.Error("rollback failed", zap.Error(rbErr), zap.NamedError("cause", err))
			}
		} else {
			if err = tx.Commit(ctx); err != nil {
				err = fmt.Errorf("commit transaction: %w", err)
			}
		}
	}()

	err = fn(tx)
	return err
}

// IsUniqueViolation reports a duplicate-key error from PostgreSQL.
func IsUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolation
}

// RetryOnConflict reruns a whole transaction when it fails on a duplicate key,
// which happens when two writers allocated the same identifier.
func RetryOnConflict(ctx context.Context, tm TxManagerInterface, logger *zap.Logger, fn func(tx pgx.Tx) error) error {
	var err error
	for attempt := 1; attempt <= maxConflictAttempts; attempt++ {
		err = tm.RunInTransaction(ctx, fn)
		if !IsUniqueViolation(err) {
			return err
		}
		logger.Warn("identifier conflict, retrying", zap.Int("attempt", attempt), zap.Error(err))
	}
	return fmt.Errorf("%w: %v", apperrors.ErrConflict, err)
}
