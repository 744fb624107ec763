package postgresql

import (
	"context"
	"errors"
	"fmt"
	"syscall"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestDB() *DB {
	db := NewDB(nil, zap.NewNop())
	db.backoff = time.Millisecond
	return db
}

func TestIsTransient(t *testing.T) {
	assert.False(t, IsTransient(nil))
	assert.True(t, IsTransient(syscall.ECONNRESET))
	assert.True(t, IsTransient(fmt.Errorf("read tcp: %w", syscall.ECONNRESET)))
	assert.False(t, IsTransient(pgx.ErrNoRows))
	assert.False(t, IsTransient(errors.New("syntax error")))
}

func TestDB_RetriesConnectionReset(t *testing.T) {
	t.Run("recovers after two resets", func(t *testing.T) {
		db := newTestDB()
		calls := 0
		err := db.do(context.Background(), "test", func(ctx context.Context) error {
			calls++
			if calls < 3 {
				return syscall.ECONNRESET
			}
			return nil
		})
		require.NoError(t, err)
		assert.Equal(t, 3, calls)
	})

	t.Run("gives up after two retries", func(t *testing.T) {
		db := newTestDB()
		calls := 0
		err := db.do(context.Background(), "test", func(ctx context.Context) error {
			calls++
			return syscall.ECONNRESET
		})
		require.Error(t, err)
		assert.ErrorIs(t, err, syscall.ECONNRESET)
		assert.Equal(t, 3, calls)
	})

	t.Run("other errors propagate immediately", func(t *testing.T) {
		db := newTestDB()
		calls := 0
		err := db.do(context.Background(), "test", func(ctx context.Context) error {
			calls++
			return pgx.ErrNoRows
		})
		assert.ErrorIs(t, err, pgx.ErrNoRows)
		assert.Equal(t, 1, calls)
	})
}

func TestDB_LinearBackoff(t *testing.T) {
	db := NewDB(nil, zap.NewNop())
	b := db.linearBackoff()

	d1, stop := b.Next()
	require.False(t, stop)
	d2, stop := b.Next()
	require.False(t, stop)
	_, stop = b.Next()

	assert.Equal(t, 150*time.Millisecond, d1)
	assert.Equal(t, 300*time.Millisecond, d2)
	assert.True(t, stop)
}
