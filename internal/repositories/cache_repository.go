package repositories

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"go.uber.org/zap"
)

// ErrCacheMiss is returned by Get for absent or expired keys.
var ErrCacheMiss = errors.New("cache miss")

type CacheRepositoryInterface interface {
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	// Get returns the stored value; remote stores return the encoded []byte.
	Get(ctx context.Context, key string) (interface{}, error)
	Del(ctx context.Context, keys ...string) error
	// Incr adds one; a new counter expires after ttl.
	Incr(ctx context.Context, key string, ttl time.Duration) (int64, error)
}

// Remember is a read-through helper: a cache hit skips load, a miss stores its
// result for ttl. Cache failures are logged and never fail the read.
func Remember[T any](ctx context.Context, cache CacheRepositoryInterface, logger *zap.Logger, key string, ttl time.Duration, load func(ctx context.Context) (T, error)) (T, error) {
	raw, err := cache.Get(ctx, key)
	switch {
	case err == nil:
		if v, ok := decodeCached[T](raw); ok {
			return v, nil
		}
		logger.Warn("cache: undecodable entry", zap.String("key", key))
	case !errors.Is(err, ErrCacheMiss):
		logger.Warn("cache: get failed", zap.String("key", key), zap.Error(err))
	}

	v, err := load(ctx)
	if err != nil {
		return v, err
	}
	if err := cache.Set(ctx, key, v, ttl); err != nil {
		logger.Warn("cache: set failed", zap.String("key", key), zap.Error(err))
	}
	return v, nil
}

func decodeCached[T any](raw interface{}) (T, bool) {
	if v, ok := raw.(T); ok {
		return v, true
	}

	var v T
	var data []byte
	switch b := raw.(type) {
	case []byte:
		data = b
	case string:
		data = []byte(b)
	default:
		return v, false
	}
	if err := json.Unmarshal(data, &v); err != nil {
		return v, false
	}
	return v, true
}
