package repositories

import (
	"context"
	"time"

	"github.com/puzpuzpuz/xsync/v3"
)

type cacheEntry struct {
	value     interface{}
	expiresAt time.Time
}

// MemoryCacheRepository is a process-local cache. Entries expire lazily: an
// expired entry is removed by the Get that finds it. There is no size bound.
type MemoryCacheRepository struct {
	entries *xsync.MapOf[string, cacheEntry]
	now     func() time.Time
}

// NewMemoryCacheRepository uses time.Now when now is nil.
func NewMemoryCacheRepository(now func() time.Time) *MemoryCacheRepository {
	if now == nil {
		now = time.Now
	}
	return &MemoryCacheRepository{
		entries: xsync.NewMapOf[string, cacheEntry](),
		now:     now,
	}
}

func (r *MemoryCacheRepository) expired(e cacheEntry) bool {
	return r.now().After(e.expiresAt)
}

func (r *MemoryCacheRepository) Get(ctx context.Context, key string) (interface{}, error) {
	e, ok := r.entries.Load(key)
	if !ok {
		return nil, ErrCacheMiss
	}
	if r.expired(e) {
		// only drop the entry if a concurrent Set has not replaced it
		r.entries.Compute(key, func(old cacheEntry, loaded bool) (cacheEntry, bool) {
			return old, !loaded || r.expired(old)
		})
		return nil, ErrCacheMiss
	}
	return e.value, nil
}

func (r *MemoryCacheRepository) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	r.entries.Store(key, cacheEntry{value: value, expiresAt: r.now().Add(ttl)})
	return nil
}

func (r *MemoryCacheRepository) Del(ctx context.Context, keys ...string) error {
	for _, k := range keys {
		r.entries.Delete(k)
	}
	return nil
}

func (r *MemoryCacheRepository) Incr(ctx context.Context, key string, ttl time.Duration) (int64, error) {
	e, _ := r.entries.Compute(key, func(old cacheEntry, loaded bool) (cacheEntry, bool) {
		if !loaded || r.expired(old) {
			return cacheEntry{value: int64(1), expiresAt: r.now().Add(ttl)}, false
		}
		n, _ := old.value.(int64)
		return cacheEntry{value: n + 1, expiresAt: old.expiresAt}, false
	})
	n, _ := e.value.(int64)
	return n, nil
}

// Len counts stored entries, expired ones included.
func (r *MemoryCacheRepository) Len() int {
	return r.entries.Size()
}
