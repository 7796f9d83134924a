package memory

import (
	"context"
	"time"

	"github.com/ezraisw/joblock/adapter"
	"github.com/ezraisw/joblock/adapter/util/mutex"
	"github.com/ezraisw/joblock/adapter/util/mutex/sync"
	"github.com/karlseguin/ccache/v2"
)

// Records never expire at the store level, the value is the expiry.
const retention = 100 * 365 * 24 * time.Hour

type memoryAdapter struct {
	cache  *ccache.Cache
	locker mutex.Locker
}

// NewAdapter creates a process-local store. Only useful for tests and for
// workers that all live in the same process.
// The cache keeps at most 5000 records (ccache default); past that the least
// recently used records are evicted, which releases their locks.
func NewAdapter() adapter.Adapter {
	return NewAdapterWithConfiguration(ccache.Configure())
}

// NewAdapterWithConfiguration creates a process-local store backed by a cache with the given configuration.
// Keep MaxSize above the number of concurrently held locks, evicted records are released locks.
func NewAdapterWithConfiguration(cacheCfg *ccache.Configuration) adapter.Adapter {
	return &memoryAdapter{
		cache:  ccache.New(cacheCfg),
		locker: sync.NewLocker(),
	}
}

func (a *memoryAdapter) SetNX(ctx context.Context, key string, value int64) (bool, error) {
	var stored bool
	err := a.atomically(ctx, key, func() {
		if _, ok := a.load(key); ok {
			return
		}
		a.cache.Set(key, value, retention)
		stored = true
	})
	return stored, err
}

func (a *memoryAdapter) Get(ctx context.Context, key string) (int64, error) {
	var value int64
	var ok bool
	err := a.atomically(ctx, key, func() {
		value, ok = a.load(key)
	})
	if err != nil {
		return 0, err
	}
	if !ok {
		return 0, adapter.ErrNotFound
	}
	return value, nil
}

func (a *memoryAdapter) GetSet(ctx context.Context, key string, value int64) (int64, error) {
	var previous int64
	var ok bool
	err := a.atomically(ctx, key, func() {
		previous, ok = a.load(key)
		a.cache.Set(key, value, retention)
	})
	if err != nil {
		return 0, err
	}
	if !ok {
		return 0, adapter.ErrNotFound
	}
	return previous, nil
}

func (a *memoryAdapter) Delete(ctx context.Context, key string) error {
	return a.atomically(ctx, key, func() {
		a.cache.Delete(key)
	})
}

func (a *memoryAdapter) atomically(ctx context.Context, key string, fn func()) error {
	lock, err := a.locker.Obtain(ctx, key)
	if err != nil {
		return err
	}
	defer lock.Release(ctx)

	fn()
	return nil
}

func (a *memoryAdapter) load(key string) (int64, bool) {
	item := a.cache.Get(key)
	if item == nil || item.Expired() {
		return 0, false
	}

	// Ignore casting errors.
	value, _ := item.Value().(int64)
	return value, true
}
