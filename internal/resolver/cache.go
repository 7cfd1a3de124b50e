package resolver

import (
	"context"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"poolRegistry/internal/model"
)

// Cache stores resolutions by pool address.
type Cache interface {
	Get(ctx context.Context, key string) (model.Resolution, bool, error)
	Set(ctx context.Context, key string, res model.Resolution) error
}

// Observer receives cache outcomes. *observability.Metrics satisfies it.
type Observer interface {
	CacheLookup(hit bool)
}

// CachedResolver is a read-through cache in front of another Resolver.
// Cache failures are logged and never fail a resolution.
type CachedResolver struct {
	next     Resolver
	cache    Cache
	observer Observer
	logger   *zap.Logger
}

func NewCachedResolver(next Resolver, cache Cache, observer Observer, logger *zap.Logger) *CachedResolver {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CachedResolver{next: next, cache: cache, observer: observer, logger: logger}
}

var _ Resolver = (*CachedResolver)(nil)

func (r *CachedResolver) Resolve(ctx context.Context, address string) (model.Resolution, error) {
	key := cacheKey(address)

	res, ok, err := r.cache.Get(ctx, key)
	if err != nil {
		r.logger.Warn("resolution cache get failed", zap.String("pool", address), zap.Error(err))
	}
	if r.observer != nil {
		r.observer.CacheLookup(ok)
	}
	if ok {
		return res, nil
	}

	res, err = r.next.Resolve(ctx, address)
	if err != nil {
		return model.Resolution{}, err
	}
	if err := r.cache.Set(ctx, key, res); err != nil {
		r.logger.Warn("resolution cache set failed", zap.String("pool", address), zap.Error(err))
	}
	return res, nil
}

func cacheKey(address string) string {
	return strings.ToLower(strings.TrimSpace(address))
}

type memoryEntry struct {
	res       model.Resolution
	expiresAt time.Time
}

// MemoryCache is a process-local Cache. A zero TTL keeps entries forever.
type MemoryCache struct {
	mu   sync.RWMutex
	ttl  time.Duration
	now  func() time.Time
	data map[string]memoryEntry
}

func NewMemoryCache(ttl time.Duration) *MemoryCache {
	return &MemoryCache{ttl: ttl, now: time.Now, data: make(map[string]memoryEntry)}
}

func (c *MemoryCache) Get(_ context.Context, key string) (model.Resolution, bool, error) {
	c.mu.RLock()
	entry, ok := c.data[key]
	c.mu.RUnlock()
	if !ok {
		return model.Resolution{}, false, nil
	}
	if !entry.expiresAt.IsZero() && c.now().After(entry.expiresAt) {
		c.mu.Lock()
		delete(c.data, key)
		c.mu.Unlock()
		return model.Resolution{}, false, nil
	}
	return entry.res, true, nil
}

func (c *MemoryCache) Set(_ context.Context, key string, res model.Resolution) error {
	entry := memoryEntry{res: res}
	if c.ttl > 0 {
		entry.expiresAt = c.now().Add(c.ttl)
	}
	c.mu.Lock()
	c.data[key] = entry
	c.mu.Unlock()
	return nil
}
