package corpus

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"github.com/kailas-cloud/gallerydex/internal/domain/image"
	"github.com/kailas-cloud/gallerydex/internal/metrics"
)

// Clock abstracts time for TTL checks.
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }

// FetchFunc loads a fresh corpus.
type FetchFunc func(ctx context.Context) ([]image.Image, error)

// Cache is an in-process TTL cache for the merged corpus.
// Concurrent misses share one fetch; a failed refresh keeps serving the previous data.
type Cache struct {
	clock  Clock
	logger *zap.Logger
	group  singleflight.Group

	mu        sync.RWMutex
	data      []image.Image
	fetchedAt time.Time
	loaded    bool
}

// NewCache creates an empty cache. A nil clock means wall time.
func NewCache(clock Clock, logger *zap.Logger) *Cache {
	if clock == nil {
		clock = systemClock{}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Cache{clock: clock, logger: logger}
}

// GetOrFetch returns cached data while now - fetchedAt < ttl, otherwise calls fetch.
func (c *Cache) GetOrFetch(ctx context.Context, ttl time.Duration, fetch FetchFunc) ([]image.Image, error) {
	if data, ok := c.fresh(ttl); ok {
		metrics.CorpusCacheTotal.WithLabelValues("memory", "hit").Inc()
		return data, nil
	}
	metrics.CorpusCacheTotal.WithLabelValues("memory", "miss").Inc()

	v, err, _ := c.group.Do("corpus", func() (any, error) {
		// Another caller may have refreshed while we waited on the group.
		if data, ok := c.fresh(ttl); ok {
			return data, nil
		}
		data, err := fetch(ctx)
		if err != nil {
			return nil, err
		}
		c.store(data)
		return data, nil
	})
	if err != nil {
		if stale, ok := c.stale(); ok {
			metrics.CorpusCacheTotal.WithLabelValues("memory", "stale").Inc()
			c.logger.Warn("Corpus refresh failed, serving stale data",
				zap.Time("fetched_at", c.FetchedAt()),
				zap.Int("images", len(stale)),
				zap.Error(err),
			)
			return stale, nil
		}
		return nil, err
	}
	return v.([]image.Image), nil
}

// Invalidate forces the next GetOrFetch to fetch. Current data stays available as a stale fallback.
func (c *Cache) Invalidate() {
	c.mu.Lock()
	c.fetchedAt = time.Time{}
	c.mu.Unlock()
}

// FetchedAt returns when the cached data was stored (zero if never or invalidated).
func (c *Cache) FetchedAt() time.Time {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.fetchedAt
}

func (c *Cache) fresh(ttl time.Duration) ([]image.Image, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if !c.loaded || c.fetchedAt.IsZero() {
		return nil, false
	}
	if c.clock.Now().Sub(c.fetchedAt) >= ttl {
		return nil, false
	}
	return c.data, true
}

func (c *Cache) stale() ([]image.Image, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.data, c.loaded
}

func (c *Cache) store(data []image.Image) {
	c.mu.Lock()
	c.data = data
	c.fetchedAt = c.clock.Now()
	c.loaded = true
	c.mu.Unlock()
}
