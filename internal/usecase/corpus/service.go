package corpus

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"sync"
	"time"

	"github.com/panjf2000/ants/v2"
	"go.uber.org/zap"

	"github.com/kailas-cloud/gallerydex/internal/domain"
	"github.com/kailas-cloud/gallerydex/internal/domain/image"
	"github.com/kailas-cloud/gallerydex/internal/metrics"
)

// Defaults applied when no option overrides them.
const (
	DefaultTTL          = 5 * time.Minute
	DefaultFetchTimeout = 10 * time.Second
)

// Service provides the merged gallery corpus to the search layer.
// Lookup order: in-process cache, shared snapshot, then every source in parallel.
type Service struct {
	sources      []Source
	snapshot     SnapshotStore
	cache        *Cache
	clock        Clock
	ttl          time.Duration
	fetchTimeout time.Duration
	pool         *ants.Pool
	logger       *zap.Logger
}

// Option configures a Service.
type Option func(*Service)

// WithSnapshot enables the shared second-tier cache.
func WithSnapshot(s SnapshotStore) Option {
	return func(svc *Service) { svc.snapshot = s }
}

// WithTTL sets how long a fetched corpus is served before refreshing.
func WithTTL(ttl time.Duration) Option {
	return func(svc *Service) {
		if ttl > 0 {
			svc.ttl = ttl
		}
	}
}

// WithFetchTimeout bounds one refresh across all sources.
func WithFetchTimeout(d time.Duration) Option {
	return func(svc *Service) {
		if d > 0 {
			svc.fetchTimeout = d
		}
	}
}

// WithClock injects the time source (tests).
func WithClock(c Clock) Option {
	return func(svc *Service) { svc.clock = c }
}

// WithLogger sets the logger.
func WithLogger(l *zap.Logger) Option {
	return func(svc *Service) {
		if l != nil {
			svc.logger = l
		}
	}
}

// New creates a corpus service. poolSize <= 0 means one worker per source, capped at NumCPU.
func New(sources []Source, poolSize int, opts ...Option) (*Service, error) {
	if len(sources) == 0 {
		return nil, errors.New("at least one corpus source is required")
	}

	if poolSize <= 0 {
		poolSize = min(len(sources), runtime.NumCPU())
	}
	pool, err := ants.NewPool(poolSize)
	if err != nil {
		return nil, fmt.Errorf("create fetch pool: %w", err)
	}

	s := &Service{
		sources:      sources,
		ttl:          DefaultTTL,
		fetchTimeout: DefaultFetchTimeout,
		pool:         pool,
		logger:       zap.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.cache = NewCache(s.clock, s.logger)

	return s, nil
}

// Corpus returns the current merged corpus. The slice is shared; callers must not modify it.
func (s *Service) Corpus(ctx context.Context) ([]image.Image, error) {
	return s.cache.GetOrFetch(ctx, s.ttl, s.load)
}

// Ready reports whether a corpus can be served.
func (s *Service) Ready(ctx context.Context) error {
	_, err := s.Corpus(ctx)
	return err
}

// Invalidate drops both cache tiers so the next request re-reads the sources.
func (s *Service) Invalidate(ctx context.Context) {
	s.cache.Invalidate()
	if s.snapshot != nil {
		if err := s.snapshot.Clear(ctx); err != nil {
			s.logger.Warn("Failed to clear corpus snapshot", zap.Error(err))
		}
	}
	s.logger.Info("Corpus cache invalidated")
}

// FetchedAt returns when the in-process corpus was last refreshed.
func (s *Service) FetchedAt() time.Time {
	return s.cache.FetchedAt()
}

// Release stops the fetch worker pool.
func (s *Service) Release() {
	s.pool.Release()
}

// load runs detached from the caller's cancellation: the result is shared by every waiter.
func (s *Service) load(ctx context.Context) ([]image.Image, error) {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.fetchTimeout)
	defer cancel()

	if images, ok := s.loadSnapshot(ctx); ok {
		metrics.CorpusImages.Set(float64(len(images)))
		return images, nil
	}

	images, err := s.fetchAll(ctx)
	if err != nil {
		return nil, err
	}
	metrics.CorpusImages.Set(float64(len(images)))

	if s.snapshot != nil {
		if err := s.snapshot.Save(ctx, images); err != nil {
			s.logger.Warn("Failed to save corpus snapshot", zap.Error(err))
		}
	}
	return images, nil
}

func (s *Service) loadSnapshot(ctx context.Context) ([]image.Image, bool) {
	if s.snapshot == nil {
		return nil, false
	}
	images, ok, err := s.snapshot.Load(ctx)
	if err != nil {
		s.logger.Warn("Failed to load corpus snapshot", zap.Error(err))
		return nil, false
	}
	if !ok {
		metrics.CorpusCacheTotal.WithLabelValues("snapshot", "miss").Inc()
		return nil, false
	}
	metrics.CorpusCacheTotal.WithLabelValues("snapshot", "hit").Inc()
	return images, true
}

type fetchResult struct {
	images []image.Image
	err    error
}

// fetchAll queries every source concurrently and merges the results in configured order.
func (s *Service) fetchAll(ctx context.Context) ([]image.Image, error) {
	results := make([]fetchResult, len(s.sources))

	var wg sync.WaitGroup
	for i, src := range s.sources {
		wg.Add(1)
		err := s.pool.Submit(func() {
			defer wg.Done()
			results[i] = s.fetchOne(ctx, src)
		})
		if err != nil {
			wg.Done()
			results[i] = fetchResult{err: fmt.Errorf("submit fetch: %w", err)}
		}
	}
	wg.Wait()

	var errs []error
	var batches [][]image.Image
	for i, r := range results {
		if r.err != nil {
			s.logger.Warn("Corpus source failed",
				zap.String("source", s.sources[i].Name()),
				zap.Error(r.err),
			)
			errs = append(errs, fmt.Errorf("%s: %w", s.sources[i].Name(), r.err))
			continue
		}
		batches = append(batches, r.images)
	}
	if len(batches) == 0 {
		return nil, fmt.Errorf("%w: %w", domain.ErrCorpusUnavailable, errors.Join(errs...))
	}

	merged := merge(batches)
	s.logger.Info("Corpus loaded",
		zap.Int("images", len(merged)),
		zap.Int("sources_ok", len(batches)),
		zap.Int("sources_failed", len(errs)),
	)
	return merged, nil
}

func (s *Service) fetchOne(ctx context.Context, src Source) fetchResult {
	start := time.Now()
	images, err := src.Fetch(ctx)
	metrics.CorpusFetchDuration.WithLabelValues(src.Name()).Observe(time.Since(start).Seconds())
	if err != nil {
		metrics.CorpusFetchTotal.WithLabelValues(src.Name(), "error").Inc()
		return fetchResult{err: err}
	}
	metrics.CorpusFetchTotal.WithLabelValues(src.Name(), "ok").Inc()
	return fetchResult{images: images}
}

// merge concatenates batches keeping the first occurrence of each image.
// Records without a source URL or ID cannot be matched and are always kept.
// The result owns its tag slices so sources may reuse their buffers.
func merge(batches [][]image.Image) []image.Image {
	total := 0
	for _, b := range batches {
		total += len(b)
	}

	out := make([]image.Image, 0, total)
	seen := make(map[string]struct{}, total)
	for _, b := range batches {
		for i := range b {
			img := &b[i]
			if img.SourceURL != "" || img.ID != "" {
				key := img.DedupeKey()
				if _, dup := seen[key]; dup {
					continue
				}
				seen[key] = struct{}{}
			}
			out = append(out, img.Clone())
		}
	}
	return out
}
