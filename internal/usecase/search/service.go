package search

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/gallerydex/internal/domain"
	"github.com/kailas-cloud/gallerydex/internal/domain/image"
	"github.com/kailas-cloud/gallerydex/internal/domain/search/mode"
	"github.com/kailas-cloud/gallerydex/internal/domain/search/request"
	"github.com/kailas-cloud/gallerydex/internal/domain/search/result"
	"github.com/kailas-cloud/gallerydex/internal/logger"
	"github.com/kailas-cloud/gallerydex/internal/metrics"
)

// Surfaces label where a search came from in metrics and logs.
const (
	SurfaceHTTP = "http"
	SurfaceMCP  = "mcp"
	SurfaceCLI  = "cli"
)

// Service runs image searches over the current corpus.
type Service struct {
	corpus CorpusProvider
	ranker Ranker
}

// New creates a search service.
func New(corpus CorpusProvider, ranker Ranker) *Service {
	return &Service{corpus: corpus, ranker: ranker}
}

// Search loads the corpus, narrows it by category and ranks it.
// On error the returned page is an empty page for the request, so callers may serve it as-is.
func (s *Service) Search(ctx context.Context, surface string, req *request.Request) (result.Page, error) {
	start := time.Now()
	ctx = logger.WithFields(ctx, zap.String("surface", surface))
	query := strings.TrimSpace(req.Query())
	m := mode.Ranked
	if req.IsBlank() {
		m = mode.Shuffle
		query = ""
	}

	page, err := s.search(ctx, surface, req, query, m)

	status := "ok"
	if err != nil {
		status = "error"
	}
	metrics.SearchRequestsTotal.WithLabelValues(surface, string(page.Mode()), status).Inc()
	metrics.SearchDuration.WithLabelValues(surface, string(page.Mode())).Observe(time.Since(start).Seconds())

	logger.FromContext(ctx).Debug("Search served",
		zap.String("mode", string(page.Mode())),
		zap.Bool("fallback", page.Fallback()),
		zap.Int("total", page.Total()),
		zap.Int("count", page.Count()),
		zap.Duration("took", time.Since(start)),
	)
	return page, err
}

func (s *Service) search(
	ctx context.Context, surface string, req *request.Request, query string, m mode.Mode,
) (result.Page, error) {
	corpus, err := s.corpus.Corpus(ctx)
	if err != nil {
		return result.Empty(query, m), fmt.Errorf("load corpus: %w", err)
	}
	if req.Category() != "" {
		corpus = inCategory(corpus, req.Category())
	}

	page, err := s.rank(corpus, req.Query(), req.Page(), req.Limit())
	if err != nil {
		return result.Empty(query, m), err
	}

	if m == mode.Ranked {
		metrics.SearchMatches.WithLabelValues(surface).Observe(float64(page.Total()))
	}

	if m == mode.Ranked && page.Total() == 0 && req.ShuffleOnEmpty() && len(corpus) > 0 {
		shuffled, err := s.rank(corpus, "", req.Page(), req.Limit())
		if err != nil {
			return result.Empty(query, m), err
		}
		metrics.SearchFallbackTotal.WithLabelValues(surface).Inc()
		page = result.New(shuffled.Items(), shuffled.Total(), query, mode.Shuffle)
		page = page.AsFallback()
	}
	return page, nil
}

// rank isolates the engine: a panic on malformed data fails this request only.
func (s *Service) rank(corpus []image.Image, query string, page, limit int) (p result.Page, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: %v", domain.ErrRankingFailed, r)
		}
	}()
	return s.ranker.Rank(corpus, query, page, limit), nil
}

func inCategory(corpus []image.Image, category string) []image.Image {
	out := make([]image.Image, 0, len(corpus))
	for i := range corpus {
		if corpus[i].InCategory(category) {
			out = append(out, corpus[i])
		}
	}
	return out
}
