package search

import (
	"context"

	"github.com/kailas-cloud/gallerydex/internal/domain/image"
	"github.com/kailas-cloud/gallerydex/internal/domain/search/result"
)

// CorpusProvider supplies the full gallery to rank.
type CorpusProvider interface {
	Corpus(ctx context.Context) ([]image.Image, error)
}

// Ranker scores and paginates a corpus. A blank query yields a shuffled page.
type Ranker interface {
	Rank(corpus []image.Image, query string, page, limit int) result.Page
}
