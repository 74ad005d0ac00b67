package gallerydex

import "github.com/kailas-cloud/gallerydex/internal/domain/search/request"

// DefaultLimit is the page size used when none is set.
const DefaultLimit = request.DefaultLimit

// Hit is a typed search result.
type Hit[T any] struct {
	Item    T
	Score   int
	Signals Signals // zero in shuffle mode
}

// Results is one page of typed hits.
type Results[T any] struct {
	Hits     []Hit[T]
	Total    int
	Query    string
	Mode     Mode
	Fallback bool
}

// SearchBuilder is a fluent builder for typed search queries.
type SearchBuilder[T any] struct {
	idx *TypedIndex[T]

	query          string
	category       string
	page           int
	limit          int
	shuffleOnEmpty bool
}

// Query sets the free-text query. A blank query shuffles.
func (b *SearchBuilder[T]) Query(q string) *SearchBuilder[T] {
	b.query = q
	return b
}

// Category restricts the search to one category (case-insensitive).
func (b *SearchBuilder[T]) Category(c string) *SearchBuilder[T] {
	b.category = c
	return b
}

// Page sets the 1-based page number.
func (b *SearchBuilder[T]) Page(n int) *SearchBuilder[T] {
	b.page = n
	return b
}

// Limit sets the page size.
func (b *SearchBuilder[T]) Limit(n int) *SearchBuilder[T] {
	b.limit = n
	return b
}

// ShuffleOnEmpty returns a shuffled page when a ranked search matches nothing.
func (b *SearchBuilder[T]) ShuffleOnEmpty() *SearchBuilder[T] {
	b.shuffleOnEmpty = true
	return b
}

// Do executes the search and returns typed results.
func (b *SearchBuilder[T]) Do() Results[T] {
	corpus := b.idx.images
	if b.category != "" {
		corpus = FilterCategory(corpus, b.category)
	}

	engine := b.idx.engine
	page := engine.Rank(corpus, b.query, b.page, b.limit)
	fallback := false
	if b.shuffleOnEmpty && page.Mode == ModeRanked && page.Total == 0 && len(corpus) > 0 {
		query := page.Query
		page = engine.Rank(corpus, "", b.page, b.limit)
		page.Query = query
		fallback = true
	}

	res := Results[T]{
		Hits:     make([]Hit[T], 0, len(page.Items)),
		Total:    page.Total,
		Query:    page.Query,
		Mode:     page.Mode,
		Fallback: fallback,
	}
	ranked := page.Mode == ModeRanked
	for _, img := range page.Items {
		item, ok := b.idx.item(img.ID)
		if !ok {
			continue
		}
		hit := Hit[T]{Item: item}
		if ranked {
			hit.Signals = engine.Explain(img, b.query)
			hit.Score = hit.Signals.Total()
		}
		res.Hits = append(res.Hits, hit)
	}
	return res
}
