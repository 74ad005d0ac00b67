// Package relevance ranks an in-memory image corpus against a free-text query.
//
// Scoring is lexical: substring matches on tags and text fields, weighted per
// signal, plus a fixed synonym table. Ranking is deterministic for a given
// corpus order; blank queries are served by Shuffle instead.
package relevance

import (
	"slices"
	"strings"

	"github.com/kailas-cloud/gallerydex/internal/domain/image"
	"github.com/kailas-cloud/gallerydex/internal/domain/search/mode"
	"github.com/kailas-cloud/gallerydex/internal/domain/search/result"
)

// Engine ranks corpora with a fixed synonym table. It holds no mutable state
// and is safe for concurrent use.
type Engine struct {
	synonyms SynonymTable
}

// NewEngine creates an engine. A nil table disables synonym expansion.
func NewEngine(table SynonymTable) *Engine {
	if table == nil {
		table = SynonymTable{}
	}
	return &Engine{synonyms: table}
}

// Synonyms returns the engine's table. Callers must not modify it.
func (e *Engine) Synonyms() SynonymTable { return e.synonyms }

// Expand normalizes query and expands it with the engine's synonyms.
func (e *Engine) Expand(query string) Query {
	return Expand(query, e.synonyms)
}

type scored struct {
	img   image.Image
	score int
}

// Rank returns one page of corpus ordered by relevance to query.
//
// A blank query returns a shuffled page of the whole corpus. Otherwise
// zero-score records are dropped and the rest are sorted by score, highest
// first, keeping corpus order on ties. page < 1 is treated as 1 and
// limit <= 0 yields no items; Total is always the number of matches.
func (e *Engine) Rank(corpus []image.Image, query string, page, limit int) result.Page {
	q := e.Expand(query)
	if q.IsBlank() {
		all := Shuffle(corpus)
		return result.New(paginate(all, page, limit), len(all), "", mode.Shuffle)
	}

	matches := e.match(corpus, &q)
	items := make([]image.Image, len(matches))
	for i := range matches {
		items[i] = matches[i].img
	}
	return result.New(paginate(items, page, limit), len(items), strings.TrimSpace(query), mode.Ranked)
}

// match scores every record and returns the non-zero ones, best first.
func (e *Engine) match(corpus []image.Image, q *Query) []scored {
	matches := make([]scored, 0, len(corpus))
	for i := range corpus {
		if s := Score(&corpus[i], q); s > 0 {
			matches = append(matches, scored{img: corpus[i], score: s})
		}
	}
	slices.SortStableFunc(matches, func(a, b scored) int {
		return b.score - a.score
	})
	return matches
}

// paginate returns items[(page-1)*limit : page*limit], clipped, without overflowing.
func paginate(items []image.Image, page, limit int) []image.Image {
	if limit <= 0 || len(items) == 0 {
		return nil
	}
	if page < 1 {
		page = 1
	}
	if page-1 > len(items)/limit {
		return nil
	}
	start := (page - 1) * limit
	if start >= len(items) {
		return nil
	}
	end := len(items)
	if limit < end-start {
		end = start + limit
	}
	return items[start:end]
}
