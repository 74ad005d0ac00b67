package gallerydex

import (
	"fmt"
	"maps"
	"slices"

	"github.com/kailas-cloud/gallerydex/internal/domain/image"
	"github.com/kailas-cloud/gallerydex/internal/domain/search/relevance"
	"github.com/kailas-cloud/gallerydex/internal/repository/synonyms"
)

// Engine ranks in-memory image collections by free-text relevance.
// It is read-only after construction and safe for concurrent use.
type Engine struct {
	inner *relevance.Engine
}

// NewEngine creates an Engine with the built-in English/German synonym table
// plus any extra synonyms from opts.
func NewEngine(opts ...Option) (*Engine, error) {
	cfg := &engineConfig{}
	for _, o := range opts {
		o.apply(cfg)
	}

	table := relevance.DefaultSynonyms()
	if cfg.withoutDefaults {
		table = relevance.SynonymTable{}
	}
	if cfg.synonymsFile != "" {
		extra, err := synonyms.Read(cfg.synonymsFile)
		if err != nil {
			return nil, fmt.Errorf("gallerydex: %w", err)
		}
		table = table.Merge(extra)
	}
	if len(cfg.synonyms) > 0 {
		table = table.Merge(cfg.synonyms)
	}

	return &Engine{inner: relevance.NewEngine(table)}, nil
}

// Rank orders corpus by relevance to query and returns one page.
//
// A blank query returns the whole corpus in random order. Records with no
// matching signal are left out; ties keep corpus order. page < 1 is treated
// as 1 and limit <= 0 returns no items; Total is always the match count.
func (e *Engine) Rank(corpus []Image, query string, page, limit int) Page {
	p := e.inner.Rank(toInternalImages(corpus), query, page, limit)
	return fromInternalPage(&p)
}

// Score returns the relevance of img for query (0 when nothing matches).
func (e *Engine) Score(img Image, query string) int {
	return e.Explain(img, query).Total()
}

// Explain returns the per-rule breakdown of img's score for query.
func (e *Engine) Explain(img Image, query string) Signals {
	q := e.inner.Expand(query)
	if q.IsBlank() {
		return Signals{}
	}
	internal := toInternalImage(&img)
	return relevance.Explain(&internal, &q)
}

// Expand returns the query terms followed by the synonyms they pull in.
func (e *Engine) Expand(query string) (terms, synonyms []string) {
	q := e.inner.Expand(query)
	return q.Terms.Sorted(), slices.Clone(q.Synonyms())
}

// Synonyms returns a copy of the effective synonym table.
func (e *Engine) Synonyms() map[string][]string {
	return cloneTable(e.inner.Synonyms())
}

// DefaultSynonyms returns a copy of the built-in synonym table.
func DefaultSynonyms() map[string][]string {
	return cloneTable(relevance.DefaultSynonyms())
}

// Shuffle returns the images in random order without modifying the input.
func Shuffle(images []Image) []Image {
	shuffled := relevance.Shuffle(toInternalImages(images))
	out := make([]Image, len(shuffled))
	for i := range shuffled {
		out[i] = fromInternalImage(&shuffled[i])
	}
	return out
}

// FilterCategory returns the images whose category equals category, ignoring case.
func FilterCategory(images []Image, category string) []Image {
	out := make([]Image, 0, len(images))
	for i := range images {
		internal := image.Image{Category: images[i].Category}
		if internal.InCategory(category) {
			out = append(out, images[i])
		}
	}
	return out
}

func cloneTable(t relevance.SynonymTable) map[string][]string {
	out := make(map[string][]string, len(t))
	for k, v := range maps.All(t) {
		out[k] = slices.Clone(v)
	}
	return out
}
