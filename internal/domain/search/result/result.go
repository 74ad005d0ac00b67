package result

import (
	"github.com/kailas-cloud/gallerydex/internal/domain/image"
	"github.com/kailas-cloud/gallerydex/internal/domain/search/mode"
)

// Page is one window of a ranked or shuffled listing.
type Page struct {
	items    []image.Image
	total    int
	query    string
	mode     mode.Mode
	fallback bool
}

// New creates a page. items may be nil; Items() always returns a non-nil slice.
func New(items []image.Image, total int, query string, m mode.Mode) Page {
	return Page{items: items, total: total, query: query, mode: m}
}

// Empty creates a page with no items.
func Empty(query string, m mode.Mode) Page {
	return Page{query: query, mode: m}
}

// Items returns the records in this window.
func (p *Page) Items() []image.Image {
	if p.items == nil {
		return []image.Image{}
	}
	return p.items
}

// Count returns the number of records in this window.
func (p *Page) Count() int { return len(p.items) }

// Total returns the number of matches before pagination.
func (p *Page) Total() int { return p.total }

// Query returns the query the page was produced for ("" in shuffle mode).
func (p *Page) Query() string { return p.query }

// Mode returns how the page was produced.
func (p *Page) Mode() mode.Mode { return p.mode }

// Fallback reports whether an empty ranked result was replaced by a shuffled listing.
func (p *Page) Fallback() bool { return p.fallback }

// AsFallback returns a copy marked as a fallback listing.
func (p *Page) AsFallback() Page {
	c := *p
	c.fallback = true
	return c
}
