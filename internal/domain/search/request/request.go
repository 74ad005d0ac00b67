package request

import (
	"fmt"
	"strings"

	"github.com/kailas-cloud/gallerydex/internal/domain"
)

// Search parameter limits.
const (
	// MaxQueryLength is the maximum allowed search query length.
	MaxQueryLength = 4096
	DefaultLimit   = 12
	// DefaultToolLimit is the page size used by the agent tool when none is given.
	DefaultToolLimit = 20
	MaxLimit         = 100
)

// Request is a validated search query.
type Request struct {
	query          string
	page           int
	limit          int
	category       string
	shuffleOnEmpty bool
}

// New validates and normalizes search parameters.
// A blank query is valid and selects shuffle mode. page < 1 is clamped to 1.
// limit > MaxLimit is capped; limit <= 0 is kept so the engine returns no items.
func New(query string, page, limit int) (Request, error) {
	if len(query) > MaxQueryLength {
		return Request{}, fmt.Errorf("%w: query too long (max %d chars)", domain.ErrInvalidRequest, MaxQueryLength)
	}
	if page < 1 {
		page = 1
	}
	if limit > MaxLimit {
		limit = MaxLimit
	}

	return Request{
		query: query,
		page:  page,
		limit: limit,
	}, nil
}

// WithCategory returns a copy restricted to one category (exact, case-insensitive).
func (r Request) WithCategory(category string) Request {
	r.category = strings.TrimSpace(category)
	return r
}

// WithShuffleOnEmpty returns a copy that falls back to a shuffled listing when nothing matches.
func (r Request) WithShuffleOnEmpty() Request {
	r.shuffleOnEmpty = true
	return r
}

// Query returns the raw search query text.
func (r *Request) Query() string { return r.query }

// Page returns the 1-based page number.
func (r *Request) Page() int { return r.page }

// Limit returns the page size.
func (r *Request) Limit() int { return r.limit }

// Category returns the category restriction ("" = none).
func (r *Request) Category() string { return r.category }

// ShuffleOnEmpty reports whether an empty ranked result should fall back to a shuffle.
func (r *Request) ShuffleOnEmpty() bool { return r.shuffleOnEmpty }

// IsBlank reports whether the query selects shuffle mode.
func (r *Request) IsBlank() bool { return strings.TrimSpace(r.query) == "" }
