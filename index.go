package gallerydex

import (
	"fmt"
)

// TypedIndex ranks a fixed slice of caller-defined structs.
// Field roles are read from T's `gallerydex:"..."` struct tags at construction time.
type TypedIndex[T any] struct {
	engine *Engine
	meta   *schemaMeta
	items  []T
	images []Image
	byID   map[string]int
}

// NewIndex creates a typed index over items. IDs must be unique.
func NewIndex[T any](engine *Engine, items []T) (*TypedIndex[T], error) {
	if engine == nil {
		return nil, fmt.Errorf("gallerydex: new index: engine is required")
	}
	meta, err := parseSchema[T]()
	if err != nil {
		return nil, fmt.Errorf("new index: %w", err)
	}

	idx := &TypedIndex[T]{
		engine: engine,
		meta:   meta,
		items:  items,
		images: make([]Image, len(items)),
		byID:   make(map[string]int, len(items)),
	}
	for i := range items {
		img, err := meta.toImage(items[i])
		if err != nil {
			return nil, fmt.Errorf("gallerydex: new index: item %d: %w", i, err)
		}
		if _, dup := idx.byID[img.ID]; dup {
			return nil, fmt.Errorf("gallerydex: new index: duplicate id %q at item %d", img.ID, i)
		}
		idx.byID[img.ID] = i
		idx.images[i] = img
	}
	return idx, nil
}

// Len returns the number of indexed items.
func (idx *TypedIndex[T]) Len() int { return len(idx.items) }

// Images returns the indexed items as Images, in input order.
func (idx *TypedIndex[T]) Images() []Image {
	out := make([]Image, len(idx.images))
	copy(out, idx.images)
	return out
}

// Search returns a fluent search builder for this index.
func (idx *TypedIndex[T]) Search() *SearchBuilder[T] {
	return &SearchBuilder[T]{idx: idx, page: 1, limit: DefaultLimit}
}

func (idx *TypedIndex[T]) item(id string) (T, bool) {
	i, ok := idx.byID[id]
	if !ok {
		var zero T
		return zero, false
	}
	return idx.items[i], true
}
