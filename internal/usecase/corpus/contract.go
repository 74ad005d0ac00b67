package corpus

import (
	"context"

	"github.com/kailas-cloud/gallerydex/internal/domain/image"
)

// Source delivers the full list of gallery images from one backend (CMS, file).
type Source interface {
	Name() string
	Fetch(ctx context.Context) ([]image.Image, error)
}

// SnapshotStore is the shared second-tier cache for the merged corpus.
type SnapshotStore interface {
	Load(ctx context.Context) ([]image.Image, bool, error)
	Save(ctx context.Context, images []image.Image) error
	Clear(ctx context.Context) error
}
