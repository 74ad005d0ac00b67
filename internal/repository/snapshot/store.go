package snapshot

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/gallerydex/internal/db"
	"github.com/kailas-cloud/gallerydex/internal/domain/image"
)

const snapshotKey = "corpus:snapshot"

// Store keeps the merged corpus in a shared key-value cache so replicas skip the CMS round-trip.
type Store struct {
	kv     db.Blobs
	key    string
	ttl    time.Duration
	logger *zap.Logger
}

// New creates a snapshot store. prefix namespaces the key (e.g. "gallerydex:").
func New(kv db.Blobs, prefix string, ttl time.Duration, logger *zap.Logger) *Store {
	return &Store{
		kv:     kv,
		key:    prefix + snapshotKey,
		ttl:    ttl,
		logger: logger,
	}
}

// Key returns the full cache key.
func (s *Store) Key() string { return s.key }

// Load returns the cached corpus. ok is false on a miss; a corrupt payload counts as a miss.
func (s *Store) Load(ctx context.Context) ([]image.Image, bool, error) {
	data, err := s.kv.Get(ctx, s.key)
	if err != nil {
		if errors.Is(err, db.ErrKeyNotFound) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("load snapshot: %w", err)
	}

	var p payload
	if err := json.Unmarshal(data, &p); err != nil {
		s.logger.Warn("Discarding undecodable corpus snapshot", zap.String("key", s.key), zap.Error(err))
		return nil, false, nil
	}
	return p.toDomain(), true, nil
}

// Save writes the corpus with the configured TTL.
func (s *Store) Save(ctx context.Context, images []image.Image) error {
	data, err := json.Marshal(toDTO(images))
	if err != nil {
		return fmt.Errorf("encode snapshot: %w", err)
	}
	if err := s.kv.Put(ctx, s.key, data, s.ttl); err != nil {
		return fmt.Errorf("save snapshot: %w", err)
	}
	return nil
}

// Clear drops the snapshot so the next load goes to the sources.
func (s *Store) Clear(ctx context.Context) error {
	if err := s.kv.Delete(ctx, s.key); err != nil {
		return fmt.Errorf("clear snapshot: %w", err)
	}
	return nil
}
