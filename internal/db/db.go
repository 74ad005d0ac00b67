package db

import (
	"context"
	"time"
)

// Pinger checks connectivity to the shared cache.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Blobs is the byte-oriented key-value surface of the shared cache.
// Every write carries a TTL; nothing is stored without expiry.
type Blobs interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Put(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}
