package snapshot

import (
	"context"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/gallerydex/internal/db"
)

// mockBlobs implements db.Blobs for tests.
type mockBlobs struct {
	data   map[string][]byte
	ttls   map[string]time.Duration
	getErr error
	setErr error
	delErr error
}

func newMockBlobs() *mockBlobs {
	return &mockBlobs{data: map[string][]byte{}, ttls: map[string]time.Duration{}}
}

func (m *mockBlobs) Get(_ context.Context, key string) ([]byte, error) {
	if m.getErr != nil {
		return nil, m.getErr
	}
	v, ok := m.data[key]
	if !ok {
		return nil, db.ErrKeyNotFound
	}
	return v, nil
}

func (m *mockBlobs) Put(_ context.Context, key string, value []byte, ttl time.Duration) error {
	if m.setErr != nil {
		return m.setErr
	}
	m.data[key] = value
	m.ttls[key] = ttl
	return nil
}

func (m *mockBlobs) Delete(_ context.Context, key string) error {
	if m.delErr != nil {
		return m.delErr
	}
	delete(m.data, key)
	return nil
}

func newTestStore(t *testing.T) (*Store, *mockBlobs) {
	t.Helper()
	kv := newMockBlobs()
	return New(kv, "gallerydex:", 10*time.Minute, zap.NewNop()), kv
}
