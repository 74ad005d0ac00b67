package corpus

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/kailas-cloud/gallerydex/internal/domain/image"
)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	c.mu.Unlock()
}

type mockSource struct {
	name   string
	images []image.Image
	err    error
	delay  time.Duration
	calls  atomic.Int32
}

func (m *mockSource) Name() string { return m.name }

func (m *mockSource) Fetch(ctx context.Context) ([]image.Image, error) {
	m.calls.Add(1)
	if m.delay > 0 {
		select {
		case <-time.After(m.delay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if m.err != nil {
		return nil, m.err
	}
	return m.images, nil
}

type mockSnapshot struct {
	mu      sync.Mutex
	images  []image.Image
	has     bool
	loadErr error
	saveErr error
	saves   int
	clears  int
}

func (m *mockSnapshot) Load(_ context.Context) ([]image.Image, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.loadErr != nil {
		return nil, false, m.loadErr
	}
	return m.images, m.has, nil
}

func (m *mockSnapshot) Save(_ context.Context, images []image.Image) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.saves++
	if m.saveErr != nil {
		return m.saveErr
	}
	m.images, m.has = images, true
	return nil
}

func (m *mockSnapshot) Clear(_ context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.clears++
	m.images, m.has = nil, false
	return nil
}
