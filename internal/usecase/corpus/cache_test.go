package corpus

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/kailas-cloud/gallerydex/internal/domain/image"
)

func fetchReturning(images []image.Image, err error, calls *atomic.Int32) FetchFunc {
	return func(context.Context) ([]image.Image, error) {
		calls.Add(1)
		return images, err
	}
}

func TestCache_HitWithinTTL(t *testing.T) {
	clock := newFakeClock()
	c := NewCache(clock, nil)
	var calls atomic.Int32
	fetch := fetchReturning([]image.Image{{ID: "a"}}, nil, &calls)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		got, err := c.GetOrFetch(ctx, time.Minute, fetch)
		if err != nil || len(got) != 1 {
			t.Fatalf("call %d: got %v err %v", i, got, err)
		}
		clock.Advance(10 * time.Second)
	}
	if calls.Load() != 1 {
		t.Fatalf("expected 1 fetch, got %d", calls.Load())
	}
	if !c.FetchedAt().Equal(time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)) {
		t.Errorf("unexpected FetchedAt %v", c.FetchedAt())
	}
}

func TestCache_RefetchAtTTL(t *testing.T) {
	clock := newFakeClock()
	c := NewCache(clock, nil)
	var calls atomic.Int32
	fetch := fetchReturning([]image.Image{{ID: "a"}}, nil, &calls)
	ctx := context.Background()

	_, _ = c.GetOrFetch(ctx, time.Minute, fetch)
	clock.Advance(time.Minute) // now - fetchedAt == ttl is expired
	_, _ = c.GetOrFetch(ctx, time.Minute, fetch)

	if calls.Load() != 2 {
		t.Fatalf("expected 2 fetches, got %d", calls.Load())
	}
}

func TestCache_StaleIfError(t *testing.T) {
	clock := newFakeClock()
	c := NewCache(clock, nil)
	ctx := context.Background()

	var calls atomic.Int32
	if _, err := c.GetOrFetch(ctx, time.Minute, fetchReturning([]image.Image{{ID: "old"}}, nil, &calls)); err != nil {
		t.Fatal(err)
	}
	clock.Advance(2 * time.Minute)

	got, err := c.GetOrFetch(ctx, time.Minute, fetchReturning(nil, errors.New("cms down"), &calls))
	if err != nil {
		t.Fatalf("expected stale data, got error %v", err)
	}
	if len(got) != 1 || got[0].ID != "old" {
		t.Fatalf("expected stale corpus, got %v", got)
	}
}

func TestCache_ErrorWithoutData(t *testing.T) {
	c := NewCache(newFakeClock(), nil)
	var calls atomic.Int32
	boom := errors.New("boom")

	_, err := c.GetOrFetch(context.Background(), time.Minute, fetchReturning(nil, boom, &calls))
	if !errors.Is(err, boom) {
		t.Fatalf("expected boom, got %v", err)
	}
}

func TestCache_Invalidate(t *testing.T) {
	c := NewCache(newFakeClock(), nil)
	var calls atomic.Int32
	fetch := fetchReturning([]image.Image{{ID: "a"}}, nil, &calls)
	ctx := context.Background()

	_, _ = c.GetOrFetch(ctx, time.Hour, fetch)
	c.Invalidate()
	if !c.FetchedAt().IsZero() {
		t.Error("expected zero FetchedAt after Invalidate")
	}
	_, _ = c.GetOrFetch(ctx, time.Hour, fetch)

	if calls.Load() != 2 {
		t.Fatalf("expected refetch after Invalidate, got %d fetches", calls.Load())
	}
}

func TestCache_ConcurrentMissesShareOneFetch(t *testing.T) {
	c := NewCache(newFakeClock(), nil)
	var calls atomic.Int32
	release := make(chan struct{})
	fetch := func(context.Context) ([]image.Image, error) {
		calls.Add(1)
		<-release
		return []image.Image{{ID: "a"}}, nil
	}

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := c.GetOrFetch(context.Background(), time.Minute, fetch); err != nil {
				t.Error(err)
			}
		}()
	}
	time.Sleep(50 * time.Millisecond)
	close(release)
	wg.Wait()

	if calls.Load() != 1 {
		t.Fatalf("expected a single shared fetch, got %d", calls.Load())
	}
}
