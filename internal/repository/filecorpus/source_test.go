package filecorpus

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"go.uber.org/zap"
)

const yamlCorpus = `images:
  - _id: img-1
    title: Sunset over the lake
    category: Nature
    tags: [sunset, lake]
    imageUrl: https://cdn.example.com/1.jpg
  - _id: img-2
    title: Bride and groom
    embeddingDescription: A couple exchanging vows in a chapel
`

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestFetch_YAML(t *testing.T) {
	s := New(writeFile(t, "corpus.yaml", yamlCorpus))

	got, err := s.Fetch(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 images, got %d", len(got))
	}
	if got[0].ID != "img-1" || got[0].SourceURL != "https://cdn.example.com/1.jpg" || len(got[0].Tags) != 2 {
		t.Errorf("unexpected first record: %+v", got[0])
	}
	if got[1].LongDescription != "A couple exchanging vows in a chapel" || got[1].Tags != nil {
		t.Errorf("unexpected second record: %+v", got[1])
	}
}

func TestFetch_JSON(t *testing.T) {
	s := New(writeFile(t, "corpus.JSON",
		`{"images":[{"_id":"a","title":"Alpine peak","tags":["mountain"]}]}`))

	got, err := s.Fetch(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 1 || got[0].Title != "Alpine peak" {
		t.Fatalf("unexpected corpus: %+v", got)
	}
}

func TestFetch_EmptyFile(t *testing.T) {
	s := New(writeFile(t, "corpus.yaml", ""))

	got, err := s.Fetch(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got == nil || len(got) != 0 {
		t.Fatalf("expected empty non-nil corpus, got %#v", got)
	}
}

func TestFetch_Errors(t *testing.T) {
	tests := []struct {
		name string
		path string
	}{
		{"missing file", filepath.Join(t.TempDir(), "nope.yaml")},
		{"bad json", writeFile(t, "bad.json", "{")},
		{"bad yaml", writeFile(t, "bad.yaml", "images: [unterminated")},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := New(tc.path).Fetch(context.Background()); err == nil {
				t.Fatal("expected error")
			}
		})
	}
}

func TestFetch_CanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := New(writeFile(t, "c.yaml", yamlCorpus)).Fetch(ctx); err == nil {
		t.Fatal("expected context error")
	}
}

func TestDecode_TrimsKeys(t *testing.T) {
	got, err := Decode(strings.NewReader(`{"images":[{"_id":" x ","imageUrl":" u "}]}`), true)
	if err != nil {
		t.Fatal(err)
	}
	if got[0].ID != "x" || got[0].SourceURL != "u" {
		t.Errorf("expected trimmed keys, got %+v", got[0])
	}
}

func TestName(t *testing.T) {
	if New("x").Name() != "file" {
		t.Error("unexpected name")
	}
}

func TestWatch_DebouncesWrites(t *testing.T) {
	path := writeFile(t, "corpus.yaml", yamlCorpus)
	s := New(path)

	var calls atomic.Int32
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- s.Watch(ctx, 200*time.Millisecond, func() { calls.Add(1) }, zap.NewNop())
	}()

	// Give the watcher time to register.
	time.Sleep(100 * time.Millisecond)
	for i := 0; i < 3; i++ {
		if err := os.WriteFile(path, []byte(yamlCorpus), 0o600); err != nil {
			t.Fatal(err)
		}
	}

	deadline := time.Now().Add(2 * time.Second)
	for calls.Load() == 0 && time.Now().Before(deadline) {
		time.Sleep(10 * time.Millisecond)
	}
	cancel()
	if err := <-done; err != nil {
		t.Fatalf("Watch returned error: %v", err)
	}

	if n := calls.Load(); n != 1 {
		t.Fatalf("expected exactly one debounced callback, got %d", n)
	}
}

func TestWatch_IgnoresOtherFiles(t *testing.T) {
	path := writeFile(t, "corpus.yaml", yamlCorpus)
	s := New(path)

	var calls atomic.Int32
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- s.Watch(ctx, 10*time.Millisecond, func() { calls.Add(1) }, zap.NewNop())
	}()

	time.Sleep(100 * time.Millisecond)
	other := filepath.Join(filepath.Dir(path), "other.txt")
	if err := os.WriteFile(other, []byte("x"), 0o600); err != nil {
		t.Fatal(err)
	}
	time.Sleep(150 * time.Millisecond)
	cancel()
	<-done

	if calls.Load() != 0 {
		t.Fatal("expected no callback for unrelated files")
	}
}

func TestWatch_MissingDirectory(t *testing.T) {
	s := New(filepath.Join(t.TempDir(), "gone", "corpus.yaml"))
	if err := s.Watch(context.Background(), time.Millisecond, func() {}, zap.NewNop()); err == nil {
		t.Fatal("expected error watching a missing directory")
	}
}
