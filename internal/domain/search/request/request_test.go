package request

import (
	"errors"
	"strings"
	"testing"

	"github.com/kailas-cloud/gallerydex/internal/domain"
)

func TestNew_Valid(t *testing.T) {
	r, err := New("sunset", 2, 12)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if r.Query() != "sunset" {
		t.Errorf("Query() = %q", r.Query())
	}
	if r.Page() != 2 {
		t.Errorf("Page() = %d", r.Page())
	}
	if r.Limit() != 12 {
		t.Errorf("Limit() = %d", r.Limit())
	}
	if r.Category() != "" {
		t.Errorf("Category() = %q", r.Category())
	}
	if r.ShuffleOnEmpty() {
		t.Error("ShuffleOnEmpty() should default to false")
	}
}

func TestNew_ClampsPage(t *testing.T) {
	for _, page := range []int{0, -1, -100} {
		r, err := New("x", page, 10)
		if err != nil {
			t.Fatalf("page=%d: unexpected error: %v", page, err)
		}
		if r.Page() != 1 {
			t.Errorf("page=%d: Page() = %d, want 1", page, r.Page())
		}
	}
}

func TestNew_LimitBounds(t *testing.T) {
	tests := []struct {
		in, want int
	}{
		{MaxLimit + 1, MaxLimit},
		{1000, MaxLimit},
		{MaxLimit, MaxLimit},
		{5, 5},
		{0, 0},
		{-3, -3},
	}
	for _, tc := range tests {
		r, err := New("x", 1, tc.in)
		if err != nil {
			t.Fatalf("limit=%d: unexpected error: %v", tc.in, err)
		}
		if r.Limit() != tc.want {
			t.Errorf("limit=%d: Limit() = %d, want %d", tc.in, r.Limit(), tc.want)
		}
	}
}

func TestNew_QueryTooLong(t *testing.T) {
	_, err := New(strings.Repeat("a", MaxQueryLength+1), 1, 10)
	if !errors.Is(err, domain.ErrInvalidRequest) {
		t.Fatalf("expected ErrInvalidRequest, got %v", err)
	}
}

func TestNew_QueryAtLimit(t *testing.T) {
	if _, err := New(strings.Repeat("a", MaxQueryLength), 1, 10); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestIsBlank(t *testing.T) {
	tests := []struct {
		q    string
		want bool
	}{
		{"", true},
		{"   ", true},
		{"\t\n", true},
		{" a ", false},
	}
	for _, tc := range tests {
		r, _ := New(tc.q, 1, 10)
		if got := r.IsBlank(); got != tc.want {
			t.Errorf("IsBlank(%q) = %v, want %v", tc.q, got, tc.want)
		}
	}
}

func TestWithOptions_ReturnCopies(t *testing.T) {
	r, _ := New("x", 1, 10)
	c := r.WithCategory(" Wedding ").WithShuffleOnEmpty()

	if c.Category() != "Wedding" {
		t.Errorf("Category() = %q", c.Category())
	}
	if !c.ShuffleOnEmpty() {
		t.Error("expected ShuffleOnEmpty on copy")
	}
	if r.Category() != "" || r.ShuffleOnEmpty() {
		t.Error("original request must not change")
	}
}
