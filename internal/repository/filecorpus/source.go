package filecorpus

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/kailas-cloud/gallerydex/internal/domain/image"
)

// Source loads the gallery from a local YAML or JSON file.
type Source struct {
	path string
}

// New creates a file source. The format is picked from the extension (.json, otherwise YAML).
func New(path string) *Source {
	return &Source{path: path}
}

// Name identifies the source in logs and metrics.
func (s *Source) Name() string { return "file" }

// Path returns the watched file path.
func (s *Source) Path() string { return s.path }

// Fetch reads and decodes the whole file on every call; caching is the provider's job.
func (s *Source) Fetch(ctx context.Context) ([]image.Image, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(s.path)
	if err != nil {
		return nil, fmt.Errorf("read corpus file: %w", err)
	}

	images, err := Decode(bytes.NewReader(data), isJSON(s.path))
	if err != nil {
		return nil, fmt.Errorf("decode corpus file %s: %w", filepath.Base(s.path), err)
	}
	return images, nil
}

// Decode parses a corpus document. An empty document yields an empty corpus.
func Decode(r io.Reader, asJSON bool) ([]image.Image, error) {
	var doc document
	var err error
	if asJSON {
		err = json.NewDecoder(r).Decode(&doc)
	} else {
		err = yaml.NewDecoder(r).Decode(&doc)
	}
	if err != nil && !errors.Is(err, io.EOF) {
		return nil, err
	}

	out := make([]image.Image, 0, len(doc.Images))
	for i := range doc.Images {
		out = append(out, doc.Images[i].toDomain())
	}
	return out, nil
}

func isJSON(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".json")
}
