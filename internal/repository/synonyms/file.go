// Package synonyms loads extra synonym entries from disk.
package synonyms

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/kailas-cloud/gallerydex/internal/domain/search/relevance"
)

// Load returns the built-in table merged with the YAML file at path.
// An empty path yields the built-in table.
func Load(path string) (relevance.SynonymTable, error) {
	if path == "" {
		return relevance.DefaultSynonyms(), nil
	}
	extra, err := Read(path)
	if err != nil {
		return nil, err
	}
	return relevance.DefaultSynonyms().Merge(extra), nil
}

// Read decodes only the YAML file at path.
func Read(path string) (relevance.SynonymTable, error) {
	f, err := os.Open(filepath.Clean(path))
	if err != nil {
		return nil, fmt.Errorf("failed to open synonyms file: %w", err)
	}
	defer f.Close()

	table, err := relevance.DecodeSynonyms(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return table, nil
}
