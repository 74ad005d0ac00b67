package relevance

import (
	"fmt"
	"io"
	"slices"
	"strings"

	"gopkg.in/yaml.v3"
)

// SynonymTable maps a lowercase concept term to related lowercase terms.
// Tables are read-only once built; Merge returns a new table.
type SynonymTable map[string][]string

// defaultSynonyms covers the photographer's catalogue, English and German.
var defaultSynonyms = SynonymTable{
	"evening":    {"sunset", "dusk", "twilight", "golden hour", "abend", "sonnenuntergang", "dämmerung"},
	"sunset":     {"dusk", "twilight", "golden hour", "sonnenuntergang", "abendrot"},
	"morning":    {"sunrise", "dawn", "fog", "mist", "morgen", "sonnenaufgang"},
	"night":      {"stars", "moon", "dark", "nacht", "sterne"},
	"wedding":    {"bride", "groom", "ceremony", "bridal", "vows", "hochzeit", "braut", "bräutigam"},
	"couple":     {"engagement", "love", "romance", "paar", "verlobung"},
	"portrait":   {"headshot", "person", "people", "porträt", "bildnis"},
	"family":     {"children", "kids", "parents", "familie", "kinder"},
	"landscape":  {"scenery", "vista", "panorama", "nature", "landschaft"},
	"nature":     {"forest", "tree", "flower", "wildlife", "natur", "wald"},
	"city":       {"urban", "street", "architecture", "skyline", "stadt", "straße"},
	"water":      {"lake", "sea", "ocean", "river", "wasser", "meer"},
	"beach":      {"sand", "coast", "shore", "strand", "küste"},
	"mountain":   {"alps", "peak", "summit", "hiking", "berg", "gebirge", "alpen"},
	"winter":     {"snow", "ice", "frost", "schnee"},
	"summer":     {"sunshine", "warm", "sommer", "sonne"},
	"autumn":     {"fall", "leaves", "foliage", "herbst", "laub"},
	"spring":     {"blossom", "bloom", "frühling"},
	"animal":     {"dog", "cat", "horse", "bird", "tier", "hund", "katze", "pferd"},
	"food":       {"dish", "meal", "restaurant", "essen", "gericht"},
	"event":      {"party", "celebration", "festival", "veranstaltung", "feier"},
	"abend":      {"evening", "sunset", "dusk", "sonnenuntergang", "dämmerung"},
	"hochzeit":   {"wedding", "bride", "groom", "braut", "trauung"},
	"landschaft": {"landscape", "scenery", "natur", "panorama"},
	"berg":       {"mountain", "alps", "alpen", "gipfel"},
}

// DefaultSynonyms returns the built-in table. Callers must not modify it.
func DefaultSynonyms() SynonymTable {
	return defaultSynonyms
}

// Lookup returns the related terms for a concept (nil when term is not a key).
func (t SynonymTable) Lookup(term string) []string {
	return t[term]
}

// Keys returns the concept terms in sorted order.
func (t SynonymTable) Keys() []string {
	keys := make([]string, 0, len(t))
	for k := range t {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}

// Merge returns a new table with extra's entries appended to t's.
// Keys and terms are lowercased and trimmed; duplicates and blanks are dropped.
func (t SynonymTable) Merge(extra SynonymTable) SynonymTable {
	merged := make(SynonymTable, len(t)+len(extra))
	for _, src := range []SynonymTable{t, extra} {
		for k, terms := range src {
			key := normalizeTerm(k)
			if key == "" {
				continue
			}
			for _, term := range terms {
				term = normalizeTerm(term)
				if term == "" || term == key || slices.Contains(merged[key], term) {
					continue
				}
				merged[key] = append(merged[key], term)
			}
		}
	}
	return merged
}

// DecodeSynonyms reads a YAML mapping of concept -> [terms].
func DecodeSynonyms(r io.Reader) (SynonymTable, error) {
	var raw map[string][]string
	if err := yaml.NewDecoder(r).Decode(&raw); err != nil {
		if err == io.EOF {
			return SynonymTable{}, nil
		}
		return nil, fmt.Errorf("decode synonyms: %w", err)
	}
	return SynonymTable{}.Merge(raw), nil
}

func normalizeTerm(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
