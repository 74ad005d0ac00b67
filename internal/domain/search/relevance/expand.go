package relevance

import (
	"slices"
	"strings"
)

// Terms is a set of lowercase search terms.
type Terms map[string]struct{}

// Has reports whether term is in the set.
func (t Terms) Has(term string) bool {
	_, ok := t[term]
	return ok
}

// Sorted returns the members in lexical order.
func (t Terms) Sorted() []string {
	out := make([]string, 0, len(t))
	for term := range t {
		out = append(out, term)
	}
	slices.Sort(out)
	return out
}

// Query is a normalized, synonym-expanded search query.
type Query struct {
	// Raw is the lowercased, trimmed query string used for phrase and category checks.
	Raw string
	// Terms holds the whitespace-separated tokens of Raw.
	Terms Terms
	// Expanded holds Terms plus the synonyms of every term that is a table key.
	Expanded Terms

	synonyms []string
}

// IsBlank reports whether the query has no terms (shuffle mode).
func (q *Query) IsBlank() bool { return len(q.Terms) == 0 }

// Synonyms returns the expanded terms that were not typed by the user, sorted.
func (q *Query) Synonyms() []string { return q.synonyms }

// Expand lowercases and splits query on whitespace, then unions in synonyms from table.
// No stemming or punctuation handling is done.
func Expand(query string, table SynonymTable) Query {
	raw := strings.ToLower(strings.TrimSpace(query))
	fields := strings.Fields(raw)

	terms := make(Terms, len(fields))
	for _, f := range fields {
		terms[f] = struct{}{}
	}

	expanded := make(Terms, len(terms))
	for term := range terms {
		expanded[term] = struct{}{}
	}
	for term := range terms {
		for _, syn := range table.Lookup(term) {
			expanded[syn] = struct{}{}
		}
	}

	var synonyms []string
	for term := range expanded {
		if !terms.Has(term) {
			synonyms = append(synonyms, term)
		}
	}
	slices.Sort(synonyms)

	return Query{Raw: raw, Terms: terms, Expanded: expanded, synonyms: synonyms}
}
