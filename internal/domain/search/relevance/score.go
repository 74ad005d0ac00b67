package relevance

import (
	"strings"

	"github.com/kailas-cloud/gallerydex/internal/domain/image"
)

// Signal weights. Changing any of these changes observable rankings.
const (
	WeightTag         = 15 // query term inside a tag, or a tag inside a query term
	WeightSemanticTag = 8  // synonym found in the tags
	WeightPhrase      = 10 // whole query found in the text fields
	WeightPartial     = 5  // query term found in the text fields
	WeightSynonym     = 3  // synonym found in the text fields
	WeightCategory    = 4  // category found in the query
)

// Signals is the per-signal breakdown of a score.
type Signals struct {
	Tag         int `json:"tag"`
	SemanticTag int `json:"semantic_tag"`
	Phrase      int `json:"phrase"`
	Partial     int `json:"partial"`
	Synonym     int `json:"synonym"`
	Category    int `json:"category"`
}

// Total sums all signals.
func (s Signals) Total() int {
	return s.Tag + s.SemanticTag + s.Phrase + s.Partial + s.Synonym + s.Category
}

// Score returns the relevance of img for q. Zero means no signal matched.
// q must not be blank; blank queries are served by Shuffle.
func Score(img *image.Image, q *Query) int {
	return Explain(img, q).Total()
}

// Explain scores img for q and reports which signals contributed.
func Explain(img *image.Image, q *Query) Signals {
	var s Signals
	text := searchText(img)

	if tags := lowerTags(img.Tags); len(tags) > 0 {
		tagsText := strings.Join(tags, " ")
		for term := range q.Terms {
			if tagMatches(tags, term) {
				s.Tag += WeightTag
			}
		}
		for _, syn := range q.synonyms {
			if strings.Contains(tagsText, syn) {
				s.SemanticTag += WeightSemanticTag
			}
		}
	}

	if q.Raw != "" && strings.Contains(text, q.Raw) {
		s.Phrase = WeightPhrase
	}

	for term := range q.Terms {
		if strings.Contains(text, term) {
			s.Partial += WeightPartial
		}
	}

	for _, syn := range q.synonyms {
		if strings.Contains(text, syn) {
			s.Synonym += WeightSynonym
		}
	}

	if category := strings.ToLower(strings.TrimSpace(img.Category)); category != "" &&
		strings.Contains(q.Raw, category) {
		s.Category = WeightCategory
	}

	return s
}

// tagMatches is deliberately bidirectional: "sunsets" matches tag "sunset" and
// "sun" matches tag "sunset". No other signal checks containment in reverse.
func tagMatches(tags []string, term string) bool {
	for _, tag := range tags {
		if strings.Contains(tag, term) || strings.Contains(term, tag) {
			return true
		}
	}
	return false
}

func searchText(img *image.Image) string {
	return strings.ToLower(strings.Join([]string{
		img.Title, img.Description, img.Category, img.Alt, img.LongDescription,
	}, " "))
}

// lowerTags drops empty tags: an empty tag is contained in every term.
func lowerTags(tags []string) []string {
	if len(tags) == 0 {
		return nil
	}
	out := make([]string, 0, len(tags))
	for _, t := range tags {
		if t = strings.ToLower(strings.TrimSpace(t)); t != "" {
			out = append(out, t)
		}
	}
	return out
}
