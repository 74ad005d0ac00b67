package image

import "strings"

// Image is a single gallery record as seen by the ranking engine.
// All text fields are optional; a zero value is a valid (if unmatchable) record.
type Image struct {
	ID              string
	Title           string
	Description     string
	Category        string
	Alt             string
	Tags            []string
	LongDescription string // CMS "embedding description", searched but never treated as tags
	SourceURL       string // secondary key for multi-source dedupe, not scored
}

// DedupeKey returns the key used to collapse the same picture delivered by several sources.
// SourceURL wins; records without one fall back to ID.
func (i *Image) DedupeKey() string {
	if i.SourceURL != "" {
		return "url:" + i.SourceURL
	}
	return "id:" + i.ID
}

// InCategory reports whether the record belongs to category (case-insensitive, exact).
func (i *Image) InCategory(category string) bool {
	return strings.EqualFold(strings.TrimSpace(i.Category), strings.TrimSpace(category))
}

// Clone returns a deep copy so callers can hand records out without sharing tag slices.
func (i *Image) Clone() Image {
	c := *i
	if i.Tags != nil {
		c.Tags = append([]string(nil), i.Tags...)
	}
	return c
}
