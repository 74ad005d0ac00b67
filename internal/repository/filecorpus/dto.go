package filecorpus

import (
	"strings"

	"github.com/kailas-cloud/gallerydex/internal/domain/image"
)

// document mirrors the CMS export layout so a CMS dump can be served as-is.
type document struct {
	Images []record `json:"images" yaml:"images"`
}

type record struct {
	ID                   string   `json:"_id" yaml:"_id"`
	Title                string   `json:"title" yaml:"title"`
	Description          string   `json:"description" yaml:"description"`
	Category             string   `json:"category" yaml:"category"`
	Alt                  string   `json:"alt" yaml:"alt"`
	Tags                 []string `json:"tags" yaml:"tags"`
	EmbeddingDescription string   `json:"embeddingDescription" yaml:"embeddingDescription"`
	ImageURL             string   `json:"imageUrl" yaml:"imageUrl"`
}

func (r *record) toDomain() image.Image {
	return image.Image{
		ID:              strings.TrimSpace(r.ID),
		Title:           r.Title,
		Description:     r.Description,
		Category:        r.Category,
		Alt:             r.Alt,
		Tags:            r.Tags,
		LongDescription: r.EmbeddingDescription,
		SourceURL:       strings.TrimSpace(r.ImageURL),
	}
}
