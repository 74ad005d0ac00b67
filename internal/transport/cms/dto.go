package cms

import (
	"strings"

	"github.com/kailas-cloud/gallerydex/internal/domain/image"
)

type collectionResponse struct {
	Items []item `json:"items"`
}

type item struct {
	ID                   string   `json:"_id"`
	Title                string   `json:"title"`
	Description          string   `json:"description"`
	Category             string   `json:"category"`
	Alt                  string   `json:"alt"`
	Tags                 []string `json:"tags"`
	EmbeddingDescription string   `json:"embeddingDescription"`
	ImageURL             string   `json:"imageUrl"`
}

func (it *item) toDomain() image.Image {
	return image.Image{
		ID:              strings.TrimSpace(it.ID),
		Title:           it.Title,
		Description:     it.Description,
		Category:        it.Category,
		Alt:             it.Alt,
		Tags:            it.Tags,
		LongDescription: it.EmbeddingDescription,
		SourceURL:       strings.TrimSpace(it.ImageURL),
	}
}
