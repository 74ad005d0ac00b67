package snapshot

import "github.com/kailas-cloud/gallerydex/internal/domain/image"

// payload is the JSON document stored under the snapshot key.
type payload struct {
	Images []imageDTO `json:"images"`
}

type imageDTO struct {
	ID              string   `json:"id"`
	Title           string   `json:"title,omitempty"`
	Description     string   `json:"description,omitempty"`
	Category        string   `json:"category,omitempty"`
	Alt             string   `json:"alt,omitempty"`
	Tags            []string `json:"tags,omitempty"`
	LongDescription string   `json:"long_description,omitempty"`
	SourceURL       string   `json:"source_url,omitempty"`
}

func toDTO(images []image.Image) payload {
	out := payload{Images: make([]imageDTO, len(images))}
	for i := range images {
		img := &images[i]
		out.Images[i] = imageDTO{
			ID:              img.ID,
			Title:           img.Title,
			Description:     img.Description,
			Category:        img.Category,
			Alt:             img.Alt,
			Tags:            img.Tags,
			LongDescription: img.LongDescription,
			SourceURL:       img.SourceURL,
		}
	}
	return out
}

func (p payload) toDomain() []image.Image {
	out := make([]image.Image, len(p.Images))
	for i, d := range p.Images {
		out[i] = image.Image{
			ID:              d.ID,
			Title:           d.Title,
			Description:     d.Description,
			Category:        d.Category,
			Alt:             d.Alt,
			Tags:            d.Tags,
			LongDescription: d.LongDescription,
			SourceURL:       d.SourceURL,
		}
	}
	return out
}
