package chi

import (
	"github.com/kailas-cloud/gallerydex/internal/domain/image"
	"github.com/kailas-cloud/gallerydex/internal/domain/search/result"
)

// ErrorResponseCode is a machine-readable error code.
type ErrorResponseCode string

// Error codes returned by the HTTP API.
const (
	ErrorResponseCodeBadRequest       ErrorResponseCode = "bad_request"
	ErrorResponseCodeValidationFailed ErrorResponseCode = "validation_failed"
	ErrorResponseCodeUnauthorized     ErrorResponseCode = "unauthorized"
	ErrorResponseCodeInternalError    ErrorResponseCode = "internal_error"
)

// ErrorResponse is the JSON error body.
type ErrorResponse struct {
	Code    ErrorResponseCode `json:"code"`
	Message string            `json:"message"`
}

// ImageItem keeps the CMS field names so existing gallery clients can consume results unchanged.
type ImageItem struct {
	ID                   string   `json:"_id"`
	Title                string   `json:"title,omitempty"`
	Description          string   `json:"description,omitempty"`
	Category             string   `json:"category,omitempty"`
	Alt                  string   `json:"alt,omitempty"`
	Tags                 []string `json:"tags,omitempty"`
	EmbeddingDescription string   `json:"embeddingDescription,omitempty"`
	ImageURL             string   `json:"imageUrl,omitempty"`
}

// GalleryResponse is the envelope for GET /api/v1/images.
type GalleryResponse struct {
	Items    []ImageItem `json:"items"`
	Count    int         `json:"count"`
	Total    int         `json:"total"`
	Query    string      `json:"query"`
	Page     int         `json:"page"`
	Limit    int         `json:"limit"`
	Mode     string      `json:"mode"`
	Category string      `json:"category,omitempty"`
}

// HealthResponse is the JSON body for GET /health.
type HealthResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks"`
}

func imageToItem(img *image.Image) ImageItem {
	return ImageItem{
		ID:                   img.ID,
		Title:                img.Title,
		Description:          img.Description,
		Category:             img.Category,
		Alt:                  img.Alt,
		Tags:                 img.Tags,
		EmbeddingDescription: img.LongDescription,
		ImageURL:             img.SourceURL,
	}
}

func pageToItems(p *result.Page) []ImageItem {
	images := p.Items()
	items := make([]ImageItem, len(images))
	for i := range images {
		items[i] = imageToItem(&images[i])
	}
	return items
}
