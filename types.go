package gallerydex

import (
	"github.com/kailas-cloud/gallerydex/internal/domain/image"
	"github.com/kailas-cloud/gallerydex/internal/domain/search/mode"
	"github.com/kailas-cloud/gallerydex/internal/domain/search/relevance"
	"github.com/kailas-cloud/gallerydex/internal/domain/search/result"
)

// Image is one gallery record. Every field is optional.
type Image struct {
	ID              string
	Title           string
	Description     string
	Category        string
	Alt             string
	Tags            []string
	LongDescription string
	URL             string
}

// Mode tells how a page was produced.
type Mode string

// Page modes.
const (
	ModeRanked  Mode = Mode(mode.Ranked)
	ModeShuffle Mode = Mode(mode.Shuffle)
)

// Page is one window of results.
type Page struct {
	Items []Image
	Count int
	Total int
	Query string
	Mode  Mode
}

// Signals breaks a relevance score down by rule.
type Signals = relevance.Signals

// Signal weights.
const (
	WeightTag         = relevance.WeightTag
	WeightSemanticTag = relevance.WeightSemanticTag
	WeightPhrase      = relevance.WeightPhrase
	WeightPartial     = relevance.WeightPartial
	WeightSynonym     = relevance.WeightSynonym
	WeightCategory    = relevance.WeightCategory
)

func toInternalImage(img *Image) image.Image {
	return image.Image{
		ID:              img.ID,
		Title:           img.Title,
		Description:     img.Description,
		Category:        img.Category,
		Alt:             img.Alt,
		Tags:            img.Tags,
		LongDescription: img.LongDescription,
		SourceURL:       img.URL,
	}
}

func toInternalImages(images []Image) []image.Image {
	out := make([]image.Image, len(images))
	for i := range images {
		out[i] = toInternalImage(&images[i])
	}
	return out
}

func fromInternalImage(img *image.Image) Image {
	return Image{
		ID:              img.ID,
		Title:           img.Title,
		Description:     img.Description,
		Category:        img.Category,
		Alt:             img.Alt,
		Tags:            img.Tags,
		LongDescription: img.LongDescription,
		URL:             img.SourceURL,
	}
}

func fromInternalPage(p *result.Page) Page {
	items := p.Items()
	out := make([]Image, len(items))
	for i := range items {
		out[i] = fromInternalImage(&items[i])
	}
	return Page{
		Items: out,
		Count: len(out),
		Total: p.Total(),
		Query: p.Query(),
		Mode:  Mode(p.Mode()),
	}
}
