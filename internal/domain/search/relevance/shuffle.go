package relevance

import (
	"math/rand/v2"

	"github.com/kailas-cloud/gallerydex/internal/domain/image"
)

// Shuffle returns every record of corpus in pseudo-random order.
// The input is not modified. Order is not reproducible across calls.
func Shuffle(corpus []image.Image) []image.Image {
	out := make([]image.Image, len(corpus))
	copy(out, corpus)
	rand.Shuffle(len(out), func(i, j int) {
		out[i], out[j] = out[j], out[i]
	})
	return out
}
