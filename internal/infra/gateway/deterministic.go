package gateway

import (
	"context"
	"hash/fnv"
	"math"

	"github.com/kbforge/faq-engine/internal/domain/faqgen"
)

// DeterministicEmbedder avoids network calls by hashing text into a unit
// vector. Used in tests and DSN-less development.
type DeterministicEmbedder struct {
	dim int
}

// NewDeterministicEmbedder constructs the embedder.
func NewDeterministicEmbedder(dim int) *DeterministicEmbedder {
	if dim <= 0 {
		dim = 768
	}
	return &DeterministicEmbedder{dim: dim}
}

// Embed converts a text into a pseudo-random unit vector.
func (e *DeterministicEmbedder) Embed(_ context.Context, text string) ([]float32, error) {
	hash := fnv.New64a()
	_, _ = hash.Write([]byte(text))
	seed := hash.Sum64()

	vector := make([]float32, e.dim)
	var norm float64
	for i := 0; i < e.dim; i++ {
		seed = seed*1099511628211 + 1469598103934665603
		v := float64(seed%2003)/1001.5 - 1 // spread into [-1, 1)
		vector[i] = float32(v)
		norm += v * v
	}
	if norm > 0 {
		scale := float32(1 / math.Sqrt(norm))
		for i := range vector {
			vector[i] *= scale
		}
	}
	return vector, nil
}

var _ faqgen.Embedder = (*DeterministicEmbedder)(nil)
