// Package vector provides a small in-memory cosine similarity index and an
// adapter binding it to the rag.Searcher contract. The retrieval core treats
// vector search as a black box; this package exists so the command surface
// and examples run end to end without an external service. It does not
// compute embeddings.
package vector

import (
	"fmt"
	"math"
)

// ErrDimensionMismatch is returned when vector dimensions don't match
var ErrDimensionMismatch = fmt.Errorf("vector dimensions mismatch")

// CosineSimilarity calculates the cosine similarity between two vectors.
// Returns a value between -1 (opposite) and 1 (identical).
// Returns an error if vector dimensions don't match.
func CosineSimilarity(a, b []float32) (float64, error) {
	if len(a) != len(b) {
		return 0, fmt.Errorf("%w: %d != %d", ErrDimensionMismatch, len(a), len(b))
	}

	var dotProd, normA, normB float64
	for i := 0; i < len(a); i++ {
		dotProd += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}

	// Zero vectors have no direction
	if normA == 0 || normB == 0 {
		return 0, nil
	}

	return dotProd / (math.Sqrt(normA) * math.Sqrt(normB)), nil
}

// Normalize normalizes a vector to unit length. Zero vectors are returned
// unchanged.
func Normalize(v []float32) []float32 {
	var norm float64
	for _, val := range v {
		norm += float64(val) * float64(val)
	}
	if norm == 0 {
		return v
	}
	norm = math.Sqrt(norm)

	normalized := make([]float32, len(v))
	for i, val := range v {
		normalized[i] = float32(float64(val) / norm)
	}
	return normalized
}
