package embedding

import (
	"math"

	"newsmind/internal/domain"
)

// Cosine computes the cosine similarity between two vectors in [-1, 1].
// Absent vectors, dimension mismatches, and zero-magnitude inputs all score
// exactly 0: embedding comparison degrades instead of failing the caller.
func Cosine(a, b domain.Vector) float64 {
	if a.Absent() || b.Absent() || len(a) != len(b) {
		return 0
	}

	var dot, magA, magB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		magA += float64(a[i]) * float64(a[i])
		magB += float64(b[i]) * float64(b[i])
	}

	if magA == 0 || magB == 0 {
		return 0
	}

	return dot / (math.Sqrt(magA) * math.Sqrt(magB))
}
