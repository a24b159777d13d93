// Package voiceprint compares speakers via fixed-dimension audio embeddings.
//
// An external extractor daemon turns a raw sample into an embedding vector;
// this package owns the similarity math and the wire client. Enrollment and
// thresholding live in the auth service.
package voiceprint

import (
	"context"
	"errors"
	"math"
)

// EmbeddingDim is the vector size produced by the extractor daemon.
// All stored profiles share this dimension.
const EmbeddingDim = 256

var (
	ErrUnavailable  = errors.New("embedding extractor unavailable")
	ErrDimMismatch  = errors.New("embedding dimension mismatch")
	ErrEmptySample  = errors.New("empty audio sample")
	ErrZeroVector   = errors.New("embedding has zero magnitude")
)

// Extractor maps a fixed-length audio sample to a voice embedding.
type Extractor interface {
	Extract(ctx context.Context, sample []byte) ([]float64, error)
	Available() bool
}

// CosineSimilarity computes dot(a,b)/(|a|*|b|), clipped to [0,1].
// Negative cosine carries no identity signal for voice embeddings.
func CosineSimilarity(a, b []float64) (float64, error) {
	if len(a) != len(b) {
		return 0, ErrDimMismatch
	}

	var dot, normA, normB float64
	for i := range a {
		dot += a[i] * b[i]
		normA += a[i] * a[i]
		normB += b[i] * b[i]
	}

	if normA == 0 || normB == 0 {
		return 0, ErrZeroVector
	}

	score := dot / (math.Sqrt(normA) * math.Sqrt(normB))
	if score < 0 {
		score = 0
	}
	if score > 1 {
		score = 1
	}

	return score, nil
}

// BestMatch scores the probe against every enrolled profile and returns the
// winner. Deterministic for equal scores: first enrolled wins.
func BestMatch(probe []float64, profiles map[string][]float64, order []string) (string, float64, error) {
	bestScore := -1.0
	bestUser := ""

	for _, username := range order {
		embedding, ok := profiles[username]
		if !ok {
			continue
		}
		score, err := CosineSimilarity(probe, embedding)
		if err != nil {
			return "", 0, err
		}
		if score > bestScore {
			bestScore = score
			bestUser = username
		}
	}

	if bestUser == "" {
		return "", 0, errors.New("no enrolled profiles")
	}

	return bestUser, bestScore, nil
}
