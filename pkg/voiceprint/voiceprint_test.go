package voiceprint

import (
	"errors"
	"math"
	"testing"
)

func TestCosineSimilarity(t *testing.T) {
	t.Run("identical vectors score one", func(t *testing.T) {
		a := []float64{0.5, 0.5, 0.5}
		got, err := CosineSimilarity(a, a)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if math.Abs(got-1.0) > 1e-9 {
			t.Errorf("got %v, want 1.0", got)
		}
	})

	t.Run("orthogonal vectors score zero", func(t *testing.T) {
		got, err := CosineSimilarity([]float64{1, 0}, []float64{0, 1})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if got != 0 {
			t.Errorf("got %v, want 0", got)
		}
	})

	t.Run("negative cosine clips to zero", func(t *testing.T) {
		got, err := CosineSimilarity([]float64{1, 0}, []float64{-1, 0})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if got != 0 {
			t.Errorf("got %v, want 0", got)
		}
	})

	t.Run("dimension mismatch", func(t *testing.T) {
		_, err := CosineSimilarity([]float64{1, 0}, []float64{1, 0, 0})
		if !errors.Is(err, ErrDimMismatch) {
			t.Errorf("got %v, want ErrDimMismatch", err)
		}
	})

	t.Run("zero vector", func(t *testing.T) {
		_, err := CosineSimilarity([]float64{0, 0}, []float64{1, 0})
		if !errors.Is(err, ErrZeroVector) {
			t.Errorf("got %v, want ErrZeroVector", err)
		}
	})
}

func TestBestMatch(t *testing.T) {
	profiles := map[string][]float64{
		"alice": {1, 0, 0},
		"bob":   {0, 1, 0},
	}
	order := []string{"alice", "bob"}

	t.Run("picks the closest profile", func(t *testing.T) {
		username, score, err := BestMatch([]float64{0.1, 0.9, 0}, profiles, order)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if username != "bob" {
			t.Errorf("got %q, want bob", username)
		}
		if score < 0.9 {
			t.Errorf("score = %v, want >= 0.9", score)
		}
	})

	t.Run("equal scores go to the first enrolled", func(t *testing.T) {
		tied := map[string][]float64{
			"alice": {1, 0},
			"bob":   {1, 0},
		}
		username, _, err := BestMatch([]float64{1, 0}, tied, []string{"alice", "bob"})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if username != "alice" {
			t.Errorf("got %q, want alice", username)
		}
	})

	t.Run("no profiles", func(t *testing.T) {
		_, _, err := BestMatch([]float64{1, 0}, map[string][]float64{}, nil)
		if err == nil {
			t.Error("expected an error for empty profile set")
		}
	})
}
