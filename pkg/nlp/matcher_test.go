package nlp

import (
	"math"
	"testing"
)

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestNormalize(t *testing.T) {
	m := NewMatcher()

	tests := []struct {
		name string
		in   string
		want string
	}{
		{"lowercases", "OPEN Chrome", "open chrome"},
		{"strips punctuation", "open, chrome!", "open chrome"},
		{"keeps dots for filenames", "open file report.txt", "open file report.txt"},
		{"collapses whitespace", "  volume   up  ", "volume up"},
		{"strips diacritics", "café", "cafe"},
		{"empty", "", ""},
		{"only punctuation", "?!,", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := m.Normalize(tt.in); got != tt.want {
				t.Errorf("Normalize(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestSimilarity(t *testing.T) {
	m := NewMatcher()

	if got := m.Similarity("volume up", "volume up"); !almostEqual(got, 1.0) {
		t.Errorf("exact match = %v, want 1.0", got)
	}

	if got := m.Similarity("", "volume up"); !almostEqual(got, 0.0) {
		t.Errorf("empty transcript = %v, want 0.0", got)
	}

	// Containment scores by length ratio.
	got := m.Similarity("open chrome", "open")
	want := 4.0 / 11.0
	if !almostEqual(got, want) {
		t.Errorf("containment = %v, want %v", got, want)
	}

	// One-character typo stays high.
	if got := m.Similarity("volume op", "volume up"); got < 0.8 {
		t.Errorf("near match = %v, want >= 0.8", got)
	}

	// Unrelated strings score low.
	if got := m.Similarity("volume up", "delete file"); got > 0.5 {
		t.Errorf("unrelated = %v, want <= 0.5", got)
	}
}

func TestTokenOverlap(t *testing.T) {
	m := NewMatcher()

	if got := m.TokenOverlap("please turn up the volume now", "turn up volume"); !almostEqual(got, 1.0) {
		t.Errorf("full overlap = %v, want 1.0", got)
	}

	if got := m.TokenOverlap("turn up volume", "turn down volume"); !almostEqual(got, 2.0/3.0) {
		t.Errorf("partial overlap = %v, want 2/3", got)
	}

	if got := m.TokenOverlap("open chrome", "delete file"); !almostEqual(got, 0.0) {
		t.Errorf("no overlap = %v, want 0.0", got)
	}
}

func TestScoreTakesStrongestSignal(t *testing.T) {
	m := NewMatcher()

	// Token overlap rescues a transcript with extra words.
	got := m.Score("hey can you open chrome for me", "open")
	if !almostEqual(got, 1.0) {
		t.Errorf("Score = %v, want 1.0", got)
	}
}

func TestLongestCommonPrefixMatch(t *testing.T) {
	m := NewMatcher()

	if got := m.LongestCommonPrefixMatch("open file report.txt", "open file"); got != len("open file") {
		t.Errorf("substring tie-break = %d, want %d", got, len("open file"))
	}
	if got := m.LongestCommonPrefixMatch("launch chrome", "open file"); got != 0 {
		t.Errorf("non-substring = %d, want 0", got)
	}
	if got := m.LongestCommonPrefixMatch("anything", ""); got != 0 {
		t.Errorf("empty phrase = %d, want 0", got)
	}
}

func TestTokensDropStopWordsAndShortTokens(t *testing.T) {
	m := NewMatcher()

	got := m.Tokens("please open the file a x now")
	want := []string{"open", "file"}

	if len(got) != len(want) {
		t.Fatalf("Tokens = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("Tokens = %v, want %v", got, want)
		}
	}
}
