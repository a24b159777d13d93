package nlp

import (
	"math"
	"strings"
	"unicode"

	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Matcher scores noisy transcript text against configured trigger phrases.
type Matcher struct {
	stopWords map[string]bool
}

func NewMatcher() *Matcher {
	stopWords := map[string]bool{
		"the": true, "a": true, "an": true, "to": true, "please": true,
		"could": true, "would": true, "you": true, "me": true, "my": true,
		"can": true, "hey": true, "now": true,
	}

	return &Matcher{
		stopWords: stopWords,
	}
}

// Normalize lowercases, strips diacritics and punctuation, and collapses
// whitespace.
func (m *Matcher) Normalize(text string) string {
	text = strings.ToLower(text)

	t := transform.Chain(norm.NFD, transform.RemoveFunc(isMn), norm.NFC)
	result, _, _ := transform.String(t, text)

	result = strings.Map(func(r rune) rune {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || unicode.IsSpace(r) || r == '.' {
			return r
		}
		return ' '
	}, result)

	words := strings.Fields(result)
	return strings.Join(words, " ")
}

func isMn(r rune) bool {
	return unicode.Is(unicode.Mn, r)
}

// Tokens splits normalized text into informative tokens.
func (m *Matcher) Tokens(text string) []string {
	words := strings.Fields(text)
	var tokens []string

	for _, word := range words {
		if len(word) > 1 && !m.stopWords[word] {
			tokens = append(tokens, word)
		}
	}

	return tokens
}

// Similarity scores two normalized strings in [0,1]. Exact match wins,
// containment scores by length ratio, otherwise edit-distance ratio.
func (m *Matcher) Similarity(text1, text2 string) float64 {
	if text1 == text2 {
		return 1.0
	}
	if text1 == "" || text2 == "" {
		return 0.0
	}

	if strings.Contains(text1, text2) || strings.Contains(text2, text1) {
		shorter, longer := text1, text2
		if len(text1) > len(text2) {
			shorter, longer = text2, text1
		}
		return float64(len(shorter)) / float64(len(longer))
	}

	distance := m.levenshteinDistance(text1, text2)
	maxLen := math.Max(float64(len(text1)), float64(len(text2)))

	return math.Max(0, 1.0-(float64(distance)/maxLen))
}

// TokenOverlap scores how many phrase tokens appear in the transcript.
func (m *Matcher) TokenOverlap(transcript, phrase string) float64 {
	phraseTokens := m.Tokens(phrase)
	if len(phraseTokens) == 0 {
		return 0.0
	}

	transcriptTokens := map[string]bool{}
	for _, tok := range m.Tokens(transcript) {
		transcriptTokens[tok] = true
	}

	hits := 0
	for _, tok := range phraseTokens {
		if transcriptTokens[tok] {
			hits++
		}
	}

	return float64(hits) / float64(len(phraseTokens))
}

// Score combines substring, edit-distance, and token-overlap evidence for
// one transcript/phrase pair; the strongest signal wins.
func (m *Matcher) Score(transcript, phrase string) float64 {
	similarity := m.Similarity(transcript, phrase)
	overlap := m.TokenOverlap(transcript, phrase)

	return math.Max(similarity, overlap)
}

// LongestCommonPrefixMatch reports the length of the phrase if the phrase is
// an exact substring of the transcript, zero otherwise. Used as a tie-break.
func (m *Matcher) LongestCommonPrefixMatch(transcript, phrase string) int {
	if phrase != "" && strings.Contains(transcript, phrase) {
		return len(phrase)
	}
	return 0
}

func (m *Matcher) levenshteinDistance(s1, s2 string) int {
	if len(s1) == 0 {
		return len(s2)
	}
	if len(s2) == 0 {
		return len(s1)
	}

	matrix := make([][]int, len(s1)+1)
	for i := range matrix {
		matrix[i] = make([]int, len(s2)+1)
		matrix[i][0] = i
	}

	for j := 0; j <= len(s2); j++ {
		matrix[0][j] = j
	}

	for i := 1; i <= len(s1); i++ {
		for j := 1; j <= len(s2); j++ {
			cost := 0
			if s1[i-1] != s2[j-1] {
				cost = 1
			}

			matrix[i][j] = min3(
				matrix[i-1][j]+1,
				matrix[i][j-1]+1,
				matrix[i-1][j-1]+cost,
			)
		}
	}

	return matrix[len(s1)][len(s2)]
}

func min3(a, b, c int) int {
	if a < b && a < c {
		return a
	} else if b < c {
		return b
	}
	return c
}
