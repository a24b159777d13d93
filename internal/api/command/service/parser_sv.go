package commandService

import (
	"strconv"
	"strings"

	"github.com/sirupsen/logrus"

	"EchoOS/internal/entity"
	"EchoOS/pkg/nlp"
)

type parserDomainImpl struct {
	log     *logrus.Logger
	table   entity.PhraseTable
	matcher *nlp.Matcher
	opts    Options
}

type intentMatch struct {
	category  entity.CommandCategory
	intent    string
	score     float64
	substrLen int
	declIndex int
	phrase    string
}

// Parse scores the transcript against every configured trigger phrase and
// returns the best intent, or the unknown command when nothing clears the
// match threshold. Never guesses: bounded ambiguity is the contract.
func (p *parserDomainImpl) Parse(text string) entity.Command {
	normalized := p.matcher.Normalize(text)
	if normalized == "" {
		return entity.UnknownCommand(text)
	}

	best := intentMatch{score: -1}
	declIndex := 0

	for _, category := range p.table.Categories {
		for _, intent := range category.Intents {
			match := intentMatch{
				category:  category.Name,
				intent:    intent.Name,
				declIndex: declIndex,
			}
			declIndex++

			for _, phrase := range intent.Phrases {
				score := p.matcher.Score(normalized, phrase)
				substrLen := p.matcher.LongestCommonPrefixMatch(normalized, phrase)

				if score > match.score ||
					(score == match.score && substrLen > match.substrLen) {
					match.score = score
					match.substrLen = substrLen
					match.phrase = phrase
				}
			}

			if better(match, best) {
				best = match
			}
		}
	}

	if best.score < p.opts.MatchThreshold {
		p.log.WithFields(logrus.Fields{
			"transcript": normalized,
			"best_score": best.score,
			"threshold":  p.opts.MatchThreshold,
		}).Debug("No intent cleared the match threshold")
		return entity.UnknownCommand(text)
	}

	cmd := entity.Command{
		Category:   best.category,
		Intent:     best.intent,
		Parameters: p.extractParameters(best, normalized),
		RawText:    text,
		Confidence: best.score,
	}

	p.log.WithFields(logrus.Fields{
		"category":   cmd.Category,
		"intent":     cmd.Intent,
		"confidence": cmd.Confidence,
	}).Debug("Transcript parsed")

	return cmd
}

// better orders matches by score, then longest exact substring match, then
// declaration order. Deterministic and order-dependent on the phrase table.
func better(a, b intentMatch) bool {
	if a.score != b.score {
		return a.score > b.score
	}
	if a.substrLen != b.substrLen {
		return a.substrLen > b.substrLen
	}
	return a.declIndex < b.declIndex
}

// slotRules maps category.intent to the parameter it captures from the text
// trailing the matched phrase.
var slotRules = map[string]string{
	"app.open":          "app_name",
	"app.close":         "app_name",
	"file.open_file":    "filename",
	"file.create_file":  "filename",
	"file.delete_file":  "filename",
	"web.open_website":  "url",
	"web.search_google": "query",
	"web.search_youtube": "query",
}

func (p *parserDomainImpl) extractParameters(match intentMatch, normalized string) map[string]string {
	params := map[string]string{}

	key := string(match.category) + "." + match.intent
	if slot, ok := slotRules[key]; ok {
		if value := trailingCapture(normalized, match.phrase); value != "" {
			params[slot] = value
		}
	}

	if match.category == entity.CategoryVolume && (match.intent == "up" || match.intent == "down") {
		if amount, ok := firstNumber(normalized); ok {
			params["amount"] = strconv.Itoa(amount)
		}
	}

	return params
}

// trailingCapture returns the free-form text after the trigger phrase, e.g.
// "open website google.com" with phrase "open website" captures "google.com".
func trailingCapture(normalized, phrase string) string {
	idx := strings.Index(normalized, phrase)
	if idx >= 0 {
		return strings.TrimSpace(normalized[idx+len(phrase):])
	}

	// Noisy transcript: the phrase fuzzy-matched but is not a clean
	// substring. Drop the phrase tokens and keep what remains.
	phraseTokens := map[string]bool{}
	for _, tok := range strings.Fields(phrase) {
		phraseTokens[tok] = true
	}

	var rest []string
	for _, tok := range strings.Fields(normalized) {
		if !phraseTokens[tok] {
			rest = append(rest, tok)
		}
	}
	return strings.Join(rest, " ")
}

func firstNumber(text string) (int, bool) {
	for _, tok := range strings.Fields(text) {
		if n, err := strconv.Atoi(tok); err == nil {
			return n, true
		}
	}
	return 0, false
}
