// Package nlp provides the Tokenizer backends. A rule-based tokenizer is
// always available; a remote POS-tagging service can be selected by
// configuration, with the rule backend as its fallback.
package nlp

import (
	"context"
	"strings"
	"unicode"

	"NewsAgent/internal/ports"
)

// Trailing single-syllable particles stripped from Hangul tokens. Crude
// next to a real morphological analyzer, but good enough for frequency
// ranking.
var trailingParticles = map[rune]struct{}{
	'은': {}, '는': {}, '이': {}, '가': {}, '을': {}, '를': {},
	'에': {}, '의': {}, '도': {}, '만': {}, '로': {}, '와': {}, '과': {},
}

// RuleTokenizer segments text by script runs and guesses part-of-speech:
// Hangul runs are treated as nouns, Latin runs as foreign-script tokens.
// It never fails and needs no external process.
type RuleTokenizer struct{}

var _ ports.Tokenizer = (*RuleTokenizer)(nil)

// NewRuleTokenizer returns the built-in tokenizer.
func NewRuleTokenizer() *RuleTokenizer {
	return &RuleTokenizer{}
}

// Tokenize splits on everything outside letters, digits, '+', '-', '_'
// and '.', then tags each run.
func (t *RuleTokenizer) Tokenize(_ context.Context, text string) ([]ports.Token, error) {
	var tokens []ports.Token
	for _, raw := range splitRuns(text) {
		word, pos := tagRun(raw)
		if word == "" {
			continue
		}
		tokens = append(tokens, ports.Token{Word: word, POS: pos})
	}
	return tokens, nil
}

func splitRuns(text string) []string {
	return strings.FieldsFunc(text, func(r rune) bool {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			return false
		}
		switch r {
		case '+', '-', '_', '.':
			return false
		}
		return true
	})
}

func tagRun(raw string) (string, string) {
	word := strings.Trim(raw, "+-_.")
	if word == "" {
		return "", ""
	}

	hangul, latin := false, false
	for _, r := range word {
		switch {
		case unicode.Is(unicode.Hangul, r):
			hangul = true
		case r < 128 && unicode.IsLetter(r):
			latin = true
		}
	}

	switch {
	case hangul && !latin:
		return stripParticle(word), ports.POSNoun
	case latin:
		return word, ports.POSAlpha
	default:
		// Digit-only or other-script runs; callers filter these out.
		return word, "Number"
	}
}

// stripParticle drops one trailing particle syllable when enough of the
// stem remains to stay a meaningful token.
func stripParticle(word string) string {
	runes := []rune(word)
	if len(runes) < 3 {
		return word
	}
	if _, ok := trailingParticles[runes[len(runes)-1]]; ok {
		return string(runes[:len(runes)-1])
	}
	return word
}
