// Package keywords ranks document terms by frequency after the token
// filter has had its say.
package keywords

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"unicode/utf8"

	"NewsAgent/internal/ports"
	"NewsAgent/internal/textfilter"
)

// Extractor composes the Tokenizer port with the token filter. When
// Strict is set, only tech terms survive ranking; a noun-only fallback
// pass guarantees the result is never empty while any usable noun exists.
type Extractor struct {
	tokenizer ports.Tokenizer
	lexicon   textfilter.Lexicon
	strict    bool
}

// New wires the extractor. Strict mode mirrors the strict-tech-keyword
// configuration toggle.
func New(tokenizer ports.Tokenizer, lexicon textfilter.Lexicon, strict bool) *Extractor {
	return &Extractor{tokenizer: tokenizer, lexicon: lexicon, strict: strict}
}

var rankedPOS = map[string]struct{}{
	ports.POSNoun: {}, ports.POSVerb: {}, ports.POSAdjective: {}, ports.POSAlpha: {},
}

// Extract returns at most topK distinct keywords, most frequent first,
// ties broken by first appearance in the text.
func (e *Extractor) Extract(ctx context.Context, text string, topK int) ([]string, error) {
	if strings.TrimSpace(text) == "" {
		return nil, nil
	}

	tokens, err := e.tokenizer.Tokenize(ctx, text)
	if err != nil {
		return nil, fmt.Errorf("tokenize: %w", err)
	}

	counts := make(map[string]int)
	var order []string
	add := func(w string) {
		if counts[w] == 0 {
			order = append(order, w)
		}
		counts[w]++
	}

	for _, tok := range tokens {
		if _, ok := rankedPOS[tok.POS]; !ok {
			continue
		}
		w := strings.TrimSpace(tok.Word)
		if w == "" {
			continue
		}
		if e.lexicon.IsStopword(w) || e.lexicon.IsMeaningless(w) {
			continue
		}
		if e.strict && !e.lexicon.IsTechTerm(w) {
			continue
		}
		add(w)
	}

	// Strict filtering must never silently yield an empty keyword set:
	// fall back to plain nouns of length >= 2.
	if len(counts) == 0 {
		for _, tok := range tokens {
			if tok.POS != ports.POSNoun {
				continue
			}
			w := strings.TrimSpace(tok.Word)
			if utf8.RuneCountInString(w) >= 2 && !e.lexicon.IsMeaningless(w) {
				add(w)
			}
		}
	}

	firstSeen := make(map[string]int, len(order))
	for i, w := range order {
		firstSeen[w] = i
	}
	sort.SliceStable(order, func(i, j int) bool {
		if counts[order[i]] != counts[order[j]] {
			return counts[order[i]] > counts[order[j]]
		}
		return firstSeen[order[i]] < firstSeen[order[j]]
	})

	if topK > 0 && len(order) > topK {
		order = order[:topK]
	}
	return order, nil
}
