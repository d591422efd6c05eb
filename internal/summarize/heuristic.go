package summarize

import (
	"context"
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"

	"NewsAgent/internal/domain"
	"NewsAgent/internal/ports"
	"NewsAgent/internal/textfilter"
)

// Heuristic builds a summary without any external model: leading
// sentences of the body when they carry enough substance, otherwise a
// taxonomy-aware template seeded from the title. The guarantee callers
// rely on: the result is never empty; worst case it is the title.
type Heuristic struct {
	taxonomy domain.Taxonomy
	lexicon  textfilter.Lexicon
}

var _ ports.Summarizer = (*Heuristic)(nil)

// NewHeuristic wires the fallback summarizer.
func NewHeuristic(taxonomy domain.Taxonomy, lexicon textfilter.Lexicon) *Heuristic {
	return &Heuristic{taxonomy: taxonomy, lexicon: lexicon}
}

// Summarize never returns an error.
func (h *Heuristic) Summarize(_ context.Context, title, source, _ string, text string) (string, error) {
	out := leadingSentences(title, text)
	if out == "" || strings.EqualFold(strings.TrimSpace(out), strings.TrimSpace(title)) || utf8.RuneCountInString(out) < 60 {
		return h.templated(title, source), nil
	}
	return out, nil
}

// leadingSentences takes up to the first three sentences of the cleaned
// body; a body shorter than 20 runes degrades to the title.
func leadingSentences(title, text string) string {
	base := cleanSentences(text, 1200)
	if utf8.RuneCountInString(base) < 20 {
		return Sanitize(title)
	}
	sents := splitSentences(base)
	if len(sents) > 3 {
		sents = sents[:3]
	}
	return Sanitize(strings.Join(sents, " "))
}

// templated writes a short Korean digest around the title's taxonomy
// labels, tagged with up to four tech terms mined from the title.
func (h *Heuristic) templated(title, source string) string {
	titleStr := strings.TrimSpace(title)
	pm, ps := "IT/공학", "핵심 이슈"

scan:
	for _, main := range h.taxonomy {
		for _, sub := range main.Subs {
			for _, kw := range sub.Keywords {
				if kw != "" && strings.Contains(titleStr, kw) {
					pm, ps = main.Name, sub.Name
					break scan
				}
			}
		}
	}

	base := fmt.Sprintf("%s 보도. '%s' 주제의 %s - %s 관련 이슈입니다. "+
		"해당 분야는 최근 기술·제품·투자 동향이 활발하며 산업 전반의 경쟁이 이어지고 있습니다. "+
		"기업/연구기관의 발표와 표준화, 생태계 확장이 동시에 진행되는 흐름을 참고하세요.",
		source, titleStr, pm, ps)

	if tags := h.titleTags(titleStr, 4); len(tags) > 0 {
		base += "  #" + strings.Join(tags, " #")
	}
	return Sanitize(base)
}

func (h *Heuristic) titleTags(title string, limit int) []string {
	seen := map[string]struct{}{}
	var tags []string
	for _, token := range splitTitleTokens(title) {
		if h.lexicon.IsMeaningless(token) || !h.lexicon.IsTechTerm(token) {
			continue
		}
		if _, dup := seen[token]; dup {
			continue
		}
		seen[token] = struct{}{}
		tags = append(tags, token)
		if len(tags) == limit {
			break
		}
	}
	return tags
}

func splitTitleTokens(title string) []string {
	return strings.FieldsFunc(title, func(r rune) bool {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_' || r == '+' || r == '-' {
			return false
		}
		return true
	})
}
