package classify

import (
	"regexp"
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"

	"NewsAgent/internal/domain"
)

// MatchMode selects how taxonomy trigger keywords are located in text.
type MatchMode string

const (
	// MatchSubstring matches a keyword anywhere in the text.
	MatchSubstring MatchMode = "substring"
	// MatchWordBoundary requires word boundaries around alphanumeric-only
	// keywords (prevents "AI" matching inside "said"). Keywords with
	// Hangul or punctuation keep substring matching either way.
	MatchWordBoundary MatchMode = "word"
)

var alnumKeyword = regexp.MustCompile(`^[0-9a-zA-Z\-\+_/\.]+$`)

// Classifier assigns multi-label taxonomy categories plus one primary
// pair picked by majority vote over matched triples.
type Classifier struct {
	taxonomy domain.Taxonomy
	mode     MatchMode
}

// NewClassifier builds a classifier over an immutable taxonomy.
func NewClassifier(taxonomy domain.Taxonomy, mode MatchMode) *Classifier {
	if mode == "" {
		mode = MatchSubstring
	}
	return &Classifier{taxonomy: taxonomy, mode: mode}
}

// Classify is deterministic: identical inputs always yield the identical
// result, including the primary pair. Every matching trigger keyword
// records a triple; the majority vote over triples decides the primaries.
func (c *Classifier) Classify(title, summary string, keywords []string) domain.Classification {
	text := strings.ToLower(title + " " + summary + " " + strings.Join(keywords, " "))

	mainSet := map[string]struct{}{}
	subSet := map[string]struct{}{}
	var matched []domain.Match

	for _, main := range c.taxonomy {
		for _, sub := range main.Subs {
			for _, kw := range sub.Keywords {
				if !keywordInText(kw, text, c.mode) {
					continue
				}
				mainSet[main.Name] = struct{}{}
				subSet[sub.Name] = struct{}{}
				matched = append(matched, domain.Match{Main: main.Name, Sub: sub.Name, Keyword: kw})
			}
		}
	}

	result := domain.Classification{
		Mains:   sortedOrDefault(mainSet, domain.MainUnclassified),
		Subs:    sortedOrDefault(subSet, domain.SubOther),
		Matched: matched,
	}
	result.PrimaryMain, result.PrimarySub = primaryLabels(matched)
	return result
}

// primaryLabels picks the main category with the most matched triples;
// ties keep the first-encountered main, i.e. taxonomy declaration order.
// The winning main's most-matched sub becomes the primary sub.
func primaryLabels(matched []domain.Match) (string, string) {
	if len(matched) == 0 {
		return domain.MainUnclassified, domain.SubOther
	}

	mainCounts := map[string]int{}
	var mainOrder []string
	for _, m := range matched {
		if mainCounts[m.Main] == 0 {
			mainOrder = append(mainOrder, m.Main)
		}
		mainCounts[m.Main]++
	}
	best := mainOrder[0]
	for _, name := range mainOrder {
		if mainCounts[name] > mainCounts[best] {
			best = name
		}
	}

	subCounts := map[string]int{}
	var subOrder []string
	for _, m := range matched {
		if m.Main != best {
			continue
		}
		if subCounts[m.Sub] == 0 {
			subOrder = append(subOrder, m.Sub)
		}
		subCounts[m.Sub]++
	}
	bestSub := subOrder[0]
	for _, name := range subOrder {
		if subCounts[name] > subCounts[bestSub] {
			bestSub = name
		}
	}
	return best, bestSub
}

func keywordInText(kw, lowerText string, mode MatchMode) bool {
	if kw == "" {
		return false
	}
	kwLower := strings.ToLower(kw)
	if mode == MatchWordBoundary && alnumKeyword.MatchString(kw) {
		return boundaryContains(lowerText, kwLower)
	}
	return strings.Contains(lowerText, kwLower)
}

// boundaryContains reports an occurrence of sub in s whose neighbors are
// not word characters (letters, digits, underscore; Hangul counts as
// a word character).
func boundaryContains(s, sub string) bool {
	for from := 0; ; {
		idx := strings.Index(s[from:], sub)
		if idx < 0 {
			return false
		}
		start := from + idx
		end := start + len(sub)
		if !wordCharBefore(s, start) && !wordCharAt(s, end) {
			return true
		}
		from = start + 1
		if from >= len(s) {
			return false
		}
	}
}

func wordCharBefore(s string, idx int) bool {
	if idx == 0 {
		return false
	}
	r, _ := utf8.DecodeLastRuneInString(s[:idx])
	return isWordChar(r)
}

func wordCharAt(s string, idx int) bool {
	if idx >= len(s) {
		return false
	}
	r, _ := utf8.DecodeRuneInString(s[idx:])
	return isWordChar(r)
}

func isWordChar(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r)
}

func sortedOrDefault(set map[string]struct{}, def string) []string {
	if len(set) == 0 {
		return []string{def}
	}
	out := make([]string, 0, len(set))
	for name := range set {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}
