// Package textfilter holds the curated token vocabulary and the two
// predicates every downstream filter is built on. The word lists are
// configuration, not logic: keyword quality lives or dies by their
// curation, so they are injected as an immutable Lexicon value instead
// of being read from package globals.
package textfilter

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

// Lexicon bundles stopwords, the tech allow-list, allow patterns and the
// non-tech exclusion pattern. Construct one with DefaultLexicon and pass
// it to filters and classifiers explicitly.
type Lexicon struct {
	stopExact      map[string]struct{}
	stopWords      map[string]struct{}
	allowTerms     map[string]struct{}
	allowPatterns  []*regexp.Regexp
	versionPattern *regexp.Regexp
	techSubstrings []string
	nonTech        *regexp.Regexp
}

// IsMeaningless reports whether a token is noise: empty or whitespace,
// a single rune (this also covers lone Hangul jamo), pure punctuation
// or symbols, pure digits, or a member of the short-noise stopword set.
// Runs made entirely of bare jamo ("ㅋㅋ", "ㅎㅎㅎ") are noise too, a
// deliberate widening over the lone-jamo case: they are keyboard
// laughter and never carry meaning.
// The predicate is permissive; it strips noise before ranking rather
// than enforcing correctness.
func (l Lexicon) IsMeaningless(w string) bool {
	s := strings.TrimSpace(w)
	if s == "" {
		return true
	}
	if utf8.RuneCountInString(s) == 1 {
		return true
	}
	if allRunes(s, func(r rune) bool {
		return unicode.IsPunct(r) || unicode.IsSymbol(r) || unicode.IsSpace(r) || r == '_'
	}) {
		return true
	}
	if allRunes(s, unicode.IsDigit) {
		return true
	}
	if allRunes(s, isJamo) {
		return true
	}
	_, ok := l.stopExact[strings.ToLower(s)]
	return ok
}

// IsStopword reports membership in the full stopword set (particles,
// bylines, generic newsroom nouns, English function words).
func (l Lexicon) IsStopword(w string) bool {
	_, ok := l.stopWords[strings.ToLower(strings.TrimSpace(w))]
	return ok
}

// IsTechTerm is the single gate used by every strict-tech filter. A token
// passes if it is on the allow-list, matches an allow pattern, looks like
// a versioned product token (ddr5, gpt4), or contains one of a few
// high-confidence Korean technical substrings.
func (l Lexicon) IsTechTerm(w string) bool {
	s := strings.TrimSpace(w)
	if s == "" {
		return false
	}
	sl := strings.ToLower(s)
	if _, ok := l.allowTerms[sl]; ok {
		return true
	}
	for _, rx := range l.allowPatterns {
		if rx.MatchString(s) {
			return true
		}
	}
	if l.versionPattern.MatchString(sl) {
		return true
	}
	for _, sub := range l.techSubstrings {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}

// MatchesNonTech reports whether text hits the "clearly non-tech"
// exclusion pattern (entertainment, lifestyle, fortune-telling, ...).
func (l Lexicon) MatchesNonTech(text string) bool {
	return l.nonTech.MatchString(text)
}

// AllowTerms exposes the allow-list for substring scans over whole
// documents (the tech-document gate needs it).
func (l Lexicon) AllowTerms() map[string]struct{} {
	return l.allowTerms
}

// AllowPatterns exposes the compiled allow patterns.
func (l Lexicon) AllowPatterns() []*regexp.Regexp {
	return l.allowPatterns
}

func allRunes(s string, pred func(rune) bool) bool {
	for _, r := range s {
		if !pred(r) {
			return false
		}
	}
	return true
}

// isJamo reports a Hangul consonant/vowel jamo, i.e. an incomplete
// syllable such as ㄱ or ㅏ.
func isJamo(r rune) bool {
	return (r >= 0x1100 && r <= 0x11FF) || (r >= 0x3130 && r <= 0x318F)
}
