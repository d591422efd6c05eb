// Package classify decides whether a document is technology-relevant and
// assigns taxonomy labels.
package classify

import (
	"strings"

	"NewsAgent/internal/textfilter"
)

// TechGate answers the boolean "is this document tech?" question using
// the injected lexicon.
type TechGate struct {
	lexicon textfilter.Lexicon
}

// NewTechGate builds the gate.
func NewTechGate(lexicon textfilter.Lexicon) *TechGate {
	return &TechGate{lexicon: lexicon}
}

// IsTechDoc evaluates signals in order: a tech keyword wins immediately,
// then allow-list substrings, then allow patterns, then the non-tech
// exclusion pattern. With no signal at all the answer is false; weak
// tech signals lose to no signal, which keeps the gate conservative.
func (g *TechGate) IsTechDoc(title, body string, keywords []string) bool {
	for _, kw := range keywords {
		if g.lexicon.IsTechTerm(kw) {
			return true
		}
	}

	text := title + " " + body + " " + strings.Join(keywords, " ")
	lower := strings.ToLower(text)
	for term := range g.lexicon.AllowTerms() {
		if strings.Contains(lower, term) {
			return true
		}
	}
	for _, rx := range g.lexicon.AllowPatterns() {
		if rx.MatchString(text) {
			return true
		}
	}
	if g.lexicon.MatchesNonTech(text) {
		return false
	}
	return false
}
