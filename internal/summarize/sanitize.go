// Package summarize produces article summaries. The heuristic summarizer
// never fails and never returns an empty string; external backends are
// wrapped so their failures degrade to it.
package summarize

import (
	"regexp"
	"strings"
)

var (
	leadingBracket = regexp.MustCompile(`^\s*\[[^\]]*\]\s*`)
	titleLabel     = regexp.MustCompile(`(^|\s)제목\s*:\s*`)
	firstLineLabel = regexp.MustCompile(`(^|\s)첫\s*문장\s*:\s*`)
	multiSpace     = regexp.MustCompile(`\s+`)
	bylineMarker   = regexp.MustCompile(`(기자|사진|영상)\s*=`)
)

// Sanitize strips wire-service prefixes and label debris from a summary.
func Sanitize(s string) string {
	t := strings.TrimSpace(s)
	if t == "" {
		return ""
	}
	t = leadingBracket.ReplaceAllString(t, "")
	t = titleLabel.ReplaceAllString(t, "$1")
	t = firstLineLabel.ReplaceAllString(t, "$1")
	return strings.TrimSpace(multiSpace.ReplaceAllString(t, " "))
}

// cleanSentences normalizes whitespace, removes byline markers and caps
// the text at limit runes.
func cleanSentences(txt string, limit int) string {
	t := strings.TrimSpace(txt)
	t = multiSpace.ReplaceAllString(t, " ")
	t = bylineMarker.ReplaceAllString(t, "")
	runes := []rune(t)
	if len(runes) > limit {
		return string(runes[:limit])
	}
	return t
}

// splitSentences breaks text after sentence-final punctuation followed by
// whitespace. Go regexp has no lookbehind, so this is a manual scan.
func splitSentences(text string) []string {
	var out []string
	var current strings.Builder
	runes := []rune(text)
	for i := 0; i < len(runes); i++ {
		r := runes[i]
		current.WriteRune(r)
		if isSentenceEnd(r) && i+1 < len(runes) && isSpace(runes[i+1]) {
			out = append(out, strings.TrimSpace(current.String()))
			current.Reset()
			for i+1 < len(runes) && isSpace(runes[i+1]) {
				i++
			}
		}
	}
	if rest := strings.TrimSpace(current.String()); rest != "" {
		out = append(out, rest)
	}
	return out
}

func isSentenceEnd(r rune) bool {
	switch r {
	case '.', '?', '!', '。':
		return true
	}
	return false
}

func isSpace(r rune) bool {
	return r == ' ' || r == '\t' || r == '\n' || r == '\r'
}
