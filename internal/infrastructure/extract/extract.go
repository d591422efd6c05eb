// Package extract pulls readable article text out of fetched pages.
//
// Extraction runs as a cascade: readability first, then a selector
// scan over common content containers, then the meta description, and
// finally a raw tag strip. Whatever survives is whitespace-normalized
// and capped.
package extract

import (
	"context"
	"log/slog"
	"strings"

	readability "codeberg.org/readeck/go-readability/v2"
	"github.com/PuerkitoBio/goquery"
	"github.com/microcosm-cc/bluemonday"

	"NewsAgent/internal/infrastructure/httpclient"
	"NewsAgent/internal/ports"
)

const maxTextRunes = 3000

var contentSelectors = []string{
	"article",
	"div[id*='content']", "div[class*='content']",
	"div[id*='article']", "div[class*='article']",
	"section[id*='content']", "section[class*='content']",
	"div[id*='news']", "div[class*='news']",
}

// Extractor fetches article pages and extracts their main text.
type Extractor struct {
	client *httpclient.Client
	strip  *bluemonday.Policy
	logger *slog.Logger
}

var _ ports.Extractor = (*Extractor)(nil)

func New(client *httpclient.Client, logger *slog.Logger) *Extractor {
	return &Extractor{
		client: client,
		strip:  bluemonday.StrictPolicy(),
		logger: logger,
	}
}

// Extract fetches the page and returns the best extracted text. A page
// that parses to nothing yields an empty string with a nil error; only
// the fetch itself can fail.
func (e *Extractor) Extract(ctx context.Context, link string) (string, error) {
	body, err := e.client.Get(ctx, link)
	if err != nil {
		e.logger.Debug("article fetch failed", "url", link, "error", err)
		return "", err
	}
	return e.FromHTML(string(body)), nil
}

// FromHTML runs the extraction cascade over already-fetched HTML.
func (e *Extractor) FromHTML(html string) string {
	if text := extractReadable(html); text != "" {
		return truncate(normalize(text))
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err == nil {
		if text := extractBySelectors(doc); text != "" {
			return truncate(normalize(text))
		}
		if text := metaDescription(doc); text != "" {
			return truncate(normalize(text))
		}
	}

	stripped := strings.TrimSpace(e.strip.Sanitize(html))
	return truncate(normalize(stripped))
}

func extractReadable(html string) string {
	article, err := readability.FromReader(strings.NewReader(html), nil)
	if err != nil {
		return ""
	}
	var buf strings.Builder
	if err := article.RenderText(&buf); err != nil {
		return ""
	}
	text := strings.TrimSpace(buf.String())
	// readability happily returns boilerplate for thin pages
	if len([]rune(text)) < 80 {
		return ""
	}
	return text
}

// extractBySelectors picks the content container with the most text,
// requiring enough volume to rule out navigation blocks.
func extractBySelectors(doc *goquery.Document) string {
	best := ""
	for _, sel := range contentSelectors {
		doc.Find(sel).Each(func(_ int, s *goquery.Selection) {
			text := strings.TrimSpace(s.Text())
			if len(text) > len(best) {
				best = text
			}
		})
	}
	if len([]rune(best)) > 200 {
		return best
	}
	return ""
}

func metaDescription(doc *goquery.Document) string {
	if content, ok := doc.Find("meta[name='description']").Attr("content"); ok && content != "" {
		return content
	}
	if content, ok := doc.Find("meta[property='og:description']").Attr("content"); ok && content != "" {
		return content
	}
	return ""
}

func normalize(text string) string {
	return strings.Join(strings.Fields(text), " ")
}

func truncate(text string) string {
	runes := []rune(text)
	if len(runes) <= maxTextRunes {
		return text
	}
	return string(runes[:maxTextRunes])
}
