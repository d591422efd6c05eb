// Package feed implements the RSS source strategy.
package feed

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/mmcdole/gofeed"

	"NewsAgent/internal/domain"
	"NewsAgent/internal/infrastructure/httpclient"
	"NewsAgent/internal/scanner"
)

// RSSScanner walks a feed endpoint page by page and collects raw
// entries. WordPress-style endpoints ending in /feed get backfill
// pages appended as ?paged=N.
type RSSScanner struct {
	client *httpclient.Client
	parser *gofeed.Parser
	logger *slog.Logger
}

func NewRSSScanner(client *httpclient.Client, logger *slog.Logger) *RSSScanner {
	return &RSSScanner{
		client: client,
		parser: gofeed.NewParser(),
		logger: logger,
	}
}

// Name identifies the strategy inside the registry.
func (s *RSSScanner) Name() string {
	return "rss"
}

// Scan fetches the base URL plus any backfill pages. A page that fails
// to fetch or parse is recorded in the trail and skipped; one broken
// page never aborts the whole feed.
func (s *RSSScanner) Scan(ctx context.Context, req scanner.Request) (scanner.Result, error) {
	if req.Feed.URL == "" {
		return scanner.Result{}, fmt.Errorf("feed %s has no URL", req.Feed.Source)
	}

	pages := ExpandPagedURLs(req.Feed.URL, req.BackfillPages)
	result := scanner.Result{}
	seen := map[string]struct{}{}

	for _, pageURL := range pages {
		if req.MaxTotal > 0 && len(result.Entries) >= req.MaxTotal {
			break
		}

		entries, err := s.fetchPage(ctx, pageURL)
		if req.MaxPerPage > 0 && len(entries) > req.MaxPerPage {
			entries = entries[:req.MaxPerPage]
		}
		stat := domain.PageStat{URL: pageURL, Entries: len(entries)}
		if err != nil {
			stat.Err = err.Error()
			result.Pages = append(result.Pages, stat)
			s.logger.Warn("feed page failed", "source", req.Feed.Source, "url", pageURL, "error", err)
			continue
		}
		result.Pages = append(result.Pages, stat)

		for _, entry := range entries {
			// Link-less entries pass through so the pipeline can count
			// them as skipped; only real links participate in dedup.
			if entry.Link != "" {
				if _, ok := seen[entry.Link]; ok {
					continue
				}
				seen[entry.Link] = struct{}{}
			}
			result.Entries = append(result.Entries, entry)
			if req.MaxTotal > 0 && len(result.Entries) >= req.MaxTotal {
				break
			}
		}
	}

	return result, nil
}

func (s *RSSScanner) fetchPage(ctx context.Context, pageURL string) ([]domain.FeedEntry, error) {
	body, err := s.client.Get(ctx, pageURL)
	if err != nil {
		return nil, err
	}

	parsed, err := s.parser.ParseString(string(body))
	if err != nil {
		return nil, fmt.Errorf("parse feed: %w", err)
	}

	entries := make([]domain.FeedEntry, 0, len(parsed.Items))
	for _, item := range parsed.Items {
		summary := item.Description
		if summary == "" {
			summary = item.Content
		}
		entries = append(entries, domain.FeedEntry{
			Title:     strings.TrimSpace(item.Title),
			Link:      strings.TrimSpace(item.Link),
			Published: item.Published,
			Updated:   item.Updated,
			Summary:   summary,
		})
	}
	return entries, nil
}

// ExpandPagedURLs returns the base URL followed by paged=2..pages
// variants for WordPress-style /feed endpoints. Other URL shapes get
// no extra pages.
func ExpandPagedURLs(baseURL string, pages int) []string {
	urls := []string{baseURL}
	if pages < 2 || !isWordPressFeed(baseURL) {
		return urls
	}
	for page := 2; page <= pages; page++ {
		sep := "?"
		if strings.Contains(baseURL, "?") {
			sep = "&"
		}
		urls = append(urls, fmt.Sprintf("%s%spaged=%d", baseURL, sep, page))
	}
	return urls
}

func isWordPressFeed(rawURL string) bool {
	lower := strings.ToLower(strings.TrimSuffix(rawURL, "/"))
	return strings.HasSuffix(lower, "/feed")
}
