package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"NewsAgent/internal/classify"
	"NewsAgent/internal/domain"
	"NewsAgent/internal/infrastructure/extract"
	"NewsAgent/internal/infrastructure/feed"
	"NewsAgent/internal/infrastructure/httpclient"
	"NewsAgent/internal/infrastructure/nlp"
	"NewsAgent/internal/infrastructure/storage"
	"NewsAgent/internal/keywords"
	"NewsAgent/internal/ports"
	"NewsAgent/internal/scanner"
	"NewsAgent/internal/summarize"
	"NewsAgent/internal/textfilter"
)

func feedDocument(host string) string {
	var items strings.Builder
	add := func(n int, title, link string) {
		fmt.Fprintf(&items, `<item>
<title>%s</title>
<link>%s</link>
<pubDate>Mon, 10 Mar 2025 09:0%d:00 +0900</pubDate>
<description>요약문 %d</description>
</item>`, title, link, n, n)
	}
	add(1, "삼성전자 반도체 파운드리 수주 확대", host+"/articles/1?utm_source=rss")
	add(2, "LG엔솔, 전고체 배터리 파일럿 라인 구축", host+"/articles/2")
	// duplicate of item 1 after canonicalization
	add(3, "삼성전자 반도체 파운드리 수주 확대", host+"/articles/1?utm_medium=feed")
	add(4, "유명 배우 결혼 발표, 연예계 화제", host+"/articles/4")
	return `<?xml version="1.0" encoding="UTF-8"?>
<rss version="2.0"><channel><title>t</title>` + items.String() + `</channel></rss>`
}

func articlePage(body string) string {
	return `<html><body><article><p>` + strings.Repeat(body+" ", 15) + `</p></article></body></html>`
}

func newTestPipeline(t *testing.T, store ports.ArticleStore, opts Options) (*Pipeline, *httptest.Server) {
	t.Helper()

	var srv *httptest.Server
	srv = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case strings.HasPrefix(r.URL.Path, "/feed"):
			fmt.Fprint(w, feedDocument(srv.URL))
		case r.URL.Path == "/articles/1":
			fmt.Fprint(w, articlePage("파운드리 공정 고객 확보 경쟁이 치열하다."))
		case r.URL.Path == "/articles/2":
			fmt.Fprint(w, articlePage("전고체 배터리 양산을 위한 파일럿 라인이다."))
		case r.URL.Path == "/articles/4":
			fmt.Fprint(w, articlePage("배우의 결혼 소식에 팬들이 축하를 보냈다."))
		default:
			http.NotFound(w, r)
		}
	}))
	t.Cleanup(srv.Close)

	logger := slog.New(slog.DiscardHandler)
	client := httpclient.New(httpclient.Options{
		HostInterval: time.Millisecond,
		RetryDelay:   time.Millisecond,
	})
	lexicon := textfilter.DefaultLexicon()

	registry := scanner.NewRegistry()
	registry.Register(feed.NewRSSScanner(client, logger))

	pipeline := NewPipeline(PipelineDeps{
		Registry:   registry,
		Extractor:  extract.New(client, logger),
		Keywords:   keywords.New(nlp.NewRuleTokenizer(), lexicon, true),
		Gate:       classify.NewTechGate(lexicon),
		Summarizer: summarize.NewHeuristic(domain.DefaultTaxonomy(), lexicon),
		Store:      store,
		Logger:     logger,
		Options:    opts,
	})
	return pipeline, srv
}

func TestProcessAllEndToEnd(t *testing.T) {
	store, err := storage.Open(":memory:")
	require.NoError(t, err)
	defer store.Close()

	pipeline, srv := newTestPipeline(t, store, Options{
		MaxResults:        10,
		MaxTotalPerSource: 50,
		Workers:           4,
		FeedWorkers:       2,
		SkipIfExists:      true,
		SkipNonTech:       true,
		FetchBody:         true,
	})

	reports, err := pipeline.ProcessAll(context.Background(), []FeedSpec{
		{Source: "테스트소스", URL: srv.URL + "/feed", Scanner: "rss"},
	})
	require.NoError(t, err)
	require.Len(t, reports, 1)

	report := reports[0]
	assert.Equal(t, 2, report.Inserted, "two distinct tech articles")
	assert.Equal(t, 1, report.Skipped, "canonical duplicate collapsed")
	assert.Equal(t, 1, report.SkippedNonTech, "entertainment entry gated out")
	require.Len(t, report.Pages, 1)
	assert.Empty(t, report.Pages[0].Err)

	stored, err := store.Query(context.Background(), ports.QueryFilters{})
	require.NoError(t, err)
	require.Len(t, stored, 2)
	for _, art := range stored {
		assert.Equal(t, "테스트소스", art.Source)
		assert.NotContains(t, art.Link, "utm_")
		assert.NotEmpty(t, art.Summary)
		assert.NotEmpty(t, art.Keywords)
		assert.False(t, art.Published.IsZero())
	}
}

func TestProcessAllSkipIfExists(t *testing.T) {
	store, err := storage.Open(":memory:")
	require.NoError(t, err)
	defer store.Close()

	opts := Options{
		MaxResults: 10, Workers: 2, FeedWorkers: 1,
		SkipIfExists: true, FetchBody: true,
	}
	pipeline, srv := newTestPipeline(t, store, opts)
	feeds := []FeedSpec{{Source: "테스트소스", URL: srv.URL + "/feed", Scanner: "rss"}}

	first, err := pipeline.ProcessAll(context.Background(), feeds)
	require.NoError(t, err)
	require.Equal(t, 3, first[0].Inserted, "gate off, all distinct entries land")

	second, err := pipeline.ProcessAll(context.Background(), feeds)
	require.NoError(t, err)
	assert.Zero(t, second[0].Inserted)
	assert.Zero(t, second[0].Updated)
	assert.Equal(t, 4, second[0].Skipped, "existing plus duplicate all skipped")
}

func TestProcessAllRefreshWithoutSkip(t *testing.T) {
	store, err := storage.Open(":memory:")
	require.NoError(t, err)
	defer store.Close()

	opts := Options{
		MaxResults: 10, Workers: 2, FeedWorkers: 1,
		SkipIfExists: false, FetchBody: true,
	}
	pipeline, srv := newTestPipeline(t, store, opts)
	feeds := []FeedSpec{{Source: "테스트소스", URL: srv.URL + "/feed", Scanner: "rss"}}

	_, err = pipeline.ProcessAll(context.Background(), feeds)
	require.NoError(t, err)

	second, err := pipeline.ProcessAll(context.Background(), feeds)
	require.NoError(t, err)
	assert.Equal(t, 3, second[0].Updated, "re-ingest refreshes in place")
}

func TestProcessAllCountsLinklessEntryAsSkipped(t *testing.T) {
	store, err := storage.Open(":memory:")
	require.NoError(t, err)
	defer store.Close()

	var srv *httptest.Server
	srv = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if strings.HasPrefix(r.URL.Path, "/feed") {
			fmt.Fprintf(w, `<?xml version="1.0" encoding="UTF-8"?>
<rss version="2.0"><channel><title>t</title>
<item><title>링크 없는 기사</title><description>요약</description></item>
<item><title>반도체 수출 증가</title><link>%s/articles/1</link>
<pubDate>Mon, 10 Mar 2025 09:00:00 +0900</pubDate><description>요약</description></item>
</channel></rss>`, srv.URL)
			return
		}
		fmt.Fprint(w, articlePage("반도체 수출이 늘었다."))
	}))
	t.Cleanup(srv.Close)

	logger := slog.New(slog.DiscardHandler)
	client := httpclient.New(httpclient.Options{
		HostInterval: time.Millisecond,
		RetryDelay:   time.Millisecond,
	})
	lexicon := textfilter.DefaultLexicon()
	registry := scanner.NewRegistry()
	registry.Register(feed.NewRSSScanner(client, logger))

	pipeline := NewPipeline(PipelineDeps{
		Registry:   registry,
		Extractor:  extract.New(client, logger),
		Keywords:   keywords.New(nlp.NewRuleTokenizer(), lexicon, true),
		Gate:       classify.NewTechGate(lexicon),
		Summarizer: summarize.NewHeuristic(domain.DefaultTaxonomy(), lexicon),
		Store:      store,
		Logger:     logger,
		Options:    Options{MaxResults: 10, Workers: 2, FeedWorkers: 1, FetchBody: true},
	})

	reports, err := pipeline.ProcessAll(context.Background(), []FeedSpec{
		{Source: "테스트소스", URL: srv.URL + "/feed", Scanner: "rss"},
	})
	require.NoError(t, err)
	require.Len(t, reports, 1)
	assert.Equal(t, 1, reports[0].Skipped, "link-less entry counts as skipped")
	assert.Equal(t, 1, reports[0].Inserted)
}

func TestKeywordsRankBodyOrSummaryNeverTitle(t *testing.T) {
	store, err := storage.Open(":memory:")
	require.NoError(t, err)
	defer store.Close()

	var srv *httptest.Server
	srv = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case strings.HasPrefix(r.URL.Path, "/feed"):
			fmt.Fprintf(w, `<?xml version="1.0" encoding="UTF-8"?>
<rss version="2.0"><channel><title>t</title>
<item><title>반도체 특집</title><link>%s/articles/10</link>
<pubDate>Mon, 10 Mar 2025 09:00:00 +0900</pubDate><description>요약</description></item>
<item><title>반도체 시장 전망</title><link>%s/articles/11</link>
<pubDate>Mon, 10 Mar 2025 09:01:00 +0900</pubDate><description></description></item>
</channel></rss>`, srv.URL, srv.URL)
		case r.URL.Path == "/articles/10":
			fmt.Fprint(w, articlePage("전고체 배터리 양산 공정이 가동되고 있다."))
		default:
			// article 11 has no reachable body and no feed summary
			http.NotFound(w, r)
		}
	}))
	t.Cleanup(srv.Close)

	logger := slog.New(slog.DiscardHandler)
	client := httpclient.New(httpclient.Options{
		HostInterval: time.Millisecond,
		RetryDelay:   time.Millisecond,
	})
	lexicon := textfilter.DefaultLexicon()
	registry := scanner.NewRegistry()
	registry.Register(feed.NewRSSScanner(client, logger))

	pipeline := NewPipeline(PipelineDeps{
		Registry:   registry,
		Extractor:  extract.New(client, logger),
		Keywords:   keywords.New(nlp.NewRuleTokenizer(), lexicon, true),
		Gate:       classify.NewTechGate(lexicon),
		Summarizer: summarize.NewHeuristic(domain.DefaultTaxonomy(), lexicon),
		Store:      store,
		Logger:     logger,
		Options:    Options{MaxResults: 10, Workers: 2, FeedWorkers: 1, FetchBody: true},
	})

	_, err = pipeline.ProcessAll(context.Background(), []FeedSpec{
		{Source: "테스트소스", URL: srv.URL + "/feed", Scanner: "rss"},
	})
	require.NoError(t, err)

	stored, err := store.Query(context.Background(), ports.QueryFilters{})
	require.NoError(t, err)
	require.Len(t, stored, 2)

	byLink := map[string]domain.Article{}
	for _, art := range stored {
		byLink[art.Link] = art
	}

	// Body present: keywords rank the body alone, title terms stay out.
	withBody := byLink[srv.URL+"/articles/10"]
	assert.Contains(t, withBody.Keywords, "배터리")
	assert.NotContains(t, withBody.Keywords, "반도체", "title must not feed keyword ranking")

	// No body, no feed summary: the generated summary is the ranking
	// source, so the keyword list is still non-empty.
	noBody := byLink[srv.URL+"/articles/11"]
	assert.NotEmpty(t, noBody.Keywords)
	assert.Contains(t, noBody.Keywords, "반도체", "summary-derived keyword expected")
}

func TestProcessAllBrokenFeedDoesNotAbortSiblings(t *testing.T) {
	store, err := storage.Open(":memory:")
	require.NoError(t, err)
	defer store.Close()

	pipeline, srv := newTestPipeline(t, store, Options{
		MaxResults: 10, Workers: 2, FeedWorkers: 2, FetchBody: true,
	})

	reports, err := pipeline.ProcessAll(context.Background(), []FeedSpec{
		{Source: "죽은소스", URL: srv.URL + "/missing.xml", Scanner: "rss"},
		{Source: "테스트소스", URL: srv.URL + "/feed", Scanner: "rss"},
	})
	require.NoError(t, err)
	require.Len(t, reports, 2)

	assert.Zero(t, reports[0].Total(), "dead feed contributes nothing")
	require.Len(t, reports[0].Pages, 1)
	assert.NotEmpty(t, reports[0].Pages[0].Err)

	assert.Equal(t, 3, reports[1].Inserted)
}

func TestProcessAllUnknownScanner(t *testing.T) {
	store, err := storage.Open(":memory:")
	require.NoError(t, err)
	defer store.Close()

	pipeline, srv := newTestPipeline(t, store, Options{Workers: 1, FeedWorkers: 1})

	reports, err := pipeline.ProcessAll(context.Background(), []FeedSpec{
		{Source: "테스트소스", URL: srv.URL + "/feed", Scanner: "gopher"},
	})
	require.NoError(t, err)
	require.Len(t, reports, 1)
	assert.Zero(t, reports[0].Total())
	require.Len(t, reports[0].Pages, 1)
	assert.Contains(t, reports[0].Pages[0].Err, "not registered")
}

func TestParsePublished(t *testing.T) {
	ts := parsePublished(domain.FeedEntry{Published: "Mon, 10 Mar 2025 09:00:00 +0900"})
	assert.Equal(t, time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC), ts.Truncate(24*time.Hour))

	ts = parsePublished(domain.FeedEntry{Updated: "2025-03-11T10:00:00Z"})
	assert.Equal(t, 11, ts.Day())

	now := time.Now().UTC()
	ts = parsePublished(domain.FeedEntry{Published: "not a date"})
	assert.WithinDuration(t, now, ts, time.Minute)
}
