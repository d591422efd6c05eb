package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/araddon/dateparse"
	"golang.org/x/sync/errgroup"

	"NewsAgent/internal/canonical"
	"NewsAgent/internal/classify"
	"NewsAgent/internal/domain"
	"NewsAgent/internal/keywords"
	"NewsAgent/internal/ports"
	"NewsAgent/internal/scanner"
)

const topKeywords = 10

// FeedSpec names one feed to ingest and the scanner strategy to use.
type FeedSpec struct {
	Source  string
	URL     string
	Scanner string
}

// Options carries the ingestion knobs.
type Options struct {
	MaxResults        int
	MaxTotalPerSource int
	BackfillPages     int
	Workers           int
	FeedWorkers       int
	SkipIfExists      bool
	SkipNonTech       bool
	FetchBody         bool
}

// PipelineDeps wires all driven adapters into the orchestration pipeline.
type PipelineDeps struct {
	Registry   *scanner.Registry
	Extractor  ports.Extractor
	Keywords   *keywords.Extractor
	Gate       *classify.TechGate
	Summarizer ports.Summarizer
	Store      ports.ArticleStore
	Notifier   ports.Notifier
	Logger     *slog.Logger
	Options    Options
}

// Pipeline implements the ingest workflow: scan feeds, process entries
// concurrently, upsert, report.
type Pipeline struct {
	registry   *scanner.Registry
	extractor  ports.Extractor
	keywords   *keywords.Extractor
	gate       *classify.TechGate
	summarizer ports.Summarizer
	store      ports.ArticleStore
	notifier   ports.Notifier
	logger     *slog.Logger
	opts       Options
}

// NewPipeline constructs the orchestration component.
func NewPipeline(deps PipelineDeps) *Pipeline {
	logger := deps.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	opts := deps.Options
	if opts.Workers <= 0 {
		opts.Workers = 4
	}
	if opts.FeedWorkers <= 0 {
		opts.FeedWorkers = 1
	}
	return &Pipeline{
		registry:   deps.Registry,
		extractor:  deps.Extractor,
		keywords:   deps.Keywords,
		gate:       deps.Gate,
		summarizer: deps.Summarizer,
		store:      deps.Store,
		notifier:   deps.Notifier,
		logger:     logger,
		opts:       opts,
	}
}

// ProcessAll ingests every feed, up to FeedWorkers feeds in parallel.
// A feed that fails outright yields a report with the failure recorded
// in its page trail; it never aborts the siblings.
func (p *Pipeline) ProcessAll(ctx context.Context, feeds []FeedSpec) ([]domain.Report, error) {
	reports := make([]domain.Report, len(feeds))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(p.opts.FeedWorkers)
	for i, feed := range feeds {
		g.Go(func() error {
			reports[i] = p.processFeed(gctx, feed)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return reports, err
	}

	if p.notifier != nil {
		if err := p.notifier.PublishReports(ctx, reports); err != nil {
			p.logger.Warn("publish reports failed", "error", err)
		}
	}
	return reports, nil
}

func (p *Pipeline) processFeed(ctx context.Context, feed FeedSpec) domain.Report {
	report := domain.Report{Source: feed.Source}

	name := feed.Scanner
	if name == "" {
		name = "rss"
	}
	strategy, err := p.registry.Resolve(name)
	if err != nil {
		p.logger.Error("no scanner for feed", "source", feed.Source, "scanner", name, "error", err)
		report.Pages = append(report.Pages, domain.PageStat{URL: feed.URL, Err: err.Error()})
		return report
	}

	result, err := strategy.Scan(ctx, scanner.Request{
		Feed:          scanner.Feed{Source: feed.Source, URL: feed.URL},
		BackfillPages: p.opts.BackfillPages,
		MaxPerPage:    p.opts.MaxResults,
		MaxTotal:      p.opts.MaxTotalPerSource,
	})
	if err != nil {
		p.logger.Error("feed scan failed", "source", feed.Source, "error", err)
		report.Pages = append(report.Pages, domain.PageStat{URL: feed.URL, Err: err.Error()})
		return report
	}
	report.Pages = result.Pages

	// canonicalize and dedup serially, then fan out
	type task struct {
		entry domain.FeedEntry
		link  string
	}
	seen := map[string]struct{}{}
	var tasks []task
	for _, entry := range result.Entries {
		link := canonical.Link(entry.Link)
		if strings.TrimSpace(entry.Title) == "" || link == "" {
			report.Add(domain.OutcomeSkipped)
			continue
		}
		if _, dup := seen[link]; dup {
			report.Add(domain.OutcomeSkipped)
			continue
		}
		seen[link] = struct{}{}
		tasks = append(tasks, task{entry: entry, link: link})
	}

	outcomes := make([]domain.Outcome, len(tasks))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(p.opts.Workers)
	for i, tk := range tasks {
		g.Go(func() error {
			outcome, err := p.processEntry(gctx, feed.Source, tk.entry, tk.link)
			if err != nil {
				p.logger.Warn("entry failed", "source", feed.Source, "link", tk.link, "error", err)
				outcome = domain.OutcomeSkipped
			}
			outcomes[i] = outcome
			return nil
		})
	}
	_ = g.Wait()

	for _, outcome := range outcomes {
		report.Add(outcome)
	}

	p.logger.Info("feed done",
		"source", feed.Source,
		"inserted", report.Inserted,
		"updated", report.Updated,
		"skipped", report.Skipped,
		"non_tech", report.SkippedNonTech,
	)
	return report
}

func (p *Pipeline) processEntry(ctx context.Context, source string, entry domain.FeedEntry, link string) (domain.Outcome, error) {
	if p.opts.SkipIfExists {
		exists, err := p.store.Exists(ctx, link)
		if err != nil {
			return domain.OutcomeSkipped, fmt.Errorf("check existing: %w", err)
		}
		if exists {
			return domain.OutcomeSkipped, nil
		}
	}

	published := parsePublished(entry)

	text := ""
	if p.opts.FetchBody {
		body, err := p.extractor.Extract(ctx, link)
		if err != nil {
			p.logger.Debug("body fetch failed, falling back to feed summary", "link", link, "error", err)
		}
		text = body
	}
	if text == "" {
		text = p.extractor.FromHTML(entry.Summary)
	}

	summary, err := p.summarizer.Summarize(ctx, entry.Title, source, published.Format("2006-01-02"), text)
	if err != nil {
		p.logger.Warn("summarize failed", "link", link, "error", err)
		summary = entry.Title
	}

	// Keywords rank the body text; when there is none, the generated
	// summary stands in. The title never feeds the ranking.
	keywordSource := text
	if keywordSource == "" {
		keywordSource = summary
	}
	kws, err := p.keywords.Extract(ctx, keywordSource, topKeywords)
	if err != nil {
		return domain.OutcomeSkipped, fmt.Errorf("extract keywords: %w", err)
	}

	if p.opts.SkipNonTech && !p.gate.IsTechDoc(entry.Title, text, kws) {
		return domain.OutcomeSkippedNonTech, nil
	}

	outcome, err := p.store.Upsert(ctx, domain.Article{
		Title:     strings.TrimSpace(entry.Title),
		Link:      link,
		Published: published,
		Source:    source,
		RawText:   text,
		Summary:   summary,
		Keywords:  kws,
	})
	if err != nil {
		return domain.OutcomeSkipped, fmt.Errorf("upsert: %w", err)
	}
	return outcome, nil
}

// parsePublished resolves the entry timestamp from the published field,
// then the updated field, then the current time.
func parsePublished(entry domain.FeedEntry) time.Time {
	for _, raw := range []string{entry.Published, entry.Updated} {
		if strings.TrimSpace(raw) == "" {
			continue
		}
		if ts, err := dateparse.ParseAny(raw); err == nil {
			return ts.UTC()
		}
	}
	return time.Now().UTC()
}
