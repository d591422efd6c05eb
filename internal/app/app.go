package app

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"NewsAgent/internal/aggregate"
	"NewsAgent/internal/classify"
	"NewsAgent/internal/config"
	"NewsAgent/internal/domain"
	"NewsAgent/internal/infrastructure/extract"
	"NewsAgent/internal/infrastructure/feed"
	"NewsAgent/internal/infrastructure/httpclient"
	"NewsAgent/internal/infrastructure/llm"
	"NewsAgent/internal/infrastructure/nlp"
	"NewsAgent/internal/infrastructure/notify"
	"NewsAgent/internal/infrastructure/scheduler"
	"NewsAgent/internal/infrastructure/storage"
	"NewsAgent/internal/keywords"
	"NewsAgent/internal/logging"
	"NewsAgent/internal/ports"
	"NewsAgent/internal/scanner"
	"NewsAgent/internal/summarize"
	"NewsAgent/internal/textfilter"
	"NewsAgent/internal/usecase"
)

// Application wires configs to use cases and lifecycle orchestration.
type Application struct {
	cfg        config.Config
	logger     *slog.Logger
	store      *storage.SQLiteStore
	pipeline   *usecase.Pipeline
	scheduler  *usecase.Scheduler
	classifier *classify.Classifier
	engine     *aggregate.Engine
	feeds      []usecase.FeedSpec
}

// New builds a runnable application instance and opens the store.
func New(cfg config.Config, baseLogger *slog.Logger) (*Application, error) {
	if baseLogger == nil {
		baseLogger = logging.New(cfg.Logging.Level)
	}

	store, err := storage.Open(cfg.Database.Path)
	if err != nil {
		return nil, fmt.Errorf("open storage: %w", err)
	}

	client := httpclient.New(httpclient.Options{
		ConnectTimeout: cfg.HTTP.ConnectTimeout,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		HostInterval:   cfg.HTTP.HostInterval,
		MaxRetries:     cfg.HTTP.MaxRetries,
	})

	lexicon := textfilter.DefaultLexicon()
	taxonomy := domain.DefaultTaxonomy()

	registry := scanner.NewRegistry()
	registry.Register(feed.NewRSSScanner(client, baseLogger.With("component", "scanner.rss")))

	tokenizer := buildTokenizer(cfg.Tokenizer, baseLogger)
	extractor := extract.New(client, baseLogger.With("component", "extract"))

	heuristic := summarize.NewHeuristic(taxonomy, lexicon)
	var summarizer ports.Summarizer = heuristic
	if cfg.Summarizer.Enabled && cfg.Summarizer.APIKey != "" {
		summarizer = summarize.NewWithFallback(
			llm.NewOpenAISummarizer(cfg.Summarizer),
			heuristic,
			cfg.Summarizer.Timeout,
			baseLogger.With("component", "summarize"),
		)
	}

	var notifier ports.Notifier
	if cfg.Notifier.WebhookURL != "" {
		notifier = notify.NewWebhookNotifier(cfg.Notifier.WebhookURL)
	}

	pipeline := usecase.NewPipeline(usecase.PipelineDeps{
		Registry:   registry,
		Extractor:  extractor,
		Keywords:   keywords.New(tokenizer, lexicon, cfg.Pipeline.StrictTechKeywords),
		Gate:       classify.NewTechGate(lexicon),
		Summarizer: summarizer,
		Store:      store,
		Notifier:   notifier,
		Logger:     baseLogger.With("component", "pipeline"),
		Options: usecase.Options{
			MaxResults:        cfg.Pipeline.MaxResults,
			MaxTotalPerSource: cfg.Pipeline.MaxTotalPerSource,
			BackfillPages:     cfg.Pipeline.BackfillPages,
			Workers:           cfg.Pipeline.Workers,
			FeedWorkers:       cfg.Pipeline.FeedWorkers,
			SkipIfExists:      cfg.Pipeline.SkipIfExists,
			SkipNonTech:       cfg.Pipeline.SkipNonTech,
			FetchBody:         cfg.Pipeline.FetchBody,
		},
	})

	feeds := make([]usecase.FeedSpec, 0, len(cfg.Feeds))
	for _, f := range cfg.Feeds {
		feeds = append(feeds, usecase.FeedSpec{Source: f.Source, URL: f.URL, Scanner: f.Scanner})
	}

	app := &Application{
		cfg:        cfg,
		logger:     baseLogger,
		store:      store,
		pipeline:   pipeline,
		classifier: classify.NewClassifier(taxonomy, matchMode(cfg.Pipeline.MatchMode)),
		engine:     aggregate.New(lexicon, cfg.Pipeline.StrictTechKeywords),
		feeds:      feeds,
	}
	app.scheduler = usecase.NewScheduler(
		scheduler.NewIntervalScheduler(cfg.Scheduler.Interval),
		pipeline,
		feeds,
		baseLogger.With("component", "scheduler"),
	)
	return app, nil
}

func buildTokenizer(cfg config.TokenizerConfig, logger *slog.Logger) ports.Tokenizer {
	rule := nlp.NewRuleTokenizer()
	if cfg.Backend != "remote" || cfg.Endpoint == "" {
		return rule
	}
	remote := nlp.NewRemoteTagger(cfg.Endpoint, cfg.APIKey, cfg.Timeout)
	return nlp.WithFallback(remote, rule, logger.With("component", "tokenizer"))
}

func matchMode(value string) classify.MatchMode {
	if value == "word-boundary" || value == "word" {
		return classify.MatchWordBoundary
	}
	return classify.MatchSubstring
}

// Close releases the store.
func (a *Application) Close() error {
	return a.store.Close()
}

// Store exposes the article store for query-side commands.
func (a *Application) Store() ports.ArticleStore {
	return a.store
}

// Classifier exposes the taxonomy classifier for query-side commands.
func (a *Application) Classifier() *classify.Classifier {
	return a.classifier
}

// Engine exposes the aggregation engine for query-side commands.
func (a *Application) Engine() *aggregate.Engine {
	return a.engine
}

// RunOnce performs a single ingestion pass over all configured feeds.
func (a *Application) RunOnce(ctx context.Context) ([]domain.Report, error) {
	start := time.Now()
	reports, err := a.pipeline.ProcessAll(ctx, a.feeds)
	if err != nil {
		return reports, err
	}

	var inserted, updated int
	for _, r := range reports {
		inserted += r.Inserted
		updated += r.Updated
	}
	a.logger.Info("ingestion finished",
		"feeds", len(reports),
		"inserted", inserted,
		"updated", updated,
		"elapsed", time.Since(start).Round(time.Millisecond),
	)
	return reports, nil
}

// RunForever starts the recurring scheduler and blocks until ctx ends.
func (a *Application) RunForever(ctx context.Context) error {
	if err := a.scheduler.Start(ctx); err != nil {
		return fmt.Errorf("start scheduler: %w", err)
	}
	<-ctx.Done()
	return a.scheduler.Stop(context.Background())
}
