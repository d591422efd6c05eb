package ports

import (
	"context"
	"time"

	"NewsAgent/internal/domain"
)

// Token is one (word, part-of-speech) pair produced by a Tokenizer.
type Token struct {
	Word string
	POS  string
}

// Part-of-speech tags shared by every Tokenizer backend.
const (
	POSNoun      = "Noun"
	POSVerb      = "Verb"
	POSAdjective = "Adjective"
	POSAlpha     = "Alpha"
)

// Tokenizer turns raw text into tagged tokens. Backends are pluggable;
// consumers must depend only on this interface.
type Tokenizer interface {
	Tokenize(ctx context.Context, text string) ([]Token, error)
}

// Summarizer produces a prose summary. Implementations may fail; callers
// wrap them with the heuristic fallback, which never does.
type Summarizer interface {
	Summarize(ctx context.Context, title, source, published, text string) (string, error)
}

// Extractor fetches an article URL and returns its main body text.
// FromHTML runs the same extraction cascade over markup that is
// already in hand, such as a feed entry summary.
type Extractor interface {
	Extract(ctx context.Context, link string) (string, error)
	FromHTML(html string) string
}

// QueryFilters narrows a store read. Zero values mean "no restriction".
type QueryFilters struct {
	Source       string
	From         time.Time
	To           time.Time
	Search       string
	FavoriteOnly bool
	Limit        int
}

// ArticleStore persists articles keyed by canonical link. The unique
// constraint on the link is the enforcement point for concurrent upserts.
type ArticleStore interface {
	Exists(ctx context.Context, link string) (bool, error)
	Upsert(ctx context.Context, article domain.Article) (domain.Outcome, error)
	Query(ctx context.Context, filters QueryFilters) ([]domain.Article, error)
	ToggleFavorite(ctx context.Context, articleID int64) (bool, error)
	Sources(ctx context.Context) ([]string, error)
}

// Notifier publishes per-feed ingestion reports to an operator channel.
type Notifier interface {
	PublishReports(ctx context.Context, reports []domain.Report) error
}

// Scheduler controls when recurring ingestion runs execute.
type Scheduler interface {
	Start(ctx context.Context, job func(time.Time)) error
	Stop(ctx context.Context) error
}
