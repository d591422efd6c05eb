package nlp

import (
	"context"
	"log/slog"

	"NewsAgent/internal/ports"
)

// FallbackTokenizer tries the primary backend and falls back to the
// secondary on any error, so a flaky tagging service never stalls the
// ingestion pipeline.
type FallbackTokenizer struct {
	primary  ports.Tokenizer
	fallback ports.Tokenizer
	logger   *slog.Logger
}

var _ ports.Tokenizer = (*FallbackTokenizer)(nil)

// WithFallback chains two backends.
func WithFallback(primary, fallback ports.Tokenizer, logger *slog.Logger) *FallbackTokenizer {
	return &FallbackTokenizer{primary: primary, fallback: fallback, logger: logger}
}

// Tokenize prefers the primary backend.
func (f *FallbackTokenizer) Tokenize(ctx context.Context, text string) ([]ports.Token, error) {
	tokens, err := f.primary.Tokenize(ctx, text)
	if err == nil {
		return tokens, nil
	}
	if f.logger != nil {
		f.logger.Warn("primary tokenizer failed, using fallback", "error", err)
	}
	return f.fallback.Tokenize(ctx, text)
}
