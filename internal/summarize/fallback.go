package summarize

import (
	"context"
	"log/slog"
	"strings"
	"time"
	"unicode/utf8"

	"NewsAgent/internal/ports"
)

// WithFallback wraps an external summarizer with its own timeout and the
// heuristic fallback. Errors, timeouts, and empty or too-thin results
// never propagate; the entry always gets a summary.
type WithFallback struct {
	primary   ports.Summarizer
	heuristic *Heuristic
	timeout   time.Duration
	logger    *slog.Logger
}

var _ ports.Summarizer = (*WithFallback)(nil)

// NewWithFallback builds the decorator. A nil primary degrades to the
// heuristic directly.
func NewWithFallback(primary ports.Summarizer, heuristic *Heuristic, timeout time.Duration, logger *slog.Logger) *WithFallback {
	if timeout <= 0 {
		timeout = 20 * time.Second
	}
	return &WithFallback{primary: primary, heuristic: heuristic, timeout: timeout, logger: logger}
}

// Summarize never fails.
func (w *WithFallback) Summarize(ctx context.Context, title, source, published, text string) (string, error) {
	if w.primary != nil {
		callCtx, cancel := context.WithTimeout(ctx, w.timeout)
		out, err := w.primary.Summarize(callCtx, title, source, published, text)
		cancel()
		if err == nil && usable(out, title) {
			return out, nil
		}
		if err != nil && w.logger != nil {
			w.logger.Warn("summarizer failed, using heuristic", "error", err)
		}
	}
	return w.heuristic.Summarize(ctx, title, source, published, text)
}

// usable rejects summaries that add nothing over the title.
func usable(out, title string) bool {
	t := strings.TrimSpace(out)
	if t == "" {
		return false
	}
	if strings.EqualFold(t, strings.TrimSpace(title)) {
		return false
	}
	return utf8.RuneCountInString(t) >= 60
}
