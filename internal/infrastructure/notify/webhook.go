// Package notify posts ingestion run summaries to an operator webhook.
package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"NewsAgent/internal/domain"
	"NewsAgent/internal/ports"
)

// WebhookNotifier sends a JSON run summary to a configured endpoint
// (Slack-compatible or any internal collector).
type WebhookNotifier struct {
	endpoint string
	client   *http.Client
}

var _ ports.Notifier = (*WebhookNotifier)(nil)

// NewWebhookNotifier registers the target endpoint.
func NewWebhookNotifier(endpoint string) *WebhookNotifier {
	return &WebhookNotifier{
		endpoint: endpoint,
		client:   &http.Client{Timeout: 5 * time.Second},
	}
}

type reportPayload struct {
	Source         string `json:"source"`
	Inserted       int    `json:"inserted"`
	Updated        int    `json:"updated"`
	Skipped        int    `json:"skipped"`
	SkippedNonTech int    `json:"skipped_non_tech"`
	Pages          int    `json:"pages"`
	Failures       int    `json:"page_failures"`
}

type runPayload struct {
	FinishedAt string          `json:"finished_at"`
	Reports    []reportPayload `json:"reports"`
}

// PublishReports posts one JSON document covering the whole run.
func (n *WebhookNotifier) PublishReports(ctx context.Context, reports []domain.Report) error {
	if n.endpoint == "" {
		return fmt.Errorf("webhook notifier misconfigured")
	}

	payload := runPayload{
		FinishedAt: time.Now().UTC().Format(time.RFC3339),
		Reports:    make([]reportPayload, 0, len(reports)),
	}
	for _, report := range reports {
		failures := 0
		for _, page := range report.Pages {
			if page.Err != "" {
				failures++
			}
		}
		payload.Reports = append(payload.Reports, reportPayload{
			Source:         report.Source,
			Inserted:       report.Inserted,
			Updated:        report.Updated,
			Skipped:        report.Skipped,
			SkippedNonTech: report.SkippedNonTech,
			Pages:          len(report.Pages),
			Failures:       failures,
		})
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("encode payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.endpoint, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("new request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := n.client.Do(req)
	if err != nil {
		return fmt.Errorf("do request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("webhook error: %s", resp.Status)
	}
	return nil
}
