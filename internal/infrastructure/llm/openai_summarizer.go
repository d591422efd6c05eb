// Package llm adapts OpenAI-compatible chat-completion APIs to the
// Summarizer port.
package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"NewsAgent/internal/config"
	"NewsAgent/internal/ports"
	"NewsAgent/internal/summarize"
)

const systemPrompt = "너는 공학·IT 뉴스 한국어 에디터다. 사실만 간결히."

// OpenAISummarizer posts article text to a chat-completions endpoint and
// returns the sanitized reply. Callers wrap it with the heuristic
// fallback; this type reports failures honestly instead of hiding them.
type OpenAISummarizer struct {
	endpoint   string
	model      string
	apiKey     string
	httpClient *http.Client
}

var _ ports.Summarizer = (*OpenAISummarizer)(nil)

// NewOpenAISummarizer builds a client from configuration.
func NewOpenAISummarizer(cfg config.SummarizerConfig) *OpenAISummarizer {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 20 * time.Second
	}
	return &OpenAISummarizer{
		endpoint:   cfg.Endpoint,
		model:      cfg.Model,
		apiKey:     cfg.APIKey,
		httpClient: &http.Client{Timeout: timeout},
	}
}

// Summarize requests a 4-6 sentence factual Korean summary.
func (c *OpenAISummarizer) Summarize(ctx context.Context, title, source, published, text string) (string, error) {
	if c.apiKey == "" || c.endpoint == "" || c.model == "" {
		return "", fmt.Errorf("summarizer misconfigured")
	}

	prompt := fmt.Sprintf(`다음 기사를 사실 위주로 4~6문장 한국어 요약하세요. 과장/의견 없이 핵심만.
- 제목: %s
- 매체: %s
- 게시일: %s
- 본문(발췌): %s
요구사항:
1) 핵심 기술/제품/조치/수치/일정
2) 산업적 함의 1줄
3) 마지막에 #키워드 3~5개 (쉼표 구분, 기술 관련)`, title, source, published, snippet(text, 6000))

	body, err := json.Marshal(map[string]any{
		"model": c.model,
		"messages": []map[string]string{
			{"role": "system", "content": systemPrompt},
			{"role": "user", "content": prompt},
		},
		"temperature": 0.3,
		"max_tokens":  420,
	})
	if err != nil {
		return "", fmt.Errorf("marshal payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("new request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		payload, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return "", fmt.Errorf("summarizer error %s: %s", resp.Status, strings.TrimSpace(string(payload)))
	}

	var decoded struct {
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return "", fmt.Errorf("decode response: %w", err)
	}
	if len(decoded.Choices) == 0 {
		return "", fmt.Errorf("empty completion")
	}

	return summarize.Sanitize(decoded.Choices[0].Message.Content), nil
}

func snippet(text string, limit int) string {
	runes := []rune(strings.TrimSpace(text))
	if len(runes) > limit {
		runes = runes[:limit]
	}
	return string(runes)
}
