package nlp

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"NewsAgent/internal/ports"
)

// RemoteTagger talks to an external morphological-analysis service that
// returns (word, tag) pairs. Service tags are mapped onto the shared POS
// vocabulary; unknown tags pass through and get filtered downstream.
type RemoteTagger struct {
	endpoint string
	apiKey   string
	http     *http.Client
}

var _ ports.Tokenizer = (*RemoteTagger)(nil)

// NewRemoteTagger creates a reusable HTTP client for the tagging service.
func NewRemoteTagger(endpoint, apiKey string, timeout time.Duration) *RemoteTagger {
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &RemoteTagger{
		endpoint: endpoint,
		apiKey:   apiKey,
		http:     &http.Client{Timeout: timeout},
	}
}

// Tokenize posts the text and decodes the tagged tokens.
func (c *RemoteTagger) Tokenize(ctx context.Context, text string) ([]ports.Token, error) {
	body, err := json.Marshal(map[string]string{"text": text})
	if err != nil {
		return nil, fmt.Errorf("marshal payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("new request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("do request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status %s", resp.Status)
	}

	var decoded struct {
		Tokens []struct {
			Word string `json:"word"`
			Tag  string `json:"tag"`
		} `json:"tokens"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}

	tokens := make([]ports.Token, 0, len(decoded.Tokens))
	for _, tok := range decoded.Tokens {
		tokens = append(tokens, ports.Token{Word: tok.Word, POS: mapTag(tok.Tag)})
	}
	return tokens, nil
}

func mapTag(tag string) string {
	switch {
	case len(tag) >= 2 && tag[:2] == "NN":
		return ports.POSNoun
	case len(tag) >= 2 && tag[:2] == "VV":
		return ports.POSVerb
	case len(tag) >= 2 && tag[:2] == "VA":
		return ports.POSAdjective
	case tag == "SL":
		return ports.POSAlpha
	default:
		return tag
	}
}
