// Package openai implements the embedding and LLM ports against an
// OpenAI-compatible API with exponential backoff on transient failures.
package openai

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	backoff "github.com/cenkalti/backoff/v4"
	"github.com/google/uuid"
	"github.com/pkoukk/tiktoken-go"

	"github.com/fairyhunter13/resume-relevance/internal/config"
	"github.com/fairyhunter13/resume-relevance/internal/domain"
	"github.com/fairyhunter13/resume-relevance/internal/observability"
)

// Client implements domain.EmbeddingBackend and domain.LLMBackend.
type Client struct {
	cfg     config.Config
	hc      *http.Client
	metrics *observability.Metrics
}

// New constructs a client from the service configuration. metrics may be nil.
func New(cfg config.Config, metrics *observability.Metrics) *Client {
	return &Client{
		cfg:     cfg,
		hc:      &http.Client{Timeout: cfg.AITimeout},
		metrics: metrics,
	}
}

// Available reports whether the client is configured at all.
func (c *Client) Available() bool {
	return c.cfg.AIBaseURL != "" && c.cfg.AIAPIKey != ""
}

func (c *Client) backoffConfig(ctx context.Context) backoff.BackOff {
	expo := backoff.NewExponentialBackOff()
	expo.InitialInterval = 500 * time.Millisecond
	expo.MaxInterval = 5 * time.Second
	expo.MaxElapsedTime = c.cfg.AITimeout * time.Duration(c.cfg.AIMaxRetries)
	return backoff.WithContext(expo, ctx)
}

// Embed calls the embeddings endpoint and returns one vector per input.
func (c *Client) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	if !c.Available() {
		return nil, fmt.Errorf("op=ai.embed: %w: AI_BASE_URL or AI_API_KEY missing", domain.ErrBackendUnavailable)
	}
	body, _ := json.Marshal(map[string]any{
		"model": c.cfg.EmbeddingsModel,
		"input": texts,
	})
	var out struct {
		Data []struct {
			Embedding []float64 `json:"embedding"`
		} `json:"data"`
	}
	op := func() error {
		return c.post(ctx, "/embeddings", body, &out)
	}
	if err := backoff.Retry(op, c.backoffConfig(ctx)); err != nil {
		c.countCall("embed", "error")
		return nil, fmt.Errorf("op=ai.embed: %w: %v", domain.ErrBackendUnavailable, err)
	}
	c.countCall("embed", "ok")
	if len(out.Data) != len(texts) {
		return nil, fmt.Errorf("op=ai.embed: got %d vectors for %d inputs", len(out.Data), len(texts))
	}
	res := make([][]float32, len(out.Data))
	for i := range out.Data {
		v := make([]float32, len(out.Data[i].Embedding))
		for j := range out.Data[i].Embedding {
			v[j] = float32(out.Data[i].Embedding[j])
		}
		res[i] = v
	}
	return res, nil
}

// Generate calls chat completions with the prompt trimmed to the model's
// budget and returns the first message content.
func (c *Client) Generate(ctx context.Context, prompt string, maxTokens int, temperature float64) (string, error) {
	if !c.Available() {
		return "", fmt.Errorf("op=ai.generate: %w: AI_BASE_URL or AI_API_KEY missing", domain.ErrBackendUnavailable)
	}
	prompt = trimToBudget(prompt, c.cfg.ChatModel, maxPromptTokens)

	body, _ := json.Marshal(map[string]any{
		"model":       c.cfg.ChatModel,
		"max_tokens":  maxTokens,
		"temperature": temperature,
		"messages": []map[string]string{
			{"role": "user", "content": prompt},
		},
	})
	var out struct {
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
	}
	op := func() error {
		return c.post(ctx, "/chat/completions", body, &out)
	}
	if err := backoff.Retry(op, c.backoffConfig(ctx)); err != nil {
		c.countCall("generate", "error")
		return "", fmt.Errorf("op=ai.generate: %w: %v", domain.ErrBackendUnavailable, err)
	}
	c.countCall("generate", "ok")
	if len(out.Choices) == 0 {
		return "", errors.New("op=ai.generate: empty choices")
	}
	return out.Choices[0].Message.Content, nil
}

func (c *Client) countCall(operation, outcome string) {
	if c.metrics != nil {
		c.metrics.BackendCallsTotal.WithLabelValues(operation, outcome).Inc()
	}
}

// post sends one request; 429 and 5xx are retryable, other 4xx permanent.
func (c *Client) post(ctx context.Context, path string, body []byte, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.AIBaseURL+path, bytes.NewReader(body))
	if err != nil {
		return backoff.Permanent(err)
	}
	req.Header.Set("Authorization", "Bearer "+c.cfg.AIAPIKey)
	req.Header.Set("Content-Type", "application/json")
	// Per-attempt id so provider-side logs can be correlated with ours.
	req.Header.Set("X-Request-Id", uuid.NewString())

	resp, err := c.hc.Do(req)
	if err != nil {
		return err
	}
	defer func() { _ = resp.Body.Close() }()

	switch {
	case resp.StatusCode == http.StatusTooManyRequests:
		slog.Warn("ai provider rate limited", slog.String("path", path))
		return fmt.Errorf("rate limited: 429")
	case resp.StatusCode >= 400 && resp.StatusCode < 500:
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		slog.Warn("ai provider 4xx", slog.String("path", path), slog.Int("status", resp.StatusCode), slog.String("body", string(snippet)))
		return backoff.Permanent(fmt.Errorf("status %d", resp.StatusCode))
	case resp.StatusCode < 200 || resp.StatusCode >= 300:
		return fmt.Errorf("status %d", resp.StatusCode)
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

const maxPromptTokens = 3000

// trimToBudget cuts the prompt to a token budget using the model's encoding,
// falling back to a rune cut when the encoding is unknown.
func trimToBudget(prompt, model string, budget int) string {
	enc, err := tiktoken.EncodingForModel(model)
	if err != nil {
		enc, err = tiktoken.GetEncoding("cl100k_base")
	}
	if err != nil {
		r := []rune(prompt)
		if len(r) > budget*4 {
			return string(r[:budget*4])
		}
		return prompt
	}
	tokens := enc.Encode(prompt, nil, nil)
	if len(tokens) <= budget {
		return prompt
	}
	return enc.Decode(tokens[:budget])
}
