// Package openai provides the completion and embedding providers over any
// OpenAI-compatible API.
package openai

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	openai "github.com/sashabaranov/go-openai"
	"go.uber.org/zap"

	"github.com/kailas-cloud/askdex/internal/domain"
	"github.com/kailas-cloud/askdex/internal/metrics"
)

// completionTemperature keeps generation near-deterministic; answers still
// are not reproducible across calls because the winning model may differ.
const completionTemperature = 0.1

// Completer sends prompts to a prioritized list of models, falling back on
// failure. The first model that returns a non-empty response wins; trying
// the next candidate is an availability substitution, not a retry.
type Completer struct {
	client *openai.Client
	logger *zap.Logger
}

// CompleterConfig holds the completion provider settings.
type CompleterConfig struct {
	APIKey  string
	BaseURL string
	Logger  *zap.Logger
}

// NewCompleter creates an OpenAI-compatible completion provider.
func NewCompleter(cfg *CompleterConfig) *Completer {
	clientCfg := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientCfg.BaseURL = cfg.BaseURL
	}

	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Completer{
		client: openai.NewClientWithConfig(clientCfg),
		logger: logger,
	}
}

// Complete tries each candidate model in listed order and returns the first
// non-empty response. Per-model failures are skipped; if every candidate
// fails the returned error unwraps to domain.ErrCompletionExhausted and
// carries the last underlying error.
func (c *Completer) Complete(ctx context.Context, prompt string, models []string) (string, error) {
	if len(models) == 0 {
		return "", domain.NewCompletionExhausted(nil, errors.New("no candidate models configured"))
	}

	var lastErr error
	for i, model := range models {
		text, err := c.completeOne(ctx, model, prompt)
		if err != nil {
			lastErr = err
			c.logger.Debug("completion model failed, trying next candidate",
				zap.String("model", model),
				zap.Error(err),
			)
			continue
		}

		metrics.CompletionFallbackDepth.Observe(float64(i + 1))
		return text, nil
	}

	return "", domain.NewCompletionExhausted(models, lastErr)
}

func (c *Completer) completeOne(ctx context.Context, model, prompt string) (string, error) {
	req := openai.ChatCompletionRequest{
		Model:       model,
		Temperature: completionTemperature,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
	}

	start := time.Now()
	resp, err := c.client.CreateChatCompletion(ctx, req)
	duration := time.Since(start)

	if err != nil {
		metrics.CompletionRequestsTotal.WithLabelValues(model, "error").Inc()
		return "", parseAPIError(err)
	}

	if len(resp.Choices) == 0 || resp.Choices[0].Message.Content == "" {
		metrics.CompletionRequestsTotal.WithLabelValues(model, "empty").Inc()
		return "", fmt.Errorf("model %s: %w", model, domain.ErrEmptyCompletion)
	}

	metrics.CompletionRequestsTotal.WithLabelValues(model, "success").Inc()
	metrics.CompletionRequestDuration.WithLabelValues(model).Observe(duration.Seconds())

	return resp.Choices[0].Message.Content, nil
}

// parseAPIError extracts a human-readable error from the API response.
// All errors are wrapped with domain.ErrCompletionProvider.
func parseAPIError(err error) error {
	wrap := domain.ErrCompletionProvider

	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) {
		detail := extractDetail(reqErr.Body)
		if detail != "" {
			return fmt.Errorf("completion API error %d: %s: %w",
				reqErr.HTTPStatusCode, detail, wrap)
		}
		return fmt.Errorf("completion API error %d: %s: %w",
			reqErr.HTTPStatusCode, string(reqErr.Body), wrap)
	}

	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		return fmt.Errorf("completion API error %d: %s: %w",
			apiErr.HTTPStatusCode, apiErr.Message, wrap)
	}

	return fmt.Errorf("completion request failed: %v: %w", err, wrap)
}

// extractDetail extracts the "detail" field from a JSON error body.
func extractDetail(body []byte) string {
	var parsed struct {
		Detail string `json:"detail"`
	}
	if json.Unmarshal(body, &parsed) == nil && parsed.Detail != "" {
		return parsed.Detail
	}
	return ""
}
