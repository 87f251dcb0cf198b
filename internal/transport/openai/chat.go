// Package openai talks to any OpenAI-compatible chat completion endpoint,
// Mistral's /v1 API included.
package openai

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	openai "github.com/sashabaranov/go-openai"
	"github.com/tidwall/gjson"
	"go.uber.org/zap"

	"github.com/hydrovibe/hydrosearch/internal/domain"
	logpkg "github.com/hydrovibe/hydrosearch/internal/logger"
	"github.com/hydrovibe/hydrosearch/internal/metrics"
)

// Config holds the chat provider settings.
type Config struct {
	APIKey      string
	BaseURL     string
	Temperature float64 // 0 = provider default
	Provider    string  // metrics label
	Timeout     time.Duration
	Logger      *zap.Logger
}

// Client owns the HTTP client shared by the per-request chats it creates.
type Client struct {
	client      *openai.Client
	temperature float32
	provider    string
	logger      *zap.Logger
}

// NewClient creates an OpenAI-compatible chat provider.
func NewClient(cfg *Config) *Client {
	clientCfg := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientCfg.BaseURL = cfg.BaseURL
	}
	if cfg.Timeout > 0 {
		clientCfg.HTTPClient = &http.Client{Timeout: cfg.Timeout}
	}

	return &Client{
		client:      openai.NewClientWithConfig(clientCfg),
		temperature: float32(cfg.Temperature),
		provider:    cfg.Provider,
		logger:      cfg.Logger,
	}
}

// NewChat returns a chat bound to model.
func (c *Client) NewChat(model string) (domain.ChatModel, error) {
	if model == "" {
		return nil, fmt.Errorf("%w: empty model name", domain.ErrConfiguration)
	}
	return &Chat{client: c, model: model}, nil
}

// HealthCheck verifies API availability via ListModels (free endpoint).
func (c *Client) HealthCheck(ctx context.Context) error {
	if _, err := c.client.ListModels(ctx); err != nil {
		return fmt.Errorf("list models: %w", err)
	}
	return nil
}

// Chat is a single-model chat session.
type Chat struct {
	client *Client
	model  string
}

var _ domain.ChatModel = (*Chat)(nil)

// Chat sends one system and one user message and returns the reply text.
func (ch *Chat) Chat(ctx context.Context, systemInstruction, userMessage string) (string, error) {
	c := ch.client
	stage := string(domain.StageFromContext(ctx))

	req := openai.ChatCompletionRequest{
		Model: ch.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: systemInstruction},
			{Role: openai.ChatMessageRoleUser, Content: userMessage},
		},
		Temperature: c.temperature,
	}

	start := time.Now()

	resp, err := c.client.CreateChatCompletion(ctx, req)

	duration := time.Since(start)

	if err != nil {
		metrics.LLMRequestsTotal.WithLabelValues(c.provider, ch.model, stage, "error").Inc()
		metrics.LLMErrorsTotal.WithLabelValues(c.provider, ch.model, errorType(err)).Inc()
		return "", parseAPIError(err)
	}

	if len(resp.Choices) == 0 {
		metrics.LLMRequestsTotal.WithLabelValues(c.provider, ch.model, stage, "error").Inc()
		metrics.LLMErrorsTotal.WithLabelValues(c.provider, ch.model, "empty_response").Inc()
		return "", fmt.Errorf("empty chat completion response: %w", domain.ErrUpstreamUnavailable)
	}

	metrics.LLMRequestsTotal.WithLabelValues(c.provider, ch.model, stage, "success").Inc()
	metrics.LLMRequestDuration.WithLabelValues(c.provider, ch.model, stage).Observe(duration.Seconds())
	if resp.Usage.TotalTokens > 0 {
		metrics.LLMTokensTotal.WithLabelValues(c.provider, ch.model, "prompt").Add(float64(resp.Usage.PromptTokens))
		metrics.LLMTokensTotal.WithLabelValues(c.provider, ch.model, "completion").Add(float64(resp.Usage.CompletionTokens))
	}

	logpkg.FromContextOr(ctx, c.logger).Debug("chat completion",
		zap.String("model", ch.model),
		zap.String("stage", stage),
		zap.Duration("duration", duration),
		zap.Int("total_tokens", resp.Usage.TotalTokens),
	)

	return resp.Choices[0].Message.Content, nil
}

func errorType(err error) string {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return "canceled"
	}
	return "api_error"
}

// parseAPIError extracts a human-readable error from the API response.
// All errors are wrapped with domain.ErrUpstreamUnavailable for correct 500 mapping.
func parseAPIError(err error) error {
	wrap := domain.ErrUpstreamUnavailable

	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("chat request aborted: %w: %w", err, wrap)
	}

	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) {
		if detail := extractDetail(reqErr.Body); detail != "" {
			return fmt.Errorf("chat API error %d: %s: %w", reqErr.HTTPStatusCode, detail, wrap)
		}
		return fmt.Errorf("chat API error %d: %s: %w", reqErr.HTTPStatusCode, string(reqErr.Body), wrap)
	}

	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		return fmt.Errorf("chat API error %d: %s: %w", apiErr.HTTPStatusCode, apiErr.Message, wrap)
	}

	return fmt.Errorf("chat request failed: %w", wrap)
}

// extractDetail reads the message of a non-OpenAI error body: Mistral's
// {"object":"error","message":...} or a {"detail":...} validation error.
func extractDetail(body []byte) string {
	if !gjson.ValidBytes(body) {
		return ""
	}
	for _, path := range []string{"message", "detail.0.msg", "detail"} {
		if v := gjson.GetBytes(body, path); v.Type == gjson.String && v.Str != "" {
			return v.Str
		}
	}
	return ""
}
