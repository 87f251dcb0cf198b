// Package mistral talks to the Mistral chat API through the langchaingo
// native client.
package mistral

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/tmc/langchaingo/llms"
	lcmistral "github.com/tmc/langchaingo/llms/mistral"
	"go.uber.org/zap"

	"github.com/hydrovibe/hydrosearch/internal/domain"
	logpkg "github.com/hydrovibe/hydrosearch/internal/logger"
	"github.com/hydrovibe/hydrosearch/internal/metrics"
)

// Provider is the metrics label of this transport.
const Provider = "mistral"

// Config holds the native client settings.
type Config struct {
	APIKey      string
	Endpoint    string // empty = https://api.mistral.ai
	Temperature float64
	MaxRetries  int // extra attempts after the first, 0 = none
	Timeout     time.Duration
	Logger      *zap.Logger
}

// Client creates one native model per chat.
type Client struct {
	cfg    Config
	logger *zap.Logger
}

// NewClient creates a native Mistral chat provider.
func NewClient(cfg *Config) *Client {
	return &Client{cfg: *cfg, logger: cfg.Logger}
}

// NewChat builds a langchaingo model bound to model.
func (c *Client) NewChat(model string) (domain.ChatModel, error) {
	if model == "" {
		return nil, fmt.Errorf("%w: empty model name", domain.ErrConfiguration)
	}

	opts := []lcmistral.Option{
		lcmistral.WithAPIKey(c.cfg.APIKey),
		lcmistral.WithModel(model),
		// The underlying client counts attempts and turns 0 into 5.
		lcmistral.WithMaxRetries(c.cfg.MaxRetries + 1),
	}
	if c.cfg.Endpoint != "" {
		opts = append(opts, lcmistral.WithEndpoint(c.cfg.Endpoint))
	}
	if c.cfg.Timeout > 0 {
		opts = append(opts, lcmistral.WithTimeout(c.cfg.Timeout))
	}

	llm, err := lcmistral.New(opts...)
	if err != nil {
		return nil, fmt.Errorf("%w: mistral client: %w", domain.ErrConfiguration, err)
	}

	return &Chat{
		llm:         llm,
		model:       model,
		temperature: c.cfg.Temperature,
		logger:      c.logger,
	}, nil
}

// generator is the langchaingo surface Chat relies on.
type generator interface {
	GenerateContent(ctx context.Context, messages []llms.MessageContent, options ...llms.CallOption) (*llms.ContentResponse, error)
}

// Chat is a single-model chat session.
type Chat struct {
	llm         generator
	model       string
	temperature float64
	logger      *zap.Logger
}

var _ domain.ChatModel = (*Chat)(nil)

// Chat sends one system and one human message and returns the reply text.
func (ch *Chat) Chat(ctx context.Context, systemInstruction, userMessage string) (string, error) {
	stage := string(domain.StageFromContext(ctx))

	messages := []llms.MessageContent{
		llms.TextParts(llms.ChatMessageTypeSystem, systemInstruction),
		llms.TextParts(llms.ChatMessageTypeHuman, userMessage),
	}
	var callOpts []llms.CallOption
	if ch.temperature > 0 {
		callOpts = append(callOpts, llms.WithTemperature(ch.temperature))
	}

	start := time.Now()

	resp, err := ch.generate(ctx, messages, callOpts)

	duration := time.Since(start)

	if err != nil {
		metrics.LLMRequestsTotal.WithLabelValues(Provider, ch.model, stage, "error").Inc()
		metrics.LLMErrorsTotal.WithLabelValues(Provider, ch.model, errorType(err)).Inc()
		return "", fmt.Errorf("mistral chat: %w: %w", err, domain.ErrUpstreamUnavailable)
	}

	if resp == nil || len(resp.Choices) == 0 || resp.Choices[0] == nil {
		metrics.LLMRequestsTotal.WithLabelValues(Provider, ch.model, stage, "error").Inc()
		metrics.LLMErrorsTotal.WithLabelValues(Provider, ch.model, "empty_response").Inc()
		return "", fmt.Errorf("empty mistral response: %w", domain.ErrUpstreamUnavailable)
	}

	metrics.LLMRequestsTotal.WithLabelValues(Provider, ch.model, stage, "success").Inc()
	metrics.LLMRequestDuration.WithLabelValues(Provider, ch.model, stage).Observe(duration.Seconds())

	logpkg.FromContextOr(ctx, ch.logger).Debug("mistral completion",
		zap.String("model", ch.model),
		zap.String("stage", stage),
		zap.Duration("duration", duration),
	)

	return resp.Choices[0].Content, nil
}

type generation struct {
	resp *llms.ContentResponse
	err  error
}

// generate returns as soon as ctx is done. The native client sends its
// request without a context, so an abandoned call finishes in the background.
func (ch *Chat) generate(
	ctx context.Context, messages []llms.MessageContent, opts []llms.CallOption,
) (*llms.ContentResponse, error) {
	done := make(chan generation, 1)
	go func() {
		resp, err := ch.llm.GenerateContent(ctx, messages, opts...)
		done <- generation{resp: resp, err: err}
	}()

	select {
	case g := <-done:
		return g.resp, g.err
	case <-ctx.Done():
		return nil, fmt.Errorf("mistral chat abandoned: %w", ctx.Err())
	}
}

func errorType(err error) string {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return "canceled"
	}
	return "api_error"
}
