// Package provider selects the chat transport named in the configuration.
package provider

import (
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/hydrovibe/hydrosearch/internal/config"
	"github.com/hydrovibe/hydrosearch/internal/domain"
	"github.com/hydrovibe/hydrosearch/internal/transport/mistral"
	"github.com/hydrovibe/hydrosearch/internal/transport/openai"
	searchparamsuc "github.com/hydrovibe/hydrosearch/internal/usecase/searchparams"
)

// New builds the chat factory for cfg.Provider.
func New(cfg config.LLMConfig, logger *zap.Logger) (searchparamsuc.ChatFactory, error) {
	timeout := time.Duration(cfg.TimeoutSec) * time.Second
	switch cfg.Provider {
	case config.ProviderOpenAI:
		return openai.NewClient(&openai.Config{
			APIKey:      cfg.APIKey,
			BaseURL:     cfg.BaseURL,
			Temperature: cfg.Temperature,
			Provider:    cfg.Provider,
			Timeout:     timeout,
			Logger:      logger,
		}), nil
	case config.ProviderMistral:
		return mistral.NewClient(&mistral.Config{
			APIKey:      cfg.APIKey,
			Endpoint:    cfg.BaseURL,
			Temperature: cfg.Temperature,
			Timeout:     timeout,
			Logger:      logger,
		}), nil
	default:
		return nil, fmt.Errorf("%w: unknown llm provider %q", domain.ErrConfiguration, cfg.Provider)
	}
}

// HealthChecker returns the factory's availability probe, or nil when it has none.
// The result is a nil interface, never a typed nil.
func HealthChecker(f searchparamsuc.ChatFactory) domain.HealthChecker {
	if hc, ok := f.(domain.HealthChecker); ok {
		return hc
	}
	return nil
}
