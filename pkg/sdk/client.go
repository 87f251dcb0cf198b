package hydrosearch

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"go.uber.org/zap"

	"github.com/hydrovibe/hydrosearch/internal/config"
	"github.com/hydrovibe/hydrosearch/internal/domain/catalog"
	"github.com/hydrovibe/hydrosearch/internal/domain/search/result"
	catalogrepo "github.com/hydrovibe/hydrosearch/internal/repository/catalog"
	"github.com/hydrovibe/hydrosearch/internal/transport/provider"
	stacTransport "github.com/hydrovibe/hydrosearch/internal/transport/stac"
	healthuc "github.com/hydrovibe/hydrosearch/internal/usecase/health"
	searchparamsuc "github.com/hydrovibe/hydrosearch/internal/usecase/searchparams"
	stacuc "github.com/hydrovibe/hydrosearch/internal/usecase/stac"
)

const defaultStacTimeout = 30 * time.Second

// Internal interfaces, swapped for mocks in tests.
type paramsUseCase interface {
	Resolve(ctx context.Context, rawQuery, model string) (result.Params, error)
}

type stacUseCase interface {
	SearchParams(ctx context.Context, p result.Params) (json.RawMessage, error)
}

// Client is the hydrosearch SDK entry point. Safe for concurrent use.
type Client struct {
	catalog   catalog.Catalog
	paramsSvc paramsUseCase
	stacSvc   stacUseCase
	healthSvc healthUseCase
	obs       *observer
}

// New creates a Client. The API key comes from WithAPIKey or the
// MISTRAL_AI_API_KEY environment variable.
func New(opts ...Option) (*Client, error) {
	cfg := &clientConfig{}
	for _, o := range opts {
		o.apply(cfg)
	}

	llmCfg, err := cfg.llmConfig()
	if err != nil {
		return nil, fmt.Errorf("hydrosearch: %w", err)
	}

	cat, err := catalogrepo.New(cfg.catalogPath).Load()
	if err != nil {
		return nil, fmt.Errorf("hydrosearch: %w", err)
	}

	logger := newPipelineLogger(cfg.logger)

	chats, err := provider.New(llmCfg, logger)
	if err != nil {
		return nil, fmt.Errorf("hydrosearch: %w", err)
	}

	obs, err := newObserver(cfg.logger, cfg.metricsReg)
	if err != nil {
		return nil, err
	}

	return wireClient(cfg, llmCfg, cat, chats, obs, logger), nil
}

// llmConfig applies the server defaults and validates the LLM settings.
func (c *clientConfig) llmConfig() (config.LLMConfig, error) {
	full := config.Config{
		LLM: config.LLMConfig{
			Provider:         c.provider,
			BaseURL:          c.baseURL,
			Model:            c.model,
			AllowedModels:    c.allowedModels,
			Temperature:      c.temperature,
			ConcurrentStages: c.concurrent,
		},
		Stac: config.StacConfig{SearchURL: c.stacURL, Limit: c.stacLimit},
	}
	full.ApplyDefaults()

	key, err := config.ResolveAPIKey(c.apiKey, os.Getenv)
	if err != nil {
		return config.LLMConfig{}, err
	}
	full.LLM.APIKey = key

	if err := full.Validate(); err != nil {
		return config.LLMConfig{}, fmt.Errorf("%w: %w", ErrConfiguration, err)
	}

	c.stacURL = full.Stac.SearchURL
	c.stacLimit = full.Stac.Limit
	if c.stacTimeout <= 0 {
		c.stacTimeout = defaultStacTimeout
	}
	return full.LLM, nil
}

func wireClient(
	cfg *clientConfig,
	llmCfg config.LLMConfig,
	cat catalog.Catalog,
	chats searchparamsuc.ChatFactory,
	obs *observer,
	logger *zap.Logger,
) *Client {
	paramsSvc := searchparamsuc.New(chats, cat, llmCfg.Model, logger).
		WithAllowedModels(llmCfg.AllowedModels).
		WithUnknownIDFilter(cfg.filterUnknown).
		WithConcurrentStages(llmCfg.ConcurrentStages)

	stacClient := stacTransport.NewClient(&stacTransport.Config{
		SearchURL: cfg.stacURL,
		Timeout:   cfg.stacTimeout,
	})

	return &Client{
		catalog:   cat,
		paramsSvc: paramsSvc,
		stacSvc:   stacuc.New(stacClient, cfg.stacLimit, logger),
		healthSvc: healthuc.New(cat, provider.HealthChecker(chats)),
		obs:       obs,
	}
}

// SearchParams resolves a free-text query with the default model.
func (c *Client) SearchParams(ctx context.Context, query string) (Params, error) {
	return c.SearchParamsWithModel(ctx, query, "")
}

// SearchParamsWithModel resolves a query with a model listed in WithAllowedModels.
func (c *Client) SearchParamsWithModel(ctx context.Context, query, model string) (p Params, err error) {
	start := time.Now()
	defer func() { c.obs.observe("search_params", start, err) }()

	res, err := c.paramsSvc.Resolve(ctx, query, model)
	if err != nil {
		return Params{}, fmt.Errorf("search params: %w", err)
	}
	return paramsFromResult(res), nil
}

// StacSearch runs the STAC item search matching p and returns the raw
// feature collection.
func (c *Client) StacSearch(ctx context.Context, p Params) (items json.RawMessage, err error) {
	start := time.Now()
	defer func() { c.obs.observe("stac_search", start, err) }()

	res, err := p.toResult()
	if err != nil {
		return nil, fmt.Errorf("stac search: %w", err)
	}
	items, err = c.stacSvc.SearchParams(ctx, res)
	if err != nil {
		return nil, fmt.Errorf("stac search: %w", err)
	}
	return items, nil
}

// Collections returns the catalog the matcher chooses from.
func (c *Client) Collections() []Collection {
	return collectionsFromCatalog(c.catalog)
}
