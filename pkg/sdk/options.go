package hydrosearch

import (
	"log/slog"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Option configures the Client.
type Option interface {
	apply(*clientConfig)
}

// optionFunc adapts a function to the Option interface.
type optionFunc func(*clientConfig)

func (f optionFunc) apply(c *clientConfig) { f(c) }

type clientConfig struct {
	provider      string // "openai" or "mistral"
	baseURL       string
	apiKey        string
	model         string
	allowedModels []string
	temperature   float64
	concurrent    bool

	catalogPath   string
	filterUnknown bool

	stacURL     string
	stacLimit   int
	stacTimeout time.Duration

	logger     *slog.Logger
	metricsReg prometheus.Registerer
}

// WithAPIKey sets the LLM provider key. Falls back to MISTRAL_AI_API_KEY.
func WithAPIKey(key string) Option {
	return optionFunc(func(c *clientConfig) {
		c.apiKey = key
	})
}

// WithOpenAICompatible talks to an OpenAI-compatible chat endpoint.
// Defaults to Mistral's endpoint.
func WithOpenAICompatible(baseURL string) Option {
	return optionFunc(func(c *clientConfig) {
		c.provider = "openai"
		c.baseURL = baseURL
	})
}

// WithMistral uses the native Mistral client. endpoint may be empty.
func WithMistral(endpoint string) Option {
	return optionFunc(func(c *clientConfig) {
		c.provider = "mistral"
		c.baseURL = endpoint
	})
}

// WithModel sets the default chat model. Enum-style names
// (MISTRAL_LARGE_LATEST) are accepted.
func WithModel(model string) Option {
	return optionFunc(func(c *clientConfig) {
		c.model = model
	})
}

// WithAllowedModels lists the models SearchParamsWithModel may select.
func WithAllowedModels(models ...string) Option {
	return optionFunc(func(c *clientConfig) {
		c.allowedModels = append(c.allowedModels, models...)
	})
}

// WithTemperature sets the sampling temperature. 0 keeps the provider default.
func WithTemperature(t float64) Option {
	return optionFunc(func(c *clientConfig) {
		c.temperature = t
	})
}

// WithConcurrentStages runs collection matching and parameter extraction in parallel.
func WithConcurrentStages() Option {
	return optionFunc(func(c *clientConfig) {
		c.concurrent = true
	})
}

// WithCatalogFile replaces the bundled collection catalog.
func WithCatalogFile(path string) Option {
	return optionFunc(func(c *clientConfig) {
		c.catalogPath = path
	})
}

// WithUnknownIDFilter drops matched ids that are not in the catalog.
func WithUnknownIDFilter() Option {
	return optionFunc(func(c *clientConfig) {
		c.filterUnknown = true
	})
}

// WithStac sets the STAC item search endpoint and page size.
// Defaults: the hydroweb.next search URL, 100 items.
func WithStac(searchURL string, limit int) Option {
	return optionFunc(func(c *clientConfig) {
		c.stacURL = searchURL
		c.stacLimit = limit
	})
}

// WithStacTimeout bounds a single STAC search. Default: 30s.
func WithStacTimeout(d time.Duration) Option {
	return optionFunc(func(c *clientConfig) {
		c.stacTimeout = d
	})
}

// WithLogger enables structured logging for SDK operations and pipeline
// diagnostics such as dropped malformed fields.
// Pass nil to disable (default). Uses standard library slog.
func WithLogger(l *slog.Logger) Option {
	return optionFunc(func(c *clientConfig) {
		c.logger = l
	})
}

// WithPrometheus registers SDK metrics (operation counts and durations)
// on the given registerer. Pass nil to disable (default).
func WithPrometheus(reg prometheus.Registerer) Option {
	return optionFunc(func(c *clientConfig) {
		c.metricsReg = reg
	})
}
