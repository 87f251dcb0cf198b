package config

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"regexp"
	"runtime"
	"strings"

	"gopkg.in/yaml.v3"
)

// LLM providers.
const (
	ProviderOpenAI  = "openai"  // any OpenAI-compatible chat endpoint, Mistral's included
	ProviderMistral = "mistral" // native Mistral client
)

// Defaults applied by ApplyDefaults.
const (
	DefaultPort          = 8080
	DefaultModel         = "mistral-large-latest"
	DefaultMistralURL    = "https://api.mistral.ai/v1"
	DefaultStacSearchURL = "https://hydroweb-pp.next.theia-land.fr/api/v1/rs-catalog/stac/search"
	DefaultStacLimit     = 100
)

// Config holds the hydrosearch configuration. It is immutable once Load returns.
type Config struct {
	HTTP    HTTPConfig    `yaml:"http"`
	LLM     LLMConfig     `yaml:"llm"`
	Catalog CatalogConfig `yaml:"catalog"`
	Stac    StacConfig    `yaml:"stac"`
	Auth    AuthConfig    `yaml:"auth"`
	CORS    CORSConfig    `yaml:"cors"`
	Logging LoggingConfig `yaml:"logging"`
}

// HTTPConfig holds HTTP server settings.
type HTTPConfig struct {
	Port            int `yaml:"port"`
	ReadTimeoutSec  int `yaml:"read_timeout_sec"`
	WriteTimeoutSec int `yaml:"write_timeout_sec"`
	ShutdownSec     int `yaml:"shutdown_timeout_sec"`
}

// LLMConfig holds chat provider settings.
type LLMConfig struct {
	Provider         string   `yaml:"provider"` // openai, mistral (default: openai)
	BaseURL          string   `yaml:"base_url"`
	APIKey           string   `yaml:"api_key"`
	Model            string   `yaml:"model"`
	AllowedModels    []string `yaml:"allowed_models"`    // selectable per request, default model always allowed
	Temperature      float64  `yaml:"temperature"`       // 0 = provider default
	ConcurrentStages bool     `yaml:"concurrent_stages"` // run matching and extraction in parallel
	TimeoutSec       int      `yaml:"timeout_sec"`       // per LLM exchange
}

// CatalogConfig holds collection catalog settings.
type CatalogConfig struct {
	Path             string `yaml:"path"` // empty = bundled catalog
	FilterUnknownIDs bool   `yaml:"filter_unknown_ids"`
}

// StacConfig holds the STAC search proxy settings.
type StacConfig struct {
	SearchURL  string `yaml:"search_url"`
	Limit      int    `yaml:"limit"`
	TimeoutSec int    `yaml:"timeout_sec"`
}

// AuthConfig holds optional bearer authentication. Empty = open API.
type AuthConfig struct {
	APIKeys []string `yaml:"api_keys"`
}

// CORSConfig holds cross-origin settings.
type CORSConfig struct {
	AllowedOrigins []string `yaml:"allowed_origins"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level string `yaml:"level"` // debug, info, warn, error (default: determined by env)
}

// Load reads configuration from a YAML file by environment name (local, dev, prod),
// resolves the LLM API key and validates the result.
func Load(env string) (Config, error) {
	configPath := findConfigPath(env)

	data, err := os.ReadFile(filepath.Clean(configPath))
	if err != nil {
		return Config{}, fmt.Errorf("failed to read config %s: %w", configPath, err)
	}

	return Parse(data, os.Getenv)
}

// Parse builds a Config from YAML bytes. getenv backs ${VAR} expansion and the
// API key environment fallback.
func Parse(data []byte, getenv func(string) string) (Config, error) {
	data = expandEnvVars(data, getenv)

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("failed to parse config: %w", err)
	}

	cfg.ApplyDefaults()

	key, err := ResolveAPIKey(cfg.LLM.APIKey, getenv)
	if err != nil {
		return Config{}, err
	}
	cfg.LLM.APIKey = key

	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// MustLoad loads configuration or panics.
func MustLoad(env string) Config {
	cfg, err := Load(env)
	if err != nil {
		panic(err)
	}
	return cfg
}

// GetEnv returns the current environment from the ENV variable, defaulting to "local".
func GetEnv() string {
	if env := os.Getenv("ENV"); env != "" {
		return env
	}
	return "local"
}

// ApplyDefaults fills empty fields with default values.
func (c *Config) ApplyDefaults() {
	if c.HTTP.Port == 0 {
		c.HTTP.Port = DefaultPort
	}
	if c.HTTP.ReadTimeoutSec <= 0 {
		c.HTTP.ReadTimeoutSec = 10
	}
	// Two sequential LLM calls routinely exceed the usual 10s.
	if c.HTTP.WriteTimeoutSec <= 0 {
		c.HTTP.WriteTimeoutSec = 120
	}
	if c.HTTP.ShutdownSec <= 0 {
		c.HTTP.ShutdownSec = 10
	}
	if c.LLM.Provider == "" {
		c.LLM.Provider = ProviderOpenAI
	}
	if c.LLM.Provider == ProviderOpenAI && c.LLM.BaseURL == "" {
		c.LLM.BaseURL = DefaultMistralURL
	}
	if c.LLM.Model == "" {
		c.LLM.Model = DefaultModel
	}
	if c.LLM.TimeoutSec <= 0 {
		c.LLM.TimeoutSec = 60
	}
	if c.Stac.SearchURL == "" {
		c.Stac.SearchURL = DefaultStacSearchURL
	}
	if c.Stac.Limit <= 0 {
		c.Stac.Limit = DefaultStacLimit
	}
	if c.Stac.TimeoutSec <= 0 {
		c.Stac.TimeoutSec = 30
	}
	if len(c.CORS.AllowedOrigins) == 0 {
		c.CORS.AllowedOrigins = []string{"*"}
	}
}

// Validate checks the configuration for correctness.
func (c *Config) Validate() error {
	if c.HTTP.Port <= 0 || c.HTTP.Port > 65535 {
		return fmt.Errorf("http.port must be between 1 and 65535, got %d", c.HTTP.Port)
	}
	switch c.LLM.Provider {
	case ProviderOpenAI, ProviderMistral:
		// ok
	default:
		return fmt.Errorf("llm.provider must be %q or %q, got %q", ProviderOpenAI, ProviderMistral, c.LLM.Provider)
	}
	if c.LLM.APIKey == "" {
		return fmt.Errorf("llm.api_key is required")
	}
	if c.LLM.Temperature < 0 || c.LLM.Temperature > 2 {
		return fmt.Errorf("llm.temperature must be between 0 and 2, got %g", c.LLM.Temperature)
	}
	if u, err := url.Parse(c.Stac.SearchURL); err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("stac.search_url must be an absolute URL, got %q", c.Stac.SearchURL)
	}
	return nil
}

// findConfigPath locates the config file.
func findConfigPath(env string) string {
	filename := fmt.Sprintf("%s.yaml", env)

	// 1. Check ./config/
	if path := filepath.Join("config", filename); fileExists(path) {
		return path
	}

	// 2. Check relative to the source file
	_, b, _, _ := runtime.Caller(0)
	projectRoot := filepath.Dir(filepath.Dir(filepath.Dir(b))) // internal/config -> project root
	if path := filepath.Join(projectRoot, "config", filename); fileExists(path) {
		return path
	}

	// 3. Fallback to ./config/
	return filepath.Join("config", filename)
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// expandEnvVars replaces ${VAR} and ${VAR:-default} with environment variable values.
var envVarRegex = regexp.MustCompile(`\$\{([^}]+)\}`)

func expandEnvVars(data []byte, getenv func(string) string) []byte {
	return envVarRegex.ReplaceAllFunc(data, func(match []byte) []byte {
		expr := string(match[2 : len(match)-1]) // strip ${ and }
		varName, defaultVal, hasDefault := strings.Cut(expr, ":-")
		val := getenv(varName)
		if val == "" && hasDefault {
			val = defaultVal
		}
		return []byte(val)
	})
}
