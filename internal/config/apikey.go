package config

import (
	"fmt"
	"strings"

	"github.com/hydrovibe/hydrosearch/internal/domain"
)

// APIKeyEnvVar is the environment fallback for llm.api_key.
const APIKeyEnvVar = "MISTRAL_AI_API_KEY"

// PlaceholderAPIKey marks a key that was never filled in.
const PlaceholderAPIKey = "XXXXX"

// legacyAPIKey is the last-resort key baked in at build time:
//
//	go build -ldflags "-X github.com/hydrovibe/hydrosearch/internal/config.legacyAPIKey=..."
//
//nolint:gochecknoglobals // Set via ldflags at build time.
var legacyAPIKey = PlaceholderAPIKey

// ResolveAPIKey picks the LLM API key: the configured setting, then the
// APIKeyEnvVar environment variable, then the build-time legacy key. The first
// non-blank, non-placeholder value wins; none yields domain.ErrConfiguration.
func ResolveAPIKey(setting string, getenv func(string) string) (string, error) {
	return resolveAPIKey(setting, getenv(APIKeyEnvVar), legacyAPIKey)
}

func resolveAPIKey(candidates ...string) (string, error) {
	for _, c := range candidates {
		if key := strings.TrimSpace(c); usableKey(key) {
			return key, nil
		}
	}
	return "", fmt.Errorf("%w: set llm.api_key in the config file or the %s environment variable",
		domain.ErrConfiguration, APIKeyEnvVar)
}

func usableKey(key string) bool {
	return key != "" && key != PlaceholderAPIKey
}
