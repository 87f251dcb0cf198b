package config

import (
	"errors"
	"testing"

	"github.com/hydrovibe/hydrosearch/internal/domain"
)

func envWith(vals map[string]string) func(string) string {
	return func(k string) string { return vals[k] }
}

func TestResolveAPIKey_Precedence(t *testing.T) {
	tests := []struct {
		name    string
		setting string
		env     string
		legacy  string
		want    string
	}{
		{"setting wins", "from-setting", "from-env", "from-legacy", "from-setting"},
		{"env when setting blank", "  ", "from-env", "from-legacy", "from-env"},
		{"env when setting placeholder", "XXXXX", "from-env", "from-legacy", "from-env"},
		{"legacy last", "", "", "from-legacy", "from-legacy"},
		{"legacy when env placeholder", "", "XXXXX", "from-legacy", "from-legacy"},
		{"trimmed", " key ", "", "", "key"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			saved := legacyAPIKey
			legacyAPIKey = tc.legacy
			defer func() { legacyAPIKey = saved }()

			got, err := ResolveAPIKey(tc.setting, envWith(map[string]string{APIKeyEnvVar: tc.env}))
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tc.want {
				t.Errorf("ResolveAPIKey() = %q, want %q", got, tc.want)
			}
		})
	}
}

func TestResolveAPIKey_None(t *testing.T) {
	for _, legacy := range []string{"", PlaceholderAPIKey} {
		saved := legacyAPIKey
		legacyAPIKey = legacy

		_, err := ResolveAPIKey("XXXXX", envWith(nil))
		legacyAPIKey = saved

		if !errors.Is(err, domain.ErrConfiguration) {
			t.Errorf("legacy=%q: expected ErrConfiguration, got %v", legacy, err)
		}
	}
}
