package provider

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/hydrovibe/hydrosearch/internal/config"
	"github.com/hydrovibe/hydrosearch/internal/domain"
	"github.com/hydrovibe/hydrosearch/internal/transport/mistral"
	"github.com/hydrovibe/hydrosearch/internal/transport/openai"
)

func TestNew_OpenAI(t *testing.T) {
	f, err := New(config.LLMConfig{Provider: config.ProviderOpenAI, APIKey: "k", BaseURL: "http://localhost"}, zap.NewNop())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, ok := f.(*openai.Client); !ok {
		t.Fatalf("expected *openai.Client, got %T", f)
	}
	if HealthChecker(f) == nil {
		t.Error("openai client exposes a health check")
	}
}

func TestNew_Mistral(t *testing.T) {
	f, err := New(config.LLMConfig{Provider: config.ProviderMistral, APIKey: "k"}, zap.NewNop())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, ok := f.(*mistral.Client); !ok {
		t.Fatalf("expected *mistral.Client, got %T", f)
	}
	if hc := HealthChecker(f); hc != nil {
		t.Errorf("native client has no health check, got %T", hc)
	}
}

func TestNew_Unknown(t *testing.T) {
	_, err := New(config.LLMConfig{Provider: "bedrock"}, zap.NewNop())
	if !errors.Is(err, domain.ErrConfiguration) {
		t.Fatalf("expected ErrConfiguration, got %v", err)
	}
}

func TestNew_MistralSingleAttempt(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		hits.Add(1)
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	f, err := New(config.LLMConfig{
		Provider: config.ProviderMistral,
		APIKey:   "k",
		BaseURL:  srv.URL,
	}, zap.NewNop())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	chat, err := f.NewChat("mistral-small-latest")
	if err != nil {
		t.Fatalf("NewChat failed: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	_, err = chat.Chat(ctx, "sys", "user")
	if !errors.Is(err, domain.ErrUpstreamUnavailable) {
		t.Fatalf("expected ErrUpstreamUnavailable, got %v", err)
	}
	if got := hits.Load(); got != 1 {
		t.Errorf("upstream hits = %d, want 1", got)
	}
}
