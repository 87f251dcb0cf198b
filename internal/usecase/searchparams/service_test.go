package searchparams

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/hydrovibe/hydrosearch/internal/domain"
	"github.com/hydrovibe/hydrosearch/internal/domain/catalog"
)

func newTestService(t *testing.T, chat *mockChat) (*Service, *mockFactory) {
	t.Helper()
	cat, err := catalog.Parse(testCatalog)
	if err != nil {
		t.Fatalf("catalog.Parse: %v", err)
	}
	f := &mockFactory{chat: chat}
	return New(f, cat, "mistral-large-latest", zap.NewNop()), f
}

func TestResolve_LakesScenario(t *testing.T) {
	chat := &mockChat{
		collectionsReply: "HYDROWEB_LAKES_RESEARCH, HYDROWEB_LAKES_OPE",
		paramsReply:      `{"start_datetime":"2023-07-01T00:00:00.000Z","end_datetime":"2023-07-31T23:59:59.000Z"}`,
	}
	svc, f := newTestService(t, chat)

	p, err := svc.Resolve(context.Background(), "Lakes water level in July 2023", "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	ids := p.Collections()
	if strings.Join(ids, ",") != "HYDROWEB_LAKES_RESEARCH,HYDROWEB_LAKES_OPE" {
		t.Errorf("collections = %v", ids)
	}
	for _, id := range ids {
		if id == "SWOT_PRIOR_LAKE_DATABASE" {
			t.Error("shape-only collection must not be matched")
		}
	}
	if s := p.Start().MustGet(); !s.Equal(time.Date(2023, 7, 1, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("start = %v", s)
	}
	if p.BoundingBox().IsPresent() {
		t.Error("bbox must be absent")
	}

	if len(f.models) != 1 || f.models[0] != "mistral-large-latest" {
		t.Errorf("expected one client for the default model, got %v", f.models)
	}
	if len(chat.calls) != 2 {
		t.Fatalf("expected 2 chat calls, got %d", len(chat.calls))
	}
	if chat.calls[0].stage != domain.StageCollections || chat.calls[1].stage != domain.StageParameters {
		t.Errorf("stages must run in order, got %q then %q", chat.calls[0].stage, chat.calls[1].stage)
	}
}

func TestResolve_NoMatchScenario(t *testing.T) {
	chat := &mockChat{collectionsReply: "", paramsReply: "{}"}
	svc, _ := newTestService(t, chat)

	p, err := svc.Resolve(context.Background(), "Water underground reserves", "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ids := p.Collections(); ids == nil || len(ids) != 0 {
		t.Errorf("collections = %#v, want empty", ids)
	}
	if p.BoundingBox().IsPresent() || p.Start().IsPresent() || p.End().IsPresent() {
		t.Error("bbox and dates must be absent")
	}
}

func TestResolve_InvalidQuery(t *testing.T) {
	chat := &mockChat{}
	svc, f := newTestService(t, chat)

	for _, raw := range []string{"", "   ", "None"} {
		_, err := svc.Resolve(context.Background(), raw, "")
		if !errors.Is(err, domain.ErrInvalidRequest) {
			t.Errorf("Resolve(%q): expected ErrInvalidRequest, got %v", raw, err)
		}
	}
	if len(f.models) != 0 || len(chat.calls) != 0 {
		t.Error("invalid queries must not reach the model")
	}
}

func TestResolve_MalformedParametersFail(t *testing.T) {
	chat := &mockChat{collectionsReply: "LIS_SNT_YEARLY", paramsReply: "Sorry, I cannot help."}
	svc, _ := newTestService(t, chat)

	_, err := svc.Resolve(context.Background(), "snow over the Alps", "")
	if !errors.Is(err, domain.ErrMalformedModelResponse) {
		t.Fatalf("expected ErrMalformedModelResponse, got %v", err)
	}
}

func TestResolve_MatcherErrorStopsPipeline(t *testing.T) {
	chat := &mockChat{collectionsErr: domain.ErrUpstreamUnavailable, paramsReply: "{}"}
	svc, _ := newTestService(t, chat)

	_, err := svc.Resolve(context.Background(), "snow", "")
	if !errors.Is(err, domain.ErrUpstreamUnavailable) {
		t.Fatalf("expected ErrUpstreamUnavailable, got %v", err)
	}
	if len(chat.calls) != 1 {
		t.Errorf("extraction must not run after a matcher failure, got %d calls", len(chat.calls))
	}
}

func TestResolve_FactoryError(t *testing.T) {
	svc, f := newTestService(t, &mockChat{})
	f.err = domain.ErrConfiguration

	_, err := svc.Resolve(context.Background(), "snow", "")
	if !errors.Is(err, domain.ErrConfiguration) {
		t.Fatalf("expected ErrConfiguration, got %v", err)
	}
}

func TestResolve_ConcurrentStages(t *testing.T) {
	chat := &mockChat{
		collectionsReply: "LIS_SNT_YEARLY",
		paramsReply:      "```json\n{\"bbox\":[5.9,45.8,10.5,47.8]}\n```",
	}
	svc, _ := newTestService(t, chat)
	svc.WithConcurrentStages(true)

	p, err := svc.Resolve(context.Background(), "snow over Switzerland", "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(p.Collections()) != 1 || !p.BoundingBox().IsPresent() {
		t.Errorf("unexpected result: %v, %v", p.Collections(), p.BoundingBox())
	}
	if len(chat.calls) != 2 {
		t.Errorf("expected 2 chat calls, got %d", len(chat.calls))
	}
}

func TestResolve_ConcurrentStagesError(t *testing.T) {
	chat := &mockChat{collectionsReply: "LIS_SNT_YEARLY", paramsErr: domain.ErrUpstreamUnavailable}
	svc, _ := newTestService(t, chat)
	svc.WithConcurrentStages(true)

	if _, err := svc.Resolve(context.Background(), "snow", ""); !errors.Is(err, domain.ErrUpstreamUnavailable) {
		t.Fatalf("expected ErrUpstreamUnavailable, got %v", err)
	}
}

func TestResolve_UnknownIDFilter(t *testing.T) {
	chat := &mockChat{collectionsReply: "HYDROWEB_LAKES_RESEARCH, MADE_UP, hydroweb_lakes_ope", paramsReply: "{}"}

	svc, _ := newTestService(t, chat)
	p, err := svc.Resolve(context.Background(), "lakes", "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(p.Collections()) != 3 {
		t.Errorf("without the filter ids are kept as returned, got %v", p.Collections())
	}

	svc.WithUnknownIDFilter(true)
	p, err = svc.Resolve(context.Background(), "lakes", "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if strings.Join(p.Collections(), ",") != "HYDROWEB_LAKES_RESEARCH" {
		t.Errorf("filtered collections = %v", p.Collections())
	}
}

func TestResolve_FieldFailureRecorder(t *testing.T) {
	chat := &mockChat{paramsReply: `{"end_datetime":"yesterday"}`}
	svc, _ := newTestService(t, chat)
	rec := &mockRecorder{}
	svc.WithFieldFailureRecorder(rec)

	if _, err := svc.Resolve(context.Background(), "lakes", ""); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(rec.fields) != 1 || rec.fields[0] != FieldEnd {
		t.Errorf("recorded fields = %v", rec.fields)
	}
}

func TestResolveModel(t *testing.T) {
	svc, _ := newTestService(t, &mockChat{})
	svc.WithAllowedModels([]string{"MISTRAL_SMALL_LATEST", "open-mistral-nemo", ""})

	tests := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{"", "mistral-large-latest", false},
		{"MISTRAL_LARGE_LATEST", "mistral-large-latest", false},
		{"mistral-small-latest", "mistral-small-latest", false},
		{"open-mistral-nemo", "open-mistral-nemo", false},
		{"gpt-4o", "", true},
	}
	for _, tc := range tests {
		got, err := svc.ResolveModel(tc.in)
		if tc.wantErr {
			if !errors.Is(err, domain.ErrInvalidRequest) {
				t.Errorf("ResolveModel(%q): expected ErrInvalidRequest, got %v", tc.in, err)
			}
			continue
		}
		if err != nil || got != tc.want {
			t.Errorf("ResolveModel(%q) = %q, %v; want %q", tc.in, got, err, tc.want)
		}
	}
}

func TestResolve_ModelOverride(t *testing.T) {
	chat := &mockChat{paramsReply: "{}"}
	svc, f := newTestService(t, chat)
	svc.WithAllowedModels([]string{"mistral-small-latest"})

	if _, err := svc.Resolve(context.Background(), "lakes", "MISTRAL_SMALL_LATEST"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if f.models[0] != "mistral-small-latest" {
		t.Errorf("model = %q", f.models[0])
	}
}

func TestNormalizeModelName(t *testing.T) {
	tests := map[string]string{
		"MISTRAL_LARGE_LATEST": "mistral-large-latest",
		" OPEN_MISTRAL_NEMO ":  "open-mistral-nemo",
		"mistral-large-latest": "mistral-large-latest",
		"Qwen/Qwen2.5-72B":     "Qwen/Qwen2.5-72B",
		"gpt_4o_custom":        "gpt_4o_custom",
		"":                     "",
	}
	for in, want := range tests {
		if got := NormalizeModelName(in); got != want {
			t.Errorf("NormalizeModelName(%q) = %q, want %q", in, got, want)
		}
	}
}
