package hydrosearch

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/samber/mo"

	"github.com/hydrovibe/hydrosearch/internal/config"
	"github.com/hydrovibe/hydrosearch/internal/domain/search/bbox"
	"github.com/hydrovibe/hydrosearch/internal/domain/search/result"
	healthuc "github.com/hydrovibe/hydrosearch/internal/usecase/health"
)

func pyrenees(t *testing.T) bbox.BoundingBox {
	t.Helper()
	b, err := bbox.New([]string{"-2.406022", "41.630687", "3.327998", "43.683434"})
	if err != nil {
		t.Fatal(err)
	}
	return b
}

func TestNew_NoAPIKey(t *testing.T) {
	t.Setenv(config.APIKeyEnvVar, "")

	_, err := New()
	if !errors.Is(err, ErrConfiguration) {
		t.Fatalf("expected ErrConfiguration, got %v", err)
	}
}

func TestNew_InvalidTemperature(t *testing.T) {
	_, err := New(WithAPIKey("k"), WithTemperature(3))
	if !errors.Is(err, ErrConfiguration) {
		t.Fatalf("expected ErrConfiguration, got %v", err)
	}
}

func TestNew_BundledCatalog(t *testing.T) {
	c, err := New(WithAPIKey("k"), WithMistral(""))
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	if len(c.Collections()) == 0 {
		t.Fatal("bundled catalog is empty")
	}
}

func TestNew_MissingCatalogFile(t *testing.T) {
	_, err := New(WithAPIKey("k"), WithCatalogFile("/nonexistent/collections.json"))
	if !errors.Is(err, ErrCatalogUnavailable) {
		t.Fatalf("expected ErrCatalogUnavailable, got %v", err)
	}
}

func TestClient_SearchParams(t *testing.T) {
	start := time.Date(2024, 6, 20, 0, 0, 0, 0, time.UTC)
	mock := &mockParamsUC{
		resolveFn: func(_ context.Context, q, model string) (result.Params, error) {
			if q != "lakes in the Pyrenees" {
				t.Errorf("query = %q", q)
			}
			if model != "" {
				t.Errorf("model = %q, want default", model)
			}
			return result.New([]string{"HYDROWEB_LAKES_OPE"}, mo.Some(start), mo.None[time.Time](), mo.Some(pyrenees(t))), nil
		},
	}

	c := testClient(mock, nil, nil)
	p, err := c.SearchParams(context.Background(), "lakes in the Pyrenees")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(p.Collections) != 1 || p.Collections[0] != "HYDROWEB_LAKES_OPE" {
		t.Errorf("Collections = %v", p.Collections)
	}
	if p.Start == nil || !p.Start.Equal(start) {
		t.Errorf("Start = %v", p.Start)
	}
	if p.End != nil {
		t.Errorf("End = %v, want nil", p.End)
	}
	if len(p.BoundingBox) != 4 || p.BoundingBox[0] != "-2.406022" {
		t.Errorf("BoundingBox = %v", p.BoundingBox)
	}
}

func TestClient_SearchParams_Error(t *testing.T) {
	mock := &mockParamsUC{
		resolveFn: func(context.Context, string, string) (result.Params, error) {
			return result.Params{}, ErrUpstreamUnavailable
		},
	}

	c := testClient(mock, nil, nil)
	_, err := c.SearchParamsWithModel(context.Background(), "q", "mistral-small-latest")
	if !errors.Is(err, ErrUpstreamUnavailable) {
		t.Fatalf("expected ErrUpstreamUnavailable, got %v", err)
	}
}

func TestClient_StacSearch(t *testing.T) {
	var got result.Params
	mock := &mockStacUC{
		searchFn: func(_ context.Context, p result.Params) (json.RawMessage, error) {
			got = p
			return json.RawMessage(`{"type":"FeatureCollection"}`), nil
		},
	}

	end := time.Date(2024, 9, 21, 23, 59, 59, 0, time.UTC)
	c := testClient(nil, mock, nil)
	items, err := c.StacSearch(context.Background(), Params{
		Collections: []string{"LIS_SNT_YEARLY"},
		End:         &end,
		BoundingBox: []string{"1", "2", "3", "4"},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(string(items), "FeatureCollection") {
		t.Errorf("items = %s", items)
	}
	if got.Start().IsPresent() {
		t.Error("start must stay absent")
	}
	if e, ok := got.End().Get(); !ok || !e.Equal(end) {
		t.Errorf("end = %v", got.End())
	}
	if b, ok := got.BoundingBox().Get(); !ok || b.XUR() != "3" {
		t.Errorf("bbox = %v", got.BoundingBox())
	}
}

func TestClient_StacSearch_BadBBox(t *testing.T) {
	c := testClient(nil, &mockStacUC{
		searchFn: func(context.Context, result.Params) (json.RawMessage, error) {
			t.Fatal("search must not run")
			return nil, nil
		},
	}, nil)

	_, err := c.StacSearch(context.Background(), Params{BoundingBox: []string{"1", "2"}})
	if !errors.Is(err, ErrInvalidRequest) {
		t.Fatalf("expected ErrInvalidRequest, got %v", err)
	}
}

func TestClient_Collections(t *testing.T) {
	cols := testClient(nil, nil, nil).Collections()
	if len(cols) != 2 || cols[0].ID != "HYDROWEB_LAKES_OPE" || cols[0].Title != "Lakes" {
		t.Errorf("Collections = %+v", cols)
	}
}

func TestClient_Health(t *testing.T) {
	c := testClient(nil, nil, &mockHealthUC{report: healthuc.Report{
		Status: healthuc.Degraded,
		Checks: map[string]healthuc.CheckResult{
			healthuc.CheckCatalog: healthuc.CheckOK,
			healthuc.CheckLLM:     healthuc.CheckError,
		},
	}})

	h := c.Health(context.Background())
	if h.Status != "degraded" {
		t.Errorf("Status = %q", h.Status)
	}
	if h.Checks["llm"] != "error" || h.Checks["catalog"] != "ok" {
		t.Errorf("Checks = %v", h.Checks)
	}
}

func TestObserver_Metrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	obs, err := newObserver(slog.New(slog.DiscardHandler), reg)
	if err != nil {
		t.Fatalf("newObserver failed: %v", err)
	}

	c := testClient(&mockParamsUC{
		resolveFn: func(context.Context, string, string) (result.Params, error) {
			return result.Params{}, ErrMalformedModelResponse
		},
	}, nil, nil)
	c.obs = obs

	_, _ = c.SearchParams(context.Background(), "q")

	if got := testutil.ToFloat64(obs.metrics.operations.WithLabelValues("search_params", "malformed_reply")); got != 1 {
		t.Errorf("search_params malformed replies = %v, want 1", got)
	}

	// A second observer on the same registry reuses the collectors.
	again, err := newObserver(nil, reg)
	if err != nil {
		t.Fatalf("second newObserver failed: %v", err)
	}
	if again.metrics.operations != obs.metrics.operations {
		t.Error("expected registered collector to be reused")
	}
}

func TestOutcome(t *testing.T) {
	tests := []struct {
		err  error
		want string
	}{
		{nil, "ok"},
		{fmt.Errorf("search params: %w", ErrInvalidRequest), "invalid_request"},
		{fmt.Errorf("extract parameters: %w", ErrUpstreamUnavailable), "llm_unavailable"},
		{ErrMalformedModelResponse, "malformed_reply"},
		{fmt.Errorf("stac search: %w", ErrStacUnavailable), "stac_unavailable"},
		{errors.New("boom"), "error"},
	}
	for _, tt := range tests {
		if got := outcome(tt.err); got != tt.want {
			t.Errorf("outcome(%v) = %q, want %q", tt.err, got, tt.want)
		}
	}
}
