package hydrosearch

import (
	"context"
	"encoding/json"

	"github.com/hydrovibe/hydrosearch/internal/domain/catalog"
	"github.com/hydrovibe/hydrosearch/internal/domain/search/result"
	healthuc "github.com/hydrovibe/hydrosearch/internal/usecase/health"
)

// --- paramsUseCase mock ---

type mockParamsUC struct {
	resolveFn func(ctx context.Context, rawQuery, model string) (result.Params, error)
}

func (m *mockParamsUC) Resolve(ctx context.Context, rawQuery, model string) (result.Params, error) {
	return m.resolveFn(ctx, rawQuery, model)
}

// --- stacUseCase mock ---

type mockStacUC struct {
	searchFn func(ctx context.Context, p result.Params) (json.RawMessage, error)
}

func (m *mockStacUC) SearchParams(ctx context.Context, p result.Params) (json.RawMessage, error) {
	return m.searchFn(ctx, p)
}

// --- healthUseCase mock ---

type mockHealthUC struct {
	report healthuc.Report
}

func (m *mockHealthUC) Check(_ context.Context) healthuc.Report {
	return m.report
}

// --- helpers ---

func testClient(params paramsUseCase, stac stacUseCase, health healthUseCase) *Client {
	cat, err := catalog.Parse(`[{"id":"HYDROWEB_LAKES_OPE","title":"Lakes"},{"id":"LIS_SNT_YEARLY"}]`)
	if err != nil {
		panic(err)
	}
	return &Client{
		catalog:   cat,
		paramsSvc: params,
		stacSvc:   stac,
		healthSvc: health,
	}
}
