package searchparams

import (
	"context"
	"strings"
	"sync"

	"github.com/hydrovibe/hydrosearch/internal/domain"
)

// --- Mocks ---

// mockChat answers by prompt kind: the matcher prompt starts with the
// collections instruction, everything else is the parameters prompt.
type mockChat struct {
	mu               sync.Mutex
	collectionsReply string
	collectionsErr   error
	paramsReply      string
	paramsErr        error
	calls            []mockCall
}

type mockCall struct {
	system string
	user   string
	stage  domain.Stage
}

func (m *mockChat) Chat(ctx context.Context, system, user string) (string, error) {
	m.mu.Lock()
	m.calls = append(m.calls, mockCall{system: system, user: user, stage: domain.StageFromContext(ctx)})
	m.mu.Unlock()

	if strings.HasPrefix(system, collectionsInstruction) {
		return m.collectionsReply, m.collectionsErr
	}
	return m.paramsReply, m.paramsErr
}

type mockFactory struct {
	chat   *mockChat
	err    error
	models []string
}

func (f *mockFactory) NewChat(model string) (domain.ChatModel, error) {
	f.models = append(f.models, model)
	if f.err != nil {
		return nil, f.err
	}
	return f.chat, nil
}

type mockRecorder struct {
	mu     sync.Mutex
	fields []string
}

func (r *mockRecorder) RecordFieldFailure(field string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.fields = append(r.fields, field)
}

const testCatalog = `[
  {"id": "HYDROWEB_LAKES_RESEARCH", "description": "Lakes water level time series"},
  {"id": "HYDROWEB_LAKES_OPE", "description": "Operational lakes water level"},
  {"id": "SWOT_PRIOR_LAKE_DATABASE", "description": "Prior lake shapes"},
  {"id": "LIS_SNT_YEARLY", "description": "Yearly snow cover"}
]`
