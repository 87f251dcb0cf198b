package domain

import "context"

// ChatModel is the single-exchange LLM contract shared between layers:
// one system instruction, one user message, the reply text.
type ChatModel interface {
	Chat(ctx context.Context, systemInstruction, userMessage string) (string, error)
}

// HealthChecker verifies LLM provider availability.
type HealthChecker interface {
	HealthCheck(ctx context.Context) error
}

// Stage names the pipeline step an LLM call belongs to.
type Stage string

const (
	// StageCollections is the collection matching exchange.
	StageCollections Stage = "collections"
	// StageParameters is the bbox and date extraction exchange.
	StageParameters Stage = "parameters"
	// StageUnknown labels calls made outside the pipeline.
	StageUnknown Stage = "unknown"
)

type stageKey struct{}

// ContextWithStage tags the context with the pipeline stage for transport metrics.
func ContextWithStage(ctx context.Context, stage Stage) context.Context {
	return context.WithValue(ctx, stageKey{}, stage)
}

// StageFromContext returns the stage tag, or StageUnknown if not set.
func StageFromContext(ctx context.Context) Stage {
	if s, ok := ctx.Value(stageKey{}).(Stage); ok {
		return s
	}
	return StageUnknown
}
