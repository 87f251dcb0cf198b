package searchparams

import (
	"github.com/hydrovibe/hydrosearch/internal/domain"
)

// ChatFactory builds the chat client used for a single request.
type ChatFactory interface {
	NewChat(model string) (domain.ChatModel, error)
}

// FieldFailureRecorder counts soft field parse failures. Optional.
type FieldFailureRecorder interface {
	RecordFieldFailure(field string)
}
