package searchparams

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/hydrovibe/hydrosearch/internal/domain"
	"github.com/hydrovibe/hydrosearch/internal/domain/search/query"
	logpkg "github.com/hydrovibe/hydrosearch/internal/logger"
)

// Matcher asks the model which catalog collections a query is about.
type Matcher struct {
	logger *zap.Logger
}

// NewMatcher creates a collection matcher.
func NewMatcher(logger *zap.Logger) *Matcher {
	return &Matcher{logger: logger}
}

// Match runs one exchange with the catalog-bearing prompt and splits the reply
// into collection ids. A blank reply is an empty match, not an error.
func (m *Matcher) Match(
	ctx context.Context, chat domain.ChatModel, catalogText string, q query.Query,
) ([]string, error) {
	ctx = domain.ContextWithStage(ctx, domain.StageCollections)

	reply, err := chat.Chat(ctx, CollectionsPrompt(catalogText), q.Text())
	if err != nil {
		return nil, fmt.Errorf("match collections: %w", err)
	}

	logpkg.FromContextOr(ctx, m.logger).Debug("collections reply", zap.String("reply", reply))

	return SplitIDs(reply), nil
}

// SplitIDs splits a comma-separated reply into trimmed ids. Order and
// duplicates are kept; empty tokens are dropped.
func SplitIDs(reply string) []string {
	ids := []string{}
	if strings.TrimSpace(reply) == "" {
		return ids
	}
	for _, tok := range strings.Split(reply, ",") {
		if id := strings.TrimSpace(tok); id != "" {
			ids = append(ids, id)
		}
	}
	return ids
}
