package stac

import (
	"context"
	"encoding/json"

	domstac "github.com/hydrovibe/hydrosearch/internal/domain/stac"
)

// Searcher runs a STAC item search.
type Searcher interface {
	Search(ctx context.Context, s domstac.Search) (json.RawMessage, error)
}
