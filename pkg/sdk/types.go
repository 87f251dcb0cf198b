package hydrosearch

import (
	"fmt"
	"time"

	"github.com/samber/mo"

	"github.com/hydrovibe/hydrosearch/internal/domain/catalog"
	"github.com/hydrovibe/hydrosearch/internal/domain/search/bbox"
	"github.com/hydrovibe/hydrosearch/internal/domain/search/result"
)

// Params are the search parameters resolved from a query.
// Nil fields were not found in the query.
type Params struct {
	Collections []string
	Start       *time.Time
	End         *time.Time
	// BoundingBox holds xll, yll, xur, yur as the model wrote them.
	BoundingBox []string
}

// Collection is one catalog entry.
type Collection struct {
	ID          string
	Title       string
	Description string
}

// HealthStatus represents the aggregated system health.
type HealthStatus struct {
	Status string            // "ok", "degraded"
	Checks map[string]string // component → "ok"/"error"
}

func paramsFromResult(p result.Params) Params {
	out := Params{
		Collections: p.Collections(),
		Start:       p.Start().ToPointer(),
		End:         p.End().ToPointer(),
	}
	if box, ok := p.BoundingBox().Get(); ok {
		out.BoundingBox = box.Coordinates()
	}
	return out
}

func (p Params) toResult() (result.Params, error) {
	box := mo.None[bbox.BoundingBox]()
	if p.BoundingBox != nil {
		b, err := bbox.New(p.BoundingBox)
		if err != nil {
			return result.Params{}, fmt.Errorf("%w: %w", ErrInvalidRequest, err)
		}
		box = mo.Some(b)
	}
	return result.New(p.Collections, mo.PointerToOption(p.Start), mo.PointerToOption(p.End), box), nil
}

func collectionsFromCatalog(cat catalog.Catalog) []Collection {
	cols := cat.Collections()
	out := make([]Collection, len(cols))
	for i, c := range cols {
		out[i] = Collection{ID: c.ID, Title: c.Title, Description: c.Description}
	}
	return out
}
