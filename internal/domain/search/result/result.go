// Package result holds the assembled search parameters returned for a query.
package result

import (
	"time"

	"github.com/samber/mo"

	"github.com/hydrovibe/hydrosearch/internal/domain/search/bbox"
)

// Params is the immutable outcome of one query: matched collections plus the
// optional date interval and bounding box.
type Params struct {
	collections []string
	start       mo.Option[time.Time]
	end         mo.Option[time.Time]
	boundingBox mo.Option[bbox.BoundingBox]
}

// New assembles search parameters. The collection slice is copied; a nil
// slice becomes an empty list.
func New(
	collections []string,
	start, end mo.Option[time.Time],
	boundingBox mo.Option[bbox.BoundingBox],
) Params {
	ids := make([]string, len(collections))
	copy(ids, collections)
	return Params{
		collections: ids,
		start:       start,
		end:         end,
		boundingBox: boundingBox,
	}
}

// Collections returns a copy of the matched collection IDs, in model order.
func (p Params) Collections() []string {
	out := make([]string, len(p.collections))
	copy(out, p.collections)
	return out
}

// Start returns the lower bound of the date interval.
func (p Params) Start() mo.Option[time.Time] { return p.start }

// End returns the upper bound of the date interval.
func (p Params) End() mo.Option[time.Time] { return p.end }

// BoundingBox returns the geographic extent.
func (p Params) BoundingBox() mo.Option[bbox.BoundingBox] { return p.boundingBox }
