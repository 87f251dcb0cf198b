// Package stac holds the STAC item search built from extracted parameters.
package stac

import (
	"strings"
	"time"

	"github.com/hydrovibe/hydrosearch/internal/domain"
	"github.com/hydrovibe/hydrosearch/internal/domain/search/bbox"
	"github.com/hydrovibe/hydrosearch/internal/domain/search/result"
)

// DateTimeLayout renders interval bounds.
const DateTimeLayout = "2006-01-02T15:04:05.000Z"

// OpenBound marks an unbounded side of a datetime interval.
const OpenBound = ".."

// Search is a STAC API item search body.
type Search struct {
	Limit       int       `json:"limit"`
	Collections []string  `json:"collections,omitempty"`
	BBox        []float64 `json:"bbox,omitempty"`
	Datetime    string    `json:"datetime,omitempty"`
}

// NewSearch validates a proxy request. coords must be empty or four numbers.
func NewSearch(limit int, collections, coords []string, datetime string) (Search, error) {
	s := Search{Limit: limit, Datetime: strings.TrimSpace(datetime)}

	for _, c := range collections {
		if c = strings.TrimSpace(c); c != "" {
			s.Collections = append(s.Collections, c)
		}
	}

	if len(coords) > 0 {
		floats, err := bbox.ParseFloats(coords)
		if err != nil {
			return Search{}, domain.InvalidRequestf("%v", err)
		}
		s.BBox = floats
	}

	return s, nil
}

// FromParams builds the search matching resolved query parameters.
func FromParams(limit int, p result.Params) (Search, error) {
	var coords []string
	if b, ok := p.BoundingBox().Get(); ok {
		coords = b.Coordinates()
	}
	return NewSearch(limit, p.Collections(), coords, Interval(p))
}

// Interval renders the params' dates as a STAC datetime interval, or "" when
// both are absent.
func Interval(p result.Params) string {
	start, hasStart := p.Start().Get()
	end, hasEnd := p.End().Get()
	if !hasStart && !hasEnd {
		return ""
	}
	return formatBound(start, hasStart) + "/" + formatBound(end, hasEnd)
}

func formatBound(t time.Time, ok bool) string {
	if !ok {
		return OpenBound
	}
	return t.UTC().Format(DateTimeLayout)
}
