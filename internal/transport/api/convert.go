package api

import (
	"github.com/hydrovibe/hydrosearch/internal/domain/catalog"
	"github.com/hydrovibe/hydrosearch/internal/domain/search/result"
)

// DateLayout renders response dates: UTC, millisecond precision.
const DateLayout = "2006-01-02T15:04:05.000Z"

// NewSearchParamsResponse converts resolved parameters. Absent values stay nil
// and encode as null.
func NewSearchParamsResponse(p result.Params) SearchParamsResponse {
	resp := SearchParamsResponse{Collections: p.Collections()}
	if t, ok := p.Start().Get(); ok {
		s := t.UTC().Format(DateLayout)
		resp.StartDate = &s
	}
	if t, ok := p.End().Get(); ok {
		s := t.UTC().Format(DateLayout)
		resp.EndDate = &s
	}
	if b, ok := p.BoundingBox().Get(); ok {
		coords := b.Coordinates()
		resp.BoundingBox = &coords
	}
	return resp
}

// NewCollection converts a catalog entry, omitting empty text fields.
func NewCollection(c catalog.Collection) Collection {
	out := Collection{Id: c.ID}
	if c.Title != "" {
		title := c.Title
		out.Title = &title
	}
	if c.Description != "" {
		desc := c.Description
		out.Description = &desc
	}
	return out
}

// NewCollectionListResponse converts the whole catalog.
func NewCollectionListResponse(cat catalog.Catalog) CollectionListResponse {
	cols := cat.Collections()
	items := make([]Collection, len(cols))
	for i, c := range cols {
		items[i] = NewCollection(c)
	}
	return CollectionListResponse{Items: items, Total: len(items)}
}
