// Package query holds the validated free-text search query.
package query

import (
	"strings"

	"github.com/hydrovibe/hydrosearch/internal/domain"
)

// Placeholder is the value some clients send when the parameter was never filled in.
const Placeholder = "None"

// Query is a non-blank user query. The zero value is invalid; use New.
type Query struct {
	text string
}

// New validates raw query text. Blank text and the placeholder are rejected with
// domain.ErrInvalidRequest. The text is kept as sent, surrounding spaces included.
func New(raw string) (Query, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return Query{}, domain.InvalidRequestf("requestString is required")
	}
	if trimmed == Placeholder {
		return Query{}, domain.InvalidRequestf("requestString must not be %q", Placeholder)
	}
	return Query{text: raw}, nil
}

// Text returns the query as sent to the model.
func (q Query) Text() string { return q.text }

// String implements fmt.Stringer.
func (q Query) String() string { return q.text }
