// Package catalog holds the static collection catalog embedded into prompts.
package catalog

import (
	"errors"
	"strings"

	"github.com/tidwall/gjson"
)

// Collection is one catalog entry.
type Collection struct {
	ID          string `json:"id"`
	Title       string `json:"title,omitempty"`
	Description string `json:"description,omitempty"`
}

// Catalog is the load-once catalog: the raw JSON text, which goes verbatim into
// the matcher prompt, and the entries parsed from it. Safe for concurrent reads.
type Catalog struct {
	text        string
	collections []Collection
	ids         map[string]struct{}
}

// Parse reads catalog JSON. Accepted shapes: an array of collections, a STAC
// response with a "collections" array, or an object keyed by collection id.
func Parse(text string) (Catalog, error) {
	if strings.TrimSpace(text) == "" {
		return Catalog{}, errors.New("catalog is empty")
	}
	if !gjson.Valid(text) {
		return Catalog{}, errors.New("catalog is not valid JSON")
	}

	root := gjson.Parse(text)
	var entries []Collection
	switch {
	case root.IsArray():
		entries = parseList(root)
	case root.Get("collections").IsArray():
		entries = parseList(root.Get("collections"))
	case root.IsObject():
		root.ForEach(func(key, value gjson.Result) bool {
			c := parseEntry(value)
			if c.ID == "" {
				c.ID = key.String()
			}
			entries = append(entries, c)
			return true
		})
	default:
		return Catalog{}, errors.New("catalog must be a JSON array or object")
	}

	ids := make(map[string]struct{}, len(entries))
	for _, c := range entries {
		if c.ID != "" {
			ids[c.ID] = struct{}{}
		}
	}

	return Catalog{text: text, collections: entries, ids: ids}, nil
}

func parseList(list gjson.Result) []Collection {
	var out []Collection
	list.ForEach(func(_, value gjson.Result) bool {
		if c := parseEntry(value); c.ID != "" {
			out = append(out, c)
		}
		return true
	})
	return out
}

func parseEntry(v gjson.Result) Collection {
	return Collection{
		ID:          v.Get("id").String(),
		Title:       v.Get("title").String(),
		Description: v.Get("description").String(),
	}
}

// Text returns the catalog exactly as loaded.
func (c Catalog) Text() string { return c.text }

// Collections returns a copy of the parsed entries.
func (c Catalog) Collections() []Collection {
	out := make([]Collection, len(c.collections))
	copy(out, c.collections)
	return out
}

// Len returns the number of parsed entries.
func (c Catalog) Len() int { return len(c.collections) }

// Contains reports whether id is a known collection. Case-sensitive.
func (c Catalog) Contains(id string) bool {
	_, ok := c.ids[id]
	return ok
}

// IDs returns the collection ids in catalog order.
func (c Catalog) IDs() []string {
	out := make([]string, 0, len(c.collections))
	for _, col := range c.collections {
		out = append(out, col.ID)
	}
	return out
}
