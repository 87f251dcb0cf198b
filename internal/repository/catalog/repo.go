// Package catalog loads the collection catalog once at startup, from a file or
// the bundled default.
package catalog

import (
	_ "embed"
	"fmt"
	"os"
	"path/filepath"

	"github.com/hydrovibe/hydrosearch/internal/domain"
	domcat "github.com/hydrovibe/hydrosearch/internal/domain/catalog"
)

// BundledSource names the embedded catalog in logs.
const BundledSource = "bundled"

//go:embed collections.json
var bundled []byte

// Repo reads the catalog text.
type Repo struct {
	path string
}

// New creates a catalog repository. An empty path selects the bundled catalog.
func New(path string) *Repo {
	return &Repo{path: path}
}

// Source returns the file path or BundledSource.
func (r *Repo) Source() string {
	if r.path == "" {
		return BundledSource
	}
	return r.path
}

// Load reads and parses the catalog. Any failure wraps domain.ErrCatalogUnavailable.
func (r *Repo) Load() (domcat.Catalog, error) {
	data := bundled
	if r.path != "" {
		var err error
		data, err = os.ReadFile(filepath.Clean(r.path))
		if err != nil {
			return domcat.Catalog{}, fmt.Errorf("%w: read %s: %w", domain.ErrCatalogUnavailable, r.path, err)
		}
	}

	cat, err := domcat.Parse(string(data))
	if err != nil {
		return domcat.Catalog{}, fmt.Errorf("%w: %s: %w", domain.ErrCatalogUnavailable, r.Source(), err)
	}
	return cat, nil
}
