package hydrosearch

import "github.com/hydrovibe/hydrosearch/internal/domain"

// Sentinel errors re-exported from the domain layer.
// Use errors.Is() to check.
var (
	ErrInvalidRequest         = domain.ErrInvalidRequest
	ErrCatalogUnavailable     = domain.ErrCatalogUnavailable
	ErrMalformedModelResponse = domain.ErrMalformedModelResponse
	ErrUpstreamUnavailable    = domain.ErrUpstreamUnavailable
	ErrConfiguration          = domain.ErrConfiguration
	ErrStacUnavailable        = domain.ErrStacUnavailable
)
