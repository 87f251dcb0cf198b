package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidRequest signals a blank, missing or placeholder query.
	ErrInvalidRequest = errors.New("invalid request")
	// ErrCatalogUnavailable signals a missing or unreadable collection catalog.
	ErrCatalogUnavailable = errors.New("collection catalog unavailable")
	// ErrMalformedModelResponse signals a parameter reply that is not a JSON object.
	ErrMalformedModelResponse = errors.New("malformed model response")
	// ErrUpstreamUnavailable signals an LLM provider failure (network, auth, quota).
	ErrUpstreamUnavailable = errors.New("llm provider unavailable")
	// ErrConfiguration signals an unusable process configuration.
	ErrConfiguration = errors.New("configuration error")
	// ErrStacUnavailable signals a STAC search API failure.
	ErrStacUnavailable = errors.New("stac api error")
)

// FieldError describes a single extracted field that was present but malformed.
// It never fails a request: the field is reported absent and the error is logged.
type FieldError struct {
	Field string
	Value string
	Err   error
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("field %s: cannot parse %q: %v", e.Field, e.Value, e.Err)
}

func (e *FieldError) Unwrap() error { return e.Err }

// NewFieldError creates a soft field parse failure.
func NewFieldError(field, value string, err error) *FieldError {
	return &FieldError{Field: field, Value: value, Err: err}
}

// InvalidRequestf wraps ErrInvalidRequest with a client-facing reason.
func InvalidRequestf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidRequest, fmt.Sprintf(format, args...))
}
