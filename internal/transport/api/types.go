// Package api holds the HTTP contract described in api/openapi.yaml: wire
// types, the server interface and the chi routing wrapper.
package api

// ErrorResponseCode is the machine-readable error class.
type ErrorResponseCode string

// Error codes.
const (
	ErrorResponseCodeBadRequest          ErrorResponseCode = "BAD_REQUEST"
	ErrorResponseCodeUnauthorized        ErrorResponseCode = "UNAUTHORIZED"
	ErrorResponseCodeInternalServerError ErrorResponseCode = "INTERNAL_SERVER_ERROR"
	ErrorResponseCodeStacApiError        ErrorResponseCode = "STAC_API_ERROR"
)

// ErrorResponse is the body of every non-2xx response.
type ErrorResponse struct {
	Code    ErrorResponseCode `json:"code"`
	Message string            `json:"message"`
}

// SearchParamsResponse is the body of GET /searchparams. Absent values are null.
type SearchParamsResponse struct {
	Collections []string  `json:"collections"`
	StartDate   *string   `json:"startDate"`
	EndDate     *string   `json:"endDate"`
	BoundingBox *[]string `json:"boundingBox"`
}

// GetSearchParamsParams are the query parameters of GET /searchparams.
type GetSearchParamsParams struct {
	RequestString *string `form:"requestString,omitempty" json:"requestString,omitempty"`
	Model         *string `form:"model,omitempty" json:"model,omitempty"`
}

// Collection is one catalog entry.
type Collection struct {
	Id          string  `json:"id"`
	Title       *string `json:"title,omitempty"`
	Description *string `json:"description,omitempty"`
}

// CollectionListResponse is the body of GET /collections.
type CollectionListResponse struct {
	Items []Collection `json:"items"`
	Total int          `json:"total"`
}

// StacSearchRequest is the body of POST /stac/search.
type StacSearchRequest struct {
	Collections *[]string `json:"collections,omitempty"`
	Bbox        *[]string `json:"bbox,omitempty"`
	Datetime    *string   `json:"datetime,omitempty"`
}

// HealthResponseStatus is the aggregated status.
type HealthResponseStatus string

// HealthResponseChecks is a single component status.
type HealthResponseChecks string

// HealthResponse is the body of GET /health.
type HealthResponse struct {
	Status HealthResponseStatus            `json:"status"`
	Checks map[string]HealthResponseChecks `json:"checks"`
}
