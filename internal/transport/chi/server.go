package chi

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/hydrovibe/hydrosearch/internal/domain"
	"github.com/hydrovibe/hydrosearch/internal/transport/api"
	healthuc "github.com/hydrovibe/hydrosearch/internal/usecase/health"
	searchparamsuc "github.com/hydrovibe/hydrosearch/internal/usecase/searchparams"
	stacuc "github.com/hydrovibe/hydrosearch/internal/usecase/stac"
)

// errorHandler tries to handle a domain error. Returns true if handled.
type errorHandler func(w http.ResponseWriter, err error, msg string) bool

// Server implements api.ServerInterface.
type Server struct {
	api.Unimplemented
	params        *searchparamsuc.Service
	stac          *stacuc.Service
	health        *healthuc.Service
	logger        *zap.Logger
	errorHandlers []errorHandler
}

var _ api.ServerInterface = (*Server)(nil)

// NewServer creates an HTTP API server.
func NewServer(
	params *searchparamsuc.Service,
	stac *stacuc.Service,
	health *healthuc.Service,
	logger *zap.Logger,
) *Server {
	s := &Server{
		params: params,
		stac:   stac,
		health: health,
		logger: logger,
	}
	s.errorHandlers = []errorHandler{
		invalidRequestHandler,
		sentinelHandler(domain.ErrStacUnavailable, http.StatusBadGateway, api.ErrorResponseCodeStacApiError),
		sentinelHandler(domain.ErrMalformedModelResponse,
			http.StatusInternalServerError, api.ErrorResponseCodeInternalServerError),
		sentinelHandler(domain.ErrUpstreamUnavailable,
			http.StatusInternalServerError, api.ErrorResponseCodeInternalServerError),
		sentinelHandler(domain.ErrCatalogUnavailable,
			http.StatusInternalServerError, api.ErrorResponseCodeInternalServerError),
		sentinelHandler(domain.ErrConfiguration,
			http.StatusInternalServerError, api.ErrorResponseCodeInternalServerError),
	}
	return s
}

// GetSearchParams handles GET /searchparams.
func (s *Server) GetSearchParams(w http.ResponseWriter, r *http.Request, params api.GetSearchParamsParams) {
	p, err := s.params.Resolve(r.Context(), deref(params.RequestString), deref(params.Model))
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, api.NewSearchParamsResponse(p))
}

// ListCollections handles GET /collections.
func (s *Server) ListCollections(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, api.NewCollectionListResponse(s.params.Catalog()))
}

// SearchStac handles POST /stac/search.
func (s *Server) SearchStac(w http.ResponseWriter, r *http.Request) {
	var req api.StacSearchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, api.ErrorResponseCodeBadRequest, "Invalid request body: "+err.Error())
		return
	}

	raw, err := s.stac.Search(r.Context(), derefSlice(req.Collections), derefSlice(req.Bbox), deref(req.Datetime))
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(raw)
}

// HealthCheck handles GET /health.
func (s *Server) HealthCheck(w http.ResponseWriter, r *http.Request) {
	report := s.health.Check(r.Context())

	checks := make(map[string]api.HealthResponseChecks)
	for k, v := range report.Checks {
		checks[k] = api.HealthResponseChecks(v)
	}

	httpStatus := http.StatusOK
	if report.Status != healthuc.Healthy {
		httpStatus = http.StatusServiceUnavailable
	}

	writeJSON(w, httpStatus, api.HealthResponse{
		Status: api.HealthResponseStatus(report.Status),
		Checks: checks,
	})
}

// Metrics handles GET /metrics.
func (s *Server) Metrics(w http.ResponseWriter, r *http.Request) {
	promhttp.Handler().ServeHTTP(w, r)
}

// ParamErrorHandler answers query binding failures with a BAD_REQUEST body.
func ParamErrorHandler(w http.ResponseWriter, _ *http.Request, err error) {
	writeError(w, http.StatusBadRequest, api.ErrorResponseCodeBadRequest, err.Error())
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code api.ErrorResponseCode, message string) {
	writeJSON(w, status, api.ErrorResponse{
		Code:    code,
		Message: message,
	})
}

// safeDomainMessage returns a sentinel error message for the client without exposing internals.
func safeDomainMessage(err error) string {
	sentinels := []error{
		domain.ErrInvalidRequest,
		domain.ErrStacUnavailable,
		domain.ErrMalformedModelResponse,
		domain.ErrUpstreamUnavailable,
		domain.ErrCatalogUnavailable,
		domain.ErrConfiguration,
	}
	for _, s := range sentinels {
		if errors.Is(err, s) {
			return s.Error()
		}
	}
	return "internal error"
}

// sentinelHandler returns an errorHandler that matches a single sentinel error.
func sentinelHandler(sentinel error, status int, code api.ErrorResponseCode) errorHandler {
	return func(w http.ResponseWriter, err error, msg string) bool {
		if !errors.Is(err, sentinel) {
			return false
		}
		writeError(w, status, code, msg)
		return true
	}
}

// invalidRequestHandler echoes the validation reason, which only ever
// describes client input.
func invalidRequestHandler(w http.ResponseWriter, err error, _ string) bool {
	if !errors.Is(err, domain.ErrInvalidRequest) {
		return false
	}
	writeError(w, http.StatusBadRequest, api.ErrorResponseCodeBadRequest, err.Error())
	return true
}

func (s *Server) handleDomainError(w http.ResponseWriter, err error) {
	s.logger.Warn("domain error", zap.Error(err))
	msg := safeDomainMessage(err)
	for _, h := range s.errorHandlers {
		if h(w, err, msg) {
			return
		}
	}
	s.logger.Error("internal error", zap.Error(err))
	writeError(w, http.StatusInternalServerError, api.ErrorResponseCodeInternalServerError, "internal error")
}

func deref(p *string) string {
	if p == nil {
		return ""
	}
	return *p
}

func derefSlice(p *[]string) []string {
	if p == nil {
		return nil
	}
	return *p
}
