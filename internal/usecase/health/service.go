package health

import (
	"context"
	"time"
)

// Status represents the aggregated health status.
type Status string

const (
	// Healthy indicates all components are operational.
	Healthy Status = "ok"
	// Degraded indicates partial failure.
	Degraded Status = "degraded"
)

// CheckResult represents an individual component health check outcome.
type CheckResult string

const (
	// CheckOK indicates a passing health check.
	CheckOK CheckResult = "ok"
	// CheckError indicates a failing health check.
	CheckError CheckResult = "error"
)

// Check names.
const (
	CheckCatalog = "catalog"
	CheckLLM     = "llm"
)

const defaultLLMTimeout = 5 * time.Second

// Report aggregates health check results.
type Report struct {
	Status Status
	Checks map[string]CheckResult
}

// Service coordinates health checks.
type Service struct {
	catalog    CatalogInfo
	llm        LLMChecker
	llmTimeout time.Duration
}

// New creates a Service. llm can be nil when the provider has no check.
func New(catalog CatalogInfo, llm LLMChecker) *Service {
	return &Service{catalog: catalog, llm: llm, llmTimeout: defaultLLMTimeout}
}

// WithLLMTimeout bounds the provider probe.
func (s *Service) WithLLMTimeout(d time.Duration) *Service {
	if d > 0 {
		s.llmTimeout = d
	}
	return s
}

// Check runs health checks against all components.
func (s *Service) Check(ctx context.Context) Report {
	checks := make(map[string]CheckResult)

	if s.catalog != nil && s.catalog.Len() > 0 {
		checks[CheckCatalog] = CheckOK
	} else {
		checks[CheckCatalog] = CheckError
	}

	if s.llm != nil {
		probeCtx, cancel := context.WithTimeout(ctx, s.llmTimeout)
		if err := s.llm.HealthCheck(probeCtx); err != nil {
			checks[CheckLLM] = CheckError
		} else {
			checks[CheckLLM] = CheckOK
		}
		cancel()
	}

	status := Healthy
	for _, v := range checks {
		if v == CheckError {
			status = Degraded
			break
		}
	}

	return Report{Status: status, Checks: checks}
}
