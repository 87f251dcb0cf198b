package hydrosearch

import (
	"context"

	healthuc "github.com/hydrovibe/hydrosearch/internal/usecase/health"
)

// Health checks the catalog and, when the provider supports it, the LLM endpoint.
func (c *Client) Health(ctx context.Context) HealthStatus {
	report := c.healthSvc.Check(ctx)
	checks := make(map[string]string, len(report.Checks))
	for k, v := range report.Checks {
		checks[k] = string(v)
	}
	return HealthStatus{
		Status: string(report.Status),
		Checks: checks,
	}
}

// healthUseCase is the internal interface for health checks.
type healthUseCase interface {
	Check(ctx context.Context) healthuc.Report
}
