package health

import "context"

// CatalogInfo reports how many collections the loaded catalog holds.
type CatalogInfo interface {
	Len() int
}

// LLMChecker checks chat provider availability.
type LLMChecker interface {
	HealthCheck(ctx context.Context) error
}
