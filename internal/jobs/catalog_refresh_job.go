package jobs

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// CatalogRefreshJobName is the name of the plan catalog refresh job
const CatalogRefreshJobName = "plan_catalog_refresh"

// PlanCatalogRefresher defines the part of the plan service the refresh job
// depends on. The plan catalog is cached; this job re-warms it so readers see
// accounting-side plan edits without waiting for the TTL.
type PlanCatalogRefresher interface {
	RefreshCatalog(ctx context.Context) error
}

// CatalogRefreshJob periodically refreshes the cached plan catalog.
type CatalogRefreshJob struct {
	plans   PlanCatalogRefresher
	logger  *zap.Logger
	timeout time.Duration
}

// NewCatalogRefreshJob creates a new plan catalog refresh job.
func NewCatalogRefreshJob(plans PlanCatalogRefresher, logger *zap.Logger, timeout time.Duration) *CatalogRefreshJob {
	return &CatalogRefreshJob{
		plans:   plans,
		logger:  logger,
		timeout: timeout,
	}
}

// Run executes the catalog refresh. Called by the scheduler according to the
// configured cron expression.
func (j *CatalogRefreshJob) Run() {
	ctx, cancel := context.WithTimeout(context.Background(), j.timeout)
	defer cancel()

	start := time.Now()

	if err := j.plans.RefreshCatalog(ctx); err != nil {
		j.logger.Error("plan catalog refresh failed",
			zap.Error(err),
			zap.Duration("duration", time.Since(start)))
		return
	}

	j.logger.Info("plan catalog refreshed",
		zap.Duration("duration", time.Since(start)))
}
