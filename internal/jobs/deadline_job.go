package jobs

import (
	"context"
	"time"

	"github.com/crestline-dev/budget-api/internal/domain"
	"go.uber.org/zap"
)

// DeadlineSweepJobName is the name of the approval deadline sweep job
const DeadlineSweepJobName = "approval_deadline_sweep"

// OverdueChangeOrderLister defines the part of the change order service the
// sweep depends on.
type OverdueChangeOrderLister interface {
	ListPastDeadline(ctx context.Context) ([]domain.ChangeOrderDTO, error)
}

// DeadlineSweepJob flags pending change orders whose approval deadline has
// passed. The engine does not auto-decide them; the sweep surfaces them in the
// logs for the project managers' morning review.
type DeadlineSweepJob struct {
	orders  OverdueChangeOrderLister
	logger  *zap.Logger
	timeout time.Duration
}

// NewDeadlineSweepJob creates a new approval deadline sweep job.
func NewDeadlineSweepJob(orders OverdueChangeOrderLister, logger *zap.Logger, timeout time.Duration) *DeadlineSweepJob {
	return &DeadlineSweepJob{
		orders:  orders,
		logger:  logger,
		timeout: timeout,
	}
}

// Run executes the deadline sweep.
func (j *DeadlineSweepJob) Run() {
	ctx, cancel := context.WithTimeout(context.Background(), j.timeout)
	defer cancel()

	start := time.Now()

	overdue, err := j.orders.ListPastDeadline(ctx)
	if err != nil {
		j.logger.Error("approval deadline sweep failed",
			zap.Error(err),
			zap.Duration("duration", time.Since(start)))
		return
	}

	for _, co := range overdue {
		j.logger.Warn("change order past approval deadline",
			zap.String("change_order_id", co.ID.String()),
			zap.String("project_id", co.ProjectID.String()),
			zap.Int("co_number", co.CONumber),
			zap.String("title", co.Title),
			zap.Float64("amount", co.Amount),
			zap.String("approval_deadline", co.ApprovalDeadline),
		)
	}

	j.logger.Info("approval deadline sweep completed",
		zap.Int("overdue_count", len(overdue)),
		zap.Duration("duration", time.Since(start)))
}
