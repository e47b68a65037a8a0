package schedule

import (
	"context"
	"log/slog"
	"time"
)

// Pruner is the subset of the durable debug log store needed by the
// retention job. Defined here to avoid a dependency on the sink module.
type Pruner interface {
	Prune(olderThan time.Time) (int64, error)
}

// RetentionJob deletes debug log entries older than MaxAge.
type RetentionJob struct {
	Store        Pruner
	MaxAge       time.Duration
	Logger       *slog.Logger
	ScheduleExpr string // empty = default "0 3 * * *"
}

var _ Job = (*RetentionJob)(nil)

// Name implements Job.
func (j *RetentionJob) Name() string { return "debuglog_retention" }

// Schedule implements Job.
func (j *RetentionJob) Schedule() string {
	if j.ScheduleExpr != "" {
		return j.ScheduleExpr
	}
	return "0 3 * * *"
}

// Run prunes entries recorded before now minus MaxAge.
func (j *RetentionJob) Run(ctx context.Context) error {
	if ctx.Err() != nil {
		return ctx.Err()
	}

	pruned, err := j.Store.Prune(time.Now().Add(-j.MaxAge))
	if err != nil {
		return err
	}
	if pruned > 0 {
		j.Logger.Info("schedule: pruned debug log entries", "count", pruned, "max_age", j.MaxAge)
	}
	return nil
}
