package jobs

import (
	"context"
	"time"

	"github.com/wonny/scalpdesk/internal/evaluator"
	"github.com/wonny/scalpdesk/pkg/logger"
)

// CycleRunner runs one evaluation cycle
type CycleRunner interface {
	Run(ctx context.Context, now time.Time) (*evaluator.RunResult, error)
}

// EvaluationJob evaluates the watchlist and journals the batch
type EvaluationJob struct {
	runner   CycleRunner
	schedule string
	now      func() time.Time
	logger   *logger.Logger
}

// NewEvaluationJob creates a new evaluation job
func NewEvaluationJob(runner CycleRunner, schedule string, log *logger.Logger) *EvaluationJob {
	return &EvaluationJob{
		runner:   runner,
		schedule: schedule,
		now:      time.Now,
		logger:   log,
	}
}

// Name returns the job name
func (j *EvaluationJob) Name() string {
	return "evaluation_cycle"
}

// Schedule returns the cron schedule (default every 5 minutes during market hours)
func (j *EvaluationJob) Schedule() string {
	return j.schedule
}

// Run executes one evaluation cycle
func (j *EvaluationJob) Run(ctx context.Context) error {
	result, err := j.runner.Run(ctx, j.now())
	if err != nil {
		return err
	}

	if result.Cycle.Skipped {
		j.logger.WithField("phase", result.Cycle.Phase).Debug("Evaluation cycle skipped")
		return nil
	}

	j.logger.WithFields(map[string]interface{}{
		"phase":       result.Cycle.Phase,
		"regime":      result.Cycle.Regime,
		"predictions": len(result.Batch),
		"degraded":    result.Cycle.Degraded,
	}).Info("Evaluation cycle completed")

	return nil
}
