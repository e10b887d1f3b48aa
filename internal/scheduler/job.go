package scheduler

import (
	"context"
	"time"
)

// historyLimit is how many runs are kept per job
const historyLimit = 100

// Job is a unit of work fired by the scheduler
// ⭐ SSOT: 스케줄 작업 인터페이스는 여기서만 정의
type Job interface {
	Name() string

	// Run is cancelled through ctx when the scheduler stops
	Run(ctx context.Context) error

	// Schedule is a cron expression with a leading seconds field,
	// evaluated in the session timezone.
	// Examples: "0 */5 9-15 * * MON-FRI" (evaluation cycle)
	//           "0 45 15 * * MON-FRI"   (post-close journal summary)
	//           "@every 1m"
	Schedule() string
}

// JobResult is the outcome of one run including its retries
type JobResult struct {
	JobName   string        `json:"job_name"`
	StartTime time.Time     `json:"start_time"`
	EndTime   time.Time     `json:"end_time"`
	Duration  time.Duration `json:"duration"`
	Attempts  int           `json:"attempts"`
	Success   bool          `json:"success"`
	Error     string        `json:"error,omitempty"`
}

// JobHistory is a bounded log of runs, oldest first
type JobHistory struct {
	Results []JobResult
}

// AddResult appends a run and drops the oldest beyond historyLimit
func (h *JobHistory) AddResult(result JobResult) {
	h.Results = append(h.Results, result)
	if len(h.Results) > historyLimit {
		h.Results = h.Results[len(h.Results)-historyLimit:]
	}
}

// clone returns a copy that shares no memory with h
func (h *JobHistory) clone() *JobHistory {
	out := &JobHistory{Results: make([]JobResult, len(h.Results))}
	copy(out.Results, h.Results)
	return out
}

// GetLatestResults returns up to n most recent runs
func (h *JobHistory) GetLatestResults(n int) []JobResult {
	if n > len(h.Results) {
		n = len(h.Results)
	}
	if n <= 0 {
		return []JobResult{}
	}

	out := make([]JobResult, n)
	copy(out, h.Results[len(h.Results)-n:])
	return out
}

// GetFailedResults returns the runs that failed after all retries
func (h *JobHistory) GetFailedResults() []JobResult {
	failed := make([]JobResult, 0)
	for _, r := range h.Results {
		if !r.Success {
			failed = append(failed, r)
		}
	}
	return failed
}

// GetSuccessRate returns successful runs / all runs, 0 when empty
func (h *JobHistory) GetSuccessRate() float64 {
	if len(h.Results) == 0 {
		return 0.0
	}

	ok := 0
	for _, r := range h.Results {
		if r.Success {
			ok++
		}
	}
	return float64(ok) / float64(len(h.Results))
}
