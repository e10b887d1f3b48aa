package evaluator

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/wonny/scalpdesk/internal/contracts"
	"github.com/wonny/scalpdesk/internal/journal"
	"github.com/wonny/scalpdesk/pkg/logger"
	"github.com/wonny/scalpdesk/pkg/metrics"
)

// PublishFunc receives every persisted batch (e.g. the websocket hub)
type PublishFunc func(batch contracts.PredictionBatch, cycle Cycle)

// RunResult holds the outcome of one full cycle
type RunResult struct {
	Cycle   Cycle                     `json:"cycle"`
	Batch   contracts.PredictionBatch `json:"predictions"`
	Journal journal.UpsertStats       `json:"journal"`
}

// Runner wires watchlist → evaluator → journal → subscribers.
// Runs are serialized; a second caller waits for the first to finish.
type Runner struct {
	evaluator *Evaluator
	watchlist contracts.WatchlistSource
	journal   journal.Journal

	mu          sync.Mutex
	subscribers []PublishFunc

	metrics *metrics.Recorder
	logger  *logger.Logger
}

// NewRunner creates a cycle runner
func NewRunner(
	evaluator *Evaluator,
	watchlist contracts.WatchlistSource,
	store journal.Journal,
	recorder *metrics.Recorder,
	log *logger.Logger,
) *Runner {
	return &Runner{
		evaluator: evaluator,
		watchlist: watchlist,
		journal:   store,
		metrics:   recorder,
		logger:    log.WithField("module", "runner"),
	}
}

// Subscribe registers fn for every persisted non-empty batch
func (r *Runner) Subscribe(fn PublishFunc) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.subscribers = append(r.subscribers, fn)
}

// Run executes one cycle at now
func (r *Runner) Run(ctx context.Context, now time.Time) (*RunResult, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	date := now.In(r.evaluator.Clock().Location())
	entries, err := r.watchlist.EntriesFor(ctx, date)
	if err != nil {
		return nil, fmt.Errorf("load watchlist: %w", err)
	}

	batch, cycle := r.evaluator.Evaluate(ctx, entries, now)
	result := &RunResult{Cycle: cycle, Batch: batch}

	if len(batch) == 0 {
		return result, nil
	}

	stats, err := r.journal.Upsert(ctx, batch)
	if err != nil {
		return result, fmt.Errorf("upsert journal: %w", err)
	}
	result.Journal = stats
	r.metrics.RecordJournalUpsert(stats.Inserted, stats.Replaced)

	r.logger.WithFields(map[string]interface{}{
		"date":     date.Format("2006-01-02"),
		"bucket":   batch[0].TimeBucket,
		"inserted": stats.Inserted,
		"replaced": stats.Replaced,
		"total":    stats.Total,
	}).Info("predictions journaled")

	for _, fn := range r.subscribers {
		fn(batch, cycle)
	}

	return result, nil
}
