package jobs

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wonny/scalpdesk/internal/contracts"
	"github.com/wonny/scalpdesk/internal/evaluator"
	"github.com/wonny/scalpdesk/internal/journal"
	"github.com/wonny/scalpdesk/pkg/logger"
)

var ist = time.FixedZone("IST", 5*3600+1800)

type fakeRunner struct {
	result *evaluator.RunResult
	err    error
	asked  time.Time
}

func (f *fakeRunner) Run(ctx context.Context, now time.Time) (*evaluator.RunResult, error) {
	f.asked = now
	return f.result, f.err
}

func prediction(ticker, bucket string, action contracts.Action, regime contracts.MarketRegime) contracts.Prediction {
	at, _ := time.ParseInLocation("2006-01-02 15:04", "2025-01-02 "+bucket, ist)
	return contracts.Prediction{
		PredictionID:     "20250102_" + bucket + "_" + ticker,
		DatetimeIST:      at.UTC(),
		Date:             "2025-01-02",
		TimeBucket:       bucket,
		Ticker:           ticker,
		DataSymbol:       ticker + ".NS",
		MarketRegime:     regime,
		PredictionAction: action,
		ValidForMinutes:  15,
		StatusCode:       contracts.PhaseScalp1,
		StrategyVersion:  "v1.0",
	}
}

func TestEvaluationJob(t *testing.T) {
	now := time.Date(2025, 1, 2, 10, 20, 0, 0, ist)

	tests := []struct {
		name    string
		runner  *fakeRunner
		wantErr bool
	}{
		{
			name: "completed",
			runner: &fakeRunner{result: &evaluator.RunResult{
				Cycle: evaluator.Cycle{Phase: contracts.PhaseScalp1, Regime: contracts.RegimeTrendDay},
				Batch: contracts.PredictionBatch{prediction("TCS", "10:15", contracts.ActionLong, contracts.RegimeTrendDay)},
			}},
		},
		{
			name:   "skipped",
			runner: &fakeRunner{result: &evaluator.RunResult{Cycle: evaluator.Cycle{Phase: contracts.PhaseClosed, Skipped: true}}},
		},
		{
			name:    "storage failure is returned for retry",
			runner:  &fakeRunner{err: journal.ErrCorruptStore},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			job := NewEvaluationJob(tt.runner, "0 */5 9-15 * * MON-FRI", logger.Nop())
			job.now = func() time.Time { return now }

			err := job.Run(context.Background())
			if tt.wantErr {
				assert.True(t, errors.Is(err, journal.ErrCorruptStore))
			} else {
				assert.NoError(t, err)
			}
			assert.Equal(t, now, tt.runner.asked)
		})
	}

	job := NewEvaluationJob(&fakeRunner{}, "0 */5 9-15 * * MON-FRI", logger.Nop())
	assert.Equal(t, "evaluation_cycle", job.Name())
	assert.Equal(t, "0 */5 9-15 * * MON-FRI", job.Schedule())
}

func TestSummarize(t *testing.T) {
	rows := []contracts.Prediction{
		prediction("TCS", "09:30", contracts.ActionLong, contracts.RegimeTrendDay),
		prediction("INFY", "09:30", contracts.ActionNoTrade, contracts.RegimeTrendDay),
		prediction("TCS", "09:35", contracts.ActionShort, contracts.RegimeRangeDay),
	}

	s := Summarize("2025-01-02", rows)

	assert.Equal(t, 3, s.Predictions)
	assert.Equal(t, 2, s.Tickers)
	assert.Equal(t, 2, s.Buckets)
	assert.Equal(t, map[contracts.Action]int{
		contracts.ActionLong:    1,
		contracts.ActionShort:   1,
		contracts.ActionNoTrade: 1,
	}, s.ByAction)
	assert.Equal(t, map[contracts.MarketRegime]int{
		contracts.RegimeTrendDay: 1,
		contracts.RegimeRangeDay: 1,
	}, s.ByRegime)

	empty := Summarize("2025-01-03", nil)
	assert.Zero(t, empty.Predictions)
	assert.Zero(t, empty.Tickers)
}

func TestJournalSummaryJob(t *testing.T) {
	ctx := context.Background()
	store := journal.NewFileStore(filepath.Join(t.TempDir(), "journal.csv"), logger.Nop())

	_, err := store.Upsert(ctx, contracts.PredictionBatch{
		prediction("TCS", "09:30", contracts.ActionLong, contracts.RegimeTrendDay),
		prediction("INFY", "09:30", contracts.ActionShort, contracts.RegimeTrendDay),
	})
	require.NoError(t, err)

	job := NewJournalSummaryJob(store, ist, logger.Nop())
	assert.Equal(t, "journal_summary", job.Name())

	// 10:30 UTC is 16:00 IST on the same trading date
	job.now = func() time.Time { return time.Date(2025, 1, 2, 10, 30, 0, 0, time.UTC) }
	require.NoError(t, job.Run(ctx))

	// a day with nothing journaled is not an error
	job.now = func() time.Time { return time.Date(2025, 1, 3, 10, 30, 0, 0, time.UTC) }
	require.NoError(t, job.Run(ctx))
}

func TestJournalSummaryJob_CorruptStore(t *testing.T) {
	path := filepath.Join(t.TempDir(), "journal.csv")
	require.NoError(t, os.WriteFile(path, []byte("not,a,journal\n1,2,3\n"), 0o644))

	job := NewJournalSummaryJob(journal.NewFileStore(path, logger.Nop()), ist, logger.Nop())
	err := job.Run(context.Background())
	assert.True(t, errors.Is(err, journal.ErrCorruptStore))
}
