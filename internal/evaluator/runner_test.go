package evaluator

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wonny/scalpdesk/internal/contracts"
	"github.com/wonny/scalpdesk/internal/journal"
	"github.com/wonny/scalpdesk/pkg/logger"
)

type fakeWatchlist struct {
	entries []contracts.WatchlistEntry
	err     error
	asked   time.Time
}

func (f *fakeWatchlist) EntriesFor(ctx context.Context, date time.Time) ([]contracts.WatchlistEntry, error) {
	f.asked = date
	return f.entries, f.err
}

type failingJournal struct{ journal.Journal }

func (failingJournal) Upsert(ctx context.Context, batch contracts.PredictionBatch) (journal.UpsertStats, error) {
	return journal.UpsertStats{}, journal.ErrCorruptStore
}

func TestRunner_PersistsAndPublishes(t *testing.T) {
	ctx := context.Background()
	store := journal.NewFileStore(filepath.Join(t.TempDir(), "journal.csv"), logger.Nop())
	wl := &fakeWatchlist{entries: watchlist("RELIANCE", "TCS")}
	runner := NewRunner(newEvaluator(DefaultConfig(), defaultMarket(), &fakeNews{}, nil), wl, store, nil, logger.Nop())

	var published []contracts.PredictionBatch
	runner.Subscribe(func(batch contracts.PredictionBatch, cycle Cycle) {
		published = append(published, batch)
	})

	first, err := runner.Run(ctx, at(10, 22))
	require.NoError(t, err)
	assert.Equal(t, journal.UpsertStats{Inserted: 2, Total: 2}, first.Journal)
	assert.Equal(t, "2025-01-02", wl.asked.Format("2006-01-02"))

	// same bucket again: replaced, never duplicated
	second, err := runner.Run(ctx, at(10, 29))
	require.NoError(t, err)
	assert.Equal(t, journal.UpsertStats{Replaced: 2, Total: 2}, second.Journal)

	rows, err := store.Load(ctx)
	require.NoError(t, err)
	assert.Len(t, rows, 2)
	assert.Len(t, published, 2)
}

func TestRunner_EmptyBatchSkipsJournal(t *testing.T) {
	runner := NewRunner(
		newEvaluator(DefaultConfig(), defaultMarket(), &fakeNews{}, nil),
		&fakeWatchlist{entries: watchlist("RELIANCE")},
		failingJournal{}, nil, logger.Nop(),
	)

	res, err := runner.Run(context.Background(), at(7, 0))
	require.NoError(t, err)
	assert.True(t, res.Cycle.Skipped)
	assert.Empty(t, res.Batch)
}

func TestRunner_WatchlistError(t *testing.T) {
	runner := NewRunner(
		newEvaluator(DefaultConfig(), defaultMarket(), &fakeNews{}, nil),
		&fakeWatchlist{err: errors.New("permission denied")},
		failingJournal{}, nil, logger.Nop(),
	)

	_, err := runner.Run(context.Background(), at(10, 22))
	assert.ErrorContains(t, err, "load watchlist")
}

func TestRunner_JournalErrorPropagates(t *testing.T) {
	runner := NewRunner(
		newEvaluator(DefaultConfig(), defaultMarket(), &fakeNews{}, nil),
		&fakeWatchlist{entries: watchlist("RELIANCE")},
		failingJournal{}, nil, logger.Nop(),
	)

	res, err := runner.Run(context.Background(), at(10, 22))
	assert.ErrorIs(t, err, journal.ErrCorruptStore)
	require.NotNil(t, res)
	assert.Len(t, res.Batch, 1)
}
