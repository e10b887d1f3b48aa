// Package journal persists predictions keyed by (date, time_bucket, ticker).
// Re-evaluating a key replaces the prior record; nothing is ever appended twice.
package journal

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/wonny/scalpdesk/internal/contracts"
	"github.com/wonny/scalpdesk/pkg/config"
	"github.com/wonny/scalpdesk/pkg/logger"
)

// ErrCorruptStore is returned when the persisted store cannot be parsed
var ErrCorruptStore = errors.New("journal store is corrupt")

// UpsertStats reports what a batch upsert did
type UpsertStats struct {
	Inserted int `json:"inserted"` // new keys
	Replaced int `json:"replaced"` // existing keys overwritten
	Total    int `json:"total"`    // live records after the upsert (-1 if unknown)
}

// Filter selects journal records. Zero values match everything.
type Filter struct {
	From    time.Time // inclusive trading date
	To      time.Time // inclusive trading date
	Tickers []string
	Actions []contracts.Action
}

// Match reports whether p passes the filter
func (f Filter) Match(p contracts.Prediction) bool {
	if !f.From.IsZero() && p.Date < f.From.Format(dateLayout) {
		return false
	}
	if !f.To.IsZero() && p.Date > f.To.Format(dateLayout) {
		return false
	}
	if len(f.Tickers) > 0 && !containsString(f.Tickers, p.Ticker) {
		return false
	}
	if len(f.Actions) > 0 {
		found := false
		for _, a := range f.Actions {
			if a == p.PredictionAction {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}

// Journal is the prediction store
// ⭐ SSOT: 예측 저널 인터페이스 (file / postgres)
type Journal interface {
	// Upsert applies a batch as one logical transaction
	Upsert(ctx context.Context, batch contracts.PredictionBatch) (UpsertStats, error)
	// Load returns every live record
	Load(ctx context.Context) ([]contracts.Prediction, error)
	// Query returns records matching the filter
	Query(ctx context.Context, f Filter) ([]contracts.Prediction, error)
}

const dateLayout = "2006-01-02"

// Open selects the backend configured by JOURNAL_BACKEND
func Open(ctx context.Context, cfg config.JournalConfig, pool *pgxpool.Pool, log *logger.Logger) (Journal, error) {
	switch cfg.Backend {
	case "file":
		return NewFileStore(cfg.Path, log), nil
	case "postgres":
		if pool == nil {
			return nil, fmt.Errorf("postgres journal requires a database pool")
		}
		store := NewPostgresStore(pool, log)
		if err := store.EnsureSchema(ctx); err != nil {
			return nil, err
		}
		return store, nil
	}
	return nil, fmt.Errorf("unknown journal backend %q", cfg.Backend)
}

func containsString(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
