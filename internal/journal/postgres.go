package journal

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/wonny/scalpdesk/internal/contracts"
	"github.com/wonny/scalpdesk/pkg/logger"
)

// advisoryLockKey serializes journal writers across processes
const advisoryLockKey int64 = 0x5ca1_0001

const schemaSQL = `
CREATE SCHEMA IF NOT EXISTS journal;

CREATE TABLE IF NOT EXISTS journal.predictions (
	prediction_id          TEXT        NOT NULL,
	datetime_ist           TIMESTAMPTZ NOT NULL,
	date                   DATE        NOT NULL,
	time_bucket            TEXT        NOT NULL,
	ticker                 TEXT        NOT NULL,
	data_symbol            TEXT        NOT NULL,
	index_bucket           TEXT        NOT NULL DEFAULT '',
	nifty_trend            TEXT        NOT NULL,
	stock_short_trend      TEXT        NOT NULL,
	market_regime          TEXT        NOT NULL,
	prediction_action      TEXT        NOT NULL,
	confidence_score       DOUBLE PRECISION NOT NULL,
	confidence_level_label TEXT        NOT NULL,
	confidence_trend       DOUBLE PRECISION NOT NULL,
	confidence_volume      DOUBLE PRECISION NOT NULL,
	confidence_sentiment   DOUBLE PRECISION NOT NULL,
	confidence_volatility  DOUBLE PRECISION NOT NULL,
	confidence_explanation TEXT        NOT NULL,
	valid_for_minutes      INTEGER     NOT NULL,
	price_at_prediction    DOUBLE PRECISION,
	volume_signal          TEXT        NOT NULL,
	volatility_label       TEXT        NOT NULL DEFAULT '',
	sentiment_score        DOUBLE PRECISION NOT NULL,
	sentiment_label        TEXT        NOT NULL,
	news_summary           TEXT        NOT NULL,
	news_risk_flag         TEXT        NOT NULL,
	status_code            TEXT        NOT NULL,
	strategy_version       TEXT        NOT NULL,
	updated_at             TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	PRIMARY KEY (date, time_bucket, ticker)
);

CREATE INDEX IF NOT EXISTS idx_predictions_ticker_time
	ON journal.predictions (ticker, datetime_ist DESC);
`

// PostgresStore keeps the journal in journal.predictions
type PostgresStore struct {
	pool *pgxpool.Pool
	log  *logger.Logger
}

// NewPostgresStore creates a postgres-backed journal
func NewPostgresStore(pool *pgxpool.Pool, log *logger.Logger) *PostgresStore {
	return &PostgresStore{
		pool: pool,
		log:  log.WithField("module", "journal.postgres"),
	}
}

// EnsureSchema creates the schema and table if missing
func (s *PostgresStore) EnsureSchema(ctx context.Context) error {
	if _, err := s.pool.Exec(ctx, schemaSQL); err != nil {
		return fmt.Errorf("failed to ensure journal schema: %w", err)
	}
	return nil
}

// Upsert writes the batch in one transaction.
// Duplicate keys inside the batch collapse to the last record first.
func (s *PostgresStore) Upsert(ctx context.Context, batch contracts.PredictionBatch) (UpsertStats, error) {
	rows := NewLedger(batch).Records()
	if len(rows) == 0 {
		total, err := s.count(ctx)
		return UpsertStats{Total: total}, err
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return UpsertStats{}, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `SELECT pg_advisory_xact_lock($1)`, advisoryLockKey); err != nil {
		return UpsertStats{}, fmt.Errorf("failed to lock journal: %w", err)
	}

	query := upsertSQL()
	b := &pgx.Batch{}
	for _, p := range rows {
		args, err := upsertArgs(p)
		if err != nil {
			return UpsertStats{}, err
		}
		b.Queue(query, args...)
	}

	var stats UpsertStats
	br := tx.SendBatch(ctx, b)
	for _, p := range rows {
		var inserted bool
		if err := br.QueryRow().Scan(&inserted); err != nil {
			br.Close()
			return UpsertStats{}, fmt.Errorf("failed to upsert prediction %s: %w", p.PredictionID, err)
		}
		if inserted {
			stats.Inserted++
		} else {
			stats.Replaced++
		}
	}
	if err := br.Close(); err != nil {
		return UpsertStats{}, fmt.Errorf("failed to close batch: %w", err)
	}

	if err := tx.QueryRow(ctx, `SELECT COUNT(*) FROM journal.predictions`).Scan(&stats.Total); err != nil {
		return UpsertStats{}, fmt.Errorf("failed to count predictions: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return UpsertStats{}, fmt.Errorf("failed to commit transaction: %w", err)
	}

	s.log.WithFields(map[string]interface{}{
		"inserted": stats.Inserted,
		"replaced": stats.Replaced,
		"total":    stats.Total,
	}).Debug("journal upserted")

	return stats, nil
}

// Load returns every record ordered by datetime
func (s *PostgresStore) Load(ctx context.Context) ([]contracts.Prediction, error) {
	return s.Query(ctx, Filter{})
}

// Query returns the records matching f ordered by datetime
func (s *PostgresStore) Query(ctx context.Context, f Filter) ([]contracts.Prediction, error) {
	query, args := buildQuery(f)

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query predictions: %w", err)
	}
	defer rows.Close()

	var out []contracts.Prediction
	for rows.Next() {
		p, err := scanPrediction(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan prediction: %w", err)
		}
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate predictions: %w", err)
	}
	return out, nil
}

func (s *PostgresStore) count(ctx context.Context) (int, error) {
	var n int
	if err := s.pool.QueryRow(ctx, `SELECT COUNT(*) FROM journal.predictions`).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count predictions: %w", err)
	}
	return n, nil
}

// selectColumns renders Columns for SELECT, date as YYYY-MM-DD text
func selectColumns() string {
	cols := make([]string, len(Columns))
	for i, c := range Columns {
		if c == "date" {
			cols[i] = "to_char(date, 'YYYY-MM-DD')"
			continue
		}
		cols[i] = c
	}
	return strings.Join(cols, ", ")
}

func upsertSQL() string {
	placeholders := make([]string, len(Columns))
	updates := make([]string, 0, len(Columns))
	for i, c := range Columns {
		placeholders[i] = fmt.Sprintf("$%d", i+1)
		switch c {
		case "date", "time_bucket", "ticker":
			continue
		}
		updates = append(updates, fmt.Sprintf("%s = EXCLUDED.%s", c, c))
	}
	updates = append(updates, "updated_at = NOW()")

	// xmax = 0 이면 신규 insert
	return fmt.Sprintf(`
		INSERT INTO journal.predictions (%s)
		VALUES (%s)
		ON CONFLICT (date, time_bucket, ticker) DO UPDATE SET
			%s
		RETURNING (xmax = 0)
	`, strings.Join(Columns, ", "), strings.Join(placeholders, ", "), strings.Join(updates, ",\n\t\t\t"))
}

// upsertArgs follows the order of Columns
func upsertArgs(p contracts.Prediction) ([]interface{}, error) {
	date, err := time.Parse(dateLayout, p.Date)
	if err != nil {
		return nil, fmt.Errorf("invalid prediction date %q: %w", p.Date, err)
	}

	return []interface{}{
		p.PredictionID,
		p.DatetimeIST,
		date,
		p.TimeBucket,
		p.Ticker,
		p.DataSymbol,
		p.IndexBucket,
		string(p.NiftyTrend),
		string(p.StockShortTrend),
		string(p.MarketRegime),
		string(p.PredictionAction),
		p.ConfidenceScore,
		string(p.ConfidenceLevelLabel),
		p.ConfidenceTrend,
		p.ConfidenceVolume,
		p.ConfidenceSentiment,
		p.ConfidenceVolatility,
		p.ConfidenceExplanation,
		p.ValidForMinutes,
		p.PriceAtPrediction,
		string(p.VolumeSignal),
		string(p.VolatilityLabel),
		p.SentimentScore,
		string(p.SentimentLabel),
		p.NewsSummary,
		string(p.NewsRiskFlag),
		string(p.StatusCode),
		p.StrategyVersion,
	}, nil
}

// buildQuery renders the SELECT for a filter
func buildQuery(f Filter) (string, []interface{}) {
	var (
		where []string
		args  []interface{}
	)
	arg := func(v interface{}) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}

	if !f.From.IsZero() {
		where = append(where, "date >= "+arg(f.From.Format(dateLayout))+"::date")
	}
	if !f.To.IsZero() {
		where = append(where, "date <= "+arg(f.To.Format(dateLayout))+"::date")
	}
	if len(f.Tickers) > 0 {
		where = append(where, "ticker = ANY("+arg(f.Tickers)+")")
	}
	if len(f.Actions) > 0 {
		actions := make([]string, len(f.Actions))
		for i, a := range f.Actions {
			actions[i] = string(a)
		}
		where = append(where, "prediction_action = ANY("+arg(actions)+")")
	}

	var sb strings.Builder
	sb.WriteString("SELECT ")
	sb.WriteString(selectColumns())
	sb.WriteString(" FROM journal.predictions")
	if len(where) > 0 {
		sb.WriteString(" WHERE ")
		sb.WriteString(strings.Join(where, " AND "))
	}
	sb.WriteString(" ORDER BY datetime_ist ASC, ticker ASC")
	return sb.String(), args
}

func scanPrediction(rows pgx.Rows) (contracts.Prediction, error) {
	var (
		p contracts.Prediction

		niftyTrend, stockTrend, regime       string
		action, label                        string
		volumeSignal, volLabel               string
		sentimentLabel, riskFlag, statusCode string
	)

	err := rows.Scan(
		&p.PredictionID,
		&p.DatetimeIST,
		&p.Date,
		&p.TimeBucket,
		&p.Ticker,
		&p.DataSymbol,
		&p.IndexBucket,
		&niftyTrend,
		&stockTrend,
		&regime,
		&action,
		&p.ConfidenceScore,
		&label,
		&p.ConfidenceTrend,
		&p.ConfidenceVolume,
		&p.ConfidenceSentiment,
		&p.ConfidenceVolatility,
		&p.ConfidenceExplanation,
		&p.ValidForMinutes,
		&p.PriceAtPrediction,
		&volumeSignal,
		&volLabel,
		&p.SentimentScore,
		&sentimentLabel,
		&p.NewsSummary,
		&riskFlag,
		&statusCode,
		&p.StrategyVersion,
	)
	if err != nil {
		return contracts.Prediction{}, err
	}

	p.NiftyTrend = contracts.BenchmarkTrend(niftyTrend)
	p.StockShortTrend = contracts.Trend(stockTrend)
	p.MarketRegime = contracts.MarketRegime(regime)
	p.PredictionAction = contracts.Action(action)
	p.ConfidenceLevelLabel = contracts.ConfidenceLabel(label)
	p.VolumeSignal = contracts.VolumeSignal(volumeSignal)
	p.VolatilityLabel = contracts.VolatilityLabel(volLabel)
	p.SentimentLabel = contracts.SentimentLabel(sentimentLabel)
	p.NewsRiskFlag = contracts.NewsRiskFlag(riskFlag)
	p.StatusCode = contracts.SessionPhase(statusCode)
	return p, nil
}
