package jobs

import (
	"context"
	"fmt"
	"time"

	"github.com/wonny/scalpdesk/internal/contracts"
	"github.com/wonny/scalpdesk/internal/journal"
	"github.com/wonny/scalpdesk/pkg/logger"
)

// JournalSummary aggregates one trading day of the journal
type JournalSummary struct {
	Date        string                         `json:"date"`
	Predictions int                            `json:"predictions"`
	Tickers     int                            `json:"tickers"`
	Buckets     int                            `json:"buckets"`
	ByAction    map[contracts.Action]int       `json:"by_action"`
	ByRegime    map[contracts.MarketRegime]int `json:"by_regime"`
}

// Summarize builds the day summary from journal rows
func Summarize(date string, rows []contracts.Prediction) JournalSummary {
	s := JournalSummary{
		Date:        date,
		Predictions: len(rows),
		ByAction:    make(map[contracts.Action]int),
		ByRegime:    make(map[contracts.MarketRegime]int),
	}

	buckets := make(map[string]struct{})
	for _, p := range rows {
		s.ByAction[p.PredictionAction]++
		if _, seen := buckets[p.TimeBucket]; !seen {
			buckets[p.TimeBucket] = struct{}{}
			s.ByRegime[p.MarketRegime]++
		}
	}
	s.Buckets = len(buckets)
	s.Tickers = len(journal.LatestPerTicker(rows))

	return s
}

// JournalSummaryJob logs the day's journal after the session closes
type JournalSummaryJob struct {
	store  journal.Journal
	loc    *time.Location
	now    func() time.Time
	logger *logger.Logger
}

// NewJournalSummaryJob creates a new journal summary job
func NewJournalSummaryJob(store journal.Journal, loc *time.Location, log *logger.Logger) *JournalSummaryJob {
	return &JournalSummaryJob{
		store:  store,
		loc:    loc,
		now:    time.Now,
		logger: log,
	}
}

// Name returns the job name
func (j *JournalSummaryJob) Name() string {
	return "journal_summary"
}

// Schedule returns the cron schedule (weekdays after close)
func (j *JournalSummaryJob) Schedule() string {
	return "0 45 15 * * MON-FRI"
}

// Run reads today's journal and logs the summary
func (j *JournalSummaryJob) Run(ctx context.Context) error {
	today := j.now().In(j.loc)
	day, _ := time.Parse("2006-01-02", today.Format("2006-01-02"))

	rows, err := j.store.Query(ctx, journal.Filter{From: day, To: day})
	if err != nil {
		return fmt.Errorf("failed to query journal: %w", err)
	}

	summary := Summarize(day.Format("2006-01-02"), rows)
	if summary.Predictions == 0 {
		j.logger.WithField("date", summary.Date).Warn("No predictions journaled today")
		return nil
	}

	j.logger.WithFields(map[string]interface{}{
		"date":        summary.Date,
		"predictions": summary.Predictions,
		"tickers":     summary.Tickers,
		"buckets":     summary.Buckets,
		"long":        summary.ByAction[contracts.ActionLong],
		"short":       summary.ByAction[contracts.ActionShort],
		"no_trade":    summary.ByAction[contracts.ActionNoTrade],
	}).Info("Journal summary")

	return nil
}
