package handlers

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/wonny/scalpdesk/internal/contracts"
	"github.com/wonny/scalpdesk/internal/evaluator"
	"github.com/wonny/scalpdesk/internal/journal"
	"github.com/wonny/scalpdesk/internal/scoring"
	"github.com/wonny/scalpdesk/internal/sentiment"
	"github.com/wonny/scalpdesk/internal/session"
	"github.com/wonny/scalpdesk/pkg/logger"
)

// CycleRunner runs one evaluation cycle
type CycleRunner interface {
	Run(ctx context.Context, now time.Time) (*evaluator.RunResult, error)
}

// PredictionHandler serves the prediction journal
// ⭐ SSOT: 예측 조회/실행 API는 이 핸들러에서만
type PredictionHandler struct {
	store  journal.Journal
	runner CycleRunner
	clock  *session.Clock
	now    func() time.Time
	logger *logger.Logger
}

// NewPredictionHandler creates a new prediction handler
func NewPredictionHandler(store journal.Journal, runner CycleRunner, clock *session.Clock, log *logger.Logger) *PredictionHandler {
	return &PredictionHandler{
		store:  store,
		runner: runner,
		clock:  clock,
		now:    time.Now,
		logger: log,
	}
}

// ListPredictions returns journal records matching the query
// GET /api/predictions?from=YYYY-MM-DD&to=YYYY-MM-DD&ticker=A,B&action=LONG_BIAS
func (h *PredictionHandler) ListPredictions(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	from, err := parseDate(q.Get("from"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "from must be YYYY-MM-DD")
		return
	}
	to, err := parseDate(q.Get("to"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "to must be YYYY-MM-DD")
		return
	}
	if !from.IsZero() && !to.IsZero() && to.Before(from) {
		respondError(w, http.StatusBadRequest, "to must not be before from")
		return
	}

	actions, err := parseActions(splitList(q.Get("action")))
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	rows, err := h.store.Query(r.Context(), journal.Filter{
		From:    from,
		To:      to,
		Tickers: splitList(q.Get("ticker")),
		Actions: actions,
	})
	if err != nil {
		h.logger.WithError(err).Error("Failed to query journal")
		respondError(w, http.StatusInternalServerError, "failed to query journal")
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"count":       len(rows),
		"predictions": rows,
	})
}

// LatestView is the dashboard card of a ticker's newest prediction
type LatestView struct {
	contracts.Prediction

	AgeMinutes    float64           `json:"age_minutes"`
	Freshness     scoring.Freshness `json:"freshness"`
	FreshnessText string            `json:"freshness_text"`
	ActionText    string            `json:"action_text"`
	SentimentText string            `json:"sentiment_text"`
	RiskText      string            `json:"risk_text"`
	StatusText    string            `json:"status_text"`
	RecentSignals int               `json:"recent_signals"`
	Cooldown      string            `json:"cooldown_advisory"`
}

// LatestPredictions returns the newest prediction per ticker for a date
// GET /api/predictions/latest?date=YYYY-MM-DD (default: today)
func (h *PredictionHandler) LatestPredictions(w http.ResponseWriter, r *http.Request) {
	now := h.now().In(h.clock.Location())

	day, err := parseDate(r.URL.Query().Get("date"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "date must be YYYY-MM-DD")
		return
	}
	if day.IsZero() {
		day, _ = time.Parse(dateLayout, now.Format(dateLayout))
	}

	rows, err := h.store.Query(r.Context(), journal.Filter{From: day, To: day})
	if err != nil {
		h.logger.WithError(err).Error("Failed to query journal")
		respondError(w, http.StatusInternalServerError, "failed to query journal")
		return
	}

	// 쿨다운은 방향성 신호만 센다
	signals := make([]contracts.Prediction, 0, len(rows))
	for _, p := range rows {
		if p.PredictionAction != contracts.ActionNoTrade {
			signals = append(signals, p)
		}
	}
	recent := journal.RecentCounts(signals, now.Add(-scoring.CooldownWindow))

	latest := journal.LatestPerTicker(rows)
	views := make([]LatestView, 0, len(latest))
	for _, p := range latest {
		age := now.Sub(p.DatetimeIST)
		if age < 0 {
			age = 0
		}
		freshness := scoring.FreshnessOf(age)
		views = append(views, LatestView{
			Prediction:    p,
			AgeMinutes:    scoring.Round(age.Minutes(), 1),
			Freshness:     freshness,
			FreshnessText: freshness.Describe(),
			ActionText:    scoring.DescribeAction(p.PredictionAction),
			SentimentText: sentiment.DescribeLabel(p.SentimentLabel),
			RiskText:      sentiment.DescribeRisk(p.NewsRiskFlag),
			StatusText:    session.Describe(p.StatusCode),
			RecentSignals: recent[p.Ticker],
			Cooldown:      scoring.CooldownAdvisory(recent[p.Ticker]),
		})
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"date":        day.Format(dateLayout),
		"count":       len(views),
		"predictions": views,
	})
}

// Evaluate runs one evaluation cycle now and returns the batch
// POST /api/evaluate
func (h *PredictionHandler) Evaluate(w http.ResponseWriter, r *http.Request) {
	result, err := h.runner.Run(r.Context(), h.now())
	if err != nil {
		h.logger.WithError(err).Error("Evaluation cycle failed")
		status := http.StatusInternalServerError
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			status = http.StatusServiceUnavailable
		}
		respondError(w, status, err.Error())
		return
	}

	respondJSON(w, http.StatusOK, result)
}

func parseActions(values []string) ([]contracts.Action, error) {
	if len(values) == 0 {
		return nil, nil
	}
	out := make([]contracts.Action, 0, len(values))
	for _, v := range values {
		a := contracts.Action(v)
		switch a {
		case contracts.ActionLong, contracts.ActionShort, contracts.ActionNoTrade:
			out = append(out, a)
		default:
			return nil, errors.New("unknown action " + v)
		}
	}
	return out, nil
}
