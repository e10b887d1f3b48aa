// Package evaluator runs one evaluation cycle: regime and benchmark once,
// then every watchlist instrument in parallel, producing one journal batch.
package evaluator

import (
	"context"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/wonny/scalpdesk/internal/contracts"
	"github.com/wonny/scalpdesk/internal/features"
	"github.com/wonny/scalpdesk/internal/regime"
	"github.com/wonny/scalpdesk/internal/scoring"
	"github.com/wonny/scalpdesk/internal/sentiment"
	"github.com/wonny/scalpdesk/internal/session"
	"github.com/wonny/scalpdesk/pkg/logger"
	"github.com/wonny/scalpdesk/pkg/metrics"
)

// Adapter sources used in logs and metrics
const (
	SourceMarket    = "market"
	SourceBenchmark = "benchmark"
	SourceNews      = "news"
)

// Config controls the fan-out
type Config struct {
	Workers         int
	FetchTimeout    time.Duration // per collaborator call
	NewsLimit       int
	BenchmarkSymbol string
	SkipClosed      bool // CLOSED phase yields an empty batch
}

// DefaultConfig returns the stock evaluator settings
func DefaultConfig() Config {
	return Config{
		Workers:         4,
		FetchTimeout:    10 * time.Second,
		NewsLimit:       5,
		BenchmarkSymbol: "^NSEI",
		SkipClosed:      true,
	}
}

// Cycle summarizes one Evaluate call
type Cycle struct {
	Now         time.Time                `json:"now"`
	Phase       contracts.SessionPhase   `json:"phase"`
	Regime      contracts.MarketRegime   `json:"regime"`
	Benchmark   contracts.BenchmarkTrend `json:"benchmark"`
	Instruments int                      `json:"instruments"`
	Degraded    int                      `json:"degraded"` // instruments scored with missing data
	Skipped     bool                     `json:"skipped"`
	Duration    time.Duration            `json:"duration"`
}

// Evaluator turns a watchlist into a PredictionBatch
// ⭐ SSOT: 평가 사이클은 여기서만
type Evaluator struct {
	cfg Config

	clock     *session.Clock
	regime    *regime.Classifier
	features  *features.Extractor
	sentiment *sentiment.Classifier
	model     *scoring.Model

	market contracts.MarketData
	news   contracts.NewsProvider

	metrics *metrics.Recorder
	logger  *logger.Logger
}

// New creates an evaluator. metrics may be nil.
func New(
	cfg Config,
	clock *session.Clock,
	regimeClassifier *regime.Classifier,
	extractor *features.Extractor,
	sentimentClassifier *sentiment.Classifier,
	model *scoring.Model,
	market contracts.MarketData,
	news contracts.NewsProvider,
	recorder *metrics.Recorder,
	log *logger.Logger,
) *Evaluator {
	if cfg.Workers < 1 {
		cfg.Workers = 1
	}
	return &Evaluator{
		cfg:       cfg,
		clock:     clock,
		regime:    regimeClassifier,
		features:  extractor,
		sentiment: sentimentClassifier,
		model:     model,
		market:    market,
		news:      news,
		metrics:   recorder,
		logger:    log.WithField("module", "evaluator"),
	}
}

// Clock returns the session clock used for gating
func (e *Evaluator) Clock() *session.Clock {
	return e.clock
}

// Evaluate scores every watchlist entry at now.
// The batch is in watchlist order and shares one (date, time_bucket, regime).
// Collaborator failures degrade to neutral values and never fail the cycle.
func (e *Evaluator) Evaluate(ctx context.Context, watchlist []contracts.WatchlistEntry, now time.Time) (contracts.PredictionBatch, Cycle) {
	start := time.Now()
	local := now.In(e.clock.Location())
	phase := e.clock.PhaseFor(local)

	cycle := Cycle{
		Now:         local,
		Phase:       phase,
		Regime:      contracts.RegimeUnknown,
		Benchmark:   contracts.BenchmarkNeutral,
		Instruments: len(watchlist),
	}

	if len(watchlist) == 0 || (phase == contracts.PhaseClosed && e.cfg.SkipClosed) {
		cycle.Skipped = true
		cycle.Duration = time.Since(start)
		e.logger.WithFields(map[string]interface{}{
			"phase":       phase,
			"instruments": len(watchlist),
		}).Info("evaluation skipped")
		return contracts.PredictionBatch{}, cycle
	}

	cycle.Regime = e.marketRegime(ctx)
	cycle.Benchmark = e.benchmarkTrend(ctx)

	frame := scoring.Frame{
		Now:       local,
		Phase:     phase,
		Regime:    cycle.Regime,
		Benchmark: cycle.Benchmark,
	}

	batch := make(contracts.PredictionBatch, len(watchlist))
	degraded := make([]bool, len(watchlist))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(e.cfg.Workers)
	for i, entry := range watchlist {
		g.Go(func() error {
			obs, ok := e.observe(gctx, entry)
			batch[i] = e.model.Build(frame, obs)
			degraded[i] = !ok
			return nil
		})
	}
	_ = g.Wait() // tasks never fail

	for i, p := range batch {
		if degraded[i] {
			cycle.Degraded++
		}
		e.metrics.RecordPrediction(string(p.PredictionAction))
		e.logger.WithFields(map[string]interface{}{
			"ticker":    p.Ticker,
			"action":    p.PredictionAction,
			"score":     p.ConfidenceScore,
			"trend":     p.StockShortTrend,
			"volume":    p.VolumeSignal,
			"sentiment": p.SentimentLabel,
			"risk":      p.NewsRiskFlag,
		}).Debug("instrument scored")
	}

	cycle.Duration = time.Since(start)
	e.metrics.RecordCycle(cycle.Duration.Seconds(), string(cycle.Regime), cycle.Degraded)

	e.logger.WithFields(map[string]interface{}{
		"phase":       cycle.Phase,
		"regime":      cycle.Regime,
		"benchmark":   cycle.Benchmark,
		"instruments": cycle.Instruments,
		"degraded":    cycle.Degraded,
		"duration_ms": cycle.Duration.Milliseconds(),
	}).Info("evaluation completed")

	return batch, cycle
}

// observe gathers one instrument's evidence. ok is false when any
// collaborator failed and a neutral value was substituted.
func (e *Evaluator) observe(ctx context.Context, entry contracts.WatchlistEntry) (scoring.Observation, bool) {
	ok := true
	obs := scoring.Observation{Entry: entry, Features: contracts.NeutralFeatures()}

	symbol := entry.DataSymbol
	if symbol == "" {
		symbol = entry.Ticker
	}

	fctx, cancel := context.WithTimeout(ctx, e.cfg.FetchTimeout)
	series, err := e.market.IntradaySeries(fctx, symbol)
	cancel()
	if err != nil {
		ok = false
		e.degrade(SourceMarket, entry.Ticker, err)
	} else {
		obs.Features = e.features.Extract(series)
	}

	var headlines []contracts.Headline
	nctx, cancel := context.WithTimeout(ctx, e.cfg.FetchTimeout)
	headlines, err = e.news.Headlines(nctx, entry.Ticker, e.cfg.NewsLimit)
	cancel()
	if err != nil {
		ok = false
		e.degrade(SourceNews, entry.Ticker, err)
		headlines = nil
	}
	obs.Sentiment, obs.Risk = e.sentiment.Classify(headlines)

	return obs, ok
}

func (e *Evaluator) marketRegime(ctx context.Context) contracts.MarketRegime {
	fctx, cancel := context.WithTimeout(ctx, e.cfg.FetchTimeout)
	defer cancel()

	series, err := e.market.IntradaySeries(fctx, e.cfg.BenchmarkSymbol)
	if err != nil {
		e.degrade(SourceBenchmark, e.cfg.BenchmarkSymbol, err)
		return contracts.RegimeUnknown
	}

	a := e.regime.Analyze(series)
	e.logger.WithFields(map[string]interface{}{
		"regime":      a.Regime,
		"trend_ratio": a.TrendRatio,
		"volatility":  a.Volatility,
		"bars":        a.Bars,
	}).Debug("market regime classified")
	return a.Regime
}

func (e *Evaluator) benchmarkTrend(ctx context.Context) contracts.BenchmarkTrend {
	fctx, cancel := context.WithTimeout(ctx, e.cfg.FetchTimeout)
	defer cancel()

	trend, err := e.market.EODTrend(fctx, e.cfg.BenchmarkSymbol)
	if err != nil {
		e.degrade(SourceBenchmark, e.cfg.BenchmarkSymbol, err)
		return contracts.BenchmarkNeutral
	}
	return trend
}

func (e *Evaluator) degrade(source, ticker string, err error) {
	e.metrics.RecordAdapterError(source)
	e.logger.WithError(err).WithFields(map[string]interface{}{
		"source": source,
		"ticker": ticker,
	}).Warn("collaborator failed, using neutral values")
}
