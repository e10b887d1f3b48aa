package scoring

import (
	"fmt"
	"strings"
	"time"

	"github.com/wonny/scalpdesk/internal/contracts"
)

// TimeBucket floors t to a bucket of the given width and formats it "HH:MM"
func TimeBucket(t time.Time, minutes int) string {
	if minutes <= 0 {
		minutes = 1
	}
	floored := time.Date(t.Year(), t.Month(), t.Day(), t.Hour(), (t.Minute()/minutes)*minutes, 0, 0, t.Location())
	return floored.Format("15:04")
}

// PredictionID builds "YYYYMMDD_HH:MM_TICKER" from a "YYYY-MM-DD" date
func PredictionID(date, bucket, ticker string) string {
	return fmt.Sprintf("%s_%s_%s", strings.ReplaceAll(date, "-", ""), bucket, ticker)
}

// Frame is the per-cycle state shared by every instrument
type Frame struct {
	Now       time.Time // exchange local time
	Phase     contracts.SessionPhase
	Regime    contracts.MarketRegime
	Benchmark contracts.BenchmarkTrend
}

// Observation is the per-instrument evidence
type Observation struct {
	Entry     contracts.WatchlistEntry
	Features  contracts.InstrumentFeatures
	Sentiment contracts.SentimentResult
	Risk      contracts.NewsRiskFlag
}

// Build scores one instrument and assembles the journal record
func (m *Model) Build(f Frame, obs Observation) contracts.Prediction {
	res := m.Score(Input{
		Phase:     f.Phase,
		Regime:    f.Regime,
		Benchmark: f.Benchmark,
		Features:  obs.Features,
		Sentiment: obs.Sentiment,
		Risk:      obs.Risk,
	})

	date := f.Now.Format("2006-01-02")
	bucket := TimeBucket(f.Now, m.cfg.BucketMinutes)

	var price *float64
	if obs.Features.LastPrice != nil {
		p := *obs.Features.LastPrice
		price = &p
	}

	return contracts.Prediction{
		PredictionID: PredictionID(date, bucket, obs.Entry.Ticker),
		DatetimeIST:  f.Now,
		Date:         date,
		TimeBucket:   bucket,
		Ticker:       obs.Entry.Ticker,
		DataSymbol:   obs.Entry.DataSymbol,
		IndexBucket:  obs.Entry.IndexBucket,

		NiftyTrend:      f.Benchmark,
		StockShortTrend: obs.Features.Trend,
		MarketRegime:    f.Regime,

		PredictionAction:      res.Action,
		ConfidenceScore:       res.Score,
		ConfidenceLevelLabel:  res.Label,
		ConfidenceTrend:       Round(res.Components.Trend, 2),
		ConfidenceVolume:      Round(res.Components.Volume, 2),
		ConfidenceSentiment:   Round(res.Components.Sentiment, 2),
		ConfidenceVolatility:  Round(res.Components.Volatility, 2),
		ConfidenceExplanation: res.Explanation,
		ValidForMinutes:       m.cfg.ValidForMinutes,

		PriceAtPrediction: price,
		VolumeSignal:      obs.Features.VolumeSignal,
		VolatilityLabel:   obs.Features.VolatilityLabel,

		SentimentScore: Round(obs.Sentiment.Score, 3),
		SentimentLabel: obs.Sentiment.Label,
		NewsSummary:    obs.Sentiment.Summary,
		NewsRiskFlag:   obs.Risk,

		StatusCode:      f.Phase,
		StrategyVersion: m.cfg.StrategyVersion,
	}
}
