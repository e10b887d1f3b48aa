// Package regime classifies the benchmark's intraday behaviour into a
// market regime shared by every instrument in an evaluation cycle.
package regime

import (
	"github.com/wonny/scalpdesk/internal/contracts"
	"github.com/wonny/scalpdesk/internal/stats"
)

// VolatilityThresholds bucket the stdev of bar-to-bar returns
type VolatilityThresholds struct {
	High float64 // >= High => HIGH
	Low  float64 // <= Low  => LOW
}

// DefaultVolatility returns the stock thresholds (0.4% / 0.15%)
func DefaultVolatility() VolatilityThresholds {
	return VolatilityThresholds{High: 0.004, Low: 0.0015}
}

// Bucket classifies a return stdev
func (v VolatilityThresholds) Bucket(std float64) contracts.VolatilityLabel {
	switch {
	case std >= v.High:
		return contracts.VolatilityHigh
	case std <= v.Low:
		return contracts.VolatilityLow
	}
	return contracts.VolatilityMedium
}

// VolatilityBucket classifies std with the default thresholds
func VolatilityBucket(std float64) contracts.VolatilityLabel {
	return DefaultVolatility().Bucket(std)
}

// Config tunes the classifier
type Config struct {
	MinBars    int     // fewer bars => UNKNOWN
	TrendRatio float64 // |net move| / range at or above this is a trend
	Volatility VolatilityThresholds
}

// DefaultConfig returns the stock settings
func DefaultConfig() Config {
	return Config{
		MinBars:    30,
		TrendRatio: 0.6,
		Volatility: DefaultVolatility(),
	}
}

// Analysis exposes the measured inputs of a classification
type Analysis struct {
	Regime     contracts.MarketRegime    `json:"regime"`
	TrendRatio float64                   `json:"trend_ratio"`
	Volatility float64                   `json:"volatility"`
	VolBucket  contracts.VolatilityLabel `json:"vol_bucket"`
	Trending   bool                      `json:"trending"`
	Bars       int                       `json:"bars"`
}

// Classifier is immutable and safe for concurrent use
// ⭐ SSOT: 시장 국면 판정은 여기서만
type Classifier struct {
	cfg Config
}

// New creates a classifier
func New(cfg Config) *Classifier {
	return &Classifier{cfg: cfg}
}

// Default returns a classifier with the stock settings
func Default() *Classifier {
	return New(DefaultConfig())
}

// Classify returns the regime of a benchmark intraday series
func (c *Classifier) Classify(series contracts.Series) contracts.MarketRegime {
	return c.Analyze(series).Regime
}

// Analyze classifies the series and reports the measured inputs
func (c *Classifier) Analyze(series contracts.Series) Analysis {
	a := Analysis{Regime: contracts.RegimeUnknown, Bars: len(series)}
	if len(series) < c.cfg.MinBars || len(series) == 0 {
		return a
	}

	closes := series.Sorted().Closes()
	first, last := closes[0], closes[len(closes)-1]
	lo, hi := stats.MinMax(closes)

	priceChange := last - first
	if priceChange < 0 {
		priceChange = -priceChange
	}
	if dayRange := hi - lo; dayRange != 0 {
		a.TrendRatio = priceChange / dayRange
	}

	a.Volatility = stats.StdDev(stats.PctChange(closes))
	a.VolBucket = c.cfg.Volatility.Bucket(a.Volatility)
	a.Trending = a.TrendRatio >= c.cfg.TrendRatio

	switch {
	case a.Trending && a.VolBucket != contracts.VolatilityLow:
		a.Regime = contracts.RegimeTrendDay
	case !a.Trending && a.VolBucket == contracts.VolatilityHigh:
		a.Regime = contracts.RegimeHighVolatility
	case a.VolBucket == contracts.VolatilityLow:
		a.Regime = contracts.RegimeLowVolatility
	default:
		a.Regime = contracts.RegimeRangeDay
	}
	return a
}

// Describe returns the canonical regime text shown to journal consumers.
// The wording is a durable contract.
func Describe(r contracts.MarketRegime) string {
	switch r {
	case contracts.RegimeTrendDay:
		return "The overall market (NIFTY) is showing a clear trend with reasonable intraday volatility. " +
			"Scalping in the direction of the main trend is usually favourable."
	case contracts.RegimeRangeDay:
		return "The overall market (NIFTY) is moving sideways within a range with no clear direction. " +
			"Many scalping signals will fail or reverse quickly in this environment."
	case contracts.RegimeHighVolatility:
		return "The market is very volatile with wide swings up and down but not always a clear direction. " +
			"Opportunities exist, but risk is also higher, so trade size and discipline must be strict."
	case contracts.RegimeLowVolatility:
		return "The market is relatively quiet with narrow intraday ranges. " +
			"Scalps may not move enough to justify risk, so conditions are often less attractive."
	case contracts.RegimeUnknown:
		return "There is not enough information yet to classify the overall market regime."
	}
	return "Market regime information is not available."
}
