// Package features extracts per-instrument trend, volume and volatility
// signals from an intraday series. Extraction never fails; missing data
// degrades to neutral values.
package features

import (
	"github.com/wonny/scalpdesk/internal/contracts"
	"github.com/wonny/scalpdesk/internal/regime"
	"github.com/wonny/scalpdesk/internal/stats"
)

// Config tunes the extractor
type Config struct {
	TrendBars      int     // regression window for the trend
	VolumeRecent   int     // recent volume window
	VolumeBaseline int     // baseline volume window
	VolumeHigh     float64 // ratio above => HIGH
	VolumeLow      float64 // ratio below => LOW
	VolatilityBars int     // return stdev window
	Volatility     regime.VolatilityThresholds
	BenchmarkSMA   int // daily closes in the benchmark moving average
}

// DefaultConfig returns the stock windows and thresholds
func DefaultConfig() Config {
	return Config{
		TrendBars:      20,
		VolumeRecent:   20,
		VolumeBaseline: 60,
		VolumeHigh:     1.5,
		VolumeLow:      0.7,
		VolatilityBars: 40,
		Volatility:     regime.DefaultVolatility(),
		BenchmarkSMA:   50,
	}
}

// Extractor is immutable and safe for concurrent use
// ⭐ SSOT: 종목 피처 산출은 여기서만
type Extractor struct {
	cfg Config
}

// New creates an extractor
func New(cfg Config) *Extractor {
	return &Extractor{cfg: cfg}
}

// Default returns an extractor with the stock settings
func Default() *Extractor {
	return New(DefaultConfig())
}

// Extract computes the features of one instrument
func (e *Extractor) Extract(series contracts.Series) contracts.InstrumentFeatures {
	if len(series) == 0 {
		return contracts.NeutralFeatures()
	}

	sorted := series.Sorted()
	closes := sorted.Closes()
	last := closes[len(closes)-1]

	return contracts.InstrumentFeatures{
		Trend:           e.trend(closes),
		VolumeSignal:    e.volumeSignal(sorted.Volumes()),
		VolatilityLabel: e.volatility(closes),
		LastPrice:       &last,
	}
}

func (e *Extractor) trend(closes []float64) contracts.Trend {
	if len(closes) < e.cfg.TrendBars {
		return contracts.TrendSideways
	}
	slope := stats.Slope(stats.Tail(closes, e.cfg.TrendBars))
	switch {
	case slope > 0:
		return contracts.TrendUp
	case slope < 0:
		return contracts.TrendDown
	}
	return contracts.TrendSideways
}

// volumeSignal compares recent volume against the session baseline
func (e *Extractor) volumeSignal(volumes []float64) contracts.VolumeSignal {
	if len(volumes) == 0 {
		return contracts.VolumeUnknown
	}

	recent := stats.Mean(stats.Tail(volumes, e.cfg.VolumeRecent))
	baseline := recent
	if len(volumes) >= e.cfg.VolumeBaseline {
		baseline = stats.Mean(stats.Tail(volumes, e.cfg.VolumeBaseline))
	}

	ratio := 1.0
	if baseline != 0 {
		ratio = recent / baseline
	}

	switch {
	case ratio > e.cfg.VolumeHigh:
		return contracts.VolumeHigh
	case ratio < e.cfg.VolumeLow:
		return contracts.VolumeLow
	}
	return contracts.VolumeNormal
}

func (e *Extractor) volatility(closes []float64) contracts.VolatilityLabel {
	if len(closes) < e.cfg.VolatilityBars {
		return contracts.VolatilityMedium
	}
	returns := stats.PctChange(stats.Tail(closes, e.cfg.VolatilityBars))
	if len(returns) == 0 {
		return contracts.VolatilityMedium
	}
	return e.cfg.Volatility.Bucket(stats.StdDev(returns))
}

// BenchmarkTrend classifies daily closes by last close vs the trailing SMA
func (e *Extractor) BenchmarkTrend(dailyCloses []float64) contracts.BenchmarkTrend {
	n := e.cfg.BenchmarkSMA
	if n <= 0 || len(dailyCloses) < n {
		return contracts.BenchmarkNeutral
	}
	sma := stats.Mean(stats.Tail(dailyCloses, n))
	if sma == 0 {
		return contracts.BenchmarkNeutral
	}
	if dailyCloses[len(dailyCloses)-1] > sma {
		return contracts.BenchmarkBullish
	}
	return contracts.BenchmarkBearish
}

// BenchmarkTrend classifies with the default 50-day window
func BenchmarkTrend(dailyCloses []float64) contracts.BenchmarkTrend {
	return Default().BenchmarkTrend(dailyCloses)
}
