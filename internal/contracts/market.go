package contracts

import (
	"sort"
	"time"
)

// Bar is one OHLCV observation
type Bar struct {
	Time   time.Time `json:"time"`
	Open   float64   `json:"open"`
	High   float64   `json:"high"`
	Low    float64   `json:"low"`
	Close  float64   `json:"close"`
	Volume float64   `json:"volume"`
}

// Series is an intraday or daily price series
type Series []Bar

// Sorted returns a time-ordered copy
func (s Series) Sorted() Series {
	out := make(Series, len(s))
	copy(out, s)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Time.Before(out[j].Time)
	})
	return out
}

// Closes returns the close prices in series order
func (s Series) Closes() []float64 {
	out := make([]float64, len(s))
	for i, b := range s {
		out[i] = b.Close
	}
	return out
}

// Volumes returns the volumes in series order
func (s Series) Volumes() []float64 {
	out := make([]float64, len(s))
	for i, b := range s {
		out[i] = b.Volume
	}
	return out
}

// Trend is the short-term direction of one instrument
type Trend string

const (
	TrendUp       Trend = "UP"
	TrendDown     Trend = "DOWN"
	TrendSideways Trend = "SIDEWAYS"
)

// VolumeSignal compares recent volume with the session average
type VolumeSignal string

const (
	VolumeHigh    VolumeSignal = "HIGH"
	VolumeNormal  VolumeSignal = "NORMAL"
	VolumeLow     VolumeSignal = "LOW"
	VolumeUnknown VolumeSignal = "UNKNOWN"
)

// VolatilityLabel buckets the stdev of bar-to-bar returns
type VolatilityLabel string

const (
	VolatilityHigh   VolatilityLabel = "HIGH"
	VolatilityMedium VolatilityLabel = "MEDIUM"
	VolatilityLow    VolatilityLabel = "LOW"
)

// InstrumentFeatures are extracted per instrument per evaluation
// ⭐ SSOT: 종목 단위 피처 (Prediction에만 포함되어 저장)
type InstrumentFeatures struct {
	Trend           Trend           `json:"trend"`
	VolumeSignal    VolumeSignal    `json:"volume_signal"`
	VolatilityLabel VolatilityLabel `json:"volatility_label"`
	LastPrice       *float64        `json:"last_price,omitempty"` // nil = 가격 없음
}

// NeutralFeatures is the degraded value used when no bars are available
func NeutralFeatures() InstrumentFeatures {
	return InstrumentFeatures{
		Trend:           TrendSideways,
		VolumeSignal:    VolumeUnknown,
		VolatilityLabel: VolatilityMedium,
	}
}

// MarketRegime classifies the benchmark for one evaluation cycle
type MarketRegime string

const (
	RegimeTrendDay       MarketRegime = "TREND_DAY"
	RegimeRangeDay       MarketRegime = "RANGE_DAY"
	RegimeHighVolatility MarketRegime = "HIGH_VOLATILITY"
	RegimeLowVolatility  MarketRegime = "LOW_VOLATILITY"
	RegimeUnknown        MarketRegime = "UNKNOWN"
)

// AllRegimes lists every regime in display order
func AllRegimes() []MarketRegime {
	return []MarketRegime{RegimeTrendDay, RegimeRangeDay, RegimeHighVolatility, RegimeLowVolatility, RegimeUnknown}
}

// BenchmarkTrend is the daily trend of the benchmark index
type BenchmarkTrend string

const (
	BenchmarkBullish BenchmarkTrend = "BULLISH"
	BenchmarkBearish BenchmarkTrend = "BEARISH"
	BenchmarkNeutral BenchmarkTrend = "NEUTRAL"
)
