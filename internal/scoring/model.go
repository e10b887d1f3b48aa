// Package scoring combines session phase, market regime, instrument
// features and news sentiment into an action with an auditable
// confidence score.
package scoring

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/wonny/scalpdesk/internal/contracts"
	"github.com/wonny/scalpdesk/internal/regime"
)

// Weights of the four confidence components. Must sum to 1.
type Weights struct {
	Trend      float64 `json:"trend"`
	Volume     float64 `json:"volume"`
	Sentiment  float64 `json:"sentiment"`
	Volatility float64 `json:"volatility"`
}

// Sum returns the sum of all weights
func (w Weights) Sum() float64 {
	return w.Trend + w.Volume + w.Sentiment + w.Volatility
}

// Config tunes the model
type Config struct {
	Weights           Weights
	RangeDayDamping   float64 // multiplier on RANGE_DAY
	LowVolDamping     float64 // multiplier on LOW_VOLATILITY
	RiskCap           float64 // max score under EVENT_RISK / BREAKING
	HighThreshold     float64 // >= => High
	MediumThreshold   float64 // >= => Medium
	BlockScalp2LowVol bool    // SCALP_2 not actionable on LOW_VOLATILITY days
	BucketMinutes     int
	ValidForMinutes   int
	StrategyVersion   string
}

// DefaultConfig returns the stock model
func DefaultConfig() Config {
	return Config{
		Weights:           Weights{Trend: 0.30, Volume: 0.25, Sentiment: 0.20, Volatility: 0.25},
		RangeDayDamping:   0.7,
		LowVolDamping:     0.6,
		RiskCap:           0.6,
		HighThreshold:     0.7,
		MediumThreshold:   0.4,
		BlockScalp2LowVol: true,
		BucketMinutes:     15,
		ValidForMinutes:   15,
		StrategyVersion:   "v1.0",
	}
}

// Input is everything the model looks at for one instrument
type Input struct {
	Phase     contracts.SessionPhase
	Regime    contracts.MarketRegime
	Benchmark contracts.BenchmarkTrend
	Features  contracts.InstrumentFeatures
	Sentiment contracts.SentimentResult
	Risk      contracts.NewsRiskFlag
}

// Components are the four sub-scores, each in [0, 1]
type Components struct {
	Trend      float64 `json:"trend"`
	Volume     float64 `json:"volume"`
	Sentiment  float64 `json:"sentiment"`
	Volatility float64 `json:"volatility"`
}

// Result is the scored recommendation
type Result struct {
	Action      contracts.Action          `json:"action"`
	Actionable  bool                      `json:"actionable"`
	Components  Components                `json:"components"`
	Score       float64                   `json:"score"`
	Label       contracts.ConfidenceLabel `json:"label"`
	Explanation string                    `json:"explanation"`
}

// Model is immutable and safe for concurrent use
// ⭐ SSOT: 신뢰도 점수 산출은 여기서만
type Model struct {
	cfg Config
}

// New creates a model
func New(cfg Config) *Model {
	return &Model{cfg: cfg}
}

// Default returns the stock model
func Default() *Model {
	return New(DefaultConfig())
}

// Config returns the model settings
func (m *Model) Config() Config {
	return m.cfg
}

// Actionable reports whether new signals may be issued in this phase and regime
func (m *Model) Actionable(phase contracts.SessionPhase, r contracts.MarketRegime) bool {
	if !phase.IsScalpWindow() {
		return false
	}
	if m.cfg.BlockScalp2LowVol && phase == contracts.PhaseScalp2 && r == contracts.RegimeLowVolatility {
		return false
	}
	return true
}

// Score evaluates one instrument
func (m *Model) Score(in Input) Result {
	actionable := m.Actionable(in.Phase, in.Regime)
	action := m.action(in, actionable)

	c := Components{
		Trend:      trendComponent(action, in.Benchmark, in.Features.Trend),
		Volume:     volumeComponent(in.Features.VolumeSignal),
		Sentiment:  sentimentComponent(action, in.Sentiment.Label),
		Volatility: volatilityComponent(in.Features.VolatilityLabel),
	}

	score := 0.0
	if actionable && action != contracts.ActionNoTrade {
		w := m.cfg.Weights
		score = w.Trend*c.Trend + w.Volume*c.Volume + w.Sentiment*c.Sentiment + w.Volatility*c.Volatility
	}

	switch in.Regime {
	case contracts.RegimeRangeDay:
		score *= m.cfg.RangeDayDamping
	case contracts.RegimeLowVolatility:
		score *= m.cfg.LowVolDamping
	}

	if in.Risk.Elevated() && score > m.cfg.RiskCap {
		score = m.cfg.RiskCap
	}

	score = clamp01(Round(score, 2))
	label := m.label(score)

	return Result{
		Action:      action,
		Actionable:  actionable,
		Components:  c,
		Score:       score,
		Label:       label,
		Explanation: explain(action, c, score, label, in.Regime, in.Risk),
	}
}

func (m *Model) action(in Input, actionable bool) contracts.Action {
	if !actionable || in.Features.LastPrice == nil {
		return contracts.ActionNoTrade
	}
	switch {
	case in.Benchmark == contracts.BenchmarkBullish && in.Features.Trend == contracts.TrendUp &&
		in.Sentiment.Label != contracts.SentimentNegative:
		return contracts.ActionLong
	case in.Benchmark == contracts.BenchmarkBearish && in.Features.Trend == contracts.TrendDown &&
		in.Sentiment.Label != contracts.SentimentPositive:
		return contracts.ActionShort
	}
	return contracts.ActionNoTrade
}

func (m *Model) label(score float64) contracts.ConfidenceLabel {
	switch {
	case score >= m.cfg.HighThreshold:
		return contracts.ConfidenceHigh
	case score >= m.cfg.MediumThreshold:
		return contracts.ConfidenceMedium
	case score > 0:
		return contracts.ConfidenceLow
	}
	return contracts.ConfidenceNoTrade
}

func trendComponent(action contracts.Action, bench contracts.BenchmarkTrend, trend contracts.Trend) float64 {
	var with contracts.BenchmarkTrend
	var dir contracts.Trend
	switch action {
	case contracts.ActionLong:
		with, dir = contracts.BenchmarkBullish, contracts.TrendUp
	case contracts.ActionShort:
		with, dir = contracts.BenchmarkBearish, contracts.TrendDown
	default:
		return 0
	}

	switch {
	case bench == with && trend == dir:
		return 1.0
	case (bench == with || bench == contracts.BenchmarkNeutral) && trend == dir:
		return 0.7
	}
	return 0.3
}

func volumeComponent(v contracts.VolumeSignal) float64 {
	switch v {
	case contracts.VolumeHigh:
		return 1.0
	case contracts.VolumeNormal:
		return 0.7
	case contracts.VolumeLow:
		return 0.3
	}
	return 0.5
}

func sentimentComponent(action contracts.Action, label contracts.SentimentLabel) float64 {
	var support, against contracts.SentimentLabel
	switch action {
	case contracts.ActionLong:
		support, against = contracts.SentimentPositive, contracts.SentimentNegative
	case contracts.ActionShort:
		support, against = contracts.SentimentNegative, contracts.SentimentPositive
	default:
		return 0.5
	}

	switch label {
	case support:
		return 1.0
	case against:
		return 0.3
	}
	return 0.7
}

func volatilityComponent(v contracts.VolatilityLabel) float64 {
	switch v {
	case contracts.VolatilityHigh:
		return 1.0
	case contracts.VolatilityLow:
		return 0.4
	}
	return 0.8
}

const (
	eventCaveat = "There is an important scheduled or structural news event around this stock (for example earnings, " +
		"policy decisions, corporate actions, or legal developments). Signals around such events can be more volatile."
	breakingCaveat = "There appears to be very fresh or urgent news for this stock. This can create sharp and unpredictable " +
		"moves, so you should treat any signal with extra caution and possibly reduce position size."
)

func explain(action contracts.Action, c Components, score float64, label contracts.ConfidenceLabel,
	r contracts.MarketRegime, risk contracts.NewsRiskFlag) string {
	parts := make([]string, 0, 5)

	switch action {
	case contracts.ActionLong:
		parts = append(parts, "The system currently sees this stock as a candidate for a short-term buying (long) scalp.")
	case contracts.ActionShort:
		parts = append(parts, "The system currently sees this stock as a candidate for a short-term selling or short-selling scalp.")
	default:
		parts = append(parts, "The system does not see a clear short-term scalping opportunity at this moment.")
	}

	parts = append(parts, fmt.Sprintf(
		"Trend alignment score is %.2f, volume confirmation score is %.2f, "+
			"news sentiment support score is %.2f, and volatility suitability score is %.2f.",
		c.Trend, c.Volume, c.Sentiment, c.Volatility))
	parts = append(parts, fmt.Sprintf("The overall confidence score is %.2f, classified as '%s'.", score, label))

	if r != contracts.RegimeUnknown {
		parts = append(parts, regime.Describe(r))
	}

	switch risk {
	case contracts.RiskEvent:
		parts = append(parts, eventCaveat)
	case contracts.RiskBreaking:
		parts = append(parts, breakingCaveat)
	}

	return strings.Join(parts, " ")
}

// Round rounds the exact binary value of v to the given decimal places.
// 0.865 is stored as 0.86499999... and rounds down; exact ties go to even.
func Round(v float64, places int32) float64 {
	f, _ := decimal.NewFromFloatWithExponent(v, -20).RoundBank(places).Float64()
	return f
}

func clamp01(v float64) float64 {
	switch {
	case v < 0:
		return 0
	case v > 1:
		return 1
	}
	return v
}

// DescribeAction returns the dashboard sentence for an action
func DescribeAction(a contracts.Action) string {
	switch a {
	case contracts.ActionLong:
		return "Conditions currently favour a short-term buying (long) scalping opportunity."
	case contracts.ActionShort:
		return "Conditions currently favour a short-term selling or short-selling scalping opportunity."
	}
	return "Conditions are not clear enough. The system is not recommending a new scalping trade right now."
}
