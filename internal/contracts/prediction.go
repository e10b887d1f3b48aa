package contracts

import "time"

// Action is the scalping recommendation
type Action string

const (
	ActionLong    Action = "LONG_BIAS"
	ActionShort   Action = "SHORT_BIAS"
	ActionNoTrade Action = "NO_TRADE"
)

// ConfidenceLabel buckets the overall confidence score
type ConfidenceLabel string

const (
	ConfidenceHigh    ConfidenceLabel = "High"
	ConfidenceMedium  ConfidenceLabel = "Medium"
	ConfidenceLow     ConfidenceLabel = "Low"
	ConfidenceNoTrade ConfidenceLabel = "Very Low or No Trade"
)

// WatchlistEntry is one instrument selected by the screener for a day
type WatchlistEntry struct {
	Ticker      string `json:"ticker"`
	DataSymbol  string `json:"data_symbol"`
	IndexBucket string `json:"index_bucket"`
}

// PredictionKey is the unique identity of a Prediction
type PredictionKey struct {
	Date       string `json:"date"`        // YYYY-MM-DD
	TimeBucket string `json:"time_bucket"` // HH:MM
	Ticker     string `json:"ticker"`
}

// Prediction is the persisted unit of the journal.
// Field names (json, csv header, db column) are a durable contract.
// ⭐ SSOT: 저널 레코드 구조
type Prediction struct {
	PredictionID string    `json:"prediction_id"`
	DatetimeIST  time.Time `json:"datetime_ist"`
	Date         string    `json:"date"`
	TimeBucket   string    `json:"time_bucket"`
	Ticker       string    `json:"ticker"`
	DataSymbol   string    `json:"data_symbol"`
	IndexBucket  string    `json:"index_bucket"`

	NiftyTrend      BenchmarkTrend `json:"nifty_trend"`
	StockShortTrend Trend          `json:"stock_short_trend"`
	MarketRegime    MarketRegime   `json:"market_regime"`

	PredictionAction      Action          `json:"prediction_action"`
	ConfidenceScore       float64         `json:"confidence_score"`
	ConfidenceLevelLabel  ConfidenceLabel `json:"confidence_level_label"`
	ConfidenceTrend       float64         `json:"confidence_trend"`
	ConfidenceVolume      float64         `json:"confidence_volume"`
	ConfidenceSentiment   float64         `json:"confidence_sentiment"`
	ConfidenceVolatility  float64         `json:"confidence_volatility"`
	ConfidenceExplanation string          `json:"confidence_explanation"`
	ValidForMinutes       int             `json:"valid_for_minutes"`

	PriceAtPrediction *float64        `json:"price_at_prediction"`
	VolumeSignal      VolumeSignal    `json:"volume_signal"`
	VolatilityLabel   VolatilityLabel `json:"volatility_label"`

	SentimentScore float64        `json:"sentiment_score"`
	SentimentLabel SentimentLabel `json:"sentiment_label"`
	NewsSummary    string         `json:"news_summary"`
	NewsRiskFlag   NewsRiskFlag   `json:"news_risk_flag"`

	StatusCode      SessionPhase `json:"status_code"`
	StrategyVersion string       `json:"strategy_version"`
}

// Key returns the journal identity of the prediction
func (p Prediction) Key() PredictionKey {
	return PredictionKey{Date: p.Date, TimeBucket: p.TimeBucket, Ticker: p.Ticker}
}

// PredictionBatch is the ordered output of one evaluation cycle
type PredictionBatch []Prediction

// Keys returns the key of every record in batch order
func (b PredictionBatch) Keys() []PredictionKey {
	keys := make([]PredictionKey, len(b))
	for i, p := range b {
		keys[i] = p.Key()
	}
	return keys
}

// Regime returns the shared regime of the batch (UNKNOWN when empty)
func (b PredictionBatch) Regime() MarketRegime {
	if len(b) == 0 {
		return RegimeUnknown
	}
	return b[0].MarketRegime
}
