package journal

import (
	"fmt"
	"strconv"
	"time"

	"github.com/wonny/scalpdesk/internal/contracts"
)

// Columns is the flat record layout shared by the CSV file and the
// postgres table. Order and spelling are a durable contract.
var Columns = []string{
	"prediction_id",
	"datetime_ist",
	"date",
	"time_bucket",
	"ticker",
	"data_symbol",
	"index_bucket",
	"nifty_trend",
	"stock_short_trend",
	"market_regime",
	"prediction_action",
	"confidence_score",
	"confidence_level_label",
	"confidence_trend",
	"confidence_volume",
	"confidence_sentiment",
	"confidence_volatility",
	"confidence_explanation",
	"valid_for_minutes",
	"price_at_prediction",
	"volume_signal",
	"volatility_label",
	"sentiment_score",
	"sentiment_label",
	"news_summary",
	"news_risk_flag",
	"status_code",
	"strategy_version",
}

// optionalColumns may be absent from files written before they existed
var optionalColumns = map[string]bool{
	"volatility_label": true,
}

func encodeRow(p contracts.Prediction) []string {
	price := ""
	if p.PriceAtPrediction != nil {
		price = formatFloat(*p.PriceAtPrediction)
	}

	return []string{
		p.PredictionID,
		p.DatetimeIST.Format(time.RFC3339Nano),
		p.Date,
		p.TimeBucket,
		p.Ticker,
		p.DataSymbol,
		p.IndexBucket,
		string(p.NiftyTrend),
		string(p.StockShortTrend),
		string(p.MarketRegime),
		string(p.PredictionAction),
		formatFloat(p.ConfidenceScore),
		string(p.ConfidenceLevelLabel),
		formatFloat(p.ConfidenceTrend),
		formatFloat(p.ConfidenceVolume),
		formatFloat(p.ConfidenceSentiment),
		formatFloat(p.ConfidenceVolatility),
		p.ConfidenceExplanation,
		strconv.Itoa(p.ValidForMinutes),
		price,
		string(p.VolumeSignal),
		string(p.VolatilityLabel),
		formatFloat(p.SentimentScore),
		string(p.SentimentLabel),
		p.NewsSummary,
		string(p.NewsRiskFlag),
		string(p.StatusCode),
		p.StrategyVersion,
	}
}

// headerIndex maps column name to position and checks required columns
func headerIndex(header []string) (map[string]int, error) {
	idx := make(map[string]int, len(header))
	for i, name := range header {
		idx[name] = i
	}
	for _, col := range Columns {
		if _, ok := idx[col]; !ok && !optionalColumns[col] {
			return nil, fmt.Errorf("missing column %q", col)
		}
	}
	return idx, nil
}

// rowDecoder reads one CSV row by column name and remembers the first error
type rowDecoder struct {
	idx map[string]int
	row []string
	err error
}

func (d *rowDecoder) str(col string) string {
	i, ok := d.idx[col]
	if !ok || i >= len(d.row) {
		return ""
	}
	return d.row[i]
}

func (d *rowDecoder) float(col string) float64 {
	s := d.str(col)
	if s == "" || d.err != nil {
		return 0
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		d.err = fmt.Errorf("column %s: %w", col, err)
	}
	return v
}

func (d *rowDecoder) optFloat(col string) *float64 {
	s := d.str(col)
	if s == "" || s == "NaN" || s == "nan" {
		return nil
	}
	v := d.float(col)
	return &v
}

func (d *rowDecoder) int(col string) int {
	s := d.str(col)
	if s == "" || d.err != nil {
		return 0
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		d.err = fmt.Errorf("column %s: %w", col, err)
	}
	return v
}

func (d *rowDecoder) time(col string) time.Time {
	s := d.str(col)
	if d.err != nil {
		return time.Time{}
	}
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		// pandas astype(str) 형식: "2025-01-02 10:05:03+05:30"
		if legacy, lerr := time.Parse(legacyTimeLayout, s); lerr == nil {
			return legacy
		}
		d.err = fmt.Errorf("column %s: %w", col, err)
	}
	return t
}

// legacyTimeLayout is the space-separated timestamp older journals carry
const legacyTimeLayout = "2006-01-02 15:04:05.999999999-07:00"

func decodeRow(idx map[string]int, row []string) (contracts.Prediction, error) {
	if len(row) != len(idx) {
		return contracts.Prediction{}, fmt.Errorf("expected %d fields, got %d", len(idx), len(row))
	}

	d := &rowDecoder{idx: idx, row: row}
	p := contracts.Prediction{
		PredictionID: d.str("prediction_id"),
		DatetimeIST:  d.time("datetime_ist"),
		Date:         d.str("date"),
		TimeBucket:   d.str("time_bucket"),
		Ticker:       d.str("ticker"),
		DataSymbol:   d.str("data_symbol"),
		IndexBucket:  d.str("index_bucket"),

		NiftyTrend:      contracts.BenchmarkTrend(d.str("nifty_trend")),
		StockShortTrend: contracts.Trend(d.str("stock_short_trend")),
		MarketRegime:    contracts.MarketRegime(d.str("market_regime")),

		PredictionAction:      contracts.Action(d.str("prediction_action")),
		ConfidenceScore:       d.float("confidence_score"),
		ConfidenceLevelLabel:  contracts.ConfidenceLabel(d.str("confidence_level_label")),
		ConfidenceTrend:       d.float("confidence_trend"),
		ConfidenceVolume:      d.float("confidence_volume"),
		ConfidenceSentiment:   d.float("confidence_sentiment"),
		ConfidenceVolatility:  d.float("confidence_volatility"),
		ConfidenceExplanation: d.str("confidence_explanation"),
		ValidForMinutes:       d.int("valid_for_minutes"),

		PriceAtPrediction: d.optFloat("price_at_prediction"),
		VolumeSignal:      contracts.VolumeSignal(d.str("volume_signal")),
		VolatilityLabel:   contracts.VolatilityLabel(d.str("volatility_label")),

		SentimentScore: d.float("sentiment_score"),
		SentimentLabel: contracts.SentimentLabel(d.str("sentiment_label")),
		NewsSummary:    d.str("news_summary"),
		NewsRiskFlag:   contracts.NewsRiskFlag(d.str("news_risk_flag")),

		StatusCode:      contracts.SessionPhase(d.str("status_code")),
		StrategyVersion: d.str("strategy_version"),
	}
	if d.err != nil {
		return contracts.Prediction{}, d.err
	}
	if p.Date == "" || p.TimeBucket == "" || p.Ticker == "" {
		return contracts.Prediction{}, fmt.Errorf("empty key field")
	}
	return p, nil
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
