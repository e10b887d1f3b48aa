package strategyconfig

import (
	"errors"
	"fmt"
	"math"
	"regexp"
	"strings"
	"time"
)

// ValidationError 검증 실패 (프로그램 중단)
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// Warning 권장 위반 (경고만)
type Warning struct {
	Code    string
	Message string
}

var hhmm = regexp.MustCompile(`^\d{2}:\d{2}$`)

// Validate checks all required constraints
// 실패 시 error 반환 (프로그램 중단)
func Validate(cfg *Config) error {
	// === Meta ===
	if cfg.Meta.StrategyID == "" {
		return ValidationError{"meta.strategy_id", "required"}
	}
	if cfg.Meta.Version == "" {
		return ValidationError{"meta.version", "required"}
	}
	if _, err := time.LoadLocation(cfg.Meta.Timezone); err != nil || cfg.Meta.Timezone == "" {
		return ValidationError{"meta.timezone", "must be an IANA timezone"}
	}

	// === Session ===
	for field, v := range map[string]string{
		"session.open":          cfg.Session.Open,
		"session.study_end":     cfg.Session.StudyEnd,
		"session.scalp_1.start": cfg.Session.Scalp1.Start,
		"session.scalp_1.end":   cfg.Session.Scalp1.End,
		"session.no_new_1_end":  cfg.Session.NoNew1End,
		"session.scalp_2.start": cfg.Session.Scalp2.Start,
		"session.scalp_2.end":   cfg.Session.Scalp2.End,
		"session.close":         cfg.Session.Close,
	} {
		if err := validateHHMM(v); err != nil {
			return ValidationError{field, err.Error()}
		}
	}
	if _, err := cfg.SessionSchedule(); err != nil {
		return err
	}
	if cfg.Session.Scalp1.Start == cfg.Session.Scalp1.End {
		return ValidationError{"session.scalp_1", "start must be before end"}
	}
	if cfg.Session.Scalp2.Start == cfg.Session.Scalp2.End {
		return ValidationError{"session.scalp_2", "start must be before end"}
	}

	// === Sentiment ===
	if cfg.Sentiment.LabelThreshold <= 0 || cfg.Sentiment.LabelThreshold >= 1 {
		return ValidationError{"sentiment.label_threshold", "must be in (0, 1)"}
	}
	if cfg.Sentiment.SummaryTitles < 1 {
		return ValidationError{"sentiment.summary_titles", "must be >= 1"}
	}
	if len(cfg.Sentiment.Keywords.Positive) == 0 {
		return ValidationError{"sentiment.keywords.positive", "must not be empty"}
	}
	if len(cfg.Sentiment.Keywords.Negative) == 0 {
		return ValidationError{"sentiment.keywords.negative", "must not be empty"}
	}
	if len(cfg.Sentiment.Keywords.Breaking) == 0 {
		return ValidationError{"sentiment.keywords.breaking", "must not be empty"}
	}

	// === Regime ===
	if cfg.Regime.MinBars < 2 {
		return ValidationError{"regime.min_bars", "must be >= 2"}
	}
	if err := validatePctRange(cfg.Regime.TrendRatio, "regime.trend_ratio"); err != nil {
		return err
	}
	if cfg.Regime.Volatility.Low <= 0 || cfg.Regime.Volatility.Low >= cfg.Regime.Volatility.High {
		return ValidationError{"regime.volatility", "must satisfy 0 < low < high"}
	}

	// === Features ===
	if cfg.Features.TrendBars < 2 {
		return ValidationError{"features.trend_bars", "must be >= 2"}
	}
	if cfg.Features.VolumeRecentBars < 1 || cfg.Features.VolumeBaselineBars < cfg.Features.VolumeRecentBars {
		return ValidationError{"features.volume_baseline_bars", "must be >= volume_recent_bars >= 1"}
	}
	if cfg.Features.VolumeLowRatio <= 0 || cfg.Features.VolumeLowRatio >= cfg.Features.VolumeHighRatio {
		return ValidationError{"features.volume_low_ratio", "must satisfy 0 < low < high"}
	}
	if cfg.Features.VolatilityBars < 3 {
		return ValidationError{"features.volatility_bars", "must be >= 3"}
	}
	if cfg.Features.BenchmarkSMADays < 1 {
		return ValidationError{"features.benchmark_sma_days", "must be >= 1"}
	}

	// === Scoring ===
	w := cfg.Scoring.Weights
	if err := validateWeightsSum([]float64{w.Trend, w.Volume, w.Sentiment, w.Volatility}, 1.0, 1e-6); err != nil {
		return ValidationError{"scoring.weights", err.Error()}
	}
	for field, v := range map[string]float64{
		"scoring.weights.trend":      w.Trend,
		"scoring.weights.volume":     w.Volume,
		"scoring.weights.sentiment":  w.Sentiment,
		"scoring.weights.volatility": w.Volatility,
		"scoring.range_day_damping":  cfg.Scoring.RangeDayDamping,
		"scoring.low_vol_damping":    cfg.Scoring.LowVolDamping,
		"scoring.risk_cap":           cfg.Scoring.RiskCap,
		"scoring.thresholds.high":    cfg.Scoring.Thresholds.High,
		"scoring.thresholds.medium":  cfg.Scoring.Thresholds.Medium,
	} {
		if err := validatePctRange(v, field); err != nil {
			return err
		}
	}
	if cfg.Scoring.Thresholds.Medium >= cfg.Scoring.Thresholds.High {
		return ValidationError{"scoring.thresholds", "medium must be < high"}
	}
	if cfg.Scoring.BucketMinutes < 1 || 60%cfg.Scoring.BucketMinutes != 0 {
		return ValidationError{"scoring.bucket_minutes", "must divide 60"}
	}
	if cfg.Scoring.ValidForMinutes < 1 {
		return ValidationError{"scoring.valid_for_minutes", "must be >= 1"}
	}

	return nil
}

// Warn checks recommended constraints (non-fatal)
func Warn(cfg *Config) []Warning {
	var warnings []Warning

	// 리스크 캡이 High 기준 이상이면 이벤트 뉴스에도 High 가능
	if cfg.Scoring.RiskCap >= cfg.Scoring.Thresholds.High {
		warnings = append(warnings, Warning{
			Code:    "RISK_CAP_ALLOWS_HIGH",
			Message: "risk_cap >= thresholds.high: event news can still produce High confidence",
		})
	}

	// 유효시간이 버킷보다 짧으면 버킷 중간에 신호가 만료
	if cfg.Scoring.ValidForMinutes < cfg.Scoring.BucketMinutes {
		warnings = append(warnings, Warning{
			Code:    "SHORT_VALIDITY",
			Message: "valid_for_minutes < bucket_minutes: signals expire before the next evaluation",
		})
	}

	if cfg.Regime.MinBars < cfg.Features.TrendBars {
		warnings = append(warnings, Warning{
			Code:    "FEW_REGIME_BARS",
			Message: "regime.min_bars < features.trend_bars: regime may classify on less data than the instrument trend",
		})
	}

	if len(cfg.Sentiment.Keywords.Event) == 0 {
		warnings = append(warnings, Warning{
			Code:    "NO_EVENT_KEYWORDS",
			Message: "sentiment.keywords.event is empty: EVENT_RISK will never be raised",
		})
	}

	if dup := duplicateKeywords(cfg.Sentiment.Keywords.Positive, cfg.Sentiment.Keywords.Negative); len(dup) > 0 {
		warnings = append(warnings, Warning{
			Code:    "AMBIGUOUS_KEYWORDS",
			Message: "keywords in both positive and negative lists: " + strings.Join(dup, ", "),
		})
	}

	return warnings
}

// === Helper Functions ===

func validateHHMM(s string) error {
	if !hhmm.MatchString(s) {
		return errors.New("must be HH:MM format")
	}
	_, err := time.Parse("15:04", s)
	return err
}

func validateWeightsSum(weights []float64, target float64, epsilon float64) error {
	if len(weights) == 0 {
		return errors.New("must not be empty")
	}
	sum := 0.0
	for _, w := range weights {
		sum += w
	}
	if math.Abs(sum-target) > epsilon {
		return fmt.Errorf("must sum to %.2f, got %.4f", target, sum)
	}
	return nil
}

// validatePctRange는 비율 값이 0~1 범위인지 검증
func validatePctRange(pct float64, field string) error {
	if pct < 0 || pct > 1 {
		return ValidationError{field, "must be in range [0, 1]"}
	}
	return nil
}

func duplicateKeywords(a, b []string) []string {
	seen := make(map[string]bool, len(a))
	for _, w := range a {
		seen[strings.ToLower(w)] = true
	}
	var dup []string
	for _, w := range b {
		if seen[strings.ToLower(w)] {
			dup = append(dup, w)
		}
	}
	return dup
}
