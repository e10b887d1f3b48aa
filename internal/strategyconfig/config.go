package strategyconfig

import "time"

// Config는 스캘핑 전략의 전체 설정
// Every threshold, keyword list, window boundary and weight lives here.
type Config struct {
	Meta      Meta      `yaml:"meta" json:"meta"`
	Session   Session   `yaml:"session" json:"session"`
	Sentiment Sentiment `yaml:"sentiment" json:"sentiment"`
	Regime    Regime    `yaml:"regime" json:"regime"`
	Features  Features  `yaml:"features" json:"features"`
	Scoring   Scoring   `yaml:"scoring" json:"scoring"`
}

// Meta 메타 정보
type Meta struct {
	StrategyID string `yaml:"strategy_id" json:"strategy_id"`
	Version    string `yaml:"version" json:"version"`
	Timezone   string `yaml:"timezone" json:"timezone"`
}

type Window struct {
	Start string `yaml:"start" json:"start"` // HH:MM
	End   string `yaml:"end" json:"end"`     // HH:MM
}

// Session 장 구간 경계 (거래소 현지 시각)
type Session struct {
	Open      string `yaml:"open" json:"open"`
	StudyEnd  string `yaml:"study_end" json:"study_end"`
	Scalp1    Window `yaml:"scalp_1" json:"scalp_1"`
	NoNew1End string `yaml:"no_new_1_end" json:"no_new_1_end"`
	Scalp2    Window `yaml:"scalp_2" json:"scalp_2"`
	Close     string `yaml:"close" json:"close"`
}

// Sentiment 뉴스 감성/리스크 키워드
type Sentiment struct {
	LabelThreshold float64  `yaml:"label_threshold" json:"label_threshold"`
	SummaryTitles  int      `yaml:"summary_titles" json:"summary_titles"`
	Keywords       Keywords `yaml:"keywords" json:"keywords"`
}

type Keywords struct {
	Positive []string `yaml:"positive" json:"positive"`
	Negative []string `yaml:"negative" json:"negative"`
	Event    []string `yaml:"event" json:"event"`
	Breaking []string `yaml:"breaking" json:"breaking"`
}

// Regime 시장 국면 판정
type Regime struct {
	MinBars    int        `yaml:"min_bars" json:"min_bars"`
	TrendRatio float64    `yaml:"trend_ratio" json:"trend_ratio"`
	Volatility Volatility `yaml:"volatility" json:"volatility"`
}

// Volatility stdev-of-returns buckets, shared by regime and features
type Volatility struct {
	High float64 `yaml:"high" json:"high"` // >= => HIGH
	Low  float64 `yaml:"low" json:"low"`   // <= => LOW
}

// Features 종목 피처 윈도우
type Features struct {
	TrendBars          int     `yaml:"trend_bars" json:"trend_bars"`
	VolumeRecentBars   int     `yaml:"volume_recent_bars" json:"volume_recent_bars"`
	VolumeBaselineBars int     `yaml:"volume_baseline_bars" json:"volume_baseline_bars"`
	VolumeHighRatio    float64 `yaml:"volume_high_ratio" json:"volume_high_ratio"`
	VolumeLowRatio     float64 `yaml:"volume_low_ratio" json:"volume_low_ratio"`
	VolatilityBars     int     `yaml:"volatility_bars" json:"volatility_bars"`
	BenchmarkSMADays   int     `yaml:"benchmark_sma_days" json:"benchmark_sma_days"`
}

// Scoring 신뢰도 점수 모델
type Scoring struct {
	Weights           ScoringWeights `yaml:"weights" json:"weights"`
	RangeDayDamping   float64        `yaml:"range_day_damping" json:"range_day_damping"`
	LowVolDamping     float64        `yaml:"low_vol_damping" json:"low_vol_damping"`
	RiskCap           float64        `yaml:"risk_cap" json:"risk_cap"`
	Thresholds        Thresholds     `yaml:"thresholds" json:"thresholds"`
	BlockScalp2LowVol bool           `yaml:"block_scalp_2_low_vol" json:"block_scalp_2_low_vol"`
	BucketMinutes     int            `yaml:"bucket_minutes" json:"bucket_minutes"`
	ValidForMinutes   int            `yaml:"valid_for_minutes" json:"valid_for_minutes"`
}

// ScoringWeights 합 = 1.0
type ScoringWeights struct {
	Trend      float64 `yaml:"trend" json:"trend"`
	Volume     float64 `yaml:"volume" json:"volume"`
	Sentiment  float64 `yaml:"sentiment" json:"sentiment"`
	Volatility float64 `yaml:"volatility" json:"volatility"`
}

type Thresholds struct {
	High   float64 `yaml:"high" json:"high"`
	Medium float64 `yaml:"medium" json:"medium"`
}

// Snapshot 전략 스냅샷 (재현성용)
type Snapshot struct {
	ConfigHash      string    `json:"config_hash"`
	ConfigYAML      string    `json:"config_yaml,omitempty"`
	StrategyID      string    `json:"strategy_id"`
	StrategyVersion string    `json:"strategy_version"`
	CreatedAt       time.Time `json:"created_at"`
}
