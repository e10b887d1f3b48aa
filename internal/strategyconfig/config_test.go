package strategyconfig

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wonny/scalpdesk/internal/features"
	"github.com/wonny/scalpdesk/internal/regime"
	"github.com/wonny/scalpdesk/internal/scoring"
	"github.com/wonny/scalpdesk/internal/sentiment"
	"github.com/wonny/scalpdesk/internal/session"
)

const shippedPath = "../../config/strategy/nse_scalp_v1.yaml"

func TestLoadShippedFile(t *testing.T) {
	if _, err := os.Stat(shippedPath); os.IsNotExist(err) {
		t.Skip("config file not found")
	}

	cfg, yamlData, err := Load(shippedPath)
	require.NoError(t, err)
	assert.NotEmpty(t, yamlData)
	assert.Equal(t, "nse_scalp_desk", cfg.Meta.StrategyID)

	// 배포 파일 = 코드 기본값
	assert.Equal(t, Default(), cfg)

	hash, err := Hash(cfg)
	require.NoError(t, err)
	assert.Len(t, hash, 64)

	want, err := Hash(Default())
	require.NoError(t, err)
	assert.Equal(t, want, hash)
}

func TestDefaultIsValid(t *testing.T) {
	cfg := Default()
	require.NoError(t, Validate(cfg))
	assert.Empty(t, Warn(cfg))
}

func TestDefaultMatchesPackageDefaults(t *testing.T) {
	cfg := Default()

	sched, err := cfg.SessionSchedule()
	require.NoError(t, err)
	def := session.DefaultSchedule()
	assert.Equal(t, def.Open, sched.Open)
	assert.Equal(t, def.Scalp1Start, sched.Scalp1Start)
	assert.Equal(t, def.NoNew1End, sched.NoNew1End)
	assert.Equal(t, def.Close, sched.Close)
	assert.Equal(t, "Asia/Kolkata", sched.Location.String())

	assert.Equal(t, sentiment.DefaultConfig(), cfg.SentimentConfig())
	assert.Equal(t, regime.DefaultConfig(), cfg.RegimeConfig())
	assert.Equal(t, features.DefaultConfig(), cfg.FeaturesConfig())

	sc, err := cfg.ScoringConfig()
	require.NoError(t, err)
	want := scoring.DefaultConfig()
	want.StrategyVersion = sc.StrategyVersion
	assert.Equal(t, want, sc)
	assert.True(t, strings.HasPrefix(sc.StrategyVersion, "v1.0+"))
	assert.Len(t, sc.StrategyVersion, len("v1.0+")+8)
}

func TestHashChangesWithConfig(t *testing.T) {
	a := Default()
	b := Default()
	b.Scoring.RiskCap = 0.55

	ha, err := Hash(a)
	require.NoError(t, err)
	hb, err := Hash(b)
	require.NoError(t, err)

	assert.NotEqual(t, ha, hb)

	ha2, _ := Hash(a)
	assert.Equal(t, ha, ha2, "hash not deterministic")
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		field  string
	}{
		{"missing strategy id", func(c *Config) { c.Meta.StrategyID = "" }, "meta.strategy_id"},
		{"bad timezone", func(c *Config) { c.Meta.Timezone = "Mars/Olympus" }, "meta.timezone"},
		{"bad hhmm", func(c *Config) { c.Session.Open = "9:15" }, "session.open"},
		{"out of order", func(c *Config) { c.Session.Scalp2.Start = "11:00" }, "session"},
		{"empty scalp window", func(c *Config) { c.Session.Scalp1.End = c.Session.Scalp1.Start }, "session.scalp_1"},
		{"label threshold", func(c *Config) { c.Sentiment.LabelThreshold = 0 }, "sentiment.label_threshold"},
		{"no positive keywords", func(c *Config) { c.Sentiment.Keywords.Positive = nil }, "sentiment.keywords.positive"},
		{"regime bars", func(c *Config) { c.Regime.MinBars = 1 }, "regime.min_bars"},
		{"volatility order", func(c *Config) { c.Regime.Volatility.Low = 0.01 }, "regime.volatility"},
		{"volume windows", func(c *Config) { c.Features.VolumeBaselineBars = 10 }, "features.volume_baseline_bars"},
		{"weights sum", func(c *Config) { c.Scoring.Weights.Trend = 0.5 }, "scoring.weights"},
		{"threshold order", func(c *Config) { c.Scoring.Thresholds.Medium = 0.8 }, "scoring.thresholds"},
		{"bucket divides hour", func(c *Config) { c.Scoring.BucketMinutes = 7 }, "scoring.bucket_minutes"},
		{"risk cap range", func(c *Config) { c.Scoring.RiskCap = 1.5 }, "scoring.risk_cap"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)

			err := Validate(cfg)
			require.Error(t, err)

			var verr ValidationError
			require.ErrorAs(t, err, &verr)
			assert.Equal(t, tt.field, verr.Field)
		})
	}
}

func TestWarn(t *testing.T) {
	cfg := Default()
	cfg.Scoring.RiskCap = 0.7
	cfg.Scoring.ValidForMinutes = 5
	cfg.Sentiment.Keywords.Negative = append(cfg.Sentiment.Keywords.Negative, "Surge")

	codes := map[string]bool{}
	for _, w := range Warn(cfg) {
		codes[w.Code] = true
	}

	assert.True(t, codes["RISK_CAP_ALLOWS_HIGH"])
	assert.True(t, codes["SHORT_VALIDITY"])
	assert.True(t, codes["AMBIGUOUS_KEYWORDS"])
	assert.False(t, codes["NO_EVENT_KEYWORDS"])
}

func TestParseRejectsUnknownFields(t *testing.T) {
	data, err := Marshal(Default())
	require.NoError(t, err)

	_, err = Parse(append(data, []byte("\nexecution:\n  broker: kite\n")...))
	assert.Error(t, err)
}

func TestMarshalRoundTrip(t *testing.T) {
	data, err := Marshal(Default())
	require.NoError(t, err)

	cfg, err := Parse(data)
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoadOrDefault(t *testing.T) {
	cfg, data, err := LoadOrDefault("")
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
	assert.Contains(t, string(data), "strategy_id: nse_scalp_desk")

	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("meta:\n  strategy_id: x\n"), 0o644))
	_, _, err = LoadOrDefault(path)
	assert.Error(t, err)
}

func TestNewSnapshot(t *testing.T) {
	cfg := Default()
	snap, err := NewSnapshot(cfg, []byte("yaml"))
	require.NoError(t, err)

	version, err := StrategyVersion(cfg)
	require.NoError(t, err)
	assert.Equal(t, version, snap.StrategyVersion)
	assert.Equal(t, "nse_scalp_desk", snap.StrategyID)
	assert.Equal(t, "yaml", snap.ConfigYAML)
}
