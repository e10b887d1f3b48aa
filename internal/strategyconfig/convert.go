package strategyconfig

import (
	"fmt"
	"time"

	"github.com/wonny/scalpdesk/internal/features"
	"github.com/wonny/scalpdesk/internal/regime"
	"github.com/wonny/scalpdesk/internal/scoring"
	"github.com/wonny/scalpdesk/internal/sentiment"
	"github.com/wonny/scalpdesk/internal/session"
)

// Default returns the stock strategy, identical to each package's defaults
func Default() *Config {
	sched := session.DefaultSchedule()
	lex := sentiment.DefaultLexicon()
	sent := sentiment.DefaultConfig()
	reg := regime.DefaultConfig()
	feat := features.DefaultConfig()
	sc := scoring.DefaultConfig()

	return &Config{
		Meta: Meta{
			StrategyID: "nse_scalp_desk",
			Version:    sc.StrategyVersion,
			Timezone:   "Asia/Kolkata",
		},
		Session: Session{
			Open:      sched.Open.String(),
			StudyEnd:  sched.StudyEnd.String(),
			Scalp1:    Window{Start: sched.Scalp1Start.String(), End: sched.Scalp1End.String()},
			NoNew1End: sched.NoNew1End.String(),
			Scalp2:    Window{Start: sched.Scalp2Start.String(), End: sched.Scalp2End.String()},
			Close:     sched.Close.String(),
		},
		Sentiment: Sentiment{
			LabelThreshold: sent.LabelThreshold,
			SummaryTitles:  sent.SummaryTitles,
			Keywords: Keywords{
				Positive: lex.Positive,
				Negative: lex.Negative,
				Event:    lex.Event,
				Breaking: lex.Breaking,
			},
		},
		Regime: Regime{
			MinBars:    reg.MinBars,
			TrendRatio: reg.TrendRatio,
			Volatility: Volatility{High: reg.Volatility.High, Low: reg.Volatility.Low},
		},
		Features: Features{
			TrendBars:          feat.TrendBars,
			VolumeRecentBars:   feat.VolumeRecent,
			VolumeBaselineBars: feat.VolumeBaseline,
			VolumeHighRatio:    feat.VolumeHigh,
			VolumeLowRatio:     feat.VolumeLow,
			VolatilityBars:     feat.VolatilityBars,
			BenchmarkSMADays:   feat.BenchmarkSMA,
		},
		Scoring: Scoring{
			Weights: ScoringWeights{
				Trend:      sc.Weights.Trend,
				Volume:     sc.Weights.Volume,
				Sentiment:  sc.Weights.Sentiment,
				Volatility: sc.Weights.Volatility,
			},
			RangeDayDamping:   sc.RangeDayDamping,
			LowVolDamping:     sc.LowVolDamping,
			RiskCap:           sc.RiskCap,
			Thresholds:        Thresholds{High: sc.HighThreshold, Medium: sc.MediumThreshold},
			BlockScalp2LowVol: sc.BlockScalp2LowVol,
			BucketMinutes:     sc.BucketMinutes,
			ValidForMinutes:   sc.ValidForMinutes,
		},
	}
}

// SessionSchedule converts the session section
func (c *Config) SessionSchedule() (session.Schedule, error) {
	loc, err := time.LoadLocation(c.Meta.Timezone)
	if err != nil {
		return session.Schedule{}, fmt.Errorf("load timezone %s: %w", c.Meta.Timezone, err)
	}

	s := session.Schedule{Location: loc}
	fields := []struct {
		name string
		raw  string
		dst  *session.TimeOfDay
	}{
		{"session.open", c.Session.Open, &s.Open},
		{"session.study_end", c.Session.StudyEnd, &s.StudyEnd},
		{"session.scalp_1.start", c.Session.Scalp1.Start, &s.Scalp1Start},
		{"session.scalp_1.end", c.Session.Scalp1.End, &s.Scalp1End},
		{"session.no_new_1_end", c.Session.NoNew1End, &s.NoNew1End},
		{"session.scalp_2.start", c.Session.Scalp2.Start, &s.Scalp2Start},
		{"session.scalp_2.end", c.Session.Scalp2.End, &s.Scalp2End},
		{"session.close", c.Session.Close, &s.Close},
	}
	for _, f := range fields {
		d, err := session.ParseTimeOfDay(f.raw)
		if err != nil {
			return session.Schedule{}, ValidationError{f.name, err.Error()}
		}
		*f.dst = d
	}

	if err := s.Validate(); err != nil {
		return session.Schedule{}, ValidationError{"session", err.Error()}
	}
	return s, nil
}

// SentimentConfig converts the sentiment section
func (c *Config) SentimentConfig() sentiment.Config {
	return sentiment.Config{
		Lexicon: sentiment.Lexicon{
			Positive: c.Sentiment.Keywords.Positive,
			Negative: c.Sentiment.Keywords.Negative,
			Event:    c.Sentiment.Keywords.Event,
			Breaking: c.Sentiment.Keywords.Breaking,
		},
		LabelThreshold: c.Sentiment.LabelThreshold,
		SummaryTitles:  c.Sentiment.SummaryTitles,
	}
}

func (c *Config) volatility() regime.VolatilityThresholds {
	return regime.VolatilityThresholds{High: c.Regime.Volatility.High, Low: c.Regime.Volatility.Low}
}

// RegimeConfig converts the regime section
func (c *Config) RegimeConfig() regime.Config {
	return regime.Config{
		MinBars:    c.Regime.MinBars,
		TrendRatio: c.Regime.TrendRatio,
		Volatility: c.volatility(),
	}
}

// FeaturesConfig converts the features section
func (c *Config) FeaturesConfig() features.Config {
	return features.Config{
		TrendBars:      c.Features.TrendBars,
		VolumeRecent:   c.Features.VolumeRecentBars,
		VolumeBaseline: c.Features.VolumeBaselineBars,
		VolumeHigh:     c.Features.VolumeHighRatio,
		VolumeLow:      c.Features.VolumeLowRatio,
		VolatilityBars: c.Features.VolatilityBars,
		Volatility:     c.volatility(),
		BenchmarkSMA:   c.Features.BenchmarkSMADays,
	}
}

// ScoringConfig converts the scoring section. The strategy version stamped
// on predictions is "<version>+<first 8 hex of the config hash>".
func (c *Config) ScoringConfig() (scoring.Config, error) {
	version, err := StrategyVersion(c)
	if err != nil {
		return scoring.Config{}, err
	}

	return scoring.Config{
		Weights: scoring.Weights{
			Trend:      c.Scoring.Weights.Trend,
			Volume:     c.Scoring.Weights.Volume,
			Sentiment:  c.Scoring.Weights.Sentiment,
			Volatility: c.Scoring.Weights.Volatility,
		},
		RangeDayDamping:   c.Scoring.RangeDayDamping,
		LowVolDamping:     c.Scoring.LowVolDamping,
		RiskCap:           c.Scoring.RiskCap,
		HighThreshold:     c.Scoring.Thresholds.High,
		MediumThreshold:   c.Scoring.Thresholds.Medium,
		BlockScalp2LowVol: c.Scoring.BlockScalp2LowVol,
		BucketMinutes:     c.Scoring.BucketMinutes,
		ValidForMinutes:   c.Scoring.ValidForMinutes,
		StrategyVersion:   version,
	}, nil
}

// StrategyVersion returns "<meta.version>+<hash prefix>"
func StrategyVersion(c *Config) (string, error) {
	hash, err := Hash(c)
	if err != nil {
		return "", err
	}
	return c.Meta.Version + "+" + hash[:8], nil
}
