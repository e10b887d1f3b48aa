package contracts

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestSessionPhase_IsScalpWindow(t *testing.T) {
	tests := []struct {
		phase SessionPhase
		want  bool
	}{
		{PhaseClosed, false},
		{PhaseStudy, false},
		{PhaseScalp1, true},
		{PhaseNoNew1, false},
		{PhaseScalp2, true},
		{PhaseNoNew2, false},
		{PhaseOpen, false},
	}

	for _, tt := range tests {
		t.Run(string(tt.phase), func(t *testing.T) {
			assert.Equal(t, tt.want, tt.phase.IsScalpWindow())
		})
	}
}

func TestNewsRiskFlag_Elevated(t *testing.T) {
	assert.False(t, RiskNone.Elevated())
	assert.True(t, RiskEvent.Elevated())
	assert.True(t, RiskBreaking.Elevated())
}

func TestSeries_Sorted(t *testing.T) {
	base := time.Date(2024, 6, 3, 10, 0, 0, 0, time.UTC)
	s := Series{
		{Time: base.Add(10 * time.Minute), Close: 3, Volume: 30},
		{Time: base, Close: 1, Volume: 10},
		{Time: base.Add(5 * time.Minute), Close: 2, Volume: 20},
	}

	sorted := s.Sorted()
	assert.Equal(t, []float64{1, 2, 3}, sorted.Closes())
	assert.Equal(t, []float64{10, 20, 30}, sorted.Volumes())
	// original untouched
	assert.Equal(t, 3.0, s[0].Close)
}

func TestPrediction_Key(t *testing.T) {
	p := Prediction{Date: "2024-06-03", TimeBucket: "10:15", Ticker: "TCS"}
	assert.Equal(t, PredictionKey{Date: "2024-06-03", TimeBucket: "10:15", Ticker: "TCS"}, p.Key())

	batch := PredictionBatch{p, {Date: "2024-06-03", TimeBucket: "10:15", Ticker: "INFY", MarketRegime: RegimeTrendDay}}
	assert.Len(t, batch.Keys(), 2)
	assert.Equal(t, "INFY", batch.Keys()[1].Ticker)
}

func TestPredictionBatch_Regime(t *testing.T) {
	assert.Equal(t, RegimeUnknown, PredictionBatch{}.Regime())
	assert.Equal(t, RegimeRangeDay, PredictionBatch{{MarketRegime: RegimeRangeDay}}.Regime())
}

func TestNeutralFeatures(t *testing.T) {
	f := NeutralFeatures()
	assert.Equal(t, TrendSideways, f.Trend)
	assert.Equal(t, VolumeUnknown, f.VolumeSignal)
	assert.Equal(t, VolatilityMedium, f.VolatilityLabel)
	assert.Nil(t, f.LastPrice)
}
