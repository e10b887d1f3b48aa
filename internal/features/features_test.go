package features

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wonny/scalpdesk/internal/contracts"
)

var base = time.Date(2024, 6, 3, 9, 15, 0, 0, time.UTC)

func series(closes, volumes []float64) contracts.Series {
	s := make(contracts.Series, len(closes))
	for i := range closes {
		v := 1000.0
		if volumes != nil {
			v = volumes[i]
		}
		s[i] = contracts.Bar{Time: base.Add(time.Duration(i) * 5 * time.Minute), Close: closes[i], Volume: v}
	}
	return s
}

func ramp(n int, start, step float64) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = start + step*float64(i)
	}
	return out
}

func constant(n int, v float64) []float64 {
	return ramp(n, v, 0)
}

func TestExtract_Empty(t *testing.T) {
	f := Default().Extract(nil)

	assert.Equal(t, contracts.TrendSideways, f.Trend)
	assert.Equal(t, contracts.VolumeUnknown, f.VolumeSignal)
	assert.Equal(t, contracts.VolatilityMedium, f.VolatilityLabel)
	assert.Nil(t, f.LastPrice)
}

func TestExtract_Trend(t *testing.T) {
	tests := []struct {
		name   string
		closes []float64
		want   contracts.Trend
	}{
		{"short series", ramp(19, 100, 1), contracts.TrendSideways},
		{"up", ramp(25, 100, 0.5), contracts.TrendUp},
		{"down", ramp(25, 100, -0.5), contracts.TrendDown},
		{"flat", constant(25, 100), contracts.TrendSideways},
		// only the last 20 bars count
		{"old rally then fade", append(ramp(30, 100, 1), ramp(20, 129, -0.2)...), contracts.TrendDown},
	}

	e := Default()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, e.Extract(series(tt.closes, nil)).Trend)
		})
	}
}

func TestExtract_VolumeSignal(t *testing.T) {
	tests := []struct {
		name    string
		volumes []float64
		want    contracts.VolumeSignal
	}{
		// < 60 bars: ratio compares the 20-bar mean with itself
		{"short series is normal", append(constant(10, 100), constant(20, 900)...), contracts.VolumeNormal},
		// 40 x 100 then 20 x 400: recent 400 / baseline 200 = 2.0
		{"surge", append(constant(40, 100), constant(20, 400)...), contracts.VolumeHigh},
		// 40 x 1000 then 20 x 100: 100 / 700 = 0.14
		{"drying up", append(constant(40, 1000), constant(20, 100)...), contracts.VolumeLow},
		{"steady", constant(60, 500), contracts.VolumeNormal},
		{"all zero", constant(60, 0), contracts.VolumeNormal},
	}

	e := Default()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			closes := constant(len(tt.volumes), 100)
			assert.Equal(t, tt.want, e.Extract(series(closes, tt.volumes)).VolumeSignal)
		})
	}
}

func TestExtract_Volatility(t *testing.T) {
	zigzag := func(n int, lo, hi float64) []float64 {
		out := make([]float64, n)
		for i := range out {
			out[i] = lo
			if i%2 == 1 {
				out[i] = hi
			}
		}
		return out
	}

	e := Default()
	assert.Equal(t, contracts.VolatilityMedium, e.Extract(series(zigzag(39, 100, 101), nil)).VolatilityLabel, "short series")
	assert.Equal(t, contracts.VolatilityHigh, e.Extract(series(zigzag(40, 100, 101), nil)).VolatilityLabel)
	assert.Equal(t, contracts.VolatilityMedium, e.Extract(series(zigzag(40, 100, 100.25), nil)).VolatilityLabel)
	assert.Equal(t, contracts.VolatilityLow, e.Extract(series(constant(40, 100), nil)).VolatilityLabel)
}

func TestExtract_LastPriceUsesLatestBar(t *testing.T) {
	s := series([]float64{101, 102, 103}, nil)
	s[0], s[2] = s[2], s[0] // out of order input

	f := Default().Extract(s)
	require.NotNil(t, f.LastPrice)
	assert.Equal(t, 103.0, *f.LastPrice)
}

func TestBenchmarkTrend(t *testing.T) {
	tests := []struct {
		name   string
		closes []float64
		want   contracts.BenchmarkTrend
	}{
		{"too short", ramp(49, 100, 1), contracts.BenchmarkNeutral},
		{"above sma", ramp(120, 100, 1), contracts.BenchmarkBullish},
		{"below sma", ramp(120, 300, -1), contracts.BenchmarkBearish},
		{"flat is bearish", constant(60, 100), contracts.BenchmarkBearish},
		{"zero sma", constant(60, 0), contracts.BenchmarkNeutral},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, BenchmarkTrend(tt.closes))
		})
	}
}
