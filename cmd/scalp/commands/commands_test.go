package commands

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wonny/scalpdesk/internal/contracts"
	"github.com/wonny/scalpdesk/internal/session"
)

func TestParseAt(t *testing.T) {
	ist := session.IST()

	tests := []struct {
		input   string
		want    time.Time
		wantErr bool
	}{
		{"2025-01-02T10:20", time.Date(2025, 1, 2, 10, 20, 0, 0, ist), false},
		{"2025-01-02 13:45", time.Date(2025, 1, 2, 13, 45, 0, 0, ist), false},
		{"2025-01-02T04:50:00Z", time.Date(2025, 1, 2, 10, 20, 0, 0, ist), false},
		{"10:20", time.Time{}, true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := parseAt(tt.input, ist)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.True(t, tt.want.Equal(got), "got %s", got)
		})
	}

	now, err := parseAt("", ist)
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now(), now, time.Minute)
}

func TestBuildFilter(t *testing.T) {
	f, err := buildFilter("2025-01-01", "2025-01-02", []string{" tcs", "", "Infy"}, []string{"long_bias", "NO_TRADE"})
	require.NoError(t, err)

	assert.Equal(t, "2025-01-01", f.From.Format("2006-01-02"))
	assert.Equal(t, "2025-01-02", f.To.Format("2006-01-02"))
	assert.Equal(t, []string{"TCS", "INFY"}, f.Tickers)
	assert.Equal(t, []contracts.Action{contracts.ActionLong, contracts.ActionNoTrade}, f.Actions)

	empty, err := buildFilter("", "", nil, nil)
	require.NoError(t, err)
	assert.True(t, empty.From.IsZero())
	assert.Nil(t, empty.Tickers)

	_, err = buildFilter("02/01/2025", "", nil, nil)
	assert.Error(t, err)
	_, err = buildFilter("", "tomorrow", nil, nil)
	assert.Error(t, err)
	_, err = buildFilter("", "", nil, []string{"BUY"})
	assert.Error(t, err)
}

func TestPredictionRow(t *testing.T) {
	price := 2451.349
	row := predictionRow(contracts.Prediction{
		Date:              "2025-01-02",
		TimeBucket:        "10:20",
		Ticker:            "TCS",
		PredictionAction:  contracts.ActionLong,
		ConfidenceScore:   0.8134,
		PriceAtPrediction: &price,
	})
	require.Len(t, row, len(predictionColumns))
	assert.Equal(t, "0.81", row[4])
	assert.Equal(t, "2451.35", row[10])

	row = predictionRow(contracts.Prediction{})
	assert.Equal(t, "-", row[10])
}

func TestCommandTree(t *testing.T) {
	names := map[string]bool{}
	for _, c := range rootCmd.Commands() {
		names[c.Name()] = true
	}
	for _, want := range []string{"api", "scheduler", "evaluate", "journal", "session", "strategy"} {
		assert.True(t, names[want], want)
	}
}
