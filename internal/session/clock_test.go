package session

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wonny/scalpdesk/internal/contracts"
)

func ist(hour, minute, second int) time.Time {
	return time.Date(2024, 6, 3, hour, minute, second, 0, IST())
}

func TestPhaseFor_Boundaries(t *testing.T) {
	clock := Default()

	tests := []struct {
		at   string
		t    time.Time
		want contracts.SessionPhase
	}{
		{"00:00", ist(0, 0, 0), contracts.PhaseClosed},
		{"09:14", ist(9, 14, 0), contracts.PhaseClosed},
		{"09:15", ist(9, 15, 0), contracts.PhaseStudy},
		{"09:59", ist(9, 59, 0), contracts.PhaseStudy},
		{"10:00", ist(10, 0, 0), contracts.PhaseScalp1},
		{"11:29", ist(11, 29, 59), contracts.PhaseScalp1},
		{"11:30", ist(11, 30, 0), contracts.PhaseNoNew1},
		{"13:29", ist(13, 29, 0), contracts.PhaseNoNew1},
		{"13:30", ist(13, 30, 0), contracts.PhaseScalp2},
		{"14:44", ist(14, 44, 0), contracts.PhaseScalp2},
		{"14:45", ist(14, 45, 0), contracts.PhaseNoNew2},
		{"15:30", ist(15, 30, 0), contracts.PhaseNoNew2},
		{"15:30:01", ist(15, 30, 1), contracts.PhaseClosed},
		{"15:31", ist(15, 31, 0), contracts.PhaseClosed},
		{"23:59", ist(23, 59, 0), contracts.PhaseClosed},
	}

	for _, tt := range tests {
		t.Run(tt.at, func(t *testing.T) {
			assert.Equal(t, tt.want, clock.PhaseFor(tt.t))
		})
	}
}

func TestPhaseFor_EveryMinuteHasOnePhase(t *testing.T) {
	clock := Default()
	counts := map[contracts.SessionPhase]int{}

	for m := 0; m < 24*60; m++ {
		phase := clock.PhaseFor(ist(m/60, m%60, 0))
		require.NotEqual(t, contracts.PhaseOpen, phase, "minute %d fell into a gap", m)
		counts[phase]++
	}

	// 09:15..15:30 inclusive = 376 minutes in session
	assert.Equal(t, 24*60-376, counts[contracts.PhaseClosed])
	assert.Equal(t, 45, counts[contracts.PhaseStudy])
	assert.Equal(t, 90, counts[contracts.PhaseScalp1])
	assert.Equal(t, 120, counts[contracts.PhaseNoNew1])
	assert.Equal(t, 75, counts[contracts.PhaseScalp2])
	assert.Equal(t, 46, counts[contracts.PhaseNoNew2])
}

func TestPhaseFor_ConvertsTimezone(t *testing.T) {
	clock := Default()

	// 04:30 UTC = 10:00 IST
	utc := time.Date(2024, 6, 3, 4, 30, 0, 0, time.UTC)
	assert.Equal(t, contracts.PhaseScalp1, clock.PhaseFor(utc))
}

func TestPhaseFor_GapFallsBackToOpen(t *testing.T) {
	s := DefaultSchedule()
	s.Scalp1Start = At(10, 15) // 10:00..10:15 is covered by no window
	clock := New(s)

	assert.Equal(t, contracts.PhaseOpen, clock.PhaseFor(ist(10, 5, 0)))
	assert.Equal(t, contracts.PhaseScalp1, clock.PhaseFor(ist(10, 15, 0)))
}

func TestStatus(t *testing.T) {
	clock := Default()

	tests := []struct {
		name       string
		t          time.Time
		phase      contracts.SessionPhase
		color      string
		actionable bool
		contains   string
	}{
		{"closed", ist(8, 0, 0), contracts.PhaseClosed, "#b22222", false, "Market is currently closed on 03-Jun-2024. Current time is 08:00 AM"},
		{"study", ist(9, 30, 0), contracts.PhaseStudy, "#b22222", false, "From 9:15 AM to 10:00 AM you should only observe"},
		{"scalp 1", ist(10, 5, 0), contracts.PhaseScalp1, "#228b22", true, "Prime Scalping Window 1 on 03-Jun-2024. Current time is 10:05 AM."},
		{"midday", ist(12, 0, 0), contracts.PhaseNoNew1, "#ff8c00", false, "approximately 11:30 AM to 1:30 PM"},
		{"scalp 2", ist(14, 0, 0), contracts.PhaseScalp2, "#228b22", true, "This window runs from 1:30 PM to 2:45 PM."},
		{"wind-down", ist(15, 0, 0), contracts.PhaseNoNew2, "#ff8c00", false, "between approximately 2:45 PM and 3:30 PM"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status := clock.Status(tt.t)
			assert.Equal(t, tt.phase, status.Phase)
			assert.Equal(t, tt.color, status.Color)
			assert.Equal(t, tt.actionable, status.Actionable)
			assert.Contains(t, status.Message, tt.contains)
		})
	}
}

func TestDescribe(t *testing.T) {
	assert.Contains(t, Describe(contracts.PhaseScalp1), "Prime Scalping Window 1")
	assert.Contains(t, Describe(contracts.PhaseClosed), "Market is closed")
	assert.Equal(t, "General open-market state.", Describe(contracts.PhaseOpen))
}

func TestParseTimeOfDay(t *testing.T) {
	d, err := ParseTimeOfDay("13:30")
	require.NoError(t, err)
	assert.Equal(t, At(13, 30), d)
	assert.Equal(t, "13:30", d.String())

	_, err = ParseTimeOfDay("1:3pm")
	assert.Error(t, err)
}

func TestSchedule_Validate(t *testing.T) {
	require.NoError(t, DefaultSchedule().Validate())

	s := DefaultSchedule()
	s.Close = At(9, 0)
	assert.Error(t, s.Validate())

	s = DefaultSchedule()
	s.Location = nil
	assert.Error(t, s.Validate())
}
