package logger

import (
	"bytes"
	"encoding/json"
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decodeEntry(t *testing.T, buf *bytes.Buffer) map[string]interface{} {
	t.Helper()

	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry), "log output: %s", buf.String())
	return entry
}

func TestParseLogLevel(t *testing.T) {
	tests := []struct {
		input string
		want  zerolog.Level
	}{
		{"debug", zerolog.DebugLevel},
		{"DEBUG", zerolog.DebugLevel},
		{"info", zerolog.InfoLevel},
		{"warn", zerolog.WarnLevel},
		{"warning", zerolog.WarnLevel},
		{"error", zerolog.ErrorLevel},
		{"fatal", zerolog.FatalLevel},
		{"invalid", zerolog.InfoLevel},
		{"", zerolog.InfoLevel},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.want, parseLogLevel(tt.input))
		})
	}
}

func TestNewWithWriter(t *testing.T) {
	var buf bytes.Buffer
	log := NewWithWriter(&buf, "debug", "test")

	log.Info("cycle finished")

	entry := decodeEntry(t, &buf)
	assert.Equal(t, "info", entry["level"])
	assert.Equal(t, "cycle finished", entry["message"])
	assert.Equal(t, "test", entry["env"])
}

func TestLevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	log := NewWithWriter(&buf, "warn", "test")

	log.Debug("hidden")
	log.Info("hidden")
	assert.Zero(t, buf.Len())

	log.Warn("shown")
	assert.Equal(t, "warn", decodeEntry(t, &buf)["level"])

	zerolog.SetGlobalLevel(zerolog.DebugLevel)
}

func TestModuleAndFields(t *testing.T) {
	var buf bytes.Buffer
	log := NewWithWriter(&buf, "debug", "test")

	log.Module("evaluator").WithFields(map[string]interface{}{
		"ticker": "RELIANCE",
		"bars":   75,
	}).Info("features extracted")

	entry := decodeEntry(t, &buf)
	assert.Equal(t, "evaluator", entry["module"])
	assert.Equal(t, "RELIANCE", entry["ticker"])
	assert.Equal(t, float64(75), entry["bars"])
}

func TestWithError(t *testing.T) {
	var buf bytes.Buffer
	log := NewWithWriter(&buf, "debug", "test")

	log.WithError(errors.New("journal locked")).Error("upsert failed")

	entry := decodeEntry(t, &buf)
	assert.Equal(t, "journal locked", entry["error"])
	assert.Equal(t, "upsert failed", entry["message"])
}

func TestFormattedMethods(t *testing.T) {
	var buf bytes.Buffer
	log := NewWithWriter(&buf, "debug", "test")

	log.Warnf("degraded %d of %d instruments", 2, 15)

	entry := decodeEntry(t, &buf)
	assert.Equal(t, "degraded 2 of 15 instruments", entry["message"])
}

func TestNop(t *testing.T) {
	// must not panic
	Nop().Module("x").WithField("k", "v").Error("discarded")
}
