package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestRecorder(t *testing.T) {
	reg := prometheus.NewRegistry()
	rec := New(reg)

	rec.RecordPrediction("LONG_BIAS")
	rec.RecordPrediction("LONG_BIAS")
	rec.RecordPrediction("NO_TRADE")
	rec.RecordAdapterError("news")
	rec.RecordJournalUpsert(3, 1)
	rec.RecordCycle(0.42, "RANGE_DAY", 2)

	assert.Equal(t, 2.0, testutil.ToFloat64(rec.predictions.WithLabelValues("LONG_BIAS")))
	assert.Equal(t, 1.0, testutil.ToFloat64(rec.predictions.WithLabelValues("NO_TRADE")))
	assert.Equal(t, 1.0, testutil.ToFloat64(rec.adapterErrors.WithLabelValues("news")))
	assert.Equal(t, 3.0, testutil.ToFloat64(rec.journalRows.WithLabelValues("inserted")))
	assert.Equal(t, 1.0, testutil.ToFloat64(rec.journalRows.WithLabelValues("replaced")))
	assert.Equal(t, 1.0, testutil.ToFloat64(rec.regime.WithLabelValues("RANGE_DAY")))
	assert.Equal(t, 0.0, testutil.ToFloat64(rec.regime.WithLabelValues("TREND_DAY")))
	assert.Equal(t, 2.0, testutil.ToFloat64(rec.degraded))
}

func TestNilRecorder(t *testing.T) {
	var rec *Recorder
	rec.RecordPrediction("LONG_BIAS")
	rec.RecordAdapterError("market")
	rec.RecordJournalUpsert(1, 0)
	rec.RecordCycle(1, "UNKNOWN", 0)
}
