package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Recorder exposes the evaluation cycle to Prometheus.
// A nil *Recorder is valid and records nothing.
type Recorder struct {
	predictions   *prometheus.CounterVec
	adapterErrors *prometheus.CounterVec
	journalRows   *prometheus.CounterVec
	regime        *prometheus.GaugeVec
	cycleDuration prometheus.Histogram
	degraded      prometheus.Gauge
}

var regimeLabels = []string{"TREND_DAY", "RANGE_DAY", "HIGH_VOLATILITY", "LOW_VOLATILITY", "UNKNOWN"}

// New creates a recorder registered on reg
func New(reg prometheus.Registerer) *Recorder {
	factory := promauto.With(reg)

	return &Recorder{
		predictions: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "scalpdesk_predictions_total",
				Help: "Predictions produced, by action",
			},
			[]string{"action"},
		),
		adapterErrors: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "scalpdesk_adapter_errors_total",
				Help: "Collaborator failures converted into missing data",
			},
			[]string{"source"},
		),
		journalRows: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "scalpdesk_journal_rows_total",
				Help: "Journal rows written, by outcome",
			},
			[]string{"outcome"},
		),
		regime: factory.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "scalpdesk_market_regime",
				Help: "1 for the regime of the latest cycle, 0 otherwise",
			},
			[]string{"regime"},
		),
		cycleDuration: factory.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "scalpdesk_cycle_duration_seconds",
				Help:    "Duration of one evaluation cycle",
				Buckets: prometheus.DefBuckets,
			},
		),
		degraded: factory.NewGauge(
			prometheus.GaugeOpts{
				Name: "scalpdesk_cycle_degraded_instruments",
				Help: "Instruments evaluated with missing data in the latest cycle",
			},
		),
	}
}

// RecordPrediction counts one prediction
func (r *Recorder) RecordPrediction(action string) {
	if r == nil {
		return
	}
	r.predictions.WithLabelValues(action).Inc()
}

// RecordAdapterError counts one failed collaborator call
func (r *Recorder) RecordAdapterError(source string) {
	if r == nil {
		return
	}
	r.adapterErrors.WithLabelValues(source).Inc()
}

// RecordJournalUpsert counts inserted and replaced rows
func (r *Recorder) RecordJournalUpsert(inserted, replaced int) {
	if r == nil {
		return
	}
	r.journalRows.WithLabelValues("inserted").Add(float64(inserted))
	r.journalRows.WithLabelValues("replaced").Add(float64(replaced))
}

// RecordCycle records the cycle duration, regime and degraded count
func (r *Recorder) RecordCycle(seconds float64, regime string, degraded int) {
	if r == nil {
		return
	}
	r.cycleDuration.Observe(seconds)
	r.degraded.Set(float64(degraded))
	for _, label := range regimeLabels {
		v := 0.0
		if label == regime {
			v = 1
		}
		r.regime.WithLabelValues(label).Set(v)
	}
}
