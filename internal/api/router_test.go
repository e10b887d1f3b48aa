package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wonny/scalpdesk/internal/api/handlers"
	"github.com/wonny/scalpdesk/internal/journal"
	"github.com/wonny/scalpdesk/internal/session"
	"github.com/wonny/scalpdesk/pkg/logger"
	"github.com/wonny/scalpdesk/pkg/metrics"
)

func newTestRouter(t *testing.T, gatherer prometheus.Gatherer) http.Handler {
	store := journal.NewFileStore(filepath.Join(t.TempDir(), "journal.csv"), logger.Nop())
	clock := session.Default()

	return NewRouter(Handlers{
		Session:     handlers.NewSessionHandler(clock),
		Predictions: handlers.NewPredictionHandler(store, nil, clock, logger.Nop()),
		Stream:      handlers.NewStreamHub(logger.Nop()),
	}, gatherer, logger.Nop())
}

func TestRoutes(t *testing.T) {
	router := newTestRouter(t, nil)

	tests := []struct {
		method string
		path   string
		status int
	}{
		{http.MethodGet, "/health", http.StatusOK},
		{http.MethodGet, "/api/session", http.StatusOK},
		{http.MethodGet, "/api/regimes", http.StatusOK},
		{http.MethodGet, "/api/predictions", http.StatusOK},
		{http.MethodGet, "/api/predictions/latest", http.StatusOK},
		{http.MethodGet, "/api/predictions?from=nope", http.StatusBadRequest},
		{http.MethodGet, "/api/evaluate", http.StatusMethodNotAllowed},
		{http.MethodPost, "/api/session", http.StatusMethodNotAllowed},
		{http.MethodGet, "/ws/predictions", http.StatusBadRequest},
		{http.MethodGet, "/metrics", http.StatusNotFound},
		{http.MethodGet, "/api/unknown", http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.method+" "+tt.path, func(t *testing.T) {
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, httptest.NewRequest(tt.method, tt.path, nil))
			assert.Equal(t, tt.status, rec.Code, rec.Body.String())
		})
	}
}

func TestHealthCheck(t *testing.T) {
	rec := httptest.NewRecorder()
	newTestRouter(t, nil).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "ok", body["status"])
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
}

func TestMetricsEndpoint(t *testing.T) {
	reg := prometheus.NewRegistry()
	recorder := metrics.New(reg)
	recorder.RecordPrediction("LONG_BIAS")

	rec := httptest.NewRecorder()
	newTestRouter(t, reg).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, strings.Contains(rec.Body.String(), `scalpdesk_predictions_total{action="LONG_BIAS"} 1`), rec.Body.String())
}

func TestRecoveryMiddleware(t *testing.T) {
	handler := recoveryMiddleware(logger.Nop())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("boom")
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/session", nil))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, rec.Body.String(), "Internal server error")
}

func TestLoggingMiddlewareRecordsStatus(t *testing.T) {
	var captured int
	handler := loggingMiddleware(logger.Nop())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
		captured = w.(*statusRecorder).status
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.Equal(t, http.StatusTeapot, rec.Code)
	assert.Equal(t, http.StatusTeapot, captured)
}
