package monitoring

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecordRequest(t *testing.T) {
	m := GetMetrics()
	m.Reset()

	m.RecordRequest(100*time.Millisecond, http.StatusOK, "/v1/chat/stream")
	m.RecordRequest(50*time.Millisecond, http.StatusInternalServerError, "/v1/chat/stream")
	m.RecordRequest(10*time.Millisecond, http.StatusOK, "/health")

	stats := m.GetStats()
	assert.Equal(t, int64(3), stats["total_requests"])
	assert.Equal(t, int64(1), stats["total_errors"])

	pathCounts := stats["path_requests"].(map[string]int64)
	assert.Equal(t, int64(2), pathCounts["/v1/chat/stream"])
	assert.Equal(t, int64(1), pathCounts["/health"])

	statusCounts := stats["status_code_counts"].(map[int]int64)
	assert.Equal(t, int64(2), statusCounts[http.StatusOK])
	assert.Equal(t, int64(1), statusCounts[http.StatusInternalServerError])
}

func TestMetricsMiddleware(t *testing.T) {
	GetMetrics().Reset()

	handler := MetricsMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
	}))

	req := httptest.NewRequest(http.MethodPost, "/v1/chat/stream", nil)
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)

	stats := GetMetrics().GetStats()
	assert.Equal(t, int64(1), stats["total_requests"])
	assert.Equal(t, int64(1), stats["total_errors"])
}

func TestMetricsMiddlewarePreservesFlusher(t *testing.T) {
	handler := MetricsMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, ok := w.(http.Flusher)
		assert.True(t, ok, "the metrics wrapper must keep streaming possible")
	}))

	req := httptest.NewRequest(http.MethodPost, "/v1/chat/stream", nil)
	handler.ServeHTTP(httptest.NewRecorder(), req)
}

func TestMetricsHandler(t *testing.T) {
	GetMetrics().Reset()
	GetMetrics().RecordRequest(10*time.Millisecond, http.StatusOK, "/health")

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	w := httptest.NewRecorder()
	MetricsHandler(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/json", w.Header().Get("Content-Type"))

	var stats map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &stats))
	assert.Equal(t, float64(1), stats["total_requests"])
	assert.NotEmpty(t, stats["start_time"])
}
