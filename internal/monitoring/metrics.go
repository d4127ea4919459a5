package monitoring

import (
	"encoding/json"
	"net/http"
	"net/http/pprof"
	"sync"
	"time"
)

// Metrics holds in-process request counters
type Metrics struct {
	mu               sync.RWMutex
	RequestCount     int64
	RequestDuration  time.Duration
	ErrorCount       int64
	PathCounts       map[string]int64
	StatusCodeCounts map[int]int64
	StartTime        time.Time
}

var globalMetrics = &Metrics{
	PathCounts:       make(map[string]int64),
	StatusCodeCounts: make(map[int]int64),
	StartTime:        time.Now(),
}

// GetMetrics returns the global metrics instance
func GetMetrics() *Metrics {
	return globalMetrics
}

// RecordRequest records one completed request
func (m *Metrics) RecordRequest(duration time.Duration, statusCode int, path string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.RequestCount++
	m.RequestDuration += duration
	m.StatusCodeCounts[statusCode]++
	if path != "" {
		m.PathCounts[path]++
	}
	if statusCode >= 400 {
		m.ErrorCount++
	}
}

// GetStats returns a snapshot of current statistics
func (m *Metrics) GetStats() map[string]interface{} {
	m.mu.RLock()
	defer m.mu.RUnlock()

	uptime := time.Since(m.StartTime)
	avgDuration := time.Duration(0)
	errorRate := 0.0
	if m.RequestCount > 0 {
		avgDuration = m.RequestDuration / time.Duration(m.RequestCount)
		errorRate = float64(m.ErrorCount) / float64(m.RequestCount)
	}

	pathCounts := make(map[string]int64, len(m.PathCounts))
	for k, v := range m.PathCounts {
		pathCounts[k] = v
	}
	statusCounts := make(map[int]int64, len(m.StatusCodeCounts))
	for k, v := range m.StatusCodeCounts {
		statusCounts[k] = v
	}

	return map[string]interface{}{
		"uptime_seconds":      uptime.Seconds(),
		"total_requests":      m.RequestCount,
		"total_errors":        m.ErrorCount,
		"average_duration_ms": avgDuration.Milliseconds(),
		"error_rate":          errorRate,
		"path_requests":       pathCounts,
		"status_code_counts":  statusCounts,
		"start_time":          m.StartTime.Format(time.RFC3339),
	}
}

// Reset resets all metrics (useful for testing)
func (m *Metrics) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.RequestCount = 0
	m.RequestDuration = 0
	m.ErrorCount = 0
	m.PathCounts = make(map[string]int64)
	m.StatusCodeCounts = make(map[int]int64)
	m.StartTime = time.Now()
}

// MetricsMiddleware wraps HTTP handlers to collect per-request metrics
func MetricsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		wrapper := &statusRecorder{ResponseWriter: w, statusCode: http.StatusOK}
		next.ServeHTTP(wrapper, r)

		globalMetrics.RecordRequest(time.Since(start), wrapper.statusCode, r.URL.Path)
	})
}

// statusRecorder captures the response status code without interfering with
// the streaming contract of the wrapped writer.
type statusRecorder struct {
	http.ResponseWriter
	statusCode int
}

func (w *statusRecorder) WriteHeader(statusCode int) {
	w.statusCode = statusCode
	w.ResponseWriter.WriteHeader(statusCode)
}

// Flush forwards flushes so SSE relaying keeps working behind the wrapper
func (w *statusRecorder) Flush() {
	if flusher, ok := w.ResponseWriter.(http.Flusher); ok {
		flusher.Flush()
	}
}

// MetricsHandler returns current metrics as JSON
func MetricsHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_ = json.NewEncoder(w).Encode(globalMetrics.GetStats())
}

// SetupPprofRoutes adds pprof endpoints for performance profiling
func SetupPprofRoutes(mux *http.ServeMux) {
	mux.HandleFunc("/debug/pprof/", pprof.Index)
	mux.HandleFunc("/debug/pprof/cmdline", pprof.Cmdline)
	mux.HandleFunc("/debug/pprof/profile", pprof.Profile)
	mux.HandleFunc("/debug/pprof/symbol", pprof.Symbol)
	mux.HandleFunc("/debug/pprof/trace", pprof.Trace)
	mux.Handle("/debug/pprof/goroutine", pprof.Handler("goroutine"))
	mux.Handle("/debug/pprof/heap", pprof.Handler("heap"))
}
