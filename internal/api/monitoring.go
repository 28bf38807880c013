package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/your-username/poke-search-api/internal/monitoring"
	"github.com/your-username/poke-search-api/internal/query"
)

// GetMetrics returns current service metrics as JSON
func GetMetrics(collector *monitoring.MetricsCollector) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		metrics := collector.GetMetrics()
		writeJSON(w, http.StatusOK, map[string]interface{}{
			"metrics":   metrics,
			"count":     len(metrics),
			"timestamp": time.Now(),
		})
	}
}

// PrometheusMetrics returns metrics in Prometheus exposition format
func PrometheusMetrics(exporter *monitoring.PrometheusExporter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain; version=0.0.4; charset=utf-8")
		if err := exporter.Export(w); err != nil {
			http.Error(w, "Failed to export metrics", http.StatusInternalServerError)
		}
	}
}

// Metrics records every request under its chi route pattern
func Metrics(collector *monitoring.MetricsCollector) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r)

			route := r.URL.Path
			if rctx := chi.RouteContext(r.Context()); rctx != nil && rctx.RoutePattern() != "" {
				route = rctx.RoutePattern()
			}
			status := ww.Status()
			if status == 0 {
				status = http.StatusOK
			}
			collector.RecordRequest(route, status, time.Since(start))
		})
	}
}

// MonitorLatency answers the live mean latency of a module between two
// dates, both days included. latency_value is null when nothing matched.
func MonitorLatency(m *monitoring.Monitor) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		module := q.Get("module")
		if module == "" {
			writeError(w, http.StatusBadRequest, "module is required")
			return
		}

		start, err := query.ParseDate(q.Get("start_date"))
		if err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		end, err := query.ParseDate(q.Get("end_date"))
		if err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		end = end.AddDate(0, 0, 1).Add(-time.Nanosecond)

		var value *float64
		if v, ok := m.GetLatency(module, start, end); ok {
			value = &v
		}
		writeJSON(w, http.StatusOK, map[string]interface{}{"latency_value": value})
	}
}

// MonitorAvailability answers the live availability of a module over the
// trailing days window
func MonitorAvailability(m *monitoring.Monitor) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		module := r.URL.Query().Get("module")
		if module == "" {
			writeError(w, http.StatusBadRequest, "module is required")
			return
		}
		days, err := intParam(r, "days", defaultDays)
		if err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}

		var value *float64
		if v, ok := m.GetAvailability(module, days); ok {
			value = &v
		}
		writeJSON(w, http.StatusOK, map[string]interface{}{"availability_percentage": value})
	}
}
