package api

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/your-username/poke-search-api/internal/analytics"
	"github.com/your-username/poke-search-api/internal/models"
	"github.com/your-username/poke-search-api/internal/monitoring"
)

const defaultDays = 7

func intParam(r *http.Request, name string, fallback int) (int, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return fallback, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v < 0 {
		return 0, fmt.Errorf("%s must be a non-negative integer", name)
	}
	return v, nil
}

// statusFor maps a report failure to its HTTP status. No data is a normal
// answer, not a failure.
func statusFor(err error) int {
	switch analytics.KindOf(err) {
	case analytics.KindNone, analytics.KindNoData:
		return http.StatusOK
	case analytics.KindParse, analytics.KindInvalidMetric:
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func wantsText(r *http.Request) bool {
	return strings.EqualFold(r.URL.Query().Get("format"), "text")
}

// ReportHandler serves the log-file backed reports
type ReportHandler struct {
	analyzer *analytics.Analyzer
	metrics  *monitoring.MetricsCollector
}

// NewReportHandler creates a new report handler
func NewReportHandler(analyzer *analytics.Analyzer, metrics *monitoring.MetricsCollector) *ReportHandler {
	return &ReportHandler{
		analyzer: analyzer,
		metrics:  metrics,
	}
}

func (h *ReportHandler) observe(report string, start time.Time, err error) {
	if h.metrics == nil {
		return
	}
	if analytics.KindOf(err) == analytics.KindNoData {
		err = nil
	}
	h.metrics.RecordReport(report, time.Since(start), err)
}

// respond writes a report, or the outcome message when it failed
func (h *ReportHandler) respond(w http.ResponseWriter, r *http.Request, report string, body interface{ String() string }, err error) {
	status := statusFor(err)
	if err != nil && status == http.StatusInternalServerError {
		log.Error().Err(err).Str("report", report).Msg("Report failed")
	}

	if wantsText(r) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.WriteHeader(status)
		if err != nil {
			fmt.Fprintln(w, analytics.Describe(err))
			return
		}
		fmt.Fprintln(w, body.String())
		return
	}

	switch {
	case err == nil:
		writeJSON(w, http.StatusOK, body)
	case status == http.StatusOK:
		writeJSON(w, status, map[string]string{"message": analytics.Describe(err)})
	default:
		writeError(w, status, analytics.Describe(err))
	}
}

// Latency reports per-day mean latency
func (h *ReportHandler) Latency(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	q := r.URL.Query()
	report, err := h.analyzer.CheckLatency(models.Query{
		Module:    q.Get("module"),
		Function:  q.Get("function"),
		StartDate: q.Get("start_date"),
		EndDate:   q.Get("end_date"),
	})
	h.observe("latency", start, err)
	h.respond(w, r, "latency", report, err)
}

// Availability reports per-day availability over the trailing window
func (h *ReportHandler) Availability(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	days, err := intParam(r, "days", defaultDays)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	q := r.URL.Query()
	report, err := h.analyzer.CheckAvailability(q.Get("module"), days, q.Get("function"))
	h.observe("availability", start, err)
	h.respond(w, r, "availability", report, err)
}

// LatencyValue answers the mean latency of a module in the log file
// between two dates. latency_value is null when nothing matched.
func (h *ReportHandler) LatencyValue(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	q := r.URL.Query()
	value, err := h.analyzer.LatencyValue(q.Get("module"), q.Get("start_date"), q.Get("end_date"))
	h.observe("latency_value", start, err)
	if err != nil {
		h.fail(w, "latency_value", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"latency_value": value})
}

// AvailabilityValue answers the availability of a module in the log file
// over the trailing days window
func (h *ReportHandler) AvailabilityValue(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	days, err := intParam(r, "days", defaultDays)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	value, err := h.analyzer.AvailabilityPercentage(r.URL.Query().Get("module"), days)
	h.observe("availability_value", start, err)
	if err != nil {
		h.fail(w, "availability_value", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"availability_percentage": value})
}

func (h *ReportHandler) fail(w http.ResponseWriter, report string, err error) {
	status := statusFor(err)
	if status == http.StatusOK {
		status = http.StatusInternalServerError
	}
	if status == http.StatusInternalServerError {
		log.Error().Err(err).Str("report", report).Msg("Report failed")
	}
	writeError(w, status, analytics.Describe(err))
}

// Graph renders the ASCII trend chart as plain text. Invalid metrics get
// a JSON error body.
func (h *ReportHandler) Graph(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	days, err := intParam(r, "days", defaultDays)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	height, err := intParam(r, "height", 0)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	q := r.URL.Query()
	metric := q.Get("metric")
	if metric == "" {
		metric = string(analytics.MetricLatency)
	}

	chart, err := h.analyzer.WithHeight(height).RenderGraph(metric, q.Get("module"), days, q.Get("function"))
	h.observe("graph", start, err)

	status := statusFor(err)
	if err != nil && status != http.StatusOK {
		writeError(w, status, analytics.Describe(err))
		return
	}

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	if err != nil {
		fmt.Fprintln(w, analytics.Describe(err))
		return
	}
	fmt.Fprintln(w, chart)
}
