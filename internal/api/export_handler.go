package api

import (
	"bytes"
	"fmt"
	"net/http"
	"strconv"

	"github.com/your-username/poke-search-api/internal/analytics"
	"github.com/your-username/poke-search-api/internal/export"
)

// ExportHandler handles report export API endpoints
type ExportHandler struct {
	exporter *export.Exporter
}

// NewExportHandler creates a new export handler
func NewExportHandler(exporter *export.Exporter) *ExportHandler {
	return &ExportHandler{
		exporter: exporter,
	}
}

// ExportReport writes the requested daily report as an attachment
func (h *ExportHandler) ExportReport(w http.ResponseWriter, r *http.Request) {
	options, err := h.parseQueryOptions(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	// buffer so a failed report can still answer with a status
	var buf bytes.Buffer
	result, err := h.exporter.Export(&buf, options)
	if err != nil {
		status := statusFor(err)
		if status == http.StatusOK {
			writeJSON(w, status, map[string]string{"message": analytics.Describe(err)})
			return
		}
		writeError(w, status, analytics.Describe(err))
		return
	}

	w.Header().Set("Content-Type", options.Format.ContentType())
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%s", result.FileName))
	w.Header().Set("X-Export-Rows", strconv.Itoa(result.RowCount))
	w.Header().Set("X-Export-Duration", result.Duration.String())
	w.Write(buf.Bytes())
}

func (h *ExportHandler) parseQueryOptions(r *http.Request) (export.ExportOptions, error) {
	q := r.URL.Query()

	format, err := export.ParseFormat(q.Get("format"))
	if err != nil {
		return export.ExportOptions{}, err
	}
	days, err := intParam(r, "days", defaultDays)
	if err != nil {
		return export.ExportOptions{}, err
	}

	metric := q.Get("metric")
	if metric == "" {
		metric = string(analytics.MetricLatency)
	}

	return export.ExportOptions{
		Format:    format,
		Metric:    metric,
		Module:    q.Get("module"),
		Function:  q.Get("function"),
		StartDate: q.Get("start_date"),
		EndDate:   q.Get("end_date"),
		Days:      days,
	}, nil
}
