package monitoring

import (
	"fmt"
	"io"
	"runtime"
	"sort"
	"strings"
)

const namespace = "pokesearch_"

// PrometheusExporter exports metrics in Prometheus text format
type PrometheusExporter struct {
	metrics *MetricsCollector
	monitor *Monitor
}

// NewPrometheusExporter creates a new Prometheus exporter. monitor may be nil.
func NewPrometheusExporter(metrics *MetricsCollector, monitor *Monitor) *PrometheusExporter {
	return &PrometheusExporter{
		metrics: metrics,
		monitor: monitor,
	}
}

// Export writes metrics in Prometheus exposition format
func (p *PrometheusExporter) Export(w io.Writer) error {
	if p.monitor != nil {
		p.metrics.SetGauge("monitor_records", float64(p.monitor.Len()))
	}

	groups := make(map[string][]Metric)
	for _, metric := range p.metrics.GetMetrics() {
		groups[metric.Name] = append(groups[metric.Name], metric)
	}

	names := make([]string, 0, len(groups))
	for name := range groups {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		metrics := groups[name]
		promName := toPrometheusName(name, metrics[0].Type)

		help := metrics[0].Description
		if help == "" {
			help = getMetricHelp(name)
		}
		if _, err := fmt.Fprintf(w, "# HELP %s %s\n", promName, help); err != nil {
			return err
		}
		fmt.Fprintf(w, "# TYPE %s %s\n", promName, getPrometheusType(metrics[0].Type))

		lines := make([]string, 0, len(metrics))
		for _, m := range metrics {
			lines = append(lines, fmt.Sprintf("%s%s %g", promName, formatLabels(buildLabels(m.Labels)), m.Value))
		}
		sort.Strings(lines)
		fmt.Fprintln(w, strings.Join(lines, "\n"))
		fmt.Fprintln(w)
	}

	writeGoMetrics(w)
	return nil
}

// toPrometheusName converts a metric name to Prometheus format
func toPrometheusName(name, metricType string) string {
	name = namespace + name
	name = strings.ReplaceAll(name, "-", "_")
	name = strings.ReplaceAll(name, " ", "_")
	name = strings.ToLower(name)

	if metricType == string(MetricTypeCounter) && !strings.HasSuffix(name, "_total") {
		name += "_total"
	}
	return name
}

// getPrometheusType maps internal metric type to Prometheus type
func getPrometheusType(metricType string) string {
	switch metricType {
	case "counter", "gauge", "histogram", "summary":
		return metricType
	default:
		return "untyped"
	}
}

// getMetricHelp returns help text for metrics without a description
func getMetricHelp(name string) string {
	for _, prefix := range []string{"http_request_duration_ms", "report_duration_ms"} {
		if strings.HasPrefix(name, prefix+"_") {
			return fmt.Sprintf("%s of %s", strings.TrimPrefix(name, prefix+"_"), strings.ReplaceAll(prefix, "_", " "))
		}
	}
	return fmt.Sprintf("Metric %s", name)
}

// buildLabels constructs label string from map
func buildLabels(labels map[string]string) string {
	if len(labels) == 0 {
		return ""
	}

	var parts []string
	for k, v := range labels {
		v = strings.ReplaceAll(v, `\`, `\\`)
		v = strings.ReplaceAll(v, `"`, `\"`)
		v = strings.ReplaceAll(v, "\n", `\n`)
		parts = append(parts, fmt.Sprintf(`%s="%s"`, k, v))
	}
	sort.Strings(parts)
	return strings.Join(parts, ",")
}

// formatLabels formats labels for output
func formatLabels(labels string) string {
	if labels == "" {
		return ""
	}
	return "{" + labels + "}"
}

// writeGoMetrics writes Go runtime metrics
func writeGoMetrics(w io.Writer) {
	var mem runtime.MemStats
	runtime.ReadMemStats(&mem)

	fmt.Fprintln(w, "# HELP go_goroutines Number of goroutines that currently exist.")
	fmt.Fprintln(w, "# TYPE go_goroutines gauge")
	fmt.Fprintf(w, "go_goroutines %d\n\n", runtime.NumGoroutine())

	fmt.Fprintln(w, "# HELP go_memstats_alloc_bytes Number of bytes allocated and still in use.")
	fmt.Fprintln(w, "# TYPE go_memstats_alloc_bytes gauge")
	fmt.Fprintf(w, "go_memstats_alloc_bytes %d\n\n", mem.Alloc)

	fmt.Fprintln(w, "# HELP go_memstats_heap_objects Number of allocated objects.")
	fmt.Fprintln(w, "# TYPE go_memstats_heap_objects gauge")
	fmt.Fprintf(w, "go_memstats_heap_objects %d\n\n", mem.HeapObjects)

	fmt.Fprintln(w, "# HELP go_gc_cycles_total Number of completed GC cycles.")
	fmt.Fprintln(w, "# TYPE go_gc_cycles_total counter")
	fmt.Fprintf(w, "go_gc_cycles_total %d\n\n", mem.NumGC)

	fmt.Fprintln(w, "# HELP go_info Information about the Go environment.")
	fmt.Fprintln(w, "# TYPE go_info gauge")
	fmt.Fprintf(w, "go_info{version=\"%s\"} 1\n", runtime.Version())
}
