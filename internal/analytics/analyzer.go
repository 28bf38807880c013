// Package analytics reduces monitoring records to per-day latency and
// availability reports and trend graphs.
package analytics

import (
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/your-username/poke-search-api/internal/graph"
	"github.com/your-username/poke-search-api/internal/models"
	"github.com/your-username/poke-search-api/internal/query"
)

// Metric selects the series a graph is drawn from
type Metric string

const (
	MetricLatency      Metric = "latency"
	MetricAvailability Metric = "availability"
)

// ParseMetric accepts a metric name in any case
func ParseMetric(s string) (Metric, error) {
	switch Metric(strings.ToLower(strings.TrimSpace(s))) {
	case MetricLatency:
		return MetricLatency, nil
	case MetricAvailability:
		return MetricAvailability, nil
	}
	return "", &InvalidMetricError{Metric: s}
}

// Unit is the suffix used when printing values of m
func (m Metric) Unit() string {
	if m == MetricLatency {
		return "ms"
	}
	return "%"
}

// RecordSource supplies the records a report is computed over
type RecordSource interface {
	Records() ([]models.Record, error)
}

// Options tunes bucketing and rendering
type Options struct {
	DayKeyWithYear bool
	GraphHeight    int
	PreciseScaling bool
}

// DefaultOptions reproduces the reference report format
func DefaultOptions() Options {
	return Options{GraphHeight: graph.DefaultHeight}
}

// Analyzer computes reports on demand over a record source
type Analyzer struct {
	source RecordSource
	opts   Options
	now    func() time.Time
}

// New creates an analyzer
func New(source RecordSource, opts Options) *Analyzer {
	if opts.GraphHeight <= 0 {
		opts.GraphHeight = graph.DefaultHeight
	}
	return &Analyzer{
		source: source,
		opts:   opts,
		now:    time.Now,
	}
}

// WithClock replaces the wall clock used for trailing-day windows
func (a *Analyzer) WithClock(now func() time.Time) *Analyzer {
	a.now = now
	return a
}

// WithHeight returns a copy of the analyzer that draws graphs height rows
// tall. A height of zero or less keeps the configured one.
func (a *Analyzer) WithHeight(height int) *Analyzer {
	if height <= 0 {
		return a
	}
	c := *a
	c.opts.GraphHeight = height
	return &c
}

// Options returns the analyzer settings
func (a *Analyzer) Options() Options {
	return a.opts
}

// LatencyReport holds per-day latency averages
type LatencyReport struct {
	Module    string                `json:"module,omitempty"`
	Function  string                `json:"function,omitempty"`
	StartDate string                `json:"start_date,omitempty"`
	EndDate   string                `json:"end_date,omitempty"`
	Days      []models.DailyLatency `json:"days"`
}

// String formats the report as text
func (r *LatencyReport) String() string {
	header := "Latency report for " + moduleLabel(r.Module)
	if r.Function != "" {
		header += fmt.Sprintf(" (function: %s)", r.Function)
	}
	if r.StartDate != "" && r.EndDate != "" {
		header += fmt.Sprintf(" from %s to %s", r.StartDate, r.EndDate)
	}

	lines := []string{header}
	for _, d := range r.Days {
		lines = append(lines, fmt.Sprintf("%s %.0fms", d.Day, d.Average))
	}
	return strings.Join(lines, "\n")
}

// AvailabilityReport holds per-day availability over a trailing window
type AvailabilityReport struct {
	Module   string                     `json:"module,omitempty"`
	Function string                     `json:"function,omitempty"`
	Window   int                        `json:"days"`
	Days     []models.DailyAvailability `json:"daily"`
}

// String formats the report as text
func (r *AvailabilityReport) String() string {
	header := fmt.Sprintf("Availability report for %s - Last %d days", moduleLabel(r.Module), r.Window)
	if r.Function != "" {
		header += fmt.Sprintf(" (function: %s)", r.Function)
	}

	lines := []string{header}
	for _, d := range r.Days {
		lines = append(lines, fmt.Sprintf("%s %.1f%% (Success: %d, Errors: %d)", d.Day, d.Percentage, d.Success, d.Errors))
	}
	return strings.Join(lines, "\n")
}

func (a *Analyzer) filter(q models.Query) ([]models.Record, error) {
	// validate the query before touching the source
	f, err := query.Build(q)
	if err != nil {
		return nil, err
	}
	records, err := a.source.Records()
	if err != nil {
		return nil, err
	}
	return f.Apply(records), nil
}

// CheckLatency averages latency per day for the records matching q
func (a *Analyzer) CheckLatency(q models.Query) (*LatencyReport, error) {
	records, err := a.filter(q)
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, ErrNoData
	}

	return &LatencyReport{
		Module:    q.Module,
		Function:  q.Function,
		StartDate: q.StartDate,
		EndDate:   q.EndDate,
		Days:      LatencyByDay(records, a.opts.DayKeyWithYear),
	}, nil
}

// CheckAvailability reports per-day availability over the last days days
func (a *Analyzer) CheckAvailability(module string, days int, function string) (*AvailabilityReport, error) {
	records, err := a.filter(query.Window(module, function, days, a.now()))
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, ErrNoData
	}

	return &AvailabilityReport{
		Module:   module,
		Function: function,
		Window:   days,
		Days:     AvailabilityByDay(records, a.opts.DayKeyWithYear),
	}, nil
}

// LatencyText is CheckLatency with every failure turned into a message
func (a *Analyzer) LatencyText(q models.Query) string {
	report, err := a.CheckLatency(q)
	if err != nil {
		logReportError("latency", err)
		return Describe(err)
	}
	return report.String()
}

// AvailabilityText is CheckAvailability with every failure turned into a message
func (a *Analyzer) AvailabilityText(module string, days int, function string) string {
	report, err := a.CheckAvailability(module, days, function)
	if err != nil {
		logReportError("availability", err)
		return Describe(err)
	}
	return report.String()
}

// LatencyValue is the mean latency of module between two dates, nil when
// nothing matches.
func (a *Analyzer) LatencyValue(module, startDate, endDate string) (*float64, error) {
	records, err := a.filter(models.Query{Module: module, StartDate: startDate, EndDate: endDate})
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, nil
	}
	v := MeanLatency(records)
	return &v, nil
}

// AvailabilityPercentage is the availability of module over the last days
// days, nil when nothing matches.
func (a *Analyzer) AvailabilityPercentage(module string, days int) (*float64, error) {
	records, err := a.filter(query.Window(module, "", days, a.now()))
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, nil
	}
	_, _, pct := Availability(records)
	return &pct, nil
}

// Series builds the per-day series of metric over the last days days
func (a *Analyzer) Series(metric, module string, days int, function string) (graph.Series, error) {
	m, err := ParseMetric(metric)
	if err != nil {
		return graph.Series{}, err
	}

	records, err := a.filter(query.Window(module, function, days, a.now()))
	if err != nil {
		return graph.Series{}, err
	}

	series := graph.Series{Unit: m.Unit()}
	switch m {
	case MetricLatency:
		series.Title = "Latency Trend for " + moduleLabel(module)
		for _, d := range LatencyByDay(records, a.opts.DayKeyWithYear) {
			series.Days = append(series.Days, d.Day)
			series.Values = append(series.Values, d.Average)
		}
	case MetricAvailability:
		series.Title = "Availability Trend for " + moduleLabel(module)
		for _, d := range AvailabilityByDay(records, a.opts.DayKeyWithYear) {
			series.Days = append(series.Days, d.Day)
			series.Values = append(series.Values, d.Percentage)
		}
	}
	return series, nil
}

// RenderGraph draws metric over the last days days as an ASCII chart
func (a *Analyzer) RenderGraph(metric, module string, days int, function string) (string, error) {
	series, err := a.Series(metric, module, days, function)
	if err != nil {
		return "", err
	}
	return graph.Render(series, graph.Options{
		Height:  a.opts.GraphHeight,
		Precise: a.opts.PreciseScaling,
	})
}

// GraphText is RenderGraph with every failure turned into a message
func (a *Analyzer) GraphText(metric, module string, days int, function string) string {
	chart, err := a.RenderGraph(metric, module, days, function)
	if err != nil {
		logReportError("graph", err)
		return Describe(err)
	}
	return chart
}

func moduleLabel(module string) string {
	if module == "" {
		return "all modules"
	}
	return module
}

func logReportError(report string, err error) {
	kind := KindOf(err)
	if kind == KindNoData {
		log.Debug().Str("report", report).Msg("No data for report")
		return
	}
	log.Warn().Err(err).Str("report", report).Str("kind", kind.String()).Msg("Report failed")
}
