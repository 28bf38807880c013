package analytics

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/your-username/poke-search-api/internal/models"
	"github.com/your-username/poke-search-api/internal/parsing"
	"github.com/your-username/poke-search-api/internal/query"
)

var fixedNow = time.Date(2024, 1, 1, 18, 0, 0, 0, time.Local)

func clock() time.Time { return fixedNow }

func record(ts time.Time, module, function string, status, latency int) models.Record {
	return models.Record{Timestamp: ts, Module: module, Submodule: "api", Function: function, Status: status, Latency: latency}
}

func newAnalyzer(records ...models.Record) *Analyzer {
	return New(parsing.StaticSource(records), DefaultOptions()).WithClock(clock)
}

func TestLatencyReportFromLog(t *testing.T) {
	path := filepath.Join(t.TempDir(), "monitoring.log")
	content := "2024-01-01 10:00:00|PokeAPI|get_pokemon|fetch|Request logged | Status: 200 | Latency: 50ms\n" +
		"2024-01-01 11:00:00|PokeAPI|get_pokemon|fetch|Request logged | Status: 200 | Latency: 150ms\n"
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	a := New(parsing.NewFileSource(path, nil), DefaultOptions())
	got := a.LatencyText(models.Query{Module: "PokeAPI"})
	want := "Latency report for PokeAPI\n01/01 100ms"
	if got != want {
		t.Errorf("expected %q, got %q", want, got)
	}
}

func TestLatencyReportHeader(t *testing.T) {
	a := newAnalyzer(
		record(fixedNow, "X", "f", 200, 10),
		record(fixedNow.AddDate(0, 0, -1), "X", "f", 200, 21),
	)

	got := a.LatencyText(models.Query{Function: "f", StartDate: "2023-12-31", EndDate: "2024-01-01"})
	want := strings.Join([]string{
		"Latency report for all modules (function: f) from 2023-12-31 to 2024-01-01",
		"01/01 10ms",
		"12/31 21ms",
	}, "\n")
	if got != want {
		t.Errorf("expected %q, got %q", want, got)
	}
}

func TestLatencySingleRecordDay(t *testing.T) {
	days := LatencyByDay([]models.Record{record(fixedNow, "X", "f", 200, 37)}, false)
	if len(days) != 1 || days[0].Average != 37 {
		t.Errorf("expected exact latency 37, got %+v", days)
	}
}

func TestLatencyNoData(t *testing.T) {
	a := newAnalyzer(record(fixedNow, "X", "f", 200, 10))

	_, err := a.CheckLatency(models.Query{Module: "Y"})
	if !errors.Is(err, ErrNoData) || KindOf(err) != KindNoData {
		t.Errorf("expected no data, got %v", err)
	}
	if got := a.LatencyText(models.Query{Module: "Y"}); got != NoDataMessage {
		t.Errorf("expected %q, got %q", NoDataMessage, got)
	}
}

func TestLatencyInvalidDate(t *testing.T) {
	a := newAnalyzer(record(fixedNow, "X", "f", 200, 10))

	_, err := a.CheckLatency(models.Query{StartDate: "yesterday"})
	if KindOf(err) != KindParse {
		t.Fatalf("expected parse kind, got %v", err)
	}
	if got := a.LatencyText(models.Query{StartDate: "yesterday"}); !strings.Contains(got, "yesterday") {
		t.Errorf("expected offending input in message, got %q", got)
	}
}

func TestSourceIOError(t *testing.T) {
	a := New(parsing.NewFileSource(filepath.Join(t.TempDir(), "nope.log"), nil), DefaultOptions())
	_, err := a.CheckLatency(models.Query{})
	if KindOf(err) != KindIO {
		t.Errorf("expected io kind, got %v", err)
	}
}

func TestAvailabilityReport(t *testing.T) {
	a := newAnalyzer(
		record(fixedNow.Add(-3*time.Hour), "X", "f", 200, 10),
		record(fixedNow.Add(-2*time.Hour), "X", "f", 200, 10),
		record(fixedNow.Add(-1*time.Hour), "X", "f", 500, 10),
		record(fixedNow.Add(-1*time.Hour), "Y", "f", 500, 10),
	)

	got := a.AvailabilityText("X", 1, "")
	want := "Availability report for X - Last 1 days\n01/01 66.7% (Success: 2, Errors: 1)"
	if got != want {
		t.Errorf("expected %q, got %q", want, got)
	}
}

func TestAvailabilityIgnoresOtherStatuses(t *testing.T) {
	days := AvailabilityByDay([]models.Record{
		record(fixedNow, "X", "f", 404, 0),
		record(fixedNow, "X", "f", 302, 0),
	}, false)
	if len(days) != 1 {
		t.Fatalf("expected one day, got %d", len(days))
	}
	d := days[0]
	if d.Success != 0 || d.Errors != 0 || d.Percentage != 0 {
		t.Errorf("expected 0/0 and 0%%, got %+v", d)
	}
}

func TestAvailabilityBounds(t *testing.T) {
	for s := 0; s <= 5; s++ {
		for e := 0; e <= 5; e++ {
			p := Percentage(s, e)
			if p < 0 || p > 100 {
				t.Errorf("percentage(%d, %d) = %v out of range", s, e, p)
			}
		}
	}
}

func TestAvailabilityWindowExcludesOldRecords(t *testing.T) {
	a := newAnalyzer(
		record(fixedNow, "X", "f", 200, 0),
		record(fixedNow.AddDate(0, 0, -10), "X", "f", 500, 0),
	)
	report, err := a.CheckAvailability("X", 7, "")
	if err != nil {
		t.Fatal(err)
	}
	if len(report.Days) != 1 || report.Days[0].Percentage != 100 {
		t.Errorf("expected a single 100%% day, got %+v", report.Days)
	}
}

func TestDayKeyCollision(t *testing.T) {
	r1 := record(time.Date(2023, 1, 1, 9, 0, 0, 0, time.Local), "X", "f", 200, 10)
	r2 := record(time.Date(2024, 1, 1, 9, 0, 0, 0, time.Local), "X", "f", 200, 30)

	merged := LatencyByDay([]models.Record{r1, r2}, false)
	if len(merged) != 1 || merged[0].Day != "01/01" || merged[0].Average != 20 {
		t.Errorf("expected years to share the 01/01 bucket, got %+v", merged)
	}

	split := LatencyByDay([]models.Record{r1, r2}, true)
	if len(split) != 2 || split[0].Day != "2023/01/01" || split[1].Day != "2024/01/01" {
		t.Errorf("expected year-aware buckets, got %+v", split)
	}
}

func TestRenderGraphAvailability(t *testing.T) {
	a := newAnalyzer(
		record(fixedNow, "X", "f", 200, 10),
		record(fixedNow, "X", "f", 200, 10),
		record(fixedNow, "X", "f", 500, 10),
	)

	chart, err := a.RenderGraph("Availability", "X", 1, "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	lines := strings.Split(chart, "\n")
	if lines[0] != "Availability Trend for X" {
		t.Errorf("unexpected title %q", lines[0])
	}
	if lines[len(lines)-2] != "01/01" {
		t.Errorf("expected a single day column, got %q", lines[len(lines)-2])
	}
	if lines[len(lines)-1] != "Min: 66.7%  Max: 66.7%" {
		t.Errorf("unexpected summary %q", lines[len(lines)-1])
	}
}

func TestRenderGraphLatencyUnit(t *testing.T) {
	a := newAnalyzer(record(fixedNow, "X", "f", 200, 40))
	chart, err := a.RenderGraph("LATENCY", "", 7, "")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasSuffix(chart, "Min: 40.0ms  Max: 40.0ms") {
		t.Errorf("expected ms summary, got %q", chart)
	}
}

func TestRenderGraphInvalidMetric(t *testing.T) {
	a := newAnalyzer(record(fixedNow, "X", "f", 200, 10))

	_, err := a.RenderGraph("throughput", "X", 7, "")
	var metricErr *InvalidMetricError
	if !errors.As(err, &metricErr) || metricErr.Metric != "throughput" {
		t.Fatalf("expected InvalidMetricError, got %v", err)
	}
	if got := a.GraphText("throughput", "X", 7, ""); got != InvalidMetricMessage {
		t.Errorf("expected %q, got %q", InvalidMetricMessage, got)
	}
}

func TestRenderGraphNoData(t *testing.T) {
	a := newAnalyzer()
	if got := a.GraphText("latency", "X", 7, ""); got != NoGraphDataMessage {
		t.Errorf("expected %q, got %q", NoGraphDataMessage, got)
	}
}

func TestNumericQueries(t *testing.T) {
	a := newAnalyzer(
		record(fixedNow, "X", "f", 200, 10),
		record(fixedNow, "X", "f", 500, 30),
		record(fixedNow, "X", "f", 404, 50),
	)

	lat, err := a.LatencyValue("X", "2024-01-01", "2024-01-01")
	if err != nil || lat == nil || *lat != 30 {
		t.Errorf("expected latency 30, got %v (%v)", lat, err)
	}

	pct, err := a.AvailabilityPercentage("X", 1)
	if err != nil || pct == nil || *pct != 50 {
		t.Errorf("expected availability 50, got %v (%v)", pct, err)
	}

	none, err := a.LatencyValue("Z", "", "")
	if err != nil || none != nil {
		t.Errorf("expected nil for empty selection, got %v (%v)", none, err)
	}

	_, err = a.LatencyValue("X", "bad", "")
	if !errors.Is(err, query.ErrParse) {
		t.Errorf("expected parse error, got %v", err)
	}
}
