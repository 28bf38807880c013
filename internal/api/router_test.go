package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/your-username/poke-search-api/internal/analytics"
	"github.com/your-username/poke-search-api/internal/graph"
	"github.com/your-username/poke-search-api/internal/images"
	"github.com/your-username/poke-search-api/internal/monitoring"
	"github.com/your-username/poke-search-api/internal/parsing"
	"github.com/your-username/poke-search-api/internal/pokeapi"
	"github.com/your-username/poke-search-api/internal/search"
	"github.com/your-username/poke-search-api/internal/stats"
)

const statsCSV = `#,Name,Type 1,Type 2,Total,HP,Attack,Defense,Sp. Atk,Sp. Def,Speed,Generation,Legendary
25,Pikachu,Electric,,320,35,55,40,50,50,90,1,False
`

const logLines = `2024-01-01 10:00:00|PokeAPI|get_pokemon|log_request|Request logged | Status: 200 | Latency: 100ms
2024-01-01 11:00:00|PokeAPI|get_pokemon|log_request|Request logged | Status: 500 | Latency: 0ms
2024-01-01 12:00:00|PokeAPI|get_pokemon|log_request|Request logged | Status: 200 | Latency: 200ms
`

type testEnv struct {
	server  *httptest.Server
	monitor *monitoring.Monitor
	metrics *monitoring.MetricsCollector
}

func newTestEnv(t *testing.T, logContent string) *testEnv {
	t.Helper()
	dir := t.TempDir()

	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/pikachu" {
			http.NotFound(w, r)
			return
		}
		fmt.Fprint(w, `{"id":25,"name":"pikachu","height":4,"weight":60,"types":[{"type":{"name":"electric"}}],"abilities":[]}`)
	}))
	t.Cleanup(upstream.Close)

	imgDir := filepath.Join(dir, "images", "pikachu")
	if err := os.MkdirAll(imgDir, 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(imgDir, "0.jpg"), []byte("jpeg"), 0644); err != nil {
		t.Fatal(err)
	}

	logPath := filepath.Join(dir, "monitoring.log")
	if logContent != "" {
		if err := os.WriteFile(logPath, []byte(logContent), 0644); err != nil {
			t.Fatal(err)
		}
	}

	rows, err := stats.ReadCSV(strings.NewReader(statsCSV))
	if err != nil {
		t.Fatal(err)
	}

	monitor := monitoring.NewMonitor(nil)
	metrics := monitoring.NewMetricsCollector()
	statsSvc := stats.NewService(rows, monitor, nil)
	imageSvc := images.NewService(filepath.Join(dir, "images"), monitor, nil)
	client := pokeapi.NewClient(upstream.URL, time.Second, pokeapi.WithRecorder(monitor))

	now := time.Date(2024, 1, 2, 12, 0, 0, 0, time.Local)
	analyzer := analytics.New(parsing.NewFileSource(logPath, nil), analytics.DefaultOptions()).
		WithClock(func() time.Time { return now })

	r := chi.NewRouter()
	Mount(r, Services{
		Search:   search.NewService(client, statsSvc, imageSvc, monitor, nil),
		Stats:    statsSvc,
		Images:   imageSvc,
		Monitor:  monitor,
		Analyzer: analyzer,
		Metrics:  metrics,
		Health:   monitoring.NewHealthMonitor("test"),
	})

	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)
	return &testEnv{server: srv, monitor: monitor, metrics: metrics}
}

func (e *testEnv) get(t *testing.T, path string) (*http.Response, string) {
	t.Helper()
	resp, err := http.Get(e.server.URL + path)
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	var buf bytes.Buffer
	buf.ReadFrom(resp.Body)
	return resp, buf.String()
}

func TestPokemonEndpoints(t *testing.T) {
	env := newTestEnv(t, logLines)

	resp, body := env.get(t, "/api/v1/pokemon/Pikachu")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", resp.StatusCode, body)
	}
	var p struct {
		Name   string   `json:"name"`
		Types  []string `json:"types"`
		Images []string `json:"images"`
		Stats  struct {
			Total int `json:"total"`
		} `json:"stats"`
	}
	if err := json.Unmarshal([]byte(body), &p); err != nil {
		t.Fatal(err)
	}
	if p.Name != "pikachu" || p.Stats.Total != 320 || len(p.Images) != 1 || p.Images[0] != "/static/images/pikachu/0.jpg" {
		t.Errorf("unexpected payload %+v", p)
	}

	resp, _ = env.get(t, "/api/v1/pokemon/missingno")
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("expected 404, got %d", resp.StatusCode)
	}

	resp, body = env.get(t, "/api/v1/stats/25")
	if resp.StatusCode != http.StatusOK || !strings.Contains(body, `"name":"Pikachu"`) {
		t.Errorf("unexpected stats answer %d %s", resp.StatusCode, body)
	}

	resp, body = env.get(t, "/api/v1/images/pikachu/0")
	if resp.StatusCode != http.StatusOK || body != "jpeg" {
		t.Errorf("unexpected image answer %d %q", resp.StatusCode, body)
	}

	resp, body = env.get(t, "/static/images/pikachu/0.jpg")
	if resp.StatusCode != http.StatusOK || body != "jpeg" {
		t.Errorf("unexpected static answer %d %q", resp.StatusCode, body)
	}
}

func TestSearchEndpoint(t *testing.T) {
	env := newTestEnv(t, logLines)

	resp, err := http.Post(env.server.URL+"/poke/search", "application/json", strings.NewReader(`{"pokemon_name":"pikachu"}`))
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	resp, err = http.Post(env.server.URL+"/api/v1/search", "application/json", strings.NewReader(`{`))
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("expected 400 for bad body, got %d", resp.StatusCode)
	}

	records, _ := env.monitor.Records()
	var modules []string
	for _, r := range records {
		modules = append(modules, r.Module)
	}
	if strings.Join(modules, ",") != "PokeAPI,PokeStats,PokeImages,PokeSearch" {
		t.Errorf("unexpected monitor modules %v", modules)
	}
}

func TestMonitorEndpoints(t *testing.T) {
	env := newTestEnv(t, logLines)
	env.monitor.Record("PokeAPI", "get_pokemon", 200, 40)
	env.monitor.Record("PokeAPI", "get_pokemon", 500, 0)

	today := time.Now().Format("2006-01-02")
	_, body := env.get(t, "/api/v1/monitor/latency?module=PokeAPI&start_date="+today+"&end_date="+today)
	if strings.TrimSpace(body) != `{"latency_value":20}` {
		t.Errorf("unexpected latency body %s", body)
	}

	_, body = env.get(t, "/api/v1/monitor/availability?module=PokeAPI&days=1")
	if strings.TrimSpace(body) != `{"availability_percentage":50}` {
		t.Errorf("unexpected availability body %s", body)
	}

	_, body = env.get(t, "/api/v1/monitor/availability?module=Nobody")
	if strings.TrimSpace(body) != `{"availability_percentage":null}` {
		t.Errorf("expected null, got %s", body)
	}

	resp, _ := env.get(t, "/api/v1/monitor/latency?module=PokeAPI&start_date=yesterday&end_date="+today)
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", resp.StatusCode)
	}
}

func TestReportEndpoints(t *testing.T) {
	env := newTestEnv(t, logLines)

	tests := []struct {
		name   string
		path   string
		status int
		want   string
	}{
		{"latency text", "/api/v1/reports/latency?module=PokeAPI&format=text", 200, "Latency report for PokeAPI\n01/01 100ms\n"},
		{"latency json", "/api/v1/reports/latency?module=PokeAPI", 200, `"average_ms":100`},
		{"availability text", "/api/v1/reports/availability?module=PokeAPI&days=7&format=text", 200, "01/01 66.7% (Success: 2, Errors: 1)"},
		{"no data", "/api/v1/reports/latency?module=Nobody", 200, `{"message":"No data for the specified criteria"}`},
		{"bad date", "/api/v1/reports/latency?start_date=2024-13-01&end_date=2024-01-02", 400, `"error":"Error: invalid`},
		{"bad days", "/api/v1/reports/availability?days=x", 400, "days must be"},
		{"graph", "/api/v1/reports/graph?metric=Latency&module=PokeAPI", 200, "Latency Trend for PokeAPI"},
		{"graph bad metric", "/api/v1/reports/graph?metric=throughput", 400, `{"error":"Invalid metric. Use 'latency' or 'availability'"}`},
		{"graph no data", "/api/v1/reports/graph?module=Nobody", 200, "No data to display the graph"},
		{"latency value", "/api/v1/reports/latency/value?module=PokeAPI&start_date=2024-01-01&end_date=2024-01-01", 200, `{"latency_value":100}`},
		{"latency value none", "/api/v1/reports/latency/value?module=Nobody", 200, `{"latency_value":null}`},
		{"latency value bad date", "/api/v1/reports/latency/value?module=PokeAPI&start_date=2024-13-01", 400, `"error":"Error: invalid`},
		{"availability value", "/api/v1/reports/availability/value?module=PokeAPI&days=7", 200, `{"availability_percentage":66.666`},
		{"availability value none", "/api/v1/reports/availability/value?module=Nobody", 200, `{"availability_percentage":null}`},
		{"export csv", "/api/v1/reports/export?metric=latency&module=PokeAPI", 200, "day,average_ms,count\n01/01,100.0,3\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, body := env.get(t, tt.path)
			if resp.StatusCode != tt.status {
				t.Errorf("expected %d, got %d: %s", tt.status, resp.StatusCode, body)
			}
			if !strings.Contains(body, tt.want) {
				t.Errorf("expected body to contain %q, got %q", tt.want, body)
			}
		})
	}
}

func TestGraphHeightParameter(t *testing.T) {
	env := newTestEnv(t, logLines)
	lineCount := func(path string) int {
		resp, body := env.get(t, path)
		if resp.StatusCode != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", resp.StatusCode, body)
		}
		return len(strings.Split(strings.TrimRight(body, "\n"), "\n"))
	}

	base := lineCount("/api/v1/reports/graph?metric=latency&module=PokeAPI&days=7")
	short := lineCount("/api/v1/reports/graph?metric=latency&module=PokeAPI&days=7&height=2")
	if base-short != graph.DefaultHeight-2 {
		t.Errorf("expected height=2 to drop %d rows, got %d lines vs %d", graph.DefaultHeight-2, short, base)
	}
	if zero := lineCount("/api/v1/reports/graph?metric=latency&module=PokeAPI&days=7&height=0"); zero != base {
		t.Errorf("expected height=0 to keep the configured height, got %d lines vs %d", zero, base)
	}

	resp, _ := env.get(t, "/api/v1/reports/graph?metric=latency&height=tall")
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("expected 400 for a bad height, got %d", resp.StatusCode)
	}
}

func TestReportMissingLogIsServerError(t *testing.T) {
	env := newTestEnv(t, "")
	resp, body := env.get(t, "/api/v1/reports/latency")
	if resp.StatusCode != http.StatusInternalServerError {
		t.Errorf("expected 500, got %d: %s", resp.StatusCode, body)
	}
}

func TestMetricsMiddleware(t *testing.T) {
	env := newTestEnv(t, logLines)
	env.get(t, "/api/v1/stats/pikachu")
	env.get(t, "/api/v1/stats/pikachu")

	var found bool
	for _, m := range env.metrics.GetMetrics() {
		if m.Name == "http_requests_total" && m.Labels["route"] == "/api/v1/stats/{name}" && m.Value == 2 {
			found = true
		}
	}
	if !found {
		t.Errorf("expected 2 requests recorded for the stats route, got %+v", env.metrics.GetMetrics())
	}

	resp, body := env.get(t, "/metrics")
	if resp.StatusCode != http.StatusOK || !strings.Contains(body, "pokesearch_http_requests_total") {
		t.Errorf("unexpected prometheus output %d %s", resp.StatusCode, body)
	}
}

func TestMetricsCountsRootRoutes(t *testing.T) {
	env := newTestEnv(t, logLines)
	env.get(t, "/static/images/pikachu/0.jpg")
	resp, err := http.Post(env.server.URL+"/poke/search", "application/json", strings.NewReader(`{"pokemon_name":"pikachu"}`))
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()

	counts := map[string]float64{}
	for _, m := range env.metrics.GetMetrics() {
		if m.Name == "http_requests_total" {
			counts[m.Labels["route"]] += m.Value
		}
	}
	if counts["/static/images/*"] != 1 || counts["/poke/search"] != 1 {
		t.Errorf("expected root routes to be counted, got %v", counts)
	}
}
