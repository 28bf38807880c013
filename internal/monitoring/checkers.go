package monitoring

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/your-username/poke-search-api/internal/parsing"
)

// LogFileChecker checks that the monitoring log is readable
type LogFileChecker struct {
	path   string
	parser *parsing.Parser
}

// NewLogFileChecker creates a checker for the log at path. parser may be nil.
func NewLogFileChecker(path string, parser *parsing.Parser) *LogFileChecker {
	return &LogFileChecker{path: path, parser: parser}
}

// Name returns the name of the checker
func (c *LogFileChecker) Name() string {
	return "log_file"
}

// Check stats the file and reports the parser counters. A missing file is
// degraded rather than down since it is created on first write.
func (c *LogFileChecker) Check(ctx context.Context) (*ComponentHealth, error) {
	health := &ComponentHealth{
		Status:  HealthStatusOK,
		Details: map[string]interface{}{"path": c.path},
	}

	info, err := os.Stat(c.path)
	switch {
	case os.IsNotExist(err):
		health.Status = HealthStatusDegraded
		health.Message = "Log file does not exist yet"
		return health, nil
	case err != nil:
		return health, fmt.Errorf("log file not accessible: %w", err)
	case info.IsDir():
		return health, fmt.Errorf("log path is a directory")
	}

	f, err := os.Open(c.path)
	if err != nil {
		return health, fmt.Errorf("log file not readable: %w", err)
	}
	f.Close()

	health.Details["size_kb"] = float64(info.Size()) / 1024
	health.Details["modified"] = info.ModTime()
	if c.parser != nil {
		stats := c.parser.GetStats()
		health.Details["parsed_lines"] = stats.ParsedCount
		health.Details["skipped_lines"] = stats.SkippedCount
	}
	return health, nil
}

// PathChecker checks that a data file or directory exists
type PathChecker struct {
	name    string
	path    string
	wantDir bool
}

// NewPathChecker creates a checker for path
func NewPathChecker(name, path string, wantDir bool) *PathChecker {
	return &PathChecker{name: name, path: path, wantDir: wantDir}
}

// Name returns the name of the checker
func (c *PathChecker) Name() string {
	return c.name
}

// Check performs the health check
func (c *PathChecker) Check(ctx context.Context) (*ComponentHealth, error) {
	health := &ComponentHealth{
		Status:  HealthStatusOK,
		Details: map[string]interface{}{"path": c.path},
	}

	info, err := os.Stat(c.path)
	if err != nil {
		return health, fmt.Errorf("%s not accessible: %w", c.name, err)
	}
	if info.IsDir() != c.wantDir {
		health.Status = HealthStatusDegraded
		health.Message = fmt.Sprintf("unexpected file type for %s", c.path)
	}
	return health, nil
}

// UpstreamChecker checks that an HTTP dependency answers
type UpstreamChecker struct {
	name   string
	url    string
	client *http.Client
}

// NewUpstreamChecker creates a checker issuing GET url
func NewUpstreamChecker(name, url string, timeout time.Duration) *UpstreamChecker {
	return &UpstreamChecker{
		name:   name,
		url:    url,
		client: &http.Client{Timeout: timeout},
	}
}

// Name returns the name of the checker
func (c *UpstreamChecker) Name() string {
	return c.name
}

// Check treats any 5xx answer as degraded and a transport error as down
func (c *UpstreamChecker) Check(ctx context.Context) (*ComponentHealth, error) {
	health := &ComponentHealth{
		Status:  HealthStatusOK,
		Details: map[string]interface{}{"url": c.url},
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.url, nil)
	if err != nil {
		return health, err
	}
	resp, err := c.client.Do(req)
	if err != nil {
		return health, fmt.Errorf("upstream unreachable: %w", err)
	}
	resp.Body.Close()

	health.Details["status_code"] = resp.StatusCode
	if resp.StatusCode >= 500 {
		health.Status = HealthStatusDegraded
		health.Message = fmt.Sprintf("upstream answered %d", resp.StatusCode)
	}
	return health, nil
}

// MonitorChecker reports the size of the live record store
type MonitorChecker struct {
	monitor *Monitor
}

// NewMonitorChecker creates a checker for m
func NewMonitorChecker(m *Monitor) *MonitorChecker {
	return &MonitorChecker{monitor: m}
}

// Name returns the name of the checker
func (c *MonitorChecker) Name() string {
	return "monitor"
}

// Check performs the health check
func (c *MonitorChecker) Check(ctx context.Context) (*ComponentHealth, error) {
	return &ComponentHealth{
		Status:  HealthStatusOK,
		Details: map[string]interface{}{"records": c.monitor.Len()},
	}, nil
}
