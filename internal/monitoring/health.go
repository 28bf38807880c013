package monitoring

import (
	"context"
	"encoding/json"
	"net/http"
	"runtime"
	"sync"
	"time"
)

// HealthStatus represents the health status of a component
type HealthStatus string

const (
	HealthStatusOK       HealthStatus = "ok"
	HealthStatusDegraded HealthStatus = "degraded"
	HealthStatusDown     HealthStatus = "down"
)

// ComponentHealth is the outcome of one checker
type ComponentHealth struct {
	Name           string                 `json:"name"`
	Status         HealthStatus           `json:"status"`
	Message        string                 `json:"message,omitempty"`
	LastChecked    time.Time              `json:"last_checked"`
	ResponseTimeMs int64                  `json:"response_time_ms"`
	Details        map[string]interface{} `json:"details,omitempty"`
}

// SystemHealth aggregates every component
type SystemHealth struct {
	Status        HealthStatus                `json:"status"`
	Timestamp     time.Time                   `json:"timestamp"`
	Version       string                      `json:"version"`
	UptimeSeconds int64                       `json:"uptime_seconds"`
	Components    map[string]*ComponentHealth `json:"components"`
	SystemInfo    SystemInfo                  `json:"system_info"`
}

// SystemInfo contains process-level information
type SystemInfo struct {
	GoVersion     string  `json:"go_version"`
	NumGoroutines int     `json:"num_goroutines"`
	MemoryAllocMB float64 `json:"memory_alloc_mb"`
	NumCPU        int     `json:"num_cpu"`
}

// HealthChecker checks one dependency of the service
type HealthChecker interface {
	Name() string
	Check(ctx context.Context) (*ComponentHealth, error)
}

// HealthMonitor runs the registered checkers
type HealthMonitor struct {
	mu        sync.RWMutex
	checkers  []HealthChecker
	startTime time.Time
	version   string
	timeout   time.Duration
}

// NewHealthMonitor creates a new health monitor
func NewHealthMonitor(version string) *HealthMonitor {
	return &HealthMonitor{
		startTime: time.Now(),
		version:   version,
		timeout:   5 * time.Second,
	}
}

// RegisterChecker registers a health checker
func (h *HealthMonitor) RegisterChecker(checker HealthChecker) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.checkers = append(h.checkers, checker)
}

// GetHealth runs every checker concurrently and folds the results
func (h *HealthMonitor) GetHealth(ctx context.Context) *SystemHealth {
	h.mu.RLock()
	checkers := make([]HealthChecker, len(h.checkers))
	copy(checkers, h.checkers)
	h.mu.RUnlock()

	ctx, cancel := context.WithTimeout(ctx, h.timeout)
	defer cancel()

	results := make([]*ComponentHealth, len(checkers))
	var wg sync.WaitGroup
	for i, checker := range checkers {
		wg.Add(1)
		go func(i int, c HealthChecker) {
			defer wg.Done()
			results[i] = runCheck(ctx, c)
		}(i, checker)
	}
	wg.Wait()

	health := &SystemHealth{
		Status:        HealthStatusOK,
		Timestamp:     time.Now(),
		Version:       h.version,
		UptimeSeconds: int64(time.Since(h.startTime).Seconds()),
		Components:    make(map[string]*ComponentHealth, len(results)),
		SystemInfo:    systemInfo(),
	}
	for _, result := range results {
		health.Components[result.Name] = result
		switch result.Status {
		case HealthStatusDown:
			health.Status = HealthStatusDown
		case HealthStatusDegraded:
			if health.Status != HealthStatusDown {
				health.Status = HealthStatusDegraded
			}
		}
	}
	return health
}

func runCheck(ctx context.Context, c HealthChecker) *ComponentHealth {
	start := time.Now()
	result, err := c.Check(ctx)
	if result == nil {
		result = &ComponentHealth{Name: c.Name()}
	}
	if err != nil {
		result.Status = HealthStatusDown
		result.Message = err.Error()
	}
	result.Name = c.Name()
	result.ResponseTimeMs = time.Since(start).Milliseconds()
	result.LastChecked = time.Now()
	return result
}

// HTTPHandler serves the full health report. Only a down component makes it 503.
func (h *HealthMonitor) HTTPHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		health := h.GetHealth(r.Context())

		statusCode := http.StatusOK
		if health.Status == HealthStatusDown {
			statusCode = http.StatusServiceUnavailable
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(statusCode)
		json.NewEncoder(w).Encode(health)
	}
}

// LivenessHandler returns a simple liveness check handler
func (h *HealthMonitor) LivenessHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]string{
			"status":    "alive",
			"timestamp": time.Now().Format(time.RFC3339),
		})
	}
}

// ReadinessHandler reports not_ready while any component is down
func (h *HealthMonitor) ReadinessHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		health := h.GetHealth(r.Context())

		w.Header().Set("Content-Type", "application/json")
		if health.Status == HealthStatusDown {
			w.WriteHeader(http.StatusServiceUnavailable)
			json.NewEncoder(w).Encode(map[string]interface{}{
				"status":     "not_ready",
				"components": health.Components,
			})
			return
		}
		json.NewEncoder(w).Encode(map[string]string{"status": "ready"})
	}
}

func systemInfo() SystemInfo {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)

	return SystemInfo{
		GoVersion:     runtime.Version(),
		NumGoroutines: runtime.NumGoroutine(),
		MemoryAllocMB: float64(m.Alloc) / 1024 / 1024,
		NumCPU:        runtime.NumCPU(),
	}
}
