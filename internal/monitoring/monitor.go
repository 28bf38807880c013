package monitoring

import (
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/your-username/poke-search-api/internal/analytics"
	"github.com/your-username/poke-search-api/internal/logger"
	"github.com/your-username/poke-search-api/internal/models"
)

// RecordFunction is the function label of every live-recorded request
const RecordFunction = "log_request"

// Monitor is the process-wide, append-only store of live request records.
// It grows for the life of the process.
type Monitor struct {
	mu      sync.RWMutex
	records []models.Record

	sink    *logger.Sink
	loggers map[string]*logger.Logger
	now     func() time.Time
}

// NewMonitor creates a monitor. Each record is also written to sink when it is not nil.
func NewMonitor(sink *logger.Sink) *Monitor {
	return &Monitor{
		sink:    sink,
		loggers: make(map[string]*logger.Logger),
		now:     time.Now,
	}
}

// Record appends one request observation stamped with the current time
func (m *Monitor) Record(module, api string, statusCode, latencyMs int) models.Record {
	rec := models.Record{
		ID:        uuid.New().String(),
		Timestamp: m.now(),
		Module:    module,
		Submodule: api,
		Function:  RecordFunction,
		Message:   fmt.Sprintf("Request logged | Status: %d | Latency: %dms", statusCode, latencyMs),
		Latency:   latencyMs,
		Status:    statusCode,
	}

	m.mu.Lock()
	m.records = append(m.records, rec)
	l := m.loggerFor(module)
	m.mu.Unlock()

	l.Log(api, RecordFunction, rec.Message, time.Time{})
	return rec
}

// caller holds m.mu
func (m *Monitor) loggerFor(module string) *logger.Logger {
	if m.sink == nil {
		return logger.Nop()
	}
	l, ok := m.loggers[module]
	if !ok {
		l = m.sink.Logger(module)
		m.loggers[module] = l
	}
	return l
}

// Records returns a snapshot of every record so far
func (m *Monitor) Records() ([]models.Record, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	snapshot := make([]models.Record, len(m.records))
	copy(snapshot, m.records)
	return snapshot, nil
}

// Len returns the number of records
func (m *Monitor) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.records)
}

func (m *Monitor) between(module string, start, end time.Time) []models.Record {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var filtered []models.Record
	for _, r := range m.records {
		if r.Module == module && !r.Timestamp.Before(start) && !r.Timestamp.After(end) {
			filtered = append(filtered, r)
		}
	}
	return filtered
}

// GetLatency averages latency of module within [start, end].
// The boolean is false when nothing was recorded in the range.
func (m *Monitor) GetLatency(module string, start, end time.Time) (float64, bool) {
	records := m.between(module, start, end)
	if len(records) == 0 {
		return 0, false
	}
	return analytics.MeanLatency(records), true
}

// GetAvailability is the availability of module over the last days days
func (m *Monitor) GetAvailability(module string, days int) (float64, bool) {
	end := m.now()
	records := m.between(module, end.AddDate(0, 0, -days), end)
	if len(records) == 0 {
		return 0, false
	}
	_, _, pct := analytics.Availability(records)
	return pct, true
}

// Recorder is the part of Monitor the data services depend on
type Recorder interface {
	Record(module, api string, statusCode, latencyMs int) models.Record
}
