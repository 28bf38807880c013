package monitoring

import (
	"sort"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"github.com/your-username/poke-search-api/internal/cache"
)

// MetricType represents the type of metric
type MetricType string

const (
	MetricTypeCounter   MetricType = "counter"
	MetricTypeGauge     MetricType = "gauge"
	MetricTypeHistogram MetricType = "histogram"
)

// Metric represents a single metric
type Metric struct {
	Name        string            `json:"name"`
	Type        string            `json:"type"`
	Value       float64           `json:"value"`
	Labels      map[string]string `json:"labels,omitempty"`
	Timestamp   time.Time         `json:"timestamp"`
	Description string            `json:"description,omitempty"`
}

// MetricsCollector collects request and report metrics of the service
type MetricsCollector struct {
	mu           sync.RWMutex
	counters     map[string]*counterSeries
	gauges       map[string]*float64
	histograms   map[string]*Histogram
	descriptions map[string]string
	caches       map[string]CacheSource
	requestRate  *RateCounter
}

// CacheSource reports the counters of a cache
type CacheSource interface {
	GetStats() cache.CacheStats
}

// counterSeries is one labelled series of a counter
type counterSeries struct {
	name   string
	labels map[string]string
	value  int64
}

// Histogram tracks distribution of values
type Histogram struct {
	mu      sync.Mutex
	count   int64
	sum     float64
	min     float64
	max     float64
	buckets []float64
	values  []int64
}

// RateCounter tracks rate over time
type RateCounter struct {
	mu            sync.Mutex
	windowSize    time.Duration
	buckets       []int64
	bucketTime    time.Duration
	currentBucket int
	lastUpdate    time.Time
}

// latency buckets in milliseconds
var defaultBuckets = []float64{5, 10, 25, 50, 100, 250, 500, 1000, 2500, 5000}

var metricDescriptions = map[string]string{
	"http_requests_total":      "Total number of HTTP requests served",
	"http_request_duration_ms": "HTTP request duration in milliseconds",
	"reports_total":            "Total number of analytics reports computed",
	"report_duration_ms":       "Analytics report duration in milliseconds",
	"request_rate_per_second":  "Current rate of HTTP requests per second",
	"monitor_records":          "Number of request records held by the live monitor",
	"cache_hits":               "Cache lookups that found a live entry",
	"cache_misses":             "Cache lookups that found nothing",
	"cache_entries":            "Entries currently held by the cache",
	"cache_hit_rate":           "Fraction of cache lookups that hit",
}

// NewMetricsCollector creates a new metrics collector
func NewMetricsCollector() *MetricsCollector {
	m := &MetricsCollector{
		counters:     make(map[string]*counterSeries),
		gauges:       make(map[string]*float64),
		histograms:   make(map[string]*Histogram),
		descriptions: make(map[string]string),
		caches:       make(map[string]CacheSource),
		requestRate:  NewRateCounter(time.Minute, time.Second),
	}
	for name, description := range metricDescriptions {
		m.SetDescription(name, description)
	}
	return m
}

func histogramDescription(base, stat string) string {
	if base == "" {
		return ""
	}
	return base + " (" + stat + ")"
}

// TrackCache reports the counters of c under the cache label name
func (m *MetricsCollector) TrackCache(name string, c CacheSource) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.caches[name] = c
}

// seriesKey identifies one labelled series of a metric
func seriesKey(name string, labels map[string]string) string {
	if len(labels) == 0 {
		return name
	}
	keys := make([]string, 0, len(labels))
	for k := range labels {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	key := name
	for _, k := range keys {
		key += "," + k + "=" + labels[k]
	}
	return key
}

// IncrementCounter increments a counter series
func (m *MetricsCollector) IncrementCounter(name string, labels map[string]string, delta int64) {
	key := seriesKey(name, labels)

	m.mu.Lock()
	counter, exists := m.counters[key]
	if !exists {
		counter = &counterSeries{name: name, labels: labels}
		m.counters[key] = counter
	}
	m.mu.Unlock()

	atomic.AddInt64(&counter.value, delta)
}

// SetGauge sets a gauge metric value
func (m *MetricsCollector) SetGauge(name string, value float64) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.gauges[name]; !exists {
		m.gauges[name] = new(float64)
	}
	*m.gauges[name] = value
}

// RecordHistogram records a value in a histogram
func (m *MetricsCollector) RecordHistogram(name string, value float64) {
	m.mu.Lock()
	hist, exists := m.histograms[name]
	if !exists {
		hist = NewHistogram(defaultBuckets)
		m.histograms[name] = hist
	}
	m.mu.Unlock()

	hist.Record(value)
}

// SetDescription sets description for a metric
func (m *MetricsCollector) SetDescription(name string, description string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.descriptions[name] = description
}

// RecordRequest records one served HTTP request
func (m *MetricsCollector) RecordRequest(route string, status int, duration time.Duration) {
	m.IncrementCounter("http_requests_total", map[string]string{
		"route":  route,
		"status": strconv.Itoa(status),
	}, 1)
	m.RecordHistogram("http_request_duration_ms", float64(duration.Milliseconds()))
	m.requestRate.Increment(1)
}

// RecordReport records one report computation
func (m *MetricsCollector) RecordReport(report string, duration time.Duration, err error) {
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	m.IncrementCounter("reports_total", map[string]string{
		"report":  report,
		"outcome": outcome,
	}, 1)
	m.RecordHistogram("report_duration_ms", float64(duration.Milliseconds()))
}

// GetMetrics returns all current metrics
func (m *MetricsCollector) GetMetrics() []Metric {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var metrics []Metric
	timestamp := time.Now()

	for _, counter := range m.counters {
		metrics = append(metrics, Metric{
			Name:        counter.name,
			Type:        string(MetricTypeCounter),
			Value:       float64(atomic.LoadInt64(&counter.value)),
			Labels:      counter.labels,
			Timestamp:   timestamp,
			Description: m.descriptions[counter.name],
		})
	}

	for name, gauge := range m.gauges {
		metrics = append(metrics, Metric{
			Name:        name,
			Type:        string(MetricTypeGauge),
			Value:       *gauge,
			Timestamp:   timestamp,
			Description: m.descriptions[name],
		})
	}

	for name, hist := range m.histograms {
		for statName, value := range hist.GetStats() {
			metrics = append(metrics, Metric{
				Name:        name + "_" + statName,
				Type:        string(MetricTypeGauge),
				Value:       value,
				Timestamp:   timestamp,
				Description: histogramDescription(m.descriptions[name], statName),
			})
		}
	}

	for name, c := range m.caches {
		stats := c.GetStats()
		labels := map[string]string{"cache": name}
		for metric, value := range map[string]float64{
			"cache_hits":     float64(stats.Hits),
			"cache_misses":   float64(stats.Misses),
			"cache_entries":  float64(stats.Size),
			"cache_hit_rate": stats.HitRate,
		} {
			metrics = append(metrics, Metric{
				Name:        metric,
				Type:        string(MetricTypeGauge),
				Value:       value,
				Labels:      labels,
				Timestamp:   timestamp,
				Description: m.descriptions[metric],
			})
		}
	}

	metrics = append(metrics, Metric{
		Name:        "request_rate_per_second",
		Type:        string(MetricTypeGauge),
		Value:       m.requestRate.GetRate(),
		Timestamp:   timestamp,
		Description: m.descriptions["request_rate_per_second"],
	})

	sort.Slice(metrics, func(i, j int) bool { return metrics[i].Name < metrics[j].Name })
	return metrics
}

// NewHistogram creates a new histogram
func NewHistogram(buckets []float64) *Histogram {
	return &Histogram{
		buckets: buckets,
		values:  make([]int64, len(buckets)+1),
		min:     1e9,
		max:     -1e9,
	}
}

// Record records a value in the histogram
func (h *Histogram) Record(value float64) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.count++
	h.sum += value

	if value < h.min {
		h.min = value
	}
	if value > h.max {
		h.max = value
	}

	bucketIndex := len(h.buckets)
	for i, threshold := range h.buckets {
		if value <= threshold {
			bucketIndex = i
			break
		}
	}
	h.values[bucketIndex]++
}

// GetStats returns histogram statistics
func (h *Histogram) GetStats() map[string]float64 {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.count == 0 {
		return map[string]float64{
			"count": 0, "sum": 0, "avg": 0, "min": 0, "max": 0, "p50": 0, "p90": 0, "p99": 0,
		}
	}

	return map[string]float64{
		"count": float64(h.count),
		"sum":   h.sum,
		"avg":   h.sum / float64(h.count),
		"min":   h.min,
		"max":   h.max,
		"p50":   h.getPercentile(0.5),
		"p90":   h.getPercentile(0.9),
		"p99":   h.getPercentile(0.99),
	}
}

// bucket upper bound containing the p-th value, max for the overflow bucket
func (h *Histogram) getPercentile(p float64) float64 {
	target := int64(float64(h.count) * p)
	cumulative := int64(0)

	for i, count := range h.values {
		cumulative += count
		if cumulative >= target {
			if i < len(h.buckets) {
				return h.buckets[i]
			}
			return h.max
		}
	}
	return h.max
}

// NewRateCounter creates a new rate counter
func NewRateCounter(windowSize, bucketTime time.Duration) *RateCounter {
	return &RateCounter{
		windowSize: windowSize,
		buckets:    make([]int64, int(windowSize/bucketTime)),
		bucketTime: bucketTime,
		lastUpdate: time.Now(),
	}
}

// Increment increments the counter
func (r *RateCounter) Increment(count int) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.rotateBuckets()
	r.buckets[r.currentBucket] += int64(count)
}

// GetRate returns the current rate per second
func (r *RateCounter) GetRate() float64 {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.rotateBuckets()

	sum := int64(0)
	for _, count := range r.buckets {
		sum += count
	}
	return float64(sum) / r.windowSize.Seconds()
}

func (r *RateCounter) rotateBuckets() {
	now := time.Now()
	bucketsToRotate := int(now.Sub(r.lastUpdate) / r.bucketTime)
	if bucketsToRotate <= 0 {
		return
	}

	if bucketsToRotate >= len(r.buckets) {
		for i := range r.buckets {
			r.buckets[i] = 0
		}
		r.currentBucket = 0
	} else {
		for i := 0; i < bucketsToRotate; i++ {
			r.currentBucket = (r.currentBucket + 1) % len(r.buckets)
			r.buckets[r.currentBucket] = 0
		}
	}
	r.lastUpdate = now
}
