package metrics

import (
	"fmt"
	"sort"
	"strconv"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const (
	// maxSamplesPerEndpoint bounds the per-endpoint latency buffer.
	maxSamplesPerEndpoint = 1000
	// windowRetention is how long timestamped samples are kept for windowed
	// queries.
	windowRetention = time.Hour

	// p95MinSamples and p99MinSamples are the thresholds below which a
	// percentile is reported as nil instead of a misleading value.
	p95MinSamples = 20
	p99MinSamples = 100
)

var timeNow = time.Now

type windowSample struct {
	at       time.Time
	duration float64
	isError  bool
}

type endpointData struct {
	durations []float64
	count     int64
	errors    int64
}

// EndpointSnapshot holds rolling statistics for one (method, endpoint) pair.
// Percentiles are nil until enough samples exist.
type EndpointSnapshot struct {
	Count     int64    `json:"count"`
	Errors    int64    `json:"errors"`
	ErrorRate float64  `json:"errorRate"`
	AvgTime   float64  `json:"avgTime"`
	Median    float64  `json:"median"`
	P95       *float64 `json:"p95"`
	P99       *float64 `json:"p99"`
	MinTime   float64  `json:"minTime"`
	MaxTime   float64  `json:"maxTime"`
}

// GlobalSnapshot holds process-wide request statistics.
type GlobalSnapshot struct {
	UptimeSeconds     float64 `json:"uptimeSeconds"`
	TotalRequests     int64   `json:"totalRequests"`
	TotalErrors       int64   `json:"totalErrors"`
	RequestsPerMinute int     `json:"requestsPerMinute"`
}

// Snapshot is the full aggregator state at one point in time.
type Snapshot struct {
	Endpoints map[string]EndpointSnapshot `json:"endpoints"`
	Global    GlobalSnapshot              `json:"global"`
}

// Aggregator records per-endpoint latency and error samples and answers
// rolling-window queries. A single mutex guards all state; it is shared by
// every request-handling goroutine.
type Aggregator struct {
	mu        sync.Mutex
	startedAt time.Time
	endpoints map[string]*endpointData
	window    []windowSample

	totalRequests int64
	totalErrors   int64

	requestsTotal   *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
}

// NewAggregator creates an aggregator. When reg is non-nil, a request
// counter and duration histogram are registered with it so the same samples
// are exported at /metrics.
func NewAggregator(reg prometheus.Registerer) *Aggregator {
	a := &Aggregator{
		startedAt: timeNow(),
		endpoints: make(map[string]*endpointData),
	}

	if reg != nil {
		a.requestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total HTTP requests by method, endpoint and status.",
		}, []string{"method", "endpoint", "status"})
		a.requestDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request latency by method and endpoint.",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "endpoint"})
		reg.MustRegister(a.requestsTotal, a.requestDuration)
	}

	return a
}

// Record appends one request sample. Error paths must be recorded as well:
// characterizing failure rates is the point of the aggregator.
func (a *Aggregator) Record(endpoint, method string, statusCode int, duration float64) {
	key := endpointKey(method, endpoint)
	isError := statusCode >= 400
	now := timeNow()

	a.mu.Lock()

	data, ok := a.endpoints[key]
	if !ok {
		data = &endpointData{}
		a.endpoints[key] = data
	}

	data.durations = append(data.durations, duration)
	if len(data.durations) > maxSamplesPerEndpoint {
		data.durations = data.durations[len(data.durations)-maxSamplesPerEndpoint:]
	}
	data.count++
	if isError {
		data.errors++
	}

	a.totalRequests++
	if isError {
		a.totalErrors++
	}

	a.window = append(a.window, windowSample{at: now, duration: duration, isError: isError})
	a.pruneWindow(now)

	a.mu.Unlock()

	if a.requestsTotal != nil {
		a.requestsTotal.WithLabelValues(method, endpoint, strconv.Itoa(statusCode)).Inc()
		a.requestDuration.WithLabelValues(method, endpoint).Observe(duration)
	}
}

// GetSnapshot computes per-endpoint and global statistics.
func (a *Aggregator) GetSnapshot() Snapshot {
	a.mu.Lock()
	defer a.mu.Unlock()

	now := timeNow()
	perEndpoint := make(map[string]EndpointSnapshot, len(a.endpoints))
	for key, data := range a.endpoints {
		perEndpoint[key] = summarize(data)
	}

	return Snapshot{
		Endpoints: perEndpoint,
		Global: GlobalSnapshot{
			UptimeSeconds:     now.Sub(a.startedAt).Seconds(),
			TotalRequests:     a.totalRequests,
			TotalErrors:       a.totalErrors,
			RequestsPerMinute: a.countInWindowLocked(now, time.Minute),
		},
	}
}

// CountInWindow returns the number of requests in the trailing window.
func (a *Aggregator) CountInWindow(window time.Duration) int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.countInWindowLocked(timeNow(), window)
}

// ErrorCountInWindow returns the number of failed requests in the trailing
// window.
func (a *Aggregator) ErrorCountInWindow(window time.Duration) int {
	a.mu.Lock()
	defer a.mu.Unlock()

	cutoff := timeNow().Add(-window)
	count := 0
	for _, s := range a.window {
		if s.isError && !s.at.Before(cutoff) {
			count++
		}
	}
	return count
}

// AvgLatencyInWindow returns the mean latency over the trailing window, or
// zero when no samples fall inside it.
func (a *Aggregator) AvgLatencyInWindow(window time.Duration) float64 {
	a.mu.Lock()
	defer a.mu.Unlock()

	cutoff := timeNow().Add(-window)
	sum := 0.0
	count := 0
	for _, s := range a.window {
		if !s.at.Before(cutoff) {
			sum += s.duration
			count++
		}
	}
	if count == 0 {
		return 0
	}
	return sum / float64(count)
}

func (a *Aggregator) countInWindowLocked(now time.Time, window time.Duration) int {
	cutoff := now.Add(-window)
	count := 0
	for _, s := range a.window {
		if !s.at.Before(cutoff) {
			count++
		}
	}
	return count
}

// pruneWindow drops samples older than the retention horizon. Caller must
// hold the lock.
func (a *Aggregator) pruneWindow(now time.Time) {
	cutoff := now.Add(-windowRetention)
	first := 0
	for first < len(a.window) && a.window[first].at.Before(cutoff) {
		first++
	}
	if first > 0 {
		a.window = append([]windowSample(nil), a.window[first:]...)
	}
}

func summarize(data *endpointData) EndpointSnapshot {
	n := len(data.durations)
	snap := EndpointSnapshot{
		Count:  data.count,
		Errors: data.errors,
	}
	if data.count > 0 {
		snap.ErrorRate = float64(data.errors) / float64(data.count)
	}
	if n == 0 {
		return snap
	}

	sorted := append([]float64(nil), data.durations...)
	sort.Float64s(sorted)

	sum := 0.0
	for _, d := range sorted {
		sum += d
	}
	snap.AvgTime = sum / float64(n)
	snap.Median = sorted[n/2]
	snap.MinTime = sorted[0]
	snap.MaxTime = sorted[n-1]

	if n >= p95MinSamples {
		v := sorted[int(float64(n)*0.95)]
		snap.P95 = &v
	}
	if n >= p99MinSamples {
		v := sorted[int(float64(n)*0.99)]
		snap.P99 = &v
	}
	return snap
}

func endpointKey(method, endpoint string) string {
	return fmt.Sprintf("%s %s", method, endpoint)
}
