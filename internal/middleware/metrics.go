// file: internal/middleware/metrics.go
package middleware

import (
	"maps"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gorilla/mux"
	"golang.org/x/exp/slices"
)

// ===============================
// METRICS DATA STRUCTURES
// ===============================

// APIMetrics contains process-wide request counters
type APIMetrics struct {
	TotalRequests  int64   `json:"total_requests"`
	ErrorRequests  int64   `json:"error_requests"`
	Status2xx      int64   `json:"status_2xx"`
	Status4xx      int64   `json:"status_4xx"`
	Status5xx      int64   `json:"status_5xx"`
	ActiveRequests int64   `json:"active_requests"`
	AvgResponseMs  float64 `json:"avg_response_ms"`
	MaxResponseMs  float64 `json:"max_response_ms"`
}

// EndpointMetrics contains metrics for one route template
type EndpointMetrics struct {
	Endpoint      string        `json:"endpoint"`
	RequestCount  int64         `json:"request_count"`
	ErrorCount    int64         `json:"error_count"`
	AvgDurationMs float64       `json:"avg_duration_ms"`
	LastAccess    time.Time     `json:"last_access"`
	StatusCodes   map[int]int64 `json:"status_codes"`

	totalDuration time.Duration
}

// MetricsSnapshot is what the metrics endpoint reports
type MetricsSnapshot struct {
	API       APIMetrics         `json:"api"`
	Endpoints []*EndpointMetrics `json:"endpoints"`
	Uptime    string             `json:"uptime"`
}

// MetricsCollector aggregates request metrics in memory
type MetricsCollector struct {
	started time.Time

	total, errors, s2xx, s4xx, s5xx, active int64

	mu        sync.Mutex
	totalTime time.Duration
	maxTime   time.Duration
	endpoints map[string]*EndpointMetrics
}

// NewMetricsCollector creates an empty collector
func NewMetricsCollector() *MetricsCollector {
	return &MetricsCollector{
		started:   time.Now(),
		endpoints: make(map[string]*EndpointMetrics),
	}
}

// APIMetricsMiddleware records every request under its route template, so
// /api/v1/users/user_1 and /api/v1/users/user_2 share one entry
func APIMetricsMiddleware(collector *MetricsCollector) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			atomic.AddInt64(&collector.active, 1)
			defer atomic.AddInt64(&collector.active, -1)

			rw := wrapResponseWriter(w)
			next.ServeHTTP(rw, r)

			collector.record(r.Method+" "+routeTemplate(r), rw.status, time.Since(start))
		})
	}
}

func routeTemplate(r *http.Request) string {
	if route := mux.CurrentRoute(r); route != nil {
		if tpl, err := route.GetPathTemplate(); err == nil {
			return tpl
		}
	}
	return "unmatched"
}

func (c *MetricsCollector) record(endpoint string, status int, d time.Duration) {
	atomic.AddInt64(&c.total, 1)
	switch {
	case status >= 500:
		atomic.AddInt64(&c.s5xx, 1)
		atomic.AddInt64(&c.errors, 1)
	case status >= 400:
		atomic.AddInt64(&c.s4xx, 1)
		atomic.AddInt64(&c.errors, 1)
	case status >= 200 && status < 300:
		atomic.AddInt64(&c.s2xx, 1)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.totalTime += d
	c.maxTime = max(c.maxTime, d)

	em, ok := c.endpoints[endpoint]
	if !ok {
		em = &EndpointMetrics{Endpoint: endpoint, StatusCodes: make(map[int]int64)}
		c.endpoints[endpoint] = em
	}
	em.RequestCount++
	if status >= 400 {
		em.ErrorCount++
	}
	em.totalDuration += d
	em.AvgDurationMs = msec(em.totalDuration) / float64(em.RequestCount)
	em.LastAccess = time.Now()
	em.StatusCodes[status]++
}

// GetSnapshot copies the current metrics, busiest endpoints first
func (c *MetricsCollector) GetSnapshot() *MetricsSnapshot {
	snap := &MetricsSnapshot{
		API: APIMetrics{
			TotalRequests:  atomic.LoadInt64(&c.total),
			ErrorRequests:  atomic.LoadInt64(&c.errors),
			Status2xx:      atomic.LoadInt64(&c.s2xx),
			Status4xx:      atomic.LoadInt64(&c.s4xx),
			Status5xx:      atomic.LoadInt64(&c.s5xx),
			ActiveRequests: atomic.LoadInt64(&c.active),
		},
		Uptime: time.Since(c.started).Round(time.Second).String(),
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if snap.API.TotalRequests > 0 {
		snap.API.AvgResponseMs = msec(c.totalTime) / float64(snap.API.TotalRequests)
	}
	snap.API.MaxResponseMs = msec(c.maxTime)

	for _, em := range c.endpoints {
		cp := *em
		cp.StatusCodes = maps.Clone(em.StatusCodes)
		snap.Endpoints = append(snap.Endpoints, &cp)
	}
	slices.SortFunc(snap.Endpoints, func(a, b *EndpointMetrics) int {
		if a.RequestCount != b.RequestCount {
			return int(b.RequestCount - a.RequestCount)
		}
		if a.Endpoint < b.Endpoint {
			return -1
		}
		return 1
	})
	return snap
}

func msec(d time.Duration) float64 {
	return float64(d) / float64(time.Millisecond)
}
