package api

import (
	"context"
	"regexp"
	"sort"
	"sync"
	"time"
)

// RequestTrace tracks timing for a single request
type RequestTrace struct {
	RequestID     string            `json:"requestId"`
	Method        string            `json:"method"`
	Path          string            `json:"path"`
	Status        int               `json:"status"`
	StartTime     time.Time         `json:"startTime"`
	TotalDuration time.Duration     `json:"totalDuration"`
	Error         string            `json:"error,omitempty"`
	Metadata      map[string]string `json:"metadata,omitempty"`
}

// RouteMetrics aggregates metrics for a specific route
type RouteMetrics struct {
	Method      string        `json:"method"`
	Path        string        `json:"path"`
	Count       int64         `json:"count"`
	ErrorCount  int64         `json:"errorCount"`
	Conflicts   int64         `json:"conflicts"`
	TotalTime   time.Duration `json:"totalTime"`
	AvgTime     time.Duration `json:"avgTime"`
	MinTime     time.Duration `json:"minTime"`
	MaxTime     time.Duration `json:"maxTime"`
	LastRequest time.Time     `json:"lastRequest"`
}

// Summary is the collector-wide view served by the metrics endpoints
type Summary struct {
	TotalRequests int64     `json:"totalRequests"`
	TotalErrors   int64     `json:"totalErrors"`
	ErrorRate     float64   `json:"errorRate"`
	StaleWrites   int64     `json:"staleWrites"`
	WindowStart   time.Time `json:"windowStart"`
	RouteCount    int       `json:"routeCount"`
	TraceCount    int       `json:"traceCount"`
}

// MetricsCollector collects and aggregates request metrics. Traces are handed to a
// background goroutine through a buffered channel and dropped when it is full, so
// recording never blocks a request.
type MetricsCollector struct {
	mu            sync.RWMutex
	traces        []RequestTrace
	maxTraces     int
	routeMetrics  map[string]*RouteMetrics
	windowStart   time.Time
	totalRequests int64
	totalErrors   int64
	staleWrites   int64
	traceChan     chan RequestTrace
}

// NewMetricsCollector returns a collector keeping at most maxTraces recent traces
func NewMetricsCollector(maxTraces int) *MetricsCollector {
	return &MetricsCollector{
		traces:       make([]RequestTrace, 0, maxTraces),
		maxTraces:    maxTraces,
		routeMetrics: make(map[string]*RouteMetrics),
		windowStart:  time.Now(),
		traceChan:    make(chan RequestTrace, 1000),
	}
}

// Run processes recorded traces until ctx is done
func (mc *MetricsCollector) Run(ctx context.Context) {
	for {
		select {
		case trace := <-mc.traceChan:
			mc.processTrace(trace)
		case <-ctx.Done():
			return
		}
	}
}

// RecordTrace queues a trace for aggregation without blocking
func (mc *MetricsCollector) RecordTrace(trace RequestTrace) {
	select {
	case mc.traceChan <- trace:
	default:
	}
}

func (mc *MetricsCollector) processTrace(trace RequestTrace) {
	mc.mu.Lock()
	defer mc.mu.Unlock()

	if len(mc.traces) >= mc.maxTraces && mc.maxTraces > 0 {
		mc.traces = mc.traces[1:]
	}
	mc.traces = append(mc.traces, trace)

	path := normalizeRoutePath(trace.Path)
	routeKey := trace.Method + " " + path
	metrics, exists := mc.routeMetrics[routeKey]
	if !exists {
		metrics = &RouteMetrics{
			Method:  trace.Method,
			Path:    path,
			MinTime: trace.TotalDuration,
		}
		mc.routeMetrics[routeKey] = metrics
	}

	metrics.Count++
	metrics.TotalTime += trace.TotalDuration
	metrics.AvgTime = metrics.TotalTime / time.Duration(metrics.Count)
	metrics.LastRequest = trace.StartTime
	if trace.TotalDuration < metrics.MinTime {
		metrics.MinTime = trace.TotalDuration
	}
	if trace.TotalDuration > metrics.MaxTime {
		metrics.MaxTime = trace.TotalDuration
	}

	mc.totalRequests++
	if trace.Status >= 400 {
		metrics.ErrorCount++
		mc.totalErrors++
	}
	if trace.Status == 409 {
		metrics.Conflicts++
		mc.staleWrites++
	}
}

// GetTraces returns up to limit traces, oldest first, that started after since
func (mc *MetricsCollector) GetTraces(limit int, since time.Time) []RequestTrace {
	mc.mu.RLock()
	defer mc.mu.RUnlock()

	filtered := []RequestTrace{}
	for i := len(mc.traces) - 1; i >= 0 && len(filtered) < limit; i-- {
		if mc.traces[i].StartTime.After(since) {
			filtered = append(filtered, mc.traces[i])
		}
	}
	for i, j := 0, len(filtered)-1; i < j; i, j = i+1, j-1 {
		filtered[i], filtered[j] = filtered[j], filtered[i]
	}
	return filtered
}

// GetRoutes returns copies of the route metrics, slowest average first
func (mc *MetricsCollector) GetRoutes() []RouteMetrics {
	mc.mu.RLock()
	defer mc.mu.RUnlock()

	routes := make([]RouteMetrics, 0, len(mc.routeMetrics))
	for _, m := range mc.routeMetrics {
		routes = append(routes, *m)
	}
	sort.Slice(routes, func(i, j int) bool {
		if routes[i].AvgTime == routes[j].AvgTime {
			return routes[i].Method+routes[i].Path < routes[j].Method+routes[j].Path
		}
		return routes[i].AvgTime > routes[j].AvgTime
	})
	return routes
}

// GetSummary returns overall summary metrics
func (mc *MetricsCollector) GetSummary() Summary {
	mc.mu.RLock()
	defer mc.mu.RUnlock()

	var errorRate float64
	if mc.totalRequests > 0 {
		errorRate = float64(mc.totalErrors) / float64(mc.totalRequests)
	}
	return Summary{
		TotalRequests: mc.totalRequests,
		TotalErrors:   mc.totalErrors,
		ErrorRate:     errorRate,
		StaleWrites:   mc.staleWrites,
		WindowStart:   mc.windowStart,
		RouteCount:    len(mc.routeMetrics),
		TraceCount:    len(mc.traces),
	}
}

var (
	objectIDSegment = regexp.MustCompile(`/[0-9a-fA-F]{24}(/|$)`)
	uuidSegment     = regexp.MustCompile(`/[0-9a-fA-F]{8}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{12}(/|$)`)
)

// normalizeRoutePath replaces ids in a path with {id} so that requests for different
// startups and users aggregate under one route:
//   - /api/startups/507f1f77bcf86cd799439011/team -> /api/startups/{id}/team
func normalizeRoutePath(path string) string {
	path = objectIDSegment.ReplaceAllString(path, "/{id}$1")
	path = uuidSegment.ReplaceAllString(path, "/{id}$1")
	if len(path) > 1 && path[len(path)-1] == '/' {
		path = path[:len(path)-1]
	}
	return path
}

type requestTraceContextKey struct{}

// WithRequestTrace adds request trace to context
func WithRequestTrace(ctx context.Context, trace *RequestTrace) context.Context {
	return context.WithValue(ctx, requestTraceContextKey{}, trace)
}

// RequestIDFromContext returns the id the metrics middleware gave the request
func RequestIDFromContext(ctx context.Context) string {
	if trace, ok := ctx.Value(requestTraceContextKey{}).(*RequestTrace); ok {
		return trace.RequestID
	}
	return ""
}
