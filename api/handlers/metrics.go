package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/sparkup/sparkup-api/api"
)

// formatRouteMetrics converts duration fields to milliseconds for JSON serialization
func formatRouteMetrics(routes []api.RouteMetrics) []map[string]interface{} {
	result := make([]map[string]interface{}, len(routes))
	for i, route := range routes {
		result[i] = map[string]interface{}{
			"method":      route.Method,
			"path":        route.Path,
			"count":       route.Count,
			"errorCount":  route.ErrorCount,
			"conflicts":   route.Conflicts,
			"avgTime":     route.AvgTime.Milliseconds(),
			"minTime":     route.MinTime.Milliseconds(),
			"maxTime":     route.MaxTime.Milliseconds(),
			"lastRequest": route.LastRequest,
		}
	}
	return result
}

// formatTraces converts trace durations to milliseconds
func formatTraces(traces []api.RequestTrace) []map[string]interface{} {
	result := make([]map[string]interface{}, len(traces))
	for i, trace := range traces {
		result[i] = map[string]interface{}{
			"requestId":     trace.RequestID,
			"method":        trace.Method,
			"path":          trace.Path,
			"status":        trace.Status,
			"startTime":     trace.StartTime,
			"totalDuration": trace.TotalDuration.Milliseconds(),
			"error":         trace.Error,
			"metadata":      trace.Metadata,
		}
	}
	return result
}

// MetricsHandler handles metrics dashboard requests
type MetricsHandler struct {
	Collector *api.MetricsCollector
}

// GetMetricsDashboard returns the metrics dashboard data
func (m MetricsHandler) GetMetricsDashboard(w http.ResponseWriter, r *http.Request) {
	limit := 20
	if limitStr := r.URL.Query().Get("limit"); limitStr != "" {
		if parsed, err := strconv.Atoi(limitStr); err == nil && parsed > 0 {
			limit = parsed
		}
	}

	since := time.Now().Add(-1 * time.Hour)
	if sinceStr := r.URL.Query().Get("since"); sinceStr != "" {
		if parsed, err := time.ParseDuration(sinceStr); err == nil {
			since = time.Now().Add(-parsed)
		}
	}

	routes := m.Collector.GetRoutes()
	slowest := routes
	if len(slowest) > limit {
		slowest = slowest[:limit]
	}

	api.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"summary": m.Collector.GetSummary(),
		"routes": map[string]interface{}{
			"slowest":    formatRouteMetrics(slowest),
			"totalCount": len(routes),
		},
		"recentTraces": formatTraces(m.Collector.GetTraces(limit, since)),
		"filters": map[string]interface{}{
			"limit": limit,
			"since": since,
		},
	})
}

// GetMetricsSummary returns just the summary metrics
func (m MetricsHandler) GetMetricsSummary(w http.ResponseWriter, r *http.Request) {
	api.WriteJSON(w, http.StatusOK, m.Collector.GetSummary())
}
