package middleware

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	requestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route", "status"},
	)

	requestTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "route", "status"},
	)

	collectedEvents = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "analytics_events_collected_total",
			Help: "Total number of accepted analytics events by kind",
		},
		[]string{"event"},
	)

	forwardedLeads = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "leads_forwarded_total",
			Help: "Total number of lead forwarding attempts by outcome",
		},
		[]string{"outcome"},
	)
)

// ObserveCollectedEvent counts one accepted analytics event.
func ObserveCollectedEvent(kind string) {
	collectedEvents.WithLabelValues(kind).Inc()
}

// ObserveLeadForward counts one partner forwarding attempt.
func ObserveLeadForward(outcome string) {
	forwardedLeads.WithLabelValues(outcome).Inc()
}

// MetricsMiddleware collects metrics for HTTP requests
type MetricsMiddleware struct{}

// NewMetricsMiddleware creates a new metrics middleware
func NewMetricsMiddleware() *MetricsMiddleware {
	return &MetricsMiddleware{}
}

// CollectMetrics collects metrics for HTTP requests
func (m *MetricsMiddleware) CollectMetrics() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		method := c.Request.Method

		c.Next()

		// Use the route template, not the raw path, to keep label
		// cardinality bounded under ID-bearing URLs.
		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}

		duration := time.Since(start).Seconds()
		status := strconv.Itoa(c.Writer.Status())

		requestDuration.WithLabelValues(method, route, status).Observe(duration)
		requestTotal.WithLabelValues(method, route, status).Inc()
	}
}
