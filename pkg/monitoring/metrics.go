package monitoring

import (
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// MetricsCollector manages Prometheus metrics for a service
type MetricsCollector struct {
	serviceName string

	httpRequestsTotal   *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec
	serviceInfo         *prometheus.GaugeVec

	workflowRunsTotal *prometheus.CounterVec
	phaseDuration     *prometheus.HistogramVec
	activeRuns        prometheus.Gauge
}

// NewMetricsCollector creates a new metrics collector for a service
func NewMetricsCollector(serviceName, version, commit string) *MetricsCollector {
	// Prometheus metric names cannot contain hyphens
	sanitized := strings.ReplaceAll(serviceName, "-", "_")

	mc := &MetricsCollector{serviceName: sanitized}

	mc.httpRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: sanitized + "_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "endpoint", "status"},
	)

	mc.httpRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    sanitized + "_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "endpoint"},
	)

	mc.serviceInfo = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: sanitized + "_service_info",
			Help: "Service information",
		},
		[]string{"version", "commit"},
	)

	mc.workflowRunsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: sanitized + "_workflow_runs_total",
			Help: "Total number of workflow runs by terminal status",
		},
		[]string{"status"},
	)

	mc.phaseDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    sanitized + "_phase_duration_seconds",
			Help:    "Workflow phase duration in seconds",
			Buckets: []float64{1, 5, 15, 30, 60, 120, 300, 600},
		},
		[]string{"phase", "status"},
	)

	mc.activeRuns = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: sanitized + "_active_runs",
			Help: "Number of workflow runs currently in progress",
		},
	)

	prometheus.MustRegister(
		mc.httpRequestsTotal,
		mc.httpRequestDuration,
		mc.serviceInfo,
		mc.workflowRunsTotal,
		mc.phaseDuration,
		mc.activeRuns,
	)

	mc.serviceInfo.WithLabelValues(version, commit).Set(1)

	return mc
}

// RecordWorkflowRun records a run reaching a terminal status.
func (mc *MetricsCollector) RecordWorkflowRun(status string) {
	mc.workflowRunsTotal.WithLabelValues(status).Inc()
}

// ObservePhaseDuration records how long one workflow phase took.
func (mc *MetricsCollector) ObservePhaseDuration(phase, status string, d time.Duration) {
	mc.phaseDuration.WithLabelValues(phase, status).Observe(d.Seconds())
}

// RunStarted increments the active run gauge.
func (mc *MetricsCollector) RunStarted() { mc.activeRuns.Inc() }

// RunFinished decrements the active run gauge.
func (mc *MetricsCollector) RunFinished() { mc.activeRuns.Dec() }

// Middleware returns a gin middleware that records HTTP metrics.
func (mc *MetricsCollector) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		endpoint := c.FullPath()
		if endpoint == "" {
			endpoint = "unmatched"
		}
		mc.httpRequestsTotal.WithLabelValues(
			c.Request.Method, endpoint, strconv.Itoa(c.Writer.Status()),
		).Inc()
		mc.httpRequestDuration.WithLabelValues(
			c.Request.Method, endpoint,
		).Observe(time.Since(start).Seconds())
	}
}

// Handler returns the Prometheus scrape handler wrapped for gin.
func (mc *MetricsCollector) Handler() gin.HandlerFunc {
	h := promhttp.Handler()
	return func(c *gin.Context) {
		h.ServeHTTP(c.Writer, c.Request)
	}
}
