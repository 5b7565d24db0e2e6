// Package metrics 注册 Prometheus 指标，由 /metrics 暴露
package metrics

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	HTTPRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "capstone_http_requests_total",
			Help: "HTTP requests by route and status",
		},
		[]string{"method", "route", "status"},
	)

	HTTPDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "capstone_http_request_duration_seconds",
			Help:    "HTTP request latency",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)

	EmbeddingRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "capstone_embedding_requests_total",
			Help: "Calls to the embedding API by kind and result",
		},
		[]string{"kind", "result"},
	)

	EmbeddingDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "capstone_embedding_request_duration_seconds",
			Help:    "Latency of embedding API calls",
			Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 20},
		},
	)

	EmbeddingCache = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "capstone_embedding_cache_total",
			Help: "Embedding cache lookups by result",
		},
		[]string{"result"},
	)

	BreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "capstone_circuit_breaker_state",
			Help: "Circuit breaker state (0 closed, 1 half-open, 2 open)",
		},
		[]string{"name"},
	)

	DetectionRuns = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "capstone_duplicate_detection_total",
			Help: "Duplicate detection runs by trigger and outcome",
		},
		[]string{"trigger", "outcome"},
	)

	DetectionDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "capstone_duplicate_detection_duration_seconds",
			Help:    "Time spent on one duplicate detection run",
			Buckets: prometheus.DefBuckets,
		},
	)
)

func result(err error) string {
	if err != nil {
		return "error"
	}
	return "success"
}

func RecordEmbedding(kind string, d time.Duration, err error) {
	EmbeddingRequests.WithLabelValues(kind, result(err)).Inc()
	EmbeddingDuration.Observe(d.Seconds())
}

func RecordCache(hit bool) {
	if hit {
		EmbeddingCache.WithLabelValues("hit").Inc()
		return
	}
	EmbeddingCache.WithLabelValues("miss").Inc()
}

// RecordDetection outcome 为 match / clean / skipped
func RecordDetection(trigger, outcome string, d time.Duration) {
	DetectionRuns.WithLabelValues(trigger, outcome).Inc()
	DetectionDuration.Observe(d.Seconds())
}

// Middleware 按路由模板统计，避免 id 带来的高基数
func Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		HTTPRequests.WithLabelValues(c.Request.Method, route, strconv.Itoa(c.Writer.Status())).Inc()
		HTTPDuration.WithLabelValues(c.Request.Method, route).Observe(time.Since(start).Seconds())
	}
}

func Handler() gin.HandlerFunc {
	return gin.WrapH(promhttp.Handler())
}
