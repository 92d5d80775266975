package middleware

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	httpRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "endpoint", "status"},
	)

	httpRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "endpoint"},
	)

	paymentsProcessedTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "payments_processed_total",
			Help: "Total number of payment intents processed",
		},
		[]string{"status"},
	)

	shipmentsCreatedTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "shipments_created_total",
			Help: "Total number of shipments created",
		},
		[]string{"carrier"},
	)

	aiGenerationsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ai_generations_total",
			Help: "Total number of AI text generations",
		},
		[]string{"kind", "mode"},
	)
)

func init() {
	prometheus.MustRegister(httpRequestsTotal)
	prometheus.MustRegister(httpRequestDuration)
	prometheus.MustRegister(paymentsProcessedTotal)
	prometheus.MustRegister(shipmentsCreatedTotal)
	prometheus.MustRegister(aiGenerationsTotal)
}

func MetricsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.FullPath()
		if path == "" {
			path = c.Request.URL.Path
		}

		c.Next()

		status := strconv.Itoa(c.Writer.Status())
		duration := time.Since(start).Seconds()

		httpRequestsTotal.WithLabelValues(c.Request.Method, path, status).Inc()
		httpRequestDuration.WithLabelValues(c.Request.Method, path).Observe(duration)
	}
}

func PrometheusHandler() gin.HandlerFunc {
	return gin.WrapH(promhttp.Handler())
}

func RecordPaymentProcessed(status string) {
	paymentsProcessedTotal.WithLabelValues(status).Inc()
}

func RecordShipmentCreated(carrier string) {
	shipmentsCreatedTotal.WithLabelValues(carrier).Inc()
}

func RecordAIGeneration(kind, mode string) {
	aiGenerationsTotal.WithLabelValues(kind, mode).Inc()
}
