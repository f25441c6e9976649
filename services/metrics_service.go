package services

import (
	"sync/atomic"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	requestCount = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "portal_request_total",
			Help: "Total portal requests",
		},
		[]string{"route"},
	)

	errorCount = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "portal_request_errors_total",
			Help: "Portal requests answered with status >= 400",
		},
		[]string{"route"},
	)

	requestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "portal_request_duration_seconds",
			Help:    "Duration of portal requests",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"route"},
	)

	activeSessions = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "portal_active_sessions",
			Help: "Visitor sessions currently held in memory",
		},
	)
)

// Prometheus 客户端无法直接读取计数，健康检查使用本地计数器
var (
	totalRequests atomic.Int64
	totalErrors   atomic.Int64
)

func init() {
	prometheus.MustRegister(requestCount)
	prometheus.MustRegister(errorCount)
	prometheus.MustRegister(requestDuration)
	prometheus.MustRegister(activeSessions)
}

func IncrementRequestCount(route string) {
	requestCount.WithLabelValues(route).Inc()
	totalRequests.Add(1)
}

func IncrementErrorCount(route string) {
	errorCount.WithLabelValues(route).Inc()
	totalErrors.Add(1)
}

func RecordRequestDuration(route string, seconds float64) {
	requestDuration.WithLabelValues(route).Observe(seconds)
}

func GetTotalRequestCount() int64 {
	return totalRequests.Load()
}

func GetTotalErrorCount() int64 {
	return totalErrors.Load()
}

func setActiveSessions(n int) {
	activeSessions.Set(float64(n))
}
