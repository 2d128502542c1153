package prometheus

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"storefront-service/pkg/config"
)

var (
	// HTTP request metrics
	HttpRequestsTotal   prometheus.CounterVec
	HttpRequestDuration prometheus.HistogramVec

	// Authentication metrics
	AuthAttemptsCounter prometheus.Counter
	AuthSuccessCounter  prometheus.Counter
	AuthErrorsCounter   prometheus.Counter

	// Database operation metrics
	DbOperationDuration prometheus.HistogramVec

	// Cart metrics
	CartOperationsCounter prometheus.CounterVec

	// Checkout metrics
	OrdersCreatedCounter     prometheus.Counter
	CheckoutFailuresCounter  prometheus.CounterVec
	StockRejectionsCounter   prometheus.Counter
	OrderTransitionsCounter  prometheus.CounterVec
	InvalidTransitionCounter prometheus.Counter
)

// InitMetrics initializes Prometheus metrics with configuration
func InitMetrics(cfg *config.Config) {
	// Use metric prefix from configuration
	prefix := cfg.Metrics.Prefix

	// HTTP request metrics
	HttpRequestsTotal = *promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: prefix + "_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	HttpRequestDuration = *promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    prefix + "_http_request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path", "status"},
	)

	// Authentication metrics
	AuthAttemptsCounter = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: prefix + "_auth_attempts_total",
			Help: "Total number of authentication attempts",
		},
	)

	AuthSuccessCounter = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: prefix + "_auth_success_total",
			Help: "Total number of successful authentications",
		},
	)

	AuthErrorsCounter = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: prefix + "_auth_errors_total",
			Help: "Total number of authentication errors",
		},
	)

	// Database operation metrics
	DbOperationDuration = *promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    prefix + "_db_operation_duration_seconds",
			Help:    "Duration of database operations in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"operation_type"},
	)

	// Cart metrics
	CartOperationsCounter = *promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: prefix + "_cart_operations_total",
			Help: "Total number of cart operations",
		},
		[]string{"operation"},
	)

	// Checkout metrics
	OrdersCreatedCounter = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: prefix + "_orders_created_total",
			Help: "Total number of orders created from checkout",
		},
	)

	CheckoutFailuresCounter = *promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: prefix + "_checkout_failures_total",
			Help: "Total number of failed checkout attempts",
		},
		[]string{"reason"},
	)

	StockRejectionsCounter = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: prefix + "_stock_rejections_total",
			Help: "Total number of requests rejected for insufficient stock",
		},
	)

	OrderTransitionsCounter = *promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: prefix + "_order_transitions_total",
			Help: "Total number of order status transitions",
		},
		[]string{"event"},
	)

	InvalidTransitionCounter = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: prefix + "_invalid_transitions_total",
			Help: "Total number of rejected order status transitions",
		},
	)
}

// TrackDBOperation returns a function that records the duration of a database operation
func TrackDBOperation(operationType string) func(startTime time.Time) {
	return func(startTime time.Time) {
		duration := time.Since(startTime).Seconds()
		DbOperationDuration.WithLabelValues(operationType).Observe(duration)
	}
}

// RecordCartOperation increments the counter for cart operations
func RecordCartOperation(operation string) {
	CartOperationsCounter.WithLabelValues(operation).Inc()
}

// RecordOrderTransition increments the counter for order transitions
func RecordOrderTransition(event string) {
	OrderTransitionsCounter.WithLabelValues(event).Inc()
}
