package prometheus

import (
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Counter metrics
var (
	// Login counter
	LoginCounter = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "negocio_login_total",
			Help: "Total number of login attempts",
		},
	)

	// Negocio lifecycle operations
	NegocioOperationCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "negocio_operations_total",
			Help: "Total number of negocio operations",
		},
		[]string{"operation"}, // operation can be "create", "list", "update", "delete", etc.
	)

	// Nested resource operations by kind
	RecursoOperationCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "negocio_recurso_operations_total",
			Help: "Total number of nested resource operations",
		},
		[]string{"kind", "operation"},
	)

	// HTTP request counter by endpoint and status
	HTTPRequestCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "negocio_http_requests_total",
			Help: "Total number of HTTP requests by endpoint and status",
		},
		[]string{"endpoint", "method", "status"},
	)

	// Error counters
	AuthErrorCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "negocio_auth_errors_total",
			Help: "Total number of authentication errors",
		},
		[]string{"type"}, // type can be "invalid_credentials", "invalid_token", "superadmin_key" etc.
	)

	// Upload counter
	UploadCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "negocio_uploads_total",
			Help: "Total number of image upload operations",
		},
		[]string{"operation"}, // "store" or "delete"
	)
)

// Histogram metrics
var (
	// Request duration
	RequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "negocio_request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"endpoint", "method", "status"},
	)

	// Database operation duration
	DBOperationDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "negocio_db_operation_duration_seconds",
			Help:    "Duration of database operations in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"operation"}, // operation can be "query", "insert", "update", "delete"
	)
)

// Gauge metrics
var (
	// Active tenants
	ActiveNegociosGauge = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "negocio_active_negocios",
			Help: "Number of currently active negocios",
		},
	)

	// System info
	InfoGauge = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "negocio_info",
			Help: "Information about the negocio service",
		},
		[]string{"version"},
	)
)

func init() {
	// Register counters
	prometheus.MustRegister(LoginCounter)
	prometheus.MustRegister(NegocioOperationCounter)
	prometheus.MustRegister(RecursoOperationCounter)
	prometheus.MustRegister(HTTPRequestCounter)
	prometheus.MustRegister(AuthErrorCounter)
	prometheus.MustRegister(UploadCounter)

	// Register histograms
	prometheus.MustRegister(RequestDuration)
	prometheus.MustRegister(DBOperationDuration)

	// Register gauges
	prometheus.MustRegister(ActiveNegociosGauge)
	prometheus.MustRegister(InfoGauge)

	// Set initial service info
	InfoGauge.With(prometheus.Labels{"version": "1.0.0"}).Set(1)
}

// GetPrometheusHandler returns an HTTP handler for the Prometheus metrics
func GetPrometheusHandler() http.Handler {
	return promhttp.Handler()
}

// TrackDBOperation measures database operation durations
func TrackDBOperation(operation string) func(time.Time) {
	startTime := time.Now()
	return func(endTime time.Time) {
		duration := time.Since(startTime).Seconds()
		DBOperationDuration.With(prometheus.Labels{
			"operation": operation,
		}).Observe(duration)
	}
}

// MetricsMiddleware creates a middleware function that captures metrics for each request
func MetricsMiddleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()

			// Execute the request handler
			err := next(c)

			// Record request duration
			duration := time.Since(start).Seconds()
			status := strconv.Itoa(c.Response().Status)
			endpoint := c.Path()
			method := c.Request().Method

			// Record metrics
			RequestDuration.With(prometheus.Labels{
				"endpoint": endpoint,
				"method":   method,
				"status":   status,
			}).Observe(duration)

			HTTPRequestCounter.With(prometheus.Labels{
				"endpoint": endpoint,
				"method":   method,
				"status":   status,
			}).Inc()

			return err
		}
	}
}

// RecordAuthError records an authentication error by type
func RecordAuthError(errorType string) {
	AuthErrorCounter.With(prometheus.Labels{"type": errorType}).Inc()
}

// RecordNegocioOperation records a negocio lifecycle operation
func RecordNegocioOperation(operation string) {
	NegocioOperationCounter.With(prometheus.Labels{"operation": operation}).Inc()
}

// RecordRecursoOperation records a nested resource operation by kind
func RecordRecursoOperation(kind, operation string) {
	RecursoOperationCounter.With(prometheus.Labels{"kind": kind, "operation": operation}).Inc()
}

// RecordUpload records an image upload operation
func RecordUpload(operation string) {
	UploadCounter.With(prometheus.Labels{"operation": operation}).Inc()
}

// UpdateActiveNegocios updates the active negocios gauge
func UpdateActiveNegocios(count int) {
	ActiveNegociosGauge.Set(float64(count))
}
