package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// HTTP metrics
	httpRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "medinsight_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	httpRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "medinsight_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
		},
		[]string{"method", "path"},
	)

	httpRequestsInFlight = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "medinsight_http_requests_in_flight",
			Help: "Number of HTTP requests currently being processed",
		},
	)

	// Engine metrics
	symptomAnalyses = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "medinsight_symptom_analyses_total",
			Help: "Total number of symptom analyses by resulting urgency",
		},
		[]string{"urgency"},
	)

	predictionsEmitted = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "medinsight_symptom_predictions",
			Help:    "Number of predictions returned per analysis",
			Buckets: []float64{0, 1, 2, 3, 4, 5},
		},
	)

	outbreakAlerts = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "medinsight_outbreak_alerts_total",
			Help: "Total number of outbreak alerts raised",
		},
		[]string{"disease"},
	)

	noShowAssessments = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "medinsight_noshow_assessments_total",
			Help: "Total number of no-show risk assessments by level",
		},
		[]string{"level"},
	)

	revenueForecasts = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "medinsight_revenue_forecasts_total",
			Help: "Total number of revenue forecasts by trend",
		},
		[]string{"trend"},
	)

	cacheLookups = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "medinsight_cache_lookups_total",
			Help: "Total number of cache lookups by result",
		},
		[]string{"result"},
	)

	dbConnectionsActive = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "medinsight_db_connections_active",
			Help: "Number of acquired database connections",
		},
	)
)

// Handler returns the Prometheus metrics HTTP handler
func Handler() http.Handler {
	return promhttp.Handler()
}

// Middleware records request count, duration and in-flight requests. The
// route template is used as the path label so ids don't explode cardinality.
func Middleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			httpRequestsInFlight.Inc()
			defer httpRequestsInFlight.Dec()

			err := next(c)

			status := c.Response().Status
			if err != nil {
				if he, ok := err.(*echo.HTTPError); ok {
					status = he.Code
				} else {
					status = http.StatusInternalServerError
				}
			}
			path := c.Path()
			if path == "" {
				path = "unmatched"
			}
			method := c.Request().Method
			httpRequestsTotal.WithLabelValues(method, path, strconv.Itoa(status)).Inc()
			httpRequestDuration.WithLabelValues(method, path).Observe(time.Since(start).Seconds())
			return err
		}
	}
}

// --- Business metric helpers ---

// RecordSymptomAnalysis records one completed analysis
func RecordSymptomAnalysis(urgency string, predictions int) {
	symptomAnalyses.WithLabelValues(urgency).Inc()
	predictionsEmitted.Observe(float64(predictions))
}

// RecordOutbreakAlert records an alert naming disease
func RecordOutbreakAlert(disease string) {
	outbreakAlerts.WithLabelValues(disease).Inc()
}

// RecordNoShowAssessment records a no-show risk level
func RecordNoShowAssessment(level string) {
	noShowAssessments.WithLabelValues(level).Inc()
}

// RecordRevenueForecast records a forecast trend label
func RecordRevenueForecast(trend string) {
	revenueForecasts.WithLabelValues(trend).Inc()
}

// RecordCacheLookup records a cache hit or miss
func RecordCacheLookup(hit bool) {
	result := "miss"
	if hit {
		result = "hit"
	}
	cacheLookups.WithLabelValues(result).Inc()
}

// RecordDBConnections records acquired database connections
func RecordDBConnections(count int) {
	dbConnectionsActive.Set(float64(count))
}
