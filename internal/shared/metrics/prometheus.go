package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// HTTP metrics
	httpRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	httpRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
		},
		[]string{"method", "path"},
	)

	httpRequestsInFlight = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "http_requests_in_flight",
			Help: "Number of HTTP requests currently being processed",
		},
	)

	// Triage metrics
	assessmentsCreated = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "triage_assessments_total",
			Help: "Total number of assessments persisted",
		},
		[]string{"age_group", "recommendation"},
	)

	classifications = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "triage_classifications_total",
			Help: "Total number of urgency classifications",
		},
		[]string{"urgency", "rule"},
	)

	protocolLookups = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "triage_protocol_lookups_total",
			Help: "Total number of protocol lookups",
		},
		[]string{"result"},
	)

	protocolsRegistered = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "triage_protocols_registered_total",
			Help: "Total number of protocol registrations",
		},
	)

	analyticsUpdateFailures = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "analytics_update_failures_total",
			Help: "Total number of analytics updates that failed after the assessment was stored",
		},
	)

	eventsPublished = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "events_published_total",
			Help: "Total number of domain events published",
		},
		[]string{"type", "status"},
	)

	// Database metrics
	dbQueryDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "db_query_duration_seconds",
			Help:    "Database query duration in seconds",
			Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1},
		},
		[]string{"operation"},
	)
)

// Handler returns the Prometheus metrics HTTP handler
func Handler() http.Handler {
	return promhttp.Handler()
}

// Middleware creates HTTP metrics middleware
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		httpRequestsInFlight.Inc()
		defer httpRequestsInFlight.Dec()

		wrapped := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}

		next.ServeHTTP(wrapped, r)

		duration := time.Since(start).Seconds()
		path := routePattern(r)

		httpRequestsTotal.WithLabelValues(r.Method, path, strconv.Itoa(wrapped.statusCode)).Inc()
		httpRequestDuration.WithLabelValues(r.Method, path).Observe(duration)
	})
}

// responseWriter wraps http.ResponseWriter to capture status code
type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

// routePattern labels requests by the matched chi route template so path
// parameters such as assessment IDs do not each become a series.
func routePattern(r *http.Request) string {
	if rctx := chi.RouteContext(r.Context()); rctx != nil {
		if pattern := rctx.RoutePattern(); pattern != "" {
			return pattern
		}
	}
	return "unmatched"
}

// --- Business metric helpers ---

// RecordAssessment records a persisted assessment
func RecordAssessment(ageGroup, recommendation string) {
	assessmentsCreated.WithLabelValues(ageGroup, recommendation).Inc()
}

// RecordClassification records an urgency decision and the rule that made it
func RecordClassification(urgency, rule string) {
	if rule == "" {
		rule = "none"
	}
	classifications.WithLabelValues(urgency, rule).Inc()
}

// RecordProtocolLookup records whether a protocol lookup found guidance
func RecordProtocolLookup(found bool) {
	result := "miss"
	if found {
		result = "hit"
	}
	protocolLookups.WithLabelValues(result).Inc()
}

// RecordProtocolRegistered records a protocol registration
func RecordProtocolRegistered() {
	protocolsRegistered.Inc()
}

// RecordAnalyticsFailure records a swallowed analytics update error
func RecordAnalyticsFailure() {
	analyticsUpdateFailures.Inc()
}

// RecordEventPublished records a publish attempt for a domain event
func RecordEventPublished(eventType string, err error) {
	status := "ok"
	if err != nil {
		status = "error"
	}
	eventsPublished.WithLabelValues(eventType, status).Inc()
}

// RecordDBQuery records a database query duration
func RecordDBQuery(operation string, duration time.Duration) {
	dbQueryDuration.WithLabelValues(operation).Observe(duration.Seconds())
}
