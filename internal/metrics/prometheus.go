package metrics

import (
	"context"
	"errors"
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
			Buckets: []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10, 30},
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
	triageResults = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "triage_results_total",
			Help: "Total number of triage results by zone",
		},
		[]string{"zone"},
	)

	triageClamps = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "triage_clamps_total",
			Help: "Total number of out-of-vocabulary model values replaced by a default",
		},
		[]string{"field"},
	)

	triageFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "triage_failures_total",
			Help: "Total number of triage requests that failed",
		},
		[]string{"kind"},
	)

	// Model gateway metrics
	modelCallsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "model_calls_total",
			Help: "Total number of generative model calls",
		},
		[]string{"provider", "outcome"},
	)

	modelCallDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "model_call_duration_seconds",
			Help:    "Generative model call duration in seconds",
			Buckets: []float64{.25, .5, 1, 2, 4, 8, 15, 30, 60},
		},
		[]string{"provider"},
	)
)

// Handler returns the Prometheus metrics HTTP handler
func Handler() http.Handler {
	return promhttp.Handler()
}

// Middleware creates HTTP metrics middleware.  Paths are labelled with the
// chi route pattern to keep cardinality bounded.
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		httpRequestsInFlight.Inc()
		defer httpRequestsInFlight.Dec()

		wrapped := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}

		next.ServeHTTP(wrapped, r)

		path := routePattern(r)
		httpRequestsTotal.WithLabelValues(r.Method, path, strconv.Itoa(wrapped.statusCode)).Inc()
		httpRequestDuration.WithLabelValues(r.Method, path).Observe(time.Since(start).Seconds())
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

func routePattern(r *http.Request) string {
	if rctx := chi.RouteContext(r.Context()); rctx != nil {
		if pattern := rctx.RoutePattern(); pattern != "" {
			return pattern
		}
	}
	return "unmatched"
}

// --- Triage metric helpers ---

// RecordTriageResult counts a successful triage in the given zone
func RecordTriageResult(zone string) {
	triageResults.WithLabelValues(zone).Inc()
}

// RecordClamp counts a disease or zone substitution
func RecordClamp(field string) {
	triageClamps.WithLabelValues(field).Inc()
}

// RecordTriageFailure counts a failed triage by error kind
func RecordTriageFailure(kind string) {
	triageFailures.WithLabelValues(kind).Inc()
}

// RecordModelCall records one call to the generative model
func RecordModelCall(provider string, err error, duration time.Duration) {
	outcome := "success"
	switch {
	case errors.Is(err, context.Canceled):
		outcome = "canceled"
	case err != nil:
		outcome = "error"
	}
	modelCallsTotal.WithLabelValues(provider, outcome).Inc()
	modelCallDuration.WithLabelValues(provider).Observe(duration.Seconds())
}
