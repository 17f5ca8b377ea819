package monitoring

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Outcome labels for submission counters.
const (
	OutcomeAccepted = "accepted"
	OutcomeInvalid  = "invalid"
	OutcomeNotFound = "not_found"
	OutcomeConflict = "conflict"
	OutcomeError    = "error"
)

// Result labels for cache lookups.
const (
	CacheHit   = "hit"
	CacheMiss  = "miss"
	CacheError = "error"
)

// Metrics holds all Prometheus metrics.
// A nil *Metrics is valid and records nothing.
type Metrics struct {
	// HTTP metrics
	HTTPRequestsTotal    *prometheus.CounterVec
	HTTPRequestDuration  *prometheus.HistogramVec
	HTTPRequestsInFlight prometheus.Gauge

	// Rate limiting metrics
	RateLimitHits *prometheus.CounterVec

	// Cache metrics
	CacheRequests *prometheus.CounterVec

	// Business metrics
	ReviewsSubmitted *prometheus.CounterVec
	QuotesSubmitted  *prometheus.CounterVec

	gatherer prometheus.Gatherer
}

// New registers every metric on reg. Passing a fresh prometheus.NewRegistry()
// keeps tests isolated from the default registry.
func New(reg *prometheus.Registry) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		HTTPRequestsTotal: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "showcase_http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "route", "status"},
		),
		HTTPRequestDuration: f.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "showcase_http_request_duration_seconds",
				Help:    "HTTP request duration in seconds",
				Buckets: []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
			},
			[]string{"method", "route"},
		),
		HTTPRequestsInFlight: f.NewGauge(
			prometheus.GaugeOpts{
				Name: "showcase_http_requests_in_flight",
				Help: "Number of HTTP requests currently being processed",
			},
		),
		RateLimitHits: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "showcase_rate_limit_hits_total",
				Help: "Total number of requests rejected by the rate limiter",
			},
			[]string{"route"},
		),
		CacheRequests: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "showcase_cache_requests_total",
				Help: "Product cache lookups by result",
			},
			[]string{"result"},
		),
		ReviewsSubmitted: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "showcase_reviews_submitted_total",
				Help: "Review submissions by outcome",
			},
			[]string{"outcome"},
		),
		QuotesSubmitted: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "showcase_quotes_submitted_total",
				Help: "Quote submissions by outcome",
			},
			[]string{"outcome"},
		),
		gatherer: reg,
	}
}

// Handler serves the metrics registered on this instance.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.gatherer, promhttp.HandlerOpts{})
}

// Middleware collects HTTP metrics keyed by the matched chi route pattern.
func (m *Metrics) Middleware(next http.Handler) http.Handler {
	if m == nil {
		return next
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

		m.HTTPRequestsInFlight.Inc()
		defer m.HTTPRequestsInFlight.Dec()

		next.ServeHTTP(ww, r)

		route := r.URL.Path
		if rctx := chi.RouteContext(r.Context()); rctx != nil && rctx.RoutePattern() != "" {
			route = rctx.RoutePattern()
		}
		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		m.HTTPRequestsTotal.WithLabelValues(r.Method, route, strconv.Itoa(status)).Inc()
		m.HTTPRequestDuration.WithLabelValues(r.Method, route).Observe(time.Since(start).Seconds())
	})
}

// RecordReview counts a review submission outcome.
func (m *Metrics) RecordReview(outcome string) {
	if m == nil {
		return
	}
	m.ReviewsSubmitted.WithLabelValues(outcome).Inc()
}

// RecordQuote counts a quote submission outcome.
func (m *Metrics) RecordQuote(outcome string) {
	if m == nil {
		return
	}
	m.QuotesSubmitted.WithLabelValues(outcome).Inc()
}

// RecordCache counts a product cache lookup.
func (m *Metrics) RecordCache(result string) {
	if m == nil {
		return
	}
	m.CacheRequests.WithLabelValues(result).Inc()
}

// RecordRateLimitHit counts a rejected request.
func (m *Metrics) RecordRateLimitHit(route string) {
	if m == nil {
		return
	}
	m.RateLimitHits.WithLabelValues(route).Inc()
}
