package monitoring

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func scrape(t *testing.T, m *Metrics) string {
	t.Helper()
	rr := httptest.NewRecorder()
	m.Handler().ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rr.Code)
	return rr.Body.String()
}

func TestMiddleware_UsesRoutePattern(t *testing.T) {
	m := New(prometheus.NewRegistry())

	r := chi.NewRouter()
	r.Use(m.Middleware)
	r.Get("/products/{productId}", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	})

	for _, path := range []string{"/products/1", "/products/2"} {
		rr := httptest.NewRecorder()
		r.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, path, nil))
		require.Equal(t, http.StatusTeapot, rr.Code)
	}

	body := scrape(t, m)
	assert.Contains(t, body, `showcase_http_requests_total{method="GET",route="/products/{productId}",status="418"} 2`)
	assert.Contains(t, body, "showcase_http_requests_in_flight 0")
}

func TestRecorders(t *testing.T) {
	m := New(prometheus.NewRegistry())
	m.RecordReview(OutcomeAccepted)
	m.RecordReview(OutcomeConflict)
	m.RecordReview(OutcomeConflict)
	m.RecordQuote(OutcomeNotFound)
	m.RecordCache(CacheHit)
	m.RecordRateLimitHit("/quote")

	body := scrape(t, m)
	assert.Contains(t, body, `showcase_reviews_submitted_total{outcome="conflict"} 2`)
	assert.Contains(t, body, `showcase_reviews_submitted_total{outcome="accepted"} 1`)
	assert.Contains(t, body, `showcase_quotes_submitted_total{outcome="not_found"} 1`)
	assert.Contains(t, body, `showcase_cache_requests_total{result="hit"} 1`)
	assert.Contains(t, body, `showcase_rate_limit_hits_total{route="/quote"} 1`)
}

func TestNilMetricsIsNoop(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.RecordReview(OutcomeAccepted)
		m.RecordQuote(OutcomeAccepted)
		m.RecordCache(CacheMiss)
		m.RecordRateLimitHit("x")
	})
	h := http.HandlerFunc(func(http.ResponseWriter, *http.Request) {})
	assert.NotNil(t, m.Middleware(h))
}
