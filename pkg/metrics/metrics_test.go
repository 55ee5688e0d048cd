package metrics

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCounters(t *testing.T) {
	m := New()

	m.TokenIssued()
	m.TokenIssued()
	m.TokenConsumed(ResultSuccess)
	m.TokenConsumed(ResultInvalid)
	m.TokenConsumed(ResultInvalid)
	m.TokensSwept(3)
	m.TokensSwept(0)
	m.VerificationEmail(ResultFailed)
	m.Grievance(ResultNotVerified)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.tokensIssued))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.tokensConsumed.WithLabelValues(ResultSuccess)))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.tokensConsumed.WithLabelValues(ResultInvalid)))
	assert.Equal(t, 3.0, testutil.ToFloat64(m.tokensSwept))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.verificationEmails.WithLabelValues(ResultFailed)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.grievances.WithLabelValues(ResultNotVerified)))
}

func TestNilMetricsIsNoop(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.TokenIssued()
		m.TokenConsumed(ResultSuccess)
		m.TokensSwept(1)
		m.VerificationEmail(ResultSuccess)
		m.Grievance(ResultSuccess)
	})

	h := m.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	}))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusTeapot, rec.Code)
}

func TestMiddlewareAndHandler(t *testing.T) {
	m := New()

	r := chi.NewRouter()
	r.Use(m.Middleware)
	r.Get("/api/verify", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
	})
	r.Method(http.MethodGet, "/metrics", m.Handler())

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/verify?token=x", nil))
	require.Equal(t, http.StatusBadRequest, rec.Code)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.requests.WithLabelValues("/api/verify", http.MethodGet, "Bad Request")))

	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.True(t, strings.Contains(body, "grievance_http_requests_total"))
	assert.True(t, strings.Contains(body, "go_goroutines"))
}
