// Package metrics exposes the portal's Prometheus counters on a private registry.
//
// A nil *Metrics is valid and records nothing, so services take one optionally.
package metrics

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "grievance"

// Result labels
const (
	ResultSuccess     = "success"
	ResultInvalid     = "invalid"
	ResultFailed      = "failed"
	ResultNotVerified = "not_verified"
)

type Metrics struct {
	registry           *prometheus.Registry
	tokensIssued       prometheus.Counter
	tokensConsumed     *prometheus.CounterVec
	tokensSwept        prometheus.Counter
	verificationEmails *prometheus.CounterVec
	grievances         *prometheus.CounterVec
	requests           *prometheus.CounterVec
	durations          *prometheus.HistogramVec
}

func New() *Metrics {
	registry := prometheus.NewRegistry()
	m := &Metrics{
		registry: registry,
		tokensIssued: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "verification_tokens_issued_total",
			Help:      "Verification tokens issued.",
		}),
		tokensConsumed: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "verification_tokens_consumed_total",
			Help:      "Verification token consume attempts by result.",
		}, []string{"result"}),
		tokensSwept: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "verification_tokens_swept_total",
			Help:      "Expired verification tokens removed by the sweeper.",
		}),
		verificationEmails: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "verification_emails_total",
			Help:      "Verification emails by result.",
		}, []string{"result"}),
		grievances: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "grievances_total",
			Help:      "Grievance submissions by result.",
		}, []string{"result"}),
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "HTTP requests by route, method and status.",
		}, []string{"route", "method", "status"}),
		durations: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "Duration of HTTP requests in seconds.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"route", "method"}),
	}
	registry.MustRegister(
		m.tokensIssued,
		m.tokensConsumed,
		m.tokensSwept,
		m.verificationEmails,
		m.grievances,
		m.requests,
		m.durations,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

func (m *Metrics) TokenIssued() {
	if m == nil {
		return
	}
	m.tokensIssued.Inc()
}

func (m *Metrics) TokenConsumed(result string) {
	if m == nil {
		return
	}
	m.tokensConsumed.WithLabelValues(result).Inc()
}

func (m *Metrics) TokensSwept(n int) {
	if m == nil || n <= 0 {
		return
	}
	m.tokensSwept.Add(float64(n))
}

func (m *Metrics) VerificationEmail(result string) {
	if m == nil {
		return
	}
	m.verificationEmails.WithLabelValues(result).Inc()
}

func (m *Metrics) Grievance(result string) {
	if m == nil {
		return
	}
	m.grievances.WithLabelValues(result).Inc()
}

// Handler serves the registry in the Prometheus exposition format
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Middleware counts requests by chi route pattern
func (m *Metrics) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if m == nil {
			next.ServeHTTP(w, r)
			return
		}
		start := time.Now()
		recorder := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(recorder, r)

		route := "unmatched"
		if rctx := chi.RouteContext(r.Context()); rctx != nil {
			if pattern := rctx.RoutePattern(); pattern != "" {
				route = pattern
			}
		}
		m.requests.WithLabelValues(route, r.Method, http.StatusText(recorder.status)).Inc()
		m.durations.WithLabelValues(route, r.Method).Observe(time.Since(start).Seconds())
	})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (s *statusRecorder) WriteHeader(code int) {
	s.status = code
	s.ResponseWriter.WriteHeader(code)
}
