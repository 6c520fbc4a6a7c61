package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the collectors for the pipeline and the HTTP surface.
// A nil *Metrics is valid and records nothing.
type Metrics struct {
	registry *prometheus.Registry

	results         *prometheus.CounterVec
	upstreamFormat  prometheus.Counter
	staleResponses  prometheus.Counter
	providerCalls   *prometheus.CounterVec
	providerLatency *prometheus.HistogramVec
	exports         *prometheus.CounterVec
	httpRequests    *prometheus.CounterVec
	httpLatency     *prometheus.HistogramVec
}

// New creates collectors registered on a private registry
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		results: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "factcheck",
			Name:      "results_total",
			Help:      "Assembled results by verdict and response format.",
		}, []string{"verdict", "format"}),
		upstreamFormat: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "factcheck",
			Name:      "upstream_format_errors_total",
			Help:      "Provider responses that carried no recognizable structure.",
		}),
		staleResponses: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "factcheck",
			Name:      "stale_responses_total",
			Help:      "Responses discarded because a newer request was issued.",
		}),
		providerCalls: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "factcheck",
			Name:      "provider_calls_total",
			Help:      "Analysis provider calls by provider and outcome.",
		}, []string{"provider", "outcome"}),
		providerLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "factcheck",
			Name:      "provider_call_duration_seconds",
			Help:      "Analysis provider call latency.",
			Buckets:   []float64{0.5, 1, 2, 5, 10, 20, 40, 80},
		}, []string{"provider"}),
		exports: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "factcheck",
			Name:      "exports_total",
			Help:      "Exports by format and outcome.",
		}, []string{"format", "outcome"}),
		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "factcheck",
			Name:      "http_requests_total",
			Help:      "HTTP requests by route and status.",
		}, []string{"route", "status"}),
		httpLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "factcheck",
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"route"}),
	}

	m.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.results,
		m.upstreamFormat,
		m.staleResponses,
		m.providerCalls,
		m.providerLatency,
		m.exports,
		m.httpRequests,
		m.httpLatency,
	)
	return m
}

// Registry exposes the underlying registry (tests gather from it)
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the registry in the Prometheus text format
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// ResultAssembled counts one assembled result
func (m *Metrics) ResultAssembled(verdict, format string) {
	if m == nil {
		return
	}
	m.results.WithLabelValues(verdict, format).Inc()
}

// UpstreamFormatError counts one unrecognizable provider response
func (m *Metrics) UpstreamFormatError() {
	if m == nil {
		return
	}
	m.upstreamFormat.Inc()
}

// StaleResponse counts one discarded out-of-order response
func (m *Metrics) StaleResponse() {
	if m == nil {
		return
	}
	m.staleResponses.Inc()
}

// ProviderCall records one provider call
func (m *Metrics) ProviderCall(provider string, elapsed time.Duration, err error) {
	if m == nil {
		return
	}
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	m.providerCalls.WithLabelValues(provider, outcome).Inc()
	m.providerLatency.WithLabelValues(provider).Observe(elapsed.Seconds())
}

// Export records one export attempt
func (m *Metrics) Export(format string, err error) {
	if m == nil {
		return
	}
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	m.exports.WithLabelValues(format, outcome).Inc()
}

// Middleware records request counts and latency per route pattern.
// route resolves the label for a request after it was served (chi route pattern).
func (m *Metrics) Middleware(route func(*http.Request) string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if m == nil {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r)

			status := ww.Status()
			if status == 0 {
				status = http.StatusOK
			}
			label := route(r)
			if label == "" {
				label = "unmatched"
			}
			m.httpRequests.WithLabelValues(label, strconv.Itoa(status)).Inc()
			m.httpLatency.WithLabelValues(label).Observe(time.Since(start).Seconds())
		})
	}
}
