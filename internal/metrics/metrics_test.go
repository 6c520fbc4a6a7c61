package metrics

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestMetrics_Counters(t *testing.T) {
	m := New()

	m.ResultAssembled("false", "freeform")
	m.ResultAssembled("false", "freeform")
	m.UpstreamFormatError()
	m.StaleResponse()
	m.ProviderCall("openai", 2*time.Second, nil)
	m.ProviderCall("openai", time.Second, errors.New("boom"))
	m.Export("xlsx", nil)

	if got := testutil.ToFloat64(m.results.WithLabelValues("false", "freeform")); got != 2 {
		t.Errorf("Expected 2 results, got %v", got)
	}
	if got := testutil.ToFloat64(m.upstreamFormat); got != 1 {
		t.Errorf("Expected 1 upstream format error, got %v", got)
	}
	if got := testutil.ToFloat64(m.staleResponses); got != 1 {
		t.Errorf("Expected 1 stale response, got %v", got)
	}
	if got := testutil.ToFloat64(m.providerCalls.WithLabelValues("openai", "error")); got != 1 {
		t.Errorf("Expected 1 failed provider call, got %v", got)
	}
	if got := testutil.ToFloat64(m.exports.WithLabelValues("xlsx", "ok")); got != 1 {
		t.Errorf("Expected 1 export, got %v", got)
	}
}

func TestMetrics_NilIsNoop(t *testing.T) {
	var m *Metrics

	m.ResultAssembled("true", "structured")
	m.UpstreamFormatError()
	m.StaleResponse()
	m.ProviderCall("openai", time.Second, nil)
	m.Export("json", nil)

	handler := m.Middleware(func(*http.Request) string { return "/x" })(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	}))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/x", nil))
	if rec.Code != http.StatusTeapot {
		t.Errorf("Expected pass-through status, got %d", rec.Code)
	}
}

func TestMetrics_MiddlewareAndHandler(t *testing.T) {
	m := New()

	handler := m.Middleware(func(*http.Request) string { return "/api/results/{id}" })(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/api/results/abc", nil))

	if got := testutil.ToFloat64(m.httpRequests.WithLabelValues("/api/results/{id}", "404")); got != 1 {
		t.Errorf("Expected 1 request, got %v", got)
	}

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if !strings.Contains(rec.Body.String(), "factcheck_http_requests_total") {
		t.Error("Expected exposition to contain factcheck_http_requests_total")
	}
}
