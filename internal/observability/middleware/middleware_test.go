package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"wicki/internal/observability/metrics"
)

func TestRequestIDPropagation(t *testing.T) {
	var seen string
	h := WithRequestAndTrace(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = RequestIDFromContext(r.Context())
		if TraceIDFromContext(r.Context()) == "" {
			t.Errorf("expected trace id")
		}
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Request-ID", "given-id")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if seen != "given-id" {
		t.Fatalf("expected incoming request id, got %q", seen)
	}
	if rec.Header().Get("X-Request-ID") != "given-id" {
		t.Fatalf("request id not echoed")
	}
}

func TestGeneratedRequestID(t *testing.T) {
	h := WithRequestAndTrace(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	if got := rec.Header().Get("X-Request-ID"); len(got) != 16 {
		t.Fatalf("expected 16 hex chars, got %q", got)
	}
}

func TestWithMetricsUsesRoutePattern(t *testing.T) {
	r := chi.NewRouter()
	r.Use(WithMetrics)
	r.Get("/users/{username}", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	})

	before := testutil.ToFloat64(metrics.HTTPRequestsTotal.WithLabelValues("GET", "/users/{username}", "418"))
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/users/alice", nil))
	after := testutil.ToFloat64(metrics.HTTPRequestsTotal.WithLabelValues("GET", "/users/{username}", "418"))

	if after-before != 1 {
		t.Fatalf("expected one request counted under the route pattern, got %v", after-before)
	}
}
