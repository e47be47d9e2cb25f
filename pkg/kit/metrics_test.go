package kit

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestMetricsMiddleware_UsesRoutePattern(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewMetrics(reg)

	r := chi.NewRouter()
	r.Use(m.Middleware("test", RouteLabel))
	r.Get("/items/{id}", func(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(http.StatusNotFound) })
	r.Get("/plain", func(w http.ResponseWriter, _ *http.Request) { _, _ = w.Write([]byte("ok")) })

	r.Route("/api", func(r chi.Router) {
		r.Get("/x", func(w http.ResponseWriter, _ *http.Request) {})
	})

	for _, p := range []string{"/items/1", "/items/2", "/plain", "/nope/1", "/nope/2", "/api/missing"} {
		r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, p, nil))
	}

	if got := testutil.ToFloat64(m.Requests.WithLabelValues("test", "GET", "/items/{id}", "404")); got != 2 {
		t.Fatalf("items counter=%v", got)
	}
	if got := testutil.ToFloat64(m.Requests.WithLabelValues("test", "GET", "/plain", "200")); got != 1 {
		t.Fatalf("plain counter=%v", got)
	}
	if got := testutil.ToFloat64(m.Requests.WithLabelValues("test", "GET", UnmatchedRoute, "404")); got != 3 {
		t.Fatalf("unmatched counter=%v", got)
	}
}
