package metrics

import (
	"net/http"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

func TestHTTPMetricsObserve(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewHTTPMetrics(reg)

	m.Observe(http.MethodGet, "/api/v1/cart", http.StatusOK, 5*time.Millisecond)
	m.Observe(http.MethodGet, "", http.StatusNotFound, time.Millisecond)

	mfs, err := reg.Gather()
	if err != nil {
		t.Fatalf("gather metrics: %v", err)
	}
	mf := findMetricFamily(mfs, "storefront_http_requests_total")
	if mf == nil {
		t.Fatal("requests metric not registered")
	}
	var cart, unmatched float64
	for _, metric := range mf.GetMetric() {
		switch {
		case matchesLabel(metric.GetLabel(), "route", "/api/v1/cart"):
			cart = metric.GetCounter().GetValue()
		case matchesLabel(metric.GetLabel(), "route", "unmatched"):
			unmatched = metric.GetCounter().GetValue()
		}
	}
	if cart != 1 || unmatched != 1 {
		t.Fatalf("expected one request per route, got cart=%v unmatched=%v", cart, unmatched)
	}
	if findMetricFamily(mfs, "storefront_http_request_duration_seconds") == nil {
		t.Fatal("duration metric not registered")
	}
}

func TestHTTPMetricsNilSafe(t *testing.T) {
	var m *HTTPMetrics
	m.Observe(http.MethodGet, "/", http.StatusOK, time.Millisecond)
	NewHTTPMetrics(nil).Observe(http.MethodGet, "/", http.StatusOK, time.Millisecond)
}
