package metrics

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestCountersAccumulate(t *testing.T) {
	r := New()
	r.ObserveXP("search", 2)
	r.ObserveXP("search", 2)
	r.ObserveXP("open", 0)
	r.ObserveLevelUp(3)
	r.ObserveProbe("acordao", "not_found")
	r.ObserveFallback("search")

	if got := testutil.ToFloat64(r.xpAwarded.WithLabelValues("search")); got != 4 {
		t.Fatalf("expected 4 xp for search, got %v", got)
	}
	if got := testutil.ToFloat64(r.levelUps.WithLabelValues("3")); got != 1 {
		t.Fatalf("expected one level up, got %v", got)
	}
	if got := testutil.ToFloat64(r.documentProbes.WithLabelValues("acordao", "not_found")); got != 1 {
		t.Fatalf("expected one probe, got %v", got)
	}
	if got := testutil.ToFloat64(r.fallbacks.WithLabelValues("search")); got != 1 {
		t.Fatalf("expected one fallback, got %v", got)
	}
}

func TestHandlerExposesTextFormat(t *testing.T) {
	r := New()
	r.ObserveHTTP("GET /healthz", http.StatusOK, 5*time.Millisecond)

	rec := httptest.NewRecorder()
	r.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	body, _ := io.ReadAll(rec.Body)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if !strings.Contains(string(body), `ijus_http_requests_total{route="GET /healthz",status="200"} 1`) {
		t.Fatalf("expected request counter in output:\n%s", body)
	}
}
