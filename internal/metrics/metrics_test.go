package metrics_test

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/perception-to/Bitcoin-Market-Sentiment-Backend/internal/metrics"
)

func TestHandler(t *testing.T) {
	before := testutil.ToFloat64(metrics.Provenance.WithLabelValues("daily", "fallback"))
	metrics.Provenance.WithLabelValues("daily", "fallback").Inc()
	metrics.Refreshes.WithLabelValues("success").Inc()

	if got := testutil.ToFloat64(metrics.Provenance.WithLabelValues("daily", "fallback")); got != before+1 {
		t.Errorf("Expected provenance counter %v, got %v", before+1, got)
	}

	w := httptest.NewRecorder()
	metrics.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	if w.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", w.Code)
	}
	body := w.Body.String()
	for _, name := range []string{
		`sentiment_responses_total{page="daily",provenance="fallback"}`,
		`sentiment_cache_refreshes_total{status="success"}`,
		"sentiment_upstream_duration_seconds",
	} {
		if !strings.Contains(body, name) {
			t.Errorf("Expected /metrics to expose %s", name)
		}
	}
}
