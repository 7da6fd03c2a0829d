package api_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"go.uber.org/zap/zaptest"

	"github.com/perception-to/Bitcoin-Market-Sentiment-Backend/internal/api"
	"github.com/perception-to/Bitcoin-Market-Sentiment-Backend/internal/api/middleware"
	"github.com/perception-to/Bitcoin-Market-Sentiment-Backend/internal/config"
	"github.com/perception-to/Bitcoin-Market-Sentiment-Backend/internal/testutil"
)

func newTestRouter(t *testing.T) http.Handler {
	t.Helper()

	db := testutil.SetupTestDB(t)
	clock := testutil.FixedClock(t, "2025-07-20T10:00:00Z")
	client := testutil.NewMockFearGreedClient(testutil.MonthRecords(time.July, 2025, 72)...)

	cfg := &config.Config{
		CORS: config.CORSConfig{AllowedOrigins: []string{"https://perception.to"}},
	}
	return api.NewRouter(
		zaptest.NewLogger(t),
		testutil.NewTestSystemService(t, db),
		testutil.NewTestSentimentService(t, db, client, clock),
		testutil.NewTestSitemapService(t, clock),
		cfg,
	)
}

func TestNewRouter(t *testing.T) {
	router := newTestRouter(t)

	tests := []struct {
		name       string
		method     string
		path       string
		wantStatus int
	}{
		{"health", http.MethodGet, "/api/system/health", http.StatusOK},
		{"version", http.MethodGet, "/api/system/version", http.StatusOK},
		{"index", http.MethodGet, "/api/sentiment", http.StatusOK},
		{"recent days", http.MethodGet, "/api/sentiment/recent", http.StatusOK},
		{"snapshot", http.MethodGet, "/api/sentiment/snapshot", http.StatusOK},
		{"cache status", http.MethodGet, "/api/sentiment/cache", http.StatusOK},
		{"refresh history", http.MethodGet, "/api/sentiment/refresh-log?status=error", http.StatusOK},
		{"monthly page", http.MethodGet, "/api/sentiment/2025/july", http.StatusOK},
		{"daily page", http.MethodGet, "/api/sentiment/2025/july/19", http.StatusOK},
		{"invalid month", http.MethodGet, "/api/sentiment/2025/jul", http.StatusNotFound},
		{"invalid day", http.MethodGet, "/api/sentiment/2025/february/30", http.StatusNotFound},
		{"refresh without credentials", http.MethodPost, "/api/sentiment/refresh", http.StatusUnauthorized},
		{"sitemap", http.MethodGet, "/sitemap-sentiment.xml", http.StatusOK},
		{"metrics", http.MethodGet, "/metrics", http.StatusOK},
		{"unknown route", http.MethodGet, "/api/portfolio", http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("INTERNAL_API_KEY", "router-test-key")

			w := httptest.NewRecorder()
			router.ServeHTTP(w, httptest.NewRequest(tt.method, tt.path, nil))

			if w.Code != tt.wantStatus {
				t.Errorf("%s %s: expected %d, got %d: %s", tt.method, tt.path, tt.wantStatus, w.Code, w.Body.String())
			}
		})
	}
}

func TestNewRouter_AuthenticatedRefresh(t *testing.T) {
	router := newTestRouter(t)
	t.Setenv("INTERNAL_API_KEY", "router-test-key")

	req := httptest.NewRequest(http.MethodPost, "/api/sentiment/refresh", nil)
	req.Header.Set("X-API-Key", "router-test-key")
	req.Header.Set("X-Time-Token", middleware.GenerateTimeToken("router-test-key"))
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("Expected 200, got %d: %s", w.Code, w.Body.String())
	}
}
