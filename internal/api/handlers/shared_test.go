package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/perception-to/Bitcoin-Market-Sentiment-Backend/internal/api/request"
	"github.com/perception-to/Bitcoin-Market-Sentiment-Backend/internal/apperrors"
)

// TestParseJSON tests the parseJSON helper.
// This is an internal test (package handlers, not handlers_test) because
// parseJSON is unexported.
func TestParseJSON(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		wantErr bool
	}{
		{"valid body", `{"startDate":"2025-07-01","endDate":"2025-07-31"}`, false},
		{"unknown field", `{"startDate":"2025-07-01","until":"2025-07-31"}`, true},
		{"malformed", `{"startDate":`, true},
		{"too large", `{"startDate":"` + strings.Repeat("x", 2048) + `"}`, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/api/sentiment/refresh", strings.NewReader(tt.body))

			got, err := parseJSON[request.RefreshRequest](req)
			if (err != nil) != tt.wantErr {
				t.Fatalf("parseJSON() error = %v, wantErr %v", err, tt.wantErr)
			}
			if !tt.wantErr && (got.StartDate != "2025-07-01" || got.EndDate != "2025-07-31") {
				t.Errorf("Unexpected request %+v", got)
			}
		})
	}
}

func TestSentimentStatus(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"invalid url", fmt.Errorf("%w: bad", apperrors.ErrInvalidURLFormat), http.StatusNotFound},
		{"invalid date", fmt.Errorf("%w: bad", apperrors.ErrInvalidDate), http.StatusNotFound},
		{"no data", fmt.Errorf("%w: %w", apperrors.ErrFailedToLoadSentiment, apperrors.ErrNoData), http.StatusNotFound},
		{"upstream failure", fmt.Errorf("%w: %w", apperrors.ErrFailedToLoadSentiment, errors.New("502")), http.StatusServiceUnavailable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := sentimentStatus(tt.err); got != tt.want {
				t.Errorf("sentimentStatus() = %d, want %d", got, tt.want)
			}
		})
	}
}
