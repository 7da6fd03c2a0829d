// Package feargreed is a client for the remote fear-greed-index API, which
// returns per-day counts of positive, neutral and negative Bitcoin mentions.
package feargreed

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/perception-to/Bitcoin-Market-Sentiment-Backend/internal/apperrors"
	"github.com/perception-to/Bitcoin-Market-Sentiment-Backend/internal/metrics"
	"github.com/perception-to/Bitcoin-Market-Sentiment-Backend/internal/model"
)

// endpoint is appended to the configured base URL.
const endpoint = "/fear-greed-index"

// Client fetches daily fear & greed records for an inclusive date range.
type Client interface {
	QueryRange(ctx context.Context, startDate, endDate string) ([]model.FearGreedRecord, error)
}

// StatusError is returned when the API answers with a non-2xx status.
type StatusError struct {
	StatusCode int
	Status     string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("API request failed: %s", e.Status)
}

// Options configures an HTTPClient.
type Options struct {
	BaseURL string
	Timeout time.Duration
	RPS     float64
	Burst   int
}

// HTTPClient talks to the fear-greed-index API over HTTP. All requests share a
// single token bucket so bursts from the index page cannot flood the API.
type HTTPClient struct {
	baseURL    string
	httpClient *http.Client
	limiter    *rate.Limiter
}

// NewHTTPClient creates a client for the API rooted at opts.BaseURL.
func NewHTTPClient(opts Options) *HTTPClient {
	burst := opts.Burst
	if burst < 1 {
		burst = 1
	}
	limit := rate.Inf
	if opts.RPS > 0 {
		limit = rate.Limit(opts.RPS)
	}
	return &HTTPClient{
		baseURL:    strings.TrimRight(opts.BaseURL, "/"),
		httpClient: &http.Client{Timeout: opts.Timeout},
		limiter:    rate.NewLimiter(limit, burst),
	}
}

// QueryRange fetches the records between startDate and endDate (YYYY-MM-DD,
// inclusive).
//
// Returns:
//   - *StatusError for a non-2xx status
//   - apperrors.ErrNotJSON when the response is not application/json
//   - apperrors.ErrNoData when the API returns an empty array
//   - the context error when ctx is cancelled while waiting or in flight
func (c *HTTPClient) QueryRange(ctx context.Context, startDate, endDate string) ([]model.FearGreedRecord, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		metrics.UpstreamRequests.WithLabelValues("cancelled").Inc()
		return nil, fmt.Errorf("rate limiter: %w", err)
	}

	params := url.Values{}
	params.Set("startDate", startDate)
	params.Set("endDate", endDate)

	start := time.Now()
	records, err := c.query(ctx, c.baseURL+endpoint+"?"+params.Encode())
	metrics.UpstreamDuration.Observe(time.Since(start).Seconds())
	metrics.UpstreamRequests.WithLabelValues(outcome(err)).Inc()
	if err != nil {
		return nil, err
	}
	return records, nil
}

func (c *HTTPClient) query(ctx context.Context, rawURL string) ([]model.FearGreedRecord, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		// Drain so the connection can be reused.
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil, &StatusError{StatusCode: resp.StatusCode, Status: resp.Status}
	}

	if !strings.Contains(resp.Header.Get("Content-Type"), "application/json") {
		return nil, apperrors.ErrNotJSON
	}

	var records []model.FearGreedRecord
	if err := json.NewDecoder(resp.Body).Decode(&records); err != nil {
		return nil, fmt.Errorf("failed to decode fear-greed response: %w", err)
	}
	if len(records) == 0 {
		return nil, apperrors.ErrNoData
	}

	return records, nil
}

func outcome(err error) string {
	if err == nil {
		return "success"
	}
	var statusErr *StatusError
	if errors.As(err, &statusErr) {
		return "http_error"
	}
	return "error"
}
