package testutil

import (
	"database/sql"
	"math/rand/v2"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/perception-to/Bitcoin-Market-Sentiment-Backend/internal/feargreed"
	"github.com/perception-to/Bitcoin-Market-Sentiment-Backend/internal/repository"
	"github.com/perception-to/Bitcoin-Market-Sentiment-Backend/internal/service"
	"go.uber.org/zap/zaptest"
)

// FixedClock returns a clock that always reports the given RFC 3339 time.
//
// Example usage:
//
//	now := testutil.FixedClock(t, "2025-07-19T14:30:00Z")
func FixedClock(t *testing.T, value string) func() time.Time {
	t.Helper()

	ts, err := time.Parse(time.RFC3339, value)
	if err != nil {
		t.Fatalf("Failed to parse clock value %q: %v", value, err)
	}
	return func() time.Time { return ts }
}

// DefaultSentimentOptions are the options test services use unless overridden:
// fallback on, four concurrent index fetches, three index years and a seeded
// random source so fallback data is reproducible.
func DefaultSentimentOptions(clock func() time.Time) service.SentimentOptions {
	return service.SentimentOptions{
		Clock:            clock,
		Rand:             rand.New(rand.NewPCG(1, 2)),
		FallbackEnabled:  true,
		IndexConcurrency: 4,
		IndexYears:       3,
		RefreshStartDate: "2023-01-01",
	}
}

func NewTestSentimentService(t *testing.T, db *sql.DB, client feargreed.Client, clock func() time.Time) *service.SentimentService {
	t.Helper()

	return NewTestSentimentServiceWithOptions(t, db, client, DefaultSentimentOptions(clock))
}

func NewTestSentimentServiceWithOptions(
	t *testing.T,
	db *sql.DB,
	client feargreed.Client,
	opts service.SentimentOptions,
) *service.SentimentService {
	t.Helper()

	return service.NewSentimentService(
		db,
		client,
		repository.NewSentimentRepository(db),
		repository.NewRefreshRepository(db),
		zaptest.NewLogger(t),
		opts,
	)
}

func NewTestSitemapService(t *testing.T, clock func() time.Time) *service.SitemapService {
	t.Helper()

	return service.NewSitemapService("https://perception.to", clock)
}

func NewTestSystemService(t *testing.T, db *sql.DB) *service.SystemService {
	t.Helper()

	return service.NewSystemService(db, "http://upstream.test/btcpapifunction", map[string]bool{
		"fallback":          true,
		"scheduled_refresh": false,
	})
}

// MakeID generates a UUID string for use in tests.
//
// Example usage:
//
//	id := testutil.MakeID()
//	// Returns: "550e8400-e29b-41d4-a716-446655440000"
func MakeID() string {
	return uuid.New().String()
}
