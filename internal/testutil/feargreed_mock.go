package testutil

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/perception-to/Bitcoin-Market-Sentiment-Backend/internal/apperrors"
	"github.com/perception-to/Bitcoin-Market-Sentiment-Backend/internal/model"
)

// MockFearGreedClient is a mock implementation of feargreed.Client for testing.
// It serves records from an in-memory table instead of making actual API calls.
// It is safe for concurrent use.
type MockFearGreedClient struct {
	mu sync.Mutex

	// Records are returned when they fall inside the queried range
	Records []model.FearGreedRecord
	// MockError is the error to return from every query
	MockError error
	// FailRanges makes queries whose startDate is a key fail with the mapped error
	FailRanges map[string]error
	// Delay blocks each query until it elapses or the context is cancelled
	Delay time.Duration

	queryCount int
	inFlight   int
	maxFlight  int
}

// NewMockFearGreedClient creates a mock client serving the given records.
func NewMockFearGreedClient(records ...model.FearGreedRecord) *MockFearGreedClient {
	return &MockFearGreedClient{
		Records:    records,
		FailRanges: map[string]error{},
	}
}

// QueryRange returns the configured records between startDate and endDate
// inclusive, or the configured error. An empty result is apperrors.ErrNoData,
// matching the real client.
func (m *MockFearGreedClient) QueryRange(ctx context.Context, startDate, endDate string) ([]model.FearGreedRecord, error) {
	m.mu.Lock()
	m.queryCount++
	m.inFlight++
	if m.inFlight > m.maxFlight {
		m.maxFlight = m.inFlight
	}
	delay := m.Delay
	mockErr := m.MockError
	rangeErr := m.FailRanges[startDate]
	m.mu.Unlock()

	defer func() {
		m.mu.Lock()
		m.inFlight--
		m.mu.Unlock()
	}()

	if delay > 0 {
		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return nil, fmt.Errorf("mock fear-greed request: %w", ctx.Err())
		}
	}
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("mock fear-greed request: %w", err)
	}
	if mockErr != nil {
		return nil, mockErr
	}
	if rangeErr != nil {
		return nil, rangeErr
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	var out []model.FearGreedRecord
	for _, r := range m.Records {
		if r.Date >= startDate && r.Date <= endDate {
			out = append(out, r)
		}
	}
	if len(out) == 0 {
		return nil, apperrors.ErrNoData
	}
	return out, nil
}

// WithError configures the mock to fail every query with err.
func (m *MockFearGreedClient) WithError(err error) *MockFearGreedClient {
	m.MockError = err
	return m
}

// WithRangeError makes queries starting at startDate fail with err.
func (m *MockFearGreedClient) WithRangeError(startDate string, err error) *MockFearGreedClient {
	m.FailRanges[startDate] = err
	return m
}

// WithDelay makes every query wait for d before answering.
func (m *MockFearGreedClient) WithDelay(d time.Duration) *MockFearGreedClient {
	m.Delay = d
	return m
}

// QueryCount reports how many queries were made.
func (m *MockFearGreedClient) QueryCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.queryCount
}

// MaxInFlight reports the highest number of queries that ran at the same time.
func (m *MockFearGreedClient) MaxInFlight() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.maxFlight
}
