package testutil

import (
	"database/sql"
	"testing"
	"time"

	"github.com/perception-to/Bitcoin-Market-Sentiment-Backend/internal/model"
)

// RecordBuilder provides a fluent interface for creating fear & greed records.
//
// Example usage:
//
//	// Record only, for a mock upstream
//	rec := testutil.NewRecord("2025-07-19").WithIndex(72).Record()
//
//	// Record stored in the local cache
//	rec := testutil.NewRecord("2025-07-19").
//	    WithIndex(72).
//	    WithCounts(180, 20, 47).
//	    Build(t, db)
type RecordBuilder struct {
	Date           string
	FearGreedIndex int
	PositiveCount  int
	NeutralCount   int
	NegativeCount  int
}

// NewRecord creates a RecordBuilder with sensible defaults: a neutral day with
// 100 mentions split 40/20/40.
func NewRecord(date string) *RecordBuilder {
	return &RecordBuilder{
		Date:           date,
		FearGreedIndex: 50,
		PositiveCount:  40,
		NeutralCount:   20,
		NegativeCount:  40,
	}
}

// WithIndex sets the fear_greed_index.
func (b *RecordBuilder) WithIndex(index int) *RecordBuilder {
	b.FearGreedIndex = index
	return b
}

// WithCounts sets the mention counts. The total is their sum.
func (b *RecordBuilder) WithCounts(positive, neutral, negative int) *RecordBuilder {
	b.PositiveCount = positive
	b.NeutralCount = neutral
	b.NegativeCount = negative
	return b
}

// Record returns the record without storing it.
func (b *RecordBuilder) Record() model.FearGreedRecord {
	return model.FearGreedRecord{
		Date:           b.Date,
		FearGreedIndex: b.FearGreedIndex,
		PositiveCount:  b.PositiveCount,
		NeutralCount:   b.NeutralCount,
		NegativeCount:  b.NegativeCount,
		TotalCount:     b.PositiveCount + b.NeutralCount + b.NegativeCount,
	}
}

// Build stores the record in the local cache and returns it.
func (b *RecordBuilder) Build(t *testing.T, db *sql.DB) model.FearGreedRecord {
	t.Helper()

	rec := b.Record()
	query := `
		INSERT INTO fear_greed_record (date, fear_greed_index, positive_count, neutral_count, negative_count, total_count, fetched_at)
		VALUES (?, ?, ?, ?, ?, ?, CURRENT_TIMESTAMP)
	`

	_, err := db.Exec(query, rec.Date, rec.FearGreedIndex, rec.PositiveCount, rec.NeutralCount, rec.NegativeCount, rec.TotalCount)
	if err != nil {
		t.Fatalf("Failed to create test record: %v", err)
	}

	return rec
}

// Convenience functions

// MonthRecords returns one record per day of the month, all with the given index.
//
// Example usage:
//
//	records := testutil.MonthRecords(time.July, 2025, 72)
//	mock := testutil.NewMockFearGreedClient(records...)
func MonthRecords(m time.Month, year, index int) []model.FearGreedRecord {
	first := time.Date(year, m, 1, 0, 0, 0, 0, time.UTC)
	var records []model.FearGreedRecord
	for d := first; d.Month() == m; d = d.AddDate(0, 0, 1) {
		records = append(records, NewRecord(d.Format(time.DateOnly)).WithIndex(index).Record())
	}
	return records
}

// CreateRecords stores every record in the local cache.
func CreateRecords(t *testing.T, db *sql.DB, records []model.FearGreedRecord) {
	t.Helper()

	for _, r := range records {
		NewRecord(r.Date).
			WithIndex(r.FearGreedIndex).
			WithCounts(r.PositiveCount, r.NeutralCount, r.NegativeCount).
			Build(t, db)
	}
}
