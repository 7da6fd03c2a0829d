package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/perception-to/Bitcoin-Market-Sentiment-Backend/internal/apperrors"
	"github.com/perception-to/Bitcoin-Market-Sentiment-Backend/internal/model"
)

// SentimentRepository provides data access methods for the fear_greed_record table,
// the local cache of upstream daily records.
type SentimentRepository struct {
	db *sql.DB
	tx *sql.Tx
}

// NewSentimentRepository creates a new SentimentRepository with the provided database connection.
func NewSentimentRepository(db *sql.DB) *SentimentRepository {
	return &SentimentRepository{db: db}
}

// WithTx returns a repository that runs its statements inside tx.
func (r *SentimentRepository) WithTx(tx *sql.Tx) *SentimentRepository {
	return &SentimentRepository{
		db: r.db,
		tx: tx,
	}
}

func (r *SentimentRepository) getQuerier() interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
} {
	if r.tx != nil {
		return r.tx
	}
	return r.db
}

// UpsertRecords inserts records, replacing any cached record with the same date.
func (r *SentimentRepository) UpsertRecords(ctx context.Context, records []model.FearGreedRecord) error {
	query := `
		INSERT INTO fear_greed_record (date, fear_greed_index, positive_count, neutral_count, negative_count, total_count, fetched_at)
		VALUES (?, ?, ?, ?, ?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(date) DO UPDATE SET
			fear_greed_index = excluded.fear_greed_index,
			positive_count = excluded.positive_count,
			neutral_count = excluded.neutral_count,
			negative_count = excluded.negative_count,
			total_count = excluded.total_count,
			fetched_at = excluded.fetched_at
	`

	q := r.getQuerier()
	for _, rec := range records {
		_, err := q.ExecContext(ctx, query,
			rec.Date,
			rec.FearGreedIndex,
			rec.PositiveCount,
			rec.NeutralCount,
			rec.NegativeCount,
			rec.TotalCount,
		)
		if err != nil {
			return fmt.Errorf("failed to upsert fear_greed_record %s: %w", rec.Date, err)
		}
	}
	return nil
}

// GetRecord retrieves the cached record for a single date.
// Returns apperrors.ErrRecordNotFound when the date is not cached.
func (r *SentimentRepository) GetRecord(ctx context.Context, date string) (model.FearGreedRecord, error) {
	query := `
		SELECT date, fear_greed_index, positive_count, neutral_count, negative_count, total_count
		FROM fear_greed_record
		WHERE date = ?
	`

	var rec model.FearGreedRecord
	err := r.getQuerier().QueryRowContext(ctx, query, date).Scan(
		&rec.Date,
		&rec.FearGreedIndex,
		&rec.PositiveCount,
		&rec.NeutralCount,
		&rec.NegativeCount,
		&rec.TotalCount,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return model.FearGreedRecord{}, apperrors.ErrRecordNotFound
	}
	if err != nil {
		return model.FearGreedRecord{}, fmt.Errorf("failed to query fear_greed_record: %w", err)
	}
	return rec, nil
}

// GetRange retrieves cached records between startDate and endDate inclusive,
// oldest first. An empty bound leaves that side of the range open.
// Returns an empty slice if no records are cached.
func (r *SentimentRepository) GetRange(ctx context.Context, startDate, endDate string) ([]model.FearGreedRecord, error) {
	query := `
		SELECT date, fear_greed_index, positive_count, neutral_count, negative_count, total_count
		FROM fear_greed_record
		WHERE (? = '' OR date >= ?) AND (? = '' OR date <= ?)
		ORDER BY date ASC
	`

	rows, err := r.getQuerier().QueryContext(ctx, query, startDate, startDate, endDate, endDate)
	if err != nil {
		return nil, fmt.Errorf("failed to query fear_greed_record table: %w", err)
	}
	defer rows.Close()

	records := []model.FearGreedRecord{}
	for rows.Next() {
		var rec model.FearGreedRecord
		if err := rows.Scan(
			&rec.Date,
			&rec.FearGreedIndex,
			&rec.PositiveCount,
			&rec.NeutralCount,
			&rec.NegativeCount,
			&rec.TotalCount,
		); err != nil {
			return nil, fmt.Errorf("failed to scan fear_greed_record results: %w", err)
		}
		records = append(records, rec)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating fear_greed_record table: %w", err)
	}

	return records, nil
}

// Stats reports how many records are cached and the first and last cached dates.
func (r *SentimentRepository) Stats(ctx context.Context) (int, string, string, error) {
	query := `SELECT COUNT(*), COALESCE(MIN(date), ''), COALESCE(MAX(date), '') FROM fear_greed_record`

	var count int
	var first, last string
	if err := r.getQuerier().QueryRowContext(ctx, query).Scan(&count, &first, &last); err != nil {
		return 0, "", "", fmt.Errorf("failed to query fear_greed_record stats: %w", err)
	}
	return count, first, last, nil
}
