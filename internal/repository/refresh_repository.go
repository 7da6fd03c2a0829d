package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/perception-to/Bitcoin-Market-Sentiment-Backend/internal/apperrors"
	"github.com/perception-to/Bitcoin-Market-Sentiment-Backend/internal/model"
)

// RefreshRepository records cache refresh runs in the refresh_log table.
type RefreshRepository struct {
	db *sql.DB
	tx *sql.Tx
}

// NewRefreshRepository creates a new RefreshRepository with the provided database connection.
func NewRefreshRepository(db *sql.DB) *RefreshRepository {
	return &RefreshRepository{db: db}
}

// WithTx returns a repository that runs its statements inside tx.
func (r *RefreshRepository) WithTx(tx *sql.Tx) *RefreshRepository {
	return &RefreshRepository{
		db: r.db,
		tx: tx,
	}
}

func (r *RefreshRepository) getQuerier() interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
} {
	if r.tx != nil {
		return r.tx
	}
	return r.db
}

// InsertRefresh stores a finished refresh run.
func (r *RefreshRepository) InsertRefresh(ctx context.Context, run model.RefreshResult) error {
	query := `
		INSERT INTO refresh_log (id, start_date, end_date, record_count, started_at, finished_at, error)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`

	var runErr sql.NullString
	if run.Error != "" {
		runErr = sql.NullString{String: run.Error, Valid: true}
	}

	_, err := r.getQuerier().ExecContext(ctx, query,
		run.ID,
		run.StartDate,
		run.EndDate,
		run.RecordCount,
		run.StartedAt.UTC(),
		run.FinishedAt.UTC(),
		runErr,
	)
	if err != nil {
		return fmt.Errorf("failed to insert refresh_log: %w", err)
	}
	return nil
}

// GetLastRefresh returns the most recently started refresh run.
// Returns apperrors.ErrRefreshNotFound if no run has been recorded.
func (r *RefreshRepository) GetLastRefresh(ctx context.Context) (model.RefreshResult, error) {
	query := `
		SELECT id, start_date, end_date, record_count, started_at, finished_at, error
		FROM refresh_log
		ORDER BY started_at DESC
		LIMIT 1
	`

	var run model.RefreshResult
	var runErr sql.NullString
	err := r.getQuerier().QueryRowContext(ctx, query).Scan(
		&run.ID,
		&run.StartDate,
		&run.EndDate,
		&run.RecordCount,
		&run.StartedAt,
		&run.FinishedAt,
		&runErr,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return model.RefreshResult{}, apperrors.ErrRefreshNotFound
	}
	if err != nil {
		return model.RefreshResult{}, fmt.Errorf("failed to query refresh_log: %w", err)
	}
	run.Error = runErr.String
	return run, nil
}

// ListRefreshes returns refresh runs matching filters, ordered by start time.
// Returns an empty slice if no run matches.
func (r *RefreshRepository) ListRefreshes(ctx context.Context, filters model.RefreshFilters) ([]model.RefreshResult, error) {
	var conditions []string
	var args []any

	wantSuccess, wantError := true, true
	if len(filters.Statuses) > 0 {
		wantSuccess, wantError = false, false
		for _, s := range filters.Statuses {
			switch s {
			case model.RefreshStatusSuccess:
				wantSuccess = true
			case model.RefreshStatusError:
				wantError = true
			}
		}
	}
	switch {
	case wantSuccess && !wantError:
		conditions = append(conditions, "error IS NULL")
	case wantError && !wantSuccess:
		conditions = append(conditions, "error IS NOT NULL")
	}

	if filters.StartDate != nil {
		conditions = append(conditions, "started_at >= ?")
		args = append(args, filters.StartDate.UTC())
	}
	if filters.EndDate != nil {
		conditions = append(conditions, "started_at <= ?")
		args = append(args, filters.EndDate.UTC())
	}

	query := `
		SELECT id, start_date, end_date, record_count, started_at, finished_at, error
		FROM refresh_log
	`
	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}
	if filters.SortDir == "asc" {
		query += " ORDER BY started_at ASC"
	} else {
		query += " ORDER BY started_at DESC"
	}
	if filters.PerPage > 0 {
		query += " LIMIT ?"
		args = append(args, filters.PerPage)
	}

	rows, err := r.getQuerier().QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query refresh_log table: %w", err)
	}
	defer rows.Close()

	runs := []model.RefreshResult{}
	for rows.Next() {
		var run model.RefreshResult
		var runErr sql.NullString
		if err := rows.Scan(
			&run.ID,
			&run.StartDate,
			&run.EndDate,
			&run.RecordCount,
			&run.StartedAt,
			&run.FinishedAt,
			&runErr,
		); err != nil {
			return nil, fmt.Errorf("failed to scan refresh_log results: %w", err)
		}
		run.Error = runErr.String
		runs = append(runs, run)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating refresh_log table: %w", err)
	}

	return runs, nil
}
