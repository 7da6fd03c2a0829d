package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/perception-to/Bitcoin-Market-Sentiment-Backend/internal/apperrors"
	"github.com/perception-to/Bitcoin-Market-Sentiment-Backend/internal/calendar"
	"github.com/perception-to/Bitcoin-Market-Sentiment-Backend/internal/metrics"
	"github.com/perception-to/Bitcoin-Market-Sentiment-Backend/internal/model"
	"github.com/perception-to/Bitcoin-Market-Sentiment-Backend/internal/repository"
	"github.com/perception-to/Bitcoin-Market-Sentiment-Backend/internal/sentiment"
	"go.uber.org/zap"
)

// Refresh fetches startDate..endDate from the upstream API and writes every
// record to the cache in one transaction. Each run is recorded in the refresh
// log, including failed ones; the returned result is valid even when err is not nil.
func (s *SentimentService) Refresh(ctx context.Context, startDate, endDate string) (model.RefreshResult, error) {
	run := model.RefreshResult{
		ID:        uuid.New().String(),
		StartDate: startDate,
		EndDate:   endDate,
		StartedAt: s.opts.Clock().UTC(),
	}

	records, err := s.client.QueryRange(ctx, startDate, endDate)
	if err == nil {
		err = repository.RunInTx(ctx, s.db, func(tx *sql.Tx) error {
			return s.sentimentRepo.WithTx(tx).UpsertRecords(ctx, records)
		})
	}

	run.FinishedAt = s.opts.Clock().UTC()
	if err == nil {
		run.RecordCount = len(records)
	} else {
		run.Error = err.Error()
	}

	if logErr := s.refreshRepo.InsertRefresh(context.WithoutCancel(ctx), run); logErr != nil {
		s.logger.Error("failed to record refresh run", zap.String("id", run.ID), zap.Error(logErr))
	}

	if err != nil {
		metrics.Refreshes.WithLabelValues("error").Inc()
		s.logger.Error("sentiment cache refresh failed",
			zap.String("id", run.ID),
			zap.String("start", startDate),
			zap.String("end", endDate),
			zap.Error(err),
		)
		return run, fmt.Errorf("%w: %w", apperrors.ErrFailedToRefresh, err)
	}

	metrics.Refreshes.WithLabelValues("success").Inc()
	metrics.RefreshedRecords.Set(float64(run.RecordCount))
	s.logger.Info("sentiment cache refreshed",
		zap.String("id", run.ID),
		zap.Int("records", run.RecordCount),
		zap.Duration("took", run.FinishedAt.Sub(run.StartedAt)),
	)
	return run, nil
}

// RefreshAll refreshes from the configured start date through today.
// It is the job run by the refresh scheduler.
func (s *SentimentService) RefreshAll(ctx context.Context) (model.RefreshResult, error) {
	today := calendar.Today(s.opts.Clock()).Format(time.DateOnly)
	return s.Refresh(ctx, s.opts.RefreshStartDate, today)
}

// Snapshot returns the whole cache keyed by date and by month, classified on
// the snapshot scale.
func (s *SentimentService) Snapshot(ctx context.Context) (model.Snapshot, error) {
	records, err := s.sentimentRepo.GetRange(ctx, "", "")
	if err != nil {
		return model.Snapshot{}, fmt.Errorf("%w: %w", apperrors.ErrFailedToLoadSnapshot, err)
	}

	snap := model.Snapshot{
		Generated: s.opts.Clock().UTC(),
		TotalDays: len(records),
		Daily:     make(map[string]model.SnapshotDay, len(records)),
		Monthly:   make(map[string]model.SnapshotMonth),
	}
	if len(records) > 0 {
		snap.DataRange = model.DateRange{Start: records[0].Date, End: records[len(records)-1].Date}
	}

	byMonth := make(map[string][]model.FearGreedRecord)
	for _, r := range records {
		snap.Daily[r.Date] = model.SnapshotDay{
			Score:    r.FearGreedIndex,
			Category: sentiment.SnapshotScale.Classify(r.FearGreedIndex).Label,
			Positive: r.PositiveCount,
			Neutral:  r.NeutralCount,
			Negative: r.NegativeCount,
			Total:    r.TotalCount,
		}
		if len(r.Date) >= len("2006-01") {
			key := r.Date[:len("2006-01")]
			byMonth[key] = append(byMonth[key], r)
		}
	}

	for key, recs := range byMonth {
		avg := sentiment.AverageIndex(recs)
		sources := 0
		for _, r := range recs {
			sources += r.TotalCount
		}
		snap.Monthly[key] = model.SnapshotMonth{
			AvgScore:     avg,
			Category:     sentiment.SnapshotScale.Classify(avg).Label,
			TotalSources: sources,
			Days:         len(recs),
			DayCounts:    sentiment.CountDays(recs),
		}
	}

	return snap, nil
}

// CacheStatus summarises the cache and the last refresh run.
func (s *SentimentService) CacheStatus(ctx context.Context) (model.CacheStatus, error) {
	count, first, last, err := s.sentimentRepo.Stats(ctx)
	if err != nil {
		return model.CacheStatus{}, err
	}
	status := model.CacheStatus{Records: count, FirstDate: first, LastDate: last}

	run, err := s.refreshRepo.GetLastRefresh(ctx)
	switch {
	case err == nil:
		status.LastRefresh = &run
	case errors.Is(err, apperrors.ErrRefreshNotFound):
	default:
		return model.CacheStatus{}, err
	}
	return status, nil
}

// RefreshHistory lists recorded refresh runs matching filters.
func (s *SentimentService) RefreshHistory(ctx context.Context, filters model.RefreshFilters) ([]model.RefreshResult, error) {
	runs, err := s.refreshRepo.ListRefreshes(ctx, filters)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", apperrors.ErrFailedToLoadRefreshLog, err)
	}
	return runs, nil
}
