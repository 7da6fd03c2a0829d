package service_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/perception-to/Bitcoin-Market-Sentiment-Backend/internal/apperrors"
	"github.com/perception-to/Bitcoin-Market-Sentiment-Backend/internal/model"
	"github.com/perception-to/Bitcoin-Market-Sentiment-Backend/internal/repository"
	"github.com/perception-to/Bitcoin-Market-Sentiment-Backend/internal/testutil"
)

// TestSentimentService_Refresh tests the cache refresh job.
//
// WHY: The cache is the only thing standing between an upstream outage and
// synthesized data. Every run must be logged so failures are visible.
func TestSentimentService_Refresh(t *testing.T) {
	ctx := context.Background()
	clock := testutil.FixedClock

	t.Run("stores the range and logs the run", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		client := testutil.NewMockFearGreedClient(testutil.MonthRecords(time.July, 2025, 60)...)
		svc := testutil.NewTestSentimentService(t, db, client, clock(t, "2025-07-31T23:00:00Z"))

		run, err := svc.Refresh(ctx, "2025-07-01", "2025-07-31")
		if err != nil {
			t.Fatalf("Refresh() returned unexpected error: %v", err)
		}
		if run.RecordCount != 31 || run.Error != "" || run.ID == "" {
			t.Errorf("Unexpected run %+v", run)
		}
		if n := testutil.CountRows(t, db, "fear_greed_record"); n != 31 {
			t.Errorf("Expected 31 cached records, got %d", n)
		}

		last, err := repository.NewRefreshRepository(db).GetLastRefresh(ctx)
		if err != nil {
			t.Fatalf("GetLastRefresh() returned unexpected error: %v", err)
		}
		if last.ID != run.ID {
			t.Errorf("Expected run %s to be logged, got %s", run.ID, last.ID)
		}
	})

	t.Run("logs failed runs", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		client := testutil.NewMockFearGreedClient().WithError(errUpstream)
		svc := testutil.NewTestSentimentService(t, db, client, clock(t, "2025-07-31T23:00:00Z"))

		run, err := svc.Refresh(ctx, "2025-07-01", "2025-07-31")
		if !errors.Is(err, apperrors.ErrFailedToRefresh) {
			t.Fatalf("Expected ErrFailedToRefresh, got %v", err)
		}
		if run.Error != errUpstream.Error() || run.RecordCount != 0 {
			t.Errorf("Unexpected failed run %+v", run)
		}
		if n := testutil.CountRows(t, db, "refresh_log"); n != 1 {
			t.Errorf("Expected failed run to be logged, got %d rows", n)
		}
	})

	t.Run("RefreshAll runs from the start date through today", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		client := testutil.NewMockFearGreedClient(testutil.MonthRecords(time.July, 2025, 60)...)
		opts := testutil.DefaultSentimentOptions(clock(t, "2025-07-19T06:00:00Z"))
		opts.RefreshStartDate = "2025-07-10"
		svc := testutil.NewTestSentimentServiceWithOptions(t, db, client, opts)

		run, err := svc.RefreshAll(ctx)
		if err != nil {
			t.Fatalf("RefreshAll() returned unexpected error: %v", err)
		}
		if run.StartDate != "2025-07-10" || run.EndDate != "2025-07-19" || run.RecordCount != 10 {
			t.Errorf("Unexpected run %+v", run)
		}
	})
}

// TestSentimentService_Snapshot tests the cache snapshot.
func TestSentimentService_Snapshot(t *testing.T) {
	ctx := context.Background()

	t.Run("empty cache", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		svc := testutil.NewTestSentimentService(t, db, testutil.NewMockFearGreedClient(), testutil.FixedClock(t, "2025-07-19T06:00:00Z"))

		snap, err := svc.Snapshot(ctx)
		if err != nil {
			t.Fatalf("Snapshot() returned unexpected error: %v", err)
		}
		if snap.TotalDays != 0 || len(snap.Daily) != 0 || len(snap.Monthly) != 0 {
			t.Errorf("Expected empty snapshot, got %+v", snap)
		}
	})

	t.Run("groups days by month", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		testutil.NewRecord("2025-06-30").WithIndex(15).WithCounts(10, 10, 80).Build(t, db)
		testutil.NewRecord("2025-07-01").WithIndex(61).WithCounts(50, 30, 20).Build(t, db)
		testutil.NewRecord("2025-07-02").WithIndex(85).WithCounts(70, 10, 20).Build(t, db)
		svc := testutil.NewTestSentimentService(t, db, testutil.NewMockFearGreedClient(), testutil.FixedClock(t, "2025-07-19T06:00:00Z"))

		snap, err := svc.Snapshot(ctx)
		if err != nil {
			t.Fatalf("Snapshot() returned unexpected error: %v", err)
		}

		if snap.TotalDays != 3 {
			t.Errorf("Expected 3 days, got %d", snap.TotalDays)
		}
		if diff := cmp.Diff(model.DateRange{Start: "2025-06-30", End: "2025-07-02"}, snap.DataRange); diff != "" {
			t.Errorf("DataRange mismatch (-want +got):\n%s", diff)
		}

		wantDay := model.SnapshotDay{Score: 61, Category: "Greed", Positive: 50, Neutral: 30, Negative: 20, Total: 100}
		if diff := cmp.Diff(wantDay, snap.Daily["2025-07-01"]); diff != "" {
			t.Errorf("Daily mismatch (-want +got):\n%s", diff)
		}

		wantJuly := model.SnapshotMonth{
			AvgScore:     73,
			Category:     "Greed",
			TotalSources: 200,
			Days:         2,
			DayCounts:    model.DayCounts{GreedDays: 1, NeutralDays: 1},
		}
		if diff := cmp.Diff(wantJuly, snap.Monthly["2025-07"]); diff != "" {
			t.Errorf("Monthly mismatch (-want +got):\n%s", diff)
		}
		if snap.Monthly["2025-06"].Category != "Extreme Fear" {
			t.Errorf("Expected June to be Extreme Fear, got %s", snap.Monthly["2025-06"].Category)
		}
	})
}

// TestSentimentService_CacheStatus tests the cache summary.
func TestSentimentService_CacheStatus(t *testing.T) {
	ctx := context.Background()
	db := testutil.SetupTestDB(t)
	client := testutil.NewMockFearGreedClient(testutil.MonthRecords(time.July, 2025, 60)...)
	svc := testutil.NewTestSentimentService(t, db, client, testutil.FixedClock(t, "2025-07-31T23:00:00Z"))

	status, err := svc.CacheStatus(ctx)
	if err != nil {
		t.Fatalf("CacheStatus() returned unexpected error: %v", err)
	}
	if status.Records != 0 || status.LastRefresh != nil {
		t.Errorf("Expected empty status, got %+v", status)
	}

	if _, err := svc.Refresh(ctx, "2025-07-01", "2025-07-31"); err != nil {
		t.Fatalf("Refresh() returned unexpected error: %v", err)
	}

	status, err = svc.CacheStatus(ctx)
	if err != nil {
		t.Fatalf("CacheStatus() returned unexpected error: %v", err)
	}
	if status.Records != 31 || status.FirstDate != "2025-07-01" || status.LastDate != "2025-07-31" {
		t.Errorf("Unexpected status %+v", status)
	}
	if status.LastRefresh == nil || status.LastRefresh.RecordCount != 31 {
		t.Errorf("Expected last refresh with 31 records, got %+v", status.LastRefresh)
	}
}
