package service_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/perception-to/Bitcoin-Market-Sentiment-Backend/internal/apperrors"
	"github.com/perception-to/Bitcoin-Market-Sentiment-Backend/internal/model"
	"github.com/perception-to/Bitcoin-Market-Sentiment-Backend/internal/service"
	"github.com/perception-to/Bitcoin-Market-Sentiment-Backend/internal/testutil"
)

var errUpstream = errors.New("upstream returned 502 Bad Gateway")

// TestSentimentService_Daily tests the daily analysis.
//
// WHY: The daily page is the most visited page. Its numbers must come from the
// upstream record when available, and the provenance must say honestly where
// they came from when it is not.
func TestSentimentService_Daily(t *testing.T) {
	ctx := context.Background()
	july19 := testutil.NewRecord("2025-07-19").WithIndex(72).WithCounts(180, 20, 47).Record()

	t.Run("builds the analysis from a live record", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		client := testutil.NewMockFearGreedClient(july19)
		svc := testutil.NewTestSentimentService(t, db, client, testutil.FixedClock(t, "2025-07-20T10:00:00Z"))

		got, err := svc.Daily(ctx, "2025-07-19")
		if err != nil {
			t.Fatalf("Daily() returned unexpected error: %v", err)
		}

		if got.Provenance != model.ProvenanceLive {
			t.Errorf("Expected live provenance, got %s", got.Provenance)
		}
		if got.Sentiment != 72 || got.SentimentLabel != "Greed" || got.SentimentColor != "#34C759" {
			t.Errorf("Unexpected classification %d %s %s", got.Sentiment, got.SentimentLabel, got.SentimentColor)
		}
		if got.FormattedDate != "Saturday, July 19, 2025" {
			t.Errorf("Unexpected formatted date %q", got.FormattedDate)
		}

		wantBreakdown := model.SentimentBreakdown{Positive: 73, Neutral: 8, Negative: 19}
		if diff := cmp.Diff(wantBreakdown, got.SentimentBreakdown); diff != "" {
			t.Errorf("SentimentBreakdown mismatch (-want +got):\n%s", diff)
		}

		// 180/247 - 47/247 = 53.85 points, +50 = 103.85
		wantMetrics := model.KeyMetrics{
			SocialMediaMentions:   247,
			NewsArticles:          74,
			InstitutionalInterest: 72,
			RetailSentiment:       104,
		}
		if diff := cmp.Diff(wantMetrics, got.KeyMetrics); diff != "" {
			t.Errorf("KeyMetrics mismatch (-want +got):\n%s", diff)
		}

		if len(got.KeyEvents) != 5 || got.KeyEvents[0] != "Bitcoin sentiment analysis for Saturday, July 19, 2025" {
			t.Errorf("Unexpected key events %v", got.KeyEvents)
		}

		if !got.Hourly.Synthetic {
			t.Error("Expected hourly series to be flagged synthetic")
		}
		if len(got.Hourly.Points) != 24 {
			t.Fatalf("Expected 24 hourly points, got %d", len(got.Hourly.Points))
		}
		for _, p := range got.Hourly.Points {
			if p.PositivePercentage < 0 || p.PositivePercentage > 100 {
				t.Errorf("Hourly positive out of range: %v", p.PositivePercentage)
			}
		}
		if got.Hourly.Points[9].Date != "2025-07-19T09:00:00" {
			t.Errorf("Unexpected hour label %q", got.Hourly.Points[9].Date)
		}

		if n := testutil.CountRows(t, db, "fear_greed_record"); n != 1 {
			t.Errorf("Expected live record to be cached, got %d rows", n)
		}
	})

	t.Run("limits today's hourly series to hours that have started", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		client := testutil.NewMockFearGreedClient(july19)
		svc := testutil.NewTestSentimentService(t, db, client, testutil.FixedClock(t, "2025-07-19T14:30:00Z"))

		got, err := svc.Daily(ctx, "2025-07-19")
		if err != nil {
			t.Fatalf("Daily() returned unexpected error: %v", err)
		}
		if len(got.Hourly.Points) != 15 {
			t.Errorf("Expected 15 hourly points, got %d", len(got.Hourly.Points))
		}
	})

	t.Run("serves the cache when upstream fails", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		testutil.NewRecord("2025-07-19").WithIndex(20).Build(t, db)
		client := testutil.NewMockFearGreedClient().WithError(errUpstream)
		svc := testutil.NewTestSentimentService(t, db, client, testutil.FixedClock(t, "2025-07-20T10:00:00Z"))

		got, err := svc.Daily(ctx, "2025-07-19")
		if err != nil {
			t.Fatalf("Daily() returned unexpected error: %v", err)
		}
		if got.Provenance != model.ProvenanceCached {
			t.Errorf("Expected cached provenance, got %s", got.Provenance)
		}
		if got.Sentiment != 20 || got.SentimentLabel != "Extreme Fear" {
			t.Errorf("Unexpected cached analysis %d %s", got.Sentiment, got.SentimentLabel)
		}
	})

	t.Run("synthesizes fallback data when nothing else answers", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		client := testutil.NewMockFearGreedClient().WithError(errUpstream)
		svc := testutil.NewTestSentimentService(t, db, client, testutil.FixedClock(t, "2025-07-20T10:00:00Z"))

		got, err := svc.Daily(ctx, "2025-07-19")
		if err != nil {
			t.Fatalf("Daily() returned unexpected error: %v", err)
		}
		if got.Provenance != model.ProvenanceFallback {
			t.Errorf("Expected fallback provenance, got %s", got.Provenance)
		}
		if got.Sentiment < 0 || got.Sentiment > 99 {
			t.Errorf("Fallback sentiment out of range: %d", got.Sentiment)
		}
		if got.SentimentBreakdown.Positive+got.SentimentBreakdown.Negative != 100 {
			t.Errorf("Fallback positive+negative should be 100, got %+v", got.SentimentBreakdown)
		}
		if len(got.KeyEvents) != 4 || got.KeyEvents[0] != "Major market movement detected at opening" {
			t.Errorf("Unexpected fallback key events %v", got.KeyEvents)
		}
		if len(got.Hourly.Points) != 24 || !got.Hourly.Synthetic {
			t.Errorf("Unexpected fallback hourly series: %d points, synthetic=%v", len(got.Hourly.Points), got.Hourly.Synthetic)
		}
		if n := testutil.CountRows(t, db, "fear_greed_record"); n != 0 {
			t.Errorf("Fallback data must not be cached, got %d rows", n)
		}
	})

	t.Run("returns the error when fallback is disabled", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		client := testutil.NewMockFearGreedClient().WithError(errUpstream)
		opts := testutil.DefaultSentimentOptions(testutil.FixedClock(t, "2025-07-20T10:00:00Z"))
		opts.FallbackEnabled = false
		svc := testutil.NewTestSentimentServiceWithOptions(t, db, client, opts)

		_, err := svc.Daily(ctx, "2025-07-19")
		if !errors.Is(err, apperrors.ErrFailedToLoadSentiment) {
			t.Errorf("Expected ErrFailedToLoadSentiment, got %v", err)
		}
		if !errors.Is(err, errUpstream) {
			t.Errorf("Expected the upstream error to be wrapped, got %v", err)
		}
	})

	t.Run("does not fall back when the request is cancelled", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		client := testutil.NewMockFearGreedClient(july19)
		svc := testutil.NewTestSentimentService(t, db, client, testutil.FixedClock(t, "2025-07-20T10:00:00Z"))

		cancelled, cancel := context.WithCancel(ctx)
		cancel()

		_, err := svc.Daily(cancelled, "2025-07-19")
		if !errors.Is(err, context.Canceled) {
			t.Errorf("Expected context.Canceled, got %v", err)
		}
	})

	t.Run("rejects a malformed date", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		svc := testutil.NewTestSentimentService(t, db, testutil.NewMockFearGreedClient(), testutil.FixedClock(t, "2025-07-20T10:00:00Z"))

		_, err := svc.Daily(ctx, "2025-02-30")
		if !errors.Is(err, apperrors.ErrInvalidDate) {
			t.Errorf("Expected ErrInvalidDate, got %v", err)
		}
	})
}

// TestSentimentService_DailyPage tests navigation around a daily analysis.
func TestSentimentService_DailyPage(t *testing.T) {
	ctx := context.Background()
	db := testutil.SetupTestDB(t)
	client := testutil.NewMockFearGreedClient(testutil.NewRecord("2025-07-19").Record())
	svc := testutil.NewTestSentimentService(t, db, client, testutil.FixedClock(t, "2025-07-19T14:30:00Z"))

	page, err := svc.DailyPage(ctx, "2025-07-19")
	if err != nil {
		t.Fatalf("DailyPage() returned unexpected error: %v", err)
	}
	if page.Navigation.PrevURL != "/bitcoin-market-sentiment/2025/july/18" {
		t.Errorf("Unexpected previous URL %q", page.Navigation.PrevURL)
	}
	if page.Navigation.NextDate != nil {
		t.Errorf("Expected no next link for today, got %q", *page.Navigation.NextDate)
	}
}

// TestSentimentService_Monthly tests the monthly report and its two error policies.
//
// WHY: The monthly page synthesizes data when nothing else answers, while the
// index page must see the failure so it can leave the month out.
func TestSentimentService_Monthly(t *testing.T) {
	ctx := context.Background()
	clock := "2025-07-19T14:30:00Z"

	t.Run("aggregates a live month", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		client := testutil.NewMockFearGreedClient(
			testutil.NewRecord("2025-06-01").WithIndex(20).WithCounts(10, 30, 60).Record(),
			testutil.NewRecord("2025-06-02").WithIndex(50).WithCounts(40, 20, 40).Record(),
			testutil.NewRecord("2025-06-03").WithIndex(80).WithCounts(70, 10, 20).Record(),
			testutil.NewRecord("2025-07-01").WithIndex(99).Record(),
		)
		svc := testutil.NewTestSentimentService(t, db, client, testutil.FixedClock(t, clock))

		got, err := svc.Monthly(ctx, time.June, 2025, service.FallbackOnError)
		if err != nil {
			t.Fatalf("Monthly() returned unexpected error: %v", err)
		}

		if got.Provenance != model.ProvenanceLive {
			t.Errorf("Expected live provenance, got %s", got.Provenance)
		}
		if got.Month != "June" || got.Year != "2025" || got.Slug != "june-2025" || got.IsCurrent {
			t.Errorf("Unexpected month metadata %s %s %s current=%v", got.Month, got.Year, got.Slug, got.IsCurrent)
		}
		if got.AverageSentiment != 50 {
			t.Errorf("Expected average 50, got %d", got.AverageSentiment)
		}
		wantCounts := model.DayCounts{FearDays: 1, GreedDays: 1, NeutralDays: 1}
		if diff := cmp.Diff(wantCounts, got.DayCounts); diff != "" {
			t.Errorf("DayCounts mismatch (-want +got):\n%s", diff)
		}
		wantSummary := model.MonthlySummary{TotalPositive: 40, TotalNeutral: 20, TotalNegative: 40}
		if diff := cmp.Diff(wantSummary, got.MonthlySummary); diff != "" {
			t.Errorf("MonthlySummary mismatch (-want +got):\n%s", diff)
		}
		if len(got.DailyData) != 3 {
			t.Errorf("Expected 3 days, got %d", len(got.DailyData))
		}
		if got.KeyMetrics.SocialMediaMentions != 300 || got.KeyMetrics.NewsArticles != 90 {
			t.Errorf("Unexpected key metrics %+v", got.KeyMetrics)
		}
		if got.TopEvents[0] != "Bitcoin sentiment analysis for June 2025" {
			t.Errorf("Unexpected top event %q", got.TopEvents[0])
		}
	})

	t.Run("serves the cache when upstream fails", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		testutil.CreateRecords(t, db, testutil.MonthRecords(time.June, 2025, 10))
		client := testutil.NewMockFearGreedClient().WithError(errUpstream)
		svc := testutil.NewTestSentimentService(t, db, client, testutil.FixedClock(t, clock))

		got, err := svc.Monthly(ctx, time.June, 2025, service.PropagateError)
		if err != nil {
			t.Fatalf("Monthly() returned unexpected error: %v", err)
		}
		if got.Provenance != model.ProvenanceCached || got.FearDays != 30 {
			t.Errorf("Unexpected cached report: provenance=%s fearDays=%d", got.Provenance, got.FearDays)
		}
	})

	t.Run("propagates the error for the index page", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		client := testutil.NewMockFearGreedClient().WithError(errUpstream)
		svc := testutil.NewTestSentimentService(t, db, client, testutil.FixedClock(t, clock))

		_, err := svc.Monthly(ctx, time.June, 2025, service.PropagateError)
		if !errors.Is(err, apperrors.ErrFailedToLoadSentiment) {
			t.Errorf("Expected ErrFailedToLoadSentiment, got %v", err)
		}
	})

	t.Run("synthesizes the current month up to today", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		client := testutil.NewMockFearGreedClient().WithError(errUpstream)
		svc := testutil.NewTestSentimentService(t, db, client, testutil.FixedClock(t, clock))

		got, err := svc.Monthly(ctx, time.July, 2025, service.FallbackOnError)
		if err != nil {
			t.Fatalf("Monthly() returned unexpected error: %v", err)
		}
		if got.Provenance != model.ProvenanceFallback {
			t.Errorf("Expected fallback provenance, got %s", got.Provenance)
		}
		if len(got.DailyData) != 19 || got.DayCounts.Total() != 19 {
			t.Errorf("Expected 19 synthesized days, got %d (counts %d)", len(got.DailyData), got.DayCounts.Total())
		}
		if !got.IsCurrent {
			t.Error("Expected July 2025 to be the current month")
		}
	})

	t.Run("fails for a future month even with fallback", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		client := testutil.NewMockFearGreedClient()
		svc := testutil.NewTestSentimentService(t, db, client, testutil.FixedClock(t, clock))

		_, err := svc.Monthly(ctx, time.September, 2025, service.FallbackOnError)
		if !errors.Is(err, apperrors.ErrNoData) {
			t.Errorf("Expected ErrNoData, got %v", err)
		}
	})
}

// TestSentimentService_MonthlyPage tests navigation and the calendar grid.
func TestSentimentService_MonthlyPage(t *testing.T) {
	db := testutil.SetupTestDB(t)
	client := testutil.NewMockFearGreedClient(testutil.MonthRecords(time.July, 2025, 60)...)
	svc := testutil.NewTestSentimentService(t, db, client, testutil.FixedClock(t, "2025-07-19T14:30:00Z"))

	page, err := svc.MonthlyPage(context.Background(), time.July, 2025)
	if err != nil {
		t.Fatalf("MonthlyPage() returned unexpected error: %v", err)
	}
	if page.Navigation.NextMonth != nil {
		t.Errorf("Expected no next month, got %q", *page.Navigation.NextMonth)
	}
	if page.Navigation.PrevMonth == nil || *page.Navigation.PrevMonth != "june-2025" {
		t.Errorf("Unexpected previous month %v", page.Navigation.PrevMonth)
	}
	if len(page.Calendar) != 5 {
		t.Errorf("Expected 5 calendar weeks, got %d", len(page.Calendar))
	}
}

// TestSentimentService_RecentDays tests the recent day links.
func TestSentimentService_RecentDays(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := testutil.NewTestSentimentService(t, db, testutil.NewMockFearGreedClient(), testutil.FixedClock(t, "2025-07-19T14:30:00Z"))

	days := svc.RecentDays()
	if len(days) != 7 {
		t.Fatalf("Expected 7 days, got %d", len(days))
	}
	if days[0].Date != "2025-07-19" || days[6].Date != "2025-07-13" {
		t.Errorf("Unexpected range %s..%s", days[0].Date, days[6].Date)
	}
}
