package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"math"
	"math/rand/v2"
	"strconv"
	"sync"
	"time"

	"github.com/perception-to/Bitcoin-Market-Sentiment-Backend/internal/apperrors"
	"github.com/perception-to/Bitcoin-Market-Sentiment-Backend/internal/calendar"
	"github.com/perception-to/Bitcoin-Market-Sentiment-Backend/internal/feargreed"
	"github.com/perception-to/Bitcoin-Market-Sentiment-Backend/internal/metrics"
	"github.com/perception-to/Bitcoin-Market-Sentiment-Backend/internal/model"
	"github.com/perception-to/Bitcoin-Market-Sentiment-Backend/internal/repository"
	"github.com/perception-to/Bitcoin-Market-Sentiment-Backend/internal/sentiment"
	"go.uber.org/zap"
)

// FetchPolicy decides what Monthly does when neither the upstream API nor the
// local cache can answer.
type FetchPolicy int

const (
	// FallbackOnError synthesizes the month when fallback is enabled.
	// Used by the monthly page.
	FallbackOnError FetchPolicy = iota
	// PropagateError returns the error. Used by the index page, which omits
	// months that fail.
	PropagateError
)

// Page labels for the provenance metric.
const (
	pageDaily   = "daily"
	pageMonthly = "monthly"
	pageIndex   = "index"

	provenanceError = "error"
)

// recentDayCount is the number of daily links on the index page.
const recentDayCount = 7

// SentimentOptions configures a SentimentService.
type SentimentOptions struct {
	Clock            func() time.Time // defaults to time.Now
	Rand             *rand.Rand       // source for synthesized data; randomly seeded when nil
	FallbackEnabled  bool
	IndexConcurrency int    // maximum in-flight month fetches for the index page
	IndexYears       int    // calendar years listed on the index page
	RefreshStartDate string // first date fetched by RefreshAll
}

// SentimentService assembles the daily, monthly and index pages from the
// upstream fear-greed-index API, falling back to the local cache and then to
// synthesized data. Every result is tagged with its provenance.
type SentimentService struct {
	db            *sql.DB
	client        feargreed.Client
	sentimentRepo *repository.SentimentRepository
	refreshRepo   *repository.RefreshRepository
	logger        *zap.Logger
	opts          SentimentOptions

	randMu sync.Mutex // guards opts.Rand
}

// NewSentimentService creates a new SentimentService with the provided dependencies.
func NewSentimentService(
	db *sql.DB,
	client feargreed.Client,
	sentimentRepo *repository.SentimentRepository,
	refreshRepo *repository.RefreshRepository,
	logger *zap.Logger,
	opts SentimentOptions,
) *SentimentService {
	if opts.Clock == nil {
		opts.Clock = time.Now
	}
	if opts.Rand == nil {
		opts.Rand = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	if opts.IndexConcurrency < 1 {
		opts.IndexConcurrency = 1
	}
	if opts.IndexYears < 1 {
		opts.IndexYears = 1
	}
	return &SentimentService{
		db:            db,
		client:        client,
		sentimentRepo: sentimentRepo,
		refreshRepo:   refreshRepo,
		logger:        logger.Named("sentiment"),
		opts:          opts,
	}
}

// Daily returns the analysis for one date (YYYY-MM-DD).
//
// The upstream API is asked first; a live record is also written to the cache.
// When upstream fails, the cached record for the date is used. When that is
// missing too, synthesized data is returned if fallback is enabled, otherwise
// an error wrapping apperrors.ErrFailedToLoadSentiment.
// A cancelled context is returned as is, without consulting the cache.
func (s *SentimentService) Daily(ctx context.Context, date string) (model.DailyAnalysis, error) {
	day, err := calendar.ParseDate(date)
	if err != nil {
		return model.DailyAnalysis{}, fmt.Errorf("%w: %w", apperrors.ErrInvalidDate, err)
	}

	records, err := s.client.QueryRange(ctx, date, date)
	if err == nil {
		s.cacheRecords(ctx, records)
		observe(pageDaily, model.ProvenanceLive)
		return s.dailyAnalysis(day, recordFor(records, date), model.ProvenanceLive), nil
	}
	if ctx.Err() != nil {
		observe(pageDaily, provenanceError)
		return model.DailyAnalysis{}, err
	}
	s.logger.Warn("upstream daily sentiment request failed", zap.String("date", date), zap.Error(err))

	cached, cacheErr := s.sentimentRepo.GetRecord(ctx, date)
	if cacheErr == nil {
		observe(pageDaily, model.ProvenanceCached)
		return s.dailyAnalysis(day, cached, model.ProvenanceCached), nil
	}
	if !errors.Is(cacheErr, apperrors.ErrRecordNotFound) {
		s.logger.Error("failed to read cached daily sentiment", zap.String("date", date), zap.Error(cacheErr))
	}

	if !s.opts.FallbackEnabled {
		observe(pageDaily, provenanceError)
		return model.DailyAnalysis{}, fmt.Errorf("%w for %s: %w", apperrors.ErrFailedToLoadSentiment, date, err)
	}
	s.logger.Info("serving fallback daily sentiment", zap.String("date", date))
	observe(pageDaily, model.ProvenanceFallback)
	return s.fallbackDaily(day), nil
}

// DailyPage returns the daily analysis together with its navigation links.
func (s *SentimentService) DailyPage(ctx context.Context, date string) (model.DailyPage, error) {
	nav, err := calendar.NavigationDates(date, s.opts.Clock())
	if err != nil {
		return model.DailyPage{}, fmt.Errorf("%w: %w", apperrors.ErrInvalidDate, err)
	}
	analysis, err := s.Daily(ctx, date)
	if err != nil {
		return model.DailyPage{}, err
	}
	return model.DailyPage{Analysis: analysis, Navigation: nav}, nil
}

// Monthly returns the aggregate report for one calendar month.
//
// Like Daily it tries the upstream API, then the cache. With FallbackOnError
// and fallback enabled, a month neither source can answer is synthesized up to
// today; a month lying entirely in the future still fails.
func (s *SentimentService) Monthly(ctx context.Context, m time.Month, year int, policy FetchPolicy) (model.MonthlyReport, error) {
	start, end := calendar.MonthDateRange(m, year)
	slug := calendar.MonthSlug(m, year)
	page := pageMonthly
	if policy == PropagateError {
		page = pageIndex
	}

	records, err := s.client.QueryRange(ctx, start, end)
	if err == nil {
		report, aggErr := s.monthlyReport(m, year, records, model.ProvenanceLive)
		if aggErr == nil {
			s.cacheRecords(ctx, records)
			observe(page, model.ProvenanceLive)
			return report, nil
		}
		err = aggErr
	}
	if ctx.Err() != nil {
		observe(page, provenanceError)
		return model.MonthlyReport{}, err
	}
	s.logger.Warn("upstream monthly sentiment request failed", zap.String("month", slug), zap.Error(err))

	cached, cacheErr := s.sentimentRepo.GetRange(ctx, start, end)
	if cacheErr != nil {
		s.logger.Error("failed to read cached monthly sentiment", zap.String("month", slug), zap.Error(cacheErr))
	} else if len(cached) > 0 {
		report, aggErr := s.monthlyReport(m, year, cached, model.ProvenanceCached)
		if aggErr == nil {
			observe(page, model.ProvenanceCached)
			return report, nil
		}
	}

	if policy == FallbackOnError && s.opts.FallbackEnabled {
		if synthetic := s.fallbackMonth(m, year); len(synthetic) > 0 {
			report, aggErr := s.monthlyReport(m, year, synthetic, model.ProvenanceFallback)
			if aggErr == nil {
				s.logger.Info("serving fallback monthly sentiment", zap.String("month", slug))
				observe(page, model.ProvenanceFallback)
				return report, nil
			}
		}
	}

	observe(page, provenanceError)
	return model.MonthlyReport{}, fmt.Errorf("%w for %s: %w", apperrors.ErrFailedToLoadSentiment, slug, err)
}

// MonthlyPage returns the monthly report with month navigation and the
// calendar grid linking to each day.
func (s *SentimentService) MonthlyPage(ctx context.Context, m time.Month, year int) (model.MonthlyPage, error) {
	report, err := s.Monthly(ctx, m, year, FallbackOnError)
	if err != nil {
		return model.MonthlyPage{}, err
	}
	now := s.opts.Clock()
	return model.MonthlyPage{
		Report:     report,
		Navigation: calendar.NavigationMonths(m, year, now),
		Calendar:   calendar.MonthGrid(m, year, now),
	}, nil
}

// RecentDays links the last seven daily pages, today first.
func (s *SentimentService) RecentDays() []model.DayLink {
	return calendar.RecentDays(s.opts.Clock(), recentDayCount)
}

func (s *SentimentService) dailyAnalysis(day time.Time, rec model.FearGreedRecord, provenance model.Provenance) model.DailyAnalysis {
	p := sentiment.Percentages(rec)
	details := sentiment.Details(rec.FearGreedIndex)

	return model.DailyAnalysis{
		Date:           day.Format(time.DateOnly),
		FormattedDate:  calendar.FormatLongDate(day),
		Sentiment:      rec.FearGreedIndex,
		SentimentLabel: details.Label,
		SentimentColor: details.Color,
		Hourly:         s.hourlySeries(day, p),
		KeyEvents:      dailyKeyEvents(day),
		KeyMetrics: model.KeyMetrics{
			SocialMediaMentions:   rec.TotalCount,
			NewsArticles:          newsArticles(rec.TotalCount),
			InstitutionalInterest: rec.FearGreedIndex,
			RetailSentiment:       sentiment.Round(p.PositivePercentage - p.NegativePercentage + 50),
		},
		SentimentBreakdown: model.SentimentBreakdown{
			Positive: sentiment.Round(p.PositivePercentage),
			Neutral:  sentiment.Round(p.NeutralPercentage),
			Negative: sentiment.Round(p.NegativePercentage),
		},
		Provenance: provenance,
	}
}

// hourlySeries spreads the daily percentages over the hours of day with a
// small random variance. Today only gets the hours that have started.
func (s *SentimentService) hourlySeries(day time.Time, p model.DailyPercentages) model.HourlySeries {
	hours := 24
	now := s.opts.Clock().UTC()
	if calendar.Today(now).Equal(day) {
		hours = now.Hour() + 1
	}

	s.randMu.Lock()
	defer s.randMu.Unlock()

	points := make([]model.DailyPercentages, hours)
	for h := range points {
		variance := (s.opts.Rand.Float64() - 0.5) * 10
		points[h] = model.DailyPercentages{
			Date:               hourLabel(day, h),
			PositivePercentage: sentiment.Clamp(p.PositivePercentage + variance),
			NeutralPercentage:  sentiment.Clamp(p.NeutralPercentage + variance),
			NegativePercentage: sentiment.Clamp(p.NegativePercentage + variance),
		}
	}
	return model.HourlySeries{Synthetic: true, Points: points}
}

func (s *SentimentService) monthlyReport(m time.Month, year int, records []model.FearGreedRecord, provenance model.Provenance) (model.MonthlyReport, error) {
	agg, err := sentiment.Aggregate(records)
	if err != nil {
		return model.MonthlyReport{}, err
	}

	mentions := 0
	for _, r := range records {
		mentions += r.TotalCount
	}

	now := s.opts.Clock().UTC()
	return model.MonthlyReport{
		Month:            calendar.CapitalizedMonth(m),
		Year:             strconv.Itoa(year),
		Slug:             calendar.MonthSlug(m, year),
		IsCurrent:        now.Year() == year && now.Month() == m,
		MonthlyAggregate: agg,
		TopEvents:        monthlyTopEvents(m, year),
		KeyMetrics: model.KeyMetrics{
			SocialMediaMentions:   mentions,
			NewsArticles:          newsArticles(mentions),
			InstitutionalInterest: agg.AverageSentiment,
			RetailSentiment:       agg.MonthlySummary.TotalPositive - agg.MonthlySummary.TotalNegative + 50,
		},
		Provenance: provenance,
	}, nil
}

// cacheRecords stores live records. Failures are logged and otherwise ignored.
func (s *SentimentService) cacheRecords(ctx context.Context, records []model.FearGreedRecord) {
	if err := s.sentimentRepo.UpsertRecords(ctx, records); err != nil {
		s.logger.Warn("failed to cache sentiment records", zap.Int("records", len(records)), zap.Error(err))
	}
}

// recordFor picks the record for date, or the first record when the upstream
// answered with other dates only.
func recordFor(records []model.FearGreedRecord, date string) model.FearGreedRecord {
	for _, r := range records {
		if r.Date == date {
			return r
		}
	}
	return records[0]
}

func newsArticles(mentions int) int {
	return int(math.Floor(float64(mentions) * 0.3))
}

func hourLabel(day time.Time, hour int) string {
	return fmt.Sprintf("%sT%02d:00:00", day.Format(time.DateOnly), hour)
}

func dailyKeyEvents(day time.Time) []string {
	return []string{
		"Bitcoin sentiment analysis for " + calendar.FormatLongDate(day),
		"Market psychology and investor behavior",
		"Social media sentiment trends",
		"Price correlation with sentiment",
		"News impact on daily sentiment",
	}
}

func monthlyTopEvents(m time.Month, year int) []string {
	return []string{
		fmt.Sprintf("Bitcoin sentiment analysis for %s %d", calendar.CapitalizedMonth(m), year),
		"Market psychology trends and patterns",
		"Social media sentiment correlation",
		"Institutional vs retail sentiment",
		"News impact on daily sentiment",
	}
}

func observe(page string, provenance model.Provenance) {
	metrics.Provenance.WithLabelValues(page, string(provenance)).Inc()
}
