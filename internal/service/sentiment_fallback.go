package service

import (
	"time"

	"github.com/perception-to/Bitcoin-Market-Sentiment-Backend/internal/calendar"
	"github.com/perception-to/Bitcoin-Market-Sentiment-Backend/internal/model"
	"github.com/perception-to/Bitcoin-Market-Sentiment-Backend/internal/sentiment"
)

var fallbackKeyEvents = []string{
	"Major market movement detected at opening",
	"Institutional buying pressure increased",
	"Social media sentiment shifted positively",
	"Technical indicators showing bullish signals",
}

// fallbackDaily synthesizes a plausible but fake day. Everything derives from
// one random index in [0, 100).
func (s *SentimentService) fallbackDaily(day time.Time) model.DailyAnalysis {
	s.randMu.Lock()
	defer s.randMu.Unlock()
	r := s.opts.Rand

	index := r.IntN(100)
	details := sentiment.FallbackScale.Classify(index)

	points := make([]model.DailyPercentages, 24)
	for h := range points {
		hourly := float64(index) + (r.Float64()-0.5)*20
		points[h] = model.DailyPercentages{
			Date:               hourLabel(day, h),
			PositivePercentage: sentiment.Clamp(hourly),
			NeutralPercentage:  float64(r.IntN(20) + 10),
			NegativePercentage: sentiment.Clamp(100 - hourly),
		}
	}

	return model.DailyAnalysis{
		Date:           day.Format(time.DateOnly),
		FormattedDate:  calendar.FormatLongDate(day),
		Sentiment:      index,
		SentimentLabel: details.Label,
		SentimentColor: details.Color,
		Hourly:         model.HourlySeries{Synthetic: true, Points: points},
		KeyEvents:      append([]string(nil), fallbackKeyEvents...),
		KeyMetrics: model.KeyMetrics{
			SocialMediaMentions:   r.IntN(5000) + 1000,
			NewsArticles:          r.IntN(50) + 10,
			InstitutionalInterest: index,
			RetailSentiment:       r.IntN(100),
		},
		SentimentBreakdown: model.SentimentBreakdown{
			Positive: index,
			Neutral:  r.IntN(20),
			Negative: 100 - index,
		},
		Provenance: model.ProvenanceFallback,
	}
}

// fallbackMonth synthesizes one record per day of the month up to today.
// Counts are consistent with the index so the aggregate looks coherent.
func (s *SentimentService) fallbackMonth(m time.Month, year int) []model.FearGreedRecord {
	today := calendar.Today(s.opts.Clock())

	s.randMu.Lock()
	defer s.randMu.Unlock()
	r := s.opts.Rand

	var records []model.FearGreedRecord
	first := time.Date(year, m, 1, 0, 0, 0, 0, time.UTC)
	for d := first; d.Month() == m && !d.After(today); d = d.AddDate(0, 0, 1) {
		index := r.IntN(100)
		total := r.IntN(5000) + 1000
		neutral := r.IntN(total/5 + 1)
		positive := (total - neutral) * index / 100
		records = append(records, model.FearGreedRecord{
			Date:           d.Format(time.DateOnly),
			FearGreedIndex: index,
			PositiveCount:  positive,
			NeutralCount:   neutral,
			NegativeCount:  total - neutral - positive,
			TotalCount:     total,
		})
	}
	return records
}
