// Package sentiment reduces daily fear & greed records into the percentages,
// day counts and averages shown on the sentiment pages, and classifies scores.
//
// Everything here is pure: no I/O, no clock, no randomness.
package sentiment

import (
	"math"

	"github.com/perception-to/Bitcoin-Market-Sentiment-Backend/internal/apperrors"
	"github.com/perception-to/Bitcoin-Market-Sentiment-Backend/internal/model"
)

// Day category thresholds on fear_greed_index.
const (
	FearThreshold  = 30 // index below this is a fear day
	GreedThreshold = 70 // index above this is a greed day
)

// Percentages converts a record's counts into shares of its total. All three
// are zero when the total is zero.
func Percentages(r model.FearGreedRecord) model.DailyPercentages {
	p := model.DailyPercentages{Date: r.Date}
	if r.TotalCount > 0 {
		total := float64(r.TotalCount)
		p.PositivePercentage = float64(r.PositiveCount) / total * 100
		p.NeutralPercentage = float64(r.NeutralCount) / total * 100
		p.NegativePercentage = float64(r.NegativeCount) / total * 100
	}
	return p
}

// Transform applies Percentages to every record, preserving order.
func Transform(records []model.FearGreedRecord) []model.DailyPercentages {
	out := make([]model.DailyPercentages, len(records))
	for i, r := range records {
		out[i] = Percentages(r)
	}
	return out
}

// Summarize averages each percentage column and rounds it.
func Summarize(days []model.DailyPercentages) model.MonthlySummary {
	if len(days) == 0 {
		return model.MonthlySummary{}
	}
	var pos, neu, neg float64
	for _, d := range days {
		pos += d.PositivePercentage
		neu += d.NeutralPercentage
		neg += d.NegativePercentage
	}
	n := float64(len(days))
	return model.MonthlySummary{
		TotalPositive: Round(pos / n),
		TotalNeutral:  Round(neu / n),
		TotalNegative: Round(neg / n),
	}
}

// Classify assigns a fear_greed_index value to the fear, greed or neutral bucket.
// Exactly one of the returned counts is one.
func Classify(index int) model.DayCounts {
	switch {
	case index < FearThreshold:
		return model.DayCounts{FearDays: 1}
	case index > GreedThreshold:
		return model.DayCounts{GreedDays: 1}
	default:
		return model.DayCounts{NeutralDays: 1}
	}
}

// CountDays partitions records into fear, greed and neutral days. The three
// counts always add up to len(records).
func CountDays(records []model.FearGreedRecord) model.DayCounts {
	var c model.DayCounts
	for _, r := range records {
		d := Classify(r.FearGreedIndex)
		c.FearDays += d.FearDays
		c.GreedDays += d.GreedDays
		c.NeutralDays += d.NeutralDays
	}
	return c
}

// AverageIndex is the rounded mean fear_greed_index. It returns 0 for no records.
func AverageIndex(records []model.FearGreedRecord) int {
	if len(records) == 0 {
		return 0
	}
	sum := 0
	for _, r := range records {
		sum += r.FearGreedIndex
	}
	return Round(float64(sum) / float64(len(records)))
}

// Aggregate reduces a range of daily records. It fails with apperrors.ErrNoData
// when records is empty.
func Aggregate(records []model.FearGreedRecord) (model.MonthlyAggregate, error) {
	if len(records) == 0 {
		return model.MonthlyAggregate{}, apperrors.ErrNoData
	}
	daily := Transform(records)
	return model.MonthlyAggregate{
		AverageSentiment: AverageIndex(records),
		DayCounts:        CountDays(records),
		MonthlySummary:   Summarize(daily),
		DailyData:        daily,
	}, nil
}

// Round rounds half away from zero.
func Round(v float64) int {
	return int(math.Round(v))
}

// Clamp limits v to [0, 100].
func Clamp(v float64) float64 {
	return math.Max(0, math.Min(100, v))
}
