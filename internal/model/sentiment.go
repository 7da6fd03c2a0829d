package model

import "time"

// FearGreedRecord is one day of sentiment counts as returned by the upstream
// fear-greed-index endpoint and as stored in the local cache.
// PositiveCount + NeutralCount + NegativeCount is expected to equal TotalCount,
// but this is not validated.
type FearGreedRecord struct {
	Date           string `json:"date"`             // YYYY-MM-DD
	FearGreedIndex int    `json:"fear_greed_index"` // 0-100
	PositiveCount  int    `json:"positive_count"`
	NeutralCount   int    `json:"neutral_count"`
	NegativeCount  int    `json:"negative_count"`
	TotalCount     int    `json:"total_count"`
}

// DailyPercentages is the share of positive, neutral and negative mentions for a
// single day (or a single synthetic hour). Each value lies in [0, 100].
type DailyPercentages struct {
	Date               string  `json:"date"`
	PositivePercentage float64 `json:"positive_percentage"`
	NeutralPercentage  float64 `json:"neutral_percentage"`
	NegativePercentage float64 `json:"negative_percentage"`
}

// Provenance describes where a piece of sentiment data came from.
type Provenance string

const (
	// ProvenanceLive marks data fetched from the upstream API for this request.
	ProvenanceLive Provenance = "live"
	// ProvenanceCached marks data served from the local SQLite cache because the
	// upstream request failed.
	ProvenanceCached Provenance = "cached"
	// ProvenanceFallback marks synthesized data. It is not real market data.
	ProvenanceFallback Provenance = "fallback"
)

// SentimentDetails is a classification label and its display color.
type SentimentDetails struct {
	Label string `json:"label"`
	Color string `json:"color"`
}

// SentimentBreakdown holds rounded percentages.
type SentimentBreakdown struct {
	Positive int `json:"positive"`
	Neutral  int `json:"neutral"`
	Negative int `json:"negative"`
}

// KeyMetrics are the headline numbers shown next to a daily or monthly analysis.
type KeyMetrics struct {
	SocialMediaMentions   int `json:"socialMediaMentions"`
	NewsArticles          int `json:"newsArticles"`
	InstitutionalInterest int `json:"institutionalInterest"`
	RetailSentiment       int `json:"retailSentiment"`
}

// HourlySeries is the per-hour breakdown of a day. The upstream API only has
// daily granularity, so the points are always synthesized around the daily value.
type HourlySeries struct {
	Synthetic bool               `json:"synthetic"`
	Points    []DailyPercentages `json:"points"`
}

// DailyAnalysis is everything the daily sentiment page renders.
type DailyAnalysis struct {
	Date               string             `json:"date"`
	FormattedDate      string             `json:"formattedDate"`
	Sentiment          int                `json:"sentiment"`
	SentimentLabel     string             `json:"sentimentLabel"`
	SentimentColor     string             `json:"sentimentColor"`
	Hourly             HourlySeries       `json:"hourly"`
	KeyEvents          []string           `json:"keyEvents"`
	KeyMetrics         KeyMetrics         `json:"keyMetrics"`
	SentimentBreakdown SentimentBreakdown `json:"sentimentBreakdown"`
	Provenance         Provenance         `json:"provenance"`
}

// MonthlySummary holds the rounded means of the daily percentage columns.
type MonthlySummary struct {
	TotalPositive int `json:"totalPositive"`
	TotalNeutral  int `json:"totalNeutral"`
	TotalNegative int `json:"totalNegative"`
}

// DayCounts partitions a set of days by fear_greed_index: fear (<30),
// greed (>70) and neutral (30..70 inclusive).
type DayCounts struct {
	FearDays    int `json:"fearDays"`
	GreedDays   int `json:"greedDays"`
	NeutralDays int `json:"neutralDays"`
}

// Total returns the number of days counted.
func (c DayCounts) Total() int {
	return c.FearDays + c.GreedDays + c.NeutralDays
}

// MonthlyAggregate is the reduction of a range of daily records.
type MonthlyAggregate struct {
	AverageSentiment int `json:"averageSentiment"`
	DayCounts
	MonthlySummary MonthlySummary     `json:"monthlySummary"`
	DailyData      []DailyPercentages `json:"dailyData"`
}

// MonthlyReport is a MonthlyAggregate for one calendar month plus its metadata.
type MonthlyReport struct {
	Month     string `json:"month"` // Capitalized month name, e.g. "July"
	Year      string `json:"year"`
	Slug      string `json:"slug"` // e.g. "july-2025"
	IsCurrent bool   `json:"isCurrent"`
	MonthlyAggregate
	TopEvents  []string   `json:"topEvents"`
	KeyMetrics KeyMetrics `json:"keyMetrics"`
	Provenance Provenance `json:"provenance"`
}

// RefreshResult reports a cache refresh run.
type RefreshResult struct {
	ID          string    `json:"id"`
	StartDate   string    `json:"startDate"`
	EndDate     string    `json:"endDate"`
	RecordCount int       `json:"recordCount"`
	StartedAt   time.Time `json:"startedAt"`
	FinishedAt  time.Time `json:"finishedAt"`
	Error       string    `json:"error,omitempty"`
}
