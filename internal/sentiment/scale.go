package sentiment

import "github.com/perception-to/Bitcoin-Market-Sentiment-Backend/internal/model"

// Band is one bucket of a Scale. A score belongs to the first band whose Max is
// greater than or equal to it.
type Band struct {
	Max   int
	Label string
	Color string
}

// Scale classifies a 0-100 fear & greed score into labelled bands. The scales
// below intentionally disagree with each other; each is used by one page.
type Scale struct {
	Name  string
	Bands []Band // ascending by Max; the last band catches everything above
}

// Classify returns the label and color of score.
func (s Scale) Classify(score int) model.SentimentDetails {
	for _, b := range s.Bands {
		if score <= b.Max {
			return model.SentimentDetails{Label: b.Label, Color: b.Color}
		}
	}
	last := s.Bands[len(s.Bands)-1]
	return model.SentimentDetails{Label: last.Label, Color: last.Color}
}

const (
	LabelExtremeFear   = "Extreme Fear"
	LabelFear          = "Fear"
	LabelModerateFear  = "Moderate Fear"
	LabelNeutral       = "Neutral"
	LabelModerateGreed = "Moderate Greed"
	LabelGreed         = "Greed"
	LabelExtremeGreed  = "Extreme Greed"
)

// DailyScale is the five band scale of the daily page.
var DailyScale = Scale{
	Name: "daily",
	Bands: []Band{
		{25, LabelExtremeFear, "#FF3B30"},
		{45, LabelFear, "#FF9500"},
		{55, LabelNeutral, "#8E8E93"},
		{75, LabelGreed, "#34C759"},
		{100, LabelExtremeGreed, "#00C7BE"},
	},
}

// IndexScale is the seven band scale of the index page month cards.
var IndexScale = Scale{
	Name: "index",
	Bands: []Band{
		{15, LabelExtremeFear, "red-600"},
		{30, LabelFear, "yellow-500"},
		{45, LabelModerateFear, "yellow-400"},
		{60, LabelNeutral, "slate-400"},
		{75, LabelModerateGreed, "green-400"},
		{89, LabelGreed, "green-500"},
		{100, LabelExtremeGreed, "green-700"},
	},
}

// SnapshotScale is the even-width scale of the cached snapshot.
var SnapshotScale = Scale{
	Name: "snapshot",
	Bands: []Band{
		{20, LabelExtremeFear, ""},
		{40, LabelFear, ""},
		{60, LabelNeutral, ""},
		{80, LabelGreed, ""},
		{100, LabelExtremeGreed, ""},
	},
}

// FallbackScale labels synthesized daily data.
var FallbackScale = Scale{
	Name: "fallback",
	Bands: []Band{
		{30, LabelFear, "#FF453A"},
		{50, LabelNeutral, "#8E8E93"},
		{70, LabelGreed, "#30D158"},
		{100, LabelExtremeGreed, "#FF9F0A"},
	},
}

// Details classifies a score on the daily page scale.
func Details(score int) model.SentimentDetails {
	return DailyScale.Classify(score)
}

// Category classifies a score on the index page scale.
func Category(score int) model.SentimentDetails {
	return IndexScale.Classify(score)
}
