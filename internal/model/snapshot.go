package model

import "time"

// SnapshotDay is a cached day keyed by date in a Snapshot.
type SnapshotDay struct {
	Score    int    `json:"score"`
	Category string `json:"category"`
	Positive int    `json:"positive"`
	Neutral  int    `json:"neutral"`
	Negative int    `json:"negative"`
	Total    int    `json:"total"`
}

// SnapshotMonth is the per-month summary of a Snapshot, keyed by "YYYY-MM".
type SnapshotMonth struct {
	AvgScore     int    `json:"avgScore"`
	Category     string `json:"category"`
	TotalSources int    `json:"totalSources"`
	Days         int    `json:"days"`
	DayCounts
}

// DateRange is an inclusive range of YYYY-MM-DD dates.
type DateRange struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

// Snapshot is the full content of the local sentiment cache, used by SEO
// pre-rendering.
type Snapshot struct {
	Generated time.Time                `json:"generated"`
	DataRange DateRange                `json:"dataRange"`
	TotalDays int                      `json:"totalDays"`
	Daily     map[string]SnapshotDay   `json:"daily"`
	Monthly   map[string]SnapshotMonth `json:"monthly"`
}
