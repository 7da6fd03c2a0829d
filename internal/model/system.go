package model

import "time"

// VersionInfo describes the running build, the applied schema migration and
// which optional behaviours are switched on.
type VersionInfo struct {
	AppVersion string          `json:"app_version"`
	DbVersion  int64           `json:"db_version"`
	Features   map[string]bool `json:"features"`
	Upstream   string          `json:"upstream"`
}

// CacheStatus summarises the local sentiment cache.
type CacheStatus struct {
	Records     int            `json:"records"`
	FirstDate   string         `json:"firstDate,omitempty"`
	LastDate    string         `json:"lastDate,omitempty"`
	LastRefresh *RefreshResult `json:"lastRefresh,omitempty"`
}

// Refresh run statuses as derived from the refresh log.
const (
	RefreshStatusSuccess = "success"
	RefreshStatusError   = "error"
)

// ValidRefreshStatuses lists the statuses the refresh history can be filtered on.
var ValidRefreshStatuses = map[string]bool{
	RefreshStatusSuccess: true,
	RefreshStatusError:   true,
}

// RefreshFilters narrows the refresh history. Zero values mean no filter.
type RefreshFilters struct {
	Statuses  []string
	StartDate *time.Time // runs started at or after
	EndDate   *time.Time // runs started at or before
	SortDir   string     // "asc" or "desc"
	PerPage   int
}
