package apperrors

import "errors"

// Request errors indicate that the caller asked for something that cannot exist.
var (
	// ErrInvalidURLFormat indicates that year, month or day path segments do not
	// form a valid calendar date or month.
	ErrInvalidURLFormat = errors.New("invalid URL format")

	// ErrInvalidDateRange indicates that the start date is after the end date
	// or that either date is malformed.
	ErrInvalidDateRange = errors.New("invalid date range")

	// ErrInvalidDate indicates that a date string is not in YYYY-MM-DD form.
	ErrInvalidDate = errors.New("invalid date")
)

// Upstream errors describe failures talking to the fear-greed-index API.
var (
	// ErrNoData indicates the upstream API answered with an empty array.
	ErrNoData = errors.New("no sentiment data available")

	// ErrNotJSON indicates the upstream API answered with a non-JSON content type,
	// which usually means the endpoint is not available.
	ErrNotJSON = errors.New("API returned non-JSON response")

	// ErrServiceUnavailable indicates that no month on the index page could be loaded.
	ErrServiceUnavailable = errors.New("sentiment analysis API is currently unavailable")
)

// Storage errors describe failures reading the local cache.
var (
	// ErrRecordNotFound indicates there is no cached record for a date.
	ErrRecordNotFound = errors.New("sentiment record not found")

	// ErrRefreshNotFound indicates no refresh has been recorded yet.
	ErrRefreshNotFound = errors.New("no refresh recorded")
)

// Operation failure errors are the user-facing messages handlers return.
var (
	ErrFailedToLoadSentiment  = errors.New("failed to load sentiment data")
	ErrFailedToLoadSnapshot   = errors.New("failed to load sentiment snapshot")
	ErrFailedToRefresh        = errors.New("failed to refresh sentiment cache")
	ErrFailedToLoadRefreshLog = errors.New("failed to load refresh history")
	ErrFailedToBuildSitemap   = errors.New("failed to build sitemap")
	ErrFailedToGetVersion     = errors.New("failed to get version information")
)
