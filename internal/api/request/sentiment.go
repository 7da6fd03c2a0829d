package request

import (
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/perception-to/Bitcoin-Market-Sentiment-Backend/internal/apperrors"
	"github.com/perception-to/Bitcoin-Market-Sentiment-Backend/internal/calendar"
)

// RefreshRequest represents the optional request body for a cache refresh.
// An empty body refreshes from the configured start date through today.
type RefreshRequest struct {
	StartDate string `json:"startDate"` // YYYY-MM-DD
	EndDate   string `json:"endDate"`   // YYYY-MM-DD
}

// DayFromURL builds the YYYY-MM-DD date of a daily page from its {year},
// {month} and {day} URL parameters.
func DayFromURL(r *http.Request) (string, error) {
	year := chi.URLParam(r, "year")
	month := chi.URLParam(r, "month")
	day := chi.URLParam(r, "day")

	date, ok := calendar.ValidateAndConstructDate(year, month, day)
	if !ok {
		return "", fmt.Errorf("%w: %q/%q/%q is not a calendar date", apperrors.ErrInvalidURLFormat, year, month, day)
	}
	return date, nil
}

// MonthFromURL reads the month and year of a monthly page from its {year} and
// {month} URL parameters.
func MonthFromURL(r *http.Request) (time.Month, int, error) {
	year := chi.URLParam(r, "year")
	month := chi.URLParam(r, "month")

	m, y, ok := calendar.ValidateMonth(year, month)
	if !ok {
		return 0, 0, fmt.Errorf("%w: %q/%q is not a month", apperrors.ErrInvalidURLFormat, year, month)
	}
	return m, y, nil
}
