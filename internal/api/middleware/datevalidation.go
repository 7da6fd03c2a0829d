// Package middleware provides HTTP middleware for request validation and processing.
package middleware

import (
	"net/http"

	"github.com/perception-to/Bitcoin-Market-Sentiment-Backend/internal/api/request"
	"github.com/perception-to/Bitcoin-Market-Sentiment-Backend/internal/api/response"
	"github.com/perception-to/Bitcoin-Market-Sentiment-Backend/internal/apperrors"
)

// ValidateDayParams validates the {year}, {month} and {day} URL parameters of a
// daily page. Returns 404 Not Found when they do not form a real calendar date,
// so malformed links behave like missing pages.
//
// Example usage in router:
//
//	r.With(middleware.ValidateDayParams).Get("/{year}/{month}/{day}", handler.Daily)
func ValidateDayParams(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, err := request.DayFromURL(r); err != nil {
			response.RespondError(w, http.StatusNotFound, apperrors.ErrInvalidURLFormat.Error(), err.Error())
			return
		}

		next.ServeHTTP(w, r)
	})
}

// ValidateMonthParams validates the {year} and {month} URL parameters of a
// monthly page. Returns 404 Not Found when they are invalid.
func ValidateMonthParams(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, _, err := request.MonthFromURL(r); err != nil {
			response.RespondError(w, http.StatusNotFound, apperrors.ErrInvalidURLFormat.Error(), err.Error())
			return
		}

		next.ServeHTTP(w, r)
	})
}
