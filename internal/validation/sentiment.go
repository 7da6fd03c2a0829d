package validation

import (
	"github.com/perception-to/Bitcoin-Market-Sentiment-Backend/internal/api/request"
)

// ValidateRefresh checks a cache refresh request: both dates are required,
// must be real dates, and the range must not run backwards.
func ValidateRefresh(req request.RefreshRequest) error {
	errors := make(map[string]string)

	if req.StartDate == "" {
		errors["startDate"] = "startDate is required"
	} else if err := ValidateDate(req.StartDate); err != nil {
		errors["startDate"] = err.Error()
	}

	if req.EndDate == "" {
		errors["endDate"] = "endDate is required"
	} else if err := ValidateDate(req.EndDate); err != nil {
		errors["endDate"] = err.Error()
	}

	// YYYY-MM-DD sorts chronologically
	if len(errors) == 0 && req.StartDate > req.EndDate {
		errors["endDate"] = "endDate must not be before startDate"
	}

	if len(errors) > 0 {
		return &Error{Fields: errors}
	}
	return nil
}
