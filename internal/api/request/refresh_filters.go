package request

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/perception-to/Bitcoin-Market-Sentiment-Backend/internal/model"
)

const (
	defaultRefreshPerPage = 20
	maxRefreshPerPage     = 100
)

// ParseRefreshFilters extracts and validates refresh history filters from
// query parameters. All parameters are optional.
//
// Validation rules:
//   - status: comma-separated, each "success" or "error"
//   - startDate/endDate: YYYY-MM-DD or RFC3339
//   - sortDir: "asc" or "desc" (defaults to "desc")
//   - perPage: between 1 and 100 (defaults to 20)
func ParseRefreshFilters(statusParam, startDateParam, endDateParam, sortDirParam, perPageParam string) (model.RefreshFilters, error) {
	filters := model.RefreshFilters{
		SortDir: "desc",
		PerPage: defaultRefreshPerPage,
	}

	if statusParam != "" {
		for _, status := range strings.Split(statusParam, ",") {
			status = strings.TrimSpace(strings.ToLower(status))
			if !model.ValidRefreshStatuses[status] {
				return model.RefreshFilters{}, fmt.Errorf("invalid status: %s", status)
			}
			filters.Statuses = append(filters.Statuses, status)
		}
	}

	if startDateParam != "" {
		start, err := parseFilterTime(startDateParam)
		if err != nil {
			return model.RefreshFilters{}, fmt.Errorf("invalid startDate format: %w", err)
		}
		filters.StartDate = &start
	}

	if endDateParam != "" {
		end, err := parseFilterTime(endDateParam)
		if err != nil {
			return model.RefreshFilters{}, fmt.Errorf("invalid endDate format: %w", err)
		}
		// A bare date includes the whole day
		if len(endDateParam) == len(time.DateOnly) {
			end = end.Add(24*time.Hour - time.Nanosecond)
		}
		filters.EndDate = &end
	}

	if filters.StartDate != nil && filters.EndDate != nil && filters.EndDate.Before(*filters.StartDate) {
		return model.RefreshFilters{}, fmt.Errorf("endDate must not be before startDate")
	}

	if sortDirParam != "" {
		sortDir := strings.ToLower(sortDirParam)
		if sortDir != "asc" && sortDir != "desc" {
			return model.RefreshFilters{}, fmt.Errorf("invalid sortDir: must be 'asc' or 'desc'")
		}
		filters.SortDir = sortDir
	}

	if perPageParam != "" {
		perPage, err := strconv.Atoi(perPageParam)
		if err != nil {
			return model.RefreshFilters{}, fmt.Errorf("invalid perPage: must be a number")
		}
		if perPage < 1 || perPage > maxRefreshPerPage {
			return model.RefreshFilters{}, fmt.Errorf("invalid perPage: must be between 1 and %d", maxRefreshPerPage)
		}
		filters.PerPage = perPage
	}

	return filters, nil
}

// parseFilterTime accepts YYYY-MM-DD and RFC3339 (with or without fractional seconds).
func parseFilterTime(str string) (time.Time, error) {
	for _, layout := range []string{time.DateOnly, time.RFC3339Nano} {
		if t, err := time.Parse(layout, str); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("cannot parse %q as a date or datetime", str)
}
