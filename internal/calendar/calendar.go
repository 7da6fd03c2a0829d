// Package calendar validates sentiment page URLs and computes the dates, months
// and navigation links those pages need.
//
// All dates are calendar dates in UTC. Functions that depend on "today" take it
// as a parameter so callers control the clock.
package calendar

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// BasePath is the route prefix of the sentiment pages.
const BasePath = "/bitcoin-market-sentiment"

// MonthNames are the lowercase English month names accepted in URLs.
var MonthNames = [12]string{
	"january", "february", "march", "april", "may", "june",
	"july", "august", "september", "october", "november", "december",
}

var (
	yearPattern      = regexp.MustCompile(`^\d{4}$`)
	dayPattern       = regexp.MustCompile(`^\d{1,2}$`)
	monthYearPattern = regexp.MustCompile(`(?i)^(january|february|march|april|may|june|july|august|september|october|november|december)-\d{4}$`)
)

// ParseMonthName returns the month for a full English month name, ignoring case.
func ParseMonthName(name string) (time.Month, bool) {
	name = strings.ToLower(name)
	for i, m := range MonthNames {
		if m == name {
			return time.Month(i + 1), true
		}
	}
	return 0, false
}

// MonthSlugName returns the lowercase URL name of a month.
func MonthSlugName(m time.Month) string {
	return MonthNames[m-1]
}

// ValidateAndConstructDate turns year, month-name and day path segments into a
// YYYY-MM-DD string. It reports false when the year is not four digits, the
// month is not a full English month name, the day is not 1 to 31, or the
// combination is not a real calendar date (February 30, April 31).
func ValidateAndConstructDate(year, month, day string) (string, bool) {
	if !yearPattern.MatchString(year) {
		return "", false
	}
	m, ok := ParseMonthName(month)
	if !ok {
		return "", false
	}
	if !dayPattern.MatchString(day) {
		return "", false
	}
	dayNum, _ := strconv.Atoi(day)
	if dayNum < 1 || dayNum > 31 {
		return "", false
	}
	yearNum, _ := strconv.Atoi(year)

	// time.Date normalises overflowing days into the next month; a mismatch
	// means the day does not exist in that month.
	t := time.Date(yearNum, m, dayNum, 0, 0, 0, 0, time.UTC)
	if t.Year() != yearNum || t.Month() != m || t.Day() != dayNum {
		return "", false
	}
	return t.Format(time.DateOnly), true
}

// ParseDate parses a YYYY-MM-DD string as a UTC calendar date.
func ParseDate(date string) (time.Time, error) {
	t, err := time.Parse(time.DateOnly, date)
	if err != nil {
		return time.Time{}, fmt.Errorf("failed to parse date %q: %w", date, err)
	}
	return t, nil
}

// Today truncates now to the start of its UTC day.
func Today(now time.Time) time.Time {
	now = now.UTC()
	return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
}

// DayURL is the daily page path for a date. The day is not zero padded.
func DayURL(t time.Time) string {
	return fmt.Sprintf("%s/%d/%s/%d", BasePath, t.Year(), MonthSlugName(t.Month()), t.Day())
}

// MonthURL is the monthly page path for a month.
func MonthURL(m time.Month, year int) string {
	return fmt.Sprintf("%s/%d/%s", BasePath, year, MonthSlugName(m))
}

// MonthSlug is the "{month}-{year}" identifier used by the index page.
func MonthSlug(m time.Month, year int) string {
	return fmt.Sprintf("%s-%d", MonthSlugName(m), year)
}

// IsValidMonthYear reports whether slug has the form "{month}-{yyyy}".
func IsValidMonthYear(slug string) bool {
	return monthYearPattern.MatchString(slug)
}

// ParseMonthSlug splits a "{month}-{year}" slug.
func ParseMonthSlug(slug string) (time.Month, int, bool) {
	if !IsValidMonthYear(slug) {
		return 0, 0, false
	}
	name, yearPart, _ := strings.Cut(slug, "-")
	m, _ := ParseMonthName(name)
	year, _ := strconv.Atoi(yearPart)
	return m, year, true
}

// ValidateMonth checks year and month path segments of a monthly page URL.
func ValidateMonth(year, month string) (time.Month, int, bool) {
	if !yearPattern.MatchString(year) {
		return 0, 0, false
	}
	m, ok := ParseMonthName(month)
	if !ok {
		return 0, 0, false
	}
	y, _ := strconv.Atoi(year)
	return m, y, true
}

// MonthDateRange returns the first and last day of a month as YYYY-MM-DD.
func MonthDateRange(m time.Month, year int) (string, string) {
	start := time.Date(year, m, 1, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 1, -1)
	return start.Format(time.DateOnly), end.Format(time.DateOnly)
}

// DaysIn returns the number of days in a month.
func DaysIn(m time.Month, year int) int {
	return time.Date(year, m+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// FormatLongDate renders a date as "Saturday, July 19, 2025".
func FormatLongDate(t time.Time) string {
	return t.Format("Monday, January 2, 2006")
}

// CapitalizedMonth returns "July" for time.July.
func CapitalizedMonth(m time.Month) string {
	return m.String()
}
