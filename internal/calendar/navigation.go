package calendar

import (
	"strconv"
	"time"

	"github.com/perception-to/Bitcoin-Market-Sentiment-Backend/internal/model"
)

// NavigationDates computes the previous and next day links for a daily page.
// The previous day is always linked. The next day is omitted when its start is
// strictly after now, so no page links into the future.
func NavigationDates(current string, now time.Time) (model.Navigation, error) {
	date, err := ParseDate(current)
	if err != nil {
		return model.Navigation{}, err
	}

	prev := date.AddDate(0, 0, -1)
	next := date.AddDate(0, 0, 1)

	nav := model.Navigation{
		PrevDate: prev.Format(time.DateOnly),
		PrevURL:  DayURL(prev),
	}
	if !next.After(now.UTC()) {
		nextDate := next.Format(time.DateOnly)
		nextURL := DayURL(next)
		nav.NextDate = &nextDate
		nav.NextURL = &nextURL
	}
	return nav, nil
}

// NavigationMonths computes the previous and next month links for a monthly
// page, wrapping December to January across years. The next month is omitted
// when it is later than the month containing now.
func NavigationMonths(m time.Month, year int, now time.Time) model.MonthNavigation {
	prevMonth, prevYear := m-1, year
	if m == time.January {
		prevMonth, prevYear = time.December, year-1
	}
	nextMonth, nextYear := m+1, year
	if m == time.December {
		nextMonth, nextYear = time.January, year+1
	}

	prevSlug := MonthSlug(prevMonth, prevYear)
	prevURL := MonthURL(prevMonth, prevYear)
	nav := model.MonthNavigation{
		PrevMonth: &prevSlug,
		PrevURL:   &prevURL,
	}

	now = now.UTC()
	if nextYear > now.Year() || (nextYear == now.Year() && nextMonth > now.Month()) {
		return nav
	}
	nextSlug := MonthSlug(nextMonth, nextYear)
	nextURL := MonthURL(nextMonth, nextYear)
	nav.NextMonth = &nextSlug
	nav.NextURL = &nextURL
	return nav
}

// MonthlyLinks lists every month from January of (current year - years + 1)
// up to and including the current month, most recent first.
func MonthlyLinks(now time.Time, years int) []model.MonthLink {
	now = now.UTC()
	currentYear, currentMonth := now.Year(), now.Month()

	links := make([]model.MonthLink, 0, years*12)
	for year := currentYear; year > currentYear-years; year-- {
		last := time.December
		if year == currentYear {
			last = currentMonth
		}
		for m := last; m >= time.January; m-- {
			links = append(links, model.MonthLink{
				Month:     CapitalizedMonth(m),
				Year:      strconv.Itoa(year),
				Slug:      MonthSlug(m, year),
				IsCurrent: year == currentYear && m == currentMonth,
			})
		}
	}
	return links
}

// RecentDays returns links to the n most recent days, today first.
func RecentDays(now time.Time, n int) []model.DayLink {
	today := Today(now)
	days := make([]model.DayLink, 0, n)
	for i := 0; i < n; i++ {
		d := today.AddDate(0, 0, -i)
		days = append(days, model.DayLink{
			Date:  d.Format(time.DateOnly),
			Label: d.Format("Mon, Jan 2"),
			URL:   DayURL(d),
		})
	}
	return days
}

// MonthGrid lays a month out as Sunday-first weeks. Cells before the first and
// after the last day are blank. Days after today are disabled.
func MonthGrid(m time.Month, year int, now time.Time) []model.CalendarWeek {
	today := Today(now)
	first := time.Date(year, m, 1, 0, 0, 0, 0, time.UTC)
	days := DaysIn(m, year)

	cells := make([]model.CalendarDay, int(first.Weekday()), int(first.Weekday())+days+6)
	for i := range cells {
		cells[i] = model.CalendarDay{Disabled: true}
	}
	for day := 1; day <= days; day++ {
		d := first.AddDate(0, 0, day-1)
		cells = append(cells, model.CalendarDay{
			Day:      day,
			Date:     d.Format(time.DateOnly),
			URL:      DayURL(d),
			Disabled: d.After(today),
		})
	}
	for len(cells)%7 != 0 {
		cells = append(cells, model.CalendarDay{Disabled: true})
	}

	weeks := make([]model.CalendarWeek, 0, len(cells)/7)
	for i := 0; i < len(cells); i += 7 {
		weeks = append(weeks, model.CalendarWeek(cells[i:i+7]))
	}
	return weeks
}
