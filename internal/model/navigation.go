package model

// Navigation links a daily page to its neighbours. NextDate and NextURL are nil
// when the next day lies in the future.
type Navigation struct {
	PrevDate string  `json:"prevDate"`
	NextDate *string `json:"nextDate"`
	PrevURL  string  `json:"prevUrl"`
	NextURL  *string `json:"nextUrl"`
}

// MonthNavigation links a monthly page to its neighbours. Slugs have the form
// "{month}-{year}". NextMonth and NextURL are nil when the next month lies in the future.
type MonthNavigation struct {
	PrevMonth *string `json:"prevMonth"`
	NextMonth *string `json:"nextMonth"`
	PrevURL   *string `json:"prevUrl"`
	NextURL   *string `json:"nextUrl"`
}

// MonthLink identifies a month that can be browsed from the index page.
type MonthLink struct {
	Month     string `json:"month"` // Capitalized, e.g. "July"
	Year      string `json:"year"`
	Slug      string `json:"slug"`
	IsCurrent bool   `json:"isCurrent"`
}

// DayLink points at a daily page.
type DayLink struct {
	Date  string `json:"date"`
	Label string `json:"label"` // e.g. "Sat, Jul 19"
	URL   string `json:"url"`
}

// CalendarDay is one cell of a month grid. Blank leading cells have Day == 0.
type CalendarDay struct {
	Day      int    `json:"day"`
	Date     string `json:"date,omitempty"`
	URL      string `json:"url,omitempty"`
	Disabled bool   `json:"disabled"`
}

// CalendarWeek is a Sunday-first row of a month grid.
type CalendarWeek []CalendarDay

// DailyPage is the response for a daily sentiment page.
type DailyPage struct {
	Analysis   DailyAnalysis `json:"analysis"`
	Navigation Navigation    `json:"navigation"`
}

// MonthlyPage is the response for a monthly sentiment page.
type MonthlyPage struct {
	Report     MonthlyReport   `json:"report"`
	Navigation MonthNavigation `json:"navigation"`
	Calendar   []CalendarWeek  `json:"calendar"`
}

// IndexEntry is a month listed on the index page together with its neighbours
// within the list of months that loaded successfully.
type IndexEntry struct {
	MonthlyReport
	PrevSlug *string `json:"prevSlug"`
	NextSlug *string `json:"nextSlug"`
}

// IndexPage is the response for the index page. Months whose fetch failed are
// omitted; Requested is the number of months that were attempted. Recent links
// the last seven daily pages.
type IndexPage struct {
	Months    []IndexEntry `json:"months"`
	Selected  *IndexEntry  `json:"selected"`
	Requested int          `json:"requested"`
	Omitted   []string     `json:"omitted"`
	Recent    []DayLink    `json:"recentDays"`
}

// SitemapEntry is one <url> of the sentiment sitemap.
type SitemapEntry struct {
	Loc        string
	LastMod    string
	ChangeFreq string
	Priority   string
}
