package service

import (
	"fmt"
	"io"
	"time"

	"github.com/beevik/etree"
	"github.com/perception-to/Bitcoin-Market-Sentiment-Backend/internal/calendar"
	"github.com/perception-to/Bitcoin-Market-Sentiment-Backend/internal/model"
)

const (
	sitemapNamespace = "http://www.sitemaps.org/schemas/sitemap/0.9"
	sitemapYears     = 3 // the current year and the two before it
)

// SitemapService lists every sentiment page for search engines.
type SitemapService struct {
	baseURL string
	clock   func() time.Time
}

// NewSitemapService creates a new SitemapService. baseURL is the public site
// origin without a trailing slash.
func NewSitemapService(baseURL string, clock func() time.Time) *SitemapService {
	if clock == nil {
		clock = time.Now
	}
	return &SitemapService{
		baseURL: baseURL,
		clock:   clock,
	}
}

// Entries returns the index page, every monthly page and every daily page from
// January 1 two years ago through today. Daily pages lose priority and change
// less often as they age.
func (s *SitemapService) Entries() []model.SitemapEntry {
	now := s.clock().UTC()
	today := calendar.Today(now)
	lastMod := today.Format(time.DateOnly)
	start := time.Date(now.Year()-(sitemapYears-1), time.January, 1, 0, 0, 0, 0, time.UTC)

	entries := []model.SitemapEntry{{
		Loc:        s.baseURL + calendar.BasePath,
		LastMod:    lastMod,
		ChangeFreq: "daily",
		Priority:   "0.9",
	}}

	for d := start; !d.After(today); d = d.AddDate(0, 1, 0) {
		entries = append(entries, model.SitemapEntry{
			Loc:        s.baseURL + calendar.MonthURL(d.Month(), d.Year()),
			LastMod:    lastMod,
			ChangeFreq: "daily",
			Priority:   "0.7",
		})
	}

	for d := start; !d.After(today); d = d.AddDate(0, 0, 1) {
		changeFreq, priority := dayPriority(int(now.Sub(d).Hours() / 24))
		entries = append(entries, model.SitemapEntry{
			Loc:        s.baseURL + calendar.DayURL(d),
			LastMod:    d.Format(time.DateOnly),
			ChangeFreq: changeFreq,
			Priority:   priority,
		})
	}

	return entries
}

// WriteXML renders entries as a sitemaps.org urlset.
func (s *SitemapService) WriteXML(w io.Writer, entries []model.SitemapEntry) error {
	doc := etree.NewDocument()
	doc.CreateProcInst("xml", `version="1.0" encoding="UTF-8"`)

	urlset := doc.CreateElement("urlset")
	urlset.CreateAttr("xmlns", sitemapNamespace)
	for _, e := range entries {
		u := urlset.CreateElement("url")
		u.CreateElement("loc").SetText(e.Loc)
		u.CreateElement("lastmod").SetText(e.LastMod)
		u.CreateElement("changefreq").SetText(e.ChangeFreq)
		u.CreateElement("priority").SetText(e.Priority)
	}

	doc.Indent(2)
	if _, err := doc.WriteTo(w); err != nil {
		return fmt.Errorf("failed to write sitemap: %w", err)
	}
	return nil
}

// dayPriority maps the age of a daily page in whole days to its change
// frequency and priority.
func dayPriority(ageDays int) (string, string) {
	switch {
	case ageDays < 7:
		return "daily", "0.8"
	case ageDays < 30:
		return "daily", "0.7"
	case ageDays < 90:
		return "weekly", "0.6"
	default:
		return "monthly", "0.5"
	}
}
