package service

import (
	"context"

	"github.com/perception-to/Bitcoin-Market-Sentiment-Backend/internal/apperrors"
	"github.com/perception-to/Bitcoin-Market-Sentiment-Backend/internal/calendar"
	"github.com/perception-to/Bitcoin-Market-Sentiment-Backend/internal/model"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Index loads every month of the configured number of years, most recent
// first, with at most IndexConcurrency upstream fetches in flight.
//
// A month that fails (upstream and cache) is left out and listed in Omitted.
// When every month fails the result is apperrors.ErrServiceUnavailable.
// Cancelling ctx stops launching fetches and aborts the ones in flight.
func (s *SentimentService) Index(ctx context.Context) (model.IndexPage, error) {
	now := s.opts.Clock()
	links := calendar.MonthlyLinks(now, s.opts.IndexYears)
	reports := make([]*model.MonthlyReport, len(links))

	var g errgroup.Group
	g.SetLimit(s.opts.IndexConcurrency)

	for i, link := range links {
		if ctx.Err() != nil {
			break
		}
		g.Go(func() error {
			m, year, _ := calendar.ParseMonthSlug(link.Slug)
			report, err := s.Monthly(ctx, m, year, PropagateError)
			if err != nil {
				if ctxErr := ctx.Err(); ctxErr != nil {
					return ctxErr
				}
				s.logger.Warn("omitting month from index", zap.String("month", link.Slug), zap.Error(err))
				return nil
			}
			reports[i] = &report
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return model.IndexPage{}, err
	}
	if err := ctx.Err(); err != nil {
		return model.IndexPage{}, err
	}

	page := model.IndexPage{
		Months:    []model.IndexEntry{},
		Requested: len(links),
		Omitted:   []string{},
		Recent:    calendar.RecentDays(now, recentDayCount),
	}
	for i, report := range reports {
		if report == nil {
			page.Omitted = append(page.Omitted, links[i].Slug)
			continue
		}
		page.Months = append(page.Months, model.IndexEntry{MonthlyReport: *report})
	}
	if len(page.Months) == 0 {
		return model.IndexPage{}, apperrors.ErrServiceUnavailable
	}

	// Months are newest first: the previous month is the next entry.
	for i := range page.Months {
		if i+1 < len(page.Months) {
			prev := page.Months[i+1].Slug
			page.Months[i].PrevSlug = &prev
		}
		if i > 0 {
			next := page.Months[i-1].Slug
			page.Months[i].NextSlug = &next
		}
	}
	selected := page.Months[0]
	page.Selected = &selected

	return page, nil
}
