package handlers

import (
	"errors"
	"net/http"

	"github.com/perception-to/Bitcoin-Market-Sentiment-Backend/internal/api/request"
	"github.com/perception-to/Bitcoin-Market-Sentiment-Backend/internal/api/response"
	"github.com/perception-to/Bitcoin-Market-Sentiment-Backend/internal/apperrors"
	"github.com/perception-to/Bitcoin-Market-Sentiment-Backend/internal/model"
	"github.com/perception-to/Bitcoin-Market-Sentiment-Backend/internal/service"
	"github.com/perception-to/Bitcoin-Market-Sentiment-Backend/internal/validation"
)

// SentimentHandler handles HTTP requests for the Bitcoin market sentiment pages.
// Each page is served as one JSON document holding everything it renders.
type SentimentHandler struct {
	sentimentService *service.SentimentService
}

// NewSentimentHandler creates a new SentimentHandler with the provided service dependency.
func NewSentimentHandler(sentimentService *service.SentimentService) *SentimentHandler {
	return &SentimentHandler{
		sentimentService: sentimentService,
	}
}

// Index handles GET requests for the index page: every month of the last three
// years that could be loaded, plus links to the last seven days.
//
// Endpoint: GET /api/sentiment
// Response: 200 OK with model.IndexPage
// Error: 503 Service Unavailable if no month could be loaded
func (h *SentimentHandler) Index(w http.ResponseWriter, r *http.Request) {
	page, err := h.sentimentService.Index(r.Context())
	if err != nil {
		response.RespondError(w, http.StatusServiceUnavailable, "API Service Unavailable", err.Error())
		return
	}

	response.RespondJSON(w, http.StatusOK, page)
}

// RecentDays handles GET requests for links to the last seven daily pages.
//
// Endpoint: GET /api/sentiment/recent
// Response: 200 OK with array of model.DayLink
func (h *SentimentHandler) RecentDays(w http.ResponseWriter, _ *http.Request) {
	response.RespondJSON(w, http.StatusOK, h.sentimentService.RecentDays())
}

// Daily handles GET requests for a daily page.
//
// Endpoint: GET /api/sentiment/{year}/{month}/{day}
// Response: 200 OK with model.DailyPage
// Error: 404 Not Found if the path is not a calendar date (validated by middleware)
// Error: 503 Service Unavailable if no data could be loaded and fallback is disabled
func (h *SentimentHandler) Daily(w http.ResponseWriter, r *http.Request) {
	date, err := request.DayFromURL(r)
	if err != nil {
		response.RespondError(w, http.StatusNotFound, apperrors.ErrInvalidURLFormat.Error(), err.Error())
		return
	}

	page, err := h.sentimentService.DailyPage(r.Context(), date)
	if err != nil {
		response.RespondError(w, sentimentStatus(err), apperrors.ErrFailedToLoadSentiment.Error(), err.Error())
		return
	}

	response.RespondJSON(w, http.StatusOK, page)
}

// Monthly handles GET requests for a monthly page.
//
// Endpoint: GET /api/sentiment/{year}/{month}
// Response: 200 OK with model.MonthlyPage
// Error: 404 Not Found if the path is not a month, or the month has no data yet
// Error: 503 Service Unavailable if no data could be loaded and fallback is disabled
func (h *SentimentHandler) Monthly(w http.ResponseWriter, r *http.Request) {
	m, year, err := request.MonthFromURL(r)
	if err != nil {
		response.RespondError(w, http.StatusNotFound, apperrors.ErrInvalidURLFormat.Error(), err.Error())
		return
	}

	page, err := h.sentimentService.MonthlyPage(r.Context(), m, year)
	if err != nil {
		response.RespondError(w, sentimentStatus(err), apperrors.ErrFailedToLoadSentiment.Error(), err.Error())
		return
	}

	response.RespondJSON(w, http.StatusOK, page)
}

// Snapshot handles GET requests for the full cache snapshot used by
// pre-rendering.
//
// Endpoint: GET /api/sentiment/snapshot
// Response: 200 OK with model.Snapshot
// Error: 500 Internal Server Error if the cache cannot be read
func (h *SentimentHandler) Snapshot(w http.ResponseWriter, r *http.Request) {
	snap, err := h.sentimentService.Snapshot(r.Context())
	if err != nil {
		response.RespondError(w, http.StatusInternalServerError, apperrors.ErrFailedToLoadSnapshot.Error(), err.Error())
		return
	}

	response.RespondJSON(w, http.StatusOK, snap)
}

// CacheStatus handles GET requests for the cache summary and last refresh run.
//
// Endpoint: GET /api/sentiment/cache
// Response: 200 OK with model.CacheStatus
// Error: 500 Internal Server Error if the cache cannot be read
func (h *SentimentHandler) CacheStatus(w http.ResponseWriter, r *http.Request) {
	status, err := h.sentimentService.CacheStatus(r.Context())
	if err != nil {
		response.RespondError(w, http.StatusInternalServerError, apperrors.ErrFailedToLoadSnapshot.Error(), err.Error())
		return
	}

	response.RespondJSON(w, http.StatusOK, status)
}

// Refresh handles POST requests to refresh the cache from the upstream API.
// Without a body the configured start date through today is refreshed.
//
// Endpoint: POST /api/sentiment/refresh
// Request: optional request.RefreshRequest
// Response: 200 OK with model.RefreshResult
// Error: 400 Bad Request if the body is malformed or the range is invalid
// Error: 401 Unauthorized without a valid API key (validated by middleware)
// Error: 502 Bad Gateway if the upstream fetch or the cache write fails
func (h *SentimentHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	var (
		run model.RefreshResult
		err error
	)

	if r.ContentLength == 0 {
		run, err = h.sentimentService.RefreshAll(r.Context())
	} else {
		req, parseErr := parseJSON[request.RefreshRequest](r)
		if parseErr != nil {
			response.RespondError(w, http.StatusBadRequest, "invalid request body", parseErr.Error())
			return
		}
		if valErr := validation.ValidateRefresh(req); valErr != nil {
			response.RespondError(w, http.StatusBadRequest, "validation failed", valErr.Error())
			return
		}
		run, err = h.sentimentService.Refresh(r.Context(), req.StartDate, req.EndDate)
	}

	if err != nil {
		status := http.StatusBadGateway
		if errors.Is(err, apperrors.ErrNoData) {
			status = http.StatusNotFound
		}
		response.RespondError(w, status, apperrors.ErrFailedToRefresh.Error(), err.Error())
		return
	}

	response.RespondJSON(w, http.StatusOK, run)
}

// RefreshHistory handles GET requests for the log of cache refresh runs.
//
// Endpoint: GET /api/sentiment/refresh-log
// Query: status (success,error), startDate, endDate, sortDir (asc|desc), perPage (1-100)
// Response: 200 OK with array of model.RefreshResult
// Error: 400 Bad Request if a filter is invalid
// Error: 500 Internal Server Error if the log cannot be read
func (h *SentimentHandler) RefreshHistory(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filters, err := request.ParseRefreshFilters(
		q.Get("status"),
		q.Get("startDate"),
		q.Get("endDate"),
		q.Get("sortDir"),
		q.Get("perPage"),
	)
	if err != nil {
		response.RespondError(w, http.StatusBadRequest, "invalid filter", err.Error())
		return
	}

	runs, err := h.sentimentService.RefreshHistory(r.Context(), filters)
	if err != nil {
		response.RespondError(w, http.StatusInternalServerError, apperrors.ErrFailedToLoadRefreshLog.Error(), err.Error())
		return
	}

	response.RespondJSON(w, http.StatusOK, runs)
}
