package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/perception-to/Bitcoin-Market-Sentiment-Backend/internal/apperrors"
)

// maxBodyBytes caps request bodies; the only body this API accepts is a date range.
const maxBodyBytes = 1 << 10

// parseJSON decodes the request body into a T, rejecting unknown fields.
func parseJSON[T any](r *http.Request) (T, error) {
	var req T
	decoder := json.NewDecoder(http.MaxBytesReader(nil, r.Body, maxBodyBytes))
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&req); err != nil {
		return req, fmt.Errorf("failed to decode request body: %w", err)
	}
	return req, nil
}

// sentimentStatus maps a sentiment service error to an HTTP status. Pages that
// cannot exist are 404; everything else means the data source let us down.
func sentimentStatus(err error) int {
	switch {
	case errors.Is(err, apperrors.ErrInvalidURLFormat),
		errors.Is(err, apperrors.ErrInvalidDate),
		errors.Is(err, apperrors.ErrNoData):
		return http.StatusNotFound
	default:
		return http.StatusServiceUnavailable
	}
}
