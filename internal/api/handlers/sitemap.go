package handlers

import (
	"bytes"
	"net/http"

	"github.com/perception-to/Bitcoin-Market-Sentiment-Backend/internal/api/response"
	"github.com/perception-to/Bitcoin-Market-Sentiment-Backend/internal/apperrors"
	"github.com/perception-to/Bitcoin-Market-Sentiment-Backend/internal/service"
	"go.uber.org/zap"
)

// SitemapHandler serves the sentiment sitemap.
type SitemapHandler struct {
	sitemapService *service.SitemapService
}

// NewSitemapHandler creates a new SitemapHandler
func NewSitemapHandler(sitemapService *service.SitemapService) *SitemapHandler {
	return &SitemapHandler{
		sitemapService: sitemapService,
	}
}

// Sitemap handles GET requests for the sitemap of every sentiment page.
//
// Endpoint: GET /sitemap-sentiment.xml
// Response: 200 OK with a sitemaps.org urlset
// Error: 500 Internal Server Error if rendering fails
func (h *SitemapHandler) Sitemap(w http.ResponseWriter, _ *http.Request) {
	var buf bytes.Buffer
	if err := h.sitemapService.WriteXML(&buf, h.sitemapService.Entries()); err != nil {
		response.RespondError(w, http.StatusInternalServerError, apperrors.ErrFailedToBuildSitemap.Error(), err.Error())
		return
	}

	w.Header().Set("Content-Type", "application/xml; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	if _, err := buf.WriteTo(w); err != nil {
		zap.L().Warn("failed to write sitemap response", zap.Error(err))
	}
}
