package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/perception-to/Bitcoin-Market-Sentiment-Backend/internal/api/handlers"
	custommiddleware "github.com/perception-to/Bitcoin-Market-Sentiment-Backend/internal/api/middleware"
	"github.com/perception-to/Bitcoin-Market-Sentiment-Backend/internal/config"
	"github.com/perception-to/Bitcoin-Market-Sentiment-Backend/internal/metrics"
	"github.com/perception-to/Bitcoin-Market-Sentiment-Backend/internal/service"
)

// NewRouter creates and configures the HTTP router
func NewRouter(
	logger *zap.Logger,
	systemService *service.SystemService,
	sentimentService *service.SentimentService,
	sitemapService *service.SitemapService,
	cfg *config.Config,
) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(custommiddleware.Logger(logger))
	r.Use(middleware.Recoverer)

	// CORS middleware
	corsMiddleware := custommiddleware.NewCORS(cfg.CORS.AllowedOrigins)
	r.Use(corsMiddleware.Handler)

	// API routes
	r.Route("/api", func(r chi.Router) {
		// System namespace
		r.Route("/system", func(r chi.Router) {
			systemHandler := handlers.NewSystemHandler(systemService)
			r.Get("/health", systemHandler.Health)
			r.Get("/version", systemHandler.Version)
		})

		r.Route("/sentiment", func(r chi.Router) {
			sentimentHandler := handlers.NewSentimentHandler(sentimentService)
			r.Get("/", sentimentHandler.Index)
			r.Get("/recent", sentimentHandler.RecentDays)
			r.Get("/snapshot", sentimentHandler.Snapshot)
			r.Get("/cache", sentimentHandler.CacheStatus)
			r.Get("/refresh-log", sentimentHandler.RefreshHistory)
			r.With(custommiddleware.APIKeyMiddleware).Post("/refresh", sentimentHandler.Refresh)

			r.With(custommiddleware.ValidateMonthParams).Get("/{year}/{month}", sentimentHandler.Monthly)
			r.With(custommiddleware.ValidateDayParams).Get("/{year}/{month}/{day}", sentimentHandler.Daily)
		})
	})

	sitemapHandler := handlers.NewSitemapHandler(sitemapService)
	r.Get("/sitemap-sentiment.xml", sitemapHandler.Sitemap)

	r.Handle("/metrics", metrics.Handler())

	return r
}
