package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/perception-to/Bitcoin-Market-Sentiment-Backend/internal/api"
	"github.com/perception-to/Bitcoin-Market-Sentiment-Backend/internal/config"
	"github.com/perception-to/Bitcoin-Market-Sentiment-Backend/internal/database"
	"github.com/perception-to/Bitcoin-Market-Sentiment-Backend/internal/feargreed"
	"github.com/perception-to/Bitcoin-Market-Sentiment-Backend/internal/logging"
	"github.com/perception-to/Bitcoin-Market-Sentiment-Backend/internal/repository"
	"github.com/perception-to/Bitcoin-Market-Sentiment-Backend/internal/service"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logger, err := logging.New(cfg.Log.Level, cfg.Log.Env)
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}
	defer logger.Sync() //nolint:errcheck // Nothing to do if flushing fails on exit
	zap.ReplaceGlobals(logger)

	// Open database connection
	db, err := database.Open(cfg.Database.Path)
	if err != nil {
		logger.Fatal("failed to open database", zap.String("path", cfg.Database.Path), zap.Error(err))
	}
	defer db.Close()

	logger.Info("connected to database", zap.String("path", cfg.Database.Path))

	// Create repositories
	sentimentRepo := repository.NewSentimentRepository(db)
	refreshRepo := repository.NewRefreshRepository(db)

	client := feargreed.NewHTTPClient(feargreed.Options{
		BaseURL: cfg.Upstream.BaseURL,
		Timeout: cfg.Upstream.Timeout,
		RPS:     cfg.Upstream.RPS,
		Burst:   cfg.Upstream.Burst,
	})

	// Create services
	systemService := service.NewSystemService(db, cfg.Upstream.BaseURL, map[string]bool{
		"fallback":          cfg.Sentiment.FallbackEnabled,
		"scheduled_refresh": cfg.Refresh.Schedule != "",
	})
	sentimentService := service.NewSentimentService(
		db,
		client,
		sentimentRepo,
		refreshRepo,
		logger,
		service.SentimentOptions{
			FallbackEnabled:  cfg.Sentiment.FallbackEnabled,
			IndexConcurrency: cfg.Sentiment.IndexConcurrency,
			IndexYears:       cfg.Sentiment.IndexYears,
			RefreshStartDate: cfg.Refresh.StartDate,
		},
	)
	sitemapService := service.NewSitemapService(cfg.Sentiment.SiteBaseURL, time.Now)

	// Schedule cache refreshes
	scheduler := cron.New()
	if cfg.Refresh.Schedule != "" {
		_, err := scheduler.AddFunc(cfg.Refresh.Schedule, func() {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
			defer cancel()
			// Failures are logged and recorded by the service
			_, _ = sentimentService.RefreshAll(ctx)
		})
		if err != nil {
			logger.Fatal("invalid refresh schedule", zap.String("schedule", cfg.Refresh.Schedule), zap.Error(err))
		}
		scheduler.Start()
		logger.Info("scheduled cache refresh", zap.String("schedule", cfg.Refresh.Schedule))
	}

	// Create router
	router := api.NewRouter(logger, systemService, sentimentService, sitemapService, cfg)

	// Create HTTP server
	server := &http.Server{
		Addr:         cfg.Server.Addr,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in a goroutine
	go func() {
		logger.Info("starting server", zap.String("addr", cfg.Server.Addr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("server failed to start", zap.Error(err))
		}
	}()

	// Wait for interrupt signal for graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server")

	// Let a running refresh finish before closing the database
	<-scheduler.Stop().Done()

	// Graceful shutdown with timeout
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		logger.Error("server forced to shutdown", zap.Error(err))
	}

	logger.Info("server exited")
}
