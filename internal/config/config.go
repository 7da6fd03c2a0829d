package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// DefaultAPIBaseURL is the production fear-greed-index API, including the
// function path prefix.
const DefaultAPIBaseURL = "https://btcpapifunction-45998414364.us-central1.run.app/btcpapifunction"

// Config holds all configuration for the application
type Config struct {
	Server    ServerConfig
	Database  DatabaseConfig
	CORS      CORSConfig
	Upstream  UpstreamConfig
	Sentiment SentimentConfig
	Refresh   RefreshConfig
	Log       LogConfig
}

// ServerConfig holds server-specific configuration
type ServerConfig struct {
	Port string
	Host string
	Addr string // Combined host:port for convenience
}

// DatabaseConfig holds the location of the SQLite sentiment cache
type DatabaseConfig struct {
	Path string
}

// CORSConfig holds CORS-specific configuration
type CORSConfig struct {
	AllowedOrigins []string
}

// UpstreamConfig configures the fear-greed-index API client.
type UpstreamConfig struct {
	BaseURL string
	Timeout time.Duration
	RPS     float64 // Sustained requests per second across all callers
	Burst   int
}

// SentimentConfig configures how pages are assembled.
type SentimentConfig struct {
	IndexConcurrency int  // Maximum in-flight month fetches for the index page
	IndexYears       int  // Number of calendar years listed on the index page
	FallbackEnabled  bool // Synthesize data when neither upstream nor cache can answer
	SiteBaseURL      string
}

// RefreshConfig configures the scheduled cache refresh.
type RefreshConfig struct {
	Schedule  string // cron spec; empty disables the scheduler
	StartDate string // YYYY-MM-DD
}

// LogConfig configures the zap logger.
type LogConfig struct {
	Level string
	Env   string
}

// Load reads configuration from environment variables and .env file
func Load() (*Config, error) {
	// Try to load .env file (ignore error if it doesn't exist)
	_ = godotenv.Load()

	timeout, err := time.ParseDuration(getEnv("SENTIMENT_API_TIMEOUT", "10s"))
	if err != nil {
		return nil, fmt.Errorf("invalid SENTIMENT_API_TIMEOUT: %w", err)
	}
	rps, err := strconv.ParseFloat(getEnv("SENTIMENT_API_RPS", "5"), 64)
	if err != nil || rps <= 0 {
		return nil, fmt.Errorf("invalid SENTIMENT_API_RPS: %q", os.Getenv("SENTIMENT_API_RPS"))
	}
	burst, err := getEnvInt("SENTIMENT_API_BURST", 5)
	if err != nil {
		return nil, err
	}
	concurrency, err := getEnvInt("INDEX_CONCURRENCY", 4)
	if err != nil {
		return nil, err
	}
	years, err := getEnvInt("INDEX_YEARS", 3)
	if err != nil {
		return nil, err
	}
	fallback, err := strconv.ParseBool(getEnv("FALLBACK_ENABLED", "true"))
	if err != nil {
		return nil, fmt.Errorf("invalid FALLBACK_ENABLED: %w", err)
	}
	refreshStart := getEnv("REFRESH_START_DATE", "2023-01-01")
	if _, err := time.Parse(time.DateOnly, refreshStart); err != nil {
		return nil, fmt.Errorf("invalid REFRESH_START_DATE: %w", err)
	}

	config := &Config{
		Server: ServerConfig{
			Port: getEnv("SERVER_PORT", "5001"),
			Host: getEnv("SERVER_HOST", "localhost"),
		},
		Database: DatabaseConfig{
			Path: getEnv("DB_PATH", "./data/sentiment.db"),
		},
		CORS: CORSConfig{
			AllowedOrigins: splitList(getEnv("CORS_ALLOWED_ORIGINS", "http://localhost:3000,http://localhost,https://perception.to")),
		},
		Upstream: UpstreamConfig{
			BaseURL: strings.TrimRight(getEnv("SENTIMENT_API_BASE_URL", DefaultAPIBaseURL), "/"),
			Timeout: timeout,
			RPS:     rps,
			Burst:   burst,
		},
		Sentiment: SentimentConfig{
			IndexConcurrency: concurrency,
			IndexYears:       years,
			FallbackEnabled:  fallback,
			SiteBaseURL:      strings.TrimRight(getEnv("SITE_BASE_URL", "https://perception.to"), "/"),
		},
		Refresh: RefreshConfig{
			Schedule:  os.Getenv("REFRESH_SCHEDULE"),
			StartDate: refreshStart,
		},
		Log: LogConfig{
			Level: getEnv("LOG_LEVEL", "info"),
			Env:   getEnv("APP_ENV", "development"),
		},
	}

	if _, ok := os.LookupEnv("REFRESH_SCHEDULE"); !ok {
		config.Refresh.Schedule = "@every 6h"
	}

	// Combine host and port
	config.Server.Addr = fmt.Sprintf("%s:%s", config.Server.Host, config.Server.Port)

	return config, nil
}

// getEnv gets an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

// getEnvInt parses a positive integer environment variable.
func getEnvInt(key string, defaultValue int) (int, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	n, err := strconv.Atoi(value)
	if err != nil || n < 1 {
		return 0, fmt.Errorf("invalid %s: %q", key, value)
	}
	return n, nil
}

func splitList(value string) []string {
	parts := strings.Split(value, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
