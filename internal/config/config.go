package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Port        string
	Environment string

	// Market data
	DefaultTicker        string
	AlphaVantageKey      string
	MaxConcurrentFetches int

	// AI narrator
	GeminiAPIKey string
	GeminiModel  string

	// Cache tiers
	FirestoreProject string
	QuoteTTL         time.Duration
	HistoryTTL       time.Duration
	FundamentalsTTL  time.Duration
	ChatSessionTTL   time.Duration

	// Optional background refresh of watchlist symbols
	WatchlistPath string
	RefreshCron   string

	// Optional local quote history
	SQLitePath string
}

func Load() *Config {
	// Load .env file if it exists
	godotenv.Load()

	cfg := &Config{
		Port:                 getEnv("PORT", "8080"),
		Environment:          getEnv("ENVIRONMENT", "production"),
		DefaultTicker:        getEnv("DEFAULT_TICKER", "AAPL"),
		AlphaVantageKey:      getEnv("ALPHA_VANTAGE_KEY", ""),
		MaxConcurrentFetches: getEnvAsInt("MAX_CONCURRENT_FETCHES", 10),
		GeminiAPIKey:         getEnv("GEMINI_API_KEY", ""),
		GeminiModel:          getEnv("GEMINI_MODEL", "gemini-1.5-flash"),
		FirestoreProject:     getEnv("FIRESTORE_PROJECT_ID", ""),
		QuoteTTL:             getEnvAsDuration("QUOTE_TTL", time.Minute),
		HistoryTTL:           getEnvAsDuration("HISTORY_TTL", 5*time.Minute),
		FundamentalsTTL:      getEnvAsDuration("FUNDAMENTALS_TTL", time.Hour),
		ChatSessionTTL:       getEnvAsDuration("CHAT_SESSION_TTL", time.Hour),
		WatchlistPath:        getEnv("WATCHLIST_FILE", ""),
		RefreshCron:          getEnv("REFRESH_CRON", "@every 15m"),
		SQLitePath:           getEnv("SQLITE_PATH", ""),
	}

	if cfg.AlphaVantageKey == "" {
		log.Println("[WARN] ALPHA_VANTAGE_KEY not set, using Yahoo Finance only")
	}
	if cfg.GeminiAPIKey == "" {
		log.Println("[WARN] GEMINI_API_KEY not set, AI analysis disabled")
	}

	return cfg
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return defaultValue
	}
	return n
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return defaultValue
	}
	return d
}
