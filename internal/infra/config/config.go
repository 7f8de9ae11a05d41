package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// AppConfig holds all configuration for the refund status service.
type AppConfig struct {
	LogLevel    string
	Environment string

	HTTPListenAddr string

	// DatabaseURL selects the durable store when set; empty keeps the
	// in-memory status store.
	DatabaseURL string

	CronSpecRefresh string        // reconciliation cadence
	TickTimeout     time.Duration // upper bound for one reconciliation run

	FilingCacheTTL     time.Duration // per-filing aggregation results
	SummaryCacheTTL    time.Duration // per-user summary lists
	CacheSweepInterval time.Duration

	// Upstream collaborators. Empty base URLs switch the corresponding
	// collaborator to its static in-memory stand-in.
	FilingDirectoryURL string
	FederalSourceURL   string
	StateSourceURL     string
	UpstreamTimeout    time.Duration

	// Ops alerting over Telegram; disabled when the token is empty.
	TelegramToken string
	OpsChatID     int64

	SeedSampleData bool
}

// Load reads configuration from environment variables and .env file (if present).
func Load() (*AppConfig, error) {
	// godotenv.Load will not override existing env variables.
	_ = godotenv.Load()

	cfg := &AppConfig{}
	var err error

	cfg.LogLevel = strings.ToLower(os.Getenv("LOG_LEVEL"))
	if cfg.LogLevel == "" {
		cfg.LogLevel = "info"
	}

	cfg.Environment = strings.ToLower(os.Getenv("ENVIRONMENT"))
	if cfg.Environment == "" {
		cfg.Environment = "development"
	}

	cfg.HTTPListenAddr = os.Getenv("HTTP_LISTEN_ADDR")
	if cfg.HTTPListenAddr == "" {
		cfg.HTTPListenAddr = ":8080"
	}

	cfg.DatabaseURL = os.Getenv("DATABASE_URL")

	cfg.CronSpecRefresh = os.Getenv("CRON_SPEC_REFRESH")
	if cfg.CronSpecRefresh == "" {
		cfg.CronSpecRefresh = "*/30 * * * *" // Default: every 30 minutes
	}

	if cfg.TickTimeout, err = durationEnv("TICK_TIMEOUT", 10*time.Minute); err != nil {
		return nil, err
	}
	if cfg.FilingCacheTTL, err = durationEnv("FILING_CACHE_TTL", 5*time.Minute); err != nil {
		return nil, err
	}
	if cfg.SummaryCacheTTL, err = durationEnv("SUMMARY_CACHE_TTL", 2*time.Minute); err != nil {
		return nil, err
	}
	if cfg.CacheSweepInterval, err = durationEnv("CACHE_SWEEP_INTERVAL", 1*time.Minute); err != nil {
		return nil, err
	}
	if cfg.UpstreamTimeout, err = durationEnv("UPSTREAM_TIMEOUT", 5*time.Second); err != nil {
		return nil, err
	}

	cfg.FilingDirectoryURL = os.Getenv("FILING_DIRECTORY_URL")
	cfg.FederalSourceURL = os.Getenv("FEDERAL_SOURCE_URL")
	cfg.StateSourceURL = os.Getenv("STATE_SOURCE_URL")

	cfg.TelegramToken = os.Getenv("TELEGRAM_TOKEN")
	if opsChatIDStr := os.Getenv("OPS_CHAT_ID"); opsChatIDStr != "" {
		cfg.OpsChatID, err = strconv.ParseInt(opsChatIDStr, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid OPS_CHAT_ID: %w", err)
		}
	}
	if cfg.TelegramToken != "" && cfg.OpsChatID == 0 {
		return nil, fmt.Errorf("OPS_CHAT_ID is not set but TELEGRAM_TOKEN is")
	}

	seedStr := os.Getenv("SEED_SAMPLE_DATA")
	if seedStr == "" {
		// Local runs reseed sample data on startup; durability is not a goal.
		cfg.SeedSampleData = cfg.Environment == "development"
	} else {
		cfg.SeedSampleData, err = strconv.ParseBool(seedStr)
		if err != nil {
			return nil, fmt.Errorf("invalid SEED_SAMPLE_DATA: %w", err)
		}
	}

	return cfg, nil
}

func durationEnv(name string, fallback time.Duration) (time.Duration, error) {
	raw := os.Getenv(name)
	if raw == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", name, err)
	}
	if d <= 0 {
		return 0, fmt.Errorf("invalid %s: must be positive", name)
	}
	return d, nil
}
