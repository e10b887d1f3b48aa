package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the application
// ⭐ SSOT: 모든 환경변수는 여기서만 읽음
type Config struct {
	// Server
	Port string
	Env  string // development, staging, production

	// Database (journal backend = postgres)
	Database DatabaseConfig

	// Redis (news cache + rate limit)
	Redis RedisConfig

	// External collaborators
	Market MarketConfig
	News   NewsConfig

	// Core storage and inputs
	Journal   JournalConfig
	Watchlist WatchlistConfig

	// Evaluation cycle
	Evaluation EvaluationConfig

	// Strategy YAML (thresholds, keywords, windows)
	StrategyFile string

	// Logging
	LogLevel  string
	LogFormat string

	// Monitoring
	MetricsEnabled bool
}

// RedisConfig holds Redis configuration
type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
	Enabled  bool
}

// DatabaseConfig holds PostgreSQL configuration
type DatabaseConfig struct {
	URL string

	// Connection Pool
	MaxConns        int
	MinConns        int
	MaxConnLifetime time.Duration
	MaxConnIdleTime time.Duration
}

// MarketConfig holds the market data (Yahoo chart API) configuration
type MarketConfig struct {
	BaseURL         string
	BenchmarkSymbol string  // NIFTY 50 index symbol
	RequestsPerSec  float64 // client side limiter
	Interval        string  // intraday bar interval
}

// NewsConfig holds the news provider configuration
type NewsConfig struct {
	APIKey   string // empty => stub provider
	BaseURL  string
	Limit    int
	CacheTTL time.Duration
}

// JournalConfig selects where predictions are persisted
type JournalConfig struct {
	Backend string // file, postgres
	Path    string // CSV path for file backend
}

// WatchlistConfig points at the screener output
type WatchlistConfig struct {
	Path string
}

// EvaluationConfig controls the evaluation cycle
type EvaluationConfig struct {
	Workers      int
	FetchTimeout time.Duration
	Schedule     string // cron expression with seconds
}

// Load reads configuration from environment variables
// ⭐ SSOT: 이 함수만 os.Getenv()를 호출함
func Load() (*Config, error) {
	loadEnvFile()

	cfg := &Config{
		Port: getEnv("PORT", "8089"),
		Env:  getEnv("ENV", "development"),

		Database: DatabaseConfig{
			URL:             getEnv("DATABASE_URL", ""),
			MaxConns:        getEnvAsInt("DB_MAX_CONNS", 10),
			MinConns:        getEnvAsInt("DB_MIN_CONNS", 2),
			MaxConnLifetime: getEnvAsDuration("DB_MAX_CONN_LIFETIME", "1h"),
			MaxConnIdleTime: getEnvAsDuration("DB_MAX_CONN_IDLE_TIME", "30m"),
		},

		Redis: RedisConfig{
			Host:     getEnv("REDIS_HOST", "localhost"),
			Port:     getEnv("REDIS_PORT", "6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvAsInt("REDIS_DB", 0),
			Enabled:  getEnvAsBool("REDIS_ENABLED", false),
		},

		Market: MarketConfig{
			BaseURL:         getEnv("MARKET_BASE_URL", "https://query1.finance.yahoo.com"),
			BenchmarkSymbol: getEnv("MARKET_BENCHMARK_SYMBOL", "^NSEI"),
			RequestsPerSec:  getEnvAsFloat("MARKET_RPS", 2),
			Interval:        getEnv("MARKET_INTERVAL", "5m"),
		},

		News: NewsConfig{
			APIKey:   getEnv("NEWS_API_KEY", ""),
			BaseURL:  getEnv("NEWS_BASE_URL", "https://newsapi.org"),
			Limit:    getEnvAsInt("NEWS_LIMIT", 5),
			CacheTTL: getEnvAsDuration("NEWS_CACHE_TTL", "5m"),
		},

		Journal: JournalConfig{
			Backend: getEnv("JOURNAL_BACKEND", "file"),
			Path:    getEnv("JOURNAL_PATH", "prediction_journal.csv"),
		},

		Watchlist: WatchlistConfig{
			Path: getEnv("WATCHLIST_PATH", "active_watchlist.csv"),
		},

		Evaluation: EvaluationConfig{
			Workers:      getEnvAsInt("EVAL_WORKERS", 4),
			FetchTimeout: getEnvAsDuration("EVAL_FETCH_TIMEOUT", "10s"),
			Schedule:     getEnv("EVAL_SCHEDULE", "0 */5 9-15 * * MON-FRI"),
		},

		StrategyFile: getEnv("STRATEGY_FILE", ""),

		LogLevel:  getEnv("LOG_LEVEL", "info"),
		LogFormat: getEnv("LOG_FORMAT", "json"),

		MetricsEnabled: getEnvAsBool("METRICS_ENABLED", true),
	}

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// validate checks if required configuration values are set
func (c *Config) validate() error {
	if c.Env != "development" && c.Env != "staging" && c.Env != "production" {
		return fmt.Errorf("ENV must be one of: development, staging, production")
	}

	switch c.Journal.Backend {
	case "file":
		if c.Journal.Path == "" {
			return fmt.Errorf("JOURNAL_PATH is required for the file journal")
		}
	case "postgres":
		if c.Database.URL == "" {
			return fmt.Errorf("DATABASE_URL is required for the postgres journal")
		}
	default:
		return fmt.Errorf("JOURNAL_BACKEND must be one of: file, postgres")
	}

	if c.Evaluation.Workers < 1 {
		return fmt.Errorf("EVAL_WORKERS must be >= 1")
	}

	return nil
}

// loadEnvFile tries to load .env from multiple locations
func loadEnvFile() {
	paths := []string{".env"}

	if exe, err := os.Executable(); err == nil {
		exeDir := filepath.Dir(exe)
		paths = append(paths,
			filepath.Join(exeDir, ".env"),
			filepath.Join(exeDir, "..", ".env"),
		)
	}

	for _, path := range paths {
		if _, err := os.Stat(path); err == nil {
			_ = godotenv.Load(path)
			return
		}
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return defaultValue
	}

	return value
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.ParseFloat(valueStr, 64)
	if err != nil {
		return defaultValue
	}

	return value
}

func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.ParseBool(valueStr)
	if err != nil {
		return defaultValue
	}

	return value
}

func getEnvAsDuration(key string, defaultValue string) time.Duration {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		valueStr = defaultValue
	}

	duration, err := time.ParseDuration(valueStr)
	if err != nil {
		duration, _ = time.ParseDuration(defaultValue)
	}

	return duration
}
