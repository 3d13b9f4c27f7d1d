package config

import (
	"log/slog"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	// Database
	DBDriver   string
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSSLMode  string
	SQLitePath string

	// Review lifecycle
	ReviewWindow    time.Duration
	SweepInterval   time.Duration
	CipherAlgorithm string

	// Payout delivery
	RedisAddr    string
	PayoutStream string

	// Payment collaborator auth
	ServiceJWTSecret string

	// Logging
	LogRetention time.Duration

	// Server
	Port        string
	CORSOrigins string
	BodyLimitMB int
	AppEnv      string
	SentryDSN   string
}

// Load reads configuration from the environment, after applying an optional
// .env file in the working directory.
func Load() *Config {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		slog.Warn("failed to load .env file", "error", err)
	}

	return &Config{
		DBDriver:   getEnv("DB_DRIVER", "postgres"),
		DBHost:     getEnv("DB_HOST", "localhost"),
		DBPort:     getEnv("DB_PORT", "5432"),
		DBUser:     getEnv("DB_USER", "postgres"),
		DBPassword: getEnv("DB_PASSWORD", ""),
		DBName:     getEnv("DB_NAME", "bountychain"),
		DBSSLMode:  getEnv("DB_SSLMODE", "disable"),
		SQLitePath: getEnv("SQLITE_PATH", "bountychain.db"),

		ReviewWindow:    parseDuration(getEnv("REVIEW_WINDOW", "168h"), 7*24*time.Hour),
		SweepInterval:   parseDuration(getEnv("SWEEP_INTERVAL", "10m"), 10*time.Minute),
		CipherAlgorithm: getEnv("CIPHER_ALGORITHM", "AES-256-GCM"),

		RedisAddr:    getEnv("REDIS_ADDR", ""),
		PayoutStream: getEnv("PAYOUT_STREAM", "payout-intents"),

		ServiceJWTSecret: getEnv("SERVICE_JWT_SECRET", ""),

		LogRetention: parseDuration(getEnv("LOG_RETENTION", "720h"), 30*24*time.Hour),

		Port:        getEnv("PORT", "3001"),
		CORSOrigins: getEnv("CORS_ORIGINS", "http://localhost:5173"),
		BodyLimitMB: parseInt(getEnv("BODY_LIMIT_MB", "10"), 10),
		AppEnv:      getEnv("APP_ENV", "development"),
		SentryDSN:   getEnv("SENTRY_DSN", ""),
	}
}

func (c *Config) DSN() string {
	return "host=" + c.DBHost +
		" user=" + c.DBUser +
		" password=" + c.DBPassword +
		" dbname=" + c.DBName +
		" port=" + c.DBPort +
		" sslmode=" + c.DBSSLMode +
		" TimeZone=UTC"
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func parseDuration(s string, fallback time.Duration) time.Duration {
	d, err := time.ParseDuration(s)
	if err != nil || d <= 0 {
		return fallback
	}
	return d
}

func parseInt(s string, fallback int) int {
	n, err := strconv.Atoi(s)
	if err != nil || n <= 0 {
		return fallback
	}
	return n
}
