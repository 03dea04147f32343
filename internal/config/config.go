package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"
	_ "time/tzdata" // TIMEZONE must resolve on hosts without zoneinfo

	"github.com/joho/godotenv"
)

type Config struct {
	Addr              string
	DBDriver          string
	DBDSN             string
	LogLevel          string
	Timezone          string
	RedisURL          string
	StatsCacheTTL     time.Duration
	TelegramBotToken  string
	ReminderHour      int
	SessionTTL        time.Duration
	NotifyWorkerCount int
	NotifyQueueSize   int
	CORSOrigins       []string
}

// Load reads configuration from a .env file (if present) and environment variables,
// applying defaults when values are missing or invalid.
func Load() Config {
	// Ignore error so the app still starts when .env is absent in production.
	_ = godotenv.Load()

	return Config{
		Addr:              envOr("ADDR", ":8080"),
		DBDriver:          envOr("DB_DRIVER", "sqlite3"),
		DBDSN:             envOr("DB_DSN", "file:wordflash.db"),
		LogLevel:          envOr("LOG_LEVEL", "INFO"),
		Timezone:          envOr("TIMEZONE", "Local"),
		RedisURL:          os.Getenv("REDIS_URL"),
		StatsCacheTTL:     envDurationOr("STATS_CACHE_TTL", 5*time.Minute),
		TelegramBotToken:  os.Getenv("TELEGRAM_BOT_TOKEN"),
		ReminderHour:      envIntOr("REMINDER_HOUR", 18),
		SessionTTL:        envDurationOr("SESSION_TTL", 2*time.Hour),
		NotifyWorkerCount: envIntOr("NOTIFY_WORKER_COUNT", 2),
		NotifyQueueSize:   envIntOr("NOTIFY_QUEUE_SIZE", 64),
		CORSOrigins:       envListOr("CORS_ORIGINS", []string{"*"}),
	}
}

// Validate reports the first invalid setting.
func (c Config) Validate() error {
	if c.Addr == "" {
		return fmt.Errorf("ADDR cannot be empty")
	}
	switch c.DBDriver {
	case "sqlite3", "postgres":
	default:
		return fmt.Errorf("DB_DRIVER must be sqlite3 or postgres, got %q", c.DBDriver)
	}
	if c.DBDSN == "" {
		return fmt.Errorf("DB_DSN cannot be empty")
	}
	if _, err := c.Location(); err != nil {
		return fmt.Errorf("TIMEZONE %q is invalid: %w", c.Timezone, err)
	}
	if c.ReminderHour < 0 || c.ReminderHour > 23 {
		return fmt.Errorf("REMINDER_HOUR must be between 0 and 23, got %d", c.ReminderHour)
	}
	if c.SessionTTL <= 0 {
		return fmt.Errorf("SESSION_TTL must be positive")
	}
	if c.StatsCacheTTL < 0 {
		return fmt.Errorf("STATS_CACHE_TTL cannot be negative")
	}
	if c.NotifyWorkerCount < 1 {
		return fmt.Errorf("NOTIFY_WORKER_COUNT must be at least 1, got %d", c.NotifyWorkerCount)
	}
	if c.NotifyQueueSize < 1 {
		return fmt.Errorf("NOTIFY_QUEUE_SIZE must be at least 1, got %d", c.NotifyQueueSize)
	}
	return nil
}

// Location resolves the calendar timezone used for due dates and streaks.
func (c Config) Location() (*time.Location, error) {
	if c.Timezone == "" || c.Timezone == "Local" {
		return time.Local, nil
	}
	return time.LoadLocation(c.Timezone)
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func envIntOr(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
		log.Printf("invalid value for %s=%q, using default %d", key, v, def)
	}
	return def
}

func envDurationOr(key string, def time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
		log.Printf("invalid value for %s=%q, using default %s", key, v, def)
	}
	return def
}

func envListOr(key string, def []string) []string {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	var out []string
	for _, part := range strings.Split(v, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	if len(out) == 0 {
		return def
	}
	return out
}
