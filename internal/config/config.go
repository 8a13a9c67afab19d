package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// AppConfig holds all configuration for the application.
type AppConfig struct {
	Port        string
	DatabaseURL string
	JWTSecret   string
	LogLevel    string
	Environment string

	SMTPHost     string
	SMTPPort     int
	SMTPUsername string
	SMTPPassword string
	MailFrom     string
	MailTimeout  time.Duration

	MailMaxAttempts int
	MailBackoff     time.Duration

	DispatchWorkers   int
	DispatchQueueSize int

	CronSpecReminders string
	CronSpecJobExpiry string
}

// Load reads configuration from environment variables and a .env file (if
// present). godotenv.Load will not override existing env variables.
func Load() (*AppConfig, error) {
	_ = godotenv.Load()

	cfg := &AppConfig{}

	cfg.Port = os.Getenv("PORT")
	if cfg.Port == "" {
		cfg.Port = "3000"
	}

	cfg.DatabaseURL = os.Getenv("DATABASE_URL")
	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL is not set")
	}

	cfg.JWTSecret = os.Getenv("JWT_SECRET")
	if cfg.JWTSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET is not set")
	}

	cfg.LogLevel = strings.ToLower(os.Getenv("LOG_LEVEL"))
	if cfg.LogLevel == "" {
		cfg.LogLevel = "info"
	}

	cfg.Environment = strings.ToLower(os.Getenv("ENVIRONMENT"))
	if cfg.Environment == "" {
		cfg.Environment = "development"
	}

	cfg.SMTPHost = os.Getenv("SMTP_HOST")
	cfg.SMTPPort = intEnv("SMTP_PORT", 587)
	cfg.SMTPUsername = os.Getenv("SMTP_USERNAME")
	cfg.SMTPPassword = os.Getenv("SMTP_PASSWORD")

	cfg.MailFrom = os.Getenv("MAIL_FROM")
	if cfg.MailFrom == "" {
		cfg.MailFrom = "no-reply@hireloop.dev"
	}

	cfg.MailTimeout = durationEnv("MAIL_TIMEOUT", 15*time.Second)
	cfg.MailMaxAttempts = intEnv("MAIL_MAX_ATTEMPTS", 3)
	cfg.MailBackoff = durationEnv("MAIL_BACKOFF", 2*time.Second)

	cfg.DispatchWorkers = intEnv("DISPATCH_WORKERS", 4)
	cfg.DispatchQueueSize = intEnv("DISPATCH_QUEUE_SIZE", 256)

	cfg.CronSpecReminders = os.Getenv("CRON_SPEC_REMINDERS")
	if cfg.CronSpecReminders == "" {
		cfg.CronSpecReminders = "*/5 * * * *" // every 5 minutes
	}

	cfg.CronSpecJobExpiry = os.Getenv("CRON_SPEC_JOB_EXPIRY")
	if cfg.CronSpecJobExpiry == "" {
		cfg.CronSpecJobExpiry = "0 8 * * *" // 8:00 AM daily
	}

	return cfg, nil
}

func intEnv(key string, fallback int) int {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return value
}

func durationEnv(key string, fallback time.Duration) time.Duration {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback
	}
	value, err := time.ParseDuration(raw)
	if err != nil {
		return fallback
	}
	return value
}
