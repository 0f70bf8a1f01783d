package main

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type config struct {
	Port                 int
	ShutdownTimeout      time.Duration
	RateLimitRPS         float64
	RateLimitBurst       int
	NotificationsEnabled bool
	NotificationsBaseURL string
	NotificationsTimeout time.Duration
	LogLevel             slog.Level
}

/* Loads an optional .env file, then reads the configuration from the environment. */
func loadConfig(envFile string) (config, error) {
	if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return config{}, fmt.Errorf("loading %s: %w", envFile, err)
	}

	var (
		cfg config
		err error
	)
	if cfg.Port, err = getEnvInt("APP_PORT", 8080); err != nil {
		return config{}, err
	}
	if cfg.ShutdownTimeout, err = getEnvDuration("SHUTDOWN_TIMEOUT", 10*time.Second); err != nil {
		return config{}, err
	}
	if cfg.RateLimitRPS, err = getEnvFloat("RATE_LIMIT_RPS", 10); err != nil {
		return config{}, err
	}
	if cfg.RateLimitBurst, err = getEnvInt("RATE_LIMIT_BURST", 20); err != nil {
		return config{}, err
	}
	if cfg.NotificationsEnabled, err = getEnvBool("NOTIFICATIONS_ENABLED", false); err != nil {
		return config{}, err
	}
	cfg.NotificationsBaseURL = getEnv("NOTIFICATIONS_BASE_URL", "https://ntfy.sh/bookshelf")
	if cfg.NotificationsTimeout, err = getEnvDuration("NOTIFICATIONS_TIMEOUT", 2*time.Second); err != nil {
		return config{}, err
	}
	if err = cfg.LogLevel.UnmarshalText([]byte(getEnv("LOG_LEVEL", "info"))); err != nil {
		return config{}, fmt.Errorf("parsing LOG_LEVEL: %w", err)
	}

	if cfg.Port <= 0 || cfg.Port > 65535 {
		return config{}, fmt.Errorf("APP_PORT out of range: %d", cfg.Port)
	}
	return cfg, nil
}

func getEnv(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && strings.TrimSpace(v) != "" {
		return strings.TrimSpace(v)
	}
	return fallback
}

func getEnvInt(key string, fallback int) (int, error) {
	v := getEnv(key, "")
	if v == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("parsing %s: %w", key, err)
	}
	return n, nil
}

func getEnvFloat(key string, fallback float64) (float64, error) {
	v := getEnv(key, "")
	if v == "" {
		return fallback, nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0, fmt.Errorf("parsing %s: %w", key, err)
	}
	return f, nil
}

func getEnvBool(key string, fallback bool) (bool, error) {
	v := getEnv(key, "")
	if v == "" {
		return fallback, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return false, fmt.Errorf("parsing %s: %w", key, err)
	}
	return b, nil
}

func getEnvDuration(key string, fallback time.Duration) (time.Duration, error) {
	v := getEnv(key, "")
	if v == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("parsing %s: %w", key, err)
	}
	return d, nil
}
