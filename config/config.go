package config

import (
	"fmt"
	"os"
	"strings"
	"time"
)

const (
	DefaultPort            = "8080"
	DefaultShutdownTimeout = 10 * time.Second
)

type Config struct {
	Port            string
	DatabaseURL     string
	RateTableFile   string
	ShutdownTimeout time.Duration
}

// FromEnv reads PORT, DATABASE_URL, RATE_TABLE_FILE and SHUTDOWN_TIMEOUT.
func FromEnv() (Config, error) {
	return fromLookup(os.Getenv)
}

func fromLookup(getenv func(string) string) (Config, error) {
	cfg := Config{
		Port:            strings.TrimSpace(getenv("PORT")),
		DatabaseURL:     strings.TrimSpace(getenv("DATABASE_URL")),
		RateTableFile:   strings.TrimSpace(getenv("RATE_TABLE_FILE")),
		ShutdownTimeout: DefaultShutdownTimeout,
	}

	if cfg.Port == "" {
		cfg.Port = DefaultPort
	}

	if raw := strings.TrimSpace(getenv("SHUTDOWN_TIMEOUT")); raw != "" {
		timeout, err := time.ParseDuration(raw)
		if err != nil {
			return Config{}, fmt.Errorf("invalid SHUTDOWN_TIMEOUT %q: %w", raw, err)
		}
		cfg.ShutdownTimeout = timeout
	}

	return cfg, nil
}

func (c Config) Address() string {
	return ":" + c.Port
}
