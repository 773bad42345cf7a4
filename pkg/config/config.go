package config

import (
	"log/slog"
	"os"
	"strconv"

	// Load environment variables from .env files when present.
	_ "github.com/joho/godotenv"
)

// Config holds all application configuration
type Config struct {
	Report ReportConfig
	Export ExportConfig
	Log    LogConfig
}

type ReportConfig struct {
	// AliasFile points at an optional YAML file with extra header aliases,
	// merged over the built-in table.
	AliasFile string
	// AutoRange applies the default 30-day window after every load.
	AutoRange bool
}

type ExportConfig struct {
	Dir string
}

type LogConfig struct {
	Level   string
	Verbose bool
}

// Load reads configuration from environment variables
func Load() (*Config, error) {
	cfg := &Config{
		Report: ReportConfig{
			AliasFile: getEnv("KYC_ALIAS_FILE", ""),
			AutoRange: getEnvAsBool("KYC_AUTO_RANGE", false),
		},
		Export: ExportConfig{
			Dir: getEnv("KYC_EXPORT_DIR", "."),
		},
		Log: LogConfig{
			Level:   getEnv("LOG_LEVEL", "info"),
			Verbose: getEnvAsBool("KYC_VERBOSE", false),
		},
	}
	return cfg, nil
}

// SlogLevel maps the configured level name onto slog's levels, defaulting
// to info for anything unrecognized.
func (c *LogConfig) SlogLevel() slog.Level {
	switch c.Level {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := os.Getenv(key)
	if value, err := strconv.ParseBool(valueStr); err == nil {
		return value
	}
	return defaultValue
}
