// SPDX-License-Identifier: MIT

// Package config loads service configuration from environment variables and
// manages the ingredient density table.
package config

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"
)

// AppConfig holds the full service configuration.
type AppConfig struct {
	// HTTP
	ListenAddr     string
	AllowedOrigins []string
	TrustedProxies string

	// Metrics
	MetricsEnabled bool
	MetricsAddr    string

	// Rate limiting
	RateLimitEnabled bool
	RateLimitRPM     int

	// Storage
	DataDir string
	DBPath  string

	// Batch processing
	MaxUploadBytes int64
	MaxBatchRows   int
	BatchWorkers   int

	// Cache
	RedisAddr     string
	RedisPassword string
	RedisDB       int
	CacheTTL      time.Duration

	// Density table (optional YAML file)
	DensityPath string

	// Logging
	LogLevel string
}

// ServerConfig holds HTTP server operational parameters.
type ServerConfig struct {
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	IdleTimeout     time.Duration
	ShutdownTimeout time.Duration
}

// Load builds AppConfig from the environment.
// The listen port honours the platform convention: PORT (Render/Railway/Koyeb
// inject it) takes precedence over PRICECALC_LISTEN.
func Load() AppConfig {
	dataDir := ParseString("PRICECALC_DATA", "./data")

	listen := ParseString("PRICECALC_LISTEN", ":8080")
	if port := strings.TrimSpace(ParseString("PORT", "")); port != "" {
		listen = ":" + port
	}

	cfg := AppConfig{
		ListenAddr:     listen,
		AllowedOrigins: ParseStringSlice("PRICECALC_ALLOWED_ORIGINS", []string{"*"}),
		TrustedProxies: ParseString("PRICECALC_TRUSTED_PROXIES", ""),

		MetricsEnabled: ParseBool("PRICECALC_METRICS_ENABLED", true),
		MetricsAddr:    ParseString("PRICECALC_METRICS_ADDR", ":9090"),

		RateLimitEnabled: ParseBool("PRICECALC_RATELIMIT_ENABLED", true),
		RateLimitRPM:     ParseInt("PRICECALC_RATELIMIT_RPM", 600),

		DataDir: dataDir,
		DBPath:  ParseString("PRICECALC_DB", filepath.Join(dataDir, "pricecalc.db")),

		MaxUploadBytes: ParseInt64("PRICECALC_MAX_UPLOAD_BYTES", 16<<20),
		MaxBatchRows:   ParseInt("PRICECALC_MAX_BATCH_ROWS", 1000),
		BatchWorkers:   ParseInt("PRICECALC_BATCH_WORKERS", 4),

		RedisAddr:     ParseString("PRICECALC_REDIS_ADDR", ""),
		RedisPassword: ParseString("PRICECALC_REDIS_PASSWORD", ""),
		RedisDB:       ParseInt("PRICECALC_REDIS_DB", 0),
		CacheTTL:      ParseDuration("PRICECALC_CACHE_TTL", 5*time.Minute),

		DensityPath: ParseString("PRICECALC_DENSITY_FILE", ""),

		LogLevel: ParseString("PRICECALC_LOG_LEVEL", "info"),
	}
	return cfg
}

// ParseServerConfig reads HTTP server timeouts from the environment.
func ParseServerConfig() ServerConfig {
	return ServerConfig{
		ReadTimeout:     ParseDuration("PRICECALC_READ_TIMEOUT", 60*time.Second),
		WriteTimeout:    ParseDuration("PRICECALC_WRITE_TIMEOUT", 60*time.Second),
		IdleTimeout:     ParseDuration("PRICECALC_IDLE_TIMEOUT", 120*time.Second),
		ShutdownTimeout: ParseDuration("PRICECALC_SHUTDOWN_TIMEOUT", 10*time.Second),
	}
}

// Validate checks the configuration for values the service cannot run with.
func Validate(cfg AppConfig) error {
	if strings.TrimSpace(cfg.ListenAddr) == "" {
		return fmt.Errorf("listen address must not be empty")
	}
	if cfg.MaxUploadBytes <= 0 {
		return fmt.Errorf("max upload bytes must be positive, got %d", cfg.MaxUploadBytes)
	}
	if cfg.MaxBatchRows <= 0 {
		return fmt.Errorf("max batch rows must be positive, got %d", cfg.MaxBatchRows)
	}
	if cfg.BatchWorkers <= 0 {
		return fmt.Errorf("batch workers must be positive, got %d", cfg.BatchWorkers)
	}
	if cfg.RateLimitEnabled && cfg.RateLimitRPM <= 0 {
		return fmt.Errorf("rate limit rpm must be positive, got %d", cfg.RateLimitRPM)
	}
	return nil
}
