// SPDX-License-Identifier: MIT

// Package middleware provides the canonical HTTP middleware stack for the
// pricing calculator API: panic recovery, request correlation, CORS,
// security headers, Prometheus metrics, request logging and rate limiting.
package middleware

import (
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/sagarsingh/pricecalc/internal/log"
)

// StackConfig controls which middlewares are applied and how.
type StackConfig struct {
	AllowedOrigins   []string
	CSP              string
	TrustedProxies   string
	EnableMetrics    bool
	EnableLogging    bool
	RateLimitEnabled bool
	RateLimitRPM     int
}

// DefaultStackConfig returns a sensible default configuration.
func DefaultStackConfig() StackConfig {
	return StackConfig{
		AllowedOrigins:   []string{"*"},
		CSP:              DefaultCSP,
		EnableMetrics:    true,
		EnableLogging:    true,
		RateLimitEnabled: true,
		RateLimitRPM:     120,
	}
}

// ApplyStack attaches the middleware stack to the router in the canonical
// order. Recovery runs first so it wraps everything downstream; rate
// limiting runs last so rejected requests are still logged and measured.
func ApplyStack(r chi.Router, cfg StackConfig) {
	r.Use(Recoverer)
	r.Use(RequestID)
	r.Use(CORS(cfg.AllowedOrigins))
	r.Use(SecurityHeaders(cfg.CSP))

	if cfg.EnableMetrics {
		r.Use(Metrics())
	}
	if cfg.EnableLogging {
		r.Use(log.Middleware())
	}

	if cfg.RateLimitEnabled && cfg.RateLimitRPM > 0 {
		resolver := NewIPResolver(cfg.TrustedProxies)
		r.Use(RateLimit(RateLimitConfig{
			RequestLimit: cfg.RateLimitRPM,
			WindowSize:   time.Minute,
			KeyFunc:      resolver.Key,
		}))
	}
}

// NewRouter builds a chi router with the full stack applied.
func NewRouter(cfg StackConfig) chi.Router {
	r := chi.NewRouter()
	ApplyStack(r, cfg)
	return r
}
