// SPDX-License-Identifier: MIT

package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg := Load()

	assert.Equal(t, ":8080", cfg.ListenAddr)
	assert.Equal(t, []string{"*"}, cfg.AllowedOrigins)
	assert.Equal(t, int64(16<<20), cfg.MaxUploadBytes)
	assert.Equal(t, 1000, cfg.MaxBatchRows)
	assert.Equal(t, 4, cfg.BatchWorkers)
	assert.Equal(t, 5*time.Minute, cfg.CacheTTL)
	assert.True(t, cfg.RateLimitEnabled)
	require.NoError(t, Validate(cfg))
}

func TestLoad_PlatformPortWins(t *testing.T) {
	t.Setenv("PRICECALC_LISTEN", ":3000")
	t.Setenv("PORT", "10000")

	cfg := Load()
	assert.Equal(t, ":10000", cfg.ListenAddr)
}

func TestLoad_ListenFallback(t *testing.T) {
	t.Setenv("PRICECALC_LISTEN", ":3000")

	cfg := Load()
	assert.Equal(t, ":3000", cfg.ListenAddr)
}

func TestValidate_Errors(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*AppConfig)
	}{
		{name: "empty listen addr", mutate: func(c *AppConfig) { c.ListenAddr = " " }},
		{name: "zero upload bytes", mutate: func(c *AppConfig) { c.MaxUploadBytes = 0 }},
		{name: "zero batch rows", mutate: func(c *AppConfig) { c.MaxBatchRows = 0 }},
		{name: "zero workers", mutate: func(c *AppConfig) { c.BatchWorkers = 0 }},
		{name: "rate limit enabled with zero rpm", mutate: func(c *AppConfig) { c.RateLimitRPM = 0 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Load()
			tt.mutate(&cfg)
			assert.Error(t, Validate(cfg))
		})
	}
}

func TestParseEnvHelpers(t *testing.T) {
	t.Setenv("TEST_STR", "hello")
	t.Setenv("TEST_INT", "42")
	t.Setenv("TEST_INT_BAD", "not-a-number")
	t.Setenv("TEST_BOOL", "yes")
	t.Setenv("TEST_DUR", "90s")
	t.Setenv("TEST_SLICE", "a, b ,c")

	assert.Equal(t, "hello", ParseString("TEST_STR", "x"))
	assert.Equal(t, "fallback", ParseString("TEST_MISSING", "fallback"))
	assert.Equal(t, 42, ParseInt("TEST_INT", 0))
	assert.Equal(t, 7, ParseInt("TEST_INT_BAD", 7))
	assert.True(t, ParseBool("TEST_BOOL", false))
	assert.Equal(t, 90*time.Second, ParseDuration("TEST_DUR", time.Second))
	assert.Equal(t, []string{"a", "b", "c"}, ParseStringSlice("TEST_SLICE", nil))
}
