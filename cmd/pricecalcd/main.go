// SPDX-License-Identifier: MIT

package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/sagarsingh/pricecalc/internal/api"
	"github.com/sagarsingh/pricecalc/internal/batch"
	"github.com/sagarsingh/pricecalc/internal/cache"
	"github.com/sagarsingh/pricecalc/internal/config"
	"github.com/sagarsingh/pricecalc/internal/daemon"
	"github.com/sagarsingh/pricecalc/internal/health"
	xglog "github.com/sagarsingh/pricecalc/internal/log"
	"github.com/sagarsingh/pricecalc/internal/pricing"
	"github.com/sagarsingh/pricecalc/internal/store"
)

var (
	version   = "v1.0.0"
	commit    = "none"
	buildDate = "unknown"
)

func main() {
	showVersion := flag.Bool("version", false, "print version and exit")
	flag.Parse()

	if *showVersion {
		fmt.Printf("%s (commit: %s, built: %s)\n", version, commit, buildDate)
		os.Exit(0)
	}

	// Configure logger with safe defaults until config is loaded
	xglog.Configure(xglog.Config{
		Level:   "info",
		Service: "pricecalc",
		Version: version,
	})

	logger := xglog.WithComponent("daemon")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg := config.Load()
	if err := config.Validate(cfg); err != nil {
		logger.Fatal().
			Err(err).
			Str("event", "config.invalid").
			Msg("invalid configuration")
	}

	// Apply the configured log level now that config is loaded
	xglog.SetLevel(cfg.LogLevel)

	logger.Info().
		Str("event", "startup").
		Str("version", version).
		Str("commit", commit).
		Str("build_date", buildDate).
		Str("addr", cfg.ListenAddr).
		Str(xglog.FieldDataDir, cfg.DataDir).
		Msg("starting pricecalc")

	if err := os.MkdirAll(cfg.DataDir, 0o750); err != nil {
		logger.Fatal().
			Err(err).
			Str("event", "startup.data_dir_failed").
			Str(xglog.FieldDataDir, cfg.DataDir).
			Msg("failed to create data directory")
	}

	// Calculation history (SQLite)
	db, err := store.Open(cfg.DBPath, store.DefaultConfig())
	if err != nil {
		logger.Fatal().
			Err(err).
			Str("event", "store.open_failed").
			Str(xglog.FieldPath, cfg.DBPath).
			Msg("failed to open history database")
	}
	st := store.New(db)
	if err := st.InitSchema(ctx); err != nil {
		logger.Fatal().
			Err(err).
			Str("event", "store.schema_failed").
			Msg("failed to initialize history schema")
	}

	// Result cache: Redis when configured, in-memory otherwise
	var (
		resultCache cache.Cache
		redisCache  *cache.RedisCache
	)
	if cfg.RedisAddr != "" {
		redisCache, err = cache.NewRedisCache(cache.RedisConfig{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		}, xglog.WithComponent("cache"))
		if err != nil {
			logger.Fatal().
				Err(err).
				Str("event", "cache.redis_failed").
				Str("addr", cfg.RedisAddr).
				Msg("failed to connect to Redis")
		}
		resultCache = redisCache
	} else {
		resultCache = cache.NewMemoryCache(cfg.CacheTTL)
	}

	// Density table with hot reload
	densities := config.NewDensityHolder(cfg.DensityPath)
	if err := densities.Watch(ctx); err != nil {
		logger.Fatal().
			Err(err).
			Str("event", "density.watch_failed").
			Str(xglog.FieldPath, cfg.DensityPath).
			Msg("failed to load density table")
	}

	calc := pricing.New(densities.Density)
	processor := batch.NewProcessor(calc, cfg.BatchWorkers)

	hm := health.NewManager(version)
	hm.RegisterChecker(health.NewPingChecker("sqlite", 2*time.Second, st.Ping))
	if redisCache != nil {
		hm.RegisterChecker(health.NewPingChecker("redis", 2*time.Second, redisCache.HealthCheck))
	}

	s := api.New(cfg, api.Deps{
		Calc:      calc,
		Processor: processor,
		Store:     st,
		Cache:     resultCache,
		Health:    hm,
		Version:   version,
	})

	metricsAddr := ""
	if cfg.MetricsEnabled {
		metricsAddr = strings.TrimSpace(cfg.MetricsAddr)
		if metricsAddr == "" {
			metricsAddr = ":9090"
		}
	}

	deps := daemon.Deps{
		ListenAddr:  cfg.ListenAddr,
		APIHandler:  s.Handler(),
		MetricsAddr: metricsAddr,
		Logger:      logger,
	}
	if metricsAddr != "" {
		deps.MetricsHandler = promhttp.Handler()
	}

	mgr, err := daemon.NewManager(config.ParseServerConfig(), deps)
	if err != nil {
		logger.Fatal().
			Err(err).
			Str("event", "manager.creation.failed").
			Msg("failed to create daemon manager")
	}

	mgr.RegisterShutdownHook("density-watcher", func(context.Context) error {
		return densities.Close()
	})
	if redisCache != nil {
		mgr.RegisterShutdownHook("redis", func(context.Context) error {
			return redisCache.Close()
		})
	}
	mgr.RegisterShutdownHook("store", func(context.Context) error {
		return st.Close()
	})

	if err := mgr.Start(ctx); err != nil {
		logger.Fatal().
			Err(err).
			Str("event", "manager.failed").
			Msg("daemon failed")
	}

	logger.Info().Msg("server exiting")
}
