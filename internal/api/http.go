// SPDX-License-Identifier: MIT

// Package api provides the HTTP server for the pricing calculator: single
// calculations, batch uploads, result exports and calculation history.
package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/sagarsingh/pricecalc/internal/api/middleware"
	"github.com/sagarsingh/pricecalc/internal/batch"
	"github.com/sagarsingh/pricecalc/internal/cache"
	"github.com/sagarsingh/pricecalc/internal/config"
	"github.com/sagarsingh/pricecalc/internal/health"
	"github.com/sagarsingh/pricecalc/internal/pricing"
	"github.com/sagarsingh/pricecalc/internal/store"
	"github.com/sagarsingh/pricecalc/internal/web"
)

// Deps are the collaborators the server needs. Store and Cache may be nil;
// the affected features degrade rather than fail.
type Deps struct {
	Calc      *pricing.Calculator
	Processor *batch.Processor
	Store     *store.Store
	Cache     cache.Cache
	Health    *health.Manager
	Version   string
}

// Server represents the HTTP API server for the pricing calculator.
type Server struct {
	cfg       config.AppConfig
	calc      *pricing.Calculator
	processor *batch.Processor
	store     *store.Store
	cache     cache.Cache
	health    *health.Manager
	version   string
	startTime time.Time
}

// New creates a Server from configuration and dependencies.
func New(cfg config.AppConfig, deps Deps) *Server {
	s := &Server{
		cfg:       cfg,
		calc:      deps.Calc,
		processor: deps.Processor,
		store:     deps.Store,
		cache:     deps.Cache,
		health:    deps.Health,
		version:   deps.Version,
		startTime: time.Now(),
	}
	if s.calc == nil {
		s.calc = pricing.New(nil)
	}
	if s.processor == nil {
		s.processor = batch.NewProcessor(s.calc, cfg.BatchWorkers)
	}
	if s.health == nil {
		s.health = health.NewManager(deps.Version)
	}
	return s
}

// Handler builds the HTTP routes with the full middleware stack applied.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()

	middleware.ApplyStack(r, middleware.StackConfig{
		AllowedOrigins:   s.cfg.AllowedOrigins,
		TrustedProxies:   s.cfg.TrustedProxies,
		EnableMetrics:    s.cfg.MetricsEnabled,
		EnableLogging:    true,
		RateLimitEnabled: s.cfg.RateLimitEnabled,
		RateLimitRPM:     s.cfg.RateLimitRPM,
	})

	// Calculator UI. The long path is the historic location the page was
	// published under; keep both working.
	r.Get("/", s.handleIndex)
	r.Get("/sagarsinghpricingcalculator/", s.handleIndex)

	r.Route("/api", func(r chi.Router) {
		r.Post("/calculate", s.handleCalculate)
		r.Post("/upload", s.handleUpload)
		r.Post("/download", s.handleDownload)
		r.Get("/history", s.handleHistory)
		r.Get("/version", s.handleVersion)
	})

	r.Get("/healthz", s.health.ServeHealth)
	r.Get("/readyz", s.health.ServeReady)

	return r
}

// handleIndex serves the embedded single-page calculator UI.
func (s *Server) handleIndex(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write(web.Index())
}
