// Package api serves the paper account over HTTP.
package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"

	"github.com/rustyeddy/papertrade/config"
	"github.com/rustyeddy/papertrade/sim"
)

// NewRouter builds the HTTP API router.
func NewRouter(engine *sim.Engine, cfg config.ServerConfig, logger *zap.Logger) http.Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	origins := cfg.AllowedOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(requestLogging(logger))
	r.Use(recoverer(logger))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{"GET", "POST", "PUT", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
	}))

	h := &handler{engine: engine}

	r.Get("/api/health", h.health)

	// Account
	r.Get("/api/portfolio", h.getPortfolio)
	r.Get("/api/dashboard", h.getDashboard)
	r.Get("/api/alerts", h.getAlerts)
	r.Get("/api/size", h.getSize)

	// Positions and prices
	r.Post("/api/positions", h.holdPosition)
	r.Put("/api/positions/{code}/price", h.setPrice)
	r.Post("/api/quotes", h.setQuotes)

	// Trades
	r.Get("/api/trades", h.getTrades)
	r.Post("/api/trades", h.recordTrade)
	r.Get("/api/trades/{id}", h.getTrade)

	// Snapshots and analytics
	r.Get("/api/snapshots", h.getSnapshots)
	r.Post("/api/snapshots", h.takeSnapshot)
	r.Get("/api/report", h.getReport)
	r.Get("/api/accuracy", h.getAccuracy)

	return r
}

type handler struct {
	engine *sim.Engine
}
