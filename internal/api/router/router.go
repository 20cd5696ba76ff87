// Package router provides HTTP routing configuration using Chi.
package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/remiblancher/qder/internal/api/handler"
	"github.com/remiblancher/qder/internal/api/middleware"
)

// Config holds router configuration.
type Config struct {
	Version string
}

// services reported by /health.
var services = []string{"oid", "tbs", "crl", "repack"}

// New creates a new Chi router with all routes configured.
func New(cfg *Config) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.CORS)
	r.Use(middleware.LimitBody)
	r.Use(middleware.Audit)

	// Health endpoints
	healthHandler := handler.NewHealthHandler(cfg.Version, services)
	r.Get("/health", healthHandler.Health)
	r.Get("/ready", healthHandler.Ready)

	oidHandler := handler.NewOIDHandler()
	tbsHandler := handler.NewTBSHandler()

	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/oid", func(r chi.Router) {
			r.Get("/", oidHandler.Names)
			r.Post("/encode", oidHandler.Encode)
			r.Post("/decode", oidHandler.Decode)
			r.Get("/{name}", oidHandler.Lookup)
		})

		r.Post("/tbs/encode", tbsHandler.Encode)
		r.Post("/crl/encode", tbsHandler.EncodeCRL)
		r.Post("/repack", handler.RepackHandler)
	})

	return r
}
