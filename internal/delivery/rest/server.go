// Path: internal/delivery/rest/server.go
package rest

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/rs/zerolog"
	"golang.org/x/time/rate"

	"arena-scout/internal/config"
	"arena-scout/internal/events"
)

// Server is the HTTP server for the dashboard's data API.
type Server struct {
	httpServer *http.Server
}

// NewServer creates and configures the API server.
func NewServer(cfg config.ServerConfig, service dataService, broker *events.Broker, arenaBase string, logger zerolog.Logger) *Server {
	handlers := NewHandlers(service, broker, arenaBase, logger)
	limiter := rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), cfg.BurstLimit)

	r := chi.NewRouter()
	r.Use(recoverer(logger))
	r.Use(requestLogger(logger))
	r.Use(securityHeaders)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: cfg.AllowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		MaxAge:         300,
	}))

	r.Route("/api", func(r chi.Router) {
		r.With(rateLimit(limiter)).Get("/projects", handlers.GetProjects)
		r.Get("/projects/search", handlers.SearchProjects)
		r.Get("/export", handlers.Export)
		r.Get("/events", handlers.Events)
	})
	r.Get("/health", handlers.Health)

	return &Server{
		httpServer: &http.Server{
			Addr:        ":" + cfg.Port,
			Handler:     r,
			ReadTimeout: 5 * time.Second,
			// No WriteTimeout: /api/events holds its connection open.
			IdleTimeout: 60 * time.Second,
		},
	}
}

// Start runs the HTTP server.
func (s *Server) Start() error {
	return s.httpServer.ListenAndServe()
}

// Stop gracefully shuts down the server.
func (s *Server) Stop(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}
