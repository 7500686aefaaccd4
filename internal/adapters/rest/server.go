package rest

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"search-service/internal/contextkeys"
	"search-service/internal/core/domain"
	core_port "search-service/internal/core/port"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

const apiPrefix = "/api/v1"

type ServerConfig struct {
	Port               string
	CORSAllowedOrigins []string
	// TrustedProxies lists the CIDRs or addresses whose forwarding headers
	// are believed. Empty means the socket address is always the client.
	TrustedProxies []string
}

// Handlers groups every handler the router mounts.
type Handlers struct {
	Search  *SearchHandler
	Routing *RoutingHandler
	Preview *PreviewHandler
	Health  *HealthHandler
}

// Server is the REST API server.
type Server struct {
	httpServer *http.Server
	logger     core_port.LoggerPort
}

// NewServer wires the router. limiter may be nil to disable rate limiting.
func NewServer(cfg ServerConfig, h Handlers, auth *AuthMiddleware, limiter *RateLimiter, baseLogger core_port.LoggerPort) *Server {
	return &Server{
		httpServer: &http.Server{
			Addr:              ":" + cfg.Port,
			Handler:           NewRouter(cfg, h, auth, limiter, baseLogger),
			ReadHeaderTimeout: 10 * time.Second,
		},
		logger: baseLogger.WithFields(core_port.Fields{"component": "rest_server"}),
	}
}

// NewRouter builds the chi router on its own so tests can drive it with httptest.
func NewRouter(cfg ServerConfig, h Handlers, auth *AuthMiddleware, limiter *RateLimiter, baseLogger core_port.LoggerPort) http.Handler {
	r := chi.NewRouter()

	r.Use(TrustedRealIP(ParseTrustedProxies(cfg.TrustedProxies, baseLogger)), LoggerMiddleware(baseLogger), middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.CORSAllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", contextkeys.TraceHeader},
		ExposedHeaders:   []string{contextkeys.TraceHeader},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.Route(apiPrefix, func(r chi.Router) {
		// --- public ---
		r.Get("/health", h.Health.Health)
		r.Get("/health/ready", h.Health.Ready)

		r.With(limiter.Limit(geocodeLimit)).Get("/geocode/{query}", h.Routing.Geocode)
		r.Get("/map/tile/{z}/{x}/{y}", h.Routing.Tile)
		r.Get("/map/preview", h.Preview.Preview)

		r.Route("/onm", func(r chi.Router) {
			r.Use(limiter.Limit(onmLimit))
			r.Post("/route", h.Routing.Route)
			r.Post("/nearest", h.Routing.Nearest)
		})

		// --- any authenticated caller ---
		r.Group(func(r chi.Router) {
			r.Use(auth.Authenticate)

			r.With(limiter.Limit(propertyLimit)).Get("/property/{id}", h.Search.GetProperty)
			r.With(limiter.Limit(approvedLimit)).Get("/properties/approved", h.Search.ListApproved)
		})

		// --- tenants ---
		r.Group(func(r chi.Router) {
			r.Use(auth.Authenticate)
			r.Use(auth.RequireRole(domain.RoleTenant))

			r.With(limiter.Limit(searchLimit)).Get("/search", h.Search.Search)
			r.With(limiter.Limit(savedLimit)).Post("/saved-searches", h.Search.SaveSearch)
		})

		// --- admins ---
		r.Group(func(r chi.Router) {
			r.Use(auth.Authenticate)
			r.Use(auth.RequireRole(domain.RoleAdmin))

			r.Post("/cache/clear", h.Search.ClearCache)
		})
	})

	return r
}

// Start runs the HTTP server until Stop is called.
func (s *Server) Start() error {
	s.logger.Info("Starting REST API server", core_port.Fields{"address": s.httpServer.Addr})
	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		s.logger.Error("Could not start server", err, nil)
		return fmt.Errorf("could not start server: %w", err)
	}
	return nil
}

// Stop shuts the server down gracefully.
func (s *Server) Stop(ctx context.Context) error {
	s.logger.Info("Stopping REST API server...", nil)
	return s.httpServer.Shutdown(ctx)
}
