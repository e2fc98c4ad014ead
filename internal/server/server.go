package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"storefront/internal/config"
	custommiddleware "storefront/internal/middleware"
	"storefront/internal/service"
	"storefront/internal/transport"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

const requestTimeout = 15 * time.Second

type Server struct {
	*http.Server
	config  *config.Config
	logger  *zap.Logger
	backend *Backend
}

// HealthResponse is the body of GET /health
type HealthResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks,omitempty"`
}

func NewServer(cfg *config.Config, logger *zap.Logger, storefront *service.Storefront, backend *Backend) *Server {
	router := chi.NewRouter()

	for _, mw := range custommiddleware.DefaultMiddlewareStack(requestTimeout) {
		router.Use(mw)
	}
	router.Use(custommiddleware.LoggingMiddleware(logger))
	router.Use(custommiddleware.ErrorHandlingMiddleware(logger))
	router.Use(custommiddleware.CORSMiddleware(cfg.Server.CORSOrigins, !cfg.IsProduction()))

	if cfg.RateLimit.Enabled && backend != nil && backend.Redis != nil {
		router.Use(custommiddleware.RateLimitMiddleware(backend.Redis, custommiddleware.RateLimitConfig{
			RequestsPerWindow: cfg.RateLimit.RequestsPerWindow,
			Window:            cfg.RateLimit.Window,
			KeyPrefix:         "storefront:ratelimit",
		}, logger))
	}

	router.NotFound(custommiddleware.NotFoundHandler)
	router.MethodNotAllowed(custommiddleware.MethodNotAllowedHandler)

	s := &Server{
		Server: &http.Server{
			Addr:         fmt.Sprintf(":%s", cfg.Server.Port),
			Handler:      router,
			IdleTimeout:  time.Minute,
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 30 * time.Second,
		},
		config:  cfg,
		logger:  logger,
		backend: backend,
	}

	router.Get("/health", s.health)

	transport.NewCatalogHandler(storefront, logger).RegisterRoutes(router)
	transport.NewCartHandler(storefront, logger).RegisterRoutes(router)
	transport.NewOrderHandler(storefront, logger).RegisterRoutes(router)

	return s
}

func (s *Server) health(w http.ResponseWriter, r *http.Request) {
	resp := HealthResponse{Status: "ok"}
	status := http.StatusOK

	if s.backend != nil {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		for name, err := range s.backend.Health(ctx) {
			if resp.Checks == nil {
				resp.Checks = make(map[string]string)
			}
			if err != nil {
				resp.Checks[name] = err.Error()
				resp.Status = "degraded"
				status = http.StatusServiceUnavailable
				continue
			}
			resp.Checks[name] = "up"
		}
	}

	custommiddleware.RespondWithJSON(w, status, resp)
}

// Close releases the backend. Call after Shutdown.
func (s *Server) Close() error {
	s.logger.Info("Closing server resources")

	if s.backend != nil {
		if err := s.backend.Close(); err != nil {
			s.logger.Error("Failed to close backend", zap.Error(err))
			return err
		}
	}
	return nil
}
