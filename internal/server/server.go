package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/adarshtiwaridev/Sehat-Bandhus-sub002/internal/auth"
	"github.com/adarshtiwaridev/Sehat-Bandhus-sub002/internal/booking"
	"github.com/adarshtiwaridev/Sehat-Bandhus-sub002/internal/payment"
	"github.com/adarshtiwaridev/Sehat-Bandhus-sub002/pkg/config"
	"github.com/adarshtiwaridev/Sehat-Bandhus-sub002/pkg/database"
	"github.com/adarshtiwaridev/Sehat-Bandhus-sub002/pkg/logger"
	"github.com/adarshtiwaridev/Sehat-Bandhus-sub002/pkg/monitoring"
)

// Services groups the domain services mounted on the HTTP server.
type Services struct {
	Booking *booking.Service
	Auth    *auth.Service
	Payment *payment.Service
}

// Server assembles the HTTP surface: routes, middleware, health and metrics.
type Server struct {
	config      *config.Config
	logger      *logger.Logger
	tokens      *auth.TokenManager
	rateLimiter *RateLimiter
	metrics     *monitoring.MetricsCollector
	health      *monitoring.HealthManager
	httpServer  *http.Server
	router      *mux.Router
}

// New creates a fully wired server.
func New(cfg *config.Config, log *logger.Logger, db *database.DB, services *Services, metrics *monitoring.MetricsCollector) *Server {
	s := &Server{
		config:  cfg,
		logger:  log,
		tokens:  services.Auth.Tokens(),
		metrics: metrics,
	}

	if cfg.RateLimit.Enabled {
		s.rateLimiter = NewRateLimiter(cfg.RateLimit.RequestsPerMin, time.Minute)
	}

	s.health = monitoring.NewHealthManager("sehatbandhu", "1.0.0")
	if db != nil {
		s.health.RegisterChecker("database", monitoring.NewDatabaseHealthChecker(db.DB))
	}

	s.router = s.buildRouter(services)
	s.httpServer = &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:      s.router,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
		IdleTimeout:  time.Duration(cfg.Server.IdleTimeout) * time.Second,
	}

	return s
}

// Handler exposes the assembled router, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) buildRouter(services *Services) *mux.Router {
	router := mux.NewRouter()

	router.Use(s.corsMiddleware)
	router.Use(s.securityHeadersMiddleware)
	router.Use(s.loggingMiddleware)
	if s.metrics != nil {
		router.Use(s.metrics.HTTPMiddleware)
	}
	router.Use(s.rateLimitMiddleware)

	router.HandleFunc("/health", s.health.HTTPHandler()).Methods("GET")
	if s.metrics != nil {
		router.Handle("/metrics", s.metrics.Handler()).Methods("GET")
	}

	api := router.PathPrefix("/api/v1").Subrouter()

	services.Booking.RegisterRoutes(api)
	services.Auth.RegisterRoutes(api, s.authMiddleware)
	services.Payment.RegisterRoutes(api)

	return router
}

// Start begins serving. It blocks until the listener fails or Stop is
// called.
func (s *Server) Start() error {
	s.logger.WithField("addr", s.httpServer.Addr).Info("HTTP server starting")

	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("server failed: %w", err)
	}
	return nil
}

// Stop drains in-flight requests and shuts the listener down.
func (s *Server) Stop(ctx context.Context) error {
	s.logger.Info("HTTP server shutting down")
	return s.httpServer.Shutdown(ctx)
}
