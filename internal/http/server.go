// Package http provides the HTTP server and route registration.
package http

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/pensionseva/eisgateway/internal/config"
	"github.com/pensionseva/eisgateway/internal/metrics"
	verificationHTTP "github.com/pensionseva/eisgateway/internal/verification/http"
)

// Server represents the main API HTTP server.
type Server struct {
	server *http.Server
	logger *slog.Logger
}

// NewServer creates the API server with all routes registered.
func NewServer(
	cfg *config.Config,
	handler *verificationHTTP.VerificationHandler,
	metricsProvider *metrics.Provider,
	logger *slog.Logger,
) *Server {
	router := NewRouter(cfg, handler, metricsProvider, logger)

	return &Server{
		server: &http.Server{
			Addr:         fmt.Sprintf("%s:%d", cfg.ServerHost, cfg.ServerPort),
			Handler:      router,
			ReadTimeout:  15 * time.Second,
			WriteTimeout: 60 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
		logger: logger,
	}
}

// NewRouter builds the gin engine with middleware and routes. Exposed
// separately so tests can drive the full route table without a listener.
func NewRouter(
	cfg *config.Config,
	handler *verificationHTTP.VerificationHandler,
	metricsProvider *metrics.Provider,
	logger *slog.Logger,
) *gin.Engine {
	gin.SetMode(cfg.GetGinMode())

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(requestid.New(requestid.WithGenerator(func() string {
		return uuid.Must(uuid.NewV7()).String()
	})))
	router.Use(CustomLoggerMiddleware(logger))

	if corsMiddleware := createCORSMiddleware(cfg.CORSEnabled, cfg.CORSAllowOrigins, logger); corsMiddleware != nil {
		router.Use(corsMiddleware)
	}

	if cfg.MetricsEnabled && metricsProvider != nil {
		router.Use(metrics.HTTPMetricsMiddleware(metricsProvider.MeterProvider(), cfg.MetricsNamespace))
	}

	if cfg.RateLimitEnabled {
		router.Use(verificationHTTP.RateLimitMiddleware(cfg.RateLimitRequestsPerSec, cfg.RateLimitBurst, logger))
	}

	router.GET("/health", healthHandler)
	router.GET("/ready", readyHandler)

	v1 := router.Group("/v1")

	// The callback route is counterparty-facing and cannot carry our API key;
	// it authenticates implicitly by knowing a live reference number.
	v1.POST("/verifications/callback/:reference", handler.Callback)

	authenticated := v1.Group("")
	if cfg.APIKeyHash != "" {
		authenticated.Use(verificationHTTP.APIKeyMiddleware(cfg.APIKeyHash, logger))
	} else {
		logger.Warn("API_KEY_HASH not configured, authenticated routes are open")
	}
	authenticated.POST("/verifications", handler.Verify)
	authenticated.GET("/exchanges", handler.ListExchanges)
	authenticated.GET("/exchanges/:reference", handler.GetExchange)

	return router
}

// Start starts the HTTP server.
func (s *Server) Start(ctx context.Context) error {
	s.logger.Info("starting http server", slog.String("addr", s.server.Addr))

	if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("failed to start server: %w", err)
	}

	return nil
}

// Shutdown gracefully shuts down the HTTP server.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("shutting down http server")
	return s.server.Shutdown(ctx)
}

// healthHandler reports process liveness.
func healthHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "healthy"})
}

// readyHandler reports readiness to serve traffic.
func readyHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ready"})
}
