package api

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/PierrardFacundo/GestionFinanzasapp/internal/api/handler"
	"github.com/PierrardFacundo/GestionFinanzasapp/internal/api/service"
	"github.com/PierrardFacundo/GestionFinanzasapp/internal/config"
)

// Pinger reports whether the backing store is reachable
type Pinger interface {
	Ping(ctx context.Context) error
}

// Server handles HTTP requests and manages the application's lifecycle
type Server struct {
	logger          *slog.Logger  // For structured logging
	httpServer      *http.Server  // Underlying HTTP server
	httpRouter      *gin.Engine   // Gin router instance
	shutdownTimeout time.Duration // Grace period for in-flight requests
}

// NewServer creates and configures a new HTTP server with the given services
func NewServer(
	log *slog.Logger,
	cfg *config.Config,
	store Pinger,
	movementService service.MovementService,
	statsService service.StatsService,
) (*Server, error) {
	if cfg.Application.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	if err := handler.RegisterValidators(); err != nil {
		return nil, fmt.Errorf("failed to register request validators: %w", err)
	}

	httpRouter := gin.New()

	movementHandler := handler.NewMovementHandler(log, movementService)
	statsHandler := handler.NewStatsHandler(log, statsService)

	if err := setupRouter(log, cfg, httpRouter, store, movementHandler, statsHandler); err != nil {
		return nil, err
	}

	httpServer := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      httpRouter,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	return &Server{
		logger:          log,
		httpServer:      httpServer,
		httpRouter:      httpRouter,
		shutdownTimeout: cfg.Server.ShutdownTimeout,
	}, nil
}

// Handler exposes the router, mainly for in-process tests
func (s *Server) Handler() http.Handler {
	return s.httpRouter
}

// Start begins listening for HTTP requests
func (s *Server) Start() error {
	s.logger.Info("starting HTTP server", "addr", s.httpServer.Addr)
	if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("failed to start HTTP server: %w", err)
	}
	return nil
}

// Stop drains in-flight requests, giving up after the configured shutdown timeout
func (s *Server) Stop(ctx context.Context) error {
	s.logger.Info("stopping HTTP server")

	shutdownCtx, cancel := context.WithTimeout(ctx, s.shutdownTimeout)
	defer cancel()

	if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("failed to stop HTTP server: %w", err)
	}
	return nil
}
