package api

import (
	"context"
	"log/slog"
	"net/http"
	"slices"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/PierrardFacundo/GestionFinanzasapp/internal/api/handler"
	"github.com/PierrardFacundo/GestionFinanzasapp/internal/api/middleware"
	"github.com/PierrardFacundo/GestionFinanzasapp/internal/config"
)

const readinessTimeout = 2 * time.Second

// setupRouter configures API routes and middleware for the application
func setupRouter(
	logger *slog.Logger,
	cfg *config.Config,
	r *gin.Engine,
	store Pinger,
	movementHandler *handler.MovementHandler,
	statsHandler *handler.StatsHandler,
) error {
	r.Use(middleware.CorrelationID())
	r.Use(middleware.Recovery(logger))
	r.Use(middleware.Logger(logger))
	r.Use(cors.New(corsConfig(cfg.Server)))

	api := r.Group("/api")
	if cfg.Server.RateLimit != "" {
		limit, err := middleware.RateLimit(logger, cfg.Server.RateLimit)
		if err != nil {
			return err
		}
		api.Use(limit)
	}

	movements := api.Group("/movements")
	{
		movements.POST("", movementHandler.Create)
		movements.GET("", movementHandler.List)
		movements.GET("/export", movementHandler.Export)
		movements.PATCH("/:id", movementHandler.Update)
		movements.DELETE("/:id", movementHandler.Delete)
	}

	statsGroup := api.Group("/stats")
	{
		statsGroup.GET("/summary", statsHandler.Summary)
		statsGroup.GET("/balance-series", statsHandler.BalanceSeries)
		statsGroup.GET("/expenses-by-category", statsHandler.ExpensesByCategory)
		statsGroup.GET("/expenses-monthly", statsHandler.ExpensesMonthly)
		statsGroup.GET("/expenses-monthly-by-category", statsHandler.ExpensesMonthlyByCategory)
	}

	// Liveness; does not touch the store
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"ok":      true,
			"service": cfg.Application.Name,
			"env":     cfg.Application.Env,
		})
	})

	r.GET("/ready", func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), readinessTimeout)
		defer cancel()
		if err := store.Ping(ctx); err != nil {
			logger.Warn("Readiness check failed", "error", err)
			handler.RespondServiceUnavailable(c)
			return
		}
		c.JSON(http.StatusOK, gin.H{"ok": true})
	})

	return nil
}

func corsConfig(cfg config.ServerConfig) cors.Config {
	corsCfg := cors.DefaultConfig()
	origins := cfg.CORSOrigins()
	if len(origins) == 0 || slices.Contains(origins, "*") {
		// Credentials cannot be combined with a wildcard origin
		corsCfg.AllowAllOrigins = true
	} else {
		corsCfg.AllowOrigins = origins
		corsCfg.AllowCredentials = true
	}
	corsCfg.AllowMethods = []string{http.MethodGet, http.MethodPost, http.MethodPatch, http.MethodDelete, http.MethodOptions}
	corsCfg.AddAllowHeaders(middleware.CorrelationIDHeader)
	corsCfg.AddExposeHeaders(middleware.CorrelationIDHeader)
	return corsCfg
}
