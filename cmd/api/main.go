package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/PierrardFacundo/GestionFinanzasapp/internal/api"
	"github.com/PierrardFacundo/GestionFinanzasapp/internal/api/service"
	"github.com/PierrardFacundo/GestionFinanzasapp/internal/config"
	"github.com/PierrardFacundo/GestionFinanzasapp/internal/data/mongo"
	"github.com/PierrardFacundo/GestionFinanzasapp/internal/logger"
	"github.com/PierrardFacundo/GestionFinanzasapp/internal/platform/messaging/producers"
	"github.com/PierrardFacundo/GestionFinanzasapp/internal/platform/persistence"
)

func main() {
	// Create base context with cancellation
	appCtx, cancelAppCtx := context.WithCancel(context.Background())
	defer cancelAppCtx()

	cfg, err := config.LoadConfig("api")
	if err != nil {
		// logger is not initialized yet, so we use fmt
		fmt.Printf("Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	log := logger.NewLogger(cfg)

	mongoDB, err := persistence.NewMongoDB(appCtx, log, &cfg.MongoDB)
	if err != nil {
		log.Error("Failed to initialize MongoDB", "error", err)
		os.Exit(1)
	}

	if cfg.MongoDB.MigrationsPath != "" {
		if err := persistence.RunMigrations(mongoDB.Client(), cfg.MongoDB.Database, cfg.MongoDB.MigrationsPath); err != nil {
			log.Error("Failed to apply MongoDB migrations", "path", cfg.MongoDB.MigrationsPath, "error", err)
			_ = mongoDB.Close(context.Background())
			os.Exit(1)
		}
		log.Info("MongoDB migrations applied", "path", cfg.MongoDB.MigrationsPath)
	}

	var publisher producers.EventPublisher = producers.NoopPublisher{}
	if cfg.Kafka.Enabled {
		publisher, err = producers.NewMovementEventProducer(log, &cfg.Kafka)
		if err != nil {
			log.Error("Failed to initialize movement event producer", "error", err)
			_ = mongoDB.Close(context.Background())
			os.Exit(1)
		}
		log.Info("Movement events enabled", "topic", cfg.Kafka.MovementTopic)
	}

	// Initialize repositories
	movementRepo := mongo.NewMovementRepository(log, mongoDB.Database())
	statsRepo := mongo.NewStatsRepository(log, mongoDB.Database())

	// Initialize services
	movementService := service.NewMovementService(log, movementRepo, publisher)
	statsService := service.NewStatsService(log, statsRepo)

	server, err := api.NewServer(log, cfg, mongoDB, movementService, statsService)
	if err != nil {
		log.Error("Failed to initialize HTTP server", "error", err)
		os.Exit(1)
	}

	errChan := make(chan error, 1)

	go func() {
		if err := server.Start(); err != nil {
			errChan <- fmt.Errorf("HTTP server error: %w", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	// Wait for a shutdown signal or error
	var serverErr error
	select {
	case <-quit:
		log.Info("Shutdown signal received")
	case serverErr = <-errChan:
		log.Error("Server error occurred", "error", serverErr)
	}

	cancelAppCtx()

	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancelShutdown()

	log.Info("Starting graceful shutdown...")

	var shutdownErr error
	if err := server.Stop(shutdownCtx); err != nil {
		log.Error("Error during server shutdown", "error", err)
		shutdownErr = err
	}

	if err := publisher.Close(); err != nil {
		log.Error("Error closing movement event publisher", "error", err)
		shutdownErr = err
	}

	if err := mongoDB.Close(shutdownCtx); err != nil {
		log.Error("Error closing MongoDB connection", "error", err)
		shutdownErr = err
	}

	if serverErr != nil || shutdownErr != nil {
		log.Error("Server shutdown completed with errors")
		os.Exit(1)
	}
	log.Info("Server shutdown completed successfully")
}
