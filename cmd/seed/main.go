package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/PierrardFacundo/GestionFinanzasapp/internal/config"
	"github.com/PierrardFacundo/GestionFinanzasapp/internal/data/mongo"
	"github.com/PierrardFacundo/GestionFinanzasapp/internal/logger"
	"github.com/PierrardFacundo/GestionFinanzasapp/internal/platform/persistence"
	"github.com/PierrardFacundo/GestionFinanzasapp/internal/seed"
)

func main() {
	cfg, err := config.LoadConfig("seed")
	if err != nil {
		// logger is not initialized yet, so we use fmt
		fmt.Printf("Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	log := logger.NewLogger(cfg)

	if err := run(context.Background(), log, cfg); err != nil {
		log.Error("Seeding failed", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, log *slog.Logger, cfg *config.Config) error {
	year := cfg.Seed.Year
	if year == 0 {
		year = time.Now().UTC().Year()
	}

	mongoDB, err := persistence.NewMongoDB(ctx, log, &cfg.MongoDB)
	if err != nil {
		return fmt.Errorf("failed to initialize MongoDB: %w", err)
	}
	defer func() {
		if err := mongoDB.Close(context.Background()); err != nil {
			log.Error("Error closing MongoDB connection", "error", err)
		}
	}()

	if cfg.MongoDB.MigrationsPath != "" {
		if err := persistence.RunMigrations(mongoDB.Client(), cfg.MongoDB.Database, cfg.MongoDB.MigrationsPath); err != nil {
			return fmt.Errorf("failed to apply MongoDB migrations: %w", err)
		}
	}

	repo := mongo.NewMovementRepository(log, mongoDB.Database())
	seeder := seed.NewSeeder(log, repo, cfg.Seed.Workers, uint64(time.Now().UnixNano()))

	log.Info("Seeding movements", "year", year, "workers", cfg.Seed.Workers)
	res, err := seeder.SeedYear(ctx, year)
	if err != nil {
		return err
	}

	log.Info("Seeding completed", "year", res.Year, "deleted", res.Deleted, "inserted", res.Inserted)
	return nil
}
