package persistence

import (
	"errors"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/mongodb"
	"github.com/golang-migrate/migrate/v4/source/file"
	"go.mongodb.org/mongo-driver/mongo"
)

// MigrationsCollection stores the applied migration version
const MigrationsCollection = "schema_migrations"

// RunMigrations applies the JSON command migrations found in migrationsPath
// (e.g. ./migrations/mongo) to the named database using an existing client
func RunMigrations(client *mongo.Client, databaseName, migrationsPath string) error {
	if migrationsPath == "" {
		return errors.New("migrations path cannot be empty")
	}
	if databaseName == "" {
		return errors.New("database name cannot be empty")
	}
	if client == nil {
		return errors.New("mongo client cannot be nil")
	}

	src, err := (&file.File{}).Open("file://" + migrationsPath)
	if err != nil {
		return fmt.Errorf("failed to open migration source: %w", err)
	}
	defer src.Close()

	driver, err := mongodb.WithInstance(client, &mongodb.Config{
		DatabaseName:         databaseName,
		MigrationsCollection: MigrationsCollection,
	})
	if err != nil {
		return fmt.Errorf("failed to create migration driver: %w", err)
	}

	m, err := migrate.NewWithInstance("file", src, databaseName, driver)
	if err != nil {
		return fmt.Errorf("failed to create migrate instance: %w", err)
	}

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("failed to apply migrations: %w", err)
	}

	// Only the source is released: m.Close would also close the mongodb
	// driver, which disconnects the client shared with the repositories.
	return nil
}
