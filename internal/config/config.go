// Package config provides configuration structures and validation for the finance tracker.
// It handles environment-based configuration for the HTTP API, the MongoDB store,
// the optional Kafka change feed and the demo data seeder.
package config

import (
	"errors"
	"strings"
	"time"
)

// Config holds the complete application configuration with settings for all components.
// Each field represents a major subsystem's configuration and is validated during
// application startup.
type Config struct {
	Application ApplicationConfig
	Logging     LoggingConfig
	Server      ServerConfig
	MongoDB     MongoDBConfig
	Kafka       KafkaConfig
	Seed        SeedConfig
}

// ApplicationConfig contains general application configuration
type ApplicationConfig struct {
	Env  string
	Name string
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Level  string
	Format string // "json" or "text"
}

// ServerConfig contains HTTP server configuration settings
type ServerConfig struct {
	Port            int           // Port to listen on
	ShutdownTimeout time.Duration // Grace period for server shutdown
	ReadTimeout     time.Duration // Maximum duration for reading entire request
	WriteTimeout    time.Duration // Maximum duration for writing response
	IdleTimeout     time.Duration // Maximum duration to wait for next request
	CORSOrigin      string        // Comma separated list of allowed origins
	RateLimit       string        // Limiter formatted rate, e.g. "300-M"; empty disables
}

// MongoDBConfig contains MongoDB configuration
type MongoDBConfig struct {
	URI             string
	Database        string
	Timeout         time.Duration
	MaxPoolSize     uint64
	MinPoolSize     uint64
	MaxConnIdleTime time.Duration
	MigrationsPath  string // Directory with index migrations; empty skips them
}

// KafkaConfig contains the movement change feed configuration
type KafkaConfig struct {
	Enabled           bool
	Brokers           string
	MovementTopic     string
	NumPartitions     int
	ReplicationFactor int
	WriteTimeout      time.Duration
}

// SeedConfig contains settings for the demo data seeder
type SeedConfig struct {
	Year    int
	Workers int
}

// CORSOrigins splits the configured origins list
func (s ServerConfig) CORSOrigins() []string {
	var origins []string
	for _, o := range strings.Split(s.CORSOrigin, ",") {
		if o = strings.TrimSpace(o); o != "" {
			origins = append(origins, o)
		}
	}
	return origins
}

// validate performs validation of all configuration values,
// ensuring they meet minimum requirements and logical constraints
func (c *Config) validate() error {
	var validationErrors []string

	// Validate Server config
	if c.Server.Port <= 0 {
		validationErrors = append(validationErrors, "SERVER_PORT must be greater than 0")
	}
	if c.Server.ShutdownTimeout <= 0 {
		validationErrors = append(validationErrors, "SERVER_SHUTDOWN_TIMEOUT must be greater than 0")
	}
	if c.Server.ReadTimeout <= 0 {
		validationErrors = append(validationErrors, "SERVER_READ_TIMEOUT must be greater than 0")
	}
	if c.Server.WriteTimeout <= 0 {
		validationErrors = append(validationErrors, "SERVER_WRITE_TIMEOUT must be greater than 0")
	}
	if c.Server.IdleTimeout <= 0 {
		validationErrors = append(validationErrors, "SERVER_IDLE_TIMEOUT must be greater than 0")
	}
	if len(c.Server.CORSOrigins()) == 0 {
		validationErrors = append(validationErrors, "CORS_ORIGIN is required")
	}

	// Validate MongoDB config
	if c.MongoDB.URI == "" {
		validationErrors = append(validationErrors, "MONGO_URI is required")
	}
	if c.MongoDB.Database == "" {
		validationErrors = append(validationErrors, "MONGO_DATABASE is required")
	}
	if c.MongoDB.Timeout <= 0 {
		validationErrors = append(validationErrors, "MONGO_TIMEOUT must be greater than 0")
	}
	if c.MongoDB.MaxPoolSize <= 0 {
		validationErrors = append(validationErrors, "MONGO_MAX_POOL_SIZE must be greater than 0")
	}
	if c.MongoDB.MinPoolSize > c.MongoDB.MaxPoolSize {
		validationErrors = append(validationErrors, "MONGO_MIN_POOL_SIZE must not exceed MONGO_MAX_POOL_SIZE")
	}
	if c.MongoDB.MaxConnIdleTime <= 0 {
		validationErrors = append(validationErrors, "MONGO_MAX_CONN_IDLE_TIME must be greater than 0")
	}

	// Kafka is only checked when the change feed is on
	if c.Kafka.Enabled {
		if c.Kafka.Brokers == "" {
			validationErrors = append(validationErrors, "KAFKA_BROKERS is required")
		}
		if c.Kafka.MovementTopic == "" {
			validationErrors = append(validationErrors, "KAFKA_MOVEMENT_TOPIC is required")
		}
		if c.Kafka.WriteTimeout <= 0 {
			validationErrors = append(validationErrors, "KAFKA_WRITE_TIMEOUT must be greater than 0")
		}
	}

	if c.Seed.Workers <= 0 {
		validationErrors = append(validationErrors, "SEED_WORKERS must be greater than 0")
	}

	if len(validationErrors) > 0 {
		return errors.New(strings.Join(validationErrors, ", "))
	}

	return nil
}
