package config

import (
	"fmt"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// LoadConfigWithName loads configuration using the specified name, auto-detecting the file type
func LoadConfigWithName(configName string) (*Config, error) {
	return loadConfig(configName, "")
}

// LoadConfigWithNameAndType loads configuration with an explicit name and file type
func LoadConfigWithNameAndType(configName, configType string) (*Config, error) {
	return loadConfig(configName, configType)
}

// LoadConfig loads configuration from a .env file using the provided base name
func LoadConfig(configName string) (*Config, error) {
	configFileName := fmt.Sprintf("%s.env", configName)
	return loadConfig(configFileName, "env")
}

// loadConfig handles configuration loading from files and environment variables.
// Precedence, lowest first:
// 1. Defaults
// 2. configs/<name> file values (if found)
// 3. Environment variables, including those exported from a local .env
// 4. Validation of the final configuration
func loadConfig(configName, configType string) (*Config, error) {
	// A local .env never overrides variables already present in the environment
	_ = godotenv.Load()

	v := viper.New()
	setDefaults(v)

	v.SetConfigName(configName)
	if configType != "" {
		v.SetConfigType(configType)
	}

	v.AddConfigPath("./configs")
	v.AddConfigPath(".")

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			fmt.Printf("INFO: No config file '%s' found, relying on environment variables and defaults.\n", configName)
		} else {
			fmt.Printf("WARNING: Error reading config file (%s): %v\n", v.ConfigFileUsed(), err)
		}
	} else {
		fmt.Printf("INFO: Config loaded from file: %s\n", v.ConfigFileUsed())
	}

	v.AutomaticEnv()

	config := buildConfig(v)

	if err := config.validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return config, nil
}

// buildConfig maps resolved viper keys onto the Config struct
func buildConfig(v *viper.Viper) *Config {
	return &Config{
		Application: ApplicationConfig{
			Env:  v.GetString("APP_ENV"),
			Name: v.GetString("APP_NAME"),
		},
		Logging: LoggingConfig{
			Level:  v.GetString("LOG_LEVEL"),
			Format: v.GetString("LOG_FORMAT"),
		},
		Server: ServerConfig{
			Port:            v.GetInt("SERVER_PORT"),
			ShutdownTimeout: v.GetDuration("SERVER_SHUTDOWN_TIMEOUT"),
			ReadTimeout:     v.GetDuration("SERVER_READ_TIMEOUT"),
			WriteTimeout:    v.GetDuration("SERVER_WRITE_TIMEOUT"),
			IdleTimeout:     v.GetDuration("SERVER_IDLE_TIMEOUT"),
			CORSOrigin:      v.GetString("CORS_ORIGIN"),
			RateLimit:       v.GetString("RATE_LIMIT"),
		},
		MongoDB: MongoDBConfig{
			URI:             v.GetString("MONGO_URI"),
			Database:        v.GetString("MONGO_DATABASE"),
			Timeout:         v.GetDuration("MONGO_TIMEOUT"),
			MaxPoolSize:     uint64(v.GetInt("MONGO_MAX_POOL_SIZE")),
			MinPoolSize:     uint64(v.GetInt("MONGO_MIN_POOL_SIZE")),
			MaxConnIdleTime: v.GetDuration("MONGO_MAX_CONN_IDLE_TIME"),
			MigrationsPath:  v.GetString("MONGO_MIGRATIONS_PATH"),
		},
		Kafka: KafkaConfig{
			Enabled:           v.GetBool("KAFKA_ENABLED"),
			Brokers:           v.GetString("KAFKA_BROKERS"),
			MovementTopic:     v.GetString("KAFKA_MOVEMENT_TOPIC"),
			NumPartitions:     v.GetInt("KAFKA_NUM_PARTITIONS"),
			ReplicationFactor: v.GetInt("KAFKA_REPLICATION_FACTOR"),
			WriteTimeout:      v.GetDuration("KAFKA_WRITE_TIMEOUT"),
		},
		Seed: SeedConfig{
			Year:    v.GetInt("SEED_YEAR"),
			Workers: v.GetInt("SEED_WORKERS"),
		},
	}
}

// setDefaults initializes configuration with development friendly values.
func setDefaults(v *viper.Viper) {
	// HTTP Server defaults
	v.SetDefault("SERVER_PORT", 4000)
	v.SetDefault("SERVER_SHUTDOWN_TIMEOUT", 30*time.Second)
	v.SetDefault("SERVER_READ_TIMEOUT", 15*time.Second)
	v.SetDefault("SERVER_WRITE_TIMEOUT", 15*time.Second)
	v.SetDefault("SERVER_IDLE_TIMEOUT", 120*time.Second)
	v.SetDefault("CORS_ORIGIN", "http://localhost:5173")
	v.SetDefault("RATE_LIMIT", "600-M")

	// MongoDB defaults
	v.SetDefault("MONGO_URI", "mongodb://localhost:27017")
	v.SetDefault("MONGO_DATABASE", "finanzas")
	v.SetDefault("MONGO_TIMEOUT", 10*time.Second)
	v.SetDefault("MONGO_MAX_POOL_SIZE", 50)
	v.SetDefault("MONGO_MIN_POOL_SIZE", 5)
	v.SetDefault("MONGO_MAX_CONN_IDLE_TIME", 30*time.Minute)
	v.SetDefault("MONGO_MIGRATIONS_PATH", "migrations/mongo")

	// Kafka change feed is opt-in
	v.SetDefault("KAFKA_ENABLED", false)
	v.SetDefault("KAFKA_BROKERS", "localhost:9092")
	v.SetDefault("KAFKA_MOVEMENT_TOPIC", "movement_events")
	v.SetDefault("KAFKA_NUM_PARTITIONS", 1)
	v.SetDefault("KAFKA_REPLICATION_FACTOR", 1)
	v.SetDefault("KAFKA_WRITE_TIMEOUT", 5*time.Second)

	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "json")

	v.SetDefault("APP_ENV", "development")
	v.SetDefault("APP_NAME", "finanzas-backend")

	// SEED_YEAR 0 means the current year
	v.SetDefault("SEED_YEAR", 0)
	v.SetDefault("SEED_WORKERS", 4)
}
