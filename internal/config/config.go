package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/caarlos0/env/v10"
	"github.com/joho/godotenv"
)

// Config holds all configuration for the application
type Config struct {
	// Server Configuration
	Environment string `env:"ENV" envDefault:"development"`
	Port        string `env:"API_PORT" envDefault:"8080"`
	LogFile     string `env:"LOG_FILE"`

	// Database Configuration
	DatabaseURL    string  `env:"DATABASE_URL"`
	ReplicaDBPath  string  `env:"REPLICA_DB_PATH" envDefault:"./data/replica.db"`
	ReplicaRollout float64 `env:"REPLICA_ROLLOUT_FRACTION" envDefault:"0"`

	// Object storage (R2 over the S3 API)
	StorageEndpoint  string `env:"STORAGE_ENDPOINT"`
	StorageRegion    string `env:"STORAGE_REGION" envDefault:"auto"`
	StorageAccessKey string `env:"STORAGE_ACCESS_KEY"`
	StorageSecretKey string `env:"STORAGE_SECRET_KEY"`
	StorageBucket    string `env:"STORAGE_BUCKET" envDefault:"bundles"`

	// Signed URL lifetime in seconds (default 7 days)
	SignTTLSeconds int64 `env:"SIGN_TTL_SECONDS" envDefault:"604800"`

	// Rate limiting for device-facing routes
	RateLimitRPS   int `env:"RATE_LIMIT_RPS" envDefault:"100"`
	RateLimitBurst int `env:"RATE_LIMIT_BURST" envDefault:"200"`

	// Background reconciliation interval in minutes (0 disables the task)
	ReconcileIntervalMin int `env:"RECONCILE_INTERVAL_MIN" envDefault:"60"`
}

// Load loads the configuration from environment variables and .env files
func Load() (*Config, error) {
	// Try multiple locations for .env file
	envLocations := []string{
		"internal/config/env/.env.production",
		"internal/config/env/.env.development",
		".env",
	}

	// If ENV is set, try to load that specific file first
	envName := os.Getenv("ENV")
	if envName != "" {
		envLocations = append([]string{fmt.Sprintf("internal/config/env/.env.%s", envName)}, envLocations...)
	}

	for _, loc := range envLocations {
		if err := godotenv.Load(loc); err == nil {
			break
		}
	}

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	if cfg.ReplicaRollout < 0 || cfg.ReplicaRollout > 1 {
		return nil, fmt.Errorf("REPLICA_ROLLOUT_FRACTION must be within [0,1], got %v", cfg.ReplicaRollout)
	}

	// Set default log file if not set
	if cfg.LogFile == "" {
		if cfg.Environment == "production" {
			cfg.LogFile = "/app/logs/api.log"
		} else {
			cfg.LogFile = "./logs/api.log"
		}
	}

	// Ensure log directory exists
	if err := os.MkdirAll(filepath.Dir(cfg.LogFile), 0755); err != nil {
		return nil, fmt.Errorf("failed to create log directory: %w", err)
	}

	return cfg, nil
}
