// Package config handles application configuration from environment variables
package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Config holds all application configuration
type Config struct {
	// Server settings
	Port     string
	Env      string // "development", "staging", "production"
	LogLevel string
	LogFmt   string // "json" or "text"

	// Database
	DatabaseURL string // PostgreSQL connection string (optional, uses in-memory if not set)

	// Block identity, served verbatim from /manifest
	BlockName        string
	BlockVersion     string
	BlockType        string
	BlockPublisher   string
	BlockDescription string
	BlockLicense     string

	// Default control envelope, applied when the wallet activates
	// controls without explicit settings
	DefaultAssetID       string
	DefaultDurationDays  int
	DefaultPerTxLimit    string
	DefaultCumulativeMax string

	// Observability
	OTLPEndpoint string // OTLP gRPC collector address (optional, tracing is no-op if unset)
}

const (
	DefaultPort         = "8080"
	DefaultEnv          = "development"
	DefaultLogLevel     = "info"
	DefaultLogFmt       = "json"
	DefaultBlockType    = "action"
	DefaultDuration     = 30
	DefaultPerTx        = "100"
	DefaultCumulative   = "1000"
	DefaultBlockVersion = "0.1.0"
)

// Load reads configuration from environment variables
// It loads .env file if present (for local development)
func Load() (*Config, error) {
	// Load .env file if it exists (ignore error if not present)
	_ = godotenv.Load()

	cfg := &Config{
		Port:                 getEnv("PORT", DefaultPort),
		Env:                  getEnv("ENV", DefaultEnv),
		LogLevel:             getEnv("LOG_LEVEL", DefaultLogLevel),
		LogFmt:               getEnv("LOG_FORMAT", DefaultLogFmt),
		DatabaseURL:          os.Getenv("DATABASE_URL"), // Optional, uses in-memory if not set
		BlockName:            os.Getenv("BLOCK_NAME"),   // Required, no default
		BlockVersion:         getEnv("BLOCK_VERSION", DefaultBlockVersion),
		BlockType:            getEnv("BLOCK_TYPE", DefaultBlockType),
		BlockPublisher:       os.Getenv("BLOCK_PUBLISHER"),
		BlockDescription:     os.Getenv("BLOCK_DESCRIPTION"),
		BlockLicense:         os.Getenv("BLOCK_LICENSE"),
		DefaultAssetID:       getEnv("DEFAULT_ASSET_ID", "BTC"),
		DefaultDurationDays:  int(getEnvInt64("DEFAULT_DURATION_DAYS", DefaultDuration)),
		DefaultPerTxLimit:    getEnv("DEFAULT_PER_TX_LIMIT", DefaultPerTx),
		DefaultCumulativeMax: getEnv("DEFAULT_CUMULATIVE_MAX", DefaultCumulative),
		OTLPEndpoint:         os.Getenv("OTEL_EXPORTER_OTLP_ENDPOINT"),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks that all required configuration is present
func (c *Config) Validate() error {
	if c.BlockName == "" {
		return fmt.Errorf("BLOCK_NAME is required")
	}
	if c.BlockPublisher == "" {
		return fmt.Errorf("BLOCK_PUBLISHER is required")
	}
	switch c.BlockType {
	case "analyst", "action", "custodial":
	default:
		return fmt.Errorf("BLOCK_TYPE must be analyst, action, or custodial")
	}
	if c.DefaultDurationDays <= 0 {
		return fmt.Errorf("DEFAULT_DURATION_DAYS must be positive")
	}
	return nil
}

// IsDevelopment returns true if running in development mode
func (c *Config) IsDevelopment() bool {
	return c.Env == "development"
}

// IsProduction returns true if running in production mode
func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

// Helper functions

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt64(key string, defaultValue int64) int64 {
	if value := os.Getenv(key); value != "" {
		if i, err := strconv.ParseInt(value, 10, 64); err == nil {
			return i
		}
	}
	return defaultValue
}
