package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Config holds the collector configuration, loaded from environment
// variables.
type Config struct {
	// Feed connection
	WSEndpoint string
	Commitment string

	// Output store
	OutputFile string

	// Optional YAML file overriding the built-in program registry
	RegistryFile string

	// Monitoring
	HealthPort int

	// Reconnect tuning
	InitialBackoff time.Duration
	MaxBackoff     time.Duration
}

// Load reads configuration from environment variables, falling back to
// defaults for everything.
func Load() (*Config, error) {
	cfg := &Config{
		WSEndpoint:     getEnvOrDefault("WS_ENDPOINT", "wss://api.mainnet-beta.solana.com/"),
		Commitment:     getEnvOrDefault("COMMITMENT", "processed"),
		OutputFile:     getEnvOrDefault("OUTPUT_FILE", "dexlog.json"),
		RegistryFile:   os.Getenv("REGISTRY_FILE"),
		HealthPort:     getIntEnv("HEALTH_PORT", 8088),
		InitialBackoff: getDurationEnv("INITIAL_BACKOFF", 1*time.Second),
		MaxBackoff:     getDurationEnv("MAX_BACKOFF", 30*time.Second),
	}

	if cfg.WSEndpoint == "" {
		return nil, fmt.Errorf("WS_ENDPOINT must not be empty")
	}
	if cfg.InitialBackoff > cfg.MaxBackoff {
		return nil, fmt.Errorf("INITIAL_BACKOFF (%s) exceeds MAX_BACKOFF (%s)", cfg.InitialBackoff, cfg.MaxBackoff)
	}

	return cfg, nil
}

// Helper functions for environment variable parsing
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getIntEnv(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	result, err := strconv.Atoi(value)
	if err != nil {
		return defaultValue
	}
	return result
}

func getDurationEnv(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	result, err := time.ParseDuration(value)
	if err != nil {
		return defaultValue
	}
	return result
}
