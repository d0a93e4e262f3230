package config

import (
	"fmt"
	"os"
)

// Config holds all configuration for the application
type Config struct {
	TelegramToken string
	MongoURI      string
	MongoDatabase string
	LogLevel      string
	Port          string
}

// Load loads configuration from environment variables
func Load() (*Config, error) {
	cfg := &Config{
		MongoDatabase: getEnvOrDefault("MONGODB_DATABASE", "queuebot"),
		LogLevel:      getEnvOrDefault("LOG_LEVEL", "info"),
		Port:          getEnvOrDefault("PORT", "8080"),
	}

	// Required environment variables
	if cfg.TelegramToken = os.Getenv("TELEGRAM_TOKEN"); cfg.TelegramToken == "" {
		return nil, fmt.Errorf("TELEGRAM_TOKEN environment variable is required")
	}

	if cfg.MongoURI = os.Getenv("MONGODB_URI"); cfg.MongoURI == "" {
		return nil, fmt.Errorf("MONGODB_URI environment variable is required")
	}

	return cfg, nil
}

// getEnvOrDefault returns environment variable value or default if not set
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
