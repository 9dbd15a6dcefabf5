package main

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds the service configuration, read from the environment.
type Config struct {
	ListenAddr string
	LogLevel   string

	// Upstream Vector Drawing API, used when a request references vector data by URL.
	VectorAPIBaseURL           string
	VectorAPIToken             string
	VectorAPITimeout           time.Duration
	VectorAPIRetryMax          int
	VectorAPIRequestsPerMinute float64

	BatchConcurrency int
	MaxBatchSize     int
}

// loadDotEnv loads variables from a .env file when one exists. Variables already set
// in the environment win.
func loadDotEnv(path string) bool {
	return godotenv.Load(path) == nil
}

// loadConfig reads the configuration from environment variables
func loadConfig() (Config, error) {
	listenAddr := os.Getenv("LISTEN_ADDR")
	if listenAddr == "" {
		listenAddr = ":8080"
		if port := os.Getenv("PORT"); port != "" {
			listenAddr = ":" + port
		}
	}

	timeout, err := getEnvAsDurationOrDefault("VECTOR_API_TIMEOUT", 30*time.Second)
	if err != nil {
		return Config{}, err
	}
	retryMax, err := getEnvAsIntOrDefault("VECTOR_API_RETRY_MAX", 3)
	if err != nil {
		return Config{}, err
	}
	rpm, err := getEnvAsFloatOrDefault("VECTOR_API_REQUESTS_PER_MINUTE", 0)
	if err != nil {
		return Config{}, err
	}
	batchConcurrency, err := getEnvAsIntOrDefault("BATCH_CONCURRENCY", 4)
	if err != nil {
		return Config{}, err
	}
	maxBatchSize, err := getEnvAsIntOrDefault("MAX_BATCH_SIZE", 50)
	if err != nil {
		return Config{}, err
	}

	cfg := Config{
		ListenAddr:                 listenAddr,
		LogLevel:                   strings.ToLower(os.Getenv("LOG_LEVEL")),
		VectorAPIBaseURL:           strings.TrimRight(os.Getenv("VECTOR_API_BASE_URL"), "/"),
		VectorAPIToken:             os.Getenv("VECTOR_API_TOKEN"),
		VectorAPITimeout:           timeout,
		VectorAPIRetryMax:          retryMax,
		VectorAPIRequestsPerMinute: rpm,
		BatchConcurrency:           batchConcurrency,
		MaxBatchSize:               maxBatchSize,
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("configuration validation failed: %w", err)
	}
	return cfg, nil
}

// Validate checks that the configured values are usable
func (c Config) Validate() error {
	if c.VectorAPITimeout <= 0 {
		return fmt.Errorf("VECTOR_API_TIMEOUT must be positive, got %v", c.VectorAPITimeout)
	}
	if c.VectorAPIRetryMax < 0 || c.VectorAPIRetryMax > 10 {
		return fmt.Errorf("VECTOR_API_RETRY_MAX must be between 0 and 10, got %d", c.VectorAPIRetryMax)
	}
	if c.VectorAPIRequestsPerMinute < 0 {
		return fmt.Errorf("VECTOR_API_REQUESTS_PER_MINUTE must not be negative, got %v", c.VectorAPIRequestsPerMinute)
	}
	if c.BatchConcurrency < 1 || c.BatchConcurrency > 64 {
		return fmt.Errorf("BATCH_CONCURRENCY must be between 1 and 64, got %d", c.BatchConcurrency)
	}
	if c.MaxBatchSize < 1 || c.MaxBatchSize > 1000 {
		return fmt.Errorf("MAX_BATCH_SIZE must be between 1 and 1000, got %d", c.MaxBatchSize)
	}
	return nil
}

func getEnvAsIntOrDefault(key string, defaultValue int) (int, error) {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue, nil
	}
	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", key, valueStr, err)
	}
	return value, nil
}

func getEnvAsFloatOrDefault(key string, defaultValue float64) (float64, error) {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue, nil
	}
	value, err := strconv.ParseFloat(valueStr, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", key, valueStr, err)
	}
	return value, nil
}

func getEnvAsDurationOrDefault(key string, defaultValue time.Duration) (time.Duration, error) {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue, nil
	}
	value, err := time.ParseDuration(valueStr)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", key, valueStr, err)
	}
	return value, nil
}
