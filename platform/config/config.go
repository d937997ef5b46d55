// Package config provides application configuration loading.
// This is part of the platform layer and contains no business logic.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// =============================================================================
// Module-Specific Config Interfaces (Principle of Least Privilege)
// =============================================================================

// DatabaseConfig provides database connection settings.
type DatabaseConfig interface {
	GetDatabaseURL() string
}

// HTTPConfig provides settings for the HTTP server.
type HTTPConfig interface {
	GetHTTPAddr() string
	GetCORSAllowAll() bool
	GetCORSOrigins() []string
	GetCORSAllowCreds() bool
	GetRateLimitPerMinute() int
}

// GeneratorConfig provides settings for the number search.
type GeneratorConfig interface {
	// GetRandomSeed returns the seed for the shared random source; 0 means a random seed.
	GetRandomSeed() int64
	// GetMaxAttempts caps the search loop; 0 means unbounded.
	GetMaxAttempts() int
	// GetSearchTimeout bounds a single request's search; 0 disables the deadline.
	GetSearchTimeout() time.Duration
}

// RedisConfig provides Redis connection settings.
type RedisConfig interface {
	GetRedisURL() string
	GetRedisTLSInsecure() bool
}

// SchedulerConfig provides settings for the asynq batch queue.
type SchedulerConfig interface {
	RedisConfig
	GetAsynqQueueName() string
	GetAsynqConcurrency() int
}

// MinIOConfig provides settings for MinIO S3-compatible storage.
type MinIOConfig interface {
	GetMinIOEndpoint() string
	GetMinIOAccessKey() string
	GetMinIOSecretKey() string
	GetMinIOUseSSL() bool
	GetMinioBucketBatches() string
	IsMinIOEnabled() bool
}

// BatchConfig provides limits for batch generation.
type BatchConfig interface {
	GetBatchMaxCount() int
	GetBatchWorkers() int
	GetBatchDedupTTL() time.Duration
	GetBatchTimeout() time.Duration
}

// =============================================================================
// Main Config Struct
// =============================================================================

type Config struct {
	Env                string
	HTTPAddr           string
	DatabaseURL        string
	CORSAllowAll       bool
	CORSOrigins        []string
	CORSAllowCreds     bool
	RateLimitPerMinute int
	RandomSeed         int64
	MaxAttempts        int
	SearchTimeout      time.Duration
	RedisURL           string
	RedisTLSInsecure   bool
	AsynqQueueName     string
	AsynqConcurrency   int
	MinIOEndpoint      string
	MinIOAccessKey     string
	MinIOSecretKey     string
	MinIOUseSSL        bool
	MinioBucketBatches string
	BatchMaxCount      int
	BatchWorkers       int
	BatchDedupTTL      time.Duration
	BatchTimeout       time.Duration
}

// =============================================================================
// Interface Implementations
// =============================================================================

// DatabaseConfig
func (c *Config) GetDatabaseURL() string { return c.DatabaseURL }

// HTTPConfig
func (c *Config) GetHTTPAddr() string        { return c.HTTPAddr }
func (c *Config) GetCORSAllowAll() bool      { return c.CORSAllowAll }
func (c *Config) GetCORSOrigins() []string   { return c.CORSOrigins }
func (c *Config) GetCORSAllowCreds() bool    { return c.CORSAllowCreds }
func (c *Config) GetRateLimitPerMinute() int { return c.RateLimitPerMinute }

// GeneratorConfig
func (c *Config) GetRandomSeed() int64             { return c.RandomSeed }
func (c *Config) GetMaxAttempts() int              { return c.MaxAttempts }
func (c *Config) GetSearchTimeout() time.Duration { return c.SearchTimeout }

// SchedulerConfig
func (c *Config) GetRedisURL() string       { return c.RedisURL }
func (c *Config) GetRedisTLSInsecure() bool { return c.RedisTLSInsecure }
func (c *Config) GetAsynqQueueName() string { return c.AsynqQueueName }
func (c *Config) GetAsynqConcurrency() int  { return c.AsynqConcurrency }

// MinIOConfig
func (c *Config) GetMinIOEndpoint() string      { return c.MinIOEndpoint }
func (c *Config) GetMinIOAccessKey() string     { return c.MinIOAccessKey }
func (c *Config) GetMinIOSecretKey() string     { return c.MinIOSecretKey }
func (c *Config) GetMinIOUseSSL() bool          { return c.MinIOUseSSL }
func (c *Config) GetMinioBucketBatches() string { return c.MinioBucketBatches }
func (c *Config) IsMinIOEnabled() bool          { return c.MinIOEndpoint != "" }

// BatchConfig
func (c *Config) GetBatchMaxCount() int            { return c.BatchMaxCount }
func (c *Config) GetBatchWorkers() int             { return c.BatchWorkers }
func (c *Config) GetBatchDedupTTL() time.Duration { return c.BatchDedupTTL }
func (c *Config) GetBatchTimeout() time.Duration  { return c.BatchTimeout }

// Load reads configuration from the environment (and .env when present).
func Load() (*Config, error) {
	_ = godotenv.Load()

	corsOrigins := splitCSV(getEnv("CORS_ORIGINS", "http://localhost:4200"))
	corsAllowAll := strings.EqualFold(getEnv("CORS_ALLOW_ALL", "false"), "true")
	if containsWildcard(corsOrigins) {
		corsAllowAll = true
	}

	cfg := &Config{
		Env:                getEnv("APP_ENV", "development"),
		HTTPAddr:           getEnv("HTTP_ADDR", ":8080"),
		DatabaseURL:        getEnv("DATABASE_URL", ""),
		CORSAllowAll:       corsAllowAll,
		CORSOrigins:        corsOrigins,
		CORSAllowCreds:     strings.EqualFold(getEnv("CORS_ALLOW_CREDENTIALS", "false"), "true"),
		RateLimitPerMinute: mustInt(getEnv("RATE_LIMIT_PER_MINUTE", "600")),
		RandomSeed:         mustInt64(getEnv("E164_RANDOM_SEED", "0")),
		MaxAttempts:        mustInt(getEnv("E164_MAX_ATTEMPTS", "10000")),
		SearchTimeout:      mustDuration(getEnv("E164_SEARCH_TIMEOUT", "2s")),
		RedisURL:           getEnv("REDIS_URL", ""),
		RedisTLSInsecure:   strings.EqualFold(getEnv("REDIS_TLS_INSECURE", "false"), "true"),
		AsynqQueueName:     getEnv("ASYNQ_QUEUE", "e164"),
		AsynqConcurrency:   mustInt(getEnv("ASYNQ_CONCURRENCY", "4")),
		MinIOEndpoint:      getEnv("MINIO_ENDPOINT", ""),
		MinIOAccessKey:     getEnv("MINIO_ACCESS_KEY", ""),
		MinIOSecretKey:     getEnv("MINIO_SECRET_KEY", ""),
		MinIOUseSSL:        strings.EqualFold(getEnv("MINIO_USE_SSL", "false"), "true"),
		MinioBucketBatches: getEnv("MINIO_BUCKET_BATCHES", "e164-batches"),
		BatchMaxCount:      mustInt(getEnv("BATCH_MAX_COUNT", "10000")),
		BatchWorkers:       mustInt(getEnv("BATCH_WORKERS", "4")),
		BatchDedupTTL:      mustDuration(getEnv("BATCH_DEDUP_TTL", "24h")),
		BatchTimeout:       mustDuration(getEnv("BATCH_TIMEOUT", "30s")),
	}

	if cfg.MaxAttempts < 0 {
		return nil, fmt.Errorf("E164_MAX_ATTEMPTS must not be negative")
	}
	if cfg.BatchMaxCount < 1 {
		return nil, fmt.Errorf("BATCH_MAX_COUNT must be positive")
	}
	if cfg.CORSAllowAll && cfg.CORSAllowCreds {
		return nil, fmt.Errorf("CORS_ALLOW_CREDENTIALS cannot be true when CORS_ALLOW_ALL is true")
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if val, ok := os.LookupEnv(key); ok {
		return val
	}
	return fallback
}

func mustDuration(value string) time.Duration {
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0
	}
	return d
}

func mustInt64(value string) int64 {
	result, err := strconv.ParseInt(value, 10, 64)
	if err != nil {
		return 0
	}
	return result
}

func mustInt(value string) int {
	result, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil {
		return 0
	}
	return result
}

func splitCSV(value string) []string {
	parts := strings.Split(value, ",")
	results := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			results = append(results, trimmed)
		}
	}
	return results
}

func containsWildcard(values []string) bool {
	for _, value := range values {
		if value == "*" {
			return true
		}
	}
	return false
}
