// Package cache provides the shared Redis client.
// This is part of the platform layer and contains no business logic.
package cache

import (
	"context"
	"crypto/tls"
	"fmt"

	"fake_e164_backend/platform/config"

	"github.com/redis/go-redis/v9"
)

// NewRedisClient connects to cfg's REDIS_URL and pings it.
func NewRedisClient(ctx context.Context, cfg config.RedisConfig) (*redis.Client, error) {
	redisURL := cfg.GetRedisURL()
	if redisURL == "" {
		return nil, fmt.Errorf("redis url not configured")
	}

	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, err
	}
	if cfg.GetRedisTLSInsecure() {
		if opt.TLSConfig == nil {
			opt.TLSConfig = &tls.Config{}
		}
		opt.TLSConfig.InsecureSkipVerify = true
	}

	client := redis.NewClient(opt)
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, err
	}
	return client, nil
}

// HealthAdapter exposes a Redis client as a health checker.
type HealthAdapter struct {
	client *redis.Client
}

// NewHealthAdapter wraps client for readiness checks.
func NewHealthAdapter(client *redis.Client) *HealthAdapter {
	return &HealthAdapter{client: client}
}

// Ping checks the Redis connection.
func (a *HealthAdapter) Ping(ctx context.Context) error {
	return a.client.Ping(ctx).Err()
}
