package batch

import (
	"context"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// Deduper records the numbers already handed out for a batch key.
type Deduper interface {
	// Add records number under key and reports whether it was new.
	Add(ctx context.Context, key, number string) (bool, error)
	// Release forgets every number recorded under key.
	Release(ctx context.Context, key string) error
}

// MemoryDeduper keeps sets in process memory.
type MemoryDeduper struct {
	mu   sync.Mutex
	sets map[string]map[string]struct{}
}

// NewMemoryDeduper creates an empty in-memory deduper.
func NewMemoryDeduper() *MemoryDeduper {
	return &MemoryDeduper{sets: make(map[string]map[string]struct{})}
}

func (d *MemoryDeduper) Add(_ context.Context, key, number string) (bool, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	set, ok := d.sets[key]
	if !ok {
		set = make(map[string]struct{})
		d.sets[key] = set
	}
	if _, seen := set[number]; seen {
		return false, nil
	}
	set[number] = struct{}{}
	return true, nil
}

func (d *MemoryDeduper) Release(_ context.Context, key string) error {
	d.mu.Lock()
	delete(d.sets, key)
	d.mu.Unlock()
	return nil
}

const redisKeyPrefix = "e164:batch:"

// RedisDeduper keeps one Redis set per key so parallel workers, including
// ones in other processes, share the same view. Sets expire after ttl.
type RedisDeduper struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisDeduper creates a Redis-backed deduper. A non-positive ttl keeps
// sets until Release.
func NewRedisDeduper(client *redis.Client, ttl time.Duration) *RedisDeduper {
	return &RedisDeduper{client: client, ttl: ttl}
}

func (d *RedisDeduper) Add(ctx context.Context, key, number string) (bool, error) {
	redisKey := redisKeyPrefix + key

	pipe := d.client.TxPipeline()
	added := pipe.SAdd(ctx, redisKey, number)
	if d.ttl > 0 {
		pipe.Expire(ctx, redisKey, d.ttl)
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return false, err
	}
	return added.Val() == 1, nil
}

func (d *RedisDeduper) Release(ctx context.Context, key string) error {
	return d.client.Del(ctx, redisKeyPrefix+key).Err()
}
