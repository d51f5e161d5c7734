package cache

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/XavierBriggs/Beacon/internal/logx"
	"github.com/XavierBriggs/Beacon/pkg/contracts"
	"github.com/XavierBriggs/Beacon/pkg/models"
)

// Redis is the shared-cache backend for multi-instance deployments.
// Values are whole JSON-encoded results with server-side TTL expiry, so
// Sweep is a no-op.
type Redis struct {
	client *redis.Client
	ttl    time.Duration
}

var _ contracts.ResultCache = (*Redis)(nil)

// NewRedis wraps an already-connected client.
func NewRedis(client *redis.Client, ttl time.Duration) *Redis {
	return &Redis{client: client, ttl: ttl}
}

// Get fetches and decodes the entry for key. A decode failure is treated
// as a miss; the corrupt entry is deleted rather than surfaced.
func (r *Redis) Get(ctx context.Context, key string) (models.SearchResult, bool) {
	data, err := r.client.Get(ctx, key).Result()
	if err == redis.Nil {
		return models.SearchResult{}, false
	}
	if err != nil {
		logx.Error("cache get failed", err, "key", key)
		return models.SearchResult{}, false
	}

	var result models.SearchResult
	if err := json.Unmarshal([]byte(data), &result); err != nil {
		logx.Error("cache entry corrupt, dropping", err, "key", key)
		r.client.Del(ctx, key)
		return models.SearchResult{}, false
	}
	return result, true
}

// Set encodes and stores value with the cache TTL.
func (r *Redis) Set(ctx context.Context, key string, value models.SearchResult) error {
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return r.client.Set(ctx, key, data, r.ttl).Err()
}

// Sweep is a no-op; Redis expires entries server-side.
func (r *Redis) Sweep(context.Context) {}
