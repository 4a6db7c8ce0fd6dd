package cache

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/example/rehearsal-scheduler/internal/reconcile"
)

const redisKeyPrefix = "predictions:"

// RedisPredictionCache stores roster predictions in Redis so multiple
// service instances share one cache. Errors degrade to cache misses; the
// reconciliation pass is cheap enough to rerun.
type RedisPredictionCache struct {
	client *redis.Client
	ttl    time.Duration
	logger *slog.Logger
}

// NewRedisPredictionCache wraps an existing Redis client. A zero TTL falls
// back to 30 seconds.
func NewRedisPredictionCache(client *redis.Client, ttl time.Duration, logger *slog.Logger) *RedisPredictionCache {
	if ttl <= 0 {
		ttl = 30 * time.Second
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &RedisPredictionCache{client: client, ttl: ttl, logger: logger}
}

// Get returns the cached predictions for a key, if present.
func (c *RedisPredictionCache) Get(ctx context.Context, key string) (map[string]reconcile.Prediction, bool) {
	if c == nil || c.client == nil {
		return nil, false
	}

	payload, err := c.client.Get(ctx, redisKeyPrefix+key).Bytes()
	if err != nil {
		if err != redis.Nil {
			c.logger.WarnContext(ctx, "prediction cache read failed", "error", err)
		}
		return nil, false
	}

	var predictions map[string]reconcile.Prediction
	if err := json.Unmarshal(payload, &predictions); err != nil {
		c.logger.WarnContext(ctx, "prediction cache payload corrupt", "error", err)
		return nil, false
	}
	return predictions, true
}

// Store records predictions under a key with the configured TTL.
func (c *RedisPredictionCache) Store(ctx context.Context, key string, predictions map[string]reconcile.Prediction) {
	if c == nil || c.client == nil {
		return
	}

	payload, err := json.Marshal(predictions)
	if err != nil {
		c.logger.WarnContext(ctx, "prediction cache encode failed", "error", err)
		return
	}
	if err := c.client.Set(ctx, redisKeyPrefix+key, payload, c.ttl).Err(); err != nil {
		c.logger.WarnContext(ctx, "prediction cache write failed", "error", err)
	}
}

// Invalidate removes every cached prediction entry.
func (c *RedisPredictionCache) Invalidate(ctx context.Context) {
	if c == nil || c.client == nil {
		return
	}

	iter := c.client.Scan(ctx, 0, redisKeyPrefix+"*", 0).Iterator()
	for iter.Next(ctx) {
		if err := c.client.Del(ctx, iter.Val()).Err(); err != nil {
			c.logger.WarnContext(ctx, "prediction cache delete failed", "error", err, "key", iter.Val())
		}
	}
	if err := iter.Err(); err != nil {
		c.logger.WarnContext(ctx, "prediction cache scan failed", "error", err)
	}
}
