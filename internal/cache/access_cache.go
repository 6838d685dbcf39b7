// Package cache provides Redis client initialization and the derived
// accessible-content-id cache. The cache is advisory: any failure falls
// back to recomputing from Postgres and never blocks an access decision.
package cache

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// Connect creates a Redis client and verifies the connection with a ping.
func Connect(addr, password string) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       0,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, err
	}

	slog.Info("redis connected", "addr", addr)
	return client, nil
}

// AccessCache caches the per-user accessible-content-id set. A nil
// *AccessCache is valid and behaves as a permanent miss, so callers don't
// branch on whether Redis is configured.
type AccessCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewAccessCache(client *redis.Client, ttl time.Duration) *AccessCache {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &AccessCache{client: client, ttl: ttl}
}

func key(userID uuid.UUID) string {
	return "access:content_ids:" + userID.String()
}

func (c *AccessCache) GetContentIDs(ctx context.Context, userID uuid.UUID) ([]uuid.UUID, bool) {
	if c == nil || c.client == nil {
		return nil, false
	}
	data, err := c.client.Get(ctx, key(userID)).Bytes()
	if err != nil {
		return nil, false
	}
	var ids []uuid.UUID
	if err := json.Unmarshal(data, &ids); err != nil {
		return nil, false
	}
	return ids, true
}

func (c *AccessCache) SetContentIDs(ctx context.Context, userID uuid.UUID, ids []uuid.UUID) {
	if c == nil || c.client == nil {
		return
	}
	data, err := json.Marshal(ids)
	if err != nil {
		return
	}
	if err := c.client.Set(ctx, key(userID), data, c.ttl).Err(); err != nil {
		slog.Warn("access cache set failed", "error", err, "user_id", userID)
	}
}

// Invalidate drops the cached set so the next read recomputes. Called after
// every purchase or subscription write.
func (c *AccessCache) Invalidate(ctx context.Context, userID uuid.UUID) {
	if c == nil || c.client == nil {
		return
	}
	if err := c.client.Del(ctx, key(userID)).Err(); err != nil {
		slog.Warn("access cache invalidate failed", "error", err, "user_id", userID)
	}
}
