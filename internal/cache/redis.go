package cache

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/troyes-analytics/effectif/internal/acquire"
)

// snapshotKey holds the most recently acquired squad dataset.
const snapshotKey = "effectif:squad:snapshot"

// SnapshotCache keeps the latest acquisition result in Redis so a restart
// inside the TTL window can serve immediately without hitting the source
// again. The acquisition pipeline itself never touches it.
type SnapshotCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewSnapshotCache connects to Redis and verifies the connection.
func NewSnapshotCache(redisURL string, ttl time.Duration) (*SnapshotCache, error) {
	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, err
	}

	client := redis.NewClient(opt)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, err
	}

	return &SnapshotCache{
		client: client,
		ttl:    ttl,
	}, nil
}

// Close closes the Redis connection.
func (c *SnapshotCache) Close() error {
	return c.client.Close()
}

// HealthCheck pings Redis to verify the connection.
func (c *SnapshotCache) HealthCheck(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}

// Store writes the acquisition result under the snapshot TTL.
func (c *SnapshotCache) Store(ctx context.Context, result *acquire.Result) error {
	payload, err := json.Marshal(result)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, snapshotKey, payload, c.ttl).Err()
}

// Load returns the cached result, or nil without error on a miss.
func (c *SnapshotCache) Load(ctx context.Context) (*acquire.Result, error) {
	payload, err := c.client.Get(ctx, snapshotKey).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var result acquire.Result
	if err := json.Unmarshal(payload, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// Clear drops the snapshot.
func (c *SnapshotCache) Clear(ctx context.Context) error {
	return c.client.Del(ctx, snapshotKey).Err()
}
