// Package cache provides a redis-backed cache for assembled scoring reports.
// Reports are rebuilt from scratch on every request; for the world-wide views
// that cost grows with the whole registry, so hot responses are kept for a
// short TTL. A nil *ReportCache is valid and caches nothing, which keeps the
// service wiring unconditional.
package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

type ReportCache struct {
	client *redis.Client
	ttl    time.Duration
}

// New creates a report cache from a redis URL. Returns nil if the URL is
// empty (redis not configured).
func New(url string, ttl time.Duration) (*ReportCache, error) {
	if url == "" {
		return nil, nil
	}
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("parse redis URL: %w", err)
	}
	client := redis.NewClient(opts)
	if err := client.Ping(context.Background()).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("redis ping failed: %w", err)
	}
	return &ReportCache{client: client, ttl: ttl}, nil
}

// NewWithClient wraps an existing client; used by tests.
func NewWithClient(client *redis.Client, ttl time.Duration) *ReportCache {
	return &ReportCache{client: client, ttl: ttl}
}

// Get unmarshals a cached report into dest. A miss, a decode failure or a
// redis error all report false: the caller rebuilds.
func (c *ReportCache) Get(ctx context.Context, key string, dest any) bool {
	if c == nil {
		return false
	}
	payload, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		return false
	}
	return json.Unmarshal(payload, dest) == nil
}

// Set stores a report best-effort; failures are invisible to the caller.
func (c *ReportCache) Set(ctx context.Context, key string, v any) {
	if c == nil {
		return
	}
	payload, err := json.Marshal(v)
	if err != nil {
		return
	}
	c.client.Set(ctx, key, payload, c.ttl)
}

// Close releases the underlying connection.
func (c *ReportCache) Close() error {
	if c == nil {
		return nil
	}
	return c.client.Close()
}
