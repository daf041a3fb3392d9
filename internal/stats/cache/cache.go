package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/pulseboard/go-board-backend/internal/stats/domain"
)

const statsKeyPrefix = "board:stats:" // board:stats:{project_id}

// StatsCache keeps per-project stats snapshots in Redis with a short
// TTL. Mutating services invalidate the key; a nil cache is a no-op so
// the service runs fine without Redis.
type StatsCache struct {
	client *redis.Client
	ttl    time.Duration
}

// New creates a stats cache. A nil client disables caching.
func New(client *redis.Client, ttl time.Duration) *StatsCache {
	return &StatsCache{client: client, ttl: ttl}
}

// Get returns the cached stats for the project, or nil on a miss.
func (c *StatsCache) Get(ctx context.Context, projectID string) (*domain.Stats, error) {
	if c == nil || c.client == nil {
		return nil, nil
	}
	raw, err := c.client.Get(ctx, c.key(projectID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("stats cache get: %w", err)
	}
	var stats domain.Stats
	if err := json.Unmarshal(raw, &stats); err != nil {
		return nil, fmt.Errorf("stats cache decode: %w", err)
	}
	return &stats, nil
}

// Set stores the stats snapshot under the project key.
func (c *StatsCache) Set(ctx context.Context, projectID string, stats *domain.Stats) error {
	if c == nil || c.client == nil {
		return nil
	}
	raw, err := json.Marshal(stats)
	if err != nil {
		return fmt.Errorf("stats cache encode: %w", err)
	}
	if err := c.client.Set(ctx, c.key(projectID), raw, c.ttl).Err(); err != nil {
		return fmt.Errorf("stats cache set: %w", err)
	}
	return nil
}

// Invalidate drops the project's snapshot after a mutation.
func (c *StatsCache) Invalidate(ctx context.Context, projectID string) error {
	if c == nil || c.client == nil {
		return nil
	}
	if err := c.client.Del(ctx, c.key(projectID)).Err(); err != nil {
		return fmt.Errorf("stats cache invalidate: %w", err)
	}
	return nil
}

func (c *StatsCache) key(projectID string) string {
	return statsKeyPrefix + projectID
}
