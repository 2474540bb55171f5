package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/taskboard-io/taskboard-backend/internal/projects/domain"
)

// Key prefix for cached project lists: projects:list:{watermark}
const listKeyPrefix = "projects:list:"

// ListCache is a read-through cache for the full project index. The key
// encodes the updated_at watermark, so any mutation that advances it makes the
// next read miss without an explicit invalidation call. Stale entries fall out
// via the Redis key TTL.
type ListCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewListCache(client *redis.Client, ttl time.Duration) *ListCache {
	return &ListCache{client: client, ttl: ttl}
}

// Get returns the payload cached for the given watermark, if any.
func (c *ListCache) Get(ctx context.Context, watermark time.Time) ([]domain.Project, bool, error) {
	data, err := c.client.Get(ctx, listKey(watermark)).Bytes()
	if err == redis.Nil {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("cache get: %w", err)
	}

	var projects []domain.Project
	if err := json.Unmarshal(data, &projects); err != nil {
		// A corrupt entry behaves like a miss; the next Set overwrites it.
		return nil, false, fmt.Errorf("cache decode: %w", err)
	}
	return projects, true, nil
}

// Set stores the payload under the watermark's key with the configured TTL.
// Concurrent setters at the same watermark write identical payloads, so last
// write wins without coordination.
func (c *ListCache) Set(ctx context.Context, watermark time.Time, projects []domain.Project) error {
	data, err := json.Marshal(projects)
	if err != nil {
		return fmt.Errorf("cache encode: %w", err)
	}
	if err := c.client.Set(ctx, listKey(watermark), data, c.ttl).Err(); err != nil {
		return fmt.Errorf("cache set: %w", err)
	}
	return nil
}

func listKey(watermark time.Time) string {
	if watermark.IsZero() {
		return listKeyPrefix + "empty"
	}
	return listKeyPrefix + strconv.FormatInt(watermark.UnixNano(), 10)
}
