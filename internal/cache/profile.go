package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/ultramarket/recommendation-engine/internal/domain"
)

// ProfileCache stores built user profiles in Redis with a TTL; expiry drives
// the lazy rebuild in the profile builder.
type ProfileCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewProfileCache(client *redis.Client, ttl time.Duration) *ProfileCache {
	return &ProfileCache{client: client, ttl: ttl}
}

func buildKey(userID string) string {
	return fmt.Sprintf("profile:user:%s", userID)
}

// Get returns the cached profile, or found=false on a miss.
func (c *ProfileCache) Get(ctx context.Context, userID string) (*domain.UserProfile, bool, error) {
	val, err := c.client.Get(ctx, buildKey(userID)).Result()
	if err == redis.Nil {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to get profile from cache: %w", err)
	}

	var profile domain.UserProfile
	if err := json.Unmarshal([]byte(val), &profile); err != nil {
		return nil, false, fmt.Errorf("failed to unmarshal profile %s: %w", userID, err)
	}
	return &profile, true, nil
}

// Set stores a profile. Concurrent rebuilds for the same user overwrite each
// other; the last write wins.
func (c *ProfileCache) Set(ctx context.Context, userID string, profile *domain.UserProfile) error {
	val, err := json.Marshal(profile)
	if err != nil {
		return fmt.Errorf("failed to marshal profile: %w", err)
	}
	if err := c.client.Set(ctx, buildKey(userID), val, c.ttl).Err(); err != nil {
		return fmt.Errorf("failed to set profile in cache: %w", err)
	}
	return nil
}

// Invalidate drops a user's cached profile: used when new orders land.
func (c *ProfileCache) Invalidate(ctx context.Context, userID string) error {
	if err := c.client.Del(ctx, buildKey(userID)).Err(); err != nil {
		return fmt.Errorf("cache delete %s: %w", userID, err)
	}
	return nil
}

// Ping connectivity
func (c *ProfileCache) Ping(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}
