// Package feed reads the externally maintained ranked feeds: the global
// trending feed and the per-user similar-user feeds. Any store with ordered
// top-N retrieval can back the interface; the production implementation uses
// Redis sorted sets.
package feed

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
)

const TrendingKey = "feed:trending"

func SimilarUsersKey(userID string) string {
	return fmt.Sprintf("feed:similar-users:%s", userID)
}

type RankedEntry struct {
	ID    string
	Score float64
}

// RankedFeed returns the top n entries of a ranked feed, best first.
type RankedFeed interface {
	TopN(ctx context.Context, key string, n int) ([]RankedEntry, error)
}

// RedisFeed reads ranked feeds from Redis sorted sets.
type RedisFeed struct {
	client *redis.Client
}

func NewRedisFeed(client *redis.Client) *RedisFeed {
	return &RedisFeed{client: client}
}

func (f *RedisFeed) TopN(ctx context.Context, key string, n int) ([]RankedEntry, error) {
	members, err := f.client.ZRevRangeWithScores(ctx, key, 0, int64(n-1)).Result()
	if err != nil {
		return nil, fmt.Errorf("read ranked feed %s: %w", key, err)
	}
	entries := make([]RankedEntry, 0, len(members))
	for _, m := range members {
		id, ok := m.Member.(string)
		if !ok {
			continue
		}
		entries = append(entries, RankedEntry{ID: id, Score: m.Score})
	}
	return entries, nil
}
