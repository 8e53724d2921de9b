package recommender

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/ultramarket/recommendation-engine/internal/domain"
	"github.com/ultramarket/recommendation-engine/internal/feed"
)

// fakeFeed serves ranked entries by key.
type fakeFeed struct {
	entries map[string][]feed.RankedEntry
	err     error
}

func (f *fakeFeed) TopN(ctx context.Context, key string, n int) ([]feed.RankedEntry, error) {
	if f.err != nil {
		return nil, f.err
	}
	entries := f.entries[key]
	if len(entries) > n {
		entries = entries[:n]
	}
	return entries, nil
}

// fakePurchases maps user id to purchased product ids.
type fakePurchases struct {
	byUser map[string][]string
	err    error
}

func (f *fakePurchases) PurchasedProductIDs(ctx context.Context, userID string) ([]string, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.byUser[userID], nil
}

func testProfile() *domain.UserProfile {
	p := domain.NewUserProfile("u1")
	p.Preferences.Categories.Add("electronics")
	p.Preferences.Brands.Add("artel")
	p.Preferences.PriceRange = domain.PriceRange{Min: 100, Max: 500}
	return p
}

// assertResultInvariants checks the properties every result list must hold:
// scores in [0,1], non-increasing order, no duplicates, length at most limit.
func assertResultInvariants(t *testing.T, results []domain.RecommendationResult, limit int) {
	t.Helper()
	assert.LessOrEqual(t, len(results), limit)
	seen := make(map[string]bool)
	for i, r := range results {
		assert.GreaterOrEqual(t, r.Score, 0.0)
		assert.LessOrEqual(t, r.Score, 1.0)
		assert.False(t, seen[r.ProductID], "duplicate product %s", r.ProductID)
		seen[r.ProductID] = true
		if i > 0 {
			assert.GreaterOrEqual(t, results[i-1].Score, r.Score)
		}
	}
}

func request(recType domain.RecType, limit int) domain.RecommendationRequest {
	return domain.RecommendationRequest{UserID: "u1", Type: recType, Limit: limit}
}
