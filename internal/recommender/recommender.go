// Package recommender implements the five scoring strategies and the final
// ranking aggregation.
package recommender

import (
	"context"
	"math"
	"sort"

	"github.com/ultramarket/recommendation-engine/internal/domain"
)

// Recommender is the common strategy contract: score the candidate pool for
// a profile and return at most req.Limit results, best first.
type Recommender interface {
	Type() domain.RecType
	Score(ctx context.Context, profile *domain.UserProfile, candidates []domain.ProductFeatures, req domain.RecommendationRequest) ([]domain.RecommendationResult, error)
}

func sortAndTruncate(results []domain.RecommendationResult, limit int) []domain.RecommendationResult {
	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Score > results[j].Score
	})
	if limit > 0 && len(results) > limit {
		results = results[:limit]
	}
	return results
}

func clamp01(v float64) float64 {
	return math.Max(0, math.Min(1, v))
}

func round3(v float64) float64 {
	return math.Round(v*1000) / 1000
}
