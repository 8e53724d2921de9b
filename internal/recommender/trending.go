package recommender

import (
	"context"

	"github.com/ultramarket/recommendation-engine/internal/domain"
	"github.com/ultramarket/recommendation-engine/internal/feed"
	"go.uber.org/zap"
)

const (
	trendingFeedSize = 50

	trendingWeight  = 0.4
	relevanceWeight = 0.6
)

// Trending combines the externally maintained trending feed with a
// per-user relevance score.
type Trending struct {
	feed   feed.RankedFeed
	logger *zap.Logger
}

func NewTrending(rankedFeed feed.RankedFeed, logger *zap.Logger) *Trending {
	return &Trending{feed: rankedFeed, logger: logger}
}

func (r *Trending) Type() domain.RecType { return domain.TypeTrending }

func (r *Trending) Score(ctx context.Context, profile *domain.UserProfile, candidates []domain.ProductFeatures, req domain.RecommendationRequest) ([]domain.RecommendationResult, error) {
	entries, err := r.feed.TopN(ctx, feed.TrendingKey, trendingFeedSize)
	if err != nil {
		r.logger.Warn("trending feed read failed, degrading to empty result", zap.Error(err))
		return nil, nil
	}

	byID := make(map[string]domain.ProductFeatures, len(candidates))
	for _, c := range candidates {
		byID[c.ProductID] = c
	}

	results := make([]domain.RecommendationResult, 0, len(entries))
	for _, entry := range entries {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		product, ok := byID[entry.ID]
		if !ok {
			continue
		}

		rel := relevance(profile, product)
		combined := clamp01(relevanceWeight*rel + trendingWeight*entry.Score)
		results = append(results, domain.RecommendationResult{
			ProductID:  product.ProductID,
			Score:      round3(combined),
			Reason:     "trending now",
			Confidence: round3(rel),
			Type:       domain.TypeTrending,
			Metadata: domain.ResultMetadata{
				Algorithm:   "trending",
				Factors:     []string{"trending_score", "profile_relevance"},
				Explanation: "popularity velocity blended with your preferences",
			},
		})
	}

	return sortAndTruncate(results, req.Limit), nil
}

// relevance awards 0.3 for a category match, 0.2 for a brand match, 0.3 for
// price inside the preferred range, and up to 0.2 proportional to the
// preferred-feature overlap, capped at 1.0.
func relevance(profile *domain.UserProfile, product domain.ProductFeatures) float64 {
	score := 0.0
	if profile.Preferences.Categories.Has(product.Category) {
		score += 0.3
	}
	if profile.Preferences.Brands.Has(product.Brand) {
		score += 0.2
	}
	if profile.Preferences.PriceRange.Contains(product.Price) {
		score += 0.3
	}
	score += 0.2 * featureOverlap(profile.Preferences.Features, product.Features)
	if score > 1 {
		score = 1
	}
	return score
}

// featureOverlap is the fraction of the user's preferred features present on
// the product; 0 when the user has no feature preferences.
func featureOverlap(preferred domain.StringSet, productFeatures []string) float64 {
	if len(preferred) == 0 {
		return 0
	}
	matched := 0
	for _, f := range productFeatures {
		if preferred.Has(f) {
			matched++
		}
	}
	return float64(matched) / float64(len(preferred))
}
