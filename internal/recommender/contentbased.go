package recommender

import (
	"context"

	"github.com/ultramarket/recommendation-engine/internal/domain"
	"go.uber.org/zap"
)

const contentBasedThreshold = 0.4

// ContentBased matches product attributes against the user's stated
// preferences, excluding already-purchased products.
type ContentBased struct {
	logger *zap.Logger
}

func NewContentBased(logger *zap.Logger) *ContentBased {
	return &ContentBased{logger: logger}
}

func (r *ContentBased) Type() domain.RecType { return domain.TypeContentBased }

func (r *ContentBased) Score(ctx context.Context, profile *domain.UserProfile, candidates []domain.ProductFeatures, req domain.RecommendationRequest) ([]domain.RecommendationResult, error) {
	results := make([]domain.RecommendationResult, 0, len(candidates))
	for _, product := range candidates {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if profile.HasPurchased(product.ProductID) {
			continue
		}

		categoryScore := boolScore(profile.Preferences.Categories.Has(product.Category))
		brandScore := boolScore(profile.Preferences.Brands.Has(product.Brand))
		priceScore := priceScore(profile.Preferences.PriceRange, product.Price)
		featureScore := featureOverlap(profile.Preferences.Features, product.Features)

		combined := 0.3*categoryScore + 0.2*brandScore + 0.2*priceScore + 0.3*featureScore
		if combined <= contentBasedThreshold {
			continue
		}

		results = append(results, domain.RecommendationResult{
			ProductID:  product.ProductID,
			Score:      round3(combined),
			Reason:     "matches what you usually buy",
			Confidence: round3(combined),
			Type:       domain.TypeContentBased,
			Metadata: domain.ResultMetadata{
				Algorithm:   "content-based-filtering",
				Factors:     []string{"category", "brand", "price", "features"},
				Explanation: "attribute match against your preference profile",
			},
		})
	}

	return sortAndTruncate(results, req.Limit), nil
}

// priceScore is 1 inside the preferred range and decays linearly with
// relative distance outside it, floored at 0.
func priceScore(r domain.PriceRange, price float64) float64 {
	if r.Contains(price) {
		return 1
	}
	if price < r.Min {
		if r.Min == 0 {
			return 0
		}
		return clamp01(1 - (r.Min-price)/r.Min)
	}
	if r.Max == 0 {
		return 0
	}
	return clamp01(1 - (price-r.Max)/r.Max)
}

func boolScore(match bool) float64 {
	if match {
		return 1
	}
	return 0
}
