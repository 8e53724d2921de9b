package recommender

import (
	"context"

	"github.com/ultramarket/recommendation-engine/internal/domain"
	"github.com/ultramarket/recommendation-engine/internal/feed"
	"go.uber.org/zap"
)

const similarUserCount = 20

// PurchaseSource returns the product ids a user has purchased.
type PurchaseSource interface {
	PurchasedProductIDs(ctx context.Context, userID string) ([]string, error)
}

// Collaborative recommends what similar users bought: per-product scores are
// the sum of contributing users' similarity, normalized by the number of
// similar users, with the requester's own purchases excluded.
type Collaborative struct {
	feed      feed.RankedFeed
	purchases PurchaseSource
	logger    *zap.Logger
}

func NewCollaborative(rankedFeed feed.RankedFeed, purchases PurchaseSource, logger *zap.Logger) *Collaborative {
	return &Collaborative{feed: rankedFeed, purchases: purchases, logger: logger}
}

func (r *Collaborative) Type() domain.RecType { return domain.TypeCollaborative }

func (r *Collaborative) Score(ctx context.Context, profile *domain.UserProfile, candidates []domain.ProductFeatures, req domain.RecommendationRequest) ([]domain.RecommendationResult, error) {
	similarUsers, err := r.feed.TopN(ctx, feed.SimilarUsersKey(profile.UserID), similarUserCount)
	if err != nil {
		r.logger.Warn("similar-user feed read failed, degrading to empty result",
			zap.String("user_id", profile.UserID), zap.Error(err))
		return nil, nil
	}
	if len(similarUsers) == 0 {
		return nil, nil
	}

	scores := make(map[string]float64)
	for _, similar := range similarUsers {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		purchased, err := r.purchases.PurchasedProductIDs(ctx, similar.ID)
		if err != nil {
			r.logger.Warn("purchase lookup failed for similar user",
				zap.String("user_id", similar.ID), zap.Error(err))
			continue
		}
		for _, productID := range purchased {
			scores[productID] += similar.Score
		}
	}

	norm := float64(len(similarUsers))
	results := make([]domain.RecommendationResult, 0, len(scores))
	for _, product := range candidates {
		raw, ok := scores[product.ProductID]
		if !ok {
			continue
		}
		if profile.HasPurchased(product.ProductID) {
			continue
		}

		score := clamp01(raw / norm)
		results = append(results, domain.RecommendationResult{
			ProductID:  product.ProductID,
			Score:      round3(score),
			Reason:     "popular with shoppers like you",
			Confidence: round3(score),
			Type:       domain.TypeCollaborative,
			Metadata: domain.ResultMetadata{
				Algorithm:   "user-collaborative-filtering",
				Factors:     []string{"similar_user_purchases"},
				Explanation: "bought by users with similar purchase behavior",
			},
		})
	}

	return sortAndTruncate(results, req.Limit), nil
}
