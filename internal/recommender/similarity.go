package recommender

import (
	"context"

	"github.com/ultramarket/recommendation-engine/internal/domain"
	"github.com/ultramarket/recommendation-engine/internal/vectorizer"
	"go.uber.org/zap"
)

const similarityThreshold = 0.3

// Similarity ranks candidates by cosine similarity of their feature vectors
// to the anchor product from the request context.
type Similarity struct {
	logger *zap.Logger
}

func NewSimilarity(logger *zap.Logger) *Similarity {
	return &Similarity{logger: logger}
}

func (r *Similarity) Type() domain.RecType { return domain.TypeSimilar }

func (r *Similarity) Score(ctx context.Context, profile *domain.UserProfile, candidates []domain.ProductFeatures, req domain.RecommendationRequest) ([]domain.RecommendationResult, error) {
	anchorID := req.Context.CurrentProduct
	var anchor *domain.ProductFeatures
	for i := range candidates {
		if candidates[i].ProductID == anchorID {
			anchor = &candidates[i]
			break
		}
	}
	if anchor == nil {
		r.logger.Debug("anchor product absent from candidates",
			zap.String("product_id", anchorID))
		return nil, nil
	}
	anchorVec := vectorizer.ProductVector(*anchor)

	results := make([]domain.RecommendationResult, 0, len(candidates))
	for _, product := range candidates {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if product.ProductID == anchorID {
			continue
		}

		sim := vectorizer.CosineSimilarity(anchorVec, vectorizer.ProductVector(product))
		if sim <= similarityThreshold {
			continue
		}

		results = append(results, domain.RecommendationResult{
			ProductID:  product.ProductID,
			Score:      round3(sim),
			Reason:     "similar to the product you are viewing",
			Confidence: round3(sim),
			Type:       domain.TypeSimilar,
			Metadata: domain.ResultMetadata{
				Algorithm:   "item-similarity",
				Factors:     []string{"cosine_similarity"},
				Explanation: "feature-vector similarity to " + anchorID,
			},
		})
	}

	return sortAndTruncate(results, req.Limit), nil
}
