package recommender

import (
	"context"
	"errors"

	"github.com/ultramarket/recommendation-engine/internal/domain"
	"github.com/ultramarket/recommendation-engine/internal/vectorizer"
	"go.uber.org/zap"
)

const personalizedThreshold = 0.5

// Predictor scores feature vectors with a named managed model.
type Predictor interface {
	Predict(ctx context.Context, name string, features []float64) (float64, error)
}

// Personalized scores each candidate with the trained personalized model on
// the user‖product feature concatenation. An unavailable or timed-out model
// degrades to an empty result instead of failing the request.
type Personalized struct {
	models Predictor
	logger *zap.Logger
}

func NewPersonalized(models Predictor, logger *zap.Logger) *Personalized {
	return &Personalized{models: models, logger: logger}
}

func (r *Personalized) Type() domain.RecType { return domain.TypePersonalized }

func (r *Personalized) Score(ctx context.Context, profile *domain.UserProfile, candidates []domain.ProductFeatures, req domain.RecommendationRequest) ([]domain.RecommendationResult, error) {
	userVec := vectorizer.UserVector(profile)

	results := make([]domain.RecommendationResult, 0, len(candidates))
	for _, product := range candidates {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		features := vectorizer.Concat(userVec, vectorizer.ProductVector(product))
		score, err := r.models.Predict(ctx, "personalized", features)
		if err != nil {
			if errors.Is(err, domain.ErrModelUnavailable) ||
				errors.Is(err, context.DeadlineExceeded) {
				r.logger.Warn("personalized model unavailable, degrading to empty result",
					zap.String("user_id", profile.UserID), zap.Error(err))
				return nil, nil
			}
			return nil, err
		}
		if score <= personalizedThreshold {
			continue
		}

		results = append(results, domain.RecommendationResult{
			ProductID:  product.ProductID,
			Score:      round3(score),
			Reason:     "matches your preferences",
			Confidence: round3(score),
			Type:       domain.TypePersonalized,
			Metadata: domain.ResultMetadata{
				Algorithm:   "personalized-model",
				Factors:     []string{"model_score"},
				Explanation: "scored by the trained personalization model",
			},
		})
	}

	return sortAndTruncate(results, req.Limit), nil
}
