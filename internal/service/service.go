package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/ultramarket/recommendation-engine/internal/domain"
	"github.com/ultramarket/recommendation-engine/internal/recommender"
	"go.uber.org/zap"
)

const (
	defaultLimit = 10
	maxLimit     = 50
)

type ProfileSource interface {
	GetProfile(ctx context.Context, userID string) (*domain.UserProfile, error)
}

type CandidateSource interface {
	Candidates(ctx context.Context, filters *domain.ProductFilters) ([]domain.ProductFeatures, error)
}

type Trainer interface {
	TrainAll(ctx context.Context) error
}

type EventRecorder interface {
	Record(userID string, req domain.RecommendationRequest, results []domain.RecommendationResult)
}

// Service orchestrates a recommendation request: validate, load profile and
// candidates, dispatch to the requested strategy, aggregate, track.
type Service struct {
	profiles     ProfileSource
	catalog      CandidateSource
	recommenders map[domain.RecType]recommender.Recommender
	aggregator   *recommender.Aggregator
	tracker      EventRecorder
	trainer      Trainer
	logger       *zap.Logger
}

func NewService(
	profiles ProfileSource,
	catalog CandidateSource,
	recommenders []recommender.Recommender,
	aggregator *recommender.Aggregator,
	tracker EventRecorder,
	trainer Trainer,
	logger *zap.Logger,
) *Service {
	byType := make(map[domain.RecType]recommender.Recommender, len(recommenders))
	for _, r := range recommenders {
		byType[r.Type()] = r
	}
	return &Service{
		profiles:     profiles,
		catalog:      catalog,
		recommenders: byType,
		aggregator:   aggregator,
		tracker:      tracker,
		trainer:      trainer,
		logger:       logger,
	}
}

func (s *Service) GetRecommendations(ctx context.Context, req domain.RecommendationRequest) ([]domain.RecommendationResult, error) {
	if req.UserID == "" {
		return nil, &domain.ValidationError{Field: "user_id", Msg: "must not be empty"}
	}
	if !req.Type.Valid() {
		return nil, &domain.ValidationError{Field: "type", Msg: "unknown recommendation type " + string(req.Type)}
	}
	if req.Limit <= 0 {
		req.Limit = defaultLimit
	} else if req.Limit > maxLimit {
		req.Limit = maxLimit
	}

	profile, err := s.profiles.GetProfile(ctx, req.UserID)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, err
		}
		// Degrade to an empty profile so the request can still be served.
		s.logger.Warn("profile build failed, using defaults",
			zap.String("user_id", req.UserID), zap.Error(err))
		profile = domain.NewUserProfile(req.UserID)
	}

	candidates, err := s.catalog.Candidates(ctx, req.Filters)
	if err != nil {
		s.logger.Warn("candidate fetch failed",
			zap.String("user_id", req.UserID), zap.Error(err))
		candidates = nil
	}

	strategy, ok := s.recommenders[req.Type]
	if !ok {
		return nil, fmt.Errorf("no recommender registered for type %s", req.Type)
	}
	scored, err := strategy.Score(ctx, profile, candidates, req)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		s.logger.Warn("strategy failed, degrading to empty result",
			zap.String("user_id", req.UserID),
			zap.String("type", string(req.Type)),
			zap.Error(err))
		scored = nil
	}

	final := s.aggregator.Finalize(ctx, scored, req.Limit)
	s.tracker.Record(req.UserID, req, final)
	return final, nil
}

// TrainModels triggers a training run for all managed models. Guarded: a
// call while a run is active is a logged no-op.
func (s *Service) TrainModels(ctx context.Context) error {
	err := s.trainer.TrainAll(ctx)
	if errors.Is(err, domain.ErrTrainingInProgress) {
		s.logger.Warn("train request ignored, training already running")
	}
	return err
}
