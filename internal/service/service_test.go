package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ultramarket/recommendation-engine/internal/domain"
	"github.com/ultramarket/recommendation-engine/internal/recommender"
	"go.uber.org/zap"
)

type fakeProfiles struct {
	profile *domain.UserProfile
	err     error
}

func (f *fakeProfiles) GetProfile(ctx context.Context, userID string) (*domain.UserProfile, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.profile, nil
}

type fakeCatalog struct {
	products []domain.ProductFeatures
	err      error
}

func (f *fakeCatalog) Candidates(ctx context.Context, filters *domain.ProductFilters) ([]domain.ProductFeatures, error) {
	return f.products, f.err
}

type fakeRecommender struct {
	recType domain.RecType
	results []domain.RecommendationResult
	err     error
	calls   int
}

func (f *fakeRecommender) Type() domain.RecType { return f.recType }

func (f *fakeRecommender) Score(ctx context.Context, profile *domain.UserProfile, candidates []domain.ProductFeatures, req domain.RecommendationRequest) ([]domain.RecommendationResult, error) {
	f.calls++
	return f.results, f.err
}

type fakeRecorder struct {
	events int
}

func (f *fakeRecorder) Record(userID string, req domain.RecommendationRequest, results []domain.RecommendationResult) {
	f.events++
}

type fakeTrainer struct {
	err   error
	calls int
}

func (f *fakeTrainer) TrainAll(ctx context.Context) error {
	f.calls++
	return f.err
}

func newTestService(rec *fakeRecommender, recorder *fakeRecorder, trainer *fakeTrainer) *Service {
	profiles := &fakeProfiles{profile: domain.NewUserProfile("u1")}
	catalog := &fakeCatalog{products: []domain.ProductFeatures{{ProductID: "p1"}}}
	aggregator := recommender.NewAggregator(nil, zap.NewNop())
	return NewService(profiles, catalog, []recommender.Recommender{rec}, aggregator, recorder, trainer, zap.NewNop())
}

func trendingResults() []domain.RecommendationResult {
	return []domain.RecommendationResult{
		{ProductID: "p1", Score: 0.9, Type: domain.TypeTrending},
		{ProductID: "p2", Score: 0.7, Type: domain.TypeTrending},
	}
}

func TestGetRecommendationsDispatchesAndTracks(t *testing.T) {
	rec := &fakeRecommender{recType: domain.TypeTrending, results: trendingResults()}
	recorder := &fakeRecorder{}
	svc := newTestService(rec, recorder, &fakeTrainer{})

	results, err := svc.GetRecommendations(context.Background(), domain.RecommendationRequest{
		UserID: "u1",
		Type:   domain.TypeTrending,
		Limit:  10,
	})
	require.NoError(t, err)

	assert.Len(t, results, 2)
	assert.Equal(t, 1, rec.calls)
	assert.Equal(t, 1, recorder.events)
}

func TestGetRecommendationsUnknownType(t *testing.T) {
	rec := &fakeRecommender{recType: domain.TypeTrending, results: trendingResults()}
	recorder := &fakeRecorder{}
	svc := newTestService(rec, recorder, &fakeTrainer{})

	_, err := svc.GetRecommendations(context.Background(), domain.RecommendationRequest{
		UserID: "u1",
		Type:   "unknown",
	})

	assert.True(t, domain.IsValidationError(err))
	assert.Zero(t, rec.calls, "no strategy invoked")
	assert.Zero(t, recorder.events, "no event recorded")
}

func TestGetRecommendationsEmptyUserID(t *testing.T) {
	svc := newTestService(&fakeRecommender{recType: domain.TypeTrending}, &fakeRecorder{}, &fakeTrainer{})

	_, err := svc.GetRecommendations(context.Background(), domain.RecommendationRequest{
		Type: domain.TypeTrending,
	})
	assert.True(t, domain.IsValidationError(err))
}

func TestGetRecommendationsUserNotFound(t *testing.T) {
	rec := &fakeRecommender{recType: domain.TypeTrending}
	svc := NewService(
		&fakeProfiles{err: domain.ErrUserNotFound},
		&fakeCatalog{},
		[]recommender.Recommender{rec},
		recommender.NewAggregator(nil, zap.NewNop()),
		&fakeRecorder{},
		&fakeTrainer{},
		zap.NewNop(),
	)

	_, err := svc.GetRecommendations(context.Background(), domain.RecommendationRequest{
		UserID: "ghost",
		Type:   domain.TypeTrending,
	})
	assert.ErrorIs(t, err, domain.ErrUserNotFound)
}

func TestGetRecommendationsProfileFailureDegrades(t *testing.T) {
	rec := &fakeRecommender{recType: domain.TypeTrending, results: trendingResults()}
	recorder := &fakeRecorder{}
	svc := NewService(
		&fakeProfiles{err: errors.New("cache and database down")},
		&fakeCatalog{products: []domain.ProductFeatures{{ProductID: "p1"}}},
		[]recommender.Recommender{rec},
		recommender.NewAggregator(nil, zap.NewNop()),
		recorder,
		&fakeTrainer{},
		zap.NewNop(),
	)

	results, err := svc.GetRecommendations(context.Background(), domain.RecommendationRequest{
		UserID: "u1",
		Type:   domain.TypeTrending,
	})
	require.NoError(t, err)
	assert.Len(t, results, 2)
}

func TestGetRecommendationsStrategyFailureDegrades(t *testing.T) {
	rec := &fakeRecommender{recType: domain.TypeTrending, err: errors.New("feed down")}
	recorder := &fakeRecorder{}
	svc := newTestService(rec, recorder, &fakeTrainer{})

	results, err := svc.GetRecommendations(context.Background(), domain.RecommendationRequest{
		UserID: "u1",
		Type:   domain.TypeTrending,
	})
	require.NoError(t, err)
	assert.Empty(t, results)
	assert.Equal(t, 1, recorder.events)
}

func TestGetRecommendationsClampsLimit(t *testing.T) {
	var got int
	rec := &fakeRecommender{recType: domain.TypeTrending}
	svc := NewService(
		&fakeProfiles{profile: domain.NewUserProfile("u1")},
		&fakeCatalog{},
		[]recommender.Recommender{rec},
		recommender.NewAggregator(nil, zap.NewNop()),
		&fakeRecorder{},
		&fakeTrainer{},
		zap.NewNop(),
	)

	// limit 0 -> default
	_, err := svc.GetRecommendations(context.Background(), domain.RecommendationRequest{
		UserID: "u1", Type: domain.TypeTrending,
	})
	require.NoError(t, err)

	// over max -> clamped; observed through a strategy that echoes the limit
	echo := &fakeRecommender{recType: domain.TypeCollaborative}
	svc = NewService(
		&fakeProfiles{profile: domain.NewUserProfile("u1")},
		&fakeCatalog{},
		[]recommender.Recommender{echoLimit(echo, &got)},
		recommender.NewAggregator(nil, zap.NewNop()),
		&fakeRecorder{},
		&fakeTrainer{},
		zap.NewNop(),
	)
	_, err = svc.GetRecommendations(context.Background(), domain.RecommendationRequest{
		UserID: "u1", Type: domain.TypeCollaborative, Limit: 500,
	})
	require.NoError(t, err)
	assert.Equal(t, maxLimit, got)
}

type limitEcho struct {
	inner *fakeRecommender
	out   *int
}

func echoLimit(inner *fakeRecommender, out *int) recommender.Recommender {
	return &limitEcho{inner: inner, out: out}
}

func (l *limitEcho) Type() domain.RecType { return l.inner.recType }

func (l *limitEcho) Score(ctx context.Context, profile *domain.UserProfile, candidates []domain.ProductFeatures, req domain.RecommendationRequest) ([]domain.RecommendationResult, error) {
	*l.out = req.Limit
	return l.inner.Score(ctx, profile, candidates, req)
}

func TestTrainModelsDelegates(t *testing.T) {
	trainer := &fakeTrainer{}
	svc := newTestService(&fakeRecommender{recType: domain.TypeTrending}, &fakeRecorder{}, trainer)

	require.NoError(t, svc.TrainModels(context.Background()))
	assert.Equal(t, 1, trainer.calls)
}

func TestTrainModelsInProgressIsNoop(t *testing.T) {
	trainer := &fakeTrainer{err: domain.ErrTrainingInProgress}
	svc := newTestService(&fakeRecommender{recType: domain.TypeTrending}, &fakeRecorder{}, trainer)

	err := svc.TrainModels(context.Background())
	assert.ErrorIs(t, err, domain.ErrTrainingInProgress)
}
