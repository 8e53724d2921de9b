package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ultramarket/recommendation-engine/internal/domain"
	"github.com/ultramarket/recommendation-engine/internal/recommender"
	"go.uber.org/zap"
)

type fakePager struct {
	ids   []string
	total int
}

func (f *fakePager) UserIDs(ctx context.Context, page, limit int) ([]string, error) {
	return f.ids, nil
}

func (f *fakePager) CountUsers(ctx context.Context) (int, error) {
	return f.total, nil
}

func TestGetBatchRecommendations(t *testing.T) {
	rec := &fakeRecommender{recType: domain.TypeTrending, results: trendingResults()}
	svc := newTestService(rec, &fakeRecorder{}, &fakeTrainer{})
	pager := &fakePager{ids: []string{"u1", "u2", "u3"}, total: 20}

	resp, err := svc.GetBatchRecommendations(context.Background(), pager, domain.TypeTrending, 1, 3)
	require.NoError(t, err)

	assert.Equal(t, 20, resp.TotalUsers)
	assert.Equal(t, 3, resp.Summary.SuccessCount)
	assert.Zero(t, resp.Summary.FailedCount)
	require.Len(t, resp.Results, 3)
	for _, r := range resp.Results {
		assert.Equal(t, domain.StatusSuccess, r.Status)
		assert.Len(t, r.Recommendations, 2)
	}
}

func TestGetBatchRecommendationsCapturesFailures(t *testing.T) {
	rec := &fakeRecommender{recType: domain.TypeTrending, results: trendingResults()}
	svc := NewService(
		&fakeProfiles{err: domain.ErrUserNotFound},
		&fakeCatalog{},
		[]recommender.Recommender{rec},
		recommender.NewAggregator(nil, zap.NewNop()),
		&fakeRecorder{},
		&fakeTrainer{},
		zap.NewNop(),
	)
	pager := &fakePager{ids: []string{"ghost"}, total: 1}

	resp, err := svc.GetBatchRecommendations(context.Background(), pager, domain.TypeTrending, 1, 1)
	require.NoError(t, err)

	require.Len(t, resp.Results, 1)
	assert.Equal(t, domain.StatusFailed, resp.Results[0].Status)
	assert.Equal(t, "user_not_found", resp.Results[0].Error)
	assert.Equal(t, 1, resp.Summary.FailedCount)
}
