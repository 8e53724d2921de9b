package recommender

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ultramarket/recommendation-engine/internal/domain"
	"go.uber.org/zap"
)

type fakeInventory struct {
	stock map[string]bool
	err   error
}

func (f *fakeInventory) InStock(ctx context.Context, ids []string) (map[string]bool, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.stock, nil
}

func result(id string, score float64) domain.RecommendationResult {
	return domain.RecommendationResult{ProductID: id, Score: score, Type: domain.TypeTrending}
}

func TestFinalizeSortsDedupesAndTruncates(t *testing.T) {
	a := NewAggregator(nil, zap.NewNop())

	results := a.Finalize(context.Background(), []domain.RecommendationResult{
		result("p1", 0.4),
		result("p2", 0.9),
		result("p1", 0.7), // duplicate, higher score wins
		result("p3", 0.5),
	}, 2)

	require.Len(t, results, 2)
	assert.Equal(t, "p2", results[0].ProductID)
	assert.Equal(t, "p1", results[1].ProductID)
	assert.Equal(t, 0.7, results[1].Score)
	assertResultInvariants(t, results, 2)
}

func TestFinalizeClampsScores(t *testing.T) {
	a := NewAggregator(nil, zap.NewNop())

	results := a.Finalize(context.Background(), []domain.RecommendationResult{
		result("p1", 1.7),
		result("p2", -0.2),
	}, 10)

	require.Len(t, results, 2)
	assert.Equal(t, 1.0, results[0].Score)
	assert.Equal(t, 0.0, results[1].Score)
}

func TestFinalizeFiltersOutOfStock(t *testing.T) {
	inventory := &fakeInventory{stock: map[string]bool{"p1": true, "p2": false}}
	a := NewAggregator(inventory, zap.NewNop())

	results := a.Finalize(context.Background(), []domain.RecommendationResult{
		result("p1", 0.8),
		result("p2", 0.9),
	}, 10)

	require.Len(t, results, 1)
	assert.Equal(t, "p1", results[0].ProductID)
}

func TestFinalizeKeepsAllOnInventoryFailure(t *testing.T) {
	inventory := &fakeInventory{err: errors.New("inventory service down")}
	a := NewAggregator(inventory, zap.NewNop())

	results := a.Finalize(context.Background(), []domain.RecommendationResult{
		result("p1", 0.8),
		result("p2", 0.9),
	}, 10)

	assert.Len(t, results, 2)
}

func TestFinalizeEmptyInput(t *testing.T) {
	a := NewAggregator(nil, zap.NewNop())
	assert.Empty(t, a.Finalize(context.Background(), nil, 10))
}
