package recommender

import (
	"context"

	"github.com/ultramarket/recommendation-engine/internal/domain"
	"go.uber.org/zap"
)

// InventoryFilter reports which of the given products are purchasable.
type InventoryFilter interface {
	InStock(ctx context.Context, productIDs []string) (map[string]bool, error)
}

// Aggregator applies business filters and the final ranking invariants:
// deduplicated by product, sorted descending by score, truncated to the
// requested limit, scores clamped to [0, 1].
type Aggregator struct {
	inventory InventoryFilter
	logger    *zap.Logger
}

func NewAggregator(inventory InventoryFilter, logger *zap.Logger) *Aggregator {
	return &Aggregator{inventory: inventory, logger: logger}
}

func (a *Aggregator) Finalize(ctx context.Context, results []domain.RecommendationResult, limit int) []domain.RecommendationResult {
	results = a.filterStock(ctx, results)

	for i := range results {
		results[i].Score = clamp01(results[i].Score)
	}
	// Sort before deduplicating so the best entry per product survives.
	results = sortAndTruncate(results, 0)

	deduped := make([]domain.RecommendationResult, 0, len(results))
	seen := make(map[string]bool, len(results))
	for _, r := range results {
		if seen[r.ProductID] {
			continue
		}
		seen[r.ProductID] = true
		deduped = append(deduped, r)
	}

	if limit > 0 && len(deduped) > limit {
		deduped = deduped[:limit]
	}
	return deduped
}

// filterStock drops out-of-stock products. An inventory failure keeps the
// full list rather than emptying the response.
func (a *Aggregator) filterStock(ctx context.Context, results []domain.RecommendationResult) []domain.RecommendationResult {
	if a.inventory == nil || len(results) == 0 {
		return results
	}

	ids := make([]string, 0, len(results))
	for _, r := range results {
		ids = append(ids, r.ProductID)
	}
	stock, err := a.inventory.InStock(ctx, ids)
	if err != nil {
		a.logger.Warn("inventory check failed, skipping stock filter", zap.Error(err))
		return results
	}

	filtered := results[:0]
	for _, r := range results {
		if stock[r.ProductID] {
			filtered = append(filtered, r)
		}
	}
	return filtered
}
