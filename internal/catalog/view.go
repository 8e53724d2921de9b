// Package catalog exposes a read-only filtered view over the product
// catalog; it never mutates product data.
package catalog

import (
	"context"

	"github.com/ultramarket/recommendation-engine/internal/domain"
)

const defaultPoolSize = 200

type ProductSource interface {
	Products(ctx context.Context, filters domain.ProductFilters) ([]domain.ProductFeatures, error)
}

type View struct {
	source ProductSource
}

func NewView(source ProductSource) *View {
	return &View{source: source}
}

// Candidates returns the filtered catalog subset considered for scoring.
// A nil filter yields the default candidate pool.
func (v *View) Candidates(ctx context.Context, filters *domain.ProductFilters) ([]domain.ProductFeatures, error) {
	f := domain.ProductFilters{}
	if filters != nil {
		f = *filters
	}
	if f.Limit <= 0 {
		f.Limit = defaultPoolSize
	}
	return v.source.Products(ctx, f)
}
