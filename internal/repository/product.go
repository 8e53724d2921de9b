package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/ultramarket/recommendation-engine/internal/domain"
)

// Products returns catalog products matching the filters, most popular
// first.
func (r *Repository) Products(ctx context.Context, filters domain.ProductFilters) ([]domain.ProductFeatures, error) {
	var (
		clauses []string
		args    []any
	)
	if filters.Category != "" {
		args = append(args, filters.Category)
		clauses = append(clauses, fmt.Sprintf("category = $%d", len(args)))
	}
	if filters.Brand != "" {
		args = append(args, filters.Brand)
		clauses = append(clauses, fmt.Sprintf("brand = $%d", len(args)))
	}
	if filters.MaxPrice > 0 {
		args = append(args, filters.MaxPrice)
		clauses = append(clauses, fmt.Sprintf("price <= $%d", len(args)))
	}

	where := ""
	if len(clauses) > 0 {
		where = "WHERE " + strings.Join(clauses, " AND ")
	}
	args = append(args, filters.Limit)

	rows, err := r.pool.Query(ctx, fmt.Sprintf(
		`SELECT id, category, brand, price, features, tags, popularity, rating, review_count
		 FROM products
		 %s
		 ORDER BY popularity DESC
		 LIMIT $%d`, where, len(args)),
		args...,
	)
	if err != nil {
		return nil, fmt.Errorf("query products: %w", err)
	}
	defer rows.Close()

	var products []domain.ProductFeatures
	for rows.Next() {
		var p domain.ProductFeatures
		err := rows.Scan(&p.ProductID, &p.Category, &p.Brand, &p.Price,
			&p.Features, &p.Tags, &p.Popularity, &p.Rating, &p.ReviewCount)
		if err != nil {
			return nil, fmt.Errorf("scan product: %w", err)
		}
		products = append(products, p)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate over products: %w", err)
	}
	return products, nil
}

// InStock reports stock availability for the given product ids.
func (r *Repository) InStock(ctx context.Context, productIDs []string) (map[string]bool, error) {
	if len(productIDs) == 0 {
		return map[string]bool{}, nil
	}

	rows, err := r.pool.Query(ctx,
		`SELECT id, stock > 0 FROM products WHERE id = ANY($1)`,
		productIDs,
	)
	if err != nil {
		return nil, fmt.Errorf("query stock: %w", err)
	}
	defer rows.Close()

	stock := make(map[string]bool, len(productIDs))
	for rows.Next() {
		var (
			id        string
			available bool
		)
		if err := rows.Scan(&id, &available); err != nil {
			return nil, fmt.Errorf("scan stock row: %w", err)
		}
		stock[id] = available
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate over stock rows: %w", err)
	}
	return stock, nil
}
