package repository

import (
	"context"
	"fmt"

	"github.com/ultramarket/recommendation-engine/internal/domain"
	"github.com/ultramarket/recommendation-engine/internal/model"
)

// FetchExamples builds the training set: purchases joined to product
// attributes as positives, views that never converted as negatives. User
// profiles are assembled from the purchase rows of the same batch.
func (r *Repository) FetchExamples(ctx context.Context, limit int) ([]model.Example, error) {
	half := limit / 2

	positives, err := r.fetchInteractions(ctx,
		`SELECT o.user_id, u.age, u.gender, u.location,
		        p.id, p.category, p.brand, p.price, p.features, p.tags,
		        p.popularity, p.rating, p.review_count
		 FROM order_items oi
		 JOIN orders o ON o.id = oi.order_id
		 JOIN users u ON u.id = o.user_id
		 JOIN products p ON p.id = oi.product_id
		 ORDER BY o.created_at DESC
		 LIMIT $1`, half)
	if err != nil {
		return nil, fmt.Errorf("fetch positive examples: %w", err)
	}

	negatives, err := r.fetchInteractions(ctx,
		`SELECT ae.user_id, u.age, u.gender, u.location,
		        p.id, p.category, p.brand, p.price, p.features, p.tags,
		        p.popularity, p.rating, p.review_count
		 FROM analytics_events ae
		 JOIN users u ON u.id = ae.user_id
		 JOIN products p ON p.id = ae.product_id
		 WHERE ae.event_type = 'product_view'
		   AND NOT EXISTS (
		   	SELECT 1 FROM order_items oi
		   	JOIN orders o ON o.id = oi.order_id
		   	WHERE o.user_id = ae.user_id AND oi.product_id = ae.product_id
		   )
		 ORDER BY ae.created_at DESC
		 LIMIT $1`, half)
	if err != nil {
		return nil, fmt.Errorf("fetch negative examples: %w", err)
	}

	profiles := buildProfiles(positives)

	examples := make([]model.Example, 0, len(positives)+len(negatives))
	for _, row := range positives {
		examples = append(examples, model.Example{
			Profile: profileFor(profiles, row),
			Product: row.product,
			Label:   1,
		})
	}
	for _, row := range negatives {
		examples = append(examples, model.Example{
			Profile: profileFor(profiles, row),
			Product: row.product,
			Label:   0,
		})
	}
	return examples, nil
}

type interactionRow struct {
	userID   string
	age      int
	gender   string
	location string
	product  domain.ProductFeatures
}

func (r *Repository) fetchInteractions(ctx context.Context, query string, limit int) ([]interactionRow, error) {
	rows, err := r.pool.Query(ctx, query, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []interactionRow
	for rows.Next() {
		var row interactionRow
		err := rows.Scan(&row.userID, &row.age, &row.gender, &row.location,
			&row.product.ProductID, &row.product.Category, &row.product.Brand,
			&row.product.Price, &row.product.Features, &row.product.Tags,
			&row.product.Popularity, &row.product.Rating, &row.product.ReviewCount)
		if err != nil {
			return nil, fmt.Errorf("scan interaction row: %w", err)
		}
		out = append(out, row)
	}
	return out, rows.Err()
}

// buildProfiles folds each user's purchase rows into a preference profile.
func buildProfiles(purchases []interactionRow) map[string]*domain.UserProfile {
	profiles := make(map[string]*domain.UserProfile)
	for _, row := range purchases {
		p, ok := profiles[row.userID]
		if !ok {
			p = domain.NewUserProfile(row.userID)
			p.Demographics = domain.Demographics{Age: row.age, Gender: row.gender, Location: row.location}
			profiles[row.userID] = p
		}

		p.Behavior.PurchaseHistory = append(p.Behavior.PurchaseHistory, row.product.ProductID)
		p.Preferences.Categories.Add(row.product.Category)
		p.Preferences.Brands.Add(row.product.Brand)
		for _, f := range row.product.Features {
			p.Preferences.Features.Add(f)
		}
		if len(p.Behavior.PurchaseHistory) == 1 {
			p.Preferences.PriceRange = domain.PriceRange{Min: row.product.Price, Max: row.product.Price}
		} else {
			if row.product.Price < p.Preferences.PriceRange.Min {
				p.Preferences.PriceRange.Min = row.product.Price
			}
			if row.product.Price > p.Preferences.PriceRange.Max {
				p.Preferences.PriceRange.Max = row.product.Price
			}
		}
	}
	return profiles
}

func profileFor(profiles map[string]*domain.UserProfile, row interactionRow) *domain.UserProfile {
	if p, ok := profiles[row.userID]; ok {
		return p
	}
	p := domain.NewUserProfile(row.userID)
	p.Demographics = domain.Demographics{Age: row.age, Gender: row.gender, Location: row.location}
	return p
}
