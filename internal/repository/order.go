package repository

import (
	"context"
	"fmt"

	"github.com/ultramarket/recommendation-engine/internal/domain"
)

// RecentOrders returns up to take of the user's most recent orders, item
// attributes joined from the product catalog.
func (r *Repository) RecentOrders(ctx context.Context, userID string, take int) ([]domain.Order, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT o.id, o.user_id, o.created_at,
		        p.id, p.category, p.brand, oi.price, p.features
		 FROM orders o
		 JOIN order_items oi ON oi.order_id = o.id
		 JOIN products p ON p.id = oi.product_id
		 WHERE o.id IN (
		 	SELECT id FROM orders WHERE user_id = $1
		 	ORDER BY created_at DESC LIMIT $2
		 )
		 ORDER BY o.created_at DESC`,
		userID, take,
	)
	if err != nil {
		return nil, fmt.Errorf("query orders for user %s: %w", userID, err)
	}
	defer rows.Close()

	var orders []domain.Order
	index := make(map[string]int)
	for rows.Next() {
		var (
			order domain.Order
			item  domain.OrderItem
		)
		err := rows.Scan(&order.ID, &order.UserID, &order.CreatedAt,
			&item.ProductID, &item.Category, &item.Brand, &item.Price, &item.Features)
		if err != nil {
			return nil, fmt.Errorf("scan order row: %w", err)
		}

		i, ok := index[order.ID]
		if !ok {
			i = len(orders)
			index[order.ID] = i
			orders = append(orders, order)
		}
		orders[i].Items = append(orders[i].Items, item)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate over orders: %w", err)
	}
	return orders, nil
}

// PurchasedProductIDs returns every product id the user has ordered.
func (r *Repository) PurchasedProductIDs(ctx context.Context, userID string) ([]string, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT DISTINCT oi.product_id
		 FROM order_items oi
		 JOIN orders o ON o.id = oi.order_id
		 WHERE o.user_id = $1`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("query purchases for user %s: %w", userID, err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan product id: %w", err)
		}
		ids = append(ids, id)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate over purchases: %w", err)
	}
	return ids, nil
}
