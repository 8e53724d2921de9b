package repository

import (
	"context"
	"fmt"

	"github.com/ultramarket/recommendation-engine/internal/domain"
)

// RecentEvents returns up to take of the user's most recent analytics
// events, newest first.
func (r *Repository) RecentEvents(ctx context.Context, userID string, take int) ([]domain.AnalyticsEvent, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, user_id, event_type, COALESCE(product_id, ''), COALESCE(query, ''), created_at
		 FROM analytics_events
		 WHERE user_id = $1
		 ORDER BY created_at DESC
		 LIMIT $2`,
		userID, take,
	)
	if err != nil {
		return nil, fmt.Errorf("query analytics events for user %s: %w", userID, err)
	}
	defer rows.Close()

	var events []domain.AnalyticsEvent
	for rows.Next() {
		var ev domain.AnalyticsEvent
		err := rows.Scan(&ev.ID, &ev.UserID, &ev.EventType, &ev.ProductID, &ev.Query, &ev.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("scan analytics event: %w", err)
		}
		events = append(events, ev)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate over analytics events: %w", err)
	}
	return events, nil
}
