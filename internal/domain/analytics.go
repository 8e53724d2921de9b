package domain

import "time"

// Analytics event types recorded by the storefront.
const (
	EventView    = "product_view"
	EventSearch  = "search"
	EventClick   = "click"
	EventCartAdd = "cart_add"
	EventLike    = "like"
	EventDislike = "dislike"
	EventReview  = "review"
)

type AnalyticsEvent struct {
	ID        int64     `json:"id"`
	UserID    string    `json:"user_id"`
	EventType string    `json:"event_type"`
	ProductID string    `json:"product_id,omitempty"`
	Query     string    `json:"query,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}
