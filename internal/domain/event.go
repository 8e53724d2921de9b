package domain

import "time"

// EventRecommendationShown is appended for every served recommendation list.
const EventRecommendationShown = "recommendation_shown"

type RecommendationEvent struct {
	ID            string         `json:"id"`
	Event         string         `json:"event"`
	UserID        string         `json:"user_id"`
	RequestedType RecType        `json:"requested_type"`
	ProductIDs    []string       `json:"product_ids"`
	Context       RequestContext `json:"context"`
	Timestamp     time.Time      `json:"timestamp"`
}
