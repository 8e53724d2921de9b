package handler

import "github.com/ultramarket/recommendation-engine/internal/domain"

type Meta struct {
	GeneratedAt string `json:"generated_at"`
	TotalCount  int    `json:"total_count"`
}

type RecommendationResponse struct {
	UserID          string                        `json:"user_id"`
	Type            domain.RecType                `json:"type"`
	Recommendations []domain.RecommendationResult `json:"recommendations"`
	Metadata        Meta                          `json:"metadata"`
}

type TrainResponse struct {
	Status string `json:"status"`
}

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}
