package handler

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/ultramarket/recommendation-engine/internal/domain"
	"go.uber.org/zap"
)

// POST /recommendations
func (h *Handler) GetRecommendations(w http.ResponseWriter, r *http.Request) {
	var req domain.RecommendationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_body", "Request body must be valid JSON")
		return
	}

	results, err := h.service.GetRecommendations(r.Context(), req)
	if err != nil {
		if domain.IsValidationError(err) {
			writeError(w, http.StatusBadRequest, "validation_error", err.Error())
			return
		}
		if errors.Is(err, domain.ErrUserNotFound) {
			writeError(w, http.StatusNotFound, "user_not_found",
				fmt.Sprintf("User with ID %s does not exist", req.UserID))
			return
		}
		if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
			writeError(w, http.StatusServiceUnavailable, "request_timeout",
				"Request timed out, please try again")
			return
		}
		writeError(w, http.StatusInternalServerError, "internal_error", "An unexpected error occurred")
		return
	}

	writeJSON(w, http.StatusOK, RecommendationResponse{
		UserID:          req.UserID,
		Type:            req.Type,
		Recommendations: results,
		Metadata: Meta{
			GeneratedAt: time.Now().UTC().Format(time.RFC3339),
			TotalCount:  len(results),
		},
	})
}

// POST /models/train
//
// Training is long-running, so the run happens in the background; the
// single-writer guard turns overlapping triggers into logged no-ops.
func (h *Handler) TrainModels(w http.ResponseWriter, r *http.Request) {
	go func() {
		if err := h.service.TrainModels(context.Background()); err != nil {
			if !errors.Is(err, domain.ErrTrainingInProgress) {
				h.logger.Error("training run failed", zap.Error(err))
			}
		}
	}()

	writeJSON(w, http.StatusAccepted, TrainResponse{Status: "training_started"})
}
