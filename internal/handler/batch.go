package handler

import (
	"net/http"
	"strconv"

	"github.com/ultramarket/recommendation-engine/internal/domain"
	"github.com/ultramarket/recommendation-engine/internal/service"
)

// BatchHandler precomputes recommendations for a page of users.
type BatchHandler struct {
	service *service.Service
	pager   service.UserPager
}

func NewBatchHandler(svc *service.Service, pager service.UserPager) *BatchHandler {
	return &BatchHandler{service: svc, pager: pager}
}

// GET /recommendations/batch
func (h *BatchHandler) GetBatchRecommendations(w http.ResponseWriter, r *http.Request) {
	// Parse and validate page
	page := 1
	if pageStr := r.URL.Query().Get("page"); pageStr != "" {
		parsed, err := strconv.Atoi(pageStr)
		if err != nil || parsed < 1 || parsed > 10000 {
			writeError(w, http.StatusBadRequest, "invalid_parameter", "Invalid page parameter")
			return
		}
		page = parsed
	}

	// Parse and validate limit
	limit := 20
	if limitStr := r.URL.Query().Get("limit"); limitStr != "" {
		parsed, err := strconv.Atoi(limitStr)
		if err != nil || parsed < 1 || parsed > 100 {
			writeError(w, http.StatusBadRequest, "invalid_parameter", "Invalid limit parameter")
			return
		}
		limit = parsed
	}

	recType := domain.TypePersonalized
	if typeStr := r.URL.Query().Get("type"); typeStr != "" {
		recType = domain.RecType(typeStr)
		if !recType.Valid() {
			writeError(w, http.StatusBadRequest, "invalid_parameter", "Invalid type parameter")
			return
		}
	}

	result, err := h.service.GetBatchRecommendations(r.Context(), h.pager, recType, page, limit)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal_error", "An unexpected error occurred")
		return
	}

	writeJSON(w, http.StatusOK, result)
}
