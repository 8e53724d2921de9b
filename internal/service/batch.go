package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/ultramarket/recommendation-engine/internal/domain"
	"go.uber.org/zap"
)

const (
	batchConcurrency = 10
	batchRecLimit    = 10
)

// UserPager pages through the user population for batch precomputation.
type UserPager interface {
	UserIDs(ctx context.Context, page, limit int) ([]string, error)
	CountUsers(ctx context.Context) (int, error)
}

// GetBatchRecommendations precomputes recommendation lists for one page of
// users with a bounded worker pool.
func (s *Service) GetBatchRecommendations(ctx context.Context, pager UserPager, recType domain.RecType, page, limit int) (*domain.BatchResponse, error) {
	start := time.Now()

	userIDs, err := pager.UserIDs(ctx, page, limit)
	if err != nil {
		return nil, fmt.Errorf("fetch user ids: %w", err)
	}

	totalUsers, err := pager.CountUsers(ctx)
	if err != nil {
		return nil, fmt.Errorf("count users: %w", err)
	}

	// Process users concurrently with bounded worker pool
	results := make([]domain.BatchUserResult, len(userIDs))
	var wg sync.WaitGroup
	sem := make(chan struct{}, batchConcurrency) // semaphore

	for i, userID := range userIDs {
		wg.Add(1)
		go func(idx int, uid string) {
			defer wg.Done()
			sem <- struct{}{}        // acquire
			defer func() { <-sem }() // release

			results[idx] = s.processUserForBatch(ctx, uid, recType)
		}(i, userID)
	}
	wg.Wait()

	successCount := 0
	failedCount := 0
	for _, r := range results {
		if r.Status == domain.StatusSuccess {
			successCount++
		} else {
			failedCount++
		}
	}

	return &domain.BatchResponse{
		Page:       page,
		Limit:      limit,
		TotalUsers: totalUsers,
		Results:    results,
		Summary: domain.BatchSummary{
			SuccessCount:     successCount,
			FailedCount:      failedCount,
			ProcessingTimeMs: time.Since(start).Milliseconds(),
		},
		Metadata: domain.BatchMeta{
			GeneratedAt: time.Now().UTC().Format(time.RFC3339),
		},
	}, nil
}

// Generates recommendations for a single user, capturing errors.
func (s *Service) processUserForBatch(ctx context.Context, userID string, recType domain.RecType) domain.BatchUserResult {
	results, err := s.GetRecommendations(ctx, domain.RecommendationRequest{
		UserID: userID,
		Type:   recType,
		Limit:  batchRecLimit,
	})
	if err != nil {
		s.logger.Warn("batch recommendation failed",
			zap.String("user_id", userID), zap.Error(err))
		code, msg := categorizeError(err)
		return domain.BatchUserResult{
			UserID:  userID,
			Status:  domain.StatusFailed,
			Error:   code,
			Message: msg,
		}
	}

	return domain.BatchUserResult{
		UserID:          userID,
		Recommendations: results,
		Status:          domain.StatusSuccess,
	}
}

func categorizeError(err error) (string, string) {
	if errors.Is(err, domain.ErrUserNotFound) {
		return "user_not_found", "user not found"
	}
	if domain.IsValidationError(err) {
		return "validation_error", err.Error()
	}
	return "internal_error", "an unexpected error occurred"
}
