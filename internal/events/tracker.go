// Package events records "recommendation shown" events for the feedback and
// training loop.
package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/ultramarket/recommendation-engine/internal/domain"
	"go.uber.org/zap"
)

const streamKey = "recommendations:events"

// Sink is the append-only recommendation-event log.
type Sink interface {
	Append(ctx context.Context, event domain.RecommendationEvent) error
}

// RedisSink appends events to a Redis stream.
type RedisSink struct {
	client *redis.Client
}

func NewRedisSink(client *redis.Client) *RedisSink {
	return &RedisSink{client: client}
}

func (s *RedisSink) Append(ctx context.Context, event domain.RecommendationEvent) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}
	err = s.client.XAdd(ctx, &redis.XAddArgs{
		Stream: streamKey,
		Values: map[string]any{"event": string(payload)},
	}).Err()
	if err != nil {
		return fmt.Errorf("append event to stream: %w", err)
	}
	return nil
}

// Tracker appends recommendation_shown events fire-and-forget: failures are
// logged and never block or fail the response, and appended events are not
// rolled back if the caller disconnects.
type Tracker struct {
	sink    Sink
	logger  *zap.Logger
	timeout time.Duration
}

func NewTracker(sink Sink, logger *zap.Logger) *Tracker {
	return &Tracker{sink: sink, logger: logger, timeout: 2 * time.Second}
}

// Record builds and appends a recommendation_shown event asynchronously.
func (t *Tracker) Record(userID string, req domain.RecommendationRequest, results []domain.RecommendationResult) {
	productIDs := make([]string, 0, len(results))
	for _, r := range results {
		productIDs = append(productIDs, r.ProductID)
	}
	event := domain.RecommendationEvent{
		ID:            uuid.NewString(),
		Event:         domain.EventRecommendationShown,
		UserID:        userID,
		RequestedType: req.Type,
		ProductIDs:    productIDs,
		Context:       req.Context,
		Timestamp:     time.Now().UTC(),
	}

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), t.timeout)
		defer cancel()
		if err := t.sink.Append(ctx, event); err != nil {
			t.logger.Warn("failed to record recommendation event",
				zap.String("user_id", userID),
				zap.String("event_id", event.ID),
				zap.Error(err))
		}
	}()
}
