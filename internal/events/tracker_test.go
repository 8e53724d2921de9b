package events

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ultramarket/recommendation-engine/internal/domain"
	"go.uber.org/zap"
)

type captureSink struct {
	mu     sync.Mutex
	events []domain.RecommendationEvent
	err    error
}

func (s *captureSink) Append(ctx context.Context, event domain.RecommendationEvent) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return s.err
	}
	s.events = append(s.events, event)
	return nil
}

func (s *captureSink) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.events)
}

func TestRecordAppendsEvent(t *testing.T) {
	sink := &captureSink{}
	tracker := NewTracker(sink, zap.NewNop())

	req := domain.RecommendationRequest{
		UserID: "u1",
		Type:   domain.TypeTrending,
		Context: domain.RequestContext{
			Page:      "homepage",
			SessionID: "s1",
		},
	}
	results := []domain.RecommendationResult{
		{ProductID: "p1", Score: 0.9},
		{ProductID: "p2", Score: 0.5},
	}

	tracker.Record("u1", req, results)

	require.Eventually(t, func() bool { return sink.count() == 1 }, time.Second, time.Millisecond)

	sink.mu.Lock()
	defer sink.mu.Unlock()
	ev := sink.events[0]
	assert.NotEmpty(t, ev.ID)
	assert.Equal(t, domain.EventRecommendationShown, ev.Event)
	assert.Equal(t, "u1", ev.UserID)
	assert.Equal(t, domain.TypeTrending, ev.RequestedType)
	assert.Equal(t, []string{"p1", "p2"}, ev.ProductIDs)
	assert.Equal(t, "homepage", ev.Context.Page)
	assert.False(t, ev.Timestamp.IsZero())
}

func TestRecordSinkFailureDoesNotPanic(t *testing.T) {
	sink := &captureSink{err: errors.New("stream unavailable")}
	tracker := NewTracker(sink, zap.NewNop())

	assert.NotPanics(t, func() {
		tracker.Record("u1", domain.RecommendationRequest{Type: domain.TypeTrending}, nil)
	})
	// Failure is logged, never surfaced; give the goroutine time to run.
	time.Sleep(10 * time.Millisecond)
}
