// Package profile builds and caches per-user behavioral/preference profiles.
package profile

import (
	"context"
	"fmt"
	"time"

	"github.com/ultramarket/recommendation-engine/internal/domain"
	"go.uber.org/zap"
)

const (
	orderLookback = 100
	eventLookback = 1000
)

type UserSource interface {
	FindUser(ctx context.Context, id string) (*domain.User, error)
}

type OrderSource interface {
	RecentOrders(ctx context.Context, userID string, take int) ([]domain.Order, error)
}

type AnalyticsSource interface {
	RecentEvents(ctx context.Context, userID string, take int) ([]domain.AnalyticsEvent, error)
}

// Cache stores built profiles; entries expire per the cache's TTL.
type Cache interface {
	Get(ctx context.Context, userID string) (*domain.UserProfile, bool, error)
	Set(ctx context.Context, userID string, profile *domain.UserProfile) error
}

// Builder assembles profiles from order and analytics history, caching the
// result. Concurrent rebuilds for the same user are tolerated: the build is
// idempotent and writes whole values, so the last write wins.
type Builder struct {
	users     UserSource
	orders    OrderSource
	analytics AnalyticsSource
	cache     Cache
	logger    *zap.Logger
}

func NewBuilder(users UserSource, orders OrderSource, analytics AnalyticsSource, cache Cache, logger *zap.Logger) *Builder {
	return &Builder{
		users:     users,
		orders:    orders,
		analytics: analytics,
		cache:     cache,
		logger:    logger,
	}
}

// GetProfile returns the cached profile when present and unexpired, and
// otherwise rebuilds from the last orders and analytics events.
func (b *Builder) GetProfile(ctx context.Context, userID string) (*domain.UserProfile, error) {
	cached, found, err := b.cache.Get(ctx, userID)
	if err != nil {
		b.logger.Warn("profile cache read failed", zap.String("user_id", userID), zap.Error(err))
	}
	if found {
		return cached, nil
	}

	built, err := b.build(ctx, userID)
	if err != nil {
		return nil, err
	}

	if err := b.cache.Set(ctx, userID, built); err != nil {
		b.logger.Warn("profile cache write failed", zap.String("user_id", userID), zap.Error(err))
	}
	return built, nil
}

func (b *Builder) build(ctx context.Context, userID string) (*domain.UserProfile, error) {
	user, err := b.users.FindUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	orders, err := b.orders.RecentOrders(ctx, userID, orderLookback)
	if err != nil {
		return nil, fmt.Errorf("fetch orders for user %s: %w", userID, err)
	}

	events, err := b.analytics.RecentEvents(ctx, userID, eventLookback)
	if err != nil {
		return nil, fmt.Errorf("fetch analytics events for user %s: %w", userID, err)
	}

	profile := domain.NewUserProfile(userID)
	profile.Demographics = domain.Demographics{
		Age:      user.Age,
		Gender:   user.Gender,
		Location: user.Location,
	}
	profile.BuiltAt = time.Now().UTC()

	applyOrders(profile, orders)
	applyEvents(profile, events)
	return profile, nil
}

// applyOrders unions categories, brands and features seen across order items
// and narrows the price range to the observed min/max.
func applyOrders(profile *domain.UserProfile, orders []domain.Order) {
	var minPrice, maxPrice float64
	seen := false

	for _, order := range orders {
		for _, item := range order.Items {
			profile.Behavior.PurchaseHistory = append(profile.Behavior.PurchaseHistory, item.ProductID)
			profile.Preferences.Categories.Add(item.Category)
			profile.Preferences.Brands.Add(item.Brand)
			for _, f := range item.Features {
				profile.Preferences.Features.Add(f)
			}
			if !seen || item.Price < minPrice {
				minPrice = item.Price
			}
			if !seen || item.Price > maxPrice {
				maxPrice = item.Price
			}
			seen = true
		}
	}

	if seen {
		profile.Preferences.PriceRange = domain.PriceRange{Min: minPrice, Max: maxPrice}
	}
}

func applyEvents(profile *domain.UserProfile, events []domain.AnalyticsEvent) {
	for _, ev := range events {
		switch ev.EventType {
		case domain.EventView:
			profile.Behavior.ViewHistory = append(profile.Behavior.ViewHistory, ev.ProductID)
		case domain.EventSearch:
			profile.Behavior.SearchHistory = append(profile.Behavior.SearchHistory, ev.Query)
		case domain.EventClick:
			profile.Behavior.ClickHistory = append(profile.Behavior.ClickHistory, ev.ProductID)
		case domain.EventCartAdd:
			profile.Behavior.CartHistory = append(profile.Behavior.CartHistory, ev.ProductID)
		case domain.EventLike:
			profile.Interactions.Likes = append(profile.Interactions.Likes, ev.ProductID)
		case domain.EventDislike:
			profile.Interactions.Dislikes = append(profile.Interactions.Dislikes, ev.ProductID)
		case domain.EventReview:
			profile.Interactions.Reviews = append(profile.Interactions.Reviews, ev.ProductID)
		}
	}
}
