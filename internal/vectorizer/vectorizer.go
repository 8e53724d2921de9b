// Package vectorizer encodes user profiles and products as fixed-length
// numeric vectors. The index assignments are stable: the personalized model
// consumes the concatenation of a user vector and a product vector, so any
// layout change invalidates persisted model weights.
package vectorizer

import (
	"math"

	"github.com/ultramarket/recommendation-engine/internal/domain"
)

// Dim is the length of a single user or product vector.
const Dim = 50

// User vector layout. Unassigned dimensions stay zero.
const (
	uAge = iota
	uGenderMale
	uGenderFemale
	uGenderOther
	uCategoryCount
	uBrandCount
	uFeatureCount
	uPriceMin
	uPriceMax
	uPurchases
	uViews
	uSearches
	uClicks
	uCartAdds
	uLikes
	uDislikes
	uReviews
)

// Product vector layout.
const (
	pPrice = iota
	pPopularity
	pRating
	pReviewCount
	pFeatureCount
	pTagCount
)

// UserVector encodes demographics, preference-set sizes, price bounds and
// behavior-history counts. All components are scaled into roughly [0, 1].
func UserVector(profile *domain.UserProfile) []float64 {
	v := make([]float64, Dim)
	v[uAge] = float64(profile.Demographics.Age) / 100
	switch profile.Demographics.Gender {
	case "male":
		v[uGenderMale] = 1
	case "female":
		v[uGenderFemale] = 1
	case "":
	default:
		v[uGenderOther] = 1
	}
	v[uCategoryCount] = float64(len(profile.Preferences.Categories)) / 10
	v[uBrandCount] = float64(len(profile.Preferences.Brands)) / 10
	v[uFeatureCount] = float64(len(profile.Preferences.Features)) / 10
	v[uPriceMin] = profile.Preferences.PriceRange.Min / domain.DefaultPriceMax
	v[uPriceMax] = profile.Preferences.PriceRange.Max / domain.DefaultPriceMax
	v[uPurchases] = float64(len(profile.Behavior.PurchaseHistory)) / 100
	v[uViews] = float64(len(profile.Behavior.ViewHistory)) / 1000
	v[uSearches] = float64(len(profile.Behavior.SearchHistory)) / 1000
	v[uClicks] = float64(len(profile.Behavior.ClickHistory)) / 1000
	v[uCartAdds] = float64(len(profile.Behavior.CartHistory)) / 100
	v[uLikes] = float64(len(profile.Interactions.Likes)) / 100
	v[uDislikes] = float64(len(profile.Interactions.Dislikes)) / 100
	v[uReviews] = float64(len(profile.Interactions.Reviews)) / 100
	return v
}

// ProductVector encodes price, popularity, rating, review volume and
// feature/tag counts.
func ProductVector(p domain.ProductFeatures) []float64 {
	v := make([]float64, Dim)
	v[pPrice] = p.Price / domain.DefaultPriceMax
	v[pPopularity] = p.Popularity
	v[pRating] = p.Rating / 5
	v[pReviewCount] = float64(p.ReviewCount) / 1000
	v[pFeatureCount] = float64(len(p.Features)) / 10
	v[pTagCount] = float64(len(p.Tags)) / 10
	return v
}

// Concat joins a user vector and a product vector into the 2*Dim input the
// personalized model is trained on.
func Concat(user, product []float64) []float64 {
	out := make([]float64, 0, len(user)+len(product))
	out = append(out, user...)
	out = append(out, product...)
	return out
}

// CosineSimilarity returns dot(a,b) / (|a|·|b|), and 0 when either magnitude
// is zero. For non-negative feature vectors the result is in [0, 1].
func CosineSimilarity(a, b []float64) float64 {
	if len(a) != len(b) {
		return 0
	}
	var dot, magA, magB float64
	for i := range a {
		dot += a[i] * b[i]
		magA += a[i] * a[i]
		magB += b[i] * b[i]
	}
	if magA == 0 || magB == 0 {
		return 0
	}
	return dot / (math.Sqrt(magA) * math.Sqrt(magB))
}
