package vectorizer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/ultramarket/recommendation-engine/internal/domain"
)

func sampleProfile() *domain.UserProfile {
	p := domain.NewUserProfile("u1")
	p.Demographics = domain.Demographics{Age: 30, Gender: "female", Location: "tashkent"}
	p.Preferences.Categories.Add("electronics")
	p.Preferences.Brands.Add("artel")
	p.Preferences.Features.Add("wireless")
	p.Preferences.PriceRange = domain.PriceRange{Min: 50, Max: 500}
	p.Behavior.PurchaseHistory = []string{"p1", "p2"}
	p.Behavior.ViewHistory = []string{"p1", "p2", "p3"}
	return p
}

func TestUserVectorDeterministic(t *testing.T) {
	p := sampleProfile()

	v1 := UserVector(p)
	v2 := UserVector(p)

	assert.Len(t, v1, Dim)
	assert.Equal(t, v1, v2)
}

func TestUserVectorEncodesProfile(t *testing.T) {
	p := sampleProfile()
	v := UserVector(p)

	assert.InDelta(t, 0.3, v[uAge], 1e-9)
	assert.Equal(t, 1.0, v[uGenderFemale])
	assert.Equal(t, 0.0, v[uGenderMale])
	assert.InDelta(t, 0.1, v[uCategoryCount], 1e-9)
	assert.InDelta(t, 0.02, v[uPurchases], 1e-9)
	assert.InDelta(t, 0.003, v[uViews], 1e-9)
}

func TestProductVector(t *testing.T) {
	product := domain.ProductFeatures{
		ProductID:   "p1",
		Price:       100_000,
		Popularity:  0.8,
		Rating:      4.5,
		ReviewCount: 200,
		Features:    []string{"wireless", "smart"},
		Tags:        []string{"new"},
	}

	v := ProductVector(product)

	assert.Len(t, v, Dim)
	assert.InDelta(t, 0.1, v[pPrice], 1e-9)
	assert.InDelta(t, 0.8, v[pPopularity], 1e-9)
	assert.InDelta(t, 0.9, v[pRating], 1e-9)
	assert.InDelta(t, 0.2, v[pReviewCount], 1e-9)
	assert.InDelta(t, 0.2, v[pFeatureCount], 1e-9)
}

func TestConcat(t *testing.T) {
	u := UserVector(sampleProfile())
	p := ProductVector(domain.ProductFeatures{ProductID: "p1", Popularity: 0.5})

	joined := Concat(u, p)

	assert.Len(t, joined, 2*Dim)
	assert.Equal(t, u, joined[:Dim])
	assert.Equal(t, p, joined[Dim:])
}

func TestCosineSimilarityIdentity(t *testing.T) {
	v := []float64{0.2, 0.5, 0, 0.9}
	assert.InDelta(t, 1.0, CosineSimilarity(v, v), 1e-9)
}

func TestCosineSimilarityZeroVector(t *testing.T) {
	v := []float64{0.2, 0.5, 0.9}
	zero := []float64{0, 0, 0}

	assert.Equal(t, 0.0, CosineSimilarity(v, zero))
	assert.Equal(t, 0.0, CosineSimilarity(zero, zero))
}

func TestCosineSimilarityOrthogonal(t *testing.T) {
	a := []float64{1, 0}
	b := []float64{0, 1}
	assert.InDelta(t, 0.0, CosineSimilarity(a, b), 1e-9)
}

func TestCosineSimilarityLengthMismatch(t *testing.T) {
	assert.Equal(t, 0.0, CosineSimilarity([]float64{1}, []float64{1, 2}))
}
