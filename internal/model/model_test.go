package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPredictRange(t *testing.T) {
	m := NewLogisticRegression(4)

	score, err := m.Predict([]float64{0.1, 0.9, 0.3, 0})
	require.NoError(t, err)
	assert.Greater(t, score, 0.0)
	assert.Less(t, score, 1.0)
}

func TestPredictDimensionMismatch(t *testing.T) {
	m := NewLogisticRegression(4)

	_, err := m.Predict([]float64{0.1, 0.2})
	assert.Error(t, err)
}

func TestFitSeparableData(t *testing.T) {
	m := NewLogisticRegression(2)

	// Positive class clusters high on the first dimension.
	features := [][]float64{
		{0.9, 0.1}, {0.8, 0.2}, {0.95, 0.0}, {0.85, 0.15},
		{0.1, 0.9}, {0.2, 0.8}, {0.05, 0.95}, {0.15, 0.85},
	}
	labels := []float64{1, 1, 1, 1, 0, 0, 0, 0}

	require.NoError(t, m.Fit(features, labels))

	pos, err := m.Predict([]float64{0.9, 0.1})
	require.NoError(t, err)
	neg, err := m.Predict([]float64{0.1, 0.9})
	require.NoError(t, err)
	assert.Greater(t, pos, neg)

	assert.Greater(t, accuracy(m, features, labels), 0.5)
}

func TestFitRejectsBadInput(t *testing.T) {
	m := NewLogisticRegression(2)

	assert.Error(t, m.Fit(nil, nil))
	assert.Error(t, m.Fit([][]float64{{1, 2}}, []float64{1, 0}))
	assert.Error(t, m.Fit([][]float64{{1, 2, 3}}, []float64{1}))
}
