package model

import (
	"fmt"
	"math"
	"math/rand"
)

// ScoringModel is the pluggable scoring contract. A logistic regression, a
// neural network or a remote model-serving call all satisfy it; the engine
// only depends on Predict and Fit.
type ScoringModel interface {
	// Predict maps a feature vector to a score in (0, 1).
	Predict(features []float64) (float64, error)
	// Fit trains the model on parallel feature/label arrays.
	Fit(features [][]float64, labels []float64) error
}

const (
	fitEpochs       = 10
	fitLearningRate = 0.1
)

// LogisticRegression scores a feature vector as
// sigmoid(bias + sum(weight_i * feature_i)). Fields are exported for JSON
// persistence through the model store.
type LogisticRegression struct {
	Bias    float64   `json:"bias"`
	Weights []float64 `json:"weights"`
}

// NewLogisticRegression returns an untrained model with small random weights
// for the given input dimension.
func NewLogisticRegression(dim int) *LogisticRegression {
	rng := rand.New(rand.NewSource(int64(dim)))
	weights := make([]float64, dim)
	for i := range weights {
		weights[i] = rng.Float64()*0.02 - 0.01
	}
	return &LogisticRegression{Weights: weights}
}

func (m *LogisticRegression) Predict(features []float64) (float64, error) {
	if len(features) != len(m.Weights) {
		return 0, fmt.Errorf("feature dimension %d does not match model dimension %d",
			len(features), len(m.Weights))
	}
	z := m.Bias
	for i, f := range features {
		z += m.Weights[i] * f
	}
	return sigmoid(z), nil
}

// Fit runs stochastic gradient descent for a fixed number of epochs.
func (m *LogisticRegression) Fit(features [][]float64, labels []float64) error {
	if len(features) != len(labels) {
		return fmt.Errorf("feature count %d does not match label count %d",
			len(features), len(labels))
	}
	if len(features) == 0 {
		return fmt.Errorf("empty training set")
	}
	for _, row := range features {
		if len(row) != len(m.Weights) {
			return fmt.Errorf("feature dimension %d does not match model dimension %d",
				len(row), len(m.Weights))
		}
	}

	for epoch := 0; epoch < fitEpochs; epoch++ {
		for i, row := range features {
			pred, _ := m.Predict(row)
			grad := pred - labels[i]
			m.Bias -= fitLearningRate * grad
			for j, f := range row {
				m.Weights[j] -= fitLearningRate * grad * f
			}
		}
	}
	return nil
}

func sigmoid(z float64) float64 {
	return 1 / (1 + math.Exp(-z))
}

// accuracy is the fraction of examples classified correctly at a 0.5
// threshold.
func accuracy(m ScoringModel, features [][]float64, labels []float64) float64 {
	if len(features) == 0 {
		return 0
	}
	correct := 0
	for i, row := range features {
		pred, err := m.Predict(row)
		if err != nil {
			continue
		}
		if (pred > 0.5) == (labels[i] > 0.5) {
			correct++
		}
	}
	return float64(correct) / float64(len(features))
}
