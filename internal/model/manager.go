package model

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"github.com/ultramarket/recommendation-engine/internal/domain"
	"github.com/ultramarket/recommendation-engine/internal/vectorizer"
	"go.uber.org/zap"
)

// Managed model names.
const (
	Personalized = "personalized"
	Similarity   = "similarity"
	Trending     = "trending"
)

// ManagedNames lists every model the manager owns.
var ManagedNames = []string{Personalized, Similarity, Trending}

const trainingFetchLimit = 10000

// Example is one training record: a purchase (label 1) or a view that never
// converted (label 0), joined to the product's catalog attributes.
type Example struct {
	Profile *domain.UserProfile
	Product domain.ProductFeatures
	Label   float64
}

// TrainingSource supplies labeled examples for a training run.
type TrainingSource interface {
	FetchExamples(ctx context.Context, limit int) ([]Example, error)
}

type managedModel struct {
	model         ScoringModel
	version       int
	accuracy      float64
	lastTrainedAt time.Time
}

// Info is a read-only view of a managed model's metadata.
type Info struct {
	Name          string    `json:"name"`
	Version       int       `json:"version"`
	Accuracy      float64   `json:"accuracy"`
	LastTrainedAt time.Time `json:"last_trained_at,omitempty"`
}

// Manager owns the scoring-model lifecycle: load-or-create at startup,
// guarded single-writer training, persistence, and bounded prediction.
type Manager struct {
	store          Store
	source         TrainingSource
	logger         *zap.Logger
	predictTimeout time.Duration

	mu         sync.RWMutex
	models     map[string]*managedModel
	isTraining atomic.Bool
}

// NewManager loads each managed model from the store, falling back to a
// freshly initialized untrained model (accuracy 0) when loading fails.
// Load failure never fails process boot.
func NewManager(store Store, source TrainingSource, predictTimeout time.Duration, logger *zap.Logger) *Manager {
	m := &Manager{
		store:          store,
		source:         source,
		logger:         logger,
		predictTimeout: predictTimeout,
		models:         make(map[string]*managedModel, len(ManagedNames)),
	}
	for _, name := range ManagedNames {
		snap, err := store.Load(name)
		if err != nil {
			logger.Info("initializing fresh model",
				zap.String("model", name), zap.Error(err))
			m.models[name] = &managedModel{
				model:   NewLogisticRegression(inputDim(name)),
				version: 1,
			}
			continue
		}
		logger.Info("loaded persisted model",
			zap.String("model", name),
			zap.Int("version", snap.Version),
			zap.Float64("accuracy", snap.Accuracy))
		m.models[name] = &managedModel{
			model:         snap.Model,
			version:       snap.Version,
			accuracy:      snap.Accuracy,
			lastTrainedAt: snap.LastTrainedAt,
		}
	}
	return m
}

// inputDim returns the name-specific architecture width: the personalized
// model consumes user‖product concatenations, the rest product vectors.
func inputDim(name string) int {
	if name == Personalized {
		return 2 * vectorizer.Dim
	}
	return vectorizer.Dim
}

// Predict scores a feature vector with the named model, bounded by the
// configured per-call timeout. Returns ErrModelUnavailable for unknown names.
func (m *Manager) Predict(ctx context.Context, name string, features []float64) (float64, error) {
	m.mu.RLock()
	managed, ok := m.models[name]
	var scorer ScoringModel
	if ok {
		scorer = managed.model
	}
	m.mu.RUnlock()
	if !ok {
		return 0, domain.ErrModelUnavailable
	}

	ctx, cancel := context.WithTimeout(ctx, m.predictTimeout)
	defer cancel()

	type prediction struct {
		score float64
		err   error
	}
	ch := make(chan prediction, 1)
	go func() {
		score, err := scorer.Predict(features)
		ch <- prediction{score: score, err: err}
	}()

	select {
	case <-ctx.Done():
		return 0, ctx.Err()
	case p := <-ch:
		return p.score, p.err
	}
}

// Infos returns metadata for every managed model.
func (m *Manager) Infos() []Info {
	m.mu.RLock()
	defer m.mu.RUnlock()
	infos := make([]Info, 0, len(ManagedNames))
	for _, name := range ManagedNames {
		managed := m.models[name]
		infos = append(infos, Info{
			Name:          name,
			Version:       managed.version,
			Accuracy:      managed.accuracy,
			LastTrainedAt: managed.lastTrainedAt,
		})
	}
	return infos
}

// Train runs one training pass for the named model. A second call while a
// run is active returns ErrTrainingInProgress immediately; the guard is
// released when the run ends, whether it succeeded or not.
func (m *Manager) Train(ctx context.Context, name string) error {
	if !m.isTraining.CompareAndSwap(false, true) {
		m.logger.Warn("training already in progress, skipping", zap.String("model", name))
		return domain.ErrTrainingInProgress
	}
	defer m.isTraining.Store(false)
	return m.train(ctx, name)
}

// TrainAll trains every managed model under a single acquisition of the
// training guard. Per-model failures are collected, not fatal to the rest.
func (m *Manager) TrainAll(ctx context.Context) error {
	if !m.isTraining.CompareAndSwap(false, true) {
		m.logger.Warn("training already in progress, skipping")
		return domain.ErrTrainingInProgress
	}
	defer m.isTraining.Store(false)

	var errs []error
	for _, name := range ManagedNames {
		if err := m.train(ctx, name); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (m *Manager) train(ctx context.Context, name string) error {
	m.mu.RLock()
	managed, ok := m.models[name]
	m.mu.RUnlock()
	if !ok {
		return domain.ErrModelUnavailable
	}

	start := time.Now()
	examples, err := m.source.FetchExamples(ctx, trainingFetchLimit)
	if err != nil {
		m.logger.Error("training data fetch failed", zap.String("model", name), zap.Error(err))
		return err
	}
	if len(examples) == 0 {
		m.logger.Warn("no training examples, skipping", zap.String("model", name))
		return nil
	}

	features := make([][]float64, 0, len(examples))
	labels := make([]float64, 0, len(examples))
	for _, ex := range examples {
		features = append(features, featuresFor(name, ex))
		labels = append(labels, ex.Label)
	}

	// Fit a fresh model so in-flight predictions never race the update.
	next := NewLogisticRegression(inputDim(name))
	if err := next.Fit(features, labels); err != nil {
		m.logger.Error("model fit failed", zap.String("model", name), zap.Error(err))
		return err
	}
	acc := accuracy(next, features, labels)

	snap := &Snapshot{
		Name:          name,
		Version:       managed.version + 1,
		Accuracy:      acc,
		LastTrainedAt: time.Now().UTC(),
		Model:         next,
	}
	if err := m.store.Save(name, snap); err != nil {
		m.logger.Error("model persist failed", zap.String("model", name), zap.Error(err))
		return err
	}

	m.mu.Lock()
	managed.model = next
	managed.version = snap.Version
	managed.accuracy = snap.Accuracy
	managed.lastTrainedAt = snap.LastTrainedAt
	m.mu.Unlock()

	m.logger.Info("model trained",
		zap.String("model", name),
		zap.Int("version", snap.Version),
		zap.Int("examples", len(examples)),
		zap.Float64("accuracy", acc),
		zap.Duration("elapsed", time.Since(start)))
	return nil
}

func featuresFor(name string, ex Example) []float64 {
	if name == Personalized {
		return vectorizer.Concat(vectorizer.UserVector(ex.Profile), vectorizer.ProductVector(ex.Product))
	}
	return vectorizer.ProductVector(ex.Product)
}
