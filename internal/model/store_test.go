package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileStoreRoundTrip(t *testing.T) {
	store := NewFileStore(t.TempDir())

	saved := &Snapshot{
		Name:          Personalized,
		Version:       2,
		Accuracy:      0.75,
		LastTrainedAt: time.Now().UTC().Truncate(time.Second),
		Model:         NewLogisticRegression(4),
	}
	require.NoError(t, store.Save(Personalized, saved))

	loaded, err := store.Load(Personalized)
	require.NoError(t, err)

	assert.Equal(t, saved.Version, loaded.Version)
	assert.Equal(t, saved.Accuracy, loaded.Accuracy)
	assert.Equal(t, saved.Model.Weights, loaded.Model.Weights)
	assert.Equal(t, saved.Model.Bias, loaded.Model.Bias)
}

func TestFileStoreLoadMissing(t *testing.T) {
	store := NewFileStore(t.TempDir())

	_, err := store.Load("nonexistent")
	assert.Error(t, err)
}
