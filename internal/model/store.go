package model

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// Snapshot is the persisted form of a managed model: its weights plus the
// metadata tracked across retrains.
type Snapshot struct {
	Name          string              `json:"name"`
	Version       int                 `json:"version"`
	Accuracy      float64             `json:"accuracy"`
	LastTrainedAt time.Time           `json:"last_trained_at"`
	Model         *LogisticRegression `json:"model"`
}

// Store abstracts persisted model artifacts.
type Store interface {
	Load(name string) (*Snapshot, error)
	Save(name string, snap *Snapshot) error
}

// FileStore keeps one JSON artifact per model name under a directory.
type FileStore struct {
	dir string
}

func NewFileStore(dir string) *FileStore {
	return &FileStore{dir: dir}
}

func (s *FileStore) path(name string) string {
	return filepath.Join(s.dir, name+".json")
}

func (s *FileStore) Load(name string) (*Snapshot, error) {
	data, err := os.ReadFile(s.path(name))
	if err != nil {
		return nil, fmt.Errorf("read model %s: %w", name, err)
	}
	var snap Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, fmt.Errorf("unmarshal model %s: %w", name, err)
	}
	if snap.Model == nil {
		return nil, fmt.Errorf("model %s: artifact has no weights", name)
	}
	return &snap, nil
}

func (s *FileStore) Save(name string, snap *Snapshot) error {
	if err := os.MkdirAll(s.dir, 0o750); err != nil {
		return fmt.Errorf("create model dir: %w", err)
	}
	data, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("marshal model %s: %w", name, err)
	}
	if err := os.WriteFile(s.path(name), data, 0o640); err != nil {
		return fmt.Errorf("write model %s: %w", name, err)
	}
	return nil
}
