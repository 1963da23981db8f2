// Package storage persists fitted model artifacts on disk. The artifact
// byte format belongs to the model; storage only guarantees atomic
// writes and a stable location under the data directory.
package storage

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"
)

const modelFileName = "drainfox_model.json"

// Saveable is an interface for objects that can be saved.
type Saveable interface {
	Save(w io.Writer) error
}

// Loadable is an interface for objects that can be loaded.
type Loadable interface {
	Load(r io.Reader) error
}

// Storage manages the data directory holding persisted artifacts.
type Storage struct {
	dataDir string
	logger  *slog.Logger
	mu      sync.Mutex
}

// New creates a new Storage instance rooted at dataDir.
func New(dataDir string, logger *slog.Logger) *Storage {
	return &Storage{
		dataDir: dataDir,
		logger:  logger,
	}
}

// SaveModel writes the model artifact, replacing any previous one
// atomically.
func (s *Storage) SaveModel(model Saveable) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.MkdirAll(s.dataDir, 0755); err != nil {
		return fmt.Errorf("failed to create data directory: %w", err)
	}

	filePath := filepath.Join(s.dataDir, modelFileName)
	tempPath := filePath + ".tmp"

	file, err := os.Create(tempPath)
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}

	if err := model.Save(file); err != nil {
		file.Close()
		os.Remove(tempPath)
		return fmt.Errorf("failed to save model: %w", err)
	}

	if err := file.Close(); err != nil {
		os.Remove(tempPath)
		return fmt.Errorf("failed to close temp file: %w", err)
	}

	// Atomic rename
	if err := os.Rename(tempPath, filePath); err != nil {
		os.Remove(tempPath)
		return fmt.Errorf("failed to rename temp file: %w", err)
	}

	s.logger.Debug("saved model to disk", "path", filePath)
	return nil
}

// LoadModel restores a model artifact from disk. A missing file is an
// error here: callers decide whether a fresh model is acceptable.
func (s *Storage) LoadModel(model Loadable) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	filePath := filepath.Join(s.dataDir, modelFileName)

	file, err := os.Open(filePath)
	if err != nil {
		return fmt.Errorf("failed to open model file: %w", err)
	}
	defer file.Close()

	if err := model.Load(file); err != nil {
		return fmt.Errorf("failed to load model from %s: %w", filePath, err)
	}

	s.logger.Info("loaded model from disk", "path", filePath)
	return nil
}

// ModelPath returns the artifact location.
func (s *Storage) ModelPath() string {
	return filepath.Join(s.dataDir, modelFileName)
}

// ModelExists returns whether a saved model exists.
func (s *Storage) ModelExists() bool {
	_, err := os.Stat(s.ModelPath())
	return err == nil
}

// ModelInfo describes the saved model artifact.
type ModelInfo struct {
	Exists    bool      `json:"exists"`
	Path      string    `json:"path"`
	Size      int64     `json:"size,omitempty"`
	UpdatedAt time.Time `json:"updated_at,omitempty"`
}

// GetModelInfo returns information about the saved model.
func (s *Storage) GetModelInfo() ModelInfo {
	info := ModelInfo{
		Path: s.ModelPath(),
	}

	stat, err := os.Stat(info.Path)
	if err != nil {
		return info
	}

	info.Exists = true
	info.Size = stat.Size()
	info.UpdatedAt = stat.ModTime()
	return info
}

// DeleteModel deletes the saved model file.
func (s *Storage) DeleteModel() error {
	if err := os.Remove(s.ModelPath()); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to delete model file: %w", err)
	}
	return nil
}
