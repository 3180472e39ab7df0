package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"backgen/pkg/models"
)

// ModelFileName is the JSON artifact written into the output directory.
const ModelFileName = "backend-model.json"

// FileStore persists the model as a JSON document in a directory.
type FileStore struct {
	dir string
}

// NewFileStore creates a FileStore writing into dir.
func NewFileStore(dir string) *FileStore {
	return &FileStore{dir: dir}
}

// Save writes the model artifact. The write goes through a temp file and a
// rename so readers never see a half-written document.
func (s *FileStore) Save(_ context.Context, m *models.BackendModel) error {
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return fmt.Errorf("create output dir %s: %w", s.dir, err)
	}

	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal backend model: %w", err)
	}

	path := filepath.Join(s.dir, ModelFileName)
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("write model artifact: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("replace model artifact: %w", err)
	}
	return nil
}

// Load reads the persisted model artifact.
func (s *FileStore) Load(_ context.Context) (*models.BackendModel, error) {
	data, err := os.ReadFile(filepath.Join(s.dir, ModelFileName))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, ErrNoModel
		}
		return nil, fmt.Errorf("read model artifact: %w", err)
	}

	var m models.BackendModel
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("decode model artifact: %w", err)
	}
	return &m, nil
}
