package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"subito-tracker/models"
)

// JSONStore keeps the whole database in a single indented JSON file.
type JSONStore struct {
	path string
}

// NewJSONStore returns a store for the file at path. Nothing is read until Load.
func NewJSONStore(path string) *JSONStore {
	return &JSONStore{path: path}
}

// Load decodes the database file.
func (s *JSONStore) Load(_ context.Context) (*models.State, error) {
	data, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("json: read %q: %w", s.path, err)
	}

	var state models.State
	if err := json.Unmarshal(data, &state); err != nil {
		return nil, fmt.Errorf("%w: error while parsing %q: %v", ErrMalformed, s.path, err)
	}
	return &state, nil
}

// Save writes the database atomically via a temp file and rename.
func (s *JSONStore) Save(_ context.Context, state *models.State) error {
	if state.Queries == nil {
		state = &models.State{Queries: []models.Query{}}
	}

	data, err := json.MarshalIndent(state, "", "    ")
	if err != nil {
		return fmt.Errorf("json: encode: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(s.path), 0755); err != nil {
		return fmt.Errorf("json: create dir: %w", err)
	}

	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return fmt.Errorf("json: write %q: %w", tmp, err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		return fmt.Errorf("json: rename %q: %w", tmp, err)
	}
	return nil
}

// Close is a no-op; the file is not held open between calls.
func (s *JSONStore) Close() error { return nil }
