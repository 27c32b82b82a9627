package repository

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"slotplanner/internal/domain"
)

// JSONStateRepository persists the whole scheduling state as one JSON file.
// Writes go to a temp file in the same directory followed by an atomic
// rename, so a crash mid-write never leaves a truncated state behind.
type JSONStateRepository struct {
	path string
}

func NewJSONStateRepository(path string) *JSONStateRepository {
	return &JSONStateRepository{path: path}
}

// Load reads the state file. A missing file reports found=false; a file
// that exists but does not parse is logged and treated the same way, so a
// corrupt file degrades to defaults instead of crashing the process.
func (r *JSONStateRepository) Load() (*domain.State, bool, error) {
	raw, err := os.ReadFile(r.path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("read state file: %w", err)
	}

	var state domain.State
	if err := json.Unmarshal(raw, &state); err != nil {
		log.Printf("state file %s is malformed, falling back to defaults: %v", r.path, err)
		return nil, false, nil
	}
	return &state, true, nil
}

func (r *JSONStateRepository) Save(state *domain.State) error {
	raw, err := json.MarshalIndent(state, "", "  ")
	if err != nil {
		return fmt.Errorf("encode state: %w", err)
	}

	dir := filepath.Dir(r.path)
	tmp, err := os.CreateTemp(dir, ".state-*.json")
	if err != nil {
		return fmt.Errorf("create temp state file: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(raw); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("write temp state file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("close temp state file: %w", err)
	}

	if err := os.Rename(tmpName, r.path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("replace state file: %w", err)
	}
	return nil
}
