package workflow

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// StateFile is where workflow state lives, relative to the project root.
const StateFile = ".specit/workflow.json"

// timeNow is a package-level variable for testability.
var timeNow = time.Now

// Store defines the persistence interface for workflow state.
// Abstracted for testability.
type Store interface {
	Load(projectRoot string) (*State, error)
	Save(projectRoot string, s *State) error
}

// FileStore implements Store using the local filesystem.
type FileStore struct{}

// NewFileStore creates a filesystem-backed workflow store.
func NewFileStore() *FileStore {
	return &FileStore{}
}

// StatePath returns the absolute path to a project's workflow.json.
func StatePath(projectRoot string) string {
	return filepath.Join(projectRoot, filepath.FromSlash(StateFile))
}

// Load reads the workflow state. A missing file yields the initial
// state, not an error: a fresh project simply hasn't saved yet.
func (fs *FileStore) Load(projectRoot string) (*State, error) {
	data, err := os.ReadFile(StatePath(projectRoot))
	if err != nil {
		if os.IsNotExist(err) {
			return NewState(), nil
		}
		return nil, fmt.Errorf("reading workflow state: %w", err)
	}

	var s State
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", StateFile, err)
	}
	if s.Documents == nil {
		s.Documents = make(map[string]string)
	}
	return &s, nil
}

// Save writes the workflow state, creating the .specit directory when
// needed.
func (fs *FileStore) Save(projectRoot string, s *State) error {
	path := StatePath(projectRoot)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating state directory: %w", err)
	}

	s.UpdatedAt = timeNow().UTC().Format(time.RFC3339)

	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding workflow state: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing workflow state: %w", err)
	}
	return nil
}
