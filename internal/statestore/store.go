// Package statestore persists the expanded/collapsed state of panels
// between sessions, keyed by panel title.
package statestore

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"

	"github.com/regenrek/paneldeck/internal/appdirs"
	"github.com/regenrek/paneldeck/internal/atomicfile"
)

// Store is a file-backed registry of per-panel expanded flags. It
// satisfies panels.StateStore.
type Store struct {
	mu     sync.Mutex
	path   string
	panels map[string]bool
}

type fileData struct {
	Panels map[string]bool `yaml:"panels"`
}

// DefaultPath returns the default registry path (~/.paneldeck/state.yml).
func DefaultPath() (string, error) {
	dir, err := appdirs.DataDirPath()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "state.yml"), nil
}

// Open reads the registry at path. A missing file yields an empty store.
func Open(path string) (*Store, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return nil, errors.New("statestore: path is required")
	}
	s := &Store{
		path:   path,
		panels: make(map[string]bool),
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return s, nil
		}
		return nil, fmt.Errorf("statestore: read state: %w", err)
	}
	var fd fileData
	if err := yaml.Unmarshal(data, &fd); err != nil {
		return nil, fmt.Errorf("statestore: parse state: %w", err)
	}
	if fd.Panels != nil {
		s.panels = fd.Panels
	}
	return s, nil
}

// Path returns the backing file path.
func (s *Store) Path() string { return s.path }

// Get reports the stored expanded flag for a panel title.
func (s *Store) Get(title string) (bool, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.panels[title]
	return v, ok
}

// Set records a panel's expanded flag and rewrites the registry.
func (s *Store) Set(title string, expanded bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if v, ok := s.panels[title]; ok && v == expanded {
		return nil
	}
	s.panels[title] = expanded
	return s.save()
}

// Delete drops a panel's entry, if any.
func (s *Store) Delete(title string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.panels[title]; !ok {
		return nil
	}
	delete(s.panels, title)
	return s.save()
}

// Len reports how many titles are tracked.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.panels)
}

func (s *Store) save() error {
	data, err := yaml.Marshal(fileData{Panels: s.panels})
	if err != nil {
		return fmt.Errorf("statestore: marshal state: %w", err)
	}
	if err := atomicfile.Save(s.path, data, 0o600); err != nil {
		return fmt.Errorf("statestore: write state: %w", err)
	}
	return nil
}
