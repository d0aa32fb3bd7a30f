// Package storage persists named JSON snapshots to the local disk so order
// state and the auth session survive app restarts. One file per snapshot
// name, written atomically via rename.
package storage

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

// ErrNotFound is returned when a snapshot has never been saved.
var ErrNotFound = errors.New("snapshot not found")

// Store reads and writes named snapshots. Satisfied by *FileStore.
type Store interface {
	Save(name string, v any) error
	Load(name string, v any) error
	Delete(name string) error
}

// FileStore keeps each snapshot as <dir>/<name>.json.
type FileStore struct {
	dir string
}

// NewFileStore creates the snapshot directory if needed.
func NewFileStore(dir string) (*FileStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create state dir: %w", err)
	}
	return &FileStore{dir: dir}, nil
}

func (s *FileStore) path(name string) string {
	return filepath.Join(s.dir, name+".json")
}

// Save marshals v and writes it under name, replacing any previous snapshot.
// The write goes to a temp file first so a crash mid-write never leaves a
// truncated snapshot behind.
func (s *FileStore) Save(name string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("marshal snapshot %s: %w", name, err)
	}
	tmp := s.path(name) + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("write snapshot %s: %w", name, err)
	}
	if err := os.Rename(tmp, s.path(name)); err != nil {
		return fmt.Errorf("commit snapshot %s: %w", name, err)
	}
	return nil
}

// Load unmarshals the snapshot under name into v. Returns ErrNotFound when
// no snapshot exists yet.
func (s *FileStore) Load(name string, v any) error {
	data, err := os.ReadFile(s.path(name))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return ErrNotFound
		}
		return fmt.Errorf("read snapshot %s: %w", name, err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("parse snapshot %s: %w", name, err)
	}
	return nil
}

// Delete removes the snapshot under name. Deleting a missing snapshot is
// not an error.
func (s *FileStore) Delete(name string) error {
	if err := os.Remove(s.path(name)); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("delete snapshot %s: %w", name, err)
	}
	return nil
}
