package storage

import (
	"errors"
	"os"
	"path/filepath"
)

// FileStore persists generated documents under a single base directory,
// creating it on first write.
type FileStore struct {
	dir string
}

func NewFileStore(dir string) *FileStore {
	return &FileStore{dir: dir}
}

func (s *FileStore) Write(name string, data []byte) error {
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(s.dir, name), data, 0o644)
}

// Remove deletes a stored document. A missing file is not an error so
// compensation stays idempotent.
func (s *FileStore) Remove(name string) error {
	err := os.Remove(filepath.Join(s.dir, name))
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	return err
}

// Dir is the directory documents are served from.
func (s *FileStore) Dir() string {
	return s.dir
}
