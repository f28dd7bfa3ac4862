package workspace

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

// Store is the durable home of the artifact. Load returns an error wrapping
// fs.ErrNotExist when nothing has been persisted yet.
type Store interface {
	Load() (string, error)
	Save(content string) error
	Path() string
}

// FileStore keeps the artifact in a single UTF-8 file.
type FileStore struct {
	path string
}

// NewFileStore returns a store for the file at path. Nothing is touched on disk
// until the first Save.
func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

func (s *FileStore) Path() string { return s.path }

func (s *FileStore) Load() (string, error) {
	b, err := os.ReadFile(s.path)
	if err != nil {
		return "", fmt.Errorf("read artifact: %w", err)
	}
	return string(b), nil
}

func (s *FileStore) Save(content string) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fmt.Errorf("create artifact dir: %w", err)
	}
	if err := os.WriteFile(s.path, []byte(content), 0o644); err != nil {
		return fmt.Errorf("write artifact: %w", err)
	}
	return nil
}

// IsFresh reports whether err means the artifact simply does not exist yet.
func IsFresh(err error) bool {
	return errors.Is(err, fs.ErrNotExist)
}
