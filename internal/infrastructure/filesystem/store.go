// Package filesystem reads source documents and writes translation artifacts
// on the local disk.
package filesystem

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"localebatch/internal/ports/output"
)

var _ output.DocumentStore = (*Store)(nil)

const (
	dirPerm  = 0o755
	filePerm = 0o644
)

// Store resolves relative paths against the process working directory.
type Store struct{}

func NewStore() *Store {
	return &Store{}
}

func (s *Store) Read(_ context.Context, path string) ([]byte, error) {
	return os.ReadFile(path)
}

// Write creates the parent directories, writes data to a temporary file next
// to path and renames it into place, so readers never observe a partial
// artifact.
func (s *Store) Write(_ context.Context, path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, dirPerm); err != nil {
		return fmt.Errorf("create %s: %w", dir, err)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("create temp file in %s: %w", dir, err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName) // no-op once renamed

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("write %s: %w", tmpName, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close %s: %w", tmpName, err)
	}
	if err := os.Chmod(tmpName, filePerm); err != nil {
		return fmt.Errorf("chmod %s: %w", tmpName, err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		return fmt.Errorf("rename %s: %w", path, err)
	}
	return nil
}
