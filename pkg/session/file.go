package session

import (
	"context"
	"fmt"
	"os"
)

// FileLibrary persists sessions as files on the local filesystem.
type FileLibrary struct {
	env Snapshotter
}

// NewFileLibrary creates a file-backed session library for env.
func NewFileLibrary(env Snapshotter) *FileLibrary {
	return &FileLibrary{env: env}
}

// Load reads the blob at path and restores it into the environment.
func (l *FileLibrary) Load(ctx context.Context, path string) error {
	blob, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read session file: %w", err)
	}
	return l.env.Restore(blob)
}

// Dump captures the environment and writes the blob to path with mode 0600,
// overwriting any existing file.
func (l *FileLibrary) Dump(ctx context.Context, path string) error {
	blob, err := l.env.Snapshot()
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, blob, 0o600); err != nil {
		return fmt.Errorf("write session file: %w", err)
	}
	return nil
}

var _ Library = (*FileLibrary)(nil)
