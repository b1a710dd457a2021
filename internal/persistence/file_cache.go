package persistence

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/cnds86/kiptrack/internal/models"
)

// FileCache mirrors the last flushed document to a local file so a restart
// can still show data when the remote backend is unreachable.
type FileCache struct {
	path string
}

// NewFileCache returns a cache at path. An empty path disables the cache.
func NewFileCache(path string) *FileCache {
	return &FileCache{path: path}
}

// Enabled reports whether the cache has a path.
func (c *FileCache) Enabled() bool {
	return c != nil && c.path != ""
}

// Write replaces the cached document. The file is swapped in with a rename
// so a crash never leaves a half-written cache.
func (c *FileCache) Write(data models.AppData) error {
	if !c.Enabled() {
		return nil
	}
	raw, err := encode(data)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(c.path), 0o755); err != nil {
		return fmt.Errorf("create cache dir: %w", err)
	}
	tmp := c.path + ".tmp"
	if err := os.WriteFile(tmp, raw, 0o600); err != nil {
		return fmt.Errorf("write cache: %w", err)
	}
	if err := os.Rename(tmp, c.path); err != nil {
		return fmt.Errorf("replace cache: %w", err)
	}
	return nil
}

// Read returns the cached document, or nil when there is none.
func (c *FileCache) Read() (*models.AppData, error) {
	if !c.Enabled() {
		return nil, nil
	}
	raw, err := os.ReadFile(c.path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read cache: %w", err)
	}
	return decode(raw)
}
