package storage

import (
	"fmt"
	"os"
	"path/filepath"
)

// FileSystem handles reading source posters and durably writing badged ones.
type FileSystem struct{}

// NewFileSystem creates a FileSystem storage.
func NewFileSystem() *FileSystem {
	return &FileSystem{}
}

// ReadPoster reads a source poster from disk. A missing file is reported
// distinctly so the caller can treat it as "nothing to do" instead of a
// failure.
func (fs *FileSystem) ReadPoster(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("poster not found: %s: %w", path, err)
		}
		return nil, fmt.Errorf("reading poster: %w", err)
	}
	return data, nil
}

// WritePosterAtomic writes poster bytes with a temp-then-rename discipline:
// the data lands in a temporary file in the destination directory, then an
// os.Rename swaps it into place. Rename within one filesystem is atomic, so
// a crash or a concurrent reader never observes a half-written poster.
// A temp file left by a failure is removed best-effort.
func (fs *FileSystem) WritePosterAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("creating poster directory: %w", err)
	}

	// The temp file must live in the destination directory: rename is only
	// atomic within a filesystem.
	tmp, err := os.CreateTemp(dir, filepath.Base(path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("creating temp poster: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		_ = os.Remove(tmpName)
		return fmt.Errorf("writing temp poster: %w", err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("closing temp poster: %w", err)
	}

	// 0644: owner rw, group r, others r — CreateTemp defaults to 0600.
	if err := os.Chmod(tmpName, 0644); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("setting poster permissions: %w", err)
	}

	if err := os.Rename(tmpName, path); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("renaming poster into place: %w", err)
	}
	return nil
}

// Exists checks if a poster file exists on disk.
func (fs *FileSystem) Exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
