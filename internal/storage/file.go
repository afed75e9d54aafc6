package storage

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

// FileStorage keeps the blob in <dir>/<key>.json.
type FileStorage struct {
	path string
}

func NewFileStorage(dir string, key string) *FileStorage {
	return &FileStorage{path: filepath.Join(dir, key+".json")}
}

func (f *FileStorage) GetStorageType() string {
	return "file"
}

func (f *FileStorage) Path() string {
	return f.path
}

func (f *FileStorage) Load() ([]byte, bool, error) {
	blob, err := os.ReadFile(f.path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to read ledger file: %w", err)
	}
	return blob, true, nil
}

// Save replaces the file atomically so a crash never leaves half a document.
func (f *FileStorage) Save(blob []byte) error {
	dir := filepath.Dir(f.path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create data directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(f.path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temp ledger file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(blob); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write ledger file: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to sync ledger file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to close ledger file: %w", err)
	}
	if err := os.Rename(tmp.Name(), f.path); err != nil {
		return fmt.Errorf("failed to replace ledger file: %w", err)
	}
	return nil
}

func (f *FileStorage) Close() error {
	return nil
}
