package storage

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
)

// LocalStorage implements ObjectStorage using the local filesystem.
// This is primarily used for testing and development.
type LocalStorage struct {
	basePath string
}

// NewLocalStorage creates a new local filesystem storage.
func NewLocalStorage(basePath string) (*LocalStorage, error) {
	if err := os.MkdirAll(basePath, 0755); err != nil {
		return nil, fmt.Errorf("failed to create base directory: %w", err)
	}
	return &LocalStorage{basePath: basePath}, nil
}

// Put writes data to local storage.
func (l *LocalStorage) Put(ctx context.Context, objectPath string, data []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	destPath := l.fullPath(objectPath)
	if err := os.MkdirAll(filepath.Dir(destPath), 0755); err != nil {
		return fmt.Errorf("%w: %v", ErrUploadFailed, err)
	}
	if err := os.WriteFile(destPath, data, 0644); err != nil {
		return fmt.Errorf("%w: %v", ErrUploadFailed, err)
	}
	return nil
}

// Get reads an object from local storage.
func (l *LocalStorage) Get(ctx context.Context, objectPath string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(l.fullPath(objectPath))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrObjectNotFound
		}
		return nil, fmt.Errorf("%w: %v", ErrDownloadFailed, err)
	}
	return data, nil
}

// Exists checks if an object exists in local storage.
func (l *LocalStorage) Exists(ctx context.Context, objectPath string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}

	_, err := os.Stat(l.fullPath(objectPath))
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// Delete removes an object from local storage.
func (l *LocalStorage) Delete(ctx context.Context, objectPath string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	if err := os.Remove(l.fullPath(objectPath)); err != nil {
		if os.IsNotExist(err) {
			// S3 Delete is idempotent, so the local backend is too
			return nil
		}
		return fmt.Errorf("%w: %v", ErrDeleteFailed, err)
	}
	return nil
}

// ListObjects returns all object paths under the given prefix.
func (l *LocalStorage) ListObjects(ctx context.Context, prefix string) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	searchDir := l.fullPath(prefix)
	var objects []string

	err := filepath.Walk(searchDir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			if os.IsNotExist(err) {
				return nil // prefix doesn't exist, return empty list
			}
			return err
		}
		if !info.IsDir() {
			rel, err := filepath.Rel(l.basePath, path)
			if err != nil {
				return err
			}
			objects = append(objects, rel)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return objects, nil
}

// fullPath returns the full filesystem path for an object.
func (l *LocalStorage) fullPath(objectPath string) string {
	return filepath.Join(l.basePath, objectPath)
}
