package storage

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
)

// LocalStorage implements Storage interface for the local filesystem. It is
// meant for development runs where no bucket is available.
type LocalStorage struct {
	basePath string
}

// NewLocalStorage creates a new local storage instance
func NewLocalStorage(basePath string) (*LocalStorage, error) {
	// Create base directory if it doesn't exist
	if err := os.MkdirAll(basePath, 0755); err != nil {
		return nil, fmt.Errorf("failed to create storage directory: %w", err)
	}

	return &LocalStorage{
		basePath: basePath,
	}, nil
}

// PutObject stores an object under key, mirroring the key's path structure
// on disk
func (s *LocalStorage) PutObject(ctx context.Context, key string, body []byte, contentType string, acl string) error {
	fullPath := filepath.Join(s.basePath, filepath.FromSlash(key))

	// Create directory structure
	if err := os.MkdirAll(filepath.Dir(fullPath), 0755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}

	if err := os.WriteFile(fullPath, body, 0644); err != nil {
		os.Remove(fullPath) // Clean up on error
		return fmt.Errorf("failed to write file: %w", err)
	}

	return nil
}

// PublicURL returns a file URL for the stored key
func (s *LocalStorage) PublicURL(key string) string {
	return "file://" + filepath.ToSlash(filepath.Join(s.basePath, filepath.FromSlash(key)))
}

// Check verifies the base directory is accessible
func (s *LocalStorage) Check(ctx context.Context) error {
	if _, err := os.Stat(s.basePath); err != nil {
		return fmt.Errorf("failed to access storage directory: %w", err)
	}
	return nil
}
