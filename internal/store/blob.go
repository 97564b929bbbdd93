// Package store persists VitalityPact user state as JSON documents in a blob
// backend: the local filesystem, S3, GCS or Redis.
package store

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// ErrNotFound is returned by BlobStore.Get when the blob does not exist.
var ErrNotFound = errors.New("blob not found")

// BlobStore abstracts blob storage for per-user documents.
type BlobStore interface {
	Put(ctx context.Context, userID, kind, id string, data []byte) error
	Get(ctx context.Context, userID, kind, id string) ([]byte, error)
	Delete(ctx context.Context, userID, kind, id string) error
}

func objectKey(prefix, userID, kind, id string) string {
	key := userID + "/" + kind + "/" + id + ".json"
	if prefix != "" {
		key = prefix + "/" + key
	}
	return key
}

// LocalStorage implements BlobStore using the local filesystem.
// Useful for the CLI, development and testing.
type LocalStorage struct {
	BaseDir string
}

// NewLocalStorage creates a LocalStorage rooted at the given directory.
func NewLocalStorage(baseDir string) *LocalStorage {
	return &LocalStorage{BaseDir: baseDir}
}

func (s *LocalStorage) path(userID, kind, id string) string {
	return filepath.Join(s.BaseDir, userID, kind, id+".json")
}

// Put writes through a temp file so readers never see a partial document.
func (s *LocalStorage) Put(_ context.Context, userID, kind, id string, data []byte) error {
	path := s.path(userID, kind, id)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create directory: %w", err)
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", tmp, err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("rename %s: %w", path, err)
	}
	return nil
}

func (s *LocalStorage) Get(_ context.Context, userID, kind, id string) ([]byte, error) {
	data, err := os.ReadFile(s.path(userID, kind, id))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return data, nil
}

func (s *LocalStorage) Delete(_ context.Context, userID, kind, id string) error {
	err := os.Remove(s.path(userID, kind, id))
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("remove %s/%s: %w", kind, id, err)
	}
	return nil
}
