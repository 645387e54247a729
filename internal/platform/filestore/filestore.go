// Package filestore implements store.KV as a directory holding one JSON
// document per record key. Each record lives in its own file, so a corrupt
// file only ever affects the record it holds.
package filestore

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"regexp"
	"sync"

	"github.com/phrazzld/lingodeck/internal/store"
)

var keyPattern = regexp.MustCompile(`^[A-Za-z0-9_.-]+$`)

// Store is a directory-backed store.KV.
type Store struct {
	dir    string
	mu     sync.Mutex
	closed bool
	logger *slog.Logger
}

var _ store.KV = (*Store)(nil)

// New creates the directory if needed and returns a store rooted at dir.
// If logger is nil, a default logger will be used.
func New(dir string, logger *slog.Logger) (*Store, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, store.NewStoreError("filestore", "open", "failed to create directory", err)
	}
	return &Store{
		dir:    dir,
		logger: logger.With(slog.String("component", "filestore")),
	}, nil
}

func (s *Store) path(key string) (string, error) {
	if err := store.ValidateKey(key); err != nil {
		return "", err
	}
	if !keyPattern.MatchString(key) {
		return "", fmt.Errorf("%w: %q", store.ErrInvalidKey, key)
	}
	return filepath.Join(s.dir, key+".json"), nil
}

// Get implements store.KV.Get.
func (s *Store) Get(_ context.Context, key string) ([]byte, error) {
	p, err := s.path(key)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil, store.ErrClosed
	}

	data, err := os.ReadFile(p)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, store.ErrNotFound
		}
		return nil, store.NewStoreError(key, "get", "failed to read file", err)
	}
	return data, nil
}

// Set implements store.KV.Set. The value is written to a temporary file and
// renamed into place so readers never observe a partial document.
func (s *Store) Set(_ context.Context, key string, value []byte) error {
	p, err := s.path(key)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return store.ErrClosed
	}

	tmpPath := p + ".tmp"
	if err := os.WriteFile(tmpPath, value, 0o644); err != nil {
		return store.NewStoreError(key, "set", "failed to write file", err)
	}
	if err := os.Rename(tmpPath, p); err != nil {
		_ = os.Remove(tmpPath)
		return store.NewStoreError(key, "set", "failed to replace file", err)
	}

	s.logger.Debug("record written", slog.String("key", key), slog.Int("bytes", len(value)))
	return nil
}

// Delete implements store.KV.Delete.
func (s *Store) Delete(_ context.Context, key string) error {
	p, err := s.path(key)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return store.ErrClosed
	}

	if err := os.Remove(p); err != nil && !errors.Is(err, os.ErrNotExist) {
		return store.NewStoreError(key, "delete", "failed to remove file", err)
	}
	return nil
}

// Close implements store.KV.Close.
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	return nil
}
