package store

import (
	"context"
	"strings"
)

// Record keys for the independently persisted learner records.
const (
	KeyProgress    = "progress"
	KeySettings    = "settings"
	KeyFavorites   = "favorites"
	KeyQuizHistory = "quiz_history"
)

// KV defines the interface for the key/value record medium.
// Values are opaque serialized documents; the store never interprets them.
type KV interface {
	// Get returns the stored value for key.
	// Returns ErrNotFound if the key has never been set or was deleted.
	Get(ctx context.Context, key string) ([]byte, error)

	// Set creates or replaces the value for key.
	Set(ctx context.Context, key string, value []byte) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases any resources held by the store.
	Close() error
}

// ValidateKey rejects keys no engine can store.
func ValidateKey(key string) error {
	if strings.TrimSpace(key) == "" {
		return ErrInvalidKey
	}
	return nil
}
