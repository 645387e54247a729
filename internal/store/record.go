package store

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/phrazzld/lingodeck/internal/redact"
)

// Record is a typed view of a single key in a KV. Reads never fail: a missing,
// unreadable or corrupt value yields the record's default.
type Record[T any] struct {
	kv     KV
	key    string
	def    func() T
	logger *slog.Logger
}

// NewRecord binds key in kv to type T with the given default constructor.
// If logger is nil, a default logger will be used.
func NewRecord[T any](kv KV, key string, def func() T, logger *slog.Logger) *Record[T] {
	if kv == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("kv cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Record[T]{
		kv:     kv,
		key:    key,
		def:    def,
		logger: logger.With(slog.String("component", "record"), slog.String("key", key)),
	}
}

// Key returns the record's key.
func (r *Record[T]) Key() string {
	return r.key
}

// Load reads and decodes the record, falling back to the default on any failure.
func (r *Record[T]) Load(ctx context.Context) T {
	data, err := r.kv.Get(ctx, r.key)
	if err != nil {
		if IsNotFoundError(err) {
			r.logger.Debug("record not stored yet, using default")
		} else {
			r.logger.Warn("failed to read record, using default",
				slog.String("error", redact.Error(err)))
		}
		return r.def()
	}

	var v T
	if err := json.Unmarshal(data, &v); err != nil {
		r.logger.Warn("corrupt record, using default",
			slog.String("error", redact.Error(err)),
			slog.Int("bytes", len(data)))
		return r.def()
	}
	return v
}

// Save encodes and writes v.
func (r *Record[T]) Save(ctx context.Context, v T) error {
	data, err := json.Marshal(v)
	if err != nil {
		return NewStoreError(r.key, "set", "failed to encode record", err)
	}
	if err := r.kv.Set(ctx, r.key, data); err != nil {
		return fmt.Errorf("failed to save %s: %w", r.key, err)
	}
	return nil
}

// Flush is Save for callers that must not fail: errors are logged and dropped.
func (r *Record[T]) Flush(ctx context.Context, v T) {
	if err := r.Save(ctx, v); err != nil {
		r.logger.Error("failed to persist record",
			slog.String("error", redact.Error(err)))
	}
}

// Clear deletes the stored value so the next Load returns the default.
func (r *Record[T]) Clear(ctx context.Context) {
	if err := r.kv.Delete(ctx, r.key); err != nil {
		r.logger.Error("failed to delete record",
			slog.String("error", redact.Error(err)))
	}
}
