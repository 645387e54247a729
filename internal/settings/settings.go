// Package settings holds the learner's persisted preferences.
package settings

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
	"github.com/phrazzld/lingodeck/internal/domain"
	"github.com/phrazzld/lingodeck/internal/store"
)

// ErrInvalidSettings is returned by Update when the new settings are rejected.
var ErrInvalidSettings = errors.New("invalid settings")

// Manager owns the current Settings. It is safe for concurrent use.
type Manager struct {
	mu       sync.Mutex
	current  domain.Settings
	record   *store.Record[domain.Settings]
	validate *validator.Validate
	logger   *slog.Logger
}

// NewManager loads the stored settings from kv. Stored settings that no
// longer validate are replaced by the defaults.
// If logger is nil, a default logger will be used.
func NewManager(ctx context.Context, kv store.KV, logger *slog.Logger) *Manager {
	if logger == nil {
		logger = slog.Default()
	}
	logger = logger.With(slog.String("component", "settings"))

	m := &Manager{
		record:   store.NewRecord(kv, store.KeySettings, domain.DefaultSettings, logger),
		validate: validator.New(),
		logger:   logger,
	}

	loaded := normalize(m.record.Load(ctx))
	if err := m.check(loaded); err != nil {
		logger.Warn("stored settings are invalid, using defaults", slog.String("error", err.Error()))
		loaded = domain.DefaultSettings()
	}
	m.current = loaded

	return m
}

// Get returns the current settings.
func (m *Manager) Get() domain.Settings {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.current
}

// Update validates and stores s, returning the stored value.
// Invalid settings leave the current settings unchanged.
func (m *Manager) Update(ctx context.Context, s domain.Settings) (domain.Settings, error) {
	s = normalize(s)
	if err := m.check(s); err != nil {
		return domain.Settings{}, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	m.current = s
	m.record.Flush(ctx, s)
	m.logger.Debug("settings updated",
		slog.Int("level", int(s.Level)),
		slog.String("category", string(s.Category)))

	return s, nil
}

func (m *Manager) check(s domain.Settings) error {
	if err := m.validate.Struct(s); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidSettings, err)
	}
	if err := s.Validate(); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidSettings, err)
	}
	return nil
}

func normalize(s domain.Settings) domain.Settings {
	if strings.TrimSpace(string(s.Category)) == "" {
		s.Category = domain.CategoryAll
	}
	return s
}
