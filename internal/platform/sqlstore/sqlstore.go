package sqlstore

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib" // Register pgx driver for database/sql
	_ "modernc.org/sqlite"             // Register sqlite driver for database/sql

	"github.com/phrazzld/lingodeck/internal/redact"
	"github.com/phrazzld/lingodeck/internal/store"
)

// Store implements store.KV on a SQL database.
type Store struct {
	db      *sql.DB
	dialect Dialect
	now     func() time.Time
	logger  *slog.Logger
}

var _ store.KV = (*Store)(nil)

// New wraps an open database whose schema has already been migrated.
// If logger is nil, a default logger will be used.
func New(db *sql.DB, d Dialect, logger *slog.Logger) *Store {
	if db == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Store{
		db:      db,
		dialect: d,
		now:     func() time.Time { return time.Now().UTC() },
		logger:  logger.With(slog.String("component", "sqlstore"), slog.String("dialect", d.Name)),
	}
}

// OpenPostgres connects to PostgreSQL, verifies connectivity, applies
// migrations and returns a ready store.
func OpenPostgres(ctx context.Context, url string, logger *slog.Logger) (*Store, error) {
	db, err := sql.Open(Postgres.DriverName, url)
	if err != nil {
		return nil, fmt.Errorf("failed to open database connection: %s", redact.Error(err))
	}

	db.SetMaxOpenConns(5)
	db.SetMaxIdleConns(2)
	db.SetConnMaxLifetime(5 * time.Minute)

	return open(ctx, db, Postgres, logger)
}

// OpenSQLite opens (creating if needed) the SQLite database file at path,
// applies migrations and returns a ready store.
func OpenSQLite(ctx context.Context, path string, logger *slog.Logger) (*Store, error) {
	dsn := path + "?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)"
	db, err := sql.Open(SQLite.DriverName, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database file: %w", err)
	}

	// SQLite serializes writers; one connection avoids SQLITE_BUSY churn.
	db.SetMaxOpenConns(1)

	return open(ctx, db, SQLite, logger)
}

func open(ctx context.Context, db *sql.DB, d Dialect, logger *slog.Logger) (*Store, error) {
	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := db.PingContext(pingCtx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to connect to %s database: %s", d.Name, redact.Error(err))
	}

	if err := Migrate(ctx, db, d, logger); err != nil {
		_ = db.Close()
		return nil, err
	}

	return New(db, d, logger), nil
}

// Get implements store.KV.Get.
func (s *Store) Get(ctx context.Context, key string) ([]byte, error) {
	if err := store.ValidateKey(key); err != nil {
		return nil, err
	}

	var value string
	err := s.db.QueryRowContext(ctx, s.dialect.getQuery, key).Scan(&value)
	if err != nil {
		mapped := MapError(err)
		if store.IsNotFoundError(mapped) {
			return nil, store.ErrNotFound
		}
		s.logger.Error("failed to read record",
			slog.String("key", key),
			slog.String("error", redact.Error(err)))
		return nil, store.NewStoreError(key, "get", "query failed", mapped)
	}
	return []byte(value), nil
}

// Set implements store.KV.Set.
func (s *Store) Set(ctx context.Context, key string, value []byte) error {
	if err := store.ValidateKey(key); err != nil {
		return err
	}

	if _, err := s.db.ExecContext(ctx, s.dialect.upsertQuery, key, string(value), s.now()); err != nil {
		s.logger.Error("failed to write record",
			slog.String("key", key),
			slog.String("error", redact.Error(err)))
		return store.NewStoreError(key, "set", "upsert failed", MapError(err))
	}
	return nil
}

// Delete implements store.KV.Delete.
func (s *Store) Delete(ctx context.Context, key string) error {
	if _, err := s.db.ExecContext(ctx, s.dialect.deleteQuery, key); err != nil {
		return store.NewStoreError(key, "delete", "delete failed", MapError(err))
	}
	return nil
}

// Close implements store.KV.Close.
func (s *Store) Close() error {
	return s.db.Close()
}
