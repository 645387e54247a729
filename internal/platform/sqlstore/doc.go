// Package sqlstore implements store.KV on a single "records" table in either
// PostgreSQL (through pgx's database/sql driver) or SQLite (through the
// pure-Go modernc driver). The schema is managed by goose migrations that are
// embedded in the binary.
package sqlstore
