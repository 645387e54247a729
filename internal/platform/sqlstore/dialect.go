package sqlstore

// Dialect captures the per-engine differences: driver name, goose dialect
// and placeholder syntax.
type Dialect struct {
	Name         string
	DriverName   string
	GooseDialect string

	getQuery    string
	upsertQuery string
	deleteQuery string
}

// Postgres is the PostgreSQL dialect served by github.com/jackc/pgx/v5/stdlib.
var Postgres = Dialect{
	Name:         "postgres",
	DriverName:   "pgx",
	GooseDialect: "postgres",

	getQuery: `SELECT value FROM records WHERE key = $1`,
	upsertQuery: `INSERT INTO records (key, value, updated_at) VALUES ($1, $2, $3)
		ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value, updated_at = EXCLUDED.updated_at`,
	deleteQuery: `DELETE FROM records WHERE key = $1`,
}

// SQLite is the SQLite dialect served by modernc.org/sqlite.
var SQLite = Dialect{
	Name:         "sqlite",
	DriverName:   "sqlite",
	GooseDialect: "sqlite3",

	getQuery: `SELECT value FROM records WHERE key = ?`,
	upsertQuery: `INSERT INTO records (key, value, updated_at) VALUES (?, ?, ?)
		ON CONFLICT (key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`,
	deleteQuery: `DELETE FROM records WHERE key = ?`,
}
