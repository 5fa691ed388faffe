package db

import (
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"
)

// InitDB opens/creates a SQLite DB file and ensures tables exist.
func InitDB(path string) (*sql.DB, error) {
	db, err := sql.Open(sqliteDriverName, dsn(path))
	if err != nil {
		return nil, fmt.Errorf("open sqlite at %q: %w", path, err)
	}

	// Conservative pool settings for SQLite
	db.SetMaxOpenConns(1) // SQLite is not great with many writers
	db.SetMaxIdleConns(1)

	// Pragmas to improve reliability
	if _, err := db.Exec("PRAGMA journal_mode = WAL;"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("set PRAGMA journal_mode=WAL: %w", err)
	}
	if _, err := db.Exec("PRAGMA foreign_keys = ON;"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("set PRAGMA foreign_keys=ON: %w", err)
	}
	if _, err := db.Exec("PRAGMA busy_timeout = 5000;"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("set PRAGMA busy_timeout=5000: %w", err)
	}

	if err := ensureSchema(db); err != nil {
		_ = db.Close()
		return nil, err
	}

	// Fail fast if the DB cannot be reached
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping sqlite: %w", err)
	}

	return db, nil
}

const sqliteDriverName = "sqlite"

// dsn builds the connection string. Bound time.Time values must be stored in
// SQLite's own text format; the driver's default Go formatting is opaque to
// SQLite date functions like strftime, which would read it as NULL.
func dsn(path string) string {
	return "file:" + path + "?_time_format=sqlite"
}

const schemaParks = `
CREATE TABLE IF NOT EXISTS parks (
    id TEXT PRIMARY KEY,
    name TEXT NOT NULL,
    entity_type TEXT NOT NULL,
    timezone TEXT NOT NULL
);
`

const schemaAttractions = `
CREATE TABLE IF NOT EXISTS attractions (
    id TEXT PRIMARY KEY,
    park_id TEXT NOT NULL REFERENCES parks(id) ON DELETE CASCADE,
    name TEXT NOT NULL,
    entity_type TEXT NOT NULL,
    external_id TEXT
);
`

const schemaShows = `
CREATE TABLE IF NOT EXISTS shows (
    id TEXT PRIMARY KEY,
    park_id TEXT NOT NULL REFERENCES parks(id) ON DELETE CASCADE,
    name TEXT NOT NULL,
    entity_type TEXT NOT NULL,
    external_id TEXT
);
`

const schemaAttractionStatuses = `
CREATE TABLE IF NOT EXISTS attraction_statuses (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    attraction_id TEXT NOT NULL REFERENCES attractions(id) ON DELETE CASCADE,
    captured_at TIMESTAMP NOT NULL,
    status TEXT NOT NULL,
    standby_wait INTEGER,
    single_rider_wait INTEGER,
    last_updated TIMESTAMP,
    raw_data TEXT
);
`

const schemaShowStatuses = `
CREATE TABLE IF NOT EXISTS show_statuses (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    show_id TEXT NOT NULL REFERENCES shows(id) ON DELETE CASCADE,
    captured_at TIMESTAMP NOT NULL,
    status TEXT NOT NULL,
    last_updated TIMESTAMP,
    raw_data TEXT
);
`

const schemaOperatingHours = `
CREATE TABLE IF NOT EXISTS operating_hours (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    status_id INTEGER NOT NULL REFERENCES attraction_statuses(id) ON DELETE CASCADE,
    type TEXT,
    start_time TIMESTAMP,
    end_time TIMESTAMP
);
`

const schemaShowtimes = `
CREATE TABLE IF NOT EXISTS showtimes (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    status_id INTEGER NOT NULL REFERENCES show_statuses(id) ON DELETE CASCADE,
    type TEXT,
    start_time TIMESTAMP,
    end_time TIMESTAMP
);
`

const schemaApiCallLogs = `
CREATE TABLE IF NOT EXISTS api_call_logs (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    endpoint TEXT NOT NULL,
    captured_at TIMESTAMP NOT NULL,
    status_code INTEGER,
    response_time_ms INTEGER,
    success BOOLEAN NOT NULL,
    error_message TEXT
);
`

const schemaUsers = `
CREATE TABLE IF NOT EXISTS users (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    username TEXT UNIQUE NOT NULL,
    password_hash TEXT NOT NULL
);
`

// History and call-log queries are keyed by entity + capture time.
const schemaIndexes = `
CREATE INDEX IF NOT EXISTS idx_attraction_statuses_entity_time
    ON attraction_statuses(attraction_id, captured_at);
CREATE INDEX IF NOT EXISTS idx_show_statuses_entity_time
    ON show_statuses(show_id, captured_at);
CREATE INDEX IF NOT EXISTS idx_api_call_logs_time
    ON api_call_logs(captured_at);
`

func ensureSchema(db *sql.DB) error {
	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("begin schema transaction: %w", err)
	}
	defer func() {
		// In case of panic, rollback to avoid leaving an open transaction
		_ = tx.Rollback()
	}()

	for i, stmt := range []string{
		schemaParks,
		schemaAttractions,
		schemaShows,
		schemaAttractionStatuses,
		schemaShowStatuses,
		schemaOperatingHours,
		schemaShowtimes,
		schemaApiCallLogs,
		schemaUsers,
		schemaIndexes,
	} {
		if _, err := tx.Exec(stmt); err != nil {
			return fmt.Errorf("apply schema statement %d: %w", i+1, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit schema transaction: %w", err)
	}
	return nil
}
