package database

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"
)

// OpenSQLite opens a SQLite database at the given path and applies the
// schema. ":memory:" gives a private in-memory database pinned to a single
// connection so every query sees the same data. File databases carry their
// pragmas in the DSN so every pooled connection gets them.
func OpenSQLite(path string) (*sql.DB, error) {
	if path != ":memory:" {
		dir := filepath.Dir(path)
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("creating db directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", sqliteDSN(path))
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	if path == ":memory:" {
		db.SetMaxOpenConns(1)
	}

	if err := MigrateSQLite(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	return db, nil
}

// sqliteDSN builds a connection string that sets the busy timeout and WAL
// journal on each new connection and starts write transactions with
// BEGIN IMMEDIATE, so concurrent writers wait instead of failing with
// SQLITE_BUSY.
func sqliteDSN(path string) string {
	if path == ":memory:" {
		return path
	}
	return "file:" + path + "?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)&_txlock=immediate"
}

// MigrateSQLite runs all schema statements. Every statement is idempotent.
func MigrateSQLite(db *sql.DB) error {
	for i, stmt := range sqliteSchema {
		if _, err := db.Exec(stmt); err != nil {
			return fmt.Errorf("migration %d: %w", i, err)
		}
	}
	return nil
}

var sqliteSchema = []string{
	`CREATE TABLE IF NOT EXISTS protocols (
		id          INTEGER PRIMARY KEY AUTOINCREMENT,
		symptom     TEXT NOT NULL,
		age_group   TEXT NOT NULL,
		questions   TEXT NOT NULL,
		guidelines  TEXT NOT NULL,
		created_at  TEXT NOT NULL DEFAULT (strftime('%Y-%m-%dT%H:%M:%fZ', 'now')),
		updated_at  TEXT NOT NULL DEFAULT (strftime('%Y-%m-%dT%H:%M:%fZ', 'now')),
		UNIQUE (symptom, age_group)
	)`,
	`CREATE TABLE IF NOT EXISTS assessments (
		id                      TEXT PRIMARY KEY,
		age_group               TEXT NOT NULL,
		symptoms                TEXT NOT NULL,
		responses               TEXT NOT NULL,
		recommendation          TEXT NOT NULL,
		urgency_level           TEXT NOT NULL,
		reasoning               TEXT NOT NULL,
		session_id              TEXT,
		user_agent              TEXT,
		ip_address              TEXT,
		completion_time_seconds INTEGER,
		created_at              TEXT NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_assessments_created_at ON assessments(created_at)`,
	`CREATE TABLE IF NOT EXISTS daily_usage (
		date                        TEXT PRIMARY KEY,
		total_assessments           INTEGER NOT NULL DEFAULT 0,
		emergency_recommendations   INTEGER NOT NULL DEFAULT 0,
		call_doctor_recommendations INTEGER NOT NULL DEFAULT 0,
		home_care_recommendations   INTEGER NOT NULL DEFAULT 0,
		completion_time_total       INTEGER NOT NULL DEFAULT 0,
		completion_time_count       INTEGER NOT NULL DEFAULT 0
	)`,
	`CREATE TABLE IF NOT EXISTS daily_symptoms (
		date    TEXT NOT NULL,
		symptom TEXT NOT NULL,
		count   INTEGER NOT NULL DEFAULT 0,
		PRIMARY KEY (date, symptom)
	)`,
	`CREATE TABLE IF NOT EXISTS daily_age_groups (
		date      TEXT NOT NULL,
		age_group TEXT NOT NULL,
		count     INTEGER NOT NULL DEFAULT 0,
		PRIMARY KEY (date, age_group)
	)`,
	`CREATE TABLE IF NOT EXISTS monthly_call_reduction (
		month                            TEXT PRIMARY KEY,
		total_assessments                INTEGER NOT NULL DEFAULT 0,
		estimated_calls_avoided          INTEGER NOT NULL DEFAULT 0,
		potential_emergencies_identified INTEGER NOT NULL DEFAULT 0
	)`,
}
