package store

import (
	"database/sql"

	"github.com/pkg/errors"
)

// migrations are applied in order exactly once each; schema_version tracks
// the last applied index. Append only.
var migrations = []string{
	`CREATE TABLE IF NOT EXISTS identities (
		username      TEXT PRIMARY KEY,
		password_hash TEXT NOT NULL,
		first_name    TEXT NOT NULL DEFAULT '',
		last_name     TEXT NOT NULL DEFAULT '',
		role          INTEGER NOT NULL,
		deactivated   INTEGER NOT NULL DEFAULT 0
	)`,
	`CREATE TABLE IF NOT EXISTS cards (
		id     TEXT PRIMARY KEY,
		phrase TEXT NOT NULL,
		term   TEXT NOT NULL,
		level  INTEGER NOT NULL DEFAULT 0,
		points INTEGER NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS quiz_templates (
		id         TEXT PRIMARY KEY,
		name       TEXT NOT NULL,
		created_by TEXT NOT NULL,
		card_ids   TEXT NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS quiz_attempts (
		id           TEXT PRIMARY KEY,
		username     TEXT NOT NULL,
		items        TEXT NOT NULL,
		total_points INTEGER NOT NULL,
		total_max    INTEGER NOT NULL,
		started_at   TIMESTAMP NOT NULL,
		ended_at     TIMESTAMP NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_quiz_attempts_username
		ON quiz_attempts(username, started_at)`,
}

func ensureSchema(db *sql.DB) error {
	if _, err := db.Exec(`CREATE TABLE IF NOT EXISTS schema_version (
		version INTEGER PRIMARY KEY
	)`); err != nil {
		return errors.Wrap(err, "create schema_version")
	}

	var version int
	err := db.QueryRow(`SELECT COALESCE(MAX(version), 0) FROM schema_version`).Scan(&version)
	if err != nil {
		return errors.Wrap(err, "read schema version")
	}

	for i := version; i < len(migrations); i++ {
		tx, err := db.Begin()
		if err != nil {
			return errors.Wrap(err, "begin migration")
		}
		if _, err := tx.Exec(migrations[i]); err != nil {
			_ = tx.Rollback()
			return errors.Wrapf(err, "apply migration %d", i+1)
		}
		if _, err := tx.Exec(`INSERT INTO schema_version (version) VALUES (?)`, i+1); err != nil {
			_ = tx.Rollback()
			return errors.Wrapf(err, "record migration %d", i+1)
		}
		if err := tx.Commit(); err != nil {
			return errors.Wrapf(err, "commit migration %d", i+1)
		}
	}
	return nil
}

func applyPragmas(db *sql.DB) error {
	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA synchronous = NORMAL",
		"PRAGMA foreign_keys = ON",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			return errors.Wrapf(err, "execute %s", pragma)
		}
	}
	return nil
}
