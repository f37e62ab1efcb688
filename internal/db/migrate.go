package db

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"
)

// Migrate runs all schema migrations.
func Migrate(db *sql.DB) error {
	for i, stmt := range migrations {
		if _, err := db.Exec(stmt); err != nil {
			// Tolerate "duplicate column name" errors from ALTER TABLE
			// since the migration system re-runs all statements.
			if strings.Contains(err.Error(), "duplicate column name") {
				continue
			}
			return fmt.Errorf("migration %d: %w", i, err)
		}
	}
	if err := migrateBackfillUpdatedAt(db); err != nil {
		return fmt.Errorf("backfilling kv_store updated_at: %w", err)
	}
	return nil
}

var migrations = []string{
	`CREATE TABLE IF NOT EXISTS kv_store (
		key   TEXT PRIMARY KEY,
		value TEXT NOT NULL
	)`,

	`CREATE TABLE IF NOT EXISTS sync_log (
		id          INTEGER PRIMARY KEY AUTOINCREMENT,
		direction   TEXT NOT NULL CHECK(direction IN ('push','pull')),
		state       TEXT NOT NULL CHECK(state IN ('synced','error')),
		message     TEXT NOT NULL DEFAULT '',
		revision    TEXT NOT NULL DEFAULT '',
		started_at  TEXT NOT NULL,
		finished_at TEXT NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_sync_log_finished ON sync_log(finished_at)`,

	// Track when each key was last written
	`ALTER TABLE kv_store ADD COLUMN updated_at TEXT NOT NULL DEFAULT ''`,
}

// migrateBackfillUpdatedAt stamps rows written before updated_at existed.
// Idempotent: only touches rows that still carry the empty default.
func migrateBackfillUpdatedAt(db *sql.DB) error {
	ctx := context.Background()
	now := time.Now().UTC().Format(time.RFC3339)
	if _, err := db.ExecContext(ctx, `UPDATE kv_store SET updated_at = ? WHERE updated_at = ''`, now); err != nil {
		return fmt.Errorf("updating kv_store rows: %w", err)
	}
	return nil
}
