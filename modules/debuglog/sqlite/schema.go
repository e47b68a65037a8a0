package sqlite

import (
	"context"
	"database/sql"
	"fmt"
)

const schemaVersion = 1

// schemaStatements are executed in order to create the database schema.
// All use IF NOT EXISTS for idempotent re-application. Entry IDs are
// ULIDs, so lexicographic order on id is creation order.
var schemaStatements = []string{
	`CREATE TABLE IF NOT EXISTS entries (
		id          TEXT PRIMARY KEY,
		recorded_at TEXT NOT NULL,
		turn_id     TEXT NOT NULL DEFAULT '',
		user_id     TEXT NOT NULL DEFAULT '',
		tenant_id   TEXT NOT NULL DEFAULT '',
		included    TEXT NOT NULL DEFAULT '[]',
		metrics     TEXT NOT NULL DEFAULT '{}',
		excluded    TEXT NOT NULL DEFAULT '[]'
	)`,

	`CREATE INDEX IF NOT EXISTS idx_entries_recorded ON entries(recorded_at)`,

	`CREATE INDEX IF NOT EXISTS idx_entries_turn ON entries(turn_id)`,
}

// migrate creates or updates the database schema to the latest version.
// All DDL uses IF NOT EXISTS, making migration idempotent.
func migrate(db *sql.DB) error {
	ctx := context.TODO()

	if _, err := db.ExecContext(ctx, "CREATE TABLE IF NOT EXISTS schema_version (version INTEGER PRIMARY KEY)"); err != nil {
		return fmt.Errorf("sqlite: create schema_version: %w", err)
	}

	var current int
	if err := db.QueryRowContext(ctx, "SELECT COALESCE(MAX(version), 0) FROM schema_version").Scan(&current); err != nil {
		return fmt.Errorf("sqlite: read schema version: %w", err)
	}

	if current >= schemaVersion {
		return nil
	}

	for _, stmt := range schemaStatements {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("sqlite: migrate: %w\nstatement: %s", err, stmt)
		}
	}

	if _, err := db.ExecContext(ctx, "INSERT OR REPLACE INTO schema_version (version) VALUES (?)", schemaVersion); err != nil {
		return fmt.Errorf("sqlite: record schema version: %w", err)
	}

	return nil
}
