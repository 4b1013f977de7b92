package store

import (
	"context"
	"database/sql"
	"fmt"
)

// Migration is one forward schema step.
type Migration struct {
	Version int
	UpSQL   string
}

var migrations = []Migration{
	{
		Version: 1,
		UpSQL: `
CREATE TABLE IF NOT EXISTS templates (
	id TEXT PRIMARY KEY,
	name TEXT NOT NULL UNIQUE,
	aircraft_model TEXT NOT NULL DEFAULT '',
	airline TEXT NOT NULL DEFAULT '',
	item_count INTEGER NOT NULL DEFAULT 0,
	body TEXT NOT NULL,
	created_at TEXT NOT NULL,
	updated_at TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS global_sequence (
	id INTEGER PRIMARY KEY CHECK (id = 1),
	next_val INTEGER NOT NULL DEFAULT 1
);

INSERT OR IGNORE INTO global_sequence (id, next_val) VALUES (1, 1);

CREATE TABLE IF NOT EXISTS status_events (
	sequence INTEGER PRIMARY KEY,
	session_id TEXT NOT NULL,
	template_id TEXT NOT NULL,
	item_id TEXT NOT NULL,
	status TEXT NOT NULL CHECK(status IN ('pending','done','skipped')),
	cursor INTEGER NOT NULL,
	timestamp TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS status_events_template
ON status_events(template_id, sequence);

CREATE TABLE IF NOT EXISTS session_events (
	sequence INTEGER PRIMARY KEY,
	session_id TEXT NOT NULL,
	template_id TEXT NOT NULL,
	action TEXT NOT NULL CHECK(action IN ('start','end','reset')),
	done INTEGER NOT NULL DEFAULT 0,
	skipped INTEGER NOT NULL DEFAULT 0,
	total INTEGER NOT NULL DEFAULT 0,
	timestamp TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS session_events_template
ON session_events(template_id, sequence);

CREATE TABLE IF NOT EXISTS progress (
	template_id TEXT PRIMARY KEY,
	session_id TEXT NOT NULL,
	cursor INTEGER NOT NULL,
	statuses TEXT NOT NULL,
	paused INTEGER NOT NULL DEFAULT 0,
	updated_at TEXT NOT NULL,
	FOREIGN KEY(template_id) REFERENCES templates(id) ON DELETE CASCADE
);
`,
	},
}

// ApplyMigrations runs every migration not yet recorded in
// schema_migrations, each in its own transaction.
func ApplyMigrations(ctx context.Context, db *sql.DB) error {
	if _, err := db.ExecContext(ctx, `CREATE TABLE IF NOT EXISTS schema_migrations(version INTEGER PRIMARY KEY, applied_at TEXT NOT NULL)`); err != nil {
		return fmt.Errorf("create schema_migrations: %w", err)
	}

	for _, m := range migrations {
		var exists int
		err := db.QueryRowContext(ctx, `SELECT 1 FROM schema_migrations WHERE version = ?`, m.Version).Scan(&exists)
		if err == nil {
			continue
		}
		if err != sql.ErrNoRows {
			return fmt.Errorf("check migration %d: %w", m.Version, err)
		}

		tx, err := db.BeginTx(ctx, nil)
		if err != nil {
			return fmt.Errorf("begin tx for migration %d: %w", m.Version, err)
		}
		if _, err := tx.ExecContext(ctx, m.UpSQL); err != nil {
			tx.Rollback() //nolint:errcheck
			return fmt.Errorf("apply migration %d: %w", m.Version, err)
		}
		if _, err := tx.ExecContext(ctx, `INSERT INTO schema_migrations(version, applied_at) VALUES (?, datetime('now'))`, m.Version); err != nil {
			tx.Rollback() //nolint:errcheck
			return fmt.Errorf("record migration %d: %w", m.Version, err)
		}
		if err := tx.Commit(); err != nil {
			return fmt.Errorf("commit migration %d: %w", m.Version, err)
		}
	}
	return nil
}
