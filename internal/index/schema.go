// Package index provides the SQLite-backed library index: skill and prompt
// documents with optional FTS5 full-text search, fragment associations, and
// plan/task tracking.
package index

import (
	"database/sql"
	"fmt"

	_ "github.com/mattn/go-sqlite3"
)

// migrations is the fixed, ordered, idempotent schema history. Statements
// are applied in sequence on every Open; IF NOT EXISTS keeps re-runs cheap.
var migrations = []string{
	`
CREATE TABLE IF NOT EXISTS skills (
	id          INTEGER PRIMARY KEY AUTOINCREMENT,
	path        TEXT NOT NULL UNIQUE,
	category    TEXT NOT NULL DEFAULT 'uncategorized',
	name        TEXT NOT NULL,
	title       TEXT NOT NULL DEFAULT '',
	description TEXT NOT NULL DEFAULT '',
	content     TEXT NOT NULL DEFAULT '',
	file_hash   TEXT NOT NULL,
	size_bytes  INTEGER NOT NULL DEFAULT 0,
	token_count INTEGER NOT NULL DEFAULT 0,
	created_at  DATETIME NOT NULL,
	updated_at  DATETIME NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_skills_category ON skills(category);
CREATE INDEX IF NOT EXISTS idx_skills_name ON skills(name);
`,
	`
CREATE TABLE IF NOT EXISTS prompts (
	id          INTEGER PRIMARY KEY AUTOINCREMENT,
	name        TEXT NOT NULL UNIQUE,
	path        TEXT NOT NULL DEFAULT '',
	title       TEXT NOT NULL DEFAULT '',
	author      TEXT NOT NULL DEFAULT '',
	description TEXT NOT NULL DEFAULT '',
	content     TEXT NOT NULL DEFAULT '',
	file_hash   TEXT NOT NULL,
	size_bytes  INTEGER NOT NULL DEFAULT 0,
	token_count INTEGER NOT NULL DEFAULT 0,
	created_at  DATETIME NOT NULL,
	updated_at  DATETIME NOT NULL
);
`,
	`
CREATE TABLE IF NOT EXISTS prompt_fragments (
	id          INTEGER PRIMARY KEY AUTOINCREMENT,
	name        TEXT NOT NULL UNIQUE,
	title       TEXT NOT NULL DEFAULT '',
	description TEXT NOT NULL DEFAULT ''
);

CREATE TABLE IF NOT EXISTS prompt_fragment_skills (
	fragment_id INTEGER NOT NULL REFERENCES prompt_fragments(id) ON DELETE CASCADE,
	skill_id    INTEGER NOT NULL REFERENCES skills(id) ON DELETE CASCADE,
	position    INTEGER NOT NULL DEFAULT 1,
	UNIQUE(fragment_id, skill_id)
);

CREATE TABLE IF NOT EXISTS prompt_references (
	source_prompt_id   INTEGER NOT NULL REFERENCES prompts(id) ON DELETE CASCADE,
	target_fragment_id INTEGER NOT NULL REFERENCES prompt_fragments(id) ON DELETE CASCADE,
	reference_type     TEXT NOT NULL DEFAULT 'fragment',
	position           INTEGER NOT NULL,
	UNIQUE(source_prompt_id, position)
);

CREATE INDEX IF NOT EXISTS idx_prompt_references_source ON prompt_references(source_prompt_id);
`,
	`
CREATE TABLE IF NOT EXISTS plans (
	id          INTEGER PRIMARY KEY AUTOINCREMENT,
	name        TEXT NOT NULL UNIQUE,
	description TEXT NOT NULL DEFAULT '',
	status      TEXT NOT NULL DEFAULT 'active',
	created_at  DATETIME NOT NULL,
	updated_at  DATETIME NOT NULL
);

CREATE TABLE IF NOT EXISTS task_lists (
	id       INTEGER PRIMARY KEY AUTOINCREMENT,
	plan_id  INTEGER NOT NULL REFERENCES plans(id) ON DELETE CASCADE,
	name     TEXT NOT NULL,
	position INTEGER NOT NULL DEFAULT 1,
	UNIQUE(plan_id, name)
);

CREATE TABLE IF NOT EXISTS tasks (
	id           INTEGER PRIMARY KEY AUTOINCREMENT,
	task_list_id INTEGER NOT NULL REFERENCES task_lists(id) ON DELETE CASCADE,
	content      TEXT NOT NULL,
	status       TEXT NOT NULL DEFAULT 'todo',
	position     INTEGER NOT NULL DEFAULT 1,
	created_at   DATETIME NOT NULL,
	updated_at   DATETIME NOT NULL
);
`,
}

// DB wraps a sql.DB with library index operations.
type DB struct {
	conn *sql.DB
}

// Open opens (or creates) the SQLite database and applies the schema.
func Open(dsn string) (*DB, error) {
	conn, err := sql.Open("sqlite3", dsn+"?_journal_mode=WAL&_busy_timeout=5000&_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("index: open db: %w", err)
	}
	if err := conn.Ping(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("index: ping: %w", err)
	}
	for i, m := range migrations {
		if _, err := conn.Exec(m); err != nil {
			conn.Close()
			return nil, fmt.Errorf("index: apply migration %d: %w", i+1, err)
		}
	}
	if err := initFTS(conn); err != nil {
		conn.Close()
		return nil, fmt.Errorf("index: apply fts schema: %w", err)
	}
	return &DB{conn: conn}, nil
}

// Close closes the underlying database connection.
func (db *DB) Close() error {
	return db.conn.Close()
}

// Reset deletes every row from every table. Schema stays in place.
// Callers gate this behind an explicit confirmation.
func (db *DB) Reset() error {
	tx, err := db.conn.Begin()
	if err != nil {
		return fmt.Errorf("index: begin tx: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // best-effort on failure path

	for _, table := range []string{
		"prompt_references",
		"prompt_fragment_skills",
		"prompt_fragments",
		"tasks",
		"task_lists",
		"plans",
		"prompts",
		"skills",
	} {
		if _, err := tx.Exec(`DELETE FROM ` + table); err != nil {
			return fmt.Errorf("index: reset %s: %w", table, err)
		}
	}
	if err := ftsReset(tx); err != nil {
		return err
	}
	return tx.Commit()
}
