//go:build !sqlite_fts5

package index

import (
	"database/sql"
	"fmt"
)

func initFTS(_ *sql.DB) error {
	// FTS5 not available; search uses a LIKE fallback on the base tables.
	return nil
}

func ftsUpsertSkill(_ *sql.Tx, _ SkillRow) error {
	// Content is already stored in the skills table; nothing extra to do.
	return nil
}

func ftsDeleteSkill(_ *sql.Tx, _ string) error { return nil }

func ftsUpsertPrompt(_ *sql.Tx, _ PromptRow) error { return nil }

func ftsDeletePrompt(_ *sql.Tx, _ string) error { return nil }

func ftsReset(_ *sql.Tx) error { return nil }

// SearchSkills performs a LIKE-based search (fallback when FTS5 is not
// compiled in). Rank is always zero.
func (db *DB) SearchSkills(query, category string, limit int) ([]SkillHit, error) {
	if limit <= 0 {
		limit = DefaultSearchLimit
	}
	like := "%" + query + "%"
	q := `
		SELECT path, category, name, title, substr(content, 1, 200)
		FROM skills
		WHERE (name LIKE ? OR title LIKE ? OR description LIKE ? OR content LIKE ?)`
	args := []any{like, like, like, like}
	if category != "" {
		q += ` AND category = ?`
		args = append(args, category)
	}
	q += `
		ORDER BY category, name
		LIMIT ?`
	args = append(args, limit)

	rows, err := db.conn.Query(q, args...)
	if err != nil {
		return nil, fmt.Errorf("index: search skills: %w", err)
	}
	defer rows.Close()

	var out []SkillHit
	for rows.Next() {
		var h SkillHit
		if err := rows.Scan(&h.Path, &h.Category, &h.Name, &h.Title, &h.Snippet); err != nil {
			return nil, err
		}
		out = append(out, h)
	}
	return out, rows.Err()
}

// SearchPrompts performs a LIKE-based search over prompts.
func (db *DB) SearchPrompts(query string, limit int) ([]PromptHit, error) {
	if limit <= 0 {
		limit = DefaultSearchLimit
	}
	like := "%" + query + "%"
	rows, err := db.conn.Query(`
		SELECT name, title, substr(content, 1, 200)
		FROM prompts
		WHERE name LIKE ? OR title LIKE ? OR description LIKE ? OR content LIKE ?
		ORDER BY name
		LIMIT ?
	`, like, like, like, like, limit)
	if err != nil {
		return nil, fmt.Errorf("index: search prompts: %w", err)
	}
	defer rows.Close()

	var out []PromptHit
	for rows.Next() {
		var h PromptHit
		if err := rows.Scan(&h.Name, &h.Title, &h.Snippet); err != nil {
			return nil, err
		}
		out = append(out, h)
	}
	return out, rows.Err()
}
