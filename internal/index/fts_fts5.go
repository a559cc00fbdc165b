//go:build sqlite_fts5

package index

import (
	"database/sql"
	"fmt"
)

func initFTS(conn *sql.DB) error {
	_, err := conn.Exec(`
		CREATE VIRTUAL TABLE IF NOT EXISTS skills_fts USING fts5(
			path UNINDEXED,
			name,
			title,
			description,
			content,
			tokenize = 'unicode61 remove_diacritics 2'
		);
		CREATE VIRTUAL TABLE IF NOT EXISTS prompts_fts USING fts5(
			name UNINDEXED,
			title,
			description,
			content,
			tokenize = 'unicode61 remove_diacritics 2'
		);
	`)
	return err
}

func ftsUpsertSkill(tx *sql.Tx, s SkillRow) error {
	_, _ = tx.Exec(`DELETE FROM skills_fts WHERE path = ?`, s.Path)
	_, err := tx.Exec(`
		INSERT INTO skills_fts (path, name, title, description, content)
		VALUES (?, ?, ?, ?, ?)
	`, s.Path, s.Name, s.Title, s.Description, s.Content)
	if err != nil {
		return fmt.Errorf("index: upsert skill fts: %w", err)
	}
	return nil
}

func ftsDeleteSkill(tx *sql.Tx, path string) error {
	if _, err := tx.Exec(`DELETE FROM skills_fts WHERE path = ?`, path); err != nil {
		return fmt.Errorf("index: delete skill fts: %w", err)
	}
	return nil
}

func ftsUpsertPrompt(tx *sql.Tx, p PromptRow) error {
	_, _ = tx.Exec(`DELETE FROM prompts_fts WHERE name = ?`, p.Name)
	_, err := tx.Exec(`
		INSERT INTO prompts_fts (name, title, description, content)
		VALUES (?, ?, ?, ?)
	`, p.Name, p.Title, p.Description, p.Content)
	if err != nil {
		return fmt.Errorf("index: upsert prompt fts: %w", err)
	}
	return nil
}

func ftsDeletePrompt(tx *sql.Tx, name string) error {
	if _, err := tx.Exec(`DELETE FROM prompts_fts WHERE name = ?`, name); err != nil {
		return fmt.Errorf("index: delete prompt fts: %w", err)
	}
	return nil
}

func ftsReset(tx *sql.Tx) error {
	for _, table := range []string{"skills_fts", "prompts_fts"} {
		if _, err := tx.Exec(`DELETE FROM ` + table); err != nil {
			return fmt.Errorf("index: reset %s: %w", table, err)
		}
	}
	return nil
}

// SearchSkills performs an FTS5 full-text search over skills and returns
// matches with snippets, best rank first. An empty category matches all.
func (db *DB) SearchSkills(query, category string, limit int) ([]SkillHit, error) {
	if limit <= 0 {
		limit = DefaultSearchLimit
	}
	q := `
		SELECT s.path, s.category, s.name, s.title,
		       snippet(skills_fts, 4, '[', ']', '...', 64),
		       bm25(skills_fts)
		FROM skills_fts
		JOIN skills s ON s.path = skills_fts.path
		WHERE skills_fts MATCH ?`
	args := []any{query}
	if category != "" {
		q += ` AND s.category = ?`
		args = append(args, category)
	}
	q += `
		ORDER BY bm25(skills_fts)
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
		if err := rows.Scan(&h.Path, &h.Category, &h.Name, &h.Title, &h.Snippet, &h.Rank); err != nil {
			return nil, err
		}
		out = append(out, h)
	}
	return out, rows.Err()
}

// SearchPrompts performs an FTS5 full-text search over prompts.
func (db *DB) SearchPrompts(query string, limit int) ([]PromptHit, error) {
	if limit <= 0 {
		limit = DefaultSearchLimit
	}
	rows, err := db.conn.Query(`
		SELECT p.name, p.title,
		       snippet(prompts_fts, 3, '[', ']', '...', 64),
		       bm25(prompts_fts)
		FROM prompts_fts
		JOIN prompts p ON p.name = prompts_fts.name
		WHERE prompts_fts MATCH ?
		ORDER BY bm25(prompts_fts)
		LIMIT ?
	`, query, limit)
	if err != nil {
		return nil, fmt.Errorf("index: search prompts: %w", err)
	}
	defer rows.Close()

	var out []PromptHit
	for rows.Next() {
		var h PromptHit
		if err := rows.Scan(&h.Name, &h.Title, &h.Snippet, &h.Rank); err != nil {
			return nil, err
		}
		out = append(out, h)
	}
	return out, rows.Err()
}
