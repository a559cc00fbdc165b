package index

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/starford/ansuz/internal/apperr"
)

// SkillRow represents a row in the skills table. Path is the identity key.
type SkillRow struct {
	ID          int64     `json:"id"`
	Path        string    `json:"path"`
	Category    string    `json:"category"`
	Name        string    `json:"name"`
	Title       string    `json:"title,omitempty"`
	Description string    `json:"description,omitempty"`
	Content     string    `json:"content,omitempty"`
	FileHash    string    `json:"file_hash"`
	SizeBytes   int64     `json:"size_bytes"`
	TokenCount  int64     `json:"token_count"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

const skillColumns = `id, path, category, name, title, description, content,
	file_hash, size_bytes, token_count, created_at, updated_at`

// scanner is satisfied by both *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanSkill(row scanner) (SkillRow, error) {
	var s SkillRow
	err := row.Scan(&s.ID, &s.Path, &s.Category, &s.Name, &s.Title, &s.Description,
		&s.Content, &s.FileHash, &s.SizeBytes, &s.TokenCount, &s.CreatedAt, &s.UpdatedAt)
	return s, err
}

// UpsertSkill inserts a new skill, refreshes a changed one, or leaves an
// unchanged one untouched, keyed by path. The stored file_hash decides:
// equal hash is a pure no-op (timestamps included), a differing hash updates
// every content column plus updated_at, and a missing row inserts with
// created_at = updated_at = now.
func (db *DB) UpsertSkill(s SkillRow) (Outcome, error) {
	tx, err := db.conn.Begin()
	if err != nil {
		return OutcomeError, fmt.Errorf("index: begin tx: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // best-effort on failure path

	var storedHash string
	err = tx.QueryRow(`SELECT file_hash FROM skills WHERE path = ?`, s.Path).Scan(&storedHash)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		now := time.Now().UTC()
		_, err = tx.Exec(`
			INSERT INTO skills (path, category, name, title, description, content,
				file_hash, size_bytes, token_count, created_at, updated_at)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		`, s.Path, s.Category, s.Name, s.Title, s.Description, s.Content,
			s.FileHash, s.SizeBytes, s.TokenCount, now, now)
		if err != nil {
			return OutcomeError, fmt.Errorf("index: insert skill: %w", err)
		}
		if err := ftsUpsertSkill(tx, s); err != nil {
			return OutcomeError, err
		}
		if err := tx.Commit(); err != nil {
			return OutcomeError, fmt.Errorf("index: commit: %w", err)
		}
		return OutcomeInserted, nil

	case err != nil:
		return OutcomeError, fmt.Errorf("index: lookup skill: %w", err)

	case storedHash == s.FileHash:
		// Unchanged. Nothing is written, so updated_at keeps its value.
		return OutcomeSkipped, nil
	}

	_, err = tx.Exec(`
		UPDATE skills SET category = ?, name = ?, title = ?, description = ?,
			content = ?, file_hash = ?, size_bytes = ?, token_count = ?, updated_at = ?
		WHERE path = ?
	`, s.Category, s.Name, s.Title, s.Description, s.Content,
		s.FileHash, s.SizeBytes, s.TokenCount, time.Now().UTC(), s.Path)
	if err != nil {
		return OutcomeError, fmt.Errorf("index: update skill: %w", err)
	}
	if err := ftsUpsertSkill(tx, s); err != nil {
		return OutcomeError, err
	}
	if err := tx.Commit(); err != nil {
		return OutcomeError, fmt.Errorf("index: commit: %w", err)
	}
	return OutcomeUpdated, nil
}

// GetSkillByPath returns a single skill with content, or apperr.ErrNotFound.
func (db *DB) GetSkillByPath(path string) (*SkillRow, error) {
	s, err := scanSkill(db.conn.QueryRow(
		`SELECT `+skillColumns+` FROM skills WHERE path = ?`, path))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperr.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("index: get skill: %w", err)
	}
	return &s, nil
}

// SkillsByName returns every skill with the given base name. Names are only
// unique within a category, so more than one row can come back.
func (db *DB) SkillsByName(name string) ([]SkillRow, error) {
	rows, err := db.conn.Query(
		`SELECT `+skillColumns+` FROM skills WHERE name = ? ORDER BY category, path`, name)
	if err != nil {
		return nil, fmt.Errorf("index: skills by name: %w", err)
	}
	defer rows.Close()
	return collectSkills(rows)
}

// ListSkills returns skills ordered by (category, name), optionally filtered
// to one category. Content is omitted from listings.
func (db *DB) ListSkills(category string) ([]SkillRow, error) {
	q := `SELECT id, path, category, name, title, description, '',
		file_hash, size_bytes, token_count, created_at, updated_at
		FROM skills`
	var args []any
	if category != "" {
		q += ` WHERE category = ?`
		args = append(args, category)
	}
	q += ` ORDER BY category, name`

	rows, err := db.conn.Query(q, args...)
	if err != nil {
		return nil, fmt.Errorf("index: list skills: %w", err)
	}
	defer rows.Close()
	return collectSkills(rows)
}

func collectSkills(rows *sql.Rows) ([]SkillRow, error) {
	var out []SkillRow
	for rows.Next() {
		s, err := scanSkill(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

// DeleteSkill removes one skill and its FTS entry. Association rows held by
// fragments cascade away with the skill id.
func (db *DB) DeleteSkill(path string) error {
	tx, err := db.conn.Begin()
	if err != nil {
		return fmt.Errorf("index: begin tx: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	res, err := tx.Exec(`DELETE FROM skills WHERE path = ?`, path)
	if err != nil {
		return fmt.Errorf("index: delete skill: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return apperr.ErrNotFound
	}
	if err := ftsDeleteSkill(tx, path); err != nil {
		return err
	}
	return tx.Commit()
}

// SkillHashes returns the stored file_hash for every indexed skill, keyed by
// path. Sync uses this to skip unchanged files without reading them twice.
func (db *DB) SkillHashes() (map[string]string, error) {
	rows, err := db.conn.Query(`SELECT path, file_hash FROM skills`)
	if err != nil {
		return nil, fmt.Errorf("index: skill hashes: %w", err)
	}
	defer rows.Close()

	out := make(map[string]string)
	for rows.Next() {
		var p, h string
		if err := rows.Scan(&p, &h); err != nil {
			return nil, err
		}
		out[p] = h
	}
	return out, rows.Err()
}

// CategoryCount is one row of the category breakdown.
type CategoryCount struct {
	Category string `json:"category"`
	Count    int64  `json:"count"`
}

// Categories returns the derived category aggregate over skills.
func (db *DB) Categories() ([]CategoryCount, error) {
	rows, err := db.conn.Query(
		`SELECT category, COUNT(*) FROM skills GROUP BY category ORDER BY category`)
	if err != nil {
		return nil, fmt.Errorf("index: categories: %w", err)
	}
	defer rows.Close()

	var out []CategoryCount
	for rows.Next() {
		var c CategoryCount
		if err := rows.Scan(&c.Category, &c.Count); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}
