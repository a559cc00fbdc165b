package index

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/starford/ansuz/internal/apperr"
)

// PromptRow represents a row in the prompts table. Name is the identity key;
// path records where the content came from but does not identify the prompt.
type PromptRow struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	Path        string    `json:"path,omitempty"`
	Title       string    `json:"title,omitempty"`
	Author      string    `json:"author,omitempty"`
	Description string    `json:"description,omitempty"`
	Content     string    `json:"content,omitempty"`
	FileHash    string    `json:"file_hash"`
	SizeBytes   int64     `json:"size_bytes"`
	TokenCount  int64     `json:"token_count"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

const promptColumns = `id, name, path, title, author, description, content,
	file_hash, size_bytes, token_count, created_at, updated_at`

func scanPrompt(row scanner) (PromptRow, error) {
	var p PromptRow
	err := row.Scan(&p.ID, &p.Name, &p.Path, &p.Title, &p.Author, &p.Description,
		&p.Content, &p.FileHash, &p.SizeBytes, &p.TokenCount, &p.CreatedAt, &p.UpdatedAt)
	return p, err
}

// UpsertPrompt inserts, refreshes, or skips a prompt keyed by name, with the
// same hash-driven change detection as UpsertSkill.
func (db *DB) UpsertPrompt(p PromptRow) (Outcome, error) {
	tx, err := db.conn.Begin()
	if err != nil {
		return OutcomeError, fmt.Errorf("index: begin tx: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // best-effort on failure path

	var storedHash string
	err = tx.QueryRow(`SELECT file_hash FROM prompts WHERE name = ?`, p.Name).Scan(&storedHash)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		now := time.Now().UTC()
		_, err = tx.Exec(`
			INSERT INTO prompts (name, path, title, author, description, content,
				file_hash, size_bytes, token_count, created_at, updated_at)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		`, p.Name, p.Path, p.Title, p.Author, p.Description, p.Content,
			p.FileHash, p.SizeBytes, p.TokenCount, now, now)
		if err != nil {
			return OutcomeError, fmt.Errorf("index: insert prompt: %w", err)
		}
		if err := ftsUpsertPrompt(tx, p); err != nil {
			return OutcomeError, err
		}
		if err := tx.Commit(); err != nil {
			return OutcomeError, fmt.Errorf("index: commit: %w", err)
		}
		return OutcomeInserted, nil

	case err != nil:
		return OutcomeError, fmt.Errorf("index: lookup prompt: %w", err)

	case storedHash == p.FileHash:
		return OutcomeSkipped, nil
	}

	_, err = tx.Exec(`
		UPDATE prompts SET path = ?, title = ?, author = ?, description = ?,
			content = ?, file_hash = ?, size_bytes = ?, token_count = ?, updated_at = ?
		WHERE name = ?
	`, p.Path, p.Title, p.Author, p.Description, p.Content,
		p.FileHash, p.SizeBytes, p.TokenCount, time.Now().UTC(), p.Name)
	if err != nil {
		return OutcomeError, fmt.Errorf("index: update prompt: %w", err)
	}
	if err := ftsUpsertPrompt(tx, p); err != nil {
		return OutcomeError, err
	}
	if err := tx.Commit(); err != nil {
		return OutcomeError, fmt.Errorf("index: commit: %w", err)
	}
	return OutcomeUpdated, nil
}

// GetPromptByName returns a single prompt with content, or apperr.ErrNotFound.
func (db *DB) GetPromptByName(name string) (*PromptRow, error) {
	p, err := scanPrompt(db.conn.QueryRow(
		`SELECT `+promptColumns+` FROM prompts WHERE name = ?`, name))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperr.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("index: get prompt: %w", err)
	}
	return &p, nil
}

// ListPrompts returns prompts ordered by name. Content is omitted.
func (db *DB) ListPrompts() ([]PromptRow, error) {
	rows, err := db.conn.Query(`SELECT id, name, path, title, author, description, '',
		file_hash, size_bytes, token_count, created_at, updated_at
		FROM prompts ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("index: list prompts: %w", err)
	}
	defer rows.Close()

	var out []PromptRow
	for rows.Next() {
		p, err := scanPrompt(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

// DeletePrompt removes one prompt, its FTS entry, and its reference rows.
func (db *DB) DeletePrompt(name string) error {
	tx, err := db.conn.Begin()
	if err != nil {
		return fmt.Errorf("index: begin tx: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	res, err := tx.Exec(`DELETE FROM prompts WHERE name = ?`, name)
	if err != nil {
		return fmt.Errorf("index: delete prompt: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return apperr.ErrNotFound
	}
	if err := ftsDeletePrompt(tx, name); err != nil {
		return err
	}
	return tx.Commit()
}
