package index

import (
	"database/sql"
	"fmt"
	"path"
	"strings"
)

// Reference positions split into two disjoint ranges by convention: embedded
// fragments count up from 1, reference-only fragments count up from 100.
// Listing code separates inlined content from see-also pointers by range.
const (
	embedPositionBase     = 1
	referencePositionBase = 100
)

// Reference types recorded on prompt_references rows.
const (
	refTypeFragment  = "fragment"
	refTypeReference = "reference"
)

// FragmentRow represents a reusable named bundle of skills. One fragment
// exists per skill path; prompts share fragments rather than duplicating
// them.
type FragmentRow struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Title       string `json:"title,omitempty"`
	Description string `json:"description,omitempty"`
}

// PromptSkillRef is one resolved association between a prompt and a skill,
// carried through the fragment it belongs to.
type PromptSkillRef struct {
	Fragment  string `json:"fragment"`
	SkillPath string `json:"skill_path"`
	SkillName string `json:"skill_name"`
	Title     string `json:"title,omitempty"`
	Position  int    `json:"position"`
	Embedded  bool   `json:"embedded"`
}

// fragmentName derives the reusable fragment name from a skill path:
// the path with its extension stripped.
func fragmentName(skillPath string) string {
	return strings.TrimSuffix(skillPath, path.Ext(skillPath))
}

// RebuildPromptLinks replaces the prompt's association rows with the given
// ordered skill lists. Fragments are upserted by name and their single-skill
// membership refreshed; the prompt's reference rows are deleted and
// reinserted, embedded skills at positions 1.. and reference-only skills at
// positions 100.. in declaration order.
func (db *DB) RebuildPromptLinks(promptID int64, embedded, referenced []SkillRow) error {
	tx, err := db.conn.Begin()
	if err != nil {
		return fmt.Errorf("index: begin tx: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // best-effort on failure path

	if _, err := tx.Exec(`DELETE FROM prompt_references WHERE source_prompt_id = ?`, promptID); err != nil {
		return fmt.Errorf("index: clear prompt references: %w", err)
	}

	insert := func(skills []SkillRow, refType string, base int) error {
		for i, s := range skills {
			fid, err := upsertFragmentTx(tx, fragmentName(s.Path), s.Title, s.Description)
			if err != nil {
				return err
			}
			if _, err := tx.Exec(`DELETE FROM prompt_fragment_skills WHERE fragment_id = ?`, fid); err != nil {
				return fmt.Errorf("index: clear fragment skills: %w", err)
			}
			if _, err := tx.Exec(`
				INSERT INTO prompt_fragment_skills (fragment_id, skill_id, position)
				VALUES (?, ?, 1)
			`, fid, s.ID); err != nil {
				return fmt.Errorf("index: insert fragment skill: %w", err)
			}
			if _, err := tx.Exec(`
				INSERT INTO prompt_references (source_prompt_id, target_fragment_id, reference_type, position)
				VALUES (?, ?, ?, ?)
			`, promptID, fid, refType, base+i); err != nil {
				return fmt.Errorf("index: insert prompt reference: %w", err)
			}
		}
		return nil
	}

	if err := insert(embedded, refTypeFragment, embedPositionBase); err != nil {
		return err
	}
	if err := insert(referenced, refTypeReference, referencePositionBase); err != nil {
		return err
	}
	return tx.Commit()
}

// upsertFragmentTx creates or refreshes a fragment by name and returns its id.
func upsertFragmentTx(tx *sql.Tx, name, title, description string) (int64, error) {
	_, err := tx.Exec(`
		INSERT INTO prompt_fragments (name, title, description)
		VALUES (?, ?, ?)
		ON CONFLICT(name) DO UPDATE SET
			title       = excluded.title,
			description = excluded.description
	`, name, title, description)
	if err != nil {
		return 0, fmt.Errorf("index: upsert fragment: %w", err)
	}
	var id int64
	if err := tx.QueryRow(`SELECT id FROM prompt_fragments WHERE name = ?`, name).Scan(&id); err != nil {
		return 0, fmt.Errorf("index: fragment id: %w", err)
	}
	return id, nil
}

// PromptSkills returns the prompt's associations in position order. The
// Embedded flag reflects which position range a row lives in.
func (db *DB) PromptSkills(promptID int64) ([]PromptSkillRef, error) {
	rows, err := db.conn.Query(`
		SELECT f.name, s.path, s.name, s.title, pr.position
		FROM prompt_references pr
		JOIN prompt_fragments f ON f.id = pr.target_fragment_id
		JOIN prompt_fragment_skills pfs ON pfs.fragment_id = f.id
		JOIN skills s ON s.id = pfs.skill_id
		WHERE pr.source_prompt_id = ?
		ORDER BY pr.position
	`, promptID)
	if err != nil {
		return nil, fmt.Errorf("index: prompt skills: %w", err)
	}
	defer rows.Close()

	var out []PromptSkillRef
	for rows.Next() {
		var r PromptSkillRef
		if err := rows.Scan(&r.Fragment, &r.SkillPath, &r.SkillName, &r.Title, &r.Position); err != nil {
			return nil, err
		}
		r.Embedded = r.Position < referencePositionBase
		out = append(out, r)
	}
	return out, rows.Err()
}

// PromptDetail is a prompt with its resolved associations, split by class.
type PromptDetail struct {
	PromptRow
	Fragments  []PromptSkillRef `json:"fragments,omitempty"`
	References []PromptSkillRef `json:"references,omitempty"`
}

// GetPromptDetail returns a prompt plus its embedded and reference skills.
func (db *DB) GetPromptDetail(name string) (*PromptDetail, error) {
	p, err := db.GetPromptByName(name)
	if err != nil {
		return nil, err
	}
	refs, err := db.PromptSkills(p.ID)
	if err != nil {
		return nil, err
	}
	d := &PromptDetail{PromptRow: *p}
	for _, r := range refs {
		if r.Embedded {
			d.Fragments = append(d.Fragments, r)
		} else {
			d.References = append(d.References, r)
		}
	}
	return d, nil
}
