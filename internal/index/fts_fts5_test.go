//go:build sqlite_fts5

package index

import (
	"strings"
	"testing"
)

func TestFTS5_TablesExist(t *testing.T) {
	db := testDB(t)
	var count int
	if err := db.conn.QueryRow(`SELECT count(*) FROM skills_fts`).Scan(&count); err != nil {
		t.Fatalf("skills_fts table missing: %v", err)
	}
	if err := db.conn.QueryRow(`SELECT count(*) FROM prompts_fts`).Scan(&count); err != nil {
		t.Fatalf("prompts_fts table missing: %v", err)
	}
}

func TestFTS5_SnippetMarkers(t *testing.T) {
	db := testDB(t)
	s := testSkill("skills/go/search.md", "go", "search", "1")
	s.Content = "Ansuz provides powerful full-text search over skills."
	if _, err := db.UpsertSkill(s); err != nil {
		t.Fatalf("UpsertSkill: %v", err)
	}

	hits, err := db.SearchSkills("powerful", "", 10)
	if err != nil {
		t.Fatalf("SearchSkills: %v", err)
	}
	if len(hits) != 1 {
		t.Fatalf("expected 1 hit, got %d", len(hits))
	}
	if !strings.Contains(hits[0].Snippet, "[powerful]") {
		t.Errorf("snippet = %q, want the match bracketed", hits[0].Snippet)
	}
}

func TestFTS5_RankOrdersResults(t *testing.T) {
	db := testDB(t)
	dense := testSkill("skills/go/dense.md", "go", "dense", "1")
	dense.Content = "retry retry retry retry retry"
	sparse := testSkill("skills/go/sparse.md", "go", "sparse", "2")
	sparse.Content = "a single retry somewhere in a longer body of unrelated prose about robustness"
	_, _ = db.UpsertSkill(dense)
	_, _ = db.UpsertSkill(sparse)

	hits, err := db.SearchSkills("retry", "", 10)
	if err != nil {
		t.Fatalf("SearchSkills: %v", err)
	}
	if len(hits) != 2 {
		t.Fatalf("expected 2 hits, got %d", len(hits))
	}
	if hits[0].Path != "skills/go/dense.md" {
		t.Errorf("best hit = %q, want the denser document first", hits[0].Path)
	}
	if hits[0].Rank >= hits[1].Rank {
		t.Errorf("ranks not ascending: %f then %f", hits[0].Rank, hits[1].Rank)
	}
}

func TestFTS5_DeleteRemovesFromFTS(t *testing.T) {
	db := testDB(t)
	s := testSkill("skills/gone.md", "uncategorized", "gone", "g")
	s.Content = "vanishing content"
	_, _ = db.UpsertSkill(s)
	_ = db.DeleteSkill("skills/gone.md")

	hits, _ := db.SearchSkills("vanishing", "", 10)
	for _, h := range hits {
		if h.Path == "skills/gone.md" {
			t.Error("deleted skill still in FTS index")
		}
	}
}

func TestFTS5_UpsertReplacesContent(t *testing.T) {
	db := testDB(t)
	s := testSkill("skills/evo.md", "uncategorized", "evo", "1")
	s.Content = "original text"
	_, _ = db.UpsertSkill(s)
	s.FileHash = "2"
	s.Content = "replacement text"
	_, _ = db.UpsertSkill(s)

	hits, _ := db.SearchSkills("original", "", 10)
	if len(hits) != 0 {
		t.Error("old FTS content should be gone")
	}
	hits, _ = db.SearchSkills("replacement", "", 10)
	if len(hits) != 1 {
		t.Errorf("FTS not updated: %+v", hits)
	}
}

func TestFTS5_PromptSearchSnippet(t *testing.T) {
	db := testDB(t)
	p := PromptRow{Name: "refactor", Title: "Refactor", Content: "Carefully untangle the dependencies first.", FileHash: "1"}
	if _, err := db.UpsertPrompt(p); err != nil {
		t.Fatalf("UpsertPrompt: %v", err)
	}

	hits, err := db.SearchPrompts("untangle", 10)
	if err != nil {
		t.Fatalf("SearchPrompts: %v", err)
	}
	if len(hits) != 1 || !strings.Contains(hits[0].Snippet, "[untangle]") {
		t.Errorf("hits = %+v, want a bracketed snippet", hits)
	}
}
