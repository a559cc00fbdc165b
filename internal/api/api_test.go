package api

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/starford/ansuz/internal/index"
	"github.com/starford/ansuz/internal/library"
	"github.com/starford/ansuz/internal/testutil"
)

// testEnv sets up a temp library root, SQLite index, service, and router.
// authToken=="" means auth disabled; non-empty means token mode.
func testEnv(t *testing.T, authToken string) (*index.DB, http.Handler) {
	t.Helper()
	return testEnvFull(t, authToken != "", authToken, nil)
}

func testEnvFull(t *testing.T, authEnabled bool, token string, sseHandler http.Handler) (*index.DB, http.Handler) {
	t.Helper()

	_, store := testutil.TestLibrary(t)
	db := testutil.TestDB(t)

	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
	svc := library.NewService(store, db, index.SyncOptions{}, logger)
	router := NewRouter(svc, authEnabled, token, sseHandler)
	return db, router
}

func seedSkill(t *testing.T, db *index.DB, path, category, name, content string) {
	t.Helper()
	_, err := db.UpsertSkill(index.SkillRow{
		Path:      path,
		Category:  category,
		Name:      name,
		Content:   content,
		FileHash:  path,
		SizeBytes: int64(len(content)),
	})
	if err != nil {
		t.Fatalf("UpsertSkill %s: %v", path, err)
	}
}

func seedPrompt(t *testing.T, db *index.DB, name, content string) {
	t.Helper()
	_, err := db.UpsertPrompt(index.PromptRow{
		Name:      name,
		Path:      "prompts/" + name + ".md",
		Content:   content,
		FileHash:  name,
		SizeBytes: int64(len(content)),
	})
	if err != nil {
		t.Fatalf("UpsertPrompt %s: %v", name, err)
	}
}

func get(t *testing.T, router http.Handler, target string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, target, nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestListSkills(t *testing.T) {
	db, router := testEnv(t, "")
	seedSkill(t, db, "skills/go/errors.md", "go", "errors", "wrap errors")
	seedSkill(t, db, "skills/python/venv.md", "python", "venv", "virtual envs")

	w := get(t, router, "/skills")
	if w.Code != http.StatusOK {
		t.Fatalf("list = %d, body = %s", w.Code, w.Body.String())
	}
	var resp map[string]any
	_ = json.Unmarshal(w.Body.Bytes(), &resp)
	skills := resp["skills"].([]any)
	if len(skills) != 2 {
		t.Errorf("len(skills) = %d, want 2", len(skills))
	}
	if resp["total"].(float64) != 2 {
		t.Errorf("total = %v, want 2", resp["total"])
	}
}

func TestListSkills_CategoryFilter(t *testing.T) {
	db, router := testEnv(t, "")
	seedSkill(t, db, "skills/go/errors.md", "go", "errors", "wrap errors")
	seedSkill(t, db, "skills/python/venv.md", "python", "venv", "virtual envs")

	w := get(t, router, "/skills?category=go")
	if w.Code != http.StatusOK {
		t.Fatalf("list = %d", w.Code)
	}
	var resp map[string]any
	_ = json.Unmarshal(w.Body.Bytes(), &resp)
	if n := len(resp["skills"].([]any)); n != 1 {
		t.Errorf("filtered skills = %d, want 1", n)
	}
}

func TestGetSkill_ByPath(t *testing.T) {
	db, router := testEnv(t, "")
	seedSkill(t, db, "skills/go/errors.md", "go", "errors", "wrap errors")

	w := get(t, router, "/skills/skills/go/errors.md")
	if w.Code != http.StatusOK {
		t.Fatalf("get = %d, body = %s", w.Code, w.Body.String())
	}
	var skill SkillDetail
	_ = json.Unmarshal(w.Body.Bytes(), &skill)
	if skill.Path != "skills/go/errors.md" {
		t.Errorf("path = %q", skill.Path)
	}
	if skill.Name != "errors" {
		t.Errorf("name = %q, want errors", skill.Name)
	}
}

func TestGetSkill_ByName(t *testing.T) {
	db, router := testEnv(t, "")
	seedSkill(t, db, "skills/go/errors.md", "go", "errors", "wrap errors")

	w := get(t, router, "/skills/errors")
	if w.Code != http.StatusOK {
		t.Fatalf("get by name = %d, body = %s", w.Code, w.Body.String())
	}
	var skill SkillDetail
	_ = json.Unmarshal(w.Body.Bytes(), &skill)
	if skill.Path != "skills/go/errors.md" {
		t.Errorf("path = %q", skill.Path)
	}
}

func TestGetSkill_NotFound(t *testing.T) {
	_, router := testEnv(t, "")

	w := get(t, router, "/skills/nope.md")
	if w.Code != http.StatusNotFound {
		t.Errorf("missing skill = %d, want 404", w.Code)
	}
}

func TestGetSkill_AmbiguousName(t *testing.T) {
	db, router := testEnv(t, "")
	seedSkill(t, db, "skills/go/http.md", "go", "http", "net/http")
	seedSkill(t, db, "skills/python/http.md", "python", "http", "requests")

	w := get(t, router, "/skills/http")
	if w.Code != http.StatusBadRequest {
		t.Errorf("ambiguous name = %d, want 400", w.Code)
	}
}

func TestSearchSkills(t *testing.T) {
	db, router := testEnv(t, "")
	seedSkill(t, db, "skills/go/errors.md", "go", "errors", "the flumoxed gopher wraps errors")
	seedSkill(t, db, "skills/go/http.md", "go", "http", "plain http handlers")

	w := get(t, router, "/skills/search?q=flumoxed")
	if w.Code != http.StatusOK {
		t.Fatalf("search = %d, body = %s", w.Code, w.Body.String())
	}
	var resp map[string]any
	_ = json.Unmarshal(w.Body.Bytes(), &resp)
	results := resp["results"].([]any)
	if len(results) != 1 {
		t.Errorf("search results = %d, want 1", len(results))
	}
}

func TestSearchSkills_MissingQuery(t *testing.T) {
	_, router := testEnv(t, "")

	w := get(t, router, "/skills/search")
	if w.Code != http.StatusBadRequest {
		t.Errorf("search no query = %d, want 400", w.Code)
	}
}

func TestSearchSkills_BlankQuery(t *testing.T) {
	_, router := testEnv(t, "")

	w := get(t, router, "/skills/search?q=%20%20")
	if w.Code != http.StatusBadRequest {
		t.Errorf("blank query = %d, want 400", w.Code)
	}
}

func TestListPrompts(t *testing.T) {
	db, router := testEnv(t, "")
	seedPrompt(t, db, "build-api", "design the endpoints first")
	seedPrompt(t, db, "review", "read the diff twice")

	w := get(t, router, "/prompts")
	if w.Code != http.StatusOK {
		t.Fatalf("list = %d", w.Code)
	}
	var resp map[string]any
	_ = json.Unmarshal(w.Body.Bytes(), &resp)
	if n := len(resp["prompts"].([]any)); n != 2 {
		t.Errorf("prompts = %d, want 2", n)
	}
}

func TestGetPrompt_WithFragments(t *testing.T) {
	db, router := testEnv(t, "")
	seedSkill(t, db, "skills/go/errors.md", "go", "errors", "wrap errors")
	seedPrompt(t, db, "build-api", "design the endpoints first")

	skill, err := db.GetSkillByPath("skills/go/errors.md")
	if err != nil {
		t.Fatal(err)
	}
	prompt, err := db.GetPromptByName("build-api")
	if err != nil {
		t.Fatal(err)
	}
	if err := db.RebuildPromptLinks(prompt.ID, []index.SkillRow{*skill}, nil); err != nil {
		t.Fatal(err)
	}

	w := get(t, router, "/prompts/build-api")
	if w.Code != http.StatusOK {
		t.Fatalf("get = %d, body = %s", w.Code, w.Body.String())
	}
	var detail PromptDetail
	_ = json.Unmarshal(w.Body.Bytes(), &detail)
	if detail.Name != "build-api" {
		t.Errorf("name = %q", detail.Name)
	}
	if len(detail.Fragments) != 1 {
		t.Errorf("fragments = %d, want 1", len(detail.Fragments))
	}
}

func TestGetPrompt_NotFound(t *testing.T) {
	_, router := testEnv(t, "")

	w := get(t, router, "/prompts/ghost")
	if w.Code != http.StatusNotFound {
		t.Errorf("missing prompt = %d, want 404", w.Code)
	}
}

func TestSearchPrompts(t *testing.T) {
	db, router := testEnv(t, "")
	seedPrompt(t, db, "build-api", "sketch the quibbletron contract")

	w := get(t, router, "/prompts/search?q=quibbletron")
	if w.Code != http.StatusOK {
		t.Fatalf("search = %d, body = %s", w.Code, w.Body.String())
	}
	var resp map[string]any
	_ = json.Unmarshal(w.Body.Bytes(), &resp)
	if n := len(resp["results"].([]any)); n != 1 {
		t.Errorf("results = %d, want 1", n)
	}
}

func TestCategories(t *testing.T) {
	db, router := testEnv(t, "")
	seedSkill(t, db, "skills/go/errors.md", "go", "errors", "a")
	seedSkill(t, db, "skills/go/http.md", "go", "http", "b")
	seedSkill(t, db, "skills/python/venv.md", "python", "venv", "c")

	w := get(t, router, "/categories")
	if w.Code != http.StatusOK {
		t.Fatalf("categories = %d", w.Code)
	}
	var resp map[string]any
	_ = json.Unmarshal(w.Body.Bytes(), &resp)
	if n := len(resp["categories"].([]any)); n != 2 {
		t.Errorf("categories = %d, want 2", n)
	}
}

func TestStats(t *testing.T) {
	db, router := testEnv(t, "")
	seedSkill(t, db, "skills/go/errors.md", "go", "errors", "0123456789")
	seedPrompt(t, db, "build-api", "01234")

	w := get(t, router, "/stats")
	if w.Code != http.StatusOK {
		t.Fatalf("stats = %d", w.Code)
	}
	var stats StatsResponse
	_ = json.Unmarshal(w.Body.Bytes(), &stats)
	if stats.Skills != 1 || stats.Prompts != 1 {
		t.Errorf("counts = %d skills / %d prompts, want 1/1", stats.Skills, stats.Prompts)
	}
	if stats.TotalSizeBytes != 15 {
		t.Errorf("total size = %d, want 15", stats.TotalSizeBytes)
	}
}

func TestAuthMiddleware_ValidToken(t *testing.T) {
	_, router := testEnv(t, "secret123")

	req := httptest.NewRequest(http.MethodGet, "/skills", nil)
	req.Header.Set("Authorization", "Bearer secret123")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Errorf("authed list = %d, want 200", w.Code)
	}
}

func TestAuthMiddleware_MissingToken(t *testing.T) {
	_, router := testEnv(t, "secret123")

	w := get(t, router, "/skills")
	if w.Code != http.StatusUnauthorized {
		t.Errorf("unauthed = %d, want 401", w.Code)
	}
}

func TestAuthMiddleware_WrongToken(t *testing.T) {
	_, router := testEnv(t, "secret123")

	req := httptest.NewRequest(http.MethodGet, "/skills", nil)
	req.Header.Set("Authorization", "Bearer wrong")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if w.Code != http.StatusUnauthorized {
		t.Errorf("wrong token = %d, want 401", w.Code)
	}
}

func TestAuthMiddleware_Disabled(t *testing.T) {
	_, router := testEnv(t, "")

	w := get(t, router, "/skills")
	if w.Code != http.StatusOK {
		t.Errorf("no auth = %d, want 200", w.Code)
	}
}

// SSE endpoint auth tests.

// stubSSEHandler writes headers and blocks until the request context is done.
func stubSSEHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/event-stream")
		w.WriteHeader(http.StatusOK)
		if f, ok := w.(http.Flusher); ok {
			f.Flush()
		}
		<-r.Context().Done()
	})
}

func TestSSEEvents_AuthProtected(t *testing.T) {
	_, router := testEnvFull(t, true, "secret", stubSSEHandler())

	w := get(t, router, "/events")
	if w.Code != http.StatusUnauthorized {
		t.Errorf("SSE no auth = %d, want 401", w.Code)
	}
}

func TestSSEEvents_AuthDisabled(t *testing.T) {
	_, router := testEnvFull(t, false, "", stubSSEHandler())

	// Disabled mode should not 401. The stub blocks, so cancel after a short time.
	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	req := httptest.NewRequest(http.MethodGet, "/events", nil).WithContext(ctx)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if w.Code == http.StatusUnauthorized {
		t.Error("SSE should not require auth when disabled")
	}
}

func TestSSEEvents_ValidToken(t *testing.T) {
	_, router := testEnvFull(t, true, "tok", stubSSEHandler())

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	req := httptest.NewRequest(http.MethodGet, "/events", nil).WithContext(ctx)
	req.Header.Set("Authorization", "Bearer tok")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if w.Code == http.StatusUnauthorized {
		t.Error("SSE with valid token should not 401")
	}
}
