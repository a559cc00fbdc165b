package library

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"strings"
	"testing"

	"github.com/starford/ansuz/internal/apperr"
	"github.com/starford/ansuz/internal/index"
	"github.com/starford/ansuz/internal/testutil"
)

func newTestService(t *testing.T) *Service {
	t.Helper()
	_, store := testutil.TestLibrary(t)
	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
	return NewService(store, testutil.TestDB(t), index.SyncOptions{}, logger)
}

func seedSkill(t *testing.T, s *Service, path, category, name string) {
	t.Helper()
	_, err := s.db.UpsertSkill(index.SkillRow{
		Path: path, Category: category, Name: name, Content: "body of " + name, FileHash: path,
	})
	if err != nil {
		t.Fatalf("UpsertSkill %s: %v", path, err)
	}
}

func TestSearchSkills_BlankQueryRejected(t *testing.T) {
	svc := newTestService(t)
	for _, q := range []string{"", "   ", "\t\n"} {
		_, err := svc.SearchSkills(context.Background(), q, "", 10)
		if !errors.Is(err, apperr.ErrInvalid) {
			t.Errorf("query %q: err = %v, want ErrInvalid", q, err)
		}
	}
	_, err := svc.SearchPrompts(context.Background(), " ", 10)
	if !errors.Is(err, apperr.ErrInvalid) {
		t.Errorf("prompt search err = %v, want ErrInvalid", err)
	}
}

func TestGetSkill_ByPathAndName(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()
	seedSkill(t, svc, "skills/go/errors.md", "go", "errors")

	byPath, err := svc.GetSkill(ctx, "skills/go/errors.md")
	if err != nil {
		t.Fatalf("GetSkill by path: %v", err)
	}
	byName, err := svc.GetSkill(ctx, "errors")
	if err != nil {
		t.Fatalf("GetSkill by name: %v", err)
	}
	if byPath.ID != byName.ID {
		t.Errorf("path and name lookups disagree: %d vs %d", byPath.ID, byName.ID)
	}

	if _, err := svc.GetSkill(ctx, "nope"); !errors.Is(err, apperr.ErrNotFound) {
		t.Errorf("missing err = %v, want ErrNotFound", err)
	}
}

func TestGetSkill_AmbiguousName(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()
	seedSkill(t, svc, "skills/go/http.md", "go", "http")
	seedSkill(t, svc, "skills/python/http.md", "python", "http")

	_, err := svc.GetSkill(ctx, "http")
	if !errors.Is(err, apperr.ErrInvalid) {
		t.Fatalf("err = %v, want ErrInvalid", err)
	}
	// The message lists the candidate paths for a retry.
	for _, p := range []string{"skills/go/http.md", "skills/python/http.md"} {
		if !strings.Contains(err.Error(), p) {
			t.Errorf("error %q missing candidate %q", err.Error(), p)
		}
	}
}

func TestPlanValidationThroughService(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	if _, err := svc.CreatePlan(ctx, "", "no name"); !errors.Is(err, apperr.ErrInvalid) {
		t.Errorf("empty name err = %v, want ErrInvalid", err)
	}

	plan, err := svc.CreatePlan(ctx, "release", "ship it")
	if err != nil {
		t.Fatalf("CreatePlan: %v", err)
	}

	plan.Status = "paused"
	if err := svc.UpdatePlan(ctx, *plan); !errors.Is(err, apperr.ErrInvalid) {
		t.Errorf("bad status err = %v, want ErrInvalid", err)
	}

	plan.Status = index.PlanArchived
	if err := svc.UpdatePlan(ctx, *plan); err != nil {
		t.Fatalf("UpdatePlan: %v", err)
	}
}

func TestGetPlan_ByNameAndID(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()
	created, err := svc.CreatePlan(ctx, "release", "")
	if err != nil {
		t.Fatalf("CreatePlan: %v", err)
	}

	byName, err := svc.GetPlan(ctx, "release")
	if err != nil {
		t.Fatalf("GetPlan by name: %v", err)
	}
	byID, err := svc.GetPlan(ctx, "1")
	if err != nil {
		t.Fatalf("GetPlan by id: %v", err)
	}
	if byName.ID != created.ID || byID.ID != created.ID {
		t.Errorf("lookups disagree: %d, %d, %d", created.ID, byName.ID, byID.ID)
	}

	if _, err := svc.GetPlan(ctx, "not-a-plan"); !errors.Is(err, apperr.ErrNotFound) {
		t.Errorf("missing err = %v, want ErrNotFound", err)
	}
}

func TestTaskStatusValidation(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()
	plan, _ := svc.CreatePlan(ctx, "release", "")
	list, err := svc.CreateTaskList(ctx, plan.Name, "backend")
	if err != nil {
		t.Fatalf("CreateTaskList: %v", err)
	}
	task, err := svc.CreateTask(ctx, list.ID, "write tests")
	if err != nil {
		t.Fatalf("CreateTask: %v", err)
	}

	if err := svc.SetTaskStatus(ctx, task.ID, "blocked"); !errors.Is(err, apperr.ErrInvalid) {
		t.Errorf("bad status err = %v, want ErrInvalid", err)
	}
	if err := svc.SetTaskStatus(ctx, task.ID, index.TaskDone); err != nil {
		t.Fatalf("SetTaskStatus: %v", err)
	}

	if _, err := svc.CreateTask(ctx, list.ID, "  "); !errors.Is(err, apperr.ErrInvalid) {
		t.Errorf("blank content err = %v, want ErrInvalid", err)
	}
}

func TestSyncIndexesLibrary(t *testing.T) {
	root, store := testutil.TestLibrary(t)
	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
	svc := NewService(store, testutil.TestDB(t), index.SyncOptions{}, logger)
	ctx := context.Background()

	testutil.WriteFile(t, root, "skills/go/errors.md", "# Errors\n\nWrap them.\n")
	testutil.WriteFile(t, root, "prompts/review.md", "Review the diff twice.\n")

	report, err := svc.Sync(ctx)
	if err != nil {
		t.Fatalf("Sync: %v", err)
	}
	if report.Inserted != 2 {
		t.Errorf("report = %+v, want 2 inserted", report)
	}

	skill, err := svc.GetSkill(ctx, "skills/go/errors.md")
	if err != nil {
		t.Fatalf("GetSkill after sync: %v", err)
	}
	if skill.Category != "go" {
		t.Errorf("category = %q, want go", skill.Category)
	}
}
