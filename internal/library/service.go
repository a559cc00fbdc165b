// Package library coordinates storage, parsing, and the index into the
// operations the CLI and servers expose.
package library

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/starford/ansuz/internal/apperr"
	"github.com/starford/ansuz/internal/index"
	"github.com/starford/ansuz/internal/storage"
)

// Service coordinates storage and index operations.
type Service struct {
	store  storage.Provider
	db     *index.DB
	opts   index.SyncOptions
	logger *slog.Logger
}

// NewService creates a new library service.
func NewService(store storage.Provider, db *index.DB, opts index.SyncOptions, logger *slog.Logger) *Service {
	return &Service{store: store, db: db, opts: opts, logger: logger}
}

// Sync brings the index up to date with the library on disk.
func (s *Service) Sync(_ context.Context) (*index.Report, error) {
	return index.SyncAll(s.db, s.store, s.opts, s.logger)
}

// Watch keeps the index current until ctx is cancelled.
func (s *Service) Watch(ctx context.Context) error {
	return index.Watch(ctx, s.db, s.store, s.opts, s.logger)
}

// SearchSkills runs a full-text search over skills. The query must not be
// blank; category narrows the result when non-empty.
func (s *Service) SearchSkills(_ context.Context, query, category string, limit int) ([]index.SkillHit, error) {
	if strings.TrimSpace(query) == "" {
		return nil, fmt.Errorf("%w: search query must not be empty", apperr.ErrInvalid)
	}
	hits, err := s.db.SearchSkills(query, category, limit)
	return nonNilSlice(hits), err
}

// SearchPrompts runs a full-text search over prompts.
func (s *Service) SearchPrompts(_ context.Context, query string, limit int) ([]index.PromptHit, error) {
	if strings.TrimSpace(query) == "" {
		return nil, fmt.Errorf("%w: search query must not be empty", apperr.ErrInvalid)
	}
	hits, err := s.db.SearchPrompts(query, limit)
	return nonNilSlice(hits), err
}

// GetSkill resolves key first as a path, then as a base name. A name shared
// by several skills is rejected with the candidate paths so the caller can
// retry with one of them.
func (s *Service) GetSkill(_ context.Context, key string) (*index.SkillRow, error) {
	skill, err := s.db.GetSkillByPath(key)
	if err == nil {
		return skill, nil
	}
	if !errors.Is(err, apperr.ErrNotFound) {
		return nil, err
	}

	matches, err := s.db.SkillsByName(key)
	if err != nil {
		return nil, err
	}
	switch len(matches) {
	case 0:
		return nil, apperr.ErrNotFound
	case 1:
		// The by-name listing omits nothing, but fetch by path to keep a
		// single source for the full row.
		return s.db.GetSkillByPath(matches[0].Path)
	}

	paths := make([]string, len(matches))
	for i, m := range matches {
		paths[i] = m.Path
	}
	return nil, fmt.Errorf("%w: name %q matches multiple skills: %s",
		apperr.ErrInvalid, key, strings.Join(paths, ", "))
}

// ListSkills returns skill listings, optionally for one category.
func (s *Service) ListSkills(_ context.Context, category string) ([]index.SkillRow, error) {
	rows, err := s.db.ListSkills(category)
	return nonNilSlice(rows), err
}

// Categories returns the category breakdown.
func (s *Service) Categories(_ context.Context) ([]index.CategoryCount, error) {
	cats, err := s.db.Categories()
	return nonNilSlice(cats), err
}

// DeleteSkill removes one skill from the index. The file on disk stays.
func (s *Service) DeleteSkill(_ context.Context, path string) error {
	return s.db.DeleteSkill(path)
}

// GetPrompt returns a prompt with its fragment and reference sections.
func (s *Service) GetPrompt(_ context.Context, name string) (*index.PromptDetail, error) {
	return s.db.GetPromptDetail(name)
}

// ListPrompts returns all prompt listings.
func (s *Service) ListPrompts(_ context.Context) ([]index.PromptRow, error) {
	rows, err := s.db.ListPrompts()
	return nonNilSlice(rows), err
}

// DeletePrompt removes one prompt from the index.
func (s *Service) DeletePrompt(_ context.Context, name string) error {
	return s.db.DeletePrompt(name)
}

// Stats returns the index aggregate.
func (s *Service) Stats(_ context.Context) (*index.LibraryStats, error) {
	return s.db.Stats()
}

// Reset deletes every row from the index.
func (s *Service) Reset(_ context.Context) error {
	return s.db.Reset()
}

// CreatePlan validates and creates a plan.
func (s *Service) CreatePlan(_ context.Context, name, description string) (*index.PlanRow, error) {
	row := index.PlanRow{Name: name, Description: description, Status: index.PlanActive}
	if err := row.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", apperr.ErrInvalid, err)
	}
	return s.db.CreatePlan(name, description)
}

// GetPlan resolves ref as a plan name first, then as a numeric id.
func (s *Service) GetPlan(_ context.Context, ref string) (*index.PlanRow, error) {
	if plan, err := s.db.GetPlanByName(ref); err == nil {
		return plan, nil
	}
	id, err := parseID(ref)
	if err != nil {
		return nil, apperr.ErrNotFound
	}
	return s.db.GetPlan(id)
}

// GetPlanDetail returns a plan with its lists and tasks.
func (s *Service) GetPlanDetail(ctx context.Context, ref string) (*index.PlanDetail, error) {
	plan, err := s.GetPlan(ctx, ref)
	if err != nil {
		return nil, err
	}
	return s.db.GetPlanDetail(plan.ID)
}

// ListPlans returns all plans.
func (s *Service) ListPlans(_ context.Context) ([]index.PlanRow, error) {
	rows, err := s.db.ListPlans()
	return nonNilSlice(rows), err
}

// UpdatePlan validates and writes the plan's mutable fields.
func (s *Service) UpdatePlan(_ context.Context, p index.PlanRow) error {
	if err := p.Validate(); err != nil {
		return fmt.Errorf("%w: %v", apperr.ErrInvalid, err)
	}
	return s.db.UpdatePlan(p)
}

// DeletePlan removes a plan and everything under it.
func (s *Service) DeletePlan(ctx context.Context, ref string) error {
	plan, err := s.GetPlan(ctx, ref)
	if err != nil {
		return err
	}
	return s.db.DeletePlan(plan.ID)
}

// CreateTaskList validates and appends a list to a plan.
func (s *Service) CreateTaskList(ctx context.Context, planRef, name string) (*index.TaskListRow, error) {
	if err := (index.TaskListRow{Name: name}).Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", apperr.ErrInvalid, err)
	}
	plan, err := s.GetPlan(ctx, planRef)
	if err != nil {
		return nil, err
	}
	return s.db.CreateTaskList(plan.ID, name)
}

// DeleteTaskList removes a list and its tasks.
func (s *Service) DeleteTaskList(_ context.Context, id int64) error {
	return s.db.DeleteTaskList(id)
}

// CreateTask validates and appends a task to a list.
func (s *Service) CreateTask(_ context.Context, taskListID int64, content string) (*index.TaskRow, error) {
	if strings.TrimSpace(content) == "" {
		return nil, fmt.Errorf("%w: task content must not be empty", apperr.ErrInvalid)
	}
	return s.db.CreateTask(taskListID, content)
}

// ListTasks returns one list's tasks.
func (s *Service) ListTasks(_ context.Context, taskListID int64) ([]index.TaskRow, error) {
	rows, err := s.db.ListTasks(taskListID)
	return nonNilSlice(rows), err
}

// ListPlanTasks returns every task under a plan.
func (s *Service) ListPlanTasks(ctx context.Context, planRef string) ([]index.TaskRow, error) {
	plan, err := s.GetPlan(ctx, planRef)
	if err != nil {
		return nil, err
	}
	rows, err := s.db.ListPlanTasks(plan.ID)
	return nonNilSlice(rows), err
}

// SetTaskStatus validates and flips a task's status.
func (s *Service) SetTaskStatus(_ context.Context, id int64, status string) error {
	if err := validation.Validate(status, validation.Required,
		validation.In(index.TaskTodo, index.TaskDone)); err != nil {
		return fmt.Errorf("%w: status: %v", apperr.ErrInvalid, err)
	}
	return s.db.SetTaskStatus(id, status)
}

// DeleteTask removes a single task.
func (s *Service) DeleteTask(_ context.Context, id int64) error {
	return s.db.DeleteTask(id)
}

func parseID(s string) (int64, error) {
	return strconv.ParseInt(s, 10, 64)
}

func nonNilSlice[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
