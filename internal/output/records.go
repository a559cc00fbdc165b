package output

import "github.com/starford/ansuz/internal/index"

// Record tags.
const (
	TagSkill        = "skill"
	TagSkillList    = "skill-list"
	TagSkillSearch  = "skill-search-results"
	TagPrompt       = "prompt"
	TagPromptList   = "prompt-list"
	TagPromptSearch = "prompt-search-results"
	TagCategoryList = "category-list"
	TagStats        = "stats"
	TagSyncReport   = "sync-report"
	TagPlan         = "plan"
	TagPlanList     = "plan-list"
	TagTaskList     = "task-list"
	TagStatus       = "status"
)

// SkillRecord is one full skill document.
type SkillRecord struct {
	Type string `json:"type"`
	index.SkillRow
}

func NewSkillRecord(s index.SkillRow) SkillRecord {
	return SkillRecord{Type: TagSkill, SkillRow: s}
}

func (r SkillRecord) ResultType() string { return r.Type }

// SkillListRecord is a skill listing.
type SkillListRecord struct {
	Type   string           `json:"type"`
	Count  int              `json:"count"`
	Skills []index.SkillRow `json:"skills"`
}

func NewSkillListRecord(skills []index.SkillRow) SkillListRecord {
	return SkillListRecord{Type: TagSkillList, Count: len(skills), Skills: skills}
}

func (r SkillListRecord) ResultType() string { return r.Type }

// SkillSearchRecord is a ranked skill search result set.
type SkillSearchRecord struct {
	Type  string           `json:"type"`
	Query string           `json:"query"`
	Count int              `json:"count"`
	Hits  []index.SkillHit `json:"hits"`
}

func NewSkillSearchRecord(query string, hits []index.SkillHit) SkillSearchRecord {
	return SkillSearchRecord{Type: TagSkillSearch, Query: query, Count: len(hits), Hits: hits}
}

func (r SkillSearchRecord) ResultType() string { return r.Type }

// PromptRecord is one prompt with its fragment and reference sections.
type PromptRecord struct {
	Type string `json:"type"`
	index.PromptDetail
}

func NewPromptRecord(p index.PromptDetail) PromptRecord {
	return PromptRecord{Type: TagPrompt, PromptDetail: p}
}

func (r PromptRecord) ResultType() string { return r.Type }

// PromptListRecord is a prompt listing.
type PromptListRecord struct {
	Type    string            `json:"type"`
	Count   int               `json:"count"`
	Prompts []index.PromptRow `json:"prompts"`
}

func NewPromptListRecord(prompts []index.PromptRow) PromptListRecord {
	return PromptListRecord{Type: TagPromptList, Count: len(prompts), Prompts: prompts}
}

func (r PromptListRecord) ResultType() string { return r.Type }

// PromptSearchRecord is a ranked prompt search result set.
type PromptSearchRecord struct {
	Type  string            `json:"type"`
	Query string            `json:"query"`
	Count int               `json:"count"`
	Hits  []index.PromptHit `json:"hits"`
}

func NewPromptSearchRecord(query string, hits []index.PromptHit) PromptSearchRecord {
	return PromptSearchRecord{Type: TagPromptSearch, Query: query, Count: len(hits), Hits: hits}
}

func (r PromptSearchRecord) ResultType() string { return r.Type }

// CategoryListRecord is the category breakdown.
type CategoryListRecord struct {
	Type       string                `json:"type"`
	Categories []index.CategoryCount `json:"categories"`
}

func NewCategoryListRecord(cats []index.CategoryCount) CategoryListRecord {
	return CategoryListRecord{Type: TagCategoryList, Categories: cats}
}

func (r CategoryListRecord) ResultType() string { return r.Type }

// StatsRecord is the index aggregate.
type StatsRecord struct {
	Type string `json:"type"`
	index.LibraryStats
}

func NewStatsRecord(s index.LibraryStats) StatsRecord {
	return StatsRecord{Type: TagStats, LibraryStats: s}
}

func (r StatsRecord) ResultType() string { return r.Type }

// SyncReportRecord is the outcome tally of one sync pass.
type SyncReportRecord struct {
	Type string `json:"type"`
	index.Report
}

func NewSyncReportRecord(rep index.Report) SyncReportRecord {
	return SyncReportRecord{Type: TagSyncReport, Report: rep}
}

func (r SyncReportRecord) ResultType() string { return r.Type }

// PlanRecord is one plan with its lists and tasks.
type PlanRecord struct {
	Type string `json:"type"`
	index.PlanDetail
}

func NewPlanRecord(p index.PlanDetail) PlanRecord {
	return PlanRecord{Type: TagPlan, PlanDetail: p}
}

func (r PlanRecord) ResultType() string { return r.Type }

// PlanListRecord is a plan listing.
type PlanListRecord struct {
	Type  string          `json:"type"`
	Plans []index.PlanRow `json:"plans"`
}

func NewPlanListRecord(plans []index.PlanRow) PlanListRecord {
	return PlanListRecord{Type: TagPlanList, Plans: plans}
}

func (r PlanListRecord) ResultType() string { return r.Type }

// TaskListRecord is a task listing.
type TaskListRecord struct {
	Type  string          `json:"type"`
	Tasks []index.TaskRow `json:"tasks"`
}

func NewTaskListRecord(tasks []index.TaskRow) TaskListRecord {
	return TaskListRecord{Type: TagTaskList, Tasks: tasks}
}

func (r TaskListRecord) ResultType() string { return r.Type }

// StatusRecord is a one-line confirmation for operations without a richer
// result, like init, reset, and deletes.
type StatusRecord struct {
	Type   string `json:"type"`
	Status string `json:"status"`
	Detail string `json:"detail,omitempty"`
}

func NewStatusRecord(status, detail string) StatusRecord {
	return StatusRecord{Type: TagStatus, Status: status, Detail: detail}
}

func (r StatusRecord) ResultType() string { return r.Type }
