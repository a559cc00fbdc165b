package index

// Library defines the index operations consumers depend on. Higher layers
// take this interface rather than the concrete *DB so tests can substitute
// their own implementations.
type Library interface {
	UpsertSkill(s SkillRow) (Outcome, error)
	GetSkillByPath(path string) (*SkillRow, error)
	SkillsByName(name string) ([]SkillRow, error)
	ListSkills(category string) ([]SkillRow, error)
	DeleteSkill(path string) error
	SkillHashes() (map[string]string, error)
	Categories() ([]CategoryCount, error)

	UpsertPrompt(p PromptRow) (Outcome, error)
	GetPromptByName(name string) (*PromptRow, error)
	GetPromptDetail(name string) (*PromptDetail, error)
	ListPrompts() ([]PromptRow, error)
	DeletePrompt(name string) error
	RebuildPromptLinks(promptID int64, embedded, referenced []SkillRow) error
	PromptSkills(promptID int64) ([]PromptSkillRef, error)

	SearchSkills(query, category string, limit int) ([]SkillHit, error)
	SearchPrompts(query string, limit int) ([]PromptHit, error)
	Stats() (*LibraryStats, error)

	CreatePlan(name, description string) (*PlanRow, error)
	GetPlan(id int64) (*PlanRow, error)
	GetPlanByName(name string) (*PlanRow, error)
	GetPlanDetail(id int64) (*PlanDetail, error)
	ListPlans() ([]PlanRow, error)
	UpdatePlan(p PlanRow) error
	DeletePlan(id int64) error
	CreateTaskList(planID int64, name string) (*TaskListRow, error)
	ListTaskLists(planID int64) ([]TaskListRow, error)
	DeleteTaskList(id int64) error
	CreateTask(taskListID int64, content string) (*TaskRow, error)
	ListTasks(taskListID int64) ([]TaskRow, error)
	ListPlanTasks(planID int64) ([]TaskRow, error)
	SetTaskStatus(id int64, status string) error
	DeleteTask(id int64) error

	Reset() error
	Close() error
}

// Verify *DB satisfies Library at compile time.
var _ Library = (*DB)(nil)
