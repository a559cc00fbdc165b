package index

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/starford/ansuz/internal/apperr"
)

// Plan statuses.
const (
	PlanActive    = "active"
	PlanCompleted = "completed"
	PlanArchived  = "archived"
)

// Task statuses.
const (
	TaskTodo = "todo"
	TaskDone = "done"
)

// PlanRow represents a row in the plans table.
type PlanRow struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	Status      string    `json:"status"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Validate checks the writable plan fields.
func (p PlanRow) Validate() error {
	return validation.ValidateStruct(&p,
		validation.Field(&p.Name, validation.Required, validation.Length(1, 120)),
		validation.Field(&p.Status, validation.Required,
			validation.In(PlanActive, PlanCompleted, PlanArchived)),
	)
}

// TaskListRow represents a row in the task_lists table.
type TaskListRow struct {
	ID       int64  `json:"id"`
	PlanID   int64  `json:"plan_id"`
	Name     string `json:"name"`
	Position int    `json:"position"`
}

// Validate checks the writable task list fields.
func (l TaskListRow) Validate() error {
	return validation.ValidateStruct(&l,
		validation.Field(&l.Name, validation.Required, validation.Length(1, 120)),
	)
}

// TaskRow represents a row in the tasks table.
type TaskRow struct {
	ID         int64     `json:"id"`
	TaskListID int64     `json:"task_list_id"`
	Content    string    `json:"content"`
	Status     string    `json:"status"`
	Position   int       `json:"position"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// Validate checks the writable task fields.
func (t TaskRow) Validate() error {
	return validation.ValidateStruct(&t,
		validation.Field(&t.Content, validation.Required),
		validation.Field(&t.Status, validation.Required, validation.In(TaskTodo, TaskDone)),
	)
}

// CreatePlan inserts a new plan with status "active".
func (db *DB) CreatePlan(name, description string) (*PlanRow, error) {
	var exists int
	if err := db.conn.QueryRow(`SELECT count(*) FROM plans WHERE name = ?`, name).Scan(&exists); err != nil {
		return nil, fmt.Errorf("index: plan exists: %w", err)
	}
	if exists > 0 {
		return nil, fmt.Errorf("plan %q: %w", name, apperr.ErrAlreadyExists)
	}

	now := time.Now().UTC()
	res, err := db.conn.Exec(`
		INSERT INTO plans (name, description, status, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?)
	`, name, description, PlanActive, now, now)
	if err != nil {
		return nil, fmt.Errorf("index: insert plan: %w", err)
	}
	id, _ := res.LastInsertId()
	return &PlanRow{ID: id, Name: name, Description: description,
		Status: PlanActive, CreatedAt: now, UpdatedAt: now}, nil
}

const planColumns = `id, name, description, status, created_at, updated_at`

func scanPlan(row scanner) (PlanRow, error) {
	var p PlanRow
	err := row.Scan(&p.ID, &p.Name, &p.Description, &p.Status, &p.CreatedAt, &p.UpdatedAt)
	return p, err
}

// GetPlan returns a plan by id, or apperr.ErrNotFound.
func (db *DB) GetPlan(id int64) (*PlanRow, error) {
	p, err := scanPlan(db.conn.QueryRow(`SELECT `+planColumns+` FROM plans WHERE id = ?`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperr.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("index: get plan: %w", err)
	}
	return &p, nil
}

// GetPlanByName returns a plan by its unique name, or apperr.ErrNotFound.
func (db *DB) GetPlanByName(name string) (*PlanRow, error) {
	p, err := scanPlan(db.conn.QueryRow(`SELECT `+planColumns+` FROM plans WHERE name = ?`, name))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperr.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("index: get plan: %w", err)
	}
	return &p, nil
}

// ListPlans returns all plans ordered by name.
func (db *DB) ListPlans() ([]PlanRow, error) {
	rows, err := db.conn.Query(`SELECT ` + planColumns + ` FROM plans ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("index: list plans: %w", err)
	}
	defer rows.Close()

	var out []PlanRow
	for rows.Next() {
		p, err := scanPlan(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

// UpdatePlan writes the plan's name, description, and status, refreshing
// updated_at. The id picks the row.
func (db *DB) UpdatePlan(p PlanRow) error {
	res, err := db.conn.Exec(`
		UPDATE plans SET name = ?, description = ?, status = ?, updated_at = ?
		WHERE id = ?
	`, p.Name, p.Description, p.Status, time.Now().UTC(), p.ID)
	if err != nil {
		return fmt.Errorf("index: update plan: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return apperr.ErrNotFound
	}
	return nil
}

// DeletePlan removes a plan; its task lists and tasks cascade away.
func (db *DB) DeletePlan(id int64) error {
	res, err := db.conn.Exec(`DELETE FROM plans WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("index: delete plan: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return apperr.ErrNotFound
	}
	return nil
}

// CreateTaskList appends a named list to a plan, positioned after any
// existing lists.
func (db *DB) CreateTaskList(planID int64, name string) (*TaskListRow, error) {
	if _, err := db.GetPlan(planID); err != nil {
		return nil, err
	}
	var pos int
	if err := db.conn.QueryRow(
		`SELECT COALESCE(MAX(position), 0) + 1 FROM task_lists WHERE plan_id = ?`, planID).Scan(&pos); err != nil {
		return nil, fmt.Errorf("index: next list position: %w", err)
	}
	res, err := db.conn.Exec(`
		INSERT INTO task_lists (plan_id, name, position) VALUES (?, ?, ?)
	`, planID, name, pos)
	if err != nil {
		return nil, fmt.Errorf("index: insert task list: %w", err)
	}
	id, _ := res.LastInsertId()
	return &TaskListRow{ID: id, PlanID: planID, Name: name, Position: pos}, nil
}

// ListTaskLists returns a plan's lists in position order.
func (db *DB) ListTaskLists(planID int64) ([]TaskListRow, error) {
	rows, err := db.conn.Query(`
		SELECT id, plan_id, name, position FROM task_lists
		WHERE plan_id = ? ORDER BY position
	`, planID)
	if err != nil {
		return nil, fmt.Errorf("index: list task lists: %w", err)
	}
	defer rows.Close()

	var out []TaskListRow
	for rows.Next() {
		var l TaskListRow
		if err := rows.Scan(&l.ID, &l.PlanID, &l.Name, &l.Position); err != nil {
			return nil, err
		}
		out = append(out, l)
	}
	return out, rows.Err()
}

// DeleteTaskList removes a list and its tasks.
func (db *DB) DeleteTaskList(id int64) error {
	res, err := db.conn.Exec(`DELETE FROM task_lists WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("index: delete task list: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return apperr.ErrNotFound
	}
	return nil
}

// CreateTask appends a task to a list with status "todo".
func (db *DB) CreateTask(taskListID int64, content string) (*TaskRow, error) {
	var exists int
	if err := db.conn.QueryRow(`SELECT count(*) FROM task_lists WHERE id = ?`, taskListID).Scan(&exists); err != nil {
		return nil, fmt.Errorf("index: task list exists: %w", err)
	}
	if exists == 0 {
		return nil, fmt.Errorf("task list %d: %w", taskListID, apperr.ErrNotFound)
	}

	var pos int
	if err := db.conn.QueryRow(
		`SELECT COALESCE(MAX(position), 0) + 1 FROM tasks WHERE task_list_id = ?`, taskListID).Scan(&pos); err != nil {
		return nil, fmt.Errorf("index: next task position: %w", err)
	}
	now := time.Now().UTC()
	res, err := db.conn.Exec(`
		INSERT INTO tasks (task_list_id, content, status, position, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`, taskListID, content, TaskTodo, pos, now, now)
	if err != nil {
		return nil, fmt.Errorf("index: insert task: %w", err)
	}
	id, _ := res.LastInsertId()
	return &TaskRow{ID: id, TaskListID: taskListID, Content: content,
		Status: TaskTodo, Position: pos, CreatedAt: now, UpdatedAt: now}, nil
}

// ListTasks returns a list's tasks in position order.
func (db *DB) ListTasks(taskListID int64) ([]TaskRow, error) {
	rows, err := db.conn.Query(`
		SELECT id, task_list_id, content, status, position, created_at, updated_at
		FROM tasks WHERE task_list_id = ? ORDER BY position
	`, taskListID)
	if err != nil {
		return nil, fmt.Errorf("index: list tasks: %w", err)
	}
	defer rows.Close()
	return collectTasks(rows)
}

// ListPlanTasks returns every task under a plan, grouped by list position.
func (db *DB) ListPlanTasks(planID int64) ([]TaskRow, error) {
	rows, err := db.conn.Query(`
		SELECT t.id, t.task_list_id, t.content, t.status, t.position, t.created_at, t.updated_at
		FROM tasks t
		JOIN task_lists l ON l.id = t.task_list_id
		WHERE l.plan_id = ?
		ORDER BY l.position, t.position
	`, planID)
	if err != nil {
		return nil, fmt.Errorf("index: list plan tasks: %w", err)
	}
	defer rows.Close()
	return collectTasks(rows)
}

func collectTasks(rows *sql.Rows) ([]TaskRow, error) {
	var out []TaskRow
	for rows.Next() {
		var t TaskRow
		if err := rows.Scan(&t.ID, &t.TaskListID, &t.Content, &t.Status,
			&t.Position, &t.CreatedAt, &t.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

// SetTaskStatus flips a task's status and refreshes updated_at.
func (db *DB) SetTaskStatus(id int64, status string) error {
	res, err := db.conn.Exec(`
		UPDATE tasks SET status = ?, updated_at = ? WHERE id = ?
	`, status, time.Now().UTC(), id)
	if err != nil {
		return fmt.Errorf("index: set task status: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return apperr.ErrNotFound
	}
	return nil
}

// DeleteTask removes a single task.
func (db *DB) DeleteTask(id int64) error {
	res, err := db.conn.Exec(`DELETE FROM tasks WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("index: delete task: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return apperr.ErrNotFound
	}
	return nil
}

// PlanDetail is a plan with its task lists and their tasks.
type PlanDetail struct {
	PlanRow
	Lists []TaskListDetail `json:"lists,omitempty"`
}

// TaskListDetail is a task list with its tasks.
type TaskListDetail struct {
	TaskListRow
	Tasks []TaskRow `json:"tasks,omitempty"`
}

// GetPlanDetail assembles a plan with all nested lists and tasks.
func (db *DB) GetPlanDetail(id int64) (*PlanDetail, error) {
	p, err := db.GetPlan(id)
	if err != nil {
		return nil, err
	}
	lists, err := db.ListTaskLists(id)
	if err != nil {
		return nil, err
	}
	d := &PlanDetail{PlanRow: *p}
	for _, l := range lists {
		tasks, err := db.ListTasks(l.ID)
		if err != nil {
			return nil, err
		}
		d.Lists = append(d.Lists, TaskListDetail{TaskListRow: l, Tasks: tasks})
	}
	return d, nil
}
