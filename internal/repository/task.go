package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/tasklist/tasklist/internal/model"
)

// TaskRepository is the PostgreSQL gateway for tasks.
type TaskRepository struct {
	pool *pgxpool.Pool
}

// taskColumns maps the JSON foreign key name accepted by FindBy to its column.
var taskColumns = map[string]string{
	"listId": "list_id",
}

const taskSelect = `SELECT id, list_id, text, description, due_date, completed FROM tasks`

// FindAll retrieves every task.
func (r *TaskRepository) FindAll(ctx context.Context) ([]model.Task, error) {
	rows, err := r.pool.Query(ctx, taskSelect+` ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("failed to list tasks: %w", err)
	}
	return collectTasks(rows)
}

// FindByID retrieves a task by its ID.
func (r *TaskRepository) FindByID(ctx context.Context, id int64) (*model.Task, error) {
	task, err := scanTask(r.pool.QueryRow(ctx, taskSelect+` WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get task by ID: %w", err)
	}

	return task, nil
}

// FindBy retrieves the tasks whose foreign key equals value.
func (r *TaskRepository) FindBy(ctx context.Context, key string, value int64) ([]model.Task, error) {
	column, ok := taskColumns[key]
	if !ok {
		return nil, fmt.Errorf("tasks by %q: %w", key, ErrUnknownKey)
	}

	rows, err := r.pool.Query(ctx, taskSelect+` WHERE `+column+` = $1 ORDER BY id`, value)
	if err != nil {
		return nil, fmt.Errorf("failed to list tasks by %s: %w", key, err)
	}
	return collectTasks(rows)
}

// Insert creates a task and sets its generated ID and stored due date.
func (r *TaskRepository) Insert(ctx context.Context, t *model.Task) error {
	query := `
		INSERT INTO tasks (list_id, text, description, due_date, completed)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, due_date
	`

	err := r.pool.QueryRow(ctx, query,
		t.ListID,
		t.Text,
		t.Description,
		t.DueDate,
		t.Completed,
	).Scan(&t.ID, &t.DueDate)
	if err != nil {
		if isForeignKeyViolation(err) {
			return &ForeignKeyError{Field: "listId", Entity: "list"}
		}
		return fmt.Errorf("failed to create task: %w", err)
	}

	t.DueDate = t.DueDate.UTC()
	return nil
}

// Update overwrites every mutable column of the task.
// The due date is read back as stored, at microsecond precision.
func (r *TaskRepository) Update(ctx context.Context, t *model.Task) error {
	query := `
		UPDATE tasks
		SET list_id = $2, text = $3, description = $4, due_date = $5, completed = $6
		WHERE id = $1
		RETURNING due_date
	`

	err := r.pool.QueryRow(ctx, query,
		t.ID,
		t.ListID,
		t.Text,
		t.Description,
		t.DueDate,
		t.Completed,
	).Scan(&t.DueDate)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrNotFound
		}
		if isForeignKeyViolation(err) {
			return &ForeignKeyError{Field: "listId", Entity: "list"}
		}
		return fmt.Errorf("failed to update task: %w", err)
	}

	t.DueDate = t.DueDate.UTC()
	return nil
}

// DeleteByID removes a task.
func (r *TaskRepository) DeleteByID(ctx context.Context, id int64) (int64, error) {
	result, err := r.pool.Exec(ctx, `DELETE FROM tasks WHERE id = $1`, id)
	if err != nil {
		return 0, fmt.Errorf("failed to delete task: %w", err)
	}

	return result.RowsAffected(), nil
}

// scanTask scans a single row into a Task model.
func scanTask(row pgx.Row) (*model.Task, error) {
	var t model.Task
	err := row.Scan(
		&t.ID,
		&t.ListID,
		&t.Text,
		&t.Description,
		&t.DueDate,
		&t.Completed,
	)
	t.DueDate = t.DueDate.UTC()
	return &t, err
}

func collectTasks(rows pgx.Rows) ([]model.Task, error) {
	defer rows.Close()

	tasks := []model.Task{}
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan task: %w", err)
		}
		tasks = append(tasks, *t)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating tasks: %w", err)
	}

	return tasks, nil
}
