package postgres

import (
	"context"
	"database/sql"

	"taskapi/internal/model"
	"taskapi/internal/repository"
)

const taskColumns = `id, title, description, completed, created_at, updated_at`

// TaskPostgres is a PostgreSQL implementation of repository.TaskRepository.
// It uses database/sql with parameterized queries and contains no business logic.
type TaskPostgres struct {
	db     *sql.DB
	schema func(context.Context) error
}

// NewTaskPostgres creates a new TaskPostgres repository.
func NewTaskPostgres(db *sql.DB) *TaskPostgres {
	return &TaskPostgres{db: db}
}

// WithSchema makes every call run ensure first and fail with its error.
func (r *TaskPostgres) WithSchema(ensure func(context.Context) error) *TaskPostgres {
	r.schema = ensure
	return r
}

func (r *TaskPostgres) ready(ctx context.Context) error {
	if r.schema == nil {
		return nil
	}
	return r.schema(ctx)
}

var _ repository.TaskRepository = (*TaskPostgres)(nil)

type scanner interface {
	Scan(dest ...any) error
}

func scanTask(s scanner) (*model.Task, error) {
	var t model.Task
	if err := s.Scan(
		&t.ID,
		&t.Title,
		&t.Description,
		&t.Completed,
		&t.CreatedAt,
		&t.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &t, nil
}

// List returns all tasks ordered by creation time, newest first.
func (r *TaskPostgres) List(ctx context.Context) ([]model.Task, error) {
	const q = `
		SELECT ` + taskColumns + `
		FROM tasks
		ORDER BY created_at DESC, id DESC
	`
	if err := r.ready(ctx); err != nil {
		return nil, err
	}
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]model.Task, 0)
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, *t)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

// FindByID fetches a single task by its ID.
func (r *TaskPostgres) FindByID(ctx context.Context, id int64) (*model.Task, error) {
	const q = `
		SELECT ` + taskColumns + `
		FROM tasks
		WHERE id = $1
	`
	if err := r.ready(ctx); err != nil {
		return nil, err
	}
	return scanTask(r.db.QueryRowContext(ctx, q, id))
}

// Create inserts a new task row and returns the stored record.
func (r *TaskPostgres) Create(ctx context.Context, in model.TaskInput) (*model.Task, error) {
	const q = `
		INSERT INTO tasks (title, description)
		VALUES ($1, $2)
		RETURNING ` + taskColumns + `
	`
	if err := r.ready(ctx); err != nil {
		return nil, err
	}
	return scanTask(r.db.QueryRowContext(ctx, q, in.Title, in.Description))
}

// Update replaces title, description and completed, and bumps updated_at.
func (r *TaskPostgres) Update(ctx context.Context, id int64, in model.TaskInput) (*model.Task, error) {
	const q = `
		UPDATE tasks
		SET title = $1, description = $2, completed = $3, updated_at = now()
		WHERE id = $4
		RETURNING ` + taskColumns + `
	`
	if err := r.ready(ctx); err != nil {
		return nil, err
	}
	return scanTask(r.db.QueryRowContext(ctx, q, in.Title, in.Description, in.Completed, id))
}

// Delete removes a task by ID and returns the deleted row.
func (r *TaskPostgres) Delete(ctx context.Context, id int64) (*model.Task, error) {
	const q = `
		DELETE FROM tasks
		WHERE id = $1
		RETURNING ` + taskColumns + `
	`
	if err := r.ready(ctx); err != nil {
		return nil, err
	}
	return scanTask(r.db.QueryRowContext(ctx, q, id))
}
