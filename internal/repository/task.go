// Package repository contains data access layer abstractions.
// Implementations live in subpackages (postgres, memory) inside this directory.
package repository

import (
	"context"

	"taskapi/internal/model"
)

// TaskRepository defines data access for tasks using SQL queries only.
// No business logic here, only persistence.
// Lookups that match no row return sql.ErrNoRows.
type TaskRepository interface {
	// List returns every task, newest first.
	List(ctx context.Context) ([]model.Task, error)

	// FindByID returns a task by its ID.
	FindByID(ctx context.Context, id int64) (*model.Task, error)

	// Create inserts a task and returns it with the ID and timestamps set by the database.
	Create(ctx context.Context, in model.TaskInput) (*model.Task, error)

	// Update replaces the mutable fields of a task and refreshes updated_at.
	Update(ctx context.Context, id int64, in model.TaskInput) (*model.Task, error)

	// Delete removes a task and returns the row as it was before deletion.
	Delete(ctx context.Context, id int64) (*model.Task, error)
}
