package model

import "time"

// Task is a titled, completable to-do record.
// It carries no persistence tags and is shared by the HTTP, service and store layers.
type Task struct {
	ID          int64     `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Completed   bool      `json:"completed"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// TaskInput carries the mutable fields of a task for create and update.
// Update replaces every field; nothing is merged with the stored record.
type TaskInput struct {
	Title       string `json:"title" validate:"required"`
	Description string `json:"description"`
	Completed   bool   `json:"completed"`
}
