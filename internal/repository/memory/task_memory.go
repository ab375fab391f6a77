package memory

import (
	"strconv"
	"time"

	"taskapi/internal/model"
)

// DefaultLimit is used when List is called with a non-positive limit.
const DefaultLimit = 10

var seededAt = time.Date(2024, time.January, 1, 9, 0, 0, 0, time.UTC)

var seed = []struct {
	title       string
	description string
	completed   bool
}{
	{"Set up development environment", "Install Go, Docker and the database tooling", true},
	{"Design task schema", "Decide columns and defaults for the tasks table", true},
	{"Implement health endpoint", "Report version and configured components", true},
	{"Add in-memory task list", "Serve a fixed list of sample tasks", false},
	{"Connect relational store", "Persist tasks in PostgreSQL", false},
	{"Wire blob storage", "Accept uploads and list stored files", false},
	{"Emit telemetry events", "Send events and metrics when configured", false},
	{"Write handler tests", "Cover success and failure paths", false},
	{"Document the API", "Publish the OpenAPI description", false},
	{"Containerize the service", "Build a minimal runtime image", false},
	{"Configure CI pipeline", "Run tests on every push", false},
	{"Deploy to staging", "Roll out and verify the health endpoint", false},
}

// TaskStore is a read-only task list seeded at construction.
// It is safe for concurrent use because nothing mutates it after NewTaskStore.
type TaskStore struct {
	tasks []model.Task
}

// NewTaskStore builds the fixed sample list.
func NewTaskStore() *TaskStore {
	tasks := make([]model.Task, len(seed))
	for i, s := range seed {
		ts := seededAt.Add(time.Duration(i) * time.Hour)
		tasks[i] = model.Task{
			ID:          int64(i + 1),
			Title:       s.title,
			Description: s.description,
			Completed:   s.completed,
			CreatedAt:   ts,
			UpdatedAt:   ts,
		}
	}
	return &TaskStore{tasks: tasks}
}

// List returns at most limit tasks from the head of the fixed list.
// The returned slice is a copy.
func (s *TaskStore) List(limit int) []model.Task {
	if limit <= 0 {
		limit = DefaultLimit
	}
	if limit > len(s.tasks) {
		limit = len(s.tasks)
	}
	out := make([]model.Task, limit)
	copy(out, s.tasks[:limit])
	return out
}

// Get returns the seeded task with the given id. Unknown ids get a task
// synthesized from the id, so Get never fails.
func (s *TaskStore) Get(id int64) model.Task {
	for _, t := range s.tasks {
		if t.ID == id {
			return t
		}
	}
	idStr := strconv.FormatInt(id, 10)
	return model.Task{
		ID:          id,
		Title:       "Task " + idStr,
		Description: "Synthesized task " + idStr,
		Completed:   false,
		CreatedAt:   seededAt,
		UpdatedAt:   seededAt,
	}
}
