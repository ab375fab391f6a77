package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"

	"taskapi/internal/model"
	"taskapi/internal/repository"
)

// TaskService defines the use cases for persisted tasks.
type TaskService interface {
	// Configured reports whether a repository is attached.
	Configured() bool

	// List returns all tasks, newest first.
	List(ctx context.Context) ([]model.Task, error)

	// Get returns a single task by its ID.
	Get(ctx context.Context, id int64) (*model.Task, error)

	// Create validates the input and stores a new task.
	Create(ctx context.Context, in model.TaskInput) (*model.Task, error)

	// Update validates the input and replaces all mutable fields of a task.
	Update(ctx context.Context, id int64, in model.TaskInput) (*model.Task, error)

	// Delete removes a task and returns it.
	Delete(ctx context.Context, id int64) (*model.Task, error)
}

type taskService struct {
	repo     repository.TaskRepository
	validate *validator.Validate
}

// NewTaskService constructs a TaskService. A nil repo yields a service whose
// every operation fails with ErrNotConfigured.
func NewTaskService(repo repository.TaskRepository) TaskService {
	return &taskService{repo: repo, validate: validator.New()}
}

func (s *taskService) Configured() bool {
	return s.repo != nil
}

func (s *taskService) List(ctx context.Context) ([]model.Task, error) {
	if s.repo == nil {
		return nil, ErrNotConfigured
	}
	tasks, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}
	return tasks, nil
}

func (s *taskService) Get(ctx context.Context, id int64) (*model.Task, error) {
	if s.repo == nil {
		return nil, ErrNotConfigured
	}
	task, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, mapRepoError("get task", err)
	}
	return task, nil
}

func (s *taskService) Create(ctx context.Context, in model.TaskInput) (*model.Task, error) {
	if s.repo == nil {
		return nil, ErrNotConfigured
	}
	in, err := s.normalize(in)
	if err != nil {
		return nil, err
	}
	task, err := s.repo.Create(ctx, in)
	if err != nil {
		return nil, fmt.Errorf("create task: %w", err)
	}
	return task, nil
}

func (s *taskService) Update(ctx context.Context, id int64, in model.TaskInput) (*model.Task, error) {
	if s.repo == nil {
		return nil, ErrNotConfigured
	}
	in, err := s.normalize(in)
	if err != nil {
		return nil, err
	}
	task, err := s.repo.Update(ctx, id, in)
	if err != nil {
		return nil, mapRepoError("update task", err)
	}
	return task, nil
}

func (s *taskService) Delete(ctx context.Context, id int64) (*model.Task, error) {
	if s.repo == nil {
		return nil, ErrNotConfigured
	}
	task, err := s.repo.Delete(ctx, id)
	if err != nil {
		return nil, mapRepoError("delete task", err)
	}
	return task, nil
}

// normalize trims the title so whitespace-only titles count as missing.
func (s *taskService) normalize(in model.TaskInput) (model.TaskInput, error) {
	in.Title = strings.TrimSpace(in.Title)
	if err := s.validate.Struct(in); err != nil {
		return in, fmt.Errorf("%w: title is required", ErrValidation)
	}
	return in, nil
}

func mapRepoError(op string, err error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return ErrNotFound
	}
	return fmt.Errorf("%s: %w", op, err)
}
