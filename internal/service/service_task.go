package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/vlebedev/go-task-manager/internal/logger"
	"github.com/vlebedev/go-task-manager/internal/store"
	"github.com/vlebedev/go-task-manager/models"
)

// taskUpdatableFields is the fixed allow-list of task fields a PATCH may
// touch.
var taskUpdatableFields = map[string]struct{}{
	"title":     {},
	"completed": {},
}

// taskService is the concrete implementation of [TaskService]. Ownership is
// passed down to the repository, which scopes every statement by owner id.
type taskService struct {
	taskRepository store.TaskRepository
	logger         *logger.Logger
}

// NewTaskService constructs a TaskService wired to the given TaskRepository.
func NewTaskService(taskRepository store.TaskRepository, logger *logger.Logger) TaskService {
	return &taskService{
		taskRepository: taskRepository,
		logger:         logger,
	}
}

// CreateTask persists a new task owned by ownerID. The title is required.
func (s *taskService) CreateTask(ctx context.Context, ownerID int64, title string, completed bool) (models.Task, error) {
	log := logger.FromContext(ctx)

	title = strings.TrimSpace(title)
	if title == "" {
		return models.Task{}, &ValidationError{Fields: []FieldError{{Field: "title", Message: "title is required"}}}
	}

	task, err := s.taskRepository.CreateTask(ctx, models.Task{
		Title:     title,
		Completed: completed,
		OwnerID:   ownerID,
	})
	if err != nil {
		log.Err(err).Int64("owner", ownerID).Msg("task creation ended with error")
		return models.Task{}, fmt.Errorf("task creation ended with error: %w", err)
	}

	return task, nil
}

// GetTask returns a single task owned by ownerID.
func (s *taskService) GetTask(ctx context.Context, ownerID, taskID int64) (models.Task, error) {
	task, err := s.taskRepository.FindTaskByID(ctx, ownerID, taskID)
	if err != nil {
		return models.Task{}, fmt.Errorf("task lookup failed: %w", err)
	}

	return task, nil
}

// ListTasks returns the owner's tasks narrowed down by the filter.
func (s *taskService) ListTasks(ctx context.Context, ownerID int64, filter models.TaskFilter) ([]models.Task, error) {
	tasks, err := s.taskRepository.ListTasks(ctx, ownerID, filter)
	if err != nil {
		return nil, fmt.Errorf("task listing failed: %w", err)
	}

	return tasks, nil
}

// CountTasks returns the owner's total task count, unaffected by any filter.
func (s *taskService) CountTasks(ctx context.Context, ownerID int64) (int64, error) {
	count, err := s.taskRepository.CountTasksByOwner(ctx, ownerID)
	if err != nil {
		return 0, fmt.Errorf("task counting failed: %w", err)
	}

	return count, nil
}

// UpdateTask applies the submitted updates to the task with all-or-nothing
// semantics, mirroring UpdateProfile: any key outside {title, completed}
// fails the whole operation with ErrInvalidOperation.
func (s *taskService) UpdateTask(ctx context.Context, ownerID, taskID int64, updates map[string]any) (models.Task, error) {
	log := logger.FromContext(ctx)

	if len(updates) == 0 {
		return models.Task{}, &ValidationError{Fields: []FieldError{{Field: "body", Message: "no updates provided"}}}
	}

	for key := range updates {
		if _, ok := taskUpdatableFields[key]; !ok {
			log.Debug().Str("field", key).Msg("update of disallowed field requested")
			return models.Task{}, fmt.Errorf("%w: field %q is not updatable", ErrInvalidOperation, key)
		}
	}

	fields := make(map[string]any, len(updates))
	var fieldErrors []FieldError

	if raw, ok := updates["title"]; ok {
		title, ok := raw.(string)
		if !ok || strings.TrimSpace(title) == "" {
			fieldErrors = append(fieldErrors, FieldError{Field: "title", Message: "title must be a non-empty string"})
		} else {
			fields["title"] = strings.TrimSpace(title)
		}
	}

	if raw, ok := updates["completed"]; ok {
		completed, ok := raw.(bool)
		if !ok {
			fieldErrors = append(fieldErrors, FieldError{Field: "completed", Message: "completed must be a boolean"})
		} else {
			fields["completed"] = completed
		}
	}

	if len(fieldErrors) > 0 {
		return models.Task{}, &ValidationError{Fields: fieldErrors}
	}

	updated, err := s.taskRepository.UpdateTask(ctx, ownerID, taskID, fields)
	if err != nil {
		log.Err(err).Int64("owner", ownerID).Int64("task", taskID).Msg("task update ended with error")
		return models.Task{}, fmt.Errorf("task update ended with error: %w", err)
	}

	return updated, nil
}

// DeleteTask removes a single task owned by ownerID and returns it.
func (s *taskService) DeleteTask(ctx context.Context, ownerID, taskID int64) (models.Task, error) {
	deleted, err := s.taskRepository.DeleteTask(ctx, ownerID, taskID)
	if err != nil {
		return models.Task{}, fmt.Errorf("task deletion failed: %w", err)
	}

	return deleted, nil
}
