package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/vlebedev/go-task-manager/internal/logger"
	"github.com/vlebedev/go-task-manager/models"
)

// taskRepository is the SQL-backed implementation of [TaskRepository].
// Every statement is scoped by owner id, so ownership is enforced at the
// query level rather than in the service.
type taskRepository struct {
	logger *logger.Logger
	db     *DB
}

// NewTaskRepository constructs a [TaskRepository] backed by the provided
// database connection and logger.
func NewTaskRepository(db *DB, logger *logger.Logger) TaskRepository {
	logger.Debug().Msg("creating task repository")
	return &taskRepository{
		db:     db,
		logger: logger,
	}
}

func scanTask(row *sql.Row) (models.Task, error) {
	var task models.Task
	err := row.Scan(&task.TaskID, &task.Title, &task.Completed, &task.OwnerID, &task.CreatedAt)
	return task, err
}

// CreateTask persists a new task and returns it with server-assigned fields
// (TaskID, CreatedAt).
func (r *taskRepository) CreateTask(ctx context.Context, task models.Task) (models.Task, error) {
	log := logger.FromContext(ctx)

	row := r.db.QueryRowContext(ctx, createTask, task.Title, task.Completed, task.OwnerID)
	if err := row.Err(); err != nil {
		log.Err(err).Str("func", "*taskRepository.CreateTask").Msg("error: insert failed")
		return models.Task{}, fmt.Errorf("unexpected DB error: %w", err)
	}

	saved, err := scanTask(row)
	if err != nil {
		log.Err(err).Str("func", "*taskRepository.CreateTask").Msg("error: scanning error")
		return models.Task{}, fmt.Errorf("%w: %w", ErrScanningRow, err)
	}

	return saved, nil
}

// FindTaskByID retrieves a single task owned by ownerID.
// Returns [ErrTaskNotFound] when no row matches, including the case where the
// task exists but belongs to another user.
func (r *taskRepository) FindTaskByID(ctx context.Context, ownerID, taskID int64) (models.Task, error) {
	log := logger.FromContext(ctx)

	row := r.db.QueryRowContext(ctx, findTaskByID, taskID, ownerID)
	task, err := scanTask(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.Task{}, ErrTaskNotFound
		}
		log.Err(err).Str("func", "*taskRepository.FindTaskByID").Msg("error: scanning error")
		return models.Task{}, fmt.Errorf("%w: %w", ErrScanningRow, err)
	}

	return task, nil
}

// ListTasks returns the owner's tasks narrowed down by the filter.
func (r *taskRepository) ListTasks(ctx context.Context, ownerID int64, filter models.TaskFilter) ([]models.Task, error) {
	log := logger.FromContext(ctx)

	query, args, err := buildListTasksQuery(ownerID, filter)
	if err != nil {
		return nil, err
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		log.Err(err).Str("func", "*taskRepository.ListTasks").Msg("error: query failed")
		return nil, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}
	defer rows.Close()

	tasks := make([]models.Task, 0)
	for rows.Next() {
		var task models.Task
		if err := rows.Scan(&task.TaskID, &task.Title, &task.Completed, &task.OwnerID, &task.CreatedAt); err != nil {
			log.Err(err).Str("func", "*taskRepository.ListTasks").Msg("error: scanning error")
			return nil, fmt.Errorf("%w: %w", ErrScanningRow, err)
		}
		tasks = append(tasks, task)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}

	return tasks, nil
}

// UpdateTask applies the given column/value pairs to the task row and returns
// the updated record. Fields must already be restricted to the allow-listed
// columns by the service layer.
func (r *taskRepository) UpdateTask(ctx context.Context, ownerID, taskID int64, fields map[string]any) (models.Task, error) {
	log := logger.FromContext(ctx)

	query, args, err := buildUpdateTaskQuery(ownerID, taskID, fields)
	if err != nil {
		return models.Task{}, err
	}

	row := r.db.QueryRowContext(ctx, query, args...)
	updated, err := scanTask(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.Task{}, ErrTaskNotFound
		}
		log.Err(err).Str("func", "*taskRepository.UpdateTask").Msg("error: scanning error")
		return models.Task{}, fmt.Errorf("%w: %w", ErrScanningRow, err)
	}

	return updated, nil
}

// DeleteTask removes a single task owned by ownerID and returns the deleted
// record. Returns [ErrTaskNotFound] when no row matches.
func (r *taskRepository) DeleteTask(ctx context.Context, ownerID, taskID int64) (models.Task, error) {
	log := logger.FromContext(ctx)

	row := r.db.QueryRowContext(ctx, deleteTask, taskID, ownerID)
	deleted, err := scanTask(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.Task{}, ErrTaskNotFound
		}
		log.Err(err).Str("func", "*taskRepository.DeleteTask").Msg("error: scanning error")
		return models.Task{}, fmt.Errorf("%w: %w", ErrScanningRow, err)
	}

	return deleted, nil
}

// CountTasksByOwner returns the number of tasks currently owned by ownerID.
func (r *taskRepository) CountTasksByOwner(ctx context.Context, ownerID int64) (int64, error) {
	log := logger.FromContext(ctx)

	var count int64
	row := r.db.QueryRowContext(ctx, countTasksByOwner, ownerID)
	if err := row.Scan(&count); err != nil {
		log.Err(err).Str("func", "*taskRepository.CountTasksByOwner").Msg("error: scanning error")
		return 0, fmt.Errorf("%w: %w", ErrScanningRow, err)
	}

	return count, nil
}
