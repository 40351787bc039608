package models

import "time"

// Task is a work item owned by exactly one user. Deleting the owner deletes
// all of their tasks (see store.DeleteUserCascade).
type Task struct {
	// TaskID is the internal unique identifier of the task.
	TaskID int64 `json:"id"`

	// Title is the task description.
	Title string `json:"title"`

	// Completed marks the task as done.
	Completed bool `json:"completed"`

	// OwnerID references the user that created the task. Required.
	OwnerID int64 `json:"owner_id"`

	// CreatedAt is the timestamp when the task was created.
	CreatedAt time.Time `json:"created_at"`
}

// TableName returns the name of the database table
// associated with the Task model.
func (t Task) TableName() string {
	return "tasks"
}

// TaskFilter narrows down task listings. Zero values mean "no restriction".
type TaskFilter struct {
	// Completed filters by completion state when non-nil.
	Completed *bool

	// Limit caps the number of returned tasks; 0 means no cap.
	Limit int64

	// Skip is the number of tasks to skip from the start of the result set.
	Skip int64

	// SortDesc orders tasks by creation time descending when true.
	SortDesc bool
}
