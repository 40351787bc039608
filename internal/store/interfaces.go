package store

//go:generate mockgen -source=interfaces.go -destination=../mock/store_mock.go -package=mock

import (
	"context"

	"github.com/vlebedev/go-task-manager/models"
)

// UserRepository is the persistence boundary for user records, their issued
// token list, and the avatar blob.
type UserRepository interface {
	CreateUser(ctx context.Context, user models.User) (models.User, error)
	FindUserByEmail(ctx context.Context, email string) (models.User, error)
	FindUserByID(ctx context.Context, userID int64) (models.User, error)

	// FindUserByIDAndToken returns the user only if the given token string
	// is currently present in that user's token list. This is the
	// revocation check behind every authenticated request.
	FindUserByIDAndToken(ctx context.Context, userID int64, token string) (models.User, error)

	// UpdateUser applies the given column/value pairs to the user row and
	// returns the updated record. Callers are responsible for restricting
	// fields to the allow-list before calling.
	UpdateUser(ctx context.Context, userID int64, fields map[string]any) (models.User, error)

	AddToken(ctx context.Context, userID int64, token string) error
	RemoveToken(ctx context.Context, userID int64, token string) error
	RemoveAllTokens(ctx context.Context, userID int64) error
	ListTokens(ctx context.Context, userID int64) ([]string, error)

	SaveAvatar(ctx context.Context, userID int64, avatar []byte) error
	DeleteAvatar(ctx context.Context, userID int64) error
	GetAvatar(ctx context.Context, userID int64) ([]byte, error)

	// DeleteUserCascade removes the user together with all owned tasks and
	// issued tokens in a single transaction. Either everything is deleted
	// or nothing is.
	DeleteUserCascade(ctx context.Context, userID int64) error
}

// TaskRepository is the persistence boundary for tasks. Every operation is
// scoped by the owning user id so one user can never reach another's tasks.
type TaskRepository interface {
	CreateTask(ctx context.Context, task models.Task) (models.Task, error)
	FindTaskByID(ctx context.Context, ownerID, taskID int64) (models.Task, error)
	ListTasks(ctx context.Context, ownerID int64, filter models.TaskFilter) ([]models.Task, error)
	UpdateTask(ctx context.Context, ownerID, taskID int64, fields map[string]any) (models.Task, error)
	DeleteTask(ctx context.Context, ownerID, taskID int64) (models.Task, error)
	CountTasksByOwner(ctx context.Context, ownerID int64) (int64, error)
}
