package service

//go:generate mockgen -source=interfaces.go -destination=../mock/service_mock.go -package=mock

import (
	"context"

	"github.com/vlebedev/go-task-manager/models"
)

// AuthService orchestrates the session lifecycle: signup, credential
// verification, token issuance, revocation, and request authentication.
type AuthService interface {
	// Signup validates the input, creates the account (hashing the
	// password first), queues a welcome notification, and logs the new
	// user in by issuing their first token.
	Signup(ctx context.Context, in UserInput) (models.User, models.Token, error)

	// Login verifies the credentials, issues a token, and appends it to
	// the user's token list. An unknown email and a wrong password both
	// fail with ErrInvalidCredentials.
	Login(ctx context.Context, email, password string) (models.User, models.Token, error)

	// Authenticate verifies a bearer token's signature and expiry, then
	// confirms it is still present in the owning user's token list.
	// Every failure mode surfaces as ErrUnauthenticated.
	Authenticate(ctx context.Context, tokenString string) (models.User, error)

	// Logout revokes exactly the given token; other sessions stay valid.
	Logout(ctx context.Context, userID int64, token string) error

	// LogoutAll clears the user's entire token list.
	LogoutAll(ctx context.Context, userID int64) error

	// ActiveSessions reports how many tokens are currently valid for the
	// user, one per open session.
	ActiveSessions(ctx context.Context, userID int64) (int, error)
}

// UserService manages the account profile after authentication.
type UserService interface {
	// UpdateProfile applies an allow-listed ({name, email, password, age})
	// set of updates atomically. Any other key fails the whole operation
	// with ErrInvalidOperation.
	UpdateProfile(ctx context.Context, userID int64, updates map[string]any) (models.User, error)

	// DeleteAccount removes the user and every owned task in one cascade,
	// then queues a cancelation notification.
	DeleteAccount(ctx context.Context, user models.User) error

	SetAvatar(ctx context.Context, userID int64, filename string, data []byte) error
	GetAvatar(ctx context.Context, userID int64) ([]byte, error)
	RemoveAvatar(ctx context.Context, userID int64) error
}

// TaskService manages the authenticated user's task collection.
type TaskService interface {
	CreateTask(ctx context.Context, ownerID int64, title string, completed bool) (models.Task, error)
	GetTask(ctx context.Context, ownerID, taskID int64) (models.Task, error)
	ListTasks(ctx context.Context, ownerID int64, filter models.TaskFilter) ([]models.Task, error)

	// CountTasks reports the owner's total task count, ignoring any list
	// filter, so paginated clients can see how many pages exist.
	CountTasks(ctx context.Context, ownerID int64) (int64, error)

	// UpdateTask applies an allow-listed ({title, completed}) set of
	// updates atomically, mirroring UpdateProfile semantics.
	UpdateTask(ctx context.Context, ownerID, taskID int64, updates map[string]any) (models.Task, error)
	DeleteTask(ctx context.Context, ownerID, taskID int64) (models.Task, error)
}
