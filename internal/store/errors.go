package store

import "errors"

// Sentinel errors returned by repository methods to signal well-known failure
// conditions. Callers should use [errors.Is] to match against these values.
var (
	// ErrEmailAlreadyExists is returned when an attempt to register a new
	// user fails because a user with the same email already exists.
	ErrEmailAlreadyExists = errors.New("email already exists")

	// ErrUserNotFound is returned when a query expected to match a user
	// record produces an empty result set. The auth middleware also sees
	// this when a token has been revoked: the id+token lookup matches no
	// row even though the user exists.
	ErrUserNotFound = errors.New("no user was found")

	// ErrTaskNotFound is returned when a task lookup scoped by owner id
	// matches no row.
	ErrTaskNotFound = errors.New("no task was found")

	// ErrAvatarNotFound is returned when a user exists but has no avatar
	// stored.
	ErrAvatarNotFound = errors.New("no avatar was found")

	// ErrNothingToUpdate is returned when an update is requested with an
	// empty field set.
	ErrNothingToUpdate = errors.New("no fields to update")
)

// Low-level database operation errors, returned (or wrapped) when a SQL-level
// operation fails before any domain logic can be applied.
var (
	// ErrBuildingSQLQuery is returned when constructing a parameterised SQL
	// query fails.
	ErrBuildingSQLQuery = errors.New("error building sql query")

	// ErrExecutingQuery is returned when executing a query against the
	// database fails.
	ErrExecutingQuery = errors.New("error executing sql query")

	// ErrBeginningTransaction is returned when the database driver cannot
	// start a new transaction.
	ErrBeginningTransaction = errors.New("failed to begin transaction")

	// ErrCommitingTransaction is returned when committing an open
	// transaction fails. The transaction is considered rolled back.
	ErrCommitingTransaction = errors.New("failed to commit transaction")

	// ErrScanningRow is returned when scanning column values from a result
	// row into a destination struct fails.
	ErrScanningRow = errors.New("failed to scan row")
)
