package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jackc/pgerrcode"
	"github.com/vlebedev/go-task-manager/internal/logger"
	"github.com/vlebedev/go-task-manager/models"
)

// userRepository is the SQL-backed implementation of [UserRepository].
// It manages the "users" and "user_tokens" tables.
//
// All methods obtain a context-scoped logger via [logger.FromContext] for
// structured, request-level tracing of database interactions.
type userRepository struct {
	logger *logger.Logger
	db     *DB
}

// NewUserRepository constructs a [UserRepository] backed by the provided
// database connection and logger.
func NewUserRepository(db *DB, logger *logger.Logger) UserRepository {
	logger.Debug().Msg("creating user repository")
	return &userRepository{
		db:     db,
		logger: logger,
	}
}

func scanUser(row *sql.Row) (models.User, error) {
	var user models.User
	err := row.Scan(&user.UserID, &user.Name, &user.Email, &user.Password, &user.Age, &user.CreatedAt)
	return user, err
}

// CreateUser persists a new user record and returns the fully populated
// [models.User] with server-assigned fields (UserID, CreatedAt).
//
// Error handling:
//   - unique_violation on the email column → [ErrEmailAlreadyExists].
//   - Any other driver-level error → wrapped as "unexpected DB error".
func (r *userRepository) CreateUser(ctx context.Context, user models.User) (models.User, error) {
	log := logger.FromContext(ctx)

	row := r.db.QueryRowContext(ctx, createUser, user.Name, user.Email, user.Password, user.Age)

	// create user in db
	if err := row.Err(); err != nil {
		log.Err(err).Str("func", "*userRepository.CreateUser").Msg("error: insert failed")

		switch postgresError(err) {
		case pgerrcode.UniqueViolation:
			return models.User{}, ErrEmailAlreadyExists
		default:
			return models.User{}, fmt.Errorf("unexpected DB error: %w", err)
		}
	}

	// scan saved user from db
	saved, err := scanUser(row)
	if err != nil {
		log.Err(err).Str("func", "*userRepository.CreateUser").Msg("error: scanning error")
		return models.User{}, fmt.Errorf("%w: %w", ErrScanningRow, err)
	}

	return saved, nil
}

// FindUserByEmail retrieves the user record whose email matches exactly.
// Returns [ErrUserNotFound] when no row matches.
func (r *userRepository) FindUserByEmail(ctx context.Context, email string) (models.User, error) {
	return r.findOne(ctx, "*userRepository.FindUserByEmail", findUserByEmail, email)
}

// FindUserByID retrieves the user record by its primary key.
// Returns [ErrUserNotFound] when no row matches.
func (r *userRepository) FindUserByID(ctx context.Context, userID int64) (models.User, error) {
	return r.findOne(ctx, "*userRepository.FindUserByID", findUserByID, userID)
}

// FindUserByIDAndToken retrieves the user only when the given token string is
// currently present in the user's token list. A revoked or never-issued token
// yields [ErrUserNotFound] even if the user record itself exists.
func (r *userRepository) FindUserByIDAndToken(ctx context.Context, userID int64, token string) (models.User, error) {
	return r.findOne(ctx, "*userRepository.FindUserByIDAndToken", findUserByIDAndToken, userID, token)
}

func (r *userRepository) findOne(ctx context.Context, caller, query string, args ...any) (models.User, error) {
	log := logger.FromContext(ctx)

	row := r.db.QueryRowContext(ctx, query, args...)
	if err := row.Err(); err != nil {
		log.Err(err).Str("func", caller).Msg("error: query failed")
		return models.User{}, fmt.Errorf("unexpected DB error: %w", err)
	}

	foundUser, err := scanUser(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.User{}, ErrUserNotFound
		}
		log.Err(err).Str("func", caller).Msg("error: scanning error")
		return models.User{}, fmt.Errorf("%w: %w", ErrScanningRow, err)
	}

	return foundUser, nil
}

// UpdateUser applies the given column/value pairs to the user row and returns
// the updated record. Fields must already be restricted to the allow-listed
// columns by the service layer.
//
// Error handling:
//   - empty field set → [ErrNothingToUpdate].
//   - unique_violation on the email column → [ErrEmailAlreadyExists].
//   - no matching row → [ErrUserNotFound].
func (r *userRepository) UpdateUser(ctx context.Context, userID int64, fields map[string]any) (models.User, error) {
	log := logger.FromContext(ctx)

	query, args, err := buildUpdateUserQuery(userID, fields)
	if err != nil {
		return models.User{}, err
	}

	row := r.db.QueryRowContext(ctx, query, args...)
	if err := row.Err(); err != nil {
		log.Err(err).Str("func", "*userRepository.UpdateUser").Msg("error: update failed")

		switch postgresError(err) {
		case pgerrcode.UniqueViolation:
			return models.User{}, ErrEmailAlreadyExists
		default:
			return models.User{}, fmt.Errorf("unexpected DB error: %w", err)
		}
	}

	updated, err := scanUser(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.User{}, ErrUserNotFound
		}
		log.Err(err).Str("func", "*userRepository.UpdateUser").Msg("error: scanning error")
		return models.User{}, fmt.Errorf("%w: %w", ErrScanningRow, err)
	}

	return updated, nil
}

// AddToken appends a freshly issued bearer token to the user's token list.
func (r *userRepository) AddToken(ctx context.Context, userID int64, token string) error {
	log := logger.FromContext(ctx)

	if _, err := r.db.ExecContext(ctx, insertToken, userID, token); err != nil {
		log.Err(err).Str("func", "*userRepository.AddToken").Msg("error: insert failed")
		return fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}

	return nil
}

// RemoveToken deletes exactly the given token from the user's token list.
// Removing an already-absent token is a no-op.
func (r *userRepository) RemoveToken(ctx context.Context, userID int64, token string) error {
	log := logger.FromContext(ctx)

	if _, err := r.db.ExecContext(ctx, deleteToken, userID, token); err != nil {
		log.Err(err).Str("func", "*userRepository.RemoveToken").Msg("error: delete failed")
		return fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}

	return nil
}

// RemoveAllTokens clears the user's entire token list, invalidating every
// session at once.
func (r *userRepository) RemoveAllTokens(ctx context.Context, userID int64) error {
	log := logger.FromContext(ctx)

	if _, err := r.db.ExecContext(ctx, deleteTokensByUser, userID); err != nil {
		log.Err(err).Str("func", "*userRepository.RemoveAllTokens").Msg("error: delete failed")
		return fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}

	return nil
}

// ListTokens returns the user's currently valid tokens in issuance order.
func (r *userRepository) ListTokens(ctx context.Context, userID int64) ([]string, error) {
	log := logger.FromContext(ctx)

	rows, err := r.db.QueryContext(ctx, listTokens, userID)
	if err != nil {
		log.Err(err).Str("func", "*userRepository.ListTokens").Msg("error: query failed")
		return nil, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}
	defer rows.Close()

	var tokens []string
	for rows.Next() {
		var token string
		if err := rows.Scan(&token); err != nil {
			log.Err(err).Str("func", "*userRepository.ListTokens").Msg("error: scanning error")
			return nil, fmt.Errorf("%w: %w", ErrScanningRow, err)
		}
		tokens = append(tokens, token)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}

	return tokens, nil
}

// SaveAvatar stores the PNG-encoded avatar blob on the user row.
func (r *userRepository) SaveAvatar(ctx context.Context, userID int64, avatar []byte) error {
	return r.execOnUser(ctx, "*userRepository.SaveAvatar", saveAvatar, avatar, userID)
}

// DeleteAvatar clears the avatar blob on the user row.
func (r *userRepository) DeleteAvatar(ctx context.Context, userID int64) error {
	return r.execOnUser(ctx, "*userRepository.DeleteAvatar", deleteAvatar, userID)
}

func (r *userRepository) execOnUser(ctx context.Context, caller, query string, args ...any) error {
	log := logger.FromContext(ctx)

	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		log.Err(err).Str("func", caller).Msg("error: exec failed")
		return fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}
	if affected == 0 {
		return ErrUserNotFound
	}

	return nil
}

// GetAvatar returns the stored avatar blob.
//
// Error handling:
//   - no user row → [ErrUserNotFound].
//   - user exists but has no avatar → [ErrAvatarNotFound].
func (r *userRepository) GetAvatar(ctx context.Context, userID int64) ([]byte, error) {
	log := logger.FromContext(ctx)

	var avatar []byte
	row := r.db.QueryRowContext(ctx, getAvatar, userID)
	if err := row.Scan(&avatar); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		log.Err(err).Str("func", "*userRepository.GetAvatar").Msg("error: scanning error")
		return nil, fmt.Errorf("%w: %w", ErrScanningRow, err)
	}

	if len(avatar) == 0 {
		return nil, ErrAvatarNotFound
	}

	return avatar, nil
}

// DeleteUserCascade removes the user record together with all owned tasks and
// all issued tokens inside a single transaction. Any failure rolls the whole
// delete back, so no orphaned tasks can remain after a successful return.
func (r *userRepository) DeleteUserCascade(ctx context.Context, userID int64) error {
	log := logger.FromContext(ctx)

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		log.Err(err).Str("func", "*userRepository.DeleteUserCascade").Msg("error: begin failed")
		return fmt.Errorf("%w: %w", ErrBeginningTransaction, err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, deleteTasksByOwner, userID); err != nil {
		log.Err(err).Str("func", "*userRepository.DeleteUserCascade").Msg("error: deleting tasks failed")
		return fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}

	if _, err := tx.ExecContext(ctx, deleteTokensByUser, userID); err != nil {
		log.Err(err).Str("func", "*userRepository.DeleteUserCascade").Msg("error: deleting tokens failed")
		return fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}

	result, err := tx.ExecContext(ctx, deleteUser, userID)
	if err != nil {
		log.Err(err).Str("func", "*userRepository.DeleteUserCascade").Msg("error: deleting user failed")
		return fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}
	if affected == 0 {
		return ErrUserNotFound
	}

	if err := tx.Commit(); err != nil {
		log.Err(err).Str("func", "*userRepository.DeleteUserCascade").Msg("error: commit failed")
		return fmt.Errorf("%w: %w", ErrCommitingTransaction, err)
	}

	return nil
}
