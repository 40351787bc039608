package store

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/vlebedev/go-task-manager/internal/logger"
	"github.com/vlebedev/go-task-manager/models"
)

func newTestUserRepo(t *testing.T) (*userRepository, sqlmock.Sqlmock, *sql.DB) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to create sqlmock: %v", err)
	}
	l := logger.Nop()
	repo := &userRepository{
		db:     &DB{DB: db, logger: l},
		logger: l,
	}
	return repo, mock, db
}

func pgError(code string) error {
	return &pgconn.PgError{Code: code}
}

func userRows(id int64, name, email, password string, age int64, createdAt time.Time) *sqlmock.Rows {
	return sqlmock.
		NewRows([]string{"user_id", "name", "email", "password", "age", "created_at"}).
		AddRow(id, name, email, password, age, createdAt)
}

func TestCreateUser_Success(t *testing.T) {
	repo, mock, db := newTestUserRepo(t)
	defer db.Close()

	ctx := context.Background()
	user := models.User{
		Name:     "John",
		Email:    "john@example.com",
		Password: "hash",
		Age:      30,
	}

	mock.ExpectQuery("INSERT INTO users").
		WithArgs(user.Name, user.Email, user.Password, user.Age).
		WillReturnRows(userRows(1, user.Name, user.Email, user.Password, user.Age, time.Now()))

	created, err := repo.CreateUser(ctx, user)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if created.UserID != 1 {
		t.Errorf("expected UserID=1, got %d", created.UserID)
	}
	if created.Email != user.Email {
		t.Errorf("expected email %s, got %s", user.Email, created.Email)
	}
}

func TestCreateUser_UniqueViolation(t *testing.T) {
	repo, mock, db := newTestUserRepo(t)
	defer db.Close()

	ctx := context.Background()

	mock.ExpectQuery("INSERT INTO users").
		WithArgs(sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnError(pgError(pgerrcode.UniqueViolation))

	_, err := repo.CreateUser(ctx, models.User{Email: "taken@example.com"})
	if !errors.Is(err, ErrEmailAlreadyExists) {
		t.Fatalf("expected ErrEmailAlreadyExists, got %v", err)
	}
}

func TestCreateUser_UnexpectedDBError(t *testing.T) {
	repo, mock, db := newTestUserRepo(t)
	defer db.Close()

	ctx := context.Background()

	mock.ExpectQuery("INSERT INTO users").
		WithArgs(sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnError(errors.New("db network error"))

	_, err := repo.CreateUser(ctx, models.User{Email: "john@example.com"})
	if err == nil || !strings.Contains(err.Error(), "unexpected DB error") {
		t.Fatalf("expected wrapped unexpected DB error, got %v", err)
	}
}

func TestFindUserByEmail_Success(t *testing.T) {
	repo, mock, db := newTestUserRepo(t)
	defer db.Close()

	ctx := context.Background()

	mock.ExpectQuery("SELECT user_id").
		WithArgs("john@example.com").
		WillReturnRows(userRows(1, "John", "john@example.com", "hash", 30, time.Now()))

	found, err := repo.FindUserByEmail(ctx, "john@example.com")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if found.Email != "john@example.com" {
		t.Errorf("expected email john@example.com, got %s", found.Email)
	}
}

func TestFindUserByEmail_NotFound(t *testing.T) {
	repo, mock, db := newTestUserRepo(t)
	defer db.Close()

	ctx := context.Background()

	mock.ExpectQuery("SELECT user_id").
		WithArgs("ghost@example.com").
		WillReturnRows(sqlmock.NewRows([]string{"user_id", "name", "email", "password", "age", "created_at"}))

	_, err := repo.FindUserByEmail(ctx, "ghost@example.com")
	if !errors.Is(err, ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
}

func TestFindUserByIDAndToken_Revoked(t *testing.T) {
	repo, mock, db := newTestUserRepo(t)
	defer db.Close()

	ctx := context.Background()

	// token not in user_tokens → empty result → ErrUserNotFound
	mock.ExpectQuery("SELECT u.user_id").
		WithArgs(int64(1), "revoked-token").
		WillReturnRows(sqlmock.NewRows([]string{"user_id", "name", "email", "password", "age", "created_at"}))

	_, err := repo.FindUserByIDAndToken(ctx, 1, "revoked-token")
	if !errors.Is(err, ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
}

func TestFindUserByIDAndToken_Success(t *testing.T) {
	repo, mock, db := newTestUserRepo(t)
	defer db.Close()

	ctx := context.Background()

	mock.ExpectQuery("SELECT u.user_id").
		WithArgs(int64(1), "valid-token").
		WillReturnRows(userRows(1, "John", "john@example.com", "hash", 30, time.Now()))

	found, err := repo.FindUserByIDAndToken(ctx, 1, "valid-token")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if found.UserID != 1 {
		t.Errorf("expected UserID=1, got %d", found.UserID)
	}
}

func TestUpdateUser_Success(t *testing.T) {
	repo, mock, db := newTestUserRepo(t)
	defer db.Close()

	ctx := context.Background()

	mock.ExpectQuery("UPDATE users").
		WillReturnRows(userRows(1, "Johnny", "john@example.com", "hash", 30, time.Now()))

	updated, err := repo.UpdateUser(ctx, 1, map[string]any{"name": "Johnny"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if updated.Name != "Johnny" {
		t.Errorf("expected name Johnny, got %s", updated.Name)
	}
}

func TestUpdateUser_NothingToUpdate(t *testing.T) {
	repo, _, db := newTestUserRepo(t)
	defer db.Close()

	_, err := repo.UpdateUser(context.Background(), 1, map[string]any{})
	if !errors.Is(err, ErrNothingToUpdate) {
		t.Fatalf("expected ErrNothingToUpdate, got %v", err)
	}
}

func TestUpdateUser_EmailTaken(t *testing.T) {
	repo, mock, db := newTestUserRepo(t)
	defer db.Close()

	mock.ExpectQuery("UPDATE users").
		WillReturnError(pgError(pgerrcode.UniqueViolation))

	_, err := repo.UpdateUser(context.Background(), 1, map[string]any{"email": "taken@example.com"})
	if !errors.Is(err, ErrEmailAlreadyExists) {
		t.Fatalf("expected ErrEmailAlreadyExists, got %v", err)
	}
}

func TestTokenLifecycle(t *testing.T) {
	repo, mock, db := newTestUserRepo(t)
	defer db.Close()

	ctx := context.Background()

	t.Run("add token", func(t *testing.T) {
		mock.ExpectExec("INSERT INTO user_tokens").
			WithArgs(int64(1), "token-a").
			WillReturnResult(sqlmock.NewResult(0, 1))

		if err := repo.AddToken(ctx, 1, "token-a"); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	})

	t.Run("remove token", func(t *testing.T) {
		mock.ExpectExec("DELETE FROM user_tokens").
			WithArgs(int64(1), "token-a").
			WillReturnResult(sqlmock.NewResult(0, 1))

		if err := repo.RemoveToken(ctx, 1, "token-a"); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	})

	t.Run("remove all tokens", func(t *testing.T) {
		mock.ExpectExec("DELETE FROM user_tokens").
			WithArgs(int64(1)).
			WillReturnResult(sqlmock.NewResult(0, 3))

		if err := repo.RemoveAllTokens(ctx, 1); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	})

	t.Run("list tokens", func(t *testing.T) {
		rows := sqlmock.NewRows([]string{"token"}).
			AddRow("token-a").
			AddRow("token-b")

		mock.ExpectQuery("SELECT token").
			WithArgs(int64(1)).
			WillReturnRows(rows)

		tokens, err := repo.ListTokens(ctx, 1)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(tokens) != 2 {
			t.Fatalf("expected 2 tokens, got %d", len(tokens))
		}
	})
}

func TestGetAvatar(t *testing.T) {
	repo, mock, db := newTestUserRepo(t)
	defer db.Close()

	ctx := context.Background()

	t.Run("success", func(t *testing.T) {
		mock.ExpectQuery("SELECT avatar").
			WithArgs(int64(1)).
			WillReturnRows(sqlmock.NewRows([]string{"avatar"}).AddRow([]byte{0x89, 0x50, 0x4e, 0x47}))

		data, err := repo.GetAvatar(ctx, 1)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(data) == 0 {
			t.Fatal("expected avatar bytes, got none")
		}
	})

	t.Run("user without avatar", func(t *testing.T) {
		mock.ExpectQuery("SELECT avatar").
			WithArgs(int64(1)).
			WillReturnRows(sqlmock.NewRows([]string{"avatar"}).AddRow(nil))

		_, err := repo.GetAvatar(ctx, 1)
		if !errors.Is(err, ErrAvatarNotFound) {
			t.Fatalf("expected ErrAvatarNotFound, got %v", err)
		}
	})

	t.Run("unknown user", func(t *testing.T) {
		mock.ExpectQuery("SELECT avatar").
			WithArgs(int64(999)).
			WillReturnError(sql.ErrNoRows)

		_, err := repo.GetAvatar(ctx, 999)
		if !errors.Is(err, ErrUserNotFound) {
			t.Fatalf("expected ErrUserNotFound, got %v", err)
		}
	})
}

func TestSaveAvatar_UnknownUser(t *testing.T) {
	repo, mock, db := newTestUserRepo(t)
	defer db.Close()

	mock.ExpectExec("UPDATE users SET avatar").
		WithArgs(sqlmock.AnyArg(), int64(999)).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.SaveAvatar(context.Background(), 999, []byte("png"))
	if !errors.Is(err, ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
}

func TestDeleteUserCascade_Success(t *testing.T) {
	repo, mock, db := newTestUserRepo(t)
	defer db.Close()

	mock.ExpectBegin()
	mock.ExpectExec("DELETE FROM tasks").
		WithArgs(int64(1)).
		WillReturnResult(sqlmock.NewResult(0, 5))
	mock.ExpectExec("DELETE FROM user_tokens").
		WithArgs(int64(1)).
		WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectExec("DELETE FROM users").
		WithArgs(int64(1)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	if err := repo.DeleteUserCascade(context.Background(), 1); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestDeleteUserCascade_UnknownUser(t *testing.T) {
	repo, mock, db := newTestUserRepo(t)
	defer db.Close()

	mock.ExpectBegin()
	mock.ExpectExec("DELETE FROM tasks").
		WithArgs(int64(999)).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec("DELETE FROM user_tokens").
		WithArgs(int64(999)).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec("DELETE FROM users").
		WithArgs(int64(999)).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectRollback()

	err := repo.DeleteUserCascade(context.Background(), 999)
	if !errors.Is(err, ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
}

func TestDeleteUserCascade_TaskDeleteFails(t *testing.T) {
	repo, mock, db := newTestUserRepo(t)
	defer db.Close()

	// any failure mid-transaction must roll everything back
	mock.ExpectBegin()
	mock.ExpectExec("DELETE FROM tasks").
		WithArgs(int64(1)).
		WillReturnError(errors.New("disk on fire"))
	mock.ExpectRollback()

	err := repo.DeleteUserCascade(context.Background(), 1)
	if !errors.Is(err, ErrExecutingQuery) {
		t.Fatalf("expected ErrExecutingQuery, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}
