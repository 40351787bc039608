package store

import (
	"context"
	"strings"

	"github.com/vlebedev/go-task-manager/internal/config"
	"github.com/vlebedev/go-task-manager/internal/logger"
)

// Storages bundles all repositories sharing one database connection.
type Storages struct {
	UserRepository UserRepository
	TaskRepository TaskRepository
}

// NewStorages connects to the configured database backend, applies the
// embedded migrations, and wires the repositories.
//
// A "postgres://" (or "postgresql://") DSN selects PostgreSQL; any other
// value is treated as a SQLite file path for local development.
func NewStorages(ctx context.Context, cfg config.Storage, log *logger.Logger) (*Storages, error) {
	var db *DB
	var dialect string
	var err error

	if strings.HasPrefix(cfg.DB.DSN, "postgres://") || strings.HasPrefix(cfg.DB.DSN, "postgresql://") {
		db, err = NewConnectPostgres(ctx, cfg.DB, log)
		dialect = "pgx"
	} else {
		db, err = NewConnectSQLite(ctx, cfg.DB, log)
		dialect = "sqlite3"
	}
	if err != nil {
		return nil, err
	}

	if err := db.Migrate(dialect); err != nil {
		return nil, err
	}

	return &Storages{
		UserRepository: NewUserRepository(db, log),
		TaskRepository: NewTaskRepository(db, log),
	}, nil
}
