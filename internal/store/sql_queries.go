package store

import (
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/vlebedev/go-task-manager/models"
)

const (
	userColumns = "user_id, name, email, password, age, created_at"

	createUser = `INSERT INTO users (name, email, password, age)
    VALUES ($1, $2, $3, $4)
    RETURNING ` + userColumns + `;`

	findUserByEmail = `SELECT ` + userColumns + `
    FROM users
    WHERE email = $1;`

	findUserByID = `SELECT ` + userColumns + `
    FROM users
    WHERE user_id = $1;`

	findUserByIDAndToken = `SELECT u.user_id, u.name, u.email, u.password, u.age, u.created_at
    FROM users u
    JOIN user_tokens t ON t.user_id = u.user_id
    WHERE u.user_id = $1 AND t.token = $2;`

	insertToken = `INSERT INTO user_tokens (user_id, token)
    VALUES ($1, $2);`

	deleteToken = `DELETE FROM user_tokens
    WHERE user_id = $1 AND token = $2;`

	deleteTokensByUser = `DELETE FROM user_tokens
    WHERE user_id = $1;`

	listTokens = `SELECT token
    FROM user_tokens
    WHERE user_id = $1
    ORDER BY created_at;`

	// placeholders stay in occurrence order: SQLite numbers $N parameters
	// by first occurrence, so $2-before-$1 would swap the bindings there.
	saveAvatar = `UPDATE users SET avatar = $1 WHERE user_id = $2;`

	deleteAvatar = `UPDATE users SET avatar = NULL WHERE user_id = $1;`

	getAvatar = `SELECT avatar FROM users WHERE user_id = $1;`

	deleteTasksByOwner = `DELETE FROM tasks WHERE owner_id = $1;`

	deleteUser = `DELETE FROM users WHERE user_id = $1;`

	taskColumns = "task_id, title, completed, owner_id, created_at"

	createTask = `INSERT INTO tasks (title, completed, owner_id)
    VALUES ($1, $2, $3)
    RETURNING ` + taskColumns + `;`

	findTaskByID = `SELECT ` + taskColumns + `
    FROM tasks
    WHERE task_id = $1 AND owner_id = $2;`

	deleteTask = `DELETE FROM tasks
    WHERE task_id = $1 AND owner_id = $2
    RETURNING ` + taskColumns + `;`

	countTasksByOwner = `SELECT COUNT(*) FROM tasks WHERE owner_id = $1;`
)

// psql builds queries with $N placeholders for the dynamic statements that
// cannot be expressed as constants.
var psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

// buildUpdateUserQuery builds the dynamic UPDATE applied by profile patches.
// The fields map is expected to be pre-filtered to the allow-listed columns.
func buildUpdateUserQuery(userID int64, fields map[string]any) (string, []any, error) {
	if len(fields) == 0 {
		return "", nil, ErrNothingToUpdate
	}

	query, args, err := psql.Update("users").
		SetMap(fields).
		Where(sq.Eq{"user_id": userID}).
		Suffix("RETURNING " + userColumns).
		ToSql()
	if err != nil {
		return "", nil, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	return query, args, nil
}

// buildUpdateTaskQuery builds the dynamic UPDATE applied by task patches,
// scoped by both task id and owner id.
func buildUpdateTaskQuery(ownerID, taskID int64, fields map[string]any) (string, []any, error) {
	if len(fields) == 0 {
		return "", nil, ErrNothingToUpdate
	}

	query, args, err := psql.Update("tasks").
		SetMap(fields).
		Where(sq.Eq{"task_id": taskID, "owner_id": ownerID}).
		Suffix("RETURNING " + taskColumns).
		ToSql()
	if err != nil {
		return "", nil, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	return query, args, nil
}

// buildListTasksQuery builds the filtered SELECT behind GET /tasks.
func buildListTasksQuery(ownerID int64, filter models.TaskFilter) (string, []any, error) {
	builder := psql.Select(taskColumns).
		From("tasks").
		Where(sq.Eq{"owner_id": ownerID})

	if filter.Completed != nil {
		builder = builder.Where(sq.Eq{"completed": *filter.Completed})
	}

	if filter.SortDesc {
		builder = builder.OrderBy("created_at DESC")
	} else {
		builder = builder.OrderBy("created_at ASC")
	}

	if filter.Limit > 0 {
		builder = builder.Limit(uint64(filter.Limit))
	}
	if filter.Skip > 0 {
		builder = builder.Offset(uint64(filter.Skip))
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return "", nil, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	return query, args, nil
}
