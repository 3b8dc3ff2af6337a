package dbhelper

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/ray-remotestate/restroadmin/models"
)

const userColumns = `id, name, email, role, created_at, updated_at`

func scanUser(row rowScanner) (*models.User, error) {
	var u models.User
	if err := row.Scan(&u.ID, &u.Name, &u.Email, &u.Role, &u.CreatedAt, &u.UpdatedAt); err != nil {
		return nil, err
	}
	return &u, nil
}

// CreateUser stores a staff user. hashedPassword must already be hashed.
func CreateUser(ctx context.Context, q Querier, name, email, hashedPassword string, role models.Role) (*models.User, error) {
	row := q.QueryRowContext(ctx, `
		INSERT INTO users (name, email, password, role)
		VALUES ($1, $2, $3, $4)
		RETURNING `+userColumns, name, email, hashedPassword, role)
	u, err := scanUser(row)
	if err != nil {
		return nil, classify("user", err)
	}
	return u, nil
}

func IsUserExists(ctx context.Context, q Querier, email string) (bool, error) {
	var exists bool
	err := q.QueryRowContext(ctx, `SELECT EXISTS (SELECT 1 FROM users WHERE LOWER(email) = LOWER($1))`, email).Scan(&exists)
	if err != nil {
		return false, classify("user", err)
	}
	return exists, nil
}

func GetUser(ctx context.Context, q Querier, id uuid.UUID) (*models.User, error) {
	u, err := scanUser(q.QueryRowContext(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id))
	if err != nil {
		return nil, classify("user", err)
	}
	return u, nil
}

func ListUsers(ctx context.Context, q Querier, role models.Role) ([]models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users`
	var args []any
	if role != "" {
		query += ` WHERE role = $1`
		args = append(args, role)
	}
	query += ` ORDER BY created_at DESC`

	rows, err := q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, classify("user", err)
	}
	defer rows.Close()

	users := make([]models.User, 0)
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, classify("user", err)
		}
		users = append(users, *u)
	}
	if err := rows.Err(); err != nil {
		return nil, classify("user", err)
	}
	return users, nil
}

// UpdateUser applies the set fields. hashedPassword replaces the stored hash when non-empty.
func UpdateUser(ctx context.Context, q Querier, id uuid.UUID, in models.UserInput, hashedPassword string) (*models.User, error) {
	var (
		sets []string
		args []any
	)
	set := func(column string, value any) {
		args = append(args, value)
		sets = append(sets, fmt.Sprintf("%s = $%d", column, len(args)))
	}
	if in.Name != nil {
		set("name", *in.Name)
	}
	if in.Email != nil {
		set("email", *in.Email)
	}
	if hashedPassword != "" {
		set("password", hashedPassword)
	}
	if in.Role != nil {
		set("role", *in.Role)
	}
	sets = append(sets, "updated_at = NOW()")
	args = append(args, id)

	row := q.QueryRowContext(ctx, fmt.Sprintf(`UPDATE users SET %s WHERE id = $%d RETURNING `+userColumns,
		strings.Join(sets, ", "), len(args)), args...)
	u, err := scanUser(row)
	if err != nil {
		return nil, classify("user", err)
	}
	return u, nil
}

func DeleteUser(ctx context.Context, q Querier, id uuid.UUID) error {
	return deleteByID(ctx, q, "users", "user", id)
}

// deleteByID deletes one row and reports NotFound when nothing was removed.
func deleteByID(ctx context.Context, q Querier, table, entity string, id uuid.UUID) error {
	res, err := q.ExecContext(ctx, `DELETE FROM `+table+` WHERE id = $1`, id)
	if err != nil {
		return classify(entity, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return classify(entity, err)
	}
	if n == 0 {
		return models.NewError(models.KindNotFound, entity+" not found")
	}
	return nil
}
