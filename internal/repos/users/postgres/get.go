package users

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/minicart/minicart/internal/repos/users"
)

const userColumns = `id, username, password_hash, balance, is_admin, created_at`

func scanUser(row *sql.Row) (*users.User, error) {
	var u users.User

	err := row.Scan(&u.ID, &u.Username, &u.PasswordHash, &u.Balance, &u.IsAdmin, &u.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, users.ErrUserNotFound
		}

		return nil, fmt.Errorf("scan user: %w", err)
	}

	return &u, nil
}

func (r *usersRepo) GetByID(ctx context.Context, id uuid.UUID) (*users.User, error) {
	return scanUser(r.db.QueryRowContext(ctx, `
		SELECT `+userColumns+`
		FROM users
		WHERE id = $1
	`, id))
}

func (r *usersRepo) GetByUsername(ctx context.Context, username string) (*users.User, error) {
	return scanUser(r.db.QueryRowContext(ctx, `
		SELECT `+userColumns+`
		FROM users
		WHERE username = $1
	`, username))
}
