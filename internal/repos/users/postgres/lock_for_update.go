package users

import (
	"database/sql"

	"github.com/google/uuid"

	"github.com/minicart/minicart/internal/repos/users"
)

func (r *usersRepo) LockForUpdate(tx *sql.Tx, id uuid.UUID) (*users.User, error) {
	return scanUser(tx.QueryRow(`
		SELECT `+userColumns+`
		FROM users
		WHERE id = $1
		FOR UPDATE
	`, id))
}
