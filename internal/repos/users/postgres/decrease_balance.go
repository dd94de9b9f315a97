package users

import (
	"database/sql"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/minicart/minicart/internal/repos/users"
)

// DecreaseBalance applies a guarded decrement: the WHERE clause refuses
// to drive the balance negative even if the caller's pre-check raced.
func (r *usersRepo) DecreaseBalance(tx *sql.Tx, id uuid.UUID, amount decimal.Decimal) error {
	res, err := tx.Exec(`
		UPDATE users
		SET balance = balance - $2
		WHERE id = $1
		  AND balance >= $2
	`, id, amount)
	if err != nil {
		return fmt.Errorf("decrease balance: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}

	if affected == 0 {
		return users.ErrInsufficientFunds
	}

	return nil
}
