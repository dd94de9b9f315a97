package users

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var (
	ErrUserNotFound      = errors.New("user not found")
	ErrUsernameTaken     = errors.New("username already taken")
	ErrInsufficientFunds = errors.New("insufficient funds")
)

// User is a plain row image; relationships are resolved by id lookups,
// never embedded.
type User struct {
	ID           uuid.UUID
	Username     string
	PasswordHash string
	Balance      decimal.Decimal
	IsAdmin      bool
	CreatedAt    time.Time
}

type Users interface {
	Create(ctx context.Context, u *User) error
	GetByID(ctx context.Context, id uuid.UUID) (*User, error)
	GetByUsername(ctx context.Context, username string) (*User, error)

	// LockForUpdate reads the row under FOR UPDATE; callers must hold an
	// open transaction and commit or roll back on every exit path.
	LockForUpdate(tx *sql.Tx, id uuid.UUID) (*User, error)
	IncreaseBalance(tx *sql.Tx, id uuid.UUID, amount decimal.Decimal) error
	DecreaseBalance(tx *sql.Tx, id uuid.UUID, amount decimal.Decimal) error
}
