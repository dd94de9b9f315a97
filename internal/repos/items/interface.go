package items

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var (
	ErrItemNotFound = errors.New("item not found")
	ErrOutOfStock   = errors.New("item out of stock")
)

type Item struct {
	ID      uuid.UUID
	Name    string
	Price   decimal.Decimal
	Stock   int64
	OwnerID uuid.NullUUID
}

type Items interface {
	Create(ctx context.Context, it *Item) error
	GetByID(ctx context.Context, id uuid.UUID) (*Item, error)
	List(ctx context.Context) ([]Item, error)

	LockForUpdate(tx *sql.Tx, id uuid.UUID) (*Item, error)
	// DecrementStock takes one unit off the shelf; refuses at zero.
	DecrementStock(tx *sql.Tx, id uuid.UUID) error
	// SetStock is an administrative correction, not a sale: no ledger entry.
	SetStock(ctx context.Context, id uuid.UUID, stock int64) error
}
