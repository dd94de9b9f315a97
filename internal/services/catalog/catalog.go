// Package catalog implements item management and the atomic purchase
// flow (balance debit + stock decrement + ledger entry).
package catalog

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/minicart/minicart/internal/infra/pgutils"
	"github.com/minicart/minicart/internal/repos/items"
	pgitems "github.com/minicart/minicart/internal/repos/items/postgres"
	"github.com/minicart/minicart/internal/repos/ledger"
	pgledger "github.com/minicart/minicart/internal/repos/ledger/postgres"
	"github.com/minicart/minicart/internal/repos/users"
	pgusers "github.com/minicart/minicart/internal/repos/users/postgres"
)

var (
	ErrInvalidPrice = errors.New("price must not be negative")
	ErrInvalidStock = errors.New("stock must not be negative")
)

type Service struct {
	db     *sql.DB
	users  users.Users
	items  items.Items
	ledger ledger.Ledger
}

func New(db *sql.DB) *Service {
	return &Service{
		db:     db,
		users:  pgusers.New(db),
		items:  pgitems.New(db),
		ledger: pgledger.New(db),
	}
}

// Purchase debits the buyer by the item price, takes one unit of stock
// and appends a purchase entry referencing the item, all in one unit of
// work. Purchases always lock the user row before the item row.
func (s *Service) Purchase(ctx context.Context, userID, itemID uuid.UUID) (*users.User, *items.Item, *ledger.Entry, error) {
	var (
		u  *users.User
		it *items.Item
		e  *ledger.Entry
	)

	err := pgutils.WithTx(ctx, s.db, func(tx *sql.Tx) error {
		locked, err := s.users.LockForUpdate(tx, userID)
		if err != nil {
			return fmt.Errorf("lock user: %w", err)
		}

		item, err := s.items.LockForUpdate(tx, itemID)
		if err != nil {
			return fmt.Errorf("lock item: %w", err)
		}

		if locked.Balance.LessThan(item.Price) {
			return fmt.Errorf("pre-check purchase: %w", users.ErrInsufficientFunds)
		}

		if item.Stock <= 0 {
			return fmt.Errorf("pre-check purchase: %w", items.ErrOutOfStock)
		}

		err = s.users.DecreaseBalance(tx, userID, item.Price)
		if err != nil {
			return fmt.Errorf("debit buyer: %w", err)
		}

		err = s.items.DecrementStock(tx, itemID)
		if err != nil {
			return fmt.Errorf("decrement stock: %w", err)
		}

		e = &ledger.Entry{
			ID:     uuid.New(),
			UserID: userID,
			ItemID: uuid.NullUUID{UUID: itemID, Valid: true},
			Amount: item.Price.Neg(),
			Kind:   ledger.KindPurchase,
		}

		err = s.ledger.Insert(tx, e)
		if err != nil {
			return fmt.Errorf("record entry: %w", err)
		}

		locked.Balance = locked.Balance.Sub(item.Price)
		item.Stock--

		u, it = locked, item

		return nil
	})
	if err != nil {
		return nil, nil, nil, fmt.Errorf("purchase: %w", err)
	}

	return u, it, e, nil
}

// AddItem creates a catalog item with no sales history.
func (s *Service) AddItem(ctx context.Context, name string, price decimal.Decimal, stock int64) (*items.Item, error) {
	if price.IsNegative() {
		return nil, ErrInvalidPrice
	}

	if stock < 0 {
		return nil, ErrInvalidStock
	}

	it := &items.Item{
		ID:    uuid.New(),
		Name:  name,
		Price: price,
		Stock: stock,
	}

	err := s.items.Create(ctx, it)
	if err != nil {
		return nil, fmt.Errorf("add item: %w", err)
	}

	return it, nil
}

// SetStock overwrites the stock count.
func (s *Service) SetStock(ctx context.Context, itemID uuid.UUID, stock int64) (*items.Item, error) {
	if stock < 0 {
		return nil, ErrInvalidStock
	}

	err := s.items.SetStock(ctx, itemID, stock)
	if err != nil {
		return nil, fmt.Errorf("set stock: %w", err)
	}

	it, err := s.items.GetByID(ctx, itemID)
	if err != nil {
		return nil, fmt.Errorf("reload item: %w", err)
	}

	return it, nil
}

func (s *Service) Item(ctx context.Context, itemID uuid.UUID) (*items.Item, error) {
	it, err := s.items.GetByID(ctx, itemID)
	if err != nil {
		return nil, fmt.Errorf("get item: %w", err)
	}

	return it, nil
}

func (s *Service) Items(ctx context.Context) ([]items.Item, error) {
	list, err := s.items.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list items: %w", err)
	}

	return list, nil
}
