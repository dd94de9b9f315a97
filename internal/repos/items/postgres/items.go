package items

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/minicart/minicart/internal/repos/items"
)

var _ items.Items = (*itemsRepo)(nil)

type itemsRepo struct{ db *sql.DB }

func New(db *sql.DB) *itemsRepo {
	return &itemsRepo{db: db}
}

const itemColumns = `id, name, price, stock, owner_id`

func scanItem(row *sql.Row) (*items.Item, error) {
	var it items.Item

	err := row.Scan(&it.ID, &it.Name, &it.Price, &it.Stock, &it.OwnerID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, items.ErrItemNotFound
		}

		return nil, fmt.Errorf("scan item: %w", err)
	}

	return &it, nil
}

func (r *itemsRepo) Create(ctx context.Context, it *items.Item) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO items (id, name, price, stock, owner_id)
		VALUES ($1, $2, $3, $4, $5)
	`, it.ID, it.Name, it.Price, it.Stock, it.OwnerID)
	if err != nil {
		return fmt.Errorf("insert item: %w", err)
	}

	return nil
}

func (r *itemsRepo) GetByID(ctx context.Context, id uuid.UUID) (*items.Item, error) {
	return scanItem(r.db.QueryRowContext(ctx, `
		SELECT `+itemColumns+`
		FROM items
		WHERE id = $1
	`, id))
}

func (r *itemsRepo) List(ctx context.Context) ([]items.Item, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT `+itemColumns+`
		FROM items
		ORDER BY name, id
	`)
	if err != nil {
		return nil, fmt.Errorf("list items: %w", err)
	}
	defer rows.Close()

	out := []items.Item{}

	for rows.Next() {
		var it items.Item

		err = rows.Scan(&it.ID, &it.Name, &it.Price, &it.Stock, &it.OwnerID)
		if err != nil {
			return nil, fmt.Errorf("scan item: %w", err)
		}

		out = append(out, it)
	}

	err = rows.Err()
	if err != nil {
		return nil, fmt.Errorf("iterate items: %w", err)
	}

	return out, nil
}

func (r *itemsRepo) LockForUpdate(tx *sql.Tx, id uuid.UUID) (*items.Item, error) {
	return scanItem(tx.QueryRow(`
		SELECT `+itemColumns+`
		FROM items
		WHERE id = $1
		FOR UPDATE
	`, id))
}

func (r *itemsRepo) DecrementStock(tx *sql.Tx, id uuid.UUID) error {
	res, err := tx.Exec(`
		UPDATE items
		SET stock = stock - 1
		WHERE id = $1
		  AND stock > 0
	`, id)
	if err != nil {
		return fmt.Errorf("decrement stock: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}

	if affected == 0 {
		return items.ErrOutOfStock
	}

	return nil
}

func (r *itemsRepo) SetStock(ctx context.Context, id uuid.UUID, stock int64) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE items
		SET stock = $2
		WHERE id = $1
	`, id, stock)
	if err != nil {
		return fmt.Errorf("set stock: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}

	if affected == 0 {
		return items.ErrItemNotFound
	}

	return nil
}
