package ledger

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"github.com/minicart/minicart/internal/repos/ledger"
)

var _ ledger.Ledger = (*ledgerRepo)(nil)

type ledgerRepo struct{ db *sql.DB }

func New(db *sql.DB) *ledgerRepo {
	return &ledgerRepo{db: db}
}

func (r *ledgerRepo) Insert(tx *sql.Tx, e *ledger.Entry) error {
	err := tx.QueryRow(`
		INSERT INTO transactions (id, user_id, item_id, amount, kind)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING seq, created_at
	`, e.ID, e.UserID, e.ItemID, e.Amount, string(e.Kind)).Scan(&e.Seq, &e.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert ledger entry: %w", err)
	}

	return nil
}

func (r *ledgerRepo) ListByUser(ctx context.Context, userID uuid.UUID) ([]ledger.Entry, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, seq, user_id, item_id, amount, kind, created_at
		FROM transactions
		WHERE user_id = $1
		ORDER BY seq
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("list ledger entries: %w", err)
	}
	defer rows.Close()

	out := []ledger.Entry{}

	for rows.Next() {
		var (
			e    ledger.Entry
			kind string
		)

		err = rows.Scan(&e.ID, &e.Seq, &e.UserID, &e.ItemID, &e.Amount, &kind, &e.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("scan ledger entry: %w", err)
		}

		e.Kind = ledger.Kind(kind)

		out = append(out, e)
	}

	err = rows.Err()
	if err != nil {
		return nil, fmt.Errorf("iterate ledger entries: %w", err)
	}

	return out, nil
}
