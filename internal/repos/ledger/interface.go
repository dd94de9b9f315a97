package ledger

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Kind classifies a ledger entry. Debits carry negative amounts,
// credits positive ones.
type Kind string

const (
	KindTopUp       Kind = "top_up"
	KindSpend       Kind = "spend"
	KindTransferOut Kind = "transfer_out"
	KindTransferIn  Kind = "transfer_in"
	KindPurchase    Kind = "purchase"
)

// Entry is immutable once written. Seq is assigned by the database and
// gives a stable insertion order across the whole ledger.
type Entry struct {
	ID        uuid.UUID
	Seq       int64
	UserID    uuid.UUID
	ItemID    uuid.NullUUID
	Amount    decimal.Decimal
	Kind      Kind
	CreatedAt time.Time
}

type Ledger interface {
	// Insert appends an entry within the caller's transaction and fills
	// Seq and CreatedAt. It is only ever called from inside the unit of
	// work of the balance mutation it records.
	Insert(tx *sql.Tx, e *Entry) error
	ListByUser(ctx context.Context, userID uuid.UUID) ([]Entry, error)
}
