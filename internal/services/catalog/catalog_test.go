package catalog

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/minicart/minicart/internal/infra/pgtestutil"
	"github.com/minicart/minicart/internal/repos/items"
	"github.com/minicart/minicart/internal/repos/ledger"
	pgledger "github.com/minicart/minicart/internal/repos/ledger/postgres"
	"github.com/minicart/minicart/internal/repos/users"
	pgusers "github.com/minicart/minicart/internal/repos/users/postgres"
)

func testCtx(t *testing.T) (context.Context, context.CancelFunc) {
	t.Helper()
	return context.WithTimeout(context.Background(), 10*time.Second)
}

func seedUser(t *testing.T, db *sql.DB, username, balance string) *users.User {
	t.Helper()

	ctx, cancel := testCtx(t)
	defer cancel()

	u := &users.User{
		ID:           uuid.New(),
		Username:     username,
		PasswordHash: "x",
		Balance:      decimal.RequireFromString(balance),
	}

	require.NoError(t, pgusers.New(db).Create(ctx, u))

	return u
}

func TestPurchaseHappyPath(t *testing.T) {
	t.Parallel()

	db, cleanup := pgtestutil.NewTestDB(t)
	defer cleanup()

	svc := New(db)
	buyer := seedUser(t, db, "alice", "1000")

	ctx, cancel := testCtx(t)
	defer cancel()

	it, err := svc.AddItem(ctx, "Gadget", decimal.RequireFromString("250"), 3)
	require.NoError(t, err)

	u, got, entry, err := svc.Purchase(ctx, buyer.ID, it.ID)
	require.NoError(t, err)

	assert.True(t, u.Balance.Equal(decimal.RequireFromString("750")), "balance %s", u.Balance)
	assert.Equal(t, int64(2), got.Stock)

	assert.Equal(t, ledger.KindPurchase, entry.Kind)
	assert.True(t, entry.Amount.Equal(decimal.RequireFromString("-250")))
	require.True(t, entry.ItemID.Valid)
	assert.Equal(t, it.ID, entry.ItemID.UUID)

	entries, err := pgledger.New(db).ListByUser(ctx, buyer.ID)
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestPurchaseOutOfStockMutatesNothing(t *testing.T) {
	t.Parallel()

	db, cleanup := pgtestutil.NewTestDB(t)
	defer cleanup()

	svc := New(db)
	buyer := seedUser(t, db, "alice", "1000")

	ctx, cancel := testCtx(t)
	defer cancel()

	it, err := svc.AddItem(ctx, "Rare thing", decimal.RequireFromString("10"), 0)
	require.NoError(t, err)

	_, _, _, err = svc.Purchase(ctx, buyer.ID, it.ID)
	require.ErrorIs(t, err, items.ErrOutOfStock)

	reloaded, err := svc.Item(ctx, it.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(0), reloaded.Stock)

	u, err := pgusers.New(db).GetByID(ctx, buyer.ID)
	require.NoError(t, err)
	assert.True(t, u.Balance.Equal(decimal.RequireFromString("1000")))

	entries, err := pgledger.New(db).ListByUser(ctx, buyer.ID)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestPurchaseInsufficientFunds(t *testing.T) {
	t.Parallel()

	db, cleanup := pgtestutil.NewTestDB(t)
	defer cleanup()

	svc := New(db)
	buyer := seedUser(t, db, "alice", "100")

	ctx, cancel := testCtx(t)
	defer cancel()

	it, err := svc.AddItem(ctx, "Big ticket", decimal.RequireFromString("200000"), 1)
	require.NoError(t, err)

	_, _, _, err = svc.Purchase(ctx, buyer.ID, it.ID)
	require.ErrorIs(t, err, users.ErrInsufficientFunds)

	reloaded, err := svc.Item(ctx, it.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), reloaded.Stock)
}

func TestPurchaseUnknownReferences(t *testing.T) {
	t.Parallel()

	db, cleanup := pgtestutil.NewTestDB(t)
	defer cleanup()

	svc := New(db)
	buyer := seedUser(t, db, "alice", "1000")

	ctx, cancel := testCtx(t)
	defer cancel()

	_, _, _, err := svc.Purchase(ctx, buyer.ID, uuid.New())
	require.ErrorIs(t, err, items.ErrItemNotFound)

	it, err := svc.AddItem(ctx, "Gadget", decimal.RequireFromString("10"), 1)
	require.NoError(t, err)

	_, _, _, err = svc.Purchase(ctx, uuid.New(), it.ID)
	require.ErrorIs(t, err, users.ErrUserNotFound)
}

func TestAddItemValidation(t *testing.T) {
	t.Parallel()

	db, cleanup := pgtestutil.NewTestDB(t)
	defer cleanup()

	svc := New(db)

	ctx, cancel := testCtx(t)
	defer cancel()

	_, err := svc.AddItem(ctx, "Broken", decimal.RequireFromString("-1"), 1)
	require.ErrorIs(t, err, ErrInvalidPrice)

	_, err = svc.AddItem(ctx, "Broken", decimal.RequireFromString("1"), -1)
	require.ErrorIs(t, err, ErrInvalidStock)

	// free items are allowed
	it, err := svc.AddItem(ctx, "Freebie", decimal.Zero, 5)
	require.NoError(t, err)
	assert.True(t, it.Price.IsZero())
}

func TestSetStock(t *testing.T) {
	t.Parallel()

	db, cleanup := pgtestutil.NewTestDB(t)
	defer cleanup()

	svc := New(db)

	ctx, cancel := testCtx(t)
	defer cancel()

	it, err := svc.AddItem(ctx, "Gadget", decimal.RequireFromString("10"), 1)
	require.NoError(t, err)

	updated, err := svc.SetStock(ctx, it.ID, 99)
	require.NoError(t, err)
	assert.Equal(t, int64(99), updated.Stock)

	_, err = svc.SetStock(ctx, uuid.New(), 1)
	require.ErrorIs(t, err, items.ErrItemNotFound)

	_, err = svc.SetStock(ctx, it.ID, -1)
	require.ErrorIs(t, err, ErrInvalidStock)
}
