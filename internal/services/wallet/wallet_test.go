package wallet

import (
	"context"
	"database/sql"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/minicart/minicart/internal/infra/pgtestutil"
	"github.com/minicart/minicart/internal/repos/ledger"
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

func balanceOf(t *testing.T, db *sql.DB, id uuid.UUID) decimal.Decimal {
	t.Helper()

	ctx, cancel := testCtx(t)
	defer cancel()

	u, err := pgusers.New(db).GetByID(ctx, id)
	require.NoError(t, err)

	return u.Balance
}

func TestTopUpThenSpendReturnsToOriginal(t *testing.T) {
	t.Parallel()

	db, cleanup := pgtestutil.NewTestDB(t)
	defer cleanup()

	svc := New(db)
	u := seedUser(t, db, "alice", "1000")

	ctx, cancel := testCtx(t)
	defer cancel()

	amount := decimal.RequireFromString("500")

	updated, entry, err := svc.TopUp(ctx, u.ID, amount)
	require.NoError(t, err)
	assert.True(t, updated.Balance.Equal(decimal.RequireFromString("1500")), "got %s", updated.Balance)
	assert.Equal(t, ledger.KindTopUp, entry.Kind)
	assert.True(t, entry.Amount.Equal(amount))

	updated, entry, err = svc.Spend(ctx, u.ID, amount)
	require.NoError(t, err)
	assert.True(t, updated.Balance.Equal(decimal.RequireFromString("1000")), "got %s", updated.Balance)
	assert.Equal(t, ledger.KindSpend, entry.Kind)
	assert.True(t, entry.Amount.Equal(amount.Neg()))

	entries, err := svc.Entries(ctx, u.ID)
	require.NoError(t, err)
	require.Len(t, entries, 2)

	sum := entries[0].Amount.Add(entries[1].Amount)
	assert.True(t, sum.IsZero(), "entries sum to %s", sum)
}

func TestSpendInsufficientFundsLeavesNoTrace(t *testing.T) {
	t.Parallel()

	db, cleanup := pgtestutil.NewTestDB(t)
	defer cleanup()

	svc := New(db)
	u := seedUser(t, db, "alice", "100")

	ctx, cancel := testCtx(t)
	defer cancel()

	_, _, err := svc.Spend(ctx, u.ID, decimal.RequireFromString("200"))
	require.ErrorIs(t, err, users.ErrInsufficientFunds)

	assert.True(t, balanceOf(t, db, u.ID).Equal(decimal.RequireFromString("100")))

	entries, err := svc.Entries(ctx, u.ID)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestAmountMustBePositive(t *testing.T) {
	t.Parallel()

	db, cleanup := pgtestutil.NewTestDB(t)
	defer cleanup()

	svc := New(db)
	u := seedUser(t, db, "alice", "100")

	ctx, cancel := testCtx(t)
	defer cancel()

	for _, raw := range []string{"0", "-5"} {
		amount := decimal.RequireFromString(raw)

		_, _, err := svc.TopUp(ctx, u.ID, amount)
		assert.ErrorIs(t, err, ErrInvalidAmount)

		_, _, err = svc.Spend(ctx, u.ID, amount)
		assert.ErrorIs(t, err, ErrInvalidAmount)

		_, _, _, err = svc.Transfer(ctx, u.ID, "whoever", amount)
		assert.ErrorIs(t, err, ErrInvalidAmount)
	}
}

func TestTransferMovesMoneyAndConservesTotal(t *testing.T) {
	t.Parallel()

	db, cleanup := pgtestutil.NewTestDB(t)
	defer cleanup()

	svc := New(db)
	a := seedUser(t, db, "alice", "1000")
	b := seedUser(t, db, "bob", "500")

	ctx, cancel := testCtx(t)
	defer cancel()

	sender, recipient, entry, err := svc.Transfer(ctx, a.ID, "bob", decimal.RequireFromString("300"))
	require.NoError(t, err)

	assert.True(t, sender.Balance.Equal(decimal.RequireFromString("700")), "sender %s", sender.Balance)
	assert.True(t, recipient.Balance.Equal(decimal.RequireFromString("800")), "recipient %s", recipient.Balance)

	assert.Equal(t, ledger.KindTransferOut, entry.Kind)
	assert.Equal(t, a.ID, entry.UserID)
	assert.True(t, entry.Amount.Equal(decimal.RequireFromString("-300")))

	aEntries, err := svc.Entries(ctx, a.ID)
	require.NoError(t, err)
	require.Len(t, aEntries, 1)
	assert.Equal(t, ledger.KindTransferOut, aEntries[0].Kind)

	bEntries, err := svc.Entries(ctx, b.ID)
	require.NoError(t, err)
	require.Len(t, bEntries, 1)
	assert.Equal(t, ledger.KindTransferIn, bEntries[0].Kind)
	assert.True(t, bEntries[0].Amount.Equal(decimal.RequireFromString("300")))

	total := balanceOf(t, db, a.ID).Add(balanceOf(t, db, b.ID))
	assert.True(t, total.Equal(decimal.RequireFromString("1500")), "total %s", total)
}

func TestTransferToSelfRejected(t *testing.T) {
	t.Parallel()

	db, cleanup := pgtestutil.NewTestDB(t)
	defer cleanup()

	svc := New(db)
	a := seedUser(t, db, "alice", "1000")

	ctx, cancel := testCtx(t)
	defer cancel()

	_, _, _, err := svc.Transfer(ctx, a.ID, "alice", decimal.RequireFromString("100"))
	require.ErrorIs(t, err, ErrSelfTransfer)

	assert.True(t, balanceOf(t, db, a.ID).Equal(decimal.RequireFromString("1000")))

	entries, err := svc.Entries(ctx, a.ID)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestTransferUnknownRecipient(t *testing.T) {
	t.Parallel()

	db, cleanup := pgtestutil.NewTestDB(t)
	defer cleanup()

	svc := New(db)
	a := seedUser(t, db, "alice", "1000")

	ctx, cancel := testCtx(t)
	defer cancel()

	_, _, _, err := svc.Transfer(ctx, a.ID, "nobody", decimal.RequireFromString("100"))
	require.ErrorIs(t, err, users.ErrUserNotFound)
}

func TestTransferInsufficientFundsMutatesNothing(t *testing.T) {
	t.Parallel()

	db, cleanup := pgtestutil.NewTestDB(t)
	defer cleanup()

	svc := New(db)
	a := seedUser(t, db, "alice", "100")
	b := seedUser(t, db, "bob", "500")

	ctx, cancel := testCtx(t)
	defer cancel()

	_, _, _, err := svc.Transfer(ctx, a.ID, "bob", decimal.RequireFromString("300"))
	require.ErrorIs(t, err, users.ErrInsufficientFunds)

	assert.True(t, balanceOf(t, db, a.ID).Equal(decimal.RequireFromString("100")))
	assert.True(t, balanceOf(t, db, b.ID).Equal(decimal.RequireFromString("500")))

	for _, id := range []uuid.UUID{a.ID, b.ID} {
		entries, err := svc.Entries(ctx, id)
		require.NoError(t, err)
		assert.Empty(t, entries)
	}
}

// Two debits racing for the same funds: exactly one wins.
func TestConcurrentSpendExactlyOneSucceeds(t *testing.T) {
	t.Parallel()

	db, cleanup := pgtestutil.NewTestDB(t)
	defer cleanup()

	svc := New(db)
	u := seedUser(t, db, "alice", "100")

	ctx, cancel := testCtx(t)
	defer cancel()

	amount := decimal.RequireFromString("100")
	results := make([]error, 2)

	var wg sync.WaitGroup

	for i := range results {
		wg.Add(1)

		go func(i int) {
			defer wg.Done()

			_, _, results[i] = svc.Spend(ctx, u.ID, amount)
		}(i)
	}

	wg.Wait()

	var ok, insufficient int

	for _, err := range results {
		switch {
		case err == nil:
			ok++
		case errors.Is(err, users.ErrInsufficientFunds):
			insufficient++
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}

	assert.Equal(t, 1, ok, "exactly one spend must succeed")
	assert.Equal(t, 1, insufficient)
	assert.True(t, balanceOf(t, db, u.ID).IsZero())

	entries, err := svc.Entries(ctx, u.ID)
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

// Opposite transfers between the same pair must not deadlock; the lock
// order is by id, not by role.
func TestOppositeTransfersDoNotDeadlock(t *testing.T) {
	t.Parallel()

	db, cleanup := pgtestutil.NewTestDB(t)
	defer cleanup()

	svc := New(db)
	a := seedUser(t, db, "alice", "1000")
	b := seedUser(t, db, "bob", "1000")

	ctx, cancel := testCtx(t)
	defer cancel()

	amount := decimal.RequireFromString("100")

	var wg sync.WaitGroup

	errs := make([]error, 2)

	wg.Add(2)

	go func() {
		defer wg.Done()

		_, _, _, errs[0] = svc.Transfer(ctx, a.ID, "bob", amount)
	}()

	go func() {
		defer wg.Done()

		_, _, _, errs[1] = svc.Transfer(ctx, b.ID, "alice", amount)
	}()

	wg.Wait()

	require.NoError(t, errs[0])
	require.NoError(t, errs[1])

	assert.True(t, balanceOf(t, db, a.ID).Equal(decimal.RequireFromString("1000")))
	assert.True(t, balanceOf(t, db, b.ID).Equal(decimal.RequireFromString("1000")))
}
