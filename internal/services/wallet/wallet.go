// Package wallet implements the ledgered balance operations: every
// mutation and the entry recording it commit in one database
// transaction or not at all.
package wallet

import (
	"bytes"
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/minicart/minicart/internal/infra/pgutils"
	"github.com/minicart/minicart/internal/repos/ledger"
	pgledger "github.com/minicart/minicart/internal/repos/ledger/postgres"
	"github.com/minicart/minicart/internal/repos/users"
	pgusers "github.com/minicart/minicart/internal/repos/users/postgres"
)

var (
	ErrInvalidAmount = errors.New("amount must be positive")
	ErrSelfTransfer  = errors.New("cannot transfer to yourself")
)

type Service struct {
	db     *sql.DB
	users  users.Users
	ledger ledger.Ledger
}

func New(db *sql.DB) *Service {
	return &Service{
		db:     db,
		users:  pgusers.New(db),
		ledger: pgledger.New(db),
	}
}

// TopUp credits the account and appends a top_up entry.
func (s *Service) TopUp(ctx context.Context, userID uuid.UUID, amount decimal.Decimal) (*users.User, *ledger.Entry, error) {
	if !amount.IsPositive() {
		return nil, nil, ErrInvalidAmount
	}

	var (
		u *users.User
		e *ledger.Entry
	)

	err := pgutils.WithTx(ctx, s.db, func(tx *sql.Tx) error {
		locked, err := s.users.LockForUpdate(tx, userID)
		if err != nil {
			return fmt.Errorf("lock user: %w", err)
		}

		err = s.users.IncreaseBalance(tx, userID, amount)
		if err != nil {
			return fmt.Errorf("increase balance: %w", err)
		}

		e = &ledger.Entry{
			ID:     uuid.New(),
			UserID: userID,
			Amount: amount,
			Kind:   ledger.KindTopUp,
		}

		err = s.ledger.Insert(tx, e)
		if err != nil {
			return fmt.Errorf("record entry: %w", err)
		}

		locked.Balance = locked.Balance.Add(amount)
		u = locked

		return nil
	})
	if err != nil {
		return nil, nil, fmt.Errorf("top up: %w", err)
	}

	return u, e, nil
}

// Spend debits the account and appends a spend entry. The balance is
// checked under the row lock, so two concurrent spends of the same
// funds resolve to exactly one success.
func (s *Service) Spend(ctx context.Context, userID uuid.UUID, amount decimal.Decimal) (*users.User, *ledger.Entry, error) {
	if !amount.IsPositive() {
		return nil, nil, ErrInvalidAmount
	}

	var (
		u *users.User
		e *ledger.Entry
	)

	err := pgutils.WithTx(ctx, s.db, func(tx *sql.Tx) error {
		locked, err := s.users.LockForUpdate(tx, userID)
		if err != nil {
			return fmt.Errorf("lock user: %w", err)
		}

		if locked.Balance.LessThan(amount) {
			return fmt.Errorf("pre-check spend: %w", users.ErrInsufficientFunds)
		}

		err = s.users.DecreaseBalance(tx, userID, amount)
		if err != nil {
			return fmt.Errorf("decrease balance: %w", err)
		}

		e = &ledger.Entry{
			ID:     uuid.New(),
			UserID: userID,
			Amount: amount.Neg(),
			Kind:   ledger.KindSpend,
		}

		err = s.ledger.Insert(tx, e)
		if err != nil {
			return fmt.Errorf("record entry: %w", err)
		}

		locked.Balance = locked.Balance.Sub(amount)
		u = locked

		return nil
	})
	if err != nil {
		return nil, nil, fmt.Errorf("spend: %w", err)
	}

	return u, e, nil
}

// Transfer moves amount from sender to the account owning
// recipientUsername. Both balance updates and both ledger entries
// commit atomically. Rows are locked lowest id first so that opposite
// transfers between the same pair cannot deadlock.
func (s *Service) Transfer(ctx context.Context, senderID uuid.UUID, recipientUsername string, amount decimal.Decimal) (*users.User, *users.User, *ledger.Entry, error) {
	if !amount.IsPositive() {
		return nil, nil, nil, ErrInvalidAmount
	}

	resolved, err := s.users.GetByUsername(ctx, recipientUsername)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("resolve recipient: %w", err)
	}

	if resolved.ID == senderID {
		return nil, nil, nil, ErrSelfTransfer
	}

	var (
		sender    *users.User
		recipient *users.User
		out       *ledger.Entry
	)

	err = pgutils.WithTx(ctx, s.db, func(tx *sql.Tx) error {
		first, second := senderID, resolved.ID
		if bytes.Compare(second[:], first[:]) < 0 {
			first, second = second, first
		}

		a, err := s.users.LockForUpdate(tx, first)
		if err != nil {
			return fmt.Errorf("lock first account: %w", err)
		}

		b, err := s.users.LockForUpdate(tx, second)
		if err != nil {
			return fmt.Errorf("lock second account: %w", err)
		}

		sender, recipient = a, b
		if sender.ID != senderID {
			sender, recipient = b, a
		}

		if sender.Balance.LessThan(amount) {
			return fmt.Errorf("pre-check transfer: %w", users.ErrInsufficientFunds)
		}

		err = s.users.DecreaseBalance(tx, sender.ID, amount)
		if err != nil {
			return fmt.Errorf("debit sender: %w", err)
		}

		err = s.users.IncreaseBalance(tx, recipient.ID, amount)
		if err != nil {
			return fmt.Errorf("credit recipient: %w", err)
		}

		out = &ledger.Entry{
			ID:     uuid.New(),
			UserID: sender.ID,
			Amount: amount.Neg(),
			Kind:   ledger.KindTransferOut,
		}

		err = s.ledger.Insert(tx, out)
		if err != nil {
			return fmt.Errorf("record transfer_out: %w", err)
		}

		in := &ledger.Entry{
			ID:     uuid.New(),
			UserID: recipient.ID,
			Amount: amount,
			Kind:   ledger.KindTransferIn,
		}

		err = s.ledger.Insert(tx, in)
		if err != nil {
			return fmt.Errorf("record transfer_in: %w", err)
		}

		sender.Balance = sender.Balance.Sub(amount)
		recipient.Balance = recipient.Balance.Add(amount)

		return nil
	})
	if err != nil {
		return nil, nil, nil, fmt.Errorf("transfer: %w", err)
	}

	return sender, recipient, out, nil
}

// Balance reads the current balance without locks.
func (s *Service) Balance(ctx context.Context, userID uuid.UUID) (decimal.Decimal, error) {
	u, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return decimal.Decimal{}, fmt.Errorf("get balance: %w", err)
	}

	return u.Balance, nil
}

// Entries lists the account's ledger in insertion order.
func (s *Service) Entries(ctx context.Context, userID uuid.UUID) ([]ledger.Entry, error) {
	entries, err := s.ledger.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list entries: %w", err)
	}

	return entries, nil
}
