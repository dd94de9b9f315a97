// Package accounts covers registration, login and user lookup.
package accounts

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/minicart/minicart/internal/auth"
	"github.com/minicart/minicart/internal/repos/users"
	pgusers "github.com/minicart/minicart/internal/repos/users/postgres"
)

var ErrInvalidCredentials = errors.New("invalid username or password")

type Service struct {
	users           users.Users
	tokens          *auth.Tokens
	startingBalance decimal.Decimal
}

func New(db *sql.DB, tokens *auth.Tokens, startingBalance decimal.Decimal) *Service {
	return &Service{
		users:           pgusers.New(db),
		tokens:          tokens,
		startingBalance: startingBalance,
	}
}

// Register creates an account with the configured starting balance.
func (s *Service) Register(ctx context.Context, username, password string, admin bool) (*users.User, error) {
	hash, err := auth.HashPassword(password)
	if err != nil {
		return nil, fmt.Errorf("register: %w", err)
	}

	u := &users.User{
		ID:           uuid.New(),
		Username:     username,
		PasswordHash: hash,
		Balance:      s.startingBalance,
		IsAdmin:      admin,
	}

	err = s.users.Create(ctx, u)
	if err != nil {
		return nil, fmt.Errorf("register: %w", err)
	}

	slog.Info("user registered", "user_id", u.ID, "username", u.Username, "is_admin", u.IsAdmin)

	return u, nil
}

// Login verifies credentials and issues a bearer token. Unknown
// usernames and wrong passwords are indistinguishable to the caller.
func (s *Service) Login(ctx context.Context, username, password string) (string, *users.User, error) {
	u, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, users.ErrUserNotFound) {
			return "", nil, ErrInvalidCredentials
		}

		return "", nil, fmt.Errorf("login: %w", err)
	}

	if !auth.CheckPassword(password, u.PasswordHash) {
		return "", nil, ErrInvalidCredentials
	}

	token, err := s.tokens.Issue(u.ID, u.Username)
	if err != nil {
		return "", nil, fmt.Errorf("login: %w", err)
	}

	return token, u, nil
}

func (s *Service) ByID(ctx context.Context, id uuid.UUID) (*users.User, error) {
	u, err := s.users.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get user: %w", err)
	}

	return u, nil
}
