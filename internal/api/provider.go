package api

import (
	"context"
	"regexp"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/minicart/minicart/internal/auth"
	"github.com/minicart/minicart/internal/repos/items"
	"github.com/minicart/minicart/internal/repos/ledger"
	"github.com/minicart/minicart/internal/repos/users"
)

type accountsService interface {
	Register(ctx context.Context, username, password string, admin bool) (*users.User, error)
	Login(ctx context.Context, username, password string) (string, *users.User, error)
	ByID(ctx context.Context, id uuid.UUID) (*users.User, error)
}

type walletService interface {
	TopUp(ctx context.Context, userID uuid.UUID, amount decimal.Decimal) (*users.User, *ledger.Entry, error)
	Spend(ctx context.Context, userID uuid.UUID, amount decimal.Decimal) (*users.User, *ledger.Entry, error)
	Transfer(ctx context.Context, senderID uuid.UUID, recipientUsername string, amount decimal.Decimal) (*users.User, *users.User, *ledger.Entry, error)
	Balance(ctx context.Context, userID uuid.UUID) (decimal.Decimal, error)
	Entries(ctx context.Context, userID uuid.UUID) ([]ledger.Entry, error)
}

type catalogService interface {
	Purchase(ctx context.Context, userID, itemID uuid.UUID) (*users.User, *items.Item, *ledger.Entry, error)
	AddItem(ctx context.Context, name string, price decimal.Decimal, stock int64) (*items.Item, error)
	SetStock(ctx context.Context, itemID uuid.UUID, stock int64) (*items.Item, error)
	Item(ctx context.Context, itemID uuid.UUID) (*items.Item, error)
	Items(ctx context.Context) ([]items.Item, error)
}

// HandlerProvider wraps the domain services and exposes HTTP handlers.
type HandlerProvider struct {
	accounts accountsService
	wallet   walletService
	catalog  catalogService
	tokens   *auth.Tokens
	validate *validator.Validate
}

var usernameRe = regexp.MustCompile(`^[a-zA-Z0-9_]+$`)

// NewHandler returns a new handler provider.
func NewHandler(accounts accountsService, wallet walletService, catalog catalogService, tokens *auth.Tokens) *HandlerProvider {
	v := validator.New()

	// usernames are alphanumeric plus underscore
	_ = v.RegisterValidation("username", func(fl validator.FieldLevel) bool {
		return usernameRe.MatchString(fl.Field().String())
	})

	return &HandlerProvider{
		accounts: accounts,
		wallet:   wallet,
		catalog:  catalog,
		tokens:   tokens,
		validate: v,
	}
}
