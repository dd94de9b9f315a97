package api

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/minicart/minicart/internal/repos/items"
	"github.com/minicart/minicart/internal/repos/ledger"
	"github.com/minicart/minicart/internal/repos/users"
)

// --- Requests ---

type registerRequest struct {
	Username string `json:"username" validate:"required,min=3,max=50,username"`
	Password string `json:"password" validate:"required,min=8"`
	IsAdmin  bool   `json:"is_admin"`
}

type loginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type amountRequest struct {
	Amount decimal.Decimal `json:"amount"`
}

type transferRequest struct {
	RecipientUsername string          `json:"recipient_username" validate:"required"`
	Amount            decimal.Decimal `json:"amount"`
}

type createItemRequest struct {
	Name  string          `json:"name" validate:"required,min=1,max=100"`
	Price decimal.Decimal `json:"price"`
	Stock int64           `json:"stock" validate:"gte=0"`
}

type setStockRequest struct {
	Stock int64 `json:"stock" validate:"gte=0"`
}

// --- Responses ---

type userResponse struct {
	ID        string          `json:"id"`
	Username  string          `json:"username"`
	Balance   decimal.Decimal `json:"balance"`
	IsAdmin   bool            `json:"is_admin"`
	CreatedAt time.Time       `json:"created_at"`
}

type itemResponse struct {
	ID      string          `json:"id"`
	Name    string          `json:"name"`
	Price   decimal.Decimal `json:"price"`
	Stock   int64           `json:"stock"`
	OwnerID *string         `json:"owner_id,omitempty"`
}

type entryResponse struct {
	ID        string          `json:"id"`
	UserID    string          `json:"user_id"`
	ItemID    *string         `json:"item_id,omitempty"`
	Amount    decimal.Decimal `json:"amount"`
	Kind      string          `json:"kind"`
	CreatedAt time.Time       `json:"created_at"`
}

type tokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

func toUserResponse(u *users.User) userResponse {
	return userResponse{
		ID:        u.ID.String(),
		Username:  u.Username,
		Balance:   u.Balance,
		IsAdmin:   u.IsAdmin,
		CreatedAt: u.CreatedAt,
	}
}

func toItemResponse(it *items.Item) itemResponse {
	resp := itemResponse{
		ID:    it.ID.String(),
		Name:  it.Name,
		Price: it.Price,
		Stock: it.Stock,
	}

	if it.OwnerID.Valid {
		owner := it.OwnerID.UUID.String()
		resp.OwnerID = &owner
	}

	return resp
}

func toEntryResponse(e *ledger.Entry) entryResponse {
	resp := entryResponse{
		ID:        e.ID.String(),
		UserID:    e.UserID.String(),
		Amount:    e.Amount,
		Kind:      string(e.Kind),
		CreatedAt: e.CreatedAt,
	}

	if e.ItemID.Valid {
		item := e.ItemID.UUID.String()
		resp.ItemID = &item
	}

	return resp
}
