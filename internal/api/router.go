package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// NewRouter registers all API endpoints on a chi router.
func NewRouter(h *HandlerProvider) http.Handler {
	r := chi.NewRouter()

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	r.Post("/auth/register", h.RegisterHandler)
	r.Post("/auth/login", h.LoginHandler)

	r.Get("/items", h.ListItemsHandler)
	r.Get("/items/{itemID}", h.GetItemHandler)

	r.Group(func(r chi.Router) {
		r.Use(h.Authenticate)

		r.Get("/users/me", h.MeHandler)

		r.Get("/wallet/balance", h.BalanceHandler)
		r.Post("/wallet/top-up", h.TopUpHandler)
		r.Post("/wallet/spend", h.SpendHandler)
		r.Post("/wallet/transfer", h.TransferHandler)

		r.Post("/items/buy/{itemID}", h.BuyItemHandler)
		r.Get("/transactions", h.TransactionsHandler)

		r.Group(func(r chi.Router) {
			r.Use(h.RequireAdmin)

			r.Post("/admin/items", h.CreateItemHandler)
			r.Put("/admin/items/{itemID}/stock", h.SetStockHandler)
		})
	})

	return r
}
