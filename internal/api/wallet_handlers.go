package api

import (
	"net/http"
)

// BalanceHandler handles GET /wallet/balance.
func (h *HandlerProvider) BalanceHandler(w http.ResponseWriter, r *http.Request) {
	u := userFrom(r.Context())

	bal, err := h.wallet.Balance(r.Context(), u.ID)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, bal)
}

// TopUpHandler handles POST /wallet/top-up.
func (h *HandlerProvider) TopUpHandler(w http.ResponseWriter, r *http.Request) {
	u := userFrom(r.Context())

	var req amountRequest

	err := decodeJSON(w, r, &req)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	if !req.Amount.IsPositive() {
		writeError(w, http.StatusUnprocessableEntity, "amount must be positive")
		return
	}

	updated, entry, err := h.wallet.TopUp(r.Context(), u.ID, req.Amount)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"user":        toUserResponse(updated),
		"transaction": toEntryResponse(entry),
	})
}

// SpendHandler handles POST /wallet/spend.
func (h *HandlerProvider) SpendHandler(w http.ResponseWriter, r *http.Request) {
	u := userFrom(r.Context())

	var req amountRequest

	err := decodeJSON(w, r, &req)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	if !req.Amount.IsPositive() {
		writeError(w, http.StatusUnprocessableEntity, "amount must be positive")
		return
	}

	updated, entry, err := h.wallet.Spend(r.Context(), u.ID, req.Amount)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"user":        toUserResponse(updated),
		"transaction": toEntryResponse(entry),
	})
}

// TransferHandler handles POST /wallet/transfer.
func (h *HandlerProvider) TransferHandler(w http.ResponseWriter, r *http.Request) {
	u := userFrom(r.Context())

	var req transferRequest

	err := decodeJSON(w, r, &req)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	err = h.validate.Struct(req)
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, "recipient_username required")
		return
	}

	if !req.Amount.IsPositive() {
		writeError(w, http.StatusUnprocessableEntity, "amount must be positive")
		return
	}

	sender, _, entry, err := h.wallet.Transfer(r.Context(), u.ID, req.RecipientUsername, req.Amount)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	// The recipient's balance stays private to the recipient.
	writeJSON(w, http.StatusOK, map[string]any{
		"sender":      toUserResponse(sender),
		"transaction": toEntryResponse(entry),
	})
}

// TransactionsHandler handles GET /transactions.
func (h *HandlerProvider) TransactionsHandler(w http.ResponseWriter, r *http.Request) {
	u := userFrom(r.Context())

	entries, err := h.wallet.Entries(r.Context(), u.ID)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	out := make([]entryResponse, 0, len(entries))
	for i := range entries {
		out = append(out, toEntryResponse(&entries[i]))
	}

	writeJSON(w, http.StatusOK, out)
}
