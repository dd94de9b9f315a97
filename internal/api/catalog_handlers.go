package api

import (
	"net/http"
)

// ListItemsHandler handles GET /items.
func (h *HandlerProvider) ListItemsHandler(w http.ResponseWriter, r *http.Request) {
	list, err := h.catalog.Items(r.Context())
	if err != nil {
		writeDomainError(w, err)
		return
	}

	out := make([]itemResponse, 0, len(list))
	for i := range list {
		out = append(out, toItemResponse(&list[i]))
	}

	writeJSON(w, http.StatusOK, out)
}

// GetItemHandler handles GET /items/{itemID}.
func (h *HandlerProvider) GetItemHandler(w http.ResponseWriter, r *http.Request) {
	itemID, err := parsePathID(r, "itemID")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid item id")
		return
	}

	it, err := h.catalog.Item(r.Context(), itemID)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, toItemResponse(it))
}

// BuyItemHandler handles POST /items/buy/{itemID}.
func (h *HandlerProvider) BuyItemHandler(w http.ResponseWriter, r *http.Request) {
	u := userFrom(r.Context())

	itemID, err := parsePathID(r, "itemID")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid item id")
		return
	}

	buyer, it, entry, err := h.catalog.Purchase(r.Context(), u.ID, itemID)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"message":     "Purchase successful",
		"user":        toUserResponse(buyer),
		"item":        toItemResponse(it),
		"transaction": toEntryResponse(entry),
	})
}

// CreateItemHandler handles POST /admin/items.
func (h *HandlerProvider) CreateItemHandler(w http.ResponseWriter, r *http.Request) {
	var req createItemRequest

	err := decodeJSON(w, r, &req)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	err = h.validate.Struct(req)
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, "invalid item attributes")
		return
	}

	if req.Price.IsNegative() {
		writeError(w, http.StatusUnprocessableEntity, "price must not be negative")
		return
	}

	it, err := h.catalog.AddItem(r.Context(), req.Name, req.Price, req.Stock)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, toItemResponse(it))
}

// SetStockHandler handles PUT /admin/items/{itemID}/stock.
func (h *HandlerProvider) SetStockHandler(w http.ResponseWriter, r *http.Request) {
	itemID, err := parsePathID(r, "itemID")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid item id")
		return
	}

	var req setStockRequest

	err = decodeJSON(w, r, &req)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	err = h.validate.Struct(req)
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, "stock must not be negative")
		return
	}

	it, err := h.catalog.SetStock(r.Context(), itemID, req.Stock)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, toItemResponse(it))
}
