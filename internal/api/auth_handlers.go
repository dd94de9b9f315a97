package api

import (
	"net/http"
)

// RegisterHandler handles POST /auth/register.
func (h *HandlerProvider) RegisterHandler(w http.ResponseWriter, r *http.Request) {
	var req registerRequest

	err := decodeJSON(w, r, &req)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	err = h.validate.Struct(req)
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, "invalid username or password format")
		return
	}

	u, err := h.accounts.Register(r.Context(), req.Username, req.Password, req.IsAdmin)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, toUserResponse(u))
}

// LoginHandler handles POST /auth/login.
func (h *HandlerProvider) LoginHandler(w http.ResponseWriter, r *http.Request) {
	var req loginRequest

	err := decodeJSON(w, r, &req)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	err = h.validate.Struct(req)
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, "username and password required")
		return
	}

	token, _, err := h.accounts.Login(r.Context(), req.Username, req.Password)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, tokenResponse{AccessToken: token, TokenType: "bearer"})
}

// MeHandler handles GET /users/me.
func (h *HandlerProvider) MeHandler(w http.ResponseWriter, r *http.Request) {
	u := userFrom(r.Context())
	if u == nil {
		writeError(w, http.StatusUnauthorized, "not authenticated")
		return
	}

	writeJSON(w, http.StatusOK, toUserResponse(u))
}
