package handlers

import (
	"errors"
	"net/http"

	"github.com/Bronc-X/antianxiety/internal/api/middleware"
	"github.com/Bronc-X/antianxiety/internal/domain"
	"github.com/Bronc-X/antianxiety/internal/store"
)

type UserHandler struct {
	store domain.UserStore
}

func NewUserHandler(store domain.UserStore) *UserHandler {
	return &UserHandler{store: store}
}

type createUserRequest struct {
	Name string `json:"name" validate:"required,max=200"`
}

type createUserResponse struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	APIKey string `json:"api_key"`
}

// Create registers a user and returns the API key. The key is only ever
// shown in this response.
func (h *UserHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createUserRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	apiKey, err := middleware.GenerateAPIKey()
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to generate API key")
		return
	}

	user := &domain.User{
		Name:       req.Name,
		APIKeyHash: middleware.HashAPIKey(apiKey),
	}
	if err := h.store.Create(r.Context(), user); err != nil {
		if errors.Is(err, store.ErrConflict) {
			writeError(w, http.StatusConflict, "user already exists")
			return
		}
		writeError(w, http.StatusInternalServerError, "failed to create user")
		return
	}

	writeJSON(w, http.StatusCreated, createUserResponse{
		ID:     user.ID.String(),
		Name:   user.Name,
		APIKey: apiKey,
	})
}
