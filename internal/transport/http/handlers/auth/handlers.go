package authhandler

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"worksync/internal/auth"
	"worksync/internal/domain/directory"
	"worksync/internal/transport/http/api"
	"worksync/internal/transport/http/middleware"
)

type Handler struct {
	Directory *directory.Service
	Secret    string
	TokenTTL  time.Duration
}

func NewHandler(dir *directory.Service, secret string, tokenTTL time.Duration) *Handler {
	return &Handler{Directory: dir, Secret: secret, TokenTTL: tokenTTL}
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (h *Handler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	var payload loginRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", requestID)
		return
	}

	user, err := h.Directory.Authenticate(r.Context(), payload.Email, payload.Password)
	if err != nil {
		if errors.Is(err, directory.ErrUserFired) {
			api.Fail(w, http.StatusForbidden, "account_disabled", "account has been disabled", requestID)
			return
		}
		api.Fail(w, http.StatusUnauthorized, "invalid_credentials", "invalid credentials", requestID)
		return
	}

	token, err := auth.GenerateToken(h.Secret, auth.Claims{
		UserID: user.ID,
		Email:  user.Email,
		Role:   user.Role,
	}, h.TokenTTL)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "token_error", "failed to issue token", requestID)
		return
	}

	api.Success(w, map[string]any{"token": token, "user": user}, requestID)
}

func (h *Handler) HandleRegister(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	var payload directory.RegisterInput
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", requestID)
		return
	}

	user, err := h.Directory.Register(r.Context(), payload)
	if err != nil {
		switch {
		case errors.Is(err, directory.ErrEmailRequired),
			errors.Is(err, directory.ErrNameRequired),
			errors.Is(err, directory.ErrWeakCredential),
			errors.Is(err, directory.ErrInvalidRole):
			api.Fail(w, http.StatusBadRequest, "validation_error", err.Error(), requestID)
		default:
			api.Fail(w, http.StatusInternalServerError, "registration_failed", "failed to register user", requestID)
		}
		return
	}
	api.Created(w, user, requestID)
}
