// Package handler exposes sign-in over HTTP.
package handler

import (
	"context"
	"io"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"docroute/internal/auth"
	"docroute/internal/transport/http/shared"
)

// Service defines the interface for sign-in.
type Service interface {
	Login(ctx context.Context, username, password string) (auth.LoginResult, error)
}

type Handler struct {
	auth   Service
	logger *slog.Logger
}

type Option func(*Handler)

func WithLogger(logger *slog.Logger) Option {
	return func(h *Handler) { h.logger = logger }
}

func New(auth Service, opts ...Option) *Handler {
	h := &Handler{
		auth:   auth,
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Register mounts the auth routes. Login is the only unauthenticated route in
// the API.
func (h *Handler) Register(r chi.Router) {
	r.Post("/auth/login", h.handleLogin)
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type loginResponse struct {
	Token string   `json:"token"`
	User  userView `json:"user"`
}

// userView is the identity slice returned to clients. Passwords never leave
// the directory.
type userView struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Role     string `json:"role"`
	Division string `json:"division"`
	Name     string `json:"name"`
}

func (h *Handler) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.WriteError(w, err)
		return
	}

	result, err := h.auth.Login(r.Context(), req.Username, req.Password)
	if err != nil {
		shared.WriteError(w, err)
		return
	}

	shared.WriteJSON(w, http.StatusOK, loginResponse{
		Token: result.Token,
		User: userView{
			ID:       result.User.ID,
			Username: result.User.Username,
			Role:     string(result.User.Role),
			Division: result.User.Division,
			Name:     result.User.Name,
		},
	})
}
