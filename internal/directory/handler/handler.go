// Package handler exposes the recipient and user directory over HTTP.
// Mutations are admin-only; reads are scoped to what each flow needs.
package handler

import (
	"context"
	"io"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"docroute/internal/directory/models"
	"docroute/internal/directory/service"
	"docroute/internal/platform/middleware"
	"docroute/internal/transport/http/shared"
	dErrors "docroute/pkg/domain-errors"
	"docroute/pkg/requestcontext"
)

// Service defines the directory operations the handler needs.
type Service interface {
	Recipients(ctx context.Context) ([]models.Recipient, error)
	CreateRecipient(ctx context.Context, name string) (models.Recipient, error)
	UpdateRecipient(ctx context.Context, id string, patch models.RecipientPatch) (models.Recipient, error)
	DeleteRecipient(ctx context.Context, id string) error

	Users(ctx context.Context) ([]models.User, error)
	User(ctx context.Context, id string) (models.User, error)
	UsersByDivision(ctx context.Context, division string) ([]models.User, error)
	CreateUser(ctx context.Context, in service.CreateUserInput) (models.User, error)
	UpdateUser(ctx context.Context, id string, patch models.UserPatch) (models.User, error)
	DeleteUser(ctx context.Context, id string) error
}

type Handler struct {
	directory Service
	logger    *slog.Logger
}

type Option func(*Handler)

func WithLogger(logger *slog.Logger) Option {
	return func(h *Handler) { h.logger = logger }
}

func New(directory Service, opts ...Option) *Handler {
	h := &Handler{
		directory: directory,
		logger:    slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Register mounts the directory routes on an authenticated router.
func (h *Handler) Register(r chi.Router) {
	r.Get("/directory/recipients", h.handleListRecipients)
	r.Get("/directory/users/colleagues", h.handleListColleagues)

	r.Group(func(r chi.Router) {
		r.Use(middleware.RequireRole(string(models.RoleAdmin), string(models.RoleSecretary)))
		r.Get("/directory/users", h.handleListUsers)
	})

	r.Group(func(r chi.Router) {
		r.Use(middleware.RequireRole(string(models.RoleAdmin)))
		r.Post("/directory/recipients", h.handleCreateRecipient)
		r.Patch("/directory/recipients/{id}", h.handleUpdateRecipient)
		r.Delete("/directory/recipients/{id}", h.handleDeleteRecipient)

		r.Get("/directory/users/{id}", h.handleGetUser)
		r.Post("/directory/users", h.handleCreateUser)
		r.Patch("/directory/users/{id}", h.handleUpdateUser)
		r.Delete("/directory/users/{id}", h.handleDeleteUser)
	})
}

func (h *Handler) handleListRecipients(w http.ResponseWriter, r *http.Request) {
	recipients, err := h.directory.Recipients(r.Context())
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusOK, recipients)
}

type createRecipientRequest struct {
	Name string `json:"name"`
}

func (h *Handler) handleCreateRecipient(w http.ResponseWriter, r *http.Request) {
	var req createRecipientRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.WriteError(w, err)
		return
	}
	recipient, err := h.directory.CreateRecipient(r.Context(), req.Name)
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusCreated, recipient)
}

func (h *Handler) handleUpdateRecipient(w http.ResponseWriter, r *http.Request) {
	var patch models.RecipientPatch
	if err := shared.DecodeJSON(r, &patch); err != nil {
		shared.WriteError(w, err)
		return
	}
	recipient, err := h.directory.UpdateRecipient(r.Context(), chi.URLParam(r, "id"), patch)
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusOK, recipient)
}

func (h *Handler) handleDeleteRecipient(w http.ResponseWriter, r *http.Request) {
	if err := h.directory.DeleteRecipient(r.Context(), chi.URLParam(r, "id")); err != nil {
		shared.WriteError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) handleListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.directory.Users(r.Context())
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusOK, userViews(users))
}

// handleListColleagues lists the users in the viewer's own division, the
// candidate targets for an internal send.
func (h *Handler) handleListColleagues(w http.ResponseWriter, r *http.Request) {
	viewer, ok := requestcontext.ViewerFrom(r.Context())
	if !ok {
		shared.WriteError(w, dErrors.New(dErrors.CodeInternal, "authentication context error"))
		return
	}
	users, err := h.directory.UsersByDivision(r.Context(), viewer.Division)
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusOK, userViews(users))
}

func (h *Handler) handleGetUser(w http.ResponseWriter, r *http.Request) {
	user, err := h.directory.User(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusOK, userView(user))
}

type createUserRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
	Role     string `json:"role"`
	Division string `json:"division"`
	Name     string `json:"name"`
}

func (h *Handler) handleCreateUser(w http.ResponseWriter, r *http.Request) {
	var req createUserRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.WriteError(w, err)
		return
	}
	user, err := h.directory.CreateUser(r.Context(), service.CreateUserInput{
		Username: req.Username,
		Password: req.Password,
		Role:     models.Role(req.Role),
		Division: req.Division,
		Name:     req.Name,
	})
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusCreated, userView(user))
}

func (h *Handler) handleUpdateUser(w http.ResponseWriter, r *http.Request) {
	var patch models.UserPatch
	if err := shared.DecodeJSON(r, &patch); err != nil {
		shared.WriteError(w, err)
		return
	}
	user, err := h.directory.UpdateUser(r.Context(), chi.URLParam(r, "id"), patch)
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusOK, userView(user))
}

func (h *Handler) handleDeleteUser(w http.ResponseWriter, r *http.Request) {
	if err := h.directory.DeleteUser(r.Context(), chi.URLParam(r, "id")); err != nil {
		shared.WriteError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
