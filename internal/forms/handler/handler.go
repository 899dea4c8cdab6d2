// Package handler exposes form template CRUD over HTTP. Templates are
// configuration, so every route is gated to the configuring roles.
package handler

import (
	"context"
	"io"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	dirmodels "docroute/internal/directory/models"
	"docroute/internal/forms/models"
	"docroute/internal/forms/service"
	"docroute/internal/platform/middleware"
	"docroute/internal/transport/http/shared"
)

// Service defines the form catalog operations the handler needs.
type Service interface {
	Forms(ctx context.Context) ([]models.Form, error)
	Form(ctx context.Context, id string) (models.Form, error)
	CreateForm(ctx context.Context, in service.CreateFormInput) (models.Form, error)
	UpdateForm(ctx context.Context, id string, patch models.FormPatch) (models.Form, error)
	DeleteForm(ctx context.Context, id string) error
}

type Handler struct {
	forms  Service
	logger *slog.Logger
}

type Option func(*Handler)

func WithLogger(logger *slog.Logger) Option {
	return func(h *Handler) { h.logger = logger }
}

func New(forms Service, opts ...Option) *Handler {
	h := &Handler{
		forms:  forms,
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Register mounts the form routes on an authenticated router. Reads stay open
// to every signed-in user: the send flow renders the bound form.
func (h *Handler) Register(r chi.Router) {
	r.Get("/forms", h.handleList)
	r.Get("/forms/{id}", h.handleGet)

	r.Group(func(r chi.Router) {
		r.Use(middleware.RequireRole(
			string(dirmodels.RoleAdmin),
			string(dirmodels.RoleSecretary),
		))
		r.Post("/forms", h.handleCreate)
		r.Patch("/forms/{id}", h.handleUpdate)
		r.Delete("/forms/{id}", h.handleDelete)
	})
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	forms, err := h.forms.Forms(r.Context())
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusOK, forms)
}

func (h *Handler) handleGet(w http.ResponseWriter, r *http.Request) {
	form, err := h.forms.Form(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusOK, form)
}

type createFormRequest struct {
	Name      string            `json:"name"`
	Questions []models.Question `json:"questions"`
}

func (h *Handler) handleCreate(w http.ResponseWriter, r *http.Request) {
	var req createFormRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.WriteError(w, err)
		return
	}
	form, err := h.forms.CreateForm(r.Context(), service.CreateFormInput{
		Name:      req.Name,
		Questions: req.Questions,
	})
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusCreated, form)
}

func (h *Handler) handleUpdate(w http.ResponseWriter, r *http.Request) {
	var patch models.FormPatch
	if err := shared.DecodeJSON(r, &patch); err != nil {
		shared.WriteError(w, err)
		return
	}
	form, err := h.forms.UpdateForm(r.Context(), chi.URLParam(r, "id"), patch)
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusOK, form)
}

func (h *Handler) handleDelete(w http.ResponseWriter, r *http.Request) {
	if err := h.forms.DeleteForm(r.Context(), chi.URLParam(r, "id")); err != nil {
		shared.WriteError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
