// Package handler exposes recipient-form links over HTTP.
package handler

import (
	"context"
	"io"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	dirmodels "docroute/internal/directory/models"
	formmodels "docroute/internal/forms/models"
	"docroute/internal/links/models"
	"docroute/internal/platform/middleware"
	"docroute/internal/transport/http/shared"
)

// Service defines the link registry operations the handler needs.
type Service interface {
	Links(ctx context.Context) ([]models.Link, error)
	LinkForRecipient(ctx context.Context, recipientID string) (*models.Link, error)
	SetLink(ctx context.Context, recipientID, formID string) (models.Link, error)
	RemoveLink(ctx context.Context, id string) error
	FormForRecipient(ctx context.Context, recipientID string) (*formmodels.Form, error)
}

type Handler struct {
	links  Service
	logger *slog.Logger
}

type Option func(*Handler)

func WithLogger(logger *slog.Logger) Option {
	return func(h *Handler) { h.logger = logger }
}

func New(links Service, opts ...Option) *Handler {
	h := &Handler{
		links:  links,
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Register mounts the link routes on an authenticated router. The form-for-
// recipient lookup stays open: it is how the send flow finds which form to
// render.
func (h *Handler) Register(r chi.Router) {
	r.Get("/links/recipient/{recipientId}/form", h.handleFormForRecipient)

	r.Group(func(r chi.Router) {
		r.Use(middleware.RequireRole(
			string(dirmodels.RoleAdmin),
			string(dirmodels.RoleSecretary),
		))
		r.Get("/links", h.handleList)
		r.Get("/links/recipient/{recipientId}", h.handleGetForRecipient)
		r.Put("/links", h.handleSet)
		r.Delete("/links/{id}", h.handleRemove)
	})
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	links, err := h.links.Links(r.Context())
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusOK, links)
}

func (h *Handler) handleGetForRecipient(w http.ResponseWriter, r *http.Request) {
	link, err := h.links.LinkForRecipient(r.Context(), chi.URLParam(r, "recipientId"))
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	// No link is an answer, not an error.
	shared.WriteJSON(w, http.StatusOK, link)
}

type setLinkRequest struct {
	RecipientID string `json:"recipientId"`
	FormID      string `json:"formId"`
}

func (h *Handler) handleSet(w http.ResponseWriter, r *http.Request) {
	var req setLinkRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.WriteError(w, err)
		return
	}
	link, err := h.links.SetLink(r.Context(), req.RecipientID, req.FormID)
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusOK, link)
}

func (h *Handler) handleRemove(w http.ResponseWriter, r *http.Request) {
	if err := h.links.RemoveLink(r.Context(), chi.URLParam(r, "id")); err != nil {
		shared.WriteError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) handleFormForRecipient(w http.ResponseWriter, r *http.Request) {
	form, err := h.links.FormForRecipient(r.Context(), chi.URLParam(r, "recipientId"))
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusOK, form)
}
