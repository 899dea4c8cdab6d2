// Package handler exposes the correspondence registry over HTTP.
package handler

import (
	"context"
	"io"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	dirmodels "docroute/internal/directory/models"
	"docroute/internal/platform/middleware"
	"docroute/internal/registry/models"
	"docroute/internal/registry/service"
	"docroute/internal/transport/http/shared"
	dErrors "docroute/pkg/domain-errors"
	"docroute/pkg/requestcontext"
)

// Service defines the registry operations the handler needs.
type Service interface {
	Documents(ctx context.Context, category string) ([]models.Document, error)
	Document(ctx context.Context, id string) (models.Document, error)
	CreateDocument(ctx context.Context, in service.CreateDocumentInput) (models.Document, error)
	UpdateDocument(ctx context.Context, id string, patch models.DocumentPatch) (models.Document, error)
	DeleteDocument(ctx context.Context, id string) error
	Reject(ctx context.Context, id, note string) (models.Document, error)
	Incoming(ctx context.Context, division string) ([]models.Document, error)
	Rejected(ctx context.Context, division string) ([]models.Document, error)
	Completed(ctx context.Context, division string) ([]models.Document, error)
}

type Handler struct {
	registry Service
	logger   *slog.Logger
}

type Option func(*Handler)

func WithLogger(logger *slog.Logger) Option {
	return func(h *Handler) { h.logger = logger }
}

func New(registry Service, opts ...Option) *Handler {
	h := &Handler{
		registry: registry,
		logger:   slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Register mounts the registry routes on an authenticated router. The
// incoming view is division-scoped to the viewer; the full log and its
// mutations belong to the clerical roles.
func (h *Handler) Register(r chi.Router) {
	r.Get("/registry/documents/incoming", h.handleIncoming)

	r.Group(func(r chi.Router) {
		r.Use(middleware.RequireRole(
			string(dirmodels.RoleAdmin),
			string(dirmodels.RoleSecretary),
		))
		r.Get("/registry/documents", h.handleList)
		r.Get("/registry/documents/rejected", h.handleRejected)
		r.Get("/registry/documents/completed", h.handleCompleted)
		r.Get("/registry/documents/{id}", h.handleGet)
		r.Post("/registry/documents", h.handleCreate)
		r.Patch("/registry/documents/{id}", h.handleUpdate)
		r.Delete("/registry/documents/{id}", h.handleDelete)
		r.Post("/registry/documents/{id}/reject", h.handleReject)
	})
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	documents, err := h.registry.Documents(r.Context(), r.URL.Query().Get("category"))
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusOK, documents)
}

func (h *Handler) handleGet(w http.ResponseWriter, r *http.Request) {
	doc, err := h.registry.Document(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusOK, doc)
}

type createDocumentRequest struct {
	Category        string                `json:"category"`
	DateReceived    string                `json:"dateReceived"`
	RegistryNumber  string                `json:"registryNumber"`
	ReceivedFrom    string                `json:"receivedFrom"`
	DateOfLetter    string                `json:"dateOfLetter"`
	NumberOfLetters int                   `json:"numberOfLetters"`
	Subject         string                `json:"subject"`
	Signature       string                `json:"signature"`
	Status          models.DocumentStatus `json:"status"`
	SentTo          string                `json:"sentTo"`
}

func (h *Handler) handleCreate(w http.ResponseWriter, r *http.Request) {
	var req createDocumentRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.WriteError(w, err)
		return
	}
	doc, err := h.registry.CreateDocument(r.Context(), service.CreateDocumentInput{
		Category:        req.Category,
		DateReceived:    req.DateReceived,
		RegistryNumber:  req.RegistryNumber,
		ReceivedFrom:    req.ReceivedFrom,
		DateOfLetter:    req.DateOfLetter,
		NumberOfLetters: req.NumberOfLetters,
		Subject:         req.Subject,
		Signature:       req.Signature,
		Status:          req.Status,
		SentTo:          req.SentTo,
	})
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusCreated, doc)
}

func (h *Handler) handleUpdate(w http.ResponseWriter, r *http.Request) {
	var patch models.DocumentPatch
	if err := shared.DecodeJSON(r, &patch); err != nil {
		shared.WriteError(w, err)
		return
	}
	doc, err := h.registry.UpdateDocument(r.Context(), chi.URLParam(r, "id"), patch)
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusOK, doc)
}

func (h *Handler) handleDelete(w http.ResponseWriter, r *http.Request) {
	if err := h.registry.DeleteDocument(r.Context(), chi.URLParam(r, "id")); err != nil {
		shared.WriteError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type rejectRequest struct {
	RejectionNote string `json:"rejectionNote"`
}

func (h *Handler) handleReject(w http.ResponseWriter, r *http.Request) {
	var req rejectRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.WriteError(w, err)
		return
	}
	doc, err := h.registry.Reject(r.Context(), chi.URLParam(r, "id"), req.RejectionNote)
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusOK, doc)
}

// handleIncoming lists the documents routed to the viewer's division.
func (h *Handler) handleIncoming(w http.ResponseWriter, r *http.Request) {
	viewer, ok := requestcontext.ViewerFrom(r.Context())
	if !ok {
		shared.WriteError(w, dErrors.New(dErrors.CodeInternal, "authentication context error"))
		return
	}
	documents, err := h.registry.Incoming(r.Context(), viewer.Division)
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusOK, documents)
}

func (h *Handler) handleRejected(w http.ResponseWriter, r *http.Request) {
	documents, err := h.registry.Rejected(r.Context(), r.URL.Query().Get("division"))
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusOK, documents)
}

func (h *Handler) handleCompleted(w http.ResponseWriter, r *http.Request) {
	documents, err := h.registry.Completed(r.Context(), r.URL.Query().Get("division"))
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusOK, documents)
}
