// Package handler exposes the transfer lifecycle over HTTP: sending,
// the pending inbox, accept/cancel, and the records views.
package handler

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	dirmodels "docroute/internal/directory/models"
	"docroute/internal/platform/middleware"
	"docroute/internal/policy"
	"docroute/internal/transfer/models"
	"docroute/internal/transfer/service"
	"docroute/internal/transport/http/shared"
	dErrors "docroute/pkg/domain-errors"
	"docroute/pkg/platform/sentinel"
	"docroute/pkg/requestcontext"
)

// Engine defines the transfer operations the handler needs.
type Engine interface {
	Create(ctx context.Context, in service.CreateTransferInput) (models.Transfer, error)
	Accept(ctx context.Context, id string) (models.Transfer, error)
	Cancel(ctx context.Context, id string) (models.Transfer, error)
	SetCorrectionNote(ctx context.Context, id, note string) (models.Transfer, error)
	Get(ctx context.Context, id string) (models.Transfer, error)
	ListPendingForTarget(ctx context.Context, identifier string) ([]models.Transfer, error)
	ListAccepted(ctx context.Context) ([]models.Transfer, error)
	ListAcceptedForRecipient(ctx context.Context, recipientID string) ([]models.Transfer, error)
	ListAcceptedForUser(ctx context.Context, viewer service.ViewerRef) ([]models.Transfer, error)
	ListAcceptedInternal(ctx context.Context) ([]models.Transfer, error)
	ListAcceptedInternalForUser(ctx context.Context, viewer service.ViewerRef) ([]models.Transfer, error)
}

// ViewResolver runs a records view for an axis and selection.
type ViewResolver interface {
	Execute(ctx context.Context, axis policy.ViewAxis, selection string) (policy.View, error)
}

// UserResolver looks up directory records for display names.
type UserResolver interface {
	FindByID(ctx context.Context, id string) (dirmodels.User, error)
}

type Handler struct {
	engine Engine
	views  ViewResolver
	users  UserResolver
	logger *slog.Logger
}

type Option func(*Handler)

func WithLogger(logger *slog.Logger) Option {
	return func(h *Handler) { h.logger = logger }
}

func New(engine Engine, views ViewResolver, users UserResolver, opts ...Option) *Handler {
	h := &Handler{
		engine: engine,
		views:  views,
		users:  users,
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Register mounts the transfer routes on an authenticated router.
func (h *Handler) Register(r chi.Router) {
	r.Post("/transfers", h.handleCreate)
	r.Get("/transfers/pending", h.handlePendingInbox)
	r.Post("/transfers/{id}/accept", h.handleAccept)
	r.Post("/transfers/{id}/cancel", h.handleCancel)
	r.Get("/transfers/accepted/mine", h.handleAcceptedMine)
	r.Get("/transfers/accepted/internal/mine", h.handleAcceptedInternalMine)
	r.Get("/transfers/{id}", h.handleGet)

	r.Group(func(r chi.Router) {
		r.Use(middleware.RequireRole(
			string(dirmodels.RoleAdmin),
			string(dirmodels.RoleSecretary),
		))
		r.Get("/transfers/views", h.handleView)
		r.Get("/transfers/accepted", h.handleAccepted)
		r.Get("/transfers/accepted/internal", h.handleAcceptedInternal)
		r.Patch("/transfers/{id}/note", h.handleSetNote)
	})
}

type createTransferRequest struct {
	RecipientID   string            `json:"recipientId"`
	RecipientName string            `json:"recipientName"`
	FormID        string            `json:"formId"`
	FormData      map[string]string `json:"formData"`
}

// handleCreate records a new pending transfer. The sender fields are derived
// from the viewer, never taken from the request: a division-bound sender is
// identified by division name, everyone else by user id.
func (h *Handler) handleCreate(w http.ResponseWriter, r *http.Request) {
	viewer, caps, ok := h.viewerCaps(w, r)
	if !ok {
		return
	}
	if !caps.CanSend {
		shared.WriteError(w, dErrors.New(dErrors.CodeForbidden, "This role cannot send transfers."))
		return
	}

	var req createTransferRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.WriteError(w, err)
		return
	}
	if req.RecipientID == "" {
		shared.WriteError(w, dErrors.New(dErrors.CodeValidation, "Recipient is required."))
		return
	}

	sentBy := viewer.Division
	if sentBy == "" {
		sentBy = viewer.UserID
	}

	transfer, err := h.engine.Create(r.Context(), service.CreateTransferInput{
		RecipientID:   req.RecipientID,
		RecipientName: req.RecipientName,
		FormID:        req.FormID,
		SentBy:        sentBy,
		SentByName:    h.displayName(r.Context(), viewer),
		FormData:      req.FormData,
	})
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusCreated, transfer)
}

// handlePendingInbox lists the viewer's actionable inbox: division-addressed
// transfers for division members, person-addressed ones otherwise.
func (h *Handler) handlePendingInbox(w http.ResponseWriter, r *http.Request) {
	viewer, caps, ok := h.viewerCaps(w, r)
	if !ok {
		return
	}
	if !caps.CanReceive {
		shared.WriteError(w, dErrors.New(dErrors.CodeForbidden, "This role cannot receive transfers."))
		return
	}

	identifier := viewer.Division
	if identifier == "" {
		identifier = viewer.UserID
	}
	transfers, err := h.engine.ListPendingForTarget(r.Context(), identifier)
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusOK, transfers)
}

func (h *Handler) handleGet(w http.ResponseWriter, r *http.Request) {
	transfer, err := h.engine.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusOK, transfer)
}

// handleAccept moves a transfer to accepted. Only receiving roles may accept,
// and a division-bound user may only accept transfers addressed to them; a
// secretary receives across all divisions.
func (h *Handler) handleAccept(w http.ResponseWriter, r *http.Request) {
	viewer, caps, ok := h.viewerCaps(w, r)
	if !ok {
		return
	}
	if !caps.CanReceive {
		shared.WriteError(w, dErrors.New(dErrors.CodeForbidden, "This role cannot receive transfers."))
		return
	}

	id := chi.URLParam(r, "id")
	if dirmodels.Role(viewer.Role) != dirmodels.RoleSecretary {
		transfer, err := h.engine.Get(r.Context(), id)
		if err != nil {
			shared.WriteError(w, err)
			return
		}
		identifier := viewer.Division
		if identifier == "" {
			identifier = viewer.UserID
		}
		if transfer.RecipientID != identifier && transfer.RecipientName != identifier {
			shared.WriteError(w, dErrors.New(dErrors.CodeForbidden, "Only the addressed recipient can accept this transfer."))
			return
		}
	}

	transfer, err := h.engine.Accept(r.Context(), id)
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusOK, transfer)
}

func (h *Handler) handleCancel(w http.ResponseWriter, r *http.Request) {
	_, caps, ok := h.viewerCaps(w, r)
	if !ok {
		return
	}
	if !caps.CanSend {
		shared.WriteError(w, dErrors.New(dErrors.CodeForbidden, "This role cannot cancel transfers."))
		return
	}
	transfer, err := h.engine.Cancel(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusOK, transfer)
}

type setNoteRequest struct {
	CorrectionNote string `json:"correctionNote"`
}

func (h *Handler) handleSetNote(w http.ResponseWriter, r *http.Request) {
	var req setNoteRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.WriteError(w, err)
		return
	}
	transfer, err := h.engine.SetCorrectionNote(r.Context(), chi.URLParam(r, "id"), req.CorrectionNote)
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusOK, transfer)
}

// viewResponse pairs the matching transfers with the form whose questions
// define the table columns. Form is null when no form is bound.
type viewResponse struct {
	Transfers []models.Transfer `json:"transfers"`
	Form      any               `json:"form"`
}

func (h *Handler) handleView(w http.ResponseWriter, r *http.Request) {
	axis := policy.ViewAxis(r.URL.Query().Get("axis"))
	selection := r.URL.Query().Get("selection")

	view, err := h.views.Execute(r.Context(), axis, selection)
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	resp := viewResponse{Transfers: view.Transfers}
	if view.Form != nil {
		resp.Form = view.Form
	}
	shared.WriteJSON(w, http.StatusOK, resp)
}

// handleAccepted lists accepted transfers, optionally narrowed to one
// recipient.
func (h *Handler) handleAccepted(w http.ResponseWriter, r *http.Request) {
	var (
		transfers []models.Transfer
		err       error
	)
	if recipientID := r.URL.Query().Get("recipientId"); recipientID != "" {
		transfers, err = h.engine.ListAcceptedForRecipient(r.Context(), recipientID)
	} else {
		transfers, err = h.engine.ListAccepted(r.Context())
	}
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusOK, transfers)
}

func (h *Handler) handleAcceptedInternal(w http.ResponseWriter, r *http.Request) {
	transfers, err := h.engine.ListAcceptedInternal(r.Context())
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusOK, transfers)
}

func (h *Handler) handleAcceptedMine(w http.ResponseWriter, r *http.Request) {
	viewer, _, ok := h.viewerCaps(w, r)
	if !ok {
		return
	}
	transfers, err := h.engine.ListAcceptedForUser(r.Context(), viewerRef(viewer))
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusOK, transfers)
}

func (h *Handler) handleAcceptedInternalMine(w http.ResponseWriter, r *http.Request) {
	viewer, _, ok := h.viewerCaps(w, r)
	if !ok {
		return
	}
	transfers, err := h.engine.ListAcceptedInternalForUser(r.Context(), viewerRef(viewer))
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusOK, transfers)
}

func (h *Handler) viewerCaps(w http.ResponseWriter, r *http.Request) (requestcontext.Viewer, policy.Capabilities, bool) {
	viewer, ok := requestcontext.ViewerFrom(r.Context())
	if !ok {
		shared.WriteError(w, dErrors.New(dErrors.CodeInternal, "authentication context error"))
		return requestcontext.Viewer{}, policy.Capabilities{}, false
	}
	return viewer, policy.ForRole(dirmodels.Role(viewer.Role)), true
}

// displayName resolves the sender's presentable name, falling back to the
// username when the directory record is gone or nameless.
func (h *Handler) displayName(ctx context.Context, viewer requestcontext.Viewer) string {
	user, err := h.users.FindByID(ctx, viewer.UserID)
	if err != nil {
		if !errors.Is(err, sentinel.ErrNotFound) {
			h.logger.WarnContext(ctx, "failed to resolve sender name",
				"user_id", viewer.UserID,
				"error", err)
		}
		return viewer.Username
	}
	if user.Name != "" {
		return user.Name
	}
	return viewer.Username
}

func viewerRef(viewer requestcontext.Viewer) service.ViewerRef {
	return service.ViewerRef{
		ID:       viewer.UserID,
		Username: viewer.Username,
		Division: viewer.Division,
	}
}
