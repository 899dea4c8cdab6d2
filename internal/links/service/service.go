// Package service owns the link registry: one active form per recipient,
// last write wins, and the composite recipient-to-form resolution.
package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/google/uuid"

	formmodels "docroute/internal/forms/models"
	"docroute/internal/links/models"
	dErrors "docroute/pkg/domain-errors"
	"docroute/pkg/platform/sentinel"
	"docroute/pkg/requestcontext"
)

// LinkStore is the persistence contract the service needs.
type LinkStore interface {
	List(ctx context.Context) ([]models.Link, error)
	FindByRecipient(ctx context.Context, recipientID string) (models.Link, error)
	Upsert(ctx context.Context, link models.Link) (models.Link, error)
	Delete(ctx context.Context, id string) error
}

// FormLookup resolves form templates when composing a recipient's form.
type FormLookup interface {
	FindByID(ctx context.Context, id string) (formmodels.Form, error)
}

type Service struct {
	links  LinkStore
	forms  FormLookup
	logger *slog.Logger
}

type Option func(*Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) { s.logger = logger }
}

func New(links LinkStore, forms FormLookup, opts ...Option) (*Service, error) {
	if links == nil {
		return nil, fmt.Errorf("link store is required")
	}
	if forms == nil {
		return nil, fmt.Errorf("form lookup is required")
	}
	svc := &Service{
		links:  links,
		forms:  forms,
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(svc)
	}
	return svc, nil
}

func (s *Service) Links(ctx context.Context) ([]models.Link, error) {
	list, err := s.links.List(ctx)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list links")
	}
	return list, nil
}

// LinkForRecipient returns the recipient's single link, or nil when the
// recipient has no form bound.
func (s *Service) LinkForRecipient(ctx context.Context, recipientID string) (*models.Link, error) {
	link, err := s.links.FindByRecipient(ctx, recipientID)
	if errors.Is(err, sentinel.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load link")
	}
	return &link, nil
}

// SetLink binds a form to a recipient. A recipient already linked keeps its
// link row; only the bound form changes (confirmed policy: one active form
// per recipient, last write wins).
func (s *Service) SetLink(ctx context.Context, recipientID, formID string) (models.Link, error) {
	if recipientID == "" {
		return models.Link{}, dErrors.New(dErrors.CodeValidation, "Recipient is required.")
	}
	if formID == "" {
		return models.Link{}, dErrors.New(dErrors.CodeValidation, "Form is required.")
	}
	link := models.Link{
		ID:          uuid.NewString(),
		RecipientID: recipientID,
		FormID:      formID,
		CreatedAt:   requestcontext.Now(ctx),
	}
	stored, err := s.links.Upsert(ctx, link)
	if err != nil {
		return models.Link{}, dErrors.Wrap(err, dErrors.CodeInternal, "failed to set link")
	}
	return stored, nil
}

// RemoveLink unbinds by link id; removing an unknown id is a no-op.
func (s *Service) RemoveLink(ctx context.Context, id string) error {
	if err := s.links.Delete(ctx, id); err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to remove link")
	}
	return nil
}

// FormForRecipient resolves the form currently bound to a recipient. Returns
// nil when the recipient has no link or the linked form no longer exists —
// dangling formIds are tolerated, never an error.
func (s *Service) FormForRecipient(ctx context.Context, recipientID string) (*formmodels.Form, error) {
	link, err := s.LinkForRecipient(ctx, recipientID)
	if err != nil || link == nil {
		return nil, err
	}
	form, err := s.forms.FindByID(ctx, link.FormID)
	if errors.Is(err, sentinel.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load linked form")
	}
	return &form, nil
}
