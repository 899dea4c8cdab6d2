// Package service owns form catalog rules: question normalization and
// template CRUD.
package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"docroute/internal/forms/models"
	dErrors "docroute/pkg/domain-errors"
	"docroute/pkg/platform/sentinel"
	"docroute/pkg/requestcontext"
)

// FormStore is the persistence contract the service needs.
type FormStore interface {
	List(ctx context.Context) ([]models.Form, error)
	FindByID(ctx context.Context, id string) (models.Form, error)
	Create(ctx context.Context, form models.Form) error
	Update(ctx context.Context, id string, patch models.FormPatch) (models.Form, error)
	Delete(ctx context.Context, id string) error
}

type Service struct {
	forms  FormStore
	logger *slog.Logger
}

type Option func(*Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) { s.logger = logger }
}

func New(forms FormStore, opts ...Option) (*Service, error) {
	if forms == nil {
		return nil, fmt.Errorf("form store is required")
	}
	svc := &Service{
		forms:  forms,
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(svc)
	}
	return svc, nil
}

func (s *Service) Forms(ctx context.Context) ([]models.Form, error) {
	list, err := s.forms.List(ctx)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list forms")
	}
	return list, nil
}

func (s *Service) Form(ctx context.Context, id string) (models.Form, error) {
	form, err := s.forms.FindByID(ctx, id)
	if errors.Is(err, sentinel.ErrNotFound) {
		return models.Form{}, dErrors.New(dErrors.CodeNotFound, "form not found")
	}
	if err != nil {
		return models.Form{}, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load form")
	}
	return form, nil
}

// CreateFormInput carries the fields accepted when creating a template.
type CreateFormInput struct {
	Name      string
	Questions []models.Question
}

func (s *Service) CreateForm(ctx context.Context, in CreateFormInput) (models.Form, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		name = "Untitled Form"
	}

	questions, err := normalizeQuestions(in.Questions)
	if err != nil {
		return models.Form{}, err
	}

	form := models.Form{
		ID:        uuid.NewString(),
		Name:      name,
		Questions: questions,
		CreatedAt: requestcontext.Now(ctx),
	}
	if err := s.forms.Create(ctx, form); err != nil {
		return models.Form{}, dErrors.Wrap(err, dErrors.CodeInternal, "failed to create form")
	}
	return form, nil
}

func (s *Service) UpdateForm(ctx context.Context, id string, patch models.FormPatch) (models.Form, error) {
	if patch.Questions != nil {
		questions, err := normalizeQuestions(*patch.Questions)
		if err != nil {
			return models.Form{}, err
		}
		patch.Questions = &questions
	}
	updated, err := s.forms.Update(ctx, id, patch)
	if errors.Is(err, sentinel.ErrNotFound) {
		return models.Form{}, dErrors.New(dErrors.CodeNotFound, "form not found")
	}
	if err != nil {
		return models.Form{}, dErrors.Wrap(err, dErrors.CodeInternal, "failed to update form")
	}
	return updated, nil
}

// DeleteForm removes a template. Links and transfers that still reference it
// are left in place; their lookups resolve to "no form".
func (s *Service) DeleteForm(ctx context.Context, id string) error {
	if err := s.forms.Delete(ctx, id); err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to delete form")
	}
	return nil
}

// normalizeQuestions fills defaults: a generated id when the client supplied
// none and the capitalized type name as label. Question order is preserved.
func normalizeQuestions(in []models.Question) ([]models.Question, error) {
	out := make([]models.Question, 0, len(in))
	for _, q := range in {
		if !q.Type.Valid() {
			return nil, dErrors.New(dErrors.CodeValidation, "Unknown question type.")
		}
		if q.ID == "" {
			q.ID = uuid.NewString()
		}
		if strings.TrimSpace(q.Label) == "" {
			q.Label = q.Type.DefaultLabel()
		}
		out = append(out, q)
	}
	return out, nil
}
