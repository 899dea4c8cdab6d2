// Package service owns the correspondence registry rules: logging documents,
// status updates, rejection, and the division-scoped inbox views.
package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"docroute/internal/platform/metrics"
	"docroute/internal/registry/models"
	dErrors "docroute/pkg/domain-errors"
	"docroute/pkg/platform/sentinel"
	"docroute/pkg/requestcontext"
)

// DocumentStore is the persistence contract the service needs.
type DocumentStore interface {
	List(ctx context.Context) ([]models.Document, error)
	FindByID(ctx context.Context, id string) (*models.Document, error)
	Create(ctx context.Context, document models.Document) error
	Update(ctx context.Context, id string, mutate func(*models.Document)) (*models.Document, error)
	Delete(ctx context.Context, id string) error
}

type Service struct {
	documents DocumentStore
	logger    *slog.Logger
	metrics   *metrics.Metrics
}

type Option func(*Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) { s.logger = logger }
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) { s.metrics = m }
}

func New(documents DocumentStore, opts ...Option) (*Service, error) {
	if documents == nil {
		return nil, fmt.Errorf("document store is required")
	}
	svc := &Service{
		documents: documents,
		logger:    slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(svc)
	}
	return svc, nil
}

// Documents lists the log, optionally narrowed to one category.
func (s *Service) Documents(ctx context.Context, category string) ([]models.Document, error) {
	documents, err := s.documents.List(ctx)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list documents")
	}
	if category == "" {
		return documents, nil
	}
	return filter(documents, func(d models.Document) bool {
		return d.Category == category
	}), nil
}

func (s *Service) Document(ctx context.Context, id string) (models.Document, error) {
	doc, err := s.documents.FindByID(ctx, id)
	if errors.Is(err, sentinel.ErrNotFound) {
		return models.Document{}, dErrors.New(dErrors.CodeNotFound, "Document not found")
	}
	if err != nil {
		return models.Document{}, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load document")
	}
	return *doc, nil
}

// CreateDocumentInput carries the fields accepted when logging correspondence.
type CreateDocumentInput struct {
	Category        string
	DateReceived    string
	RegistryNumber  string
	ReceivedFrom    string
	DateOfLetter    string
	NumberOfLetters int
	Subject         string
	Signature       string
	Status          models.DocumentStatus
	SentTo          string
}

func (s *Service) CreateDocument(ctx context.Context, in CreateDocumentInput) (models.Document, error) {
	if strings.TrimSpace(in.Category) == "" {
		return models.Document{}, dErrors.New(dErrors.CodeValidation, "Category is required.")
	}

	status := in.Status
	if status == "" {
		status = models.DocumentPending
	}
	if status != models.DocumentPending && status != models.DocumentConfirmed {
		return models.Document{}, dErrors.New(dErrors.CodeValidation, "Unknown document status.")
	}

	doc := models.Document{
		ID:              uuid.NewString(),
		Category:        in.Category,
		DateReceived:    in.DateReceived,
		RegistryNumber:  in.RegistryNumber,
		ReceivedFrom:    in.ReceivedFrom,
		DateOfLetter:    in.DateOfLetter,
		NumberOfLetters: in.NumberOfLetters,
		Subject:         in.Subject,
		Signature:       in.Signature,
		Status:          status,
		Rejected:        false,
		RejectionNote:   "",
		SentTo:          in.SentTo,
		CreatedBy:       requestcontext.UserID(ctx),
		CreatedAt:       requestcontext.Now(ctx),
	}
	if err := s.documents.Create(ctx, doc); err != nil {
		return models.Document{}, dErrors.Wrap(err, dErrors.CodeInternal, "failed to create document")
	}

	if s.metrics != nil {
		s.metrics.DocumentsLogged.Inc()
	}
	s.logger.InfoContext(ctx, "document logged",
		slog.String("document_id", doc.ID),
		slog.String("category", doc.Category),
	)
	return doc, nil
}

func (s *Service) UpdateDocument(ctx context.Context, id string, patch models.DocumentPatch) (models.Document, error) {
	if patch.Status != nil && *patch.Status != models.DocumentPending && *patch.Status != models.DocumentConfirmed {
		return models.Document{}, dErrors.New(dErrors.CodeValidation, "Unknown document status.")
	}
	updated, err := s.documents.Update(ctx, id, func(doc *models.Document) {
		applyPatch(doc, patch)
	})
	if errors.Is(err, sentinel.ErrNotFound) {
		return models.Document{}, dErrors.New(dErrors.CodeNotFound, "Document not found")
	}
	if err != nil {
		return models.Document{}, dErrors.Wrap(err, dErrors.CodeInternal, "failed to update document")
	}
	return *updated, nil
}

func (s *Service) DeleteDocument(ctx context.Context, id string) error {
	if err := s.documents.Delete(ctx, id); err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to delete document")
	}
	return nil
}

// Reject marks a document rejected with a note. Rejection is independent of
// status: a confirmed document can still be rejected.
func (s *Service) Reject(ctx context.Context, id, note string) (models.Document, error) {
	rejected, err := s.documents.Update(ctx, id, func(doc *models.Document) {
		doc.Rejected = true
		doc.RejectionNote = note
	})
	if errors.Is(err, sentinel.ErrNotFound) {
		return models.Document{}, dErrors.New(dErrors.CodeNotFound, "Document not found")
	}
	if err != nil {
		return models.Document{}, dErrors.Wrap(err, dErrors.CodeInternal, "failed to reject document")
	}
	s.logger.InfoContext(ctx, "document rejected", slog.String("document_id", id))
	return *rejected, nil
}

// Incoming lists documents routed to a division that have not been rejected.
func (s *Service) Incoming(ctx context.Context, division string) ([]models.Document, error) {
	documents, err := s.documents.List(ctx)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list documents")
	}
	return filter(documents, func(d models.Document) bool {
		return d.SentTo == division && !d.Rejected
	}), nil
}

// Rejected lists rejected documents, optionally narrowed to one division.
func (s *Service) Rejected(ctx context.Context, division string) ([]models.Document, error) {
	documents, err := s.documents.List(ctx)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list documents")
	}
	return filter(documents, func(d models.Document) bool {
		if !d.Rejected {
			return false
		}
		return division == "" || d.SentTo == division
	}), nil
}

// Completed lists confirmed documents. A division narrows to documents either
// routed to it or filed under its category.
func (s *Service) Completed(ctx context.Context, division string) ([]models.Document, error) {
	documents, err := s.documents.List(ctx)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list documents")
	}
	return filter(documents, func(d models.Document) bool {
		if d.Status != models.DocumentConfirmed {
			return false
		}
		return division == "" || d.SentTo == division || d.Category == division
	}), nil
}

func applyPatch(doc *models.Document, patch models.DocumentPatch) {
	if patch.Category != nil {
		doc.Category = *patch.Category
	}
	if patch.DateReceived != nil {
		doc.DateReceived = *patch.DateReceived
	}
	if patch.RegistryNumber != nil {
		doc.RegistryNumber = *patch.RegistryNumber
	}
	if patch.ReceivedFrom != nil {
		doc.ReceivedFrom = *patch.ReceivedFrom
	}
	if patch.DateOfLetter != nil {
		doc.DateOfLetter = *patch.DateOfLetter
	}
	if patch.NumberOfLetters != nil {
		doc.NumberOfLetters = *patch.NumberOfLetters
	}
	if patch.Subject != nil {
		doc.Subject = *patch.Subject
	}
	if patch.Signature != nil {
		doc.Signature = *patch.Signature
	}
	if patch.Status != nil {
		doc.Status = *patch.Status
	}
	if patch.SentTo != nil {
		doc.SentTo = *patch.SentTo
	}
}

func filter(in []models.Document, keep func(models.Document) bool) []models.Document {
	out := make([]models.Document, 0, len(in))
	for _, d := range in {
		if keep(d) {
			out = append(out, d)
		}
	}
	return out
}
