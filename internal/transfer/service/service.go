// Package service is the transfer engine: it creates transfers, drives their
// lifecycle state machine, and answers the visibility-scoped queries the
// records views are built on.
package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/google/uuid"

	"docroute/internal/platform/metrics"
	"docroute/internal/transfer/models"
	dErrors "docroute/pkg/domain-errors"
	"docroute/pkg/platform/sentinel"
	"docroute/pkg/requestcontext"
)

// TransferStore is the persistence contract the engine needs.
type TransferStore interface {
	List(ctx context.Context) ([]models.Transfer, error)
	FindByID(ctx context.Context, id string) (models.Transfer, error)
	Create(ctx context.Context, transfer models.Transfer) error
	Execute(ctx context.Context, id string, validate func(*models.Transfer) error, mutate func(*models.Transfer)) (models.Transfer, error)
}

// UserDirectory supplies the known user ids that separate internal
// (person-to-person) transfers from division-addressed ones.
type UserDirectory interface {
	UserIDs(ctx context.Context) (map[string]bool, error)
}

// ViewerRef identifies a user in query scope terms.
type ViewerRef struct {
	ID       string
	Username string
	Division string
}

type Service struct {
	transfers TransferStore
	directory UserDirectory
	events    *broadcaster
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

func New(transfers TransferStore, directory UserDirectory, opts ...Option) (*Service, error) {
	if transfers == nil {
		return nil, fmt.Errorf("transfer store is required")
	}
	if directory == nil {
		return nil, fmt.Errorf("user directory is required")
	}
	svc := &Service{
		transfers: transfers,
		directory: directory,
		events:    newBroadcaster(),
		logger:    slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(svc)
	}
	return svc, nil
}

// Subscribe registers a listener for transfer lifecycle events and returns
// its unsubscribe function. Listeners typically trigger a re-query (inbox
// badge, records view); delivery is best-effort.
func (s *Service) Subscribe(fn func(Event)) func() {
	return s.events.subscribe(fn)
}

// CreateTransferInput carries the sender's submission. FormData keys are the
// answer keys of the form bound to the recipient at submission time.
type CreateTransferInput struct {
	RecipientID   string
	RecipientName string
	FormID        string
	SentBy        string
	SentByName    string
	FormData      map[string]string
}

// Create stores a new pending transfer. Recipient and form ids are taken as
// given without referential checks: the recipient may be an ephemeral
// internal user id, and a form deleted later must not invalidate the record.
func (s *Service) Create(ctx context.Context, in CreateTransferInput) (models.Transfer, error) {
	formData := in.FormData
	if formData == nil {
		formData = map[string]string{}
	}
	transfer := models.Transfer{
		ID:             uuid.NewString(),
		RecipientID:    in.RecipientID,
		RecipientName:  in.RecipientName,
		FormID:         in.FormID,
		SentBy:         in.SentBy,
		SentByName:     in.SentByName,
		FormData:       formData,
		Status:         models.StatusPending,
		CorrectionNote: "",
		CreatedAt:      requestcontext.Now(ctx),
	}
	if err := s.transfers.Create(ctx, transfer); err != nil {
		return models.Transfer{}, dErrors.Wrap(err, dErrors.CodeInternal, "failed to create transfer")
	}

	if s.metrics != nil {
		s.metrics.TransfersCreated.Inc()
	}
	s.logger.InfoContext(ctx, "transfer created",
		"transfer_id", transfer.ID, "recipient_id", transfer.RecipientID)
	s.events.publish(Event{Kind: EventCreated, Transfer: transfer})
	return transfer, nil
}

// Accept transitions a pending transfer to accepted. Accepting an
// already-accepted transfer is a no-op; accepting a cancelled one fails with
// a conflict.
func (s *Service) Accept(ctx context.Context, id string) (models.Transfer, error) {
	var applied bool
	updated, err := s.transfers.Execute(ctx, id,
		func(t *models.Transfer) error {
			return t.CanAccept()
		},
		func(t *models.Transfer) {
			applied = t.Status != models.StatusAccepted
			t.ApplyAccept()
		},
	)
	if err != nil {
		return models.Transfer{}, s.wrapTransitionErr(err, "accept")
	}

	if applied {
		if s.metrics != nil {
			s.metrics.TransfersAccepted.Inc()
		}
		s.logger.InfoContext(ctx, "transfer accepted", "transfer_id", id)
		s.events.publish(Event{Kind: EventAccepted, Transfer: updated})
	}
	return updated, nil
}

// Cancel transitions a pending transfer to cancelled. Cancelling an
// already-cancelled transfer is a no-op; cancelling an accepted one fails
// with a conflict.
func (s *Service) Cancel(ctx context.Context, id string) (models.Transfer, error) {
	var applied bool
	updated, err := s.transfers.Execute(ctx, id,
		func(t *models.Transfer) error {
			return t.CanCancel()
		},
		func(t *models.Transfer) {
			applied = t.Status != models.StatusCancelled
			t.ApplyCancel()
		},
	)
	if err != nil {
		return models.Transfer{}, s.wrapTransitionErr(err, "cancel")
	}

	if applied {
		if s.metrics != nil {
			s.metrics.TransfersCancelled.Inc()
		}
		s.logger.InfoContext(ctx, "transfer cancelled", "transfer_id", id)
		s.events.publish(Event{Kind: EventCancelled, Transfer: updated})
	}
	return updated, nil
}

// SetCorrectionNote attaches a note to a transfer, typically when a recipient
// sends one back for correction.
func (s *Service) SetCorrectionNote(ctx context.Context, id, note string) (models.Transfer, error) {
	updated, err := s.transfers.Execute(ctx, id,
		func(*models.Transfer) error { return nil },
		func(t *models.Transfer) { t.CorrectionNote = note },
	)
	if err != nil {
		return models.Transfer{}, s.wrapTransitionErr(err, "annotate")
	}
	return updated, nil
}

func (s *Service) wrapTransitionErr(err error, op string) error {
	if errors.Is(err, sentinel.ErrNotFound) {
		return dErrors.New(dErrors.CodeNotFound, "Transfer not found")
	}
	if dErrors.HasCode(err, dErrors.CodeConflict) {
		return err
	}
	return dErrors.Wrap(err, dErrors.CodeInternal, "failed to "+op+" transfer")
}

// Get returns one transfer by id.
func (s *Service) Get(ctx context.Context, id string) (models.Transfer, error) {
	t, err := s.transfers.FindByID(ctx, id)
	if errors.Is(err, sentinel.ErrNotFound) {
		return models.Transfer{}, dErrors.New(dErrors.CodeNotFound, "Transfer not found")
	}
	if err != nil {
		return models.Transfer{}, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load transfer")
	}
	return t, nil
}
