package service

import (
	"context"

	"docroute/internal/transfer/models"
	dErrors "docroute/pkg/domain-errors"
)

// ListForRecipient returns every transfer addressed to the recipient id,
// regardless of status.
func (s *Service) ListForRecipient(ctx context.Context, recipientID string) ([]models.Transfer, error) {
	return s.filter(ctx, func(t models.Transfer) bool {
		return t.RecipientID == recipientID
	})
}

// ListPendingForTarget returns the actionable inbox for a recipient or user:
// pending transfers whose recipient id or denormalized recipient name equals
// the identifier.
func (s *Service) ListPendingForTarget(ctx context.Context, identifier string) ([]models.Transfer, error) {
	return s.filter(ctx, func(t models.Transfer) bool {
		return t.Status == models.StatusPending &&
			(t.RecipientID == identifier || t.RecipientName == identifier)
	})
}

// ListInternalAll returns transfers addressed to a known user id — internal,
// person-to-person traffic as opposed to division-addressed records.
func (s *Service) ListInternalAll(ctx context.Context) ([]models.Transfer, error) {
	userIDs, err := s.directory.UserIDs(ctx)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list user ids")
	}
	return s.filter(ctx, func(t models.Transfer) bool {
		return userIDs[t.RecipientID]
	})
}

// ListInternalForUser narrows the internal set to one user: transfers sent to
// them, or sent by them under either their id or their username.
func (s *Service) ListInternalForUser(ctx context.Context, viewer ViewerRef) ([]models.Transfer, error) {
	internal, err := s.ListInternalAll(ctx)
	if err != nil {
		return nil, err
	}
	var out []models.Transfer
	for _, t := range internal {
		if involvesViewer(t, viewer) {
			out = append(out, t)
		}
	}
	return out, nil
}

// ListAccepted returns the completed (accepted) transfers.
func (s *Service) ListAccepted(ctx context.Context) ([]models.Transfer, error) {
	return s.filter(ctx, func(t models.Transfer) bool {
		return t.Status == models.StatusAccepted
	})
}

// ListAcceptedForRecipient returns completed transfers for one recipient.
func (s *Service) ListAcceptedForRecipient(ctx context.Context, recipientID string) ([]models.Transfer, error) {
	return s.filter(ctx, func(t models.Transfer) bool {
		return t.Status == models.StatusAccepted && t.RecipientID == recipientID
	})
}

// ListAcceptedForUser returns completed transfers involving a user: sent by
// them (id or username) or received by their division.
func (s *Service) ListAcceptedForUser(ctx context.Context, viewer ViewerRef) ([]models.Transfer, error) {
	return s.filter(ctx, func(t models.Transfer) bool {
		return t.Status == models.StatusAccepted &&
			(t.SentBy == viewer.ID || t.SentBy == viewer.Username || t.RecipientName == viewer.Division)
	})
}

// ListAcceptedInternal returns completed internal transfers.
func (s *Service) ListAcceptedInternal(ctx context.Context) ([]models.Transfer, error) {
	internal, err := s.ListInternalAll(ctx)
	if err != nil {
		return nil, err
	}
	var out []models.Transfer
	for _, t := range internal {
		if t.Status == models.StatusAccepted {
			out = append(out, t)
		}
	}
	return out, nil
}

// ListAcceptedInternalForUser returns completed internal transfers sent to or
// by one user.
func (s *Service) ListAcceptedInternalForUser(ctx context.Context, viewer ViewerRef) ([]models.Transfer, error) {
	accepted, err := s.ListAcceptedInternal(ctx)
	if err != nil {
		return nil, err
	}
	var out []models.Transfer
	for _, t := range accepted {
		if involvesViewer(t, viewer) {
			out = append(out, t)
		}
	}
	return out, nil
}

func involvesViewer(t models.Transfer, viewer ViewerRef) bool {
	return t.RecipientID == viewer.ID || t.SentBy == viewer.ID || t.SentBy == viewer.Username
}

func (s *Service) filter(ctx context.Context, keep func(models.Transfer) bool) ([]models.Transfer, error) {
	list, err := s.transfers.List(ctx)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list transfers")
	}
	var out []models.Transfer
	for _, t := range list {
		if keep(t) {
			out = append(out, t)
		}
	}
	return out, nil
}
