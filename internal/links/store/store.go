// Package store persists recipient-form links through the storage port.
package store

import (
	"context"
	"sync"

	"docroute/internal/links/models"
	"docroute/internal/storage"
	"docroute/pkg/platform/sentinel"
)

type LinkStore struct {
	mu   sync.Mutex
	coll *storage.Collection[models.Link]
}

func NewLinkStore(port storage.Port) *LinkStore {
	return &LinkStore{coll: storage.NewCollection[models.Link](port, storage.KeyLinks)}
}

func (s *LinkStore) List(ctx context.Context) ([]models.Link, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.coll.Load(ctx)
}

func (s *LinkStore) FindByRecipient(ctx context.Context, recipientID string) (models.Link, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	list, err := s.coll.Load(ctx)
	if err != nil {
		return models.Link{}, err
	}
	for _, l := range list {
		if l.RecipientID == recipientID {
			return l, nil
		}
	}
	return models.Link{}, sentinel.ErrNotFound
}

// Upsert stores the link for link.RecipientID. When the recipient is already
// linked the existing row keeps its id and createdAt; only the formId is
// overwritten. Last write wins.
func (s *LinkStore) Upsert(ctx context.Context, link models.Link) (models.Link, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	list, err := s.coll.Load(ctx)
	if err != nil {
		return models.Link{}, err
	}
	for i := range list {
		if list[i].RecipientID == link.RecipientID {
			list[i].FormID = link.FormID
			if err := s.coll.Save(ctx, list); err != nil {
				return models.Link{}, err
			}
			return list[i], nil
		}
	}
	if err := s.coll.Save(ctx, append(list, link)); err != nil {
		return models.Link{}, err
	}
	return link, nil
}

// Delete removes a link by its own id; deleting an unknown id is a no-op.
func (s *LinkStore) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	list, err := s.coll.Load(ctx)
	if err != nil {
		return err
	}
	kept := list[:0]
	for _, l := range list {
		if l.ID != id {
			kept = append(kept, l)
		}
	}
	return s.coll.Save(ctx, kept)
}
