// Package store persists transfers through the storage port.
package store

import (
	"context"
	"sync"

	"docroute/internal/storage"
	"docroute/internal/transfer/models"
	"docroute/pkg/platform/sentinel"
)

type TransferStore struct {
	mu   sync.Mutex
	coll *storage.Collection[models.Transfer]
}

func NewTransferStore(port storage.Port) *TransferStore {
	return &TransferStore{coll: storage.NewCollection[models.Transfer](port, storage.KeyTransfers)}
}

func (s *TransferStore) List(ctx context.Context) ([]models.Transfer, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.coll.Load(ctx)
}

func (s *TransferStore) FindByID(ctx context.Context, id string) (models.Transfer, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	list, err := s.coll.Load(ctx)
	if err != nil {
		return models.Transfer{}, err
	}
	for _, t := range list {
		if t.ID == id {
			return t, nil
		}
	}
	return models.Transfer{}, sentinel.ErrNotFound
}

func (s *TransferStore) Create(ctx context.Context, transfer models.Transfer) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	list, err := s.coll.Load(ctx)
	if err != nil {
		return err
	}
	return s.coll.Save(ctx, append(list, transfer))
}

// Execute atomically validates and mutates the transfer with the given id:
// the store lock is held across both callbacks so no other cycle can
// interleave between the guard check and the write. Returns the mutated
// transfer, or ErrNotFound when the id is absent.
func (s *TransferStore) Execute(ctx context.Context, id string, validate func(*models.Transfer) error, mutate func(*models.Transfer)) (models.Transfer, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	list, err := s.coll.Load(ctx)
	if err != nil {
		return models.Transfer{}, err
	}
	for i := range list {
		if list[i].ID != id {
			continue
		}
		if err := validate(&list[i]); err != nil {
			return models.Transfer{}, err
		}
		mutate(&list[i])
		if err := s.coll.Save(ctx, list); err != nil {
			return models.Transfer{}, err
		}
		return list[i], nil
	}
	return models.Transfer{}, sentinel.ErrNotFound
}
