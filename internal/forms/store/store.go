// Package store persists form templates through the storage port.
package store

import (
	"context"
	"sync"

	"docroute/internal/forms/models"
	"docroute/internal/storage"
	"docroute/pkg/platform/sentinel"
)

type FormStore struct {
	mu   sync.Mutex
	coll *storage.Collection[models.Form]
}

func NewFormStore(port storage.Port) *FormStore {
	return &FormStore{coll: storage.NewCollection[models.Form](port, storage.KeyForms)}
}

func (s *FormStore) List(ctx context.Context) ([]models.Form, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.coll.Load(ctx)
}

func (s *FormStore) FindByID(ctx context.Context, id string) (models.Form, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	list, err := s.coll.Load(ctx)
	if err != nil {
		return models.Form{}, err
	}
	for _, f := range list {
		if f.ID == id {
			return f, nil
		}
	}
	return models.Form{}, sentinel.ErrNotFound
}

func (s *FormStore) Create(ctx context.Context, form models.Form) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	list, err := s.coll.Load(ctx)
	if err != nil {
		return err
	}
	return s.coll.Save(ctx, append(list, form))
}

func (s *FormStore) Update(ctx context.Context, id string, patch models.FormPatch) (models.Form, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	list, err := s.coll.Load(ctx)
	if err != nil {
		return models.Form{}, err
	}
	for i := range list {
		if list[i].ID != id {
			continue
		}
		if patch.Name != nil {
			list[i].Name = *patch.Name
		}
		if patch.Questions != nil {
			list[i].Questions = *patch.Questions
		}
		if err := s.coll.Save(ctx, list); err != nil {
			return models.Form{}, err
		}
		return list[i], nil
	}
	return models.Form{}, sentinel.ErrNotFound
}

// Delete removes a form; deleting an unknown id is a no-op. Links and
// transfers referencing the form are left dangling on purpose.
func (s *FormStore) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	list, err := s.coll.Load(ctx)
	if err != nil {
		return err
	}
	kept := list[:0]
	for _, f := range list {
		if f.ID != id {
			kept = append(kept, f)
		}
	}
	return s.coll.Save(ctx, kept)
}
