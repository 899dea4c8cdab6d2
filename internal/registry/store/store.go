// Package store persists registry documents as a single blob collection.
package store

import (
	"context"
	"sync"

	"docroute/internal/registry/models"
	"docroute/internal/storage"
	"docroute/pkg/platform/sentinel"
)

// DocumentStore provides read-modify-write access to the document log.
type DocumentStore struct {
	mu         sync.Mutex
	collection *storage.Collection[models.Document]
}

func NewDocumentStore(port storage.Port) *DocumentStore {
	return &DocumentStore{collection: storage.NewCollection[models.Document](port, storage.KeyDocuments)}
}

func (s *DocumentStore) List(ctx context.Context) ([]models.Document, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.collection.Load(ctx)
}

func (s *DocumentStore) FindByID(ctx context.Context, id string) (*models.Document, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	documents, err := s.collection.Load(ctx)
	if err != nil {
		return nil, err
	}
	for i := range documents {
		if documents[i].ID == id {
			doc := documents[i]
			return &doc, nil
		}
	}
	return nil, sentinel.ErrNotFound
}

func (s *DocumentStore) Create(ctx context.Context, document models.Document) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	documents, err := s.collection.Load(ctx)
	if err != nil {
		return err
	}
	documents = append(documents, document)
	return s.collection.Save(ctx, documents)
}

func (s *DocumentStore) Update(ctx context.Context, id string, mutate func(*models.Document)) (*models.Document, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	documents, err := s.collection.Load(ctx)
	if err != nil {
		return nil, err
	}
	for i := range documents {
		if documents[i].ID != id {
			continue
		}
		mutate(&documents[i])
		if err := s.collection.Save(ctx, documents); err != nil {
			return nil, err
		}
		doc := documents[i]
		return &doc, nil
	}
	return nil, sentinel.ErrNotFound
}

// Delete removes a document; deleting an unknown id is a no-op.
func (s *DocumentStore) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	documents, err := s.collection.Load(ctx)
	if err != nil {
		return err
	}
	kept := documents[:0]
	for _, doc := range documents {
		if doc.ID != id {
			kept = append(kept, doc)
		}
	}
	if len(kept) == len(documents) {
		return nil
	}
	return s.collection.Save(ctx, kept)
}
