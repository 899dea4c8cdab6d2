// Package store persists recipients and users through the storage port.
// Every mutation is a full read-modify-write cycle against the collection
// blob; a store-level mutex keeps cycles from interleaving in-process.
package store

import (
	"context"
	"strings"
	"sync"

	"docroute/internal/directory/models"
	"docroute/internal/storage"
	"docroute/pkg/platform/sentinel"
)

type RecipientStore struct {
	mu   sync.Mutex
	coll *storage.Collection[models.Recipient]
}

func NewRecipientStore(port storage.Port) *RecipientStore {
	return &RecipientStore{coll: storage.NewCollection[models.Recipient](port, storage.KeyRecipients)}
}

func (s *RecipientStore) List(ctx context.Context) ([]models.Recipient, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.coll.Load(ctx)
}

func (s *RecipientStore) FindByID(ctx context.Context, id string) (models.Recipient, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	list, err := s.coll.Load(ctx)
	if err != nil {
		return models.Recipient{}, err
	}
	for _, r := range list {
		if r.ID == id {
			return r, nil
		}
	}
	return models.Recipient{}, sentinel.ErrNotFound
}

func (s *RecipientStore) Create(ctx context.Context, recipient models.Recipient) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	list, err := s.coll.Load(ctx)
	if err != nil {
		return err
	}
	return s.coll.Save(ctx, append(list, recipient))
}

// EnsureBuiltin prepends the built-in "User" recipient when absent. Used by
// the one-time seed step.
func (s *RecipientStore) EnsureBuiltin(ctx context.Context, builtin models.Recipient) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	list, err := s.coll.Load(ctx)
	if err != nil {
		return err
	}
	for _, r := range list {
		if r.ID == builtin.ID {
			return nil
		}
	}
	return s.coll.Save(ctx, append([]models.Recipient{builtin}, list...))
}

func (s *RecipientStore) Update(ctx context.Context, id string, patch models.RecipientPatch) (models.Recipient, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	list, err := s.coll.Load(ctx)
	if err != nil {
		return models.Recipient{}, err
	}
	for i := range list {
		if list[i].ID != id {
			continue
		}
		if patch.Name != nil {
			list[i].Name = *patch.Name
		}
		if err := s.coll.Save(ctx, list); err != nil {
			return models.Recipient{}, err
		}
		return list[i], nil
	}
	return models.Recipient{}, sentinel.ErrNotFound
}

// Delete removes a recipient. Deleting the built-in "User" recipient is
// refused with ErrProtected; deleting an unknown id is a no-op.
func (s *RecipientStore) Delete(ctx context.Context, id string) error {
	if id == models.UserRecipientID {
		return sentinel.ErrProtected
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	list, err := s.coll.Load(ctx)
	if err != nil {
		return err
	}
	kept := list[:0]
	for _, r := range list {
		if r.ID != id {
			kept = append(kept, r)
		}
	}
	return s.coll.Save(ctx, kept)
}

type UserStore struct {
	mu   sync.Mutex
	coll *storage.Collection[models.User]
}

func NewUserStore(port storage.Port) *UserStore {
	return &UserStore{coll: storage.NewCollection[models.User](port, storage.KeyUsers)}
}

func (s *UserStore) List(ctx context.Context) ([]models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.coll.Load(ctx)
}

func (s *UserStore) FindByID(ctx context.Context, id string) (models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	list, err := s.coll.Load(ctx)
	if err != nil {
		return models.User{}, err
	}
	for _, u := range list {
		if u.ID == id {
			return u, nil
		}
	}
	return models.User{}, sentinel.ErrNotFound
}

// FindByUsername matches case-insensitively on the trimmed username.
func (s *UserStore) FindByUsername(ctx context.Context, username string) (models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	list, err := s.coll.Load(ctx)
	if err != nil {
		return models.User{}, err
	}
	want := strings.ToLower(strings.TrimSpace(username))
	for _, u := range list {
		if strings.ToLower(strings.TrimSpace(u.Username)) == want {
			return u, nil
		}
	}
	return models.User{}, sentinel.ErrNotFound
}

// ListByDivision returns users whose division matches exactly after trimming.
func (s *UserStore) ListByDivision(ctx context.Context, division string) ([]models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	list, err := s.coll.Load(ctx)
	if err != nil {
		return nil, err
	}
	want := strings.TrimSpace(division)
	var out []models.User
	for _, u := range list {
		if u.Division != "" && strings.TrimSpace(u.Division) == want {
			out = append(out, u)
		}
	}
	return out, nil
}

func (s *UserStore) Create(ctx context.Context, user models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	list, err := s.coll.Load(ctx)
	if err != nil {
		return err
	}
	return s.coll.Save(ctx, append(list, user))
}

func (s *UserStore) Update(ctx context.Context, id string, patch models.UserPatch) (models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	list, err := s.coll.Load(ctx)
	if err != nil {
		return models.User{}, err
	}
	for i := range list {
		if list[i].ID != id {
			continue
		}
		applyUserPatch(&list[i], patch)
		if err := s.coll.Save(ctx, list); err != nil {
			return models.User{}, err
		}
		return list[i], nil
	}
	return models.User{}, sentinel.ErrNotFound
}

// Replace overwrites the stored user with the same id. Used by the seed step
// to reset demo accounts while preserving their ids.
func (s *UserStore) Replace(ctx context.Context, user models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	list, err := s.coll.Load(ctx)
	if err != nil {
		return err
	}
	for i := range list {
		if list[i].ID == user.ID {
			list[i] = user
			return s.coll.Save(ctx, list)
		}
	}
	return sentinel.ErrNotFound
}

// Delete removes a user; deleting an unknown id is a no-op.
func (s *UserStore) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	list, err := s.coll.Load(ctx)
	if err != nil {
		return err
	}
	kept := list[:0]
	for _, u := range list {
		if u.ID != id {
			kept = append(kept, u)
		}
	}
	return s.coll.Save(ctx, kept)
}

func applyUserPatch(u *models.User, patch models.UserPatch) {
	if patch.Username != nil {
		u.Username = strings.TrimSpace(*patch.Username)
	}
	// Password changes only when a non-blank value is supplied; stored trimmed
	// so login comparison works.
	if patch.Password != nil {
		if trimmed := strings.TrimSpace(*patch.Password); trimmed != "" {
			u.Password = trimmed
		}
	}
	if patch.Role != nil {
		u.Role = *patch.Role
	}
	if patch.Division != nil {
		u.Division = strings.TrimSpace(*patch.Division)
	}
	if patch.Name != nil {
		u.Name = strings.TrimSpace(*patch.Name)
	}
}
