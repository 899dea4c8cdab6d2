// Package adapters bridges the transfer engine to the directory without a
// package-level dependency on directory internals.
package adapters

import (
	"context"

	dirmodels "docroute/internal/directory/models"
)

// DirectoryUserStore is the slice of the directory user store the transfer
// engine needs.
type DirectoryUserStore interface {
	List(ctx context.Context) ([]dirmodels.User, error)
}

// UserDirectoryAdapter adapts the directory user store to the engine's
// UserDirectory interface.
type UserDirectoryAdapter struct {
	store DirectoryUserStore
}

func NewUserDirectoryAdapter(store DirectoryUserStore) *UserDirectoryAdapter {
	return &UserDirectoryAdapter{store: store}
}

// UserIDs returns the set of known user ids. Transfers addressed to one of
// these ids are internal (person-to-person) traffic.
func (a *UserDirectoryAdapter) UserIDs(ctx context.Context) (map[string]bool, error) {
	users, err := a.store.List(ctx)
	if err != nil {
		return nil, err
	}
	ids := make(map[string]bool, len(users))
	for _, u := range users {
		ids[u.ID] = true
	}
	return ids, nil
}
