package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"docroute/pkg/platform/sentinel"
)

// Collection is an ordered JSON list persisted under one port key. Entity
// stores load the whole list, mutate a local copy, and save it back — the
// read-modify-write model the stores are specified against.
type Collection[T any] struct {
	port Port
	key  string
}

func NewCollection[T any](port Port, key string) *Collection[T] {
	return &Collection[T]{port: port, key: key}
}

// Load returns the decoded list. A key that has never been written decodes as
// an empty list, not an error.
func (c *Collection[T]) Load(ctx context.Context) ([]T, error) {
	blob, err := c.port.Get(ctx, c.key)
	if errors.Is(err, sentinel.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", c.key, err)
	}
	var items []T
	if err := json.Unmarshal(blob, &items); err != nil {
		return nil, fmt.Errorf("decode %s: %w", c.key, err)
	}
	return items, nil
}

// Save encodes and writes the whole list back. Last write wins.
func (c *Collection[T]) Save(ctx context.Context, items []T) error {
	if items == nil {
		items = []T{}
	}
	blob, err := json.Marshal(items)
	if err != nil {
		return fmt.Errorf("encode %s: %w", c.key, err)
	}
	if err := c.port.Put(ctx, c.key, blob); err != nil {
		return fmt.Errorf("save %s: %w", c.key, err)
	}
	return nil
}
