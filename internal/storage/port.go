// Package storage defines the persistence port the entity stores are built on:
// a small key-value contract holding one JSON blob per collection. Every store
// operation is a full read-modify-write cycle against its blob; the last write
// wins. Implementations exist for memory (tests, dev), Redis, and PostgreSQL.
package storage

import "context"

// Port is the persistence contract injected into every entity store.
// Get returns sentinel.ErrNotFound when the key has never been written.
type Port interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Put(ctx context.Context, key string, value []byte) error
}

// Collection keys for the four core blobs plus the registry supplement.
// Stable strings: they name persisted data, not Go identifiers.
const (
	KeyRecipients = "recipients"
	KeyUsers      = "users"
	KeyForms      = "forms"
	KeyLinks      = "links"
	KeyTransfers  = "transfers"
	KeyDocuments  = "documents"
)
