package sentinel

import "errors"

// Sentinel errors for infrastructure facts. Stores and the storage port return
// these (optionally wrapped) so services can translate them into domain errors.
//
// These represent factual states about resources, not validation failures:
// - ErrNotFound: entity or blob does not exist in the store
// - ErrConflict: write refused because it would collide with existing state
// - ErrInvalidState: entity in wrong lifecycle state for the operation
// - ErrProtected: entity is a built-in the store refuses to remove
// - ErrUnavailable: backing store temporarily unreachable
//
// For validation errors (bad input, missing fields), use pkg/domain-errors directly.
var (
	ErrNotFound     = errors.New("not found")
	ErrConflict     = errors.New("conflict")
	ErrInvalidState = errors.New("invalid state")
	ErrProtected    = errors.New("protected")
	ErrUnavailable  = errors.New("unavailable")
)
