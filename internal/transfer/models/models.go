// Package models defines the transfer record and its lifecycle state machine.
package models

import (
	"time"

	dErrors "docroute/pkg/domain-errors"
)

// Status is the transfer lifecycle state.
//
// Transitions: pending -> accepted (recipient accept), pending -> cancelled
// (sender cancel). accepted and cancelled are terminal. Re-applying the state
// a transfer is already in is a no-op; crossing terminal states is a conflict.
type Status string

const (
	StatusPending   Status = "pending"
	StatusAccepted  Status = "accepted"
	StatusCancelled Status = "cancelled"
)

func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusAccepted, StatusCancelled:
		return true
	}
	return false
}

// Terminal reports whether no further transition can leave this status.
func (s Status) Terminal() bool {
	return s == StatusAccepted || s == StatusCancelled
}

// Transfer is a record of form data sent to a recipient.
//
// RecipientName and SentByName are point-in-time denormalized snapshots, not
// live references: renaming a recipient or user later does not rewrite
// historical transfers. FormData keys align with the linked form's question
// keys as they were at creation time; the values are never re-validated
// against a since-edited form.
type Transfer struct {
	ID             string            `json:"id"`
	RecipientID    string            `json:"recipientId"`
	RecipientName  string            `json:"recipientName"`
	FormID         string            `json:"formId"`
	SentBy         string            `json:"sentBy"`
	SentByName     string            `json:"sentByName"`
	FormData       map[string]string `json:"formData"`
	Status         Status            `json:"status"`
	CorrectionNote string            `json:"correctionNote"`
	CreatedAt      time.Time         `json:"createdAt"`
}

// CanAccept checks the accept transition. Accepting an already-accepted
// transfer is allowed (idempotent no-op); accepting a cancelled one is not.
func (t *Transfer) CanAccept() error {
	if t.Status == StatusCancelled {
		return dErrors.New(dErrors.CodeConflict, "transfer is cancelled")
	}
	return nil
}

// ApplyAccept transitions the transfer to accepted.
// Call CanAccept first to validate the transition.
func (t *Transfer) ApplyAccept() {
	t.Status = StatusAccepted
}

// CanCancel checks the cancel transition. Cancelling an already-cancelled
// transfer is allowed (idempotent no-op); cancelling an accepted one is not.
func (t *Transfer) CanCancel() error {
	if t.Status == StatusAccepted {
		return dErrors.New(dErrors.CodeConflict, "transfer is already accepted")
	}
	return nil
}

// ApplyCancel transitions the transfer to cancelled.
// Call CanCancel first to validate the transition.
func (t *Transfer) ApplyCancel() {
	t.Status = StatusCancelled
}
