// Package models defines the recipient-to-form binding.
package models

import "time"

// Link binds one form to one recipient: "this recipient's inbox form is this
// form". The registry keeps at most one link per recipient; setting a new
// form for an already-linked recipient overwrites the existing row's formId
// and keeps its id.
type Link struct {
	ID          string    `json:"id"`
	RecipientID string    `json:"recipientId"`
	FormID      string    `json:"formId"`
	CreatedAt   time.Time `json:"createdAt"`
}
