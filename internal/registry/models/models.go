// Package models defines the inbound-correspondence registry entry.
package models

import "time"

// DocumentStatus is the registry entry lifecycle.
type DocumentStatus string

const (
	DocumentPending   DocumentStatus = "pending"
	DocumentConfirmed DocumentStatus = "confirmed"
)

// Document logs one piece of inbound correspondence under a category. The
// registry is presentational bookkeeping: entries reference divisions by name
// only and carry no relational constraints.
type Document struct {
	ID              string         `json:"id"`
	Category        string         `json:"category"`
	DateReceived    string         `json:"dateReceived"`
	RegistryNumber  string         `json:"registryNumber"`
	ReceivedFrom    string         `json:"receivedFrom"`
	DateOfLetter    string         `json:"dateOfLetter"`
	NumberOfLetters int            `json:"numberOfLetters"`
	Subject         string         `json:"subject"`
	Signature       string         `json:"signature"`
	Status          DocumentStatus `json:"status"`
	Rejected        bool           `json:"rejected"`
	RejectionNote   string         `json:"rejectionNote"`
	SentTo          string         `json:"sentTo"`
	CreatedBy       string         `json:"createdBy"`
	CreatedAt       time.Time      `json:"createdAt"`
}

// DocumentPatch carries partial updates; nil fields are left unchanged.
type DocumentPatch struct {
	Category        *string         `json:"category"`
	DateReceived    *string         `json:"dateReceived"`
	RegistryNumber  *string         `json:"registryNumber"`
	ReceivedFrom    *string         `json:"receivedFrom"`
	DateOfLetter    *string         `json:"dateOfLetter"`
	NumberOfLetters *int            `json:"numberOfLetters"`
	Subject         *string         `json:"subject"`
	Signature       *string         `json:"signature"`
	Status          *DocumentStatus `json:"status"`
	SentTo          *string         `json:"sentTo"`
}
