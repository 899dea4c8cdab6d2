// Package models defines form templates and their typed questions, plus the
// answer-key resolution used to write and read transfer form data.
package models

import (
	"strings"
	"time"
)

// QuestionType is the input kind a question collects.
type QuestionType string

const (
	QuestionDate  QuestionType = "date"
	QuestionShort QuestionType = "short"
	QuestionLong  QuestionType = "long"
)

func (t QuestionType) Valid() bool {
	switch t {
	case QuestionDate, QuestionShort, QuestionLong:
		return true
	}
	return false
}

// DefaultLabel is the label applied when a question is added without one:
// the capitalized type name ("short" -> "Short").
func (t QuestionType) DefaultLabel() string {
	s := string(t)
	if s == "" {
		return ""
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

// Question is one field of a form. Question order within a form is
// significant: it defines display column order and answer-key order.
type Question struct {
	ID    string       `json:"id"`
	Type  QuestionType `json:"type"`
	Label string       `json:"label"`
}

// Form is a named ordered list of questions. A form may be linked to any
// number of recipients; the link registry keeps at most one form per
// recipient.
type Form struct {
	ID        string     `json:"id"`
	Name      string     `json:"name"`
	Questions []Question `json:"questions"`
	CreatedAt time.Time  `json:"createdAt"`
}

// FormPatch carries partial updates; nil fields are left unchanged.
type FormPatch struct {
	Name      *string     `json:"name"`
	Questions *[]Question `json:"questions"`
}

// Placeholder shown for answers that were never written.
const MissingAnswer = "—"
