// Package domainerrors defines coded domain errors shared by services and the
// HTTP layer. Stores return sentinel errors (pkg/platform/sentinel); services
// translate those facts into coded errors that carry a user-presentable message.
package domainerrors

import (
	"errors"
	"fmt"
	"net/http"
)

// Code classifies a domain error for transport mapping and caller branching.
type Code string

const (
	// CodeValidation marks rejected input (missing field, duplicate username,
	// division required). The message is safe to show to the end user verbatim.
	CodeValidation Code = "validation"
	// CodeNotFound marks an operation on a missing id. Non-fatal; callers
	// typically no-op or report.
	CodeNotFound Code = "not_found"
	// CodeConflict marks a state transition or write refused by an invariant.
	CodeConflict Code = "conflict"
	// CodeProtected marks an attempt to remove a built-in entity.
	CodeProtected Code = "protected"
	// CodeBadRequest marks a malformed request before it reaches validation.
	CodeBadRequest Code = "bad_request"
	// CodeUnauthorized marks missing or invalid credentials.
	CodeUnauthorized Code = "unauthorized"
	// CodeForbidden marks a request the viewer's role does not permit.
	CodeForbidden Code = "forbidden"
	// CodeInternal marks unexpected infrastructure failures.
	CodeInternal Code = "internal"
)

// Error is a coded domain error. Message is stable and presentable; Err holds
// the wrapped cause, if any.
type Error struct {
	Code    Code
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *Error) Unwrap() error { return e.Err }

// New builds a coded error with no underlying cause.
func New(code Code, message string) error {
	return &Error{Code: code, Message: message}
}

// Wrap attaches a code and message to an underlying error.
func Wrap(err error, code Code, message string) error {
	return &Error{Code: code, Message: message, Err: err}
}

// HasCode reports whether err (or anything it wraps) carries the given code.
func HasCode(err error, code Code) bool {
	var de *Error
	if errors.As(err, &de) {
		return de.Code == code
	}
	return false
}

// MessageOf returns the presentable message of a coded error, or the empty
// string for uncoded errors.
func MessageOf(err error) string {
	var de *Error
	if errors.As(err, &de) {
		return de.Message
	}
	return ""
}

// ToHTTPStatus maps a code to its HTTP response status. Unknown codes map to
// 500 so uncoded failures never leak as client errors.
func ToHTTPStatus(code Code) int {
	switch code {
	case CodeValidation:
		return http.StatusUnprocessableEntity
	case CodeNotFound:
		return http.StatusNotFound
	case CodeConflict, CodeProtected:
		return http.StatusConflict
	case CodeBadRequest:
		return http.StatusBadRequest
	case CodeUnauthorized:
		return http.StatusUnauthorized
	case CodeForbidden:
		return http.StatusForbidden
	default:
		return http.StatusInternalServerError
	}
}
