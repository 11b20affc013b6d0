// Package apperr defines the closed set of application error kinds and the
// HTTP status each maps to. Services and middleware classify failures into
// these values; the error-handler middleware turns them into responses.
package apperr

import (
	"fmt"
	"net/http"
)

// Kind tags an application error category.
type Kind int

const (
	KindBadRequest Kind = iota
	KindUnauthorized
	KindForbidden
	KindNotFound
	KindConflict
	KindInternal
)

func (k Kind) status() int {
	switch k {
	case KindBadRequest:
		return http.StatusBadRequest
	case KindUnauthorized:
		return http.StatusUnauthorized
	case KindForbidden:
		return http.StatusForbidden
	case KindNotFound:
		return http.StatusNotFound
	case KindConflict:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// Error is a classified application error. Operational errors are expected
// runtime conditions (bad input, wrong credentials, duplicates) and get
// logged at warn level; non-operational ones indicate bugs or backend
// failures and get logged with full detail.
type Error struct {
	Kind        Kind
	Status      int
	Message     string // client-safe
	Operational bool
	Details     any
	Err         error // wrapped cause, never sent to clients
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Err }

func newError(kind Kind, msg string, operational bool) *Error {
	return &Error{Kind: kind, Status: kind.status(), Message: msg, Operational: operational}
}

// WithDetails attaches client-visible details (e.g. validation violations).
func (e *Error) WithDetails(details any) *Error {
	e.Details = details
	return e
}

// Wrap records the underlying cause without exposing it to clients.
func (e *Error) Wrap(err error) *Error {
	e.Err = err
	return e
}

func BadRequest(msg string) *Error   { return newError(KindBadRequest, msg, true) }
func Unauthorized(msg string) *Error { return newError(KindUnauthorized, msg, true) }
func Forbidden(msg string) *Error    { return newError(KindForbidden, msg, true) }
func NotFound(msg string) *Error     { return newError(KindNotFound, msg, true) }
func Conflict(msg string) *Error     { return newError(KindConflict, msg, true) }

// Internal builds a non-operational error with a generic client message.
func Internal(msg string) *Error { return newError(KindInternal, msg, false) }
