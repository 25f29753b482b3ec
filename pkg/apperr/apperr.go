// Package apperr defines the typed errors shared by the workflow engines.
// Handlers map the kind to an HTTP status; engines wrap the underlying
// cause so callers can still unwrap driver errors.
package apperr

import (
	"errors"
	"fmt"
)

type Kind string

const (
	KindInvalidRequest   Kind = "INVALID_REQUEST"
	KindStoreUnavailable Kind = "STORE_UNAVAILABLE"
	KindNotFound         Kind = "NOT_FOUND"
	KindConflict         Kind = "CONFLICT"
)

type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Err
}

func Invalid(format string, args ...interface{}) *Error {
	return &Error{Kind: KindInvalidRequest, Message: fmt.Sprintf(format, args...)}
}

func NotFound(format string, args ...interface{}) *Error {
	return &Error{Kind: KindNotFound, Message: fmt.Sprintf(format, args...)}
}

func Conflict(format string, args ...interface{}) *Error {
	return &Error{Kind: KindConflict, Message: fmt.Sprintf(format, args...)}
}

// Unavailable wraps a storage failure so the original driver error stays
// reachable through errors.Unwrap.
func Unavailable(msg string, err error) *Error {
	return &Error{Kind: KindStoreUnavailable, Message: msg, Err: err}
}

// KindOf returns the kind carried by err, or "" when err is not an *Error.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return ""
}

// IsInvalid reports whether err is an invalid-request error.
func IsInvalid(err error) bool {
	return KindOf(err) == KindInvalidRequest
}

// IsNotFound reports whether err is a not-found error.
func IsNotFound(err error) bool {
	return KindOf(err) == KindNotFound
}

// HTTPStatus maps an error kind to an HTTP status code. Unknown errors map
// to 500.
func HTTPStatus(err error) int {
	switch KindOf(err) {
	case KindInvalidRequest:
		return 400
	case KindNotFound:
		return 404
	case KindConflict:
		return 409
	case KindStoreUnavailable:
		return 503
	default:
		return 500
	}
}
