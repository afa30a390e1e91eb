package apperrors

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind classifies a failure so controllers can map it to an HTTP status
// and so callers can branch without string matching.
type Kind string

const (
	KindNotFound       Kind = "NOT_FOUND"
	KindConflict       Kind = "CONFLICT"
	KindForbidden      Kind = "FORBIDDEN"
	KindInvalidState   Kind = "INVALID_STATE"
	KindMalformedToken Kind = "MALFORMED_TOKEN"
	KindInternal       Kind = "INTERNAL"
)

// Error is a tagged application error. Message is user-facing; Err holds
// the wrapped cause, if any.
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

func NotFound(message string) error {
	return &Error{Kind: KindNotFound, Message: message}
}

func Conflict(message string) error {
	return &Error{Kind: KindConflict, Message: message}
}

func Forbidden(message string) error {
	return &Error{Kind: KindForbidden, Message: message}
}

func InvalidState(message string) error {
	return &Error{Kind: KindInvalidState, Message: message}
}

func MalformedToken(message string) error {
	return &Error{Kind: KindMalformedToken, Message: message}
}

func Internal(message string, err error) error {
	return &Error{Kind: KindInternal, Message: message, Err: err}
}

// Wrap attaches a cause to a tagged error without changing its kind or
// user-facing message.
func Wrap(err error, tagged error) error {
	var e *Error
	if errors.As(tagged, &e) {
		return &Error{Kind: e.Kind, Message: e.Message, Err: err}
	}
	return tagged
}

// KindOf returns the kind of err, or KindInternal for untagged errors.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindInternal
}

// IsKind reports whether err carries the given kind.
func IsKind(err error, kind Kind) bool {
	return KindOf(err) == kind
}

// MessageOf returns the user-facing message of err. Untagged errors get a
// generic message so internals never leak to scan clients.
func MessageOf(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Message
	}
	return "internal server error"
}

// HTTPStatus maps an error kind to the HTTP status controllers respond with.
func HTTPStatus(err error) int {
	switch KindOf(err) {
	case KindNotFound:
		return http.StatusNotFound
	case KindConflict:
		return http.StatusConflict
	case KindForbidden:
		return http.StatusForbidden
	case KindInvalidState:
		return http.StatusUnprocessableEntity
	case KindMalformedToken:
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
