package errs

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind classifies a domain error.
type Kind string

const (
	// NotFound is returned when a referenced user, connection or post
	// does not exist in the store.
	NotFound Kind = "not_found"
	// Conflict is returned when a connection already exists between
	// two users in either direction.
	Conflict Kind = "conflict"
	// Forbidden is returned when a user acts on a request that is not
	// addressed to them.
	Forbidden Kind = "forbidden"
	// Validation is returned for malformed input.
	Validation Kind = "validation"
	Internal   Kind = "internal"
)

// Error is a domain error carrying a kind and a user-facing message.
type Error struct {
	Kind    Kind
	Message string
}

func (e *Error) Error() string {
	return e.Message
}

// New creates an error of the given kind.
func New(kind Kind, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

func NotFoundf(format string, args ...any) *Error  { return New(NotFound, format, args...) }
func Conflictf(format string, args ...any) *Error  { return New(Conflict, format, args...) }
func Forbiddenf(format string, args ...any) *Error { return New(Forbidden, format, args...) }
func Invalidf(format string, args ...any) *Error   { return New(Validation, format, args...) }

// KindOf returns the kind of the first *Error in err's chain, or Internal.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return Internal
}

// Is reports whether err carries the given kind.
func Is(err error, kind Kind) bool {
	return err != nil && KindOf(err) == kind
}

// Message returns the message a caller may show to the requester.
// Internal errors are not exposed.
func Message(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Message
	}
	return "internal server error"
}

// HTTPStatus maps a kind to the status code handlers respond with.
func HTTPStatus(kind Kind) int {
	switch kind {
	case NotFound:
		return http.StatusNotFound
	case Conflict:
		return http.StatusConflict
	case Forbidden:
		return http.StatusForbidden
	case Validation:
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
