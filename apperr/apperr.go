package apperr

import (
	"errors"
	"net/http"
)

type Kind int

const (
	KindInternal Kind = iota
	KindNotFound
	KindInvalidOrExpired
	KindValidation
	KindConflict
	KindUnauthorized
	KindForbidden
)

// Error is the error type returned across handler boundaries. Message is safe
// to show to the client; Err is the underlying cause and only gets logged.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Err }

func NotFound(msg string) *Error {
	return &Error{Kind: KindNotFound, Message: msg}
}

// InvalidOrExpired covers a wrong code, an expired code and an unknown
// account alike, so callers cannot tell them apart.
func InvalidOrExpired() *Error {
	return &Error{Kind: KindInvalidOrExpired, Message: "OTP is invalid or has expired"}
}

func Validation(msg string) *Error {
	return &Error{Kind: KindValidation, Message: msg}
}

func Conflict(msg string) *Error {
	return &Error{Kind: KindConflict, Message: msg}
}

func Unauthorized(msg string) *Error {
	return &Error{Kind: KindUnauthorized, Message: msg}
}

func Forbidden(msg string) *Error {
	return &Error{Kind: KindForbidden, Message: msg}
}

func Internal(msg string, err error) *Error {
	return &Error{Kind: KindInternal, Message: msg, Err: err}
}

// Is reports whether err carries the given kind.
func Is(err error, kind Kind) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind == kind
	}
	return false
}

// Status maps err to an HTTP status code and the message the client may see.
func Status(err error) (int, string) {
	var e *Error
	if !errors.As(err, &e) {
		return http.StatusInternalServerError, "internal server error"
	}
	switch e.Kind {
	case KindNotFound:
		return http.StatusNotFound, e.Message
	case KindInvalidOrExpired, KindValidation:
		return http.StatusBadRequest, e.Message
	case KindConflict:
		return http.StatusConflict, e.Message
	case KindUnauthorized:
		return http.StatusUnauthorized, e.Message
	case KindForbidden:
		return http.StatusForbidden, e.Message
	default:
		return http.StatusInternalServerError, e.Message
	}
}
