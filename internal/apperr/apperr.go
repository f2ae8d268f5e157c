// Package apperr defines the error kinds surfaced to API callers.
package apperr

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind classifies an error for the caller.
type Kind int

const (
	KindInternal Kind = iota
	KindUnauthorized
	KindConflict
	KindNotFound
	KindInvalidInput
	KindInsufficientFunds
	KindInvalidState
)

func (k Kind) String() string {
	switch k {
	case KindUnauthorized:
		return "unauthorized"
	case KindConflict:
		return "conflict"
	case KindNotFound:
		return "not_found"
	case KindInvalidInput:
		return "invalid_input"
	case KindInsufficientFunds:
		return "insufficient_funds"
	case KindInvalidState:
		return "invalid_state"
	default:
		return "internal"
	}
}

// Error is an error with a kind and a short message safe to show to callers.
type Error struct {
	Kind    Kind
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

// Unwrap returns the underlying cause.
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is matches any *Error of the same kind, so errors.Is(err, ErrNotFound)
// works regardless of message.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Kind == e.Kind
}

// Sentinels for errors.Is.
var (
	ErrUnauthorized      = &Error{Kind: KindUnauthorized, Message: "unauthorized"}
	ErrConflict          = &Error{Kind: KindConflict, Message: "conflict"}
	ErrNotFound          = &Error{Kind: KindNotFound, Message: "not found"}
	ErrInvalidInput      = &Error{Kind: KindInvalidInput, Message: "invalid input"}
	ErrInsufficientFunds = &Error{Kind: KindInsufficientFunds, Message: "insufficient points"}
	ErrInvalidState      = &Error{Kind: KindInvalidState, Message: "invalid state"}
)

func Unauthorized(msg string) *Error { return &Error{Kind: KindUnauthorized, Message: msg} }

func Conflict(msg string) *Error { return &Error{Kind: KindConflict, Message: msg} }

func NotFound(msg string) *Error { return &Error{Kind: KindNotFound, Message: msg} }

func InvalidInput(msg string) *Error { return &Error{Kind: KindInvalidInput, Message: msg} }

func InsufficientFunds(msg string) *Error { return &Error{Kind: KindInsufficientFunds, Message: msg} }

func InvalidState(msg string) *Error { return &Error{Kind: KindInvalidState, Message: msg} }

// KindOf returns the kind of err, or KindInternal if err carries none.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindInternal
}

// Message returns the caller-facing message for err.
func Message(err error) string {
	var e *Error
	if errors.As(err, &e) && e.Kind != KindInternal {
		return e.Message
	}
	return "internal error"
}

// StatusCode maps err to an HTTP status code.
func StatusCode(err error) int {
	switch KindOf(err) {
	case KindUnauthorized:
		return http.StatusUnauthorized
	case KindNotFound:
		return http.StatusNotFound
	case KindConflict, KindInvalidInput, KindInsufficientFunds, KindInvalidState:
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
