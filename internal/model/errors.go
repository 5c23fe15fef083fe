package model

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind classifies domain errors.
type Kind int

const (
	KindInternal Kind = iota
	KindNotFound
	KindInvalidInput
	KindConflict
)

// AppError is a domain error carrying a kind for transport mapping.
type AppError struct {
	Kind Kind
	Msg  string
	Err  error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Msg, e.Err)
	}
	return e.Msg
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// Is matches errors of the same kind, so callers can compare against
// the sentinel constructors below.
func (e *AppError) Is(target error) bool {
	var t *AppError
	if errors.As(target, &t) {
		return e.Kind == t.Kind
	}
	return false
}

// StatusCode maps the kind to an HTTP status.
func (e *AppError) StatusCode() int {
	switch e.Kind {
	case KindNotFound:
		return http.StatusNotFound
	case KindInvalidInput:
		return http.StatusBadRequest
	case KindConflict:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// NotFound builds a not-found error.
func NotFound(format string, args ...interface{}) error {
	return &AppError{Kind: KindNotFound, Msg: fmt.Sprintf(format, args...)}
}

// InvalidInput builds a validation error.
func InvalidInput(format string, args ...interface{}) error {
	return &AppError{Kind: KindInvalidInput, Msg: fmt.Sprintf(format, args...)}
}

// Conflict builds a conflict error.
func Conflict(format string, args ...interface{}) error {
	return &AppError{Kind: KindConflict, Msg: fmt.Sprintf(format, args...)}
}

// Internal wraps an unexpected error.
func Internal(msg string, err error) error {
	return &AppError{Kind: KindInternal, Msg: msg, Err: err}
}

// IsNotFound reports whether err carries the not-found kind.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// Sentinels for errors.Is comparisons.
var (
	ErrNotFound     = &AppError{Kind: KindNotFound, Msg: "not found"}
	ErrInvalidInput = &AppError{Kind: KindInvalidInput, Msg: "invalid input"}
	ErrConflict     = &AppError{Kind: KindConflict, Msg: "conflict"}
	ErrInternal     = &AppError{Kind: KindInternal, Msg: "internal error"}
)
