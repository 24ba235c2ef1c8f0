package util

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// APIError is the single error shape the service raises for domain failures.
// It carries the HTTP status to respond with and one or more client-safe
// messages; the wrapped cause never crosses the transport boundary.
type APIError struct {
	StatusCode int
	Messages   []string
	Err        error
}

func (e *APIError) Error() string {
	msg := strings.Join(e.Messages, "; ")
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", msg, e.Err)
	}
	return msg
}

func (e *APIError) Unwrap() error {
	return e.Err
}

// Message returns the primary client-facing message.
func (e *APIError) Message() string {
	if len(e.Messages) == 0 {
		return http.StatusText(e.StatusCode)
	}
	return e.Messages[0]
}

// NewAPIError constructs an APIError.
func NewAPIError(status int, messages ...string) *APIError {
	return &APIError{StatusCode: status, Messages: messages}
}

func NewValidationError(messages ...string) error {
	return NewAPIError(http.StatusBadRequest, messages...)
}

func NewUnauthorized(message string) error {
	return NewAPIError(http.StatusUnauthorized, message)
}

func NewForbidden(message string) error {
	return NewAPIError(http.StatusForbidden, message)
}

func NewNotFound(resource string) error {
	return NewAPIError(http.StatusNotFound, fmt.Sprintf("%s not found", resource))
}

func NewConflict(message string) error {
	return NewAPIError(http.StatusConflict, message)
}

func NewTooManyRequests(message string) error {
	return NewAPIError(http.StatusTooManyRequests, message)
}

func NewInternalError(err error) error {
	return &APIError{
		StatusCode: http.StatusInternalServerError,
		Messages:   []string{"internal server error"},
		Err:        err,
	}
}

// ToAPIError converts any error into an APIError, so the boundary layer can
// render a uniform shape without leaking internals.
func ToAPIError(err error) *APIError {
	if err == nil {
		return nil
	}
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr
	}
	return &APIError{
		StatusCode: http.StatusInternalServerError,
		Messages:   []string{"internal server error"},
		Err:        err,
	}
}
