package usecase

import (
	"errors"
	"fmt"
	"net/http"
)

// HTTPError is the only error type usecases hand back to handlers.
// Fields is set for validation failures and maps a JSON field path to a reason.
type HTTPError struct {
	Status  int
	Message string
	Fields  map[string]string
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("%d: %s", e.Status, e.Message)
}

func NewHTTPError(status int, message string) error {
	return &HTTPError{
		Status:  status,
		Message: message,
	}
}

func NewValidationError(fields map[string]string) error {
	return &HTTPError{
		Status:  http.StatusBadRequest,
		Message: "validation error",
		Fields:  fields,
	}
}

func AsHTTPError(err error) (*HTTPError, bool) {
	var he *HTTPError
	ok := errors.As(err, &he)
	return he, ok
}

// shorthands
func errUnauthorized() error { return NewHTTPError(http.StatusUnauthorized, "unauthorized") }
func errDB() error           { return NewHTTPError(http.StatusInternalServerError, "db error") }
