package errors

import (
	"errors"
	"fmt"
	"log"
	"net/http"
)

// HTTPError represents an error with an associated HTTP status code.
type HTTPError struct {
	Code    int
	Message string
}

func (e *HTTPError) Error() string {
	return e.Message
}

// NewHTTPError creates a new HTTPError with the given code and message.
func NewHTTPError(code int, message string) *HTTPError {
	return &HTTPError{
		Code:    code,
		Message: message,
	}
}

// Helpers for the error kinds handlers convert to at their boundary.
func Validation(msg string) *HTTPError {
	return NewHTTPError(http.StatusBadRequest, msg)
}

func Unauthorized(msg string) *HTTPError {
	return NewHTTPError(http.StatusUnauthorized, msg)
}

func NotFound(msg string) *HTTPError {
	return NewHTTPError(http.StatusNotFound, msg)
}

// InvalidState names the current status so the caller knows why the
// transition was refused.
func InvalidState(operation, currentStatus string) *HTTPError {
	return NewHTTPError(http.StatusBadRequest,
		fmt.Sprintf("cannot %s booking in status '%s'", operation, currentStatus))
}

// TransientStore covers failed store calls. Callers must not read it as a
// domain answer ("could not determine availability" is not "slot taken").
func TransientStore(msg string) *HTTPError {
	return NewHTTPError(http.StatusInternalServerError, msg)
}

// Write converts err into an HTTP response. Non-HTTPError failures are
// logged and surfaced as a generic 500 without internal detail.
func Write(w http.ResponseWriter, err error) {
	var he *HTTPError
	if errors.As(err, &he) {
		http.Error(w, he.Message, he.Code)
		return
	}
	log.Printf("Unhandled error: %v", err)
	http.Error(w, "Internal server error", http.StatusInternalServerError)
}
