package api

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrNotCSV is returned by UploadFile for files without a CSV media type.
var ErrNotCSV = errors.New("file is not a CSV")

// errorBody is the failure response shape shared by every endpoint.
type errorBody struct {
	Error string `json:"error"`
}

// APIError is a non-2xx response from the backend.
// Callers should prefer Message and the predicate functions over asserting
// on this type directly.
type APIError struct {
	operation  string
	statusCode int
	message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%s: HTTP %d: %s", e.operation, e.statusCode, e.message)
}

func newAPIError(operation string, statusCode int, message string) *APIError {
	return &APIError{
		operation:  operation,
		statusCode: statusCode,
		message:    message,
	}
}

// StatusCode returns the HTTP status code from the response.
func (e *APIError) StatusCode() int { return e.statusCode }

// Message returns the backend's "error" text, or the operation default.
func (e *APIError) Message() string { return e.message }

// Operation returns a short description of the API call that failed.
func (e *APIError) Operation() string { return e.operation }

// TransportError is a failure below the HTTP status layer: the request could
// not be sent, or the response body could not be read or decoded.
type TransportError struct {
	Operation string
	Err       error
}

func (e *TransportError) Error() string { return fmt.Sprintf("%s: %v", e.Operation, e.Err) }

func (e *TransportError) Unwrap() error { return e.Err }

// Message returns the user-facing text for err: the backend message for
// *APIError, the underlying cause for *TransportError, and err.Error()
// otherwise. It returns "" for a nil error.
func Message(err error) string {
	if err == nil {
		return ""
	}
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.message
	}
	var tErr *TransportError
	if errors.As(err, &tErr) && tErr.Err != nil {
		return tErr.Err.Error()
	}
	return err.Error()
}

// IsNotFound reports whether err is an API error with HTTP 404 status.
func IsNotFound(err error) bool { return HasStatusCode(err, http.StatusNotFound) }

// IsUnauthorized reports whether err is an API error with HTTP 401 status.
func IsUnauthorized(err error) bool { return HasStatusCode(err, http.StatusUnauthorized) }

// HasStatusCode reports whether err is an API error whose HTTP status code matches.
func HasStatusCode(err error, code int) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.statusCode == code
}

// IsTransport reports whether err is a transport-level failure.
func IsTransport(err error) bool {
	var tErr *TransportError
	return errors.As(err, &tErr)
}
