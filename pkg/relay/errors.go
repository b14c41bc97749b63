package relay

import (
	"fmt"
	"net/http"
)

// HTTPError represents an HTTP error with a specific status code and message.
// Application code may return it from handlers and register a translation for
// it in the error registry.
type HTTPError struct {
	StatusCode int    `json:"status_code"`
	Message    string `json:"message"`
	Details    any    `json:"details,omitempty"`
}

// Error implements the error interface
func (e *HTTPError) Error() string {
	return fmt.Sprintf("HTTP %d: %s", e.StatusCode, e.Message)
}

// NewHTTPError creates a new HTTPError with the given status code and message
func NewHTTPError(statusCode int, message string) *HTTPError {
	return &HTTPError{StatusCode: statusCode, Message: message}
}

// ErrNotFound creates a 404 Not Found error
func ErrNotFound(message string) *HTTPError {
	return NewHTTPError(http.StatusNotFound, message)
}

// ErrConflict creates a 409 Conflict error
func ErrConflict(message string) *HTTPError {
	return NewHTTPError(http.StatusConflict, message)
}

// FieldError describes a single failing field in a validation failure
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationFailed aggregates every field failure of one request. The
// contract pipeline renders it as a 400 response listing all fields; handlers
// may also return it deliberately to surface their own validation outcome.
type ValidationFailed struct {
	Fields []FieldError
}

// Error implements the error interface
func (e *ValidationFailed) Error() string {
	if len(e.Fields) == 1 {
		return fmt.Sprintf("validation failed: %s: %s", e.Fields[0].Field, e.Fields[0].Message)
	}
	return fmt.Sprintf("validation failed on %d fields", len(e.Fields))
}

// NewValidationFailed creates a single-field validation failure
func NewValidationFailed(field, message string) *ValidationFailed {
	return &ValidationFailed{Fields: []FieldError{{Field: field, Message: message}}}
}

// Default terminal message bodies. The 401/405 bodies can be replaced per
// handler with the MessageResponse option; the 500 body is fixed so internal
// detail never reaches the client.
var (
	defaultAuthRequiredMessage = map[string]any{
		"message": "You are not logged in",
		"alias":   "auth_required",
	}
	defaultMethodNotAllowedMessage = map[string]any{
		"message": "Method not allowed",
		"alias":   "method_not_allowed",
	}
	serverErrorMessage = map[string]any{
		"message":      "Something went wrong on our side",
		"error_detail": "internal server error",
		"alias":        "server_error",
	}
)

// DefaultAuthRequiredMessage returns the default 401 body
func DefaultAuthRequiredMessage() map[string]any {
	return defaultAuthRequiredMessage
}

// DefaultMethodNotAllowedMessage returns the default 405 body
func DefaultMethodNotAllowedMessage() map[string]any {
	return defaultMethodNotAllowedMessage
}

// ServerErrorMessage returns the generic 500 body. Full error detail is
// logged server-side only.
func ServerErrorMessage() map[string]any {
	return serverErrorMessage
}
