// Package provider holds the failure taxonomy shared by the vision and
// search provider clients.
package provider

import (
	"errors"
	"fmt"
	"net/http"
)

// TransportError is a network or connection failure before a provider
// produced a response.
type TransportError struct {
	Provider string
	Err      error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("%s request failed: %v", e.Provider, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// APIError is a non-success status returned by a provider. Message is the
// provider-supplied message, or the HTTP status text when none was sent.
type APIError struct {
	Provider   string
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%s API error: %s", e.Provider, e.Message)
}

// IsRateLimit reports a 429 from the provider.
func (e *APIError) IsRateLimit() bool {
	return e.StatusCode == http.StatusTooManyRequests
}

// IsInvalidAPIKey reports an authentication failure.
func (e *APIError) IsInvalidAPIKey() bool {
	return e.StatusCode == http.StatusUnauthorized || e.StatusCode == http.StatusForbidden
}

// NewAPIError builds an APIError, falling back to the status text for an
// empty message.
func NewAPIError(providerName string, status int, message string) *APIError {
	if message == "" {
		message = http.StatusText(status)
	}
	return &APIError{Provider: providerName, StatusCode: status, Message: message}
}

// ShapeError means the provider answered successfully but the envelope
// lacked the expected fields.
type ShapeError struct {
	Provider string
}

func (e *ShapeError) Error() string {
	return fmt.Sprintf("Unexpected %s API response format", e.Provider)
}

// AsAPIError extracts *APIError from err.
func AsAPIError(err error) (*APIError, bool) {
	var e *APIError
	if errors.As(err, &e) {
		return e, true
	}
	return nil, false
}

// IsTransport reports whether err is a TransportError.
func IsTransport(err error) bool {
	var e *TransportError
	return errors.As(err, &e)
}

// IsShape reports whether err is a ShapeError.
func IsShape(err error) bool {
	var e *ShapeError
	return errors.As(err, &e)
}
