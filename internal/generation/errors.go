package generation

import (
	"errors"
	"fmt"
)

// Common errors returned by the generation package and its implementations.
// Completion clients distinguish three failure kinds: the request never got a
// response (ErrTransport), the service answered with a non-success status
// (ErrUpstreamStatus, carried by *StatusError), or a success response lacked
// the expected content (ErrMalformedResponse).
var (
	// ErrTransport is returned when the request could not be sent or no
	// response was received.
	ErrTransport = errors.New("completion request failed")

	// ErrUpstreamStatus is returned when the service responds with a non-2xx status.
	ErrUpstreamStatus = errors.New("completion service returned an error status")

	// ErrMalformedResponse is returned when a success response cannot be
	// decoded or is missing the expected content.
	ErrMalformedResponse = errors.New("malformed completion response")

	// ErrParse is returned when completion text cannot be turned into a story.
	ErrParse = errors.New("story could not be parsed")

	// ErrPageCount is returned in strict mode when a parsed story has fewer
	// than MinPages or more than MaxPages pages. It wraps ErrParse.
	ErrPageCount = fmt.Errorf("%w: page count out of range", ErrParse)

	// ErrInvalidRequest is returned when a story request fails validation.
	ErrInvalidRequest = errors.New("invalid story request")

	// ErrInvalidConfig is returned when a client configuration is invalid
	ErrInvalidConfig = errors.New("invalid generator configuration")
)

// StatusError reports a non-success HTTP status from a completion service.
// It keeps the raw response body so callers can surface the upstream message.
type StatusError struct {
	StatusCode int
	Body       string
}

// Error implements the error interface.
func (e *StatusError) Error() string {
	return fmt.Sprintf("API error: %d - %s", e.StatusCode, e.Body)
}

// Unwrap makes errors.Is(err, ErrUpstreamStatus) true for every StatusError.
func (e *StatusError) Unwrap() error {
	return ErrUpstreamStatus
}

// NewStatusError creates a StatusError for the given status and body.
func NewStatusError(statusCode int, body string) *StatusError {
	return &StatusError{StatusCode: statusCode, Body: body}
}

// FailureKind classifies err for logs and metrics.
// It returns "transport", "status", "malformed", "parse" or "other".
func FailureKind(err error) string {
	switch {
	case errors.Is(err, ErrTransport):
		return "transport"
	case errors.Is(err, ErrUpstreamStatus):
		return "status"
	case errors.Is(err, ErrMalformedResponse):
		return "malformed"
	case errors.Is(err, ErrParse):
		return "parse"
	default:
		return "other"
	}
}
