package models

import (
	"errors"
	"fmt"
)

// Input errors: caller misuse, detected before any work is done.
var (
	ErrEmptyPath   = errors.New("no tracklist path provided")
	ErrEmptyMarkup = errors.New("no html provided")
)

// StatusError is returned when the source site answers with anything but 200.
type StatusError struct {
	URL        string
	StatusCode int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("failed to fetch %s, status code: %d", e.URL, e.StatusCode)
}

// TransportError wraps network-level failures (DNS, refused connection,
// timeout, truncated body).
type TransportError struct {
	URL string
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("failed to make HTTP request to %s: %v", e.URL, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// Step names the extraction pass whose landmark could not be reached.
type Step string

const (
	StepMetadata Step = "metadata"
	StepTracks   Step = "tracks"
)

// LandmarkError reports that the fixed structural path could not be followed.
type LandmarkError struct {
	Step Step
	// Missing is the element the path stopped at, e.g. "#middleDiv" or "table".
	Missing string
}

func (e *LandmarkError) Error() string {
	return fmt.Sprintf("parse error: %s landmark not found (missing %s)", e.Step, e.Missing)
}

// Error type categories, used in CLI output and the fetch history.
const (
	ErrorTypeInput     = "input_error"
	ErrorTypeTransport = "transport_error"
	ErrorTypeHTTP      = "http_error"
	ErrorTypeStructure = "structure_error"
	ErrorTypeUnknown   = "unknown_error"
)

// ErrorType maps a pipeline error to its category. nil maps to "".
func ErrorType(err error) string {
	if err == nil {
		return ""
	}

	var statusErr *StatusError
	var transportErr *TransportError
	var landmarkErr *LandmarkError

	switch {
	case errors.Is(err, ErrEmptyPath), errors.Is(err, ErrEmptyMarkup):
		return ErrorTypeInput
	case errors.As(err, &statusErr):
		return ErrorTypeHTTP
	case errors.As(err, &transportErr):
		return ErrorTypeTransport
	case errors.As(err, &landmarkErr):
		return ErrorTypeStructure
	default:
		return ErrorTypeUnknown
	}
}

// StatusCode returns the HTTP status carried by err, or 0.
func StatusCode(err error) int {
	var statusErr *StatusError
	if errors.As(err, &statusErr) {
		return statusErr.StatusCode
	}
	return 0
}
