package bridge

import (
	"errors"
	"fmt"
)

// Failure classes surfaced at the HTTP boundary.
var (
	// ErrValidation marks input the caller must fix (missing or unusable upload).
	ErrValidation = errors.New("validation failed")
	// ErrNoValidURLs means the sheet had no first-column cell starting with "http".
	ErrNoValidURLs = fmt.Errorf("%w: no valid urls found", ErrValidation)
	// ErrUnreadableWorkbook means the upload could not be opened as a workbook.
	ErrUnreadableWorkbook = fmt.Errorf("%w: unreadable workbook", ErrValidation)
	// ErrUpstreamUnavailable covers network failures, non-2xx answers, and
	// malformed bodies from the task service.
	ErrUpstreamUnavailable = errors.New("upstream unavailable")
	// ErrJobNotReady means the job is not completed or has no results yet.
	ErrJobNotReady = errors.New("job not ready")
	// ErrSerialization means a spreadsheet could not be generated.
	ErrSerialization = errors.New("spreadsheet serialization failed")
)

// UpstreamError describes a failed call to the task service.
type UpstreamError struct {
	Op         string
	StatusCode int
	Detail     string
	Err        error
}

func (e *UpstreamError) Error() string {
	msg := "upstream " + e.Op
	if e.StatusCode != 0 {
		msg += fmt.Sprintf(": status %d", e.StatusCode)
	}
	if e.Detail != "" {
		msg += ": " + e.Detail
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

// Unwrap exposes the transport or decode cause.
func (e *UpstreamError) Unwrap() error {
	return e.Err
}

// Is matches ErrUpstreamUnavailable.
func (e *UpstreamError) Is(target error) bool {
	return target == ErrUpstreamUnavailable
}

// Message is the caller-facing explanation: the upstream's own detail when it
// sent one, otherwise the underlying cause.
func (e *UpstreamError) Message() string {
	if e.Detail != "" {
		return e.Detail
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	if e.StatusCode != 0 {
		return fmt.Sprintf("request failed with status code %d", e.StatusCode)
	}
	return "upstream request failed"
}
