package services

import (
	"errors"
	"strings"
)

var (
	// ErrInvalidState marks an operation that is not legal for the record's
	// current lifecycle state. Surfaced to the caller, never retried.
	ErrInvalidState = errors.New("invalid state")

	// ErrInvalidTransition marks publication-cycle misuse (advancing past
	// published or from an unknown status).
	ErrInvalidTransition = errors.New("invalid transition")

	// ErrPublicationClosed means the owning publication is no longer open for
	// submissions. Recoverable by the user picking the right cycle.
	ErrPublicationClosed = errors.New("publication closed")

	// ErrNothingToPublish means the publication has no approved submissions.
	ErrNothingToPublish = errors.New("nothing to publish")

	// ErrUpstreamUnavailable wraps AI or email gateway failures. The workflow
	// continues without the AI suggestion; publish must be retried.
	ErrUpstreamUnavailable = errors.New("upstream unavailable")
)

// ValidationError carries the per-field messages produced by form-schema
// validation at submit time.
type ValidationError struct {
	Problems []string
}

func (err *ValidationError) Error() string {
	if len(err.Problems) == 0 {
		return "validation failed"
	}
	return "validation failed: " + strings.Join(err.Problems, "; ")
}

func IsValidationError(err error) bool {
	var validationErr *ValidationError
	return errors.As(err, &validationErr)
}
