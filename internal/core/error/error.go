package errx

import (
	"errors"
	"fmt"
	"net/http"
)

const (
	// SystemErrorMessage is a user-facing fallback when internal errors occur.
	SystemErrorMessage = "internal server error"
	// RedisErrorMessage describes Redis related failures.
	RedisErrorMessage = "redis operation failed"
	// RedisNotFoundMessage describes a missing Redis key.
	RedisNotFoundMessage = "redis key not found"
)

// Sentinel errors for the dialogue pipeline taxonomy. Collaborator exhaustion
// is retryable-then-fallback; an unknown intent is a contract violation from
// the classifier and aborts the turn.
var (
	// ErrUnknownIntent signals that a collaborator produced an intent label
	// outside the closed set of intent kinds.
	ErrUnknownIntent = errors.New("unknown intent kind")
	// ErrCollaboratorExhausted signals that a collaborator kept returning
	// unusable output until the retry budget ran out.
	ErrCollaboratorExhausted = errors.New("collaborator retries exhausted")
	// ErrCarNotFound signals a lookup-by-id miss in the inventory store.
	ErrCarNotFound = errors.New("car not found")
)

// AppError wraps an underlying error with an HTTP status and safe message.
type AppError struct {
	Err     error
	Status  int
	Message string
}

// Error implements the error interface.
func (e *AppError) Error() string {
	if e.Err == nil {
		return e.Message
	}
	return fmt.Sprintf("%s: %v", e.Message, e.Err)
}

// Unwrap exposes the underlying error for errors.Is / errors.As support.
func (e *AppError) Unwrap() error {
	return e.Err
}

// New creates a new AppError with the provided information.
func New(err error, status int, message string) *AppError {
	return &AppError{
		Err:     err,
		Status:  status,
		Message: message,
	}
}

// UnknownIntent wraps an out-of-contract intent label so callers can
// distinguish it from retryable collaborator failures via errors.Is.
func UnknownIntent(label string) *AppError {
	return &AppError{
		Err:     fmt.Errorf("%w: %q", ErrUnknownIntent, label),
		Status:  http.StatusUnprocessableEntity,
		Message: "intent label outside the closed intent set",
	}
}

// Exhausted wraps a collaborator failure after the retry budget ran out.
func Exhausted(component string, attempts int, last error) *AppError {
	return &AppError{
		Err:     fmt.Errorf("%w: %s failed %d times: %v", ErrCollaboratorExhausted, component, attempts, last),
		Status:  http.StatusBadGateway,
		Message: "collaborator produced no usable output",
	}
}

// Is reports whether the target matches the underlying error or the AppError itself.
func (e *AppError) Is(target error) bool {
	return errors.Is(e.Err, target)
}

// As allows casting to AppError or the wrapped error in a chain.
func (e *AppError) As(target any) bool {
	if errors.As(e.Err, target) {
		return true
	}
	if t, ok := target.(**AppError); ok {
		*t = e
		return true
	}
	return false
}
