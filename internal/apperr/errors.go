package apperr

import (
	"errors"
	"fmt"
)

// Kind classifies an operation failure so callers can decide between
// prompting for login, showing a conflict message, or offering a retry.
type Kind int

const (
	KindInternal Kind = iota
	KindNotAuthenticated
	KindNotAuthorized
	KindNotFound
	KindConflict
	KindValidation
	KindUpstream
)

// Error is an application error with a kind and user-facing message
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

// Error implements the error interface
func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

// Unwrap returns the wrapped error
func (e *Error) Unwrap() error {
	return e.Err
}

// Is matches two application errors by kind
func (e *Error) Is(target error) bool {
	var t *Error
	if errors.As(target, &t) {
		return e.Kind == t.Kind
	}
	return false
}

// NotAuthenticated means the operation requires a viewer identity and none is present
func NotAuthenticated(message string) *Error {
	return &Error{Kind: KindNotAuthenticated, Message: message}
}

// NotAuthorized means the viewer attempted to mutate a row it does not own
func NotAuthorized(message string) *Error {
	return &Error{Kind: KindNotAuthorized, Message: message}
}

// NotFound means the referenced row does not exist
func NotFound(message string) *Error {
	return &Error{Kind: KindNotFound, Message: message}
}

// Conflict means the mutation collides with existing state (duplicate request,
// taken display name, already friends)
func Conflict(message string) *Error {
	return &Error{Kind: KindConflict, Message: message}
}

// Validation means malformed input, rejected before any write
func Validation(message string) *Error {
	return &Error{Kind: KindValidation, Message: message}
}

// Upstream means an external store or network call failed; retryable by the caller
func Upstream(message string, err error) *Error {
	return &Error{Kind: KindUpstream, Message: message, Err: err}
}

// Internal wraps an unexpected failure
func Internal(message string, err error) *Error {
	return &Error{Kind: KindInternal, Message: message, Err: err}
}

// KindOf extracts the kind from any error chain; unknown errors are internal
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindInternal
}
