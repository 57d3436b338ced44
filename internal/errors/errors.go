package errors

import "fmt"

// Kind classifies an application-level error.
type Kind int

const (
	// ErrUnknown covers anything with no better classification.
	ErrUnknown Kind = iota
	// ErrTransient means no response was received from the backend.
	// Retrying is the caller's choice, never automatic.
	ErrTransient
	// ErrAuth means the session token was rejected or expired.
	ErrAuth
	// ErrValidation means the backend rejected the input with a message
	// suitable for showing to the user verbatim.
	ErrValidation
	// ErrNotFound means the requested resource does not exist.
	ErrNotFound
	// ErrConflict means the request clashed with existing state.
	ErrConflict
)

// Error is an application-level error with a kind for classification.
type Error struct {
	Kind    Kind
	Message string
	Err     error // underlying error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Constructor functions for common error types

func Transient(msg string, err error) *Error {
	return &Error{Kind: ErrTransient, Message: msg, Err: err}
}

func Auth(msg string) *Error {
	return &Error{Kind: ErrAuth, Message: msg}
}

func Validation(msg string) *Error {
	return &Error{Kind: ErrValidation, Message: msg}
}

func Validationf(format string, args ...interface{}) *Error {
	return &Error{Kind: ErrValidation, Message: fmt.Sprintf(format, args...)}
}

func NotFound(msg string) *Error {
	return &Error{Kind: ErrNotFound, Message: msg}
}

func Conflict(msg string) *Error {
	return &Error{Kind: ErrConflict, Message: msg}
}

func Unknown(err error) *Error {
	return &Error{Kind: ErrUnknown, Message: "unexpected error", Err: err}
}

// Wrap wraps an error with additional context.
func Wrap(err error, kind Kind, msg string) *Error {
	return &Error{Kind: kind, Message: msg, Err: err}
}
