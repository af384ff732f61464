package core

import "fmt"

// Code classifies domain errors independent of the message text.
type Code string

const (
	// CodeConfiguration marks a missing or invalid provider credential/setting.
	CodeConfiguration Code = "configuration"
	// CodeNotFound marks a missing resource such as a book file.
	CodeNotFound Code = "not_found"
	// CodeIO marks read/write/persist failures other than not-found.
	CodeIO Code = "io"
	// CodeInvalidArgument marks caller supplied input that cannot be used.
	CodeInvalidArgument Code = "invalid_argument"
	// CodeGeneration marks a failed generative model call.
	CodeGeneration Code = "generation"
	// CodeSummarization marks a failed long-term memory fold.
	CodeSummarization Code = "summarization"
	// CodeInvalidPersona marks an unknown persona id.
	CodeInvalidPersona Code = "invalid_persona"
	// CodeSessionNotFound marks an unknown game session id.
	CodeSessionNotFound Code = "session_not_found"
	// CodeLimitExceeded marks a session that used up its model call budget.
	CodeLimitExceeded Code = "limit_exceeded"
)

// Error is the domain error type shared across packages.
type Error struct {
	Code    Code   // Machine-readable classification
	Message string // Human readable context
	Cause   error  // Wrapped underlying error
}

// Sentinels for errors.Is checks. Matching is by Code only.
var (
	ErrConfiguration   = &Error{Code: CodeConfiguration, Message: "configuration error"}
	ErrNotFound        = &Error{Code: CodeNotFound, Message: "not found"}
	ErrIO              = &Error{Code: CodeIO, Message: "io error"}
	ErrInvalidArgument = &Error{Code: CodeInvalidArgument, Message: "invalid argument"}
	ErrGeneration      = &Error{Code: CodeGeneration, Message: "generation failed"}
	ErrSummarization   = &Error{Code: CodeSummarization, Message: "summarization failed"}
	ErrInvalidPersona  = &Error{Code: CodeInvalidPersona, Message: "invalid persona"}
	ErrSessionNotFound = &Error{Code: CodeSessionNotFound, Message: "session not found"}
	ErrLimitExceeded   = &Error{Code: CodeLimitExceeded, Message: "limit exceeded"}
)

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

// Unwrap returns the underlying cause for error chain traversal.
func (e *Error) Unwrap() error { return e.Cause }

// Is reports whether target matches this error by code.
func (e *Error) Is(target error) bool {
	if t, ok := target.(*Error); ok {
		return e.Code == t.Code
	}
	return false
}

// NewError creates a domain error with a code and message.
func NewError(code Code, message string) *Error {
	return &Error{Code: code, Message: message}
}

// Errorf creates a domain error with a formatted message.
func Errorf(code Code, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...)}
}

// WrapError creates a domain error wrapping an underlying cause.
func WrapError(code Code, message string, cause error) *Error {
	return &Error{Code: code, Message: message, Cause: cause}
}
