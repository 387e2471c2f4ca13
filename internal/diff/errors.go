package diff

import "fmt"

// ErrorType categorizes diff errors.
type ErrorType int

const (
	// Unsupported indicates a transition the diff cannot express, e.g. a
	// directory that became a file.
	Unsupported ErrorType = iota
	// ReadFailed indicates a tree or file could not be read.
	ReadFailed
)

// Error represents a failed tree comparison.
type Error struct {
	// Type categorizes the error.
	Type ErrorType
	// Message is the error message.
	Message string
	// Path is the relative path being compared (if applicable).
	Path string
	// Cause is the underlying error (if any).
	Cause error
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Path != "" {
		if e.Cause != nil {
			return fmt.Sprintf("%s (path: %s): %v", e.Message, e.Path, e.Cause)
		}
		return fmt.Sprintf("%s (path: %s)", e.Message, e.Path)
	}
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

// Unwrap returns the underlying cause error for error unwrapping.
func (e *Error) Unwrap() error {
	return e.Cause
}

func newError(typ ErrorType, message, path string, cause error) *Error {
	return &Error{
		Type:    typ,
		Message: message,
		Path:    path,
		Cause:   cause,
	}
}
