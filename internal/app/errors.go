package app

import "fmt"

// AppErrorType represents the type of application error.
type AppErrorType int

const (
	// CopyFailed indicates the copy workflow failed.
	CopyFailed AppErrorType = iota
	// DiffFailed indicates the diff workflow failed.
	DiffFailed
	// ConfigLoadFailed indicates the configuration could not be loaded or applied.
	ConfigLoadFailed
	// VariableLoadFailed indicates variable loading failed.
	VariableLoadFailed
	// WatchFailed indicates the watch workflow failed.
	WatchFailed
	// ValidationFailed indicates invalid workflow options.
	ValidationFailed
)

// AppError represents an application-layer error.
type AppError struct {
	// Type is the error type.
	Type AppErrorType
	// Message is the error message.
	Message string
	// Cause is the underlying error.
	Cause error
}

// Error returns the error message.
func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

// Unwrap returns the underlying error.
func (e *AppError) Unwrap() error {
	return e.Cause
}

// NewAppError creates a new AppError.
func NewAppError(errType AppErrorType, message string, cause error) *AppError {
	return &AppError{
		Type:    errType,
		Message: message,
		Cause:   cause,
	}
}

// NewCopyError creates a copy error.
func NewCopyError(message string, cause error) *AppError {
	return NewAppError(CopyFailed, message, cause)
}

// NewDiffError creates a diff error.
func NewDiffError(message string, cause error) *AppError {
	return NewAppError(DiffFailed, message, cause)
}

// NewConfigLoadError creates a config load error.
func NewConfigLoadError(message string, cause error) *AppError {
	return NewAppError(ConfigLoadFailed, message, cause)
}

// NewVariableLoadError creates a variable load error.
func NewVariableLoadError(message string, cause error) *AppError {
	return NewAppError(VariableLoadFailed, message, cause)
}

// NewWatchError creates a watch error.
func NewWatchError(message string, cause error) *AppError {
	return NewAppError(WatchFailed, message, cause)
}

// NewValidationError creates a validation error.
func NewValidationError(message string, cause error) *AppError {
	return NewAppError(ValidationFailed, message, cause)
}
