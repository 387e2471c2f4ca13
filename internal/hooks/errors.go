package hooks

import "fmt"

// ErrorType represents the type of hook error.
type ErrorType int

const (
	// InvalidExpression indicates an expression that does not compile.
	InvalidExpression ErrorType = iota
	// EvaluationFailed indicates an expression that failed at run time.
	EvaluationFailed
	// InvalidResult indicates an expression result of the wrong shape.
	InvalidResult
)

// Error represents a failure of a configured hook.
type Error struct {
	// Type is the error type.
	Type ErrorType
	// Message is the error message.
	Message string
	// Hook names the fork trigger or generator.
	Hook string
	// Cause is the underlying error if any.
	Cause error
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("hook %s: %s: %v", e.Hook, e.Message, e.Cause)
	}
	return fmt.Sprintf("hook %s: %s", e.Hook, e.Message)
}

// Unwrap returns the underlying cause error.
func (e *Error) Unwrap() error {
	return e.Cause
}

func newError(typ ErrorType, hook, message string, cause error) *Error {
	return &Error{Type: typ, Hook: hook, Message: message, Cause: cause}
}
