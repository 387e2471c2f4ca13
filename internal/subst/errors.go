package subst

import "fmt"

// ErrorType represents the type of substitution error.
type ErrorType int

const (
	// UndefinedVariable indicates a token whose name has no binding.
	UndefinedVariable ErrorType = iota
	// MissingEndMarker indicates a prefix that is never closed by a suffix.
	MissingEndMarker
	// InvalidDelimiters indicates a malformed prefix/suffix/escape triple.
	InvalidDelimiters
)

// String returns a short name for the error type.
func (t ErrorType) String() string {
	switch t {
	case UndefinedVariable:
		return "undefined variable"
	case MissingEndMarker:
		return "missing end marker"
	case InvalidDelimiters:
		return "invalid delimiters"
	default:
		return "unknown"
	}
}

// Error represents a substitution failure with its position in the input.
type Error struct {
	// Type is the error type.
	Type ErrorType
	// Message is the error message.
	Message string
	// Variable is the offending variable name (if applicable).
	Variable string
	// Offset is the byte offset of the token start (-1 if unknown).
	Offset int
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Variable != "" {
		return fmt.Sprintf("%s: %s (at offset %d)", e.Message, e.Variable, e.Offset)
	}
	if e.Offset >= 0 {
		return fmt.Sprintf("%s (at offset %d)", e.Message, e.Offset)
	}
	return e.Message
}

// IsConfiguration reports whether the error stems from a malformed
// Substitution rather than from the substituted content.
func (e *Error) IsConfiguration() bool {
	return e.Type == InvalidDelimiters
}

func newError(typ ErrorType, message, variable string, offset int) *Error {
	return &Error{
		Type:     typ,
		Message:  message,
		Variable: variable,
		Offset:   offset,
	}
}
