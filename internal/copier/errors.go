package copier

import "fmt"

// ConfigErrorType categorizes construction-time errors.
type ConfigErrorType int

const (
	// DuplicateFork indicates two fork hooks for the same trigger.
	DuplicateFork ConfigErrorType = iota
	// DuplicateGenerator indicates two generators with the same normalized name.
	DuplicateGenerator
	// InvalidTrigger indicates a trigger character that cannot be used.
	InvalidTrigger
	// InvalidGenerator indicates a generator without exactly one flavor.
	InvalidGenerator
	// InvalidOptions indicates inconsistent copier options.
	InvalidOptions
)

// ConfigError is a fatal configuration error raised while building a
// dispatch table or copier. It is never retried.
type ConfigError struct {
	// Type categorizes the error.
	Type ConfigErrorType
	// Message is the error message.
	Message string
	// Key is the offending dispatch key (if applicable).
	Key string
}

// Error implements the error interface.
func (e *ConfigError) Error() string {
	if e.Key != "" {
		return fmt.Sprintf("copier configuration: %s: %q", e.Message, e.Key)
	}
	return "copier configuration: " + e.Message
}

func newConfigError(typ ConfigErrorType, message, key string) *ConfigError {
	return &ConfigError{Type: typ, Message: message, Key: key}
}

// CopyErrorType categorizes failures during a copy run.
type CopyErrorType int

const (
	// IOFailed indicates a failing filesystem operation.
	IOFailed CopyErrorType = iota
	// UnknownContext indicates a fork trigger without a registered hook.
	UnknownContext
	// UnknownCall indicates a call name without a matching generator.
	UnknownCall
	// SubstitutionFailed indicates an undefined variable or unterminated token.
	SubstitutionFailed
	// HookFailed indicates a fork hook or generator returned an error.
	HookFailed
	// InvalidName indicates a destination name that is not a single path segment.
	InvalidName
)

// String returns a short name for the error type.
func (t CopyErrorType) String() string {
	switch t {
	case IOFailed:
		return "io"
	case UnknownContext:
		return "unknown context"
	case UnknownCall:
		return "unknown call"
	case SubstitutionFailed:
		return "substitution"
	case HookFailed:
		return "hook"
	case InvalidName:
		return "invalid name"
	default:
		return "unknown"
	}
}

// CopyError wraps the first failure of a copy run with the source and
// destination it occurred on.
type CopyError struct {
	// Type categorizes the error.
	Type CopyErrorType
	// Message is the error message.
	Message string
	// Source is the source entry path.
	Source string
	// Destination is the destination path, as far as it is known.
	Destination string
	// Cause is the underlying error (if any).
	Cause error
}

// Error implements the error interface.
func (e *CopyError) Error() string {
	msg := fmt.Sprintf("copy %s", e.Source)
	if e.Destination != "" {
		msg += " -> " + e.Destination
	}
	msg += ": " + e.Message
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
}

// Unwrap returns the underlying cause error for error unwrapping.
func (e *CopyError) Unwrap() error {
	return e.Cause
}

func newCopyError(typ CopyErrorType, message, source, destination string, cause error) *CopyError {
	return &CopyError{
		Type:        typ,
		Message:     message,
		Source:      source,
		Destination: destination,
		Cause:       cause,
	}
}
