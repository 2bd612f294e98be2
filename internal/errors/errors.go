package errors

import (
	"errors"
	"fmt"
)

// Standard application errors
var (
	ErrEmptyInput        = errors.New("input is empty or contains only whitespace")
	ErrUnknownFormat     = errors.New("no format heuristic matched the input")
	ErrUnsupportedTarget = errors.New("unsupported target format")
	ErrTargetNotCompiled = errors.New("target format is not compiled into this build")
	ErrTopLevelNotTable  = errors.New("TOML documents must be a table at the top level")
	ErrNullInArray       = errors.New("TOML arrays cannot hold null")
	ErrIntegerOverflow   = errors.New("integer does not fit in 64 bits")
	ErrNotTabular        = errors.New("CSV requires a sequence of mappings")
	ErrNestedCell        = errors.New("CSV cells cannot hold nested values")
	ErrFileNotFound      = errors.New("file not found")
	ErrNoInput           = errors.New("no input provided: please specify a file with --file or pipe data to stdin")
	ErrInvalidFilePath   = errors.New("invalid file path")
)

// ErrorType categorizes errors
type ErrorType string

const (
	ErrorTypeInput         ErrorType = "input"
	ErrorTypeDetection     ErrorType = "detection"
	ErrorTypeParsing       ErrorType = "parsing"
	ErrorTypeNarrowing     ErrorType = "narrowing"
	ErrorTypeConfiguration ErrorType = "configuration"
	ErrorTypeOutput        ErrorType = "output"
	ErrorTypeUnknown       ErrorType = "unknown"
)

// AppError is an application-specific error with context. Format names the
// detected format for parsing errors and the target for narrowing errors.
type AppError struct {
	Type    ErrorType
	Format  string
	Message string
	Err     error
}

// Error implements error interface
func (e *AppError) Error() string {
	prefix := string(e.Type)
	if e.Format != "" {
		prefix = fmt.Sprintf("%s(%s)", e.Type, e.Format)
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", prefix, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", prefix, e.Message)
}

// Unwrap returns wrapped error
func (e *AppError) Unwrap() error {
	return e.Err
}

// Is implements errors.Is for comparison
func (e *AppError) Is(target error) bool {
	// Check if target is also an *AppError and if the types match
	t, ok := target.(*AppError)
	if !ok {
		return false
	}
	return e.Type == t.Type
}

// Fatal reports whether the error aborts a whole conversion. Narrowing
// failures only drop a single target.
func (e *AppError) Fatal() bool {
	return e.Type != ErrorTypeNarrowing
}

// NewInputError creates a new error related to input processing
func NewInputError(message string, err error) *AppError {
	return &AppError{
		Type:    ErrorTypeInput,
		Message: message,
		Err:     err,
	}
}

// NewDetectionError creates a new error for an input no heuristic could classify
func NewDetectionError(message string, err error) *AppError {
	return &AppError{
		Type:    ErrorTypeDetection,
		Format:  "unknown",
		Message: message,
		Err:     err,
	}
}

// NewParsingError creates a new error for a parser that rejected the input of
// the format the detector selected
func NewParsingError(format, message string, err error) *AppError {
	return &AppError{
		Type:    ErrorTypeParsing,
		Format:  format,
		Message: message,
		Err:     err,
	}
}

// NewNarrowingError creates a new error for a target that cannot represent a value
func NewNarrowingError(target, message string, err error) *AppError {
	return &AppError{
		Type:    ErrorTypeNarrowing,
		Format:  target,
		Message: message,
		Err:     err,
	}
}

// NewConfigurationError creates a new error related to configuration or requested targets
func NewConfigurationError(message string, err error) *AppError {
	return &AppError{
		Type:    ErrorTypeConfiguration,
		Message: message,
		Err:     err,
	}
}

// NewOutputError creates a new error related to output processing
func NewOutputError(message string, err error) *AppError {
	return &AppError{
		Type:    ErrorTypeOutput,
		Message: message,
		Err:     err,
	}
}

// UserFriendlyError returns a user-friendly error message
func UserFriendlyError(err error) string {
	var appErr *AppError
	if errors.As(err, &appErr) {
		switch appErr.Type {
		case ErrorTypeInput:
			return fmt.Sprintf("Input error: %s", appErr.Message)
		case ErrorTypeDetection:
			return fmt.Sprintf("Detection error: %s", appErr.Message)
		case ErrorTypeParsing:
			return fmt.Sprintf("%s parsing error: %s", appErr.Format, appErr.Message)
		case ErrorTypeNarrowing:
			return fmt.Sprintf("Cannot render %s: %s", appErr.Format, appErr.Message)
		case ErrorTypeConfiguration:
			return fmt.Sprintf("Configuration error: %s", appErr.Message)
		case ErrorTypeOutput:
			return fmt.Sprintf("Output error: %s", appErr.Message)
		default:
			return fmt.Sprintf("Error: %s", appErr.Message)
		}
	}

	// Handle standard errors
	if errors.Is(err, ErrEmptyInput) {
		return "Error: The input is empty. Please provide structured data."
	}
	if errors.Is(err, ErrUnknownFormat) {
		return "Error: The input format could not be detected."
	}
	if errors.Is(err, ErrFileNotFound) {
		return "Error: The specified file could not be found. Please check the file path."
	}
	if errors.Is(err, ErrNoInput) {
		return "Error: No input provided. Please specify a file with --file or pipe data to stdin."
	}
	if errors.Is(err, ErrInvalidFilePath) {
		return "Error: Invalid file path. Please provide a valid file path."
	}

	// Generic error message for unknown errors
	return fmt.Sprintf("Error: %v", err)
}
