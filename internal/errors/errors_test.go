package errors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAppError_Error(t *testing.T) {
	tests := []struct {
		name     string
		appError *AppError
		expected string
	}{
		{
			name: "error with wrapped error",
			appError: &AppError{
				Type:    ErrorTypeInput,
				Message: "failed to read input",
				Err:     errors.New("file not found"),
			},
			expected: "input: failed to read input: file not found",
		},
		{
			name: "error without wrapped error",
			appError: &AppError{
				Type:    ErrorTypeConfiguration,
				Message: "bad target",
			},
			expected: "configuration: bad target",
		},
		{
			name:     "error carrying a format",
			appError: NewParsingError("yaml", "invalid indentation", errors.New("line 3")),
			expected: "parsing(yaml): invalid indentation: line 3",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := tt.appError.Error()
			assert.Equal(t, tt.expected, result)
		})
	}
}

func TestAppError_Unwrap(t *testing.T) {
	appErr := NewNarrowingError("toml", "top-level value is a sequence", ErrTopLevelNotTable)

	assert.Equal(t, ErrTopLevelNotTable, appErr.Unwrap())
	assert.True(t, errors.Is(appErr, ErrTopLevelNotTable))

	wrapped := fmt.Errorf("render: %w", appErr)
	var target *AppError
	assert.True(t, errors.As(wrapped, &target))
	assert.Equal(t, "toml", target.Format)
}

func TestAppError_Is(t *testing.T) {
	tests := []struct {
		name     string
		appError *AppError
		target   error
		expected bool
	}{
		{
			name:     "same type",
			appError: NewParsingError("csv", "short row", nil),
			target:   &AppError{Type: ErrorTypeParsing},
			expected: true,
		},
		{
			name:     "different type",
			appError: NewInputError("test message", nil),
			target:   &AppError{Type: ErrorTypeParsing},
			expected: false,
		},
		{
			name:     "not an AppError",
			appError: NewInputError("test message", nil),
			target:   errors.New("standard error"),
			expected: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := tt.appError.Is(tt.target)
			assert.Equal(t, tt.expected, result)
		})
	}
}

func TestAppError_Fatal(t *testing.T) {
	assert.True(t, NewDetectionError("no match", ErrUnknownFormat).Fatal())
	assert.True(t, NewParsingError("json", "bad", nil).Fatal())
	assert.True(t, NewConfigurationError("bad target", ErrUnsupportedTarget).Fatal())
	assert.False(t, NewNarrowingError("csv", "not tabular", ErrNotTabular).Fatal())
}

func TestUserFriendlyError(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected string
	}{
		{
			name:     "input error",
			err:      NewInputError("failed to read file", nil),
			expected: "Input error: failed to read file",
		},
		{
			name:     "detection error",
			err:      NewDetectionError("no heuristic matched", ErrUnknownFormat),
			expected: "Detection error: no heuristic matched",
		},
		{
			name:     "parsing error",
			err:      NewParsingError("toml", "duplicate key", nil),
			expected: "toml parsing error: duplicate key",
		},
		{
			name:     "narrowing error",
			err:      NewNarrowingError("csv", "value is a string", ErrNotTabular),
			expected: "Cannot render csv: value is a string",
		},
		{
			name:     "configuration error",
			err:      NewConfigurationError(`unknown target "xml"`, ErrUnsupportedTarget),
			expected: `Configuration error: unknown target "xml"`,
		},
		{
			name:     "output error",
			err:      NewOutputError("failed to write output", nil),
			expected: "Output error: failed to write output",
		},
		{
			name:     "wrapped app error",
			err:      fmt.Errorf("convert: %w", NewInputError("stdin closed", nil)),
			expected: "Input error: stdin closed",
		},
		{
			name:     "standard error - empty input",
			err:      ErrEmptyInput,
			expected: "Error: The input is empty. Please provide structured data.",
		},
		{
			name:     "standard error - unknown format",
			err:      ErrUnknownFormat,
			expected: "Error: The input format could not be detected.",
		},
		{
			name:     "unknown error",
			err:      errors.New("some unknown error"),
			expected: "Error: some unknown error",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := UserFriendlyError(tt.err)
			assert.Equal(t, tt.expected, result)
		})
	}
}
