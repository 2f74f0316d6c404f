package geokit

import (
	"errors"
	"fmt"
)

// DetectErrorType represents different types of detection failures
type DetectErrorType string

const (
	// ErrorTypeInput covers missing, empty, or zero-byte input paths.
	ErrorTypeInput DetectErrorType = "input"

	// ErrorTypeArchive covers archives whose entries cannot be listed.
	ErrorTypeArchive DetectErrorType = "archive"

	// ErrorTypeContent covers content that no classification rule matched.
	ErrorTypeContent DetectErrorType = "content"

	// ErrorTypeVote covers archives where no JSON entry was classifiable.
	ErrorTypeVote DetectErrorType = "vote"

	// ErrorTypeUnmapped covers detected formats with no registered converter.
	ErrorTypeUnmapped DetectErrorType = "unmapped"

	// ErrorTypeUnexpected wraps any unanticipated collaborator failure.
	ErrorTypeUnexpected DetectErrorType = "unexpected"
)

// DetectError represents a custom error for format detection.
// It implements the error interface and includes the error type for
// programmatic handling.
type DetectError struct {
	// Type categorizes the detection failure.
	Type DetectErrorType

	// Message is the human-readable error description.
	Message string
}

// Error implements the error interface
func (e *DetectError) Error() string {
	return fmt.Sprintf("%s detection error: %s", e.Type, e.Message)
}

// NewDetectError creates a new DetectError
func NewDetectError(errType DetectErrorType, message string) *DetectError {
	return &DetectError{
		Type:    errType,
		Message: message,
	}
}

// IsDetectError checks if an error is a DetectError
func IsDetectError(err error) bool {
	var detectErr *DetectError
	return errors.As(err, &detectErr)
}

// IsErrorOfType checks if an error is a DetectError of the specified type
func IsErrorOfType(err error, errType DetectErrorType) bool {
	var detectErr *DetectError
	if errors.As(err, &detectErr) {
		return detectErr.Type == errType
	}
	return false
}

// GetErrorType returns the type of a DetectError, or empty string if not a DetectError
func GetErrorType(err error) DetectErrorType {
	var detectErr *DetectError
	if errors.As(err, &detectErr) {
		return detectErr.Type
	}
	return ""
}
