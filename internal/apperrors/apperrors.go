package apperrors

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound   = errors.New("resource not found")
	ErrValidation = errors.New("validation error")
)

// Import pipeline failures. Each one aborts the whole import attempt and
// leaves the stored document untouched.
var (
	ErrUnknownFormat           = errors.New("unknown import format")
	ErrInvalidBackupFormat     = errors.New("file is not a valid backup document")
	ErrUnparsableDelimitedText = errors.New("delimited text could not be parsed")
	ErrEmptySpreadsheet        = errors.New("spreadsheet is empty")
	ErrInsufficientRows        = errors.New("need at least a header row and one data row")
	ErrMissingRequiredMapping  = errors.New("name and amount columns must be mapped")
	ErrNoValidRows             = errors.New("no valid transactions found")
)

// ErrStorageWriteFailure is returned when the backend rejects a document write.
var ErrStorageWriteFailure = errors.New("could not save document")

// ParseError reports a format-level failure. It matches both its Kind
// sentinel and the underlying cause with errors.Is.
type ParseError struct {
	Format string
	Kind   error
	Cause  error
}

func (e *ParseError) Error() string {
	if e.Cause == nil {
		return fmt.Sprintf("parse %s: %v", e.Format, e.Kind)
	}

	return fmt.Sprintf("parse %s: %v: %v", e.Format, e.Kind, e.Cause)
}

func (e *ParseError) Unwrap() []error {
	if e.Cause == nil {
		return []error{e.Kind}
	}

	return []error{e.Kind, e.Cause}
}

// NewParseError builds a ParseError for the given format.
func NewParseError(format string, kind, cause error) *ParseError {
	return &ParseError{Format: format, Kind: kind, Cause: cause}
}
