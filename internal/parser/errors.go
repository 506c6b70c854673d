package parser

import (
	"errors"
	"fmt"
)

var (
	// ErrMalformedDocument is returned when an input cannot be turned into a
	// document body at all. It is fatal for that document only.
	ErrMalformedDocument = errors.New("malformed document")

	// ErrUnsupportedFormat is returned for unrecognized file formats.
	ErrUnsupportedFormat = errors.New("unsupported document format")
)

// MalformedError describes why a document could not be parsed.
type MalformedError struct {
	Path   string
	Reason string
	Err    error
}

func (e *MalformedError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("malformed document %s: %s: %v", e.Path, e.Reason, e.Err)
	}
	return fmt.Sprintf("malformed document %s: %s", e.Path, e.Reason)
}

func (e *MalformedError) Unwrap() error {
	return e.Err
}

// Is reports ErrMalformedDocument as matching so callers can use errors.Is.
func (e *MalformedError) Is(target error) bool {
	return target == ErrMalformedDocument
}

// Malformed creates a new MalformedError.
func Malformed(path, reason string, err error) *MalformedError {
	return &MalformedError{
		Path:   path,
		Reason: reason,
		Err:    err,
	}
}
