package commit

import (
	"errors"
	"fmt"
)

// Domain errors for commit message operations.
var (
	// ErrInvalidFormat indicates the header does not follow the
	// type(scope)!: description grammar.
	ErrInvalidFormat = errors.New("invalid conventional commit header")

	// ErrEmptyMessage indicates the raw message has no header line.
	ErrEmptyMessage = errors.New("commit message is empty")

	// ErrInvalidFooter indicates a line that is not "Token: value" or
	// "Token #value".
	ErrInvalidFooter = errors.New("invalid footer")

	// ErrInvalidReleaseType indicates an unrecognized release type.
	ErrInvalidReleaseType = errors.New("invalid release type")
)

// ParseError describes where header scanning stopped.
type ParseError struct {
	// Offset is the byte offset into the header line.
	Offset int
	// Reason says what the scanner expected at Offset.
	Reason string
	err    error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("%v at offset %d: %s", e.err, e.Offset, e.Reason)
}

// Unwrap returns the sentinel error.
func (e *ParseError) Unwrap() error {
	return e.err
}

func formatError(offset int, reason string) *ParseError {
	return &ParseError{Offset: offset, Reason: reason, err: ErrInvalidFormat}
}
