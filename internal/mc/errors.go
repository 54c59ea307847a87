package mc

import (
	"errors"
	"fmt"
)

var (
	// ErrHeaderNotFound indicates a required header marker never appeared in the input.
	ErrHeaderNotFound = errors.New("header not found")
	// ErrMalformedBlock indicates a header block does not tokenize into complete key/value pairs.
	ErrMalformedBlock = errors.New("malformed header block")
	// ErrMalformedDeclaration indicates a severity or facility declaration has the wrong shape.
	ErrMalformedDeclaration = errors.New("malformed declaration")
	// ErrUnknownName indicates a record references a severity or facility that was never declared.
	ErrUnknownName = errors.New("unknown name")
	// ErrMissingMessageID indicates a record lacks a resolvable numeric id.
	ErrMissingMessageID = errors.New("missing message id")
	// ErrInvalidErrorCode indicates id, severity or facility exceed their bit-width budget.
	ErrInvalidErrorCode = errors.New("invalid error code")
)

// ParseError ties a failure to the input that caused it. Line is the
// zero-based index of the line being decoded when the parse stopped;
// Text is the raw text under examination.
type ParseError struct {
	Line int
	Text string
	Err  error
}

func (e *ParseError) Error() string {
	if e.Text == "" {
		return fmt.Sprintf("line %d: %v", e.Line+1, e.Err)
	}
	return fmt.Sprintf("line %d: %v: %q", e.Line+1, e.Err, e.Text)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

func parseErr(line int, text string, err error) *ParseError {
	return &ParseError{Line: line, Text: text, Err: err}
}
