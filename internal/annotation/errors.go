package annotation

import (
	"errors"
	"fmt"
)

// ErrMalformed indicates a recognized annotation carried a numeric field that
// could not be parsed.
var ErrMalformed = errors.New("annotation: malformed numeric field")

// ErrUnknownDialect indicates a dialect name outside the supported set.
var ErrUnknownDialect = errors.New("annotation: unknown dialect")

// FormatError reports a malformed numeric field inside a recognized grammar.
// It matches ErrMalformed with errors.Is.
type FormatError struct {
	Dialect Dialect
	Field   string
	Value   string
	Text    string
	Err     error
}

func (e *FormatError) Error() string {
	return fmt.Sprintf("annotation: %s comment %q: malformed %s %q: %v",
		e.Dialect, e.Text, e.Field, e.Value, e.Err)
}

// Unwrap returns the underlying conversion error.
func (e *FormatError) Unwrap() error {
	return e.Err
}

// Is reports whether target is ErrMalformed.
func (e *FormatError) Is(target error) bool {
	return target == ErrMalformed
}

func malformed(d Dialect, field, value, text string, err error) *FormatError {
	return &FormatError{Dialect: d, Field: field, Value: value, Text: text, Err: err}
}
