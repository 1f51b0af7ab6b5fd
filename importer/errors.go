package importer

import "fmt"

// RowError is an error used to encode when a single input row
// could not be parsed
type RowError struct {
	Line   int
	Column string
	Reason error
}

// NewRowError constructs a new RowError
func NewRowError(line int, column string, reason error) *RowError {
	return &RowError{
		Line:   line,
		Column: column,
		Reason: reason,
	}
}

func (e *RowError) Error() string {
	if e.Column == "" {
		return fmt.Sprintf("line %d: %s", e.Line, e.Reason)
	}
	return fmt.Sprintf("line %d, column '%s': %s", e.Line, e.Column, e.Reason)
}

func (e *RowError) Unwrap() error {
	return e.Reason
}
