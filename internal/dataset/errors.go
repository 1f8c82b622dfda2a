package dataset

import "fmt"

// ParseError points at the cell of a table that could not be decoded.
type ParseError struct {
	Path   string
	Line   int
	Column string
	Err    error
}

func (e *ParseError) Error() string {
	if e.Column == "" {
		return fmt.Sprintf("%s:%d: %v", e.Path, e.Line, e.Err)
	}
	return fmt.Sprintf("%s:%d: column %q: %v", e.Path, e.Line, e.Column, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// ErrorKind classifies the error for callers that map errors to exit codes.
func (e *ParseError) ErrorKind() string { return "validation" }
