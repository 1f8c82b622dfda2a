package nutrition

import (
	"fmt"
	"strings"
)

// ValidationError describes an ingredient record that cannot be used.
type ValidationError struct {
	Name   string
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	name := strings.TrimSpace(e.Name)
	if name == "" {
		name = "<unnamed>"
	}
	return fmt.Sprintf("ingredient %q: %s: %s", name, e.Field, e.Reason)
}

// ErrorKind classifies the error for callers that map errors to exit codes.
func (e *ValidationError) ErrorKind() string { return "validation" }

// DuplicateIngredientError is returned when a catalog requires unique names
// and two records share a key.
type DuplicateIngredientError struct {
	Name string
}

func (e *DuplicateIngredientError) Error() string {
	return fmt.Sprintf("duplicate ingredient %q", e.Name)
}

// ErrorKind classifies the error for callers that map errors to exit codes.
func (e *DuplicateIngredientError) ErrorKind() string { return "validation" }
